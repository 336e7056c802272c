// internal/pkg/pdf/service_test.go
package pdf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/order"
)

func testService() *Service {
	return NewService(&config.Config{
		App: config.AppConfig{
			CompanyName:    "Perfume Shop",
			CompanyAddress: "12 Rue des Fleurs, Paris",
			CompanyPhone:   "+33 1 23 45 67 89",
			CompanyEmail:   "orders@perfumeshop.com",
		},
	})
}

func testOrder() *order.Order {
	return &order.Order{
		ID:              42,
		Status:          order.StatusPending,
		TotalAmount:     4500,
		FirstName:       "Amina",
		LastName:        "Bensaid",
		Phone:           "+213 555 010101",
		ShippingAddress: "5 Rue Didouche Mourad, Algiers",
		CreatedAt:       time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Items: []order.OrderItem{
			{PerfumeName: "Rose Garden", PerfumeBrand: "Maison Lumière", Quantity: 2, Price: 1000},
			{PerfumeName: "Oud Royal", PerfumeBrand: "Nordwald", Quantity: 1, Price: 2500},
		},
	}
}

func TestService_BuildInvoiceData(t *testing.T) {
	svc := testService()
	data := svc.buildInvoiceData(testOrder())

	assert.Equal(t, "INV-000042", data.InvoiceNumber)
	assert.Equal(t, "Amina Bensaid", data.CustomerName)
	assert.Equal(t, "45.00", data.Total)

	require.Len(t, data.Items, 2)
	assert.Equal(t, "10.00", data.Items[0].UnitPrice)
	assert.Equal(t, "20.00", data.Items[0].LineTotal)
	assert.Equal(t, "25.00", data.Items[1].LineTotal)
}

func TestService_GenerateHTML(t *testing.T) {
	svc := testService()

	html, err := svc.generateHTML(svc.buildInvoiceData(testOrder()))
	require.NoError(t, err)

	assert.Contains(t, html, "INV-000042")
	assert.Contains(t, html, "Rose Garden")
	assert.Contains(t, html, "Maison Lumière")
	assert.Contains(t, html, "$45.00")
	assert.Contains(t, html, "5 Rue Didouche Mourad, Algiers")
	assert.Contains(t, html, "Perfume Shop")
}
