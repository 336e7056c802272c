// internal/domain/order/service_test.go
package order

import (
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/cart"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupOrderTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Category{}, &catalog.Perfume{}, &Order{}, &OrderItem{}))
	return NewService(db, &config.Config{}), db
}

func seedPerfumes(t *testing.T, db *gorm.DB) (catalog.Perfume, catalog.Perfume) {
	t.Helper()
	cat := catalog.Category{Name: "Floral"}
	require.NoError(t, db.Create(&cat).Error)

	rose := catalog.Perfume{Name: "Rose Garden", Brand: "Maison Lumière", Price: 1000, Stock: 10, CategoryID: cat.ID}
	oud := catalog.Perfume{Name: "Oud Royal", Brand: "Nordwald", Price: 2500, Stock: 3, CategoryID: cat.ID}
	require.NoError(t, db.Create(&rose).Error)
	require.NoError(t, db.Create(&oud).Error)
	return rose, oud
}

func cartWith(items ...cart.SessionCartItem) *cart.SessionCart {
	return &cart.SessionCart{
		SessionID: "sess-1",
		Items:     items,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
}

func shipping() *ShippingInfo {
	return &ShippingInfo{
		FirstName: "Amina",
		LastName:  "Bensaid",
		Phone:     "+213555000111",
		Address:   "12 Rue Didouche Mourad, Algiers",
	}
}

func stockOf(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var p catalog.Perfume
	require.NoError(t, db.First(&p, id).Error)
	return p.Stock
}

func TestService_Checkout_EmptyCart(t *testing.T) {
	svc, db := setupOrderTest(t)
	seedPerfumes(t, db)

	_, err := svc.Checkout(1, cartWith(), shipping())
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = svc.Checkout(1, nil, shipping())
	assert.ErrorIs(t, err, ErrEmptyCart)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestService_Checkout_Success(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, oud := seedPerfumes(t, db)

	order, err := svc.Checkout(7, cartWith(
		cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 2},
		cart.SessionCartItem{PerfumeID: oud.ID, Name: oud.Name, Price: oud.Price, Quantity: 1},
	), shipping())
	require.NoError(t, err)

	assert.Equal(t, StatusPending, order.Status)
	assert.Equal(t, uint(7), order.UserID)
	assert.Equal(t, int64(4500), order.TotalAmount)
	require.Len(t, order.Items, 2)

	assert.Equal(t, 8, stockOf(t, db, rose.ID))
	assert.Equal(t, 2, stockOf(t, db, oud.ID))

	// Denormalized name and brand stored on the items
	var items []OrderItem
	require.NoError(t, db.Where("order_id = ?", order.ID).Order("id").Find(&items).Error)
	assert.Equal(t, "Rose Garden", items[0].PerfumeName)
	assert.Equal(t, "Maison Lumière", items[0].PerfumeBrand)
	assert.Equal(t, int64(1000), items[0].Price)
}

func TestService_Checkout_ChargesLivePrice(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, _ := seedPerfumes(t, db)

	// Cart snapshot holds the old price; catalog price has since changed
	require.NoError(t, db.Model(&catalog.Perfume{}).Where("id = ?", rose.ID).Update("price", 1200).Error)

	order, err := svc.Checkout(1, cartWith(
		cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: 1000, Quantity: 1},
	), shipping())
	require.NoError(t, err)
	assert.Equal(t, int64(1200), order.TotalAmount)
	assert.Equal(t, int64(1200), order.Items[0].Price)
}

func TestService_Checkout_MissingPerfumeAbortsAll(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, oud := seedPerfumes(t, db)

	// Oud was deleted from the catalog after being added to the cart
	require.NoError(t, db.Delete(&catalog.Perfume{}, oud.ID).Error)

	_, err := svc.Checkout(1, cartWith(
		cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 2},
		cart.SessionCartItem{PerfumeID: oud.ID, Name: oud.Name, Price: oud.Price, Quantity: 1},
	), shipping())

	var unavailable *PerfumeUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, oud.ID, unavailable.PerfumeID)

	// Nothing committed: no order, rose stock untouched
	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 10, stockOf(t, db, rose.ID))
}

func TestService_Checkout_InsufficientStockAbortsAll(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, oud := seedPerfumes(t, db)

	_, err := svc.Checkout(1, cartWith(
		cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 2},
		cart.SessionCartItem{PerfumeID: oud.ID, Name: oud.Name, Price: oud.Price, Quantity: 5},
	), shipping())

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "Oud Royal", insufficient.Name)
	assert.Equal(t, 5, insufficient.Requested)
	assert.Equal(t, 3, insufficient.Available)

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Zero(t, count)
	assert.Equal(t, 10, stockOf(t, db, rose.ID))
	assert.Equal(t, 3, stockOf(t, db, oud.ID))
}

func TestService_Checkout_LastUnitSingleWinner(t *testing.T) {
	svc, db := setupOrderTest(t)
	_, oud := seedPerfumes(t, db)
	require.NoError(t, db.Model(&catalog.Perfume{}).Where("id = ?", oud.ID).Update("stock", 1).Error)

	buy := cartWith(cart.SessionCartItem{PerfumeID: oud.ID, Name: oud.Name, Price: oud.Price, Quantity: 1})

	_, err := svc.Checkout(1, buy, shipping())
	require.NoError(t, err)

	// Second buyer of the same last unit is rejected
	_, err = svc.Checkout(2, buy, shipping())
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 0, stockOf(t, db, oud.ID))

	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestService_Checkout_ConcurrentLastUnit(t *testing.T) {
	svc, db := setupOrderTest(t)
	_, oud := seedPerfumes(t, db)
	require.NoError(t, db.Model(&catalog.Perfume{}).Where("id = ?", oud.ID).Update("stock", 1).Error)

	// One shared connection so both transactions hit the same in-memory
	// database and serialize on it
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	buy := func() *cart.SessionCart {
		return cartWith(cart.SessionCartItem{PerfumeID: oud.ID, Name: oud.Name, Price: oud.Price, Quantity: 1})
	}

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for userID := uint(1); userID <= 2; userID++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			_, err := svc.Checkout(userID, buy(), shipping())
			errs <- err
		}(userID)
	}
	wg.Wait()
	close(errs)

	var failures []error
	for err := range errs {
		if err != nil {
			failures = append(failures, err)
		}
	}

	// Exactly one buyer wins the last unit
	require.Len(t, failures, 1)
	var insufficient *InsufficientStockError
	assert.ErrorAs(t, failures[0], &insufficient)

	assert.Equal(t, 0, stockOf(t, db, oud.ID))
	var count int64
	require.NoError(t, db.Model(&Order{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestService_UpdateStatus(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, _ := seedPerfumes(t, db)

	order, err := svc.Checkout(1, cartWith(
		cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 1},
	), shipping())
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(order.ID, StatusShipped)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, updated.Status)

	// Invalid status is rejected and the stored status stays unchanged
	_, err = svc.UpdateStatus(order.ID, OrderStatus("teleported"))
	assert.ErrorIs(t, err, ErrInvalidStatus)

	stored, err := svc.GetOrder(order.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusShipped, stored.Status)

	_, err = svc.UpdateStatus(999, StatusShipped)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_GetOrders_FilterAndOrdering(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, _ := seedPerfumes(t, db)

	item := cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 1}
	first, err := svc.Checkout(1, cartWith(item), shipping())
	require.NoError(t, err)
	second, err := svc.Checkout(2, cartWith(item), shipping())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(first.ID, StatusDelivered)
	require.NoError(t, err)

	resp, err := svc.GetOrders(&OrderListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 2)
	assert.Equal(t, second.ID, resp.Orders[0].ID)

	resp, err = svc.GetOrders(&OrderListRequest{Page: 1, Limit: 20, Status: StatusDelivered})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, first.ID, resp.Orders[0].ID)

	_, err = svc.GetOrders(&OrderListRequest{Page: 1, Limit: 20, Status: OrderStatus("bogus")})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_GetOrderForUser(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, _ := seedPerfumes(t, db)

	order, err := svc.Checkout(1, cartWith(
		cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 1},
	), shipping())
	require.NoError(t, err)

	got, err := svc.GetOrderForUser(order.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, order.ID, got.ID)

	// Another user cannot fetch it
	_, err = svc.GetOrderForUser(order.ID, 2)
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_GetUserOrders(t *testing.T) {
	svc, db := setupOrderTest(t)
	rose, _ := seedPerfumes(t, db)

	item := cart.SessionCartItem{PerfumeID: rose.ID, Name: rose.Name, Price: rose.Price, Quantity: 1}
	_, err := svc.Checkout(1, cartWith(item), shipping())
	require.NoError(t, err)
	mine, err := svc.Checkout(2, cartWith(item), shipping())
	require.NoError(t, err)

	orders, err := svc.GetUserOrders(2)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)
}
