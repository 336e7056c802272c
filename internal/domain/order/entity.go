// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/your-org/perfume-shop/internal/pkg/money"
)

// OrderStatus represents order status
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// IsValid reports whether the status is a member of the fixed status set
func (s OrderStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Order represents a placed order
type Order struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	UserID          uint        `gorm:"not null;index" json:"user_id"`
	Status          OrderStatus `gorm:"not null;default:'pending';size:20" json:"status"`
	TotalAmount     int64       `gorm:"not null" json:"total_amount"` // in cents, fixed at creation
	FirstName       string      `gorm:"not null;size:100" json:"first_name"`
	LastName        string      `gorm:"not null;size:100" json:"last_name"`
	Phone           string      `gorm:"not null;size:30" json:"phone"`
	ShippingAddress string      `gorm:"not null;size:500" json:"shipping_address"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem represents a line item of an order. Perfume name and brand are
// copied at purchase time so order history survives catalog deletions.
type OrderItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	PerfumeID    uint      `gorm:"not null;index" json:"perfume_id"`
	PerfumeName  string    `gorm:"not null;size:255" json:"perfume_name"`
	PerfumeBrand string    `gorm:"not null;size:255" json:"perfume_brand"`
	Quantity     int       `gorm:"not null" json:"quantity"`
	Price        int64     `gorm:"not null" json:"price"` // unit price at purchase, in cents
	CreatedAt    time.Time `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }

// GetFormattedTotal renders the order total as a decimal string
func (o *Order) GetFormattedTotal() string {
	return money.FormatAmount(o.TotalAmount)
}
