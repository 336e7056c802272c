// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/your-org/perfume-shop/internal/pkg/money"
)

// SessionCart represents a guest session cart stored in Redis
type SessionCart struct {
	SessionID string            `json:"session_id"`
	Items     []SessionCartItem `json:"items"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// SessionCartItem represents an item in a session cart. Name, brand, price
// and image are display snapshots captured when the item was added; checkout
// re-resolves the perfume and charges the live price.
type SessionCartItem struct {
	PerfumeID uint      `json:"perfume_id"`
	Name      string    `json:"name"`
	Brand     string    `json:"brand"`
	Price     int64     `json:"price"` // snapshot price in cents
	ImageURL  string    `json:"image_url"`
	Quantity  int       `json:"quantity"`
	AddedAt   time.Time `json:"added_at"`
}

// CartTotals represents computed cart totals
type CartTotals struct {
	ItemCount       int    `json:"item_count"`
	Subtotal        int64  `json:"subtotal"` // in cents
	SubtotalDisplay string `json:"subtotal_display"`
}

// IsEmpty reports whether the cart has no items
func (c *SessionCart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Totals computes item count and subtotal from snapshot prices
func (c *SessionCart) Totals() CartTotals {
	var totals CartTotals
	for _, item := range c.Items {
		totals.ItemCount += item.Quantity
		totals.Subtotal += item.Price * int64(item.Quantity)
	}
	totals.SubtotalDisplay = money.FormatAmount(totals.Subtotal)
	return totals
}
