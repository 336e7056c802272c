// internal/domain/catalog/entity.go
package catalog

import (
	"time"

	"github.com/your-org/perfume-shop/internal/pkg/money"
)

// Perfume represents a perfume in the catalog
type Perfume struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"not null;size:255;index" json:"name"`
	Brand          string    `gorm:"not null;size:255;index" json:"brand"`
	Description    string    `gorm:"type:text" json:"description"`
	Price          int64     `gorm:"not null" json:"price"` // Price in cents
	Stock          int       `gorm:"not null;default:0" json:"stock"`
	ImageURL       string    `gorm:"size:500" json:"image_url"`
	CategoryID     uint      `gorm:"not null;index" json:"category_id"`
	Volume         string    `gorm:"size:50" json:"volume"` // e.g. "100ml"
	Concentration  string    `gorm:"size:100" json:"concentration"`
	FragranceNotes string    `gorm:"type:text" json:"fragrance_notes"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Relationships
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"category"`
}

// Category represents a fragrance family
type Category struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null;size:255" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Perfumes []Perfume `gorm:"foreignKey:CategoryID" json:"perfumes,omitempty"`
}

// TableName overrides
func (Perfume) TableName() string  { return "perfumes" }
func (Category) TableName() string { return "categories" }

// Business methods for Perfume
func (p *Perfume) IsInStock() bool {
	return p.Stock > 0
}

func (p *Perfume) IsLowStock(threshold int) bool {
	return p.Stock < threshold
}

// GetFormattedPrice renders the price as a decimal string, e.g. "85.00"
func (p *Perfume) GetFormattedPrice() string {
	return money.FormatAmount(p.Price)
}
