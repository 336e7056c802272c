// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"github.com/your-org/perfume-shop/internal/domain/order"
	"github.com/your-org/perfume-shop/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations and seeding
type Migration struct {
	db     *gorm.DB
	config *config.Config
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, cfg *config.Config) *Migration {
	return &Migration{
		db:     db,
		config: cfg,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: categories before perfumes, orders before items
	models := []interface{}{
		&user.User{},
		&catalog.Category{},
		&catalog.Perfume{},
		&order.Order{},
		&order.OrderItem{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates additional indexes for common query paths
func (m *Migration) CreateIndexes() error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_perfumes_category_created ON perfumes(category_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_perfumes_stock ON perfumes(stock)",
		"CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders(user_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_items_order ON order_items(order_id)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	return nil
}

// SeedInitialData inserts the default admin account and fragrance categories
func (m *Migration) SeedInitialData() error {
	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedCategories(); err != nil {
		return fmt.Errorf("failed to seed categories: %w", err)
	}
	return nil
}

// SeedSamplePerfumes inserts a small demo catalog for development
func (m *Migration) SeedSamplePerfumes() error {
	var count int64
	m.db.Model(&catalog.Perfume{}).Count(&count)
	if count > 0 {
		log.Println("Sample perfumes already present, skipping")
		return nil
	}

	categoryIDs := map[string]uint{}
	var categories []catalog.Category
	if err := m.db.Find(&categories).Error; err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	for _, c := range categories {
		categoryIDs[c.Name] = c.ID
	}

	samples := []catalog.Perfume{
		{
			Name: "Rose Élégante", Brand: "Maison Lumière",
			Description:    "A romantic bouquet of Damascus rose and peony over a soft musk base.",
			Price:          8500, Stock: 25, CategoryID: categoryIDs["Floral"],
			Volume: "100ml", Concentration: "Eau de Parfum",
			FragranceNotes: "Damascus rose, peony, white musk",
		},
		{
			Name: "Ambre Nuit", Brand: "Maison Lumière",
			Description:    "Warm amber and vanilla wrapped in smoky incense.",
			Price:          12000, Stock: 15, CategoryID: categoryIDs["Oriental"],
			Volume: "75ml", Concentration: "Parfum",
			FragranceNotes: "Amber, vanilla, incense, labdanum",
		},
		{
			Name: "Cedar Trail", Brand: "Nordwald",
			Description:    "Dry cedarwood sharpened with vetiver and black pepper.",
			Price:          7800, Stock: 30, CategoryID: categoryIDs["Woody"],
			Volume: "100ml", Concentration: "Eau de Toilette",
			FragranceNotes: "Cedarwood, vetiver, black pepper",
		},
		{
			Name: "Marine Breeze", Brand: "Nordwald",
			Description:    "Crisp citrus and sea salt with a clean aquatic finish.",
			Price:          6500, Stock: 40, CategoryID: categoryIDs["Fresh"],
			Volume: "100ml", Concentration: "Eau de Toilette",
			FragranceNotes: "Bergamot, sea salt, mint",
		},
	}

	for _, p := range samples {
		if p.CategoryID == 0 {
			continue
		}
		if err := m.db.Create(&p).Error; err != nil {
			return fmt.Errorf("failed to create sample perfume %s: %w", p.Name, err)
		}
		log.Printf("Created sample perfume: %s", p.Name)
	}

	return nil
}

func (m *Migration) seedAdminUser() error {
	seed := m.config.Seed

	var existing user.User
	result := m.db.Where("username = ?", seed.AdminUsername).First(&existing)
	if result.Error == nil {
		log.Printf("Admin user already exists with ID: %d", existing.ID)
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(seed.AdminPassword), m.config.Security.BcryptCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Username: seed.AdminUsername,
		Email:    seed.AdminEmail,
		Password: string(hashedPassword),
		IsAdmin:  true,
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Printf("Created admin user: %s", seed.AdminUsername)
	return nil
}

func (m *Migration) seedCategories() error {
	categories := []catalog.Category{
		{Name: "Floral", Description: "Rose, jasmine and other flower-forward compositions"},
		{Name: "Oriental", Description: "Amber, vanilla and spice"},
		{Name: "Woody", Description: "Cedar, sandalwood, vetiver and oud"},
		{Name: "Fresh", Description: "Citrus, aquatic and green fragrances"},
	}

	for _, category := range categories {
		var existing catalog.Category
		result := m.db.Where("name = ?", category.Name).First(&existing)
		if result.Error != nil {
			if err := m.db.Create(&category).Error; err != nil {
				return err
			}
			log.Printf("Created category: %s", category.Name)
		}
	}

	return nil
}
