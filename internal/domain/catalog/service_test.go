// internal/domain/catalog/service_test.go
package catalog

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfume-shop/internal/config"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Category{}, &Perfume{}))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Catalog: config.CatalogConfig{
			FeaturedLimit:     6,
			RelatedLimit:      4,
			LowStockThreshold: 10,
		},
	}
}

func seedCatalog(t *testing.T, db *gorm.DB) (Category, Category) {
	t.Helper()
	floral := Category{Name: "Floral", Description: "Floral fragrances"}
	woody := Category{Name: "Woody", Description: "Woody fragrances"}
	require.NoError(t, db.Create(&floral).Error)
	require.NoError(t, db.Create(&woody).Error)

	perfumes := []Perfume{
		{Name: "Rose Garden", Brand: "Maison Lumière", Description: "A classic rose", Price: 8500, Stock: 20, CategoryID: floral.ID},
		{Name: "Jasmine Night", Brand: "Maison Lumière", Description: "Night blooming jasmine", Price: 9200, Stock: 5, CategoryID: floral.ID},
		{Name: "Cedar Trail", Brand: "Nordwald", Description: "Dry cedar and vetiver", Price: 7800, Stock: 12, CategoryID: woody.ID},
	}
	for i := range perfumes {
		require.NoError(t, db.Create(&perfumes[i]).Error)
	}
	return floral, woody
}

func TestService_GetPerfumes_CategoryFilter(t *testing.T) {
	db := setupTestDB(t)
	floral, _ := seedCatalog(t, db)
	svc := NewService(db, testConfig())

	resp, err := svc.GetPerfumes(&PerfumeListRequest{Page: 1, Limit: 20, CategoryID: floral.ID})
	require.NoError(t, err)
	assert.Len(t, resp.Perfumes, 2)
	for _, p := range resp.Perfumes {
		assert.Equal(t, floral.ID, p.CategoryID)
	}
	assert.Equal(t, int64(2), resp.Pagination.Total)
}

func TestService_GetPerfumes_Search(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, testConfig())

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"matches_name", "rose", 1},
		{"matches_brand", "nordwald", 1},
		{"matches_description", "vetiver", 1},
		{"case_insensitive", "JASMINE", 1},
		{"no_match", "citrus", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetPerfumes(&PerfumeListRequest{Page: 1, Limit: 20, Search: tt.search})
			require.NoError(t, err)
			assert.Len(t, resp.Perfumes, tt.want)
		})
	}
}

func TestService_GetPerfumes_Pagination(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, testConfig())

	resp, err := svc.GetPerfumes(&PerfumeListRequest{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Perfumes, 2)
	assert.Equal(t, int64(3), resp.Pagination.Total)
	assert.Equal(t, 2, resp.Pagination.TotalPages)
	assert.True(t, resp.Pagination.HasNext)
	assert.False(t, resp.Pagination.HasPrev)

	resp, err = svc.GetPerfumes(&PerfumeListRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, resp.Perfumes, 1)
	assert.False(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestService_GetPerfume_NotFound(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db, testConfig())

	_, err := svc.GetPerfume(999)
	assert.ErrorIs(t, err, ErrPerfumeNotFound)
}

func TestService_GetRelatedPerfumes(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, testConfig())

	var rose Perfume
	require.NoError(t, db.Where("name = ?", "Rose Garden").First(&rose).Error)

	related, err := svc.GetRelatedPerfumes(&rose)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "Jasmine Night", related[0].Name)
	assert.Equal(t, rose.CategoryID, related[0].CategoryID)
}

func TestService_GetLowStockPerfumes(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, testConfig())

	low, err := svc.GetLowStockPerfumes()
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "Jasmine Night", low[0].Name)
}

func TestService_CreatePerfume(t *testing.T) {
	db := setupTestDB(t)
	floral, _ := seedCatalog(t, db)
	svc := NewService(db, testConfig())

	perfume, err := svc.CreatePerfume(&PerfumeCreateRequest{
		Name:          "Iris Poudrée",
		Brand:         "Maison Lumière",
		Price:         "110.00",
		Stock:         8,
		CategoryID:    floral.ID,
		Volume:        "50ml",
		Concentration: "Eau de Parfum",
	})
	require.NoError(t, err)
	assert.NotZero(t, perfume.ID)
	assert.Equal(t, int64(11000), perfume.Price)
	assert.Equal(t, "Floral", perfume.Category.Name)

	_, err = svc.CreatePerfume(&PerfumeCreateRequest{
		Name: "Ghost", Brand: "Nobody", Price: "1.00", CategoryID: 999,
	})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestService_CreatePerfume_InvalidPrice(t *testing.T) {
	db := setupTestDB(t)
	floral, _ := seedCatalog(t, db)
	svc := NewService(db, testConfig())

	for _, bad := range []string{"abc", "-5.00", "10.999"} {
		_, err := svc.CreatePerfume(&PerfumeCreateRequest{
			Name: "Iris", Brand: "Maison Lumière", Price: bad, CategoryID: floral.ID,
		})
		assert.ErrorIs(t, err, ErrInvalidPrice, "price %q", bad)
	}
}

func TestService_UpdatePerfume_ReplacesAllFields(t *testing.T) {
	db := setupTestDB(t)
	_, woody := seedCatalog(t, db)
	svc := NewService(db, testConfig())

	var rose Perfume
	require.NoError(t, db.Where("name = ?", "Rose Garden").First(&rose).Error)

	updated, err := svc.UpdatePerfume(rose.ID, &PerfumeUpdateRequest{
		Name:       "Rose Garden Intense",
		Brand:      "Maison Lumière",
		Price:      "99.00",
		Stock:      15,
		CategoryID: woody.ID,
		Volume:     "100ml",
	})
	require.NoError(t, err)

	assert.Equal(t, "Rose Garden Intense", updated.Name)
	assert.Equal(t, int64(9900), updated.Price)
	assert.Equal(t, 15, updated.Stock)
	assert.Equal(t, woody.ID, updated.CategoryID)
	// Description not sent in the replace request is cleared
	assert.Equal(t, "", updated.Description)

	_, err = svc.UpdatePerfume(rose.ID, &PerfumeUpdateRequest{
		Name: "Rose", Brand: "Maison Lumière", Price: "oops", CategoryID: woody.ID,
	})
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestService_DeletePerfume(t *testing.T) {
	db := setupTestDB(t)
	seedCatalog(t, db)
	svc := NewService(db, testConfig())

	var rose Perfume
	require.NoError(t, db.Where("name = ?", "Rose Garden").First(&rose).Error)

	require.NoError(t, svc.DeletePerfume(rose.ID))

	_, err := svc.GetPerfume(rose.ID)
	assert.ErrorIs(t, err, ErrPerfumeNotFound)

	assert.ErrorIs(t, svc.DeletePerfume(rose.ID), ErrPerfumeNotFound)
}

func TestCategoryService_CreateAndList(t *testing.T) {
	db := setupTestDB(t)
	svc := NewCategoryService(db)

	created, err := svc.CreateCategory(&CategoryCreateRequest{Name: "Oriental", Description: "Amber and spice"})
	require.NoError(t, err)
	assert.NotZero(t, created.ID)

	_, err = svc.CreateCategory(&CategoryCreateRequest{Name: "Oriental"})
	assert.Error(t, err)

	categories, err := svc.GetCategories()
	require.NoError(t, err)
	assert.Len(t, categories, 1)
}
