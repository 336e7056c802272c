// internal/domain/cart/service_test.go
package cart

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/perfume-shop/internal/config"
	"github.com/your-org/perfume-shop/internal/domain/catalog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupCartTest(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Category{}, &catalog.Perfume{}))

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		Cart: config.CartConfig{TTL: 24 * time.Hour, SessionCookie: "cart_session"},
	}

	return NewService(db, redisClient, cfg), db
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

func TestService_AddToCart(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, _ := seedPerfumes(t, db)

	resp, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, rose.ID, resp.Items[0].PerfumeID)
	assert.Equal(t, 2, resp.Items[0].Quantity)
	assert.Equal(t, "Rose Garden", resp.Items[0].Name)
	assert.Equal(t, int64(1000), resp.Items[0].Price)

	// Adding again increments, does not duplicate
	resp, err = svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 3, resp.Items[0].Quantity)
}

func TestService_AddToCart_UnknownPerfume(t *testing.T) {
	svc, _ := setupCartTest(t)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: 999, Quantity: 1})
	assert.ErrorIs(t, err, catalog.ErrPerfumeNotFound)
}

func TestService_Totals(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, oud := seedPerfumes(t, db)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 2})
	require.NoError(t, err)
	resp, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: oud.ID, Quantity: 1})
	require.NoError(t, err)

	// 2 x 1000 + 1 x 2500, totals follow snapshot prices
	assert.Equal(t, 3, resp.Totals.ItemCount)
	assert.Equal(t, int64(4500), resp.Totals.Subtotal)
}

func TestService_UpdateCartItem(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, _ := seedPerfumes(t, db)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 2})
	require.NoError(t, err)

	resp, err := svc.UpdateCartItem("sess-1", rose.ID, &UpdateCartItemRequest{Quantity: 5})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Items[0].Quantity)

	// Zero quantity removes the item
	resp, err = svc.UpdateCartItem("sess-1", rose.ID, &UpdateCartItemRequest{Quantity: 0})
	require.NoError(t, err)
	assert.Empty(t, resp.Items)

	_, err = svc.UpdateCartItem("sess-1", rose.ID, &UpdateCartItemRequest{Quantity: 1})
	assert.ErrorIs(t, err, ErrItemNotInCart)
}

func TestService_RemoveAndClear(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, oud := seedPerfumes(t, db)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 1})
	require.NoError(t, err)
	_, err = svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: oud.ID, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.RemoveFromCart("sess-1", rose.ID)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, oud.ID, resp.Items[0].PerfumeID)

	// Removing something the cart never held is a no-op
	resp, err = svc.RemoveFromCart("sess-1", 999)
	require.NoError(t, err)
	require.Len(t, resp.Items, 1)

	require.NoError(t, svc.ClearCart("sess-1"))

	resp, err = svc.GetCart("sess-1")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}

func TestService_SnapshotSurvivesPriceChange(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, _ := seedPerfumes(t, db)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 1})
	require.NoError(t, err)

	// Catalog price changes after the item was added
	require.NoError(t, db.Model(&catalog.Perfume{}).Where("id = ?", rose.ID).Update("price", 9999).Error)

	resp, err := svc.GetCart("sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), resp.Items[0].Price)
	assert.Equal(t, int64(1000), resp.Totals.Subtotal)
}

func TestService_GetCartItemCount(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, _ := seedPerfumes(t, db)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 3})
	require.NoError(t, err)

	count, err := svc.GetCartItemCount("sess-1")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestService_GetCartItemCount_RedisDown(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	redisClient := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { redisClient.Close() })

	cfg := &config.Config{
		Cart: config.CartConfig{TTL: 24 * time.Hour, SessionCookie: "cart_session"},
	}
	svc := NewService(db, redisClient, cfg)

	mr.Close()

	_, err = svc.GetCartItemCount("sess-1")
	assert.Error(t, err)
}

func TestService_SessionIsolation(t *testing.T) {
	svc, db := setupCartTest(t)
	rose, _ := seedPerfumes(t, db)

	_, err := svc.AddToCart("sess-1", &AddToCartRequest{PerfumeID: rose.ID, Quantity: 1})
	require.NoError(t, err)

	resp, err := svc.GetCart("sess-2")
	require.NoError(t, err)
	assert.Empty(t, resp.Items)
}
