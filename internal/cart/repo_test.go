package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

func setupCartTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	carts := `
CREATE TABLE IF NOT EXISTS carts (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL UNIQUE,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  decoration_id TEXT NOT NULL,
  type TEXT NOT NULL DEFAULT 'custom',
  quantity INTEGER NOT NULL,
  base_price_idr INTEGER NOT NULL,
  discount_percent INTEGER NOT NULL DEFAULT 0,
  price_idr INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(carts).Error)
	require.NoError(t, db.Exec(items).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM cart_items")
		db.Exec("DELETE FROM carts")
	})

	return db
}

func seedCart(t *testing.T, db *gorm.DB, userID uuid.UUID) *models.Cart {
	t.Helper()
	cart := &models.Cart{ID: uuid.New(), UserID: userID}
	require.NoError(t, db.Create(cart).Error)
	return cart
}

func seedCartItem(t *testing.T, db *gorm.DB, cartID uuid.UUID, quantity int) *models.CartItem {
	t.Helper()
	item := &models.CartItem{
		ID:              uuid.New(),
		CartID:          cartID,
		DecorationID:    uuid.New(),
		Type:            enums.OrderItemTypeCustom,
		Quantity:        quantity,
		BasePriceIDR:    5_000_000,
		DiscountPercent: 10,
		PriceIDR:        4_500_000,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func TestFindByUserPreloadsItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	userID := uuid.New()
	cart := seedCart(t, db, userID)
	seedCartItem(t, db, cart.ID, 1)
	seedCartItem(t, db, cart.ID, 2)

	found, err := repo.FindByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, found.ID)
	assert.Len(t, found.Items, 2)
}

func TestFindByUserMissingCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByUser(context.Background(), uuid.New())
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestUpdateItemQuantity(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	cart := seedCart(t, db, uuid.New())
	item := seedCartItem(t, db, cart.ID, 1)

	require.NoError(t, repo.UpdateItemQuantity(context.Background(), item.ID, 4))

	var reloaded models.CartItem
	require.NoError(t, db.First(&reloaded, "id = ?", item.ID).Error)
	assert.Equal(t, 4, reloaded.Quantity)

	err := repo.UpdateItemQuantity(context.Background(), uuid.New(), 4)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestRemoveItemScopedToCart(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	cart := seedCart(t, db, uuid.New())
	other := seedCart(t, db, uuid.New())
	item := seedCartItem(t, db, cart.ID, 1)

	// Removing through another cart's id must not touch the row.
	err := repo.RemoveItem(context.Background(), other.ID, item.ID)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))

	require.NoError(t, repo.RemoveItem(context.Background(), cart.ID, item.ID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestClearRemovesAllItems(t *testing.T) {
	db := setupCartTestDB(t)
	repo := NewRepository(db)

	cart := seedCart(t, db, uuid.New())
	seedCartItem(t, db, cart.ID, 1)
	seedCartItem(t, db, cart.ID, 3)

	require.NoError(t, repo.Clear(context.Background(), cart.ID))

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).Where("cart_id = ?", cart.ID).Count(&count).Error)
	assert.Zero(t, count)
}
