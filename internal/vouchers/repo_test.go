package vouchers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

func setupVouchersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	vouchers := `
CREATE TABLE IF NOT EXISTS vouchers (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  description TEXT NOT NULL DEFAULT '',
  type TEXT NOT NULL,
  discount_value INTEGER NOT NULL,
  max_discount INTEGER,
  min_purchase INTEGER NOT NULL DEFAULT 0,
  usage_limit INTEGER,
  usage_count INTEGER NOT NULL DEFAULT 0,
  usage_per_user INTEGER NOT NULL DEFAULT 1,
  valid_from DATETIME NOT NULL,
  valid_until DATETIME NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`
	orders := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  order_number TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  first_name TEXT NOT NULL DEFAULT '',
  last_name TEXT NOT NULL DEFAULT '',
  email TEXT NOT NULL DEFAULT '',
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  city TEXT NOT NULL DEFAULT '',
  district TEXT NOT NULL DEFAULT '',
  sub_district TEXT NOT NULL DEFAULT '',
  postal_code TEXT NOT NULL DEFAULT '',
  subtotal_idr INTEGER NOT NULL DEFAULT 0,
  voucher_code TEXT,
  voucher_discount_idr INTEGER NOT NULL DEFAULT 0,
  decoration_discount_idr INTEGER NOT NULL DEFAULT 0,
  delivery_fee_idr INTEGER NOT NULL DEFAULT 0,
  total_idr INTEGER NOT NULL DEFAULT 0,
  payment_type TEXT NOT NULL DEFAULT 'full',
  dp_amount_idr INTEGER NOT NULL DEFAULT 0,
  remaining_amount_idr INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT,
  snap_token TEXT,
  dp_snap_token TEXT,
  remaining_snap_token TEXT,
  dp_paid_at DATETIME,
  full_paid_at DATETIME,
  remaining_paid_at DATETIME,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME
);`

	require.NoError(t, db.Exec(vouchers).Error)
	require.NoError(t, db.Exec(orders).Error)

	t.Cleanup(func() {
		db.Exec("DELETE FROM orders")
		db.Exec("DELETE FROM vouchers")
	})

	return db
}

func seedVoucher(t *testing.T, db *gorm.DB, mutate func(v *models.Voucher)) *models.Voucher {
	t.Helper()
	voucher := &models.Voucher{
		ID:            uuid.New(),
		Code:          "WED10",
		Type:          enums.VoucherTypePercentage,
		DiscountValue: 10,
		UsagePerUser:  1,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
		IsActive:      true,
	}
	if mutate != nil {
		mutate(voucher)
	}
	require.NoError(t, db.Create(voucher).Error)
	return voucher
}

func TestFindByCodeNormalizesInput(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	seedVoucher(t, db, nil)

	found, err := repo.FindByCode(context.Background(), "  wed10 ")
	require.NoError(t, err)
	assert.Equal(t, "WED10", found.Code)

	_, err = repo.FindByCode(context.Background(), "MISSING")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestConsumeUsageStopsAtLimit(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	limit := 2
	voucher := seedVoucher(t, db, func(v *models.Voucher) { v.UsageLimit = &limit })

	for i := 0; i < limit; i++ {
		consumed, err := repo.ConsumeUsage(context.Background(), voucher.ID)
		require.NoError(t, err)
		assert.True(t, consumed, "consumption %d should succeed", i+1)
	}

	consumed, err := repo.ConsumeUsage(context.Background(), voucher.ID)
	require.NoError(t, err)
	assert.False(t, consumed, "consumption past the limit must be refused")

	var reloaded models.Voucher
	require.NoError(t, db.First(&reloaded, "id = ?", voucher.ID).Error)
	assert.Equal(t, limit, reloaded.UsageCount)
}

func TestConsumeUsageUnlimitedVoucher(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	voucher := seedVoucher(t, db, nil)

	for i := 0; i < 5; i++ {
		consumed, err := repo.ConsumeUsage(context.Background(), voucher.ID)
		require.NoError(t, err)
		assert.True(t, consumed)
	}
}

func TestCountSettledUsesFiltersStatus(t *testing.T) {
	db := setupVouchersTestDB(t)
	repo := NewRepository(db)
	seedVoucher(t, db, nil)
	userID := uuid.New()
	code := "WED10"

	statuses := []enums.OrderStatus{
		enums.OrderStatusPending,
		enums.OrderStatusPaid,
		enums.OrderStatusCompleted,
		enums.OrderStatusFailed,
		enums.OrderStatusCancelled,
	}
	for i, status := range statuses {
		order := &models.Order{
			ID:          uuid.New(),
			OrderNumber: uuid.NewString(),
			UserID:      userID,
			VoucherCode: &code,
			PaymentType: enums.PaymentTypeFull,
			Status:      status,
		}
		require.NoError(t, db.Create(order).Error, "order %d", i)
	}

	count, err := repo.CountSettledUses(context.Background(), userID, "wed10")
	require.NoError(t, err)
	// Only paid and completed orders burn a use.
	assert.Equal(t, int64(2), count)

	count, err = repo.CountSettledUses(context.Background(), uuid.New(), "WED10")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
