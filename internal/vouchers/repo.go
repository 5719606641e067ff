package vouchers

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// Repository defines persistence operations for vouchers.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByCode(ctx context.Context, code string) (*models.Voucher, error)
	CountSettledUses(ctx context.Context, userID uuid.UUID, code string) (int64, error)
	ConsumeUsage(ctx context.Context, voucherID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a voucher repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(strings.TrimSpace(code))).
		First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// CountSettledUses counts how many paid or completed orders the user already
// placed with the code. Pending orders do not burn a use.
func (r *repository) CountSettledUses(ctx context.Context, userID uuid.UUID, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("user_id = ? AND voucher_code = ? AND status IN ?",
			userID,
			strings.ToUpper(strings.TrimSpace(code)),
			[]enums.OrderStatus{enums.OrderStatusPaid, enums.OrderStatusCompleted},
		).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// ConsumeUsage increments usage_count with the ceiling enforced in the same
// statement. The row lock taken by UPDATE serializes concurrent consumers;
// a false return means the limit was already reached.
func (r *repository) ConsumeUsage(ctx context.Context, voucherID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Voucher{}).
		Where("id = ? AND (usage_limit IS NULL OR usage_count < usage_limit)", voucherID).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
