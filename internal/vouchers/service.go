package vouchers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

// Rejection reasons surfaced in error details so the storefront can explain
// why a code was refused.
const (
	ReasonInactive       = "inactive"
	ReasonNotYetValid    = "not_yet_valid"
	ReasonExpired        = "expired"
	ReasonLimitReached   = "limit_reached"
	ReasonBelowMinimum   = "below_minimum"
	ReasonUserLimit      = "user_limit_reached"
	ReasonUnknownVoucher = "unknown_code"
)

// Service validates voucher codes and computes their discounts.
type Service interface {
	Validate(ctx context.Context, code string, userID uuid.UUID, cartTotalIDR int64) (*models.Voucher, int64, error)
	ConsumeUsage(ctx context.Context, tx *gorm.DB, voucherID uuid.UUID) error
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds a voucher service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("voucher repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func rejected(reason, message string) error {
	return pkgerrors.New(pkgerrors.CodeVoucherRejected, message).
		WithDetails(map[string]any{"reason": reason})
}

// Validate loads the code and checks it against the user's cart. Checks run
// in a fixed order so the caller always gets the most fundamental failure:
// inactive before window, window before limits, limits before minimums.
func (s *service) Validate(ctx context.Context, code string, userID uuid.UUID, cartTotalIDR int64) (*models.Voucher, int64, error) {
	if code == "" {
		return nil, 0, pkgerrors.New(pkgerrors.CodeValidation, "voucher code required")
	}

	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, 0, rejected(ReasonUnknownVoucher, "voucher not found")
		}
		return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load voucher")
	}

	now := s.now()

	if !voucher.IsActive {
		return nil, 0, rejected(ReasonInactive, "voucher is not active")
	}
	if now.Before(voucher.ValidFrom) {
		return nil, 0, rejected(ReasonNotYetValid, "voucher is not valid yet")
	}
	if now.After(voucher.ValidUntil) {
		return nil, 0, rejected(ReasonExpired, "voucher has expired")
	}
	if voucher.UsageLimit != nil && voucher.UsageCount >= *voucher.UsageLimit {
		return nil, 0, rejected(ReasonLimitReached, "voucher usage limit reached")
	}
	if cartTotalIDR < voucher.MinPurchase {
		return nil, 0, rejected(ReasonBelowMinimum, "cart total below voucher minimum purchase")
	}

	if voucher.UsagePerUser > 0 {
		used, err := s.repo.CountSettledUses(ctx, userID, voucher.Code)
		if err != nil {
			return nil, 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count voucher uses")
		}
		if used >= int64(voucher.UsagePerUser) {
			return nil, 0, rejected(ReasonUserLimit, "voucher already used by this account")
		}
	}

	return voucher, CalculateDiscount(voucher, cartTotalIDR), nil
}

// CalculateDiscount computes the rupiah discount for a validated voucher.
// Percentage discounts round down and respect MaxDiscount; fixed discounts
// are clamped at the cart total so the order total never goes negative.
func CalculateDiscount(voucher *models.Voucher, cartTotalIDR int64) int64 {
	if voucher == nil || cartTotalIDR <= 0 {
		return 0
	}

	var discount int64
	switch voucher.Type {
	case enums.VoucherTypePercentage:
		discount = decimal.NewFromInt(cartTotalIDR).
			Mul(decimal.NewFromInt(voucher.DiscountValue)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		if voucher.MaxDiscount != nil && discount > *voucher.MaxDiscount {
			discount = *voucher.MaxDiscount
		}
	case enums.VoucherTypeFixed:
		discount = voucher.DiscountValue
	}

	if discount > cartTotalIDR {
		discount = cartTotalIDR
	}
	return discount
}

// ConsumeUsage burns one use inside the caller's transaction. The ceiling is
// enforced by the repository's guarded update, not re-checked here.
func (s *service) ConsumeUsage(ctx context.Context, tx *gorm.DB, voucherID uuid.UUID) error {
	repo := s.repo
	if tx != nil {
		repo = repo.WithTx(tx)
	}
	consumed, err := repo.ConsumeUsage(ctx, voucherID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume voucher usage")
	}
	if !consumed {
		return rejected(ReasonLimitReached, "voucher usage limit reached")
	}
	return nil
}
