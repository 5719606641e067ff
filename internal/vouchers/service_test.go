package vouchers

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

func newTestVoucher() *models.Voucher {
	maxDiscount := int64(500_000)
	return &models.Voucher{
		ID:            uuid.New(),
		Code:          "WED10",
		Type:          enums.VoucherTypePercentage,
		DiscountValue: 10,
		MaxDiscount:   &maxDiscount,
		MinPurchase:   1_000_000,
		UsagePerUser:  1,
		ValidFrom:     time.Now().Add(-time.Hour),
		ValidUntil:    time.Now().Add(time.Hour),
		IsActive:      true,
	}
}

type stubRepo struct {
	mu       sync.Mutex
	voucher  *models.Voucher
	used     int64
	consumed int
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByCode(ctx context.Context, code string) (*models.Voucher, error) {
	if s.voucher == nil || s.voucher.Code != strings.ToUpper(strings.TrimSpace(code)) {
		return nil, gorm.ErrRecordNotFound
	}
	return s.voucher, nil
}

func (s *stubRepo) CountSettledUses(ctx context.Context, userID uuid.UUID, code string) (int64, error) {
	return s.used, nil
}

func (s *stubRepo) ConsumeUsage(ctx context.Context, voucherID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.voucher.UsageLimit != nil && s.voucher.UsageCount >= *s.voucher.UsageLimit {
		return false, nil
	}
	s.voucher.UsageCount++
	s.consumed++
	return true, nil
}

func expectReason(t *testing.T, err error, reason string) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeVoucherRejected {
		t.Fatalf("expected voucher rejection, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["reason"] != reason {
		t.Fatalf("expected reason %q, got %v", reason, typed.Details())
	}
}

func TestValidateHappyPathPercentageCapped(t *testing.T) {
	repo := &stubRepo{voucher: newTestVoucher()}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	// 10% of 10,000,000 is 1,000,000 but the cap holds it at 500,000.
	voucher, discount, err := svc.Validate(context.Background(), "wed10", uuid.New(), 10_000_000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if voucher.Code != "WED10" {
		t.Fatalf("unexpected voucher %+v", voucher)
	}
	if discount != 500_000 {
		t.Fatalf("expected capped discount 500000, got %d", discount)
	}
}

func TestValidateRejectionOrder(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name   string
		mutate func(v *models.Voucher, r *stubRepo)
		reason string
	}{
		{
			name:   "inactive wins over everything",
			mutate: func(v *models.Voucher, r *stubRepo) { v.IsActive = false; v.ValidFrom = time.Now().Add(time.Hour) },
			reason: ReasonInactive,
		},
		{
			name:   "not yet valid before expired",
			mutate: func(v *models.Voucher, r *stubRepo) { v.ValidFrom = time.Now().Add(time.Hour) },
			reason: ReasonNotYetValid,
		},
		{
			name:   "expired",
			mutate: func(v *models.Voucher, r *stubRepo) { v.ValidUntil = time.Now().Add(-time.Minute) },
			reason: ReasonExpired,
		},
		{
			name: "limit reached before minimum purchase",
			mutate: func(v *models.Voucher, r *stubRepo) {
				limit := 5
				v.UsageLimit = &limit
				v.UsageCount = 5
				v.MinPurchase = 100_000_000
			},
			reason: ReasonLimitReached,
		},
		{
			name:   "below minimum purchase",
			mutate: func(v *models.Voucher, r *stubRepo) { v.MinPurchase = 100_000_000 },
			reason: ReasonBelowMinimum,
		},
		{
			name:   "user limit reached",
			mutate: func(v *models.Voucher, r *stubRepo) { r.used = 1 },
			reason: ReasonUserLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{voucher: newTestVoucher()}
			tt.mutate(repo.voucher, repo)
			svc, _ := NewService(repo)

			_, _, err := svc.Validate(context.Background(), "WED10", userID, 10_000_000)
			expectReason(t, err, tt.reason)
		})
	}
}

func TestValidateUnknownCode(t *testing.T) {
	repo := &stubRepo{voucher: newTestVoucher()}
	svc, _ := NewService(repo)

	_, _, err := svc.Validate(context.Background(), "NOPE", uuid.New(), 10_000_000)
	expectReason(t, err, ReasonUnknownVoucher)
}

func TestCalculateDiscountFixedClampedAtCartTotal(t *testing.T) {
	voucher := &models.Voucher{
		Type:          enums.VoucherTypeFixed,
		DiscountValue: 2_000_000,
	}
	if got := CalculateDiscount(voucher, 1_500_000); got != 1_500_000 {
		t.Fatalf("fixed discount must clamp at cart total, got %d", got)
	}
	if got := CalculateDiscount(voucher, 5_000_000); got != 2_000_000 {
		t.Fatalf("expected full fixed discount, got %d", got)
	}
}

func TestCalculateDiscountPercentageFloors(t *testing.T) {
	voucher := &models.Voucher{
		Type:          enums.VoucherTypePercentage,
		DiscountValue: 3,
	}
	// 3% of 1,000,001 is 30,000.03: round down.
	if got := CalculateDiscount(voucher, 1_000_001); got != 30_000 {
		t.Fatalf("expected floored discount 30000, got %d", got)
	}
}

func TestConsumeUsageNeverExceedsLimit(t *testing.T) {
	limit := 3
	voucher := newTestVoucher()
	voucher.UsageLimit = &limit
	repo := &stubRepo{voucher: voucher}
	svc, _ := NewService(repo)

	var wg sync.WaitGroup
	var mu sync.Mutex
	var limitHits int
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := svc.ConsumeUsage(context.Background(), nil, voucher.ID)
			if err != nil {
				if !pkgerrors.IsCode(err, pkgerrors.CodeVoucherRejected) {
					t.Errorf("unexpected error: %v", err)
					return
				}
				mu.Lock()
				limitHits++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if repo.consumed != limit {
		t.Fatalf("expected exactly %d consumptions, got %d", limit, repo.consumed)
	}
	if limitHits != 10-limit {
		t.Fatalf("expected %d limit rejections, got %d", 10-limit, limitHits)
	}
}
