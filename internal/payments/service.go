package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/internal/orders"
	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
	"github.com/narendraputra/weddecor-backend/pkg/metrics"
	gw "github.com/narendraputra/weddecor-backend/pkg/midtrans"
	"github.com/narendraputra/weddecor-backend/pkg/redis"
)

// Gateway transaction statuses this reconciler understands.
const (
	statusPending    = "pending"
	statusCapture    = "capture"
	statusSettlement = "settlement"
	statusDeny       = "deny"
	statusExpire     = "expire"
	statusCancel     = "cancel"

	fraudAccept = "accept"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type statusGateway interface {
	QueryTransactionStatus(ctx context.Context, orderID string) (*gw.TransactionStatus, error)
}

// Service reconciles asynchronously observed gateway statuses into the order
// lifecycle. Clients poll; every observation is safe to replay.
type Service interface {
	Reconcile(ctx context.Context, correlationID string) (*models.Order, error)
}

type service struct {
	orders   orders.Repository
	tx       txRunner
	gateway  statusGateway
	guard    redis.SettlementStore
	guardTTL time.Duration
	metrics  *metrics.PaymentMetrics
	logger   *logger.Logger
	now      func() time.Time
}

func NewService(
	orderRepo orders.Repository,
	tx txRunner,
	gateway statusGateway,
	guard redis.SettlementStore,
	guardTTL time.Duration,
	paymentMetrics *metrics.PaymentMetrics,
	logg *logger.Logger,
) (Service, error) {
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if guard == nil {
		return nil, fmt.Errorf("settlement guard required")
	}
	return &service{
		orders:   orderRepo,
		tx:       tx,
		gateway:  gateway,
		guard:    guard,
		guardTTL: guardTTL,
		metrics:  paymentMetrics,
		logger:   logg,
		now:      time.Now,
	}, nil
}

func (s *service) Reconcile(ctx context.Context, correlationID string) (*models.Order, error) {
	orderNumber, leg, err := orders.ParseCorrelationID(correlationID)
	if err != nil {
		return nil, err
	}

	observation, err := s.gateway.QueryTransactionStatus(ctx, correlationID)
	if err != nil {
		// Query failures are retryable; the order is left untouched.
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.IncReconciliation(observation.TransactionStatus)
	}

	settled, failed := classify(observation)
	if !settled && !failed {
		// pending, challenged capture, or a status we do not know. No state
		// change; the caller polls again later.
		return s.loadOrder(ctx, orderNumber)
	}

	// The guard makes each (correlation id, terminal status) pair apply once
	// even when polls race; the state machine would reduce replays to no-ops
	// anyway, but the guard also skips the row lock entirely.
	guardKey := s.guard.SettlementKey(correlationID, observation.TransactionStatus)
	fresh, err := s.guard.SetNX(ctx, guardKey, s.now().Unix(), s.guardTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settlement guard")
	}
	if !fresh {
		return s.loadOrder(ctx, orderNumber)
	}

	applyErr := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.orders.WithTx(tx)

		order, err := repo.FindByNumberForUpdate(ctx, orderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if failed {
			return s.applyFailure(ctx, repo, order, observation)
		}
		return s.applySettlement(ctx, repo, order, leg, observation)
	})
	if applyErr != nil {
		// Release the guard so a later poll can retry the application.
		_ = s.guard.Del(ctx, guardKey)
		return nil, applyErr
	}

	return s.loadOrder(ctx, orderNumber)
}

func (s *service) loadOrder(ctx context.Context, orderNumber string) (*models.Order, error) {
	order, err := s.orders.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// classify folds the gateway status into settled/failed. A capture is only a
// settlement when fraud screening accepted it.
func classify(observation *gw.TransactionStatus) (settled, failed bool) {
	switch observation.TransactionStatus {
	case statusSettlement:
		return true, false
	case statusCapture:
		return observation.FraudStatus == fraudAccept, false
	case statusDeny, statusExpire, statusCancel:
		return false, true
	default:
		return false, false
	}
}

func (s *service) applySettlement(ctx context.Context, repo orders.Repository, order *models.Order, leg enums.PaymentLeg, observation *gw.TransactionStatus) error {
	target, updates, err := s.settlementTarget(order, leg)
	if err != nil {
		return err
	}
	if order.Status == target {
		return nil
	}
	if err := orders.Transition(order.Status, target); err != nil {
		return err
	}

	updates["status"] = target
	if observation.PaymentType != "" {
		updates["payment_method"] = observation.PaymentType
	}
	if err := repo.Update(ctx, order.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply settlement")
	}

	s.observeTransition(ctx, order, target, observation)
	return nil
}

// settlementTarget resolves which status a settled leg drives the order to and
// which columns it stamps.
func (s *service) settlementTarget(order *models.Order, leg enums.PaymentLeg) (enums.OrderStatus, map[string]any, error) {
	now := s.now()
	switch leg {
	case enums.PaymentLegFull:
		if order.PaymentType != enums.PaymentTypeFull {
			return "", nil, legMismatch(leg, order)
		}
		return enums.OrderStatusPaid, map[string]any{"full_paid_at": now}, nil
	case enums.PaymentLegDP:
		if order.PaymentType != enums.PaymentTypeDP || order.RemainingAmountIDR <= 0 {
			return "", nil, legMismatch(leg, order)
		}
		return enums.OrderStatusDPPaid, map[string]any{"dp_paid_at": now}, nil
	case enums.PaymentLegRemaining:
		if order.PaymentType != enums.PaymentTypeDP {
			return "", nil, legMismatch(leg, order)
		}
		// The remaining leg only exists once the down payment settled.
		if order.Status != enums.OrderStatusDPPaid && order.Status != enums.OrderStatusPaid {
			return "", nil, pkgerrors.New(pkgerrors.CodeStateConflict, "remaining settlement before down payment").
				WithDetails(map[string]any{
					"leg":    leg.String(),
					"status": order.Status.String(),
				})
		}
		return enums.OrderStatusPaid, map[string]any{
			"remaining_paid_at":    now,
			"full_paid_at":         now,
			"remaining_amount_idr": int64(0),
		}, nil
	default:
		return "", nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment leg")
	}
}

func (s *service) applyFailure(ctx context.Context, repo orders.Repository, order *models.Order, observation *gw.TransactionStatus) error {
	if order.Status == enums.OrderStatusFailed {
		return nil
	}
	// A denial only matters while a payment is outstanding; terminal and paid
	// orders ignore it.
	if order.Status != enums.OrderStatusPending && order.Status != enums.OrderStatusDPPaid {
		if s.logger != nil {
			logCtx := s.logger.WithFields(s.logger.WithOrderNumber(ctx, order.OrderNumber), map[string]any{
				"status":             order.Status.String(),
				"transaction_status": observation.TransactionStatus,
			})
			s.logger.Warn(logCtx, "ignoring gateway failure for settled order")
		}
		return nil
	}

	if err := orders.Transition(order.Status, enums.OrderStatusFailed); err != nil {
		return err
	}
	if err := repo.Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusFailed}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark order failed")
	}

	s.observeTransition(ctx, order, enums.OrderStatusFailed, observation)
	return nil
}

func (s *service) observeTransition(ctx context.Context, order *models.Order, target enums.OrderStatus, observation *gw.TransactionStatus) {
	if s.metrics != nil {
		s.metrics.IncTransition(order.Status.String(), target.String())
	}
	if s.logger != nil {
		logCtx := s.logger.WithFields(s.logger.WithOrderNumber(ctx, order.OrderNumber), map[string]any{
			"from":               order.Status.String(),
			"to":                 target.String(),
			"transaction_status": observation.TransactionStatus,
			"transaction_id":     observation.TransactionID,
		})
		s.logger.Info(logCtx, "payment observation applied")
	}
}

func legMismatch(leg enums.PaymentLeg, order *models.Order) error {
	return pkgerrors.New(pkgerrors.CodeStateConflict, "settlement leg does not match the order's payment plan").
		WithDetails(map[string]any{
			"leg":          leg.String(),
			"payment_type": order.PaymentType.String(),
		})
}
