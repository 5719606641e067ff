package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
	gw "github.com/narendraputra/weddecor-backend/pkg/midtrans"
	"github.com/narendraputra/weddecor-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type snapGateway interface {
	CreateSnapTransaction(ctx context.Context, params gw.SnapParams) (*gw.SnapTransaction, error)
}

// Service defines order-level operations beyond repository reads.
type Service interface {
	ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error)
	GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	Cancel(ctx context.Context, input CancelInput) error
	PayRemaining(ctx context.Context, input PayRemainingInput) (*PayRemainingResult, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	OverrideStatus(ctx context.Context, input AdminOverrideInput) error
	Statistics(ctx context.Context) (*Statistics, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	gateway snapGateway
	logger  *logger.Logger
	now     func() time.Time
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, gateway snapGateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		gateway: gateway,
		logger:  logg,
		now:     time.Now,
	}, nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (*OrderList, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) GetForUser(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// Cancel withdraws a pending order. Any other status is refused, repeated
// cancels included; once money has moved the customer goes through support.
func (s *service) Cancel(ctx context.Context, input CancelInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByNumberForUpdate(ctx, input.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if order.Status != enums.OrderStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending orders can be cancelled").
				WithDetails(map[string]any{"from": order.Status.String(), "to": enums.OrderStatusCancelled.String()})
		}
		if err := Transition(order.Status, enums.OrderStatusCancelled); err != nil {
			return err
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"status": enums.OrderStatusCancelled}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel order")
		}

		if s.logger != nil {
			s.logger.Info(s.logger.WithOrderNumber(ctx, order.OrderNumber), "order cancelled by customer")
		}
		return nil
	})
}

// PayRemaining opens a gateway transaction for the remaining leg of a dp
// order. Every call issues a fresh correlation id so an abandoned payment
// page never blocks the next attempt.
func (s *service) PayRemaining(ctx context.Context, input PayRemainingInput) (*PayRemainingResult, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.OrderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}

	var result *PayRemainingResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByNumberForUpdate(ctx, input.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.UserID != input.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to user")
		}
		if order.PaymentType != enums.PaymentTypeDP {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order has no remaining payment")
		}
		if order.Status != enums.OrderStatusDPPaid {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "remaining payment requires a settled down payment").
				WithDetails(map[string]any{"status": order.Status.String()})
		}
		if order.RemainingAmountIDR <= 0 {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "remaining amount already settled")
		}

		correlationID := RemainingCorrelationID(order.OrderNumber, s.now())
		snapTx, err := s.gateway.CreateSnapTransaction(ctx, gw.SnapParams{
			OrderID:        correlationID,
			GrossAmountIDR: order.RemainingAmountIDR,
			Items: []gw.LineItem{{
				ID:       order.OrderNumber,
				Name:     "Remaining Payment " + order.OrderNumber,
				PriceIDR: order.RemainingAmountIDR,
				Quantity: 1,
			}},
			Customer: gw.Customer{
				FirstName: order.FirstName,
				LastName:  order.LastName,
				Email:     order.Email,
				Phone:     order.Phone,
			},
		})
		if err != nil {
			return err
		}

		if err := repo.Update(ctx, order.ID, map[string]any{"remaining_snap_token": snapTx.Token}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store remaining snap token")
		}

		result = &PayRemainingResult{
			OrderNumber:        order.OrderNumber,
			CorrelationID:      correlationID,
			SnapToken:          snapTx.Token,
			RemainingAmountIDR: order.RemainingAmountIDR,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) GetByNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if orderNumber == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	order, err := s.repo.FindByNumber(ctx, orderNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// OverrideStatus forces an order into any valid status, bypassing the
// lifecycle guards. Reserved for the back office; every use is logged.
func (s *service) OverrideStatus(ctx context.Context, input AdminOverrideInput) error {
	if input.AdminID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "admin identity missing")
	}
	if input.OrderNumber == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "order number required")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByNumberForUpdate(ctx, input.OrderNumber)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status == input.Status {
			return nil
		}

		updates := map[string]any{"status": input.Status}
		now := s.now()
		switch input.Status {
		case enums.OrderStatusPaid:
			if order.FullPaidAt == nil {
				updates["full_paid_at"] = now
			}
		case enums.OrderStatusDPPaid:
			if order.DPPaidAt == nil {
				updates["dp_paid_at"] = now
			}
		}
		if input.Note != "" {
			updates["notes"] = input.Note
		}

		if err := repo.Update(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "override order status")
		}

		if s.logger != nil {
			logCtx := s.logger.WithFields(s.logger.WithOrderNumber(ctx, order.OrderNumber), map[string]any{
				"admin_id": input.AdminID.String(),
				"from":     order.Status.String(),
				"to":       input.Status.String(),
			})
			s.logger.Warn(logCtx, "order status forced by admin")
		}
		return nil
	})
}

func (s *service) Statistics(ctx context.Context) (*Statistics, error) {
	stats, err := s.repo.Statistics(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "aggregate order statistics")
	}
	return stats, nil
}
