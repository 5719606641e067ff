package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/narendraputra/weddecor-backend/internal/cart"
	"github.com/narendraputra/weddecor-backend/internal/catalog"
	"github.com/narendraputra/weddecor-backend/internal/orders"
	"github.com/narendraputra/weddecor-backend/internal/paymentplan"
	"github.com/narendraputra/weddecor-backend/internal/pricing"
	"github.com/narendraputra/weddecor-backend/internal/vouchers"
	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
	"github.com/narendraputra/weddecor-backend/pkg/metrics"
	gw "github.com/narendraputra/weddecor-backend/pkg/midtrans"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type snapGateway interface {
	CreateSnapTransaction(ctx context.Context, params gw.SnapParams) (*gw.SnapTransaction, error)
}

// Service turns carts into orders. Quote previews; Submit commits the order,
// its items, the voucher burn, the gateway token and the cart wipe in one
// transaction.
type Service interface {
	Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) (*Quote, error)
	Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*Result, error)
}

type service struct {
	carts          cart.Repository
	catalog        catalog.Loader
	vouchers       vouchers.Service
	orders         orders.Repository
	gateway        snapGateway
	tx             txRunner
	metrics        *metrics.PaymentMetrics
	deliveryFeeIDR int64
	logger         *logger.Logger
	now            func() time.Time
}

func NewService(
	carts cart.Repository,
	loader catalog.Loader,
	voucherSvc vouchers.Service,
	orderRepo orders.Repository,
	gateway snapGateway,
	tx txRunner,
	paymentMetrics *metrics.PaymentMetrics,
	deliveryFeeIDR int64,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if loader == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if voucherSvc == nil {
		return nil, fmt.Errorf("voucher service required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("payment gateway required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		carts:          carts,
		catalog:        loader,
		vouchers:       voucherSvc,
		orders:         orderRepo,
		gateway:        gateway,
		tx:             tx,
		metrics:        paymentMetrics,
		deliveryFeeIDR: deliveryFeeIDR,
		logger:         logg,
		now:            time.Now,
	}, nil
}

// snapshot is the resolved cart: pricing lines plus the decoration dp floors.
type snapshot struct {
	cart    *models.Cart
	items   []pricing.Item
	minDPs  []int
	voucher *models.Voucher
	quote   pricing.Quote
	plan    paymentplan.Plan
}

func (s *service) resolve(ctx context.Context, userID uuid.UUID, voucherCode string, paymentType enums.PaymentType) (*snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !paymentType.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}

	userCart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if len(userCart.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
	}

	ids := make([]uuid.UUID, 0, len(userCart.Items))
	for _, item := range userCart.Items {
		ids = append(ids, item.DecorationID)
	}
	decorations, err := s.catalog.Load(ctx, ids)
	if err != nil {
		return nil, err
	}

	snap := &snapshot{cart: userCart}
	for _, item := range userCart.Items {
		decoration := decorations[item.DecorationID]
		snap.items = append(snap.items, pricing.Item{
			DecorationID:    item.DecorationID,
			Name:            decoration.Name,
			Type:            item.Type,
			Quantity:        item.Quantity,
			BasePriceIDR:    item.BasePriceIDR,
			DiscountPercent: item.DiscountPercent,
			PriceIDR:        item.PriceIDR,
		})
		snap.minDPs = append(snap.minDPs, decoration.MinimumDPPercentage)
	}

	// Cart total for voucher purposes is the pre-fee subtotal.
	var subtotal int64
	for _, item := range snap.items {
		subtotal += item.PriceIDR * int64(item.Quantity)
	}

	var voucherDiscount int64
	if code := strings.TrimSpace(voucherCode); code != "" {
		voucher, discount, err := s.vouchers.Validate(ctx, code, userID, subtotal)
		if err != nil {
			return nil, err
		}
		snap.voucher = voucher
		voucherDiscount = discount
	}

	snap.quote = pricing.Compute(snap.items, voucherDiscount, s.deliveryFeeIDR)

	plan, err := paymentplan.Select(paymentType, snap.quote.TotalIDR, snap.minDPs)
	if err != nil {
		return nil, err
	}
	snap.plan = plan
	return snap, nil
}

func (s *service) Quote(ctx context.Context, userID uuid.UUID, input QuoteInput) (*Quote, error) {
	snap, err := s.resolve(ctx, userID, input.VoucherCode, input.PaymentType)
	if err != nil {
		return nil, err
	}
	quote := &Quote{Pricing: snap.quote, Plan: snap.plan}
	if snap.voucher != nil {
		quote.VoucherCode = snap.voucher.Code
	}
	return quote, nil
}

func (s *service) Submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*Result, error) {
	if err := validateSubmitInput(input); err != nil {
		return nil, err
	}

	start := s.now()
	result, err := s.submit(ctx, userID, input)
	if s.metrics != nil {
		s.metrics.ObserveCheckoutDuration(input.PaymentType.String(), time.Since(start))
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		s.metrics.IncCheckout(input.PaymentType.String(), outcome)
	}
	return result, err
}

func (s *service) submit(ctx context.Context, userID uuid.UUID, input SubmitInput) (*Result, error) {
	snap, err := s.resolve(ctx, userID, input.VoucherCode, input.PaymentType)
	if err != nil {
		return nil, err
	}

	now := s.now()
	orderNumber := orders.NewOrderNumber(now)

	order := buildOrder(userID, orderNumber, input, snap)

	var correlationID string
	var amountDue int64
	var lineItems []gw.LineItem
	if snap.plan.PaymentType == enums.PaymentTypeDP {
		correlationID = orders.DPCorrelationID(orderNumber)
		amountDue = snap.plan.DPAmountIDR
		lineItems = []gw.LineItem{{
			ID:       orderNumber,
			Name:     "Down Payment " + orderNumber,
			PriceIDR: amountDue,
			Quantity: 1,
		}}
	} else {
		correlationID = orders.FullCorrelationID(orderNumber)
		amountDue = snap.quote.TotalIDR
		lineItems = fullLegLineItems(snap)
	}

	var snapToken string
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		orderRepo := s.orders.WithTx(tx)

		if err := orderRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if snap.voucher != nil {
			if err := s.vouchers.ConsumeUsage(ctx, tx, snap.voucher.ID); err != nil {
				return err
			}
		}

		// The gateway call sits inside the transaction on purpose: a create
		// failure must leave no order, no voucher burn and an intact cart.
		snapTx, err := s.gateway.CreateSnapTransaction(ctx, gw.SnapParams{
			OrderID:        correlationID,
			GrossAmountIDR: amountDue,
			Items:          lineItems,
			Customer: gw.Customer{
				FirstName: input.FirstName,
				LastName:  input.LastName,
				Email:     input.Email,
				Phone:     input.Phone,
			},
		})
		if err != nil {
			return err
		}
		snapToken = snapTx.Token

		tokenColumn := "snap_token"
		if snap.plan.PaymentType == enums.PaymentTypeDP {
			tokenColumn = "dp_snap_token"
		}
		if err := orderRepo.Update(ctx, order.ID, map[string]any{tokenColumn: snapToken}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store snap token")
		}

		if err := s.carts.WithTx(tx).Clear(ctx, snap.cart.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if snap.plan.PaymentType == enums.PaymentTypeDP {
		order.DPSnapToken = &snapToken
	} else {
		order.SnapToken = &snapToken
	}

	if s.logger != nil {
		logCtx := s.logger.WithFields(s.logger.WithOrderNumber(ctx, orderNumber), map[string]any{
			"payment_type":   snap.plan.PaymentType.String(),
			"total_idr":      snap.quote.TotalIDR,
			"amount_due_idr": amountDue,
		})
		s.logger.Info(logCtx, "checkout committed")
	}

	return &Result{
		Order:         order,
		CorrelationID: correlationID,
		SnapToken:     snapToken,
		AmountDueIDR:  amountDue,
	}, nil
}

func buildOrder(userID uuid.UUID, orderNumber string, input SubmitInput, snap *snapshot) *models.Order {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: orderNumber,
		UserID:      userID,

		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		City:        input.City,
		District:    input.District,
		SubDistrict: input.SubDistrict,
		PostalCode:  input.PostalCode,

		SubtotalIDR:           snap.quote.SubtotalIDR,
		VoucherDiscountIDR:    snap.quote.VoucherDiscountIDR,
		DecorationDiscountIDR: snap.quote.DecorationDiscountIDR,
		DeliveryFeeIDR:        snap.quote.DeliveryFeeIDR,
		TotalIDR:              snap.quote.TotalIDR,

		PaymentType:        snap.plan.PaymentType,
		DPAmountIDR:        snap.plan.DPAmountIDR,
		RemainingAmountIDR: snap.plan.RemainingAmountIDR,

		Status: enums.OrderStatusPending,
		Notes:  input.Notes,
	}
	if snap.voucher != nil {
		code := snap.voucher.Code
		order.VoucherCode = &code
	}

	for _, item := range snap.items {
		order.Items = append(order.Items, models.OrderItem{
			ID:           uuid.New(),
			OrderID:      order.ID,
			DecorationID: item.DecorationID,
			Name:         item.Name,
			Type:         item.Type,
			Quantity:     item.Quantity,
			BasePriceIDR: item.BasePriceIDR,
			DiscountIDR:  item.BasePriceIDR - item.PriceIDR,
			PriceIDR:     item.PriceIDR,
		})
	}
	return order
}

// fullLegLineItems itemizes the cart for the gateway. The voucher shows up as
// a negative line and the delivery fee as its own line so the lines sum to the
// charged total exactly.
func fullLegLineItems(snap *snapshot) []gw.LineItem {
	items := make([]gw.LineItem, 0, len(snap.items)+2)
	for _, item := range snap.items {
		items = append(items, gw.LineItem{
			ID:       item.DecorationID.String(),
			Name:     item.Name,
			PriceIDR: item.PriceIDR,
			Quantity: int32(item.Quantity),
		})
	}
	if snap.quote.VoucherDiscountIDR > 0 {
		name := "Voucher Discount"
		if snap.voucher != nil {
			name = "Voucher " + snap.voucher.Code
		}
		items = append(items, gw.LineItem{
			ID:       "VOUCHER",
			Name:     name,
			PriceIDR: -snap.quote.VoucherDiscountIDR,
			Quantity: 1,
		})
	}
	if snap.quote.DeliveryFeeIDR > 0 {
		items = append(items, gw.LineItem{
			ID:       "DELIVERY",
			Name:     "Delivery Fee",
			PriceIDR: snap.quote.DeliveryFeeIDR,
			Quantity: 1,
		})
	}
	return items
}

func validateSubmitInput(input SubmitInput) error {
	var missing []string
	for field, value := range map[string]string{
		"first_name": input.FirstName,
		"email":      input.Email,
		"phone":      input.Phone,
		"address":    input.Address,
		"city":       input.City,
	} {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required checkout fields").
			WithDetails(map[string]any{"missing": missing})
	}
	if !input.PaymentType.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}
	return nil
}
