package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// ListFilters describe the inputs supported by the admin order list.
type ListFilters struct {
	Status      *enums.OrderStatus
	PaymentType *enums.PaymentType
	DateFrom    *time.Time
	DateTo      *time.Time
	// Query matches order numbers and customer emails.
	Query string
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []models.Order `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// Statistics aggregates the back-office order dashboard numbers. Revenue only
// counts money that actually settled: full totals of paid and completed
// orders plus the down payments of dp_paid orders.
type Statistics struct {
	TotalOrders     int64 `json:"total_orders"`
	PendingOrders   int64 `json:"pending_orders"`
	DPPaidOrders    int64 `json:"dp_paid_orders"`
	PaidOrders      int64 `json:"paid_orders"`
	CompletedOrders int64 `json:"completed_orders"`
	CancelledOrders int64 `json:"cancelled_orders"`
	FailedOrders    int64 `json:"failed_orders"`
	RevenueIDR      int64 `json:"revenue_idr"`
	OutstandingIDR  int64 `json:"outstanding_idr"`
}

// CancelInput identifies the order a customer wants to withdraw.
type CancelInput struct {
	UserID      uuid.UUID
	OrderNumber string
}

// PayRemainingInput identifies the dp order whose remaining leg is charged.
type PayRemainingInput struct {
	UserID      uuid.UUID
	OrderNumber string
}

// PayRemainingResult carries the gateway token for the remaining leg.
type PayRemainingResult struct {
	OrderNumber        string `json:"order_number"`
	CorrelationID      string `json:"correlation_id"`
	SnapToken          string `json:"snap_token"`
	RemainingAmountIDR int64  `json:"remaining_amount_idr"`
}

// AdminOverrideInput forces an order into a status outside the usual guards.
type AdminOverrideInput struct {
	AdminID     uuid.UUID
	OrderNumber string
	Status      enums.OrderStatus
	Note        string
}
