package orders

import (
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

// allowedTransitions is the order lifecycle. Anything absent here is refused
// unless an admin forces the status.
//
//	pending -> paid       full payment settled
//	pending -> dp_paid    down payment settled, remaining outstanding
//	pending -> cancelled  customer withdrew before paying
//	pending -> failed     gateway denied/expired/cancelled the charge
//	dp_paid -> paid       remaining payment settled
//	dp_paid -> failed     remaining charge denied/expired/cancelled
//	paid    -> completed  decoration delivered and set up
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending: {
		enums.OrderStatusPaid,
		enums.OrderStatusDPPaid,
		enums.OrderStatusCancelled,
		enums.OrderStatusFailed,
	},
	enums.OrderStatusDPPaid: {
		enums.OrderStatusPaid,
		enums.OrderStatusFailed,
	},
	enums.OrderStatusPaid: {
		enums.OrderStatusCompleted,
	},
}

// CanTransition reports whether the lifecycle permits moving from one status
// to another. A transition to the current status is always permitted and
// treated as a no-op by callers.
func CanTransition(from, to enums.OrderStatus) bool {
	if from == to {
		return true
	}
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Transition validates a status change and returns a typed conflict when the
// lifecycle forbids it.
func Transition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}
	if !CanTransition(from, to) {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "order status transition not allowed").
			WithDetails(map[string]any{"from": from.String(), "to": to.String()})
	}
	return nil
}
