package orders

import (
	"testing"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

func TestCanTransitionLifecycle(t *testing.T) {
	allowed := []struct{ from, to enums.OrderStatus }{
		{enums.OrderStatusPending, enums.OrderStatusPaid},
		{enums.OrderStatusPending, enums.OrderStatusDPPaid},
		{enums.OrderStatusPending, enums.OrderStatusCancelled},
		{enums.OrderStatusPending, enums.OrderStatusFailed},
		{enums.OrderStatusDPPaid, enums.OrderStatusPaid},
		{enums.OrderStatusDPPaid, enums.OrderStatusFailed},
		{enums.OrderStatusPaid, enums.OrderStatusCompleted},
	}
	for _, tt := range allowed {
		if !CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be allowed", tt.from, tt.to)
		}
	}

	refused := []struct{ from, to enums.OrderStatus }{
		{enums.OrderStatusDPPaid, enums.OrderStatusCancelled},
		{enums.OrderStatusPaid, enums.OrderStatusCancelled},
		{enums.OrderStatusPaid, enums.OrderStatusFailed},
		{enums.OrderStatusCompleted, enums.OrderStatusPaid},
		{enums.OrderStatusCancelled, enums.OrderStatusPending},
		{enums.OrderStatusFailed, enums.OrderStatusPaid},
		{enums.OrderStatusPending, enums.OrderStatusCompleted},
	}
	for _, tt := range refused {
		if CanTransition(tt.from, tt.to) {
			t.Errorf("%s -> %s should be refused", tt.from, tt.to)
		}
	}
}

func TestTransitionSameStatusIsNoop(t *testing.T) {
	if err := Transition(enums.OrderStatusPaid, enums.OrderStatusPaid); err != nil {
		t.Fatalf("replay of the current status must not error: %v", err)
	}
}

func TestTransitionReturnsTypedConflict(t *testing.T) {
	err := Transition(enums.OrderStatusCompleted, enums.OrderStatusPending)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["from"] != "completed" || details["to"] != "pending" {
		t.Fatalf("expected from/to details, got %v", typed.Details())
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	err := Transition(enums.OrderStatusPending, enums.OrderStatus("shipped"))
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
