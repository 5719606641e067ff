package orders

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

const (
	orderNumberPrefix = "ORD-"
	dpSuffix          = "-DP"
	remainingInfix    = "-REMAINING-"
)

// NewOrderNumber issues a unique human-readable order number.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("%s%d-%s", orderNumberPrefix, now.Unix(), suffix)
}

// FullCorrelationID keys the full-payment leg at the gateway.
func FullCorrelationID(orderNumber string) string {
	return orderNumber
}

// DPCorrelationID keys the down-payment leg. The suffix keeps the leg
// distinguishable from a full payment with the same order number.
func DPCorrelationID(orderNumber string) string {
	return orderNumber + dpSuffix
}

// RemainingCorrelationID keys the remaining leg. The timestamp makes retried
// remaining charges distinct transactions at the gateway.
func RemainingCorrelationID(orderNumber string, now time.Time) string {
	return fmt.Sprintf("%s%s%d", orderNumber, remainingInfix, now.Unix())
}

// ParseCorrelationID recovers the order number and payment leg from a gateway
// correlation id.
func ParseCorrelationID(correlationID string) (string, enums.PaymentLeg, error) {
	id := strings.TrimSpace(correlationID)
	if !strings.HasPrefix(id, orderNumberPrefix) {
		return "", "", pkgerrors.New(pkgerrors.CodeValidation, "unrecognized correlation id")
	}

	if idx := strings.Index(id, remainingInfix); idx > 0 {
		return id[:idx], enums.PaymentLegRemaining, nil
	}
	if number, found := strings.CutSuffix(id, dpSuffix); found {
		return number, enums.PaymentLegDP, nil
	}
	return id, enums.PaymentLegFull, nil
}
