package paymentplan

import (
	"github.com/shopspring/decimal"

	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
)

// DefaultDPPercentage applies when no decoration in the order demands more.
const DefaultDPPercentage = 30

// Plan splits an order total across its payment legs.
type Plan struct {
	PaymentType        enums.PaymentType
	DPPercentage       int
	DPAmountIDR        int64
	RemainingAmountIDR int64
}

// Select builds the payment plan for an order. For down payments the
// percentage is the highest MinimumDPPercentage across the ordered
// decorations, floored at DefaultDPPercentage. The down payment rounds up so
// the remaining leg is total minus down payment, never rounded on its own;
// the two legs always sum exactly to the total.
func Select(paymentType enums.PaymentType, totalIDR int64, minimumDPPercentages []int) (Plan, error) {
	if !paymentType.IsValid() {
		return Plan{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment type")
	}
	if totalIDR < 0 {
		return Plan{}, pkgerrors.New(pkgerrors.CodeValidation, "order total must not be negative")
	}

	if paymentType == enums.PaymentTypeFull {
		return Plan{PaymentType: paymentType}, nil
	}

	pct := DefaultDPPercentage
	for _, minimum := range minimumDPPercentages {
		if minimum > pct {
			pct = minimum
		}
	}
	if pct > 100 {
		pct = 100
	}

	dpAmount := decimal.NewFromInt(totalIDR).
		Mul(decimal.NewFromInt(int64(pct))).
		Div(decimal.NewFromInt(100)).
		Ceil().
		IntPart()

	return Plan{
		PaymentType:        paymentType,
		DPPercentage:       pct,
		DPAmountIDR:        dpAmount,
		RemainingAmountIDR: totalIDR - dpAmount,
	}, nil
}
