package checkout

import (
	"github.com/narendraputra/weddecor-backend/internal/paymentplan"
	"github.com/narendraputra/weddecor-backend/internal/pricing"
	"github.com/narendraputra/weddecor-backend/pkg/db/models"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
)

// QuoteInput asks for a price preview of the current cart.
type QuoteInput struct {
	VoucherCode string
	PaymentType enums.PaymentType
}

// Quote is the full preview: cost breakdown plus the payment plan the chosen
// payment type would produce. It has no side effects; nothing is reserved.
type Quote struct {
	Pricing     pricing.Quote
	Plan        paymentplan.Plan
	VoucherCode string
}

// SubmitInput carries the customer and shipping snapshot for the order. The
// order copies these verbatim; later profile edits never rewrite history.
type SubmitInput struct {
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Address     string
	City        string
	District    string
	SubDistrict string
	PostalCode  string
	PaymentType enums.PaymentType
	VoucherCode string
	Notes       string
}

// Result is a committed checkout: the persisted order plus the gateway hand-off
// for the first due leg.
type Result struct {
	Order         *models.Order
	CorrelationID string
	SnapToken     string
	AmountDueIDR  int64
}
