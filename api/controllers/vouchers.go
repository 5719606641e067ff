package controllers

import (
	"net/http"

	"github.com/narendraputra/weddecor-backend/api/responses"
	"github.com/narendraputra/weddecor-backend/api/validators"
	checkoutsvc "github.com/narendraputra/weddecor-backend/internal/checkout"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
)

type validateVoucherRequest struct {
	Code string `json:"code" validate:"required"`
}

type validateVoucherResponse struct {
	Code        string `json:"code"`
	DiscountIDR int64  `json:"discount_idr"`
	SubtotalIDR int64  `json:"subtotal_idr"`
	TotalIDR    int64  `json:"total_idr"`
}

// VouchersValidate checks a voucher code against the customer's current cart
// and reports the discount it would grant. Nothing is consumed.
func VouchersValidate(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := requireUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload validateVoucherRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), userID, checkoutsvc.QuoteInput{
			VoucherCode: payload.Code,
			PaymentType: enums.PaymentTypeFull,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, validateVoucherResponse{
			Code:        quote.VoucherCode,
			DiscountIDR: quote.Pricing.VoucherDiscountIDR,
			SubtotalIDR: quote.Pricing.SubtotalIDR,
			TotalIDR:    quote.Pricing.TotalIDR,
		})
	}
}
