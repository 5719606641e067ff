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

type checkoutQuoteRequest struct {
	PaymentType string `json:"payment_type" validate:"required,oneof=full dp"`
	VoucherCode string `json:"voucher_code"`
}

type checkoutQuoteResponse struct {
	SubtotalIDR           int64  `json:"subtotal_idr"`
	DecorationDiscountIDR int64  `json:"decoration_discount_idr"`
	VoucherDiscountIDR    int64  `json:"voucher_discount_idr"`
	DeliveryFeeIDR        int64  `json:"delivery_fee_idr"`
	TotalIDR              int64  `json:"total_idr"`
	PaymentType           string `json:"payment_type"`
	DPPercentage          int    `json:"dp_percentage,omitempty"`
	DPAmountIDR           int64  `json:"dp_amount_idr"`
	RemainingAmountIDR    int64  `json:"remaining_amount_idr"`
	VoucherCode           string `json:"voucher_code,omitempty"`
}

func newCheckoutQuoteResponse(quote *checkoutsvc.Quote) checkoutQuoteResponse {
	return checkoutQuoteResponse{
		SubtotalIDR:           quote.Pricing.SubtotalIDR,
		DecorationDiscountIDR: quote.Pricing.DecorationDiscountIDR,
		VoucherDiscountIDR:    quote.Pricing.VoucherDiscountIDR,
		DeliveryFeeIDR:        quote.Pricing.DeliveryFeeIDR,
		TotalIDR:              quote.Pricing.TotalIDR,
		PaymentType:           quote.Plan.PaymentType.String(),
		DPPercentage:          quote.Plan.DPPercentage,
		DPAmountIDR:           quote.Plan.DPAmountIDR,
		RemainingAmountIDR:    quote.Plan.RemainingAmountIDR,
		VoucherCode:           quote.VoucherCode,
	}
}

// CheckoutQuote previews pricing and the payment plan without committing
// anything. Vouchers are validated but not consumed.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload checkoutQuoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentType, err := enums.ParsePaymentType(payload.PaymentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type"))
			return
		}

		quote, err := svc.Quote(r.Context(), userID, checkoutsvc.QuoteInput{
			VoucherCode: payload.VoucherCode,
			PaymentType: paymentType,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCheckoutQuoteResponse(quote))
	}
}

type checkoutSubmitRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" validate:"required,email"`
	Phone       string `json:"phone" validate:"required"`
	Address     string `json:"address" validate:"required"`
	City        string `json:"city" validate:"required"`
	District    string `json:"district"`
	SubDistrict string `json:"sub_district"`
	PostalCode  string `json:"postal_code"`
	PaymentType string `json:"payment_type" validate:"required,oneof=full dp"`
	VoucherCode string `json:"voucher_code"`
	Notes       string `json:"notes"`
}

type checkoutSubmitResponse struct {
	Order         orderResponse `json:"order"`
	CorrelationID string        `json:"correlation_id"`
	SnapToken     string        `json:"snap_token"`
	AmountDueIDR  int64         `json:"amount_due_idr"`
}

// CheckoutSubmit places the order and returns the gateway token for the
// first due payment leg.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
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

		var payload checkoutSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		paymentType, err := enums.ParsePaymentType(payload.PaymentType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment type"))
			return
		}

		result, err := svc.Submit(r.Context(), userID, checkoutsvc.SubmitInput{
			FirstName:   payload.FirstName,
			LastName:    payload.LastName,
			Email:       payload.Email,
			Phone:       payload.Phone,
			Address:     payload.Address,
			City:        payload.City,
			District:    payload.District,
			SubDistrict: payload.SubDistrict,
			PostalCode:  payload.PostalCode,
			PaymentType: paymentType,
			VoucherCode: payload.VoucherCode,
			Notes:       payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutSubmitResponse{
			Order:         newOrderResponse(result.Order),
			CorrelationID: result.CorrelationID,
			SnapToken:     result.SnapToken,
			AmountDueIDR:  result.AmountDueIDR,
		})
	}
}
