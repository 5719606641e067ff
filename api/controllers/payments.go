package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/narendraputra/weddecor-backend/api/responses"
	paymentsvc "github.com/narendraputra/weddecor-backend/internal/payments"
	pkgerrors "github.com/narendraputra/weddecor-backend/pkg/errors"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
)

// PaymentsReconcile polls the gateway for a payment leg and applies the
// observed outcome to the order. Safe to call repeatedly; replays no-op.
func PaymentsReconcile(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payment service unavailable"))
			return
		}

		if _, err := requireUserID(r); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		correlationID := strings.TrimSpace(chi.URLParam(r, "correlationId"))
		if correlationID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "correlation id is required"))
			return
		}

		record, err := svc.Reconcile(r.Context(), correlationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newOrderResponse(record))
	}
}
