package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/narendraputra/weddecor-backend/api/controllers"
	"github.com/narendraputra/weddecor-backend/api/middleware"
	cartsvc "github.com/narendraputra/weddecor-backend/internal/cart"
	checkoutsvc "github.com/narendraputra/weddecor-backend/internal/checkout"
	ordersvc "github.com/narendraputra/weddecor-backend/internal/orders"
	paymentsvc "github.com/narendraputra/weddecor-backend/internal/payments"
	"github.com/narendraputra/weddecor-backend/pkg/config"
	"github.com/narendraputra/weddecor-backend/pkg/enums"
	"github.com/narendraputra/weddecor-backend/pkg/logger"
)

// NewRouter wires every HTTP route. Customer routes require a valid access
// token; admin routes additionally require the admin role.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	registry *prometheus.Registry,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	orderService ordersvc.Service,
	paymentService paymentsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/quote", controllers.CheckoutQuote(checkoutService, logg))
			r.Post("/", controllers.CheckoutSubmit(checkoutService, logg))
		})

		r.Post("/vouchers/validate", controllers.VouchersValidate(checkoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(orderService, logg))
			r.Get("/{orderId}", controllers.OrdersGet(orderService, logg))
			r.Post("/{orderNumber}/cancel", controllers.OrdersCancel(orderService, logg))
			r.Post("/{orderNumber}/pay-remaining", controllers.OrdersPayRemaining(orderService, logg))
		})

		r.Post("/payments/{correlationId}/reconcile", controllers.PaymentsReconcile(paymentService, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(orderService, logg))
			r.Get("/statistics", controllers.AdminOrdersStatistics(orderService, logg))
			r.Get("/{orderNumber}", controllers.AdminOrdersGet(orderService, logg))
			r.Patch("/{orderNumber}/status", controllers.AdminOrdersOverrideStatus(orderService, logg))
		})
	})

	return r
}
