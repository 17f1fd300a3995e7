package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"supplyhub/internal/auth"
	"supplyhub/internal/infrastructure/telemetry"
	inventorycontroller "supplyhub/internal/inventory/controller"
	ordercontroller "supplyhub/internal/order/controller"
	"supplyhub/internal/product"
	summarycontroller "supplyhub/internal/summary/controller"
)

type Handlers struct {
	Orders    *ordercontroller.OrderController
	Inventory *inventorycontroller.InventoryController
	Summary   *summarycontroller.SummaryController
	Products  *product.Controller
}

func NewRouter(
	h Handlers,
	authn auth.Authenticator,
	metrics *telemetry.Metrics,
	gatherer prometheus.Gatherer,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(RequestContext(logger))
	r.Use(Observe(metrics, logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", h.Products.HandleList)
		r.Get("/products/{id}", h.Products.HandleGet)

		r.Group(func(r chi.Router) {
			r.Use(auth.Authenticate(authn, logger))
			require := func(c auth.Capability) func(http.Handler) http.Handler {
				return auth.Require(c, logger)
			}

			r.With(require(auth.CapProductWrite)).Post("/products", h.Products.HandleCreate)
			r.With(require(auth.CapProductWrite)).Put("/products/{id}", h.Products.HandleUpdate)
			r.With(require(auth.CapProductWrite)).Post("/products/{id}/restock", h.Products.HandleRestock)

			r.Route("/orders", func(r chi.Router) {
				r.With(require(auth.CapOrderCreate)).Post("/", h.Orders.Create)
				r.With(require(auth.CapOrderList)).Get("/", h.Orders.List)
				r.With(require(auth.CapOrderPurge)).Delete("/", h.Orders.Purge)
				r.With(require(auth.CapOrderReadOwn)).Get("/mine", h.Orders.ListMine)
				r.With(require(auth.CapOrderListDelivered)).Get("/delivered", h.Orders.ListDelivered)
				r.Get("/{orderId}", h.Orders.Get)
				r.With(require(auth.CapOrderPay)).Put("/{orderId}/pay", h.Orders.Pay)
				r.With(require(auth.CapOrderShip)).Put("/{orderId}/ship", h.Orders.Ship)
				r.With(require(auth.CapOrderConfirmDelivery)).Put("/{orderId}/deliver", h.Orders.ConfirmDelivery)
			})

			r.With(require(auth.CapInventoryRead)).Get("/inventory", h.Inventory.List)
			r.With(require(auth.CapInventoryAdjust)).Put("/inventory/{productId}", h.Inventory.Adjust)

			r.With(require(auth.CapSummaryRead)).Get("/summary", h.Summary.Report)
		})
	})

	return r
}
