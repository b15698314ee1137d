package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/avinashm/sparkcart-backend/api/controllers"
	"github.com/avinashm/sparkcart-backend/api/middleware"
	"github.com/avinashm/sparkcart-backend/internal/catalog"
	"github.com/avinashm/sparkcart-backend/internal/coupons"
	"github.com/avinashm/sparkcart-backend/internal/notifications"
	"github.com/avinashm/sparkcart-backend/internal/orders"
	"github.com/avinashm/sparkcart-backend/internal/reporting"
	"github.com/avinashm/sparkcart-backend/internal/wishlist"
	"github.com/avinashm/sparkcart-backend/pkg/config"
	"github.com/avinashm/sparkcart-backend/pkg/enums"
	"github.com/avinashm/sparkcart-backend/pkg/logger"
	"github.com/avinashm/sparkcart-backend/pkg/metrics"
)

// Services bundles everything the router wires into handlers.
type Services struct {
	Catalog       catalog.Service
	Coupons       coupons.Service
	Orders        orders.Service
	Wishlist      wishlist.Service
	Notifications notifications.Service
	Reporting     reporting.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	registry *prometheus.Registry,
	httpMetrics *metrics.HTTPMetrics,
	svcs Services,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(),
	)

	r.Get("/healthz", controllers.HealthLive(cfg))
	r.Get("/readyz", controllers.HealthReady(cfg, logg, dbPinger, redisPinger))
	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(svcs.Catalog, logg))
		r.Get("/{productID}", controllers.ProductDetail(svcs.Catalog, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/coupons", func(r chi.Router) {
			r.Post("/validate", controllers.ValidateCoupon(svcs.Coupons, svcs.Catalog, logg))
			r.Post("/mark-used", controllers.MarkCouponUsed(svcs.Coupons, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(svcs.Orders, logg))
			r.Get("/", controllers.ListOrders(svcs.Orders, logg))
			r.Get("/{orderID}", controllers.OrderDetail(svcs.Orders, logg))
			r.Post("/{orderID}/cancel", controllers.CancelOrder(svcs.Orders, logg))
			r.Post("/{orderID}/payment-proof", controllers.SubmitPaymentProof(svcs.Orders, logg))
			r.Post("/{orderID}/refund", controllers.RequestRefund(svcs.Orders, logg))
		})

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/overview", controllers.DashboardOverview(svcs.Reporting, logg))
			r.Get("/notifications", controllers.ListNotifications(svcs.Notifications, logg))
			r.Post("/notifications/{notificationID}/read", controllers.MarkNotificationRead(svcs.Notifications, logg))
			r.Post("/notifications/read-all", controllers.MarkAllNotificationsRead(svcs.Notifications, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(svcs.Wishlist, logg))
			r.Post("/", controllers.WishlistAdd(svcs.Wishlist, logg))
			r.Delete("/{productID}", controllers.WishlistRemove(svcs.Wishlist, logg))
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

			r.Route("/products", func(r chi.Router) {
				r.Post("/", controllers.AdminCreateProduct(svcs.Catalog, logg))
				r.Patch("/{productID}", controllers.AdminUpdateProduct(svcs.Catalog, logg))
				r.Delete("/{productID}", controllers.AdminDeleteProduct(svcs.Catalog, logg))
			})

			r.Route("/coupons", func(r chi.Router) {
				r.Get("/", controllers.AdminListCoupons(svcs.Coupons, logg))
				r.Post("/", controllers.AdminCreateCoupon(svcs.Coupons, logg))
				r.Post("/{couponID}/activate", controllers.AdminSetCouponActive(svcs.Coupons, true, logg))
				r.Post("/{couponID}/deactivate", controllers.AdminSetCouponActive(svcs.Coupons, false, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.AdminListOrders(svcs.Orders, logg))
				r.Put("/{orderID}/status", controllers.AdminUpdateOrderStatus(svcs.Orders, logg))
				r.Post("/{orderID}/payment/confirm", controllers.AdminConfirmPayment(svcs.Orders, logg))
				r.Post("/{orderID}/payment/reject", controllers.AdminRejectPayment(svcs.Orders, logg))
				r.Post("/{orderID}/refund", controllers.AdminProcessRefund(svcs.Orders, logg))
			})

			r.Get("/overview", controllers.AdminOverview(svcs.Reporting, logg))
			r.Get("/analytics", controllers.AdminAnalytics(svcs.Reporting, logg))
			r.Get("/customers", controllers.AdminCustomers(svcs.Reporting, logg))
		})
	})

	return r
}
