package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/ipn"
	"github.com/electricblue/paxum-gateway/internal/refund"
	"github.com/electricblue/paxum-gateway/internal/repository"
)

// NewRouter creates the Chi router with all gateway routes mounted.
func NewRouter(
	cfg *config.Config,
	orderRepo *repository.OrderRepo,
	notifRepo *repository.NotificationRepo,
	refundRepo *repository.RefundRepo,
	ipnSvc *ipn.Service,
	refundClient *refund.Client,
) http.Handler {
	h := &Handlers{
		cfg:          cfg,
		orderRepo:    orderRepo,
		notifRepo:    notifRepo,
		refundRepo:   refundRepo,
		ipnSvc:       ipnSvc,
		refundClient: refundClient,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Processor-facing endpoints. The IPN listener is method-agnostic and
	// the relay serves HTML, so neither sits behind the JSON header.
	r.HandleFunc("/ipn", instrument("ipn", h.Webhook))
	r.Get("/pay/relay", instrument("relay", h.Relay))

	r.Get("/health", instrument("health", h.Health))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SetHeader("Content-Type", "application/json"))

		r.Post("/orders/{id}/pay", instrument("pay", h.PayOrder))
		r.Post("/orders/{id}/refund", instrument("refund", h.RefundOrder))
		r.Get("/orders/{id}", instrument("get_order", h.GetOrder))
		r.Get("/notifications", instrument("list_notifications", h.ListNotifications))
	})

	return r
}
