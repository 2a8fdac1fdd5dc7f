package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/domain"
	"github.com/electricblue/paxum-gateway/internal/ipn"
	"github.com/electricblue/paxum-gateway/internal/metrics"
	"github.com/electricblue/paxum-gateway/internal/redirect"
	"github.com/electricblue/paxum-gateway/internal/refund"
	"github.com/electricblue/paxum-gateway/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	cfg          *config.Config
	orderRepo    *repository.OrderRepo
	notifRepo    *repository.NotificationRepo
	refundRepo   *repository.RefundRepo
	ipnSvc       *ipn.Service
	refundClient *refund.Client
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, err = time.Parse("2006-01-02", s)
		if err != nil {
			return nil
		}
	}
	return &t
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

// statusRecorder captures the response status for instrumentation.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// instrument wraps a handler with request count and duration metrics.
func instrument(name string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next(rec, r)

		metrics.HTTPRequestsTotal.WithLabelValues(name, r.Method, strconv.Itoa(rec.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(name, r.Method).Observe(time.Since(start).Seconds())
	}
}

// --- Webhook ---

// Webhook is the IPN listener. It accepts fields from both the query string
// and an urlencoded body, runs the pipeline, and acknowledges 200 with an
// empty body in every case so the processor never redelivers.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		log.Printf("[api] ipn form parse: %v", err)
	}

	h.ipnSvc.Handle(r.Form)

	w.WriteHeader(http.StatusOK)
}

// --- Relay ---

// Relay serves the auto-submitting payment form. Direct access is refused:
// the request must carry a referer from the serving host.
func (h *Handlers) Relay(w http.ResponseWriter, r *http.Request) {
	if !redirect.RefererAllowed(r.Referer(), r.Host) {
		http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		return
	}

	params := redirect.SanitizeParams(r.URL.Query())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if code := redirect.ValidateParams(params); code != redirect.ValidationOK {
		w.WriteHeader(http.StatusBadRequest)
		if err := redirect.RenderError(w, code); err != nil {
			log.Printf("[api] relay error render: %v", err)
		}
		return
	}

	if err := redirect.RenderForm(w, params); err != nil {
		log.Printf("[api] relay form render: %v", err)
	}
}

// --- PayOrder ---

// PayOrder marks an order as awaiting payment and returns the relay
// redirect URL for the buyer.
func (h *Handlers) PayOrder(w http.ResponseWriter, r *http.Request) {
	if !h.cfg.Enabled {
		writeError(w, http.StatusForbidden, "payment method is disabled")
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if order.Status == domain.StatusCompleted || order.Status == domain.StatusRefunded {
		writeError(w, http.StatusConflict, "order is already "+string(order.Status))
		return
	}

	redirectURL, err := redirect.RedirectURL(h.cfg, order, h.cfg.BaseURL)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if err := h.orderRepo.UpdateStatus(order.ID, domain.StatusPending); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"result":   "success",
		"redirect": redirectURL,
	})
}

// --- RefundOrder ---

func (h *Handlers) RefundOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	record, err := h.refundClient.Refund(r.Context(), order)

	// A declined refund still produced an API response worth keeping.
	if record != nil {
		if insErr := h.refundRepo.Insert(record); insErr != nil {
			log.Printf("[api] refund record insert: %v", insErr)
		}
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRefundNotPossible):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrRefundDeclined):
			writeJSON(w, http.StatusBadGateway, map[string]any{
				"error":  err.Error(),
				"refund": record,
			})
		default:
			writeError(w, http.StatusBadGateway, err.Error())
		}
		return
	}

	if err := h.orderRepo.UpdateStatus(order.ID, domain.StatusRefunded); err != nil {
		log.Printf("[api] mark refunded for %s: %v", order.ID, err)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"result": "success",
		"refund": record,
	})
}

// --- GetOrder ---

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	order, err := h.orderRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	notifications, err := h.notifRepo.GetByItemID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	refunds, err := h.refundRepo.GetByOrderID(id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"order":         order,
		"notifications": notifications,
		"refunds":       refunds,
	})
}

// --- ListNotifications ---

func (h *Handlers) ListNotifications(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.NotificationFilter{
		ItemID:  q.Get("item_id"),
		Outcome: q.Get("outcome"),
		From:    parseTime(q.Get("from")),
		To:      parseTime(q.Get("to")),
		Page:    parseIntDefault(q.Get("page"), 1),
		Limit:   parseIntDefault(q.Get("limit"), 50),
	}

	notifications, total, err := h.notifRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": notifications,
		"total":         total,
		"page":          filter.Page,
		"limit":         filter.Limit,
	})
}

// --- Health ---

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
