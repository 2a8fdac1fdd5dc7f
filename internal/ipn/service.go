package ipn

import (
	"log"
	"net/url"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/domain"
	"github.com/electricblue/paxum-gateway/internal/ipnlog"
	"github.com/electricblue/paxum-gateway/internal/metrics"
	"github.com/electricblue/paxum-gateway/internal/reconcile"
	"github.com/electricblue/paxum-gateway/internal/repository"
)

// Service runs the IPN pipeline: sanitize, verify, reconcile, log. The
// caller always acknowledges 200 afterwards, whatever the outcome. The
// processor must never see a failure status for an unreconcilable
// notification, or it will retry-storm.
type Service struct {
	cfg       *config.Config
	reconcile *reconcile.Service
	logWriter *ipnlog.Writer
	audit     *repository.NotificationRepo
}

func NewService(
	cfg *config.Config,
	reconcileSvc *reconcile.Service,
	logWriter *ipnlog.Writer,
	audit *repository.NotificationRepo,
) *Service {
	return &Service{
		cfg:       cfg,
		reconcile: reconcileSvc,
		logWriter: logWriter,
		audit:     audit,
	}
}

// Handle processes one notification delivery and returns the finished
// record. The outcome is computed exactly once and embedded before the
// record is persisted; the record is immutable afterwards.
func (s *Service) Handle(values url.Values) domain.Notification {
	n := Sanitize(values)

	if s.cfg.VerifyIPN && !VerifySignature(s.cfg.SharedSecret, values) {
		n.Outcome = domain.OutcomeUnauthenticated
	} else {
		n.Outcome = s.reconcile.Reconcile(&n)
	}

	metrics.NotificationsTotal.WithLabelValues(string(n.Outcome)).Inc()

	// Both persistence paths are best-effort: a failed write must not turn
	// into a non-200 acknowledgment.
	if err := s.logWriter.Append(&n); err != nil {
		metrics.LogWriteFailures.Inc()
		log.Printf("[ipn] WARNING: log append failed for txn %s: %v", n.TransactionID, err)
	}
	if s.audit != nil {
		if err := s.audit.Insert(&n); err != nil {
			log.Printf("[ipn] WARNING: audit insert failed for txn %s: %v", n.TransactionID, err)
		}
	}

	log.Printf("[ipn] txn=%s item=%s outcome=%q", n.TransactionID, n.ItemID, n.Outcome)
	return n
}
