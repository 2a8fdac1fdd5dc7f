package reconcile

import (
	"errors"
	"log"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

// OrderStore is the slice of the commerce platform's order store the
// reconciler needs.
type OrderStore interface {
	GetByID(id string) (*domain.Order, error)
	// CompletePayment marks the order paid with the processor transaction
	// id. It reports false when the order was already completed, so a
	// redelivered notification does not apply payment twice.
	CompletePayment(orderID, txnID string) (bool, error)
}

// Service applies a payment-completion decision for one notification.
type Service struct {
	orders OrderStore
}

func NewService(orders OrderStore) *Service {
	return &Service{orders: orders}
}

// Reconcile looks up the order named by the notification and decides the
// outcome. The amount comparison is exact equality on the decimal value; no
// tolerance is applied. Only a full match mutates the order.
func (s *Service) Reconcile(n *domain.Notification) domain.Outcome {
	if n.ItemID == "" {
		return domain.OutcomeOrderNotFound
	}

	order, err := s.orders.GetByID(n.ItemID)
	if err != nil {
		if !errors.Is(err, domain.ErrOrderNotFound) {
			log.Printf("[reconcile] WARNING: order lookup for %q failed: %v", n.ItemID, err)
		}
		return domain.OutcomeOrderNotFound
	}

	if n.Amount == nil {
		return domain.OutcomeAmountNotSet
	}

	if order.Total != *n.Amount {
		return domain.OutcomeAmountIncorrect
	}

	applied, err := s.orders.CompletePayment(order.ID, n.TransactionID)
	if err != nil {
		// The processor is still acknowledged with a success outcome.
		log.Printf("[reconcile] WARNING: payment completion for order %s failed: %v", order.ID, err)
	} else if !applied {
		log.Printf("[reconcile] duplicate delivery for order %s (txn %s), completion skipped",
			order.ID, n.TransactionID)
	}

	return domain.OutcomeSuccess
}
