package domain

import (
	"errors"
	"time"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusRefunded  OrderStatus = "refunded"
	StatusCancelled OrderStatus = "cancelled"
)

// ErrOrderNotFound is returned by the order store when no order exists for
// the given identifier.
var ErrOrderNotFound = errors.New("order not found")

// Order is the commerce platform's transaction record. The gateway only
// reads Total/Currency and writes Status + TransactionID.
type Order struct {
	ID            string      `json:"id"`
	ItemName      string      `json:"item_name"`
	Total         float64     `json:"total"`
	Currency      string      `json:"currency"`
	Status        OrderStatus `json:"status"`
	TransactionID string      `json:"transaction_id,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
	PaidAt        *time.Time  `json:"paid_at,omitempty"`
}
