package domain

import (
	"errors"
	"time"
)

// ErrRefundDeclined is returned when the processor answers a refund request
// with a non-success response code.
var ErrRefundDeclined = errors.New("refund declined by processor")

// ErrRefundNotPossible is returned when an order has no transaction id or no
// shared secret is configured, so no refund request can be built.
var ErrRefundNotPossible = errors.New("order cannot be refunded")

// Refund records one refund attempt against the processor API.
type Refund struct {
	ID                  string    `json:"id"`
	OrderID             string    `json:"order_id"`
	TransactionID       string    `json:"transaction_id"`
	Environment         string    `json:"environment,omitempty"`
	ResponseCode        string    `json:"response_code"`
	ResponseDescription string    `json:"response_description,omitempty"`
	Fee                 string    `json:"fee,omitempty"`
	Succeeded           bool      `json:"succeeded"`
	RequestedAt         time.Time `json:"requested_at"`
}
