package domain

import "time"

// Outcome is the closed set of reconciliation results recorded for a
// notification. Values match the strings the processor integration has
// always written to the IPN log.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success."
	OutcomeOrderNotFound   Outcome = "order not found"
	OutcomeAmountNotSet    Outcome = "payment amount not set"
	OutcomeAmountIncorrect Outcome = "payment amount not correct."
	OutcomeUnauthenticated Outcome = "unauthenticated"
)

// TransactionType is the numeric transaction type reported by Paxum IPN.
type TransactionType int

const (
	TypeNone TransactionType = iota
	TypeAuctionGoods
	TypeGoods
	TypeAuctionServices
	TypeServices
	TypeQuasiCash
	TypePayments
	TypeMoneyRequest
	TypeFundsAdded
	TypeFundsWithdrawn
	TypeCurrencyConversion
	TypeBalanceTransfer
	TypeRefund
	TypeFee
	TypeTransfer
	TypeCost
	TypePurchase
	TypeVerification
	TypeFundsAddedEFT
	TypeFundsWithdrawnEFT
)

// Notification is one inbound IPN event. It is immutable once logged: the
// outcome is computed exactly once per receipt and embedded before the
// record is persisted.
type Notification struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Description   string          `json:"transaction_description,omitempty"`
	ItemID        string          `json:"transaction_item_id"`
	ItemName      string          `json:"transaction_item_name,omitempty"`
	Amount        *float64        `json:"transaction_amount"`
	Status        string          `json:"transaction_status"`
	ExchangeRate  string          `json:"transaction_exchange_rate,omitempty"`
	Currency      string          `json:"transaction_currency"`
	Date          string          `json:"transaction_date,omitempty"`
	Type          TransactionType `json:"transaction_type"`
	Quantity      int             `json:"transaction_quantity"`
	Instructions  string          `json:"transaction_instructions,omitempty"`
	Shipping      float64         `json:"transaction_shipping"`
	Tax           float64         `json:"transaction_tax"`
	ReferenceID   string          `json:"transaction_reference_id,omitempty"`
	ReceivedAt    time.Time       `json:"received_at"`
	Outcome       Outcome         `json:"processing_outcome"`
}
