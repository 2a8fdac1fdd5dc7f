package ipn

import (
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"github.com/electricblue/paxum-gateway/internal/domain"
)

// Sanitize coerces raw request parameters into a typed notification record.
// The transform is deliberately permissive: string fields are stripped of
// control characters, numeric fields fall back to zero on parse failure, and
// no field is mandatory here. Downstream reconciliation handles missing
// values explicitly.
func Sanitize(values url.Values) domain.Notification {
	return domain.Notification{
		ID:            uuid.NewString(),
		TransactionID: safeText(values.Get("transaction_id")),
		Description:   safeText(values.Get("transaction_description")),
		ItemID:        safeText(values.Get("transaction_item_id")),
		ItemName:      safeText(values.Get("transaction_item_name")),
		Amount:        parseAmount(values.Get("transaction_amount")),
		Status:        safeText(values.Get("transaction_status")),
		ExchangeRate:  safeText(values.Get("transaction_exchange_rate")),
		Currency:      safeText(values.Get("transaction_currency")),
		Date:          safeText(values.Get("transaction_date")),
		Type:          domain.TransactionType(parseInt(values.Get("transaction_type"))),
		Quantity:      parseInt(values.Get("transaction_quantity")),
		Instructions:  safeText(values.Get("transaction_instructions")),
		Shipping:      parseFloat(values.Get("transaction_shipping")),
		Tax:           parseFloat(values.Get("transaction_tax")),
		ReferenceID:   safeText(values.Get("transaction_reference_id")),
		ReceivedAt:    time.Now().UTC(),
	}
}

// safeText strips control characters and trims surrounding whitespace.
func safeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// parseAmount returns nil for an absent/empty amount so the reconciler can
// distinguish "not sent" from a zero amount.
func parseAmount(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		v = 0
	}
	return &v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}
