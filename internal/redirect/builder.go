package redirect

import (
	"fmt"
	"net/url"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/currency"
	"github.com/electricblue/paxum-gateway/internal/domain"
)

// PaymentEndpoint is the processor page the relay form posts to.
const PaymentEndpoint = "https://www.paxum.com/payment/phrame.php?action=displayProcessPaymentLogin"

// BuildFields assembles the payment-initiation parameters for one order.
// The processor reads these from the relay form; item_id and reference_id
// both carry the order id so the IPN can be matched back.
func BuildFields(cfg *config.Config, o *domain.Order, baseURL string) (url.Values, error) {
	cur, err := currency.Normalize(o.Currency)
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", o.ID, err)
	}

	sandbox := "OFF"
	if cfg.Sandbox {
		sandbox = "ON"
	}

	v := url.Values{}
	v.Set("business_email", cfg.Email)
	v.Set("business_logo_id", "")
	v.Set("button_type_id", "1")
	v.Set("item_id", o.ID)
	v.Set("item_name", o.ItemName)
	v.Set("amount", fmt.Sprintf("%.2f", o.Total))
	v.Set("currency", cur)
	v.Set("shipping", "")
	v.Set("tax", "")
	v.Set("change_quantities", "2")
	v.Set("special_instructions", "2")
	v.Set("ask_shipping", "2")
	v.Set("ask_phone", "2")
	v.Set("ask_name", "2")
	v.Set("cancel_url", baseURL+"/shop")
	v.Set("finish_url", baseURL+"/orders/"+o.ID)
	v.Set("variables", "notify_url="+baseURL+"/ipn")
	v.Set("merchant_id", "")
	v.Set("reference_id", o.ID)
	v.Set("button_action", "2")
	v.Set("sandbox", sandbox)
	v.Set("return", "200")
	return v, nil
}

// RedirectURL is the same-origin relay URL the buyer is sent to after
// choosing this payment method.
func RedirectURL(cfg *config.Config, o *domain.Order, baseURL string) (string, error) {
	fields, err := BuildFields(cfg, o, baseURL)
	if err != nil {
		return "", err
	}
	return baseURL + "/pay/relay?" + fields.Encode(), nil
}
