package redirect

import (
	"net/url"
	"strings"
	"testing"

	"github.com/electricblue/paxum-gateway/internal/config"
	"github.com/electricblue/paxum-gateway/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		Email:   "merchant@example.com",
		Sandbox: true,
	}
}

func testOrder() *domain.Order {
	return &domain.Order{
		ID:       "ORD-7",
		ItemName: "Gift card",
		Total:    25,
		Currency: "usd",
		Status:   domain.StatusPending,
	}
}

func TestBuildFields(t *testing.T) {
	fields, err := BuildFields(testConfig(), testOrder(), "https://shop.example.com")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	checks := map[string]string{
		"business_email": "merchant@example.com",
		"button_type_id": "1",
		"item_id":        "ORD-7",
		"reference_id":   "ORD-7",
		"amount":         "25.00",
		"currency":       "USD",
		"sandbox":        "ON",
		"return":         "200",
		"variables":      "notify_url=https://shop.example.com/ipn",
	}
	for k, want := range checks {
		if got := fields.Get(k); got != want {
			t.Errorf("%s: got %q, want %q", k, got, want)
		}
	}
}

func TestBuildFields_UnsupportedCurrency(t *testing.T) {
	o := testOrder()
	o.Currency = "JPY"
	if _, err := BuildFields(testConfig(), o, "https://shop.example.com"); err == nil {
		t.Error("expected unsupported currency error")
	}
}

func TestRedirectURL_PointsAtRelay(t *testing.T) {
	u, err := RedirectURL(testConfig(), testOrder(), "https://shop.example.com")
	if err != nil {
		t.Fatalf("redirect url: %v", err)
	}
	if !strings.HasPrefix(u, "https://shop.example.com/pay/relay?") {
		t.Errorf("unexpected redirect url: %s", u)
	}
	parsed, err := url.Parse(u)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Query().Get("item_id") != "ORD-7" {
		t.Errorf("item_id missing from redirect url")
	}
}

func TestRefererAllowed(t *testing.T) {
	cases := []struct {
		name    string
		referer string
		host    string
		want    bool
	}{
		{"same host", "https://shop.example.com/checkout", "shop.example.com", true},
		{"same host with port", "http://shop.example.com/checkout", "shop.example.com:8080", true},
		{"subdomain of serving host", "https://www.shop.example.com/x", "shop.example.com", true},
		{"foreign host", "https://evil.example.org/", "shop.example.com", false},
		{"empty referer", "", "shop.example.com", false},
		{"garbage referer", "://bad", "shop.example.com", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RefererAllowed(tc.referer, tc.host); got != tc.want {
				t.Errorf("RefererAllowed(%q, %q) = %v, want %v", tc.referer, tc.host, got, tc.want)
			}
		})
	}
}

func TestValidateParams(t *testing.T) {
	base := url.Values{
		"business_email": {"merchant@example.com"},
		"cancel_url":     {"https://shop.example.com/shop"},
		"finish_url":     {"https://shop.example.com/orders/ORD-7"},
	}

	t.Run("valid", func(t *testing.T) {
		if code := ValidateParams(base); code != ValidationOK {
			t.Errorf("expected ok, got code %d", code)
		}
	})

	t.Run("bad email", func(t *testing.T) {
		v := cloneValues(base)
		v.Set("business_email", "not-an-email")
		if code := ValidateParams(v); code != ErrCodeBadEmail {
			t.Errorf("expected code %d, got %d", ErrCodeBadEmail, code)
		}
	})

	t.Run("bad cancel url", func(t *testing.T) {
		v := cloneValues(base)
		v.Set("cancel_url", "javascript:alert(1)")
		if code := ValidateParams(v); code != ErrCodeBadCancelURL {
			t.Errorf("expected code %d, got %d", ErrCodeBadCancelURL, code)
		}
	})

	t.Run("bad finish url", func(t *testing.T) {
		v := cloneValues(base)
		v.Set("finish_url", "")
		if code := ValidateParams(v); code != ErrCodeBadFinishURL {
			t.Errorf("expected code %d, got %d", ErrCodeBadFinishURL, code)
		}
	})
}

func cloneValues(v url.Values) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = append([]string(nil), vals...)
	}
	return out
}

func TestSanitizeParams_Coercion(t *testing.T) {
	in := url.Values{
		"button_type_id": {"abc"},
		"amount":         {"12.34"},
		"shipping":       {"free"},
		"item_name":      {"Gift\x00 card\n"},
	}

	out := SanitizeParams(in)

	if out.Get("button_type_id") != "0" {
		t.Errorf("int coercion: got %q", out.Get("button_type_id"))
	}
	if out.Get("amount") != "12.34" {
		t.Errorf("float passthrough: got %q", out.Get("amount"))
	}
	if out.Get("shipping") != "0" {
		t.Errorf("float coercion: got %q", out.Get("shipping"))
	}
	if out.Get("item_name") != "Gift card" {
		t.Errorf("control stripping: got %q", out.Get("item_name"))
	}
}

func TestRenderForm_ContainsAllFields(t *testing.T) {
	fields, err := BuildFields(testConfig(), testOrder(), "https://shop.example.com")
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	var b strings.Builder
	if err := RenderForm(&b, fields); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := b.String()

	if !strings.Contains(html, PaymentEndpoint) {
		t.Error("form action missing")
	}
	for _, name := range []string{"business_email", "item_id", "amount", "sandbox"} {
		if !strings.Contains(html, `name="`+name+`"`) {
			t.Errorf("hidden input %q missing", name)
		}
	}
	if !strings.Contains(html, "formAutoSubmit") {
		t.Error("auto-submit script missing")
	}
}
