package redirect

import (
	"html/template"
	"io"
	"net"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"unicode"
)

// Validation error codes shown to the buyer on the relay error page.
const (
	ValidationOK        = 0
	ErrCodeBadEmail     = 11
	ErrCodeBadCancelURL = 31
	ErrCodeBadFinishURL = 32
)

// relayFieldOrder fixes the order of hidden inputs in the posted form.
var relayFieldOrder = []string{
	"business_email", "business_logo_id", "button_type_id", "item_id",
	"item_name", "amount", "currency", "shipping", "tax",
	"change_quantities", "special_instructions", "ask_shipping",
	"ask_phone", "ask_name", "cancel_url", "finish_url", "variables",
	"merchant_id", "reference_id", "button_action", "sandbox", "return",
}

// intFields are coerced to integers during sanitization; everything else is
// treated as text (floats for amount/shipping/tax).
var intFields = map[string]bool{
	"button_type_id": true, "change_quantities": true,
	"special_instructions": true, "ask_shipping": true, "ask_phone": true,
	"ask_name": true, "button_action": true, "return": true,
}

var floatFields = map[string]bool{
	"amount": true, "shipping": true, "tax": true,
}

// RefererAllowed reports whether the referer header points back at the
// serving host. The check is a suffix match on the host name, so a shop
// served from a subdomain still passes.
func RefererAllowed(referer, servingHost string) bool {
	if referer == "" || servingHost == "" {
		return false
	}
	u, err := url.Parse(referer)
	if err != nil {
		return false
	}
	host := u.Hostname()
	serving := stripPort(servingHost)
	return host != "" && strings.HasSuffix(host, serving)
}

func stripPort(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}

// SanitizeParams coerces the relay request parameters field by field:
// integers and floats are cast (zero on failure), text fields are stripped
// of control characters.
func SanitizeParams(values url.Values) url.Values {
	out := url.Values{}
	for _, name := range relayFieldOrder {
		raw := values.Get(name)
		switch {
		case intFields[name]:
			n, err := strconv.Atoi(strings.TrimSpace(raw))
			if err != nil {
				n = 0
			}
			out.Set(name, strconv.Itoa(n))
		case floatFields[name]:
			f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				f = 0
			}
			out.Set(name, strconv.FormatFloat(f, 'f', -1, 64))
		default:
			out.Set(name, stripControl(raw))
		}
	}
	return out
}

func stripControl(s string) string {
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

// ValidateParams checks the sanitized fields and returns the first
// validation error code, or ValidationOK.
func ValidateParams(values url.Values) int {
	if _, err := mail.ParseAddress(values.Get("business_email")); err != nil {
		return ErrCodeBadEmail
	}
	if !validHTTPURL(values.Get("cancel_url")) {
		return ErrCodeBadCancelURL
	}
	if !validHTTPURL(values.Get("finish_url")) {
		return ErrCodeBadFinishURL
	}
	return ValidationOK
}

func validHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

var formTmpl = template.Must(template.New("relay").Parse(`<html>
<head><title>forwarding to PAXUM</title></head>
<body bgcolor="#2c3a4e">
<form name="PaxumForm" id="PaxumForm" action="{{.Action}}" method="POST">
{{- range .Fields}}
<input type="hidden" name="{{.Name}}" value="{{.Value}}" />
{{- end}}
</form>
<script type="text/javascript">
function formAutoSubmit() {
  document.getElementById("PaxumForm").submit();
}
window.onload = formAutoSubmit;
</script>
<center><font color="#f0f0f0">initiating payment process</font></center>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("relayError").Parse(`<center>
error code {{.}}: found inappropriate value(s) submitted. please contact administrator.<br>
<a href="#" onclick="javascript:window.history.back(-1);return false;">Back</a>
</center>
`))

type formField struct {
	Name  string
	Value string
}

// RenderForm writes the auto-submitting payment form.
func RenderForm(w io.Writer, values url.Values) error {
	fields := make([]formField, 0, len(relayFieldOrder))
	for _, name := range relayFieldOrder {
		fields = append(fields, formField{Name: name, Value: values.Get(name)})
	}
	return formTmpl.Execute(w, struct {
		Action string
		Fields []formField
	}{Action: PaymentEndpoint, Fields: fields})
}

// RenderError writes the buyer-facing validation error page.
func RenderError(w io.Writer, code int) error {
	return errorTmpl.Execute(w, code)
}
