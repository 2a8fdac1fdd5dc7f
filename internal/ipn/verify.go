package ipn

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
)

// Signature covers the fields that drive the payment decision. The message
// is built from the raw parameter values so both sides sign the same bytes.
const signatureParam = "signature"

// ComputeSignature returns the hex HMAC-SHA256 over
// transaction_id|transaction_item_id|transaction_amount under the shared
// secret.
func ComputeSignature(secret string, values url.Values) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(values.Get("transaction_id")))
	mac.Write([]byte{'|'})
	mac.Write([]byte(values.Get("transaction_item_id")))
	mac.Write([]byte{'|'})
	mac.Write([]byte(values.Get("transaction_amount")))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks the signature parameter against the shared secret.
// The comparison is constant time.
func VerifySignature(secret string, values url.Values) bool {
	got := values.Get(signatureParam)
	if got == "" {
		return false
	}
	want := ComputeSignature(secret, values)
	return hmac.Equal([]byte(got), []byte(want))
}
