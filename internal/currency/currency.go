package currency

import (
	"fmt"
	"strings"
)

// supported lists the three-letter codes Paxum accepts on the payment
// confirmation page. The processor documents USD as the primary corridor.
var supported = map[string]bool{
	"USD": true,
	"EUR": true,
	"CAD": true,
}

// Normalize uppercases and validates a currency code.
func Normalize(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if !supported[c] {
		return "", fmt.Errorf("unsupported currency: %s", code)
	}
	return c, nil
}

// IsSupported reports whether the processor accepts the given code.
func IsSupported(code string) bool {
	return supported[strings.ToUpper(strings.TrimSpace(code))]
}
