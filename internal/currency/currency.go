package currency

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var prefixes = []string{"£", "$", "€"}

// Three-letter codes appear on either side in spreadsheet exports
// ("GBP 25", "15.99 USD").
var codes = []string{"gbp", "usd", "eur"}

// Parse normalizes a raw price value into a numeric amount. It accepts
// already-numeric values and currency-tagged strings ("£10.42", "15.99 USD").
// The second return is false when the input carries no usable value: empty,
// non-numeric after stripping, NaN, infinite, or negative. Callers must keep
// "no value" distinct from a legitimate zero price.
func Parse(v any) (float64, bool) {
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		return checked(x)
	case float32:
		return checked(float64(x))
	case int:
		return checked(float64(x))
	case int64:
		return checked(float64(x))
	case string:
		return ParseString(x)
	}
	return 0, false
}

// ParseString parses a price string, stripping a fixed set of currency
// symbols and ISO codes from either end before decoding the remainder as a
// decimal number.
func ParseString(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	for _, p := range prefixes {
		s = strings.TrimPrefix(s, p)
	}
	lower := strings.ToLower(s)
	for _, code := range codes {
		if strings.HasSuffix(lower, code) {
			s = s[:len(s)-len(code)]
			break
		}
		if strings.HasPrefix(lower, code) {
			s = s[len(code):]
			break
		}
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return checked(f)
}

func checked(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}

// Symbol returns the display symbol for a market region. One symbol per
// session; no conversion is ever performed.
func Symbol(region string) string {
	switch strings.ToLower(region) {
	case "us":
		return "$"
	case "eu":
		return "€"
	default:
		return "£"
	}
}

// Format renders an amount with the region's symbol, two decimal places.
func Format(v float64, region string) string {
	return fmt.Sprintf("%s%.2f", Symbol(region), v)
}
