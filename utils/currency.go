package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a value with "." thousands and "," decimals.
// Example: 1234.5 -> "1.234,50"
func FormatAmount(amount float64) string {
	formatted := decimal.NewFromFloat(amount).StringFixed(2)

	negative := strings.HasPrefix(formatted, "-")
	formatted = strings.TrimPrefix(formatted, "-")

	integerPart, decimalPart, _ := strings.Cut(formatted, ".")

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := strings.Join(groups, ".") + "," + decimalPart
	if negative {
		out = "-" + out
	}
	return out
}

// FormatCurrency appends the currency code, e.g. "12,50 EUR".
func FormatCurrency(amount float64, currency string) string {
	if currency == "" {
		currency = "EUR"
	}
	return FormatAmount(amount) + " " + currency
}
