package utils

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatRupiah renders an amount as "Rp1.234.567,89": thousands separated
// by dots, decimal comma, always two decimals. Negative amounts carry a
// leading minus before the prefix.
func FormatRupiah(amount decimal.Decimal) string {
	negative := amount.IsNegative()
	fixed := amount.Abs().StringFixed(2)

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var grouped strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(digit)
	}

	result := fmt.Sprintf("Rp%s,%s", grouped.String(), fracPart)
	if negative {
		return "-" + result
	}
	return result
}

// ParseRupiah is the inverse of FormatRupiah: strips the Rp prefix and
// thousands separators, converts the decimal comma back to a dot.
func ParseRupiah(s string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(s)

	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "-")
	cleaned = strings.TrimPrefix(cleaned, "Rp")
	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}
