package utils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Round2 rounds d to 2 decimal places (half away from zero).
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatDocumentNumber renders a document number like INV-00042.
func FormatDocumentNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%05d", prefix, seq)
}
