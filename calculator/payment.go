package calculator

import (
	"github.com/shopspring/decimal"
)

// PaymentStatus is the settlement state of an invoice.
type PaymentStatus string

const (
	StatusPaid    PaymentStatus = "paid"
	StatusPartial PaymentStatus = "partial"
	StatusUnpaid  PaymentStatus = "unpaid"
)

// Payment is the settlement part of the form. PreviousAmount is the one-slot
// undo captured when FullyPaid was switched on.
type Payment struct {
	AmountReceived string `json:"amountReceived"`
	FullyPaid      bool   `json:"isFullyPaid"`
	PreviousAmount string `json:"previousAmountReceived,omitempty"`
	Method         string `json:"paymentMethod,omitempty"`
}

// Received is the settled amount, negatives read as zero.
func (p Payment) Received() decimal.Decimal {
	return parseNonNegative(p.AmountReceived)
}

// ResolveFinal returns the override when the user typed a positive total,
// else the computed displayed total.
func ResolveFinal(displayed decimal.Decimal, override string, isOverridden bool) decimal.Decimal {
	if isOverridden {
		if v := Parse(override); v.IsPositive() {
			return v
		}
	}
	return displayed
}

// Balance is final minus received. It may be negative.
func Balance(final, received decimal.Decimal) decimal.Decimal {
	return final.Sub(received)
}

// ToggleFullyPaid switches "mark as fully paid". Switching on copies final
// into AmountReceived and remembers the old value; switching off restores it.
func ToggleFullyPaid(p Payment, on bool, final decimal.Decimal) Payment {
	if on {
		if !p.FullyPaid {
			p.PreviousAmount = p.AmountReceived
		}
		p.FullyPaid = true
		p.AmountReceived = FormatMoney(final)
		return p
	}
	if p.FullyPaid {
		p.AmountReceived = p.PreviousAmount
		p.PreviousAmount = ""
	}
	p.FullyPaid = false
	return p
}

// IsPaid reports whether p covers final.
func IsPaid(p Payment, final decimal.Decimal) bool {
	return p.FullyPaid || p.Received().GreaterThanOrEqual(final)
}

// ResolvePaymentStatus classifies p against final. A part payment is
// reported as partial rather than unpaid; the method is never discarded.
func ResolvePaymentStatus(p Payment, final decimal.Decimal) PaymentStatus {
	switch {
	case IsPaid(p, final):
		return StatusPaid
	case p.Received().IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}
