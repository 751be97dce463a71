package calculator

import (
	"github.com/shopspring/decimal"
)

// DiscountOption says whether the overall discount is taken off before or
// after tax is added.
type DiscountOption string

const (
	BeforeTax DiscountOption = "before-tax"
	AfterTax  DiscountOption = "after-tax"
)

// AdjustmentType is the sign of the manual adjustment.
type AdjustmentType string

const (
	AdjustmentAdd      AdjustmentType = "add"
	AdjustmentSubtract AdjustmentType = "subtract"
)

// OverallAdjustment holds the invoice-level discount, manual adjustment and
// round-off switch. DiscountMode works like on a line item.
type OverallAdjustment struct {
	DiscountOption   DiscountOption `json:"discountOption"`
	DiscountMode     DiscountMode   `json:"discountMode"`
	DiscountPercent  string         `json:"discountPercentStr"`
	DiscountFlat     string         `json:"discountFlatStr"`
	AdjustmentType   AdjustmentType `json:"adjustmentType"`
	ManualAdjustment string         `json:"manualAdjustment"`
	AutoRoundOff     bool           `json:"autoRoundOff"`
}

func (a OverallAdjustment) option() DiscountOption {
	if a.DiscountOption == AfterTax {
		return AfterTax
	}
	return BeforeTax
}

// Policy holds the UX couplings that are configuration rather than math.
type Policy struct {
	// RoundOffClearsAdjustment zeroes the manual adjustment while auto
	// round-off is on.
	RoundOffClearsAdjustment bool
}

// DefaultPolicy matches the behaviour of the billing forms.
func DefaultPolicy() Policy {
	return Policy{RoundOffClearsAdjustment: true}
}

// SetAutoRoundOff flips the round-off switch the way the form does.
func (p Policy) SetAutoRoundOff(a OverallAdjustment, on bool) OverallAdjustment {
	a.AutoRoundOff = on
	if on && p.RoundOffClearsAdjustment {
		a.ManualAdjustment = ""
	}
	return a
}

// DiscountBase is what an overall discount percent applies to.
func DiscountBase(option DiscountOption, taxable, totalTax decimal.Decimal) decimal.Decimal {
	if option == AfterTax {
		return taxable.Add(totalTax)
	}
	return taxable
}

// ResolveBase applies the overall discount before or after tax.
func ResolveBase(taxable, totalTax decimal.Decimal, option DiscountOption, discountFlat decimal.Decimal) decimal.Decimal {
	if option == AfterTax {
		return taxable.Add(totalTax).Sub(discountFlat)
	}
	return taxable.Sub(discountFlat).Add(totalTax)
}

// SignedAdjustment returns amount with the sign of t. Anything but
// "subtract" adds.
func SignedAdjustment(t AdjustmentType, amount decimal.Decimal) decimal.Decimal {
	amount = amount.Abs()
	if t == AdjustmentSubtract {
		return amount.Neg()
	}
	return amount
}

// Rounding is the outcome of ResolveDisplayed.
type Rounding struct {
	BeforeRounding decimal.Decimal `json:"beforeRounding"`
	Displayed      decimal.Decimal `json:"displayed"`
	Adjustment     decimal.Decimal `json:"adjustment"`
}

// ResolveDisplayed adds charges and the signed manual adjustment to base and
// optionally rounds to the nearest whole unit. Adjustment is the rounding
// delta, Displayed minus BeforeRounding.
func ResolveDisplayed(base, charges, signedManual decimal.Decimal, autoRoundOff bool) Rounding {
	before := base.Add(charges).Add(signedManual)
	displayed := before
	if autoRoundOff {
		displayed = before.Round(0)
	}
	return Rounding{
		BeforeRounding: before,
		Displayed:      displayed,
		Adjustment:     displayed.Sub(before),
	}
}
