package calculator

import (
	"github.com/shopspring/decimal"
)

// DiscountMode names the discount field the user edited last. That field
// drives the pair; the other one is always derived.
type DiscountMode string

const (
	DiscountPercent DiscountMode = "percent"
	DiscountFlat    DiscountMode = "flat"
)

// Field identifies which input of a line changed.
type Field string

const (
	FieldQuantity        Field = "quantity"
	FieldUnitPrice       Field = "unitPrice"
	FieldDiscountPercent Field = "discountPercent"
	FieldDiscountAmount  Field = "discountAmount"
	FieldTaxRate         Field = "taxRate"
)

// TaxRates are the GST slabs offered by the rate selector.
var TaxRates = []decimal.Decimal{
	decimal.Zero,
	decimal.RequireFromString("0.1"),
	decimal.RequireFromString("0.25"),
	decimal.NewFromInt(3),
	decimal.NewFromInt(5),
	decimal.NewFromInt(6),
	decimal.NewFromInt(12),
	decimal.NewFromInt(18),
	decimal.NewFromInt(28),
	decimal.NewFromInt(40),
}

// IsTaxRate reports whether s parses to one of TaxRates. Blank means 0.
func IsTaxRate(s string) bool {
	r := Parse(s)
	for _, rate := range TaxRates {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// LineItem is one row of an invoice as the form holds it. Numeric fields are
// strings so that a blank field stays blank across a round trip.
type LineItem struct {
	ID              string       `json:"id"`
	ProductID       string       `json:"productId,omitempty"`
	Name            string       `json:"name"`
	HSN             string       `json:"hsn"`
	Quantity        string       `json:"quantity"`
	UnitPrice       string       `json:"unitPrice"`
	DiscountMode    DiscountMode `json:"discountMode"`
	DiscountPercent string       `json:"discountPercent"`
	DiscountAmount  string       `json:"discountAmount"`
	TaxRate         string       `json:"taxRate"`
	TaxAmount       string       `json:"taxAmount"`
}

// LineTotal is quantity × unit price.
func (li LineItem) LineTotal() decimal.Decimal {
	return parseAmount(li.Quantity).Mul(parseAmount(li.UnitPrice))
}

// Discount is the discount amount, capped to [0, LineTotal].
func (li LineItem) Discount() decimal.Decimal {
	return clamp(Parse(li.DiscountAmount), decimal.Zero, li.LineTotal())
}

// Taxable is the line total after its own discount.
func (li LineItem) Taxable() decimal.Decimal {
	return li.LineTotal().Sub(li.Discount())
}

// Rate is the tax rate in percent.
func (li LineItem) Rate() decimal.Decimal {
	return parseNonNegative(li.TaxRate)
}

// Tax is Taxable × Rate / 100, rounded to cents.
func (li LineItem) Tax() decimal.Decimal {
	return Round2(li.Taxable().Mul(li.Rate()).Div(hundred))
}

// Amount is the payable amount of the line: taxable plus tax.
func (li LineItem) Amount() decimal.Decimal {
	return li.Taxable().Add(li.Tax())
}

func (li LineItem) mode() DiscountMode {
	return resolveMode(li.DiscountMode, li.DiscountPercent, li.DiscountAmount)
}

// resolveMode falls back to whichever side holds a value when no mode was
// recorded.
func resolveMode(m DiscountMode, percent, amount string) DiscountMode {
	switch m {
	case DiscountPercent, DiscountFlat:
		return m
	}
	if isBlank(percent) && !isBlank(amount) {
		return DiscountFlat
	}
	return DiscountPercent
}

// NormalizeLine re-derives the dependent fields of item after changed was
// edited. Any other Field value (including "") re-derives everything from the
// active discount mode, which is what a quantity or price edit does.
func NormalizeLine(item LineItem, changed Field) LineItem {
	base := item.LineTotal()

	switch changed {
	case FieldTaxRate:
		// discount pair untouched
	case FieldDiscountPercent:
		item.DiscountMode = DiscountPercent
		item.setDiscount(DeriveDiscount(base, Discount{Mode: DiscountPercent, Value: item.DiscountPercent}))
	case FieldDiscountAmount:
		item.DiscountMode = DiscountFlat
		item.setDiscount(DeriveDiscount(base, Discount{Mode: DiscountFlat, Value: item.DiscountAmount}))
	default:
		mode := item.mode()
		value := item.DiscountPercent
		if mode == DiscountFlat {
			value = item.DiscountAmount
		}
		item.DiscountMode = mode
		item.setDiscount(DeriveDiscount(base, Discount{Mode: mode, Value: value}))
	}

	if base.IsPositive() {
		item.TaxAmount = FormatMoney(item.Tax())
	} else {
		item.TaxAmount = ""
	}
	return item
}

func (li *LineItem) setDiscount(p DiscountPair) {
	li.DiscountPercent = p.Percent
	li.DiscountAmount = p.Amount
}

// Discount is the driving side of a percent/flat pair.
type Discount struct {
	Mode  DiscountMode
	Value string
}

// DiscountPair is both sides of a resolved discount, formatted for display.
type DiscountPair struct {
	Percent string
	Amount  string
}

// DeriveDiscount resolves a percent/flat pair against base. A blank driving
// value clears both sides. Percent is clamped to [0,100] and flat to
// [0,base]. With a zero base a derived percent is blank, while a typed
// percent is kept so that it applies again once the base is non-zero.
func DeriveDiscount(base decimal.Decimal, d Discount) DiscountPair {
	if isBlank(d.Value) {
		return DiscountPair{}
	}
	v := Parse(d.Value)

	if d.Mode == DiscountFlat {
		amount := clamp(v, decimal.Zero, base)
		pair := DiscountPair{Amount: FormatMoney(amount)}
		if base.IsPositive() {
			pair.Percent = FormatPercent(amount.Div(base).Mul(hundred))
		}
		return pair
	}

	pct := clamp(v, decimal.Zero, hundred)
	return DiscountPair{
		Percent: FormatPercent(pct),
		Amount:  FormatMoney(base.Mul(pct).Div(hundred)),
	}
}
