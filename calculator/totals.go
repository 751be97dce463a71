package calculator

import (
	"slices"

	"github.com/shopspring/decimal"
)

// AdditionalCharge is a freight/packing style charge added on top of the
// items. Charges are not taxed; TaxType is carried for display only.
type AdditionalCharge struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Amount  string `json:"amount"`
	TaxType string `json:"taxType,omitempty"`
}

// Value is the charge amount, negatives read as zero.
func (ac AdditionalCharge) Value() decimal.Decimal {
	return parseAmount(ac.Amount)
}

// TaxGroup aggregates the lines sharing one tax rate. SGST and CGST are the
// two display halves of TaxAmount; they always add back up to it.
type TaxGroup struct {
	Rate          decimal.Decimal `json:"rate"`
	TaxableAmount decimal.Decimal `json:"taxableAmount"`
	TaxAmount     decimal.Decimal `json:"taxAmount"`
	HalfRate      decimal.Decimal `json:"halfRate"`
	SGST          decimal.Decimal `json:"sgst"`
	CGST          decimal.Decimal `json:"cgst"`
}

// Totals is the aggregate of all lines and charges, before any overall
// discount, adjustment, rounding or override.
type Totals struct {
	Subtotal                   decimal.Decimal `json:"subtotal"`
	TotalItemDiscount          decimal.Decimal `json:"totalItemDiscount"`
	SubtotalAfterItemDiscounts decimal.Decimal `json:"subtotalAfterItemDiscounts"`
	TaxByRate                  []TaxGroup      `json:"taxByRate"`
	TotalTax                   decimal.Decimal `json:"totalTax"`
	TotalAdditionalCharges     decimal.Decimal `json:"totalAdditionalCharges"`
	GrandTotal                 decimal.Decimal `json:"grandTotal"`
}

// BuildTotals sums items and charges. Tax groups only include rates above
// zero and are ordered by ascending rate.
func BuildTotals(items []LineItem, charges []AdditionalCharge) Totals {
	t := Totals{
		Subtotal:                   decimal.Zero,
		TotalItemDiscount:          decimal.Zero,
		SubtotalAfterItemDiscounts: decimal.Zero,
		TaxByRate:                  []TaxGroup{},
		TotalTax:                   decimal.Zero,
		TotalAdditionalCharges:     decimal.Zero,
	}

	groups := map[string]*TaxGroup{}
	for _, item := range items {
		t.Subtotal = t.Subtotal.Add(item.LineTotal())
		t.TotalItemDiscount = t.TotalItemDiscount.Add(item.Discount())
		tax := item.Tax()
		t.TotalTax = t.TotalTax.Add(tax)

		rate := item.Rate()
		if !rate.IsPositive() {
			continue
		}
		key := rate.String()
		g, ok := groups[key]
		if !ok {
			g = &TaxGroup{Rate: rate, TaxableAmount: decimal.Zero, TaxAmount: decimal.Zero}
			groups[key] = g
		}
		g.TaxableAmount = g.TaxableAmount.Add(item.Taxable())
		g.TaxAmount = g.TaxAmount.Add(tax)
	}
	t.SubtotalAfterItemDiscounts = t.Subtotal.Sub(t.TotalItemDiscount)

	for _, g := range groups {
		g.HalfRate = g.Rate.Div(decimal.NewFromInt(2))
		g.SGST = Round2(g.TaxAmount.Div(decimal.NewFromInt(2)))
		g.CGST = g.TaxAmount.Sub(g.SGST)
		t.TaxByRate = append(t.TaxByRate, *g)
	}
	slices.SortFunc(t.TaxByRate, func(a, b TaxGroup) int {
		return a.Rate.Cmp(b.Rate)
	})

	for _, c := range charges {
		t.TotalAdditionalCharges = t.TotalAdditionalCharges.Add(c.Value())
	}
	t.GrandTotal = t.SubtotalAfterItemDiscounts.Add(t.TotalTax).Add(t.TotalAdditionalCharges)
	return t
}
