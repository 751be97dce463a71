package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveBase(t *testing.T) {
	tests := []struct {
		name     string
		option   DiscountOption
		taxable  string
		tax      string
		discount string
		want     string
	}{
		{name: "before tax", option: BeforeTax, taxable: "180", tax: "32.40", discount: "20", want: "192.40"},
		{name: "after tax", option: AfterTax, taxable: "180", tax: "32.40", discount: "20", want: "192.40"},
		{name: "no discount", option: BeforeTax, taxable: "180", tax: "32.40", discount: "0", want: "212.40"},
		{name: "discount larger than total", option: AfterTax, taxable: "10", tax: "1.80", discount: "20", want: "-8.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveBase(d(tt.taxable), d(tt.tax), tt.option, d(tt.discount))
			assert.Equal(t, tt.want, FormatMoney(got))
		})
	}
}

func TestDiscountBase(t *testing.T) {
	assert.Equal(t, "180.00", FormatMoney(DiscountBase(BeforeTax, d("180"), d("32.40"))))
	assert.Equal(t, "212.40", FormatMoney(DiscountBase(AfterTax, d("180"), d("32.40"))))
}

func TestSignedAdjustment(t *testing.T) {
	assert.Equal(t, "5.00", FormatMoney(SignedAdjustment(AdjustmentAdd, d("5"))))
	assert.Equal(t, "-5.00", FormatMoney(SignedAdjustment(AdjustmentSubtract, d("5"))))
	assert.Equal(t, "-5.00", FormatMoney(SignedAdjustment(AdjustmentSubtract, d("-5"))))
	assert.Equal(t, "5.00", FormatMoney(SignedAdjustment("", d("5"))))
}

func TestResolveDisplayed(t *testing.T) {
	t.Run("round off", func(t *testing.T) {
		got := ResolveDisplayed(d("192.40"), d("0"), d("0"), true)
		assert.Equal(t, "192.40", FormatMoney(got.BeforeRounding))
		assert.Equal(t, "192.00", FormatMoney(got.Displayed))
		assert.Equal(t, "-0.40", FormatMoney(got.Adjustment))
	})

	t.Run("round half up", func(t *testing.T) {
		got := ResolveDisplayed(d("100.25"), d("0.25"), d("0"), true)
		assert.Equal(t, "101.00", FormatMoney(got.Displayed))
		assert.Equal(t, "0.50", FormatMoney(got.Adjustment))
	})

	t.Run("charges and manual adjustment", func(t *testing.T) {
		got := ResolveDisplayed(d("192.40"), d("40"), d("-2.40"), false)
		assert.Equal(t, "230.00", FormatMoney(got.Displayed))
		assert.True(t, got.Adjustment.IsZero())
	})
}

func TestPolicy_SetAutoRoundOff(t *testing.T) {
	adj := OverallAdjustment{AdjustmentType: AdjustmentAdd, ManualAdjustment: "3"}

	cleared := DefaultPolicy().SetAutoRoundOff(adj, true)
	assert.True(t, cleared.AutoRoundOff)
	assert.Equal(t, "", cleared.ManualAdjustment)

	kept := Policy{}.SetAutoRoundOff(adj, true)
	assert.True(t, kept.AutoRoundOff)
	assert.Equal(t, "3", kept.ManualAdjustment)

	off := DefaultPolicy().SetAutoRoundOff(cleared, false)
	assert.False(t, off.AutoRoundOff)
}
