package calculator

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioInput() Input {
	return Input{
		Variant: Sales,
		Items: []LineItem{
			{ID: "l1", Name: "Rice", Quantity: "2", UnitPrice: "100", DiscountMode: DiscountPercent, DiscountPercent: "10", TaxRate: "18"},
		},
	}
}

func TestCompute_SingleLine(t *testing.T) {
	res := Compute(scenarioInput())

	require.Len(t, res.Items, 1)
	assert.Equal(t, "20.00", res.Items[0].DiscountAmount)
	assert.Equal(t, "32.40", res.Items[0].TaxAmount)
	assert.Equal(t, "212.40", FormatMoney(res.FinalTotal))
	assert.Equal(t, "212.40", FormatMoney(res.Balance))
	assert.Equal(t, StatusUnpaid, res.PaymentStatus)
	assert.False(t, res.IsPaid)
}

func TestCompute_OverallDiscountBeforeTaxWithRoundOff(t *testing.T) {
	in := Input{
		Items: []LineItem{
			{Quantity: "1", UnitPrice: "180", TaxRate: "18"},
		},
		Adjustment: OverallAdjustment{
			DiscountOption:   BeforeTax,
			DiscountMode:     DiscountFlat,
			DiscountFlat:     "20",
			AdjustmentType:   AdjustmentAdd,
			ManualAdjustment: "7",
			AutoRoundOff:     true,
		},
	}

	res := Compute(in)

	// taxable 180, item tax 32.40, (180-20)+32.40
	assert.Equal(t, "32.40", FormatMoney(res.TotalTax))
	assert.Equal(t, "192.40", FormatMoney(res.BaseTotal))
	assert.Equal(t, "192.40", FormatMoney(res.BeforeRounding))
	assert.Equal(t, "192.00", FormatMoney(res.FinalTotal))
	assert.Equal(t, "-0.40", FormatMoney(res.RoundingAdjustment))
	assert.Equal(t, "", res.Adjustment.ManualAdjustment)
	assert.Equal(t, "11.11", res.Adjustment.DiscountPercent)
	assert.Equal(t, "20.00", res.Adjustment.DiscountFlat)
}

func TestCompute_RoundOffKeepsAdjustmentWhenDecoupled(t *testing.T) {
	in := Input{
		Items: []LineItem{{Quantity: "1", UnitPrice: "100.40"}},
		Adjustment: OverallAdjustment{
			AdjustmentType:   AdjustmentSubtract,
			ManualAdjustment: "0.30",
			AutoRoundOff:     true,
		},
	}

	res := New(Policy{RoundOffClearsAdjustment: false}).Compute(in)

	assert.Equal(t, "100.10", FormatMoney(res.BeforeRounding))
	assert.Equal(t, "100.00", FormatMoney(res.FinalTotal))
	assert.Equal(t, "0.30", res.Adjustment.ManualAdjustment)
	assert.Equal(t, "-0.30", FormatMoney(res.ManualAdjustment))
}

func TestCompute_AfterTaxPercentDiscountAndCharges(t *testing.T) {
	in := Input{
		Items: []LineItem{
			{Quantity: "2", UnitPrice: "100", DiscountPercent: "10", TaxRate: "18"},
		},
		Charges: []AdditionalCharge{{Label: "Freight", Amount: "50"}},
		Adjustment: OverallAdjustment{
			DiscountOption:  AfterTax,
			DiscountPercent: "10",
		},
	}

	res := Compute(in)

	// discount base 212.40 -> 21.24; 212.40 - 21.24 + 50
	assert.Equal(t, "21.24", res.Adjustment.DiscountFlat)
	assert.Equal(t, DiscountPercent, res.Adjustment.DiscountMode)
	assert.Equal(t, "191.16", FormatMoney(res.BaseTotal))
	assert.Equal(t, "241.16", FormatMoney(res.FinalTotal))
}

func TestCompute_OverrideBypassesRoundingAndAdjustment(t *testing.T) {
	in := scenarioInput()
	in.Adjustment = OverallAdjustment{AutoRoundOff: true}
	in.TotalAmount = "205.55"
	in.TotalOverridden = true
	in.Payment = Payment{AmountReceived: "5.55", Method: "upi"}

	res := Compute(in)

	assert.Equal(t, "212.00", FormatMoney(res.DisplayedTotal))
	assert.Equal(t, "205.55", FormatMoney(res.FinalTotal))
	assert.Equal(t, "200.00", FormatMoney(res.Balance))
	assert.Equal(t, StatusPartial, res.PaymentStatus)
	assert.Equal(t, "upi", res.Payment.Method)
}

func TestCompute_FullyPaidFollowsFinal(t *testing.T) {
	in := scenarioInput()
	in.Payment = ToggleFullyPaid(Payment{AmountReceived: "12"}, true, Compute(in).FinalTotal)
	assert.Equal(t, "212.40", in.Payment.AmountReceived)

	// a later quantity change keeps received equal to the new total
	in.Items[0].Quantity = "3"
	res := Compute(in)
	assert.Equal(t, "318.60", FormatMoney(res.FinalTotal))
	assert.Equal(t, "318.60", res.Payment.AmountReceived)
	assert.True(t, res.Balance.IsZero())
	assert.Equal(t, StatusPaid, res.PaymentStatus)

	in.Payment = ToggleFullyPaid(res.Payment, false, res.FinalTotal)
	assert.Equal(t, "12", in.Payment.AmountReceived)
	assert.Equal(t, StatusPartial, Compute(in).PaymentStatus)
}

func TestCompute_NegativeFinalBalance(t *testing.T) {
	in := Input{
		Items: []LineItem{{Quantity: "1", UnitPrice: "10"}},
		Adjustment: OverallAdjustment{
			AdjustmentType:   AdjustmentSubtract,
			ManualAdjustment: "15",
		},
		Payment: Payment{AmountReceived: "2"},
	}

	res := Compute(in)

	assert.Equal(t, "-5.00", FormatMoney(res.FinalTotal))
	assert.True(t, res.Balance.Equal(res.FinalTotal.Sub(d("2"))))
	assert.Equal(t, "-7.00", FormatMoney(res.Balance))
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	in := scenarioInput()
	in.Items[0].DiscountAmount = "stale"

	_ = Compute(in)

	assert.Equal(t, "stale", in.Items[0].DiscountAmount)
	assert.Equal(t, "", in.Items[0].TaxAmount)
}

func TestCompute_Idempotent(t *testing.T) {
	in := scenarioInput()
	in.Charges = []AdditionalCharge{{Label: "Freight", Amount: "10"}}
	in.Adjustment = OverallAdjustment{DiscountPercent: "5", AutoRoundOff: true}

	first, err := json.Marshal(Compute(in))
	require.NoError(t, err)
	second, err := json.Marshal(Compute(in))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(second))

	// feeding a result back in changes nothing
	res := Compute(in)
	in.Items = res.Items
	in.Adjustment = res.Adjustment
	third, err := json.Marshal(Compute(in))
	require.NoError(t, err)
	assert.JSONEq(t, string(first), string(third))
}

func TestDocument_JSONShape(t *testing.T) {
	savedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		variant Variant
		key     string
	}{
		{Sales, "amountReceived"},
		{Purchase, "amountPaid"},
		{SalesReturn, "amountRefunded"},
		{PurchaseReturn, "amountRefunded"},
	}
	for _, tt := range tests {
		t.Run(string(tt.variant), func(t *testing.T) {
			in := scenarioInput()
			in.Variant = tt.variant
			in.Payment = Payment{AmountReceived: "12.40", Method: "cash"}
			doc := NewDocument(in, Compute(in), savedAt)

			raw, err := json.Marshal(doc)
			require.NoError(t, err)

			var fields map[string]any
			require.NoError(t, json.Unmarshal(raw, &fields))
			for _, k := range []string{"items", "additionalCharges", "discountOption", "discountPercentStr",
				"discountFlatStr", "autoRoundOff", "adjustmentType", "manualAdjustment", "totalAmount",
				"balanceAmount", "paymentStatus", "savedAt"} {
				assert.Contains(t, fields, k)
			}
			assert.Equal(t, "12.40", fields[tt.key])
			assert.Equal(t, "212.40", fields["totalAmount"])
			assert.Equal(t, "200.00", fields["balanceAmount"])
			assert.Equal(t, "partial", fields["paymentStatus"])
			assert.Equal(t, "2026-03-01T10:00:00Z", fields["savedAt"])

			var back Document
			require.NoError(t, json.Unmarshal(raw, &back))
			assert.Equal(t, doc, back)
			assert.Equal(t, FormatMoney(Compute(in).FinalTotal), FormatMoney(Compute(back.Input()).FinalTotal))
		})
	}
}
