package models

import (
	"encoding/json"
	"testing"
	"time"

	"billing-backend/calculator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyKindFor(t *testing.T) {
	assert.Equal(t, PartyCustomer, PartyKindFor(calculator.Sales))
	assert.Equal(t, PartyCustomer, PartyKindFor(calculator.SalesReturn))
	assert.Equal(t, PartySupplier, PartyKindFor(calculator.Purchase))
	assert.Equal(t, PartySupplier, PartyKindFor(calculator.PurchaseReturn))
}

func TestInvoiceApply(t *testing.T) {
	in := calculator.Input{
		Variant: calculator.Purchase,
		Items: []calculator.LineItem{
			{ID: "l1", ProductID: "p1", Name: "Flour", HSN: "1101", Quantity: "2", UnitPrice: "100", DiscountMode: calculator.DiscountPercent, DiscountPercent: "10", TaxRate: "18"},
			{ID: "l2", Name: "Bags", Quantity: "1", UnitPrice: "50", TaxRate: "0"},
		},
		Charges: []calculator.AdditionalCharge{{ID: "c1", Label: "Freight", Amount: "25"}},
		Payment: calculator.Payment{AmountReceived: "100", Method: "bank"},
	}
	res := calculator.Compute(in)
	saved := time.Date(2026, 1, 10, 9, 30, 0, 0, time.UTC)

	var inv Invoice
	require.NoError(t, inv.Apply(in, res, saved))

	assert.Equal(t, calculator.Purchase, inv.Kind)
	assert.Equal(t, "250.00", inv.Subtotal.StringFixed(2))
	assert.Equal(t, "20.00", inv.ItemDiscount.StringFixed(2))
	assert.Equal(t, "32.40", inv.TaxTotal.StringFixed(2))
	assert.Equal(t, "25.00", inv.ChargesTotal.StringFixed(2))
	assert.Equal(t, "287.40", inv.Total.StringFixed(2))
	assert.Equal(t, "100.00", inv.AmountSettled.StringFixed(2))
	assert.Equal(t, "187.40", inv.Balance.StringFixed(2))
	assert.Equal(t, string(calculator.StatusPartial), inv.PaymentStatus)
	assert.Equal(t, "bank", inv.PaymentMethod)
	assert.Equal(t, saved, inv.SavedAt)

	require.Len(t, inv.Items, 2)
	first := inv.Items[0]
	assert.Equal(t, 1, first.Position)
	require.NotNil(t, first.ProductID)
	assert.Equal(t, "p1", *first.ProductID)
	assert.Equal(t, "20.00", first.DiscountAmount.StringFixed(2))
	assert.Equal(t, "212.40", first.Amount.StringFixed(2))
	assert.Nil(t, inv.Items[1].ProductID)

	require.Len(t, inv.Charges, 1)
	assert.Equal(t, "Freight", inv.Charges[0].Label)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(inv.Snapshot, &raw))
	assert.Equal(t, "100.00", raw["amountPaid"])
	assert.NotContains(t, raw, "amountReceived")
	assert.Equal(t, "287.40", raw["totalAmount"])
}

func TestInvoiceDocument(t *testing.T) {
	var empty Invoice
	_, err := empty.Document()
	assert.Error(t, err)

	in := calculator.Input{
		Variant: calculator.SalesReturn,
		Items:   []calculator.LineItem{{ID: "l1", Quantity: "1", UnitPrice: "80", TaxRate: "5"}},
		Payment: calculator.Payment{FullyPaid: true},
	}
	res := calculator.Compute(in)
	var inv Invoice
	require.NoError(t, inv.Apply(in, res, time.Now()))

	doc, err := inv.Document()
	require.NoError(t, err)
	assert.Equal(t, calculator.SalesReturn, doc.Variant)
	assert.Equal(t, "84.00", doc.AmountSettled)

	again := calculator.Compute(doc.Input())
	assert.True(t, again.FinalTotal.Equal(res.FinalTotal))
	assert.Equal(t, calculator.StatusPaid, again.PaymentStatus)

	inv.Snapshot = []byte("{not json")
	_, err = inv.Document()
	assert.Error(t, err)
}

func TestInvoiceSettle(t *testing.T) {
	var empty Invoice
	assert.Error(t, empty.Settle(decimal.NewFromInt(1)))

	in := calculator.Input{
		Variant: calculator.Purchase,
		Items:   []calculator.LineItem{{ID: "l1", Quantity: "2", UnitPrice: "100", DiscountMode: calculator.DiscountPercent, DiscountPercent: "10", TaxRate: "18"}},
		Payment: calculator.Payment{FullyPaid: true},
	}
	var inv Invoice
	require.NoError(t, inv.Apply(in, calculator.Compute(in), time.Now()))
	require.Equal(t, string(calculator.StatusPaid), inv.PaymentStatus)

	require.NoError(t, inv.Settle(decimal.RequireFromString("150")))
	assert.Equal(t, "150.00", inv.AmountSettled.StringFixed(2))
	assert.Equal(t, "62.40", inv.Balance.StringFixed(2))
	assert.Equal(t, string(calculator.StatusPartial), inv.PaymentStatus)

	doc, err := inv.Document()
	require.NoError(t, err)
	assert.Equal(t, "150.00", doc.AmountSettled)
	assert.Equal(t, "62.40", doc.BalanceAmount)
	assert.Equal(t, calculator.StatusPartial, doc.PaymentStatus)
	assert.False(t, doc.IsFullyPaid)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(inv.Snapshot, &raw))
	assert.Equal(t, "150.00", raw["amountPaid"])

	// recomputing from the snapshot agrees with the columns
	again := calculator.Compute(doc.Input())
	assert.True(t, again.Balance.Equal(inv.Balance))
	assert.Equal(t, calculator.StatusPartial, again.PaymentStatus)

	require.NoError(t, inv.Settle(decimal.RequireFromString("212.4")))
	assert.True(t, inv.Balance.IsZero())
	assert.Equal(t, string(calculator.StatusPaid), inv.PaymentStatus)
}
