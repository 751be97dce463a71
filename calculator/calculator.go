package calculator

import (
	"github.com/shopspring/decimal"
)

// Input is the full state of a billing form.
type Input struct {
	Variant         Variant            `json:"variant"`
	Items           []LineItem         `json:"items"`
	Charges         []AdditionalCharge `json:"additionalCharges"`
	Adjustment      OverallAdjustment  `json:"adjustment"`
	TotalAmount     string             `json:"totalAmount"`
	TotalOverridden bool               `json:"totalOverridden"`
	Payment         Payment            `json:"payment"`
}

// Result is Input with every derived field resolved.
type Result struct {
	Items      []LineItem        `json:"items"`
	Adjustment OverallAdjustment `json:"adjustment"`
	Payment    Payment           `json:"payment"`

	Totals
	OverallDiscount    decimal.Decimal `json:"overallDiscount"`
	BaseTotal          decimal.Decimal `json:"baseTotal"`
	ManualAdjustment   decimal.Decimal `json:"signedManualAdjustment"`
	BeforeRounding     decimal.Decimal `json:"totalBeforeRounding"`
	RoundingAdjustment decimal.Decimal `json:"roundingAdjustment"`
	DisplayedTotal     decimal.Decimal `json:"displayedTotal"`
	FinalTotal         decimal.Decimal `json:"finalTotal"`
	AmountSettled      decimal.Decimal `json:"amountSettled"`
	Balance            decimal.Decimal `json:"balance"`
	IsPaid             bool            `json:"isPaid"`
	PaymentStatus      PaymentStatus   `json:"paymentStatus"`
}

// Calculator runs the totals pipeline under a Policy. The zero value uses
// the zero Policy; use New(DefaultPolicy()) for the form behaviour.
type Calculator struct {
	Policy Policy
}

func New(p Policy) *Calculator {
	return &Calculator{Policy: p}
}

// Compute resolves in with the default policy.
func Compute(in Input) Result {
	return New(DefaultPolicy()).Compute(in)
}

// Compute normalizes every line, aggregates, applies the overall discount,
// manual adjustment, round-off and override, then settles the payment.
// It does not modify in.
func (c *Calculator) Compute(in Input) Result {
	var res Result

	res.Items = make([]LineItem, len(in.Items))
	for i, item := range in.Items {
		res.Items[i] = NormalizeLine(item, "")
	}
	res.Totals = BuildTotals(res.Items, in.Charges)

	adj := in.Adjustment
	adj.DiscountOption = adj.option()
	adj.DiscountMode = resolveMode(adj.DiscountMode, adj.DiscountPercent, adj.DiscountFlat)
	if adj.AdjustmentType != AdjustmentSubtract {
		adj.AdjustmentType = AdjustmentAdd
	}
	if adj.AutoRoundOff {
		adj = c.Policy.SetAutoRoundOff(adj, true)
	}

	taxable := res.SubtotalAfterItemDiscounts
	driver := adj.DiscountPercent
	if adj.DiscountMode == DiscountFlat {
		driver = adj.DiscountFlat
	}
	pair := DeriveDiscount(DiscountBase(adj.DiscountOption, taxable, res.TotalTax), Discount{Mode: adj.DiscountMode, Value: driver})
	adj.DiscountPercent = pair.Percent
	adj.DiscountFlat = pair.Amount
	res.Adjustment = adj

	res.OverallDiscount = Parse(pair.Amount)
	res.BaseTotal = ResolveBase(taxable, res.TotalTax, adj.DiscountOption, res.OverallDiscount)
	res.ManualAdjustment = SignedAdjustment(adj.AdjustmentType, Parse(adj.ManualAdjustment))

	rounding := ResolveDisplayed(res.BaseTotal, res.TotalAdditionalCharges, res.ManualAdjustment, adj.AutoRoundOff)
	res.BeforeRounding = rounding.BeforeRounding
	res.DisplayedTotal = rounding.Displayed
	res.RoundingAdjustment = rounding.Adjustment

	res.FinalTotal = ResolveFinal(res.DisplayedTotal, in.TotalAmount, in.TotalOverridden)

	pay := in.Payment
	if pay.FullyPaid {
		pay.AmountReceived = FormatMoney(res.FinalTotal)
	}
	res.Payment = pay
	res.AmountSettled = pay.Received()
	res.Balance = Balance(res.FinalTotal, res.AmountSettled)
	res.IsPaid = IsPaid(pay, res.FinalTotal)
	res.PaymentStatus = ResolvePaymentStatus(pay, res.FinalTotal)
	return res
}
