package calculator

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Document is the JSON snapshot saved with an invoice: the raw form inputs
// next to the derived totals. The settled amount is stored under the key
// named by Variant.SettledField.
type Document struct {
	Variant            Variant            `json:"variant"`
	Items              []LineItem         `json:"items"`
	AdditionalCharges  []AdditionalCharge `json:"additionalCharges"`
	DiscountOption     DiscountOption     `json:"discountOption"`
	DiscountMode       DiscountMode       `json:"discountMode"`
	DiscountPercentStr string             `json:"discountPercentStr"`
	DiscountFlatStr    string             `json:"discountFlatStr"`
	AutoRoundOff       bool               `json:"autoRoundOff"`
	AdjustmentType     AdjustmentType     `json:"adjustmentType"`
	ManualAdjustment   string             `json:"manualAdjustment"`
	TotalAmount        string             `json:"totalAmount"`
	TotalOverridden    bool               `json:"totalOverridden"`
	AmountSettled      string             `json:"-"`
	IsFullyPaid        bool               `json:"isFullyPaid"`
	BalanceAmount      string             `json:"balanceAmount"`
	PaymentStatus      PaymentStatus      `json:"paymentStatus"`
	PaymentMethod      string             `json:"paymentMethod,omitempty"`
	SavedAt            time.Time          `json:"savedAt"`
}

// NewDocument snapshots a computed form.
func NewDocument(in Input, res Result, savedAt time.Time) Document {
	charges := in.Charges
	if charges == nil {
		charges = []AdditionalCharge{}
	}
	return Document{
		Variant:            in.Variant,
		Items:              res.Items,
		AdditionalCharges:  charges,
		DiscountOption:     res.Adjustment.DiscountOption,
		DiscountMode:       res.Adjustment.DiscountMode,
		DiscountPercentStr: res.Adjustment.DiscountPercent,
		DiscountFlatStr:    res.Adjustment.DiscountFlat,
		AutoRoundOff:       res.Adjustment.AutoRoundOff,
		AdjustmentType:     res.Adjustment.AdjustmentType,
		ManualAdjustment:   res.Adjustment.ManualAdjustment,
		TotalAmount:        FormatMoney(res.FinalTotal),
		TotalOverridden:    in.TotalOverridden,
		AmountSettled:      FormatMoney(res.AmountSettled),
		IsFullyPaid:        res.Payment.FullyPaid,
		BalanceAmount:      FormatMoney(res.Balance),
		PaymentStatus:      res.PaymentStatus,
		PaymentMethod:      res.Payment.Method,
		SavedAt:            savedAt.UTC(),
	}
}

// Input rebuilds the form state a Document was saved from.
func (d Document) Input() Input {
	return Input{
		Variant: d.Variant,
		Items:   d.Items,
		Charges: d.AdditionalCharges,
		Adjustment: OverallAdjustment{
			DiscountOption:   d.DiscountOption,
			DiscountMode:     d.DiscountMode,
			DiscountPercent:  d.DiscountPercentStr,
			DiscountFlat:     d.DiscountFlatStr,
			AdjustmentType:   d.AdjustmentType,
			ManualAdjustment: d.ManualAdjustment,
			AutoRoundOff:     d.AutoRoundOff,
		},
		TotalAmount:     d.TotalAmount,
		TotalOverridden: d.TotalOverridden,
		Payment: Payment{
			AmountReceived: d.AmountSettled,
			FullyPaid:      d.IsFullyPaid,
			Method:         d.PaymentMethod,
		},
	}
}

// Settle records the whole settled amount against total and updates the
// balance and status to match. The fully-paid flag survives only while the
// settlement still equals the total.
func (d *Document) Settle(total, settled decimal.Decimal) {
	settled = Round2(settled)
	d.AmountSettled = FormatMoney(settled)
	d.BalanceAmount = FormatMoney(Balance(total, settled))
	d.IsFullyPaid = d.IsFullyPaid && settled.Equal(total)
	d.PaymentStatus = ResolvePaymentStatus(Payment{AmountReceived: d.AmountSettled, FullyPaid: d.IsFullyPaid}, total)
}

type documentAlias Document

func (d Document) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal(documentAlias(d))
	if err != nil {
		return nil, err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	settled, err := json.Marshal(d.AmountSettled)
	if err != nil {
		return nil, err
	}
	fields[d.Variant.SettledField()] = settled
	return json.Marshal(fields)
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var alias documentAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*d = Document(alias)
	if raw, ok := fields[d.Variant.SettledField()]; ok {
		if err := json.Unmarshal(raw, &d.AmountSettled); err != nil {
			return err
		}
	}
	return nil
}
