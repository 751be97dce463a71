package models

import (
	"encoding/json"
	"fmt"
	"time"

	"billing-backend/calculator"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Invoice is the current state of a sales/purchase invoice or return.
// The money columns mirror Snapshot for querying; Snapshot is authoritative.
// Settlement changes go through Settle so that both stay in step.
type Invoice struct {
	ID                uint               `json:"id" gorm:"primaryKey"`
	Kind              calculator.Variant `json:"kind" gorm:"type:varchar(20);not null;index"`
	InvoiceNumber     string             `json:"invoice_number" gorm:"size:32;uniqueIndex"`
	PartyID           uint               `json:"party_id" gorm:"not null;index"`
	Party             Party              `json:"party" gorm:"foreignKey:PartyID;constraint:OnUpdate:RESTRICT,OnDelete:RESTRICT"`
	OriginalInvoiceID *uint              `json:"original_invoice_id,omitempty" gorm:"index"`
	IssueDate         time.Time          `json:"issue_date"`
	TermsDays         int                `json:"terms_days"`
	DueDate           *time.Time         `json:"due_date"`
	Notes             string             `json:"notes"`

	Items   []InvoiceItem   `json:"items" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
	Charges []InvoiceCharge `json:"additional_charges" gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`

	Subtotal        decimal.Decimal `json:"subtotal" gorm:"type:numeric(12,2)"`
	ItemDiscount    decimal.Decimal `json:"item_discount" gorm:"type:numeric(12,2)"`
	OverallDiscount decimal.Decimal `json:"overall_discount" gorm:"type:numeric(12,2)"`
	TaxTotal        decimal.Decimal `json:"tax_total" gorm:"type:numeric(12,2)"`
	ChargesTotal    decimal.Decimal `json:"charges_total" gorm:"type:numeric(12,2)"`
	RoundOff        decimal.Decimal `json:"round_off" gorm:"type:numeric(12,2)"`
	Total           decimal.Decimal `json:"total" gorm:"type:numeric(12,2)"`
	AmountSettled   decimal.Decimal `json:"amount_settled" gorm:"type:numeric(12,2)"`
	Balance         decimal.Decimal `json:"balance" gorm:"type:numeric(12,2)"`
	PaymentStatus   string          `json:"payment_status" gorm:"size:16;index"`
	PaymentMethod   string          `json:"payment_method" gorm:"size:32"`

	Snapshot  datatypes.JSON `json:"snapshot"`
	SavedAt   time.Time      `json:"saved_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

type InvoiceItem struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	InvoiceID       uint            `json:"-" gorm:"index"`
	Position        int             `json:"position"`
	LineID          string          `json:"line_id" gorm:"size:64"`
	ProductID       *string         `json:"product_id" gorm:"index"`
	Name            string          `json:"name"`
	HSN             string          `json:"hsn" gorm:"size:8"`
	Quantity        decimal.Decimal `json:"quantity" gorm:"type:numeric(12,3)"`
	UnitPrice       decimal.Decimal `json:"unit_price" gorm:"type:numeric(12,2)"`
	DiscountMode    string          `json:"discount_mode" gorm:"size:8"`
	DiscountPercent decimal.Decimal `json:"discount_percent" gorm:"type:numeric(7,4)"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2)"`
	TaxRate         decimal.Decimal `json:"tax_rate" gorm:"type:numeric(5,2)"`
	TaxAmount       decimal.Decimal `json:"tax_amount" gorm:"type:numeric(12,2)"`
	Amount          decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
}

type InvoiceCharge struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	InvoiceID uint            `json:"-" gorm:"index"`
	ChargeID  string          `json:"charge_id" gorm:"size:64"`
	Label     string          `json:"label"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	TaxType   string          `json:"tax_type" gorm:"size:16"`
}

// Immutable snapshot, one per save.
type InvoiceVersion struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	InvoiceID uint           `json:"invoice_id" gorm:"index:idx_invoice_versions_invoice_id_version_no,unique,priority:1"`
	VersionNo int            `json:"version_no" gorm:"not null;index:idx_invoice_versions_invoice_id_version_no,unique,priority:2"`
	Kind      string         `json:"kind" gorm:"type:VARCHAR(20)"`
	Snapshot  datatypes.JSON `json:"snapshot"`
	CreatedAt time.Time      `json:"created_at"`
}

// Payment is a settlement recorded against an invoice after it was saved.
type Payment struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	InvoiceID uint            `json:"invoice_id" gorm:"index:idx_payments_invoice_paid_at,priority:1"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:numeric(12,2)"`
	Method    string          `json:"method"`
	Reference string          `json:"reference"`
	Note      string          `json:"note"`
	PaidAt    time.Time       `json:"paid_at" gorm:"index:idx_payments_invoice_paid_at,priority:2"`
	CreatedAt time.Time       `json:"created_at"`
}

// Apply copies a computed form onto the invoice: rollup columns, item and
// charge rows, and the JSON snapshot.
func (inv *Invoice) Apply(in calculator.Input, res calculator.Result, savedAt time.Time) error {
	doc := calculator.NewDocument(in, res, savedAt)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal invoice snapshot: %w", err)
	}

	inv.Kind = in.Variant
	inv.Subtotal = res.Subtotal
	inv.ItemDiscount = res.TotalItemDiscount
	inv.OverallDiscount = res.OverallDiscount
	inv.TaxTotal = res.TotalTax
	inv.ChargesTotal = res.TotalAdditionalCharges
	inv.RoundOff = res.RoundingAdjustment
	inv.Total = res.FinalTotal
	inv.AmountSettled = res.AmountSettled
	inv.Balance = res.Balance
	inv.PaymentStatus = string(res.PaymentStatus)
	inv.PaymentMethod = res.Payment.Method
	inv.Snapshot = datatypes.JSON(raw)
	inv.SavedAt = doc.SavedAt

	inv.Items = make([]InvoiceItem, 0, len(res.Items))
	for i, li := range res.Items {
		item := InvoiceItem{
			Position:        i + 1,
			LineID:          li.ID,
			Name:            li.Name,
			HSN:             li.HSN,
			Quantity:        calculator.Parse(li.Quantity),
			UnitPrice:       calculator.Parse(li.UnitPrice),
			DiscountMode:    string(li.DiscountMode),
			DiscountPercent: calculator.Parse(li.DiscountPercent),
			DiscountAmount:  li.Discount(),
			TaxRate:         li.Rate(),
			TaxAmount:       li.Tax(),
			Amount:          li.Amount(),
		}
		if li.ProductID != "" {
			pid := li.ProductID
			item.ProductID = &pid
		}
		inv.Items = append(inv.Items, item)
	}

	inv.Charges = make([]InvoiceCharge, 0, len(in.Charges))
	for _, c := range in.Charges {
		inv.Charges = append(inv.Charges, InvoiceCharge{
			ChargeID: c.ID,
			Label:    c.Label,
			Amount:   c.Value(),
			TaxType:  c.TaxType,
		})
	}
	return nil
}

// Document decodes Snapshot.
func (inv *Invoice) Document() (calculator.Document, error) {
	var doc calculator.Document
	if len(inv.Snapshot) == 0 {
		return doc, fmt.Errorf("invoice %d has no snapshot", inv.ID)
	}
	if err := json.Unmarshal(inv.Snapshot, &doc); err != nil {
		return doc, fmt.Errorf("decode invoice %d snapshot: %w", inv.ID, err)
	}
	return doc, nil
}

// Settle sets the whole settled amount, including recorded payments, and
// rewrites balance and status in the columns and in Snapshot.
func (inv *Invoice) Settle(settled decimal.Decimal) error {
	doc, err := inv.Document()
	if err != nil {
		return err
	}
	settled = calculator.Round2(settled)
	doc.Settle(inv.Total, settled)
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal invoice %d snapshot: %w", inv.ID, err)
	}
	inv.AmountSettled = settled
	inv.Balance = calculator.Balance(inv.Total, settled)
	inv.PaymentStatus = string(doc.PaymentStatus)
	inv.Snapshot = datatypes.JSON(raw)
	return nil
}
