package controllers

import (
	"errors"
	"strings"
	"time"

	"billing-backend/calculator"
	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

var ErrOverpayment = errors.New("payment exceeds outstanding balance")

type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" validate:"omitempty,max=32"`
	Reference string          `json:"reference" validate:"omitempty,max=64"`
	Note      string          `json:"note"`
	PaidAt    *time.Time      `json:"paid_at"`
}

// CreatePayment records a settlement against an invoice and updates its
// settled amount, balance and status, appending a version for the new
// snapshot.
func CreatePayment(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var data PaymentInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	amount := calculator.Round2(data.Amount)
	if !amount.IsPositive() {
		return fiber.NewError(fiber.StatusBadRequest, "amount must be positive")
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	var invoice models.Invoice
	if err := db.Clauses(lockingClause(db)...).First(&invoice, id).Error; err != nil {
		return err
	}
	if err := applyPayment(&invoice, amount); err != nil {
		return invoiceError(err)
	}

	paidAt := time.Now().UTC()
	if data.PaidAt != nil {
		paidAt = data.PaidAt.UTC()
	}
	method := strings.TrimSpace(data.Method)
	payment := models.Payment{
		InvoiceID: invoice.ID,
		Amount:    amount,
		Method:    method,
		Reference: strings.TrimSpace(data.Reference),
		Note:      strings.TrimSpace(data.Note),
		PaidAt:    paidAt,
	}
	if err := db.Create(&payment).Error; err != nil {
		return err
	}

	updates := map[string]any{
		"amount_settled": invoice.AmountSettled,
		"balance":        invoice.Balance,
		"payment_status": invoice.PaymentStatus,
		"snapshot":       invoice.Snapshot,
	}
	if method != "" {
		updates["payment_method"] = method
	}
	if err := db.Model(&models.Invoice{}).Where("id = ?", invoice.ID).Updates(updates).Error; err != nil {
		return err
	}
	if err := appendVersion(db, &invoice); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment":        payment,
		"amount_settled": calculator.FormatMoney(invoice.AmountSettled),
		"balance":        calculator.FormatMoney(invoice.Balance),
		"payment_status": invoice.PaymentStatus,
	})
}

func ListPayments(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}
	var invoice models.Invoice
	if err := db.Select("id").First(&invoice, id).Error; err != nil {
		return err
	}
	var payments []models.Payment
	if err := db.Where("invoice_id = ?", id).Order("paid_at, id").Find(&payments).Error; err != nil {
		return err
	}
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return c.JSON(fiber.Map{
		"payments": payments,
		"total":    calculator.FormatMoney(total),
	})
}

// applyPayment adds amount to the invoice settlement. It refuses to settle
// more than the outstanding balance.
func applyPayment(invoice *models.Invoice, amount decimal.Decimal) error {
	if amount.GreaterThan(invoice.Balance) {
		return ErrOverpayment
	}
	return invoice.Settle(invoice.AmountSettled.Add(amount))
}
