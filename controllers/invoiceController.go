package controllers

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"billing-backend/calculator"
	"billing-backend/database"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInvalidKind      = errors.New("invalid invoice kind")
	ErrKindChange       = errors.New("invoice kind cannot change")
	ErrNoItems          = errors.New("invoice needs at least one item")
	ErrOriginalInvoice  = errors.New("original invoice does not match this return")
	ErrOriginalRequired = errors.New("only return documents reference an original invoice")
)

// InvoiceInput is the billing form plus the document header.
type InvoiceInput struct {
	calculator.Input
	PartyID           uint                `json:"party_id"`
	OriginalInvoiceID *uint               `json:"original_invoice_id"`
	IssueDate         string              `json:"issue_date"`
	Terms             calculator.DueTerms `json:"terms"`
	Notes             string              `json:"notes"`
}

func CreateInvoice(c *fiber.Ctx) error {
	var data InvoiceInput
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	invoice := models.Invoice{Kind: data.Variant}
	if err := saveInvoice(db, &invoice, data); err != nil {
		return invoiceError(err)
	}
	if err := loadInvoice(db, &invoice, invoice.ID); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

// UpdateInvoice recomputes and saves the form, appending a version.
func UpdateInvoice(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	var data InvoiceInput
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	var invoice models.Invoice
	if err := db.Clauses(lockingClause(db)...).First(&invoice, id).Error; err != nil {
		return err
	}
	if data.Variant == "" {
		data.Variant = invoice.Kind
	}
	if data.Variant != invoice.Kind {
		return invoiceError(ErrKindChange)
	}
	if err := saveInvoice(db, &invoice, data); err != nil {
		return invoiceError(err)
	}
	if err := loadInvoice(db, &invoice, invoice.ID); err != nil {
		return err
	}
	return c.JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	kind := calculator.Variant(c.Query("kind"))
	if kind != "" && !kind.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, ErrInvalidKind.Error())
	}
	partyID := utils.ParseIntDefault(c.Query("party_id"), 0)
	status := c.Query("status")
	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	scope := func() *gorm.DB {
		q := db.Model(&models.Invoice{})
		if kind != "" {
			q = q.Where("kind = ?", kind)
		}
		if partyID > 0 {
			q = q.Where("party_id = ?", partyID)
		}
		if status != "" {
			q = q.Where("payment_status = ?", status)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return err
	}
	var invoices []models.Invoice
	if err := scope().Preload("Party").
		Omit("snapshot").
		Order("issue_date DESC, id DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&invoices).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"invoices": invoices,
		"total":    total,
		"page":     page,
		"limit":    limit,
	})
}

func GetInvoice(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}
	var invoice models.Invoice
	if err := loadInvoice(db, &invoice, id); err != nil {
		return err
	}
	return c.JSON(invoice)
}

// GetInvoiceSummary renders the totals block of an invoice the way it is
// printed. Tax lines depend on the invoice settings.
func GetInvoiceSummary(c *fiber.Ctx) error {
	id, err := invoiceID(c)
	if err != nil {
		return err
	}
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}
	var invoice models.Invoice
	if err := loadInvoice(db, &invoice, id); err != nil {
		return err
	}
	doc, err := invoice.Document()
	if err != nil {
		return err
	}
	res := calc.Compute(doc.Input())

	summary := fiber.Map{
		"title":              invoice.Kind.Title(),
		"invoice_number":     invoice.InvoiceNumber,
		"party":              invoice.Party.Name,
		"issue_date":         invoice.IssueDate.Format(calculator.DateLayout),
		"subtotal":           calculator.FormatMoney(res.Subtotal),
		"itemDiscount":       calculator.FormatMoney(res.TotalItemDiscount),
		"overallDiscount":    calculator.FormatMoney(res.OverallDiscount),
		"additionalCharges":  invoice.Charges,
		"roundingAdjustment": calculator.FormatMoney(res.RoundingAdjustment),
		"total":              calculator.FormatMoney(invoice.Total),
		"settledLabel":       invoice.Kind.SettledLabel(),
		"settled":            calculator.FormatMoney(invoice.AmountSettled),
		"balance":            calculator.FormatMoney(invoice.Balance),
		"paymentStatus":      invoice.PaymentStatus,
	}
	if invoice.DueDate != nil {
		summary["due_date"] = invoice.DueDate.Format(calculator.DateLayout)
	}
	if settings.ShowTax {
		groups := make([]fiber.Map, 0, len(res.TaxByRate))
		for _, g := range res.TaxByRate {
			row := fiber.Map{
				"rate":          calculator.FormatPercent(g.Rate),
				"taxableAmount": calculator.FormatMoney(g.TaxableAmount),
				"taxAmount":     calculator.FormatMoney(g.TaxAmount),
			}
			if settings.ShowGST {
				row["halfRate"] = calculator.FormatPercent(g.HalfRate)
				row["sgst"] = calculator.FormatMoney(g.SGST)
				row["cgst"] = calculator.FormatMoney(g.CGST)
			}
			groups = append(groups, row)
		}
		summary["taxByRate"] = groups
		summary["totalTax"] = calculator.FormatMoney(res.TotalTax)
	}
	return c.JSON(summary)
}

func GetInvoiceVersions(c *fiber.Ctx) error {
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
	var versions []models.InvoiceVersion
	if err := db.Where("invoice_id = ?", id).Order("version_no").Find(&versions).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"versions": versions})
}

// saveInvoice recomputes data and writes it onto invoice: header, item and
// charge rows, snapshot and a new version. invoice.ID == 0 creates.
func saveInvoice(db *gorm.DB, invoice *models.Invoice, data InvoiceInput) error {
	in := data.Input
	if in.Variant == "" {
		in.Variant = calculator.Sales
	}
	if !in.Variant.Valid() {
		return ErrInvalidKind
	}
	if len(in.Items) == 0 {
		return ErrNoItems
	}
	if err := checkTaxRates(in.Items); err != nil {
		return err
	}
	assignLineIDs(&in)

	var party models.Party
	if err := db.First(&party, data.PartyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusUnprocessableEntity, "unknown party")
		}
		return err
	}
	if party.Kind != models.PartyKindFor(in.Variant) {
		return models.ErrPartyKindMismatch
	}
	if err := checkOriginal(db, in.Variant, party.ID, data.OriginalInvoiceID); err != nil {
		return err
	}

	issued := time.Now().UTC()
	if s := strings.TrimSpace(data.IssueDate); s != "" {
		t, err := time.Parse(calculator.DateLayout, s)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "issue_date must be YYYY-MM-DD")
		}
		issued = t
	}
	y, m, d := issued.Date()
	issued = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	terms := calculator.ResolveDueDate(issued, data.Terms)
	invoice.TermsDays, _ = strconv.Atoi(terms.Days)
	invoice.DueDate = nil
	if terms.DueDate != "" {
		due, err := time.Parse(calculator.DateLayout, terms.DueDate)
		if err == nil {
			invoice.DueDate = &due
		}
	}

	res := calc.Compute(in)
	if err := invoice.Apply(in, res, time.Now()); err != nil {
		return err
	}
	invoice.PartyID = party.ID
	invoice.OriginalInvoiceID = data.OriginalInvoiceID
	invoice.IssueDate = issued
	invoice.Notes = strings.TrimSpace(data.Notes)

	creating := invoice.ID == 0
	if creating {
		seq, err := models.NextSequence(db, string(in.Variant))
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = utils.FormatDocumentNumber(in.Variant.NumberPrefix(), seq)
		if err := db.Omit(clause.Associations).Create(invoice).Error; err != nil {
			return err
		}
	} else {
		paid, err := recordedPayments(db, invoice.ID)
		if err != nil {
			return err
		}
		if err := invoice.Settle(settledOnSave(res, paid)); err != nil {
			return err
		}
		if err := db.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		if err := db.Where("invoice_id = ?", invoice.ID).Delete(&models.InvoiceCharge{}).Error; err != nil {
			return err
		}
		if err := db.Omit(clause.Associations).Save(invoice).Error; err != nil {
			return err
		}
	}

	for i := range invoice.Items {
		invoice.Items[i].InvoiceID = invoice.ID
	}
	for i := range invoice.Charges {
		invoice.Charges[i].InvoiceID = invoice.ID
	}
	if len(invoice.Items) > 0 {
		if err := db.Create(&invoice.Items).Error; err != nil {
			return err
		}
	}
	if len(invoice.Charges) > 0 {
		if err := db.Create(&invoice.Charges).Error; err != nil {
			return err
		}
	}
	return appendVersion(db, invoice)
}

func appendVersion(db *gorm.DB, invoice *models.Invoice) error {
	var last int
	if err := db.Model(&models.InvoiceVersion{}).
		Where("invoice_id = ?", invoice.ID).
		Select("COALESCE(MAX(version_no), 0)").
		Scan(&last).Error; err != nil {
		return err
	}
	version := models.InvoiceVersion{
		InvoiceID: invoice.ID,
		VersionNo: last + 1,
		Kind:      string(invoice.Kind),
		Snapshot:  invoice.Snapshot,
	}
	return db.Create(&version).Error
}

// checkOriginal validates the invoice a return points at: same party, and
// the matching forward kind.
func checkOriginal(db *gorm.DB, kind calculator.Variant, partyID uint, originalID *uint) error {
	if originalID == nil {
		return nil
	}
	if !kind.IsReturn() {
		return ErrOriginalRequired
	}
	var original models.Invoice
	if err := db.Select("id", "kind", "party_id").First(&original, *originalID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOriginalInvoice
		}
		return err
	}
	want := calculator.Sales
	if kind == calculator.PurchaseReturn {
		want = calculator.Purchase
	}
	if original.Kind != want || original.PartyID != partyID {
		return ErrOriginalInvoice
	}
	return nil
}

// assignLineIDs gives rows and charges without an id a fresh one.
func assignLineIDs(in *calculator.Input) {
	items := make([]calculator.LineItem, len(in.Items))
	copy(items, in.Items)
	for i := range items {
		if strings.TrimSpace(items[i].ID) == "" {
			items[i].ID = uuid.NewString()
		}
	}
	in.Items = items

	charges := make([]calculator.AdditionalCharge, len(in.Charges))
	copy(charges, in.Charges)
	for i := range charges {
		if strings.TrimSpace(charges[i].ID) == "" {
			charges[i].ID = uuid.NewString()
		}
	}
	in.Charges = charges
}

func loadInvoice(db *gorm.DB, invoice *models.Invoice, id uint) error {
	return db.Preload("Party").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position") }).
		Preload("Charges", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
		First(invoice, id).Error
}

func invoiceID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "invalid invoice id")
	}
	return uint(id), nil
}

// lockingClause locks the row on postgres; sqlite serializes writers anyway.
func lockingClause(db *gorm.DB) []clause.Expression {
	if db.Dialector.Name() == "postgres" {
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}

// invoiceError maps domain errors to HTTP errors.
func invoiceError(err error) error {
	switch {
	case errors.Is(err, ErrInvalidKind):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrKindChange),
		errors.Is(err, ErrNoItems),
		errors.Is(err, ErrOriginalInvoice),
		errors.Is(err, ErrOriginalRequired),
		errors.Is(err, ErrOverpayment),
		errors.Is(err, models.ErrPartyKindMismatch):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	}
	return err
}

// settledOnSave is the whole settlement of a re-saved form. The form carries
// the settled amount including recorded payments, so it never falls below
// their sum. A fully paid form settles exactly its total.
func settledOnSave(res calculator.Result, paid decimal.Decimal) decimal.Decimal {
	settled := res.AmountSettled
	if res.Payment.FullyPaid {
		settled = res.FinalTotal
	}
	return decimal.Max(settled, paid)
}

func recordedPayments(db *gorm.DB, invoiceID uint) (decimal.Decimal, error) {
	var payments []models.Payment
	if err := db.Select("amount").Where("invoice_id = ?", invoiceID).Find(&payments).Error; err != nil {
		return decimal.Zero, fmt.Errorf("load payments of invoice %d: %w", invoiceID, err)
	}
	sum := decimal.Zero
	for _, p := range payments {
		sum = sum.Add(p.Amount)
	}
	return sum, nil
}
