package controllers

import (
	"strconv"

	"billing-backend/calculator"
	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartyInput struct {
	Kind         string `json:"kind" validate:"required,oneof=customer supplier"`
	Name         string `json:"name" validate:"required"`
	ContactName  string `json:"contact_name"`
	Email        string `json:"email" validate:"omitempty,email"`
	PhoneNumber  string `json:"phone_number"`
	MobileNumber string `json:"mobile_number"`
	Address      string `json:"address"`
	City         string `json:"city"`
	State        string `json:"state"`
	Country      string `json:"country"`
	Zip          string `json:"zip"`
	GSTIN        string `json:"gstin" validate:"omitempty,len=15,alphanum"`
}

// PartyPatch is a partial update; kind cannot change once invoices exist.
type PartyPatch struct {
	Name         *string `json:"name" validate:"omitempty,min=1"`
	ContactName  *string `json:"contact_name"`
	Email        *string `json:"email" validate:"omitempty,email"`
	PhoneNumber  *string `json:"phone_number"`
	MobileNumber *string `json:"mobile_number"`
	Address      *string `json:"address"`
	City         *string `json:"city"`
	State        *string `json:"state"`
	Country      *string `json:"country"`
	Zip          *string `json:"zip"`
	GSTIN        *string `json:"gstin" validate:"omitempty,len=15,alphanum"`
	Active       *bool   `json:"active"`
}

func CreateParty(c *fiber.Ctx) error {
	var data PartyInput
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizeDTO(&data)

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	party := models.Party{
		Kind:         data.Kind,
		Name:         data.Name,
		ContactName:  data.ContactName,
		Email:        data.Email,
		PhoneNumber:  data.PhoneNumber,
		MobileNumber: data.MobileNumber,
		Address:      data.Address,
		City:         data.City,
		State:        data.State,
		Country:      data.Country,
		Zip:          data.Zip,
		GSTIN:        data.GSTIN,
		Active:       true,
	}
	if err := db.Create(&party).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(party)
}

func GetParties(c *fiber.Ctx) error {
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	page := utils.ParseIntDefault(c.Query("page"), 1)
	if page < 1 {
		page = 1
	}
	limit := utils.ParseIntDefault(c.Query("limit"), 50)
	if limit < 1 || limit > 200 {
		limit = 50
	}

	kind := c.Query("kind")
	if kind != "" && kind != models.PartyCustomer && kind != models.PartySupplier {
		return fiber.NewError(fiber.StatusBadRequest, "invalid party kind")
	}
	scope := func() *gorm.DB {
		q := db.Model(&models.Party{})
		if kind != "" {
			q = q.Where("kind = ?", kind)
		}
		return q
	}

	var total int64
	if err := scope().Count(&total).Error; err != nil {
		return err
	}
	var parties []models.Party
	if err := scope().Order("name").Offset((page - 1) * limit).Limit(limit).Find(&parties).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"parties": parties,
		"total":   total,
		"page":    page,
		"limit":   limit,
	})
}

func GetParty(c *fiber.Ctx) error {
	party, err := findParty(c)
	if err != nil {
		return err
	}
	return c.JSON(party)
}

func UpdateParty(c *fiber.Ctx) error {
	party, err := findParty(c)
	if err != nil {
		return err
	}

	var data PartyPatch
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)

	updates := utils.PatchColumns(&data, nil)
	if len(updates) == 0 {
		return c.JSON(party)
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}
	if err := db.Model(&party).Updates(updates).Error; err != nil {
		return err
	}
	if err := db.First(&party, party.ID).Error; err != nil {
		return err
	}
	return c.JSON(party)
}

// GetPartyBalance sums the outstanding balance of a party's invoices. Return
// documents count against it.
func GetPartyBalance(c *fiber.Ctx) error {
	party, err := findParty(c)
	if err != nil {
		return err
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	var invoices []models.Invoice
	if err := db.Select("id", "kind", "total", "balance").Where("party_id = ?", party.ID).Find(&invoices).Error; err != nil {
		return err
	}

	billed, returned, outstanding := decimal.Zero, decimal.Zero, decimal.Zero
	for _, inv := range invoices {
		if inv.Kind.IsReturn() {
			returned = returned.Add(inv.Total)
			outstanding = outstanding.Sub(inv.Balance)
			continue
		}
		billed = billed.Add(inv.Total)
		outstanding = outstanding.Add(inv.Balance)
	}

	return c.JSON(fiber.Map{
		"party_id":    party.ID,
		"kind":        party.Kind,
		"invoices":    len(invoices),
		"billed":      calculator.FormatMoney(billed),
		"returned":    calculator.FormatMoney(returned),
		"outstanding": calculator.FormatMoney(outstanding),
	})
}

func findParty(c *fiber.Ctx) (models.Party, error) {
	var party models.Party
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return party, fiber.NewError(fiber.StatusBadRequest, "invalid party id")
	}
	db, err := database.GetDB(c)
	if err != nil {
		return party, err
	}
	if err := db.First(&party, uint(id)).Error; err != nil {
		return party, err
	}
	return party, nil
}
