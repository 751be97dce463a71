package controllers

import (
	"fmt"

	"billing-backend/calculator"
	"billing-backend/database"
	"billing-backend/middlewares"
	"billing-backend/models"
	"billing-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ProductInput struct {
	Name        string          `json:"name" validate:"required"`
	Description string          `json:"description"`
	HSN         string          `json:"hsn" validate:"omitempty,max=8,numeric"`
	Unit        string          `json:"unit"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     string          `json:"tax_rate" validate:"taxrate"`
	Active      *bool           `json:"active"`
}

type ProductPatch struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Description *string          `json:"description"`
	HSN         *string          `json:"hsn" validate:"omitempty,max=8,numeric"`
	Unit        *string          `json:"unit"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	TaxRate     *string          `json:"tax_rate" validate:"omitempty,taxrate"`
	Active      *bool            `json:"active"`
}

// CreateProducts creates a batch of products in one transaction.
func CreateProducts(c *fiber.Ctx) error {
	var inputs []ProductInput
	if err := c.BodyParser(&inputs); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(inputs) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no products given")
	}

	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	created := make([]models.Product, 0, len(inputs))
	for i, input := range inputs {
		if err := middlewares.ValidateStruct(&input); err != nil {
			return err
		}
		utils.NormalizeDTO(&input)
		if input.UnitPrice.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("invalid unit price at index %d", i))
		}

		product := models.Product{
			Name:        input.Name,
			Description: input.Description,
			HSN:         input.HSN,
			Unit:        input.Unit,
			UnitPrice:   input.UnitPrice,
			TaxRate:     calculator.Parse(input.TaxRate),
			Active:      input.Active == nil || *input.Active,
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		created = append(created, product)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// GetProducts lists active products; ?all=true includes inactive ones.
func GetProducts(c *fiber.Ctx) error {
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	q := db.Model(&models.Product{})
	if c.Query("all") != "true" {
		q = q.Where("active = ?", true)
	}
	var products []models.Product
	if err := q.Order("name").Find(&products).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"products": products,
		"message":  "success",
	})
}

func UpdateProduct(c *fiber.Ctx) error {
	db, err := database.GetDB(c)
	if err != nil {
		return err
	}

	var product models.Product
	if err := db.First(&product, "id = ?", c.Params("id")).Error; err != nil {
		return err
	}

	var data ProductPatch
	if err := middlewares.BindAndValidate(c, &data); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&data)
	if data.UnitPrice != nil && data.UnitPrice.IsNegative() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid unit price")
	}

	updates := utils.PatchColumns(&data, map[string]string{"tax_rate": ""})
	if data.TaxRate != nil {
		updates["tax_rate"] = calculator.Parse(*data.TaxRate)
	}
	if len(updates) > 0 {
		if err := db.Model(&product).Updates(updates).Error; err != nil {
			return err
		}
		if err := db.First(&product, "id = ?", product.Id).Error; err != nil {
			return err
		}
	}
	return c.JSON(product)
}
