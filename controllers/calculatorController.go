package controllers

import (
	"fmt"

	"billing-backend/calculator"

	"github.com/gofiber/fiber/v2"
)

type NormalizeLineInput struct {
	Item    calculator.LineItem `json:"item"`
	Changed calculator.Field    `json:"changed"`
}

// NormalizeLine runs one row through the line normalizer after an edit of
// Changed.
func NormalizeLine(c *fiber.Ctx) error {
	var data NormalizeLineInput
	if err := c.BodyParser(&data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	switch data.Changed {
	case "", calculator.FieldQuantity, calculator.FieldUnitPrice,
		calculator.FieldDiscountPercent, calculator.FieldDiscountAmount, calculator.FieldTaxRate:
	default:
		return fiber.NewError(fiber.StatusBadRequest, "unknown field "+string(data.Changed))
	}
	if err := checkTaxRates([]calculator.LineItem{data.Item}); err != nil {
		return err
	}

	item := calculator.NormalizeLine(data.Item, data.Changed)
	return c.JSON(fiber.Map{
		"item":    item,
		"taxable": calculator.FormatMoney(item.Taxable()),
		"amount":  calculator.FormatMoney(item.Amount()),
	})
}

// Calculate previews the totals of a form without saving it.
func Calculate(c *fiber.Ctx) error {
	var in calculator.Input
	if err := c.BodyParser(&in); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if in.Variant == "" {
		in.Variant = calculator.Sales
	}
	if !in.Variant.Valid() {
		return fiber.NewError(fiber.StatusBadRequest, "invalid invoice kind")
	}
	if err := checkTaxRates(in.Items); err != nil {
		return err
	}

	res := calc.Compute(in)
	return c.JSON(fiber.Map{
		"result":       res,
		"title":        in.Variant.Title(),
		"settledLabel": in.Variant.SettledLabel(),
	})
}

func checkTaxRates(items []calculator.LineItem) error {
	for i, item := range items {
		if !calculator.IsTaxRate(item.TaxRate) {
			return fiber.NewError(fiber.StatusUnprocessableEntity,
				fmt.Sprintf("unsupported tax rate %q at item %d", item.TaxRate, i))
		}
	}
	return nil
}
