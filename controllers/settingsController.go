package controllers

import (
	"billing-backend/calculator"
	"billing-backend/config"

	"github.com/gofiber/fiber/v2"
)

// InvoiceSettings controls which tax breakdowns invoice summaries show.
type InvoiceSettings struct {
	ShowTax bool `json:"showTax"`
	ShowGST bool `json:"showGST"`
}

var (
	calc     = calculator.New(calculator.DefaultPolicy())
	settings = InvoiceSettings{ShowTax: true, ShowGST: true}
)

// Configure applies runtime configuration to the controllers. Call it once at
// startup before serving.
func Configure(cfg *config.Config) {
	calc = calculator.New(cfg.CalculatorPolicy())
	settings = InvoiceSettings{ShowTax: cfg.ShowTax, ShowGST: cfg.ShowGST}
}

func GetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"showTax":                  settings.ShowTax,
		"showGST":                  settings.ShowGST,
		"roundOffClearsAdjustment": calc.Policy.RoundOffClearsAdjustment,
		"taxRates":                 calculator.TaxRates,
		"variants":                 calculator.Variants,
	})
}
