package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type createDTO struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"unit_price"`
	Qty   int             `json:"qty"`
}

type patchDTO struct {
	Name    *string          `json:"name"`
	Price   *decimal.Decimal `json:"unit_price"`
	Unit    *string          `json:"unit,omitempty"`
	Ignored *string          `json:"-"`
	Plain   string           `json:"plain"`
}

func TestNormalizeDTO(t *testing.T) {
	dto := createDTO{Name: "  Widget ", Price: decimal.RequireFromString("10.005"), Qty: 3}
	NormalizeDTO(&dto)

	assert.Equal(t, "Widget", dto.Name)
	assert.Equal(t, "10.01", dto.Price.StringFixed(2))
	assert.Equal(t, 3, dto.Qty)

	// non-pointer input is ignored
	NormalizeDTO(dto)
}

func TestNormalizePtrDTO(t *testing.T) {
	name := " Widget "
	price := decimal.RequireFromString("-2.345")
	dto := patchDTO{Name: &name, Price: &price}
	NormalizePtrDTO(&dto)

	assert.Equal(t, "Widget", *dto.Name)
	assert.Equal(t, "-2.35", dto.Price.StringFixed(2))
	assert.Nil(t, dto.Unit)
}

func TestPatchColumns(t *testing.T) {
	name := "Widget"
	unit := "kg"
	price := decimal.RequireFromString("12.50")
	ignored := "x"
	dto := patchDTO{Name: &name, Unit: &unit, Price: &price, Ignored: &ignored, Plain: "p"}

	got := PatchColumns(&dto, map[string]string{"unit": "unit_name", "unit_price": ""})
	assert.Equal(t, map[string]any{"name": "Widget", "unit_name": "kg"}, got)

	assert.Equal(t, map[string]any{"name": "Widget", "unit": "kg", "unit_price": price}, PatchColumns(&dto, nil))
	assert.Empty(t, PatchColumns(dto, nil))
	assert.Empty(t, PatchColumns(&name, nil))
}

func TestParseIntDefault(t *testing.T) {
	assert.Equal(t, 5, ParseIntDefault(" 5 ", 1))
	assert.Equal(t, 1, ParseIntDefault("abc", 1))
	assert.Equal(t, 1, ParseIntDefault("-3", 1))
	assert.Equal(t, 0, ParseIntDefault("0", 1))
}

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "INV-00042", FormatDocumentNumber("INV", 42))
	assert.Equal(t, "PRN-123456", FormatDocumentNumber("PRN", 123456))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, "0.13", Round2(decimal.RequireFromString("0.125")).StringFixed(2))
	assert.Equal(t, "-0.13", Round2(decimal.RequireFromString("-0.125")).StringFixed(2))
}
