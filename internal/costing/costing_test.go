package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"solarstock/internal/ledger"
	"solarstock/pkg/models"
)

func material(id int, name string, price, gstPercent float64) models.Material {
	return models.Material{
		ID:         id,
		Name:       name,
		UnitPrice:  &price,
		GSTPercent: &gstPercent,
	}
}

func TestPriceLine(t *testing.T) {
	line := PriceLine(material(1, "Bolt", 2.00, 18), 10)

	assert.InDelta(t, 20.00, line.Base, 1e-6)
	assert.InDelta(t, 3.60, line.GST, 1e-6)
	assert.InDelta(t, 23.60, line.Total, 1e-6)
	assert.Equal(t, 10, line.Qty)
	assert.Equal(t, "Bolt", line.Name)
}

func TestPriceLineWithoutPrice(t *testing.T) {
	line := PriceLine(models.Material{ID: 1, Name: "Unpriced"}, 4)

	assert.Equal(t, 0.0, line.Rate)
	assert.Equal(t, 0.0, line.Total)
	assert.Equal(t, 4, line.Qty)
}

func TestBuildLines(t *testing.T) {
	usage := map[int]ledger.Usage{
		1: {Out: 10, In: 0, Net: 10},
		2: {Out: 5, In: 5, Net: 0},
		3: {Out: 2, In: 0, Net: 2},
	}
	materials := map[int]models.Material{
		1: material(1, "Wire", 1.50, 18),
		2: material(2, "Bolt", 2.00, 18),
		3: material(3, "Clamp", 4.00, 12),
	}

	lines := BuildLines(usage, materials)

	// Zero-net materials are dropped and rows come back ordered by name.
	assert.Len(t, lines, 2)
	assert.Equal(t, "Clamp", lines[0].Name)
	assert.Equal(t, "Wire", lines[1].Name)
}

func TestRecomputeLineDiscardsSuppliedTotals(t *testing.T) {
	line := RecomputeLine(models.CostingLine{
		Qty:        10,
		Rate:       2.00,
		GSTPercent: 18,
		Base:       999,
		GST:        999,
		Total:      999,
	})

	assert.InDelta(t, 20.00, line.Base, 1e-6)
	assert.InDelta(t, 3.60, line.GST, 1e-6)
	assert.InDelta(t, 23.60, line.Total, 1e-6)
}

func TestTotals(t *testing.T) {
	lines := []models.CostingLine{
		RecomputeLine(models.CostingLine{Qty: 10, Rate: 2.00, GSTPercent: 18}),
		RecomputeLine(models.CostingLine{Qty: 3, Rate: 1.50, GSTPercent: 12}),
	}

	beforeTax, gst, grand := Totals(lines)

	assert.InDelta(t, 24.50, beforeTax, 1e-6)
	assert.InDelta(t, 4.14, gst, 1e-6)
	assert.InDelta(t, 28.64, grand, 1e-6)
	assert.InDelta(t, beforeTax+gst, grand, 1e-6)
}

func TestPriceLineIsIdempotent(t *testing.T) {
	first := PriceLine(material(1, "Bolt", 2.00, 18), 10)
	second := RecomputeLine(first)

	assert.Equal(t, first, second)
}
