package costing

import (
	"sort"

	"solarstock/internal/ledger"
	"solarstock/pkg/models"
)

// PriceLine derives one billable row from a material's current price and a
// net used quantity. All arithmetic stays in float64 with no intermediate
// rounding; two-decimal rounding is a display concern.
func PriceLine(material models.Material, netQty int) models.CostingLine {
	rate := 0.0
	if material.UnitPrice != nil {
		rate = *material.UnitPrice
	}
	gstPercent := 0.0
	if material.GSTPercent != nil {
		gstPercent = *material.GSTPercent
	}

	base := float64(netQty) * rate
	gst := base * gstPercent / 100

	return models.CostingLine{
		MaterialID: material.ID,
		Name:       material.Name,
		Qty:        netQty,
		Rate:       rate,
		GSTPercent: gstPercent,
		Base:       base,
		GST:        gst,
		Total:      base + gst,
	}
}

// BuildLines joins net usage against material prices, dropping zero-net
// materials and ordering rows by material name.
func BuildLines(usage map[int]ledger.Usage, materials map[int]models.Material) []models.CostingLine {
	lines := make([]models.CostingLine, 0, len(usage))

	for materialID, u := range usage {
		if u.Net <= 0 {
			continue
		}
		material, ok := materials[materialID]
		if !ok {
			continue
		}
		lines = append(lines, PriceLine(material, u.Net))
	}

	sort.Slice(lines, func(i, j int) bool {
		return lines[i].Name < lines[j].Name
	})

	return lines
}

// RecomputeLine rebuilds the derived figures of a manually edited row.
// Client-supplied totals are never trusted.
func RecomputeLine(line models.CostingLine) models.CostingLine {
	line.Base = float64(line.Qty) * line.Rate
	line.GST = line.Base * line.GSTPercent / 100
	line.Total = line.Base + line.GST
	return line
}

// Totals sums the grand figures across lines.
func Totals(lines []models.CostingLine) (beforeTax, gst, grand float64) {
	for _, line := range lines {
		beforeTax += line.Base
		gst += line.GST
		grand += line.Total
	}
	return beforeTax, gst, grand
}
