package costing

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"solarstock/pkg/models"
)

// ExportXLSX renders a costing snapshot as a spreadsheet, one row per line
// item plus a totals row.
func ExportXLSX(client models.Client, snapshot models.CostingSnapshot) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	title := []interface{}{
		fmt.Sprintf("Costing for %s (consumer no. %s)", client.Name, client.ConsumerNo),
	}
	if err := f.SetSheetRow(sheet, "A1", &title); err != nil {
		return nil, fmt.Errorf("failed to write report title: %w", err)
	}

	header := []interface{}{
		"material",
		"qty",
		"rate",
		"gst_percent",
		"base",
		"gst",
		"total",
	}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}

	row := 4
	for _, line := range snapshot.Items {
		excelRow := []interface{}{
			line.Name,
			line.Qty,
			line.Rate,
			line.GSTPercent,
			line.Base,
			line.GST,
			line.Total,
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, fmt.Errorf("failed to address report row: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("failed to write report row: %w", err)
		}
		row++
	}

	totals := []interface{}{
		"TOTAL",
		"",
		"",
		"",
		snapshot.BeforeTax,
		snapshot.GST,
		snapshot.Grand,
	}
	cell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return nil, fmt.Errorf("failed to address totals row: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &totals); err != nil {
		return nil, fmt.Errorf("failed to write totals row: %w", err)
	}

	return f.WriteToBuffer()
}
