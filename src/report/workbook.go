// workbook.go
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"FareAudit/src/processor"
)

const workbookSheet = "Sheet1"

// SaveWorkbook exports the normalized and flagged table to an xlsx file so
// the audited figures can be inspected alongside the chart.
func SaveWorkbook(table *processor.FareTable, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	headers := []string{processor.ColMonth, processor.ColBusiness, processor.ColEconomy}
	if table.HasDiscount {
		headers = append(headers, processor.ColBestDiscount)
	}
	headers = append(headers, "Business_MoM_pct", "Economy_MoM_pct", "REVENUE_LEAKAGE", "official_note")

	for i, name := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(workbookSheet, cell, name)
	}

	for rowIdx, r := range table.Records {
		values := []interface{}{r.MonthKey(), cellValue(r.Business), cellValue(r.Economy)}
		if table.HasDiscount {
			values = append(values, cellValue(r.BestDiscount))
		}
		values = append(values, cellValue(r.BusinessMoM), cellValue(r.EconomyMoM), r.RevenueLeakage, r.OfficialNote)

		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(workbookSheet, cell, v)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// cellValue maps a missing index value to an empty cell.
func cellValue(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
