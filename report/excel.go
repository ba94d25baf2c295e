// Package report renders a reconciliation result as the two-sheet Excel
// workbook finance staff download: a summary tab with the status tally and
// per-side aggregation info, and a detail tab with one color-coded row per
// compared line.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

const (
	SheetSummary = "Samenvatting"
	SheetDetails = "Vergelijking"
)

// statusColors is the palette the original paper reports used; reviewers are
// used to these exact fills.
var statusColors = map[model.Status]string{
	model.StatusOK:             "C6EFCE",
	model.StatusDeviation:      "FFCC99",
	model.StatusMissingInvoice: "FFC7CE",
	model.StatusMissingSystem:  "FFC7CE",
	model.StatusPartial:        "FFEB9C",
	model.StatusDuplicateCode:  "D9D9D9",
}

var detailHeaders = []string{
	"Status", "Artikelcode", "Artikelnaam",
	"Aantal systeem", "Aantal factuur",
	"Prijs systeem", "Prijs factuur",
	"Totaal systeem", "Totaal factuur",
	"BTW systeem", "BTW factuur",
	"Toelichting",
}

// Generate renders the workbook. Labels translate the internal status enum
// to the display strings configured for this deployment.
func Generate(res *model.Result, labels map[model.Status]string) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := writeSummary(f, res, labels); err != nil {
		return nil, err
	}
	if err := writeDetails(f, res, labels); err != nil {
		return nil, err
	}

	// Drop the default sheet and open the workbook on the summary.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	idx, err := f.GetSheetIndex(SheetSummary)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)

	return f, nil
}

func writeSummary(f *excelize.File, res *model.Result, labels map[model.Status]string) error {
	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return err
	}
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	f.SetCellValue(SheetSummary, "A1", "Vergelijkingsresultaat")
	f.SetCellStyle(SheetSummary, "A1", "A1", titleStyle)

	f.SetCellValue(SheetSummary, "A3", "Totaal regels")
	f.SetCellStyle(SheetSummary, "A3", "A3", boldStyle)
	f.SetCellValue(SheetSummary, "B3", len(res.Rows))

	f.SetCellValue(SheetSummary, "A5", "Status")
	f.SetCellValue(SheetSummary, "B5", "Aantal")
	f.SetCellStyle(SheetSummary, "A5", "B5", boldStyle)

	row := 6
	for _, status := range model.AllStatuses() {
		cellA := fmt.Sprintf("A%d", row)
		cellB := fmt.Sprintf("B%d", row)
		f.SetCellValue(SheetSummary, cellA, labels[status])
		f.SetCellValue(SheetSummary, cellB, res.Tally[status])

		fill, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{statusColors[status]}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		f.SetCellStyle(SheetSummary, cellA, cellA, fill)
		row++
	}

	row++
	row = writeSideInfo(f, row, "Systeemzijde", res.System, boldStyle)
	row++
	row = writeSideInfo(f, row, "Factuurzijde", res.Invoice, boldStyle)

	if len(res.MatchWarnings) > 0 {
		row++
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), "Meldingen bij het matchen")
		f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
		row++
		for _, w := range res.MatchWarnings {
			f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), w)
			row++
		}
	}

	f.SetColWidth(SheetSummary, "A", "A", 50)
	f.SetColWidth(SheetSummary, "B", "B", 15)
	return nil
}

func writeSideInfo(f *excelize.File, row int, title string, side model.SideInfo, boldStyle int) int {
	f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), title)
	f.SetCellStyle(SheetSummary, fmt.Sprintf("A%d", row), fmt.Sprintf("A%d", row), boldStyle)
	row++

	entries := []struct {
		label string
		value any
	}{
		{"Documenten aangeleverd", side.Documents},
		{"Documenten verwerkt", side.DocumentsUsed},
		{"Regels ingelezen", side.InputRows},
		{"Unieke artikelen", side.Items},
	}
	for _, e := range entries {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), e.label)
		f.SetCellValue(SheetSummary, fmt.Sprintf("B%d", row), e.value)
		row++
	}
	for _, w := range side.Warnings {
		f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), w)
		row++
	}
	return row
}

func writeDetails(f *excelize.File, res *model.Result, labels map[model.Status]string) error {
	if _, err := f.NewSheet(SheetDetails); err != nil {
		return fmt.Errorf("failed to create details sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"CCCCCC"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return err
	}

	for i, h := range detailHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(SheetDetails, cell, h)
	}
	last, _ := excelize.CoordinatesToCellName(len(detailHeaders), 1)
	f.SetCellStyle(SheetDetails, "A1", last, headerStyle)

	fills := make(map[model.Status]int, len(statusColors))
	for status, color := range statusColors {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return err
		}
		fills[status] = style
	}

	for i, r := range res.Rows {
		rowNum := i + 2
		values := []any{
			labels[r.Status],
			r.Code,
			r.Name,
			decCell(r.QuantitySystem),
			decCell(r.QuantityInvoice),
			decCell(r.PriceSystem),
			decCell(r.PriceInvoice),
			decCell(r.TotalSystem),
			decCell(r.TotalInvoice),
			decCell(r.TaxSystem),
			decCell(r.TaxInvoice),
			r.Explanation,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowNum)
			if v != nil {
				f.SetCellValue(SheetDetails, cell, v)
			}
		}

		statusCell, _ := excelize.CoordinatesToCellName(1, rowNum)
		f.SetCellStyle(SheetDetails, statusCell, statusCell, fills[r.Status])
	}

	lastData, _ := excelize.CoordinatesToCellName(len(detailHeaders), len(res.Rows)+1)
	if err := f.AutoFilter(SheetDetails, "A1:"+lastData, nil); err != nil {
		return fmt.Errorf("failed to set autofilter: %w", err)
	}

	f.SetColWidth(SheetDetails, "A", "A", 22)
	f.SetColWidth(SheetDetails, "B", "C", 30)
	f.SetColWidth(SheetDetails, "D", "K", 15)
	f.SetColWidth(SheetDetails, "L", "L", 60)
	return nil
}

// decCell converts an optional decimal to a spreadsheet value, keeping
// absent values as truly empty cells.
func decCell(d *decimal.Decimal) any {
	if d == nil {
		return nil
	}
	v, _ := d.Float64()
	return v
}
