package report

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
	"github.com/Mehmet-hhs/factuurvergelijker/recon"
)

func testResult(t *testing.T) *model.Result {
	t.Helper()
	system := []model.Document{
		{Name: "voorraad.csv", Rows: []model.LineItem{
			{Code: "ART-001", Name: "Koffiebonen", Quantity: model.Dec("10"), UnitPrice: model.Dec("12.50")},
			{Code: "ART-002", Name: "Verse melk", Quantity: model.Dec("20"), UnitPrice: model.Dec("1.10")},
		}},
	}
	invoice := []model.Document{
		{Name: "factuur.csv", Rows: []model.LineItem{
			{Code: "ART-001", Name: "Koffiebonen", Quantity: model.Dec("8"), UnitPrice: model.Dec("12.50")},
			{Code: "ART-003", Name: "Thee", Quantity: model.Dec("2"), UnitPrice: model.Dec("3.00")},
		}},
	}

	res, err := recon.Reconcile(system, invoice, recon.DefaultConfig())
	if err != nil {
		t.Fatalf("Reconcile failed: %v", err)
	}
	return res
}

func reopen(t *testing.T, f *excelize.File) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	r, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader failed: %v", err)
	}
	return r
}

func TestGenerateSheets(t *testing.T) {
	f, err := Generate(testResult(t), model.DefaultLabels())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	r := reopen(t, f)
	defer r.Close()

	sheets := r.GetSheetList()
	if len(sheets) != 2 {
		t.Fatalf("Expected 2 sheets, got %v", sheets)
	}
	if sheets[0] != SheetSummary || sheets[1] != SheetDetails {
		t.Errorf("Unexpected sheet names: %v", sheets)
	}
}

func TestGenerateSummaryContent(t *testing.T) {
	res := testResult(t)
	f, err := Generate(res, model.DefaultLabels())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	r := reopen(t, f)
	defer r.Close()

	title, _ := r.GetCellValue(SheetSummary, "A1")
	if title != "Vergelijkingsresultaat" {
		t.Errorf("Expected title cell, got %q", title)
	}

	total, _ := r.GetCellValue(SheetSummary, "B3")
	if total != "3" {
		t.Errorf("Expected 3 total rows, got %q", total)
	}

	// The tally block starts at row 6, one row per status in enum order.
	label, _ := r.GetCellValue(SheetSummary, "A6")
	if label != "OK" {
		t.Errorf("Expected first tally label OK, got %q", label)
	}
}

func TestGenerateDetailsContent(t *testing.T) {
	res := testResult(t)
	f, err := Generate(res, model.DefaultLabels())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	r := reopen(t, f)
	defer r.Close()

	header, _ := r.GetCellValue(SheetDetails, "A1")
	if header != "Status" {
		t.Errorf("Expected header Status, got %q", header)
	}

	rows, err := r.GetRows(SheetDetails)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	if len(rows) != len(res.Rows)+1 {
		t.Fatalf("Expected %d data rows plus header, got %d", len(res.Rows), len(rows))
	}

	// Deviations sort first; the first data row is the quantity mismatch.
	if rows[1][0] != "AFWIJKING" {
		t.Errorf("Expected first row AFWIJKING, got %q", rows[1][0])
	}
	if rows[1][1] != "ART-001" {
		t.Errorf("Expected ART-001 first, got %q", rows[1][1])
	}
}

func TestGenerateCustomLabels(t *testing.T) {
	res := testResult(t)
	labels := model.DefaultLabels()
	labels[model.StatusDeviation] = "VERSCHIL"

	f, err := Generate(res, labels)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	r := reopen(t, f)
	defer r.Close()

	status, _ := r.GetCellValue(SheetDetails, "A2")
	if status != "VERSCHIL" {
		t.Errorf("Expected overridden label, got %q", status)
	}
}

func TestGenerateEmptyCellsForAbsentValues(t *testing.T) {
	res := testResult(t)
	f, err := Generate(res, model.DefaultLabels())
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	r := reopen(t, f)
	defer r.Close()

	// Find the row for the item missing on the invoice; its invoice-side
	// quantity cell must be empty, not zero.
	rows, err := r.GetRows(SheetDetails)
	if err != nil {
		t.Fatalf("GetRows failed: %v", err)
	}
	for _, row := range rows[1:] {
		if len(row) > 1 && row[1] == "ART-002" {
			if len(row) > 4 && row[4] != "" {
				t.Errorf("Expected empty invoice quantity, got %q", row[4])
			}
			return
		}
	}
	t.Fatal("Expected a row for ART-002")
}
