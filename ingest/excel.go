package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// ReadExcel parses the first sheet of an XLSX workbook into a canonical
// document. The first row is the header.
func ReadExcel(name string, r io.Reader) (model.Document, error) {
	doc := model.Document{Name: name}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return doc, fmt.Errorf("kan Excel-bestand %s niet openen: %w", name, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return doc, fmt.Errorf("Excel-bestand %s bevat geen werkbladen", name)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return doc, fmt.Errorf("kan rijen van %s niet lezen: %w", name, err)
	}
	if len(rows) == 0 {
		return doc, fmt.Errorf("bestand %s is leeg", name)
	}

	fields, err := MapHeader(rows[0])
	if err != nil {
		return doc, fmt.Errorf("%s: %w", name, err)
	}

	for _, record := range rows[1:] {
		if isBlankRow(record) {
			continue
		}
		if item, ok := rowToItem(record, fields); ok {
			doc.Rows = append(doc.Rows, item)
		}
	}

	return doc, nil
}

// ReadDocument dispatches on the file extension: .xlsx/.xlsm go through the
// Excel reader, everything else is treated as CSV.
func ReadDocument(name string, r io.Reader) (model.Document, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadExcel(name, r)
	default:
		return ReadCSV(name, r)
	}
}
