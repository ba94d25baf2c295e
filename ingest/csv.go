package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// ReadCSV parses a CSV export into a canonical document. Files are read as
// UTF-8 first with a Windows-1252 fallback, which covers the exports Dutch
// administration systems produce. The delimiter is sniffed from the header
// line (semicolon or comma).
func ReadCSV(name string, r io.Reader) (model.Document, error) {
	doc := model.Document{Name: name}

	data, err := io.ReadAll(r)
	if err != nil {
		return doc, fmt.Errorf("kan bestand %s niet lezen: %w", name, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, fmt.Errorf("bestand %s is leeg", name)
	}

	if !utf8.Valid(data) {
		data, err = charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return doc, fmt.Errorf("bestand %s heeft een onleesbare tekencodering: %w", name, err)
		}
	}
	// Strip a UTF-8 BOM so the first header cell maps cleanly.
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = sniffDelimiter(data)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return doc, fmt.Errorf("kan kopregel van %s niet lezen: %w", name, err)
	}
	fields, err := MapHeader(header)
	if err != nil {
		return doc, fmt.Errorf("%s: %w", name, err)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return doc, fmt.Errorf("ongeldige CSV-structuur in %s: %w", name, err)
		}
		if isBlankRow(record) {
			continue
		}
		if item, ok := rowToItem(record, fields); ok {
			doc.Rows = append(doc.Rows, item)
		}
	}

	return doc, nil
}

// sniffDelimiter picks between semicolon and comma based on which occurs
// more often in the header line. Dutch exports commonly use semicolons.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if strings.Count(string(line), ";") > strings.Count(string(line), ",") {
		return ';'
	}
	return ','
}
