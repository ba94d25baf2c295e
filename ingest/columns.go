// Package ingest turns uploaded CSV and XLSX files into canonical documents.
// It owns everything the engine must never see: encodings, delimiters, header
// synonyms and number formats. A file that survives ingestion is fully in the
// canonical shape, with absent values represented as nil, never as zero.
package ingest

import (
	"errors"
	"strings"
)

// Field identifies one canonical column.
type Field int

const (
	FieldCode Field = iota
	FieldName
	FieldQuantity
	FieldUnitPrice
	FieldLineTotal
	FieldTaxRate
)

// ErrNoNameColumn: the header row mapped no article-name column, so the rows
// cannot be keyed to anything and the file is rejected before the engine
// ever sees it.
var ErrNoNameColumn = errors.New("geen kolom voor artikelnaam gevonden")

// synonyms maps lowercased header variants, as they appear in supplier and
// system exports, to canonical fields. Extend here when a supplier shows up
// with yet another spelling.
var synonyms = map[string]Field{
	// article code
	"artikel":      FieldCode,
	"artikelcode":  FieldCode,
	"code":         FieldCode,
	"product_code": FieldCode,
	"productcode":  FieldCode,
	"sku":          FieldCode,

	// article name
	"omschrijving": FieldName,
	"artikelnaam":  FieldName,
	"beschrijving": FieldName,
	"product":      FieldName,
	"naam":         FieldName,
	"description":  FieldName,

	// quantity
	"qty":         FieldQuantity,
	"aantal":      FieldQuantity,
	"hoeveelheid": FieldQuantity,
	"quantity":    FieldQuantity,
	"aant":        FieldQuantity,

	// unit price
	"price":          FieldUnitPrice,
	"prijs":          FieldUnitPrice,
	"prijs_per_stuk": FieldUnitPrice,
	"stukprijs":      FieldUnitPrice,
	"eenheidsprijs":  FieldUnitPrice,
	"unit_price":     FieldUnitPrice,

	// line total
	"total":        FieldLineTotal,
	"totaal":       FieldLineTotal,
	"totaalbedrag": FieldLineTotal,
	"bedrag":       FieldLineTotal,
	"amount":       FieldLineTotal,

	// tax rate
	"btw":            FieldTaxRate,
	"btw_percentage": FieldTaxRate,
	"btwpercentage":  FieldTaxRate,
	"vat":            FieldTaxRate,
	"tax":            FieldTaxRate,
	"btw%":           FieldTaxRate,
}

// MapHeader resolves a header row to canonical fields by column index.
// Matching is case-insensitive and whitespace-trimmed; unknown columns are
// ignored; when two columns map to the same field, the first wins. A header
// without an article-name column is unusable.
func MapHeader(headers []string) (map[int]Field, error) {
	mapped := make(map[int]Field)
	taken := make(map[Field]bool)

	for i, h := range headers {
		field, ok := synonyms[strings.ToLower(strings.TrimSpace(h))]
		if !ok || taken[field] {
			continue
		}
		mapped[i] = field
		taken[field] = true
	}

	if !taken[FieldName] {
		return nil, ErrNoNameColumn
	}
	return mapped, nil
}
