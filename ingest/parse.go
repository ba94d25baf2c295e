package ingest

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// parseDecimal reads a numeric cell as it appears in Dutch and international
// exports: "15.50", "15,50", "1.234,56", "1,234.56", with an optional euro
// sign. An empty or unparseable cell is an absent value, never zero.
func parseDecimal(s string) *decimal.Decimal {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "€")
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	lastComma := strings.LastIndex(s, ",")
	lastDot := strings.LastIndex(s, ".")
	switch {
	case lastComma >= 0 && lastDot >= 0 && lastComma > lastDot:
		// 1.234,56 - dot groups thousands, comma is the decimal separator
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case lastComma >= 0 && lastDot >= 0:
		// 1,234.56
		s = strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		// 15,50
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// rowToItem maps one data row onto the canonical schema. The second return
// value is false when the row carries no article name and must be skipped.
func rowToItem(cells []string, fields map[int]Field) (model.LineItem, bool) {
	var item model.LineItem

	for i, field := range fields {
		if i >= len(cells) {
			continue
		}
		value := strings.Join(strings.Fields(cells[i]), " ")

		switch field {
		case FieldCode:
			item.Code = value
		case FieldName:
			item.Name = value
		case FieldQuantity:
			item.Quantity = parseDecimal(value)
		case FieldUnitPrice:
			item.UnitPrice = parseDecimal(value)
		case FieldLineTotal:
			item.LineTotal = parseDecimal(value)
		case FieldTaxRate:
			item.TaxRate = parseDecimal(value)
		}
	}

	return item, item.Name != ""
}

// isBlankRow reports whether every cell in the row is empty or whitespace.
func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
