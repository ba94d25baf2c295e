package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// LineItem is one article row in the canonical schema both sides are
// normalized into before any comparison runs. Absent numeric fields are nil,
// never zero, so "no value" is always distinguishable from a real amount.
type LineItem struct {
	Code      string           `json:"code,omitempty"`
	Name      string           `json:"name"`
	Quantity  *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice *decimal.Decimal `json:"unit_price,omitempty"`
	LineTotal *decimal.Decimal `json:"line_total,omitempty"`
	TaxRate   *decimal.Decimal `json:"tax_rate,omitempty"`
}

// Document is one parsed source file: its rows in original order plus the
// file name, which is only ever used in user-facing messages.
type Document struct {
	Name string     `json:"name"`
	Rows []LineItem `json:"rows"`
}

// NormalizeName folds an article name for matching: lower case, trimmed,
// internal whitespace collapsed to single spaces.
func NormalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// Key returns the identity used for deduplication and matching: the article
// code when present, otherwise the normalized name. The prefixes keep a code
// from ever colliding with a name.
func (li LineItem) Key() string {
	if li.Code != "" {
		return "code:" + li.Code
	}
	return "name:" + NormalizeName(li.Name)
}

// Dec is a convenience constructor for optional decimal fields.
func Dec(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
