package model

import "github.com/shopspring/decimal"

// ResultRow is the terminal, immutable output of comparing one match pair.
// Prices are the per-side effective prices, not the raw unit price fields.
type ResultRow struct {
	Status          Status           `json:"status"`
	MatchMethod     MatchMethod      `json:"match_method"`
	Code            string           `json:"code,omitempty"`
	Name            string           `json:"name"`
	QuantitySystem  *decimal.Decimal `json:"quantity_system,omitempty"`
	QuantityInvoice *decimal.Decimal `json:"quantity_invoice,omitempty"`
	PriceSystem     *decimal.Decimal `json:"price_system,omitempty"`
	PriceInvoice    *decimal.Decimal `json:"price_invoice,omitempty"`
	TotalSystem     *decimal.Decimal `json:"total_system,omitempty"`
	TotalInvoice    *decimal.Decimal `json:"total_invoice,omitempty"`
	TaxSystem       *decimal.Decimal `json:"tax_system,omitempty"`
	TaxInvoice      *decimal.Decimal `json:"tax_invoice,omitempty"`
	Explanation     string           `json:"explanation"`
}

// SideInfo carries one side's aggregation metadata for downstream reporting,
// unmodified: document and row counts, the document names, and the ordered
// warning list the aggregator produced.
type SideInfo struct {
	Documents     int      `json:"documents"`
	DocumentsUsed int      `json:"documents_used"`
	DocumentNames []string `json:"document_names"`
	InputRows     int      `json:"input_rows"`
	Items         int      `json:"items"`
	Warnings      []string `json:"warnings"`
}

// Result is the full outcome of one reconciliation run.
type Result struct {
	Rows           []ResultRow    `json:"rows"`
	Tally          map[Status]int `json:"tally"`
	MatchedByCode  int            `json:"matched_by_code"`
	MatchedByName  int            `json:"matched_by_name"`
	MatchWarnings  []string       `json:"match_warnings,omitempty"`
	System         SideInfo       `json:"system"`
	Invoice        SideInfo       `json:"invoice"`
	ElapsedMillis  int64          `json:"elapsed_ms"`
}
