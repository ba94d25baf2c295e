// Package recon implements the reconciliation engine: multi-document
// aggregation per side, deterministic cross-side matching, field comparison
// with configured tolerances, and the orchestration that ties them together.
//
// The engine is single-threaded and synchronous. It holds no process-wide
// mutable state, so independent runs may execute concurrently, but one run's
// internal accumulators are not safe for concurrent mutation.
package recon

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// ErrNoDocuments is returned when a side aggregates to zero valid documents.
// It is the engine's only fatal condition: no reconciliation is meaningful
// without data, so the caller gets a distinct, actionable error instead of a
// degenerate result.
var ErrNoDocuments = errors.New("geen bruikbare documenten aangeleverd")

// Side labels one dataset for user-facing messages only.
type Side string

const (
	SideSystem  Side = "systeem"
	SideInvoice Side = "factuur"
)

// AggregateResult is one side's deduplicated canonical dataset plus the
// metadata downstream reporting needs, unmodified.
type AggregateResult struct {
	Items         []model.LineItem
	Documents     int
	DocumentsUsed int
	DocumentNames []string
	InputRows     int
	Warnings      []string
}

// group accumulates all rows sharing one identity key during a merge.
type group struct {
	code     string
	name     string
	quantity decimal.Decimal
	prices   []decimal.Decimal
	total    decimal.Decimal
	hasTotal bool
	taxRate  *decimal.Decimal
}

// Aggregate merges the row sets of one side's documents into one deduplicated
// dataset. Identity is the article code when present, otherwise the
// normalized article name. Quantities are summed; unit prices are combined as
// an unweighted arithmetic mean across contributing rows, with a warning when
// the contributing prices differ at all; the line total is recomputed as
// quantity times mean price, or, when no row supplied a unit price, summed
// from the contributing line totals so a price can still be derived from it
// downstream.
//
// Documents are processed in the order supplied and rows in their original
// order, so identical input always yields identical output ordering. Empty
// documents are skipped with a warning; rows without a positive quantity are
// skipped with a warning. The only failure is having zero valid documents.
func Aggregate(docs []model.Document, side Side) (*AggregateResult, error) {
	res := &AggregateResult{Documents: len(docs)}

	var (
		order       []string
		groups      = make(map[string]*group)
		emptyDocs   int
		skippedRows int
	)

	for _, doc := range docs {
		if len(doc.Rows) == 0 {
			emptyDocs++
			continue
		}
		res.DocumentsUsed++
		res.DocumentNames = append(res.DocumentNames, doc.Name)
		res.InputRows += len(doc.Rows)

		for _, row := range doc.Rows {
			if row.Quantity == nil || !row.Quantity.IsPositive() {
				skippedRows++
				continue
			}

			key := row.Key()
			g, ok := groups[key]
			if !ok {
				g = &group{code: row.Code, name: row.Name}
				groups[key] = g
				order = append(order, key)
			}
			g.quantity = g.quantity.Add(*row.Quantity)
			if row.UnitPrice != nil {
				g.prices = append(g.prices, *row.UnitPrice)
			}
			if row.LineTotal != nil {
				g.total = g.total.Add(*row.LineTotal)
				g.hasTotal = true
			}
			if g.code == "" {
				g.code = row.Code
			}
			if g.name == "" {
				g.name = row.Name
			}
			if g.taxRate == nil {
				g.taxRate = row.TaxRate
			}
		}
	}

	if res.DocumentsUsed == 0 {
		return nil, fmt.Errorf("%s: %w", side, ErrNoDocuments)
	}

	if emptyDocs > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d document(en) waren leeg en zijn overgeslagen", emptyDocs))
	}
	if skippedRows > 0 {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("%d regel(s) zonder positief aantal overgeslagen", skippedRows))
	}

	for _, key := range order {
		g := groups[key]
		item := model.LineItem{
			Code:     g.code,
			Name:     g.name,
			Quantity: &g.quantity,
			TaxRate:  g.taxRate,
		}

		if len(g.prices) > 0 {
			mean := meanPrice(g.prices)
			item.UnitPrice = &mean
			total := g.quantity.Mul(mean)
			item.LineTotal = &total

			if distinct := distinctPrices(g.prices); len(distinct) > 1 {
				res.Warnings = append(res.Warnings, priceConflictWarning(g, distinct))
			}
		} else if g.hasTotal {
			total := g.total
			item.LineTotal = &total
		}

		res.Items = append(res.Items, item)
	}

	return res, nil
}

// meanPrice is the unweighted arithmetic mean across contributing rows. The
// original process documented this as intent, not a defect: it is explicitly
// not quantity-weighted.
func meanPrice(prices []decimal.Decimal) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(prices))))
}

// distinctPrices returns the unique contributing prices in ascending order.
func distinctPrices(prices []decimal.Decimal) []decimal.Decimal {
	sorted := make([]decimal.Decimal, len(prices))
	copy(sorted, prices)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	var distinct []decimal.Decimal
	for _, p := range sorted {
		if len(distinct) == 0 || !distinct[len(distinct)-1].Equal(p) {
			distinct = append(distinct, p)
		}
	}
	return distinct
}

func priceConflictWarning(g *group, distinct []decimal.Decimal) string {
	formatted := make([]string, len(distinct))
	for i, p := range distinct {
		formatted[i] = "€" + p.StringFixed(2)
	}

	ident := g.code
	if ident == "" {
		ident = "zonder code"
	}
	return fmt.Sprintf(
		"Artikel %s (%s) heeft verschillende prijzen tussen documenten (%s); gemiddelde prijs gebruikt",
		ident, g.name, strings.Join(formatted, ", "))
}
