package recon

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// Config holds the tolerances for one run. It is immutable for the duration
// of a run; concurrent runs with different tolerances never interfere.
type Config struct {
	// QuantityTolerance is the maximum allowed absolute quantity difference.
	// Zero means quantities must match exactly.
	QuantityTolerance decimal.Decimal
	// PriceTolerance is the maximum allowed absolute effective-price
	// difference, intended to absorb rounding differences.
	PriceTolerance decimal.Decimal
}

// DefaultConfig returns exact quantity matching and one cent of price play.
func DefaultConfig() Config {
	return Config{
		QuantityTolerance: decimal.Zero,
		PriceTolerance:    decimal.RequireFromString("0.01"),
	}
}

// EffectivePrice derives the single per-unit price used for all
// acceptability decisions: the explicit unit price when present, otherwise
// line total divided by quantity, otherwise undefined. Gross prices,
// discounts and tiered pricing never enter the comparison separately.
func EffectivePrice(it *model.LineItem) *decimal.Decimal {
	if it == nil {
		return nil
	}
	if it.UnitPrice != nil {
		return it.UnitPrice
	}
	if it.LineTotal != nil && it.Quantity != nil && it.Quantity.IsPositive() {
		p := it.LineTotal.Div(*it.Quantity)
		return &p
	}
	return nil
}

// Compare decides the status of one pair and builds the human-readable
// explanation. Only final quantity and final effective price decide
// acceptability; names, tax rates and line totals are carried as context.
func Compare(p Pair, cfg Config) model.ResultRow {
	row := model.ResultRow{
		Status:      model.StatusOK,
		MatchMethod: p.Method,
	}
	fillContext(&row, p)

	switch {
	case p.DuplicateCode:
		row.Status = model.StatusDuplicateCode
		row.Explanation = fmt.Sprintf("Dubbele artikelcode '%s' binnen dezelfde kant", p.System.Code)
		return row
	case p.Invoice == nil:
		row.Status = model.StatusMissingInvoice
		row.Explanation = "Regel staat in systeem maar niet op factuur"
		return row
	case p.System == nil:
		row.Status = model.StatusMissingSystem
		row.Explanation = "Regel staat op factuur maar niet in systeem"
		return row
	}

	var (
		clauses      []string
		incomparable bool
		deviating    bool
	)

	qtySys, qtyInv := p.System.Quantity, p.Invoice.Quantity
	if qtySys == nil || qtyInv == nil {
		incomparable = true
		clauses = append(clauses, "Aantal kon niet worden vergeleken (ontbrekende gegevens)")
	} else if qtySys.Sub(*qtyInv).Abs().GreaterThan(cfg.QuantityTolerance) {
		deviating = true
		clauses = append(clauses, fmt.Sprintf(
			"Aantal wijkt af (verwacht %s, gekregen %s)", qtySys.String(), qtyInv.String()))
	}

	priceSys, priceInv := row.PriceSystem, row.PriceInvoice
	if priceSys == nil || priceInv == nil {
		incomparable = true
		clauses = append(clauses, "Prijs kon niet worden bepaald (ontbrekende gegevens)")
	} else if diff := priceSys.Sub(*priceInv).Abs(); diff.GreaterThan(cfg.PriceTolerance) {
		deviating = true
		clauses = append(clauses, fmt.Sprintf(
			"Prijs wijkt af (verwacht €%s, gekregen €%s, verschil €%s)",
			priceSys.StringFixed(2), priceInv.StringFixed(2), diff.StringFixed(2)))
	}

	switch {
	case incomparable:
		row.Status = model.StatusPartial
		row.Explanation = strings.Join(clauses, "; ")
	case deviating:
		row.Status = model.StatusDeviation
		row.Explanation = strings.Join(clauses, "; ")
	default:
		row.Explanation = "Aantal en prijs komen overeen"
	}
	return row
}

// fillContext copies the pair's values into the row, preferring the system
// side for code and name when both are present.
func fillContext(row *model.ResultRow, p Pair) {
	if p.System != nil {
		row.Code = p.System.Code
		row.Name = p.System.Name
		row.QuantitySystem = p.System.Quantity
		row.PriceSystem = EffectivePrice(p.System)
		row.TotalSystem = p.System.LineTotal
		row.TaxSystem = p.System.TaxRate
	}
	if p.Invoice != nil {
		if row.Code == "" {
			row.Code = p.Invoice.Code
		}
		if row.Name == "" {
			row.Name = p.Invoice.Name
		}
		row.QuantityInvoice = p.Invoice.Quantity
		row.PriceInvoice = EffectivePrice(p.Invoice)
		row.TotalInvoice = p.Invoice.LineTotal
		row.TaxInvoice = p.Invoice.TaxRate
	}
}
