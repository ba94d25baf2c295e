package recon

import (
	"fmt"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// Pair is an ephemeral association between at most one system item and at
// most one invoice item. A nil side means "unmatched on that side".
type Pair struct {
	System  *model.LineItem
	Invoice *model.LineItem
	Method  model.MatchMethod
	// DuplicateCode marks a system item whose non-empty code was already seen
	// on the system side; such an item never consumes an invoice item.
	DuplicateCode bool
}

// MatchResult holds the pairs in deterministic order plus per-method counts
// and the warnings produced while matching.
type MatchResult struct {
	Pairs    []Pair
	ByCode   int
	ByName   int
	Warnings []string
}

// Match pairs each system item with at most one invoice item, in two steps:
// exact, case-sensitive code equality first, then equality of normalized
// names among the invoice items not yet consumed. System items are processed
// in dataset order and invoice candidates scanned in dataset order, so the
// result is deterministic and idempotent for identical input.
//
// Consumed invoice items are tracked in a set scoped to this invocation; the
// items themselves are never mutated.
func Match(system, invoice []model.LineItem) *MatchResult {
	res := &MatchResult{}
	consumed := make([]bool, len(invoice))
	seenCodes := make(map[string]bool, len(system))

	for i := range system {
		sys := &system[i]

		if sys.Code != "" {
			if seenCodes[sys.Code] {
				// Data-integrity violation: the second occurrence is flagged
				// and must not consume an invoice item.
				res.Pairs = append(res.Pairs, Pair{System: sys, DuplicateCode: true})
				continue
			}
			seenCodes[sys.Code] = true

			if j := findByCode(invoice, consumed, sys.Code); j >= 0 {
				consumed[j] = true
				res.ByCode++
				res.Pairs = append(res.Pairs, Pair{System: sys, Invoice: &invoice[j], Method: model.MatchByCode})
				continue
			}
		}

		if j, candidates := findByName(invoice, consumed, sys.Name); j >= 0 {
			if candidates > 1 {
				res.Warnings = append(res.Warnings, fmt.Sprintf(
					"Meerdere factuurregels komen op naam overeen met '%s'; de eerste is gekozen", sys.Name))
			}
			consumed[j] = true
			res.ByName++
			res.Pairs = append(res.Pairs, Pair{System: sys, Invoice: &invoice[j], Method: model.MatchByName})
			continue
		}

		res.Pairs = append(res.Pairs, Pair{System: sys})
	}

	for j := range invoice {
		if !consumed[j] {
			res.Pairs = append(res.Pairs, Pair{Invoice: &invoice[j]})
		}
	}

	return res
}

func findByCode(invoice []model.LineItem, consumed []bool, code string) int {
	for j := range invoice {
		if consumed[j] || invoice[j].Code == "" {
			continue
		}
		if invoice[j].Code == code {
			return j
		}
	}
	return -1
}

// findByName returns the first unconsumed invoice item whose normalized name
// equals the system item's, plus how many such candidates remained. An empty
// normalized name never matches anything.
func findByName(invoice []model.LineItem, consumed []bool, name string) (int, int) {
	norm := model.NormalizeName(name)
	if norm == "" {
		return -1, 0
	}

	first := -1
	candidates := 0
	for j := range invoice {
		if consumed[j] {
			continue
		}
		if model.NormalizeName(invoice[j].Name) == norm {
			candidates++
			if first < 0 {
				first = j
			}
		}
	}
	return first, candidates
}
