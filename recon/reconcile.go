package recon

import (
	"fmt"
	"sort"
	"time"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// statusPriority orders result rows so that the lines needing attention come
// first in every downstream view: deviations, then missing lines, then
// partially comparable ones, then the lines that are fine. Duplicate-code
// errors sort last, matching the original report layout.
var statusPriority = map[model.Status]int{
	model.StatusDeviation:      0,
	model.StatusMissingInvoice: 1,
	model.StatusMissingSystem:  2,
	model.StatusPartial:        3,
	model.StatusOK:             4,
	model.StatusDuplicateCode:  5,
}

// Reconcile drives the full pipeline: aggregate both sides, match across
// sides, compare every pair, and assemble the result table plus the summary
// tally. It fails only when either side aggregates to zero valid documents
// (ErrNoDocuments); any other anomaly ends up as a warning or a per-line
// status in an otherwise complete result.
func Reconcile(systemDocs, invoiceDocs []model.Document, cfg Config) (*model.Result, error) {
	start := time.Now()

	sys, err := Aggregate(systemDocs, SideSystem)
	if err != nil {
		return nil, fmt.Errorf("systeemzijde: %w", err)
	}
	inv, err := Aggregate(invoiceDocs, SideInvoice)
	if err != nil {
		return nil, fmt.Errorf("factuurzijde: %w", err)
	}

	matches := Match(sys.Items, inv.Items)

	rows := make([]model.ResultRow, 0, len(matches.Pairs))
	for _, pair := range matches.Pairs {
		rows = append(rows, Compare(pair, cfg))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return statusPriority[rows[i].Status] < statusPriority[rows[j].Status]
	})

	tally := make(map[model.Status]int, len(model.AllStatuses()))
	for _, s := range model.AllStatuses() {
		tally[s] = 0
	}
	for _, row := range rows {
		tally[row.Status]++
	}

	return &model.Result{
		Rows:          rows,
		Tally:         tally,
		MatchedByCode: matches.ByCode,
		MatchedByName: matches.ByName,
		MatchWarnings: matches.Warnings,
		System:        sideInfo(sys),
		Invoice:       sideInfo(inv),
		ElapsedMillis: time.Since(start).Milliseconds(),
	}, nil
}

func sideInfo(agg *AggregateResult) model.SideInfo {
	return model.SideInfo{
		Documents:     agg.Documents,
		DocumentsUsed: agg.DocumentsUsed,
		DocumentNames: agg.DocumentNames,
		InputRows:     agg.InputRows,
		Items:         len(agg.Items),
		Warnings:      agg.Warnings,
	}
}
