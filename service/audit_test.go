package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

func newTestAuditLog(t *testing.T) *AuditLog {
	t.Helper()
	audit, err := OpenAuditLog(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("OpenAuditLog failed: %v", err)
	}
	t.Cleanup(func() { audit.Close() })
	return audit
}

func TestOpenAuditLogEmptyPathDisabled(t *testing.T) {
	audit, err := OpenAuditLog("")
	if err != nil {
		t.Fatalf("OpenAuditLog failed: %v", err)
	}
	if audit != nil {
		t.Errorf("Expected nil audit log for empty path, got %v", audit)
	}
}

func TestAuditLogRecord(t *testing.T) {
	audit := newTestAuditLog(t)
	ctx := context.Background()

	run := &model.Run{
		ID:        "run-1",
		Tenant:    "tenant1",
		Status:    model.StatusCompleted,
		CreatedAt: time.Now(),
		Result: &model.Result{
			Rows: []model.ResultRow{
				{Status: model.StatusOK},
				{Status: model.StatusDeviation},
			},
			Tally: map[model.Status]int{
				model.StatusOK:        1,
				model.StatusDeviation: 1,
			},
			MatchedByCode: 2,
			System:        model.SideInfo{DocumentsUsed: 1, Items: 2},
			Invoice:       model.SideInfo{DocumentsUsed: 1, Items: 2},
			ElapsedMillis: 12,
		},
	}

	if err := audit.Record(ctx, run); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	n, err := audit.CountByTenant(ctx, "tenant1")
	if err != nil {
		t.Fatalf("CountByTenant failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 audit entry, got %d", n)
	}

	n, err = audit.CountByTenant(ctx, "other")
	if err != nil {
		t.Fatalf("CountByTenant failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Expected 0 audit entries for other tenant, got %d", n)
	}
}

func TestAuditLogRecordWithoutResult(t *testing.T) {
	audit := newTestAuditLog(t)
	ctx := context.Background()

	// A run that failed before producing a result is still audited.
	run := &model.Run{
		ID:        "run-failed",
		Tenant:    "tenant1",
		Status:    model.StatusFailed,
		ErrorMsg:  "geen bruikbare documenten aangeleverd",
		CreatedAt: time.Now(),
	}

	if err := audit.Record(ctx, run); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	n, err := audit.CountByTenant(ctx, "tenant1")
	if err != nil {
		t.Fatalf("CountByTenant failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 audit entry, got %d", n)
	}
}
