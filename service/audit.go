package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Mehmet-hhs/factuurvergelijker/model"
)

// AuditLog keeps a lightweight trail of completed runs in SQLite. Only counts
// and timings are stored; article codes, names and amounts never leave the
// in-memory run store.
type AuditLog struct {
	db *sql.DB
}

const auditSchema = `
CREATE TABLE IF NOT EXISTS run_audit (
    run_id          TEXT NOT NULL,
    tenant          TEXT NOT NULL,
    status          TEXT NOT NULL,
    system_docs     INTEGER NOT NULL,
    invoice_docs    INTEGER NOT NULL,
    system_items    INTEGER NOT NULL,
    invoice_items   INTEGER NOT NULL,
    rows_total      INTEGER NOT NULL,
    rows_ok         INTEGER NOT NULL,
    rows_deviation  INTEGER NOT NULL,
    matched_by_code INTEGER NOT NULL,
    matched_by_name INTEGER NOT NULL,
    elapsed_ms      INTEGER NOT NULL,
    created_at      TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_audit_tenant ON run_audit(tenant);
`

// OpenAuditLog opens (creating if needed) the audit database at path. An
// empty path disables auditing: the returned log is nil and callers treat a
// nil log as a no-op.
func OpenAuditLog(path string) (*AuditLog, error) {
	if path == "" {
		return nil, nil
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit database: %w", err)
	}

	if _, err := db.Exec(auditSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create audit schema: %w", err)
	}

	return &AuditLog{db: db}, nil
}

// Record writes an audit row for a finished run. A run without a result (a
// failed ingestion, for example) is recorded with zero counts.
func (a *AuditLog) Record(ctx context.Context, run *model.Run) error {
	var (
		systemDocs, invoiceDocs    int
		systemItems, invoiceItems  int
		rowsTotal, rowsOK, rowsDev int
		byCode, byName             int
		elapsed                    int64
	)
	if res := run.Result; res != nil {
		systemDocs = res.System.DocumentsUsed
		invoiceDocs = res.Invoice.DocumentsUsed
		systemItems = res.System.Items
		invoiceItems = res.Invoice.Items
		rowsTotal = len(res.Rows)
		rowsOK = res.Tally[model.StatusOK]
		rowsDev = res.Tally[model.StatusDeviation]
		byCode = res.MatchedByCode
		byName = res.MatchedByName
		elapsed = res.ElapsedMillis
	}

	_, err := a.db.ExecContext(ctx, `
INSERT INTO run_audit (
    run_id, tenant, status,
    system_docs, invoice_docs, system_items, invoice_items,
    rows_total, rows_ok, rows_deviation,
    matched_by_code, matched_by_name,
    elapsed_ms, created_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Tenant, run.Status,
		systemDocs, invoiceDocs, systemItems, invoiceItems,
		rowsTotal, rowsOK, rowsDev,
		byCode, byName,
		elapsed, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// CountByTenant returns the number of audited runs for a tenant.
func (a *AuditLog) CountByTenant(ctx context.Context, tenant string) (int, error) {
	var n int
	err := a.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM run_audit WHERE tenant = ?`, tenant).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count audit entries: %w", err)
	}
	return n, nil
}

func (a *AuditLog) Close() error {
	return a.db.Close()
}
