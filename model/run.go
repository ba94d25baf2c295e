package model

import "time"

// Run represents one reconciliation request and its lifecycle. The result is
// available as soon as the engine finishes; the status tracks the report
// generation that continues in the background.
type Run struct {
	ID           string    `json:"id"`
	Tenant       string    `json:"tenant"`
	SystemFiles  []string  `json:"system_files"`
	InvoiceFiles []string  `json:"invoice_files"`
	Status       string    `json:"status"` // pending, processing, completed, failed
	Result       *Result   `json:"result,omitempty"`
	ReportObject string    `json:"report_object,omitempty"`
	ErrorMsg     string    `json:"error_msg,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Run status constants
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)
