package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Mehmet-hhs/factuurvergelijker/config"
	"github.com/Mehmet-hhs/factuurvergelijker/ingest"
	"github.com/Mehmet-hhs/factuurvergelijker/middleware"
	"github.com/Mehmet-hhs/factuurvergelijker/model"
	"github.com/Mehmet-hhs/factuurvergelijker/recon"
	"github.com/Mehmet-hhs/factuurvergelijker/report"
	"github.com/Mehmet-hhs/factuurvergelijker/service"
)

const reportContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReconcileHandler struct {
	config  *config.Config
	storage service.ReportStorage
	audit   *service.AuditLog
	store   *service.RunStore
}

func NewReconcileHandler(cfg *config.Config, storage service.ReportStorage, audit *service.AuditLog) *ReconcileHandler {
	return &ReconcileHandler{
		config:  cfg,
		storage: storage,
		audit:   audit,
		store:   service.GetRunStore(),
	}
}

// Create accepts the system and invoice documents as multipart uploads,
// runs the reconciliation synchronously, and kicks off report generation in
// the background. The run is recorded as pending before the engine runs, so
// a rejected dataset still leaves a failed run behind. The comparison result
// is returned immediately; the Excel report becomes available once the run
// reaches the completed status.
func (h *ReconcileHandler) Create(c *gin.Context) {
	tenant := middleware.GetTenant(c)

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid multipart request"})
		return
	}

	systemFiles := form.File["system"]
	invoiceFiles := form.File["invoice"]
	if len(systemFiles) == 0 || len(invoiceFiles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Both 'system' and 'invoice' files are required"})
		return
	}
	maxFiles := h.config.Server.MaxUploadFiles
	if len(systemFiles) > maxFiles || len(invoiceFiles) > maxFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("At most %d files per side are allowed", maxFiles)})
		return
	}

	reconCfg, err := h.config.Tolerances()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid tolerance configuration"})
		return
	}
	if err := applyToleranceOverrides(&reconCfg, c); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	systemDocs, err := readDocuments(systemFiles)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	invoiceDocs, err := readDocuments(invoiceFiles)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run := &model.Run{
		ID:           uuid.New().String(),
		Tenant:       tenant,
		SystemFiles:  fileNames(systemFiles),
		InvoiceFiles: fileNames(invoiceFiles),
		Status:       model.StatusPending,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	h.store.Save(run)

	result, err := recon.Reconcile(systemDocs, invoiceDocs, reconCfg)
	if err != nil {
		h.store.UpdateStatus(run.ID, model.StatusFailed, err.Error())
		h.recordAudit(c.Request.Context(), run.ID)
		if errors.Is(err, recon.ErrNoDocuments) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Reconciliation failed: " + err.Error()})
		return
	}

	run.Result = result
	run.Status = model.StatusProcessing
	h.store.Save(run)

	go h.generateReport(run)

	c.JSON(http.StatusOK, gin.H{
		"id":     run.ID,
		"status": run.Status,
		"result": result,
	})
}

// generateReport renders the Excel workbook and uploads it; runs in the
// background after Create has already answered.
func (h *ReconcileHandler) generateReport(run *model.Run) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	f, err := report.Generate(run.Result, h.config.StatusLabels())
	if err != nil {
		slog.Error("report generation failed", "run_id", run.ID, "error", err)
		h.store.UpdateStatus(run.ID, model.StatusFailed, "Rapport genereren mislukt: "+err.Error())
		h.recordAudit(ctx, run.ID)
		return
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		slog.Error("report serialization failed", "run_id", run.ID, "error", err)
		h.store.UpdateStatus(run.ID, model.StatusFailed, "Rapport wegschrijven mislukt: "+err.Error())
		h.recordAudit(ctx, run.ID)
		return
	}

	objectName := fmt.Sprintf("%s/%s/vergelijking.xlsx", run.Tenant, run.ID)
	if err := h.storage.Upload(ctx, objectName, buf.Bytes(), reportContentType); err != nil {
		slog.Error("report upload failed", "run_id", run.ID, "error", err)
		h.store.UpdateStatus(run.ID, model.StatusFailed, "Rapport uploaden mislukt: "+err.Error())
		h.recordAudit(ctx, run.ID)
		return
	}

	h.store.SetReport(run.ID, objectName)
	slog.Info("report ready", "run_id", run.ID, "object", objectName)
	h.recordAudit(ctx, run.ID)
}

func (h *ReconcileHandler) recordAudit(ctx context.Context, runID string) {
	if h.audit == nil {
		return
	}
	run := h.store.Get(runID)
	if run == nil {
		return
	}
	if err := h.audit.Record(ctx, run); err != nil {
		slog.Error("audit record failed", "run_id", runID, "error", err)
	}
}

// List returns all runs for the current tenant, without the full result table
func (h *ReconcileHandler) List(c *gin.Context) {
	tenant := middleware.GetTenant(c)
	runs := h.store.GetByTenant(tenant)

	result := make([]gin.H, len(runs))
	for i, run := range runs {
		entry := gin.H{
			"id":            run.ID,
			"system_files":  run.SystemFiles,
			"invoice_files": run.InvoiceFiles,
			"status":        run.Status,
			"created_at":    run.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			"updated_at":    run.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}
		if run.Result != nil {
			entry["tally"] = run.Result.Tally
		}
		result[i] = entry
	}

	c.JSON(http.StatusOK, gin.H{"runs": result})
}

// Get returns a single run with the full comparison result
func (h *ReconcileHandler) Get(c *gin.Context) {
	run := h.tenantRun(c)
	if run == nil {
		return
	}

	c.JSON(http.StatusOK, run)
}

// GetStatus returns the processing status of a run
func (h *ReconcileHandler) GetStatus(c *gin.Context) {
	run := h.tenantRun(c)
	if run == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":        run.ID,
		"status":    run.Status,
		"error_msg": run.ErrorMsg,
	})
}

// GetReport returns a presigned download URL for the Excel report
func (h *ReconcileHandler) GetReport(c *gin.Context) {
	run := h.tenantRun(c)
	if run == nil {
		return
	}

	if run.Status != model.StatusCompleted || run.ReportObject == "" {
		c.JSON(http.StatusConflict, gin.H{"error": "Report is not ready", "status": run.Status})
		return
	}

	url, err := h.storage.PresignedURL(c.Request.Context(), run.ReportObject)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate download URL"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": run.ID, "url": url})
}

// Delete removes a run and its stored report
func (h *ReconcileHandler) Delete(c *gin.Context) {
	run := h.tenantRun(c)
	if run == nil {
		return
	}

	if run.ReportObject != "" {
		if err := h.storage.Remove(c.Request.Context(), run.ReportObject); err != nil {
			slog.Warn("failed to remove stored report", "run_id", run.ID, "error", err)
		}
	}
	h.store.Delete(run.ID)

	c.JSON(http.StatusOK, gin.H{"message": "Run deleted"})
}

// tenantRun resolves the :id parameter to a run owned by the caller's tenant,
// writing the 404 itself when there is none.
func (h *ReconcileHandler) tenantRun(c *gin.Context) *model.Run {
	tenant := middleware.GetTenant(c)
	id := c.Param("id")

	run := h.store.Get(id)
	if run == nil || run.Tenant != tenant {
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
		return nil
	}
	return run
}

func readDocuments(files []*multipart.FileHeader) ([]model.Document, error) {
	docs := make([]model.Document, 0, len(files))
	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("kan bestand %s niet openen", header.Filename)
		}
		doc, err := ingest.ReadDocument(header.Filename, f)
		f.Close()
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func fileNames(files []*multipart.FileHeader) []string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return names
}

// applyToleranceOverrides lets a single request deviate from the configured
// tolerances via optional form fields.
func applyToleranceOverrides(cfg *recon.Config, c *gin.Context) error {
	if v := c.PostForm("quantity_tolerance"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return fmt.Errorf("ongeldige aantaltolerantie: %s", v)
		}
		cfg.QuantityTolerance = d
	}
	if v := c.PostForm("price_tolerance"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil || d.IsNegative() {
			return fmt.Errorf("ongeldige prijstolerantie: %s", v)
		}
		cfg.PriceTolerance = d
	}
	return nil
}
