package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/iho/borrowbook/internal/adapter/http/middleware"
	"github.com/iho/borrowbook/internal/infrastructure/metrics"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	ExportPDF(ctx context.Context, userID string) ([]byte, error)
}

// ReportHandler serves the PDF export.
type ReportHandler struct {
	reportUC ReportService
	metrics  *metrics.Metrics
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService, m *metrics.Metrics) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, metrics: m}
}

// ExportPDF streams the full ledger report as a PDF download.
func (h *ReportHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	pdf, err := h.reportUC.ExportPDF(r.Context(), user.ID)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to render report", err.Error())
		return
	}

	if h.metrics != nil {
		h.metrics.ReportsExported.Inc()
	}

	filename := fmt.Sprintf("borrowbook-%s.pdf", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}
