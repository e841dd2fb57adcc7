package usecase

import (
	"context"
)

// ReportUseCase produces the exportable PDF summary for a user's ledger.
type ReportUseCase struct {
	ledgerUC *LedgerUseCase
	renderer ReportRenderer
}

// NewReportUseCase creates a new ReportUseCase.
func NewReportUseCase(ledgerUC *LedgerUseCase, renderer ReportRenderer) *ReportUseCase {
	return &ReportUseCase{
		ledgerUC: ledgerUC,
		renderer: renderer,
	}
}

// ExportPDF aggregates the user's ledger and renders it as a PDF document.
// The grand total in the rendered overview comes from the same Summarize
// fold as the per-counterparty rows; the renderer never recomputes totals.
func (uc *ReportUseCase) ExportPDF(ctx context.Context, userID string) ([]byte, error) {
	data, err := uc.ledgerUC.BuildReportData(ctx, userID)
	if err != nil {
		return nil, err
	}

	return uc.renderer.Render(data)
}
