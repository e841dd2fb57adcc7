// Package report renders the ledger as a downloadable PDF document.
package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

// PDFRenderer implements usecase.ReportRenderer with go-pdf/fpdf.
type PDFRenderer struct {
	title string
}

// NewPDFRenderer creates a new PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{title: "Borrow Book"}
}

const dateFormat = "2006-01-02"

// Render produces the full ledger report: a header, the per-counterparty
// overview table with a grand-total row, the overall summary, and one
// chronological section per counterparty.
func (r *PDFRenderer) Render(data *usecase.ReportData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, r.title, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated "+data.GeneratedAt.Format(dateFormat), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	r.renderOverview(pdf, data)
	r.renderGrandSummary(pdf, data)

	for _, section := range data.Sections {
		r.renderSection(pdf, section)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (r *PDFRenderer) renderOverview(pdf *fpdf.Fpdf, data *usecase.ReportData) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Overview", "", 1, "L", false, 0, "")

	widths := []float64{60, 32, 32, 32, 34}
	headers := []string{"Name", "Borrowed", "Repaid", "Outstanding", "Last Date"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, hdr := range headers {
		pdf.CellFormat(widths[i], 7, hdr, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, row := range data.Rows {
		pdf.CellFormat(widths[0], 7, row.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, row.Summary.TotalBorrowed.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, row.Summary.TotalRepaid.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, row.Summary.Outstanding.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, formatLastDate(row.Summary), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	// Grand total row
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(widths[0], 7, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(widths[1], 7, data.GrandTotal.TotalBorrowed.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[2], 7, data.GrandTotal.TotalRepaid.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[3], 7, data.GrandTotal.Outstanding.StringFixed(2), "1", 0, "R", true, 0, "")
	pdf.CellFormat(widths[4], 7, formatLastDate(data.GrandTotal), "1", 0, "C", true, 0, "")
	pdf.Ln(10)
}

func (r *PDFRenderer) renderGrandSummary(pdf *fpdf.Fpdf, data *usecase.ReportData) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Total borrowed: "+data.GrandTotal.TotalBorrowed.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Total repaid: "+data.GrandTotal.TotalRepaid.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Outstanding: "+data.GrandTotal.Outstanding.StringFixed(2), "", 1, "L", false, 0, "")
	pdf.Ln(6)
}

func (r *PDFRenderer) renderSection(pdf *fpdf.Fpdf, section usecase.ReportSection) {
	// Keep a section heading from dangling at a page bottom.
	if pdf.GetY() > 240 {
		pdf.AddPage()
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, section.Name, "", 1, "L", false, 0, "")

	widths := []float64{32, 22, 32, 66, 38}
	headers := []string{"Date", "Type", "Amount", "Description", "Balance"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, hdr := range headers {
		pdf.CellFormat(widths[i], 7, hdr, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range section.Lines {
		pdf.CellFormat(widths[0], 7, line.Entry.Date.Format(dateFormat), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, string(line.Entry.Type), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[2], 7, line.Entry.Amount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, truncate(line.Entry.Description, 40), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[4], 7, line.BalanceAfter.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.CellFormat(0, 7, "Outstanding: "+section.Summary.Outstanding.StringFixed(2), "", 1, "R", false, 0, "")
	pdf.Ln(4)
}

// formatLastDate renders a summary's last activity date, or "-" when the
// summary covers no entries.
func formatLastDate(s domain.Summary) string {
	if s.LastDate.IsZero() {
		return "-"
	}
	return s.LastDate.Format(dateFormat)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
