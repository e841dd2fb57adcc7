package report

import (
	"bytes"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

func sampleReportData() *usecase.ReportData {
	d1 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)

	e1 := &domain.Entry{
		ID:          "e1",
		Name:        "John Doe",
		Description: "lunch money",
		Amount:      decimal.NewFromInt(100),
		Type:        domain.EntryTypeBorrow,
		Date:        d1,
	}
	e2 := &domain.Entry{
		ID:     "e2",
		Name:   "John Doe",
		Amount: decimal.NewFromInt(40),
		Type:   domain.EntryTypeRepay,
		Date:   d2,
	}

	summary := domain.Summarize([]*domain.Entry{e1, e2})

	return &usecase.ReportData{
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Rows: []usecase.OverviewRow{
			{Name: "John Doe", Summary: summary},
		},
		GrandTotal: summary,
		Sections: []usecase.ReportSection{
			{
				Name:    "John Doe",
				Lines:   domain.RunningBalance([]*domain.Entry{e1, e2}),
				Summary: summary,
			},
		},
	}
}

func TestPDFRendererRender(t *testing.T) {
	renderer := NewPDFRenderer()

	pdf, err := renderer.Render(sampleReportData())
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected output to start with %%PDF, got %q", pdf[:min(len(pdf), 8)])
	}

	if len(pdf) < 1000 {
		t.Fatalf("suspiciously small PDF: %d bytes", len(pdf))
	}
}

func TestPDFRendererEmptyLedger(t *testing.T) {
	renderer := NewPDFRenderer()

	data := &usecase.ReportData{
		GeneratedAt: time.Now().UTC(),
		GrandTotal:  domain.Summarize(nil),
	}

	pdf, err := renderer.Render(data)
	if err != nil {
		t.Fatalf("render failed: %v", err)
	}

	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("expected a valid PDF for an empty ledger")
	}
}

func TestFormatLastDate(t *testing.T) {
	if got := formatLastDate(domain.Summary{}); got != "-" {
		t.Fatalf("expected '-' for zero date, got %q", got)
	}

	s := domain.Summary{LastDate: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)}
	if got := formatLastDate(s); got != "2024-02-05" {
		t.Fatalf("expected 2024-02-05, got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 40); got != "short" {
		t.Fatalf("expected unmodified string, got %q", got)
	}

	long := "this description is far too long to fit inside the table cell"
	got := truncate(long, 20)
	if len(got) != 20 || got[17:] != "..." {
		t.Fatalf("expected 20-char ellipsised string, got %q", got)
	}

	multibyte := "обед с друзьями в кафе на набережной"
	got = truncate(multibyte, 20)
	if !utf8.ValidString(got) {
		t.Fatalf("expected valid UTF-8, got %q", got)
	}
	if runes := []rune(got); len(runes) != 20 || string(runes[17:]) != "..." {
		t.Fatalf("expected 20-rune ellipsised string, got %q", got)
	}
}
