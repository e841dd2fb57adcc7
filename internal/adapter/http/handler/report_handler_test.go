package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type reportServiceStub struct {
	exportFn func(ctx context.Context, userID string) ([]byte, error)
}

func (s *reportServiceStub) ExportPDF(ctx context.Context, userID string) ([]byte, error) {
	return s.exportFn(ctx, userID)
}

func TestReportHandler_ExportPDF(t *testing.T) {
	payload := []byte("%PDF-1.7 fake")
	handler := NewReportHandler(&reportServiceStub{
		exportFn: func(ctx context.Context, userID string) ([]byte, error) {
			if userID != "user-1" {
				t.Fatalf("expected user-1, got %s", userID)
			}
			return payload, nil
		},
	}, nil)

	req := withUser(httptest.NewRequest(http.MethodGet, "/reports/pdf", nil), "user-1")
	rec := httptest.NewRecorder()

	handler.ExportPDF(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	if got := rec.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", got)
	}

	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "attachment") {
		t.Fatalf("expected attachment disposition, got %s", cd)
	}

	if !bytes.Equal(rec.Body.Bytes(), payload) {
		t.Fatalf("expected PDF bytes to pass through unchanged")
	}
}

func TestReportHandler_ExportPDF_Unauthenticated(t *testing.T) {
	handler := NewReportHandler(&reportServiceStub{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/reports/pdf", nil)
	rec := httptest.NewRecorder()

	handler.ExportPDF(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
