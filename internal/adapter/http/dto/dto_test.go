package dto

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/borrowbook/internal/domain"
)

func TestCreateEntryRequest_ToUseCaseInput(t *testing.T) {
	req := &CreateEntryRequest{
		Name:   "john doe",
		Amount: decimal.NewFromInt(100),
		Type:   "borrow",
		Date:   "2024-03-15",
	}

	input, err := req.ToUseCaseInput("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if input.UserID != "user-1" || input.Name != "john doe" {
		t.Fatalf("unexpected input: %+v", input)
	}

	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	if !input.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, input.Date)
	}
}

func TestCreateEntryRequest_EmptyDateStaysZero(t *testing.T) {
	req := &CreateEntryRequest{
		Name:   "x",
		Amount: decimal.NewFromInt(1),
		Type:   "repay",
	}

	input, err := req.ToUseCaseInput("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !input.Date.IsZero() {
		t.Fatalf("expected zero date, got %v", input.Date)
	}
}

func TestCreateEntryRequest_BadDate(t *testing.T) {
	req := &CreateEntryRequest{
		Name:   "x",
		Amount: decimal.NewFromInt(1),
		Type:   "borrow",
		Date:   "15/03/2024",
	}

	if _, err := req.ToUseCaseInput("user-1"); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestUpdateEntryRequest_ToUseCaseInput(t *testing.T) {
	name := "Asha"
	typ := "repay"
	date := "2024-04-01"

	req := &UpdateEntryRequest{
		Name: &name,
		Type: &typ,
		Date: &date,
	}

	input, err := req.ToUseCaseInput("e1", "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if input.ID != "e1" || input.UserID != "user-1" {
		t.Fatalf("unexpected identity fields: %+v", input)
	}

	if input.Type == nil || *input.Type != domain.EntryTypeRepay {
		t.Fatalf("expected type repay, got %v", input.Type)
	}

	if input.Date == nil || input.Date.Day() != 1 {
		t.Fatalf("expected parsed date, got %v", input.Date)
	}

	if input.Amount != nil || input.Description != nil {
		t.Fatalf("expected absent fields to stay nil")
	}
}

func TestSummaryFromDomain_EmptyLastDate(t *testing.T) {
	resp := SummaryFromDomain(domain.Summary{
		TotalBorrowed: decimal.Zero,
		TotalRepaid:   decimal.Zero,
		Outstanding:   decimal.Zero,
	})

	if resp.LastDate != "-" {
		t.Fatalf("expected '-' for empty collection, got %q", resp.LastDate)
	}
}

func TestSummaryFromDomain_FormatsLastDate(t *testing.T) {
	resp := SummaryFromDomain(domain.Summary{
		LastDate: time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
	})

	if resp.LastDate != "2024-03-15" {
		t.Fatalf("expected 2024-03-15, got %q", resp.LastDate)
	}
}

func TestEntryFromDomain(t *testing.T) {
	e := &domain.Entry{
		ID:     "e1",
		Name:   "John Doe",
		Amount: decimal.NewFromInt(50),
		Type:   domain.EntryTypeBorrow,
		Date:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
	}

	resp := EntryFromDomain(e)
	if resp.Date != "2024-01-02" || resp.Type != "borrow" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
