package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/borrowbook/internal/domain"
)

func TestValidateAmount(t *testing.T) {
	tests := []struct {
		name    string
		amount  decimal.Decimal
		wantErr bool
	}{
		{"positive", decimal.NewFromInt(100), false},
		{"fractional", decimal.RequireFromString("0.01"), false},
		{"zero", decimal.Zero, true},
		{"negative", decimal.NewFromInt(-5), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateAmount(tt.amount)
			if tt.wantErr && err == nil {
				t.Fatalf("expected error for amount %s", tt.amount)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCounterpartyName(t *testing.T) {
	if err := domain.ValidateCounterpartyName("John Doe"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := domain.ValidateCounterpartyName(""); err == nil {
		t.Fatal("expected error for empty name")
	}

	long := make([]byte, domain.MaxNameLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := domain.ValidateCounterpartyName(string(long)); err == nil {
		t.Fatal("expected error for overlong name")
	}
}

func TestValidateEmail(t *testing.T) {
	valid := []string{"user@example.com", "a.b+c@sub.domain.io"}
	for _, email := range valid {
		if err := domain.ValidateEmail(email); err != nil {
			t.Errorf("expected %q to be valid: %v", email, err)
		}
	}

	invalid := []string{"", "plain", "missing@tld", "@example.com"}
	for _, email := range invalid {
		if err := domain.ValidateEmail(email); err == nil {
			t.Errorf("expected %q to be invalid", email)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	if err := domain.ValidatePassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}

	if err := domain.ValidatePassword("long-enough-password"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidatePhone(t *testing.T) {
	if err := domain.ValidatePhone(""); err != nil {
		t.Fatalf("empty phone should be allowed: %v", err)
	}

	if err := domain.ValidatePhone("+91 98765 43210"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := domain.ValidatePhone("not-a-phone"); err == nil {
		t.Fatal("expected error for malformed phone")
	}
}

func TestValidatePagination(t *testing.T) {
	limit, offset := domain.ValidatePagination(0, -10)
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults, got limit=%d offset=%d", limit, offset)
	}

	limit, _ = domain.ValidatePagination(5000, 0)
	if limit != 1000 {
		t.Fatalf("expected limit capped at 1000, got %d", limit)
	}
}
