package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

// EntryResponse represents an entry in API responses.
type EntryResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// EntryFromDomain converts a domain entry to a response.
func EntryFromDomain(e *domain.Entry) *EntryResponse {
	return &EntryResponse{
		ID:          e.ID,
		Name:        e.Name,
		Description: e.Description,
		Amount:      e.Amount,
		Type:        string(e.Type),
		Date:        e.Date.Format(DateFormat),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.Entry) []*EntryResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return result
}

// SummaryResponse represents an aggregate over entries. LastDate is "-" when
// the underlying collection was empty.
type SummaryResponse struct {
	TotalBorrowed decimal.Decimal `json:"total_borrowed"`
	TotalRepaid   decimal.Decimal `json:"total_repaid"`
	Outstanding   decimal.Decimal `json:"outstanding"`
	LastDate      string          `json:"last_date"`
}

// SummaryFromDomain converts a domain summary to a response.
func SummaryFromDomain(s domain.Summary) SummaryResponse {
	lastDate := "-"
	if !s.LastDate.IsZero() {
		lastDate = s.LastDate.Format(DateFormat)
	}

	return SummaryResponse{
		TotalBorrowed: s.TotalBorrowed,
		TotalRepaid:   s.TotalRepaid,
		Outstanding:   s.Outstanding,
		LastDate:      lastDate,
	}
}

// OverviewRowResponse is one counterparty row in the overview.
type OverviewRowResponse struct {
	Name    string          `json:"name"`
	Summary SummaryResponse `json:"summary"`
}

// OverviewResponse is the full per-counterparty overview.
type OverviewResponse struct {
	Rows       []OverviewRowResponse `json:"rows"`
	GrandTotal SummaryResponse       `json:"grand_total"`
}

// OverviewFromUseCase converts a usecase overview to a response.
func OverviewFromUseCase(o *usecase.Overview) *OverviewResponse {
	rows := make([]OverviewRowResponse, len(o.Rows))
	for i, row := range o.Rows {
		rows[i] = OverviewRowResponse{
			Name:    row.Name,
			Summary: SummaryFromDomain(row.Summary),
		}
	}

	return &OverviewResponse{
		Rows:       rows,
		GrandTotal: SummaryFromDomain(o.GrandTotal),
	}
}

// BalanceLineResponse is one entry plus the balance right after it.
type BalanceLineResponse struct {
	Entry        *EntryResponse  `json:"entry"`
	BalanceAfter decimal.Decimal `json:"balance_after"`
}

// CounterpartyDetailResponse is the chronological history for one counterparty.
type CounterpartyDetailResponse struct {
	Name    string                `json:"name"`
	Lines   []BalanceLineResponse `json:"lines"`
	Summary SummaryResponse       `json:"summary"`
}

// CounterpartyDetailFromUseCase converts a usecase detail to a response.
func CounterpartyDetailFromUseCase(d *usecase.CounterpartyDetail) *CounterpartyDetailResponse {
	lines := make([]BalanceLineResponse, len(d.Lines))
	for i, line := range d.Lines {
		lines[i] = BalanceLineResponse{
			Entry:        EntryFromDomain(line.Entry),
			BalanceAfter: line.BalanceAfter,
		}
	}

	return &CounterpartyDetailResponse{
		Name:    d.Name,
		Lines:   lines,
		Summary: SummaryFromDomain(d.Summary),
	}
}

// UserResponse represents a user in API responses.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// UserFromDomain converts a domain user to a response.
func UserFromDomain(u *domain.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Phone:     u.Phone,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
	}
}

// UserWithEntriesResponse pairs a user with their entries for the admin view.
type UserWithEntriesResponse struct {
	User    *UserResponse    `json:"user"`
	Entries []*EntryResponse `json:"entries"`
}

// UsersWithEntriesFromUseCase converts the admin listing to responses.
func UsersWithEntriesFromUseCase(items []*usecase.UserWithEntries) []*UserWithEntriesResponse {
	result := make([]*UserWithEntriesResponse, len(items))
	for i, item := range items {
		result[i] = &UserWithEntriesResponse{
			User:    UserFromDomain(item.User),
			Entries: EntriesFromDomain(item.Entries),
		}
	}
	return result
}

// LoginResponse carries the issued access token alongside the user.
type LoginResponse struct {
	User        *UserResponse `json:"user"`
	AccessToken string        `json:"access_token"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
