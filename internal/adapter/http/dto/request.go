package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

// DateFormat is the wire format for entry dates.
const DateFormat = "2006-01-02"

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// ToUseCaseInput converts to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Phone:    r.Phone,
		Password: r.Password,
	}
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember,omitempty"`
}

// RefreshRequest carries a refresh token when it is not sent as a cookie.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token,omitempty"`
}

// PromoteRequest names the user to grant the admin role to.
type PromoteRequest struct {
	UserID string `json:"user_id"`
}

// CreateEntryRequest represents a request to record a borrow or repay.
type CreateEntryRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Date        string          `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input. An empty date stays zero so the
// use case stamps the current time.
func (r *CreateEntryRequest) ToUseCaseInput(userID string) (usecase.CreateEntryInput, error) {
	var date time.Time
	if r.Date != "" {
		parsed, err := time.Parse(DateFormat, r.Date)
		if err != nil {
			return usecase.CreateEntryInput{}, err
		}
		date = parsed
	}

	return usecase.CreateEntryInput{
		UserID:      userID,
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount,
		Type:        domain.EntryType(r.Type),
		Date:        date,
	}, nil
}

// UpdateEntryRequest represents a partial entry update. Absent fields keep
// their stored value.
type UpdateEntryRequest struct {
	Name        *string          `json:"name,omitempty"`
	Description *string          `json:"description,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Type        *string          `json:"type,omitempty"`
	Date        *string          `json:"date,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateEntryRequest) ToUseCaseInput(id, userID string) (usecase.UpdateEntryInput, error) {
	input := usecase.UpdateEntryInput{
		ID:          id,
		UserID:      userID,
		Name:        r.Name,
		Description: r.Description,
		Amount:      r.Amount,
	}

	if r.Type != nil {
		typ := domain.EntryType(*r.Type)
		input.Type = &typ
	}

	if r.Date != nil {
		parsed, err := time.Parse(DateFormat, *r.Date)
		if err != nil {
			return usecase.UpdateEntryInput{}, err
		}
		input.Date = &parsed
	}

	return input, nil
}
