package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation errors
var (
	ErrInvalidEmail    = errors.New("invalid email format")
	ErrPasswordTooWeak = errors.New("password does not meet requirements")
	ErrInvalidPhone    = errors.New("invalid phone number")
	ErrNameTooLong     = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength     = 100
	MinPasswordLength = 8
	MaxPasswordLength = 128
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 -]{6,18}$`)
)

// ValidateCounterpartyName validates an already-normalized counterparty name.
func ValidateCounterpartyName(name string) error {
	if name == "" {
		return ErrEmptyName
	}

	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: limit is %d characters", ErrNameTooLong, MaxNameLength)
	}

	return nil
}

// ValidateAmount rejects zero and negative amounts. No upper bound is
// enforced: amounts are plain decimals without overflow protection.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	return nil
}

// ValidateEmail validates email format
func ValidateEmail(email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	if !emailRegex.MatchString(email) {
		return ErrInvalidEmail
	}

	return nil
}

// ValidatePhone validates phone number format. Empty is allowed: the signup
// form treats phone as optional.
func ValidatePhone(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil
	}

	if !phoneRegex.MatchString(phone) {
		return ErrInvalidPhone
	}

	return nil
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: must be at least %d characters", ErrPasswordTooWeak, MinPasswordLength)
	}

	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: must not exceed %d characters", ErrPasswordTooWeak, MaxPasswordLength)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
