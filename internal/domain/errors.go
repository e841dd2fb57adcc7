package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound    = errors.New("entry not found")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrInvalidEntryType = errors.New("entry type must be borrow or repay")
	ErrEmptyName        = errors.New("counterparty name cannot be empty")

	// User errors
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailAlreadyUsed = errors.New("user with this email already exists")
	ErrUserInactive     = errors.New("user account is inactive")
	ErrSessionNotFound  = errors.New("session not found or expired")
	ErrAlreadyAdmin     = errors.New("user is already an admin")
)
