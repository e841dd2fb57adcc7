package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryType says which direction an entry moves the counterparty's balance.
type EntryType string

const (
	// EntryTypeBorrow increases the counterparty's outstanding balance.
	EntryTypeBorrow EntryType = "borrow"

	// EntryTypeRepay decreases the counterparty's outstanding balance.
	EntryTypeRepay EntryType = "repay"
)

// IsValid checks if the entry type is one of the known types.
func (t EntryType) IsValid() bool {
	return t == EntryTypeBorrow || t == EntryTypeRepay
}

// Entry represents a single borrow or repay transaction attributed to a
// counterparty. The counterparty has no identity of its own: two entries
// with the same normalized Name belong to the same person.
type Entry struct {
	ID          string
	UserID      string
	Name        string
	Description string
	Amount      decimal.Decimal
	Type        EntryType
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
