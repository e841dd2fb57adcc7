package domain

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Group holds the entries attributed to a single counterparty, sorted
// ascending by date. Same-date entries keep their original input order.
type Group struct {
	Name    string
	Entries []*Entry
}

// BalanceLine is one entry together with the outstanding balance immediately
// after applying it.
type BalanceLine struct {
	Entry        *Entry
	BalanceAfter decimal.Decimal
}

// Summary aggregates a collection of entries. It is used unchanged for a
// single counterparty, for the whole ledger, and for report grand totals.
// A zero LastDate means the collection was empty.
type Summary struct {
	TotalBorrowed decimal.Decimal
	TotalRepaid   decimal.Decimal
	Outstanding   decimal.Decimal
	LastDate      time.Time
}

// GroupByCounterparty partitions entries by exact counterparty name.
// Groups appear in first-seen order of their first entry; within a group
// entries are sorted by date with a stable tie-break on input order.
// The input slice is not modified.
func GroupByCounterparty(entries []*Entry) []Group {
	index := make(map[string]int, len(entries))
	groups := make([]Group, 0)

	for _, e := range entries {
		i, ok := index[e.Name]
		if !ok {
			i = len(groups)
			index[e.Name] = i
			groups = append(groups, Group{Name: e.Name})
		}
		groups[i].Entries = append(groups[i].Entries, e)
	}

	for i := range groups {
		groups[i].Entries = SortByDate(groups[i].Entries)
	}

	return groups
}

// SortByDate returns a copy of entries sorted ascending by date. The sort is
// stable: entries sharing a date keep their relative input order, which makes
// the running balance deterministic.
func SortByDate(entries []*Entry) []*Entry {
	sorted := make([]*Entry, len(entries))
	copy(sorted, entries)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	return sorted
}

// RunningBalance folds date-sorted entries into per-entry balance snapshots.
// Borrow adds, repay subtracts. The fold is strictly left-to-right, so the
// caller must pass entries already sorted (see SortByDate). Balances may go
// negative when a counterparty has net overpaid; that is a valid state.
func RunningBalance(sorted []*Entry) []BalanceLine {
	lines := make([]BalanceLine, 0, len(sorted))
	balance := decimal.Zero

	for _, e := range sorted {
		if e.Type == EntryTypeBorrow {
			balance = balance.Add(e.Amount)
		} else {
			balance = balance.Sub(e.Amount)
		}
		lines = append(lines, BalanceLine{Entry: e, BalanceAfter: balance})
	}

	return lines
}

// Summarize totals a collection of entries. Empty input yields a zero
// summary with a zero LastDate.
func Summarize(entries []*Entry) Summary {
	s := Summary{
		TotalBorrowed: decimal.Zero,
		TotalRepaid:   decimal.Zero,
		Outstanding:   decimal.Zero,
	}

	for _, e := range entries {
		if e.Type == EntryTypeBorrow {
			s.TotalBorrowed = s.TotalBorrowed.Add(e.Amount)
		} else {
			s.TotalRepaid = s.TotalRepaid.Add(e.Amount)
		}
		if e.Date.After(s.LastDate) {
			s.LastDate = e.Date
		}
	}

	s.Outstanding = s.TotalBorrowed.Sub(s.TotalRepaid)
	return s
}

// NormalizeName canonicalizes a counterparty name: trims surrounding
// whitespace, collapses internal runs of whitespace, and title-cases every
// word. Applied once at entry-creation time; grouping then relies on exact
// string equality.
func NormalizeName(raw string) string {
	words := strings.Fields(strings.ToLower(raw))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
