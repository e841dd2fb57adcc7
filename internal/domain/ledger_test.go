package domain_test

import (
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/borrowbook/internal/domain"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func entry(id, name string, typ domain.EntryType, amount int64, day string) *domain.Entry {
	return &domain.Entry{
		ID:     id,
		Name:   name,
		Type:   typ,
		Amount: decimal.NewFromInt(amount),
		Date:   date(day),
	}
}

func TestRunningBalance(t *testing.T) {
	entries := []*domain.Entry{
		entry("e1", "John Doe", domain.EntryTypeBorrow, 100, "2024-01-01"),
		entry("e2", "John Doe", domain.EntryTypeRepay, 40, "2024-01-05"),
		entry("e3", "John Doe", domain.EntryTypeBorrow, 20, "2024-01-10"),
	}

	lines := domain.RunningBalance(domain.SortByDate(entries))
	require.Len(t, lines, 3)

	want := []int64{100, 60, 80}
	for i, w := range want {
		assert.True(t, lines[i].BalanceAfter.Equal(decimal.NewFromInt(w)),
			"line %d: expected %d, got %s", i, w, lines[i].BalanceAfter)
	}

	// The final snapshot must agree with the independent summary fold.
	summary := domain.Summarize(entries)
	assert.True(t, lines[len(lines)-1].BalanceAfter.Equal(summary.Outstanding))
	assert.True(t, summary.TotalBorrowed.Equal(decimal.NewFromInt(120)))
	assert.True(t, summary.TotalRepaid.Equal(decimal.NewFromInt(40)))
	assert.True(t, summary.Outstanding.Equal(decimal.NewFromInt(80)))
}

func TestRunningBalance_NegativeOutstandingIsValid(t *testing.T) {
	entries := []*domain.Entry{
		entry("e1", "Asha", domain.EntryTypeBorrow, 50, "2024-02-01"),
		entry("e2", "Asha", domain.EntryTypeRepay, 80, "2024-02-02"),
	}

	lines := domain.RunningBalance(domain.SortByDate(entries))
	require.Len(t, lines, 2)
	assert.True(t, lines[1].BalanceAfter.Equal(decimal.NewFromInt(-30)))

	summary := domain.Summarize(entries)
	assert.True(t, summary.Outstanding.Equal(decimal.NewFromInt(-30)),
		"negative outstanding must not be clamped")
}

func TestGroupByCounterparty_IsPartition(t *testing.T) {
	entries := []*domain.Entry{
		entry("e1", "John Doe", domain.EntryTypeBorrow, 100, "2024-01-03"),
		entry("e2", "Asha", domain.EntryTypeBorrow, 10, "2024-01-01"),
		entry("e3", "John Doe", domain.EntryTypeRepay, 40, "2024-01-02"),
		entry("e4", "Ravi", domain.EntryTypeBorrow, 5, "2024-01-04"),
		entry("e5", "Asha", domain.EntryTypeRepay, 10, "2024-01-05"),
	}

	groups := domain.GroupByCounterparty(entries)

	// Groups appear in first-seen order of their first entry.
	names := make([]string, len(groups))
	for i, g := range groups {
		names[i] = g.Name
	}
	assert.Equal(t, []string{"John Doe", "Asha", "Ravi"}, names)

	// Union of the groups is exactly the input multiset.
	seen := make(map[string]int)
	total := 0
	for _, g := range groups {
		for _, e := range g.Entries {
			assert.Equal(t, g.Name, e.Name)
			seen[e.ID]++
			total++
		}
	}
	assert.Equal(t, len(entries), total)
	for _, e := range entries {
		assert.Equal(t, 1, seen[e.ID], "entry %s must appear in exactly one group", e.ID)
	}

	// Entries within a group are date-sorted.
	for _, g := range groups {
		for i := 1; i < len(g.Entries); i++ {
			assert.False(t, g.Entries[i].Date.Before(g.Entries[i-1].Date))
		}
	}
}

func TestGroupByCounterparty_DoesNotMutateInput(t *testing.T) {
	entries := []*domain.Entry{
		entry("e1", "John Doe", domain.EntryTypeBorrow, 100, "2024-01-03"),
		entry("e2", "John Doe", domain.EntryTypeRepay, 40, "2024-01-01"),
	}

	domain.GroupByCounterparty(entries)

	assert.Equal(t, "e1", entries[0].ID, "caller's slice order must be preserved")
	assert.Equal(t, "e2", entries[1].ID)
}

func TestSortByDate_StableTieBreak(t *testing.T) {
	// All entries share a date; the only defined order is input order.
	entries := []*domain.Entry{
		entry("e1", "John Doe", domain.EntryTypeBorrow, 1, "2024-03-01"),
		entry("e2", "John Doe", domain.EntryTypeBorrow, 2, "2024-03-01"),
		entry("e3", "John Doe", domain.EntryTypeBorrow, 3, "2024-03-01"),
		entry("e4", "John Doe", domain.EntryTypeBorrow, 4, "2024-03-01"),
	}

	sorted := domain.SortByDate(entries)
	for i, e := range entries {
		assert.Equal(t, e.ID, sorted[i].ID, "same-date entries must keep input order")
	}
}

func TestRunningBalance_DeterministicAcrossShuffles(t *testing.T) {
	const n = 20
	entries := make([]*domain.Entry, 0, n)
	for i := 0; i < n; i++ {
		typ := domain.EntryTypeBorrow
		if i%3 == 0 {
			typ = domain.EntryTypeRepay
		}
		day := "2024-04-0" + string(rune('1'+i%5))
		entries = append(entries, entry(string(rune('a'+i)), "P", typ, int64(i+1), day))
	}

	base := domain.Summarize(entries)

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		shuffled := make([]*domain.Entry, n)
		copy(shuffled, entries)
		rng.Shuffle(n, func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		lines := domain.RunningBalance(domain.SortByDate(shuffled))
		require.Len(t, lines, n)

		// The summary is order-independent; the final fold value must always
		// land on the same outstanding figure.
		assert.True(t, lines[n-1].BalanceAfter.Equal(base.Outstanding))
	}
}

func TestSummarize_Empty(t *testing.T) {
	summary := domain.Summarize(nil)

	assert.True(t, summary.TotalBorrowed.IsZero())
	assert.True(t, summary.TotalRepaid.IsZero())
	assert.True(t, summary.Outstanding.IsZero())
	assert.True(t, summary.LastDate.IsZero(), "empty collection has the zero-date sentinel")

	assert.Empty(t, domain.GroupByCounterparty(nil))
	assert.Empty(t, domain.RunningBalance(nil))
}

func TestSummarize_LastDate(t *testing.T) {
	entries := []*domain.Entry{
		entry("e1", "Asha", domain.EntryTypeBorrow, 10, "2024-05-20"),
		entry("e2", "Asha", domain.EntryTypeRepay, 5, "2024-06-01"),
		entry("e3", "Asha", domain.EntryTypeBorrow, 7, "2024-05-30"),
	}

	summary := domain.Summarize(entries)
	assert.Equal(t, date("2024-06-01"), summary.LastDate)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"  jOHN   doe ", "John Doe"},
		{"asha", "Asha"},
		{"MARY ANN smith", "Mary Ann Smith"},
		{"  ", ""},
		{"", ""},
		{"o'neil", "O'neil"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got := domain.NormalizeName(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, domain.NormalizeName(got), "normalization must be idempotent")
		})
	}
}
