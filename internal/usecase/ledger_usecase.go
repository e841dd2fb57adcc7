package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/infrastructure/metrics"
)

const overviewCacheTTL = 5 * time.Minute

func overviewCacheKey(userID string) string {
	return "overview:" + userID
}

// LedgerUseCase exposes the aggregated views over a user's entries: the
// per-counterparty overview, per-counterparty running balances, and the data
// set the report renderer consumes. All aggregation is delegated to the pure
// functions in the domain package; this type only fetches and caches.
type LedgerUseCase struct {
	entryRepo EntryRepository
	cache     Cache
	metrics   *metrics.Metrics
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(entryRepo EntryRepository, cache Cache, m *metrics.Metrics) *LedgerUseCase {
	return &LedgerUseCase{
		entryRepo: entryRepo,
		cache:     cache,
		metrics:   m,
	}
}

// OverviewRow is one counterparty's summary line.
type OverviewRow struct {
	Name    string         `json:"name"`
	Summary domain.Summary `json:"summary"`
}

// Overview holds the per-counterparty rows plus the grand total over all
// entries. The grand total uses the same Summarize fold as the rows.
type Overview struct {
	Rows       []OverviewRow  `json:"rows"`
	GrandTotal domain.Summary `json:"grand_total"`
}

// GetOverview computes the overview for a user, serving from cache when a
// fresh copy exists. Entry mutations invalidate the cache.
func (uc *LedgerUseCase) GetOverview(ctx context.Context, userID string) (*Overview, error) {
	if uc.metrics != nil {
		uc.metrics.OverviewRequests.Inc()
	}

	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx, overviewCacheKey(userID)); err == nil && cached != "" {
			var overview Overview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				uc.countCache("hit")
				return &overview, nil
			}
		}
		uc.countCache("miss")
	}

	entries, err := uc.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := buildOverview(entries)

	if uc.cache != nil {
		if payload, err := json.Marshal(overview); err == nil {
			_ = uc.cache.Set(ctx, overviewCacheKey(userID), string(payload), overviewCacheTTL)
		}
	}

	return overview, nil
}

func (uc *LedgerUseCase) countCache(outcome string) {
	if uc.metrics != nil {
		uc.metrics.OverviewCache.WithLabelValues(outcome).Inc()
	}
}

func buildOverview(entries []*domain.Entry) *Overview {
	groups := domain.GroupByCounterparty(entries)

	rows := make([]OverviewRow, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, OverviewRow{
			Name:    g.Name,
			Summary: domain.Summarize(g.Entries),
		})
	}

	return &Overview{
		Rows:       rows,
		GrandTotal: domain.Summarize(entries),
	}
}

// CounterpartyDetail is the chronological history for one counterparty.
type CounterpartyDetail struct {
	Name    string
	Lines   []domain.BalanceLine
	Summary domain.Summary
}

// GetCounterpartyDetail returns the date-ordered entries for one counterparty
// with a balance snapshot after each, plus the counterparty summary. The
// requested name is normalized before matching, so lookups spelled with
// different casing or spacing still resolve. An unknown counterparty yields
// an empty detail, not an error.
func (uc *LedgerUseCase) GetCounterpartyDetail(ctx context.Context, userID, name string) (*CounterpartyDetail, error) {
	normalized := domain.NormalizeName(name)
	if err := domain.ValidateCounterpartyName(normalized); err != nil {
		return nil, err
	}

	entries, err := uc.entryRepo.ListByUserAndName(ctx, userID, normalized)
	if err != nil {
		return nil, err
	}

	sorted := domain.SortByDate(entries)

	return &CounterpartyDetail{
		Name:    normalized,
		Lines:   domain.RunningBalance(sorted),
		Summary: domain.Summarize(entries),
	}, nil
}

// ReportSection is one counterparty's block in the exported report.
type ReportSection struct {
	Name    string
	Lines   []domain.BalanceLine
	Summary domain.Summary
}

// ReportData is everything the report renderer needs: overview rows, the
// grand total, and one chronological section per counterparty.
type ReportData struct {
	GeneratedAt time.Time
	Rows        []OverviewRow
	GrandTotal  domain.Summary
	Sections    []ReportSection
}

// BuildReportData assembles the full report input for a user.
func (uc *LedgerUseCase) BuildReportData(ctx context.Context, userID string) (*ReportData, error) {
	entries, err := uc.entryRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := buildOverview(entries)
	groups := domain.GroupByCounterparty(entries)

	sections := make([]ReportSection, 0, len(groups))
	for _, g := range groups {
		sections = append(sections, ReportSection{
			Name:    g.Name,
			Lines:   domain.RunningBalance(g.Entries),
			Summary: domain.Summarize(g.Entries),
		})
	}

	return &ReportData{
		GeneratedAt: time.Now().UTC(),
		Rows:        overview.Rows,
		GrandTotal:  overview.GrandTotal,
		Sections:    sections,
	}, nil
}
