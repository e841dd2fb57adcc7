package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/infrastructure/metrics"
)

// EntryUseCase handles entry lifecycle: create, patch, delete, list.
// Aggregation over entries lives in LedgerUseCase; this type only guards the
// creation boundary so malformed amounts and names never reach the ledger.
type EntryUseCase struct {
	entryRepo EntryRepository
	txManager TransactionManager
	idGen     IDGenerator
	cache     Cache
	metrics   *metrics.Metrics
}

// NewEntryUseCase creates a new EntryUseCase.
func NewEntryUseCase(entryRepo EntryRepository, txManager TransactionManager, idGen IDGenerator, cache Cache, m *metrics.Metrics) *EntryUseCase {
	return &EntryUseCase{
		entryRepo: entryRepo,
		txManager: txManager,
		idGen:     idGen,
		cache:     cache,
		metrics:   m,
	}
}

// CreateEntryInput represents input for creating an entry.
type CreateEntryInput struct {
	UserID      string
	Name        string
	Description string
	Amount      decimal.Decimal
	Type        domain.EntryType
	Date        time.Time
}

// CreateEntry validates and persists a new entry. The counterparty name is
// normalized here, before it is stored, so grouping can rely on exact string
// equality later.
func (uc *EntryUseCase) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	entry, err := uc.createEntry(ctx, input)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesCreated.Inc()
		amount, _ := entry.Amount.Float64()
		uc.metrics.EntryAmount.WithLabelValues(string(entry.Type)).Observe(amount)
	}

	return entry, nil
}

func (uc *EntryUseCase) createEntry(ctx context.Context, input CreateEntryInput) (*domain.Entry, error) {
	name := domain.NormalizeName(input.Name)
	if err := domain.ValidateCounterpartyName(name); err != nil {
		return nil, err
	}

	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if !input.Type.IsValid() {
		return nil, domain.ErrInvalidEntryType
	}

	now := time.Now().UTC()
	date := input.Date
	if date.IsZero() {
		date = now
	}

	entry := &domain.Entry{
		ID:          uc.idGen.Generate(),
		UserID:      input.UserID,
		Name:        name,
		Description: input.Description,
		Amount:      input.Amount,
		Type:        input.Type,
		Date:        date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := uc.entryRepo.Create(ctx, entry); err != nil {
		return nil, err
	}

	uc.invalidateOverview(ctx, input.UserID)
	return entry, nil
}

// UpdateEntryInput represents a partial update. Nil fields keep their value.
type UpdateEntryInput struct {
	ID          string
	UserID      string
	Name        *string
	Description *string
	Amount      *decimal.Decimal
	Type        *domain.EntryType
	Date        *time.Time
}

// UpdateEntry merges a patch into an existing entry inside a transaction.
// The entry must belong to the calling user; foreign entries are reported as
// not found rather than forbidden, so IDs cannot be enumerated.
func (uc *EntryUseCase) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error) {
	entry, err := uc.updateEntry(ctx, input)
	if err != nil {
		uc.countError(err)
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesUpdated.Inc()
	}

	return entry, nil
}

func (uc *EntryUseCase) updateEntry(ctx context.Context, input UpdateEntryInput) (*domain.Entry, error) {
	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, input.ID)
	if err != nil {
		return nil, err
	}

	if entry.UserID != input.UserID {
		return nil, domain.ErrEntryNotFound
	}

	if input.Name != nil {
		name := domain.NormalizeName(*input.Name)
		if err := domain.ValidateCounterpartyName(name); err != nil {
			return nil, err
		}
		entry.Name = name
	}

	if input.Description != nil {
		entry.Description = *input.Description
	}

	if input.Amount != nil {
		if err := domain.ValidateAmount(*input.Amount); err != nil {
			return nil, err
		}
		entry.Amount = *input.Amount
	}

	if input.Type != nil {
		if !input.Type.IsValid() {
			return nil, domain.ErrInvalidEntryType
		}
		entry.Type = *input.Type
	}

	if input.Date != nil {
		entry.Date = *input.Date
	}

	entry.UpdatedAt = time.Now().UTC()

	if err := uc.entryRepo.Update(ctx, tx, entry); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.invalidateOverview(ctx, input.UserID)
	return entry, nil
}

// DeleteEntry removes an entry owned by the calling user.
func (uc *EntryUseCase) DeleteEntry(ctx context.Context, id, userID string) error {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		uc.countError(err)
		return err
	}

	if entry.UserID != userID {
		uc.countError(domain.ErrEntryNotFound)
		return domain.ErrEntryNotFound
	}

	if err := uc.entryRepo.Delete(ctx, id); err != nil {
		uc.countError(err)
		return err
	}

	if uc.metrics != nil {
		uc.metrics.EntriesDeleted.Inc()
	}

	uc.invalidateOverview(ctx, userID)
	return nil
}

// ListEntries returns all entries owned by a user.
func (uc *EntryUseCase) ListEntries(ctx context.Context, userID string) ([]*domain.Entry, error) {
	return uc.entryRepo.ListByUser(ctx, userID)
}

func (uc *EntryUseCase) countError(err error) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.EntryErrors.WithLabelValues(entryErrorLabel(err)).Inc()
}

func entryErrorLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrEntryNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInvalidEntryType):
		return "invalid_type"
	case errors.Is(err, domain.ErrEmptyName):
		return "invalid_name"
	default:
		return "storage"
	}
}

func (uc *EntryUseCase) invalidateOverview(ctx context.Context, userID string) {
	if uc.cache == nil {
		return
	}
	// Best effort: a stale cache entry expires on its own TTL anyway.
	_ = uc.cache.Delete(ctx, overviewCacheKey(userID))
}
