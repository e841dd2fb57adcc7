package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/borrowbook/internal/domain"
	"github.com/iho/borrowbook/internal/usecase"
)

// EntryRepository implements usecase.EntryRepository.
type EntryRepository struct {
	pool    *pgxpool.Pool
	retrier *Retrier
}

// NewEntryRepository creates a new EntryRepository.
func NewEntryRepository(pool *pgxpool.Pool) *EntryRepository {
	return &EntryRepository{
		pool:    pool,
		retrier: NewRetrier(),
	}
}

const entryColumns = `id, user_id, name, description, amount, type, date, created_at, updated_at`

// Create inserts a new entry.
func (r *EntryRepository) Create(ctx context.Context, entry *domain.Entry) error {
	query := `
		INSERT INTO entries (id, user_id, name, description, amount, type, date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, query,
			entry.ID,
			entry.UserID,
			entry.Name,
			entry.Description,
			entry.Amount,
			entry.Type,
			entry.Date,
			entry.CreatedAt,
			entry.UpdatedAt,
		)
		return err
	})
}

// GetByID retrieves an entry by ID.
func (r *EntryRepository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1`

	entry, err := scanEntry(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}

	return entry, err
}

// GetByIDForUpdate retrieves an entry by ID with a row lock, inside tx.
func (r *EntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Entry, error) {
	pgxTx := tx.(*Tx).PgxTx()

	query := `SELECT ` + entryColumns + ` FROM entries WHERE id = $1 FOR UPDATE`

	entry, err := scanEntry(pgxTx.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrEntryNotFound
	}

	return entry, err
}

// Update writes the merged entry inside tx.
func (r *EntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.Entry) error {
	pgxTx := tx.(*Tx).PgxTx()

	query := `
		UPDATE entries
		SET name = $2, description = $3, amount = $4, type = $5, date = $6, updated_at = $7
		WHERE id = $1
	`

	_, err := pgxTx.Exec(ctx, query,
		entry.ID,
		entry.Name,
		entry.Description,
		entry.Amount,
		entry.Type,
		entry.Date,
		entry.UpdatedAt,
	)

	return err
}

// Delete removes an entry.
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	return r.retrier.Retry(ctx, func() error {
		_, err := r.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
		return err
	})
}

// ListByUser retrieves all entries owned by a user, oldest first by creation
// so the aggregator's stable tie-break matches insertion order.
func (r *EntryRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

// ListByUserAndName retrieves a user's entries for one counterparty.
func (r *EntryRepository) ListByUserAndName(ctx context.Context, userID, name string) ([]*domain.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE user_id = $1 AND name = $2 ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query, userID, name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectEntries(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*domain.Entry, error) {
	var entry domain.Entry
	err := row.Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Name,
		&entry.Description,
		&entry.Amount,
		&entry.Type,
		&entry.Date,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func collectEntries(rows pgx.Rows) ([]*domain.Entry, error) {
	var entries []*domain.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
