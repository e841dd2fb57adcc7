package usecase

import (
	"context"
	"time"

	"github.com/iho/borrowbook/internal/domain"
)

// EntryRepository defines data access for entries.
type EntryRepository interface {
	Create(ctx context.Context, entry *domain.Entry) error
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.Entry, error)
	Update(ctx context.Context, tx Transaction, entry *domain.Entry) error
	Delete(ctx context.Context, id string) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Entry, error)
	ListByUserAndName(ctx context.Context, userID, name string) ([]*domain.Entry, error)
}

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	List(ctx context.Context, limit, offset int) ([]*domain.User, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations for derived ledger views.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// SessionStore persists refresh-token sessions with a TTL.
type SessionStore interface {
	Save(ctx context.Context, token string, session domain.Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (domain.Session, error)
	Delete(ctx context.Context, token string) error
}

// ReportRenderer turns aggregated ledger data into a binary document.
type ReportRenderer interface {
	Render(data *ReportData) ([]byte, error)
}
