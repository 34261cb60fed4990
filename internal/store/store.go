package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/ReplicantCoder9000/projectSoulSync/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., gormstore).
type Store interface {
	Users() Users
	Entries() Entries
	Ping(ctx context.Context) error
	Close() error
}

// Users persists credential records. Create and Update return
// model.ErrConflict when a unique index on username or email is violated;
// the database constraint, not the caller's pre-check, is authoritative.
type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	// FindByUsernameOrEmail returns the first user matching either field,
	// or model.ErrNotFound. Used as a fast-path existence check so conflict
	// responses can name the colliding field.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*model.User, error)
	Update(ctx context.Context, u *model.User) (*model.User, error)
	TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
}

// Entries persists journal entries.
type Entries interface {
	Create(ctx context.Context, e *model.Entry) (*model.Entry, error)
	// GetByID loads an entry regardless of owner. Callers must perform
	// their own ownership comparison; the ownership middleware relies on
	// this to distinguish 403 from 404 on mutations.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Entry, error)
	// GetOwned loads an entry only when it belongs to userID, collapsing
	// "missing" and "owned by someone else" into model.ErrNotFound.
	GetOwned(ctx context.Context, userID, id uuid.UUID) (*model.Entry, error)
	// List returns one page ordered by date descending, id ascending on
	// equal dates, plus the total row count for the filter.
	List(ctx context.Context, req model.ListEntriesRequest) ([]*model.Entry, int64, error)
	Update(ctx context.Context, e *model.Entry) (*model.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MoodCounts(ctx context.Context, userID uuid.UUID, start, end *time.Time) ([]model.MoodCount, error)
}
