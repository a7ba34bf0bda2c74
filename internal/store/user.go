package store

import (
	"context"
	"database/sql"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/google/uuid"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	// Create saves a new user. The user must already carry a hashed
	// password; plaintext never reaches the store.
	// Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// Update persists changes to an existing user, including avatar bytes.
	// Returns ErrUserNotFound if the user does not exist and
	// ErrEmailExists when changing to an email that is already taken.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user by ID. Sessions referencing the user are
	// removed with it. Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a UserStore bound to the given transaction.
	WithTx(tx *sql.Tx) UserStore
}
