package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

// SessionStore tracks the set of live bearer tokens per user. A validly
// signed token is only accepted while it is present here, which is what
// makes logout possible at all. Append order is preserved: tokens issued
// later always sort after earlier ones.
type SessionStore interface {
	// Append adds a token to the end of the user's session set.
	Append(ctx context.Context, userID uuid.UUID, token string) error

	// Exists reports whether the token is in the user's session set.
	Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error)

	// List returns the user's tokens in issuance order.
	List(ctx context.Context, userID uuid.UUID) ([]string, error)

	// Remove deletes exactly the given token from the user's set.
	// Returns ErrSessionNotFound if the token is not present.
	Remove(ctx context.Context, userID uuid.UUID, token string) error

	// RemoveAll empties the user's session set.
	RemoveAll(ctx context.Context, userID uuid.UUID) error

	// WithTx returns a SessionStore bound to the given transaction.
	WithTx(tx *sql.Tx) SessionStore
}
