package postgres

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dlourenco/taskman/internal/platform/logger"
	"github.com/dlourenco/taskman/internal/store"
)

// SessionStore implements store.SessionStore on PostgreSQL. The table's
// bigserial primary key gives tokens a stable issuance order without
// relying on timestamps, which can collide within a transaction.
type SessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a SessionStore.
func NewSessionStore(db store.DBTX, logger *slog.Logger) *SessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// WithTx implements store.SessionStore.
func (s *SessionStore) WithTx(tx *sql.Tx) store.SessionStore {
	return &SessionStore{db: tx, logger: s.logger}
}

// Append implements store.SessionStore.
func (s *SessionStore) Append(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `INSERT INTO sessions (user_id, token, created_at) VALUES ($1, $2, $3)`
	_, err := s.db.ExecContext(ctx, query, userID, token, time.Now().UTC())
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrUserNotFound
		}
		log.Error("failed to append session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Debug("session appended", slog.String("user_id", userID.String()))
	return nil
}

// Exists implements store.SessionStore.
func (s *SessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT EXISTS (SELECT 1 FROM sessions WHERE user_id = $1 AND token = $2)`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, token).Scan(&exists); err != nil {
		log.Error("failed to check session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return false, err
	}
	return exists, nil
}

// List implements store.SessionStore.
func (s *SessionStore) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT token FROM sessions WHERE user_id = $1 ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	tokens := []string{}
	for rows.Next() {
		var token string
		if err := rows.Scan(&token); err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tokens, nil
}

// Remove implements store.SessionStore.
func (s *SessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		log.Error("failed to remove session",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrSessionNotFound
	}

	log.Debug("session removed", slog.String("user_id", userID.String()))
	return nil
}

// RemoveAll implements store.SessionStore. Removing zero sessions is
// not an error; logout-all is idempotent.
func (s *SessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1`, userID)
	if err != nil {
		log.Error("failed to remove all sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Debug("all sessions removed", slog.String("user_id", userID.String()))
	return nil
}
