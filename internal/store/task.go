package store

import (
	"context"
	"database/sql"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/google/uuid"
)

// Task sort keys recognized by ListForOwner. Anything else is ignored.
const (
	SortByDescription = "description"
	SortByCompleted   = "completed"
	SortByCreatedAt   = "createdAt"
	SortByUpdatedAt   = "updatedAt"
)

// TaskFilter narrows and orders a task listing. The zero value means
// "everything, insertion order, no paging".
type TaskFilter struct {
	// Completed filters by completion state when non-nil.
	Completed *bool

	// SortBy is one of the SortBy* keys. Unrecognized keys are a no-op.
	SortBy string

	// Descending reverses the sort order.
	Descending bool

	// Limit caps the number of results when > 0.
	Limit int

	// Skip drops that many results from the front when > 0.
	Skip int
}

// TaskStore defines the interface for task persistence. Every read and
// mutation is parameterized by the owner so that foreign tasks are
// indistinguishable from missing ones — a single query decides both
// existence and ownership.
type TaskStore interface {
	// Create saves a new task.
	Create(ctx context.Context, task *domain.Task) error

	// GetForOwner retrieves a task by (id, ownerID).
	// Returns ErrTaskNotFound when the task is absent or owned by
	// someone else.
	GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error)

	// ListForOwner returns the owner's tasks narrowed by the filter.
	// Returns an empty slice, never nil, when nothing matches.
	ListForOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]*domain.Task, error)

	// Update persists changes to a task, keyed by (task.ID, task.OwnerID).
	// Returns ErrTaskNotFound when the task is absent or foreign-owned.
	Update(ctx context.Context, task *domain.Task) error

	// DeleteForOwner removes a task by (id, ownerID).
	// Returns ErrTaskNotFound when the task is absent or foreign-owned.
	DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error

	// DeleteAllForOwner removes every task owned by the user. Used by the
	// account-deletion cascade; deleting zero tasks is not an error.
	DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
