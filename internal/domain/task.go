package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task validation errors.
var (
	ErrTaskIDEmpty          = errors.New("task ID cannot be empty")
	ErrTaskOwnerEmpty       = errors.New("task owner cannot be empty")
	ErrTaskDescriptionEmpty = errors.New("task description cannot be empty")
)

// Task is a unit of work owned by exactly one user. OwnerID is fixed at
// creation; a task is only ever visible or mutable through its owner's
// authenticated session.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewTask creates a Task for the given owner. Completed defaults to false
// unless the caller supplies a value.
func NewTask(ownerID uuid.UUID, description string, completed bool) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks that the task has an ID, an owner, and a description.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrTaskIDEmpty
	}
	if t.OwnerID == uuid.Nil {
		return ErrTaskOwnerEmpty
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrTaskDescriptionEmpty
	}
	return nil
}
