package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/platform/logger"
	"github.com/dlourenco/taskman/internal/store"
)

// TaskService manages tasks scoped to their authenticated owner. The
// owner always comes from the session, never from client input.
type TaskService interface {
	// Create makes a task for the owner. completed may be nil to take
	// the default (false).
	Create(ctx context.Context, ownerID uuid.UUID, description string, completed *bool) (*domain.Task, error)

	// List returns the owner's tasks narrowed by the filter.
	List(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)

	// Get retrieves one task. A task owned by someone else is reported
	// as store.ErrTaskNotFound, same as a missing one.
	Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)

	// Update applies a partial update under the same ownership policy.
	Update(ctx context.Context, ownerID, taskID uuid.UUID, patch *TaskPatch) (*domain.Task, error)

	// Delete removes a task under the same ownership policy.
	Delete(ctx context.Context, ownerID, taskID uuid.UUID) error
}

type taskService struct {
	tasks  store.TaskStore
	logger *slog.Logger
}

var _ TaskService = (*taskService)(nil)

// NewTaskService wires a TaskService.
func NewTaskService(tasks store.TaskStore, log *slog.Logger) TaskService {
	if log == nil {
		log = slog.Default()
	}
	return &taskService{
		tasks:  tasks,
		logger: log.With(slog.String("component", "task_service")),
	}
}

// Create implements TaskService.
func (s *taskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed *bool,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	done := false
	if completed != nil {
		done = *completed
	}

	task, err := domain.NewTask(ownerID, description, done)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return task, nil
}

// List implements TaskService.
func (s *taskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	return s.tasks.ListForOwner(ctx, ownerID, filter)
}

// Get implements TaskService.
func (s *taskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetForOwner(ctx, taskID, ownerID)
}

// Update implements TaskService. The ownership check and the existence
// check are the same single query inside the store.
func (s *taskService) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch *TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := s.tasks.GetForOwner(ctx, taskID, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Info("task updated", slog.String("task_id", task.ID.String()))
	return task, nil
}

// Delete implements TaskService.
func (s *taskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.tasks.DeleteForOwner(ctx, taskID, ownerID)
}
