package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/store"
)

func newTaskServiceFixture() (TaskService, *mockTaskStore) {
	tasks := newMockTaskStore()
	return NewTaskService(tasks, nil), tasks
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func seedTasks(t *testing.T, svc TaskService, ownerID uuid.UUID, descs ...string) []*domain.Task {
	t.Helper()
	out := make([]*domain.Task, 0, len(descs))
	for _, d := range descs {
		task, err := svc.Create(context.Background(), ownerID, d, nil)
		require.NoError(t, err)
		out = append(out, task)
	}
	return out
}

func TestTaskCreateDefaultsToIncomplete(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ownerID := uuid.New()

	task, err := svc.Create(context.Background(), ownerID, "buy milk", nil)
	require.NoError(t, err)
	assert.False(t, task.Completed)
	assert.Equal(t, ownerID, task.OwnerID)

	done, err := svc.Create(context.Background(), ownerID, "done already", boolPtr(true))
	require.NoError(t, err)
	assert.True(t, done.Completed)
}

func TestTaskCreateRejectsEmptyDescription(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	_, err := svc.Create(context.Background(), uuid.New(), "", nil)
	assert.ErrorIs(t, err, domain.ErrTaskDescriptionEmpty)
}

func TestTaskOwnershipMasking(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	task, err := svc.Create(ctx, owner, "private", nil)
	require.NoError(t, err)

	// Another user's reads, updates, and deletes all see a 404-shaped
	// error, never a permission error.
	_, err = svc.Get(ctx, stranger, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	_, err = svc.Update(ctx, stranger, task.ID, &TaskPatch{Completed: boolPtr(true)})
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	err = svc.Delete(ctx, stranger, task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)

	// The task is untouched for its real owner.
	got, err := svc.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)
}

func TestTaskUpdate(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ctx := context.Background()
	owner := uuid.New()

	task, err := svc.Create(ctx, owner, "draft", nil)
	require.NoError(t, err)

	updated, err := svc.Update(ctx, owner, task.ID, &TaskPatch{
		Description: strPtr("final"),
		Completed:   boolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "final", updated.Description)
	assert.True(t, updated.Completed)

	// An empty description fails validation and persists nothing.
	_, err = svc.Update(ctx, owner, task.ID, &TaskPatch{Description: strPtr("")})
	assert.ErrorIs(t, err, domain.ErrTaskDescriptionEmpty)

	got, err := svc.Get(ctx, owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Description)
}

func TestTaskListCompletedFilter(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ctx := context.Background()
	owner := uuid.New()

	seedTasks(t, svc, owner, "a", "b", "c")
	done, err := svc.Create(ctx, owner, "d", boolPtr(true))
	require.NoError(t, err)

	completed, err := svc.List(ctx, owner, store.TaskFilter{Completed: boolPtr(true)})
	require.NoError(t, err)
	require.Len(t, completed, 1)
	assert.Equal(t, done.ID, completed[0].ID)

	pending, err := svc.List(ctx, owner, store.TaskFilter{Completed: boolPtr(false)})
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	all, err := svc.List(ctx, owner, store.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestTaskListScopedToOwner(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ctx := context.Background()
	alice := uuid.New()
	bob := uuid.New()

	seedTasks(t, svc, alice, "a1", "a2")
	seedTasks(t, svc, bob, "b1")

	tasks, err := svc.List(ctx, alice, store.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	for _, task := range tasks {
		assert.Equal(t, alice, task.OwnerID)
	}
}

func TestTaskListSort(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ctx := context.Background()
	owner := uuid.New()

	seedTasks(t, svc, owner, "banana", "apple", "cherry")

	asc, err := svc.List(ctx, owner, store.TaskFilter{SortBy: store.SortByDescription})
	require.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, descriptions(asc))

	desc, err := svc.List(ctx, owner, store.TaskFilter{
		SortBy:     store.SortByDescription,
		Descending: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"cherry", "banana", "apple"}, descriptions(desc))
}

func TestTaskListPagination(t *testing.T) {
	t.Parallel()

	svc, _ := newTaskServiceFixture()
	ctx := context.Background()
	owner := uuid.New()

	seedTasks(t, svc, owner, "t1", "t2", "t3", "t4", "t5")

	page, err := svc.List(ctx, owner, store.TaskFilter{Limit: 2, Skip: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"t3", "t4"}, descriptions(page))

	// Skip past the end yields an empty page, not an error.
	empty, err := svc.List(ctx, owner, store.TaskFilter{Skip: 10})
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func descriptions(tasks []*domain.Task) []string {
	out := make([]string, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, task.Description)
	}
	return out
}
