package service

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/store"
)

// In-memory store doubles. WithTx returns the receiver: the fake
// txRunner below calls the function with a nil transaction, so the
// cascade runs against the same maps.

type fakeTxRunner struct {
	failWith error
}

func (r *fakeTxRunner) RunInTransaction(ctx context.Context, fn store.TxFn) error {
	if r.failWith != nil {
		return r.failWith
	}
	return fn(ctx, nil)
}

type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, u := range m.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return store.ErrEmailExists
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *mockUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[id]; !ok {
		return store.ErrUserNotFound
	}
	delete(m.users, id)
	return nil
}

type mockSessionStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

func newMockSessionStore() *mockSessionStore {
	return &mockSessionStore{tokens: make(map[uuid.UUID][]string)}
}

func (m *mockSessionStore) WithTx(tx *sql.Tx) store.SessionStore { return m }

func (m *mockSessionStore) Append(ctx context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[userID] = append(m.tokens[userID], token)
	return nil
}

func (m *mockSessionStore) Exists(ctx context.Context, userID uuid.UUID, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tokens[userID] {
		if t == token {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSessionStore) List(ctx context.Context, userID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.tokens[userID]))
	copy(out, m.tokens[userID])
	return out, nil
}

func (m *mockSessionStore) Remove(ctx context.Context, userID uuid.UUID, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	list := m.tokens[userID]
	for i, t := range list {
		if t == token {
			m.tokens[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return store.ErrSessionNotFound
}

func (m *mockSessionStore) RemoveAll(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, userID)
	return nil
}

type mockTaskStore struct {
	mu    sync.Mutex
	seq   int
	order map[uuid.UUID]int // insertion order for stable default listing
	tasks map[uuid.UUID]*domain.Task
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{
		order: make(map[uuid.UUID]int),
		tasks: make(map[uuid.UUID]*domain.Task),
	}
}

func (m *mockTaskStore) WithTx(tx *sql.Tx) store.TaskStore { return m }

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *task
	m.seq++
	m.order[task.ID] = m.seq
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return nil, store.ErrTaskNotFound
	}
	cp := *t
	return &cp, nil
}

func (m *mockTaskStore) ListForOwner(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []*domain.Task{}
	for _, t := range m.tasks {
		if t.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && t.Completed != *filter.Completed {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if filter.Descending {
			a, b = b, a
		}
		switch filter.SortBy {
		case store.SortByDescription:
			if a.Description != b.Description {
				return a.Description < b.Description
			}
		case store.SortByCompleted:
			if a.Completed != b.Completed {
				return !a.Completed
			}
		case store.SortByCreatedAt:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
		case store.SortByUpdatedAt:
			if !a.UpdatedAt.Equal(b.UpdatedAt) {
				return a.UpdatedAt.Before(b.UpdatedAt)
			}
		}
		return m.order[a.ID] < m.order[b.ID]
	})

	if filter.Skip > 0 {
		if filter.Skip >= len(out) {
			return []*domain.Task{}, nil
		}
		out = out[filter.Skip:]
	}
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (m *mockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.tasks[task.ID]
	if !ok || existing.OwnerID != task.OwnerID {
		return store.ErrTaskNotFound
	}
	cp := *task
	m.tasks[task.ID] = &cp
	return nil
}

func (m *mockTaskStore) DeleteForOwner(ctx context.Context, id, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tasks[id]
	if !ok || t.OwnerID != ownerID {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	delete(m.order, id)
	return nil
}

func (m *mockTaskStore) DeleteAllForOwner(ctx context.Context, ownerID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, t := range m.tasks {
		if t.OwnerID == ownerID {
			delete(m.tasks, id)
			delete(m.order, id)
		}
	}
	return nil
}

// recordingNotifier captures notification calls for assertions.
type recordingNotifier struct {
	mu       sync.Mutex
	welcomes []string
	closed   []string
	done     chan struct{}
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{done: make(chan struct{}, 8)}
}

func (n *recordingNotifier) SendWelcome(ctx context.Context, email, name string) error {
	n.mu.Lock()
	n.welcomes = append(n.welcomes, email)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}

func (n *recordingNotifier) SendAccountClosed(ctx context.Context, email, name string) error {
	n.mu.Lock()
	n.closed = append(n.closed, email)
	n.mu.Unlock()
	n.done <- struct{}{}
	return nil
}
