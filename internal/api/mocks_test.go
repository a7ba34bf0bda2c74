package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/service"
	"github.com/dlourenco/taskman/internal/store"
)

// Function-field stubs for the service interfaces. Each test sets only
// the functions its handler path calls.

type stubUserService struct {
	signUp        func(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)
	logIn         func(ctx context.Context, email, password string) (*domain.User, string, error)
	logOut        func(ctx context.Context, user *domain.User, token string) error
	logOutAll     func(ctx context.Context, user *domain.User) error
	updateProfile func(ctx context.Context, user *domain.User, patch *service.UserPatch) (*domain.User, error)
	deleteAccount func(ctx context.Context, user *domain.User) error
	setAvatar     func(ctx context.Context, user *domain.User, image []byte) error
	removeAvatar  func(ctx context.Context, user *domain.User) error
	getAvatar     func(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

var _ service.UserService = (*stubUserService)(nil)

func (s *stubUserService) SignUp(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	return s.signUp(ctx, name, email, password, age)
}

func (s *stubUserService) LogIn(ctx context.Context, email, password string) (*domain.User, string, error) {
	return s.logIn(ctx, email, password)
}

func (s *stubUserService) LogOut(ctx context.Context, user *domain.User, token string) error {
	return s.logOut(ctx, user, token)
}

func (s *stubUserService) LogOutAll(ctx context.Context, user *domain.User) error {
	return s.logOutAll(ctx, user)
}

func (s *stubUserService) UpdateProfile(
	ctx context.Context,
	user *domain.User,
	patch *service.UserPatch,
) (*domain.User, error) {
	return s.updateProfile(ctx, user, patch)
}

func (s *stubUserService) DeleteAccount(ctx context.Context, user *domain.User) error {
	return s.deleteAccount(ctx, user)
}

func (s *stubUserService) SetAvatar(ctx context.Context, user *domain.User, image []byte) error {
	return s.setAvatar(ctx, user, image)
}

func (s *stubUserService) RemoveAvatar(ctx context.Context, user *domain.User) error {
	return s.removeAvatar(ctx, user)
}

func (s *stubUserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	return s.getAvatar(ctx, userID)
}

type stubTaskService struct {
	create func(ctx context.Context, ownerID uuid.UUID, description string, completed *bool) (*domain.Task, error)
	list   func(ctx context.Context, ownerID uuid.UUID, filter store.TaskFilter) ([]*domain.Task, error)
	get    func(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error)
	update func(ctx context.Context, ownerID, taskID uuid.UUID, patch *service.TaskPatch) (*domain.Task, error)
	delete func(ctx context.Context, ownerID, taskID uuid.UUID) error
}

var _ service.TaskService = (*stubTaskService)(nil)

func (s *stubTaskService) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	description string,
	completed *bool,
) (*domain.Task, error) {
	return s.create(ctx, ownerID, description, completed)
}

func (s *stubTaskService) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter store.TaskFilter,
) ([]*domain.Task, error) {
	return s.list(ctx, ownerID, filter)
}

func (s *stubTaskService) Get(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	return s.get(ctx, ownerID, taskID)
}

func (s *stubTaskService) Update(
	ctx context.Context,
	ownerID, taskID uuid.UUID,
	patch *service.TaskPatch,
) (*domain.Task, error) {
	return s.update(ctx, ownerID, taskID, patch)
}

func (s *stubTaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	return s.delete(ctx, ownerID, taskID)
}

func testUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Name:           "David",
		Email:          "david@x.com",
		HashedPassword: "$2a$10$notarealhash",
	}
}
