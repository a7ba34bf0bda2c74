package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/notification"
	"github.com/dlourenco/taskman/internal/platform/logger"
	"github.com/dlourenco/taskman/internal/service/auth"
	"github.com/dlourenco/taskman/internal/store"
)

// notifyTimeout bounds the detached email goroutine so a stuck mail API
// cannot leak goroutines forever.
const notifyTimeout = 30 * time.Second

// UserService manages accounts and their sessions.
type UserService interface {
	// SignUp registers a user and logs them in. Returns the created user
	// and their first bearer token.
	SignUp(ctx context.Context, name, email, password string, age int) (*domain.User, string, error)

	// LogIn authenticates by email and password, issuing a new token that
	// is appended after any existing sessions.
	// Returns auth.ErrInvalidCredentials on unknown email or wrong
	// password, without distinguishing the two.
	LogIn(ctx context.Context, email, password string) (*domain.User, string, error)

	// LogOut revokes exactly the presented token.
	LogOut(ctx context.Context, user *domain.User, token string) error

	// LogOutAll revokes every session of the user.
	LogOutAll(ctx context.Context, user *domain.User) error

	// UpdateProfile applies a partial update. The password is re-hashed
	// when present.
	UpdateProfile(ctx context.Context, user *domain.User, patch *UserPatch) (*domain.User, error)

	// DeleteAccount removes the user, all their tasks, and all their
	// sessions in one transaction.
	DeleteAccount(ctx context.Context, user *domain.User) error

	// SetAvatar normalizes the uploaded image and stores it on the user,
	// replacing any prior avatar.
	SetAvatar(ctx context.Context, user *domain.User, image []byte) error

	// RemoveAvatar clears the user's avatar.
	RemoveAvatar(ctx context.Context, user *domain.User) error

	// GetAvatar returns the stored avatar bytes for any user.
	// Returns store.ErrAvatarNotFound when the user is missing or has
	// no avatar.
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type userService struct {
	txRunner   store.TxRunner
	users      store.UserStore
	sessions   store.SessionStore
	tasks      store.TaskStore
	jwtService auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	notifier   notification.Notifier
	logger     *slog.Logger
}

var _ UserService = (*userService)(nil)

// NewUserService wires a UserService. The TxRunner is used only for the
// account-deletion cascade; all other access goes through the store
// interfaces.
func NewUserService(
	txRunner store.TxRunner,
	users store.UserStore,
	sessions store.SessionStore,
	tasks store.TaskStore,
	jwtService auth.JWTService,
	hasher auth.PasswordHasher,
	verifier auth.PasswordVerifier,
	notifier notification.Notifier,
	log *slog.Logger,
) UserService {
	if log == nil {
		log = slog.Default()
	}
	return &userService{
		txRunner:   txRunner,
		users:      users,
		sessions:   sessions,
		tasks:      tasks,
		jwtService: jwtService,
		hasher:     hasher,
		verifier:   verifier,
		notifier:   notifier,
		logger:     log.With(slog.String("component", "user_service")),
	}
}

// SignUp implements UserService.
func (s *userService) SignUp(
	ctx context.Context,
	name, email, password string,
	age int,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := domain.NewUser(name, email, password)
	if err != nil {
		return nil, "", err
	}
	user.Age = age
	if err := user.Validate(); err != nil {
		return nil, "", err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.SendWelcome(ctx, user.Email, user.Name)
	}, "welcome", user.ID)

	log.Info("user signed up", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// LogIn implements UserService.
func (s *userService) LogIn(
	ctx context.Context,
	email, password string,
) (*domain.User, string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, "", auth.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, "", auth.ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info("user logged in", slog.String("user_id", user.ID.String()))
	return user, token, nil
}

// issueToken signs a new token and appends it to the user's session set.
// The two steps together are what make the token usable: a signed token
// missing from the set is treated as revoked.
func (s *userService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.jwtService.GenerateToken(ctx, userID)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Append(ctx, userID, token); err != nil {
		return "", err
	}
	return token, nil
}

// LogOut implements UserService.
func (s *userService) LogOut(ctx context.Context, user *domain.User, token string) error {
	return s.sessions.Remove(ctx, user.ID, token)
}

// LogOutAll implements UserService.
func (s *userService) LogOutAll(ctx context.Context, user *domain.User) error {
	return s.sessions.RemoveAll(ctx, user.ID)
}

// UpdateProfile implements UserService.
func (s *userService) UpdateProfile(
	ctx context.Context,
	user *domain.User,
	patch *UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	updated := *user
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Age != nil {
		updated.Age = *patch.Age
	}
	if patch.Password != nil {
		if err := domain.ValidatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hashed, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		updated.HashedPassword = hashed
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	if err := s.users.Update(ctx, &updated); err != nil {
		return nil, err
	}

	log.Info("profile updated", slog.String("user_id", updated.ID.String()))
	return &updated, nil
}

// DeleteAccount implements UserService. Tasks, sessions, and the user
// row go in one transaction so the cascade cannot half-apply.
func (s *userService) DeleteAccount(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.txRunner.RunInTransaction(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.tasks.WithTx(tx).DeleteAllForOwner(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete tasks: %w", err)
		}
		if err := s.sessions.WithTx(tx).RemoveAll(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		if err := s.users.WithTx(tx).Delete(ctx, user.ID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		log.Error("account deletion failed",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	s.notifyAsync(func(ctx context.Context) error {
		return s.notifier.SendAccountClosed(ctx, user.Email, user.Name)
	}, "account_closed", user.ID)

	log.Info("account deleted", slog.String("user_id", user.ID.String()))
	return nil
}

// SetAvatar implements UserService.
func (s *userService) SetAvatar(ctx context.Context, user *domain.User, image []byte) error {
	normalized, err := normalizeAvatar(image)
	if err != nil {
		return err
	}

	updated := *user
	updated.Avatar = normalized
	if err := s.users.Update(ctx, &updated); err != nil {
		return err
	}
	user.Avatar = normalized
	return nil
}

// RemoveAvatar implements UserService.
func (s *userService) RemoveAvatar(ctx context.Context, user *domain.User) error {
	updated := *user
	updated.Avatar = nil
	if err := s.users.Update(ctx, &updated); err != nil {
		return err
	}
	user.Avatar = nil
	return nil
}

// GetAvatar implements UserService.
func (s *userService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, store.ErrAvatarNotFound
		}
		return nil, err
	}
	if len(user.Avatar) == 0 {
		return nil, store.ErrAvatarNotFound
	}
	return user.Avatar, nil
}

// notifyAsync dispatches an email without blocking the request. The
// goroutine gets its own context; the caller's may already be done by
// the time the send runs. Failures are logged and dropped.
func (s *userService) notifyAsync(send func(context.Context) error, kind string, userID uuid.UUID) {
	log := s.logger
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := send(ctx); err != nil {
			log.Warn("notification send failed",
				slog.String("kind", kind),
				slog.String("user_id", userID.String()),
				slog.String("error", err.Error()))
		}
	}()
}
