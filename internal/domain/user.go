package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Password policy constants. The upper bound is bcrypt's input limit.
const (
	MinPasswordLength = 7
	MaxPasswordLength = 72
)

// User validation errors.
var (
	ErrEmptyUserID        = errors.New("user ID cannot be empty")
	ErrEmptyName          = errors.New("name cannot be empty")
	ErrEmptyEmail         = errors.New("email cannot be empty")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrNegativeAge        = errors.New("age must be a non-negative number")
	ErrPasswordTooShort   = errors.New("password must be at least 7 characters long")
	ErrPasswordTooLong    = errors.New("password must be at most 72 characters long")
	ErrPasswordForbidden  = errors.New(`password cannot contain "password"`)
	ErrEmptyPassword      = errors.New("password cannot be empty")
	ErrMissingCredentials = errors.New("user has neither password nor password hash")
)

// User is a registered account. Password holds the transient plaintext
// during signup or profile updates and must be hashed before the user is
// persisted; HashedPassword is the only credential ever stored. Avatar is
// the normalized profile image blob, never serialized to JSON.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"`
	HashedPassword string    `json:"-"`
	Avatar         []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a User with a fresh ID and timestamps. The plaintext
// password is carried on the struct for the caller to hash before storage.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      name,
		Email:     email,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's fields. A user must carry either a plaintext
// password pending hashing or an already-stored hash.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return ErrEmptyUserID
	}
	if strings.TrimSpace(u.Name) == "" {
		return ErrEmptyName
	}
	if u.Email == "" {
		return ErrEmptyEmail
	}
	if !validEmail(u.Email) {
		return ErrInvalidEmail
	}
	if u.Age < 0 {
		return ErrNegativeAge
	}

	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return ErrMissingCredentials
	}
	return nil
}

// ValidatePassword enforces the password policy: 7 to 72 characters and
// must not contain the literal word "password" in any casing.
func ValidatePassword(password string) error {
	switch {
	case password == "":
		return ErrEmptyPassword
	case len(password) < MinPasswordLength:
		return ErrPasswordTooShort
	case len(password) > MaxPasswordLength:
		return ErrPasswordTooLong
	case strings.Contains(strings.ToLower(password), "password"):
		return ErrPasswordForbidden
	}
	return nil
}

// validEmail performs a structural check: one "@" with a non-empty local
// part and a domain containing an interior dot. Uniqueness is enforced by
// the store, not here.
func validEmail(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	if strings.Contains(email[at+1:], "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
