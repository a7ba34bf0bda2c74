package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dlourenco/taskman/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestService(t *testing.T, lifetimeMinutes int) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(config.AuthConfig{
		JWTSecret:            testSecret,
		TokenLifetimeMinutes: lifetimeMinutes,
	})
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short"})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)

	// No lifetime configured means no expiry claim.
	assert.True(t, claims.ExpiresAt.IsZero())
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	userID := uuid.New()

	first, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	// Each issue carries a fresh jti, so concurrent logins get
	// distinguishable tokens even within the same second.
	assert.NotEqual(t, first, second)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)

	_, err := svc.ValidateToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 0)
	other := newTestService(t, 0)
	other.signingKey = []byte("ffffffffffffffffffffffffffffffff")

	token, err := other.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, 10)
	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Move the clock past lifetime plus skew.
	svc.timeFunc = func() time.Time { return time.Now().Add(15 * time.Minute) }

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestBcryptHasherRoundTrip(t *testing.T) {
	t.Parallel()

	h := NewBcryptHasher()
	hashed, err := h.Hash("1234567")
	require.NoError(t, err)

	assert.NotEqual(t, "1234567", hashed)
	assert.NoError(t, h.Compare(hashed, "1234567"))
	assert.Error(t, h.Compare(hashed, "7654321"))
}
