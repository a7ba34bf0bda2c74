package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService signs and verifies bearer tokens. A verified signature is
// only half of authentication: the token must also still be present in
// the owner's server-side session set, which is checked by the
// authorization middleware, not here.
type JWTService interface {
	// GenerateToken creates a signed token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken checks the token's signature and time claims and
	// returns its claims. Returns ErrInvalidToken or ErrExpiredToken.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims carries the verified content of a token.
type Claims struct {
	// UserID is the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered claims.
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
