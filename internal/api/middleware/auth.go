package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dlourenco/taskman/internal/api/shared"
	"github.com/dlourenco/taskman/internal/redact"
	"github.com/dlourenco/taskman/internal/service/auth"
	"github.com/dlourenco/taskman/internal/store"
)

// authFailedMessage is the single message for every authentication
// failure so callers cannot probe which step rejected them.
const authFailedMessage = "Please authenticate"

// AuthMiddleware authenticates requests by bearer token. A token is
// accepted only when its signature verifies AND it is still present in
// the owner's session set; logout removes it from the set, revoking it
// even though the signature stays valid.
type AuthMiddleware struct {
	jwtService auth.JWTService
	sessions   store.SessionStore
	users      store.UserStore
}

// NewAuthMiddleware creates an AuthMiddleware with the given dependencies.
func NewAuthMiddleware(
	jwtService auth.JWTService,
	sessions store.SessionStore,
	users store.UserStore,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		sessions:   sessions,
		users:      users,
	}
}

// Authenticate validates the Authorization header and loads the user
// into the request context. Every failure mode yields the same 401.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.reject(w, r, nil)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.reject(w, r, nil)
			return
		}
		token := parts[1]

		claims, err := m.jwtService.ValidateToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrExpiredToken) {
				m.reject(w, r, err)
				return
			}
			slog.Error("failed to validate token", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		// Signature is fine; the token must also still be live.
		live, err := m.sessions.Exists(r.Context(), claims.UserID, token)
		if err != nil {
			slog.Error("failed to check session", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}
		if !live {
			m.reject(w, r, nil)
			return
		}

		user, err := m.users.GetByID(r.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, store.ErrUserNotFound) {
				m.reject(w, r, err)
				return
			}
			slog.Error("failed to load user", "error", redact.Error(err))
			shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			return
		}

		ctx := shared.WithUser(r.Context(), user, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, authFailedMessage, err)
}
