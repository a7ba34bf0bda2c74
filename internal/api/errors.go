package api

import (
	"errors"
	"net/http"

	"github.com/dlourenco/taskman/internal/api/shared"
	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/service/auth"
	"github.com/dlourenco/taskman/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so
// handlers never leak internal error types to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Bad credentials read as a plain bad request, matching signup and
	// login validation failures.
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusBadRequest

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Foreign-owned resources surface as not found, same as missing
	// ones, so the not-found family covers the ownership policy too.
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		isDomainValidationError(err):
		return http.StatusBadRequest

	default:
		return http.StatusInternalServerError
	}
}

// domainValidationErrors are the entity-level sentinels that all read as
// client mistakes.
var domainValidationErrors = []error{
	domain.ErrEmptyName,
	domain.ErrEmptyEmail,
	domain.ErrInvalidEmail,
	domain.ErrNegativeAge,
	domain.ErrEmptyPassword,
	domain.ErrPasswordTooShort,
	domain.ErrPasswordTooLong,
	domain.ErrPasswordForbidden,
	domain.ErrTaskDescriptionEmpty,
}

func isDomainValidationError(err error) bool {
	for _, sentinel := range domainValidationErrors {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// GetSafeErrorMessage returns a sanitized message for the error.
// Validation errors carry their own client-safe text; everything else
// maps to a fixed phrase.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Error()
	}

	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "Unable to login"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, domain.ErrUnauthorized):
		return "Please authenticate"

	case errors.Is(err, store.ErrAvatarNotFound):
		return "Avatar not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrSessionNotFound):
		return "Session not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already in use"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid identifier"

	// Entity sentinels carry messages written for clients.
	case isDomainValidationError(err):
		return err.Error()

	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the standard error response for err. When
// fallbackMessage is non-empty it overrides the mapped safe message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallbackMessage string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if fallbackMessage != "" && message == "An unexpected error occurred" {
		message = fallbackMessage
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
