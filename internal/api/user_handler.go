package api

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/dlourenco/taskman/internal/api/shared"
	"github.com/dlourenco/taskman/internal/platform/logger"
	"github.com/dlourenco/taskman/internal/service"
	"github.com/dlourenco/taskman/internal/store"
)

// maxAvatarRequestBytes caps the multipart body read. Slightly above
// the processing limit so an oversized image is rejected with a
// validation message instead of a truncated read.
const maxAvatarRequestBytes = 2 << 20

// UserHandler handles account and session endpoints.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a UserHandler with the given dependencies.
func NewUserHandler(userService service.UserService, log *slog.Logger) *UserHandler {
	if log == nil {
		log = slog.Default()
	}
	return &UserHandler{
		userService: userService,
		logger:      log.With(slog.String("component", "user_handler")),
	}
}

// SignUp handles POST /users.
func (h *UserHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, token, err := h.userService.SignUp(r.Context(), req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{
		User:  newUserResponse(user),
		Token: token,
	})
}

// LogIn handles POST /users/login.
func (h *UserHandler) LogIn(w http.ResponseWriter, r *http.Request) {
	var req LogInRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	user, token, err := h.userService.LogIn(r.Context(), req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Unable to login")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		User:  newUserResponse(user),
		Token: token,
	})
}

// LogOut handles POST /users/logout. It revokes only the token this
// request authenticated with; other devices stay logged in.
func (h *UserHandler) LogOut(w http.ResponseWriter, r *http.Request) {
	user, token, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userService.LogOut(r.Context(), user, token); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nil)
}

// LogOutAll handles POST /users/logoutAll.
func (h *UserHandler) LogOutAll(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userService.LogOutAll(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to log out")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, nil)
}

// GetProfile handles GET /users/me.
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// UpdateProfile handles PATCH /users/me. Unknown or immutable fields in
// the body reject the whole patch.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := service.ParseUserPatch(body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update profile")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(updated))
}

// DeleteAccount handles DELETE /users/me.
func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userService.DeleteAccount(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to delete account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// UploadAvatar handles POST /users/me/avatar. The image arrives as the
// multipart form field "avatar".
func (h *UserHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarRequestBytes)
	file, _, err := r.FormFile("avatar")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Please provide an avatar file")
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(file)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Failed to read avatar upload")
		return
	}

	if err := h.userService.SetAvatar(r.Context(), user, image); err != nil {
		HandleAPIError(w, r, err, "Failed to store avatar")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, nil)
}

// DeleteAvatar handles DELETE /users/me/avatar.
func (h *UserHandler) DeleteAvatar(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := h.userService.RemoveAvatar(r.Context(), user); err != nil {
		HandleAPIError(w, r, err, "Failed to remove avatar")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, nil)
}

// GetAvatar handles GET /users/{id}/avatar. The route is public; avatars
// are served to anyone who knows the user ID.
func (h *UserHandler) GetAvatar(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	// A malformed ID cannot name a user, so it gets the same answer as
	// a user without an avatar.
	userID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, store.ErrAvatarNotFound, "Avatar not found")
		return
	}

	avatar, err := h.userService.GetAvatar(r.Context(), userID)
	if err != nil {
		log.Debug("avatar lookup failed", slog.String("user_id", userID.String()))
		HandleAPIError(w, r, err, "Avatar not found")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(avatar); err != nil {
		log.Error("failed to write avatar response", slog.String("error", err.Error()))
	}
}
