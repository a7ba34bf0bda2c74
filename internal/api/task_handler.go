package api

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/dlourenco/taskman/internal/api/shared"
	"github.com/dlourenco/taskman/internal/domain"
	"github.com/dlourenco/taskman/internal/service"
	"github.com/dlourenco/taskman/internal/store"
)

// TaskHandler handles task CRUD endpoints. Every route is owner-scoped:
// the user always comes from the authenticated session.
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService, log *slog.Logger) *TaskHandler {
	if log == nil {
		log = slog.Default()
	}
	return &TaskHandler{
		taskService: taskService,
		logger:      log.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.taskService.Create(r.Context(), user.ID, req.Description, req.Completed)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, newTaskResponse(task))
}

// List handles GET /tasks with completed, sortBy, limit, and skip query
// parameters.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return
	}

	filter, err := parseTaskFilter(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.List(r.Context(), user.ID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponses(tasks))
}

// Get handles GET /tasks/{id}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.sessionAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), user.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to fetch task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Update handles PATCH /tasks/{id}. Unknown fields in the body reject
// the whole patch.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.sessionAndTaskID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	patch, err := service.ParseTaskPatch(body)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, err := h.taskService.Update(r.Context(), user.ID, taskID, patch)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

// Delete handles DELETE /tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.sessionAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), user.ID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	if err := h.taskService.Delete(r.Context(), user.ID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newTaskResponse(task))
}

func (h *TaskHandler) sessionAndTaskID(
	w http.ResponseWriter,
	r *http.Request,
) (*domain.User, uuid.UUID, bool) {
	user, _, ok := requireSession(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}

	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}
	return user, id, true
}

// validSortKeys are the task fields that can be sorted on.
var validSortKeys = map[string]bool{
	store.SortByDescription: true,
	store.SortByCompleted:   true,
	store.SortByCreatedAt:   true,
	store.SortByUpdatedAt:   true,
}

// parseTaskFilter reads the list query parameters. sortBy takes the form
// "key" or "key:asc|desc". An unrecognized key is a no-op, not an error,
// and any direction other than desc sorts ascending.
func parseTaskFilter(r *http.Request) (store.TaskFilter, error) {
	var filter store.TaskFilter
	query := r.URL.Query()

	if raw := query.Get("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, domain.NewValidationError("completed", "must be true or false", domain.ErrValidation)
		}
		filter.Completed = &completed
	}

	if raw := query.Get("sortBy"); raw != "" {
		key, direction, _ := strings.Cut(raw, ":")
		if validSortKeys[key] {
			filter.SortBy = key
			filter.Descending = direction == "desc"
		}
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return filter, domain.NewValidationError("limit", "must be a non-negative integer", domain.ErrValidation)
		}
		filter.Limit = limit
	}

	if raw := query.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			return filter, domain.NewValidationError("skip", "must be a non-negative integer", domain.ErrValidation)
		}
		filter.Skip = skip
	}

	return filter, nil
}
