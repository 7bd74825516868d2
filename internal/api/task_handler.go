package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/usertask-api/internal/api/shared"
	"github.com/phrazzld/usertask-api/internal/domain"
	"github.com/phrazzld/usertask-api/internal/platform/logger"
	"github.com/phrazzld/usertask-api/internal/service"
)

// TaskRoutePrefix is the path of a single task; collection routes share it
// as a prefix, so it also names every cached task response.
const TaskRoutePrefix = "/api/usertask"

// TaskHandler handles task-related HTTP requests
type TaskHandler struct {
	taskService service.TaskService
	logger      *slog.Logger
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(taskService service.TaskService, logger *slog.Logger) *TaskHandler {
	if taskService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("taskService cannot be nil for TaskHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &TaskHandler{
		taskService: taskService,
		logger:      logger.With(slog.String("component", "task_handler")),
	}
}

// GetSorted handles GET /api/usertasks_bysorting?date&sortBy&ascending
func (h *TaskHandler) GetSorted(w http.ResponseWriter, r *http.Request) {
	spec, err := parseSortSpec(r.URL.Query())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	tasks, err := h.taskService.GetSorted(r.Context(), spec)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// GetGrouped handles GET /api/usertasks_grouping
func (h *TaskHandler) GetGrouped(w http.ResponseWriter, r *http.Request) {
	groups, err := h.taskService.GetGrouped(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, groupsToResponse(groups))
}

// FindTask resolves GET /api/usertask/{id} into a TaskResponse. It returns
// a result rather than writing one so the route can be served through the
// cache-aside decorator.
func (h *TaskHandler) FindTask(r *http.Request) (any, error) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		return nil, err
	}

	task, err := h.taskService.GetTask(r.Context(), id)
	if err != nil {
		return nil, err
	}

	return taskToResponse(task), nil
}

// ListTasks handles GET /api/usertasks
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.taskService.ListTasks(r.Context())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, tasksToResponse(tasks))
}

// CreateTask handles POST /api/usertask
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	task, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	created, err := h.taskService.CreateTask(r.Context(), task)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	log.Debug("task created", slog.String("task_id", created.ID.String()))
	w.Header().Set("Location", TaskRoutePrefix+"/"+created.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(created))
}

// UpdateTask handles PUT /api/usertask/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	task, ok := h.decodeTask(w, r)
	if !ok {
		return
	}

	if _, err := h.taskService.UpdateTask(r.Context(), id, task); err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteTask handles DELETE /api/usertask/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	removed, err := h.taskService.DeleteTask(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}
	if !removed {
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// WriteError renders err with the status and message of its error kind.
func (h *TaskHandler) WriteError(w http.ResponseWriter, r *http.Request, err error) {
	HandleAPIError(w, r, err, "Failed to retrieve task")
}

func (h *TaskHandler) decodeTask(w http.ResponseWriter, r *http.Request) (*domain.Task, bool) {
	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		if errors.Is(err, shared.ErrBodyTooLarge) {
			shared.RespondWithErrorAndLog(w, r, http.StatusRequestEntityTooLarge, "Request body too large", err)
			return nil, false
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return nil, false
	}

	if err := shared.ValidateRequest(&req); err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	task, err := req.toDomain()
	if err != nil {
		HandleAPIError(w, r, err, "")
		return nil, false
	}

	return task, true
}
