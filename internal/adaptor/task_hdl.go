package adaptor

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type TaskHandler struct {
	service usecase.TaskService
	log     *zap.Logger
}

func NewTaskHandler(service usecase.TaskService, log *zap.Logger) *TaskHandler {
	return &TaskHandler{
		service: service,
		log:     log.With(zap.String("handler", "task")),
	}
}

// CreateTask handles POST /api/tasks
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.service.CreateTask(r.Context(), caller, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create task")
		return
	}

	utils.ResponseCreated(w, "Task created", task)
}

// GetTasks handles GET /api/tasks
func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.GetTasks(r.Context(), paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get tasks")
		return
	}

	utils.ResponseSuccess(w, "success", tasks)
}

// GetTaskByID handles GET /api/tasks/{id}
func (h *TaskHandler) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := h.service.GetTaskByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get task")
		return
	}

	utils.ResponseSuccess(w, "success", task)
}

// GetMyTasks handles GET /api/tasks/mine
func (h *TaskHandler) GetMyTasks(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	tasks, err := h.service.GetMyTasks(r.Context(), caller, paginationFrom(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get my tasks")
		return
	}

	utils.ResponseSuccess(w, "success", tasks)
}

// UpdateTask handles PUT /api/tasks/{id}
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	task, err := h.service.UpdateTask(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update task")
		return
	}

	utils.ResponseSuccess(w, "Task updated", task)
}

// DeleteTask handles DELETE /api/tasks/{id}
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	if err := h.service.DeleteTask(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		handleServiceError(w, h.log, err, "delete task")
		return
	}

	utils.ResponseNoContent(w)
}

func paginationFrom(r *http.Request) *request.PaginatedRequest {
	query := r.URL.Query()
	return &request.PaginatedRequest{
		Page:    utils.ParseInt(query.Get("page"), 1),
		PerPage: utils.ParseInt(query.Get("per_page"), request.DefaultPerPage),
	}
}
