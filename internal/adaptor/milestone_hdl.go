package adaptor

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/dto/request"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type MilestoneHandler struct {
	service usecase.MilestoneService
	log     *zap.Logger
}

func NewMilestoneHandler(service usecase.MilestoneService, log *zap.Logger) *MilestoneHandler {
	return &MilestoneHandler{
		service: service,
		log:     log.With(zap.String("handler", "milestone")),
	}
}

// CreateMilestone handles POST /api/tasks/{id}/milestones
func (h *MilestoneHandler) CreateMilestone(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.CreateMilestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	milestone, err := h.service.CreateMilestone(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create milestone")
		return
	}

	utils.ResponseCreated(w, "Milestone created", milestone)
}

// GetTaskMilestones handles GET /api/tasks/{id}/milestones
func (h *MilestoneHandler) GetTaskMilestones(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	milestones, err := h.service.GetTaskMilestones(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, h.log, err, "get milestones")
		return
	}

	utils.ResponseSuccess(w, "success", milestones)
}

// UpdateMilestone handles PUT /api/milestones/{id}
func (h *MilestoneHandler) UpdateMilestone(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}

	var req request.UpdateMilestoneRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	milestone, err := h.service.UpdateMilestone(r.Context(), caller, chi.URLParam(r, "id"), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update milestone")
		return
	}

	utils.ResponseSuccess(w, "Milestone updated", milestone)
}
