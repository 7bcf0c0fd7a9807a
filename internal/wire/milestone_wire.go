package wire

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/adaptor"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireMilestone(r chi.Router, milestoneHandler *adaptor.MilestoneHandler, authn func(http.Handler) http.Handler, log *zap.Logger) {
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole(log, entity.RoleClient))

		r.Post("/api/tasks/{id}/milestones", milestoneHandler.CreateMilestone)
		r.Get("/api/tasks/{id}/milestones", milestoneHandler.GetTaskMilestones)
		r.Put("/api/milestones/{id}", milestoneHandler.UpdateMilestone)
	})
}
