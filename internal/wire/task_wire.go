package wire

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/adaptor"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireTask(r chi.Router, taskHandler *adaptor.TaskHandler, authn func(http.Handler) http.Handler, log *zap.Logger) {
	// ==================== PUBLIC ROUTES ====================
	r.Get("/api/tasks", taskHandler.GetTasks)
	r.Get("/api/tasks/{id}", taskHandler.GetTaskByID)

	// ==================== CLIENT ROUTES ====================
	// ownership of {id} is checked by the service
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole(log, entity.RoleClient))

		r.Post("/api/tasks", taskHandler.CreateTask)
		r.Get("/api/tasks/mine", taskHandler.GetMyTasks)
		r.Put("/api/tasks/{id}", taskHandler.UpdateTask)
		r.Delete("/api/tasks/{id}", taskHandler.DeleteTask)
	})
}
