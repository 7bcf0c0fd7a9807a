package wire

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/adaptor"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/entity"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireBid(r chi.Router, bidHandler *adaptor.BidHandler, authn func(http.Handler) http.Handler, log *zap.Logger) {
	// ==================== FREELANCER ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole(log, entity.RoleFreelancer))

		r.Post("/api/tasks/{id}/bids", bidHandler.PlaceBid)
		r.Get("/api/bids/mine", bidHandler.GetMyBids)
	})

	// ==================== CLIENT ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(authn)
		r.Use(middleware.RequireRole(log, entity.RoleClient))

		r.Get("/api/tasks/{id}/bids", bidHandler.GetTaskBids)
		r.Post("/api/bids/{id}/accept", bidHandler.AcceptBid)
	})
}
