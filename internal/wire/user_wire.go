package wire

import (
	"net/http"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

// wireUser exposes the caller's own profile; any active account may use it
func wireUser(r chi.Router, userHandler *adaptor.UserHandler, authn func(http.Handler) http.Handler) {
	r.With(authn).Route("/api/users/me", func(r chi.Router) {
		r.Get("/", userHandler.GetProfile)
		r.Put("/", userHandler.UpdateProfile)
	})
}
