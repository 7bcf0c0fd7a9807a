package wire

import (
	"context"
	"net/http"
	"time"

	"github.com/noel-mugisha/Freelance-App-Backend/internal/adaptor"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/data/repository"
	"github.com/noel-mugisha/Freelance-App-Backend/internal/usecase"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/events"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/mailer"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/middleware"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/token"
	"github.com/noel-mugisha/Freelance-App-Backend/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the wired HTTP surface
type App struct {
	Router  *chi.Mux
	service *usecase.Service
}

// Drain waits for background work started by requests, such as OTP
// emails, once the server has stopped accepting them.
func (a *App) Drain(ctx context.Context) error {
	return a.service.Auth.Drain(ctx)
}

// Pinger reports database liveness for the health check. A nil Pinger
// makes /health report only process liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the infrastructure pieces built by main.
type Deps struct {
	Repo   *repository.Repository
	DB     Pinger
	Config *utils.Config
	Tokens *token.Service
	Mailer mailer.Mailer
	Events events.Publisher
}

// Wiring builds services, handlers and the router
func Wiring(deps Deps, logger *zap.Logger) *App {
	service := usecase.NewService(deps.Repo, deps.Config, deps.Tokens, deps.Mailer, deps.Events, logger)
	handler := adaptor.NewHandler(service, logger)

	return &App{
		Router:  setupRouter(handler, deps, logger),
		service: service,
	}
}

func setupRouter(handler *adaptor.Handler, deps Deps, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	authn := middleware.AuthJWT(deps.Tokens, deps.Repo.User, logger)

	wireAuth(r, handler.Auth)
	wireUser(r, handler.User, authn)
	wireTask(r, handler.Task, authn, logger)
	wireBid(r, handler.Bid, authn, logger)
	wireMilestone(r, handler.Milestone, authn, logger)

	r.Get("/health", healthCheck(deps.DB, logger))

	return r
}

func healthCheck(db Pinger, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				logger.Error("Health check failed", zap.Error(err))
				utils.ResponseJSON(w, http.StatusServiceUnavailable, false, "Database unavailable", nil, nil)
				return
			}
		}
		utils.ResponseSuccess(w, "OK", nil)
	}
}
