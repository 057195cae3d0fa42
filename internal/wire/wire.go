// internal/wire/wire.go
package wire

import (
	"net/http"

	"venue-bot/internal/adaptor"
	"venue-bot/internal/data/repository"
	"venue-bot/internal/notify"
	"venue-bot/internal/usecase"
	"venue-bot/pkg/middleware"
	"venue-bot/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Deps are the outside collaborators the app is built on.
type Deps struct {
	Repo      *repository.Repository
	Notifier  notify.Broadcaster
	Messenger adaptor.Messenger
	// Queue may be nil when reminders are off.
	Queue usecase.Enqueuer
	Venue *utils.Venue
}

// App holds the wired services and entry points
type App struct {
	Router  *chi.Mux
	Service *usecase.Service
	Handler *adaptor.Handler
}

// Wiring builds services, handlers and the operator router
func Wiring(deps Deps, config *utils.Config, logger *zap.Logger) *App {
	guest := adaptor.NewGuest(deps.Messenger)
	service := usecase.NewService(deps.Repo, deps.Notifier, guest, deps.Queue, config, logger)
	handler := adaptor.NewHandler(service, deps.Messenger, deps.Venue, config, logger)

	return &App{
		Router:  setupRouter(handler, config, logger),
		Service: service,
		Handler: handler,
	}
}

// setupRouter configures the chi router
func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))

	wireBooking(r, handler.Booking, config, logger)

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
