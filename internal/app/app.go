package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpreston/teamsync/internal/handlers"
	"github.com/mpreston/teamsync/internal/logger"
	"github.com/mpreston/teamsync/internal/repository"
	"github.com/mpreston/teamsync/internal/store"
	"github.com/mpreston/teamsync/internal/websocket"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	repo     *repository.Repository
}

// New creates and initializes a new application instance
func New(log logger.Logger, dbPath string) (*App, error) {
	repo, err := repository.New(dbPath)
	if err != nil {
		return nil, err
	}

	teamStore := store.New(log, repo, store.SystemClock{}, store.RandomCodeSource{})

	hub := websocket.New(log)
	hub.Start()
	teamStore.SetBroadcaster(hub)

	h := handlers.New(teamStore, hub, log)

	return &App{
		log:      log,
		handlers: h,
		repo:     repo,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close releases app resources
func (a *App) Close() error {
	return a.repo.Close()
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	a.log.Info("Server starting", "addr", addr)
	return http.ListenAndServe(addr, a.Router())
}
