package handlers

import (
	"context"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/models"
	"github.com/mpreston/teamsync/internal/websocket"
)

// TeamServicer defines the store operations the HTTP surface needs.
type TeamServicer interface {
	CreateTeam(ctx context.Context) (string, *models.State, error)
	GetState(ctx context.Context, code string) (*models.State, error)
	ApplyAction(ctx context.Context, code string, act action.Action) (*models.State, bool, error)
}

// HTTPLogger is an interface for loggers that support HTTP logging control
type HTTPLogger interface {
	IsHTTPLoggingEnabled() bool
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Teams TeamServicer
	Hub   *websocket.Hub
	Log   HTTPLogger
}

// New creates a new Handlers instance with all dependencies
func New(teams TeamServicer, hub *websocket.Hub, log HTTPLogger) *Handlers {
	return &Handlers{
		Teams: teams,
		Hub:   hub,
		Log:   log,
	}
}

// NoopHTTPLogger is a test logger that always returns false for HTTP logging
type NoopHTTPLogger struct{}

func (NoopHTTPLogger) IsHTTPLoggingEnabled() bool { return false }

// NewForTesting creates a Handlers instance without a websocket hub.
func NewForTesting(teams TeamServicer) *Handlers {
	return &Handlers{
		Teams: teams,
		Log:   NoopHTTPLogger{},
	}
}
