package handlers

import "github.com/mpreston/teamsync/internal/models"

// TeamResponse is the envelope every team endpoint returns.
type TeamResponse struct {
	TeamCode string        `json:"teamCode"`
	State    *models.State `json:"state"`
	// Ignored marks an action the store refused to apply because it
	// would have shrunk the session list.
	Ignored bool `json:"ignored,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	OK bool `json:"ok"`
}
