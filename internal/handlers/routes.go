package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// corsHeaders adds the permissive cross-origin headers every response
// carries, and answers OPTIONS preflights with an empty object.
func corsHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			respondOK(w, map[string]string{})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger) // Custom conditional HTTP logger
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHeaders)

	r.Get("/health", h.handleHealth)

	// WebSocket push channel (advisory; clients still poll)
	if h.Hub != nil {
		r.Get("/ws", h.Hub.ServeWs)
	}

	// Team state API
	r.Post("/teams", h.handleCreateTeam)
	r.Get("/teams/{code}/state", h.handleGetState)
	r.Post("/teams/{code}/action", h.handleApplyAction)
	r.Put("/teams/{code}/state", h.handlePutState)
	r.Get("/teams/{code}/qr", h.handleTeamQR)

	return r
}
