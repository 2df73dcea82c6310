package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/store"
)

// handleHealth reports liveness.
func (h *Handlers) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, HealthResponse{OK: true})
}

// handleCreateTeam creates a team with a fresh code and default state.
func (h *Handlers) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	code, state, err := h.Teams.CreateTeam(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, TeamResponse{TeamCode: code, State: state})
}

// handleGetState returns a team's current document.
func (h *Handlers) handleGetState(w http.ResponseWriter, r *http.Request) {
	code := store.NormalizeCode(chi.URLParam(r, "code"))
	state, err := h.Teams.GetState(r.Context(), code)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, TeamResponse{TeamCode: code, State: state})
}

// handleApplyAction decodes and applies one protocol action.
func (h *Handlers) handleApplyAction(w http.ResponseWriter, r *http.Request) {
	code := store.NormalizeCode(chi.URLParam(r, "code"))

	var req ActionRequest
	decodeJSONLenient(r, &req)
	if req.Action == "" {
		respondError(w, BadRequest("Missing action"))
		return
	}

	act, err := action.Decode(req.Action, req.Data)
	if err != nil {
		respondError(w, err)
		return
	}

	state, ignored, err := h.Teams.ApplyAction(r.Context(), code, act)
	if err != nil {
		respondError(w, err)
		return
	}
	respondOK(w, TeamResponse{TeamCode: code, State: state, Ignored: ignored})
}

// handlePutState rejects the legacy whole-document overwrite path. The
// action route carries all mutations; letting clients overwrite the full
// document would reopen the race the merge guards exist to prevent.
func (h *Handlers) handlePutState(w http.ResponseWriter, r *http.Request) {
	respondError(w, MethodNotAllowed("PUT /state disabled. Use /action."))
}
