package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/mpreston/teamsync/internal/store"
)

// handleTeamQR renders a QR code for joining a team: the encoded URL is
// the team's state endpoint on this host. 404 for unknown codes, so a
// printed poster can't hand out a dead code.
func (h *Handlers) handleTeamQR(w http.ResponseWriter, r *http.Request) {
	code := store.NormalizeCode(chi.URLParam(r, "code"))

	if _, err := h.Teams.GetState(r.Context(), code); err != nil {
		respondError(w, err)
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	joinURL := fmt.Sprintf("%s://%s/teams/%s/state", scheme, r.Host, code)

	png, err := qrcode.Encode(joinURL, qrcode.Medium, 256)
	if err != nil {
		respondError(w, InternalError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(png)
}
