package syncer

import "github.com/mpreston/teamsync/internal/models"

// Reason classifies a merge decision. Rejections are recovered
// conditions, not errors: the local shadow simply stands until a better
// document arrives.
type Reason string

const (
	// ReasonAccepted means the incoming document replaced the shadow.
	ReasonAccepted Reason = "accepted"
	// ReasonFewerSessions means the incoming document carried fewer
	// sessions than the shadow (suspected stale or partial read).
	ReasonFewerSessions Reason = "fewer_sessions"
	// ReasonMissingSessions means a session the shadow knows about is
	// absent from the incoming document.
	ReasonMissingSessions Reason = "missing_sessions"
	// ReasonUninitialized means the incoming document looks like a
	// never-written remote record: no update marker and no sessions,
	// while the shadow has sessions.
	ReasonUninitialized Reason = "uninitialized"
	// ReasonOlder means the incoming document's update marker predates
	// the shadow's.
	ReasonOlder Reason = "older"
)

// Merge reconciles an incoming server document into the local shadow.
// It returns the document to keep and the decision. Neither argument is
// mutated; on acceptance the result is a fresh copy.
//
// The guards run in order and each short-circuits. They exist because a
// transient bad or empty server response must never erase in-progress
// local work; they protect whole-document integrity only — conflicting
// per-field edits still resolve as last-write-observed-wins.
func Merge(local, incoming *models.State) (*models.State, Reason) {
	if incoming == nil {
		return local, ReasonUninitialized
	}

	// Guard 1: never accept a document that lost sessions.
	if len(local.Sessions) > 0 && len(incoming.Sessions) < len(local.Sessions) {
		return local, ReasonFewerSessions
	}

	// Guard 2: every locally known session id must survive the merge.
	if len(local.Sessions) > 0 && len(incoming.Sessions) > 0 && !sessionIDsSubset(local, incoming) {
		return local, ReasonMissingSessions
	}

	// Guard 3: an unmarked, empty document is a read of an uninitialized
	// remote record, not a real reset.
	if incoming.LastUpdated.IsZero() && len(local.Sessions) > 0 && len(incoming.Sessions) == 0 {
		return local, ReasonUninitialized
	}

	// Guard 4: never step backwards in time.
	if !incoming.LastUpdated.IsZero() && !local.LastUpdated.IsZero() &&
		incoming.LastUpdated.Before(local.LastUpdated) {
		return local, ReasonOlder
	}

	// Accept: the incoming document replaces the shadow wholesale. The
	// session selection is the one piece of local context worth keeping,
	// as long as it still points at a real session.
	merged := incoming.Clone()
	merged.SelectedSessionID = selectSession(local, merged)
	return merged, ReasonAccepted
}

// sessionIDsSubset reports whether every local session id also appears in
// the incoming document.
func sessionIDsSubset(local, incoming *models.State) bool {
	ids := make(map[string]bool, len(incoming.Sessions))
	for _, session := range incoming.Sessions {
		ids[session.ID] = true
	}
	for _, session := range local.Sessions {
		if !ids[session.ID] {
			return false
		}
	}
	return true
}

// selectSession picks the post-merge selected session id: the local
// selection when still valid, else the incoming selection, else the first
// session, else empty.
func selectSession(local, merged *models.State) string {
	if local.SelectedSessionID != "" && merged.FindSession(local.SelectedSessionID) != nil {
		return local.SelectedSessionID
	}
	if merged.SelectedSessionID != "" && merged.FindSession(merged.SelectedSessionID) != nil {
		return merged.SelectedSessionID
	}
	if len(merged.Sessions) > 0 {
		return merged.Sessions[0].ID
	}
	return ""
}
