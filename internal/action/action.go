// Package action defines the closed set of named mutations applied to a
// team document. The same Apply runs on the server (authoritative) and in
// the client's sync layer (optimistic), which is what keeps an optimistic
// edit and its eventual server confirmation structurally identical.
package action

import (
	"time"

	"github.com/mpreston/teamsync/internal/errors"
	"github.com/mpreston/teamsync/internal/models"
)

// Action is one named mutation of a team document. The set is closed:
// the concrete types below are the only implementations.
type Action interface {
	name() string
}

// CreateSession prepends a session and selects it.
type CreateSession struct {
	Session models.Session `json:"session"`
}

// UpdateSession replaces the session with a matching id in place.
// A no-op if the id is absent.
type UpdateSession struct {
	Session models.Session `json:"session"`
}

// UpdateRSVP sets one player's RSVP answer on a session.
type UpdateRSVP struct {
	SessionID string            `json:"sessionId"`
	Player    string            `json:"player"`
	Status    models.RSVPStatus `json:"status"`
}

// Vote records one player's candidate for one position, or retracts it
// when Candidate is empty.
type Vote struct {
	SessionID string `json:"sessionId"`
	Player    string `json:"player"`
	Position  string `json:"position"`
	Candidate string `json:"candidate"`
}

// AddAnnouncement prepends an announcement.
type AddAnnouncement struct {
	Announcement models.Announcement `json:"announcement"`
}

// AddFeedback prepends a feedback item.
type AddFeedback struct {
	Feedback models.FeedbackItem `json:"feedback"`
}

// AddChat appends a chat message.
type AddChat struct {
	Message models.ChatMessage `json:"message"`
}

// UpdateAdminPIN replaces the admin PIN. An empty PIN keeps the current one.
type UpdateAdminPIN struct {
	AdminPIN string `json:"adminPIN"`
}

// ResetState replaces the whole document with an empty default. Valid only
// when the supplied PIN matches the document's current PIN.
type ResetState struct {
	AdminPIN string `json:"adminPIN"`
}

func (CreateSession) name() string   { return "createSession" }
func (UpdateSession) name() string   { return "updateSession" }
func (UpdateRSVP) name() string      { return "updateRSVP" }
func (Vote) name() string            { return "vote" }
func (AddAnnouncement) name() string { return "addAnnouncement" }
func (AddFeedback) name() string     { return "addFeedback" }
func (AddChat) name() string         { return "addChat" }
func (UpdateAdminPIN) name() string  { return "updateAdminPIN" }
func (ResetState) name() string      { return "resetState" }

// Name returns the wire name of an action.
func Name(act Action) string {
	return act.name()
}

// Apply runs one action against a document and returns the resulting
// document. The input is never mutated. Every accepted action stamps
// LastUpdated with the supplied instant; a rejected action (wrong PIN on
// reset) returns an ErrRejected-kinded error and no state.
//
// Mutations that reference an absent session id are accepted no-ops, not
// rejections: the referenced session may simply not have reached this
// replica yet.
func Apply(st *models.State, act Action, now time.Time) (*models.State, error) {
	next := st.Clone()

	switch a := act.(type) {
	case CreateSession:
		next.Sessions = append([]models.Session{a.Session.Clone()}, next.Sessions...)
		next.SelectedSessionID = a.Session.ID

	case UpdateSession:
		for i := range next.Sessions {
			if next.Sessions[i].ID == a.Session.ID {
				next.Sessions[i] = a.Session.Clone()
			}
		}

	case UpdateRSVP:
		if session := next.FindSession(a.SessionID); session != nil {
			if session.RSVPByPlayer == nil {
				session.RSVPByPlayer = make(map[string]models.RSVPStatus)
			}
			session.RSVPByPlayer[a.Player] = a.Status
		}

	case Vote:
		if session := next.FindSession(a.SessionID); session != nil {
			if session.VotesByPlayer == nil {
				session.VotesByPlayer = make(map[string]map[string]string)
			}
			ballot := session.VotesByPlayer[a.Player]
			if ballot == nil {
				ballot = make(map[string]string)
				session.VotesByPlayer[a.Player] = ballot
			}
			if a.Candidate != "" {
				ballot[a.Position] = a.Candidate
			} else {
				delete(ballot, a.Position)
			}
		}

	case AddAnnouncement:
		next.Announcements = append([]models.Announcement{a.Announcement}, next.Announcements...)

	case AddFeedback:
		next.FeedbackItems = append([]models.FeedbackItem{a.Feedback}, next.FeedbackItems...)

	case AddChat:
		next.ChatMessages = append(next.ChatMessages, a.Message)

	case UpdateAdminPIN:
		if a.AdminPIN != "" {
			next.AdminPIN = a.AdminPIN
		}

	case ResetState:
		if a.AdminPIN != st.AdminPIN {
			return nil, errors.Rejected("incorrect admin PIN")
		}
		next = models.DefaultState(now)

	default:
		return nil, errors.Rejectedf("unknown action type %T", act)
	}

	next.LastUpdated = now
	return next, nil
}
