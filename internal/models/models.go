package models

import "time"

// DefaultAdminPIN is the PIN a freshly created team starts with.
const DefaultAdminPIN = "4242"

// RSVPStatus is a player's attendance answer for a session.
type RSVPStatus string

const (
	RSVPIn    RSVPStatus = "In"
	RSVPMaybe RSVPStatus = "Maybe"
	RSVPOut   RSVPStatus = "Out"
)

// Formation identifies a fixed, ordered list of position labels.
type Formation string

const (
	Formation41212Wide Formation = "4-1-2-1-2 Wide"
	Formation3232      Formation = "3-2-3-2"
)

var formationPositions = map[Formation][]string{
	Formation41212Wide: {"GK", "LB", "LCB", "RCB", "RB", "CDM", "LM", "RM", "CAM", "ST1", "ST2"},
	Formation3232:      {"GK", "LCB", "CB", "RCB", "LDM", "RDM", "LM", "CAM", "RM", "ST1", "ST2"},
}

// Positions returns the formation's position labels in assignment order.
// Unknown formations fall back to the 4-1-2-1-2 Wide layout so a document
// written by a newer client still renders a full lineup.
func (f Formation) Positions() []string {
	positions, ok := formationPositions[f]
	if !ok {
		positions = formationPositions[Formation41212Wide]
	}
	out := make([]string, len(positions))
	copy(out, positions)
	return out
}

// Formations lists the known formations.
func Formations() []Formation {
	return []Formation{Formation41212Wide, Formation3232}
}

// Session is one scheduled game with its RSVP and vote books.
type Session struct {
	ID                  string                       `json:"id"`
	Title               string                       `json:"title"`
	StartTime           time.Time                    `json:"startTime"`
	Notes               string                       `json:"notes"`
	Formation           Formation                    `json:"formation"`
	RevealOffsetMinutes int                          `json:"revealOffsetMinutes"`
	RSVPByPlayer        map[string]RSVPStatus        `json:"rsvpByPlayer"`
	VotesByPlayer       map[string]map[string]string `json:"votesByPlayer"`
}

// Announcement is an immutable broadcast to the team.
type Announcement struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackNote is one timestamped remark inside a feedback item.
type FeedbackNote struct {
	ID   string `json:"id"`
	Time string `json:"time"`
	Note string `json:"note"`
}

// FeedbackItem is a video review posting. It is active while ExpiresAt
// is in the future; activity is always computed, never stored.
type FeedbackItem struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	VideoURL  string         `json:"videoURL"`
	Notes     []FeedbackNote `json:"notes"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// Active reports whether the item has not yet expired at the given instant.
func (f FeedbackItem) Active(now time.Time) bool {
	return f.ExpiresAt.After(now)
}

// ChatMessage is one line of team chat.
type ChatMessage struct {
	ID        string    `json:"id"`
	Sender    string    `json:"sender"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// State is the shared team document, the unit of synchronization.
// Sessions, announcements and feedback are newest-first; chat is
// oldest-first. LastUpdated is the instant of the last accepted mutation
// and is omitted from the wire form while zero, so readers can tell an
// uninitialized document from a merely empty one.
type State struct {
	Sessions          []Session      `json:"sessions"`
	Announcements     []Announcement `json:"announcements"`
	FeedbackItems     []FeedbackItem `json:"feedbackItems"`
	ChatMessages      []ChatMessage  `json:"chatMessages"`
	SelectedSessionID string         `json:"selectedSessionId"`
	AdminPIN          string         `json:"adminPIN"`
	LastUpdated       time.Time      `json:"lastUpdated,omitzero"`
}

// DefaultState returns the empty document a new team starts from.
func DefaultState(now time.Time) *State {
	return &State{
		Sessions:      []Session{},
		Announcements: []Announcement{},
		FeedbackItems: []FeedbackItem{},
		ChatMessages:  []ChatMessage{},
		AdminPIN:      DefaultAdminPIN,
		LastUpdated:   now,
	}
}

// FindSession returns the session with the given id, or nil.
func (s *State) FindSession(id string) *Session {
	for i := range s.Sessions {
		if s.Sessions[i].ID == id {
			return &s.Sessions[i]
		}
	}
	return nil
}

// Clone returns a deep copy. The store and the sync reconciler hand out
// and accept documents across API boundaries, so nothing may alias the
// maps and slices of a document another component still holds.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	out := *s
	out.Sessions = make([]Session, len(s.Sessions))
	for i := range s.Sessions {
		out.Sessions[i] = s.Sessions[i].Clone()
	}
	out.Announcements = append([]Announcement(nil), s.Announcements...)
	out.FeedbackItems = make([]FeedbackItem, len(s.FeedbackItems))
	for i, item := range s.FeedbackItems {
		item.Notes = append([]FeedbackNote(nil), item.Notes...)
		out.FeedbackItems[i] = item
	}
	out.ChatMessages = append([]ChatMessage(nil), s.ChatMessages...)
	return &out
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	if s.RSVPByPlayer != nil {
		out.RSVPByPlayer = make(map[string]RSVPStatus, len(s.RSVPByPlayer))
		for player, status := range s.RSVPByPlayer {
			out.RSVPByPlayer[player] = status
		}
	}
	if s.VotesByPlayer != nil {
		out.VotesByPlayer = make(map[string]map[string]string, len(s.VotesByPlayer))
		for voter, votes := range s.VotesByPlayer {
			ballot := make(map[string]string, len(votes))
			for position, candidate := range votes {
				ballot[position] = candidate
			}
			out.VotesByPlayer[voter] = ballot
		}
	}
	return out
}
