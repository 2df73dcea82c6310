// Package syncer keeps a client's shadow copy of the team document
// reconciled with the authoritative store. Edits apply to the shadow
// first (optimistic, immediately visible) and reach the server as
// protocol actions; periodic polls pull the server's document back in
// through the merge guards, which refuse anything that would regress
// sessions the client already knows about.
package syncer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/logger"
	"github.com/mpreston/teamsync/internal/models"
	"github.com/mpreston/teamsync/pkg/teamapi"
)

// DefaultPollInterval is the default period between store pulls.
const DefaultPollInterval = 10 * time.Second

// Clock supplies the instant stamped onto optimistic local mutations.
type Clock interface {
	Now() time.Time
}

// Status is the best-effort sync indicator shown to the user. It never
// escalates to an error: the worst case is local/remote divergence that
// heals on the next successful sync.
type Status string

const (
	// StatusSynced means the last exchange with the store succeeded.
	StatusSynced Status = "synced"
	// StatusPending means the last action reached the store only via the
	// whole-document fallback push.
	StatusPending Status = "pending"
	// StatusOffline means the last exchange failed outright; the shadow
	// is the only copy of recent edits.
	StatusOffline Status = "offline"
)

// Syncer owns one team's shadow document on one device.
type Syncer struct {
	log      logger.Logger
	api      teamapi.Client
	clock    Clock
	teamCode string
	interval time.Duration

	// inFlight serializes network exchanges: the periodic pull skips its
	// turn while an exchange is outstanding, so two responses can never
	// race a merge against the same shadow.
	inFlight atomic.Bool

	mu sync.Mutex
	// confirmed is the last server document accepted through the merge
	// guards; shadow is confirmed plus optimistic local edits.
	confirmed *models.State
	shadow    *models.State
	status    Status
}

// Option configures a Syncer.
type Option func(*Syncer)

// WithPollInterval overrides the poll period.
func WithPollInterval(d time.Duration) Option {
	return func(s *Syncer) {
		s.interval = d
	}
}

// WithInitialState seeds the shadow, e.g. from device-local storage.
func WithInitialState(st *models.State) Option {
	return func(s *Syncer) {
		s.shadow = st.Clone()
	}
}

// New creates a Syncer for one team code.
func New(log logger.Logger, api teamapi.Client, clock Clock, teamCode string, opts ...Option) *Syncer {
	s := &Syncer{
		log:      log,
		api:      api,
		clock:    clock,
		teamCode: teamCode,
		interval: DefaultPollInterval,
		status:   StatusSynced,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.shadow == nil {
		// A zero LastUpdated marks the shadow as never-synced, so the
		// first server document is accepted regardless of its marker.
		s.shadow = models.DefaultState(time.Time{})
	}
	return s
}

// Snapshot returns a deep copy of the current shadow document. Callers
// render from the copy; nothing outside the syncer may hold a reference
// into the live shadow.
func (s *Syncer) Snapshot() *models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shadow.Clone()
}

// Status returns the current best-effort sync indicator.
func (s *Syncer) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Do applies one action optimistically and sends it to the store.
//
// The local apply always happens and always sticks, even when the send
// fails: the shadow is the user's working copy. On send failure the whole
// shadow is pushed as an unconditional overwrite — the one deliberate
// bypass of action-level reconciliation, used only on confirmed failure
// ("I am the source of truth right now"). Servers that disable the
// overwrite path refuse the push, which is fine: the edit stays local
// until a later action or poll reconciles it.
func (s *Syncer) Do(ctx context.Context, act action.Action) error {
	s.mu.Lock()
	next, err := action.Apply(s.shadow, act, s.clock.Now())
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.shadow = next
	fallback := s.shadow.Clone()
	s.mu.Unlock()

	s.inFlight.Store(true)
	defer s.inFlight.Store(false)

	env, err := s.api.PostAction(ctx, s.teamCode, act)
	if err != nil {
		s.log.Warn("Action send failed, pushing full document", "action", action.Name(act), "error", err)
		if pushErr := s.api.PutState(ctx, s.teamCode, fallback); pushErr != nil {
			s.log.Warn("Fallback push failed", "error", pushErr)
			s.setStatus(StatusOffline)
			return nil
		}
		s.setStatus(StatusPending)
		return nil
	}

	s.mergeIncoming(env.State)
	s.setStatus(StatusSynced)
	return nil
}

// Pull fetches the store's document once and merges it into the shadow.
// A transport failure leaves the shadow untouched.
func (s *Syncer) Pull(ctx context.Context) {
	if !s.inFlight.CompareAndSwap(false, true) {
		return
	}
	defer s.inFlight.Store(false)

	env, err := s.api.GetState(ctx, s.teamCode)
	if err != nil {
		s.log.Debug("Poll failed", "error", err)
		s.setStatus(StatusOffline)
		return
	}

	s.mergeIncoming(env.State)
	s.setStatus(StatusSynced)
}

// Run polls the store at the configured interval until the context ends.
func (s *Syncer) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.Pull(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Pull(ctx)
		}
	}
}

// mergeIncoming runs the merge guards against the shadow and records the
// outcome.
func (s *Syncer) mergeIncoming(incoming *models.State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged, reason := Merge(s.shadow, incoming)
	if reason != ReasonAccepted {
		s.log.Debug("Incoming document rejected", "reason", string(reason))
		return
	}
	s.confirmed = incoming.Clone()
	s.shadow = merged
}

// Confirmed returns a deep copy of the last server document accepted
// through the merge guards, or nil before the first accepted exchange.
func (s *Syncer) Confirmed() *models.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed.Clone()
}

func (s *Syncer) setStatus(status Status) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Convenience senders for entities the client mints itself.

// SendChat appends a chat message with a fresh id.
func (s *Syncer) SendChat(ctx context.Context, sender, text string) error {
	return s.Do(ctx, action.AddChat{Message: models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    sender,
		Text:      text,
		CreatedAt: s.clock.Now(),
	}})
}

// Announce prepends an announcement with a fresh id.
func (s *Syncer) Announce(ctx context.Context, title, message string) error {
	return s.Do(ctx, action.AddAnnouncement{Announcement: models.Announcement{
		ID:        uuid.NewString(),
		Title:     title,
		Message:   message,
		CreatedAt: s.clock.Now(),
	}})
}

// NewSessionID mints an id for a session built by the caller.
func NewSessionID() string {
	return uuid.NewString()
}
