// Package store owns the authoritative team documents: it is the only
// writer of the backing repository and serializes writes per team code.
package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mpreston/teamsync/internal/action"
	"github.com/mpreston/teamsync/internal/errors"
	"github.com/mpreston/teamsync/internal/logger"
	"github.com/mpreston/teamsync/internal/models"
	"github.com/mpreston/teamsync/internal/repository"
)

// createTeamAttempts bounds the collision retry loop for new team codes.
const createTeamAttempts = 16

// Broadcaster pushes an advisory notification after an accepted mutation.
// Clients still poll; the push only shortens how long they wait.
type Broadcaster interface {
	BroadcastStateUpdated(teamCode string, lastUpdated time.Time)
}

// Store applies named actions to team documents atomically. Concurrent
// calls for the same team code are serialized; distinct codes proceed
// independently.
type Store struct {
	log   logger.Logger
	repo  repository.DocumentRepository
	clock Clock
	ids   CodeSource

	broadcaster Broadcaster

	mu    sync.Mutex
	teams map[string]*sync.Mutex
}

// New creates a Store over the given repository.
func New(log logger.Logger, repo repository.DocumentRepository, clock Clock, ids CodeSource) *Store {
	return &Store{
		log:   log,
		repo:  repo,
		clock: clock,
		ids:   ids,
		teams: make(map[string]*sync.Mutex),
	}
}

// SetBroadcaster wires the post-mutation notification hook.
func (s *Store) SetBroadcaster(b Broadcaster) {
	s.broadcaster = b
}

// teamLock returns the mutex serializing one team code's read-modify-write.
func (s *Store) teamLock(code string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	lock, ok := s.teams[code]
	if !ok {
		lock = &sync.Mutex{}
		s.teams[code] = lock
	}
	return lock
}

// NormalizeCode upper-cases a team code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(code)
}

// CreateTeam allocates a fresh team code, retried on collision, and
// initializes it with an empty default document.
func (s *Store) CreateTeam(ctx context.Context) (string, *models.State, error) {
	for attempt := 0; attempt < createTeamAttempts; attempt++ {
		code := NormalizeCode(s.ids.NewTeamCode())
		_, exists, err := s.repo.GetDocument(ctx, code)
		if err != nil {
			return "", nil, errors.Unavailable("document store unreachable", err)
		}
		if exists {
			s.log.Debug("Team code collision, retrying", "code", code)
			continue
		}

		state := models.DefaultState(s.clock.Now())
		if err := s.repo.UpsertDocument(ctx, code, state); err != nil {
			return "", nil, errors.Unavailable("document store unreachable", err)
		}
		s.log.Info("Team created", "code", code)
		return code, state, nil
	}
	return "", nil, errors.Internalf("could not allocate a team code after %d attempts", createTeamAttempts)
}

// GetState returns the current document for a team code.
func (s *Store) GetState(ctx context.Context, code string) (*models.State, error) {
	code = NormalizeCode(code)
	state, exists, err := s.repo.GetDocument(ctx, code)
	if err != nil {
		return nil, errors.Unavailable("document store unreachable", err)
	}
	if !exists {
		return nil, errors.NotFoundf("team %s not found", code)
	}
	return state, nil
}

// ApplyAction applies one action to a team's document: either the action
// is fully applied and persisted, or the stored document is untouched.
//
// A non-reset action whose result carries fewer sessions than the stored
// copy is suspected of racing a stale client and is ignored: the stored
// document is returned unchanged with ignored=true. This mirrors the
// client-side merge guards, so neither end can shrink the session list by
// accident.
func (s *Store) ApplyAction(ctx context.Context, code string, act action.Action) (*models.State, bool, error) {
	code = NormalizeCode(code)
	lock := s.teamLock(code)
	lock.Lock()
	defer lock.Unlock()

	now := s.clock.Now()

	base, exists, err := s.repo.GetDocument(ctx, code)
	if err != nil {
		return nil, false, errors.Unavailable("document store unreachable", err)
	}
	if !exists {
		// First action for an unseen code initializes the document.
		base = models.DefaultState(now)
	}

	next, err := action.Apply(base, act, now)
	if err != nil {
		return nil, false, err
	}

	_, isReset := act.(action.ResetState)
	if !isReset && len(base.Sessions) > 0 && len(next.Sessions) < len(base.Sessions) {
		s.log.Warn("Ignored shrinking action",
			"code", code, "action", action.Name(act),
			"stored_sessions", len(base.Sessions), "result_sessions", len(next.Sessions))
		return base, true, nil
	}

	if err := s.repo.UpsertDocument(ctx, code, next); err != nil {
		return nil, false, errors.Unavailable("document store unreachable", err)
	}

	s.log.Debug("Action applied", "code", code, "action", action.Name(act))
	if s.broadcaster != nil {
		s.broadcaster.BroadcastStateUpdated(code, next.LastUpdated)
	}
	return next, false, nil
}
