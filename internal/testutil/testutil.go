package testutil

import (
	"testing"
	"time"

	"github.com/mpreston/teamsync/internal/repository"
)

// NewTestRepository creates a new in-memory repository for testing.
// Each call creates a fresh database with all migrations applied.
func NewTestRepository(t *testing.T) *repository.Repository {
	t.Helper()

	repo, err := repository.New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test repository: %v", err)
	}

	t.Cleanup(func() {
		repo.Close()
	})

	return repo
}

// FixedClock is a Clock pinned to one instant, advanced explicitly.
// It satisfies the store and syncer Clock interfaces.
type FixedClock struct {
	T time.Time
}

// NewFixedClock returns a clock pinned to a stable reference instant.
func NewFixedClock() *FixedClock {
	return &FixedClock{T: time.Date(2025, 6, 6, 18, 0, 0, 0, time.UTC)}
}

func (c *FixedClock) Now() time.Time {
	return c.T
}

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.T = c.T.Add(d)
}

// CodeSequence is a CodeSource that replays a scripted list of team
// codes, then repeats the last one.
type CodeSequence struct {
	Codes []string
	next  int
}

func (c *CodeSequence) NewTeamCode() string {
	if c.next < len(c.Codes)-1 {
		code := c.Codes[c.next]
		c.next++
		return code
	}
	return c.Codes[len(c.Codes)-1]
}
