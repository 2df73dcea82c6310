// Package lineup derives a team lineup and related session views from a
// session's RSVP and vote books. Everything here is a pure function of its
// inputs: no clock, no randomness, no caching. Derived views are cheap
// enough to recompute on every read, and recomputing is what keeps them
// honest after a merge replaces the underlying document.
package lineup

import (
	"sort"
	"time"

	"github.com/mpreston/teamsync/internal/models"
)

// TBD is the placeholder assigned to a position no eligible candidate won.
const TBD = "TBD"

// EligiblePlayers returns the players whose RSVP is exactly "In",
// sorted lexicographically.
func EligiblePlayers(s models.Session) []string {
	var players []string
	for player, status := range s.RSVPByPlayer {
		if status == models.RSVPIn {
			players = append(players, player)
		}
	}
	sort.Strings(players)
	return players
}

// RSVPCounts tallies the session's RSVP answers.
func RSVPCounts(s models.Session) (in, maybe, out int) {
	for _, status := range s.RSVPByPlayer {
		switch status {
		case models.RSVPIn:
			in++
		case models.RSVPMaybe:
			maybe++
		case models.RSVPOut:
			out++
		}
	}
	return in, maybe, out
}

// Assign tallies per-position votes into a conflict-free lineup.
//
// Only votes cast by an eligible voter for an eligible candidate count;
// everything else is discarded silently. Positions are filled in the
// formation's defined order, so earlier positions get first pick when a
// player leads the tally at more than one position. Within a position,
// candidates are taken by descending vote count, ties broken by ascending
// name, skipping anyone already assigned. A position with no remaining
// candidate gets TBD.
//
// The result always has exactly one entry per formation position.
func Assign(s models.Session) map[string]string {
	positions := s.Formation.Positions()
	eligible := make(map[string]bool)
	for _, player := range EligiblePlayers(s) {
		eligible[player] = true
	}

	tally := make(map[string]map[string]int)
	for voter, ballot := range s.VotesByPlayer {
		if !eligible[voter] {
			continue
		}
		for position, candidate := range ballot {
			if !eligible[candidate] {
				continue
			}
			if tally[position] == nil {
				tally[position] = make(map[string]int)
			}
			tally[position][candidate]++
		}
	}

	assigned := make(map[string]bool)
	result := make(map[string]string, len(positions))
	for _, position := range positions {
		result[position] = pick(tally[position], assigned)
	}
	return result
}

// pick selects the best not-yet-assigned candidate from one position's
// tally, marking the winner as assigned.
func pick(counts map[string]int, assigned map[string]bool) string {
	type entry struct {
		candidate string
		votes     int
	}
	sorted := make([]entry, 0, len(counts))
	for candidate, votes := range counts {
		sorted = append(sorted, entry{candidate, votes})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].votes != sorted[j].votes {
			return sorted[i].votes > sorted[j].votes
		}
		return sorted[i].candidate < sorted[j].candidate
	})
	for _, e := range sorted {
		if !assigned[e.candidate] {
			assigned[e.candidate] = true
			return e.candidate
		}
	}
	return TBD
}

// RevealAt returns the instant the session's lineup becomes visible:
// start time minus the reveal offset.
func RevealAt(s models.Session) time.Time {
	return s.StartTime.Add(-time.Duration(s.RevealOffsetMinutes) * time.Minute)
}

// Revealed reports whether the lineup is visible at the given instant.
func Revealed(s models.Session, now time.Time) bool {
	return !now.Before(RevealAt(s))
}

// SessionStatus is a session's display phase.
type SessionStatus string

const (
	StatusVotingOpen     SessionStatus = "Voting Open"
	StatusLineupRevealed SessionStatus = "Lineup Revealed"
	StatusCompleted      SessionStatus = "Completed"
)

// Status returns the session's phase at the given instant.
func Status(s models.Session, now time.Time) SessionStatus {
	if !Revealed(s, now) {
		return StatusVotingOpen
	}
	if s.StartTime.Before(now) {
		return StatusCompleted
	}
	return StatusLineupRevealed
}
