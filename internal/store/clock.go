package store

import (
	"crypto/rand"
	"time"
)

// Clock supplies the application instant stamped onto accepted mutations.
// Injected so tests can pin time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used in production.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// CodeSource generates candidate team codes. The store collision-checks
// every candidate before use.
type CodeSource interface {
	NewTeamCode() string
}

const teamCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// TeamCodeLength is the length of generated team codes.
const TeamCodeLength = 4

// RandomCodeSource generates short random team codes.
type RandomCodeSource struct{}

func (RandomCodeSource) NewTeamCode() string {
	buf := make([]byte, TeamCodeLength)
	rand.Read(buf)
	code := make([]byte, TeamCodeLength)
	for i, b := range buf {
		code[i] = teamCodeAlphabet[int(b)%len(teamCodeAlphabet)]
	}
	return string(code)
}
