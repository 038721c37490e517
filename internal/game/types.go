// internal/game/types.go
//
// Core type definitions for the guessing game.
// Defines:
//   - Mark:   per-letter result of a guess (exact/present/absent).
//   - Guess:  one accepted guess together with its feedback.
//   - State:  lifecycle of a session (active → won | exhausted).
//   - Status: read-only snapshot of a session.
//   - Sentinel errors shared by the game and session packages.

package game

import "errors"

// Mark represents the evaluation result for a single letter in a guess.
// Possible values:
//   - "exact":   letter is correct and in the correct position.
//   - "present": letter is in the secret at another, not yet claimed, position.
//   - "absent":  no unclaimed instance of the letter remains in the secret.
type Mark string

const (
	MarkExact   Mark = "exact"
	MarkPresent Mark = "present"
	MarkAbsent  Mark = "absent"
)

// State is the coarse lifecycle state of a session.
type State string

const (
	StateActive    State = "active"
	StateWon       State = "won"
	StateExhausted State = "exhausted"
)

// Terminal reports whether no further guesses are accepted in s.
func (s State) Terminal() bool { return s == StateWon || s == StateExhausted }

// Guess is an accepted guess (lowercased) and its feedback.
type Guess struct {
	Word     string `json:"guess"`
	Feedback []Mark `json:"result"`
}

// GuessResult is returned for every accepted guess.
type GuessResult struct {
	Feedback     []Mark
	Win          bool
	AttemptsLeft int
	State        State
}

// Status is a point-in-time copy of a session; callers may keep it.
type Status struct {
	ID           string
	Guesses      []Guess
	AttemptsLeft int
	Finished     bool
	State        State
}

var (
	// ErrNotFound: the session id is not in the store.
	ErrNotFound = errors.New("game not found")
	// ErrLengthMismatch: the guess length differs from the secret length.
	ErrLengthMismatch = errors.New("guess length mismatch")
	// ErrNoAttemptsLeft: the session is already won or exhausted.
	ErrNoAttemptsLeft = errors.New("no attempts left")
	// ErrConfiguration: startup-time problem (empty dictionary, bad policy values).
	ErrConfiguration = errors.New("configuration error")
)
