// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Hold the secret, the attempt budget and the append-only guess log.
//   - Validate and apply guesses (length, terminal state).
//   - Track state transitions: active → won/exhausted.
//
// Notes:
//   - A Game is shared between requests; ApplyGuess and Status take g.mu, so
//     validation and the append form a single read-modify-write.
//   - A win on the last allowed guess is reported as won, not exhausted.
package game

import (
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"
)

// Mode records how the secret was chosen.
type Mode string

const (
	ModeRandom Mode = "random"
	ModeDaily  Mode = "daily"
)

// Game holds the state of a single session.
type Game struct {
	ID        string    // Unique session identifier.
	Mode      Mode      // How the secret was picked.
	CreatedAt time.Time // UTC creation time.

	secret      string
	maxAttempts int

	mu      sync.Mutex
	guesses []Guess
	state   State
}

// New constructs an active game. secret is lowercased; maxAttempts must be positive.
func New(id, secret string, mode Mode, maxAttempts int) *Game {
	return &Game{
		ID:          id,
		Mode:        mode,
		CreatedAt:   time.Now().UTC(),
		secret:      strings.ToLower(secret),
		maxAttempts: maxAttempts,
		guesses:     []Guess{},
		state:       StateActive,
	}
}

// Secret returns the word being guessed.
func (g *Game) Secret() string { return g.secret }

// MaxAttempts returns the attempt budget.
func (g *Game) MaxAttempts() int { return g.maxAttempts }

// ApplyGuess validates, scores and records a guess.
//
// Validation rules, in order:
//   - Guess must have as many letters as the secret (ErrLengthMismatch).
//   - Game must still be active (ErrNoAttemptsLeft).
//
// A rejected guess leaves the game untouched.
func (g *Game) ApplyGuess(guess string) (GuessResult, error) {
	guess = strings.ToLower(guess)
	want := utf8.RuneCountInString(g.secret)
	if got := utf8.RuneCountInString(guess); got != want {
		return GuessResult{}, fmt.Errorf("%w: got %d letters, want %d", ErrLengthMismatch, got, want)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Terminal() {
		return GuessResult{}, ErrNoAttemptsLeft
	}

	marks := Score(g.secret, guess)
	g.guesses = append(g.guesses, Guess{Word: guess, Feedback: marks})

	win := allExact(marks)
	switch {
	case win:
		g.state = StateWon
	case len(g.guesses) >= g.maxAttempts:
		g.state = StateExhausted
	}

	return GuessResult{
		Feedback:     append([]Mark(nil), marks...),
		Win:          win,
		AttemptsLeft: g.maxAttempts - len(g.guesses),
		State:        g.state,
	}, nil
}

// Status returns a deep copy of the session so callers never share the log.
func (g *Game) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()

	log := make([]Guess, len(g.guesses))
	for i, x := range g.guesses {
		log[i] = Guess{Word: x.Word, Feedback: append([]Mark(nil), x.Feedback...)}
	}
	return Status{
		ID:           g.ID,
		Guesses:      log,
		AttemptsLeft: g.maxAttempts - len(g.guesses),
		Finished:     g.state.Terminal(),
		State:        g.state,
	}
}
