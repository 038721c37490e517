// internal/session/manager.go
//
// Game store: the operations the transport layer calls.
//   - StartGame:   pick a secret, create and register an active session.
//   - StartDaily:  StartGame on today's word, reporting the day it belongs to.
//   - SubmitGuess: score a guess against a session and record it.
//   - GetStatus:   read back a session's guess log and finished flag.
//
// The manager owns no session state itself: sessions live in the injected
// store.Store and serialize their own guesses. Finished games are handed to an
// optional Recorder on a best-effort basis.

package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordle/apps/guess-server/internal/daily"
	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
	"github.com/robalobadob/wordle/apps/guess-server/internal/history"
	"github.com/robalobadob/wordle/apps/guess-server/internal/store"
	"github.com/robalobadob/wordle/apps/guess-server/internal/words"
)

// idAttempts bounds retries when a generated id is already taken.
const idAttempts = 3

// ErrUnknownMode is returned by StartGame for modes other than random and daily.
var ErrUnknownMode = errors.New("unknown game mode")

// Recorder receives every game once it reaches a terminal state.
type Recorder interface {
	Record(ctx context.Context, r history.Result) error
}

// Config carries the policy values of a Manager.
type Config struct {
	MaxAttempts int    // guesses allowed per game
	DailySalt   string // key for the word-of-the-day index
}

// Manager creates sessions and routes guesses to them.
type Manager struct {
	store    store.Store
	dict     *words.Dictionary
	cfg      Config
	recorder Recorder
	now      func() time.Time
	newID    func() string
}

// Option customizes a Manager.
type Option func(*Manager)

// WithRecorder archives finished games in r.
func WithRecorder(r Recorder) Option { return func(m *Manager) { m.recorder = r } }

// WithClock overrides time.Now (used for the daily word).
func WithClock(now func() time.Time) Option { return func(m *Manager) { m.now = now } }

// WithIDGenerator overrides uuid.NewString.
func WithIDGenerator(fn func() string) Option { return func(m *Manager) { m.newID = fn } }

// NewManager validates the startup preconditions and returns a ready Manager.
func NewManager(st store.Store, dict *words.Dictionary, cfg Config, opts ...Option) (*Manager, error) {
	if st == nil {
		return nil, fmt.Errorf("%w: nil store", game.ErrConfiguration)
	}
	if dict == nil || dict.Len() == 0 {
		return nil, fmt.Errorf("%w: empty dictionary", game.ErrConfiguration)
	}
	if cfg.MaxAttempts <= 0 {
		return nil, fmt.Errorf("%w: max attempts must be positive, got %d", game.ErrConfiguration, cfg.MaxAttempts)
	}
	m := &Manager{
		store: st,
		dict:  dict,
		cfg:   cfg,
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(m)
	}
	return m, nil
}

// StartGame registers a new active session and returns its id.
// An empty mode means game.ModeRandom.
func (m *Manager) StartGame(ctx context.Context, mode game.Mode) (string, error) {
	g, err := m.start(ctx, mode)
	if err != nil {
		return "", err
	}
	return g.ID, nil
}

// StartDaily starts a daily game and returns its id together with the
// YYYY-MM-DD day whose word it plays.
func (m *Manager) StartDaily(ctx context.Context) (id, day string, err error) {
	g, err := m.start(ctx, game.ModeDaily)
	if err != nil {
		return "", "", err
	}
	return g.ID, daily.DateKey(g.CreatedAt), nil
}

// start reads the clock once; the secret and CreatedAt both come from it.
func (m *Manager) start(ctx context.Context, mode game.Mode) (*game.Game, error) {
	now := m.now().UTC()
	secret, err := m.pickSecret(mode, now)
	if err != nil {
		return nil, err
	}
	if mode == "" {
		mode = game.ModeRandom
	}

	for i := 0; i < idAttempts; i++ {
		g := game.New(m.newID(), secret, mode, m.cfg.MaxAttempts)
		g.CreatedAt = now
		err = m.store.Insert(ctx, g)
		if err == nil {
			log.Debug().Str("gameId", g.ID).Str("mode", string(mode)).Msg("game started")
			return g, nil
		}
		if !errors.Is(err, store.ErrExists) {
			return nil, fmt.Errorf("insert game: %w", err)
		}
		log.Warn().Str("gameId", g.ID).Msg("game id collision, retrying")
	}
	return nil, fmt.Errorf("allocate game id: %w", err)
}

// pickSecret chooses the secret for a new game.
func (m *Manager) pickSecret(mode game.Mode, now time.Time) (string, error) {
	switch mode {
	case "", game.ModeRandom:
		return m.dict.Random(), nil
	case game.ModeDaily:
		return m.dict.At(daily.For(now, m.cfg.DailySalt, m.dict.Len()).Index), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
}

// SubmitGuess scores guess against the session id and appends it to the log.
//
// Errors: game.ErrNotFound, game.ErrLengthMismatch, game.ErrNoAttemptsLeft.
// A failed call never changes the session.
func (m *Manager) SubmitGuess(ctx context.Context, id, guess string) (game.GuessResult, error) {
	g, err := m.store.Get(ctx, id)
	if err != nil {
		return game.GuessResult{}, err
	}
	res, err := g.ApplyGuess(guess)
	if err != nil {
		return game.GuessResult{}, err
	}
	if res.State.Terminal() {
		m.record(ctx, g, res)
	}
	return res, nil
}

// record hands a finished game to the recorder. Failures are logged, never returned.
// The guess is already committed, so the write outlives a cancelled request.
func (m *Manager) record(ctx context.Context, g *game.Game, res game.GuessResult) {
	log.Info().
		Str("gameId", g.ID).
		Str("state", string(res.State)).
		Int("guesses", g.MaxAttempts()-res.AttemptsLeft).
		Msg("game finished")
	if m.recorder == nil {
		return
	}
	r := history.Result{
		GameID:     g.ID,
		Mode:       string(g.Mode),
		Secret:     g.Secret(),
		Won:        res.Win,
		Guesses:    g.MaxAttempts() - res.AttemptsLeft,
		StartedAt:  g.CreatedAt,
		FinishedAt: m.now().UTC(),
	}
	if g.Mode == game.ModeDaily {
		r.Day = daily.DateKey(g.CreatedAt)
	}
	if err := m.recorder.Record(context.WithoutCancel(ctx), r); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("record finished game")
	}
}

// GetStatus returns a snapshot of the session. Calling it never mutates anything.
func (m *Manager) GetStatus(ctx context.Context, id string) (game.Status, error) {
	g, err := m.store.Get(ctx, id)
	if err != nil {
		return game.Status{}, err
	}
	return g.Status(), nil
}

// Today returns the date key of the current daily word.
func (m *Manager) Today() string { return daily.DateKey(m.now()) }

// MaxAttempts returns the per-game attempt budget.
func (m *Manager) MaxAttempts() int { return m.cfg.MaxAttempts }

// WordLength returns the length of every secret.
func (m *Manager) WordLength() int { return m.dict.WordLength() }
