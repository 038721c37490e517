// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Sessions live for the lifetime of the process; there is no eviction.
//
// Characteristics:
//   - Stores *game.Game objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Insert refuses to overwrite, so an id is handed out at most once.
//   - Get wraps game.ErrNotFound for missing ids.

package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
)

// ErrExists is returned by Insert when the id is already taken.
var ErrExists = errors.New("game id already exists")

// Store defines the session map used by the session manager.
// Per-game mutation is serialized by the *game.Game itself.
type Store interface {
	// Insert adds a new game. Returns ErrExists if g.ID is taken.
	Insert(ctx context.Context, g *game.Game) error

	// Get retrieves a game by ID.
	// Returns an error wrapping game.ErrNotFound if the game is not found.
	Get(ctx context.Context, id string) (*game.Game, error)

	// Len reports the number of stored games.
	Len(ctx context.Context) int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu    sync.RWMutex          // guards games map
	games map[string]*game.Game // keyed by Game.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{games: make(map[string]*game.Game)}
}

func (m *memory) Insert(ctx context.Context, g *game.Game) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.games[g.ID]; ok {
		return fmt.Errorf("%w: %s", ErrExists, g.ID)
	}
	m.games[g.ID] = g
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Game, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if g, ok := m.games[id]; ok {
		return g, nil
	}
	return nil, fmt.Errorf("%w: %s", game.ErrNotFound, id)
}

func (m *memory) Len(ctx context.Context) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.games)
}
