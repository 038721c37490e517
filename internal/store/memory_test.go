package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
	"github.com/robalobadob/wordle/apps/guess-server/internal/store"
)

func TestMemoryInsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	g := game.New("abc", "crane", game.ModeRandom, 6)
	require.NoError(t, s.Insert(ctx, g))

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, g, got)
	assert.Equal(t, 1, s.Len(ctx))
}

func TestMemoryGetMissing(t *testing.T) {
	s := store.NewMemoryStore()

	_, err := s.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestMemoryInsertDuplicate(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	first := game.New("abc", "crane", game.ModeRandom, 6)
	require.NoError(t, s.Insert(ctx, first))

	err := s.Insert(ctx, game.New("abc", "pilot", game.ModeRandom, 6))
	assert.ErrorIs(t, err, store.ErrExists)

	got, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Same(t, first, got)
}

func TestMemoryConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("g%d", i)
			assert.NoError(t, s.Insert(ctx, game.New(id, "crane", game.ModeRandom, 6)))
			_, err := s.Get(ctx, id)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 100, s.Len(ctx))
}
