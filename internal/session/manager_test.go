package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/wordle/apps/guess-server/internal/daily"
	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
	"github.com/robalobadob/wordle/apps/guess-server/internal/history"
	"github.com/robalobadob/wordle/apps/guess-server/internal/store"
	"github.com/robalobadob/wordle/apps/guess-server/internal/words"
)

type fakeRecorder struct {
	mu      sync.Mutex
	results []history.Result
	ctxErrs []error
	err     error
}

func (f *fakeRecorder) Record(ctx context.Context, r history.Result) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, r)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	return f.err
}

func newManager(t *testing.T, list []string, opts ...Option) (*Manager, store.Store) {
	t.Helper()
	dict, err := words.New(list, 5)
	require.NoError(t, err)
	st := store.NewMemoryStore()
	m, err := NewManager(st, dict, Config{MaxAttempts: 6, DailySalt: "salt"}, opts...)
	require.NoError(t, err)
	return m, st
}

func TestNewManagerValidates(t *testing.T) {
	dict, err := words.New([]string{"crane"}, 5)
	require.NoError(t, err)

	_, err = NewManager(store.NewMemoryStore(), nil, Config{MaxAttempts: 6})
	assert.ErrorIs(t, err, game.ErrConfiguration)

	_, err = NewManager(store.NewMemoryStore(), dict, Config{MaxAttempts: 0})
	assert.ErrorIs(t, err, game.ErrConfiguration)

	_, err = NewManager(nil, dict, Config{MaxAttempts: 6})
	assert.ErrorIs(t, err, game.ErrConfiguration)
}

func TestStartGameFreshActiveSession(t *testing.T) {
	ctx := context.Background()
	m, st := newManager(t, []string{"crane", "pilot"})

	ids := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := m.StartGame(ctx, "")
		require.NoError(t, err)
		assert.False(t, ids[id], "id %s reused", id)
		ids[id] = true

		status, err := m.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, status.Guesses)
		assert.False(t, status.Finished)
		assert.Equal(t, game.StateActive, status.State)
		assert.Equal(t, 6, status.AttemptsLeft)

		g, err := st.Get(ctx, id)
		require.NoError(t, err)
		assert.Contains(t, []string{"crane", "pilot"}, g.Secret())
		assert.Equal(t, game.ModeRandom, g.Mode)
	}
	assert.Equal(t, 50, st.Len(ctx))
}

func TestStartGameRetriesIDCollision(t *testing.T) {
	ctx := context.Background()
	ids := []string{"dup", "dup", "fresh"}
	next := 0
	m, _ := newManager(t, []string{"crane"}, WithIDGenerator(func() string {
		id := ids[next]
		next++
		return id
	}))

	first, err := m.StartGame(ctx, game.ModeRandom)
	require.NoError(t, err)
	assert.Equal(t, "dup", first)

	second, err := m.StartGame(ctx, game.ModeRandom)
	require.NoError(t, err)
	assert.Equal(t, "fresh", second)
}

func TestStartGameGivesUpAfterRepeatedCollisions(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, []string{"crane"}, WithIDGenerator(func() string { return "same" }))

	_, err := m.StartGame(ctx, game.ModeRandom)
	require.NoError(t, err)

	_, err = m.StartGame(ctx, game.ModeRandom)
	assert.ErrorIs(t, err, store.ErrExists)
}

func TestStartGameDaily(t *testing.T) {
	ctx := context.Background()
	list := []string{"crane", "pilot", "abbey", "sixth", "react"}
	day := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	m, st := newManager(t, list, WithClock(func() time.Time { return day }))

	a, err := m.StartGame(ctx, game.ModeDaily)
	require.NoError(t, err)
	b, err := m.StartGame(ctx, game.ModeDaily)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	ga, err := st.Get(ctx, a)
	require.NoError(t, err)
	gb, err := st.Get(ctx, b)
	require.NoError(t, err)

	assert.Equal(t, list[daily.For(day, "salt", len(list)).Index], ga.Secret())
	assert.Equal(t, ga.Secret(), gb.Secret())
	assert.Equal(t, game.ModeDaily, ga.Mode)
}

func TestStartDailyReportsDayOfItsWord(t *testing.T) {
	ctx := context.Background()
	list := []string{"crane", "pilot", "abbey", "sixth", "react"}
	before := time.Date(2026, 10, 19, 23, 59, 59, 999e6, time.UTC)
	reads := 0
	clock := func() time.Time {
		reads++
		if reads == 1 {
			return before
		}
		return before.Add(time.Millisecond)
	}
	m, st := newManager(t, list, WithClock(clock))

	id, day, err := m.StartDaily(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", day)
	assert.Equal(t, "2026-10-20", m.Today(), "clock has moved past midnight")

	g, err := st.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, game.ModeDaily, g.Mode)
	assert.Equal(t, day, daily.DateKey(g.CreatedAt))
	assert.Equal(t, list[daily.For(before, "salt", len(list)).Index], g.Secret())
}

func TestStartGameUnknownMode(t *testing.T) {
	m, st := newManager(t, []string{"crane"})

	_, err := m.StartGame(context.Background(), game.Mode("hard"))
	assert.ErrorIs(t, err, ErrUnknownMode)
	assert.Zero(t, st.Len(context.Background()))
}

func TestSubmitGuessUnknownID(t *testing.T) {
	ctx := context.Background()
	m, st := newManager(t, []string{"crane"})

	_, err := m.SubmitGuess(ctx, "missing", "crane")
	assert.ErrorIs(t, err, game.ErrNotFound)
	assert.Zero(t, st.Len(ctx))

	_, err = m.GetStatus(ctx, "missing")
	assert.ErrorIs(t, err, game.ErrNotFound)
}

func TestSubmitGuessFlow(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	m, _ := newManager(t, []string{"abbey"}, WithRecorder(rec))

	id, err := m.StartGame(ctx, "")
	require.NoError(t, err)

	_, err = m.SubmitGuess(ctx, id, "abbeys")
	assert.ErrorIs(t, err, game.ErrLengthMismatch)

	res, err := m.SubmitGuess(ctx, id, "EABBA")
	require.NoError(t, err)
	assert.Equal(t, []game.Mark{game.MarkPresent, game.MarkPresent, game.MarkExact, game.MarkPresent, game.MarkAbsent}, res.Feedback)
	assert.False(t, res.Win)
	assert.Equal(t, 5, res.AttemptsLeft)

	res, err = m.SubmitGuess(ctx, id, "abbey")
	require.NoError(t, err)
	assert.True(t, res.Win)
	assert.Equal(t, 4, res.AttemptsLeft)

	status, err := m.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.Finished)
	assert.Equal(t, game.StateWon, status.State)
	assert.Equal(t, 4, status.AttemptsLeft)
	require.Len(t, status.Guesses, 2)
	assert.Equal(t, "eabba", status.Guesses[0].Word)

	_, err = m.SubmitGuess(ctx, id, "abbey")
	assert.ErrorIs(t, err, game.ErrNoAttemptsLeft)

	require.Len(t, rec.results, 1)
	got := rec.results[0]
	assert.Equal(t, id, got.GameID)
	assert.True(t, got.Won)
	assert.Equal(t, 2, got.Guesses)
	assert.Equal(t, "abbey", got.Secret)
	assert.Equal(t, "random", got.Mode)
}

func TestSubmitGuessExhausted(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{err: errors.New("disk full")}
	m, _ := newManager(t, []string{"crane"}, WithRecorder(rec))

	id, err := m.StartGame(ctx, "")
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		_, err := m.SubmitGuess(ctx, id, "pilot")
		require.NoError(t, err, "recorder failures must not surface")
	}
	for i := 0; i < 3; i++ {
		_, err := m.SubmitGuess(ctx, id, "crane")
		assert.ErrorIs(t, err, game.ErrNoAttemptsLeft)
	}

	status, err := m.GetStatus(ctx, id)
	require.NoError(t, err)
	assert.True(t, status.Finished)
	assert.Equal(t, game.StateExhausted, status.State)
	assert.Zero(t, status.AttemptsLeft)
	assert.Len(t, status.Guesses, 6)

	require.Len(t, rec.results, 1)
	assert.False(t, rec.results[0].Won)
	assert.Equal(t, 6, rec.results[0].Guesses)
}

func TestRecordSurvivesCancelledRequest(t *testing.T) {
	rec := &fakeRecorder{}
	m, _ := newManager(t, []string{"crane"}, WithRecorder(rec))

	id, err := m.StartGame(context.Background(), "")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := m.SubmitGuess(ctx, id, "crane")
	require.NoError(t, err)
	assert.True(t, res.Win)

	require.Len(t, rec.results, 1)
	assert.NoError(t, rec.ctxErrs[0])
}

func TestGetStatusIdempotent(t *testing.T) {
	ctx := context.Background()
	m, _ := newManager(t, []string{"crane"})

	id, err := m.StartGame(ctx, "")
	require.NoError(t, err)
	_, err = m.SubmitGuess(ctx, id, "react")
	require.NoError(t, err)

	first, err := m.GetStatus(ctx, id)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := m.GetStatus(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestSubmitGuessConcurrentSameSession(t *testing.T) {
	ctx := context.Background()
	rec := &fakeRecorder{}
	m, _ := newManager(t, []string{"crane"}, WithRecorder(rec))

	id, err := m.StartGame(ctx, "")
	require.NoError(t, err)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		left = map[int]int{}
	)
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := m.SubmitGuess(ctx, id, "pilot")
			if err != nil {
				assert.ErrorIs(t, err, game.ErrNoAttemptsLeft)
				return
			}
			mu.Lock()
			left[res.AttemptsLeft]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, map[int]int{0: 1, 1: 1, 2: 1, 3: 1, 4: 1, 5: 1}, left)
	assert.Len(t, rec.results, 1)
}

func TestPolicyAccessors(t *testing.T) {
	m, _ := newManager(t, []string{"crane"})
	assert.Equal(t, 6, m.MaxAttempts())
	assert.Equal(t, 5, m.WordLength())
}
