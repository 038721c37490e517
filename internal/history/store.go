// internal/history/store.go
//
// Finished-game archive backed by SQLite.
// Responsibilities:
//   - Record one row per finished game (idempotent on game id).
//   - Aggregate stats for /stats and the newest rows for /history.
//   - Rank the daily wins of one day for /daily/leaderboard.

package history

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"time"
)

// Result is one finished game.
type Result struct {
	GameID     string    `json:"gameId"`
	Mode       string    `json:"mode"`
	Day        string    `json:"day,omitempty"` // YYYY-MM-DD, daily games only
	Secret     string    `json:"secret"`
	Won        bool      `json:"won"`
	Guesses    int       `json:"guesses"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Summary aggregates every recorded game.
type Summary struct {
	Played       int         `json:"played"`
	Won          int         `json:"won"`
	Lost         int         `json:"lost"`
	Distribution map[int]int `json:"distribution"` // guesses used → wins
}

// elapsedMs is the play time; zero when either timestamp is missing.
func (r Result) elapsedMs() int64 {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt).Milliseconds()
}

// LBRow is one line of the daily leaderboard.
type LBRow struct {
	GameID    string `json:"gameId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store is the SQLite-backed history. It is safe for concurrent use.
type Store struct{ db *sql.DB }

// Open opens the SQLite file at dsn and applies migrations.
func Open(dsn string) (*Store, error) {
	db, err := openDB(dsn)
	if err != nil {
		return nil, err
	}
	sub, err := fs.Sub(migrations, "sql")
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := migrate(db, sub); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// Record inserts r. A second result for the same game id is ignored.
func (s *Store) Record(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO game_results(game_id, mode, day, secret, won, guesses, elapsed_ms, started_at, finished_at)
VALUES(?,?,?,?,?,?,?,?,?)`,
		r.GameID, r.Mode, r.Day, r.Secret, r.Won, r.Guesses, r.elapsedMs(),
		r.StartedAt.UTC().Format(time.RFC3339), r.FinishedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Summary counts played, won and lost games and the win distribution by guesses used.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	out := Summary{Distribution: map[int]int{}}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1), COALESCE(SUM(won), 0) FROM game_results`,
	).Scan(&out.Played, &out.Won); err != nil {
		return Summary{}, err
	}
	out.Lost = out.Played - out.Won

	rows, err := s.db.QueryContext(ctx,
		`SELECT guesses, COUNT(1) FROM game_results WHERE won=1 GROUP BY guesses`)
	if err != nil {
		return Summary{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var guesses, n int
		if err := rows.Scan(&guesses, &n); err != nil {
			return Summary{}, err
		}
		out.Distribution[guesses] = n
	}
	return out, rows.Err()
}

// Recent returns up to limit results, newest first. Default limit is 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Result, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT game_id, mode, day, secret, won, guesses, started_at, finished_at
FROM game_results
ORDER BY finished_at DESC, rowid DESC
LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0, limit)
	for rows.Next() {
		var (
			r                 Result
			started, finished string
		)
		if err := rows.Scan(&r.GameID, &r.Mode, &r.Day, &r.Secret, &r.Won, &r.Guesses, &started, &finished); err != nil {
			return nil, err
		}
		r.StartedAt = mustParse(started)
		r.FinishedAt = mustParse(finished)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Leaderboard returns the best daily wins for day (YYYY-MM-DD).
//
//   - Ordered by guesses ASC, then elapsed time ASC, then finish time ASC.
//   - Default limit is 20 if not specified.
func (s *Store) Leaderboard(ctx context.Context, day string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT game_id, guesses, elapsed_ms
        FROM game_results
        WHERE mode='daily' AND day=? AND won=1
        ORDER BY guesses ASC, elapsed_ms ASC, finished_at ASC
        LIMIT ?`, day, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.GameID, &r.Guesses, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// mustParse parses RFC3339 timestamps; on error returns zero time.
func mustParse(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}
