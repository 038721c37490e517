// internal/daily/daily.go
//
// Word-of-the-day selection.
// Every caller with the same salt lands on the same dictionary slot for a
// given UTC day, so no shared state is needed between processes.
//
// The day key and the index are derived from one clock reading (see For),
// so a game started just before midnight is filed under the day whose word
// it was given.

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// Word is the daily slot for one UTC day.
type Word struct {
	Day   string // YYYY-MM-DD
	Index int    // position in the dictionary
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// For returns the day key of t and its word index among n words.
func For(t time.Time, salt string, n int) Word {
	day := DateKey(t)
	return Word{Day: day, Index: index(day, salt, n)}
}

// index is HMAC-SHA256(salt, day) reduced mod n; 0 when n <= 0.
func index(day, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(day))
	v := binary.BigEndian.Uint64(h.Sum(nil)[:8])
	return int(v % uint64(n))
}
