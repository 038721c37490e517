// internal/words/words.go
//
// Provides the secret-word dictionary for the session manager.
//
// Responsibilities:
//   - Load the word list from a file (WORDS_FILE) or fall back to the embedded default.
//   - Keep only lowercase alphabetic words of the configured length.
//   - Pick uniformly random secrets with crypto/rand.
//
// Constraints:
//   • A Dictionary is immutable once built and safe for concurrent use.
//   • An empty dictionary is a configuration error, reported at startup.

package words

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"

	"github.com/robalobadob/wordle/apps/guess-server/assets"
	"github.com/robalobadob/wordle/apps/guess-server/internal/game"
)

// Dictionary is an immutable list of candidate secrets of a single length.
type Dictionary struct {
	words  []string
	length int
}

// Load reads the word list at path, or the embedded default when path is empty,
// and builds a Dictionary of words with exactly length letters.
func Load(path string, length int) (*Dictionary, error) {
	var (
		list []string
		err  error
	)
	if path == "" {
		list, err = assets.WordList()
	} else {
		list, err = readWordFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: load words: %v", game.ErrConfiguration, err)
	}
	return New(list, length)
}

// New builds a Dictionary from list. Entries are trimmed and lowercased;
// duplicates and words that are not length a–z letters are dropped.
func New(list []string, length int) (*Dictionary, error) {
	if length <= 0 {
		return nil, fmt.Errorf("%w: word length must be positive, got %d", game.ErrConfiguration, length)
	}
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, w := range list {
		w = strings.TrimSpace(strings.ToLower(w))
		if len(w) != length || !isAlpha(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no %d-letter words in dictionary", game.ErrConfiguration, length)
	}
	return &Dictionary{words: out, length: length}, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return assets.ReadLines(f)
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// Random returns a uniformly random word.
func (d *Dictionary) Random() string {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(d.words))))
	if err != nil {
		// crypto/rand failing means the OS entropy source is broken.
		panic(fmt.Sprintf("words: random index: %v", err))
	}
	return d.words[n.Int64()]
}

// At returns the i-th word; i must be in [0, Len()).
func (d *Dictionary) At(i int) string { return d.words[i] }

// Len returns the number of words.
func (d *Dictionary) Len() int { return len(d.words) }

// WordLength returns the length shared by every word.
func (d *Dictionary) WordLength() int { return d.length }
