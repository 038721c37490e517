// internal/game/score.go
//
// Feedback scoring for one guess against the secret.
// Exact matches are claimed first; the leftover secret letters then feed
// "present" marks left to right, so repeated letters are never over-counted.

package game

// letterCounts is a multiset of the secret letters that are still available
// for a "present" match.
type letterCounts map[rune]int

// take consumes one instance of r, reporting whether one was available.
func (c letterCounts) take(r rune) bool {
	if c[r] == 0 {
		return false
	}
	c[r]--
	return true
}

// Score compares guess against secret and returns one Mark per position.
//
// Pass 1 marks exact matches and collects the remaining secret letters.
// Pass 2 walks the other positions left to right: a letter is present while
// unclaimed instances remain, absent otherwise. Earlier positions win ties.
//
// Both words must have the same number of runes; Score panics otherwise.
func Score(secret, guess string) []Mark {
	s, g := []rune(secret), []rune(guess)
	if len(s) != len(g) {
		panic("game: Score called with words of different length")
	}

	res := make([]Mark, len(g))
	remaining := make(letterCounts, len(s))

	for i := range g {
		if g[i] == s[i] {
			res[i] = MarkExact
		} else {
			remaining[s[i]]++
		}
	}

	for i := range g {
		if res[i] == MarkExact {
			continue
		}
		if remaining.take(g[i]) {
			res[i] = MarkPresent
		} else {
			res[i] = MarkAbsent
		}
	}
	return res
}

// allExact reports whether every mark is MarkExact.
func allExact(m []Mark) bool {
	for _, x := range m {
		if x != MarkExact {
			return false
		}
	}
	return true
}
