package util

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// ScoreCompletions returns the top N matches for the input string from the candidates list.
func ScoreCompletions(input string, candidates []string, n int) []string {
	if input == "" {
		return candidates
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return nil
	}

	limit := n
	if n <= 0 || len(matches) < limit {
		limit = len(matches)
	}

	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = matches[i].Str
	}
	return out
}

// MatchName picks the candidate index for a user-typed name: a
// case-insensitive exact match wins, otherwise the best fuzzy match.
func MatchName(input string, candidates []string) (int, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return -1, false
	}
	for i, c := range candidates {
		if strings.EqualFold(c, input) {
			return i, true
		}
	}
	matches := fuzzy.Find(input, candidates)
	if len(matches) == 0 {
		return -1, false
	}
	return matches[0].Index, true
}
