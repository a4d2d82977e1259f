package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchName(t *testing.T) {
	names := []string{"Roadmap", "Release Notes", "notes"}

	idx, ok := MatchName("NOTES", names)
	assert.True(t, ok)
	assert.Equal(t, 2, idx, "exact match beats fuzzy")

	idx, ok = MatchName("rlsnts", names)
	assert.True(t, ok)
	assert.Equal(t, 1, idx)

	_, ok = MatchName("zzz", names)
	assert.False(t, ok)

	_, ok = MatchName("  ", names)
	assert.False(t, ok)
}

func TestScoreCompletions(t *testing.T) {
	names := []string{"alpha", "beta", "alphabet"}
	assert.Equal(t, names, ScoreCompletions("", names, 2))
	got := ScoreCompletions("alp", names, 1)
	assert.Len(t, got, 1)
	assert.Nil(t, ScoreCompletions("xyz", names, 3))
}
