package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellCacheLifecycle(t *testing.T) {
	c := New()

	_, ok := c.Get("rec1", "fld1")
	require.False(t, ok)

	c.Set("rec1", "fld1", "# hi")
	got, ok := c.Get("rec1", "fld1")
	require.True(t, ok)
	assert.Equal(t, "# hi", got)
	assert.Equal(t, 1, c.Len())

	// empty text is still a hit
	c.Set("rec1", "fld2", "")
	got, ok = c.Get("rec1", "fld2")
	require.True(t, ok)
	assert.Equal(t, "", got)

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok = c.Get("rec1", "fld1")
	assert.False(t, ok)
}

func TestCellCacheKeysAreDistinct(t *testing.T) {
	c := New()
	c.Set("rec1", "fld1", "a")
	c.Set("fld1", "rec1", "b")
	a, _ := c.Get("rec1", "fld1")
	b, _ := c.Get("fld1", "rec1")
	assert.Equal(t, "a", a)
	assert.Equal(t, "b", b)
}

func TestCellCacheLastWriteWins(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Set("rec", "fld", "same")
		}()
	}
	wg.Wait()
	got, ok := c.Get("rec", "fld")
	require.True(t, ok)
	assert.Equal(t, "same", got)
	assert.Equal(t, 1, c.Len())
}
