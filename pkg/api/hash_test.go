package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellDigest(t *testing.T) {
	v := []byte(`"# Title"`)

	t.Run("identical cells produce identical digests", func(t *testing.T) {
		assert.Equal(t, CellDigest("rec1", "fld1", v), CellDigest("rec1", "fld1", v))
	})

	t.Run("value change alters digest", func(t *testing.T) {
		assert.NotEqual(t, CellDigest("rec1", "fld1", v), CellDigest("rec1", "fld1", []byte(`"# Other"`)))
	})

	t.Run("ids are delimited", func(t *testing.T) {
		assert.NotEqual(t, CellDigest("rec1", "fld1", v), CellDigest("rec1f", "ld1", v))
	})

	t.Run("hex encoded 256-bit sum", func(t *testing.T) {
		assert.Len(t, CellDigest("", "", nil), 64)
	})
}

func TestSelectionEventComplete(t *testing.T) {
	var nilEv *SelectionEvent
	assert.False(t, nilEv.Complete())
	assert.False(t, (&SelectionEvent{FieldID: "f"}).Complete())
	assert.False(t, (&SelectionEvent{RecordID: "r"}).Complete())
	assert.True(t, (&SelectionEvent{FieldID: "f", RecordID: "r"}).Complete())
}

func TestNewIDPrefix(t *testing.T) {
	a := NewID("rec")
	b := NewID("rec")
	assert.Equal(t, "rec", a[:3])
	assert.NotEqual(t, a, b)
}
