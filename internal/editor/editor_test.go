package editor

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeParseRoundTrip(t *testing.T) {
	body := "# Heading\n\n---\n\ntext after a rule"
	content := ComposeContent("Docs / Body / rec1", body)
	assert.Contains(t, content, "# cellmark cell: Docs / Body / rec1\n")

	got, err := ParseEdited(content)
	require.NoError(t, err)
	assert.Equal(t, body, got)
}

func TestParseEditedEmptyBody(t *testing.T) {
	got, err := ParseEdited(ComposeContent("x", ""))
	require.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestParseEditedNoSeparator(t *testing.T) {
	_, err := ParseEdited("# only comments\nbody")
	assert.ErrorIs(t, err, ErrNoSeparator)
}

func TestPathForCell(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	path, err := PathForCell("rec_1", "fld/2")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cellmark", "rec_1.fld-2.cellmark.md"), path)
}

func TestOpenAtRunsEditor(t *testing.T) {
	if _, err := exec.LookPath("sed"); err != nil {
		t.Skip("sed not available")
	}
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", "sed -i s/draft/final/")
	path := filepath.Join(t.TempDir(), "cell.md")

	out, changed, err := OpenAt(path, []byte(ComposeContent("x", "a draft")))
	require.NoError(t, err)
	assert.True(t, changed)
	body, err := ParseEdited(string(out))
	require.NoError(t, err)
	assert.Equal(t, "a final", body)
	assert.NoFileExists(t, path)
}
