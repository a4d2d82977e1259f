package tui

import (
	"context"
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/cellmark/internal/clip"
	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/internal/preview"
	"github.com/mithrel/cellmark/pkg/api"
)

type fakeCopier struct {
	got []string
}

func (f *fakeCopier) Copy(text string) (clip.Method, error) {
	f.got = append(f.got, text)
	return clip.MethodClipboard, nil
}

type docsBase struct {
	base  *db.Base
	table api.TableMeta
}

// newDocsBase builds a table with a text and a number column and the given
// bodies, one record each.
func newDocsBase(t *testing.T, bodies ...string) docsBase {
	t.Helper()
	ctx := context.Background()
	repo := db.NewMemRepo()
	tbl, err := repo.CreateTable(ctx, "Docs")
	require.NoError(t, err)
	body, err := repo.AddField(ctx, tbl.ID, "Body", api.FieldText)
	require.NoError(t, err)
	score, err := repo.AddField(ctx, tbl.ID, "Score", api.FieldNumber)
	require.NoError(t, err)
	for i, b := range bodies {
		rec, err := repo.AddRecord(ctx, tbl.ID)
		require.NoError(t, err)
		_, err = repo.SetCell(ctx, rec.ID, body.ID, []api.Span{{Type: api.SpanText, Text: b}})
		require.NoError(t, err)
		_, err = repo.SetCell(ctx, rec.ID, score.ID, i)
		require.NoError(t, err)
	}
	return docsBase{base: db.NewBase(repo, host.NewBus(), ""), table: tbl}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drive feeds msg to the model and runs every resulting command to
// completion, the way the program loop would.
func drive(t *testing.T, m model, msg tea.Msg) (model, []tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(model)
	return run(t, m, cmd)
}

func run(t *testing.T, m model, cmd tea.Cmd) (model, []tea.Msg) {
	t.Helper()
	if cmd == nil {
		return m, nil
	}
	var seen []tea.Msg
	msg := cmd()
	switch x := msg.(type) {
	case nil:
	case tea.BatchMsg:
		for _, c := range x {
			var more []tea.Msg
			m, more = run(t, m, c)
			seen = append(seen, more...)
		}
	case tea.QuitMsg:
		seen = append(seen, x)
	default:
		seen = append(seen, x)
		var more []tea.Msg
		m, more = drive(t, m, x)
		seen = append(seen, more...)
	}
	return m, seen
}

func started(t *testing.T, d docsBase, opts Options) model {
	t.Helper()
	s := preview.NewSession(d.base, nil)
	t.Cleanup(s.Stop)
	m := newModel(context.Background(), s, d.base.Bus(), opts)
	m, _ = run(t, m, m.Init())
	return m
}

func TestStartSelectsFirstCell(t *testing.T) {
	d := newDocsBase(t, "# Title\nfirst", "second")
	m := started(t, d, Options{})

	require.Equal(t, preview.StateReady, m.snap.State)
	assert.True(t, m.snap.Visible)
	assert.Equal(t, "# Title\nfirst", m.snap.Content)
	require.NotNil(t, m.modal)
	assert.Equal(t, "# Title\nfirst", m.modal.raw)
	assert.NotEmpty(t, m.modal.content)
	assert.Equal(t, 1, m.snap.Cached)
	assert.Contains(t, m.renderHeader(), "Body")
}

func TestRowMoveUpdatesPreview(t *testing.T) {
	d := newDocsBase(t, "first", "second")
	m := started(t, d, Options{})

	m, _ = drive(t, m, key("down"))
	assert.Equal(t, "second", m.snap.Content)
	assert.Equal(t, 2, m.snap.Cached)
}

func TestNonTextColumnKeepsPreview(t *testing.T) {
	d := newDocsBase(t, "first")
	m := started(t, d, Options{})

	m, _ = drive(t, m, key("right"))
	assert.Equal(t, 1, m.col)
	assert.Equal(t, "first", m.snap.Content)
	assert.Contains(t, m.renderHeader(), "Score")

	// already at the last column
	m, msgs := drive(t, m, key("l"))
	assert.Equal(t, 1, m.col)
	assert.Empty(t, msgs)

	m, _ = drive(t, m, key("left"))
	assert.Equal(t, 0, m.col)
}

func TestEscClosesThenQuits(t *testing.T) {
	d := newDocsBase(t, "first")
	m := started(t, d, Options{})

	m, _ = drive(t, m, key("esc"))
	assert.False(t, m.snap.Visible)
	assert.Equal(t, "first", m.snap.Content)

	_, msgs := drive(t, m, key("esc"))
	require.Len(t, msgs, 1)
	assert.IsType(t, tea.QuitMsg{}, msgs[0])
}

func TestClearCacheAndToggleTheme(t *testing.T) {
	d := newDocsBase(t, "first")
	m := started(t, d, Options{})
	require.Equal(t, 1, m.snap.Cached)

	m, _ = drive(t, m, key("x"))
	assert.Equal(t, 0, m.snap.Cached)
	assert.Equal(t, "Cache cleared", m.status)

	m, _ = drive(t, m, key("t"))
	assert.True(t, m.snap.Dark)
	assert.Equal(t, "Dark theme", m.status)
	assert.True(t, m.modal.rendered.Dark)
}

func TestCopyRawContent(t *testing.T) {
	d := newDocsBase(t, "**bold**")
	cp := &fakeCopier{}
	m := started(t, d, Options{Copier: cp})

	m, _ = drive(t, m, key("c"))
	assert.Equal(t, []string{"**bold**"}, cp.got)
	assert.Equal(t, "Copied via clipboard", m.status)
}

func TestEmptyTablePublishesNothing(t *testing.T) {
	d := newDocsBase(t)
	var events int
	unsub, err := d.base.Bus().Subscribe(func(*api.SelectionEvent) { events++ })
	require.NoError(t, err)
	defer unsub()

	m := started(t, d, Options{})
	m, _ = drive(t, m, key("down"))
	m, _ = drive(t, m, key("right"))

	assert.Zero(t, events)
	assert.False(t, m.snap.Visible)
	assert.Contains(t, m.View(), "(no records)")
}

func TestNoTextFieldsWarning(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemRepo()
	tbl, err := repo.CreateTable(ctx, "Numbers")
	require.NoError(t, err)
	_, err = repo.AddField(ctx, tbl.ID, "Count", api.FieldNumber)
	require.NoError(t, err)
	d := docsBase{base: db.NewBase(repo, host.NewBus(), ""), table: tbl}

	m := started(t, d, Options{})
	assert.Contains(t, m.renderHeader(), "no text fields")
}

func TestStartFailureShowsError(t *testing.T) {
	d := docsBase{base: db.NewBase(db.NewMemRepo(), host.NewBus(), "")}
	m := started(t, d, Options{})

	assert.Equal(t, preview.StateFailed, m.snap.State)
	assert.Contains(t, m.renderHeader(), "no active table")
}

func TestColumnWindowFollowsCursor(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemRepo()
	tbl, err := repo.CreateTable(ctx, "Wide")
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		_, err := repo.AddField(ctx, tbl.ID, fmt.Sprintf("F%d", i), api.FieldText)
		require.NoError(t, err)
	}
	_, err = repo.AddRecord(ctx, tbl.ID)
	require.NoError(t, err)
	d := docsBase{base: db.NewBase(repo, host.NewBus(), ""), table: tbl}

	m := started(t, d, Options{})
	m, _ = drive(t, m, tea.WindowSizeMsg{Width: 60, Height: 20})
	require.Equal(t, 4, m.visibleCols())

	for i := 0; i < 5; i++ {
		m, _ = drive(t, m, key("right"))
	}
	assert.Equal(t, 5, m.col)
	assert.Equal(t, 2, m.colOff)
	cols := m.table.Columns()
	require.Len(t, cols, 4)
	assert.Equal(t, "▸ F5", cols[3].Title)
}
