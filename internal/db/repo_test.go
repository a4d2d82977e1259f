package db

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/pkg/api"
)

func setupTestDB(t *testing.T) (Repo, context.Context) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	repo, closer, err := Open(ctx, "sqlite://"+dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })
	return repo, ctx
}

// repos runs fn against both implementations.
func repos(t *testing.T, fn func(t *testing.T, repo Repo, ctx context.Context)) {
	t.Run("sqlite", func(t *testing.T) {
		repo, ctx := setupTestDB(t)
		fn(t, repo, ctx)
	})
	t.Run("mem", func(t *testing.T) {
		fn(t, NewMemRepo(), context.Background())
	})
}

func TestRepoTablesFieldsRecords(t *testing.T) {
	repos(t, func(t *testing.T, repo Repo, ctx context.Context) {
		tbl, err := repo.CreateTable(ctx, "Docs")
		require.NoError(t, err)
		_, err = repo.CreateTable(ctx, "Docs")
		assert.ErrorIs(t, err, ErrConflict)

		got, err := repo.TableByName(ctx, "Docs")
		require.NoError(t, err)
		assert.Equal(t, tbl, got)
		_, err = repo.TableByName(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)

		body, err := repo.AddField(ctx, tbl.ID, "Body", api.FieldText)
		require.NoError(t, err)
		_, err = repo.AddField(ctx, tbl.ID, "Score", api.FieldNumber)
		require.NoError(t, err)
		_, err = repo.AddField(ctx, tbl.ID, "Body", api.FieldText)
		assert.ErrorIs(t, err, ErrConflict)

		fields, err := repo.ListFields(ctx, tbl.ID)
		require.NoError(t, err)
		require.Len(t, fields, 2)
		assert.Equal(t, "Body", fields[0].Name)
		assert.Equal(t, api.FieldNumber, fields[1].Type)

		f, err := repo.FieldByID(ctx, tbl.ID, body.ID)
		require.NoError(t, err)
		assert.Equal(t, body, f)
		_, err = repo.FieldByID(ctx, tbl.ID, "nope")
		assert.ErrorIs(t, err, ErrNotFound)

		r1, err := repo.AddRecord(ctx, tbl.ID)
		require.NoError(t, err)
		r2, err := repo.AddRecord(ctx, tbl.ID)
		require.NoError(t, err)
		recs, err := repo.ListRecords(ctx, tbl.ID)
		require.NoError(t, err)
		assert.Equal(t, []api.Record{r1, r2}, recs)
	})
}

func TestRepoCells(t *testing.T) {
	repos(t, func(t *testing.T, repo Repo, ctx context.Context) {
		tbl, err := repo.CreateTable(ctx, "Docs")
		require.NoError(t, err)
		f, err := repo.AddField(ctx, tbl.ID, "Body", api.FieldText)
		require.NoError(t, err)
		r, err := repo.AddRecord(ctx, tbl.ID)
		require.NoError(t, err)

		raw, err := repo.GetCell(ctx, f.ID, r.ID)
		require.NoError(t, err)
		assert.Nil(t, raw)

		changed, err := repo.SetCell(ctx, r.ID, f.ID, "# hi")
		require.NoError(t, err)
		assert.True(t, changed)

		changed, err = repo.SetCell(ctx, r.ID, f.ID, "# hi")
		require.NoError(t, err)
		assert.False(t, changed, "same content is a no-op")

		spans := []api.Span{{Type: api.SpanText, Text: "a"}, {Type: api.SpanText, Text: "b"}}
		changed, err = repo.SetCell(ctx, r.ID, f.ID, spans)
		require.NoError(t, err)
		assert.True(t, changed)

		raw, err = repo.GetCell(ctx, f.ID, r.ID)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"type":"text","text":"a"},{"type":"text","text":"b"}]`, string(raw))

		_, err = repo.SetCell(ctx, r.ID, f.ID, json.RawMessage(`{bad`))
		assert.Error(t, err)
	})
}

func TestSQLiteSetCellUnknownRecord(t *testing.T) {
	repo, ctx := setupTestDB(t)
	tbl, err := repo.CreateTable(ctx, "Docs")
	require.NoError(t, err)
	f, err := repo.AddField(ctx, tbl.ID, "Body", api.FieldText)
	require.NoError(t, err)
	_, err = repo.SetCell(ctx, "recMissing", f.ID, "x")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteTxBatch(t *testing.T) {
	repo, ctx := setupTestDB(t)
	tp, ok := repo.(TxProvider)
	require.True(t, ok)

	tbl, err := repo.CreateTable(ctx, "Docs")
	require.NoError(t, err)

	tx, err := tp.BeginTx(ctx)
	require.NoError(t, err)
	txCtx := WithTx(ctx, tx)
	_, err = repo.AddRecord(txCtx, tbl.ID)
	require.NoError(t, err)
	require.NoError(t, tx.Rollback())

	recs, err := repo.ListRecords(ctx, tbl.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestBaseActiveTable(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRepo()
	base := NewBase(repo, host.NewBus(), "")

	_, err := base.ActiveTable(ctx)
	assert.ErrorIs(t, err, host.ErrNoActiveTable)

	_, err = repo.CreateTable(ctx, "Roadmap")
	require.NoError(t, err)
	notes, err := repo.CreateTable(ctx, "Release Notes")
	require.NoError(t, err)

	tbl, err := base.ActiveTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Roadmap", tbl.Meta().Name)

	tbl, err = NewBase(repo, host.NewBus(), "release").ActiveTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, notes.ID, tbl.Meta().ID)

	_, err = NewBase(repo, host.NewBus(), "zzz").ActiveTable(ctx)
	assert.ErrorIs(t, err, host.ErrNoActiveTable)
}

func TestTableCellValues(t *testing.T) {
	ctx := context.Background()
	repo := NewMemRepo()
	meta, err := repo.CreateTable(ctx, "Docs")
	require.NoError(t, err)
	f, err := repo.AddField(ctx, meta.ID, "Body", api.FieldText)
	require.NoError(t, err)
	r, err := repo.AddRecord(ctx, meta.ID)
	require.NoError(t, err)
	tbl := NewTable(repo, meta)

	fm, err := tbl.GetFieldMetaByID(ctx, f.ID)
	require.NoError(t, err)
	require.NotNil(t, fm)
	assert.True(t, fm.IsText())

	fm, err = tbl.GetFieldMetaByID(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, fm)

	v, err := tbl.GetCellValue(ctx, f.ID, r.ID)
	require.NoError(t, err)
	assert.Nil(t, v)

	_, err = repo.SetCell(ctx, r.ID, f.ID, "plain")
	require.NoError(t, err)
	v, err = tbl.GetCellValue(ctx, f.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "plain", v)

	_, err = repo.SetCell(ctx, r.ID, f.ID, map[string]any{"value": "x"})
	require.NoError(t, err)
	v, err = tbl.GetCellValue(ctx, f.ID, r.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"value": "x"}, v)
}
