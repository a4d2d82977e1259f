package importer

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mithrel/cellmark/internal/cellvalue"
	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/pkg/api"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := "Sheet1"

	require.NoError(t, f.SetCellValue(sheet, "A1", "Title"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Body"))
	require.NoError(t, f.SetCellValue(sheet, "C1", "Score"))
	require.NoError(t, f.SetCellValue(sheet, "D1", "Done"))

	require.NoError(t, f.SetCellValue(sheet, "A2", "first"))
	require.NoError(t, f.SetCellValue(sheet, "B2", "# Heading\n\nplain body"))
	require.NoError(t, f.SetCellValue(sheet, "C2", 10))
	require.NoError(t, f.SetCellValue(sheet, "D2", true))

	// row 3 is left blank

	require.NoError(t, f.SetCellValue(sheet, "A4", "second"))
	require.NoError(t, f.SetCellRichText(sheet, "B4", []excelize.RichTextRun{
		{Text: "**bold** ", Font: &excelize.Font{Bold: true}},
		{Text: "tail"},
	}))
	require.NoError(t, f.SetCellValue(sheet, "C4", 2.5))
	require.NoError(t, f.SetCellValue(sheet, "D4", false))

	require.NoError(t, f.SetCellValue(sheet, "A5", "third"))
	require.NoError(t, f.SetCellValue(sheet, "B5", "see docs"))
	require.NoError(t, f.SetCellHyperLink(sheet, "B5", "https://example.com/docs", "External"))

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func cellText(t *testing.T, repo db.Repo, fieldID, recordID string) string {
	t.Helper()
	raw, err := repo.GetCell(context.Background(), fieldID, recordID)
	require.NoError(t, err)
	var v any
	require.NoError(t, json.Unmarshal(raw, &v))
	return cellvalue.Normalize(v)
}

func TestImportFile(t *testing.T) {
	ctx := context.Background()
	repo := db.NewMemRepo()
	path := writeWorkbook(t)

	res, err := ImportFile(ctx, repo, path, Options{Table: "Docs"})
	require.NoError(t, err)
	assert.Equal(t, "Docs", res.Table.Name)
	assert.Equal(t, "Sheet1", res.Sheet)
	assert.Equal(t, 4, res.Fields)
	assert.Equal(t, 3, res.Records)
	assert.Equal(t, 10, res.Written)

	fields, err := repo.ListFields(ctx, res.Table.ID)
	require.NoError(t, err)
	require.Len(t, fields, 4)
	assert.Equal(t, api.FieldText, fields[0].Type)
	assert.Equal(t, api.FieldText, fields[1].Type)
	assert.Equal(t, api.FieldNumber, fields[2].Type)
	assert.Equal(t, api.FieldCheckbox, fields[3].Type)

	recs, err := repo.ListRecords(ctx, res.Table.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)

	body := fields[1].ID
	assert.Equal(t, "# Heading\n\nplain body", cellText(t, repo, body, recs[0].ID))
	assert.Equal(t, "**bold** tail", cellText(t, repo, body, recs[1].ID))
	assert.Equal(t, "see docs", cellText(t, repo, body, recs[2].ID))

	raw, err := repo.GetCell(ctx, body, recs[1].ID)
	require.NoError(t, err)
	assert.Equal(t, cellvalue.SpanSequence, cellvalue.Parse(json.RawMessage(raw)).Kind)

	raw, err = repo.GetCell(ctx, fields[2].ID, recs[1].ID)
	require.NoError(t, err)
	assert.JSONEq(t, "2.5", string(raw))

	t.Run("reimport leaves unchanged cells alone", func(t *testing.T) {
		again, err := ImportFile(ctx, repo, path, Options{Table: "Docs"})
		require.NoError(t, err)
		assert.Equal(t, 0, again.Written)
		assert.Equal(t, 10, again.Unchanged)
		recs2, err := repo.ListRecords(ctx, res.Table.ID)
		require.NoError(t, err)
		assert.Equal(t, recs, recs2)
	})
}

func TestImportIntoSQLite(t *testing.T) {
	ctx := context.Background()
	repo, closer, err := db.Open(ctx, "sqlite://"+filepath.Join(t.TempDir(), "base.db"))
	require.NoError(t, err)
	defer closer.Close()

	res, err := ImportFile(ctx, repo, writeWorkbook(t), Options{})
	require.NoError(t, err)
	assert.Equal(t, "Sheet1", res.Table.Name)
	assert.Equal(t, 3, res.Records)
}

func TestImportErrors(t *testing.T) {
	ctx := context.Background()
	path := writeWorkbook(t)

	_, err := ImportFile(ctx, db.NewMemRepo(), path, Options{Sheet: "Nope"})
	assert.ErrorIs(t, err, ErrNoSheet)

	_, err = ImportFile(ctx, db.NewMemRepo(), path, Options{HeaderRow: 3})
	assert.ErrorIs(t, err, ErrNoHeader)

	_, err = ImportFile(ctx, db.NewMemRepo(), filepath.Join(t.TempDir(), "missing.xlsx"), Options{})
	assert.Error(t, err)
}

func TestInferType(t *testing.T) {
	data := [][]string{{"1", "TRUE", "x", ""}, {"2.5", "false", "3"}}
	assert.Equal(t, api.FieldNumber, inferType(data, 0))
	assert.Equal(t, api.FieldCheckbox, inferType(data, 1))
	assert.Equal(t, api.FieldText, inferType(data, 2))
	assert.Equal(t, api.FieldText, inferType(data, 3))
}
