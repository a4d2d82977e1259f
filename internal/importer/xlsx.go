// Package importer loads spreadsheet workbooks into a local base.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"github.com/mithrel/cellmark/internal/db"
	"github.com/mithrel/cellmark/pkg/api"
)

// ErrNoSheet indicates the requested sheet is not in the workbook.
var ErrNoSheet = errors.New("sheet not found")

// ErrNoHeader indicates the header row is missing or blank.
var ErrNoHeader = errors.New("header row is empty")

type Options struct {
	// Sheet defaults to the first sheet.
	Sheet string
	// Table defaults to the sheet name.
	Table string
	// HeaderRow is the 1-based row holding field names; default 1.
	HeaderRow int
}

type Result struct {
	Table     api.TableMeta
	Sheet     string
	Fields    int
	Records   int
	Written   int
	Unchanged int
}

// ImportFile opens an xlsx file and imports one sheet of it.
func ImportFile(ctx context.Context, repo db.Repo, path string, opts Options) (Result, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return Import(ctx, repo, f, opts)
}

// Import copies one sheet into a table. Header cells become fields, every
// following non-blank row a record. Re-importing into the same table
// reuses records by position, so unchanged cells are left alone.
func Import(ctx context.Context, repo db.Repo, f *excelize.File, opts Options) (res Result, err error) {
	sheet, err := pickSheet(f, opts.Sheet)
	if err != nil {
		return Result{}, err
	}
	res.Sheet = sheet
	headerRow := opts.HeaderRow
	if headerRow <= 0 {
		headerRow = 1
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, err
	}
	if len(rows) < headerRow || blank(rows[headerRow-1]) {
		return Result{}, fmt.Errorf("%w: sheet %q row %d", ErrNoHeader, sheet, headerRow)
	}
	header := rows[headerRow-1]
	data := rows[headerRow:]

	if tp, ok := repo.(db.TxProvider); ok {
		tx, err := tp.BeginTx(ctx)
		if err != nil {
			return Result{}, err
		}
		defer func() {
			if err != nil {
				_ = tx.Rollback()
				return
			}
			err = tx.Commit()
		}()
		ctx = db.WithTx(ctx, tx)
	}

	name := strings.TrimSpace(opts.Table)
	if name == "" {
		name = sheet
	}
	table, err := repo.TableByName(ctx, name)
	if errors.Is(err, db.ErrNotFound) {
		table, err = repo.CreateTable(ctx, name)
	}
	if err != nil {
		return Result{}, err
	}
	res.Table = table

	fields, err := ensureFields(ctx, repo, table.ID, header, data)
	if err != nil {
		return Result{}, err
	}
	for _, fm := range fields {
		if fm != nil {
			res.Fields++
		}
	}

	records, err := repo.ListRecords(ctx, table.ID)
	if err != nil {
		return Result{}, err
	}
	for i, row := range data {
		if blank(row) {
			continue
		}
		var rec api.Record
		if n := res.Records; n < len(records) {
			rec = records[n]
		} else {
			rec, err = repo.AddRecord(ctx, table.ID)
			if err != nil {
				return Result{}, err
			}
		}
		res.Records++
		rowNum := headerRow + 1 + i
		for col, raw := range row {
			if col >= len(fields) || fields[col] == nil || raw == "" {
				continue
			}
			value, err := cellValue(f, sheet, col+1, rowNum, raw, fields[col].Type)
			if err != nil {
				return Result{}, err
			}
			changed, err := repo.SetCell(ctx, rec.ID, fields[col].ID, value)
			if err != nil {
				return Result{}, err
			}
			if changed {
				res.Written++
			} else {
				res.Unchanged++
			}
		}
	}
	log.Info().
		Str("table", table.Name).
		Str("sheet", sheet).
		Int("records", res.Records).
		Int("written", res.Written).
		Int("unchanged", res.Unchanged).
		Msg("import finished")
	return res, nil
}

func pickSheet(f *excelize.File, want string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", ErrNoSheet
	}
	if want == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if strings.EqualFold(s, want) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrNoSheet, want)
}

// ensureFields maps each header column to a field, creating missing ones
// with a type inferred from the column's values. Blank headers map to nil.
func ensureFields(ctx context.Context, repo db.Repo, tableID string, header []string, data [][]string) ([]*api.FieldMeta, error) {
	existing, err := repo.ListFields(ctx, tableID)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]api.FieldMeta, len(existing))
	for _, f := range existing {
		byName[f.Name] = f
	}
	out := make([]*api.FieldMeta, len(header))
	for col, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			continue
		}
		fm, ok := byName[name]
		if !ok {
			fm, err = repo.AddField(ctx, tableID, name, inferType(data, col))
			if err != nil {
				return nil, fmt.Errorf("add field %q: %w", name, err)
			}
			byName[name] = fm
		}
		out[col] = &fm
	}
	return out, nil
}

func inferType(data [][]string, col int) api.FieldType {
	seen := 0
	numeric, boolean := true, true
	for _, row := range data {
		if col >= len(row) || row[col] == "" {
			continue
		}
		seen++
		v := row[col]
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			numeric = false
		}
		if u := strings.ToUpper(v); u != "TRUE" && u != "FALSE" {
			boolean = false
		}
	}
	switch {
	case seen == 0:
		return api.FieldText
	case numeric:
		return api.FieldNumber
	case boolean:
		return api.FieldCheckbox
	default:
		return api.FieldText
	}
}

// cellValue builds the stored value for one cell. Text cells with several
// rich-text runs become a span sequence; hyperlinked text keeps its target.
func cellValue(f *excelize.File, sheet string, col, row int, raw string, typ api.FieldType) (any, error) {
	switch typ {
	case api.FieldNumber:
		if n, err := strconv.ParseFloat(raw, 64); err == nil {
			return n, nil
		}
		return raw, nil
	case api.FieldCheckbox:
		return strings.EqualFold(raw, "TRUE"), nil
	case api.FieldText:
	default:
		return raw, nil
	}
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return nil, err
	}
	if ok, target, err := f.GetCellHyperLink(sheet, cell); err == nil && ok && target != "" {
		return map[string]string{"text": raw, "link": target}, nil
	}
	runs, err := f.GetCellRichText(sheet, cell)
	if err != nil || len(runs) < 2 {
		return raw, nil
	}
	spans := make([]api.Span, 0, len(runs))
	for _, r := range runs {
		spans = append(spans, api.Span{Type: api.SpanText, Text: r.Text})
	}
	return spans, nil
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
