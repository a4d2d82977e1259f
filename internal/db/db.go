package db

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/mithrel/cellmark/pkg/api"
)

// Repo is the storage side of a local base: tables, their typed fields,
// records and the JSON-encoded cells at each (record, field).
type Repo interface {
	ListTables(ctx context.Context) ([]api.TableMeta, error)
	CreateTable(ctx context.Context, name string) (api.TableMeta, error)
	TableByName(ctx context.Context, name string) (api.TableMeta, error)

	ListFields(ctx context.Context, tableID string) ([]api.FieldMeta, error)
	AddField(ctx context.Context, tableID, name string, typ api.FieldType) (api.FieldMeta, error)
	FieldByID(ctx context.Context, tableID, fieldID string) (api.FieldMeta, error)

	ListRecords(ctx context.Context, tableID string) ([]api.Record, error)
	AddRecord(ctx context.Context, tableID string) (api.Record, error)

	// GetCell returns the stored JSON, or nil when the cell is empty.
	GetCell(ctx context.Context, fieldID, recordID string) (json.RawMessage, error)
	// SetCell stores value and reports whether the stored content changed.
	SetCell(ctx context.Context, recordID, fieldID string, value any) (bool, error)
}

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Open returns a Repo for a DSN of the form sqlite://path.
func Open(ctx context.Context, dsn string) (Repo, io.Closer, error) {
	if dsn == "" || dsn == "mem://" {
		return NewMemRepo(), nopCloser{}, nil
	}
	if !strings.HasPrefix(dsn, "sqlite://") {
		return nil, nil, errors.New("unsupported dsn: " + dsn)
	}
	return openSQLite(ctx, dsn)
}

// encodeCell brings a cell value to the JSON form persisted by the store.
func encodeCell(value any) (json.RawMessage, error) {
	switch x := value.(type) {
	case json.RawMessage:
		if !json.Valid(x) {
			return nil, errors.New("cell value is not valid json")
		}
		return x, nil
	default:
		return json.Marshal(value)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// decodeCell turns stored JSON back into a host cell value: a JSON string
// becomes a Go string, anything else the decoded structure.
func decodeCell(raw json.RawMessage) any {
	if raw == nil {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return raw
	}
	return v
}
