// Package host describes the base application a preview session runs
// against: its tables, their fields and cells, and the stream of
// cell-selection changes.
package host

import (
	"context"
	"errors"

	"github.com/mithrel/cellmark/pkg/api"
)

// ErrNoActiveTable is returned by ActiveTable when nothing is open.
var ErrNoActiveTable = errors.New("no active table")

// Table is the read side of one table in the base.
type Table interface {
	Meta() api.TableMeta
	GetFieldMetaList(ctx context.Context) ([]api.FieldMeta, error)
	// GetFieldMetaByID returns (nil, nil) when the field does not exist.
	GetFieldMetaByID(ctx context.Context, fieldID string) (*api.FieldMeta, error)
	// GetCellValue returns a string or a JSON-like value (maps, slices).
	GetCellValue(ctx context.Context, fieldID, recordID string) (any, error)
	GetRecordList(ctx context.Context) ([]api.Record, error)
}

// Unsubscribe detaches a selection handler. It is safe to call twice.
type Unsubscribe func()

// SelectionHandler receives selection changes. The event may be nil or
// incomplete.
type SelectionHandler func(ev *api.SelectionEvent)

// Base is the host application.
type Base interface {
	ActiveTable(ctx context.Context) (Table, error)
	OnSelectionChange(h SelectionHandler) (Unsubscribe, error)
}
