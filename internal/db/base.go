package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/mithrel/cellmark/internal/host"
	"github.com/mithrel/cellmark/internal/util"
	"github.com/mithrel/cellmark/pkg/api"
)

// Base serves a Repo as the host base. The active table is picked by name
// (exact, then fuzzy) or is the first table when no name is configured.
type Base struct {
	repo  Repo
	bus   *host.Bus
	table string
}

func NewBase(repo Repo, bus *host.Bus, table string) *Base {
	return &Base{repo: repo, bus: bus, table: table}
}

func (b *Base) Repo() Repo        { return b.repo }
func (b *Base) Bus() *host.Bus    { return b.bus }
func (b *Base) TableName() string { return b.table }

func (b *Base) ActiveTable(ctx context.Context) (host.Table, error) {
	meta, err := ResolveTable(ctx, b.repo, b.table)
	if err != nil {
		return nil, err
	}
	return &Table{repo: b.repo, meta: meta}, nil
}

func (b *Base) OnSelectionChange(h host.SelectionHandler) (host.Unsubscribe, error) {
	return b.bus.Subscribe(h)
}

// ResolveTable finds a table by name; an empty name picks the first table.
func ResolveTable(ctx context.Context, repo Repo, name string) (api.TableMeta, error) {
	tables, err := repo.ListTables(ctx)
	if err != nil {
		return api.TableMeta{}, err
	}
	if len(tables) == 0 {
		return api.TableMeta{}, host.ErrNoActiveTable
	}
	if name == "" {
		return tables[0], nil
	}
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.Name
	}
	idx, ok := util.MatchName(name, names)
	if !ok {
		return api.TableMeta{}, fmt.Errorf("%w: no table matches %q", host.ErrNoActiveTable, name)
	}
	return tables[idx], nil
}

// Table is one table of the base seen through the host interface.
type Table struct {
	repo Repo
	meta api.TableMeta
}

func NewTable(repo Repo, meta api.TableMeta) *Table {
	return &Table{repo: repo, meta: meta}
}

func (t *Table) Meta() api.TableMeta { return t.meta }

func (t *Table) GetFieldMetaList(ctx context.Context) ([]api.FieldMeta, error) {
	return t.repo.ListFields(ctx, t.meta.ID)
}

func (t *Table) GetFieldMetaByID(ctx context.Context, fieldID string) (*api.FieldMeta, error) {
	f, err := t.repo.FieldByID(ctx, t.meta.ID, fieldID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func (t *Table) GetCellValue(ctx context.Context, fieldID, recordID string) (any, error) {
	raw, err := t.repo.GetCell(ctx, fieldID, recordID)
	if err != nil {
		return nil, err
	}
	return decodeCell(raw), nil
}

func (t *Table) GetRecordList(ctx context.Context) ([]api.Record, error) {
	return t.repo.ListRecords(ctx, t.meta.ID)
}
