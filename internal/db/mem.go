package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/mithrel/cellmark/pkg/api"
)

type memCell struct {
	value  json.RawMessage
	digest string
}

// MemRepo is an in-memory Repo used by tests and the mem build.
type MemRepo struct {
	mu      sync.RWMutex
	tables  []api.TableMeta
	fields  map[string][]api.FieldMeta
	records map[string][]api.Record
	cells   map[[2]string]memCell
}

func NewMemRepo() *MemRepo {
	return &MemRepo{
		fields:  make(map[string][]api.FieldMeta),
		records: make(map[string][]api.Record),
		cells:   make(map[[2]string]memCell),
	}
}

func (m *MemRepo) ListTables(ctx context.Context) ([]api.TableMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]api.TableMeta(nil), m.tables...), nil
}

func (m *MemRepo) CreateTable(ctx context.Context, name string) (api.TableMeta, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.TableMeta{}, fmt.Errorf("table name is required")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tables {
		if t.Name == name {
			return api.TableMeta{}, ErrConflict
		}
	}
	t := api.TableMeta{ID: api.NewID("tbl"), Name: name}
	m.tables = append(m.tables, t)
	return t, nil
}

func (m *MemRepo) TableByName(ctx context.Context, name string) (api.TableMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, t := range m.tables {
		if t.Name == name {
			return t, nil
		}
	}
	return api.TableMeta{}, ErrNotFound
}

func (m *MemRepo) ListFields(ctx context.Context, tableID string) ([]api.FieldMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]api.FieldMeta(nil), m.fields[tableID]...), nil
}

func (m *MemRepo) AddField(ctx context.Context, tableID, name string, typ api.FieldType) (api.FieldMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range m.fields[tableID] {
		if f.Name == name {
			return api.FieldMeta{}, ErrConflict
		}
	}
	f := api.FieldMeta{ID: api.NewID("fld"), Name: name, Type: typ}
	m.fields[tableID] = append(m.fields[tableID], f)
	return f, nil
}

func (m *MemRepo) FieldByID(ctx context.Context, tableID, fieldID string) (api.FieldMeta, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, f := range m.fields[tableID] {
		if f.ID == fieldID {
			return f, nil
		}
	}
	return api.FieldMeta{}, ErrNotFound
}

func (m *MemRepo) ListRecords(ctx context.Context, tableID string) ([]api.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]api.Record(nil), m.records[tableID]...), nil
}

func (m *MemRepo) AddRecord(ctx context.Context, tableID string) (api.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := api.Record{ID: api.NewID("rec")}
	m.records[tableID] = append(m.records[tableID], r)
	return r, nil
}

func (m *MemRepo) GetCell(ctx context.Context, fieldID, recordID string) (json.RawMessage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.cells[[2]string{recordID, fieldID}]
	if !ok {
		return nil, nil
	}
	return append(json.RawMessage(nil), c.value...), nil
}

func (m *MemRepo) SetCell(ctx context.Context, recordID, fieldID string, value any) (bool, error) {
	enc, err := encodeCell(value)
	if err != nil {
		return false, err
	}
	digest := api.CellDigest(recordID, fieldID, enc)
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]string{recordID, fieldID}
	if prev, ok := m.cells[key]; ok && prev.digest == digest {
		return false, nil
	}
	m.cells[key] = memCell{value: append(json.RawMessage(nil), enc...), digest: digest}
	return true, nil
}
