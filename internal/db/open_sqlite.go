//go:build !mem

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/mithrel/cellmark/pkg/api"
)

type sqliteRepo struct{ db *sql.DB }

// execer is satisfied by both *sql.DB and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *sqliteRepo) conn(ctx context.Context) execer {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

func (s *sqliteRepo) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, nil)
}

func (s *sqliteRepo) ListTables(ctx context.Context) ([]api.TableMeta, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT id, name FROM base_tables ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.TableMeta
	for rows.Next() {
		var t api.TableMeta
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *sqliteRepo) CreateTable(ctx context.Context, name string) (api.TableMeta, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return api.TableMeta{}, fmt.Errorf("table name is required")
	}
	if _, err := s.TableByName(ctx, name); err == nil {
		return api.TableMeta{}, ErrConflict
	}
	t := api.TableMeta{ID: api.NewID("tbl"), Name: name}
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO base_tables(id, name, position) VALUES(?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM base_tables))`,
		t.ID, t.Name)
	if err != nil {
		return api.TableMeta{}, err
	}
	return t, nil
}

func (s *sqliteRepo) TableByName(ctx context.Context, name string) (api.TableMeta, error) {
	var t api.TableMeta
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT id, name FROM base_tables WHERE name=?`, name)
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		if err == sql.ErrNoRows {
			return api.TableMeta{}, ErrNotFound
		}
		return api.TableMeta{}, err
	}
	return t, nil
}

func (s *sqliteRepo) ListFields(ctx context.Context, tableID string) ([]api.FieldMeta, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT id, name, type FROM fields WHERE table_id=? ORDER BY position ASC`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.FieldMeta
	for rows.Next() {
		var f api.FieldMeta
		var typ string
		if err := rows.Scan(&f.ID, &f.Name, &typ); err != nil {
			return nil, err
		}
		f.Type = api.FieldType(typ)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *sqliteRepo) AddField(ctx context.Context, tableID, name string, typ api.FieldType) (api.FieldMeta, error) {
	f := api.FieldMeta{ID: api.NewID("fld"), Name: name, Type: typ}
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO fields(id, table_id, name, type, position) VALUES(?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM fields WHERE table_id=?))`,
		f.ID, tableID, f.Name, string(f.Type), tableID)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE") {
			return api.FieldMeta{}, ErrConflict
		}
		return api.FieldMeta{}, err
	}
	return f, nil
}

func (s *sqliteRepo) FieldByID(ctx context.Context, tableID, fieldID string) (api.FieldMeta, error) {
	var f api.FieldMeta
	var typ string
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT id, name, type FROM fields WHERE table_id=? AND id=?`, tableID, fieldID)
	if err := row.Scan(&f.ID, &f.Name, &typ); err != nil {
		if err == sql.ErrNoRows {
			return api.FieldMeta{}, ErrNotFound
		}
		return api.FieldMeta{}, err
	}
	f.Type = api.FieldType(typ)
	return f, nil
}

func (s *sqliteRepo) ListRecords(ctx context.Context, tableID string) ([]api.Record, error) {
	rows, err := s.conn(ctx).QueryContext(ctx, `SELECT id FROM records WHERE table_id=? ORDER BY position ASC`, tableID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []api.Record
	for rows.Next() {
		var r api.Record
		if err := rows.Scan(&r.ID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *sqliteRepo) AddRecord(ctx context.Context, tableID string) (api.Record, error) {
	r := api.Record{ID: api.NewID("rec")}
	_, err := s.conn(ctx).ExecContext(ctx,
		`INSERT INTO records(id, table_id, position) VALUES(?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM records WHERE table_id=?))`,
		r.ID, tableID, tableID)
	if err != nil {
		return api.Record{}, err
	}
	return r, nil
}

func (s *sqliteRepo) GetCell(ctx context.Context, fieldID, recordID string) (json.RawMessage, error) {
	var value string
	row := s.conn(ctx).QueryRowContext(ctx, `SELECT value FROM cells WHERE record_id=? AND field_id=?`, recordID, fieldID)
	if err := row.Scan(&value); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return json.RawMessage(value), nil
}

func (s *sqliteRepo) SetCell(ctx context.Context, recordID, fieldID string, value any) (bool, error) {
	enc, err := encodeCell(value)
	if err != nil {
		return false, err
	}
	digest := api.CellDigest(recordID, fieldID, enc)
	c := s.conn(ctx)
	var prev string
	err = c.QueryRowContext(ctx, `SELECT digest FROM cells WHERE record_id=? AND field_id=?`, recordID, fieldID).Scan(&prev)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return false, err
	case prev == digest:
		return false, nil
	}
	_, err = c.ExecContext(ctx, `
INSERT INTO cells(record_id, field_id, value, digest) VALUES(?, ?, ?, ?)
ON CONFLICT(record_id, field_id) DO UPDATE SET value=excluded.value, digest=excluded.digest`,
		recordID, fieldID, string(enc), digest)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY") {
			return false, ErrNotFound
		}
		return false, err
	}
	return true, nil
}

// openSQLite opens (and migrates) a sqlite base at sqlite://path.
func openSQLite(ctx context.Context, dsn string) (Repo, io.Closer, error) {
	path := strings.TrimPrefix(dsn, "sqlite://")
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, path[2:])
		}
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, nil, err
	}
	// foreign_keys is per connection, so it goes in the DSN for the whole pool
	dbh, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, nil, err
	}
	// set WAL mode
	if _, err := dbh.ExecContext(ctx, `PRAGMA journal_mode=WAL;`); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	if err := migrate(ctx, dbh); err != nil {
		_ = dbh.Close()
		return nil, nil, err
	}
	return &sqliteRepo{db: dbh}, dbh, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS base_tables (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL UNIQUE,
  position INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS fields (
  id TEXT PRIMARY KEY,
  table_id TEXT NOT NULL REFERENCES base_tables(id) ON DELETE CASCADE,
  name TEXT NOT NULL,
  type TEXT NOT NULL,
  position INTEGER NOT NULL,
  UNIQUE(table_id, name)
);
CREATE TABLE IF NOT EXISTS records (
  id TEXT PRIMARY KEY,
  table_id TEXT NOT NULL REFERENCES base_tables(id) ON DELETE CASCADE,
  position INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_table_pos ON records(table_id, position);
CREATE TABLE IF NOT EXISTS cells (
  record_id TEXT NOT NULL REFERENCES records(id) ON DELETE CASCADE,
  field_id TEXT NOT NULL REFERENCES fields(id) ON DELETE CASCADE,
  value TEXT NOT NULL,
  digest TEXT NOT NULL,
  PRIMARY KEY(record_id, field_id)
);
`)
	return err
}
