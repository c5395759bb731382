// Copyright © 2026 The apexls authors

package workspace

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/logger"
	"go.uber.org/zap"

	// Registers the "sqlite3" driver.
	_ "github.com/mattn/go-sqlite3"
)

const (
	schema = `
		CREATE TABLE IF NOT EXISTS files (
			path     TEXT PRIMARY KEY,
			mod_time INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS types (
			key  TEXT NOT NULL,
			name TEXT NOT NULL,
			path TEXT NOT NULL REFERENCES files(path) ON DELETE CASCADE,
			decl TEXT NOT NULL,
			PRIMARY KEY (key, path)
		);`

	deleteTypesQuery = `DELETE FROM types WHERE path = ?`
	deleteFileQuery  = `DELETE FROM files WHERE path = ?`
	upsertFileQuery  = `INSERT OR REPLACE INTO files (path, mod_time) VALUES (?, ?)`
	insertTypeQuery  = `INSERT OR REPLACE INTO types (key, name, path, decl) VALUES (?, ?, ?, ?)`
	modTimeQuery     = `SELECT mod_time FROM files WHERE path = ?`
	filesQuery       = `SELECT path FROM files ORDER BY path`

	selectRecords = `
		SELECT t.name, t.path, f.mod_time, t.decl
		FROM types t JOIN files f ON f.path = t.path`
	getTypeQuery   = selectRecords + ` WHERE t.key = ? ORDER BY t.path LIMIT 1`
	listTypesQuery = selectRecords + ` ORDER BY t.key, t.path`
)

// SQLStore is a Store backed by a sqlite database, so a workspace index
// survives restarts and only files modified since are re-parsed.
type SQLStore struct {
	db  *sql.DB
	log *zap.SugaredLogger
}

// NewSQLStore wraps an open database. Call Migrate before first use. A nil
// log uses the global logger.
func NewSQLStore(db *sql.DB, log *zap.SugaredLogger) *SQLStore {
	if log == nil {
		log = logger.Named("workspace")
	}
	return &SQLStore{db: db, log: log}
}

// OpenSQLStore opens (creating if needed) the sqlite database at path and
// applies the schema.
func OpenSQLStore(ctx context.Context, path string, log *zap.SugaredLogger) (*SQLStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, errors.Wrapf(err, "open index database %s", path)
	}
	s := NewSQLStore(db, log)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Migrate creates the tables if they do not exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.Wrap(err, "create index schema")
	}
	return nil
}

func (s *SQLStore) Put(ctx context.Context, file string, mod time.Time, recs []Record) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, deleteTypesQuery, file); err != nil {
		return errors.Wrapf(err, "clear types of %s", file)
	}
	if _, err = tx.ExecContext(ctx, upsertFileQuery, file, mod.UnixNano()); err != nil {
		return errors.Wrapf(err, "record file %s", file)
	}
	for _, r := range recs {
		decl, encErr := encodeDecl(r.Decl)
		if encErr != nil {
			return encErr
		}
		if _, err = tx.ExecContext(ctx, insertTypeQuery, r.Key(), r.Name, file, decl); err != nil {
			return errors.Wrapf(err, "insert type %s", r.Name)
		}
	}
	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit")
	}
	s.log.Debugw("stored file records", logger.FieldFile, file, logger.FieldCount, len(recs))
	return nil
}

func (s *SQLStore) Get(ctx context.Context, key string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, getTypeQuery, key)
	r, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrNotFound, "type %q", key)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get type %q", key)
	}
	return r, nil
}

func (s *SQLStore) ModTime(ctx context.Context, file string) (time.Time, error) {
	var nanos int64
	err := s.db.QueryRowContext(ctx, modTimeQuery, file).Scan(&nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, errors.Wrapf(ErrNotFound, "file %s", file)
	}
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "mod time of %s", file)
	}
	return time.Unix(0, nanos), nil
}

func (s *SQLStore) Files(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, filesQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list files")
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, errors.Wrap(err, "scan file")
		}
		out = append(out, path)
	}
	return out, errors.Wrap(rows.Err(), "list files")
}

func (s *SQLStore) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, listTypesQuery)
	if err != nil {
		return nil, errors.Wrap(err, "list types")
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan type")
		}
		out = append(out, *r)
	}
	return out, errors.Wrap(rows.Err(), "list types")
}

func (s *SQLStore) Delete(ctx context.Context, file string) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, deleteTypesQuery, file); err != nil {
		return errors.Wrapf(err, "delete types of %s", file)
	}
	if _, err = tx.ExecContext(ctx, deleteFileQuery, file); err != nil {
		return errors.Wrapf(err, "delete file %s", file)
	}
	return errors.Wrap(tx.Commit(), "commit")
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*Record, error) {
	var (
		r     Record
		nanos int64
		decl  string
	)
	if err := sc.Scan(&r.Name, &r.File, &nanos, &decl); err != nil {
		return nil, err
	}
	d, err := decodeDecl(decl)
	if err != nil {
		return nil, err
	}
	r.ModTime = time.Unix(0, nanos)
	r.Decl = d
	return &r, nil
}
