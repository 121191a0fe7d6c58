package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/bizval/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS valuations (
	id              TEXT PRIMARY KEY,
	industry        TEXT NOT NULL,
	estimated_value REAL NOT NULL,
	confidence      INTEGER NOT NULL,
	submission      TEXT NOT NULL,
	result          TEXT NOT NULL,
	created_at      DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_valuations_industry ON valuations(industry);
CREATE INDEX IF NOT EXISTS idx_valuations_created_at ON valuations(created_at);
`

const sqliteInsert = `INSERT INTO valuations (id, industry, estimated_value, confidence, submission, result, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveValuation(ctx context.Context, v *model.Valuation) error {
	args, err := insertArgs(v)
	if err != nil {
		return eris.Wrap(err, "sqlite: save valuation")
	}
	if _, err := s.db.ExecContext(ctx, sqliteInsert, args...); err != nil {
		return eris.Wrapf(err, "sqlite: save valuation %s", v.ID)
	}
	return nil
}

// SaveValuations inserts vs in a single transaction.
func (s *SQLiteStore) SaveValuations(ctx context.Context, vs []*model.Valuation) (int64, error) {
	if len(vs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, sqliteInsert)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close() //nolint:errcheck

	for _, v := range vs {
		args, err := insertArgs(v)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: save valuations")
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, eris.Wrapf(err, "sqlite: save valuation %s", v.ID)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return int64(len(vs)), nil
}

func (s *SQLiteStore) GetValuation(ctx context.Context, id string) (*model.Valuation, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, industry, submission, result, created_at FROM valuations WHERE id = ?`,
		id,
	)
	v, err := scanValuation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get valuation %s", id)
	}
	return v, nil
}

func (s *SQLiteStore) ListValuations(ctx context.Context, filter ValuationFilter) ([]model.Valuation, error) {
	query := `SELECT id, industry, submission, result, created_at FROM valuations WHERE 1=1`
	var args []any

	if filter.Industry != "" {
		query += ` AND industry = ? COLLATE NOCASE`
		args = append(args, filter.Industry)
	}
	query += ` ORDER BY created_at DESC, id LIMIT ?`
	args = append(args, filter.limit())

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list valuations")
	}
	defer rows.Close() //nolint:errcheck

	var out []model.Valuation
	for rows.Next() {
		v, err := scanValuation(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan valuation")
		}
		out = append(out, *v)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list valuations iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanValuation(row scannable) (*model.Valuation, error) {
	var v model.Valuation
	var submission, result string
	var createdAt time.Time

	if err := row.Scan(&v.ID, &v.Industry, &submission, &result, &createdAt); err != nil {
		return nil, err
	}
	if err := unmarshalValuation(&v, []byte(submission), []byte(result)); err != nil {
		return nil, err
	}
	v.CreatedAt = createdAt.UTC()
	return &v, nil
}
