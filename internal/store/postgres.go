package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bizval/internal/db"
	"github.com/sells-group/bizval/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

var valuationColumns = []string{"id", "industry", "estimated_value", "confidence", "submission", "result", "created_at"}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(1)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// NewPostgresWithPool wraps an existing pool. Close does not close it.
func NewPostgresWithPool(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Pool returns the underlying database pool for subsystems that share it,
// such as the Postgres multiplier source.
func (s *PostgresStore) Pool() db.Pool {
	return s.pool
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS valuations (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	industry        TEXT NOT NULL,
	estimated_value DOUBLE PRECISION NOT NULL,
	confidence      INTEGER NOT NULL,
	submission      JSONB NOT NULL,
	result          JSONB NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_valuations_industry ON valuations(LOWER(industry));
CREATE INDEX IF NOT EXISTS idx_valuations_created_at ON valuations(created_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveValuation(ctx context.Context, v *model.Valuation) error {
	row, err := insertArgs(v)
	if err != nil {
		return eris.Wrap(err, "postgres: save valuation")
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO valuations (id, industry, estimated_value, confidence, submission, result, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		row...,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: save valuation %s", v.ID)
	}
	return nil
}

// SaveValuations bulk-inserts vs with the COPY protocol.
func (s *PostgresStore) SaveValuations(ctx context.Context, vs []*model.Valuation) (int64, error) {
	rows := make([][]any, 0, len(vs))
	for _, v := range vs {
		row, err := insertArgs(v)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: save valuations")
		}
		rows = append(rows, row)
	}
	n, err := db.CopyFrom(ctx, s.pool, "valuations", valuationColumns, rows)
	return n, eris.Wrap(err, "postgres: save valuations")
}

func (s *PostgresStore) GetValuation(ctx context.Context, id string) (*model.Valuation, error) {
	var v model.Valuation
	var submission, result []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, industry, submission, result, created_at FROM valuations WHERE id = $1`,
		id,
	).Scan(&v.ID, &v.Industry, &submission, &result, &v.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get valuation %s", id)
	}
	if err := unmarshalValuation(&v, submission, result); err != nil {
		return nil, eris.Wrap(err, "postgres: get valuation")
	}
	return &v, nil
}

func (s *PostgresStore) ListValuations(ctx context.Context, filter ValuationFilter) ([]model.Valuation, error) {
	query := `SELECT id, industry, submission, result, created_at FROM valuations WHERE true`
	args := []any{}
	argIdx := 1

	if filter.Industry != "" {
		query += fmt.Sprintf(` AND LOWER(industry) = LOWER($%d)`, argIdx)
		args = append(args, filter.Industry)
		argIdx++
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d`, argIdx)
	args = append(args, filter.limit())
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list valuations")
	}
	defer rows.Close()

	var out []model.Valuation
	for rows.Next() {
		var v model.Valuation
		var submission, result []byte
		if err := rows.Scan(&v.ID, &v.Industry, &submission, &result, &v.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan valuation")
		}
		if err := unmarshalValuation(&v, submission, result); err != nil {
			return nil, eris.Wrap(err, "postgres: list valuations")
		}
		out = append(out, v)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list valuations iterate")
}
