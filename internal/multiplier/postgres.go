package multiplier

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bizval/internal/db"
	"github.com/sells-group/bizval/internal/model"
)

// DefaultTable is the Postgres table holding industry multiples.
const DefaultTable = "industry_multipliers"

const profileColumns = "industry, min_revenue_multiplier, max_revenue_multiplier, ebitda_multiplier, avg_profit_margin"

// PostgresSource reads profiles from an industry multiplier table.
type PostgresSource struct {
	pool  db.Pool
	table string
}

// NewPostgresSource creates a source over table. An empty table name uses
// DefaultTable.
func NewPostgresSource(pool db.Pool, table string) *PostgresSource {
	if table == "" {
		table = DefaultTable
	}
	return &PostgresSource{pool: pool, table: table}
}

// Migrate creates the multiplier table.
func (s *PostgresSource) Migrate(ctx context.Context) error {
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	industry               TEXT PRIMARY KEY,
	min_revenue_multiplier DOUBLE PRECISION,
	max_revenue_multiplier DOUBLE PRECISION,
	ebitda_multiplier      DOUBLE PRECISION,
	avg_profit_margin      DOUBLE PRECISION
)`, pgx.Identifier{s.table}.Sanitize())
	if _, err := s.pool.Exec(ctx, stmt); err != nil {
		return eris.Wrap(err, "multiplier: migrate")
	}
	return nil
}

// Exact implements Source.
func (s *PostgresSource) Exact(ctx context.Context, name string) (*model.IndustryProfile, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(industry) = LOWER($1) LIMIT 1`,
		profileColumns, pgx.Identifier{s.table}.Sanitize())
	p, err := s.queryOne(ctx, q, name)
	if err != nil {
		return nil, eris.Wrapf(err, "multiplier: exact lookup %q", name)
	}
	return p, nil
}

// Fuzzy implements Source.
func (s *PostgresSource) Fuzzy(ctx context.Context, name string) (*model.IndustryProfile, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(industry) LIKE LOWER($1) ORDER BY industry LIMIT 1`,
		profileColumns, pgx.Identifier{s.table}.Sanitize())
	p, err := s.queryOne(ctx, q, "%"+escapeLike(name)+"%")
	if err != nil {
		return nil, eris.Wrapf(err, "multiplier: partial lookup %q", name)
	}
	return p, nil
}

// Seed upserts profiles into the table keyed by industry.
func (s *PostgresSource) Seed(ctx context.Context, profiles []model.IndustryProfile) (int64, error) {
	rows := make([][]any, 0, len(profiles))
	for _, p := range profiles {
		rows = append(rows, []any{p.Industry, p.MinRevenueMultiplier, p.MaxRevenueMultiplier, p.EBITDAMultiplier, p.AvgProfitMargin})
	}
	n, err := db.Upsert(ctx, s.pool, db.UpsertConfig{
		Table:        s.table,
		Columns:      strings.Split(profileColumns, ", "),
		ConflictKeys: []string{"industry"},
	}, rows)
	if err != nil {
		return 0, eris.Wrap(err, "multiplier: seed")
	}
	return n, nil
}

func (s *PostgresSource) queryOne(ctx context.Context, q, arg string) (*model.IndustryProfile, error) {
	var (
		p                            model.IndustryProfile
		minMult, maxMult, ebitda, pm *float64
	)
	err := s.pool.QueryRow(ctx, q, arg).Scan(&p.Industry, &minMult, &maxMult, &ebitda, &pm)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.MinRevenueMultiplier = orNaN(minMult)
	p.MaxRevenueMultiplier = orNaN(maxMult)
	p.EBITDAMultiplier = orNaN(ebitda)
	p.AvgProfitMargin = orNaN(pm)
	return &p, nil
}

// orNaN maps SQL NULL to NaN so that Validate replaces it.
func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
