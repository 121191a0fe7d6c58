package batch

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/bizval/internal/model"
	"github.com/sells-group/bizval/internal/store"
	"github.com/sells-group/bizval/internal/valuation"
)

// DefaultConcurrency bounds concurrent valuations when none is configured.
const DefaultConcurrency = 8

// Valuer values one raw submission. *valuation.Engine satisfies it.
type Valuer interface {
	Calculate(ctx context.Context, raw map[string]any) model.Result
}

// Item is the outcome for one input record. Row is 1-based over the data
// rows.
type Item struct {
	Row       int              `json:"row"`
	Valuation *model.Valuation `json:"valuation,omitempty"`
	Error     string           `json:"error,omitempty"`
}

// Runner values records concurrently.
type Runner struct {
	valuer      Valuer
	concurrency int
}

// NewRunner creates a Runner. A non-positive concurrency uses
// DefaultConcurrency.
func NewRunner(valuer Valuer, concurrency int) *Runner {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Runner{valuer: valuer, concurrency: concurrency}
}

// Run values every record and returns the items in input order. Records
// without a positive revenue or EBITDA are reported, not valued. It fails
// only when ctx is cancelled.
func (r *Runner) Run(ctx context.Context, records []Record) ([]Item, error) {
	start := time.Now()
	items := make([]Item, len(records))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, rec := range records {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			items[i] = r.value(gctx, i+1, rec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: run")
	}

	valued := 0
	for _, it := range items {
		if it.Valuation != nil {
			valued++
		}
	}
	zap.L().Info("batch: complete",
		zap.Int("records", len(records)),
		zap.Int("valued", valued),
		zap.Int("rejected", len(records)-valued),
		zap.Duration("elapsed", time.Since(start)),
	)
	return items, nil
}

func (r *Runner) value(ctx context.Context, row int, rec Record) Item {
	raw := map[string]any(rec)
	if !valuation.ValidateMinimumInput(raw) {
		zap.L().Debug("batch: record rejected", zap.Int("row", row))
		return Item{Row: row, Error: "revenue or ebitda must be a positive number"}
	}
	return Item{Row: row, Valuation: store.NewValuation(raw, r.valuer.Calculate(ctx, raw))}
}

// Save persists the valued items in one batch and returns the number
// written.
func Save(ctx context.Context, st store.Store, items []Item) (int64, error) {
	vs := make([]*model.Valuation, 0, len(items))
	for _, it := range items {
		if it.Valuation != nil {
			vs = append(vs, it.Valuation)
		}
	}
	n, err := st.SaveValuations(ctx, vs)
	if err != nil {
		return 0, eris.Wrap(err, "batch: save")
	}
	return n, nil
}
