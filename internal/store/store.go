// Package store persists valuation results.
package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/bizval/internal/model"
)

// ErrNotFound is returned when a valuation does not exist.
var ErrNotFound = eris.New("store: valuation not found")

// DefaultListLimit caps ListValuations when no limit is given.
const DefaultListLimit = 100

// ValuationFilter specifies criteria for listing valuations.
type ValuationFilter struct {
	Industry string `json:"industry,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for valuation results.
type Store interface {
	SaveValuation(ctx context.Context, v *model.Valuation) error
	SaveValuations(ctx context.Context, vs []*model.Valuation) (int64, error)
	GetValuation(ctx context.Context, id string) (*model.Valuation, error)
	ListValuations(ctx context.Context, filter ValuationFilter) ([]model.Valuation, error)

	Migrate(ctx context.Context) error
	Close() error
}

// NewValuation wraps a result in a record with a fresh ID.
func NewValuation(submission map[string]any, result model.Result) *model.Valuation {
	v := &model.Valuation{Submission: submission, Result: result}
	stamp(v)
	return v
}

// stamp fills the ID, creation time and industry of v when unset.
func stamp(v *model.Valuation) {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = time.Now().UTC()
	}
	if v.Industry == "" {
		switch {
		case v.Result.BusinessMetrics != nil && v.Result.BusinessMetrics.Industry != "":
			v.Industry = v.Result.BusinessMetrics.Industry
		case v.Result.IndustryData != nil:
			v.Industry = v.Result.IndustryData.Industry
		default:
			v.Industry = model.DefaultIndustry
		}
	}
}

func (f ValuationFilter) limit() int {
	if f.Limit <= 0 {
		return DefaultListLimit
	}
	return f.Limit
}

// insertArgs stamps v and returns the insert arguments in column order.
func insertArgs(v *model.Valuation) ([]any, error) {
	stamp(v)
	submission, result, err := marshalValuation(v)
	if err != nil {
		return nil, err
	}
	return []any{
		v.ID, v.Industry, v.Result.EstimatedValue, v.Result.Confidence,
		string(submission), string(result), v.CreatedAt,
	}, nil
}

func marshalValuation(v *model.Valuation) (submission, result []byte, err error) {
	sub := v.Submission
	if sub == nil {
		sub = map[string]any{}
	}
	if submission, err = json.Marshal(sub); err != nil {
		return nil, nil, eris.Wrap(err, "marshal submission")
	}
	if result, err = json.Marshal(v.Result); err != nil {
		return nil, nil, eris.Wrap(err, "marshal result")
	}
	return submission, result, nil
}

func unmarshalValuation(v *model.Valuation, submission, result []byte) error {
	if err := json.Unmarshal(submission, &v.Submission); err != nil {
		return eris.Wrap(err, "unmarshal submission")
	}
	if err := json.Unmarshal(result, &v.Result); err != nil {
		return eris.Wrap(err, "unmarshal result")
	}
	return nil
}

var (
	_ Store = (*SQLiteStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
