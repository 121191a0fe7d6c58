package valuation

import (
	"context"

	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/confidence"
	"github.com/sells-group/bizval/internal/insight"
	"github.com/sells-group/bizval/internal/model"
	"github.com/sells-group/bizval/internal/multiplier"
	"github.com/sells-group/bizval/internal/normalize"
)

// Engine values raw submissions. It is safe for concurrent use: every call
// works on its own data and the resolver is read-only.
type Engine struct {
	resolver *multiplier.Resolver
}

// NewEngine creates an engine resolving profiles through resolver. A nil
// resolver uses the curated fallback table only.
func NewEngine(resolver *multiplier.Resolver) *Engine {
	if resolver == nil {
		resolver = multiplier.NewResolver(nil)
	}
	return &Engine{resolver: resolver}
}

// ValidateMinimumInput reports whether raw has a positive revenue or
// EBITDA. Calculate does not require it; callers use it to reject empty
// submissions.
func ValidateMinimumInput(raw map[string]any) bool {
	return normalize.ValidateMinimumInput(raw)
}

// Calculate values a raw submission. It always returns a usable result,
// degrading to the simplified and then the absolute fallback. A panic in
// any collaborator also yields the absolute fallback.
func (e *Engine) Calculate(ctx context.Context, raw map[string]any) (res model.Result) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("valuation: recovered panic, using absolute fallback", zap.Any("panic", r))
			res = Absolute()
		}
	}()

	m := normalize.Normalize(raw)
	profile := e.resolver.Resolve(ctx, m.Industry)

	out, err := Calculate(m, profile)
	var conf int
	if err == nil {
		conf = confidence.Score(m)
	} else {
		zap.L().Warn("valuation: full calculation failed, using simplified fallback",
			zap.String("industry", m.Industry),
			zap.Error(err),
		)
		out, conf, err = Simplified(m, profile)
		if err != nil {
			zap.L().Error("valuation: simplified fallback failed, using absolute fallback",
				zap.String("industry", m.Industry),
				zap.Error(err),
			)
			abs := Absolute()
			abs.BusinessMetrics = m
			return abs
		}
	}

	res = assemble(m, profile, out, conf)
	zap.L().Debug("valuation: calculated",
		zap.String("industry", m.Industry),
		zap.String("multiple_type", string(res.MultipleType)),
		zap.Float64("estimated_value", res.EstimatedValue),
		zap.Int("confidence", res.Confidence),
	)
	return res
}

func assemble(m *model.Metrics, p model.IndustryProfile, out Outcome, conf int) model.Result {
	r := model.Result{
		EstimatedValue:  out.Estimate,
		ValuationRange:  out.Range,
		Confidence:      conf,
		Multiple:        out.Multiple,
		MultipleType:    out.MultipleType,
		Summary:         insight.Summary(m, len(out.Factors)),
		Factors:         out.Factors,
		IndustryData:    &p,
		BusinessMetrics: m,
	}
	r.MarketComparables = insight.Comparables(m, p, out.Estimate, out.Multiple, out.MultipleType)
	r.Recommendations = insight.Recommend(m, out.Factors)
	r.PriceComparison = insight.ComparePrice(m.AskingPrice, r)
	r.Insights = insight.Insights(m, r)
	r.Explanation = insight.Explain(m, r)
	return r
}
