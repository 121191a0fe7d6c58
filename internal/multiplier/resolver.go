package multiplier

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/model"
)

// Resolver maps an industry name to a validated profile. It never fails:
// lookup misses and source errors fall through to the curated table.
type Resolver struct {
	source Source
}

// NewResolver creates a resolver over source. A nil source resolves every
// industry from the curated table.
func NewResolver(source Source) *Resolver {
	return &Resolver{source: source}
}

// Resolve returns the profile for industry, trying in order an exact match,
// a partial match, the "Other" row and the curated fallback table.
func (r *Resolver) Resolve(ctx context.Context, industry string) model.IndustryProfile {
	target := strings.TrimSpace(industry)
	if target == "" {
		target = model.DefaultIndustry
	}

	p, match, err := r.lookup(ctx, target)
	if err == nil && p == nil && !strings.EqualFold(target, model.DefaultIndustry) {
		p, _, err = r.lookup(ctx, model.DefaultIndustry)
		match = model.MatchOther
	}
	if err != nil {
		zap.L().Warn("multiplier: lookup failed, using fallback table",
			zap.String("industry", target),
			zap.Error(err),
		)
		return Fallback(target)
	}
	if p == nil {
		zap.L().Debug("multiplier: no stored profile, using fallback table",
			zap.String("industry", target),
		)
		return Fallback(target)
	}

	p.Match = match
	return Validate(*p)
}

func (r *Resolver) lookup(ctx context.Context, name string) (*model.IndustryProfile, model.Match, error) {
	if r.source == nil {
		return nil, "", nil
	}
	p, err := r.source.Exact(ctx, name)
	if err != nil || p != nil {
		return p, model.MatchExact, err
	}
	p, err = r.source.Fuzzy(ctx, name)
	return p, model.MatchPartial, err
}
