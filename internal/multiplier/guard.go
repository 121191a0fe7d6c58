package multiplier

import (
	"context"

	"github.com/sells-group/bizval/internal/model"
	"github.com/sells-group/bizval/internal/resilience"
)

// GuardedSource retries transient lookup failures and stops calling a
// failing source once its circuit opens.
type GuardedSource struct {
	source  Source
	breaker *resilience.CircuitBreaker
	retry   resilience.RetryConfig
}

// NewGuardedSource wraps source with policy.
func NewGuardedSource(source Source, policy resilience.Policy) *GuardedSource {
	return &GuardedSource{
		source:  source,
		breaker: resilience.NewCircuitBreaker(policy.Breaker),
		retry:   policy.Retry,
	}
}

// Breaker exposes the circuit breaker so its state can be reported by /health.
func (g *GuardedSource) Breaker() *resilience.CircuitBreaker {
	return g.breaker
}

// Exact implements Source.
func (g *GuardedSource) Exact(ctx context.Context, name string) (*model.IndustryProfile, error) {
	return g.call(ctx, name, g.source.Exact)
}

// Fuzzy implements Source.
func (g *GuardedSource) Fuzzy(ctx context.Context, name string) (*model.IndustryProfile, error) {
	return g.call(ctx, name, g.source.Fuzzy)
}

func (g *GuardedSource) call(ctx context.Context, name string, fn func(context.Context, string) (*model.IndustryProfile, error)) (*model.IndustryProfile, error) {
	return resilience.ExecuteVal(ctx, g.breaker, func(ctx context.Context) (*model.IndustryProfile, error) {
		return resilience.DoVal(ctx, g.retry, func(ctx context.Context) (*model.IndustryProfile, error) {
			return fn(ctx, name)
		})
	})
}
