package resilience

import "time"

// Policy bundles the breaker and retry settings applied to one backend.
type Policy struct {
	Breaker CircuitBreakerConfig
	Retry   RetryConfig
}

// NewPolicy converts raw config values to a Policy. Zero or negative values
// keep the defaults.
func NewPolicy(name string, failureThreshold, resetTimeoutSecs, maxAttempts, initialBackoffMs int) Policy {
	p := Policy{
		Breaker: CircuitBreakerConfig{Name: name},
		Retry:   DefaultRetryConfig(),
	}
	p.Retry.Operation = name
	if failureThreshold > 0 {
		p.Breaker.FailureThreshold = failureThreshold
	}
	if resetTimeoutSecs > 0 {
		p.Breaker.ResetTimeout = time.Duration(resetTimeoutSecs) * time.Second
	}
	if maxAttempts > 0 {
		p.Retry.MaxAttempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		p.Retry.InitialBackoff = time.Duration(initialBackoffMs) * time.Millisecond
	}
	return p
}
