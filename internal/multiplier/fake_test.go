package multiplier

import (
	"context"
	"sync"
	"time"

	"github.com/sells-group/bizval/internal/model"
)

// countingSource records calls and delegates to an inner source, or fails
// with err when set.
type countingSource struct {
	mu     sync.Mutex
	inner  Source
	err    error
	exact  []string
	fuzzy  []string
	panics bool
}

func (s *countingSource) Exact(ctx context.Context, name string) (*model.IndustryProfile, error) {
	s.mu.Lock()
	s.exact = append(s.exact, name)
	s.mu.Unlock()
	if s.panics {
		panic("source exploded")
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Exact(ctx, name)
}

func (s *countingSource) Fuzzy(ctx context.Context, name string) (*model.IndustryProfile, error) {
	s.mu.Lock()
	s.fuzzy = append(s.fuzzy, name)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return s.inner.Fuzzy(ctx, name)
}

func (s *countingSource) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.exact) + len(s.fuzzy)
}

// memoryCache is an in-memory Cache.
type memoryCache struct {
	mu     sync.Mutex
	data   map[string]string
	ttls   map[string]time.Duration
	getErr error
	setErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (c *memoryCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.setErr != nil {
		return c.setErr
	}
	c.data[key] = value
	c.ttls[key] = ttl
	return nil
}
