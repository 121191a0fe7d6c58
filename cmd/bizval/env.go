package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/bizval/internal/db"
	"github.com/sells-group/bizval/internal/multiplier"
	"github.com/sells-group/bizval/internal/resilience"
	"github.com/sells-group/bizval/internal/store"
	"github.com/sells-group/bizval/internal/valuation"
)

// environment holds the collaborators shared by subcommands.
type environment struct {
	Resolver *multiplier.Resolver
	Engine   *valuation.Engine
	// Circuits holds the breakers guarding remote multiplier lookups.
	Circuits map[string]*resilience.CircuitBreaker
	closers  []func()
}

// Close releases every connection opened by initEnvironment.
func (e *environment) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// initEnvironment builds the multiplier source chain and the engine.
func initEnvironment(ctx context.Context) (*environment, error) {
	env := &environment{}
	source, err := env.buildSource(ctx)
	if err != nil {
		env.Close()
		return nil, err
	}
	env.Resolver = multiplier.NewResolver(source)
	env.Engine = valuation.NewEngine(env.Resolver)
	return env, nil
}

// buildSource returns the configured multiplier source. Postgres lookups are
// guarded by a circuit breaker and, when Redis is configured, cached. A nil
// source means the curated table only.
func (e *environment) buildSource(ctx context.Context) (multiplier.Source, error) {
	switch cfg.Multipliers.Source {
	case "", "static":
		return nil, nil
	case "file":
		src, err := multiplier.LoadFile(cfg.Multipliers.File)
		if err != nil {
			return nil, err
		}
		zap.L().Info("multipliers: loaded file", zap.String("file", cfg.Multipliers.File), zap.Int("industries", len(src.Profiles())))
		return src, nil
	case "postgres":
	default:
		return nil, eris.Errorf("unsupported multiplier source: %s", cfg.Multipliers.Source)
	}

	pool, err := db.Connect(ctx, cfg.MultiplierDatabaseURL())
	if err != nil {
		return nil, eris.Wrap(err, "multipliers: connect")
	}
	e.closers = append(e.closers, pool.Close)

	r := cfg.Resilience
	guarded := multiplier.NewGuardedSource(
		multiplier.NewPostgresSource(pool, cfg.Multipliers.Table),
		resilience.NewPolicy("multipliers", r.FailureThreshold, r.ResetTimeoutSecs, r.MaxAttempts, r.InitialBackoffMs),
	)
	e.Circuits = map[string]*resilience.CircuitBreaker{"multipliers": guarded.Breaker()}
	var source multiplier.Source = guarded

	if cfg.Cache.RedisAddr == "" {
		return source, nil
	}
	cache := multiplier.NewRedisCache(cfg.Cache.RedisAddr)
	if err := cache.Ping(ctx); err != nil {
		zap.L().Warn("multipliers: redis unavailable, caching disabled",
			zap.String("addr", cfg.Cache.RedisAddr),
			zap.Error(err),
		)
		_ = cache.Close()
		return source, nil
	}
	e.closers = append(e.closers, func() { _ = cache.Close() })
	return multiplier.NewCachedSource(source, cache, time.Duration(cfg.Cache.TTLSecs)*time.Second, cfg.Cache.Prefix), nil
}

// initStore opens the configured result store.
func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		return store.NewSQLite(cfg.Store.SQLitePath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{MaxConns: cfg.Store.MaxConns})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}
