package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store       StoreConfig      `yaml:"store" mapstructure:"store"`
	Multipliers MultiplierConfig `yaml:"multipliers" mapstructure:"multipliers"`
	Cache       CacheConfig      `yaml:"cache" mapstructure:"cache"`
	Resilience  ResilienceConfig `yaml:"resilience" mapstructure:"resilience"`
	Server      ServerConfig     `yaml:"server" mapstructure:"server"`
	Batch       BatchConfig      `yaml:"batch" mapstructure:"batch"`
	Log         LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the valuation result store.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	SQLitePath  string `yaml:"sqlite_path" mapstructure:"sqlite_path"`
	MaxConns    int32  `yaml:"max_conns" mapstructure:"max_conns"`
}

// MultiplierConfig selects where industry multipliers come from.
type MultiplierConfig struct {
	Source      string `yaml:"source" mapstructure:"source"`
	File        string `yaml:"file" mapstructure:"file"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	Table       string `yaml:"table" mapstructure:"table"`
}

// CacheConfig configures the Redis multiplier cache. An empty address
// disables caching.
type CacheConfig struct {
	RedisAddr string `yaml:"redis_addr" mapstructure:"redis_addr"`
	TTLSecs   int    `yaml:"ttl_secs" mapstructure:"ttl_secs"`
	Prefix    string `yaml:"prefix" mapstructure:"prefix"`
}

// ResilienceConfig tunes the circuit breaker and retry around multiplier
// lookups.
type ResilienceConfig struct {
	FailureThreshold int `yaml:"failure_threshold" mapstructure:"failure_threshold"`
	ResetTimeoutSecs int `yaml:"reset_timeout_secs" mapstructure:"reset_timeout_secs"`
	MaxAttempts      int `yaml:"max_attempts" mapstructure:"max_attempts"`
	InitialBackoffMs int `yaml:"initial_backoff_ms" mapstructure:"initial_backoff_ms"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port        int      `yaml:"port" mapstructure:"port"`
	RatePerSec  float64  `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
	Burst       int      `yaml:"burst" mapstructure:"burst"`
	CORSOrigins []string `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// BatchConfig configures batch valuation.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("BIZVAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.sqlite_path", "bizval.db")
	v.SetDefault("store.max_conns", 10)
	v.SetDefault("multipliers.source", "static")
	v.SetDefault("multipliers.file", "")
	v.SetDefault("multipliers.database_url", "")
	v.SetDefault("multipliers.table", "industry_multipliers")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.ttl_secs", 3600)
	v.SetDefault("cache.prefix", "bizval:multiplier:")
	v.SetDefault("resilience.failure_threshold", 5)
	v.SetDefault("resilience.reset_timeout_secs", 30)
	v.SetDefault("resilience.max_attempts", 3)
	v.SetDefault("resilience.initial_backoff_ms", 100)
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_per_sec", 20)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the settings needed by the given command mode.
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "value", "industry":
	case "batch":
		if c.Batch.Concurrency < 1 || c.Batch.Concurrency > 64 {
			errs = append(errs, "batch.concurrency must be between 1 and 64")
		}
	case "serve":
		if c.Server.Port <= 0 || c.Server.Port > 65535 {
			errs = append(errs, "server.port must be > 0 and <= 65535")
		}
		if c.Server.RatePerSec < 0 {
			errs = append(errs, "server.rate_per_sec must be >= 0")
		}
		if c.Server.RatePerSec > 0 && c.Server.Burst < 1 {
			errs = append(errs, "server.burst must be >= 1 when rate limiting is enabled")
		}
	case "migrate":
	case "seed":
		if c.Multipliers.DatabaseURL == "" && c.Store.DatabaseURL == "" {
			errs = append(errs, "multipliers.database_url or store.database_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	switch c.Store.Driver {
	case "sqlite":
		if mode == "serve" || mode == "batch" || mode == "migrate" {
			if c.Store.SQLitePath == "" {
				errs = append(errs, "store.sqlite_path is required for the sqlite driver")
			}
		}
	case "postgres":
		if c.Store.DatabaseURL == "" && mode != "value" && mode != "industry" {
			errs = append(errs, "store.database_url is required for the postgres driver")
		}
	default:
		errs = append(errs, "store.driver must be sqlite or postgres")
	}

	switch c.Multipliers.Source {
	case "static":
	case "file":
		if c.Multipliers.File == "" {
			errs = append(errs, "multipliers.file is required for the file source")
		}
	case "postgres":
		if c.Multipliers.DatabaseURL == "" && c.Store.DatabaseURL == "" {
			errs = append(errs, "multipliers.database_url or store.database_url is required for the postgres source")
		}
	default:
		errs = append(errs, "multipliers.source must be static, file or postgres")
	}

	if c.Resilience.FailureThreshold < 0 || c.Resilience.MaxAttempts < 0 {
		errs = append(errs, "resilience values must be >= 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// MultiplierDatabaseURL returns the multiplier database, falling back to
// the store database.
func (c *Config) MultiplierDatabaseURL() string {
	if c.Multipliers.DatabaseURL != "" {
		return c.Multipliers.DatabaseURL
	}
	return c.Store.DatabaseURL
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
