package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Stats backends
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Trace exporters
const (
	ExporterOTLP   = "otlp"
	ExporterStdout = "stdout"
)

type Config struct {
	LogLevel  string    `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTP      HTTP      `yaml:"http"`
	Game      Game      `yaml:"game"`
	Stats     Stats     `yaml:"stats"`
	Redis     Redis     `yaml:"redis"`
	Auth      Auth      `yaml:"auth"`
	Telemetry Telemetry `yaml:"telemetry"`
}

type HTTP struct {
	Addr            string        `yaml:"addr" env:"HTTP_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdown-timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

type Game struct {
	DefaultDifficulty string        `yaml:"default-difficulty" env:"GAME_DEFAULT_DIFFICULTY" env-default:"medium"`
	ThinkDelay        time.Duration `yaml:"think-delay" env:"GAME_THINK_DELAY" env-default:"700ms"`
	SessionTTL        time.Duration `yaml:"session-ttl" env:"GAME_SESSION_TTL" env-default:"30m"`
	SweepInterval     time.Duration `yaml:"sweep-interval" env:"GAME_SWEEP_INTERVAL" env-default:"1m"`
	// Seed makes the bot reproducible when non-zero.
	Seed uint64 `yaml:"seed" env:"GAME_SEED" env-default:"0"`
}

type Stats struct {
	Backend       string        `yaml:"backend" env:"STATS_BACKEND" env-default:"sqlite"`
	SQLitePath    string        `yaml:"sqlite-path" env:"STATS_SQLITE_PATH" env-default:"./arcade.db"`
	ReportTimeout time.Duration `yaml:"report-timeout" env:"STATS_REPORT_TIMEOUT" env-default:"2s"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
}

type Auth struct {
	// JWTSecret verifies bearer tokens issued by the auth service. When empty
	// every request plays as a guest.
	JWTSecret string `yaml:"jwt-secret" env:"AUTH_JWT_SECRET"`
}

type Telemetry struct {
	Enabled bool `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	// Exporter is otlp, shipping to the collector, or stdout, which prints
	// spans for local debugging.
	Exporter       string `yaml:"exporter" env:"OTEL_EXPORTER" env-default:"otlp"`
	CollectorAddr  string `yaml:"collector-addr" env:"OTEL_COLLECTOR_ADDR" env-default:"otel-collector:4317"`
	ServiceName    string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"ai-arcade"`
	ServiceVersion string `yaml:"service-version" env:"OTEL_SERVICE_VERSION" env-default:"v0.1.0"`
}

// Load reads the YAML file at path, if any, and overlays environment
// variables. Without a file only the environment and defaults apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("unable to open config file: %w", err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to read environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	switch c.Stats.Backend {
	case BackendSQLite, BackendRedis, BackendNone:
	default:
		errs = append(errs, fmt.Errorf("unknown stats backend %q", c.Stats.Backend))
	}
	switch c.Telemetry.Exporter {
	case ExporterOTLP, ExporterStdout:
	default:
		errs = append(errs, fmt.Errorf("unknown telemetry exporter %q", c.Telemetry.Exporter))
	}
	if c.Game.ThinkDelay < 0 {
		errs = append(errs, errors.New("think delay must not be negative"))
	}
	if c.Game.SweepInterval <= 0 {
		errs = append(errs, errors.New("sweep interval must be positive"))
	}
	return errors.Join(errs...)
}
