package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Log      LogConfig      `yaml:"log"`
	Dosing   DosingConfig   `yaml:"dosing"`
	Postgres PostgresConfig `yaml:"postgres"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Reports  ReportsConfig  `yaml:"reports"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	APIToken       string          `yaml:"apiToken"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DosingConfig holds defaults for calculator requests that omit values.
type DosingConfig struct {
	DefaultVolumeGallons float64 `yaml:"defaultVolumeGallons"`
	DefaultTDS           float64 `yaml:"defaultTds"`
	BillingPeriodDays    int     `yaml:"billingPeriodDays"`
	SeedInventory        bool    `yaml:"seedInventory"`
}

// PostgresConfig contains DSN and pooling settings. Empty DSN keeps data in memory.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig backs the last-reading prefill cache.
type ValkeyConfig struct {
	Enabled bool          `yaml:"enabled"`
	Addr    string        `yaml:"addr"`
	TTL     time.Duration `yaml:"ttl"`
}

// SQLiteConfig points at the audit database. Empty path disables recording.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// ReportsConfig schedules the monthly profit report.
type ReportsConfig struct {
	Enabled    bool          `yaml:"enabled"`
	Cron       string        `yaml:"cron"`
	RunOnStart bool          `yaml:"runOnStart"`
	Archive    ArchiveConfig `yaml:"archive"`
}

// ArchiveConfig is an S3-compatible bucket for report JSON. Empty endpoint keeps reports in memory.
type ArchiveConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// Load reads .env, then a YAML file, then environment overrides.
func Load() (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("HTTP_ADDRESS") == "" {
		cfg.HTTP.Address = ":" + v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("API_TOKEN"); v != "" {
		cfg.HTTP.APIToken = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("DOSING_DEFAULT_VOLUME_GALLONS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dosing.DefaultVolumeGallons = parsed
		}
	}
	if v := os.Getenv("DOSING_DEFAULT_TDS"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Dosing.DefaultTDS = parsed
		}
	}
	if v := os.Getenv("DOSING_BILLING_PERIOD_DAYS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Dosing.BillingPeriodDays = parsed
		}
	}
	if v := os.Getenv("DOSING_SEED_INVENTORY"); v != "" {
		cfg.Dosing.SeedInventory = parseBool(v)
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("VALKEY_ENABLED"); v != "" {
		cfg.Valkey.Enabled = parseBool(v)
	}
	if v := os.Getenv("VALKEY_ADDR"); v != "" {
		cfg.Valkey.Addr = v
	}
	if v := os.Getenv("VALKEY_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Valkey.TTL = parsed
		}
	}
	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.SQLite.Path = v
	}
	if v := os.Getenv("REPORTS_ENABLED"); v != "" {
		cfg.Reports.Enabled = parseBool(v)
	}
	if v := os.Getenv("REPORTS_CRON"); v != "" {
		cfg.Reports.Cron = v
	}
	if v := os.Getenv("RUN_ON_START"); v != "" {
		cfg.Reports.RunOnStart = parseBool(v)
	}
	if v := os.Getenv("REPORTS_ARCHIVE_ENDPOINT"); v != "" {
		cfg.Reports.Archive.Endpoint = v
	}
	if v := os.Getenv("REPORTS_ARCHIVE_ACCESS_KEY"); v != "" {
		cfg.Reports.Archive.AccessKey = v
	}
	if v := os.Getenv("REPORTS_ARCHIVE_SECRET_KEY"); v != "" {
		cfg.Reports.Archive.SecretKey = v
	}
	if v := os.Getenv("REPORTS_ARCHIVE_BUCKET"); v != "" {
		cfg.Reports.Archive.Bucket = v
	}
	if v := os.Getenv("REPORTS_ARCHIVE_REGION"); v != "" {
		cfg.Reports.Archive.Region = v
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Dosing: DosingConfig{
			DefaultVolumeGallons: 15000,
			DefaultTDS:           1000,
			BillingPeriodDays:    30,
			SeedInventory:        true,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			TTL: 30 * 24 * time.Hour,
		},
		SQLite: SQLiteConfig{
			Path: "data/lci-tracker.db",
		},
		Reports: ReportsConfig{
			Enabled: true,
			Cron:    "0 0 6 1 * *",
			Archive: ArchiveConfig{
				Bucket: "lci-reports",
				Region: "us-east-1",
				Prefix: "profit",
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.Dosing.DefaultVolumeGallons <= 0 {
		return errors.New("dosing.defaultVolumeGallons must be positive")
	}
	if c.Dosing.DefaultTDS < 0 {
		return errors.New("dosing.defaultTds cannot be negative")
	}
	if c.Dosing.BillingPeriodDays <= 0 {
		return errors.New("dosing.billingPeriodDays must be positive")
	}
	if c.Valkey.Enabled && strings.TrimSpace(c.Valkey.Addr) == "" {
		return errors.New("valkey.addr cannot be empty when valkey is enabled")
	}
	if c.Valkey.TTL < 0 {
		return errors.New("valkey.ttl cannot be negative")
	}
	if c.Reports.Enabled && strings.TrimSpace(c.Reports.Cron) == "" {
		return errors.New("reports.cron cannot be empty when reports are enabled")
	}
	if c.Reports.Archive.Endpoint != "" && strings.TrimSpace(c.Reports.Archive.Bucket) == "" {
		return errors.New("reports.archive.bucket cannot be empty when an endpoint is set")
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
