package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Catalog sources
const (
	CatalogSourcePostgres = "postgres"
	CatalogSourceFile     = "file"
)

var termPattern = regexp.MustCompile(`^\d{6}$`)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Catalog struct {
		Term            string `yaml:"term" env:"CATALOG_TERM"`
		Source          string `yaml:"source" env:"CATALOG_SOURCE"`       // postgres or file
		File            string `yaml:"file" env:"CATALOG_FILE"`           // YAML catalog for the file source
		SeedFile        string `yaml:"seed_file" env:"CATALOG_SEED_FILE"` // imported into an empty term on startup
		RefreshInterval string `yaml:"refresh_interval" env:"CATALOG_REFRESH_INTERVAL"`
	} `yaml:"catalog"`

	Scheduler struct {
		Timeout string  `yaml:"timeout" env:"SCHEDULER_TIMEOUT"`
		Seed    *uint64 `yaml:"seed" env:"SCHEDULER_SEED"` // fixed seed for reproducible results
	} `yaml:"scheduler"`

	RateLimit struct {
		RequestsPerSecond float64 `yaml:"requests_per_second" env:"RATE_LIMIT_RPS"`
		Burst             int     `yaml:"burst" env:"RATE_LIMIT_BURST"`
	} `yaml:"rate_limit"`

	// EnvOverrides lists the environment variables applied on top of the file
	EnvOverrides []string `yaml:"-"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; defaults and environment are enough to run
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	overrides, err := loadFromEnv(config)
	if err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}
	config.EnvOverrides = overrides

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "20s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "coursegen"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Catalog.Source = CatalogSourcePostgres
	config.Catalog.RefreshInterval = "10m"

	config.Scheduler.Timeout = "15s"

	config.RateLimit.RequestsPerSecond = 2
	config.RateLimit.Burst = 5
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if !termPattern.MatchString(config.Catalog.Term) {
		return fmt.Errorf("catalog term must be six digits (YYYYMM), got %q", config.Catalog.Term)
	}

	switch config.Catalog.Source {
	case CatalogSourcePostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
	case CatalogSourceFile:
		if config.Catalog.File == "" {
			return fmt.Errorf("catalog file is required for the file source")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", config.Catalog.Source)
	}

	durations := map[string]string{
		"server shutdown timeout":    config.Server.ShutdownTimeout,
		"catalog refresh interval":   config.Catalog.RefreshInterval,
		"scheduler timeout":          config.Scheduler.Timeout,
		"database conn max lifetime": config.Database.ConnMaxLifetime,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s: %w", name, err)
		}
	}

	if timeout, _ := time.ParseDuration(config.Scheduler.Timeout); timeout <= 0 {
		return fmt.Errorf("scheduler timeout must be positive")
	}
	if config.RateLimit.RequestsPerSecond < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// UsesDatabase reports whether the service needs Postgres
func (c *Config) UsesDatabase() bool {
	return c.Catalog.Source == CatalogSourcePostgres
}
