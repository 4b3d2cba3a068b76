// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	// Loads a .env file from the working directory, if one exists, before
	// the environment is read.
	_ "github.com/joho/godotenv/autoload"
)

// EnvPrefix is the prefix every configuration environment variable carries.
// Nested keys use a double underscore: CHRONOSPACE_DATABASE__HOST.
const EnvPrefix = "CHRONOSPACE_"

// Supported database drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite3"
)

// Config holds all application configuration. Built once at startup and
// passed to other packages via dependency injection.
type Config struct {
	// ProjectName is reported by the root endpoint (default: "ChronoSpace").
	ProjectName string `koanf:"project_name" validate:"required"`

	// APIPrefix is the versioned path all resource routes live under.
	APIPrefix string `koanf:"api_prefix" validate:"required,startswith=/"`

	// Testing switches the service to a shared in-memory SQLite database.
	Testing bool `koanf:"testing"`

	// Env is the runtime environment: "development" or "production".
	Env string `koanf:"env" validate:"required"`

	// LogLevel controls log verbosity: "debug", "info", "warn", "error".
	LogLevel string `koanf:"log_level" validate:"required,oneof=trace debug info warn error"`

	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Metrics   MetricsConfig   `koanf:"metrics"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	// Port is the HTTP listen port (default: 8000).
	Port int `koanf:"port" validate:"required,min=1,max=65535"`

	ReadTimeout  time.Duration `koanf:"read_timeout"`
	WriteTimeout time.Duration `koanf:"write_timeout"`
	IdleTimeout  time.Duration `koanf:"idle_timeout"`

	// CORSOrigins lists allowed cross-origin callers. "*" allows any.
	CORSOrigins []string `koanf:"cors_origins"`

	// TrustedProxies lists CIDRs whose forwarding headers are believed
	// when resolving the client IP.
	TrustedProxies []string `koanf:"trusted_proxies" validate:"dive,cidr"`
}

// DatabaseConfig holds connection parameters. Individual fields are read
// from separate env vars so container orchestrators can manage each
// independently. If URL is set, it takes precedence over the individual
// fields.
type DatabaseConfig struct {
	// Driver selects the SQL driver: "mysql" (default) or "sqlite3".
	Driver string `koanf:"driver" validate:"required,oneof=mysql sqlite3"`

	// Host is the server address. A port inside Host wins over Port.
	Host string `koanf:"host"`

	// Port is used when Host carries no port (default: 3306).
	Port int `koanf:"port"`

	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Name is the database name, or the file stem for sqlite3.
	Name string `koanf:"name" validate:"required"`

	// URL is a full driver DSN that bypasses the individual fields.
	URL string `koanf:"url"`

	MaxOpenConns    int           `koanf:"max_open_conns" validate:"min=1"`
	MaxIdleConns    int           `koanf:"max_idle_conns" validate:"min=0"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`

	// AutoMigrate applies pending migrations on startup.
	AutoMigrate bool `koanf:"auto_migrate"`
}

// DSN returns the connection string for the configured driver. If URL was
// set, it is returned as-is. For MySQL the DSN is built with the driver's
// Config.FormatDSN() to safely handle special characters in passwords.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	if d.Driver == DriverSQLite {
		return sqliteDSN(d.Name + ".db")
	}
	cfg := mysql.NewConfig()
	cfg.User = d.User
	cfg.Passwd = d.Password
	cfg.Net = "tcp"
	cfg.Addr = ensurePort(d.Host, strconv.Itoa(d.Port))
	cfg.DBName = d.Name
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN()
}

// sqliteDSN enables foreign key enforcement, which SQLite leaves off by
// default, and waits on locks instead of failing immediately.
func sqliteDSN(file string) string {
	return "file:" + file + "?_foreign_keys=on&_busy_timeout=5000"
}

// ensurePort appends the default port if the host string doesn't include one.
func ensurePort(host, defaultPort string) string {
	_, _, err := net.SplitHostPort(host)
	if err != nil {
		return net.JoinHostPort(host, defaultPort)
	}
	return host
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	// Empty disables Redis; rate limiting then stays in process memory.
	URL string `koanf:"url"`
}

// Enabled reports whether a Redis URL was configured.
func (r RedisConfig) Enabled() bool {
	return r.URL != ""
}

// RateLimitConfig controls the per-IP API rate limit.
type RateLimitConfig struct {
	// Requests is the number of requests allowed per window. Zero disables.
	Requests int           `koanf:"requests" validate:"min=0"`
	Window   time.Duration `koanf:"window"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool `koanf:"enabled"`
}

// Default returns the configuration used when no environment overrides it.
func Default() *Config {
	return &Config{
		ProjectName: "ChronoSpace",
		APIPrefix:   "/api/v1",
		Env:         "development",
		LogLevel:    "debug",
		Server: ServerConfig{
			Port:           8000,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   15 * time.Second,
			IdleTimeout:    60 * time.Second,
			CORSOrigins:    []string{"*"},
			TrustedProxies: []string{"127.0.0.0/8", "10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16", "::1/128", "fd00::/8"},
		},
		Database: DatabaseConfig{
			Driver:          DriverMySQL,
			Host:            "localhost",
			Port:            3306,
			User:            "chronospace",
			Password:        "chronospace",
			Name:            "chronospace",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		RateLimit: RateLimitConfig{
			Requests: 120,
			Window:   time.Minute,
		},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Load reads configuration from the environment on top of Default() and
// validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	// CHRONOSPACE_DATABASE__HOST -> database.host
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	cfg.applyTesting()

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyTesting forces a shared in-memory SQLite database when the testing
// flag is set and no explicit URL was given.
func (c *Config) applyTesting() {
	if !c.Testing {
		return
	}
	c.Database.Driver = DriverSQLite
	if c.Database.URL == "" {
		c.Database.URL = "file:" + c.Database.Name + "_test?mode=memory&cache=shared&_foreign_keys=on"
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	env := strings.ToLower(c.Env)
	return env == "development" || env == "dev"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
