// Package config loads service settings from an optional .env file and the
// process environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendJSON     = "json"
	BackendBolt     = "bolt"
	BackendPostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	Host string
	Port int

	StoreBackend string
	DataFile     string
	BoltPath     string
	DatabaseURL  string

	SnapshotInterval time.Duration
	SnapshotPath     string

	JWTSecret         string
	AdminUsername     string
	AdminPasswordHash string
	TokenTTL          time.Duration

	CORSOrigins         string
	AllowedEmailDomains []string

	LogLevel  string
	LogFormat string
}

// Load reads envFile when it exists and then the environment. A missing
// envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	cfg := &Config{
		Host:              getEnv("HOST", "127.0.0.1"),
		StoreBackend:      strings.ToLower(getEnv("STORE_BACKEND", BackendJSON)),
		DataFile:          getEnv("DATA_FILE", "patients.json"),
		BoltPath:          getEnv("BOLT_PATH", "patients.db"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SnapshotPath:      getEnv("SNAPSHOT_PATH", "patients.snapshot.json"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		AdminUsername:     getEnv("ADMIN_USERNAME", "admin"),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		CORSOrigins:       getEnv("CORS_ORIGINS", "*"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		LogFormat:         getEnv("LOG_FORMAT", "console"),
	}

	var err error
	if cfg.Port, err = strconv.Atoi(getEnv("PORT", "8000")); err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}
	if cfg.SnapshotInterval, err = time.ParseDuration(getEnv("SNAPSHOT_INTERVAL", "0s")); err != nil {
		return nil, fmt.Errorf("invalid SNAPSHOT_INTERVAL: %w", err)
	}
	if cfg.TokenTTL, err = time.ParseDuration(getEnv("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if domains := os.Getenv("ALLOWED_EMAIL_DOMAINS"); domains != "" {
		for _, d := range strings.Split(domains, ",") {
			if d = strings.TrimSpace(d); d != "" {
				cfg.AllowedEmailDomains = append(cfg.AllowedEmailDomains, d)
			}
		}
	}
	if cfg.DatabaseURL == "" && os.Getenv("DB_HOST") != "" {
		cfg.DatabaseURL = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), os.Getenv("DB_NAME"), getEnv("DB_PORT", "5432"))
	}

	return cfg, cfg.Validate()
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendJSON, BackendBolt:
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return errors.New("postgres backend requires DATABASE_URL or DB_HOST")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.SnapshotInterval < 0 {
		return errors.New("SNAPSHOT_INTERVAL must not be negative")
	}
	if c.JWTSecret != "" && c.AdminPasswordHash == "" {
		return errors.New("JWT_SECRET requires ADMIN_PASSWORD_HASH")
	}
	return nil
}

// AuthEnabled reports whether mutating routes require a token.
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
