// Package config reads the process configuration from the environment, after
// loading a .env file when one is present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/gorm/logger"

	"github.com/emilythestrangee/social-feed/backend/internal/database"
)

const (
	AuthProviderJWT    = "jwt"
	AuthProviderRemote = "remote"
)

type Config struct {
	Port        string
	GinMode     string
	CORSOrigins []string
	Database    database.Config
	Auth        AuthConfig
	Upload      UploadConfig
}

type AuthConfig struct {
	Provider     string
	JWTSecret    string
	JWTIssuer    string
	JWTTTL       time.Duration
	RemoteURL    string
	RemoteAPIKey string
}

type UploadConfig struct {
	Dir       string
	PublicURL string
	MaxBytes  int64
}

// Load reads .env (if any) into the environment and builds the Config from it.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load env file: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds and validates a Config using getenv for lookups.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	cfg := &Config{
		Port:        env("PORT", "8080"),
		GinMode:     env("GIN_MODE", "debug"),
		CORSOrigins: splitList(env("CORS_ORIGINS", "*")),
		Auth: AuthConfig{
			Provider:     strings.ToLower(env("AUTH_PROVIDER", AuthProviderJWT)),
			JWTSecret:    getenv("JWT_SECRET"),
			JWTIssuer:    env("JWT_ISSUER", ""),
			RemoteURL:    env("AUTH_REMOTE_URL", ""),
			RemoteAPIKey: env("AUTH_REMOTE_API_KEY", ""),
		},
		Upload: UploadConfig{
			Dir:       env("UPLOAD_DIR", "uploads"),
			PublicURL: env("UPLOAD_PUBLIC_URL", "/uploads"),
		},
	}

	var err error
	if cfg.Auth.JWTTTL, err = time.ParseDuration(env("JWT_TTL", "72h")); err != nil {
		return nil, fmt.Errorf("invalid JWT_TTL: %w", err)
	}
	if cfg.Upload.MaxBytes, err = strconv.ParseInt(env("UPLOAD_MAX_BYTES", "5242880"), 10, 64); err != nil {
		return nil, fmt.Errorf("invalid UPLOAD_MAX_BYTES: %w", err)
	}

	if cfg.Database, err = databaseConfig(env); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func databaseConfig(env func(key, fallback string) string) (database.Config, error) {
	dc := database.Config{Driver: strings.ToLower(env("DB_DRIVER", database.DriverPostgres))}

	level, err := parseLogLevel(env("DB_LOG_LEVEL", "warn"))
	if err != nil {
		return dc, err
	}
	dc.LogLevel = level

	switch dc.Driver {
	case database.DriverPostgres:
		dc.DSN = env("DATABASE_URL", "")
		if dc.DSN == "" {
			dc.DSN = fmt.Sprintf(
				"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				env("DB_HOST", "localhost"),
				env("DB_PORT", "5432"),
				env("DB_USER", "postgres"),
				env("DB_PASSWORD", ""),
				env("DB_NAME", "feed"),
				env("DB_SSLMODE", "disable"),
			)
		}
	case database.DriverSQLite:
		dc.DSN = fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", env("SQLITE_PATH", "feed.db"))
	default:
		return dc, fmt.Errorf("unsupported DB_DRIVER %q", dc.Driver)
	}
	return dc, nil
}

func parseLogLevel(s string) (logger.LogLevel, error) {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	}
	return 0, fmt.Errorf("invalid DB_LOG_LEVEL %q", s)
}

func (c *Config) validate() error {
	switch c.Auth.Provider {
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET is required when AUTH_PROVIDER=jwt")
		}
	case AuthProviderRemote:
		if c.Auth.RemoteURL == "" {
			return errors.New("AUTH_REMOTE_URL is required when AUTH_PROVIDER=remote")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q", c.Auth.Provider)
	}
	if c.Upload.MaxBytes <= 0 {
		return errors.New("UPLOAD_MAX_BYTES must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
