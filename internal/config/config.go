// Package config loads and validates environment variables at startup.
// Fail-fast: a missing or malformed variable stops the process before any
// listener or database is opened.
//
// VARIABLES:
//
//	PORT            3000           HTTP listen port
//	DATABASE_URL    (unset)        PostgreSQL DSN; selects pgx when set
//	DB_PATH         data/jobly.db  SQLite file when DATABASE_URL is unset
//	SECRET_KEY      (required)     HS256 signing key, 16+ characters
//	BCRYPT_COST     12             bcrypt work factor
//	TOKEN_TTL       1h             token lifetime, a Go duration
//	LOG_LEVEL       info           debug, info, warn or error
//	ADMIN_USERNAME  (unset)        bootstrap admin, created at startup
//	ADMIN_PASSWORD  (unset)        required with ADMIN_USERNAME
//	ADMIN_EMAIL     admin@localhost
//
// cmd/server calls godotenv.Load() first, so a local .env file can supply
// any of these without exporting them in the shell.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/sakif/jobly/internal/auth"
)

const (
	defaultPort   = 3000
	defaultDBPath = "data/jobly.db"
	defaultTTL    = time.Hour

	defaultAdminEmail = "admin@localhost"

	minSecretLen = 16
)

// Config holds all runtime configuration for the API server.
type Config struct {
	Port int

	// DatabaseURL selects PostgreSQL when set; otherwise DBPath is opened
	// with SQLite.
	DatabaseURL string
	DBPath      string

	SecretKey  string
	BcryptCost int
	TokenTTL   time.Duration
	LogLevel   slog.Level

	// Admin is the bootstrap account created at startup when
	// ADMIN_USERNAME and ADMIN_PASSWORD are set. POST /users only grants
	// is_admin to callers who are already admins, so this is how the first
	// admin comes to exist.
	Admin AdminAccount
}

// AdminAccount describes the bootstrap admin. The zero value means none.
type AdminAccount struct {
	Username string
	Password string
	Email    string
}

// Enabled reports whether a bootstrap admin is configured.
func (a AdminAccount) Enabled() bool {
	return a.Username != ""
}

// UsePostgres reports whether the server should use the pgx driver.
func (c Config) UsePostgres() bool {
	return c.DatabaseURL != ""
}

// Load reads environment variables and returns a validated Config.
func Load() (Config, error) {
	cfg := Config{
		Port:        defaultPort,
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBPath:      defaultDBPath,
		BcryptCost:  auth.DefaultCost,
		TokenTTL:    defaultTTL,
		LogLevel:    slog.LevelInfo,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port < 1 || port > 65535 {
			return Config{}, fmt.Errorf("PORT must be a number between 1 and 65535, got %q", v)
		}
		cfg.Port = port
	}

	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.SecretKey = os.Getenv("SECRET_KEY")
	if cfg.SecretKey == "" {
		return Config{}, fmt.Errorf("SECRET_KEY is required")
	}
	if len(cfg.SecretKey) < minSecretLen {
		return Config{}, fmt.Errorf("SECRET_KEY must be at least %d characters", minSecretLen)
	}

	if v := os.Getenv("BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil || cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
			return Config{}, fmt.Errorf("BCRYPT_COST must be between %d and %d, got %q",
				bcrypt.MinCost, bcrypt.MaxCost, v)
		}
		cfg.BcryptCost = cost
	}

	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil || ttl <= 0 {
			return Config{}, fmt.Errorf("TOKEN_TTL must be a positive duration such as 1h or 30m, got %q", v)
		}
		cfg.TokenTTL = ttl
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		// slog.Level understands "debug", "info", "warn", "error" and offsets like "info+2".
		if err := cfg.LogLevel.UnmarshalText([]byte(v)); err != nil {
			return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}

	admin, err := loadAdmin()
	if err != nil {
		return Config{}, err
	}
	cfg.Admin = admin

	return cfg, nil
}

// loadAdmin reads ADMIN_USERNAME, ADMIN_PASSWORD and ADMIN_EMAIL. The first
// two come as a pair; setting only one is a configuration error.
func loadAdmin() (AdminAccount, error) {
	a := AdminAccount{
		Username: strings.TrimSpace(os.Getenv("ADMIN_USERNAME")),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
	}

	switch {
	case a.Username == "" && a.Password == "":
		return AdminAccount{}, nil
	case a.Username == "":
		return AdminAccount{}, fmt.Errorf("ADMIN_USERNAME is required when ADMIN_PASSWORD is set")
	case a.Password == "":
		return AdminAccount{}, fmt.Errorf("ADMIN_PASSWORD is required when ADMIN_USERNAME is set")
	case len(a.Password) > 72:
		return AdminAccount{}, fmt.Errorf("ADMIN_PASSWORD must be 72 bytes or fewer")
	}

	if a.Email == "" {
		a.Email = defaultAdminEmail
	}
	return a, nil
}
