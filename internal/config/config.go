// Package config loads runtime settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Database struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN renders the lib/pq connection URL.
func (d Database) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     d.Host + ":" + d.Port,
		Path:     "/" + d.Name,
		RawQuery: "sslmode=" + url.QueryEscape(d.SSLMode),
	}
	return u.String()
}

type Auth struct {
	JWTSecret      string
	GoogleClientID string
	AdminEmails    []string
	RedirectURL    string
	CookieDomain   string
	CookieSameSite http.SameSite
	CookieSecure   bool
}

type Config struct {
	HTTPAddr       string
	LogLevel       string
	MigrateOnStart bool
	CORSOrigins    []string
	Database       Database
	Auth           Auth
}

// LoadEnv reads .env into the process environment. A missing file is fine.
func LoadEnv() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load builds a Config from environment variables.
func Load() (*Config, error) {
	if err := LoadEnv(); err != nil {
		return nil, err
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config using lookup instead of the process environment.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	migrate, err := parseBool(get("MIGRATE_ON_START", "false"))
	if err != nil {
		return nil, fmt.Errorf("MIGRATE_ON_START: %w", err)
	}
	secure, err := parseBool(get("COOKIE_SECURE", "true"))
	if err != nil {
		return nil, fmt.Errorf("COOKIE_SECURE: %w", err)
	}
	sameSite, err := parseSameSite(get("COOKIE_SAMESITE", "lax"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:       get("HTTP_ADDR", "0.0.0.0:8080"),
		LogLevel:       get("LOG_LEVEL", "info"),
		MigrateOnStart: migrate,
		CORSOrigins:    splitList(get("CORS_ORIGINS", "")),
		Database: Database{
			Host:     get("POSTGRES_HOST", "localhost"),
			Port:     get("POSTGRES_PORT", "5432"),
			User:     get("POSTGRES_USER", "postgres"),
			Password: get("POSTGRES_PASSWORD", ""),
			Name:     get("POSTGRES_DB", "polls"),
			SSLMode:  get("POSTGRES_SSLMODE", "disable"),
		},
		Auth: Auth{
			JWTSecret:      get("JWT_SECRET", ""),
			GoogleClientID: get("GOOGLE_CLIENT_ID", ""),
			AdminEmails:    splitList(get("ADMIN_EMAILS", "")),
			RedirectURL:    get("AUTH_REDIRECT_URL", "/"),
			CookieDomain:   get("COOKIE_DOMAIN", ""),
			CookieSameSite: sameSite,
			CookieSecure:   secure,
		},
	}

	if _, err := strconv.Atoi(cfg.Database.Port); err != nil {
		return nil, fmt.Errorf("POSTGRES_PORT must be a number, got %q", cfg.Database.Port)
	}
	return cfg, nil
}

// AdminEnabled reports whether the admin endpoints can issue tokens.
func (c *Config) AdminEnabled() bool {
	return c.Auth.JWTSecret != "" && len(c.Auth.AdminEmails) > 0
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

func parseBool(s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return b, nil
}

func parseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(s) {
	case "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	default:
		return 0, fmt.Errorf("COOKIE_SAMESITE: unknown mode %q", s)
	}
}
