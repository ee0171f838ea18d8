package config

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestFromLookup_Defaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, "5432", cfg.Database.Port)
	assert.Equal(t, http.SameSiteLaxMode, cfg.Auth.CookieSameSite)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.AdminEnabled())
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"HTTP_ADDR":         ":9000",
		"MIGRATE_ON_START":  "true",
		"POSTGRES_HOST":     "db",
		"POSTGRES_USER":     "polls",
		"POSTGRES_PASSWORD": "p@ss word",
		"POSTGRES_DB":       "polls",
		"ADMIN_EMAILS":      "a@x.io, b@x.io ,",
		"JWT_SECRET":        "s3cret",
		"CORS_ORIGINS":      "https://a.example",
		"COOKIE_SAMESITE":   "None",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.HTTPAddr)
	assert.True(t, cfg.MigrateOnStart)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, cfg.Auth.AdminEmails)
	assert.Equal(t, []string{"https://a.example"}, cfg.CORSOrigins)
	assert.Equal(t, http.SameSiteNoneMode, cfg.Auth.CookieSameSite)
	assert.True(t, cfg.AdminEnabled())
	assert.Equal(t, "postgres://polls:p%40ss%20word@db:5432/polls?sslmode=disable", cfg.Database.DSN())
}

func TestFromLookup_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"bad bool":     {"MIGRATE_ON_START": "maybe"},
		"bad port":     {"POSTGRES_PORT": "fivefourthreetwo"},
		"bad samesite": {"COOKIE_SAMESITE": "sometimes"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(env))
			assert.Error(t, err)
		})
	}
}
