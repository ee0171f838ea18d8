package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"strings"
)

//go:embed migrations/*.up.sql
var migrationFiles embed.FS

const migrationsDir = "migrations"

// Migrate applies every embedded migration that has not been applied yet, in
// lexical order. It returns the names of the migrations it ran.
func Migrate(ctx context.Context, db *sql.DB) ([]string, error) {
	names, err := migrationNames()
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, name := range names {
		ran, err := applyMigration(ctx, db, name)
		if err != nil {
			return applied, err
		}
		if ran {
			applied = append(applied, name)
		}
	}
	return applied, nil
}

// MigrateOne applies the single migration whose file name contains name.
func MigrateOne(ctx context.Context, db *sql.DB, name string) (string, bool, error) {
	file, err := findMigration(name)
	if err != nil {
		return "", false, err
	}
	ran, err := applyMigration(ctx, db, file)
	return file, ran, err
}

func migrationNames() ([]string, error) {
	entries, err := fs.ReadDir(migrationFiles, migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".up.sql") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func findMigration(name string) (string, error) {
	pattern, err := regexp.Compile(fmt.Sprintf(`^.*%s.*\.up\.sql$`, regexp.QuoteMeta(name)))
	if err != nil {
		return "", fmt.Errorf("invalid migration name: %w", err)
	}

	names, err := migrationNames()
	if err != nil {
		return "", err
	}
	for _, n := range names {
		if pattern.MatchString(n) {
			return n, nil
		}
	}
	return "", fmt.Errorf("migration %q not found", name)
}

func applyMigration(ctx context.Context, db *sql.DB, name string) (bool, error) {
	content, err := migrationFiles.ReadFile(migrationsDir + "/" + name)
	if err != nil {
		return false, fmt.Errorf("failed to read migration %s: %w", name, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Serialises concurrent migrators, e.g. several servers starting at once.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(7243001)`); err != nil {
		return false, fmt.Errorf("failed to lock migrations: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			name       TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return false, fmt.Errorf("failed to create schema_migrations: %w", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check migration %s: %w", name, err)
	}
	if exists {
		return false, nil
	}

	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return false, fmt.Errorf("failed to execute migration %s: %w", name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return false, fmt.Errorf("failed to record migration %s: %w", name, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit migration %s: %w", name, err)
	}
	return true, nil
}
