package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// RunMigrations runs all SQL migration files in the migrations directory.
func (db *DB) RunMigrations(ctx context.Context, migrationsPath string) error {
	if err := db.createMigrationsTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	migrationFiles, err := getMigrationFiles(migrationsPath)
	if err != nil {
		return fmt.Errorf("failed to get migration files: %w", err)
	}

	appliedMigrations, err := db.getAppliedMigrations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get applied migrations: %w", err)
	}

	for _, file := range migrationFiles {
		if _, applied := appliedMigrations[file]; applied {
			continue
		}

		if err := db.runMigration(ctx, migrationsPath, file); err != nil {
			return fmt.Errorf("failed to run migration %s: %w", file, err)
		}

		if err := db.recordMigration(ctx, file); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		db.logger.Info("migration_applied", "startup", fmt.Sprintf("Applied migration: %s", file), nil)
	}

	return nil
}

func (db *DB) createMigrationsTable(ctx context.Context) error {
	sql := `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			migration_name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	_, err := db.Exec(ctx, sql)
	return err
}

// getMigrationFiles returns a sorted list of migration file names.
func getMigrationFiles(migrationsPath string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(migrationsPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".sql") {
			files = append(files, filepath.Base(path))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func (db *DB) getAppliedMigrations(ctx context.Context) (map[string]struct{}, error) {
	applied := make(map[string]struct{})

	rows, err := db.Query(ctx, `SELECT migration_name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = struct{}{}
	}

	return applied, rows.Err()
}

func (db *DB) runMigration(ctx context.Context, migrationsPath, file string) error {
	content, err := os.ReadFile(filepath.Join(migrationsPath, file))
	if err != nil {
		return fmt.Errorf("failed to read migration file: %w", err)
	}

	_, err = db.Exec(ctx, string(content))
	return err
}

func (db *DB) recordMigration(ctx context.Context, file string) error {
	_, err := db.Exec(ctx, `INSERT INTO schema_migrations (migration_name) VALUES ($1)`, file)
	return err
}
