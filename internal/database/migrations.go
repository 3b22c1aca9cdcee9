package database

import (
	"database/sql"
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Migration is one versioned schema change. Migrations are embedded in the
// binary and applied in version order.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_snapshots",
		SQL: `
			CREATE TABLE IF NOT EXISTS snapshots (
				id TEXT PRIMARY KEY,
				generated_at TIMESTAMP NOT NULL,
				reference_time TIMESTAMP NOT NULL,
				record_count INTEGER NOT NULL,
				payload_json TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_snapshots_generated_at ON snapshots(generated_at);
		`,
	},
	{
		Version: 2,
		Name:    "create_trained_models",
		SQL: `
			CREATE TABLE IF NOT EXISTS trained_models (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				trained_at TIMESTAMP NOT NULL,
				accuracy REAL NOT NULL,
				payload_json TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_trained_models_name ON trained_models(name, trained_at);
		`,
	},
}

// Migrate applies pending migrations in version order.
func Migrate(db *sql.DB) error {
	if err := initMigrationsTable(db); err != nil {
		return err
	}

	applied, err := appliedMigrations(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if applied[m.Version] {
			continue
		}
		if err := apply(db, m); err != nil {
			return err
		}
		log.WithFields(log.Fields{"version": m.Version, "name": m.Name}).Info("Applied migration")
	}
	return nil
}

func initMigrationsTable(db *sql.DB) error {
	query := `
		CREATE TABLE IF NOT EXISTS migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}

func appliedMigrations(db *sql.DB) (map[int]bool, error) {
	rows, err := db.Query("SELECT version FROM migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query migrations: %w", err)
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

func apply(db *sql.DB, m Migration) error {
	return Transaction(db, func(tx *sql.Tx) error {
		if _, err := tx.Exec(m.SQL); err != nil {
			return fmt.Errorf("migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO migrations (version, name) VALUES (?, ?)", m.Version, m.Name); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
		return nil
	})
}
