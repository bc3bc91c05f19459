package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 2

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS catalogs (
					store TEXT PRIMARY KEY,
					row_count INTEGER NOT NULL,
					imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,

				`CREATE TABLE IF NOT EXISTS catalog_rows (
					store TEXT NOT NULL,
					row_index INTEGER NOT NULL,
					name TEXT,
					spec TEXT,
					barcode TEXT,
					price REAL,
					original_price REAL,
					sales_qty REAL,
					stock REAL,
					category_path TEXT,
					PRIMARY KEY (store, row_index),
					FOREIGN KEY (store) REFERENCES catalogs(store)
				)`,

				`CREATE TABLE IF NOT EXISTS runs (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					store TEXT NOT NULL,
					region TEXT NOT NULL,
					input_rows INTEGER NOT NULL,
					total_sku_count INTEGER NOT NULL,
					duplicate_count INTEGER NOT NULL,
					multi_spec_product_count INTEGER NOT NULL,
					multi_spec_sku_count INTEGER NOT NULL,
					active_sku_count INTEGER NOT NULL,
					rejected_count INTEGER NOT NULL,
					active_rate REAL NOT NULL,
					total_revenue REAL NOT NULL,
					role_counts TEXT,
					price_band_counts TEXT,
					reject_reasons TEXT,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_runs_store ON runs(store, created_at)`,

				`CREATE TABLE IF NOT EXISTS tagged_skus (
					run_id INTEGER NOT NULL,
					row_index INTEGER NOT NULL,
					name TEXT NOT NULL,
					spec TEXT,
					barcode TEXT,
					price REAL NOT NULL,
					original_price REAL,
					sales_qty REAL NOT NULL,
					stock REAL,
					category_path TEXT,
					family_key TEXT NOT NULL,
					signature TEXT,
					is_multi_spec INTEGER NOT NULL,
					canonical_row INTEGER NOT NULL,
					role TEXT NOT NULL,
					scenarios TEXT,
					PRIMARY KEY (run_id, row_index),
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
				`CREATE INDEX idx_tagged_family ON tagged_skus(run_id, family_key)`,

				`CREATE TABLE IF NOT EXISTS rejected_rows (
					run_id INTEGER NOT NULL,
					row_index INTEGER NOT NULL,
					name TEXT,
					reason TEXT NOT NULL,
					PRIMARY KEY (run_id, row_index),
					FOREIGN KEY (run_id) REFERENCES runs(id)
				)`,
			}
			for _, q := range queries {
				if _, err := tx.Exec(q); err != nil {
					return fmt.Errorf("failed to execute %q: %w", q[:40], err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Index multi-spec lookups",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`CREATE INDEX IF NOT EXISTS idx_tagged_multi ON tagged_skus(run_id, is_multi_spec, canonical_row)`)
			return err
		},
	},
}

// Migrate applies all pending migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
