package storage

import (
	"context"
	"fmt"
	"log/slog"
)

// migration is a single schema change applied in order. The schema version
// lives in PRAGMA user_version, so partially applied upgrades are visible.
type migration struct {
	version     int
	description string
	statements  []string
}

var migrations = []migration{
	{
		version:     1,
		description: "create transactions table",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS transactions (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				hash TEXT NOT NULL UNIQUE,
				date TEXT NOT NULL,
				owner TEXT NOT NULL,
				bank TEXT NOT NULL,
				description TEXT NOT NULL,
				debit REAL NOT NULL DEFAULT 0,
				credit REAL NOT NULL DEFAULT 0,
				balance REAL NOT NULL DEFAULT 0,
				category TEXT NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_account ON transactions(owner, bank)`,
		},
	},
	{
		version:     2,
		description: "create sweep_adjustments table",
		statements: []string{
			`CREATE TABLE IF NOT EXISTS sweep_adjustments (
				id INTEGER PRIMARY KEY AUTOINCREMENT,
				date TEXT NOT NULL,
				owner TEXT NOT NULL,
				amount REAL NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
			)`,
		},
	},
	{
		version:     3,
		description: "index transfer self-join columns",
		statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_transactions_date_debit ON transactions(date, debit)`,
			`CREATE INDEX IF NOT EXISTS idx_transactions_date_credit ON transactions(date, credit)`,
		},
	},
}

// Migrate applies any pending schema migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var current int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&current); err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin migration %d: %w", m.version, err)
		}

		for _, stmt := range m.statements {
			if _, err := tx.ExecContext(ctx, stmt); err != nil {
				_ = tx.Rollback()
				return fmt.Errorf("migration %d (%s) failed: %w", m.version, m.description, err)
			}
		}

		// PRAGMA cannot take bind parameters.
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to set schema version %d: %w", m.version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", m.version, err)
		}

		slog.Debug("applied schema migration",
			"version", m.version,
			"description", m.description)
	}

	return nil
}
