package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nsharma/khata/internal/common"
	"github.com/nsharma/khata/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// openStorage opens the ledger database and brings the schema up to date.
// The caller owns the returned store and must Close it.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".config", "khata", "khata.db")
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, common.NewUserError(fmt.Sprintf("cannot open ledger database at %s", dbPath), err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, common.NewUserError("ledger database schema upgrade failed", err)
	}

	return store, nil
}

// formatINR renders an amount with the rupee sign and two decimal places.
func formatINR(amount decimal.Decimal) string {
	return "₹" + amount.StringFixed(2)
}

// expandStatementArgs turns a mix of file and directory arguments into a
// flat list of CSV file paths. Directories contribute their *.csv entries.
func expandStatementArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*.csv"))
		if err != nil {
			return nil, fmt.Errorf("listing %s: %w", arg, err)
		}
		paths = append(paths, matches...)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no statement files found")
	}
	return paths, nil
}
