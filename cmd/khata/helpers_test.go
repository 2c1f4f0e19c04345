package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/nsharma/khata/internal/common"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStorageCreatesDatabase(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Set("database.path", filepath.Join(t.TempDir(), "khata.db"))

	store, err := openStorage(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	count, err := store.CountTransactions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestOpenStorageReportsUserError(t *testing.T) {
	t.Cleanup(viper.Reset)

	// A regular file where the database directory should go makes the open
	// fail; the caller gets a message fit for the terminal.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	viper.Set("database.path", filepath.Join(blocker, "sub", "khata.db"))

	_, err := openStorage(context.Background())
	require.Error(t, err)

	var userErr *common.UserError
	assert.True(t, errors.As(err, &userErr))
	assert.Contains(t, userErr.UserMessage, "cannot open ledger database")
}

func TestExpandStatementArgs(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "Alice_HDFC.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("Date\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	paths, err := expandStatementArgs([]string{dir})
	require.NoError(t, err)
	assert.Equal(t, []string{csvPath}, paths)

	paths, err = expandStatementArgs([]string{csvPath})
	require.NoError(t, err)
	assert.Equal(t, []string{csvPath}, paths)

	_, err = expandStatementArgs([]string{filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}
