package main

import (
	"fmt"
	"log/slog"

	"github.com/nsharma/khata/internal/category"
	"github.com/nsharma/khata/internal/cli"
	"github.com/spf13/cobra"
)

func recategorizeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recategorize",
		Short: "Categorize ledger rows that have no category",
		Long: `Run the category rules over every uncategorized ledger row. Rows that
already carry a category are left alone, so manual corrections survive.`,
		RunE: runRecategorize,
	}
}

func runRecategorize(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	updated, err := store.RecategorizeAll(ctx, category.Categorize)
	if err != nil {
		return fmt.Errorf("failed to recategorize: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Categorized %d transactions", updated)))
	return nil
}
