package main

import (
	"fmt"
	"log/slog"

	"github.com/nsharma/khata/internal/cli"
	"github.com/nsharma/khata/internal/ingest"
	"github.com/spf13/cobra"
)

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the ledger for data quality issues",
		RunE:  runValidate,
	}
}

func runValidate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	slog.Info(cli.FormatTitle("Validating ledger"))

	issues, err := ingest.ValidateLedger(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to validate ledger: %w", err)
	}

	for _, issue := range issues {
		if issue == "Data integrity looks good" {
			fmt.Println(cli.FormatSuccess(issue))
		} else {
			fmt.Println(cli.FormatWarning(issue))
		}
	}
	return nil
}
