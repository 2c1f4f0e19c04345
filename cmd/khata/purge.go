package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/nsharma/khata/internal/cli"
	"github.com/spf13/cobra"
)

func purgeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete all transactions and adjustments",
		Long: `Delete every transaction and balance adjustment from the ledger. The
statement CSV files are untouched, so a fresh import rebuilds everything.`,
		RunE: runPurge,
	}
	cmd.Flags().Bool("force", false, "Skip the confirmation prompt")
	return cmd
}

func runPurge(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	force, _ := cmd.Flags().GetBool("force")
	if !force {
		fmt.Print(cli.FormatWarning("This deletes the entire ledger. Type 'yes' to continue: "))
		reader := bufio.NewReader(os.Stdin)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if strings.TrimSpace(answer) != "yes" {
			slog.Info("Purge cancelled")
			return nil
		}
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	removed, err := store.PurgeAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge ledger: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Removed %d transactions", removed)))
	return nil
}
