package main

import (
	"fmt"
	"log/slog"

	"github.com/nsharma/khata/internal/cli"
	"github.com/nsharma/khata/internal/ingest"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file-or-directory>...",
		Short: "Import bank statement CSV exports",
		Long: `Import one or more bank statement CSV files into the ledger.

Files follow the Owner_Bank.csv naming convention: Alice_HDFC.csv is parsed
with the HDFC format profile and attributed to Alice. Directories are scanned
for *.csv files. Rows already in the ledger are skipped automatically.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and report without saving")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("import.no_progress", cmd.Flags().Lookup("no-progress"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	paths, err := expandStatementArgs(args)
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	slog.Info(cli.FormatTitle("Importing bank statements"))

	ing := &ingest.Ingestor{
		Store:    store,
		DryRun:   viper.GetBool("import.dry_run"),
		Progress: !viper.GetBool("import.no_progress"),
	}
	if ing.DryRun {
		slog.Info(cli.FormatWarning("Dry run mode - not saving to database"))
	}

	results, err := ing.Files(ctx, paths)
	if err != nil {
		return err
	}

	var parsed, dropped, sweepRemoved, duplicates, inserted int
	for _, r := range results {
		parsed += r.Parsed
		dropped += r.Dropped
		sweepRemoved += r.SweepRemoved
		duplicates += r.Duplicates
		inserted += r.Inserted
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Processed %d of %d files", len(results), len(paths))))
	slog.Info("Import summary",
		"parsed", parsed,
		"dropped", dropped,
		"sweep_removed", sweepRemoved,
		"duplicates", duplicates,
		"inserted", inserted)

	if len(results) < len(paths) {
		slog.Warn(cli.FormatWarning(fmt.Sprintf("%d files could not be processed", len(paths)-len(results))))
	}
	return nil
}
