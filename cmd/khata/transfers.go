package main

import (
	"fmt"
	"log/slog"

	"github.com/nsharma/khata/internal/cli"
	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/normalize"
	"github.com/nsharma/khata/internal/storage"
	"github.com/nsharma/khata/internal/transfer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func transfersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfers",
		Short: "Show transfers between accounts",
		Long: `Detect and display money moving between the family's accounts.

Exact detection pairs a debit in one account with a same-day credit of the
same amount in another. When no exact pairs exist, transfer-like rows are
flagged from their narration alone and the counterparty is inferred.`,
		RunE: runTransfers,
	}

	cmd.Flags().Bool("summary", false, "Show aggregate statistics instead of individual transfers")
	_ = viper.BindPFlag("transfers.summary", cmd.Flags().Lookup("summary"))

	return cmd
}

func runTransfers(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if viper.GetBool("transfers.summary") {
		return showTransferSummary(cmd, store)
	}

	records, err := transfer.Detect(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to detect transfers: %w", err)
	}

	slog.Info(cli.FormatTitle("Inter-account transfers"))
	if len(records) == 0 {
		slog.Info("No transfers found")
		return nil
	}

	for _, r := range records {
		line := fmt.Sprintf("%s  %s  %s (%s) → %s (%s)  [%s]",
			normalize.FormatDate(r.Date),
			formatINR(r.Amount),
			r.FromOwner, r.FromBank,
			r.ToOwner, r.ToBank,
			r.TransferType)
		if r.Detection == model.DetectionHeuristic {
			line += "  " + cli.FormatSubtle("(inferred)")
		}
		fmt.Println(line)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("%d transfers detected", len(records))))
	return nil
}

func showTransferSummary(cmd *cobra.Command, store *storage.SQLiteStorage) error {
	ctx := cmd.Context()

	summary, err := transfer.Summarize(ctx, store)
	if err != nil {
		return fmt.Errorf("failed to summarize transfers: %w", err)
	}

	slog.Info(cli.FormatTitle("Transfer patterns"))

	fmt.Println(cli.TableHeaderStyle.Render("By method"))
	for _, m := range summary.Methods {
		fmt.Printf("  %-20s %4d  total %s  avg %s\n",
			m.Method, m.Count, formatINR(m.Total), formatINR(m.Average))
	}

	fmt.Println(cli.TableHeaderStyle.Render("By bank"))
	for _, b := range summary.Banks {
		fmt.Printf("  %-24s %4d  total %s\n", b.Bank, b.Count, formatINR(b.Total))
	}

	fmt.Println(cli.TableHeaderStyle.Render("By direction"))
	for _, d := range summary.Directions {
		fmt.Printf("  %-10s %4d  total %s  avg %s\n",
			d.Direction, d.Count, formatINR(d.Total), formatINR(d.Average))
	}
	return nil
}
