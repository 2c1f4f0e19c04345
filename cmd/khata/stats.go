package main

import (
	"fmt"
	"log/slog"

	"github.com/nsharma/khata/internal/cli"
	"github.com/nsharma/khata/internal/normalize"
	"github.com/spf13/cobra"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show ledger statistics and account balances",
		RunE:  runStats,
	}
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	count, err := store.CountTransactions(ctx)
	if err != nil {
		return fmt.Errorf("failed to count transactions: %w", err)
	}

	balances, err := store.AccountBalances(ctx)
	if err != nil {
		return fmt.Errorf("failed to get account balances: %w", err)
	}

	adjustments, err := store.ListSweepAdjustments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list adjustments: %w", err)
	}

	slog.Info(cli.FormatTitle("Ledger overview"))
	slog.Info("Totals", "transactions", count, "accounts", len(balances), "adjustments", len(adjustments))

	if len(balances) == 0 {
		return nil
	}

	fmt.Println(cli.TableHeaderStyle.Render("Latest account balances"))
	for _, b := range balances {
		fmt.Printf("  %-12s %-8s %14s  %s\n",
			b.Owner, b.Bank, formatINR(b.Balance),
			cli.FormatSubtle("as of "+normalize.FormatDate(b.Date)))
	}
	return nil
}
