package main

import (
	"fmt"
	"log/slog"

	"github.com/nsharma/khata/internal/cli"
	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/normalize"
	"github.com/nsharma/khata/internal/service"
	"github.com/spf13/cobra"
)

func listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ledger transactions",
		Long: `List transactions with balance adjustments applied. Filters narrow by
owner, bank and date range; dates use day-month-year (02-01-2006) form.`,
		RunE: runList,
	}

	cmd.Flags().String("owner", "", "Filter by account owner")
	cmd.Flags().String("bank", "", "Filter by bank")
	cmd.Flags().String("from", "", "Start date (inclusive)")
	cmd.Flags().String("to", "", "End date (inclusive)")
	cmd.Flags().Bool("raw", false, "Show stored balances without adjustments")

	return cmd
}

func runList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	filter := service.TransactionFilter{}
	filter.Owner, _ = cmd.Flags().GetString("owner")
	filter.Bank, _ = cmd.Flags().GetString("bank")

	if raw, _ := cmd.Flags().GetString("from"); raw != "" {
		date, ok := normalize.ParseDate(raw, nil)
		if !ok {
			return fmt.Errorf("cannot parse date %q", raw)
		}
		filter.StartDate = &date
	}
	if raw, _ := cmd.Flags().GetString("to"); raw != "" {
		date, ok := normalize.ParseDate(raw, nil)
		if !ok {
			return fmt.Errorf("cannot parse date %q", raw)
		}
		filter.EndDate = &date
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var txns []model.Transaction
	if rawBalances, _ := cmd.Flags().GetBool("raw"); rawBalances {
		txns, err = store.ListTransactions(ctx, filter)
	} else {
		txns, err = store.ListTransactionsAdjusted(ctx, filter)
	}
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	if len(txns) == 0 {
		slog.Info("No transactions match")
		return nil
	}

	for _, txn := range txns {
		amount := "  " + formatINR(txn.Credit)
		if txn.Debit.IsPositive() {
			amount = "- " + formatINR(txn.Debit)
		}
		fmt.Printf("%s  %-10s %-6s %12s  bal %12s  %-16s %s\n",
			normalize.FormatDate(txn.Date),
			txn.Owner, txn.Bank,
			amount, formatINR(txn.Balance),
			txn.Category,
			cli.FormatSubtle(txn.Description))
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("%d transactions", len(txns))))
	return nil
}
