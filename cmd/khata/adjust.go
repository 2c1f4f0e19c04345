package main

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/nsharma/khata/internal/cli"
	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/normalize"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func adjustCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "adjust",
		Short: "Manage manual balance adjustments",
		Long: `Manage sweep adjustments: manual balance corrections applied at read
time to one owner's transactions from a given date forward. Useful when a
statement predates the sweep history and the reconciled balances are offset
by a constant.`,
	}

	cmd.AddCommand(adjustAddCmd())
	cmd.AddCommand(adjustListCmd())
	cmd.AddCommand(adjustDeleteCmd())
	return cmd
}

func adjustAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <owner> <date> <amount>",
		Short: "Add a balance adjustment",
		Long: `Add a balance correction for one owner. The date uses day-month-year
(02-01-2006) form and the amount may be negative:

  khata adjust add Alice 01-04-2022 -30000 --note "pre-history sweep offset"`,
		Args: cobra.ExactArgs(3),
		RunE: runAdjustAdd,
	}
	cmd.Flags().String("note", "", "Description of why the adjustment exists")
	return cmd
}

func runAdjustAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	owner := args[0]
	date, ok := normalize.ParseDate(args[1], nil)
	if !ok {
		return fmt.Errorf("cannot parse date %q", args[1])
	}
	amount, err := decimal.NewFromString(args[2])
	if err != nil {
		return fmt.Errorf("cannot parse amount %q: %w", args[2], err)
	}
	note, _ := cmd.Flags().GetString("note")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.AddSweepAdjustment(ctx, model.SweepAdjustment{
		Date:        date,
		Owner:       owner,
		Amount:      amount,
		Description: note,
	}); err != nil {
		return fmt.Errorf("failed to add adjustment: %w", err)
	}

	slog.Info(cli.FormatSuccess(fmt.Sprintf("Added %s adjustment for %s from %s",
		formatINR(amount), owner, normalize.FormatDate(date))))
	return nil
}

func adjustListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List balance adjustments",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			adjustments, err := store.ListSweepAdjustments(ctx)
			if err != nil {
				return fmt.Errorf("failed to list adjustments: %w", err)
			}

			slog.Info(cli.FormatTitle("Balance adjustments"))
			if len(adjustments) == 0 {
				slog.Info("No adjustments recorded")
				return nil
			}

			for _, adj := range adjustments {
				line := fmt.Sprintf("#%d  %s  %-12s %12s", adj.ID,
					normalize.FormatDate(adj.Date), adj.Owner, formatINR(adj.Amount))
				if adj.Description != "" {
					line += "  " + cli.FormatSubtle(adj.Description)
				}
				fmt.Println(line)
			}
			return nil
		},
	}
}

func adjustDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a balance adjustment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid adjustment id %q", args[0])
			}

			store, err := openStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.DeleteSweepAdjustment(ctx, id); err != nil {
				return fmt.Errorf("failed to delete adjustment: %w", err)
			}

			slog.Info(cli.FormatSuccess(fmt.Sprintf("Deleted adjustment #%d", id)))
			return nil
		},
	}
}
