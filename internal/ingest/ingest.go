// Package ingest runs statement export files through the full import
// pipeline: read, normalize, sweep-reconcile, categorize, deduplicate,
// persist.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/nsharma/khata/internal/category"
	"github.com/nsharma/khata/internal/common"
	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/normalize"
	"github.com/nsharma/khata/internal/profile"
	"github.com/nsharma/khata/internal/service"
	"github.com/nsharma/khata/internal/statement"
	"github.com/nsharma/khata/internal/sweep"
	"github.com/schollz/progressbar/v3"
)

// FileResult reports what happened to one statement file.
type FileResult struct {
	File         string
	Owner        string
	Bank         string
	Parsed       int // rows read from the tabular body
	Dropped      int // rows discarded for unparsable dates
	SweepRemoved int // sweep-transfer rows reconciled away
	Duplicates   int // candidates already present in the ledger
	Inserted     int // rows actually written
}

// Ingestor runs the import pipeline against one ledger store.
type Ingestor struct {
	Store    service.Storage
	DryRun   bool // parse and count but never write
	Progress bool // render a progress bar over multi-file imports
}

// File ingests a single statement export.
func (ing *Ingestor) File(ctx context.Context, path string) (FileResult, error) {
	result := FileResult{File: filepath.Base(path)}

	data, err := os.ReadFile(path)
	if err != nil {
		return result, fmt.Errorf("reading %s: %w", result.File, err)
	}

	owner, bank, prof, rows, err := statement.ReadFile(data, path)
	result.Owner = owner
	result.Bank = bank
	if err != nil {
		return result, err
	}
	if !profile.Known(bank) {
		slog.Warn("no format profile for bank, using generic column mapping",
			"file", result.File,
			"bank", bank)
	}
	result.Parsed = len(rows)

	txns, dropped := buildTransactions(owner, bank, prof, rows)
	result.Dropped = dropped

	// Sweep reconciliation needs chronological order; sorting is stable so
	// same-day rows keep their statement order.
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.Before(txns[j].Date)
	})

	if prof.Sweep {
		modBalance, _ := statement.ExtractSweepBalance(data, prof)
		var sweepResult sweep.Result
		txns, sweepResult = sweep.Reconcile(modBalance, txns)
		result.SweepRemoved = sweepResult.Removed
		if sweepResult.Removed > 0 {
			slog.Info("reconciled sweep transfers",
				"file", result.File,
				"removed", sweepResult.Removed,
				"mod_balance", sweepResult.ModBalance.StringFixed(2))
		}
	}

	for i := range txns {
		txns[i].Category = category.Categorize(txns[i].Description)
	}

	result.Duplicates, err = ing.Store.CountDuplicates(ctx, txns)
	if err != nil {
		return result, err
	}

	if ing.DryRun {
		return result, nil
	}

	result.Inserted, err = ing.Store.InsertTransactions(ctx, txns)
	if err != nil {
		return result, err
	}

	common.LogInfo("imported statement", common.Fields{
		"file":       result.File,
		"owner":      owner,
		"bank":       bank,
		"parsed":     result.Parsed,
		"inserted":   result.Inserted,
		"duplicates": result.Duplicates,
	})
	return result, nil
}

// Files ingests a batch of statement exports. A file that fails to parse is
// logged and skipped; the batch continues. The returned slice holds one
// entry per successfully processed file.
func (ing *Ingestor) Files(ctx context.Context, paths []string) ([]FileResult, error) {
	var bar *progressbar.ProgressBar
	if ing.Progress {
		bar = progressbar.Default(int64(len(paths)), "importing")
	}

	var results []FileResult
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := ing.File(ctx, path)
		if err != nil {
			common.LogError(err, "skipping statement file", common.Fields{
				"file": filepath.Base(path),
			})
		} else {
			results = append(results, result)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return results, nil
}

// buildTransactions normalizes raw statement rows into canonical
// transactions. Rows whose date cannot be parsed are dropped and counted;
// every other field is best-effort.
func buildTransactions(owner, bank string, p profile.Profile, rows []statement.Row) ([]model.Transaction, int) {
	txns := make([]model.Transaction, 0, len(rows))
	dropped := 0

	for _, row := range rows {
		date, ok := normalize.ParseDate(row[statement.ColDate], p.DateFormats)
		if !ok {
			dropped++
			continue
		}

		txns = append(txns, model.Transaction{
			Date:        date,
			Owner:       owner,
			Bank:        bank,
			Description: normalize.CleanDescription(row[statement.ColDescription]),
			Debit:       normalize.ParseAmount(row[statement.ColDebit]),
			Credit:      normalize.ParseAmount(row[statement.ColCredit]),
			Balance:     normalize.ParseAmount(row[statement.ColBalance]),
		})
	}

	return txns, dropped
}
