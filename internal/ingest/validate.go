package ingest

import (
	"context"
	"fmt"
	"sort"

	"github.com/nsharma/khata/internal/service"
	"github.com/shopspring/decimal"
)

// ValidateLedger scans the stored ledger for quality issues and returns
// human-readable findings. It never fails on bad data; only storage errors
// propagate.
func ValidateLedger(ctx context.Context, store service.Storage) ([]string, error) {
	txns, err := store.ListTransactions(ctx, service.TransactionFilter{})
	if err != nil {
		return nil, err
	}
	if len(txns) == 0 {
		return []string{"No data found"}, nil
	}

	var issues []string

	// Balance movements far outside the account's usual range often mean a
	// mis-parsed row or a missing statement period. Flag jumps above the
	// 95th percentile of all consecutive jumps.
	if len(txns) > 1 {
		jumps := make([]decimal.Decimal, 0, len(txns)-1)
		for i := 1; i < len(txns); i++ {
			jumps = append(jumps, txns[i].Balance.Sub(txns[i-1].Balance).Abs())
		}
		threshold := quantile(jumps, 0.95)
		suspicious := 0
		for _, j := range jumps {
			if j.GreaterThan(threshold) {
				suspicious++
			}
		}
		if suspicious > 0 {
			issues = append(issues, fmt.Sprintf("%d potentially suspicious balance changes detected", suspicious))
		}
	}

	// The identity hash blocks exact re-imports, but rows differing only in
	// account can still collide on date+description+amounts.
	seen := make(map[string]bool, len(txns))
	duplicates := 0
	for _, txn := range txns {
		key := fmt.Sprintf("%s|%s|%s|%s",
			txn.Date.Format("2006-01-02"), txn.Description, txn.Debit.String(), txn.Credit.String())
		if seen[key] {
			duplicates++
		}
		seen[key] = true
	}
	if duplicates > 0 {
		issues = append(issues, fmt.Sprintf("%d potential duplicate transactions found", duplicates))
	}

	if len(issues) == 0 {
		return []string{"Data integrity looks good"}, nil
	}
	return issues, nil
}

// quantile returns the q-th quantile of values using linear interpolation
// between the two nearest ranks.
func quantile(values []decimal.Decimal, q float64) decimal.Decimal {
	sorted := make([]decimal.Decimal, len(values))
	copy(sorted, values)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LessThan(sorted[j]) })

	if len(sorted) == 1 {
		return sorted[0]
	}

	pos := q * float64(len(sorted)-1)
	lower := int(pos)
	if lower >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	frac := decimal.NewFromFloat(pos - float64(lower))
	return sorted[lower].Add(sorted[lower+1].Sub(sorted[lower]).Mul(frac))
}
