// Package sweep reconciles auto-sweep (MOD) activity out of an account's
// transaction history.
//
// Some savings products automatically move balance above a threshold into a
// sweep sub-account and back again. The statement shows these movements as
// ordinary transfer rows, but they are an accounting artifact, not real
// spending. The reconciler removes them and corrects the surrounding rows'
// running balances to what a statement without the sweep product would
// have shown.
package sweep

import (
	"regexp"

	"github.com/nsharma/khata/internal/model"
	"github.com/shopspring/decimal"
)

// The two known sweep-transfer phrasings: money moving out to the sweep
// sub-account, and money moving back from it.
var (
	sweepOutPattern = regexp.MustCompile(`(?i)\bTO\s+TRANSFER\b.*\bMOD\b`)
	sweepInPattern  = regexp.MustCompile(`(?i)\bBY\s+TRANSFER\b.*\bMOD\b`)
)

// IsSweepRow reports whether a description matches a sweep-transfer phrasing.
func IsSweepRow(description string) bool {
	return sweepOutPattern.MatchString(description) || sweepInPattern.MatchString(description)
}

// Result reports what a reconciliation pass did. RemovedBalanceDelta is the
// net effect the removed rows had on the statement's running balance;
// AppliedCorrection is the total correction folded into surviving rows.
// The two sum to zero whenever a real row follows the last sweep row,
// which is the balance-neutrality invariant.
type Result struct {
	Removed             int
	ModBalance          decimal.Decimal // running sweep sub-account balance after the pass
	RemovedBalanceDelta decimal.Decimal
	AppliedCorrection   decimal.Decimal
	PendingDelta        decimal.Decimal // accumulated but unapplied (no real row followed)
}

// Reconcile runs the reconciliation state machine over one account's rows,
// which must be sorted chronologically. modBalance is the sweep sub-account
// balance extracted from the statement header. The input slice is not
// modified; surviving rows are returned with corrected balances.
//
// State: a pending balance delta, initially zero. Sweep rows fold their
// amount into the sweep balance and the pending delta and are dropped;
// the next real row absorbs the pending delta into its balance and resets
// it to zero.
func Reconcile(modBalance decimal.Decimal, rows []model.Transaction) ([]model.Transaction, Result) {
	result := Result{
		ModBalance:          modBalance,
		RemovedBalanceDelta: decimal.Zero,
		AppliedCorrection:   decimal.Zero,
	}

	pending := decimal.Zero
	kept := make([]model.Transaction, 0, len(rows))

	for _, row := range rows {
		if IsSweepRow(row.Description) {
			amount := row.Amount()
			if row.Debit.IsPositive() {
				// Money left the account for the sweep sub-account: the
				// statement balance dropped by amount, so later rows need
				// a correction of +amount.
				result.ModBalance = result.ModBalance.Add(amount)
				result.RemovedBalanceDelta = result.RemovedBalanceDelta.Sub(amount)
				pending = pending.Add(amount)
			} else {
				result.ModBalance = result.ModBalance.Sub(amount)
				result.RemovedBalanceDelta = result.RemovedBalanceDelta.Add(amount)
				pending = pending.Sub(amount)
			}
			result.Removed++
			continue
		}

		if !pending.IsZero() {
			row.Balance = row.Balance.Add(pending)
			result.AppliedCorrection = result.AppliedCorrection.Add(pending)
			pending = decimal.Zero
		}
		kept = append(kept, row)
	}

	result.PendingDelta = pending
	return kept, result
}
