// Package model defines the canonical records shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is one canonical ledger row, normalized from a bank statement
// export. At most one of Debit/Credit is positive; informational rows may
// have both at zero.
type Transaction struct {
	Date        time.Time // calendar day, midnight UTC
	Owner       string    // account holder, from the file naming convention
	Bank        string    // issuing institution
	Description string    // cleaned narration text
	Category    string    // spending category, may be back-filled later
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Balance     decimal.Decimal // running balance after this transaction
}

// IdentityHash creates a unique hash for duplicate detection. Balance is
// deliberately excluded: sweep reconciliation can shift it between imports
// of the same statement.
func (t *Transaction) IdentityHash() string {
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s",
		t.Date.Format("2006-01-02"),
		t.Owner,
		t.Bank,
		t.Description,
		t.Debit.String(),
		t.Credit.String(),
	)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Amount returns the transaction's magnitude: the debit when money left the
// account, otherwise the credit.
func (t *Transaction) Amount() decimal.Decimal {
	if t.Debit.IsPositive() {
		return t.Debit
	}
	return t.Credit
}
