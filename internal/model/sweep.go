package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SweepAdjustment is a manually entered balance correction, applied at read
// time to every transaction of the given owner from Date forward. It never
// mutates stored ledger rows.
type SweepAdjustment struct {
	ID          int64
	Date        time.Time
	Owner       string
	Amount      decimal.Decimal // signed: positive adds to balances
	Description string
	CreatedAt   time.Time
}
