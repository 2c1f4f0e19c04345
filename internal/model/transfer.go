package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DetectionType says how a transfer record was produced.
type DetectionType string

const (
	// DetectionExact means two ledger rows were matched debit-to-credit.
	DetectionExact DetectionType = "exact"
	// DetectionHeuristic means a single row was flagged by description
	// tokens; the counterparty is inferred and may be wrong.
	DetectionHeuristic DetectionType = "heuristic"
)

// Transfer type labels reported to callers.
const (
	TransferInterBank          = "Inter-Bank (Same Person)"
	TransferInterPerson        = "Inter-Person Transfer"
	TransferInterBankHeuristic = "Inter-Bank Transfer"
)

// TransferRecord is a derived view of money moving between accounts. It is
// recomputed from the ledger on every query and never persisted.
type TransferRecord struct {
	Date            time.Time
	FromOwner       string
	FromBank        string
	ToOwner         string
	ToBank          string
	Amount          decimal.Decimal
	FromDescription string
	ToDescription   string
	TransferType    string
	Detection       DetectionType
}
