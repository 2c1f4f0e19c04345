// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/nsharma/khata/internal/model"
	"github.com/shopspring/decimal"
)

// TransactionFilter defines filtering options for ledger queries.
type TransactionFilter struct {
	Owner     string
	Bank      string
	StartDate *time.Time
	EndDate   *time.Time
}

// AccountBalance is the latest known balance for one owner+bank account.
type AccountBalance struct {
	Owner   string
	Bank    string
	Date    time.Time
	Balance decimal.Decimal
}

// ExactTransferPair is one debit row matched to one credit row on the same
// date across different accounts. Produced by the store's self-join.
type ExactTransferPair struct {
	Date            time.Time
	FromOwner       string
	FromBank        string
	ToOwner         string
	ToBank          string
	Amount          decimal.Decimal
	FromDescription string
	ToDescription   string
}

// Storage defines the contract for the ledger persistence layer. The store
// handle is owned by the caller; parsing and reconciliation components
// receive it explicitly and never open connections themselves.
type Storage interface {
	// Ledger operations.
	InsertTransactions(ctx context.Context, txns []model.Transaction) (inserted int, err error)
	CountDuplicates(ctx context.Context, txns []model.Transaction) (int, error)
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	ListTransactionsAdjusted(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	CountTransactions(ctx context.Context) (int, error)
	PurgeAll(ctx context.Context) (int64, error)
	AccountBalances(ctx context.Context) ([]AccountBalance, error)
	RecategorizeAll(ctx context.Context, categorize func(description string) string) (int, error)

	// Sweep adjustment operations.
	AddSweepAdjustment(ctx context.Context, adj model.SweepAdjustment) error
	ListSweepAdjustments(ctx context.Context) ([]model.SweepAdjustment, error)
	DeleteSweepAdjustment(ctx context.Context, id int64) error

	// Transfer detection support.
	ExactTransfers(ctx context.Context) ([]ExactTransferPair, error)

	// Database management.
	Migrate(ctx context.Context) error
	Close() error
}
