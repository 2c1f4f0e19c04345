package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nsharma/khata/internal/model"
	"github.com/nsharma/khata/internal/service"
	"github.com/shopspring/decimal"
)

// dateLayout is the sortable form dates take inside the database. The
// day-month-year boundary format is applied by callers, never stored.
const dateLayout = "2006-01-02"

// InsertTransactions saves a batch of canonical transactions. Rows whose
// identity key already exists are ignored; the returned count is the number
// actually inserted. Duplicates are informational, never an error.
func (s *SQLiteStorage) InsertTransactions(ctx context.Context, txns []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(txns) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			hash, date, owner, bank, description, debit, credit, balance, category
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range txns {
		res, err := stmt.ExecContext(ctx,
			txn.IdentityHash(),
			txn.Date.Format(dateLayout),
			txn.Owner,
			txn.Bank,
			txn.Description,
			txn.Debit.InexactFloat64(),
			txn.Credit.InexactFloat64(),
			txn.Balance.InexactFloat64(),
			txn.Category,
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert transaction: %w", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("failed to read rows affected: %w", err)
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit inserts: %w", err)
	}
	return inserted, nil
}

// CountDuplicates reports how many of the candidate transactions already
// exist in the ledger, matched on the identity key.
func (s *SQLiteStorage) CountDuplicates(ctx context.Context, txns []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if len(txns) == 0 {
		return 0, nil
	}

	stmt, err := s.db.PrepareContext(ctx, `SELECT COUNT(*) FROM transactions WHERE hash = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	duplicates := 0
	for _, txn := range txns {
		var n int
		if err := stmt.QueryRowContext(ctx, txn.IdentityHash()).Scan(&n); err != nil {
			return duplicates, fmt.Errorf("failed to check duplicate: %w", err)
		}
		if n > 0 {
			duplicates++
		}
	}
	return duplicates, nil
}

// ListTransactions returns ledger rows matching the filter in date order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT date, owner, bank, description, debit, credit, balance, category
		FROM transactions
	`
	var conditions []string
	var args []any

	if filter.Owner != "" {
		conditions = append(conditions, "owner = ?")
		args = append(args, filter.Owner)
	}
	if filter.Bank != "" {
		conditions = append(conditions, "bank = ?")
		args = append(args, filter.Bank)
	}
	if filter.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, filter.StartDate.Format(dateLayout))
	}
	if filter.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, filter.EndDate.Format(dateLayout))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txns = append(txns, txn)
	}
	return txns, rows.Err()
}

// ListTransactionsAdjusted is ListTransactions with sweep adjustments
// applied at read time: each adjustment shifts the balances of its owner's
// rows from its date forward. Stored rows are never mutated.
func (s *SQLiteStorage) ListTransactionsAdjusted(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	txns, err := s.ListTransactions(ctx, filter)
	if err != nil {
		return nil, err
	}
	adjustments, err := s.ListSweepAdjustments(ctx)
	if err != nil {
		return nil, err
	}

	for i := range txns {
		for _, adj := range adjustments {
			if txns[i].Owner == adj.Owner && !txns[i].Date.Before(adj.Date) {
				txns[i].Balance = txns[i].Balance.Add(adj.Amount)
			}
		}
	}
	return txns, nil
}

// CountTransactions returns the total number of ledger rows.
func (s *SQLiteStorage) CountTransactions(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return n, nil
}

// PurgeAll deletes every transaction and sweep adjustment, returning the
// number of ledger rows removed.
func (s *SQLiteStorage) PurgeAll(ctx context.Context) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM transactions`)
	if err != nil {
		return 0, fmt.Errorf("failed to purge transactions: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read rows affected: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM sweep_adjustments`); err != nil {
		return 0, fmt.Errorf("failed to purge sweep adjustments: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit purge: %w", err)
	}
	return removed, nil
}

// AccountBalances returns the latest known balance per owner+bank account.
func (s *SQLiteStorage) AccountBalances(ctx context.Context) ([]service.AccountBalance, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT owner, bank, balance, date
		FROM transactions t1
		WHERE id = (
			SELECT id FROM transactions t2
			WHERE t2.owner = t1.owner AND t2.bank = t1.bank
			ORDER BY date DESC, id DESC
			LIMIT 1
		)
		ORDER BY owner, bank
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account balances: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var balances []service.AccountBalance
	for rows.Next() {
		var b service.AccountBalance
		var balance float64
		var date string
		if err := rows.Scan(&b.Owner, &b.Bank, &balance, &date); err != nil {
			return nil, fmt.Errorf("failed to scan account balance: %w", err)
		}
		b.Balance = decimal.NewFromFloat(balance)
		if b.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse balance date: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// RecategorizeAll applies the categorize function to every row whose
// category is empty, leaving all other fields untouched. It returns the
// number of rows updated.
func (s *SQLiteStorage) RecategorizeAll(ctx context.Context, categorize func(description string) string) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `SELECT id, description FROM transactions WHERE category = ''`)
	if err != nil {
		return 0, fmt.Errorf("failed to query uncategorized rows: %w", err)
	}

	type pending struct {
		id       int64
		category string
	}
	var updates []pending
	for rows.Next() {
		var id int64
		var description string
		if err := rows.Scan(&id, &description); err != nil {
			_ = rows.Close()
			return 0, fmt.Errorf("failed to scan uncategorized row: %w", err)
		}
		updates = append(updates, pending{id: id, category: categorize(description)})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return 0, err
	}
	_ = rows.Close()

	stmt, err := tx.PrepareContext(ctx, `UPDATE transactions SET category = ? WHERE id = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare update: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, u := range updates {
		if _, err := stmt.ExecContext(ctx, u.category, u.id); err != nil {
			return 0, fmt.Errorf("failed to update category: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit recategorization: %w", err)
	}
	return len(updates), nil
}

// ExactTransfers self-joins the ledger on date where one side's debit
// equals the other side's credit and the accounts differ. Each pair yields
// exactly one row, with the debit side as the sender.
func (s *SQLiteStorage) ExactTransfers(ctx context.Context) ([]service.ExactTransferPair, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t1.date,
		       t1.owner, t1.bank,
		       t2.owner, t2.bank,
		       t1.debit,
		       t1.description, t2.description
		FROM transactions t1
		JOIN transactions t2 ON
			t1.date = t2.date
			AND t1.debit = t2.credit
			AND (t1.owner != t2.owner OR t1.bank != t2.bank)
			AND t1.debit > 0
		ORDER BY t1.date DESC, t1.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query exact transfers: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var pairs []service.ExactTransferPair
	for rows.Next() {
		var p service.ExactTransferPair
		var amount float64
		var date string
		if err := rows.Scan(&date, &p.FromOwner, &p.FromBank, &p.ToOwner, &p.ToBank,
			&amount, &p.FromDescription, &p.ToDescription); err != nil {
			return nil, fmt.Errorf("failed to scan transfer pair: %w", err)
		}
		p.Amount = decimal.NewFromFloat(amount)
		if p.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse transfer date: %w", err)
		}
		pairs = append(pairs, p)
	}
	return pairs, rows.Err()
}

func scanTransaction(rows *sql.Rows) (model.Transaction, error) {
	var txn model.Transaction
	var date string
	var debit, credit, balance float64

	if err := rows.Scan(&date, &txn.Owner, &txn.Bank, &txn.Description,
		&debit, &credit, &balance, &txn.Category); err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return txn, fmt.Errorf("failed to parse transaction date: %w", err)
	}
	txn.Date = parsed
	txn.Debit = decimal.NewFromFloat(debit)
	txn.Credit = decimal.NewFromFloat(credit)
	txn.Balance = decimal.NewFromFloat(balance)
	return txn, nil
}
