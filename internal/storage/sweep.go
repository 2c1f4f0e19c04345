package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nsharma/khata/internal/common"
	"github.com/nsharma/khata/internal/model"
	"github.com/shopspring/decimal"
)

// AddSweepAdjustment records a manual balance correction.
func (s *SQLiteStorage) AddSweepAdjustment(ctx context.Context, adj model.SweepAdjustment) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(adj.Owner, "owner"); err != nil {
		return err
	}
	if adj.Date.IsZero() {
		return fmt.Errorf("%w: adjustment date cannot be zero", ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sweep_adjustments (date, owner, amount, description)
		VALUES (?, ?, ?, ?)
	`, adj.Date.Format(dateLayout), adj.Owner, adj.Amount.InexactFloat64(), adj.Description)
	if err != nil {
		return fmt.Errorf("failed to insert sweep adjustment: %w", err)
	}
	return nil
}

// ListSweepAdjustments returns all recorded corrections in date order.
func (s *SQLiteStorage) ListSweepAdjustments(ctx context.Context) ([]model.SweepAdjustment, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, owner, amount, description, created_at
		FROM sweep_adjustments
		ORDER BY date, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sweep adjustments: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var adjustments []model.SweepAdjustment
	for rows.Next() {
		var adj model.SweepAdjustment
		var date string
		var amount float64
		var createdAt sql.NullTime
		if err := rows.Scan(&adj.ID, &date, &adj.Owner, &amount, &adj.Description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan sweep adjustment: %w", err)
		}
		if adj.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("failed to parse adjustment date: %w", err)
		}
		adj.Amount = decimal.NewFromFloat(amount)
		if createdAt.Valid {
			adj.CreatedAt = createdAt.Time
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments, rows.Err()
}

// DeleteSweepAdjustment removes one correction by id.
func (s *SQLiteStorage) DeleteSweepAdjustment(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM sweep_adjustments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sweep adjustment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("sweep adjustment %d: %w", id, common.ErrNotFound)
	}
	return nil
}
