package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/syllogic-ai/personal-finance-app/internal/common"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// CreateSeries persists a recurring series. An empty ID is assigned a new
// UUID; an empty CreatedAt is set to the current time.
func (s *SQLiteStorage) CreateSeries(ctx context.Context, series *model.RecurringSeries) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateSeries(series); err != nil {
		return err
	}

	if series.ID == "" {
		series.ID = uuid.NewString()
	}
	if series.CreatedAt.IsZero() {
		series.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO recurring_series (
			id, name, merchant, amount, currency,
			account_id, frequency, is_active, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		series.ID,
		series.Name,
		series.Merchant,
		series.Amount,
		series.Currency,
		series.AccountID,
		series.Frequency,
		series.IsActive,
		series.CreatedAt,
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
			return fmt.Errorf("series %s: %w", series.ID, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create series: %w", err)
	}
	return nil
}

// GetSeriesByID retrieves a single series by ID.
func (s *SQLiteStorage) GetSeriesByID(ctx context.Context, id string) (*model.RecurringSeries, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, merchant, amount, currency,
		       account_id, frequency, is_active, created_at
		FROM recurring_series
		WHERE id = ?
	`, id)

	series, err := scanSeries(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get series: %w", err)
	}
	return series, nil
}

// ListActiveSeries returns active series visible to the given account:
// series scoped to that account plus account-agnostic ones. An empty
// accountID returns all active series.
func (s *SQLiteStorage) ListActiveSeries(ctx context.Context, accountID string) ([]model.RecurringSeries, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, merchant, amount, currency,
		       account_id, frequency, is_active, created_at
		FROM recurring_series
		WHERE is_active = 1
	`
	args := []any{}
	if accountID != "" {
		query += ` AND (account_id = '' OR account_id IS NULL OR account_id = ?)`
		args = append(args, accountID)
	}
	query += ` ORDER BY id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query active series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSeriesRows(rows)
}

// ListSeries returns all series, optionally including deactivated ones.
func (s *SQLiteStorage) ListSeries(ctx context.Context, includeInactive bool) ([]model.RecurringSeries, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, merchant, amount, currency,
		       account_id, frequency, is_active, created_at
		FROM recurring_series
	`
	if !includeInactive {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY name ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanSeriesRows(rows)
}

// DeactivateSeries marks a series inactive. Linked transactions keep their
// series id; the series simply stops matching new transactions.
func (s *SQLiteStorage) DeactivateSeries(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE recurring_series SET is_active = 0 WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate series: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to count updated rows: %w", err)
	}
	if rows == 0 {
		return common.ErrNotFound
	}
	return nil
}

func scanSeries(row scannable) (*model.RecurringSeries, error) {
	var series model.RecurringSeries
	var merchant, currency, accountID, frequency sql.NullString

	err := row.Scan(
		&series.ID,
		&series.Name,
		&merchant,
		&series.Amount,
		&currency,
		&accountID,
		&frequency,
		&series.IsActive,
		&series.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	series.Merchant = merchant.String
	series.Currency = currency.String
	series.AccountID = accountID.String
	series.Frequency = frequency.String
	return &series, nil
}

func scanSeriesRows(rows *sql.Rows) ([]model.RecurringSeries, error) {
	var series []model.RecurringSeries
	for rows.Next() {
		item, err := scanSeries(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan series: %w", err)
		}
		series = append(series, *item)
	}
	return series, rows.Err()
}
