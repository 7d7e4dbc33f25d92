package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/syllogic-ai/personal-finance-app/internal/common"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// SaveTransactions saves transactions, silently skipping duplicates by hash.
// It returns the number of rows actually inserted.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			id, hash, booked_at, description, merchant,
			amount, currency, account_id, series_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		// Generate hash if not already set
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}

		res, err := stmt.ExecContext(ctx,
			txn.ID,
			txn.Hash,
			txn.BookedAt,
			txn.Description,
			txn.Merchant,
			txn.Amount,
			txn.Currency,
			txn.AccountID,
			nullableString(txn.SeriesID),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to count inserted rows: %w", err)
		}
		inserted += int(rows)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return inserted, nil
}

// GetTransactionByID retrieves a single transaction by ID.
func (s *SQLiteStorage) GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, hash, booked_at, description, merchant,
		       amount, currency, account_id, series_id
		FROM transactions
		WHERE id = ?
	`, id)

	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return txn, nil
}

// GetUnlinkedExpenses returns expense transactions without a series booked on
// or after the cutoff, ordered by booking date ascending.
func (s *SQLiteStorage) GetUnlinkedExpenses(ctx context.Context, since time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, booked_at, description, merchant,
		       amount, currency, account_id, series_id
		FROM transactions
		WHERE amount < 0
		  AND (series_id IS NULL OR series_id = '')
		  AND booked_at >= ?
		ORDER BY booked_at ASC
	`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query unlinked expenses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetTransactionsBySeries returns all transactions linked to a series,
// ordered by booking date ascending.
func (s *SQLiteStorage) GetTransactionsBySeries(ctx context.Context, seriesID string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(seriesID, "seriesID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hash, booked_at, description, merchant,
		       amount, currency, account_id, series_id
		FROM transactions
		WHERE series_id = ?
		ORDER BY booked_at ASC
	`, seriesID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by series: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// LinkTransactions assigns the given transactions to a series.
func (s *SQLiteStorage) LinkTransactions(ctx context.Context, transactionIDs []string, seriesID string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(seriesID, "seriesID"); err != nil {
		return err
	}
	if len(transactionIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(transactionIDs)), ",")
	args := make([]any, 0, len(transactionIDs)+1)
	args = append(args, seriesID)
	for _, id := range transactionIDs {
		args = append(args, id)
	}

	query := fmt.Sprintf(`UPDATE transactions SET series_id = ? WHERE id IN (%s)`, placeholders)
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to link transactions: %w", err)
	}

	return tx.Commit()
}

// scannable is satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func scanTransaction(row scannable) (*model.Transaction, error) {
	var txn model.Transaction
	var merchant, currency, accountID, seriesID sql.NullString

	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.BookedAt,
		&txn.Description,
		&merchant,
		&txn.Amount,
		&currency,
		&accountID,
		&seriesID,
	)
	if err != nil {
		return nil, err
	}

	txn.Merchant = merchant.String
	txn.Currency = currency.String
	txn.AccountID = accountID.String
	txn.SeriesID = seriesID.String
	return &txn, nil
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	return transactions, rows.Err()
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
