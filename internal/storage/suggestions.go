package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syllogic-ai/personal-finance-app/internal/common"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// SaveSuggestions persists detection suggestions. Empty IDs are assigned new
// UUIDs, an empty status defaults to pending.
func (s *SQLiteStorage) SaveSuggestions(ctx context.Context, suggestions []model.Suggestion) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if len(suggestions) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO suggestions (
			id, suggested_name, suggested_merchant, suggested_amount, currency,
			frequency, confidence, match_count, avg_interval_days,
			matched_transaction_ids, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range suggestions {
		sug := &suggestions[i]
		if err := validateSuggestion(sug); err != nil {
			return fmt.Errorf("suggestion at index %d: %w", i, err)
		}

		if sug.ID == "" {
			sug.ID = uuid.NewString()
		}
		if sug.Status == "" {
			sug.Status = model.SuggestionPending
		}
		if sug.CreatedAt.IsZero() {
			sug.CreatedAt = time.Now().UTC()
		}

		idsJSON, err := json.Marshal(sug.MatchedTransactionIDs)
		if err != nil {
			return fmt.Errorf("failed to encode matched transaction ids: %w", err)
		}

		if _, err := stmt.ExecContext(ctx,
			sug.ID,
			sug.SuggestedName,
			sug.SuggestedMerchant,
			sug.SuggestedAmount,
			sug.Currency,
			sug.Frequency,
			sug.Confidence,
			sug.MatchCount,
			sug.AvgIntervalDays,
			string(idsJSON),
			sug.Status,
			sug.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert suggestion %s: %w", sug.ID, err)
		}
	}

	return tx.Commit()
}

// GetSuggestionByID retrieves a single suggestion by ID.
func (s *SQLiteStorage) GetSuggestionByID(ctx context.Context, id string) (*model.Suggestion, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, suggested_name, suggested_merchant, suggested_amount, currency,
		       frequency, confidence, match_count, avg_interval_days,
		       matched_transaction_ids, status, created_at
		FROM suggestions
		WHERE id = ?
	`, id)

	sug, err := scanSuggestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}
	return sug, nil
}

// ListSuggestions returns suggestions filtered by status, highest confidence
// first. An empty status returns all suggestions.
func (s *SQLiteStorage) ListSuggestions(ctx context.Context, status string) ([]model.Suggestion, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if status != "" {
		if err := validateSuggestionStatus(status); err != nil {
			return nil, err
		}
	}

	query := `
		SELECT id, suggested_name, suggested_merchant, suggested_amount, currency,
		       frequency, confidence, match_count, avg_interval_days,
		       matched_transaction_ids, status, created_at
		FROM suggestions
	`
	args := []any{}
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY confidence DESC, match_count DESC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var suggestions []model.Suggestion
	for rows.Next() {
		sug, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan suggestion: %w", err)
		}
		suggestions = append(suggestions, *sug)
	}
	return suggestions, rows.Err()
}

// UpdateSuggestionStatus transitions a suggestion to a new status.
func (s *SQLiteStorage) UpdateSuggestionStatus(ctx context.Context, id, status string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	if err := validateSuggestionStatus(status); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE suggestions SET status = ? WHERE id = ?
	`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update suggestion status: %w", err)
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

func scanSuggestion(row scannable) (*model.Suggestion, error) {
	var sug model.Suggestion
	var merchant, currency, frequency, idsJSON sql.NullString

	err := row.Scan(
		&sug.ID,
		&sug.SuggestedName,
		&merchant,
		&sug.SuggestedAmount,
		&currency,
		&frequency,
		&sug.Confidence,
		&sug.MatchCount,
		&sug.AvgIntervalDays,
		&idsJSON,
		&sug.Status,
		&sug.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	sug.SuggestedMerchant = merchant.String
	sug.Currency = currency.String
	sug.Frequency = frequency.String

	if idsJSON.Valid && idsJSON.String != "" {
		if err := json.Unmarshal([]byte(idsJSON.String), &sug.MatchedTransactionIDs); err != nil {
			return nil, fmt.Errorf("failed to decode matched transaction ids: %w", err)
		}
	}
	return &sug, nil
}
