// Package storage provides the data persistence layer for the subscan application.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidStatus      = errors.New("invalid suggestion status")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidSeries      = errors.New("invalid series")
	ErrInvalidSuggestion  = errors.New("invalid suggestion")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.BookedAt.IsZero() {
		return fmt.Errorf("%w: missing booking date", ErrInvalidTransaction)
	}
	if txn.Description == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	return nil
}

// validateSeries validates a recurring series.
func validateSeries(series *model.RecurringSeries) error {
	if series == nil {
		return fmt.Errorf("%w: series", ErrNilParameter)
	}
	if strings.TrimSpace(series.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidSeries)
	}
	if series.Amount < 0 {
		return fmt.Errorf("%w: amount must be a positive magnitude", ErrInvalidSeries)
	}
	return nil
}

// validateSuggestion validates a detection suggestion.
func validateSuggestion(suggestion *model.Suggestion) error {
	if suggestion == nil {
		return fmt.Errorf("%w: suggestion", ErrNilParameter)
	}
	if strings.TrimSpace(suggestion.SuggestedName) == "" {
		return fmt.Errorf("%w: missing suggested name", ErrInvalidSuggestion)
	}
	if suggestion.Confidence < 0 || suggestion.Confidence > 100 {
		return fmt.Errorf("%w: confidence must be between 0 and 100", ErrInvalidSuggestion)
	}
	if suggestion.Status != "" {
		if err := validateSuggestionStatus(suggestion.Status); err != nil {
			return err
		}
	}
	return nil
}

// validateSuggestionStatus validates a suggestion status value.
func validateSuggestionStatus(status string) error {
	switch status {
	case model.SuggestionPending, model.SuggestionAccepted, model.SuggestionDismissed:
		return nil
	default:
		return fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
}
