// Package service defines the interfaces the application wires together.
package service

import (
	"context"
	"time"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// TransactionStore defines the persistence contract for bank transactions.
type TransactionStore interface {
	// SaveTransactions inserts transactions, silently skipping hash
	// duplicates, and returns how many rows were actually added.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
	// GetUnlinkedExpenses returns expense transactions without a series
	// booked on or after the cutoff, ordered by booking date ascending.
	GetUnlinkedExpenses(ctx context.Context, since time.Time) ([]model.Transaction, error)
	GetTransactionsBySeries(ctx context.Context, seriesID string) ([]model.Transaction, error)
	// LinkTransactions assigns the given transactions to a series.
	LinkTransactions(ctx context.Context, transactionIDs []string, seriesID string) error
}

// SeriesStore defines the persistence contract for recurring series.
type SeriesStore interface {
	CreateSeries(ctx context.Context, series *model.RecurringSeries) error
	GetSeriesByID(ctx context.Context, id string) (*model.RecurringSeries, error)
	// ListActiveSeries returns active series visible to the given account:
	// series scoped to that account plus account-agnostic ones. An empty
	// accountID returns all active series.
	ListActiveSeries(ctx context.Context, accountID string) ([]model.RecurringSeries, error)
	ListSeries(ctx context.Context, includeInactive bool) ([]model.RecurringSeries, error)
	DeactivateSeries(ctx context.Context, id string) error
}

// SuggestionStore defines the persistence contract for detection suggestions.
type SuggestionStore interface {
	SaveSuggestions(ctx context.Context, suggestions []model.Suggestion) error
	GetSuggestionByID(ctx context.Context, id string) (*model.Suggestion, error)
	// ListSuggestions filters by status; an empty status returns all.
	ListSuggestions(ctx context.Context, status string) ([]model.Suggestion, error)
	UpdateSuggestionStatus(ctx context.Context, id, status string) error
}

// Storage is the full persistence contract the CLI wires together.
type Storage interface {
	TransactionStore
	SeriesStore
	SuggestionStore

	Migrate(ctx context.Context) error
	Close() error
}
