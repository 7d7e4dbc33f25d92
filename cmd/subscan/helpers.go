package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/syllogic-ai/personal-finance-app/internal/config"
	"github.com/syllogic-ai/personal-finance-app/internal/recurring"
	"github.com/syllogic-ai/personal-finance-app/internal/service"
	"github.com/syllogic-ai/personal-finance-app/internal/storage"
)

// initStorage initializes the storage service with proper path expansion.
func initStorage(ctx context.Context) (service.Storage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/subscan/subscan.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// detectionOptions builds the engine options from config, falling back to the
// documented defaults for unset keys.
func detectionOptions() recurring.Options {
	opts := recurring.DefaultOptions()

	viper.SetDefault("detection.min_transactions", opts.MinTransactions)
	viper.SetDefault("detection.min_confidence", opts.MinConfidence)
	viper.SetDefault("detection.max_suggestions", opts.MaxSuggestions)
	viper.SetDefault("detection.similarity_threshold", opts.SimilarityThreshold)
	viper.SetDefault("detection.amount_tolerance", opts.AmountTolerance)
	viper.SetDefault("detection.interval_consistency_threshold", opts.IntervalConsistencyThreshold)
	viper.SetDefault("detection.lookback_days", opts.LookbackDays)
	viper.SetDefault("matching.amount_tolerance", opts.MatchAmountTolerance)
	viper.SetDefault("matching.min_score", opts.MinMatchScore)

	opts.MinTransactions = viper.GetInt("detection.min_transactions")
	opts.MinConfidence = viper.GetInt("detection.min_confidence")
	opts.MaxSuggestions = viper.GetInt("detection.max_suggestions")
	opts.SimilarityThreshold = viper.GetFloat64("detection.similarity_threshold")
	opts.AmountTolerance = viper.GetFloat64("detection.amount_tolerance")
	opts.IntervalConsistencyThreshold = viper.GetFloat64("detection.interval_consistency_threshold")
	opts.LookbackDays = viper.GetInt("detection.lookback_days")
	opts.MatchAmountTolerance = viper.GetFloat64("matching.amount_tolerance")
	opts.MinMatchScore = viper.GetFloat64("matching.min_score")

	return opts
}

// newMatcher builds a matcher backed by the given storage.
func newMatcher(store service.SeriesStore) *recurring.Matcher {
	return recurring.NewMatcher(detectionOptions(), store, nil, nil)
}
