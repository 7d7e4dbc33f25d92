// Package recurring detects recurring payment patterns in bank transactions
// and auto-links new transactions to known recurring series.
package recurring

// Options control detection and matching thresholds. All values are sourced
// externally (flags, config file); nothing in this package reads the
// environment.
type Options struct {
	// MinTransactions is the smallest cluster that can become a pattern.
	MinTransactions int
	// MinConfidence drops patterns scoring below it (0-100).
	MinConfidence int
	// MaxSuggestions caps the number of patterns one run may emit.
	MaxSuggestions int
	// SimilarityThreshold is the 0-1 pairwise similarity needed to join a
	// cluster during expansion.
	SimilarityThreshold float64
	// AmountTolerance is the relative amount band used while clustering
	// during detection.
	AmountTolerance float64
	// IntervalConsistencyThreshold is the maximum coefficient of variation
	// for a date sequence to count as consistent.
	IntervalConsistencyThreshold float64
	// LookbackDays bounds the detection window; applied by callers when
	// loading transactions.
	LookbackDays int
	// MatchAmountTolerance is the relative amount band required before a
	// transaction can match a series during auto-linking.
	MatchAmountTolerance float64
	// MinMatchScore is the combined score an auto-link match must reach.
	MinMatchScore float64
}

// DefaultOptions returns the standard thresholds.
func DefaultOptions() Options {
	return Options{
		MinTransactions:              2,
		MinConfidence:                30,
		MaxSuggestions:               20,
		SimilarityThreshold:          0.65,
		AmountTolerance:              0.30,
		IntervalConsistencyThreshold: 0.35,
		LookbackDays:                 365,
		MatchAmountTolerance:         0.05,
		MinMatchScore:                60,
	}
}
