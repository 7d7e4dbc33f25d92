package model

import "time"

// DetectedPattern is a candidate recurring payment produced by one detection
// run. It carries no identity across runs; callers either persist it as a
// pending suggestion or discard it.
type DetectedPattern struct {
	SuggestedName         string
	SuggestedMerchant     string // Empty if no merchant could be derived
	Currency              string
	Frequency             string // e.g. "monthly" or "every 3 weeks"
	MatchedTransactionIDs []string
	SuggestedAmount       float64 // Average absolute magnitude of the cluster
	AvgIntervalDays       float64
	Confidence            int // 0-100
	MatchCount            int
}

// Suggestion statuses.
const (
	SuggestionPending   = "pending"
	SuggestionAccepted  = "accepted"
	SuggestionDismissed = "dismissed"
)

// Suggestion is the persisted form of a DetectedPattern, awaiting user
// review.
type Suggestion struct {
	CreatedAt             time.Time
	ID                    string
	SuggestedName         string
	SuggestedMerchant     string
	Currency              string
	Frequency             string
	Status                string
	MatchedTransactionIDs []string
	SuggestedAmount       float64
	AvgIntervalDays       float64
	Confidence            int
	MatchCount            int
}
