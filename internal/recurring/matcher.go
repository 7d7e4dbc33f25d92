package recurring

import (
	"context"
	"log/slog"
	"math"
	"sync"

	"github.com/syllogic-ai/personal-finance-app/internal/merchant"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
	"github.com/syllogic-ai/personal-finance-app/internal/similarity"
)

// SeriesSource supplies active recurring series, optionally scoped to one
// account (an empty accountID means all accounts; a non-empty one also
// returns account-agnostic series).
type SeriesSource interface {
	ListActiveSeries(ctx context.Context, accountID string) ([]model.RecurringSeries, error)
}

// Matcher assigns incoming transactions to confirmed recurring series during
// sync. Loaded series are cached per account key; callers must ClearCache
// whenever series are created, edited or deactivated.
type Matcher struct {
	source    SeriesSource
	sim       *similarity.Calculator
	merchants *merchant.Extractor
	cache     map[string][]model.RecurringSeries
	mu        sync.Mutex
	opts      Options
}

// NewMatcher creates a Matcher backed by the given series source.
func NewMatcher(opts Options, source SeriesSource, sim *similarity.Calculator, merchants *merchant.Extractor) *Matcher {
	if sim == nil {
		sim = similarity.NewDefault()
	}
	if merchants == nil {
		merchants = merchant.NewDefault()
	}
	return &Matcher{
		opts:      opts,
		source:    source,
		sim:       sim,
		merchants: merchants,
		cache:     make(map[string][]model.RecurringSeries),
	}
}

// ClearCache drops the cached series snapshots. Call after any series
// mutation; there is no automatic staleness detection.
func (m *Matcher) ClearCache() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache = make(map[string][]model.RecurringSeries)
}

// MatchTransaction returns the best-matching active series for an expense
// transaction, or nil when nothing reaches the minimum score. Income
// transactions never match.
func (m *Matcher) MatchTransaction(ctx context.Context, description, merchantName string, amount float64, accountID string) (*model.RecurringSeries, error) {
	if amount > 0 {
		return nil, nil
	}

	if merchantName == "" && description != "" {
		if extraction := m.merchants.Extract(description, ""); extraction.Merchant != "" && extraction.Confidence >= 60 {
			merchantName = extraction.Merchant
		}
	}

	series, err := m.loadSeries(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, nil
	}

	var best *model.RecurringSeries
	bestScore := 0.0
	bestReason := ""

	for i := range series {
		s := &series[i]
		score, reason := m.scoreSeries(s, description, merchantName, amount)

		// Prefer account-scoped series over account-agnostic ones when
		// matching within a specific account.
		if accountID != "" && s.AccountID != "" {
			if s.AccountID == accountID {
				score = math.Min(100, score+5)
			}
		} else if accountID != "" && s.AccountID == "" {
			score = math.Max(0, score-5)
		}

		switch {
		case score > bestScore:
			bestScore = score
			best = s
			bestReason = reason
		case score == bestScore && best != nil && score > 0 && s.ID < best.ID:
			// Deterministic tie-break by series id.
			best = s
			bestReason = reason
		}
	}

	if best != nil && bestScore >= m.opts.MinMatchScore {
		slog.Debug("matched transaction to series",
			"series", best.Name,
			"score", bestScore,
			"reason", bestReason)
		return best, nil
	}

	return nil, nil
}

// scoreSeries computes the 0-100 match score between one series and a
// transaction. A failed amount check zeroes the score outright.
func (m *Matcher) scoreSeries(s *model.RecurringSeries, description, merchantName string, amount float64) (float64, string) {
	if !amountMatches(s.Amount, amount, m.opts.MatchAmountTolerance) {
		return 0, "amount_mismatch"
	}

	score, method := m.sim.MatchScore(s.Name, s.Merchant, description, merchantName)
	if score == 0 {
		return 0, "no_text_match"
	}

	// Amounts agreeing to the cent are a strong signal.
	if math.Abs(math.Abs(s.Amount)-math.Abs(amount)) < 0.01 {
		score = math.Min(score+10, 100)
	}

	return score, method
}

// loadSeries returns the cached active series for an account key, loading
// from the source on first use.
func (m *Matcher) loadSeries(ctx context.Context, accountID string) ([]model.RecurringSeries, error) {
	m.mu.Lock()
	if cached, ok := m.cache[accountID]; ok {
		m.mu.Unlock()
		return cached, nil
	}
	m.mu.Unlock()

	series, err := m.source.ListActiveSeries(ctx, accountID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.cache[accountID] = series
	m.mu.Unlock()

	slog.Debug("loaded active series", "count", len(series), "account", accountID)
	return series, nil
}

// amountMatches checks the relative difference between the series reference
// amount and a transaction amount. Zero on either side never matches.
func amountMatches(seriesAmount, txnAmount, tolerance float64) bool {
	a := math.Abs(seriesAmount)
	b := math.Abs(txnAmount)
	if a == 0 || b == 0 {
		return false
	}
	avg := (a + b) / 2
	return math.Abs(a-b)/avg <= tolerance
}
