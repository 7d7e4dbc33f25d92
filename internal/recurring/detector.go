package recurring

import (
	"log/slog"
	"math"
	"sort"

	"github.com/syllogic-ai/personal-finance-app/internal/merchant"
	"github.com/syllogic-ai/personal-finance-app/internal/model"
	"github.com/syllogic-ai/personal-finance-app/internal/similarity"
)

// Detector scans unlinked expense transactions for recurring payment
// patterns. It is pure: given the same snapshot it produces the same
// patterns, and it performs no I/O.
type Detector struct {
	sim       *similarity.Calculator
	merchants *merchant.Extractor
	opts      Options
}

// NewDetector creates a Detector.
func NewDetector(opts Options, sim *similarity.Calculator, merchants *merchant.Extractor) *Detector {
	if sim == nil {
		sim = similarity.NewDefault()
	}
	if merchants == nil {
		merchants = merchant.NewDefault()
	}
	return &Detector{opts: opts, sim: sim, merchants: merchants}
}

// DetectPatterns analyzes a transaction snapshot and returns ranked
// recurring-payment candidates. Only unlinked expense transactions are
// considered; callers bound the snapshot to the lookback window and sort it
// by booking date ascending. Patterns duplicating an active series or a
// pending suggestion are dropped.
func (d *Detector) DetectPatterns(txns []model.Transaction, activeSeries []model.RecurringSeries, pending []model.Suggestion) []model.DetectedPattern {
	candidates := make([]model.Transaction, 0, len(txns))
	for _, txn := range txns {
		if txn.SeriesID == "" && txn.Amount < 0 {
			candidates = append(candidates, txn)
		}
	}

	if len(candidates) == 0 {
		slog.Debug("no unlinked expense transactions to analyze")
		return nil
	}

	slog.Info("detecting recurring patterns", "transactions", len(candidates))

	// Bucket by fingerprint, preserving first-appearance order so the
	// greedy pass below is deterministic for a fixed input ordering.
	groups := make(map[string][]model.Transaction)
	var groupOrder []string
	for _, txn := range candidates {
		fp := d.fingerprint(txn)
		if fp == "" {
			continue
		}
		if _, seen := groups[fp]; !seen {
			groupOrder = append(groupOrder, fp)
		}
		groups[fp] = append(groups[fp], txn)
	}

	slog.Debug("bucketed transactions", "groups", len(groupOrder))

	var patterns []model.DetectedPattern
	processed := make(map[string]struct{})

	for _, fp := range groupOrder {
		group := groups[fp]
		if len(group) < d.opts.MinTransactions {
			continue
		}

		for _, txn := range group {
			if _, done := processed[txn.ID]; done {
				continue
			}

			similar := d.findSimilar(txn, candidates, processed)
			if len(similar) < d.opts.MinTransactions {
				continue
			}

			pattern := d.analyzeGroup(similar)
			if pattern == nil {
				continue
			}

			patterns = append(patterns, *pattern)
			for _, member := range similar {
				processed[member.ID] = struct{}{}
			}
		}
	}

	slog.Info("pattern analysis complete", "candidates", len(patterns))

	kept := patterns[:0]
	for _, p := range patterns {
		if d.matchesActiveSeries(p, activeSeries) {
			slog.Debug("dropping pattern matching active series", "name", p.SuggestedName)
			continue
		}
		if d.matchesPendingSuggestion(p, pending) {
			slog.Debug("dropping pattern matching pending suggestion", "name", p.SuggestedName)
			continue
		}
		kept = append(kept, p)
	}
	patterns = kept

	sort.SliceStable(patterns, func(i, j int) bool {
		if patterns[i].Confidence != patterns[j].Confidence {
			return patterns[i].Confidence > patterns[j].Confidence
		}
		return patterns[i].MatchCount > patterns[j].MatchCount
	})

	if len(patterns) > d.opts.MaxSuggestions {
		patterns = patterns[:d.opts.MaxSuggestions]
	}

	return patterns
}

// findSimilar collects the target plus every not-yet-consumed transaction
// whose pairwise similarity reaches the threshold. The scan covers the whole
// candidate set, not just the target's bucket.
func (d *Detector) findSimilar(target model.Transaction, candidates []model.Transaction, processed map[string]struct{}) []model.Transaction {
	similar := []model.Transaction{target}

	for _, txn := range candidates {
		if txn.ID == target.ID {
			continue
		}
		if _, done := processed[txn.ID]; done {
			continue
		}
		if d.pairSimilarity(target, txn) >= d.opts.SimilarityThreshold {
			similar = append(similar, txn)
		}
	}

	return similar
}

// analyzeGroup decides whether a cluster of similar transactions forms a
// recurring pattern and scores its confidence.
func (d *Detector) analyzeGroup(txns []model.Transaction) *model.DetectedPattern {
	if len(txns) < d.opts.MinTransactions {
		return nil
	}

	first := txns[0]
	csid := extractCreditorID(first.Description)
	isCreditorGroup := csid != ""
	knownMerchant := merchantFromCreditorID(csid)

	var avgAmount, amountCV float64
	if isCreditorGroup && len(txns) >= 3 {
		// Same creditor can mix a subscription with sporadic charges;
		// isolate the consistent amount cluster.
		txns, avgAmount, amountCV = d.extractMainPattern(txns)
		if len(txns) < d.opts.MinTransactions {
			return nil
		}
	} else {
		amounts := make([]float64, len(txns))
		for i, txn := range txns {
			amounts[i] = math.Abs(txn.Amount)
		}
		avgAmount = mean(amounts)
		if avgAmount > 0 {
			amountCV = stddev(amounts, avgAmount) / avgAmount
		}
	}

	dates := bookedDates(txns)
	if len(dates) < d.opts.MinTransactions {
		return nil
	}

	stats := checkIntervalConsistency(dates, d.opts.IntervalConsistencyThreshold)

	if !stats.consistent {
		// A shared creditor id is strong enough evidence to tolerate an
		// irregular cadence for groups of three or more.
		if isCreditorGroup && len(txns) >= 3 {
			stats.consistent = true
			stats.score = math.Max(0.3, stats.score)
		} else {
			return nil
		}
	}

	confidence := int(stats.score * 40)

	if isCreditorGroup {
		if knownMerchant != "" {
			confidence += 25
		} else {
			confidence += 15
		}
	}

	countBonus := (len(txns) - 1) * 5
	if countBonus > 25 {
		countBonus = 25
	}
	confidence += countBonus

	switch {
	case amountCV < 0.05:
		confidence += 15
	case amountCV < 0.10:
		confidence += 10
	case amountCV < 0.20:
		confidence += 5
	}

	if knownMerchant == "" {
		result := d.merchants.Extract(first.Description, first.Merchant)
		switch {
		case result.Merchant != "" && result.Confidence >= 90:
			confidence += 10
		case result.Merchant != "" && result.Confidence >= 60:
			confidence += 5
		}
	}

	label := frequencyLabel(stats.avgDays)
	if _, named := namedFrequencies[label]; named {
		confidence += 10
	} else if label == "bimonthly" || label == "semi-annual" {
		confidence += 5
	}

	if confidence > 100 {
		confidence = 100
	}
	if confidence < d.opts.MinConfidence {
		return nil
	}

	name, merchantName := d.bestName(txns)

	sorted := make([]model.Transaction, len(txns))
	copy(sorted, txns)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].BookedAt.Before(sorted[j].BookedAt)
	})

	ids := make([]string, len(sorted))
	for i, txn := range sorted {
		ids[i] = txn.ID
	}

	currency := first.Currency
	if currency == "" {
		currency = "EUR"
	}

	return &model.DetectedPattern{
		SuggestedName:         truncate(name, 255),
		SuggestedMerchant:     truncate(merchantName, 255),
		SuggestedAmount:       math.Round(avgAmount*100) / 100,
		Currency:              currency,
		Frequency:             label,
		Confidence:            confidence,
		MatchedTransactionIDs: ids,
		MatchCount:            len(txns),
		AvgIntervalDays:       stats.avgDays,
	}
}

// matchesActiveSeries reports whether a pattern duplicates a confirmed
// active series: amounts within 20% and a name/merchant match score of at
// least 50.
func (d *Detector) matchesActiveSeries(p model.DetectedPattern, series []model.RecurringSeries) bool {
	for _, s := range series {
		if !s.IsActive {
			continue
		}
		if !withinRelativeBand(math.Abs(s.Amount), p.SuggestedAmount, 0.20) {
			continue
		}
		score, _ := d.sim.MatchScore(s.Name, s.Merchant, p.SuggestedName, p.SuggestedMerchant)
		if score >= 50 {
			return true
		}
	}
	return false
}

// matchesPendingSuggestion reports whether an equivalent suggestion is
// already awaiting review: amounts within 20% and name similarity of at
// least 60.
func (d *Detector) matchesPendingSuggestion(p model.DetectedPattern, pending []model.Suggestion) bool {
	for _, s := range pending {
		if s.Status != model.SuggestionPending {
			continue
		}
		if !withinRelativeBand(math.Abs(s.SuggestedAmount), p.SuggestedAmount, 0.20) {
			continue
		}
		if d.sim.Calculate(s.SuggestedName, p.SuggestedName).Score >= 60 {
			return true
		}
	}
	return false
}

// withinRelativeBand checks |a-b| / mean(a,b) <= tolerance, treating a zero
// amount on either side as within the band (nothing to compare against).
func withinRelativeBand(a, b, tolerance float64) bool {
	if a <= 0 || b <= 0 {
		return true
	}
	avg := (a + b) / 2
	return math.Abs(a-b)/avg <= tolerance
}
