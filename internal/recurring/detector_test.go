package recurring

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

func netflixTxn(id string, dayOffset int, amount float64) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: "Netflix Subscription",
		Amount:      amount,
		Currency:    "EUR",
		BookedAt:    day(dayOffset),
	}
}

func TestDetector_DetectPatternsMonthlySubscription(t *testing.T) {
	d := newTestDetector()

	txns := []model.Transaction{
		netflixTxn("t1", 0, -15.99),
		netflixTxn("t2", 30, -16.05),
		netflixTxn("t3", 60, -15.99),
		netflixTxn("t4", 90, -15.89),
	}

	patterns := d.DetectPatterns(txns, nil, nil)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, "Netflix", p.SuggestedName)
	assert.Equal(t, "Netflix", p.SuggestedMerchant)
	assert.Equal(t, 4, p.MatchCount)
	assert.Equal(t, "monthly", p.Frequency)
	assert.GreaterOrEqual(t, p.Confidence, 60)
	assert.Equal(t, []string{"t1", "t2", "t3", "t4"}, p.MatchedTransactionIDs)
	assert.InDelta(t, 15.98, p.SuggestedAmount, 0.01)
	assert.InDelta(t, 30, p.AvgIntervalDays, 0.001)
	assert.Equal(t, "EUR", p.Currency)
}

func TestDetector_DetectPatternsIdempotent(t *testing.T) {
	d := newTestDetector()

	txns := []model.Transaction{
		netflixTxn("t1", 0, -15.99),
		netflixTxn("t2", 30, -15.99),
		netflixTxn("t3", 60, -15.99),
		{ID: "g1", Description: "Basic-Fit abonnement", Amount: -24.99, Currency: "EUR", BookedAt: day(3)},
		{ID: "g2", Description: "Basic-Fit abonnement", Amount: -24.99, Currency: "EUR", BookedAt: day(33)},
		{ID: "g3", Description: "Basic-Fit abonnement", Amount: -24.99, Currency: "EUR", BookedAt: day(63)},
	}

	first := d.DetectPatterns(txns, nil, nil)
	second := d.DetectPatterns(txns, nil, nil)

	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestDetector_DetectPatternsExcludesLinkedAndIncome(t *testing.T) {
	d := newTestDetector()

	linked := netflixTxn("t1", 0, -15.99)
	linked.SeriesID = "series-1"

	txns := []model.Transaction{
		linked,
		netflixTxn("t2", 30, -15.99),
		// Salary: income never participates.
		{ID: "s1", Description: "Salary ACME", Amount: 3000, Currency: "EUR", BookedAt: day(1)},
		{ID: "s2", Description: "Salary ACME", Amount: 3000, Currency: "EUR", BookedAt: day(31)},
		// Zero amounts are excluded outright.
		{ID: "z1", Description: "Netflix Subscription", Amount: 0, Currency: "EUR", BookedAt: day(60)},
	}

	patterns := d.DetectPatterns(txns, nil, nil)
	assert.Empty(t, patterns)
}

func TestDetector_DetectPatternsCreditorSubPattern(t *testing.T) {
	d := newTestDetector()

	// Unknown creditor mixing six monthly premiums with two sporadic fees.
	const desc = "SEPA Incasso NL77ZZZ123456789 Zorgkosten"
	var txns []model.Transaction
	for i := 0; i < 6; i++ {
		txns = append(txns, model.Transaction{
			ID:          fmt.Sprintf("m%d", i),
			Description: desc,
			Amount:      -12.00,
			Currency:    "EUR",
			BookedAt:    day(i * 30),
		})
	}
	txns = append(txns,
		model.Transaction{ID: "x1", Description: desc, Amount: -45.00, Currency: "EUR", BookedAt: day(11)},
		model.Transaction{ID: "x2", Description: desc, Amount: -45.50, Currency: "EUR", BookedAt: day(97)},
	)

	patterns := d.DetectPatterns(txns, nil, nil)

	require.Len(t, patterns, 1)
	p := patterns[0]
	assert.Equal(t, 6, p.MatchCount)
	assert.Equal(t, []string{"m0", "m1", "m2", "m3", "m4", "m5"}, p.MatchedTransactionIDs)
	assert.Equal(t, "monthly", p.Frequency)
	assert.InDelta(t, 12.00, p.SuggestedAmount, 0.001)
}

func TestDetector_DetectPatternsKnownCreditor(t *testing.T) {
	d := newTestDetector()

	txns := []model.Transaction{
		{ID: "v1", Description: "SEPA Incasso NL36ZZZ332952490000 energie", Amount: -85.50, Currency: "EUR", BookedAt: day(0)},
		{ID: "v2", Description: "SEPA Incasso NL36ZZZ332952490000 energie", Amount: -85.50, Currency: "EUR", BookedAt: day(30)},
		{ID: "v3", Description: "SEPA Incasso NL36ZZZ332952490000 energie", Amount: -85.50, Currency: "EUR", BookedAt: day(61)},
	}

	patterns := d.DetectPatterns(txns, nil, nil)

	require.Len(t, patterns, 1)
	assert.Equal(t, "Vattenfall", patterns[0].SuggestedName)
	assert.GreaterOrEqual(t, patterns[0].Confidence, 80)
}

func TestDetector_DetectPatternsCreditorOverridesDissimilarText(t *testing.T) {
	d := newTestDetector()

	// Same creditor id but wildly different surrounding text still groups.
	txns := []model.Transaction{
		{ID: "a", Description: "NL77ZZZ123456789 premie januari", Amount: -20, Currency: "EUR", BookedAt: day(0)},
		{ID: "b", Description: "totaal iets anders NL77ZZZ123456789", Amount: -20, Currency: "EUR", BookedAt: day(30)},
		{ID: "c", Description: "nog een omschrijving NL77ZZZ123456789 xyz", Amount: -20, Currency: "EUR", BookedAt: day(60)},
	}

	patterns := d.DetectPatterns(txns, nil, nil)
	require.Len(t, patterns, 1)
	assert.Equal(t, 3, patterns[0].MatchCount)
}

func TestDetector_DetectPatternsSeparatesDifferentCreditors(t *testing.T) {
	d := newTestDetector()

	// Near-identical text but different creditor ids must not merge.
	var txns []model.Transaction
	for i := 0; i < 3; i++ {
		txns = append(txns, model.Transaction{
			ID:          fmt.Sprintf("a%d", i),
			Description: "SEPA Incasso energie NL77ZZZ123456789",
			Amount:      -50,
			Currency:    "EUR",
			BookedAt:    day(i * 30),
		})
		txns = append(txns, model.Transaction{
			ID:          fmt.Sprintf("b%d", i),
			Description: "SEPA Incasso energie NL88ZZZ987654321",
			Amount:      -50,
			Currency:    "EUR",
			BookedAt:    day(i*30 + 2),
		})
	}

	patterns := d.DetectPatterns(txns, nil, nil)
	require.Len(t, patterns, 2)
	for _, p := range patterns {
		assert.Equal(t, 3, p.MatchCount)
	}
}

func TestDetector_DetectPatternsDedupAgainstActiveSeries(t *testing.T) {
	d := newTestDetector()

	txns := []model.Transaction{
		netflixTxn("t1", 0, -15.99),
		netflixTxn("t2", 30, -15.99),
		netflixTxn("t3", 60, -15.99),
	}

	active := []model.RecurringSeries{
		{ID: "s1", Name: "Netflix", Amount: 15.99, Currency: "EUR", IsActive: true},
	}

	patterns := d.DetectPatterns(txns, active, nil)
	assert.Empty(t, patterns)

	// An inactive series does not suppress detection.
	active[0].IsActive = false
	patterns = d.DetectPatterns(txns, active, nil)
	assert.Len(t, patterns, 1)
}

func TestDetector_DetectPatternsDedupAgainstPendingSuggestions(t *testing.T) {
	d := newTestDetector()

	txns := []model.Transaction{
		netflixTxn("t1", 0, -15.99),
		netflixTxn("t2", 30, -15.99),
		netflixTxn("t3", 60, -15.99),
	}

	pending := []model.Suggestion{
		{ID: "p1", SuggestedName: "Netflix", SuggestedAmount: 16.50, Status: model.SuggestionPending},
	}

	assert.Empty(t, d.DetectPatterns(txns, nil, pending))

	// Dismissed suggestions no longer block re-detection.
	pending[0].Status = model.SuggestionDismissed
	assert.Len(t, d.DetectPatterns(txns, nil, pending), 1)
}

func TestDetector_DetectPatternsNoDoubleAssignment(t *testing.T) {
	d := newTestDetector()

	txns := []model.Transaction{
		netflixTxn("t1", 0, -15.99),
		netflixTxn("t2", 30, -15.99),
		netflixTxn("t3", 60, -15.99),
		{ID: "g1", Description: "Basic-Fit abonnement", Amount: -24.99, Currency: "EUR", BookedAt: day(5)},
		{ID: "g2", Description: "Basic-Fit abonnement", Amount: -24.99, Currency: "EUR", BookedAt: day(35)},
	}

	patterns := d.DetectPatterns(txns, nil, nil)

	seen := make(map[string]int)
	for _, p := range patterns {
		for _, id := range p.MatchedTransactionIDs {
			seen[id]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "transaction %s assigned to multiple patterns", id)
	}
}

func TestDetector_DetectPatternsRankingAndCap(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSuggestions = 1
	d := NewDetector(opts, nil, nil)

	txns := []model.Transaction{
		// Weak group: only two members.
		{ID: "w1", Description: "Carwash Deluxe", Amount: -9.50, Currency: "EUR", BookedAt: day(2)},
		{ID: "w2", Description: "Carwash Deluxe", Amount: -9.50, Currency: "EUR", BookedAt: day(32)},
		// Strong group: four members of a known brand.
		netflixTxn("n1", 0, -15.99),
		netflixTxn("n2", 30, -15.99),
		netflixTxn("n3", 60, -15.99),
		netflixTxn("n4", 90, -15.99),
	}

	patterns := d.DetectPatterns(txns, nil, nil)

	require.Len(t, patterns, 1)
	assert.Equal(t, "Netflix", patterns[0].SuggestedName)
}

func TestDetector_DetectPatternsMinConfidence(t *testing.T) {
	opts := DefaultOptions()
	opts.MinConfidence = 95
	d := NewDetector(opts, nil, nil)

	txns := []model.Transaction{
		netflixTxn("t1", 0, -15.99),
		netflixTxn("t2", 30, -15.99),
	}

	assert.Empty(t, d.DetectPatterns(txns, nil, nil))
}
