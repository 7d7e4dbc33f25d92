package recurring

import (
	"math"
	"time"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// amountCluster groups transactions whose absolute amounts sit within the
// tolerance band of the cluster average.
type amountCluster struct {
	txns []model.Transaction
	sum  float64
}

func (c *amountCluster) avg() float64 {
	if len(c.txns) == 0 {
		return 0
	}
	return c.sum / float64(len(c.txns))
}

func (c *amountCluster) add(txn model.Transaction) {
	c.txns = append(c.txns, txn)
	c.sum += math.Abs(txn.Amount)
}

// clusterByAmount greedily assigns each transaction to the first cluster
// whose running average is within the relative tolerance, creating a new
// cluster otherwise.
func clusterByAmount(txns []model.Transaction, tolerance float64) []*amountCluster {
	var clusters []*amountCluster

	for _, txn := range txns {
		amt := math.Abs(txn.Amount)
		placed := false

		for _, cluster := range clusters {
			avg := cluster.avg()
			larger := math.Max(amt, avg)
			if larger == 0 {
				continue
			}
			if math.Abs(amt-avg)/larger <= tolerance {
				cluster.add(txn)
				placed = true
				break
			}
		}

		if !placed {
			c := &amountCluster{}
			c.add(txn)
			clusters = append(clusters, c)
		}
	}

	return clusters
}

// extractMainPattern isolates the genuine subscription charge from a group
// that mixes recurring charges with sporadic one-offs from the same payee
// (e.g. a monthly premium plus ad-hoc fees). It clusters by amount, then
// picks the cluster maximizing consistency x size, boosted when the average
// interval lands in a canonical band.
//
// Returns the chosen transactions, their average absolute amount, and the
// amount coefficient of variation.
func (d *Detector) extractMainPattern(txns []model.Transaction) ([]model.Transaction, float64, float64) {
	if len(txns) < 2 {
		avg := 0.0
		if len(txns) == 1 {
			avg = math.Abs(txns[0].Amount)
		}
		return txns, avg, 0
	}

	clusters := clusterByAmount(txns, d.opts.AmountTolerance)

	var best *amountCluster
	bestScore := -1.0

	for _, cluster := range clusters {
		if len(cluster.txns) < d.opts.MinTransactions {
			continue
		}

		dates := bookedDates(cluster.txns)
		if len(dates) < d.opts.MinTransactions {
			continue
		}

		stats := checkIntervalConsistency(dates, d.opts.IntervalConsistencyThreshold)
		score := stats.score * float64(len(cluster.txns))

		if stats.consistent {
			score *= bandBonus(stats.avgDays)
		}

		if score > bestScore {
			bestScore = score
			best = cluster
		}
	}

	// No cluster had consistent timing; fall back to the largest one.
	if best == nil {
		best = clusters[0]
		for _, cluster := range clusters[1:] {
			if len(cluster.txns) > len(best.txns) {
				best = cluster
			}
		}
	}

	amounts := make([]float64, len(best.txns))
	for i, txn := range best.txns {
		amounts[i] = math.Abs(txn.Amount)
	}
	avg := mean(amounts)

	cv := 0.0
	if len(amounts) > 1 && avg > 0 {
		cv = stddev(amounts, avg) / avg
	}

	return best.txns, avg, cv
}

// bandBonus rewards clusters whose cadence matches a typical subscription
// frequency.
func bandBonus(avgDays float64) float64 {
	switch {
	case avgDays >= 26 && avgDays <= 35: // monthly
		return 1.5
	case avgDays >= 350 && avgDays <= 380: // yearly
		return 1.5
	case avgDays >= 85 && avgDays <= 100: // quarterly
		return 1.4
	case avgDays >= 170 && avgDays <= 200: // semi-annual
		return 1.3
	case avgDays >= 5 && avgDays <= 9: // weekly
		return 1.3
	case avgDays >= 12 && avgDays <= 18: // biweekly
		return 1.2
	default:
		return 1.0
	}
}

// bookedDates collects the parsable booking dates of a transaction slice.
func bookedDates(txns []model.Transaction) []time.Time {
	dates := make([]time.Time, 0, len(txns))
	for _, txn := range txns {
		if !txn.BookedAt.IsZero() {
			dates = append(dates, txn.BookedAt)
		}
	}
	return dates
}
