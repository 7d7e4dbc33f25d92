package recurring

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// frequencyBand is a named interval range in days.
type frequencyBand struct {
	label string
	min   float64
	max   float64
}

// Canonical subscription frequencies, checked in order.
var frequencyBands = []frequencyBand{
	{"weekly", 5, 9},
	{"biweekly", 12, 18},
	{"monthly", 26, 35},
	{"bimonthly", 55, 70},
	{"quarterly", 85, 100},
	{"semi-annual", 170, 200},
	{"yearly", 350, 380},
}

// namedFrequencies are the bands that earn the full frequency bonus during
// confidence scoring.
var namedFrequencies = map[string]struct{}{
	"weekly": {}, "biweekly": {}, "monthly": {}, "quarterly": {}, "yearly": {},
}

// intervalStats describes how regular a sequence of dates is.
type intervalStats struct {
	avgDays    float64
	score      float64 // 0-1, higher is more regular
	consistent bool
}

// checkIntervalConsistency computes day gaps between consecutive dates and
// scores their regularity via coefficient of variation. Zero-day gaps are
// ignored; a mean gap under 5 days is rejected as too frequent for a bill.
// With exactly one usable gap the sequence is accepted at score 0.7 when the
// gap falls between 5 and 400 days.
func checkIntervalConsistency(dates []time.Time, threshold float64) intervalStats {
	if len(dates) < 2 {
		return intervalStats{}
	}

	sorted := make([]time.Time, len(dates))
	copy(sorted, dates)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	var intervals []float64
	for i := 1; i < len(sorted); i++ {
		days := math.Floor(sorted[i].Sub(sorted[i-1]).Hours() / 24)
		if days > 0 {
			intervals = append(intervals, days)
		}
	}

	if len(intervals) == 0 {
		return intervalStats{}
	}

	avg := mean(intervals)
	if avg < 5 {
		return intervalStats{avgDays: avg}
	}

	if len(intervals) == 1 {
		if intervals[0] >= 5 && intervals[0] <= 400 {
			return intervalStats{consistent: true, avgDays: intervals[0], score: 0.7}
		}
		return intervalStats{avgDays: intervals[0]}
	}

	cv := stddev(intervals, avg) / avg
	score := math.Max(0, 1-cv/(threshold*2))

	return intervalStats{
		consistent: cv <= threshold,
		avgDays:    avg,
		score:      score,
	}
}

// frequencyLabel converts an average interval in days to a human-readable
// frequency.
func frequencyLabel(avgDays float64) string {
	for _, band := range frequencyBands {
		if avgDays >= band.min && avgDays <= band.max {
			return band.label
		}
	}

	switch {
	case avgDays < 7:
		return fmt.Sprintf("every %d days", int(math.Round(avgDays)))
	case avgDays < 14:
		weeks := math.Round(avgDays/7*10) / 10
		if weeks == 1 {
			return "weekly"
		}
		return fmt.Sprintf("every %g weeks", weeks)
	case avgDays < 60:
		return fmt.Sprintf("every %d weeks", int(math.Round(avgDays/7)))
	case avgDays < 365:
		return fmt.Sprintf("every %d months", int(math.Round(avgDays/30)))
	default:
		return fmt.Sprintf("every %g years", math.Round(avgDays/365*10)/10)
	}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64, avg float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - avg) * (v - avg)
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}
