package recurring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(offset int) time.Time {
	return time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestCheckIntervalConsistency(t *testing.T) {
	threshold := 0.35

	tests := []struct {
		name           string
		dates          []time.Time
		wantConsistent bool
		wantAvg        float64
		wantScoreAtMin float64
	}{
		{
			name:           "perfect monthly cadence",
			dates:          []time.Time{day(0), day(30), day(60), day(90)},
			wantConsistent: true,
			wantAvg:        30,
			wantScoreAtMin: 0.99,
		},
		{
			name:           "single interval in range",
			dates:          []time.Time{day(0), day(30)},
			wantConsistent: true,
			wantAvg:        30,
			wantScoreAtMin: 0.7,
		},
		{
			name:           "single interval out of range",
			dates:          []time.Time{day(0), day(500)},
			wantConsistent: false,
		},
		{
			name:           "too frequent",
			dates:          []time.Time{day(0), day(2), day(4), day(6)},
			wantConsistent: false,
			wantAvg:        2,
		},
		{
			name:           "irregular cadence",
			dates:          []time.Time{day(0), day(10), day(80), day(85)},
			wantConsistent: false,
		},
		{
			name:           "fewer than two dates",
			dates:          []time.Time{day(0)},
			wantConsistent: false,
		},
		{
			name:           "same-day duplicates ignored",
			dates:          []time.Time{day(0), day(0), day(30), day(60)},
			wantConsistent: true,
			wantAvg:        30,
		},
		{
			name:           "only same-day gaps",
			dates:          []time.Time{day(0), day(0), day(0)},
			wantConsistent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := checkIntervalConsistency(tt.dates, threshold)
			assert.Equal(t, tt.wantConsistent, stats.consistent)
			if tt.wantAvg > 0 {
				assert.InDelta(t, tt.wantAvg, stats.avgDays, 0.001)
			}
			if tt.wantScoreAtMin > 0 {
				assert.GreaterOrEqual(t, stats.score, tt.wantScoreAtMin)
			}
		})
	}
}

func TestCheckIntervalConsistencyUnsortedInput(t *testing.T) {
	stats := checkIntervalConsistency([]time.Time{day(60), day(0), day(30)}, 0.35)
	assert.True(t, stats.consistent)
	assert.InDelta(t, 30, stats.avgDays, 0.001)
}

func TestFrequencyLabel(t *testing.T) {
	tests := []struct {
		avgDays float64
		want    string
	}{
		{7, "weekly"},
		{14, "biweekly"},
		{30, "monthly"},
		{31.5, "monthly"},
		{60, "bimonthly"},
		{91, "quarterly"},
		{182, "semi-annual"},
		{365, "yearly"},
		{3, "every 3 days"},
		{21, "every 3 weeks"},
		{45, "every 6 weeks"},
		{120, "every 4 months"},
		{500, "every 1.4 years"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, frequencyLabel(tt.avgDays), "avgDays=%v", tt.avgDays)
	}
}
