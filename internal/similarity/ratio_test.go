package similarity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	tests := []struct {
		name  string
		s1    string
		s2    string
		want  float64
		delta float64
	}{
		{name: "identical", s1: "netflix", s2: "netflix", want: 1.0, delta: 0.001},
		{name: "empty left", s1: "", s2: "netflix", want: 0.0, delta: 0.001},
		{name: "empty right", s1: "netflix", s2: "", want: 0.0, delta: 0.001},
		{name: "no common characters", s1: "abc", s2: "xyz", want: 0.0, delta: 0.001},
		// 2*M/T with M=3 ("bcd") and T=8, as difflib computes it.
		{name: "classic difflib pair", s1: "abcd", s2: "bcde", want: 0.75, delta: 0.001},
		{name: "single typo", s1: "vattenfall", s2: "vatenfall", want: 0.947, delta: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Ratio(tt.s1, tt.s2), tt.delta)
		})
	}
}

func TestRatioSymmetry(t *testing.T) {
	pairs := [][2]string{
		{"abcd", "bcde"},
		{"netflix amsterdam", "netflix"},
		{"aab", "baa"},
	}

	for _, pair := range pairs {
		assert.InDelta(t, Ratio(pair[0], pair[1]), Ratio(pair[1], pair[0]), 0.001,
			"ratio for %q vs %q should be symmetric", pair[0], pair[1])
	}
}

func TestLongestCommonSubstring(t *testing.T) {
	ai, bi, size := longestCommonSubstring([]byte("xxabcyy"), []byte("zabcz"))
	assert.Equal(t, 2, ai)
	assert.Equal(t, 1, bi)
	assert.Equal(t, 3, size)

	_, _, size = longestCommonSubstring([]byte("abc"), []byte("xyz"))
	assert.Equal(t, 0, size)
}
