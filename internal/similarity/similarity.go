// Package similarity scores how alike two free-text strings are. It is the
// single text-matching primitive shared by merchant fingerprinting, pattern
// detection and auto-linking.
package similarity

import (
	"regexp"
	"strings"
)

// Match methods, ordered by precedence.
const (
	MethodExact        = "exact"
	MethodSubstring    = "substring"
	MethodTokenOverlap = "token_overlap"
	MethodLevenshtein  = "levenshtein"
	MethodNone         = "none"
)

// Result of a similarity calculation.
type Result struct {
	Method        string
	MatchedTokens []string
	Score         float64 // 0-100
}

// Config tunes tokenization. The default stop-word list covers Dutch and
// English banking jargon; other locales supply their own.
type Config struct {
	StopWords      map[string]struct{}
	MinTokenLength int
}

// DefaultConfig returns the standard tokenization settings.
func DefaultConfig() Config {
	return Config{
		StopWords:      defaultStopWords(),
		MinTokenLength: 3,
	}
}

func defaultStopWords() map[string]struct{} {
	words := []string{
		// Transaction prefixes
		"payment", "transfer", "sepa", "incasso", "machtiging", "factnr",
		"btw", "termijn", "klantnr", "crn", "naam", "omschrijving", "incassant",
		"reference", "ref", "nr", "number",
		// Common stop words
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "as", "is", "was", "are", "were", "be",
		"been", "have", "has", "had", "do", "does", "did", "will", "would",
		"could", "should", "may", "might", "must", "can", "bill", "transaction",
		// Date fragments
		"jan", "feb", "mar", "apr", "may", "jun", "jul", "aug", "sep", "oct",
		"nov", "dec", "january", "february", "march", "april", "june", "july",
		"august", "september", "october", "november", "december",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

var (
	specialChars = regexp.MustCompile(`[^a-z0-9\s\-]`)
	whitespace   = regexp.MustCompile(`\s+`)
	wordPattern  = regexp.MustCompile(`[a-z0-9]+`)
)

// Calculator scores pairs of strings. The zero value is not usable; use New.
type Calculator struct {
	cfg Config
}

// New creates a Calculator with the given config.
func New(cfg Config) *Calculator {
	if cfg.MinTokenLength <= 0 {
		cfg.MinTokenLength = 3
	}
	if cfg.StopWords == nil {
		cfg.StopWords = defaultStopWords()
	}
	return &Calculator{cfg: cfg}
}

// NewDefault creates a Calculator with DefaultConfig.
func NewDefault() *Calculator {
	return New(DefaultConfig())
}

// Normalize lowercases, strips special characters (keeping letters, digits,
// spaces and hyphens) and collapses whitespace.
func Normalize(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = specialChars.ReplaceAllString(text, " ")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Tokens extracts meaningful words from normalized text, dropping stop words
// and anything shorter than the configured minimum.
func (c *Calculator) Tokens(text string) []string {
	if text == "" {
		return nil
	}
	words := wordPattern.FindAllString(strings.ToLower(text), -1)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < c.cfg.MinTokenLength {
			continue
		}
		if _, stop := c.cfg.StopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Calculate scores two strings from 0 to 100.
//
// Precedence: exact match after normalization (100), substring containment
// (85), token overlap covering at least half the smaller token set (70-90),
// then an edit-distance ratio scaled to 0-70.
func (c *Calculator) Calculate(text1, text2 string) Result {
	norm1 := Normalize(text1)
	norm2 := Normalize(text2)

	if norm1 == "" || norm2 == "" {
		return Result{Score: 0, Method: MethodNone}
	}

	if norm1 == norm2 {
		return Result{Score: 100, Method: MethodExact}
	}

	if len(norm1) >= 3 && len(norm2) >= 3 {
		if strings.Contains(norm1, norm2) || strings.Contains(norm2, norm1) {
			return Result{Score: 85, Method: MethodSubstring}
		}
	}

	tokens1 := c.Tokens(norm1)
	tokens2 := c.Tokens(norm2)
	if len(tokens1) > 0 && len(tokens2) > 0 {
		set1 := toSet(tokens1)
		set2 := toSet(tokens2)

		var overlap []string
		for tok := range set1 {
			if _, ok := set2[tok]; ok {
				overlap = append(overlap, tok)
			}
		}

		if len(overlap) > 0 {
			minTokens := len(set1)
			if len(set2) < minTokens {
				minTokens = len(set2)
			}
			overlapRatio := float64(len(overlap)) / float64(minTokens)

			if overlapRatio >= 0.5 {
				score := 70.0 + overlapRatio*20.0
				if score > 90 {
					score = 90
				}
				return Result{
					Score:         score,
					Method:        MethodTokenOverlap,
					MatchedTokens: overlap,
				}
			}
		}
	}

	return Result{
		Score:  Ratio(norm1, norm2) * 70.0,
		Method: MethodLevenshtein,
	}
}

// MatchScore computes the best score between a recurring series and a
// transaction across all populated field pairings. The returned method is
// tagged "<pairing>:<method>", or "none" when no pairing applied.
func (c *Calculator) MatchScore(seriesName, seriesMerchant, txnDescription, txnMerchant string) (float64, string) {
	combos := []struct {
		a, b, name string
	}{
		{seriesName, txnMerchant, "name_to_merchant"},
		{seriesName, txnDescription, "name_to_description"},
		{seriesMerchant, txnMerchant, "merchant_to_merchant"},
		{seriesMerchant, txnDescription, "merchant_to_description"},
	}

	bestScore := 0.0
	bestMethod := MethodNone
	for _, combo := range combos {
		if combo.a == "" || combo.b == "" {
			continue
		}
		result := c.Calculate(combo.a, combo.b)
		if result.Score > bestScore {
			bestScore = result.Score
			bestMethod = combo.name + ":" + result.Method
		}
	}

	return bestScore, bestMethod
}

func toSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		set[tok] = struct{}{}
	}
	return set
}
