// Package merchant derives canonical merchant labels from raw transaction
// descriptions.
package merchant

import (
	"regexp"
	"sort"
	"strings"
)

// Extraction methods, in priority order.
const (
	MethodExisting            = "existing"
	MethodKnownPattern        = "known_pattern"
	MethodCapitalizedSequence = "capitalized_sequence"
	MethodFirstWord           = "first_word"
	MethodNone                = "none"
)

// Result of a merchant extraction.
type Result struct {
	Merchant   string // Empty when no merchant could be derived
	Method     string
	Confidence float64 // 0-100
}

// Config holds the cleaning tables. Defaults cover Dutch/English banking
// noise; other locales can extend the pattern lists.
type Config struct {
	NoisePatterns []string
	DatePatterns  []string
}

// DefaultConfig returns the standard cleaning tables.
func DefaultConfig() Config {
	return Config{
		NoisePatterns: []string{
			`\bsepa\b`, `\bincasso\b`, `\bmachtiging\b`, `\bfactnr\b`,
			`\bbtw\b`, `\btermijn\b`, `\bklantnr\b`, `\bcrn\b`, `\bnaam\b`,
			`\bomschrijving\b`, `\bincassant\b`, `\breference\b`, `\bref\b`,
			`\bnr\b`, `\bnumber\b`, `\bpayment\b`, `\btransfer\b`, `\bid\b`,
			// Company suffixes
			`\bbv\b`, `\bnv\b`, `\bltd\b`, `\binc\b`, `\bgmbh\b`, `\bllc\b`,
			`\bco\b`, `\bcorp\b`,
		},
		DatePatterns: []string{
			`\b\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\b`, // DD/MM/YYYY and friends
			`\b\d{4}[-/]\d{1,2}[-/]\d{1,2}\b`,   // YYYY/MM/DD
			`\b\d{6,8}\b`,                       // Reference numbers
			`\b[A-Z]{2,3}\d{10,}\b`,             // IBAN-like runs
		},
	}
}

// Words that slip through cleaning but are never merchant names.
var capitalizedSkipWords = map[string]struct{}{
	"sepa": {}, "incasso": {}, "payment": {}, "transfer": {}, "reference": {},
	"naar": {}, "van": {}, "voor": {}, "met": {}, "the": {}, "for": {},
	"from": {}, "to": {},
}

var allCapsSkipWords = map[string]struct{}{
	"sepa": {}, "iban": {}, "bic": {}, "btw": {}, "kvk": {}, "crn": {}, "ref": {},
}

var firstWordSkipWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "to": {}, "from": {}, "for": {}, "at": {},
	"in": {}, "on": {}, "by": {},
}

var (
	capitalizedPattern = regexp.MustCompile(`\b[A-Z][A-Za-z]{2,}\b`)
	allCapsPattern     = regexp.MustCompile(`\b[A-Z]{3,}\b`)
	whitespacePattern  = regexp.MustCompile(`\s+`)
)

// Extractor derives merchant names from descriptions using a known-brand
// table and a cleaning pipeline. Construct once and reuse; all patterns are
// compiled up front.
type Extractor struct {
	noise  *regexp.Regexp
	dates  *regexp.Regexp
	brands []brandPattern
}

type brandPattern struct {
	re        *regexp.Regexp
	canonical string
}

// New creates an Extractor with the given cleaning config.
func New(cfg Config) *Extractor {
	if len(cfg.NoisePatterns) == 0 {
		cfg = DefaultConfig()
	}

	// Longer brand tokens first so "uber eats" wins over "uber".
	keys := make([]string, 0, len(knownBrands))
	for k := range knownBrands {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})

	brands := make([]brandPattern, 0, len(keys))
	for _, k := range keys {
		brands = append(brands, brandPattern{
			re:        regexp.MustCompile(`\b` + regexp.QuoteMeta(k) + `\b`),
			canonical: knownBrands[k],
		})
	}

	return &Extractor{
		noise:  regexp.MustCompile(`(?i)` + strings.Join(cfg.NoisePatterns, "|")),
		dates:  regexp.MustCompile(strings.Join(cfg.DatePatterns, "|")),
		brands: brands,
	}
}

// NewDefault creates an Extractor with DefaultConfig.
func NewDefault() *Extractor {
	return New(DefaultConfig())
}

// Extract derives a merchant name from a transaction description.
//
// Priority: an already-populated merchant field wins verbatim, then the
// known-brand table, then the first capitalized word sequence of the cleaned
// description, then its first meaningful word.
func (e *Extractor) Extract(description, existingMerchant string) Result {
	if trimmed := strings.TrimSpace(existingMerchant); trimmed != "" {
		return Result{Merchant: trimmed, Confidence: 100, Method: MethodExisting}
	}

	if description == "" {
		return Result{Method: MethodNone}
	}

	if brand := e.findKnownBrand(description); brand != "" {
		return Result{Merchant: brand, Confidence: 95, Method: MethodKnownPattern}
	}

	cleaned := e.cleanDescription(description)

	if name := extractCapitalizedSequence(cleaned); name != "" {
		return Result{Merchant: name, Confidence: 60, Method: MethodCapitalizedSequence}
	}

	if word := firstMeaningfulWord(cleaned); word != "" {
		return Result{Merchant: word, Confidence: 30, Method: MethodFirstWord}
	}

	return Result{Method: MethodNone}
}

// findKnownBrand returns the canonical name of the first (most specific)
// known brand appearing in the text.
func (e *Extractor) findKnownBrand(text string) string {
	lower := strings.ToLower(text)
	for _, b := range e.brands {
		if b.re.MatchString(lower) {
			return b.canonical
		}
	}
	return ""
}

// cleanDescription strips date-like patterns and banking noise to isolate
// the merchant name.
func (e *Extractor) cleanDescription(description string) string {
	cleaned := e.dates.ReplaceAllString(description, " ")
	cleaned = e.noise.ReplaceAllString(cleaned, " ")
	cleaned = whitespacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// extractCapitalizedSequence returns the first capitalized word of three or
// more letters, or failing that the first ALL-CAPS token, title-cased.
func extractCapitalizedSequence(text string) string {
	if text == "" {
		return ""
	}

	for _, match := range capitalizedPattern.FindAllString(text, -1) {
		if _, skip := capitalizedSkipWords[strings.ToLower(match)]; !skip {
			return match
		}
	}

	for _, match := range allCapsPattern.FindAllString(text, -1) {
		if _, skip := allCapsSkipWords[strings.ToLower(match)]; !skip {
			return capitalize(match)
		}
	}

	return ""
}

// firstMeaningfulWord returns the first word of length >= 3 that is not a
// trivial stop word, capitalized.
func firstMeaningfulWord(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 || len(words[0]) < 3 {
		return ""
	}
	word := capitalize(words[0])
	if _, skip := firstWordSkipWords[strings.ToLower(word)]; skip {
		return ""
	}
	return word
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
