package recurring

import (
	"regexp"
	"strings"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

// creditorPrefix marks fingerprints derived from a SEPA creditor identifier.
const creditorPrefix = "CREDITOR:"

// knownCreditorPrefixes maps Dutch SEPA direct-debit creditor identifiers to
// merchant names. CSIDs can carry trailing digits, so lookups match by
// prefix. Static data, built once.
var knownCreditorPrefixes = map[string]string{
	"NL10ZZZ302086370": "Zilveren Kruis",
	"NL41ZZZ671825500": "ODIDO",
	"NL08ZZZ502057730": "Mollie", // Payment processor
	"NL03ZZZ301243580": "NS Reizigers",
	"NL36ZZZ332952490": "Vattenfall",
	"NL32ZZZ332660000": "Ziggo",
	"NL96ZZZ301970550": "KPN",
	"NL65ZZZ331646640": "T-Mobile",
	"NL22ZZZ301853520": "Eneco",
	"NL09ZZZ301625750": "Essent",
}

var (
	csidPattern = regexp.MustCompile(`(?i)\b(NL\d{2}ZZZ\d{9,18})\b`)
	ibanPattern = regexp.MustCompile(`(?i)IBAN[/: ]*([A-Z]{2}\d{2}[A-Z]{4}\d{10})\b`)

	// Noise stripped before fingerprinting and pairwise comparison. CSIDs
	// and IBANs are extracted separately before this runs.
	descNoisePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b\d{8,}\b`),
		regexp.MustCompile(`\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}`),
		regexp.MustCompile(`\d{4}[-/.]\d{1,2}[-/.]\d{1,2}`),
		regexp.MustCompile(`\b\d{2}[-/]\d{4}\b`),
		regexp.MustCompile(`(?i)\b(ref|nr|no|number|kenmerk|factnr|factuur|invoice)[.:# ]*\w*`),
		regexp.MustCompile(`(?i)\b(btw|vat|tax)[.:# ]*\d*%?\b`),
		regexp.MustCompile(`(?i)\b(periode|period|termijn)[.:# ]*\w*\b`),
		regexp.MustCompile(`(?i)\b(bv|nv|ltd|inc|gmbh|llc|co|corp)\b\.?`),
		regexp.MustCompile(`(?i)\bb\.v\.?\b|\bn\.v\.?\b`),
		regexp.MustCompile(`[%€$£]`),
		regexp.MustCompile(`(?i)/trtp/`),
		regexp.MustCompile(`(?i)/csid/`),
		regexp.MustCompile(`(?i)/iban/`),
		regexp.MustCompile(`(?i)/bic/`),
		regexp.MustCompile(`(?i)/naam/`),
		regexp.MustCompile(`(?i)pas\d{3}`),
	}

	descWhitespace = regexp.MustCompile(`\s+`)

	// Words too generic to anchor a fingerprint.
	fingerprintSkipWords = map[string]struct{}{
		"sepa": {}, "incasso": {}, "machtiging": {}, "payment": {},
		"transfer": {}, "betaling": {}, "overboeking": {}, "periodieke": {},
		"overb": {}, "algemeen": {}, "doorlopend": {}, "naar": {}, "van": {},
		"voor": {}, "met": {}, "aan": {}, "bij": {}, "the": {}, "for": {},
		"from": {}, "to": {}, "bv": {}, "nv": {}, "ltd": {}, "inc": {},
		"gmbh": {}, "llc": {}, "incassant": {},
	}
)

// extractCreditorID pulls a SEPA creditor identifier (CSID) or a labeled
// IBAN out of free text. Either uniquely identifies the payee of a direct
// debit or recurring transfer.
func extractCreditorID(text string) string {
	if text == "" {
		return ""
	}
	if m := csidPattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := ibanPattern.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// merchantFromCreditorID resolves a CSID to a known merchant name by prefix.
func merchantFromCreditorID(csid string) string {
	if csid == "" {
		return ""
	}
	for prefix, name := range knownCreditorPrefixes {
		if strings.HasPrefix(csid, prefix) {
			return name
		}
	}
	return ""
}

// normalizeDescription strips reference numbers, dates and banking jargon
// while preserving the merchant or service identifier.
func normalizeDescription(text string) string {
	if text == "" {
		return ""
	}
	normalized := strings.ToLower(strings.TrimSpace(text))
	for _, p := range descNoisePatterns {
		normalized = p.ReplaceAllString(normalized, " ")
	}
	return strings.TrimSpace(descWhitespace.ReplaceAllString(normalized, " "))
}

// fingerprint computes a cheap grouping key for a transaction, used to
// bucket candidates before the expensive pairwise similarity pass.
//
// Priority: SEPA creditor id, merchant extractor at confidence >= 70, the
// raw merchant field, the first significant description keywords, then a
// truncated normalized description.
func (d *Detector) fingerprint(txn model.Transaction) string {
	if csid := extractCreditorID(txn.Description); csid != "" {
		return creditorPrefix + csid
	}

	if result := d.merchants.Extract(txn.Description, txn.Merchant); result.Merchant != "" && result.Confidence >= 70 {
		return strings.ToLower(result.Merchant)
	}

	if txn.Merchant != "" {
		return strings.ToLower(strings.TrimSpace(txn.Merchant))
	}

	normalized := normalizeDescription(txn.Description)

	var significant []string
	for _, w := range strings.Fields(normalized) {
		if len(w) < 3 {
			continue
		}
		if _, skip := fingerprintSkipWords[w]; skip {
			continue
		}
		significant = append(significant, w)
		if len(significant) == 4 {
			break
		}
	}
	if len(significant) > 0 {
		return strings.Join(significant, " ")
	}

	if len(normalized) > 40 {
		return normalized[:40]
	}
	return normalized
}

// pairSimilarity scores two transactions from 0.0 to 1.0. A shared creditor
// id forces 1.0 and differing ids force 0.0, overriding all text scoring.
func (d *Detector) pairSimilarity(a, b model.Transaction) float64 {
	csidA := extractCreditorID(a.Description)
	csidB := extractCreditorID(b.Description)

	if csidA != "" && csidB != "" {
		if csidA == csidB {
			return 1.0
		}
		return 0.0
	}
	// One-sided creditor id: probably different, but could be the same
	// merchant on another payment rail.
	if csidA != "" || csidB != "" {
		return 0.3
	}

	descA := normalizeDescription(a.Description)
	descB := normalizeDescription(b.Description)
	merchantA := strings.ToLower(strings.TrimSpace(a.Merchant))
	merchantB := strings.ToLower(strings.TrimSpace(b.Merchant))

	if merchantA != "" && merchantA == merchantB {
		return 1.0
	}

	if descA != "" && descB != "" {
		base := d.sim.Calculate(descA, descB).Score / 100.0
		if merchantA != "" && merchantB != "" {
			merchantScore := d.sim.Calculate(merchantA, merchantB).Score / 100.0
			return 0.7*base + 0.3*merchantScore
		}
		return base
	}

	if merchantA != "" && merchantB != "" {
		return d.sim.Calculate(merchantA, merchantB).Score / 100.0
	}

	return 0.0
}
