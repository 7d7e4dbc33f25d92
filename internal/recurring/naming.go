package recurring

import (
	"regexp"
	"strings"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

var (
	naamPattern     = regexp.MustCompile(`(?i)Naam:\s*([^\s/][^/\n]{2,})`)
	nameSlashPat    = regexp.MustCompile(`(?i)/NAME/([^/]+)`)
	sepaPrefixReges = regexp.MustCompile(`(?i)^(sepa\s+)?(incasso\s+)?(algemeen\s+)?(doorlopend\s+)?`)
)

// bestName derives the name and merchant for a detected pattern.
//
// Priority: known merchant from the creditor-id table (unwrapping payment
// processors like Mollie by searching members for the real merchant), the
// merchant extractor at confidence >= 70, the most frequent merchant field,
// a counterparty name from SEPA "Naam:"/"/NAME/" tokens, a cleaned
// description fragment, then a generic fallback.
func (d *Detector) bestName(txns []model.Transaction) (string, string) {
	if len(txns) == 0 {
		return "Unknown Subscription", ""
	}

	first := txns[0]
	csid := extractCreditorID(first.Description)
	known := merchantFromCreditorID(csid)

	if known != "" {
		// Mollie collects on behalf of other merchants; look for the
		// actual merchant in the member transactions.
		if known == "Mollie" {
			for _, txn := range txns {
				result := d.merchants.Extract(txn.Description, txn.Merchant)
				if result.Merchant != "" && !strings.EqualFold(result.Merchant, "mollie") {
					return result.Merchant, result.Merchant
				}
			}
		}
		return known, known
	}

	for _, txn := range txns {
		result := d.merchants.Extract(txn.Description, txn.Merchant)
		if result.Merchant != "" && result.Confidence >= 70 {
			return result.Merchant, result.Merchant
		}
	}

	if merchant := modalMerchant(txns); merchant != "" {
		return merchant, merchant
	}

	for _, txn := range txns {
		if m := naamPattern.FindStringSubmatch(txn.Description); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name, name
			}
		}
		if m := nameSlashPat.FindStringSubmatch(txn.Description); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name, name
			}
		}
	}

	// Unknown creditor: salvage any identifying text, else label by the
	// creditor id tail.
	if csid != "" {
		for _, txn := range txns {
			normalized := normalizeDescription(txn.Description)
			cleaned := strings.TrimSpace(sepaPrefixReges.ReplaceAllString(normalized, ""))
			if len(cleaned) >= 3 {
				return titleCase(truncate(cleaned, 50)), ""
			}
		}
		return "SEPA Direct Debit (" + csid[len(csid)-6:] + ")", ""
	}

	// Shortest usable description is usually the cleanest.
	var cleanest string
	for _, txn := range txns {
		if len(txn.Description) < 5 {
			continue
		}
		if cleanest == "" || len(txn.Description) < len(cleanest) {
			cleanest = txn.Description
		}
	}
	if cleanest != "" {
		if normalized := normalizeDescription(cleanest); normalized != "" {
			return titleCase(truncate(normalized, 50)), ""
		}
	}

	return "Unknown Subscription", ""
}

// modalMerchant returns the most frequent non-empty merchant field,
// preferring the first encountered on ties.
func modalMerchant(txns []model.Transaction) string {
	counts := make(map[string]int)
	var order []string
	for _, txn := range txns {
		if txn.Merchant == "" {
			continue
		}
		if counts[txn.Merchant] == 0 {
			order = append(order, txn.Merchant)
		}
		counts[txn.Merchant]++
	}

	best := ""
	for _, merchant := range order {
		if best == "" || counts[merchant] > counts[best] {
			best = merchant
		}
	}
	return best
}

func titleCase(text string) string {
	words := strings.Fields(text)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func truncate(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	return text[:limit]
}
