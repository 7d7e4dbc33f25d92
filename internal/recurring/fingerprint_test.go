package recurring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/syllogic-ai/personal-finance-app/internal/model"
)

func newTestDetector() *Detector {
	return NewDetector(DefaultOptions(), nil, nil)
}

func TestExtractCreditorID(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "csid in sepa incasso",
			text: "SEPA Incasso algemeen doorlopend NL36ZZZ332952490000 Vattenfall",
			want: "NL36ZZZ332952490000",
		},
		{
			name: "csid lowercased in source",
			text: "incassant nl36zzz332952490000",
			want: "NL36ZZZ332952490000",
		},
		{
			name: "iban with label",
			text: "Overboeking IBAN: NL23ABNA0126656150 huur januari",
			want: "NL23ABNA0126656150",
		},
		{
			name: "iban with slash label",
			text: "/TRTP/SEPA OVERBOEKING/IBAN/NL23ABNA0126656150/NAAM/J JANSEN",
			want: "NL23ABNA0126656150",
		},
		{
			name: "unlabeled iban is not extracted",
			text: "NL23ABNA0126656150 zonder label",
			want: "",
		},
		{
			name: "plain text",
			text: "Netflix Subscription",
			want: "",
		},
		{
			name: "empty",
			text: "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, extractCreditorID(tt.text))
		})
	}
}

func TestMerchantFromCreditorID(t *testing.T) {
	// Prefix matching tolerates trailing digits.
	assert.Equal(t, "Vattenfall", merchantFromCreditorID("NL36ZZZ332952490000"))
	assert.Equal(t, "Mollie", merchantFromCreditorID("NL08ZZZ502057730"))
	assert.Equal(t, "", merchantFromCreditorID("NL99ZZZ999999999"))
	assert.Equal(t, "", merchantFromCreditorID(""))
}

func TestDetector_Fingerprint(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		txn  model.Transaction
		want string
	}{
		{
			name: "creditor id wins",
			txn:  model.Transaction{Description: "SEPA Incasso NL36ZZZ332952490000 whatever"},
			want: "CREDITOR:NL36ZZZ332952490000",
		},
		{
			name: "known brand via extractor",
			txn:  model.Transaction{Description: "betaling netflix international"},
			want: "netflix",
		},
		{
			name: "merchant field fallback",
			txn:  model.Transaction{Description: "betaling 99887766", Merchant: "Greengrocer Joe"},
			want: "greengrocer joe",
		},
		{
			name: "significant keywords from description",
			txn:  model.Transaction{Description: "sepa incasso waterschap rivierenland aanslag"},
			want: "waterschap rivierenland aanslag",
		},
		{
			name: "empty transaction",
			txn:  model.Transaction{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, d.fingerprint(tt.txn))
		})
	}
}

func TestDetector_PairSimilarity(t *testing.T) {
	d := newTestDetector()

	tests := []struct {
		name string
		a    model.Transaction
		b    model.Transaction
		want float64
		min  float64
		max  float64
	}{
		{
			name: "same creditor id forces full similarity",
			a:    model.Transaction{Description: "NL36ZZZ332952490000 energie termijn 01"},
			b:    model.Transaction{Description: "iets totaal anders NL36ZZZ332952490000"},
			want: 1.0,
		},
		{
			name: "different creditor ids force zero",
			a:    model.Transaction{Description: "SEPA Incasso energie NL36ZZZ332952490000"},
			b:    model.Transaction{Description: "SEPA Incasso energie NL22ZZZ301853520000"},
			want: 0.0,
		},
		{
			name: "one-sided creditor id scores low",
			a:    model.Transaction{Description: "SEPA Incasso Netflix NL99ZZZ123456789"},
			b:    model.Transaction{Description: "Netflix Subscription"},
			want: 0.3,
		},
		{
			name: "identical merchant fields force full similarity",
			a:    model.Transaction{Description: "payment 1", Merchant: "Spotify"},
			b:    model.Transaction{Description: "payment 2", Merchant: "spotify"},
			want: 1.0,
		},
		{
			name: "identical descriptions",
			a:    model.Transaction{Description: "Netflix Subscription"},
			b:    model.Transaction{Description: "Netflix Subscription"},
			want: 1.0,
		},
		{
			name: "dissimilar descriptions stay under threshold",
			a:    model.Transaction{Description: "Albert Heijn 1507"},
			b:    model.Transaction{Description: "Shell Station Utrecht"},
			max:  0.65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := d.pairSimilarity(tt.a, tt.b)
			if tt.min == 0 && tt.max == 0 {
				assert.InDelta(t, tt.want, got, 0.001)
			}
			if tt.min > 0 {
				assert.GreaterOrEqual(t, got, tt.min)
			}
			if tt.max > 0 {
				assert.Less(t, got, tt.max)
			}
		})
	}
}

func TestNormalizeDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Netflix factuur 123456789", "netflix"},
		{"Eneco termijn 01-2025", "eneco"},
		{"Huur B.V. periode: jan", "huur"},
		{"/TRTP/SEPA/CSID/x/NAAM/y", "sepa x y"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, normalizeDescription(tt.in), "input %q", tt.in)
	}
}
