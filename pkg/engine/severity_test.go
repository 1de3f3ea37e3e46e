package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tax := DefaultTaxonomy()

	cases := []struct {
		raw  Value
		want Severity
	}{
		{String("crit"), SeverityCritical},
		{String("Severe"), SeverityHigh},
		{String(" moderate "), SeverityMedium},
		{String("Informational"), SeverityInfo},
		{String("high"), SeverityHigh},
		{String("LOW"), SeverityLow},
		{String("unspecified"), SeverityUnspecified},
		{String(""), SeverityUnspecified},
		{String("   "), SeverityUnspecified},
		{Null(), SeverityUnspecified},
		{String("banana"), SeverityUnspecified},
		{Number("7"), SeverityUnspecified},
		{Bool(true), SeverityUnspecified},
		{Sequence(String("HIGH")), SeverityUnspecified},
	}
	for _, tc := range cases {
		got := tax.Normalize(tc.raw)
		assert.Equal(t, tc.want, got, "raw %q", tc.raw.Text())
		assert.True(t, tax.Contains(got))
	}
}

func TestTaxonomyOrder(t *testing.T) {
	tax := DefaultTaxonomy()
	order := tax.Order()
	assert.Equal(t, []Severity{
		SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo, SeverityUnspecified,
	}, order)

	// Callers get a copy.
	order[0] = "BOGUS"
	assert.Equal(t, SeverityCritical, tax.Order()[0])

	assert.Less(t, tax.Rank(SeverityCritical), tax.Rank(SeverityInfo))
	assert.Equal(t, len(order), tax.Rank("BOGUS"))
}

func TestCustomTaxonomy(t *testing.T) {
	tax := NewTaxonomy([]Severity{SeverityHigh, SeverityUnspecified}, map[string]Severity{"p1": SeverityHigh})
	assert.Equal(t, SeverityHigh, tax.NormalizeString("P1"))
	assert.Equal(t, SeverityUnspecified, tax.NormalizeString("critical"))
}
