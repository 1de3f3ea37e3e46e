package engine

import "strings"

// Severity is a member of the canonical taxonomy.
type Severity string

const (
	SeverityCritical    Severity = "CRITICAL"
	SeverityHigh        Severity = "HIGH"
	SeverityMedium      Severity = "MEDIUM"
	SeverityLow         Severity = "LOW"
	SeverityInfo        Severity = "INFO"
	SeverityUnspecified Severity = "UNSPECIFIED"
)

func (s Severity) String() string {
	return string(s)
}

// Taxonomy is the ordered severity list plus the alias table used to map raw
// tool tokens onto it. It is immutable once built.
type Taxonomy struct {
	order   []Severity
	rank    map[Severity]int
	aliases map[string]Severity
}

// DefaultTaxonomy returns CRITICAL > HIGH > MEDIUM > LOW > INFO > UNSPECIFIED
// with the common vendor aliases.
func DefaultTaxonomy() Taxonomy {
	return NewTaxonomy(
		[]Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo, SeverityUnspecified},
		map[string]Severity{
			"CRIT":          SeverityCritical,
			"SEVERE":        SeverityHigh,
			"MODERATE":      SeverityMedium,
			"INFORMATIONAL": SeverityInfo,
		},
	)
}

// NewTaxonomy builds a taxonomy from an ordered list (most severe first) and an
// alias table keyed by uppercase token. Callers must include SeverityUnspecified.
func NewTaxonomy(order []Severity, aliases map[string]Severity) Taxonomy {
	t := Taxonomy{
		order:   append([]Severity(nil), order...),
		rank:    make(map[Severity]int, len(order)),
		aliases: make(map[string]Severity, len(aliases)),
	}
	for i, s := range t.order {
		t.rank[s] = i
	}
	for k, v := range aliases {
		t.aliases[strings.ToUpper(k)] = v
	}
	return t
}

// Order returns the severities, most severe first.
func (t Taxonomy) Order() []Severity {
	return append([]Severity(nil), t.order...)
}

// Contains reports whether s is a member of the taxonomy.
func (t Taxonomy) Contains(s Severity) bool {
	_, ok := t.rank[s]
	return ok
}

// Rank returns the position of s in the taxonomy, or len(order) when s is not
// a member.
func (t Taxonomy) Rank(s Severity) int {
	if r, ok := t.rank[s]; ok {
		return r
	}
	return len(t.order)
}

// Normalize maps a raw severity value onto the taxonomy. It never fails:
// anything missing, empty or unrecognized becomes UNSPECIFIED.
func (t Taxonomy) Normalize(raw Value) Severity {
	if !raw.Truthy() {
		return SeverityUnspecified
	}
	return t.NormalizeString(raw.Text())
}

// NormalizeString is Normalize for a token that is already text.
func (t Taxonomy) NormalizeString(raw string) Severity {
	token := strings.ToUpper(strings.TrimSpace(raw))
	if token == "" {
		return SeverityUnspecified
	}
	sev := Severity(token)
	if alias, ok := t.aliases[token]; ok {
		sev = alias
	}
	if t.Contains(sev) {
		return sev
	}
	return SeverityUnspecified
}
