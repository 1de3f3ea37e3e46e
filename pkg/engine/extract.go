package engine

import "strings"

// DefaultMaxDepth bounds how far the extractor descends into a document.
const DefaultMaxDepth = 256

var (
	severityKeys   = []string{"severity", "level", "risk", "priority"}
	identifierKeys = []string{"title", "name", "check", "rule", "id"}

	descriptionKeys = []string{"description", "message", "details"}
	resourceKeys    = []string{"resource", "file", "path", "target"}
	cveKeys         = []string{"cve", "cves"}
)

// Extractor finds finding-shaped objects anywhere inside a parsed document.
type Extractor struct {
	taxonomy Taxonomy
	maxDepth int
}

// NewExtractor creates an extractor normalizing severities against tax.
func NewExtractor(tax Taxonomy) *Extractor {
	return &Extractor{taxonomy: tax, maxDepth: DefaultMaxDepth}
}

// WithMaxDepth sets the traversal depth guard. Values below 1 are ignored.
func (e *Extractor) WithMaxDepth(depth int) *Extractor {
	if depth > 0 {
		e.maxDepth = depth
	}
	return e
}

type frame struct {
	node  Value
	depth int
}

// Extract walks root depth-first, visiting every mapping (including those
// nested in sequences and in other mappings), and returns one Finding per
// mapping that carries both a severity-like and an identifier-like key.
// Matched mappings are still descended into. Nodes below the depth guard are
// not visited.
func (e *Extractor) Extract(source string, root Value) []Finding {
	var findings []Finding

	stack := []frame{{node: root}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []Value
		switch top.node.Kind() {
		case KindMapping:
			if looksLikeFinding(top.node) {
				findings = append(findings, e.build(source, top.node))
			}
			for _, m := range top.node.Members() {
				children = append(children, m.Value)
			}
		case KindSequence:
			children = top.node.Items()
		default:
			continue
		}

		if top.depth >= e.maxDepth {
			continue
		}
		// Reverse push keeps document order on pop.
		for i := len(children) - 1; i >= 0; i-- {
			switch children[i].Kind() {
			case KindMapping, KindSequence:
				stack = append(stack, frame{node: children[i], depth: top.depth + 1})
			}
		}
	}
	return findings
}

func looksLikeFinding(m Value) bool {
	keys := make(map[string]struct{}, len(m.Members()))
	for _, member := range m.Members() {
		keys[strings.ToLower(member.Key)] = struct{}{}
	}
	return hasAny(keys, severityKeys) && hasAny(keys, identifierKeys)
}

func hasAny(keys map[string]struct{}, want []string) bool {
	for _, k := range want {
		if _, ok := keys[k]; ok {
			return true
		}
	}
	return false
}

// firstPresent returns the first truthy value among keys, looked up exactly.
func firstPresent(m Value, keys []string) (Value, bool) {
	for _, k := range keys {
		if v, ok := m.Lookup(k); ok && v.Truthy() {
			return v, true
		}
	}
	return Value{}, false
}

func firstText(m Value, keys []string) string {
	v, _ := firstPresent(m, keys)
	return v.Text()
}

func (e *Extractor) build(source string, m Value) Finding {
	sev, _ := firstPresent(m, severityKeys)
	cve, ok := firstPresent(m, cveKeys)
	if !ok {
		cve = String("")
	}

	return Finding{
		Source:      source,
		Title:       truncate(firstText(m, identifierKeys), MaxTitleLen),
		Severity:    e.taxonomy.Normalize(sev),
		Description: truncate(firstText(m, descriptionKeys), MaxDescriptionLen),
		Resource:    truncate(firstText(m, resourceKeys), MaxResourceLen),
		CVE:         cve,
	}
}
