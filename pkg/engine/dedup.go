package engine

// Dedupe drops every finding whose key was already seen, keeping the first
// occurrence and the input order. Applying it twice is a no-op.
func Dedupe(findings []Finding) []Finding {
	seen := make(map[DedupKey]struct{}, len(findings))
	out := make([]Finding, 0, len(findings))
	for _, f := range findings {
		key := f.Key()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, f)
	}
	return out
}
