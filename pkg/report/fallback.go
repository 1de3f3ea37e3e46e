package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/user/scanmerge/pkg/engine"
)

// Display caps for the fallback report. Counts always cover every finding.
const (
	maxLinesPerSource   = 30
	maxLinesPerSeverity = 50
)

var nextActions = []string{
	"- [ ] Validate Critical/High findings directly in the environment",
	"- [ ] Confirm scope and false positives",
	"- [ ] Create remediation tickets with owners + deadlines",
	"- [ ] Add/adjust detections for repeated patterns\n",
}

// RenderFallback builds the deterministic markdown report used when no model
// summary is available.
func RenderFallback(tax engine.Taxonomy, findings []engine.Finding) string {
	bySource := make(map[string][]engine.Finding)
	for _, f := range findings {
		bySource[f.Source] = append(bySource[f.Source], f)
	}
	sources := make([]string, 0, len(bySource))
	for src := range bySource {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	bySeverity := make(map[engine.Severity][]engine.Finding)
	for _, f := range findings {
		bySeverity[f.Severity] = append(bySeverity[f.Severity], f)
	}

	var lines []string
	lines = append(lines, "# Consolidated Security Report (Fallback)\n")
	lines = append(lines, "## Executive Summary\n")
	lines = append(lines, fmt.Sprintf("- Total findings: %d", len(findings)))
	lines = append(lines, "- Severity counts (as-reported):")
	for _, sev := range tax.Order() {
		lines = append(lines, fmt.Sprintf("  - %s: %d", sev, len(bySeverity[sev])))
	}

	lines = append(lines, "\n## Findings by Source Tool\n")
	for _, src := range sources {
		items := bySource[src]
		lines = append(lines, fmt.Sprintf("### %s (%d)", src, len(items)))
		for i, f := range items {
			if i == maxLinesPerSource {
				break
			}
			lines = append(lines, strings.TrimSpace(fmt.Sprintf("- [%s] %s — %s", f.Severity, f.Title, f.Resource)))
		}
	}

	lines = append(lines, "\n## Findings by Severity (as-reported)\n")
	for _, sev := range tax.Order() {
		items := bySeverity[sev]
		if len(items) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("### %s (%d)", sev, len(items)))
		for i, f := range items {
			if i == maxLinesPerSeverity {
				break
			}
			lines = append(lines, fmt.Sprintf("- %s (%s)", f.Title, f.Source))
		}
	}

	lines = append(lines, "\n## Analyst Next Actions\n")
	lines = append(lines, nextActions...)
	return strings.Join(lines, "\n")
}
