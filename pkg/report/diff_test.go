package report

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/user/scanmerge/pkg/engine"
)

func TestRenderDiff(t *testing.T) {
	var unchanged []engine.Finding
	for i := 0; i < 12; i++ {
		unchanged = append(unchanged, engine.Finding{Source: "trivy", Title: fmt.Sprintf("u%d", i), Severity: engine.SeverityLow})
	}
	diff := engine.SnapshotDiff{
		New:       []engine.Finding{{Source: "zap", Title: "XSS", Severity: engine.SeverityHigh, Resource: "/login"}},
		Fixed:     []engine.Finding{{Source: "bandit", Title: "B101", Severity: engine.SeverityMedium}},
		Unchanged: unchanged,
	}

	out := RenderDiff("baseline.json", diff)
	assert.True(t, strings.HasPrefix(out, "Snapshot Comparison (vs baseline.json):\n"))
	assert.Contains(t, out, "NEW RISKS: 1\n  [+] [HIGH] XSS (zap) - /login\n")
	assert.Contains(t, out, "FIXED RISKS: 1\n  [-] [MEDIUM] B101 (bandit)\n")
	assert.Contains(t, out, "UNCHANGED RISKS: 12\n")
	assert.Equal(t, 10, strings.Count(out, "  [=] "))
	assert.Contains(t, out, "  ... and 2 more.\n")
}

func TestRenderDiffEmpty(t *testing.T) {
	out := RenderDiff("b.json", engine.SnapshotDiff{})
	assert.Contains(t, out, "NEW RISKS: 0\n")
	assert.Contains(t, out, "UNCHANGED RISKS: 0\n")
	assert.NotContains(t, out, "Listing top")
}
