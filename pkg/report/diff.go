package report

import (
	"fmt"
	"strings"

	"github.com/user/scanmerge/pkg/engine"
)

const maxUnchangedLines = 10

// RenderDiff formats a baseline comparison as plain text.
func RenderDiff(baselinePath string, diff engine.SnapshotDiff) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Snapshot Comparison (vs %s):\n", baselinePath))
	sb.WriteString("--------------------------------------------------\n")

	sb.WriteString(fmt.Sprintf("NEW RISKS: %d\n", len(diff.New)))
	for _, f := range diff.New {
		sb.WriteString(diffLine("+", f))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("FIXED RISKS: %d\n", len(diff.Fixed)))
	for _, f := range diff.Fixed {
		sb.WriteString(diffLine("-", f))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("UNCHANGED RISKS: %d\n", len(diff.Unchanged)))
	if len(diff.Unchanged) > 0 {
		sb.WriteString(fmt.Sprintf("  (Listing top %d unchanged)\n", maxUnchangedLines))
		for i, f := range diff.Unchanged {
			if i == maxUnchangedLines {
				sb.WriteString(fmt.Sprintf("  ... and %d more.\n", len(diff.Unchanged)-maxUnchangedLines))
				break
			}
			sb.WriteString(diffLine("=", f))
		}
	}
	return sb.String()
}

func diffLine(mark string, f engine.Finding) string {
	line := fmt.Sprintf("  [%s] [%s] %s (%s)", mark, f.Severity, f.Title, f.Source)
	if f.Resource != "" {
		line += " - " + f.Resource
	}
	return line + "\n"
}
