package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/scanmerge/pkg/engine"
)

func promptItems(t *testing.T, prompt string) []map[string]interface{} {
	t.Helper()
	idx := strings.Index(prompt, "INPUT_FINDINGS_JSON:\n")
	require.GreaterOrEqual(t, idx, 0)
	var items []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(prompt[idx+len("INPUT_FINDINGS_JSON:\n"):]), &items))
	return items
}

func TestBuildPrompt(t *testing.T) {
	t.Run("should start with the rules and list the seven sections", func(t *testing.T) {
		prompt := BuildPrompt(sampleFindings())
		assert.True(t, strings.HasPrefix(prompt, "You are a security report MERGER."))
		for _, section := range []string{
			"1) Executive Summary",
			"2) Findings by Source Tool",
			"3) Findings by Severity (as-reported)",
			"4) Findings by Category",
			"5) Suspected Duplicates",
			"6) Analyst Next Actions checklist",
			"7) Appendix: Evidence counts per tool",
		} {
			assert.Contains(t, prompt, section)
		}
		assert.Contains(t, prompt, `say "Unknown".`+"\n\nINPUT_FINDINGS_JSON:\n[")
	})

	t.Run("should project exactly five fields and never send cve", func(t *testing.T) {
		findings := []engine.Finding{{
			Source:      "grype",
			Title:       "openssl <3.0.7",
			Severity:    engine.SeverityCritical,
			Resource:    "alpine:3.16",
			Description: "buffer overflow",
			CVE:         engine.String("CVE-2022-3602"),
		}}
		prompt := BuildPrompt(findings)
		assert.NotContains(t, prompt, "CVE-2022-3602")
		assert.Contains(t, prompt, "openssl <3.0.7")

		items := promptItems(t, prompt)
		require.Len(t, items, 1)
		assert.Equal(t, map[string]interface{}{
			"source":      "grype",
			"severity":    "CRITICAL",
			"title":       "openssl <3.0.7",
			"resource":    "alpine:3.16",
			"description": "buffer overflow",
		}, items[0])
	})

	t.Run("should cap the number of findings", func(t *testing.T) {
		var findings []engine.Finding
		for i := 0; i < MaxPromptFindings+25; i++ {
			findings = append(findings, engine.Finding{Source: "s", Title: fmt.Sprintf("t%d", i), Severity: engine.SeverityInfo})
		}
		items := promptItems(t, BuildPrompt(findings))
		require.Len(t, items, MaxPromptFindings)
		assert.Equal(t, "t0", items[0]["title"])
		assert.Equal(t, fmt.Sprintf("t%d", MaxPromptFindings-1), items[MaxPromptFindings-1]["title"])
	})

	t.Run("should send an empty array for no findings", func(t *testing.T) {
		assert.True(t, strings.HasSuffix(BuildPrompt(nil), "INPUT_FINDINGS_JSON:\n[]"))
	})
}
