package report

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/user/scanmerge/pkg/engine"
)

// MaxPromptFindings caps how many findings are sent to the model.
const MaxPromptFindings = 400

//go:embed prompts/rules.md
var rulesPrompt string

//go:embed prompts/request.md
var requestPrompt string

// promptItem is the projection of a Finding the model is allowed to see.
// The CVE passthrough is never sent.
type promptItem struct {
	Source      string          `json:"source"`
	Severity    engine.Severity `json:"severity"`
	Title       string          `json:"title"`
	Resource    string          `json:"resource"`
	Description string          `json:"description"`
}

// BuildPrompt renders the summarization request for the first
// MaxPromptFindings findings.
func BuildPrompt(findings []engine.Finding) string {
	if len(findings) > MaxPromptFindings {
		findings = findings[:MaxPromptFindings]
	}
	items := make([]promptItem, 0, len(findings))
	for _, f := range findings {
		items = append(items, promptItem{
			Source:      f.Source,
			Severity:    f.Severity,
			Title:       f.Title,
			Resource:    f.Resource,
			Description: f.Description,
		})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	// Encoding plain strings cannot fail.
	_ = enc.Encode(items)

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(rulesPrompt))
	sb.WriteString("\n\n")
	sb.WriteString(strings.TrimSpace(requestPrompt))
	sb.WriteString("\n\nINPUT_FINDINGS_JSON:\n")
	sb.WriteString(strings.TrimSuffix(buf.String(), "\n"))
	return sb.String()
}
