// Package brief turns a captured evidence bundle into a report that follows
// a caller-supplied markdown template.
package brief

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/template"

	"github.com/user/scanmerge/pkg/engine"
	"github.com/user/scanmerge/pkg/llm"
)

const SystemInstruction = "You are an SRE. Use only evidence. If unknown, say Unknown. Do not leak secrets."

const (
	MaxTokens   = 2000
	Temperature = 0.2
)

var promptTemplate = template.Must(template.New("brief").Parse(
	"Output MUST follow this template headings exactly:\n{{.Template}}\n\nEVIDENCE JSON:\n{{.Evidence}}"))

// Request builds the model request for an evidence bundle and template.
func Request(model string, evidence engine.Value, tmpl string) (llm.Request, error) {
	raw, err := evidence.MarshalJSON()
	if err != nil {
		return llm.Request{}, fmt.Errorf("failed to encode evidence: %w", err)
	}
	var indented bytes.Buffer
	if err := json.Indent(&indented, raw, "", "  "); err != nil {
		return llm.Request{}, fmt.Errorf("failed to indent evidence: %w", err)
	}

	var buf bytes.Buffer
	err = promptTemplate.Execute(&buf, struct {
		Template string
		Evidence string
	}{tmpl, indented.String()})
	if err != nil {
		return llm.Request{}, fmt.Errorf("failed to execute template brief: %w", err)
	}

	return llm.Request{
		Model:       model,
		System:      SystemInstruction,
		Prompt:      buf.String(),
		MaxTokens:   MaxTokens,
		Temperature: Temperature,
	}, nil
}

// Run reads the evidence and template files and asks the provider for the
// report. Unlike a merge, any failure here is returned to the caller.
func Run(ctx context.Context, provider llm.Provider, model, evidencePath, templatePath string) (string, error) {
	f, err := os.Open(evidencePath)
	if err != nil {
		return "", fmt.Errorf("failed to open evidence: %w", err)
	}
	defer f.Close()

	evidence, err := engine.Decode(f)
	if err != nil {
		return "", fmt.Errorf("failed to parse evidence %s: %w", evidencePath, err)
	}

	tmpl, err := os.ReadFile(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to read template: %w", err)
	}

	req, err := Request(model, evidence, string(tmpl))
	if err != nil {
		return "", err
	}
	return provider.Generate(ctx, req)
}
