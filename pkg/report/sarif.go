package report

import (
	"encoding/json"

	"github.com/user/scanmerge/pkg/engine"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}
type sarifDriver struct {
	Name string `json:"name"`
}

type sarifResult struct {
	RuleID     string          `json:"ruleId"`
	Level      string          `json:"level"`
	Message    sarifMessage    `json:"message"`
	Locations  []sarifLoc      `json:"locations,omitempty"`
	Properties sarifProperties `json:"properties"`
}

type sarifMessage struct {
	Text string `json:"text"`
}
type sarifLoc struct {
	Physical sarifPhys `json:"physicalLocation"`
}
type sarifPhys struct {
	ArtifactLocation sarifArt `json:"artifactLocation"`
}
type sarifArt struct {
	URI string `json:"uri"`
}

type sarifProperties struct {
	Source   string          `json:"source"`
	Severity engine.Severity `json:"severity"`
}

// SARIFLevel maps a canonical severity onto a SARIF result level.
func SARIFLevel(sev engine.Severity) string {
	switch sev {
	case engine.SeverityCritical, engine.SeverityHigh:
		return "error"
	case engine.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// ToSARIF renders findings as a single SARIF 2.1.0 run. The as-reported
// severity and the source tool are kept in the result properties.
func ToSARIF(findings []engine.Finding) ([]byte, error) {
	results := make([]sarifResult, 0, len(findings))
	for _, f := range findings {
		msg := f.Title
		if f.Description != "" {
			msg = f.Description
		}
		r := sarifResult{
			RuleID:     f.Title,
			Level:      SARIFLevel(f.Severity),
			Message:    sarifMessage{Text: msg},
			Properties: sarifProperties{Source: f.Source, Severity: f.Severity},
		}
		if f.Resource != "" {
			r.Locations = []sarifLoc{{Physical: sarifPhys{ArtifactLocation: sarifArt{URI: f.Resource}}}}
		}
		results = append(results, r)
	}
	s := sarif{
		Schema:  sarifSchema,
		Version: "2.1.0",
		Runs:    []sarifRun{{Tool: sarifTool{Driver: sarifDriver{Name: "scanmerge"}}, Results: results}},
	}
	return json.MarshalIndent(s, "", "  ")
}
