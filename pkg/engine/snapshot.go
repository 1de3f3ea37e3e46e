package engine

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// SaveFindings writes findings as an indented JSON array. An empty set is
// written as [] so the artifact always parses back as a list.
func SaveFindings(path string, findings []Finding) error {
	data, err := MarshalFindings(findings)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// MarshalFindings renders the canonical findings artifact.
func MarshalFindings(findings []Finding) ([]byte, error) {
	if findings == nil {
		findings = []Finding{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(findings); err != nil {
		return nil, fmt.Errorf("failed to encode findings: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// LoadFindings reads an artifact written by SaveFindings.
func LoadFindings(path string) ([]Finding, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var findings []Finding
	if err := json.Unmarshal(data, &findings); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return findings, nil
}

// SnapshotDiff classifies findings of two runs by DedupKey.
type SnapshotDiff struct {
	New       []Finding // in current, not in baseline
	Fixed     []Finding // in baseline, not in current
	Unchanged []Finding // in both; the current run's copy
}

// CompareSnapshot compares the current run against a baseline run.
func CompareSnapshot(current, baseline []Finding) SnapshotDiff {
	inBaseline := make(map[DedupKey]struct{}, len(baseline))
	for _, f := range baseline {
		inBaseline[f.Key()] = struct{}{}
	}
	inCurrent := make(map[DedupKey]struct{}, len(current))

	var diff SnapshotDiff
	for _, f := range current {
		key := f.Key()
		if _, dup := inCurrent[key]; dup {
			continue
		}
		inCurrent[key] = struct{}{}
		if _, ok := inBaseline[key]; ok {
			diff.Unchanged = append(diff.Unchanged, f)
		} else {
			diff.New = append(diff.New, f)
		}
	}
	for _, f := range Dedupe(baseline) {
		if _, ok := inCurrent[f.Key()]; !ok {
			diff.Fixed = append(diff.Fixed, f)
		}
	}
	return diff
}
