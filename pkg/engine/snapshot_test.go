package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadFindings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extracted_findings.json")
	findings := []Finding{
		{
			Source:      "trivy",
			Title:       "Outdated <openssl>",
			Severity:    SeverityCritical,
			Description: "x & y",
			Resource:    "img:1",
			CVE:         Sequence(String("CVE-2024-1"), String("CVE-2024-2")),
		},
	}
	require.NoError(t, SaveFindings(path, findings))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	// Stable field order and no HTML escaping.
	order := []string{`"source"`, `"title"`, `"severity"`, `"description"`, `"resource"`, `"cve"`}
	last := -1
	for _, key := range order {
		idx := strings.Index(text, key)
		require.Greater(t, idx, last, "field %s out of order", key)
		last = idx
	}
	assert.Contains(t, text, `"Outdated <openssl>"`)
	assert.False(t, strings.HasSuffix(text, "\n"))

	loaded, err := LoadFindings(path)
	require.NoError(t, err)
	assert.Equal(t, findings, loaded)
}

func TestMarshalEmptyFindings(t *testing.T) {
	data, err := MarshalFindings(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestCompareSnapshot(t *testing.T) {
	baseline := []Finding{
		{Source: "nmap", Title: "Open SSH", Resource: "10.0.0.1", Severity: SeverityMedium}, // unchanged
		{Source: "nmap", Title: "Open FTP", Resource: "10.0.0.1", Severity: SeverityHigh},   // fixed
	}
	current := []Finding{
		{Source: "scan2", Title: "open ssh", Resource: "10.0.0.1", Severity: SeverityMedium},
		{Source: "scan2", Title: "Weak TLS", Resource: "10.0.0.2", Severity: SeverityLow}, // new
	}

	diff := CompareSnapshot(current, baseline)

	require.Len(t, diff.Unchanged, 1)
	assert.Equal(t, "scan2", diff.Unchanged[0].Source)
	require.Len(t, diff.New, 1)
	assert.Equal(t, "Weak TLS", diff.New[0].Title)
	require.Len(t, diff.Fixed, 1)
	assert.Equal(t, "Open FTP", diff.Fixed[0].Title)
}
