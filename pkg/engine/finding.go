package engine

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxResourceLen    = 500
)

// Finding represents a normalized security finding from any tool
type Finding struct {
	Source      string   `json:"source"` // document the finding came from
	Title       string   `json:"title"`
	Severity    Severity `json:"severity"`
	Description string   `json:"description"`
	Resource    string   `json:"resource"` // host / file / path / target
	CVE         Value    `json:"cve"`      // as reported, never normalized
}

// DedupKey identifies findings that describe the same issue on the same resource.
type DedupKey struct {
	Title    string
	Resource string
	Severity Severity
}

// Key derives the deduplication key of f.
func (f Finding) Key() DedupKey {
	return DedupKey{
		Title:    strings.ToLower(f.Title),
		Resource: strings.ToLower(f.Resource),
		Severity: f.Severity,
	}
}

// truncate cuts s to at most n characters.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
