package report

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/user/scanmerge/pkg/engine"
	"github.com/user/scanmerge/pkg/llm"
)

type stubProvider struct {
	text  string
	err   error
	block bool
	calls int
	last  llm.Request
}

func (s *stubProvider) Generate(ctx context.Context, req llm.Request) (string, error) {
	s.calls++
	s.last = req
	if s.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return s.text, s.err
}

func (s *stubProvider) ListModels(ctx context.Context) ([]string, error) {
	return nil, nil
}

func TestSummaryReporter(t *testing.T) {
	tax := engine.DefaultTaxonomy()
	findings := sampleFindings()
	fallback := RenderFallback(tax, findings)

	t.Run("should return the model text verbatim", func(t *testing.T) {
		stub := &stubProvider{text: "# Merged\n\n- done"}
		r := NewSummaryReporter(stub, "llama3.1", time.Second, tax, nil)

		assert.Equal(t, "# Merged\n\n- done", r.Report(context.Background(), findings))
		assert.Equal(t, 1, stub.calls)
		assert.Equal(t, "llama3.1", stub.last.Model)
		assert.Equal(t, BuildPrompt(findings), stub.last.Prompt)
	})

	t.Run("should fall back with the failure reason", func(t *testing.T) {
		core, logs := observer.New(zapcore.WarnLevel)
		stub := &stubProvider{err: errors.New("connection refused")}
		r := NewSummaryReporter(stub, "", time.Second, tax, zap.New(core))

		out := r.Report(context.Background(), findings)
		assert.Equal(t, "# Consolidated Security Report\n\nLLM call failed: connection refused\n\n"+fallback, out)
		assert.Equal(t, 1, stub.calls)
		assert.Equal(t, 1, logs.FilterMessage("Summarization failed, using fallback report").Len())
	})

	t.Run("should treat an empty answer as a failure", func(t *testing.T) {
		r := NewSummaryReporter(&stubProvider{}, "", time.Second, tax, nil)
		out := r.Report(context.Background(), findings)
		assert.True(t, strings.HasPrefix(out, "# Consolidated Security Report\n\nLLM call failed: "+llm.ErrEmptyResponse.Error()))
		assert.True(t, strings.HasSuffix(out, fallback))
	})

	t.Run("should treat a whitespace-only answer as a failure", func(t *testing.T) {
		r := NewSummaryReporter(&stubProvider{text: "  \n "}, "", time.Second, tax, nil)
		out := r.Report(context.Background(), findings)
		assert.Equal(t, FailureNotice(llm.ErrEmptyResponse)+fallback, out)
	})

	t.Run("should give up after the timeout", func(t *testing.T) {
		stub := &stubProvider{block: true}
		r := NewSummaryReporter(stub, "", 20*time.Millisecond, tax, nil)

		start := time.Now()
		out := r.Report(context.Background(), findings)
		assert.Less(t, time.Since(start), 5*time.Second)
		assert.Contains(t, out, context.DeadlineExceeded.Error())
		assert.True(t, strings.HasSuffix(out, fallback))
	})

	t.Run("should surface an unavailable provider", func(t *testing.T) {
		r := NewSummaryReporter(llm.Unavailable{Err: errors.New("no API key configured for gemini")}, "", time.Second, tax, nil)
		out := r.Report(context.Background(), findings)
		assert.Contains(t, out, "LLM call failed: no API key configured for gemini\n\n")
	})
}

func TestFallbackReporter(t *testing.T) {
	tax := engine.DefaultTaxonomy()
	r := FallbackReporter{Taxonomy: tax}
	assert.Equal(t, RenderFallback(tax, sampleFindings()), r.Report(context.Background(), sampleFindings()))
}

func TestFailureNotice(t *testing.T) {
	require.Equal(t, "# Consolidated Security Report\n\nLLM call failed: a b\n\n", FailureNotice(errors.New("a\nb")))
}
