package report

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/user/scanmerge/pkg/engine"
	"github.com/user/scanmerge/pkg/llm"
)

// DefaultTimeout bounds the single summarization call.
const DefaultTimeout = 120 * time.Second

// Reporter turns the deduplicated findings into the markdown report.
type Reporter interface {
	Report(ctx context.Context, findings []engine.Finding) string
}

// FallbackReporter always renders the deterministic report.
type FallbackReporter struct {
	Taxonomy engine.Taxonomy
}

func (r FallbackReporter) Report(ctx context.Context, findings []engine.Finding) string {
	return RenderFallback(r.Taxonomy, findings)
}

// SummaryReporter asks a model for the report once and degrades to the
// fallback report, prefixed with the failure reason, on any error.
type SummaryReporter struct {
	provider llm.Provider
	model    string
	timeout  time.Duration
	taxonomy engine.Taxonomy
	logger   *zap.Logger
}

func NewSummaryReporter(provider llm.Provider, model string, timeout time.Duration, tax engine.Taxonomy, logger *zap.Logger) *SummaryReporter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryReporter{
		provider: provider,
		model:    model,
		timeout:  timeout,
		taxonomy: tax,
		logger:   logger,
	}
}

func (r *SummaryReporter) Report(ctx context.Context, findings []engine.Finding) string {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	start := time.Now()
	text, err := r.provider.Generate(ctx, llm.Request{
		Model:  r.model,
		Prompt: BuildPrompt(findings),
	})
	if err == nil && strings.TrimSpace(text) == "" {
		err = llm.ErrEmptyResponse
	}
	if err != nil {
		r.logger.Warn("Summarization failed, using fallback report",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)),
		)
		return FailureNotice(err) + RenderFallback(r.taxonomy, findings)
	}

	r.logger.Debug("Summarization succeeded", zap.Duration("elapsed", time.Since(start)), zap.Int("chars", len(text)))
	return text
}

// FailureNotice is the header placed above the fallback report when the
// model call failed.
func FailureNotice(err error) string {
	reason := strings.ReplaceAll(err.Error(), "\n", " ")
	return "# Consolidated Security Report\n\nLLM call failed: " + reason + "\n\n"
}
