package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/scanmerge/pkg/engine"
	"github.com/user/scanmerge/pkg/ingest"
	"github.com/user/scanmerge/pkg/report"
)

// Artifact names written into the output directory.
const (
	FindingsFile = "extracted_findings.json"
	ReportFile   = "consolidated_security_report.md"
	SARIFFile    = "consolidated_findings.sarif"
)

type Options struct {
	InputDir   string
	OutputDir  string
	Extensions []string
	Workers    int
	MaxDepth   int
	SARIF      bool
}

// Result summarizes one run.
type Result struct {
	RunID        string
	Documents    int // recognized input files
	Skipped      int // documents that failed to load
	Candidates   int // findings before deduplication
	Findings     int // findings after deduplication
	FindingsPath string
	ReportPath   string
	SARIFPath    string
}

// Pipeline merges every scanner export in a directory into one findings
// artifact and one markdown report.
type Pipeline struct {
	opts     Options
	taxonomy engine.Taxonomy
	reporter report.Reporter
	logger   *zap.Logger
}

func New(opts Options, tax engine.Taxonomy, reporter report.Reporter, logger *zap.Logger) *Pipeline {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}
	if len(opts.Extensions) == 0 {
		opts.Extensions = []string{".json"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{opts: opts, taxonomy: tax, reporter: reporter, logger: logger}
}

// Run executes one merge. Only an unusable output directory or an
// unreadable input directory are returned as errors.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{
		RunID:        uuid.NewString(),
		FindingsPath: filepath.Join(p.opts.OutputDir, FindingsFile),
		ReportPath:   filepath.Join(p.opts.OutputDir, ReportFile),
	}
	log := p.logger.With(zap.String("run_id", res.RunID))

	if err := os.MkdirAll(p.opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", p.opts.OutputDir, err)
	}

	docs, err := ingest.NewLoader(p.opts.Extensions, p.opts.Workers, log).Load(ctx, p.opts.InputDir)
	if err != nil {
		return nil, err
	}
	res.Documents = len(docs)
	log.Info("Loaded input documents", zap.String("input_dir", p.opts.InputDir), zap.Int("documents", len(docs)))

	candidates, err := p.extract(ctx, docs, log)
	if err != nil {
		return nil, err
	}
	for _, d := range docs {
		if d.Err != nil {
			res.Skipped++
		}
	}
	res.Candidates = len(candidates)

	findings := engine.Dedupe(candidates)
	res.Findings = len(findings)
	log.Info("Deduplicated findings", zap.Int("candidates", len(candidates)), zap.Int("findings", len(findings)))

	if err := engine.SaveFindings(res.FindingsPath, findings); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", res.FindingsPath, err)
	}

	md := p.reporter.Report(ctx, findings)
	if err := os.WriteFile(res.ReportPath, []byte(md), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", res.ReportPath, err)
	}

	if p.opts.SARIF {
		res.SARIFPath = filepath.Join(p.opts.OutputDir, SARIFFile)
		data, err := report.ToSARIF(findings)
		if err != nil {
			return nil, fmt.Errorf("failed to encode SARIF: %w", err)
		}
		if err := os.WriteFile(res.SARIFPath, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", res.SARIFPath, err)
		}
	}

	log.Info("Merge complete", zap.String("report", res.ReportPath), zap.String("findings_file", res.FindingsPath))
	return res, nil
}

// extract runs the extractor over every loaded document in parallel and
// concatenates the per-document batches in enumeration order.
func (p *Pipeline) extract(ctx context.Context, docs []ingest.Document, log *zap.Logger) ([]engine.Finding, error) {
	extractor := engine.NewExtractor(p.taxonomy).WithMaxDepth(p.opts.MaxDepth)
	batches := make([][]engine.Finding, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Workers)
	for i, doc := range docs {
		i, doc := i, doc
		if doc.Err != nil {
			log.Warn("Skipping unreadable document", zap.String("document", doc.Path), zap.Error(doc.Err))
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			batches[i] = extractor.Extract(doc.ID, doc.Root)
			log.Debug("Extracted findings", zap.String("document", doc.ID), zap.Int("findings", len(batches[i])))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []engine.Finding
	for _, batch := range batches {
		all = append(all, batch...)
	}
	return all, nil
}
