package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/scanmerge/pkg/config"
	"github.com/user/scanmerge/pkg/engine"
	"github.com/user/scanmerge/pkg/llm"
	"github.com/user/scanmerge/pkg/observability"
	"github.com/user/scanmerge/pkg/pipeline"
	"github.com/user/scanmerge/pkg/report"
)

var mergeFlagKeys = map[string]string{
	"input-dir":  "merge.input_dir",
	"output-dir": "merge.output_dir",
	"llm":        "selected_provider",
	"ollama-url": "providers.ollama.endpoint",
	"model":      "selected_model",
	"timeout":    "summarizer.timeout",
	"workers":    "merge.workers",
	"max-depth":  "merge.max_depth",
	"sarif":      "merge.sarif",
}

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge every scanner export in a directory into one report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), mergeFlagKeys)
		if err != nil {
			return err
		}
		logger := observability.GetLogger()
		ctx := cmd.Context()
		tax := engine.DefaultTaxonomy()

		var reporter report.Reporter
		if cfg.SelectedProvider == config.ProviderNone {
			reporter = report.FallbackReporter{Taxonomy: tax}
		} else {
			provider, err := llm.NewProvider(ctx, llm.SettingsFor(cfg))
			if err != nil {
				logger.Warn("Summarization provider unavailable", zap.String("provider", cfg.SelectedProvider), zap.Error(err))
				provider = llm.Unavailable{Err: err}
			}
			defer llm.Close(provider)
			reporter = report.NewSummaryReporter(provider, cfg.SelectedModel, cfg.Summarizer.Timeout, tax, logger)
		}

		p := pipeline.New(pipeline.Options{
			InputDir:   cfg.Merge.InputDir,
			OutputDir:  cfg.Merge.OutputDir,
			Extensions: cfg.Merge.Extensions,
			Workers:    cfg.Merge.Workers,
			MaxDepth:   cfg.Merge.MaxDepth,
			SARIF:      cfg.Merge.SARIF,
		}, tax, reporter, logger)

		res, err := p.Run(ctx)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Wrote: %s\n", res.ReportPath)
		fmt.Fprintf(out, "Wrote: %s\n", res.FindingsPath)
		if res.SARIFPath != "" {
			fmt.Fprintf(out, "Wrote: %s\n", res.SARIFPath)
		}
		return nil
	},
}

func init() {
	d := config.Default()
	mergeCmd.Flags().String("input-dir", d.Merge.InputDir, "Directory of scanner JSON exports")
	mergeCmd.Flags().String("output-dir", d.Merge.OutputDir, "Directory for the merged artifacts")
	mergeCmd.Flags().String("llm", d.SelectedProvider, "Summarizer: none, ollama, gemini, openai, anthropic")
	mergeCmd.Flags().String("ollama-url", llm.DefaultOllamaEndpoint, "Ollama generate endpoint")
	mergeCmd.Flags().StringP("model", "m", llm.DefaultOllamaModel, "Model name for the summarizer")
	mergeCmd.Flags().Duration("timeout", d.Summarizer.Timeout, "Timeout for the summarization call")
	mergeCmd.Flags().Int("workers", d.Merge.Workers, "Documents parsed in parallel")
	mergeCmd.Flags().Int("max-depth", d.Merge.MaxDepth, "Maximum nesting depth searched for findings")
	mergeCmd.Flags().Bool("sarif", false, "Also write a SARIF 2.1.0 file")
	rootCmd.AddCommand(mergeCmd)
}
