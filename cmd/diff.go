package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/scanmerge/pkg/config"
	"github.com/user/scanmerge/pkg/engine"
	"github.com/user/scanmerge/pkg/observability"
	"github.com/user/scanmerge/pkg/pipeline"
	"github.com/user/scanmerge/pkg/report"
)

var diffCmd = &cobra.Command{
	Use:   "diff <baseline.json> [current.json]",
	Short: "Compare merged findings against a baseline run",
	Long: `Compare two extracted_findings.json artifacts and list NEW, FIXED and
UNCHANGED findings. When current.json is omitted the findings file in the
configured output directory is used.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), map[string]string{"output-dir": "merge.output_dir"})
		if err != nil {
			return err
		}

		baselinePath := args[0]
		currentPath := filepath.Join(cfg.Merge.OutputDir, pipeline.FindingsFile)
		if len(args) == 2 {
			currentPath = args[1]
		}

		baseline, err := engine.LoadFindings(baselinePath)
		if err != nil {
			return fmt.Errorf("error loading baseline: %w", err)
		}
		current, err := engine.LoadFindings(currentPath)
		if err != nil {
			return fmt.Errorf("error loading current findings: %w", err)
		}

		diff := engine.CompareSnapshot(current, baseline)
		observability.GetLogger().Debug("Compared snapshots",
			zap.Int("new", len(diff.New)),
			zap.Int("fixed", len(diff.Fixed)),
			zap.Int("unchanged", len(diff.Unchanged)),
		)
		fmt.Fprint(cmd.OutOrStdout(), report.RenderDiff(baselinePath, diff))
		return nil
	},
}

func init() {
	diffCmd.Flags().String("output-dir", config.Default().Merge.OutputDir, "Output directory holding the current findings")
	rootCmd.AddCommand(diffCmd)
}
