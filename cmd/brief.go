package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/scanmerge/pkg/brief"
	"github.com/user/scanmerge/pkg/llm"
)

var briefCmd = &cobra.Command{
	Use:   "brief <evidence.json> <template.md>",
	Short: "Write an evidence-only report following a markdown template",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), map[string]string{
			"llm":   "selected_provider",
			"model": "selected_model",
		})
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		provider, err := llm.NewProvider(ctx, llm.SettingsFor(cfg))
		if err != nil {
			return fmt.Errorf("error creating AI provider: %w", err)
		}
		defer llm.Close(provider)

		out, err := brief.Run(ctx, provider, cfg.SelectedModel, args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	briefCmd.Flags().String("llm", "", "Provider: ollama, gemini, openai, anthropic (default from config)")
	briefCmd.Flags().StringP("model", "m", "", "Model name (default from config)")
	rootCmd.AddCommand(briefCmd)
}
