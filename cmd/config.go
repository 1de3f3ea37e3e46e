package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/user/scanmerge/pkg/config"
	"github.com/user/scanmerge/pkg/llm"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration (providers, models, keys)",
}

// loadConfigFile reads the persisted configuration without environment or
// flag overrides, so that saving it back does not capture them.
func loadConfigFile() (string, *config.Config, error) {
	path, err := configPath()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return "", nil, fmt.Errorf("error loading config: %w", err)
	}
	return path, cfg, nil
}

var setKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Manually set API key for a provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		key, _ := cmd.Flags().GetString("key")
		provider = strings.ToLower(provider)

		if provider == "" || key == "" {
			return fmt.Errorf("--provider and --key are required")
		}
		if !config.IsKnownProvider(provider) {
			return fmt.Errorf("%w: %s", config.ErrUnknownProvider, provider)
		}

		path, cfg, err := loadConfigFile()
		if err != nil {
			return err
		}
		cfg.SetAPIKey(provider, key)
		if err := config.SaveConfig(path, cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "API key saved for provider: %s\n", provider)
		return nil
	},
}

var setModelCmd = &cobra.Command{
	Use:   "set-model",
	Short: "Manually set the active provider and model",
	RunE: func(cmd *cobra.Command, args []string) error {
		provider, _ := cmd.Flags().GetString("provider")
		model, _ := cmd.Flags().GetString("model")

		path, cfg, err := loadConfigFile()
		if err != nil {
			return err
		}
		if provider != "" {
			cfg.SelectedProvider = strings.ToLower(provider)
		}
		if model != "" {
			cfg.SelectedModel = model
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := config.SaveConfig(path, cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Active configuration updated: Provider=%s, Model=%s\n", cfg.SelectedProvider, cfg.SelectedModel)
		return nil
	},
}

var listModelsCmd = &cobra.Command{
	Use:   "list-models",
	Short: "List available models from the configured provider",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), nil)
		if err != nil {
			return err
		}
		if cfg.SelectedProvider == config.ProviderNone {
			return fmt.Errorf("no provider selected, run 'scanmerge config setup'")
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Fetching models for %s...\n", cfg.SelectedProvider)
		ctx := cmd.Context()
		p, err := llm.NewProvider(ctx, llm.SettingsFor(cfg))
		if err != nil {
			return fmt.Errorf("error initializing provider: %w", err)
		}
		defer llm.Close(p)

		models, err := p.ListModels(ctx)
		if err != nil {
			return fmt.Errorf("error fetching models: %w", err)
		}

		fmt.Fprintf(out, "\nAvailable Models (%s):\n", cfg.SelectedProvider)
		for _, m := range models {
			mark := " "
			if m == cfg.SelectedModel {
				mark = "*"
			}
			fmt.Fprintf(out, "%s %s\n", mark, m)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration with API keys masked",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig(cmd.Flags(), nil)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(cfg.Redacted())
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	setKeyCmd.Flags().StringP("provider", "p", "", "Provider (gemini, openai, anthropic)")
	setKeyCmd.Flags().StringP("key", "k", "", "API Key")

	setModelCmd.Flags().StringP("provider", "p", "", "Provider (none, ollama, gemini, openai, anthropic)")
	setModelCmd.Flags().StringP("model", "m", "", "Model name")

	configCmd.AddCommand(setKeyCmd)
	configCmd.AddCommand(setModelCmd)
	configCmd.AddCommand(listModelsCmd)
	configCmd.AddCommand(showCmd)
	rootCmd.AddCommand(configCmd)
}
