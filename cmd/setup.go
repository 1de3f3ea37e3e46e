package cmd

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/scanmerge/pkg/config"
	"github.com/user/scanmerge/pkg/llm"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	RunE: func(cmd *cobra.Command, args []string) error {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		out := cmd.OutOrStdout()
		read := func() string {
			scanner.Scan()
			return strings.TrimSpace(scanner.Text())
		}

		fmt.Fprintln(out, "Welcome to scanmerge Setup Wizard")
		fmt.Fprintln(out, "---------------------------------")

		// 1. Select Provider
		fmt.Fprintln(out, "Step 1: Choose the summarization provider")
		fmt.Fprintln(out, "0. None (deterministic report only)")
		fmt.Fprintln(out, "1. Ollama (local)")
		fmt.Fprintln(out, "2. Gemini (Google)")
		fmt.Fprintln(out, "3. OpenAI")
		fmt.Fprintln(out, "4. Anthropic")
		fmt.Fprint(out, "Enter number or name > ")

		var provider string
		switch choice := strings.ToLower(read()); choice {
		case "0", config.ProviderNone:
			provider = config.ProviderNone
		case "1", config.ProviderOllama:
			provider = config.ProviderOllama
		case "2", config.ProviderGemini:
			provider = config.ProviderGemini
		case "3", config.ProviderOpenAI:
			provider = config.ProviderOpenAI
		case "4", config.ProviderAnthropic:
			provider = config.ProviderAnthropic
		default:
			return fmt.Errorf("invalid choice %q", choice)
		}

		path, cfg, err := loadConfigFile()
		if err != nil {
			return err
		}
		settings := llm.Settings{Name: provider}

		// 2. Credentials or endpoint
		switch provider {
		case config.ProviderNone:
		case config.ProviderOllama:
			fmt.Fprintf(out, "\nStep 2: Ollama generate endpoint (empty for %s)\n> ", llm.DefaultOllamaEndpoint)
			settings.Endpoint = read()
			if settings.Endpoint == "" {
				settings.Endpoint = llm.DefaultOllamaEndpoint
			}
		default:
			fmt.Fprintf(out, "\nStep 2: Enter API Key for %s\n> ", provider)
			settings.APIKey = read()
			if settings.APIKey == "" {
				return fmt.Errorf("API key cannot be empty")
			}
		}

		// 3. Fetch Models
		var selectedModel string
		if provider != config.ProviderNone {
			fmt.Fprintln(out, "\nStep 3: Validating settings and fetching available models...")
			ctx := cmd.Context()
			tempProvider, err := llm.NewProvider(ctx, settings)
			if err != nil {
				return fmt.Errorf("error initializing provider: %w", err)
			}
			models, err := tempProvider.ListModels(ctx)
			llm.Close(tempProvider)

			if err != nil || len(models) == 0 {
				if err != nil {
					fmt.Fprintf(out, "Warning: Could not fetch models: %v\n", err)
				}
				fmt.Fprintln(out, "Please enter model name manually (e.g., 'llama3.1', 'gpt-4'):")
				fmt.Fprint(out, "> ")
				selectedModel = read()
			} else {
				fmt.Fprintf(out, "Successfully retrieved %d models.\n", len(models))
				for i, m := range models {
					fmt.Fprintf(out, "%d. %s\n", i+1, m)
				}
				fmt.Fprint(out, "Select Model (number) > ")
				selIdx, err := strconv.Atoi(read())
				if err != nil || selIdx < 1 || selIdx > len(models) {
					fmt.Fprintln(out, "Invalid selection. Using first available model.")
					selectedModel = models[0]
				} else {
					selectedModel = models[selIdx-1]
				}
			}
		}

		// 4. Save Configuration
		fmt.Fprintln(out, "\nStep 4: Saving Configuration...")
		cfg.SelectedProvider = provider
		cfg.SelectedModel = selectedModel
		if settings.APIKey != "" {
			cfg.SetAPIKey(provider, settings.APIKey)
		}
		if settings.Endpoint != "" {
			p := cfg.Providers[provider]
			p.Endpoint = settings.Endpoint
			cfg.Providers[provider] = p
		}
		if err := config.SaveConfig(path, cfg); err != nil {
			return fmt.Errorf("error saving config: %w", err)
		}

		fmt.Fprintln(out, "---------------------------------")
		fmt.Fprintln(out, "Setup Complete!")
		fmt.Fprintf(out, "Provider: %s\n", provider)
		fmt.Fprintf(out, "Model:    %s\n", selectedModel)
		fmt.Fprintln(out, "You can now run 'scanmerge merge'")
		return nil
	},
}

func init() {
	configCmd.AddCommand(setupCmd)
}
