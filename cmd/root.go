package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/user/scanmerge/pkg/config"
	"github.com/user/scanmerge/pkg/observability"
)

var rootCmd = &cobra.Command{
	Use:   "scanmerge",
	Short: "Merge security scanner exports into one consolidated report",
	Long: `scanmerge reads the JSON exports of heterogeneous security scanners, extracts
every finding-shaped record, normalizes severities, removes duplicates and
writes a consolidated findings file plus a markdown report, optionally
summarized by an LLM.`,
	SilenceUsage: true,
}

var (
	cfgFile   string
	DebugMode bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&DebugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.scanmerge/config.yaml)")
}

// configPath returns --config or the per-user default location.
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	return config.GetConfigPath()
}

// resolveConfig layers defaults, the config file, SCANMERGE_* environment
// variables and the given command flags (flag name -> config key), then
// initializes the global logger from the result.
func resolveConfig(flags *pflag.FlagSet, bindings map[string]string) (*config.Config, error) {
	v := viper.New()
	config.SetDefaults(v)
	config.BindEnv(v)

	path, err := configPath()
	if err != nil {
		return nil, fmt.Errorf("failed to locate config file: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	for name, key := range bindings {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Resolve(v)
	if err != nil {
		return nil, err
	}

	observability.DebugEnabled = DebugMode
	observability.InitializeLogger(cfg.Logger)
	observability.GetLogger().Debug("Configuration resolved",
		zap.String("config_file", v.ConfigFileUsed()),
		zap.String("provider", cfg.SelectedProvider),
	)
	return cfg, nil
}
