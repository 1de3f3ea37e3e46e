package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Provider names accepted by selected_provider. ProviderNone disables summarization.
const (
	ProviderNone      = "none"
	ProviderOllama    = "ollama"
	ProviderGemini    = "gemini"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// KnownProviders lists every summarization backend, in menu order.
var KnownProviders = []string{ProviderOllama, ProviderGemini, ProviderOpenAI, ProviderAnthropic}

var ErrUnknownProvider = errors.New("unknown provider")

type ProviderConfig struct {
	APIKey   string `yaml:"api_key" mapstructure:"api_key"`
	Endpoint string `yaml:"endpoint,omitempty" mapstructure:"endpoint"`
}

// MergeConfig controls document discovery and the artifacts of a merge run.
type MergeConfig struct {
	InputDir   string   `yaml:"input_dir" mapstructure:"input_dir"`
	OutputDir  string   `yaml:"output_dir" mapstructure:"output_dir"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions"`
	Workers    int      `yaml:"workers" mapstructure:"workers"`
	MaxDepth   int      `yaml:"max_depth" mapstructure:"max_depth"`
	SARIF      bool     `yaml:"sarif" mapstructure:"sarif"`
}

type SummarizerConfig struct {
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `yaml:"level" mapstructure:"level"`
	Format      string `yaml:"format" mapstructure:"format"` // console or json
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`
	LogFile     string `yaml:"log_file,omitempty" mapstructure:"log_file"`
	MaxSize     int    `yaml:"max_size" mapstructure:"max_size"`
	MaxBackups  int    `yaml:"max_backups" mapstructure:"max_backups"`
	MaxAge      int    `yaml:"max_age" mapstructure:"max_age"`
	Compress    bool   `yaml:"compress" mapstructure:"compress"`
}

type Config struct {
	SelectedProvider string                    `yaml:"selected_provider" mapstructure:"selected_provider"`
	SelectedModel    string                    `yaml:"selected_model" mapstructure:"selected_model"`
	Providers        map[string]ProviderConfig `yaml:"providers" mapstructure:"providers"`
	Merge            MergeConfig               `yaml:"merge" mapstructure:"merge"`
	Summarizer       SummarizerConfig          `yaml:"summarizer" mapstructure:"summarizer"`
	Logger           LoggerConfig              `yaml:"logger" mapstructure:"logger"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		SelectedProvider: ProviderOllama,
		SelectedModel:    "",
		Providers: map[string]ProviderConfig{
			ProviderOllama: {Endpoint: "http://localhost:11434/api/generate"},
		},
		Merge: MergeConfig{
			InputDir:   "inputs",
			OutputDir:  "outputs",
			Extensions: []string{".json"},
			Workers:    runtime.NumCPU(),
			MaxDepth:   256,
		},
		Summarizer: SummarizerConfig{Timeout: 120 * time.Second},
		Logger: LoggerConfig{
			Level:       "info",
			Format:      "console",
			ServiceName: "scanmerge",
			MaxSize:     10,
			MaxBackups:  3,
			MaxAge:      28,
		},
	}
}

// SetDefaults registers Default() with v so every key is known to viper,
// which is required for environment overrides to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("selected_provider", d.SelectedProvider)
	v.SetDefault("selected_model", d.SelectedModel)
	for _, name := range KnownProviders {
		p := d.Providers[name]
		v.SetDefault("providers."+name+".api_key", p.APIKey)
		v.SetDefault("providers."+name+".endpoint", p.Endpoint)
	}
	v.SetDefault("merge.input_dir", d.Merge.InputDir)
	v.SetDefault("merge.output_dir", d.Merge.OutputDir)
	v.SetDefault("merge.extensions", d.Merge.Extensions)
	v.SetDefault("merge.workers", d.Merge.Workers)
	v.SetDefault("merge.max_depth", d.Merge.MaxDepth)
	v.SetDefault("merge.sarif", d.Merge.SARIF)
	v.SetDefault("summarizer.timeout", d.Summarizer.Timeout)
	v.SetDefault("logger.level", d.Logger.Level)
	v.SetDefault("logger.format", d.Logger.Format)
	v.SetDefault("logger.service_name", d.Logger.ServiceName)
	v.SetDefault("logger.log_file", d.Logger.LogFile)
	v.SetDefault("logger.max_size", d.Logger.MaxSize)
	v.SetDefault("logger.max_backups", d.Logger.MaxBackups)
	v.SetDefault("logger.max_age", d.Logger.MaxAge)
	v.SetDefault("logger.compress", d.Logger.Compress)
}

// BindEnv wires SCANMERGE_* variables plus the vendors' conventional API key
// variables.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix("SCANMERGE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("providers.gemini.api_key", "SCANMERGE_GEMINI_API_KEY", "GOOGLE_API_KEY")
	_ = v.BindEnv("providers.openai.api_key", "SCANMERGE_OPENAI_API_KEY", "OPENAI_API_KEY")
	_ = v.BindEnv("providers.anthropic.api_key", "SCANMERGE_ANTHROPIC_API_KEY", "ANTHROPIC_API_KEY")
	_ = v.BindEnv("providers.ollama.endpoint", "SCANMERGE_OLLAMA_URL", "OLLAMA_URL")
}

// Resolve unmarshals the effective configuration held by v and validates it.
func Resolve(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	cfg.SelectedProvider = strings.ToLower(strings.TrimSpace(cfg.SelectedProvider))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the values a merge run depends on.
func (c *Config) Validate() error {
	if !IsKnownProvider(c.SelectedProvider) && c.SelectedProvider != ProviderNone {
		return fmt.Errorf("%w: %q", ErrUnknownProvider, c.SelectedProvider)
	}
	if c.Summarizer.Timeout <= 0 {
		return fmt.Errorf("summarizer.timeout must be positive, got %s", c.Summarizer.Timeout)
	}
	if len(c.Merge.Extensions) == 0 {
		return errors.New("merge.extensions must not be empty")
	}
	if c.Merge.Workers < 1 {
		return fmt.Errorf("merge.workers must be at least 1, got %d", c.Merge.Workers)
	}
	return nil
}

func IsKnownProvider(name string) bool {
	for _, p := range KnownProviders {
		if p == name {
			return true
		}
	}
	return false
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".scanmerge")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

// LoadConfig reads the file at path. A missing file yields Default().
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}

func (c *Config) GetEndpoint(provider string) string {
	return c.Providers[provider].Endpoint
}

// Redacted returns a copy safe to print: API keys are masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Providers = make(map[string]ProviderConfig, len(c.Providers))
	for name, p := range c.Providers {
		if p.APIKey != "" {
			p.APIKey = mask(p.APIKey)
		}
		out.Providers[name] = p
	}
	return &out
}

func mask(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
