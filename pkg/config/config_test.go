package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(t *testing.T) *viper.Viper {
	t.Helper()
	v := viper.New()
	SetDefaults(v)
	BindEnv(v)
	return v
}

func TestResolveDefaults(t *testing.T) {
	cfg, err := Resolve(newViper(t))
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.SelectedProvider)
	assert.Equal(t, "http://localhost:11434/api/generate", cfg.GetEndpoint(ProviderOllama))
	assert.Equal(t, "inputs", cfg.Merge.InputDir)
	assert.Equal(t, "outputs", cfg.Merge.OutputDir)
	assert.Equal(t, []string{".json"}, cfg.Merge.Extensions)
	assert.Equal(t, 120*time.Second, cfg.Summarizer.Timeout)
	assert.GreaterOrEqual(t, cfg.Merge.Workers, 1)
}

func TestResolveLayering(t *testing.T) {
	t.Run("should read values from a config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
selected_provider: none
merge:
  input_dir: scans
  extensions: [".json", ".JSON"]
summarizer:
  timeout: 5s
`), 0600))

		v := newViper(t)
		v.SetConfigFile(path)
		require.NoError(t, v.ReadInConfig())

		cfg, err := Resolve(v)
		require.NoError(t, err)
		assert.Equal(t, ProviderNone, cfg.SelectedProvider)
		assert.Equal(t, "scans", cfg.Merge.InputDir)
		assert.Equal(t, "outputs", cfg.Merge.OutputDir)
		assert.Equal(t, []string{".json", ".JSON"}, cfg.Merge.Extensions)
		assert.Equal(t, 5*time.Second, cfg.Summarizer.Timeout)
	})

	t.Run("should let the environment override", func(t *testing.T) {
		t.Setenv("SCANMERGE_SELECTED_PROVIDER", "Gemini")
		t.Setenv("GOOGLE_API_KEY", "from-env")
		t.Setenv("SCANMERGE_MERGE_OUTPUT_DIR", "/tmp/out")

		cfg, err := Resolve(newViper(t))
		require.NoError(t, err)
		assert.Equal(t, ProviderGemini, cfg.SelectedProvider)
		assert.Equal(t, "from-env", cfg.GetAPIKey(ProviderGemini))
		assert.Equal(t, "/tmp/out", cfg.Merge.OutputDir)
	})
}

func TestValidate(t *testing.T) {
	t.Run("should reject unknown providers", func(t *testing.T) {
		cfg := Default()
		cfg.SelectedProvider = "bedrock"
		assert.ErrorIs(t, cfg.Validate(), ErrUnknownProvider)
	})

	t.Run("should reject a non-positive timeout", func(t *testing.T) {
		cfg := Default()
		cfg.Summarizer.Timeout = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("should reject an empty extension list", func(t *testing.T) {
		cfg := Default()
		cfg.Merge.Extensions = nil
		assert.Error(t, cfg.Validate())
	})

	t.Run("should accept none", func(t *testing.T) {
		cfg := Default()
		cfg.SelectedProvider = ProviderNone
		assert.NoError(t, cfg.Validate())
	})
}

func TestSaveAndLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	missing, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, Default().SelectedProvider, missing.SelectedProvider)

	cfg := Default()
	cfg.SelectedProvider = ProviderAnthropic
	cfg.SetAPIKey(ProviderAnthropic, "sk-ant-secret")
	require.NoError(t, SaveConfig(path, cfg))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, loaded.SelectedProvider)
	assert.Equal(t, "sk-ant-secret", loaded.GetAPIKey(ProviderAnthropic))
	assert.Equal(t, cfg.Summarizer.Timeout, loaded.Summarizer.Timeout)
}

func TestRedacted(t *testing.T) {
	cfg := Default()
	cfg.SetAPIKey(ProviderOpenAI, "sk-1234567890")
	red := cfg.Redacted()
	assert.Equal(t, "****7890", red.GetAPIKey(ProviderOpenAI))
	assert.Equal(t, "sk-1234567890", cfg.GetAPIKey(ProviderOpenAI))
}
