package llm

import (
	"context"
	"fmt"

	"github.com/user/scanmerge/pkg/config"
)

// Settings selects and configures one provider.
type Settings struct {
	Name     string
	APIKey   string
	Model    string
	Endpoint string
}

func NewProvider(ctx context.Context, s Settings) (Provider, error) {
	switch s.Name {
	case config.ProviderOllama:
		return NewOllamaProvider(s.Endpoint, s.Model), nil
	case config.ProviderGemini:
		if s.APIKey == "" {
			return nil, fmt.Errorf("no API key configured for %s", s.Name)
		}
		return NewGeminiProvider(ctx, s.APIKey, s.Model)
	case config.ProviderOpenAI:
		if s.APIKey == "" {
			return nil, fmt.Errorf("no API key configured for %s", s.Name)
		}
		return NewOpenAIProvider(s.APIKey, s.Model, s.Endpoint), nil
	case config.ProviderAnthropic:
		if s.APIKey == "" {
			return nil, fmt.Errorf("no API key configured for %s", s.Name)
		}
		return NewAnthropicProvider(s.APIKey, s.Model, s.Endpoint), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownProvider, s.Name)
	}
}

// SettingsFor builds provider settings from the resolved configuration.
func SettingsFor(cfg *config.Config) Settings {
	name := cfg.SelectedProvider
	return Settings{
		Name:     name,
		APIKey:   cfg.GetAPIKey(name),
		Model:    cfg.SelectedModel,
		Endpoint: cfg.GetEndpoint(name),
	}
}

// Close releases provider resources when the provider holds any.
func Close(p Provider) {
	if closer, ok := p.(interface{ Close() }); ok {
		closer.Close()
	}
}
