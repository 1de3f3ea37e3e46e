package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a model answers without any usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// Request is a single, non-streaming generation request.
type Request struct {
	Model       string
	System      string // optional system instruction
	Prompt      string
	MaxTokens   int     // 0 lets the provider decide
	Temperature float32 // 0 keeps the model default
}

// Provider defines the interface for different AI models
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	ListModels(ctx context.Context) ([]string, error)
}

// Unavailable stands in for a provider that could not be constructed, so the
// failure surfaces at call time like any other model error.
type Unavailable struct {
	Err error
}

func (u Unavailable) Generate(ctx context.Context, req Request) (string, error) {
	return "", u.Err
}

func (u Unavailable) ListModels(ctx context.Context) ([]string, error) {
	return nil, u.Err
}
