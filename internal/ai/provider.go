package ai

import (
	"context"
	"fmt"

	"github.com/hirewise/hirewise/internal/config"
)

// Provider is the single capability every AI-backed component depends on.
// Responses are untrusted text: callers must validate any JSON they expect
// and supply their own fallback on malformed output.
type Provider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewFromConfig builds the provider selected by configuration. The choice is
// made once at process start; components receive the provider explicitly.
func NewFromConfig(cfg config.AIConfig) (Provider, error) {
	switch cfg.Provider {
	case "gemini":
		return NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.Timeout), nil
	case "ollama":
		return NewOllamaClient(cfg.OllamaBaseURL, cfg.OllamaModel, cfg.Timeout), nil
	}
	return nil, fmt.Errorf("unknown AI provider: %s", cfg.Provider)
}
