// Package llm abstracts the supported chat-completion providers behind a
// single generation interface.
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Supported provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGoogle    = "google"
)

// Client generates text from a system prompt and a content blob. Providers
// flatten structured multi-block responses to plain text; any other response
// shape is a hard error.
type Client interface {
	Generate(ctx context.Context, systemPrompt string, content string) (string, error)
}

// Options selects and configures a provider client.
type Options struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature *float64
	MaxTokens   *int
}

// Environment variables consulted when no API key is configured.
const (
	openAIKeyEnvironmentVariable    = "OPENAI_API_KEY"
	anthropicKeyEnvironmentVariable = "ANTHROPIC_API_KEY"
	googleKeyEnvironmentVariable    = "GEMINI_API_KEY"
)

// NewClient constructs the client for the configured provider. An unsupported
// provider or a missing API key with no environment fallback is a fatal
// configuration error.
func NewClient(options Options, logger *zap.Logger) (Client, error) {
	if strings.TrimSpace(options.Model) == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	switch strings.ToLower(strings.TrimSpace(options.Provider)) {
	case ProviderOpenAI:
		apiKey := resolveAPIKey(options.APIKey, openAIKeyEnvironmentVariable)
		if apiKey == "" {
			return nil, fmt.Errorf("missing API key for provider %s; set llm.api_key or %s", ProviderOpenAI, openAIKeyEnvironmentVariable)
		}
		return newOpenAIClient(options, apiKey, logger), nil
	case ProviderAnthropic:
		apiKey := resolveAPIKey(options.APIKey, anthropicKeyEnvironmentVariable)
		if apiKey == "" {
			return nil, fmt.Errorf("missing API key for provider %s; set llm.api_key or %s", ProviderAnthropic, anthropicKeyEnvironmentVariable)
		}
		return newAnthropicClient(options, apiKey, logger), nil
	case ProviderGoogle:
		apiKey := resolveAPIKey(options.APIKey, googleKeyEnvironmentVariable)
		if apiKey == "" {
			return nil, fmt.Errorf("missing API key for provider %s; set llm.api_key or %s", ProviderGoogle, googleKeyEnvironmentVariable)
		}
		return newGeminiClient(options, apiKey, logger), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", options.Provider)
	}
}

// resolveAPIKey resolves the configured key, supporting a "$VAR" indirection
// to an environment variable, then falls back to the provider's conventional
// environment variable.
func resolveAPIKey(configuredKey string, environmentVariable string) string {
	trimmedKey := strings.TrimSpace(configuredKey)
	if strings.HasPrefix(trimmedKey, "$") {
		return os.Getenv(strings.TrimPrefix(trimmedKey, "$"))
	}
	if trimmedKey != "" {
		return trimmedKey
	}
	return os.Getenv(environmentVariable)
}
