package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/llm/anthropic"
	"github.com/docsmith/docsmith/internal/utils"
)

// defaultAnthropicMaxTokens is the output budget used when the configuration
// does not set one. Generated markdown documents routinely run long.
const defaultAnthropicMaxTokens = 16_384

type anthropicClient struct {
	client      *anthropic.Client
	model       string
	temperature *float64
	maxTokens   int
	logger      *zap.Logger
}

func newAnthropicClient(options Options, apiKey string, logger *zap.Logger) *anthropicClient {
	client := anthropic.NewClient(apiKey)
	if options.BaseURL != "" {
		client.BaseURL = strings.TrimRight(options.BaseURL, "/")
	}
	maxTokens := defaultAnthropicMaxTokens
	if options.MaxTokens != nil && *options.MaxTokens > 0 {
		maxTokens = *options.MaxTokens
	}
	return &anthropicClient{
		client:      client,
		model:       options.Model,
		temperature: options.Temperature,
		maxTokens:   maxTokens,
		logger:      utils.EnsureLogger(logger),
	}
}

func (client *anthropicClient) Generate(ctx context.Context, systemPrompt string, content string) (string, error) {
	request := anthropic.MessageRequest{
		Model:       client.model,
		MaxTokens:   client.maxTokens,
		System:      systemPrompt,
		Temperature: client.temperature,
		Messages:    []anthropic.MessageContent{{Role: "user", Content: content}},
	}

	client.logger.Debug("sending anthropic message", zap.String("model", client.model))
	response, createError := client.client.CreateMessage(ctx, request)
	if createError != nil {
		return "", fmt.Errorf("anthropic message: %w", createError)
	}

	generatedText := strings.TrimSpace(response.Text())
	if generatedText == "" {
		return "", fmt.Errorf("anthropic message: response carried no text blocks")
	}

	client.logger.Debug("anthropic message finished",
		zap.String("stopReason", response.StopReason),
		zap.Int("outputTokens", response.Usage.OutputTokens))
	return generatedText, nil
}
