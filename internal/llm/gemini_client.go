package llm

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/llm/gemini"
	"github.com/docsmith/docsmith/internal/utils"
)

type geminiClient struct {
	client      *gemini.Client
	model       string
	temperature *float64
	maxTokens   *int
	logger      *zap.Logger
}

func newGeminiClient(options Options, apiKey string, logger *zap.Logger) *geminiClient {
	client := gemini.NewClient(apiKey)
	if options.BaseURL != "" {
		client.BaseURL = strings.TrimRight(options.BaseURL, "/")
	}
	return &geminiClient{
		client:      client,
		model:       options.Model,
		temperature: options.Temperature,
		maxTokens:   options.MaxTokens,
		logger:      utils.EnsureLogger(logger),
	}
}

func (client *geminiClient) Generate(ctx context.Context, systemPrompt string, content string) (string, error) {
	request := gemini.GenerateContentRequest{
		Model:             client.model,
		Contents:          []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: content}}}},
		SystemInstruction: &gemini.Content{Parts: []gemini.Part{{Text: systemPrompt}}},
	}
	if client.temperature != nil || client.maxTokens != nil {
		generationConfig := &gemini.GenerationConfig{Temperature: client.temperature}
		if client.maxTokens != nil {
			generationConfig.MaxOutputTokens = *client.maxTokens
		}
		request.GenerationConfig = generationConfig
	}

	client.logger.Debug("sending gemini generateContent", zap.String("model", client.model))
	response, generateError := client.client.GenerateContent(ctx, request)
	if generateError != nil {
		return "", fmt.Errorf("gemini generateContent: %w", generateError)
	}

	generatedText := strings.TrimSpace(response.Text())
	if generatedText == "" {
		return "", fmt.Errorf("gemini generateContent: response carried no text parts")
	}
	return generatedText, nil
}
