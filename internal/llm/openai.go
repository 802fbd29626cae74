package llm

import (
	"context"
	"fmt"

	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"go.uber.org/zap"

	"github.com/docsmith/docsmith/internal/utils"
)

type openAIClient struct {
	client      openai.Client
	model       string
	temperature *float64
	maxTokens   *int
	logger      *zap.Logger
}

func newOpenAIClient(options Options, apiKey string, logger *zap.Logger) *openAIClient {
	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if options.BaseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(options.BaseURL))
	}
	return &openAIClient{
		client:      openai.NewClient(requestOptions...),
		model:       options.Model,
		temperature: options.Temperature,
		maxTokens:   options.MaxTokens,
		logger:      utils.EnsureLogger(logger),
	}
}

func (client *openAIClient) Generate(ctx context.Context, systemPrompt string, content string) (string, error) {
	request := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(client.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(content),
		},
	}
	if client.temperature != nil {
		request.Temperature = openai.Float(*client.temperature)
	}
	if client.maxTokens != nil {
		request.MaxCompletionTokens = openai.Int(int64(*client.maxTokens))
	}

	client.logger.Debug("sending openai chat completion", zap.String("model", client.model))
	response, requestError := client.client.Chat.Completions.New(ctx, request)
	if requestError != nil {
		return "", fmt.Errorf("openai chat completion: %w", requestError)
	}
	if response == nil || len(response.Choices) != 1 {
		return "", fmt.Errorf("openai chat completion: unexpected response shape")
	}

	choice := response.Choices[0]
	generatedText := choice.Message.Content
	if generatedText == "" {
		generatedText = choice.Message.Refusal
	}
	if generatedText == "" {
		return "", fmt.Errorf("openai chat completion: empty response text")
	}

	client.logger.Debug("openai chat completion finished",
		zap.String("finishReason", choice.FinishReason),
		zap.Int64("totalTokens", response.Usage.TotalTokens))
	return generatedText, nil
}
