// Package anthropic implements a minimal client for the Anthropic Messages
// API. Only the text chat surface the documentation generator needs is
// covered; the official SDK would pull in far more than that.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultVersion = "2023-06-01"
	messagesPath   = "/v1/messages"
)

// Client calls the Anthropic Messages API.
type Client struct {
	// APIKey authenticates requests via the x-api-key header.
	APIKey string
	// HTTP is the HTTP client used for requests. A default with a timeout is
	// used when nil.
	HTTP *http.Client
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
	// Version is the anthropic-version header value. Empty selects a default.
	Version string
}

// NewClient returns a Client with defaults applied.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 180 * time.Second},
		BaseURL: defaultBaseURL,
		Version: defaultVersion,
	}
}

// MessageRequest is the request payload for CreateMessage.
type MessageRequest struct {
	Model       string           `json:"model"`
	MaxTokens   int              `json:"max_tokens"`
	System      string           `json:"system,omitempty"`
	Temperature *float64         `json:"temperature,omitempty"`
	Messages    []MessageContent `json:"messages"`
}

// MessageContent is one conversational turn.
type MessageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ContentBlock is one block of a structured response.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MessageUsage carries token accounting for a response.
type MessageUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// MessageResponse is the reduced response payload.
type MessageResponse struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Type       string         `json:"type"`
	StopReason string         `json:"stop_reason"`
	Content    []ContentBlock `json:"content"`
	Usage      MessageUsage   `json:"usage"`
}

// Text concatenates the text-bearing content blocks of the response.
// Non-text blocks are ignored.
func (response *MessageResponse) Text() string {
	if response == nil {
		return ""
	}
	var builder strings.Builder
	for _, block := range response.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	return builder.String()
}

// APIError is the structured error payload returned by the API.
type APIError struct {
	Type  string `json:"type"`
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateMessage sends a messages request and returns the parsed response.
func (client *Client) CreateMessage(ctx context.Context, request MessageRequest) (*MessageResponse, error) {
	if strings.TrimSpace(client.APIKey) == "" {
		return nil, errors.New("missing API key")
	}
	if strings.TrimSpace(request.Model) == "" {
		return nil, errors.New("missing model")
	}

	httpClient := client.HTTP
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := client.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	version := client.Version
	if version == "" {
		version = defaultVersion
	}

	bodyBytes, marshalError := json.Marshal(request)
	if marshalError != nil {
		return nil, fmt.Errorf("marshal request: %w", marshalError)
	}

	endpoint := strings.TrimRight(baseURL, "/") + messagesPath
	httpRequest, requestError := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(bodyBytes))
	if requestError != nil {
		return nil, fmt.Errorf("new request: %w", requestError)
	}
	httpRequest.Header.Set("content-type", "application/json")
	httpRequest.Header.Set("x-api-key", client.APIKey)
	httpRequest.Header.Set("anthropic-version", version)

	httpResponse, doError := httpClient.Do(httpRequest)
	if doError != nil {
		return nil, fmt.Errorf("do request: %w", doError)
	}
	defer httpResponse.Body.Close()

	responseBody, readError := io.ReadAll(httpResponse.Body)
	if readError != nil {
		return nil, fmt.Errorf("read body: %w", readError)
	}

	if httpResponse.StatusCode < 200 || httpResponse.StatusCode >= 300 {
		var apiError APIError
		if unmarshalError := json.Unmarshal(responseBody, &apiError); unmarshalError == nil && apiError.Error.Message != "" {
			return nil, fmt.Errorf("anthropic error (%s): %s", apiError.Error.Type, apiError.Error.Message)
		}
		return nil, fmt.Errorf("anthropic error: status %d: %s", httpResponse.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var messageResponse MessageResponse
	if unmarshalError := json.Unmarshal(responseBody, &messageResponse); unmarshalError != nil {
		return nil, fmt.Errorf("unmarshal response: %w", unmarshalError)
	}
	return &messageResponse, nil
}
