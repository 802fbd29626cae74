// Package gemini implements a minimal client for the Gemini generateContent
// API, mirroring the shape of the anthropic package.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com"

// Client calls the Gemini generateContent API.
type Client struct {
	// APIKey authenticates requests via the key query parameter.
	APIKey string
	// HTTP is the HTTP client used for requests. A default with a timeout is
	// used when nil.
	HTTP *http.Client
	// BaseURL overrides the API endpoint, mainly for tests.
	BaseURL string
}

// NewClient returns a Client with defaults applied.
func NewClient(apiKey string) *Client {
	return &Client{
		APIKey:  apiKey,
		HTTP:    &http.Client{Timeout: 180 * time.Second},
		BaseURL: defaultBaseURL,
	}
}

// GenerateContentRequest is the request payload. The model travels in the
// REST path, not the body. Only text parts are supported.
type GenerateContentRequest struct {
	Model             string            `json:"-"`
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
}

// Content represents a single conversational message.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is a text-only content part.
type Part struct {
	Text string `json:"text,omitempty"`
}

// GenerationConfig captures the generation controls the client supports.
type GenerationConfig struct {
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
	Temperature     *float64 `json:"temperature,omitempty"`
}

// GenerateContentResponse is a reduced representation of the response payload.
type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	ModelVersion  string         `json:"modelVersion,omitempty"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

// Candidate represents a single generation candidate.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// UsageMetadata contains token accounting information.
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount,omitempty"`
	CandidatesTokenCount int `json:"candidatesTokenCount,omitempty"`
	TotalTokenCount      int `json:"totalTokenCount,omitempty"`
}

// Text returns the first candidate's concatenated text parts.
func (response *GenerateContentResponse) Text() string {
	if response == nil {
		return ""
	}
	for _, candidate := range response.Candidates {
		var builder strings.Builder
		for _, part := range candidate.Content.Parts {
			builder.WriteString(part.Text)
		}
		if builder.Len() > 0 {
			return builder.String()
		}
	}
	return ""
}

// APIError is the structured error payload returned by the API.
type APIError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateContent sends a generateContent request and returns the parsed response.
func (client *Client) GenerateContent(ctx context.Context, request GenerateContentRequest) (*GenerateContentResponse, error) {
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

	bodyBytes, marshalError := json.Marshal(request)
	if marshalError != nil {
		return nil, fmt.Errorf("marshal request: %w", marshalError)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent",
		strings.TrimRight(baseURL, "/"), url.PathEscape(request.Model))
	endpointURL, parseError := url.Parse(endpoint)
	if parseError != nil {
		return nil, fmt.Errorf("parse endpoint: %w", parseError)
	}
	queryValues := endpointURL.Query()
	queryValues.Set("key", client.APIKey)
	endpointURL.RawQuery = queryValues.Encode()

	httpRequest, requestError := http.NewRequestWithContext(ctx, http.MethodPost, endpointURL.String(), bytes.NewReader(bodyBytes))
	if requestError != nil {
		return nil, fmt.Errorf("new request: %w", requestError)
	}
	httpRequest.Header.Set("content-type", "application/json")

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
			status := apiError.Error.Status
			if status == "" {
				status = http.StatusText(httpResponse.StatusCode)
			}
			return nil, fmt.Errorf("gemini error (%s): %s", status, apiError.Error.Message)
		}
		return nil, fmt.Errorf("gemini error: status %d: %s", httpResponse.StatusCode, strings.TrimSpace(string(responseBody)))
	}

	var generateResponse GenerateContentResponse
	if unmarshalError := json.Unmarshal(responseBody, &generateResponse); unmarshalError != nil {
		return nil, fmt.Errorf("unmarshal response: %w", unmarshalError)
	}
	return &generateResponse, nil
}
