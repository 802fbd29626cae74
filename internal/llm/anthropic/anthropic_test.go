package anthropic

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCreateMessageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", request.Method)
		}
		if request.URL.Path != "/v1/messages" {
			t.Fatalf("unexpected path: %s", request.URL.Path)
		}
		if apiKey := request.Header.Get("x-api-key"); apiKey != "test-key" {
			t.Fatalf("expected x-api-key=test-key, got %q", apiKey)
		}
		if version := request.Header.Get("anthropic-version"); version != defaultVersion {
			t.Fatalf("expected anthropic-version=%s, got %q", defaultVersion, version)
		}

		bodyBytes, readError := io.ReadAll(request.Body)
		if readError != nil {
			t.Fatalf("read body: %v", readError)
		}
		var requestBody MessageRequest
		if unmarshalError := json.Unmarshal(bodyBytes, &requestBody); unmarshalError != nil {
			t.Fatalf("unmarshal body: %v", unmarshalError)
		}
		if requestBody.Model != "claude-sonnet-4" {
			t.Fatalf("unexpected model: %q", requestBody.Model)
		}
		if requestBody.System != "You document code." {
			t.Fatalf("unexpected system: %q", requestBody.System)
		}
		if len(requestBody.Messages) != 1 || requestBody.Messages[0].Role != "user" {
			t.Fatalf("expected a single user message, got %+v", requestBody.Messages)
		}

		response := MessageResponse{
			ID:         "msg_123",
			Model:      "claude-sonnet-4",
			Type:       "message",
			StopReason: "end_turn",
			Content: []ContentBlock{
				{Type: "text", Text: "# Docs\n"},
				{Type: "tool_use", Text: "IGNORED"},
				{Type: "text", Text: "Body"},
			},
			Usage: MessageUsage{InputTokens: 10, OutputTokens: 4},
		}
		writer.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL
	client.HTTP = server.Client()
	client.Version = ""

	response, createError := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-sonnet-4",
		MaxTokens: 4096,
		System:    "You document code.",
		Messages:  []MessageContent{{Role: "user", Content: "document this"}},
	})
	if createError != nil {
		t.Fatalf("CreateMessage: %v", createError)
	}
	if text := response.Text(); text != "# Docs\nBody" {
		t.Fatalf("unexpected flattened text: %q", text)
	}
}

func TestCreateMessageStructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusNotFound)
		var apiError APIError
		apiError.Type = "error"
		apiError.Error.Type = "not_found_error"
		apiError.Error.Message = "Model not found"
		_ = json.NewEncoder(writer).Encode(apiError)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL
	client.HTTP = server.Client()

	_, createError := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "bad",
		MaxTokens: 1,
		Messages:  []MessageContent{{Role: "user", Content: "hi"}},
	})
	if createError == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(createError.Error(), "anthropic error (not_found_error): Model not found") {
		t.Fatalf("unexpected error: %q", createError.Error())
	}
}

func TestCreateMessageUnstructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusBadGateway)
		_, _ = writer.Write([]byte("upstream unavailable"))
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL
	client.HTTP = server.Client()

	_, createError := client.CreateMessage(context.Background(), MessageRequest{
		Model:     "claude-sonnet-4",
		MaxTokens: 1,
		Messages:  []MessageContent{{Role: "user", Content: "hi"}},
	})
	if createError == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(createError.Error(), "status 502") {
		t.Fatalf("unexpected error: %q", createError.Error())
	}
}

func TestCreateMessageValidation(t *testing.T) {
	client := NewClient("")
	if _, err := client.CreateMessage(context.Background(), MessageRequest{Model: "m"}); err == nil {
		t.Error("missing API key must fail")
	}

	client = NewClient("key")
	if _, err := client.CreateMessage(context.Background(), MessageRequest{}); err == nil {
		t.Error("missing model must fail")
	}
}
