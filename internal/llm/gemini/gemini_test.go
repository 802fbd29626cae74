package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateContentSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if request.Method != http.MethodPost {
			t.Fatalf("expected POST, got %s", request.Method)
		}
		if !strings.HasPrefix(request.URL.Path, "/v1beta/models/gemini-2.5-pro") {
			t.Fatalf("unexpected path: %s", request.URL.Path)
		}
		if key := request.URL.Query().Get("key"); key != "test-key" {
			t.Fatalf("expected key=test-key, got %q", key)
		}

		var requestBody GenerateContentRequest
		if decodeError := json.NewDecoder(request.Body).Decode(&requestBody); decodeError != nil {
			t.Fatalf("decode body: %v", decodeError)
		}
		if requestBody.SystemInstruction == nil || len(requestBody.SystemInstruction.Parts) != 1 {
			t.Fatalf("expected a system instruction, got %+v", requestBody.SystemInstruction)
		}
		if len(requestBody.Contents) != 1 || requestBody.Contents[0].Role != "user" {
			t.Fatalf("expected a single user content, got %+v", requestBody.Contents)
		}

		response := GenerateContentResponse{
			Candidates: []Candidate{{
				Content:      Content{Role: "model", Parts: []Part{{Text: "# Generated"}, {Text: " docs"}}},
				FinishReason: "STOP",
			}},
			UsageMetadata: &UsageMetadata{PromptTokenCount: 10, CandidatesTokenCount: 3, TotalTokenCount: 13},
		}
		writer.Header().Set("content-type", "application/json")
		_ = json.NewEncoder(writer).Encode(response)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL
	client.HTTP = server.Client()

	response, generateError := client.GenerateContent(context.Background(), GenerateContentRequest{
		Model:             "gemini-2.5-pro",
		Contents:          []Content{{Role: "user", Parts: []Part{{Text: "document this"}}}},
		SystemInstruction: &Content{Parts: []Part{{Text: "You document code."}}},
	})
	if generateError != nil {
		t.Fatalf("GenerateContent: %v", generateError)
	}
	if text := response.Text(); text != "# Generated docs" {
		t.Fatalf("unexpected flattened text: %q", text)
	}
}

func TestGenerateContentStructuredError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusTooManyRequests)
		var apiError APIError
		apiError.Error.Code = 429
		apiError.Error.Message = "Quota exceeded"
		apiError.Error.Status = "RESOURCE_EXHAUSTED"
		_ = json.NewEncoder(writer).Encode(apiError)
	}))
	defer server.Close()

	client := NewClient("test-key")
	client.BaseURL = server.URL
	client.HTTP = server.Client()

	_, generateError := client.GenerateContent(context.Background(), GenerateContentRequest{
		Model:    "gemini-2.5-pro",
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "hi"}}}},
	})
	if generateError == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(generateError.Error(), "gemini error (RESOURCE_EXHAUSTED): Quota exceeded") {
		t.Fatalf("unexpected error: %q", generateError.Error())
	}
}

func TestGenerateContentValidation(t *testing.T) {
	client := NewClient("")
	if _, err := client.GenerateContent(context.Background(), GenerateContentRequest{Model: "m"}); err == nil {
		t.Error("missing API key must fail")
	}

	client = NewClient("key")
	if _, err := client.GenerateContent(context.Background(), GenerateContentRequest{}); err == nil {
		t.Error("missing model must fail")
	}
}
