// Package tokenizer provides exact token counting for generation payloads.
// It complements the heuristic estimator: counts from here feed the run
// report, never the cost estimate.
package tokenizer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

// Counter counts tokens for text content.
type Counter interface {
	Name() string
	CountString(input string) (int, error)
}

const (
	defaultModel        = "gpt-4o"
	defaultEncodingName = "cl100k_base"
)

// NewCounter returns a Counter for the requested model along with the name of
// the encoding actually selected. OpenAI-family models use their native
// tiktoken encoding; every other model falls back to the default encoding,
// which keeps the count indicative rather than exact.
func NewCounter(model string) (Counter, string, error) {
	trimmedModel := strings.TrimSpace(model)
	if trimmedModel == "" {
		trimmedModel = defaultModel
	}
	lowerModel := strings.ToLower(trimmedModel)

	if isOpenAIModel(lowerModel) {
		encoding, encodingError := tiktoken.EncodingForModel(lowerModel)
		if encodingError == nil && encoding != nil {
			return tiktokenCounter{encoding: encoding, name: lowerModel}, lowerModel, nil
		}
	}

	fallbackEncoding, fallbackError := tiktoken.GetEncoding(defaultEncodingName)
	if fallbackError != nil {
		return nil, "", fmt.Errorf("initialize fallback tokenizer: %w", fallbackError)
	}
	return tiktokenCounter{encoding: fallbackEncoding, name: defaultEncodingName}, defaultEncodingName, nil
}

func isOpenAIModel(lowerModel string) bool {
	prefixes := []string{"gpt-", "o1", "o3", "o4", "text-embedding", "davinci", "babbage"}
	for _, prefix := range prefixes {
		if strings.HasPrefix(lowerModel, prefix) {
			return true
		}
	}
	return false
}

type tiktokenCounter struct {
	encoding *tiktoken.Tiktoken
	name     string
}

func (counter tiktokenCounter) Name() string {
	return counter.name
}

func (counter tiktokenCounter) CountString(input string) (int, error) {
	if counter.encoding == nil {
		return 0, errors.New("nil tiktoken encoder")
	}
	tokenIDs := counter.encoding.Encode(input, nil, nil)
	return len(tokenIDs), nil
}
