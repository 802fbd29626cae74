// Package estimator approximates token counts, context-window utilization,
// and request cost for generation payloads. The token count is a
// character-ratio heuristic, not a tokenizer call, so every function here is
// a pure function of its explicit inputs.
package estimator

import (
	"math"
	"strings"

	"github.com/docsmith/docsmith/internal/types"
)

// Tokens-per-character ratios. Source syntax tokenizes denser than prose, so
// the code ratio is the larger of the two.
const (
	codeTokenRatio  = 0.40
	proseTokenRatio = 0.30
)

// Usage thresholds for context-window warnings, in percent. When both are
// exceeded the critical warning takes precedence and only one warning string
// is attached.
const (
	highUsageThresholdPercent     = 80.0
	criticalUsageThresholdPercent = 95.0
)

const (
	highUsageWarning     = "context usage above 80%, consider splitting the subfolder into smaller targets"
	criticalUsageWarning = "critical: context usage above 95%, the request is likely to be truncated or rejected"
)

// EstimateTokens returns ceil(len(text) * ratio) where the ratio depends on
// whether the text is source code or prose. Empty text estimates to zero and
// the estimate is monotonic non-decreasing in input length.
func EstimateTokens(text string, isCode bool) int {
	if len(text) == 0 {
		return 0
	}
	ratio := proseTokenRatio
	if isCode {
		ratio = codeTokenRatio
	}
	return int(math.Ceil(float64(len(text)) * ratio))
}

// GetTokenEstimate wraps EstimateTokens and, when the model is present in the
// pricing table, attaches input cost, context-window utilization, and a usage
// warning. A model absent from the table still yields a valid character and
// token estimate with no cost attached.
func GetTokenEstimate(text string, model string, isCode bool, pricingTable PricingTable) types.TokenEstimate {
	estimate := types.TokenEstimate{
		Characters: len(text),
		Tokens:     EstimateTokens(text, isCode),
	}

	pricing, found := pricingTable.Lookup(model)
	if !found {
		return estimate
	}

	estimatedCost := float64(estimate.Tokens) / tokensPerMillion * pricing.InputPricePerMillion
	estimate.EstimatedCost = &estimatedCost

	if pricing.ContextWindow > 0 {
		estimate.ContextWindow = pricing.ContextWindow
		estimate.ContextUsagePercent = usagePercent(estimate.Tokens, pricing.ContextWindow)
		estimate.Warning = usageWarning(estimate.ContextUsagePercent)
	}

	return estimate
}

// AggregateEstimates sums characters, tokens, and cost across the provided
// estimates. A missing cost contributes zero and the aggregate cost is always
// defined. The context window is taken from the first estimate that carries
// one, and the usage percentage is recomputed from the aggregate token total
// against that single window.
func AggregateEstimates(estimates []types.TokenEstimate) types.TokenEstimate {
	totalCost := 0.0
	aggregate := types.TokenEstimate{EstimatedCost: &totalCost}

	for _, estimate := range estimates {
		aggregate.Characters += estimate.Characters
		aggregate.Tokens += estimate.Tokens
		if estimate.EstimatedCost != nil {
			totalCost += *estimate.EstimatedCost
		}
		if aggregate.ContextWindow == 0 && estimate.ContextWindow > 0 {
			aggregate.ContextWindow = estimate.ContextWindow
		}
	}

	if aggregate.ContextWindow > 0 {
		aggregate.ContextUsagePercent = usagePercent(aggregate.Tokens, aggregate.ContextWindow)
		aggregate.Warning = usageWarning(aggregate.ContextUsagePercent)
	}

	return aggregate
}

const tokensPerMillion = 1_000_000.0

// usagePercent rounds to one decimal place.
func usagePercent(tokens int, contextWindow int) float64 {
	return math.Round(float64(tokens)/float64(contextWindow)*1000) / 10
}

func usageWarning(utilizationPercent float64) string {
	switch {
	case utilizationPercent > criticalUsageThresholdPercent:
		return criticalUsageWarning
	case utilizationPercent > highUsageThresholdPercent:
		return highUsageWarning
	default:
		return ""
	}
}

// normalizeModelKey lowercases for case-insensitive comparisons.
func normalizeModelKey(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}
