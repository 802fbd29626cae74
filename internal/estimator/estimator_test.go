package estimator_test

import (
	"strings"
	"testing"

	"github.com/docsmith/docsmith/internal/estimator"
	"github.com/docsmith/docsmith/internal/types"
)

func TestEstimateTokensEmpty(t *testing.T) {
	if tokens := estimator.EstimateTokens("", true); tokens != 0 {
		t.Errorf("empty code text = %d tokens, expected 0", tokens)
	}
	if tokens := estimator.EstimateTokens("", false); tokens != 0 {
		t.Errorf("empty prose text = %d tokens, expected 0", tokens)
	}
}

func TestEstimateTokensMonotonic(t *testing.T) {
	previousTokens := 0
	text := ""
	for step := 0; step < 64; step++ {
		text += "const x = 1;\n"
		tokens := estimator.EstimateTokens(text, true)
		if tokens < previousTokens {
			t.Fatalf("token estimate decreased from %d to %d at length %d", previousTokens, tokens, len(text))
		}
		previousTokens = tokens
	}
}

func TestEstimateTokensCodeDenserThanProse(t *testing.T) {
	text := strings.Repeat("some representative content ", 40)
	codeTokens := estimator.EstimateTokens(text, true)
	proseTokens := estimator.EstimateTokens(text, false)
	if codeTokens <= proseTokens {
		t.Errorf("code estimate %d must exceed prose estimate %d for identical text", codeTokens, proseTokens)
	}
}

func TestGetTokenEstimateUnknownModel(t *testing.T) {
	estimate := estimator.GetTokenEstimate("some content", "totally-unknown-model", true, estimator.DefaultPricingTable())
	if estimate.Characters != len("some content") {
		t.Errorf("characters = %d, expected %d", estimate.Characters, len("some content"))
	}
	if estimate.Tokens == 0 {
		t.Error("tokens must still be estimated for unknown models")
	}
	if estimate.EstimatedCost != nil {
		t.Errorf("cost = %v, expected undefined for unknown model", *estimate.EstimatedCost)
	}
	if estimate.ContextWindow != 0 {
		t.Errorf("context window = %d, expected unset", estimate.ContextWindow)
	}
}

func TestGetTokenEstimateKnownModel(t *testing.T) {
	pricingTable := estimator.PricingTable{
		"test-model": {InputPricePerMillion: 10.0, ContextWindow: 1000},
	}
	text := strings.Repeat("x", 100)

	estimate := estimator.GetTokenEstimate(text, "test-model", true, pricingTable)
	if estimate.EstimatedCost == nil {
		t.Fatal("cost must be set for a model present in the table")
	}
	expectedCost := float64(estimate.Tokens) / 1_000_000 * 10.0
	if *estimate.EstimatedCost != expectedCost {
		t.Errorf("cost = %v, expected %v", *estimate.EstimatedCost, expectedCost)
	}
	if estimate.ContextWindow != 1000 {
		t.Errorf("context window = %d, expected 1000", estimate.ContextWindow)
	}
	if estimate.ContextUsagePercent <= 0 {
		t.Errorf("usage percent = %v, expected positive", estimate.ContextUsagePercent)
	}
}

func TestGetTokenEstimateSubstringModelLookup(t *testing.T) {
	table := estimator.DefaultPricingTable()

	versionedEstimate := estimator.GetTokenEstimate("content", "claude-sonnet-4-20250514", true, table)
	if versionedEstimate.EstimatedCost == nil {
		t.Error("versioned model name must match its family key")
	}

	familyEstimate := estimator.GetTokenEstimate("content", "gpt-4o", true, table)
	if familyEstimate.EstimatedCost == nil {
		t.Error("exact family key must match")
	}
}

func TestGetTokenEstimateWarningThresholds(t *testing.T) {
	pricingTable := estimator.PricingTable{
		"tiny-window": {InputPricePerMillion: 1.0, ContextWindow: 100},
	}

	// 40% of a code ratio of 0.40: 100 characters -> 40 tokens.
	noWarning := estimator.GetTokenEstimate(strings.Repeat("x", 100), "tiny-window", true, pricingTable)
	if noWarning.Warning != "" {
		t.Errorf("40%% usage produced warning %q, expected none", noWarning.Warning)
	}

	// 225 characters -> 90 tokens -> 90% usage.
	highUsage := estimator.GetTokenEstimate(strings.Repeat("x", 225), "tiny-window", true, pricingTable)
	if highUsage.Warning == "" || strings.HasPrefix(highUsage.Warning, "critical") {
		t.Errorf("90%% usage warning = %q, expected the high-usage warning", highUsage.Warning)
	}

	// 300 characters -> 120 tokens -> 120% usage. Critical replaces high.
	criticalUsage := estimator.GetTokenEstimate(strings.Repeat("x", 300), "tiny-window", true, pricingTable)
	if !strings.HasPrefix(criticalUsage.Warning, "critical") {
		t.Errorf("120%% usage warning = %q, expected the critical warning to take precedence", criticalUsage.Warning)
	}
}

func TestAggregateEstimatesEmpty(t *testing.T) {
	aggregate := estimator.AggregateEstimates(nil)
	if aggregate.Characters != 0 || aggregate.Tokens != 0 {
		t.Errorf("empty aggregate = %d chars %d tokens, expected zeros", aggregate.Characters, aggregate.Tokens)
	}
	if aggregate.EstimatedCost == nil || *aggregate.EstimatedCost != 0 {
		t.Error("empty aggregate must carry a defined zero cost")
	}
	if aggregate.ContextWindow != 0 {
		t.Errorf("empty aggregate window = %d, expected unset", aggregate.ContextWindow)
	}
}

func TestAggregateEstimatesSumsAndRecomputes(t *testing.T) {
	costOne := 1.5
	estimates := []types.TokenEstimate{
		{Characters: 100, Tokens: 40, EstimatedCost: &costOne, ContextWindow: 1000, ContextUsagePercent: 4},
		{Characters: 200, Tokens: 80},
		{Characters: 50, Tokens: 20, ContextWindow: 999_999},
	}

	aggregate := estimator.AggregateEstimates(estimates)
	if aggregate.Characters != 350 {
		t.Errorf("characters = %d, expected 350", aggregate.Characters)
	}
	if aggregate.Tokens != 140 {
		t.Errorf("tokens = %d, expected 140", aggregate.Tokens)
	}
	if aggregate.EstimatedCost == nil || *aggregate.EstimatedCost != 1.5 {
		t.Errorf("cost = %v, expected 1.5 with missing costs contributing zero", aggregate.EstimatedCost)
	}
	if aggregate.ContextWindow != 1000 {
		t.Errorf("window = %d, expected the first window found (1000)", aggregate.ContextWindow)
	}
	if aggregate.ContextUsagePercent != 14.0 {
		t.Errorf("usage = %v, expected 14.0 recomputed from aggregate tokens", aggregate.ContextUsagePercent)
	}
}
