package estimator

import "strings"

// ModelPricing carries per-million-token input pricing in USD and the model's
// context window in tokens.
type ModelPricing struct {
	InputPricePerMillion float64
	ContextWindow        int
}

// PricingTable maps model family keys to pricing data. Tables are immutable
// configuration: callers pass one in rather than relying on ambient lookup,
// so tests can substitute their own.
type PricingTable map[string]ModelPricing

// defaultPricingTable holds published input prices per million tokens,
// keyed by model family.
var defaultPricingTable = PricingTable{
	"gpt-4o":            {InputPricePerMillion: 2.50, ContextWindow: 128_000},
	"gpt-4o-mini":       {InputPricePerMillion: 0.15, ContextWindow: 128_000},
	"gpt-4.1":           {InputPricePerMillion: 2.00, ContextWindow: 1_047_576},
	"gpt-4.1-mini":      {InputPricePerMillion: 0.40, ContextWindow: 1_047_576},
	"o3":                {InputPricePerMillion: 2.00, ContextWindow: 200_000},
	"claude-opus-4":     {InputPricePerMillion: 15.00, ContextWindow: 200_000},
	"claude-sonnet-4":   {InputPricePerMillion: 3.00, ContextWindow: 200_000},
	"claude-3-5-sonnet": {InputPricePerMillion: 3.00, ContextWindow: 200_000},
	"claude-3-5-haiku":  {InputPricePerMillion: 0.80, ContextWindow: 200_000},
	"gemini-2.5-pro":    {InputPricePerMillion: 1.25, ContextWindow: 1_048_576},
	"gemini-2.5-flash":  {InputPricePerMillion: 0.30, ContextWindow: 1_048_576},
	"gemini-2.0-flash":  {InputPricePerMillion: 0.10, ContextWindow: 1_048_576},
	"gemini-1.5-pro":    {InputPricePerMillion: 1.25, ContextWindow: 2_097_152},
}

// DefaultPricingTable returns the built-in pricing table. Callers must treat
// it as read-only.
func DefaultPricingTable() PricingTable {
	return defaultPricingTable
}

// Lookup finds pricing for a model identifier: first by exact key, then by
// case-insensitive substring containment in either direction, so a versioned
// model name such as "claude-sonnet-4-20250514" matches the "claude-sonnet-4"
// family key and vice versa.
func (table PricingTable) Lookup(model string) (ModelPricing, bool) {
	if model == "" {
		return ModelPricing{}, false
	}
	if pricing, exact := table[model]; exact {
		return pricing, true
	}

	normalizedModel := normalizeModelKey(model)
	bestKeyLength := 0
	var bestPricing ModelPricing
	for tableKey, pricing := range table {
		normalizedKey := normalizeModelKey(tableKey)
		if strings.Contains(normalizedModel, normalizedKey) || strings.Contains(normalizedKey, normalizedModel) {
			// Prefer the longest matching family key so "gpt-4o-mini" never
			// falls back to "gpt-4o".
			if len(normalizedKey) > bestKeyLength {
				bestKeyLength = len(normalizedKey)
				bestPricing = pricing
			}
		}
	}
	if bestKeyLength > 0 {
		return bestPricing, true
	}
	return ModelPricing{}, false
}
