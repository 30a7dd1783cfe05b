package llm

import (
	"fmt"
	"sync"

	"github.com/bidforge/bidforge/internal/types"
)

// ModelPricing contains pricing information for a specific model.
// Prices are specified per 1 million tokens.
type ModelPricing struct {
	InputPer1M  float64 `yaml:"input_per_1m"`
	OutputPer1M float64 `yaml:"output_per_1m"`
}

// PricingConfig manages pricing information for all providers and models.
// It maintains a hierarchical map structure: provider -> model -> pricing.
type PricingConfig struct {
	mu      sync.RWMutex
	Pricing map[string]map[string]ModelPricing `yaml:"pricing"`
}

// NewPricingConfig creates an empty PricingConfig.
func NewPricingConfig() *PricingConfig {
	return &PricingConfig{
		Pricing: make(map[string]map[string]ModelPricing),
	}
}

// DefaultPricing returns a PricingConfig populated with published rates
// for the models the pipeline is expected to run against.
func DefaultPricing() *PricingConfig {
	config := NewPricingConfig()

	config.Pricing["google"] = map[string]ModelPricing{
		"gemini-1.5-flash-latest": {InputPer1M: 0.075, OutputPer1M: 0.30},
		"gemini-1.5-flash":        {InputPer1M: 0.075, OutputPer1M: 0.30},
		"gemini-1.5-pro":          {InputPer1M: 1.25, OutputPer1M: 5.00},
		"gemini-2.0-flash":        {InputPer1M: 0.10, OutputPer1M: 0.40},
	}

	config.Pricing["anthropic"] = map[string]ModelPricing{
		"claude-3-5-sonnet-20240620": {InputPer1M: 3.00, OutputPer1M: 15.00},
		"claude-3-5-sonnet":          {InputPer1M: 3.00, OutputPer1M: 15.00},
		"claude-3-haiku-20240307":    {InputPer1M: 0.25, OutputPer1M: 1.25},
		"claude-3-haiku":             {InputPer1M: 0.25, OutputPer1M: 1.25},
	}

	config.Pricing["openai"] = map[string]ModelPricing{
		"gpt-4o":        {InputPer1M: 2.50, OutputPer1M: 10.00},
		"gpt-4o-mini":   {InputPer1M: 0.15, OutputPer1M: 0.60},
		"gpt-4-turbo":   {InputPer1M: 10.00, OutputPer1M: 30.00},
		"gpt-3.5-turbo": {InputPer1M: 0.50, OutputPer1M: 1.50},
	}

	// Local models cost nothing
	config.Pricing["ollama"] = map[string]ModelPricing{}
	config.Pricing["mock"] = map[string]ModelPricing{}

	return config
}

// SetModelPricing sets pricing for a specific provider and model.
func (c *PricingConfig) SetModelPricing(provider, model string, pricing ModelPricing) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.Pricing[provider] == nil {
		c.Pricing[provider] = make(map[string]ModelPricing)
	}
	c.Pricing[provider][model] = pricing
}

// GetModelPricing retrieves pricing for a specific provider and model.
// Returns ErrModelNotFound if no pricing is configured.
func (c *PricingConfig) GetModelPricing(provider, model string) (ModelPricing, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	models, ok := c.Pricing[provider]
	if !ok {
		return ModelPricing{}, types.NewError(
			ErrModelNotFound,
			fmt.Sprintf("no pricing configured for provider %q", provider),
		)
	}

	pricing, ok := models[model]
	if !ok {
		return ModelPricing{}, types.NewError(
			ErrModelNotFound,
			fmt.Sprintf("no pricing configured for model %q of provider %q", model, provider),
		)
	}

	return pricing, nil
}

// CalculateCost computes the USD cost of a completion given its token
// usage. Unknown models cost zero; usage tracking should never block a
// completion over a missing price entry.
func (c *PricingConfig) CalculateCost(provider, model string, usage TokenUsage) (float64, error) {
	pricing, err := c.GetModelPricing(provider, model)
	if err != nil {
		return 0, err
	}

	inputCost := float64(usage.InputTokens) / 1_000_000 * pricing.InputPer1M
	outputCost := float64(usage.OutputTokens) / 1_000_000 * pricing.OutputPer1M
	return inputCost + outputCost, nil
}
