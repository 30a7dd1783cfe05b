package llm

import (
	"fmt"
	"sync"

	"github.com/bidforge/bidforge/internal/types"
)

// UsageScope identifies where a completion was spent: which RFP record,
// and which pipeline stage within it. Stage may be empty for
// record-level aggregates.
type UsageScope struct {
	RecordID types.ID // RFP record identifier
	Stage    string   // Pipeline stage name (optional)
}

// String returns a string representation of the scope for debugging
func (s UsageScope) String() string {
	if s.Stage != "" {
		return fmt.Sprintf("rfp:%s/stage:%s", s.RecordID, s.Stage)
	}
	return fmt.Sprintf("rfp:%s", s.RecordID)
}

// Key returns a unique key for this scope for map lookups
func (s UsageScope) Key() string {
	return s.String()
}

// UsageRecord tracks token usage and associated costs for a scope
type UsageRecord struct {
	Scope        UsageScope
	InputTokens  int
	OutputTokens int
	TotalCost    float64 // USD
	CallCount    int
}

// Budget defines spending limits for a scope
type Budget struct {
	MaxCost        float64 `yaml:"max_cost"`         // Maximum cost in USD (0 = unlimited)
	MaxTotalTokens int     `yaml:"max_total_tokens"` // Maximum total tokens (0 = unlimited)
}

// TokenTracker attributes token usage and cost per RFP record and per
// pipeline stage. The controller records usage after every completion so
// spend can be reported alongside stage latency.
type TokenTracker interface {
	// RecordUsage records token usage for a specific scope
	RecordUsage(scope UsageScope, provider, model string, usage TokenUsage) error

	// GetUsage retrieves usage statistics for a specific scope
	GetUsage(scope UsageScope) (UsageRecord, error)

	// GetCost retrieves the total cost for a specific scope
	GetCost(scope UsageScope) (float64, error)

	// SetBudget sets a budget limit for a specific scope
	SetBudget(scope UsageScope, budget Budget) error

	// CheckBudget checks if a proposed usage would exceed the budget.
	// Returns ErrBudgetExceeded if it would.
	CheckBudget(scope UsageScope, provider, model string, usage TokenUsage) error

	// Reset clears usage data for a specific scope
	Reset(scope UsageScope) error
}

// DefaultTokenTracker implements TokenTracker with thread-safe operations.
type DefaultTokenTracker struct {
	mu      sync.RWMutex
	usage   map[string]*UsageRecord
	budgets map[string]Budget
	pricing *PricingConfig
}

// NewTokenTracker creates a DefaultTokenTracker with the given pricing
// configuration. If pricing is nil, DefaultPricing() is used.
func NewTokenTracker(pricing *PricingConfig) *DefaultTokenTracker {
	if pricing == nil {
		pricing = DefaultPricing()
	}
	return &DefaultTokenTracker{
		usage:   make(map[string]*UsageRecord),
		budgets: make(map[string]Budget),
		pricing: pricing,
	}
}

// RecordUsage records token usage for a scope and calculates its cost.
// Stage-level usage also aggregates to the record level.
func (t *DefaultTokenTracker) RecordUsage(scope UsageScope, provider, model string, usage TokenUsage) error {
	cost, err := t.pricing.CalculateCost(provider, model, usage)
	if err != nil {
		// Unknown models are recorded with zero cost
		cost = 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.addToScope(scope, usage, cost)
	if scope.Stage != "" {
		t.addToScope(UsageScope{RecordID: scope.RecordID}, usage, cost)
	}

	return nil
}

func (t *DefaultTokenTracker) addToScope(scope UsageScope, usage TokenUsage, cost float64) {
	key := scope.Key()
	record, exists := t.usage[key]
	if !exists {
		record = &UsageRecord{Scope: scope}
		t.usage[key] = record
	}

	record.InputTokens += usage.InputTokens
	record.OutputTokens += usage.OutputTokens
	record.TotalCost += cost
	record.CallCount++
}

// GetUsage retrieves usage statistics for a scope.
// Returns ErrUsageNotFound if nothing has been recorded for it.
func (t *DefaultTokenTracker) GetUsage(scope UsageScope) (UsageRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	record, exists := t.usage[scope.Key()]
	if !exists {
		return UsageRecord{}, types.NewError(
			ErrUsageNotFound,
			fmt.Sprintf("no usage found for scope %s", scope),
		)
	}

	return *record, nil
}

// GetCost retrieves the total cost for a scope.
func (t *DefaultTokenTracker) GetCost(scope UsageScope) (float64, error) {
	record, err := t.GetUsage(scope)
	if err != nil {
		return 0, err
	}
	return record.TotalCost, nil
}

// SetBudget sets a budget limit for a scope.
func (t *DefaultTokenTracker) SetBudget(scope UsageScope, budget Budget) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.budgets[scope.Key()] = budget
	return nil
}

// CheckBudget checks if a proposed usage would exceed the scope's budget.
// Call this before making an API call to prevent overspending.
func (t *DefaultTokenTracker) CheckBudget(scope UsageScope, provider, model string, usage TokenUsage) error {
	t.mu.RLock()
	defer t.mu.RUnlock()

	budget, exists := t.budgets[scope.Key()]
	if !exists {
		return nil
	}

	var current UsageRecord
	if record, ok := t.usage[scope.Key()]; ok {
		current = *record
	}

	proposedCost, err := t.pricing.CalculateCost(provider, model, usage)
	if err != nil {
		proposedCost = 0
	}

	if budget.MaxCost > 0 && current.TotalCost+proposedCost > budget.MaxCost {
		return types.NewError(
			ErrBudgetExceeded,
			fmt.Sprintf("cost budget exceeded: current=%.4f, proposed=%.4f, limit=%.4f, scope=%s",
				current.TotalCost, proposedCost, budget.MaxCost, scope),
		)
	}

	if budget.MaxTotalTokens > 0 {
		newTotal := current.InputTokens + current.OutputTokens + usage.Total()
		if newTotal > budget.MaxTotalTokens {
			return types.NewError(
				ErrBudgetExceeded,
				fmt.Sprintf("token budget exceeded: proposed total=%d, limit=%d, scope=%s",
					newTotal, budget.MaxTotalTokens, scope),
			)
		}
	}

	return nil
}

// Reset clears usage data for a scope. Its budget is preserved.
func (t *DefaultTokenTracker) Reset(scope UsageScope) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	delete(t.usage, scope.Key())
	return nil
}
