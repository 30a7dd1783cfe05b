package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/prompt"
	"github.com/bidforge/bidforge/internal/rfp"
	"github.com/bidforge/bidforge/internal/types"
)

// completer issues a single structured completion for a stage: render
// the template, call the provider once, attribute usage, decode the
// response. No retry happens here; a stage attempts exactly once and
// then falls back deterministically.
type completer struct {
	provider    llm.LLMProvider
	model       string
	temperature float64
	tracker     llm.TokenTracker
	logger      *slog.Logger
}

func (c *completer) complete(ctx context.Context, recordID types.ID, stage string, tmpl prompt.Template, slots map[string]string) (llm.Object, error) {
	messages, err := tmpl.Render(slots)
	if err != nil {
		return nil, err
	}

	req := llm.CompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
	}
	if err := req.Validate(); err != nil {
		return nil, llm.NewInvalidRequestError(err.Error())
	}

	if c.tracker != nil {
		scope := llm.UsageScope{RecordID: recordID}
		if err := c.tracker.CheckBudget(scope, c.provider.Name(), c.model, llm.TokenUsage{}); err != nil {
			c.logger.Warn("budget exhausted, skipping completion",
				"stage", stage,
				"record", recordID,
				"error", err)
			return nil, err
		}
	}

	resp, err := c.provider.Complete(ctx, req)
	if err != nil {
		c.logger.Warn("completion failed",
			"stage", stage,
			"record", recordID,
			"provider", c.provider.Name(),
			"error", err)
		return nil, err
	}

	if c.tracker != nil {
		scope := llm.UsageScope{RecordID: recordID, Stage: stage}
		_ = c.tracker.RecordUsage(scope, c.provider.Name(), c.model, resp.Usage)
	}

	obj, err := llm.DecodeObject(resp.Content)
	if err != nil {
		c.logger.Warn("response extraction failed",
			"stage", stage,
			"record", recordID,
			"error", err)
		return nil, err
	}

	return obj, nil
}

// itemsJSON renders the line items in the flattened form the prompts
// describe: item_id, description, qty, and the schema's spec attributes
// at the top level of each object.
func itemsJSON(items []rfp.LineItem, schema rfp.SpecSchema) string {
	flat := make([]map[string]any, 0, len(items))
	for _, item := range items {
		entry := map[string]any{
			"item_id":     item.Index,
			"description": item.Description,
			"qty":         item.Quantity,
		}
		for _, attr := range schema.Attributes {
			entry[attr.Key] = item.Specs.Get(attr.Key, attr.Default)
		}
		flat = append(flat, entry)
	}

	encoded, err := json.MarshalIndent(flat, "", "  ")
	if err != nil {
		// Line items are plain values; marshaling cannot fail
		return "[]"
	}
	return string(encoded)
}
