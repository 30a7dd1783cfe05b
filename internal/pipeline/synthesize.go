package pipeline

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/prompt"
	"github.com/bidforge/bidforge/internal/rfp"
)

// SynthesisStage combines the three upstream assessments into the final
// verdict.
type SynthesisStage struct {
	completer
	template prompt.Template
}

// NewSynthesisStage creates a synthesis stage bound to one provider and
// model.
func NewSynthesisStage(provider llm.LLMProvider, model string, temperature float64, tracker llm.TokenTracker, logger *slog.Logger) *SynthesisStage {
	if logger == nil {
		logger = slog.Default()
	}
	return &SynthesisStage{
		completer: completer{
			provider:    provider,
			model:       model,
			temperature: temperature,
			tracker:     tracker,
			logger:      logger.With("component", "synthesis"),
		},
		template: prompt.Synthesis(),
	}
}

// Synthesize reasons jointly over the three stage results and the due
// date, and always returns a Decision skeleton (sub-results and timings
// are attached by the controller). An unrecoverable synthesis failure
// routes to human review: neither a false accept nor a false reject.
func (s *SynthesisStage) Synthesize(ctx context.Context, record *rfp.Record, qual *QualificationResult, match *MatchResult, pricing *PricingResult) *Decision {
	slots := map[string]string{
		"sales":     marshalAssessment(qual),
		"technical": marshalAssessment(match),
		"pricing":   marshalAssessment(pricing),
		"due_date":  record.DueDate,
	}

	obj, err := s.complete(ctx, record.ID, "synthesis", s.template, slots)
	if err != nil {
		return s.fallback()
	}

	kind := DecisionKind(obj.Str("decision", ""))
	if !kind.IsValid() {
		s.logger.Warn("synthesis response missing or invalid decision", "record", record.ID)
		return s.fallback()
	}

	return &Decision{
		Decision:         kind,
		Confidence:       clampPct(obj.Num("confidence", 50)),
		Risks:            obj.StrSlice("risks", []string{}),
		NextSteps:        obj.StrSlice("nextSteps", []string{}),
		Timeline:         obj.Str("timeline", ""),
		ApprovalRequired: obj.StrSlice("approvalRequired", []string{}),
		ExecutiveSummary: obj.Str("executiveSummary", ""),
	}
}

// fallback routes the RFP to manual review. Byte-identical across
// invocations.
func (s *SynthesisStage) fallback() *Decision {
	return reviewFallback()
}

// reviewFallback is the shared "manual intervention required" terminal
// shape, used both by synthesis and by the controller's outer guard.
func reviewFallback() *Decision {
	return &Decision{
		Decision:         DecisionReview,
		Confidence:       60,
		Risks:            []string{"AI analysis incomplete - manual review required"},
		NextSteps:        []string{"Manual review by bid team", "Verify specifications", "Calculate pricing manually"},
		Timeline:         "2-3 days",
		ApprovalRequired: []string{"Bid Manager"},
		ExecutiveSummary: "RFP requires manual review due to AI processing limitations.",
	}
}

// marshalAssessment renders a stage result as indented JSON for the
// synthesis prompt.
func marshalAssessment(v any) string {
	encoded, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(encoded)
}
