package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAssessments() (*QualificationResult, *MatchResult, *PricingResult) {
	qual := &QualificationResult{
		Qualified:      true,
		Priority:       PriorityHigh,
		WinProbability: 80,
		Reasoning:      "Good fit.",
		KeyFactors:     []string{"Standard specs"},
	}
	match := &MatchResult{
		MatchConfidence: 90,
		MatchedItems:    2,
		TotalItems:      2,
		Recommendations: "All standard.",
	}
	pricing := &PricingResult{
		TotalMaterialCost: 4830,
		OverheadCost:      1207.5,
		RecommendedMargin: 18,
		FinalBidPrice:     7124.25,
		PricePerUnit:      3562.125,
	}
	return qual, match, pricing
}

func TestSynthesizeParsesModelResponse(t *testing.T) {
	provider := scriptedProvider(t, `{
		"decision": "proceed",
		"confidence": 85,
		"risks": ["Tight delivery timeline"],
		"nextSteps": ["Prepare bid documents"],
		"timeline": "5-7 days",
		"approvalRequired": ["Sales Head"],
		"executiveSummary": "Strong opportunity with standard products."
	}`)
	stage := NewSynthesisStage(provider, "mock-model", 0.7, nil, testLogger())

	qual, match, pricing := testAssessments()
	decision := stage.Synthesize(context.Background(), testRecord(), qual, match, pricing)

	require.NotNil(t, decision)
	assert.Equal(t, DecisionProceed, decision.Decision)
	assert.Equal(t, 85.0, decision.Confidence)
	assert.Equal(t, []string{"Tight delivery timeline"}, decision.Risks)
	assert.Equal(t, "5-7 days", decision.Timeline)
	assert.Equal(t, "Strong opportunity with standard products.", decision.ExecutiveSummary)
}

func TestSynthesizePassesAssessmentsToPrompt(t *testing.T) {
	provider := scriptedProvider(t, `{"decision": "proceed", "confidence": 85}`)
	stage := NewSynthesisStage(provider, "mock-model", 0.7, nil, testLogger())

	qual, match, pricing := testAssessments()
	stage.Synthesize(context.Background(), testRecord(), qual, match, pricing)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	human := calls[0].Request.Messages[1].Content
	assert.Contains(t, human, `"winProbability": 80`)
	assert.Contains(t, human, `"matchConfidence": 90`)
	assert.Contains(t, human, `"finalBidPrice": 7124.25`)
	assert.Contains(t, human, "2026-09-15")
}

func TestSynthesizeFallbackOnProviderFailure(t *testing.T) {
	stage := NewSynthesisStage(failingProvider(t), "mock-model", 0.7, nil, testLogger())

	qual, match, pricing := testAssessments()
	decision := stage.Synthesize(context.Background(), testRecord(), qual, match, pricing)

	require.NotNil(t, decision)
	assert.Equal(t, DecisionReview, decision.Decision)
	assert.Equal(t, 60.0, decision.Confidence)
	assert.Equal(t, []string{"AI analysis incomplete - manual review required"}, decision.Risks)
	assert.Equal(t, "2-3 days", decision.Timeline)
	assert.Equal(t, []string{"Bid Manager"}, decision.ApprovalRequired)
}

func TestSynthesizeFallbackOnInvalidDecision(t *testing.T) {
	provider := scriptedProvider(t, `{"decision": "maybe", "confidence": 99}`)
	stage := NewSynthesisStage(provider, "mock-model", 0.7, nil, testLogger())

	qual, match, pricing := testAssessments()
	decision := stage.Synthesize(context.Background(), testRecord(), qual, match, pricing)

	// Invalid verdicts route to review, never to proceed or reject.
	assert.Equal(t, DecisionReview, decision.Decision)
	assert.Equal(t, 60.0, decision.Confidence)
}

func TestReviewFallbackIsDeterministic(t *testing.T) {
	assert.Equal(t, reviewFallback(), reviewFallback())
}
