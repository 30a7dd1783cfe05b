package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/rfp"
	"github.com/bidforge/bidforge/internal/types"
)

const extractionResponse = `{
	"title": "Supply of MV Cables",
	"due_date": "2026-10-01",
	"issuing_entity": "State Electricity Board",
	"scope": [
		{"description": "XLPE cable 16mm2", "qty": 500, "specs": {"size": 16, "rating": 11}},
		{"description": "Control cable", "qty": 200, "specs": {"size": 4}}
	],
	"tests": ["High voltage test"]
}`

func newExtractionStage(provider llm.LLMProvider, maxChars int) *DocumentExtractionStage {
	return NewDocumentExtractionStage(provider, "mock-model", 0.2, rfp.CableSchema(), maxChars, nil, testLogger())
}

func TestExtractParsesDocument(t *testing.T) {
	provider := scriptedProvider(t, extractionResponse)
	stage := newExtractionStage(provider, 0)

	record, err := stage.Extract(context.Background(), "Tender notice for MV cables...", rfp.Seed{})
	require.NoError(t, err)

	assert.Equal(t, "Supply of MV Cables", record.Title)
	assert.Equal(t, "2026-10-01", record.DueDate)
	assert.Equal(t, rfp.OriginUploaded, record.Origin)
	require.Len(t, record.Items, 2)
	assert.Equal(t, 500, record.Items[0].Quantity)
	require.NoError(t, record.Validate())
}

func TestExtractFencedResponse(t *testing.T) {
	provider := scriptedProvider(t, "Here is the extracted data:\n```json\n"+extractionResponse+"\n```")
	stage := newExtractionStage(provider, 0)

	record, err := stage.Extract(context.Background(), "Tender notice...", rfp.Seed{})
	require.NoError(t, err)
	assert.Len(t, record.Items, 2)
}

func TestExtractEmptyItemsIsFailure(t *testing.T) {
	provider := scriptedProvider(t, `{"title": "Empty RFP", "scope": []}`)
	stage := newExtractionStage(provider, 0)

	record, err := stage.Extract(context.Background(), "Nothing here.", rfp.Seed{})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Equal(t, types.RFP_NO_ITEMS, types.CodeOf(err))
}

func TestExtractProviderFailureSurfaces(t *testing.T) {
	stage := newExtractionStage(failingProvider(t), 0)

	record, err := stage.Extract(context.Background(), "Tender notice...", rfp.Seed{})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.True(t, llm.IsCompletionFailure(err))
	// Exactly one attempt, no internal retry.
}

func TestExtractUnparseableResponseSurfaces(t *testing.T) {
	provider := scriptedProvider(t, "I could not find any structured data in the document.")
	stage := newExtractionStage(provider, 0)

	_, err := stage.Extract(context.Background(), "Tender notice...", rfp.Seed{})
	require.Error(t, err)
	assert.Equal(t, llm.ErrResponseParseFailed, types.CodeOf(err))
	assert.Equal(t, 1, provider.CallCount())
}

func TestExtractTruncatesDocument(t *testing.T) {
	provider := scriptedProvider(t, extractionResponse)
	stage := newExtractionStage(provider, 100)

	longDoc := strings.Repeat("cable specification text ", 100)
	_, err := stage.Extract(context.Background(), longDoc, rfp.Seed{})
	require.NoError(t, err)

	calls := provider.Calls()
	require.Len(t, calls, 1)
	human := calls[0].Request.Messages[1].Content
	// The full document never reaches the prompt.
	assert.Less(t, len(human), len(longDoc))
}

func TestCleanDocument(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		want     string
	}{
		{"crlf normalized", "line one\r\nline two\rline three", 0, "line one\nline two\nline three"},
		{"space runs collapsed", "too   many\t\tspaces", 0, "too many spaces"},
		{"blank runs collapsed", "para one\n\n\n\n\npara two", 0, "para one\n\npara two"},
		{"trimmed", "  padded  ", 0, "padded"},
		{"truncated", "abcdefghij", 4, "abcd"},
		{"under budget untouched", "short", 100, "short"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDocument(tt.input, tt.maxChars))
		})
	}
}

func TestProcessDocument(t *testing.T) {
	provider := scriptedProvider(t, extractionResponse, qualifiedResponse, matchResponse, pricingResponse, synthesisResponse)
	controller := newTestController(provider, WithExtraction(newExtractionStage(provider, 0)))

	record, decision, err := controller.ProcessDocument(context.Background(), "Tender notice for MV cables...", rfp.Seed{})
	require.NoError(t, err)

	require.NotNil(t, record)
	assert.Len(t, record.Items, 2)
	require.NotNil(t, decision)
	assert.Equal(t, DecisionProceed, decision.Decision)
	assert.Equal(t, 5, provider.CallCount())

	tm := decision.Timings
	assert.Equal(t, tm.QualificationMs+tm.MatchingMs+tm.PricingMs+tm.SynthesisMs+tm.ExtractionMs, tm.TotalMs)
}

func TestProcessDocumentExtractionFailure(t *testing.T) {
	controller := newTestController(failingProvider(t), WithExtraction(newExtractionStage(failingProvider(t), 0)))

	record, decision, err := controller.ProcessDocument(context.Background(), "doc", rfp.Seed{})
	require.Error(t, err)
	assert.Nil(t, record)
	assert.Nil(t, decision)
}

func TestProcessDocumentWithoutExtractionStage(t *testing.T) {
	controller := newTestController(scriptedProvider(t, extractionResponse))

	_, _, err := controller.ProcessDocument(context.Background(), "doc", rfp.Seed{})
	require.Error(t, err)
	assert.Equal(t, types.CONFIG_VALIDATION_FAILED, types.CodeOf(err))
}
