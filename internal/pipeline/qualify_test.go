package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQualifyParsesModelResponse(t *testing.T) {
	provider := scriptedProvider(t, `{
		"qualified": true,
		"priority": "high",
		"winProbability": 82,
		"reasoning": "Strong fit with PSU buyer.",
		"keyFactors": ["Standard specs", "Existing relationship"]
	}`)
	stage := NewQualificationStage(provider, "mock-model", 0.7, nil, testLogger())

	result := stage.Qualify(context.Background(), testRecord())

	require.NotNil(t, result)
	assert.True(t, result.Qualified)
	assert.Equal(t, PriorityHigh, result.Priority)
	assert.Equal(t, 82.0, result.WinProbability)
	assert.Equal(t, "Strong fit with PSU buyer.", result.Reasoning)
	assert.Equal(t, []string{"Standard specs", "Existing relationship"}, result.KeyFactors)
	assert.Equal(t, 1, provider.CallCount())
}

func TestQualifyFallbackOnProviderFailure(t *testing.T) {
	stage := NewQualificationStage(failingProvider(t), "mock-model", 0.7, nil, testLogger())

	result := stage.Qualify(context.Background(), testRecord())

	require.NotNil(t, result)
	assert.True(t, result.Qualified)
	assert.Equal(t, PriorityMedium, result.Priority)
	assert.Equal(t, 75.0, result.WinProbability)
	assert.Equal(t, []string{"Standard specifications", "Manageable timeline"}, result.KeyFactors)
}

func TestQualifyFallbackOnMissingVerdict(t *testing.T) {
	// Decodable JSON, but no "qualified" field.
	provider := scriptedProvider(t, `{"priority": "high", "winProbability": 90}`)
	stage := NewQualificationStage(provider, "mock-model", 0.7, nil, testLogger())

	result := stage.Qualify(context.Background(), testRecord())

	assert.Equal(t, 75.0, result.WinProbability)
	assert.Equal(t, PriorityMedium, result.Priority)
}

func TestQualifyFallbackOnUnparseableResponse(t *testing.T) {
	provider := scriptedProvider(t, "I think this RFP looks promising but I cannot say more.")
	stage := NewQualificationStage(provider, "mock-model", 0.7, nil, testLogger())

	result := stage.Qualify(context.Background(), testRecord())

	assert.True(t, result.Qualified)
	assert.Equal(t, 75.0, result.WinProbability)
}

func TestQualifyFallbackIsDeterministic(t *testing.T) {
	stage := NewQualificationStage(failingProvider(t), "mock-model", 0.7, nil, testLogger())

	first := stage.Qualify(context.Background(), testRecord())
	second := stage.Qualify(context.Background(), singleItemRecord())

	// Identical regardless of input record shape.
	assert.Equal(t, first, second)
}

func TestQualifyNormalizesBadFields(t *testing.T) {
	provider := scriptedProvider(t, `{
		"qualified": false,
		"priority": "urgent",
		"winProbability": 140,
		"reasoning": "Out of range values."
	}`)
	stage := NewQualificationStage(provider, "mock-model", 0.7, nil, testLogger())

	result := stage.Qualify(context.Background(), testRecord())

	assert.False(t, result.Qualified)
	assert.Equal(t, PriorityMedium, result.Priority)
	assert.Equal(t, 100.0, result.WinProbability)
	assert.Equal(t, []string{}, result.KeyFactors)
}
