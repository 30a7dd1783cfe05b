package providers

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidforge/bidforge/internal/llm"
)

func TestMockProviderCyclesResponses(t *testing.T) {
	provider := NewMockProvider([]string{`{"a": 1}`, `{"b": 2}`})
	req := llm.CompletionRequest{Model: "mock-model", Messages: []llm.Message{llm.NewUserMessage("hi")}}

	first, err := provider.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, first.Content)

	second, err := provider.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"b": 2}`, second.Content)

	third, err := provider.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, third.Content)
}

func TestMockProviderRecordsCalls(t *testing.T) {
	provider := NewMockProvider([]string{`{}`})
	req := llm.CompletionRequest{
		Model:       "mock-model",
		Messages:    []llm.Message{llm.NewSystemMessage("sys"), llm.NewUserMessage("user")},
		Temperature: 0.7,
	}

	_, err := provider.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, provider.CallCount())
	calls := provider.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, 0.7, calls[0].Request.Temperature)
	assert.Equal(t, "user", calls[0].Request.Messages[1].Content)
}

func TestFailingMockProvider(t *testing.T) {
	wantErr := errors.New("boom")
	provider := NewFailingMockProvider(wantErr)

	_, err := provider.Complete(context.Background(), llm.CompletionRequest{Model: "mock-model"})
	require.ErrorIs(t, err, wantErr)
	// Failed completions still count as calls.
	assert.Equal(t, 1, provider.CallCount())
}

func TestMockProviderReset(t *testing.T) {
	provider := NewMockProvider([]string{`{"a": 1}`, `{"b": 2}`})
	req := llm.CompletionRequest{Model: "mock-model"}

	_, _ = provider.Complete(context.Background(), req)
	_, _ = provider.Complete(context.Background(), req)
	provider.Reset()

	assert.Zero(t, provider.CallCount())
	resp, err := provider.Complete(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, resp.Content)
}
