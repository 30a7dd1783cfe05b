package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/bidforge/bidforge/internal/llm"
)

func TestToLangchainMessages(t *testing.T) {
	messages := []llm.Message{
		llm.NewSystemMessage("You are a pricing agent."),
		llm.NewUserMessage("Price these items."),
		{Role: llm.RoleAssistant, Content: "Done."},
	}

	converted := toLangchainMessages(messages)
	require.Len(t, converted, 3)
	assert.Equal(t, llms.ChatMessageTypeSystem, converted[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, converted[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, converted[2].Role)
}

func TestFromLangchainResponse(t *testing.T) {
	resp := &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:    `{"qualified": true}`,
				StopReason: "stop",
				GenerationInfo: map[string]any{
					"input_tokens":  150,
					"output_tokens": 42,
				},
			},
		},
	}

	out := fromLangchainResponse(resp, "gemini-1.5-flash-latest")
	assert.Equal(t, `{"qualified": true}`, out.Content)
	assert.Equal(t, "gemini-1.5-flash-latest", out.Model)
	assert.Equal(t, llm.FinishReasonStop, out.FinishReason)
	assert.Equal(t, 150, out.Usage.InputTokens)
	assert.Equal(t, 42, out.Usage.OutputTokens)
}

func TestFromLangchainResponseStopReasons(t *testing.T) {
	for reason, want := range map[string]llm.FinishReason{
		"length":         llm.FinishReasonLength,
		"max_tokens":     llm.FinishReasonLength,
		"content_filter": llm.FinishReasonContentFilter,
		"stop":           llm.FinishReasonStop,
	} {
		resp := &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{StopReason: reason}},
		}
		assert.Equal(t, want, fromLangchainResponse(resp, "m").FinishReason, reason)
	}
}

func TestFromLangchainResponseEmpty(t *testing.T) {
	out := fromLangchainResponse(nil, "m")
	assert.Empty(t, out.Content)
	assert.Equal(t, llm.FinishReasonStop, out.FinishReason)

	out = fromLangchainResponse(&llms.ContentResponse{}, "m")
	assert.Empty(t, out.Content)
}

func TestUsageFromGenerationInfoKeyVariants(t *testing.T) {
	tests := []struct {
		name string
		info map[string]any
		want llm.TokenUsage
	}{
		{"anthropic style", map[string]any{"input_tokens": 10, "output_tokens": 5}, llm.TokenUsage{InputTokens: 10, OutputTokens: 5}},
		{"openai style", map[string]any{"prompt_tokens": 7, "completion_tokens": 3}, llm.TokenUsage{InputTokens: 7, OutputTokens: 3}},
		{"exported keys", map[string]any{"PromptTokens": 4, "CompletionTokens": 2}, llm.TokenUsage{InputTokens: 4, OutputTokens: 2}},
		{"float values", map[string]any{"input_tokens": float64(9), "output_tokens": float64(1)}, llm.TokenUsage{InputTokens: 9, OutputTokens: 1}},
		{"nil info", nil, llm.TokenUsage{}},
		{"unknown keys", map[string]any{"tokens": 99}, llm.TokenUsage{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, usageFromGenerationInfo(tt.info))
		})
	}
}

func TestBuildCallOptions(t *testing.T) {
	opts := buildCallOptions(llm.CompletionRequest{Model: "m", Temperature: 0.5, MaxTokens: 100})
	assert.Len(t, opts, 3)

	opts = buildCallOptions(llm.CompletionRequest{})
	assert.Empty(t, opts)
}

func TestNewProviderFactory(t *testing.T) {
	provider, err := NewProvider(llm.ProviderConfig{Type: llm.ProviderMock, DefaultModel: "mock-model"})
	require.NoError(t, err)
	assert.Equal(t, "mock", provider.Name())

	_, err = NewProvider(llm.ProviderConfig{Type: "watson", DefaultModel: "m"})
	require.Error(t, err)
}
