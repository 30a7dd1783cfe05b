package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/bidforge/bidforge/internal/llm"
)

// MockCall represents a recorded call to the mock provider
type MockCall struct {
	Request llm.CompletionRequest
}

// MockProvider implements LLMProvider for testing. Responses are
// scripted and every request is recorded, so tests can assert both what
// was asked and how many completions each pipeline path issued.
type MockProvider struct {
	mu            sync.Mutex
	responses     []string
	responseIndex int
	calls         []MockCall
	err           error
}

// NewMockProvider creates a mock provider that cycles through the given
// responses.
func NewMockProvider(responses []string) *MockProvider {
	return &MockProvider{
		responses: responses,
		calls:     make([]MockCall, 0),
	}
}

// NewFailingMockProvider creates a mock provider whose every completion
// fails with err. Used to force the fallback path in stage tests.
func NewFailingMockProvider(err error) *MockProvider {
	return &MockProvider{
		calls: make([]MockCall, 0),
		err:   err,
	}
}

// Name returns the provider name
func (p *MockProvider) Name() string {
	return "mock"
}

// Models returns mock model information
func (p *MockProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	return []llm.ModelInfo{
		{
			Name:          "mock-model",
			ContextWindow: 4096,
			MaxOutput:     2048,
			Features:      []string{"chat", "json_mode"},
		},
	}, nil
}

// Complete generates a scripted completion
func (p *MockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls = append(p.calls, MockCall{Request: req})

	if p.err != nil {
		return nil, p.err
	}

	if len(p.responses) == 0 {
		return nil, llm.NewCompletionError("no responses configured", fmt.Errorf("mock provider is empty"))
	}

	response := p.responses[p.responseIndex%len(p.responses)]
	p.responseIndex++

	return &llm.CompletionResponse{
		ID:           uuid.New().String(),
		Model:        req.Model,
		Content:      response,
		FinishReason: llm.FinishReasonStop,
		Usage: llm.TokenUsage{
			InputTokens:  10,
			OutputTokens: len(response) / 4,
		},
	}, nil
}

// Calls returns a copy of all recorded calls
func (p *MockProvider) Calls() []MockCall {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]MockCall, len(p.calls))
	copy(out, p.calls)
	return out
}

// CallCount returns the number of completions requested so far
func (p *MockProvider) CallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

// Reset clears recorded calls and rewinds the response script
func (p *MockProvider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = p.calls[:0]
	p.responseIndex = 0
}
