package providers

import (
	"context"

	"github.com/tmc/langchaingo/llms/ollama"

	"github.com/bidforge/bidforge/internal/llm"
)

// OllamaProvider implements LLMProvider for locally hosted models via
// Ollama. Useful for air-gapped deployments and offline development.
type OllamaProvider struct {
	client *ollama.LLM
	config llm.ProviderConfig
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(cfg llm.ProviderConfig) (*OllamaProvider, error) {
	opts := []ollama.Option{}

	if cfg.DefaultModel != "" {
		opts = append(opts, ollama.WithModel(cfg.DefaultModel))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, ollama.WithServerURL(cfg.BaseURL))
	}

	client, err := ollama.New(opts...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return &OllamaProvider{client: client, config: cfg}, nil
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Models returns information about available models. Ollama serves
// whatever is pulled locally; only the configured default is reported.
func (p *OllamaProvider) Models(ctx context.Context) ([]llm.ModelInfo, error) {
	name := p.config.DefaultModel
	if name == "" {
		name = "llama3"
	}
	return []llm.ModelInfo{
		{
			Name:          name,
			ContextWindow: 8192,
			MaxOutput:     4096,
			Features:      []string{"chat"},
		},
	}, nil
}

// Complete sends a completion request
func (p *OllamaProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, p.config.EffectiveTimeout())
	defer cancel()

	resp, err := p.client.GenerateContent(ctx, toLangchainMessages(req.Messages), buildCallOptions(req)...)
	if err != nil {
		return nil, llm.TranslateError("ollama", err)
	}

	return fromLangchainResponse(resp, req.Model), nil
}
