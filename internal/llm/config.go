package llm

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bidforge/bidforge/internal/types"
)

// ProviderType represents the type of LLM provider.
type ProviderType string

const (
	ProviderGoogle    ProviderType = "google"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderOpenAI    ProviderType = "openai"
	ProviderOllama    ProviderType = "ollama"
	ProviderMock      ProviderType = "mock"
)

// IsValid checks if the provider type is a known value.
func (t ProviderType) IsValid() bool {
	switch t {
	case ProviderGoogle, ProviderAnthropic, ProviderOpenAI, ProviderOllama, ProviderMock:
		return true
	default:
		return false
	}
}

// DefaultCompletionTimeout bounds a single model call. The upstream
// behavior specified no budget; 30s covers the typical single-digit
// second completion while guaranteeing the pipeline never hangs. Expiry
// surfaces as a completion failure and triggers the stage fallback.
const DefaultCompletionTimeout = 30 * time.Second

// ProviderConfig contains configuration for a specific LLM provider.
type ProviderConfig struct {
	Type         ProviderType `yaml:"type"`
	APIKey       string       `yaml:"api_key"`
	BaseURL      string       `yaml:"base_url"`
	DefaultModel string       `yaml:"default_model"`

	// Timeout bounds each completion call. Zero means
	// DefaultCompletionTimeout.
	Timeout time.Duration `yaml:"timeout"`
}

// UnmarshalYAML decodes the config with timeout given as a duration
// string ("30s", "2m"). Fields absent from the document keep their
// current values, so defaults survive partial configs.
func (p *ProviderConfig) UnmarshalYAML(value *yaml.Node) error {
	type raw struct {
		Type         ProviderType `yaml:"type"`
		APIKey       string       `yaml:"api_key"`
		BaseURL      string       `yaml:"base_url"`
		DefaultModel string       `yaml:"default_model"`
		Timeout      string       `yaml:"timeout"`
	}

	r := raw{
		Type:         p.Type,
		APIKey:       p.APIKey,
		BaseURL:      p.BaseURL,
		DefaultModel: p.DefaultModel,
	}
	if err := value.Decode(&r); err != nil {
		return err
	}

	p.Type = r.Type
	p.APIKey = r.APIKey
	p.BaseURL = r.BaseURL
	p.DefaultModel = r.DefaultModel

	if r.Timeout != "" {
		d, err := time.ParseDuration(r.Timeout)
		if err != nil {
			return types.WrapError(
				types.CONFIG_PARSE_FAILED,
				fmt.Sprintf("invalid timeout %q", r.Timeout),
				err,
			)
		}
		p.Timeout = d
	}

	return nil
}

// Validate performs validation on the ProviderConfig.
func (p *ProviderConfig) Validate() error {
	if p.Type == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "provider type cannot be empty")
	}
	if !p.Type.IsValid() {
		return types.NewError(
			types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown provider type %q", p.Type),
		)
	}
	if p.DefaultModel == "" {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "default_model cannot be empty")
	}
	if p.Timeout < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "timeout cannot be negative")
	}
	return nil
}

// EffectiveTimeout returns the configured timeout or the default.
func (p *ProviderConfig) EffectiveTimeout() time.Duration {
	if p.Timeout > 0 {
		return p.Timeout
	}
	return DefaultCompletionTimeout
}
