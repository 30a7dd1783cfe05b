package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/types"
)

// Stage temperature defaults. Extraction runs cold so the model stays
// close to the document text; the assessment stages run warmer.
const (
	DefaultExtractionTemperature = 0.2
	DefaultStageTemperature      = 0.7
)

// StageConfig configures one pipeline stage. An empty model falls back
// to the provider's default model; a nil temperature falls back to the
// stage's default.
type StageConfig struct {
	Model       string   `yaml:"model,omitempty"`
	Temperature *float64 `yaml:"temperature,omitempty"`
}

// EffectiveTemperature returns the configured temperature or def.
func (s StageConfig) EffectiveTemperature(def float64) float64 {
	if s.Temperature != nil {
		return *s.Temperature
	}
	return def
}

// EffectiveModel returns the configured model or def.
func (s StageConfig) EffectiveModel(def string) string {
	if s.Model != "" {
		return s.Model
	}
	return def
}

// PipelineConfig configures the assessment pipeline.
type PipelineConfig struct {
	// ShortCircuit controls whether a disqualifying sales verdict ends
	// the pipeline before matching and pricing run. Nil means enabled.
	ShortCircuit *bool `yaml:"short_circuit,omitempty"`

	// Schema names the specification vocabulary records are normalized
	// against. Empty selects the cable vocabulary.
	Schema string `yaml:"schema,omitempty"`

	// MaxDocumentChars caps uploaded document text before extraction.
	// Zero selects the built-in default.
	MaxDocumentChars int `yaml:"max_document_chars,omitempty"`

	// DefaultCustomerType substitutes for records whose issuing entity
	// cannot be classified.
	DefaultCustomerType string `yaml:"default_customer_type,omitempty"`

	Extraction    StageConfig `yaml:"extraction,omitempty"`
	Qualification StageConfig `yaml:"qualification,omitempty"`
	Matching      StageConfig `yaml:"matching,omitempty"`
	Pricing       StageConfig `yaml:"pricing,omitempty"`
	Synthesis     StageConfig `yaml:"synthesis,omitempty"`
}

// ShortCircuitEnabled resolves the short-circuit toggle.
func (p *PipelineConfig) ShortCircuitEnabled() bool {
	if p.ShortCircuit == nil {
		return true
	}
	return *p.ShortCircuit
}

// Config is the root configuration.
type Config struct {
	Provider llm.ProviderConfig `yaml:"provider"`
	Pipeline PipelineConfig     `yaml:"pipeline"`

	// Budget optionally caps total spend across a processing run.
	Budget *llm.Budget `yaml:"budget,omitempty"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file is given: the
// Google provider with its flash-tier model, cable vocabulary, short
// circuit enabled.
func Default() *Config {
	return &Config{
		Provider: llm.ProviderConfig{
			Type:         llm.ProviderGoogle,
			DefaultModel: "gemini-1.5-flash-latest",
		},
		Pipeline: PipelineConfig{
			Schema:              "cable",
			DefaultCustomerType: "PSU",
		},
		LogLevel: "info",
	}
}

// Load reads and validates a YAML configuration file. Fields left unset
// keep the defaults from Default().
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(
			types.CONFIG_LOAD_FAILED,
			fmt.Sprintf("failed to read config file %s", path),
			err,
		)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, types.WrapError(
			types.CONFIG_PARSE_FAILED,
			fmt.Sprintf("failed to parse config file %s", path),
			err,
		)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usability.
func (c *Config) Validate() error {
	if err := c.Provider.Validate(); err != nil {
		return err
	}

	if c.Pipeline.MaxDocumentChars < 0 {
		return types.NewError(types.CONFIG_VALIDATION_FAILED, "max_document_chars cannot be negative")
	}

	for _, stage := range []struct {
		name string
		cfg  StageConfig
	}{
		{"extraction", c.Pipeline.Extraction},
		{"qualification", c.Pipeline.Qualification},
		{"matching", c.Pipeline.Matching},
		{"pricing", c.Pipeline.Pricing},
		{"synthesis", c.Pipeline.Synthesis},
	} {
		if t := stage.cfg.Temperature; t != nil && (*t < 0 || *t > 1) {
			return types.NewError(
				types.CONFIG_VALIDATION_FAILED,
				fmt.Sprintf("%s temperature %g outside [0,1]", stage.name, *t),
			)
		}
	}

	if c.Budget != nil {
		if c.Budget.MaxCost < 0 || c.Budget.MaxTotalTokens < 0 {
			return types.NewError(types.CONFIG_VALIDATION_FAILED, "budget limits cannot be negative")
		}
	}

	switch c.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return types.NewError(
			types.CONFIG_VALIDATION_FAILED,
			fmt.Sprintf("unknown log level %q", c.LogLevel),
		)
	}

	return nil
}
