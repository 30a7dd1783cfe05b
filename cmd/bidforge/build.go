package main

import (
	"log/slog"

	"github.com/bidforge/bidforge/internal/config"
	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/llm/providers"
	"github.com/bidforge/bidforge/internal/pipeline"
	"github.com/bidforge/bidforge/internal/rfp"
)

// buildPipeline assembles the provider, tracker, stages, and controller
// from configuration.
func buildPipeline(cfg *config.Config) (*pipeline.Controller, llm.TokenTracker, error) {
	registry := llm.NewLLMRegistry()
	built, err := providers.NewProvider(cfg.Provider)
	if err != nil {
		return nil, nil, err
	}
	if err := registry.RegisterProvider(built); err != nil {
		return nil, nil, err
	}
	provider, err := registry.GetProvider(built.Name())
	if err != nil {
		return nil, nil, err
	}

	schema, err := rfp.SchemaByName(cfg.Pipeline.Schema)
	if err != nil {
		return nil, nil, err
	}

	tracker := llm.NewTokenTracker(nil)
	logger := slog.Default()
	defaultModel := cfg.Provider.DefaultModel
	pc := cfg.Pipeline

	qualification := pipeline.NewQualificationStage(
		provider,
		pc.Qualification.EffectiveModel(defaultModel),
		pc.Qualification.EffectiveTemperature(config.DefaultStageTemperature),
		tracker, logger)
	matching := pipeline.NewMatchingStage(
		provider,
		pc.Matching.EffectiveModel(defaultModel),
		pc.Matching.EffectiveTemperature(config.DefaultStageTemperature),
		schema, tracker, logger)
	pricing := pipeline.NewPricingStage(
		provider,
		pc.Pricing.EffectiveModel(defaultModel),
		pc.Pricing.EffectiveTemperature(config.DefaultStageTemperature),
		schema, pc.DefaultCustomerType, tracker, logger)
	synthesis := pipeline.NewSynthesisStage(
		provider,
		pc.Synthesis.EffectiveModel(defaultModel),
		pc.Synthesis.EffectiveTemperature(config.DefaultStageTemperature),
		tracker, logger)
	extraction := pipeline.NewDocumentExtractionStage(
		provider,
		pc.Extraction.EffectiveModel(defaultModel),
		pc.Extraction.EffectiveTemperature(config.DefaultExtractionTemperature),
		schema, pc.MaxDocumentChars, tracker, logger)

	controller := pipeline.NewController(qualification, matching, pricing, synthesis,
		pipeline.WithLogger(logger),
		pipeline.WithShortCircuit(pc.ShortCircuitEnabled()),
		pipeline.WithExtraction(extraction),
	)

	return controller, tracker, nil
}
