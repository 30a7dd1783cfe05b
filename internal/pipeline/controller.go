package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bidforge/bidforge/internal/rfp"
	"github.com/bidforge/bidforge/internal/types"
)

// Controller sequences the assessment stages over one normalized record
// and guarantees exactly one Decision per invocation, whatever happens
// inside the stages.
type Controller struct {
	qualification *QualificationStage
	matching      *MatchingStage
	pricing       *PricingStage
	synthesis     *SynthesisStage
	extraction    *DocumentExtractionStage

	shortCircuit bool
	logger       *slog.Logger
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithShortCircuit controls whether a disqualifying sales verdict ends
// the pipeline immediately. Enabled by default; disabling it runs all
// four stages regardless, which is useful when the downstream consumer
// wants the full assessment even for rejected RFPs.
func WithShortCircuit(enabled bool) ControllerOption {
	return func(c *Controller) {
		c.shortCircuit = enabled
	}
}

// WithExtraction attaches a document extraction stage, enabling
// ProcessDocument.
func WithExtraction(stage *DocumentExtractionStage) ControllerOption {
	return func(c *Controller) {
		c.extraction = stage
	}
}

// NewController assembles a pipeline from its stages.
func NewController(qualification *QualificationStage, matching *MatchingStage, pricing *PricingStage, synthesis *SynthesisStage, opts ...ControllerOption) *Controller {
	c := &Controller{
		qualification: qualification,
		matching:      matching,
		pricing:       pricing,
		synthesis:     synthesis,
		shortCircuit:  true,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("component", "pipeline")
	return c
}

// Process runs the full assessment over an already-normalized record:
// qualification, then matching and pricing, then synthesis. It always
// returns a Decision; stage failures are absorbed by the stages' own
// fallbacks, and anything that escapes them is caught by the outer
// guard and converted into a review decision.
func (c *Controller) Process(ctx context.Context, record *rfp.Record) (decision *Decision) {
	var timings StageTimings

	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("pipeline panicked", "record", recordIDOf(record), "panic", r)
			decision = reviewFallback()
			decision.FailureCause = types.NewError(
				types.PIPELINE_PANIC,
				fmt.Sprintf("panic: %v", r),
			).Error()
			timings.TotalMs = sumTimings(timings)
			decision.Timings = timings
		}
	}()

	if record == nil {
		decision = reviewFallback()
		decision.FailureCause = "no record to process"
		return decision
	}
	if err := record.Validate(); err != nil {
		c.logger.Warn("record failed validation", "record", record.ID, "error", err)
		decision = reviewFallback()
		decision.FailureCause = err.Error()
		return decision
	}

	c.logger.Info("pipeline started",
		"record", record.ID,
		"items", len(record.Items),
		"short_circuit", c.shortCircuit)

	start := time.Now()
	qual := c.qualification.Qualify(ctx, record)
	timings.QualificationMs = msSince(start)

	if c.shortCircuit && !qual.Qualified {
		timings.TotalMs = sumTimings(timings)
		decision = rejectDecision(record, qual)
		decision.Timings = timings
		c.logger.Info("pipeline short-circuited",
			"record", record.ID,
			"decision", decision.Decision,
			"total_ms", timings.TotalMs)
		return decision
	}

	start = time.Now()
	match := c.matching.Match(ctx, record)
	timings.MatchingMs = msSince(start)

	start = time.Now()
	pricing := c.pricing.Price(ctx, record)
	timings.PricingMs = msSince(start)

	start = time.Now()
	decision = c.synthesis.Synthesize(ctx, record, qual, match, pricing)
	timings.SynthesisMs = msSince(start)

	timings.TotalMs = sumTimings(timings)
	decision.Qualification = qual
	decision.Match = match
	decision.Pricing = pricing
	decision.Timings = timings

	c.logger.Info("pipeline completed",
		"record", record.ID,
		"decision", decision.Decision,
		"confidence", decision.Confidence,
		"total_ms", timings.TotalMs)
	return decision
}

// Extract runs only the document extraction stage.
func (c *Controller) Extract(ctx context.Context, text string, seed rfp.Seed) (*rfp.Record, error) {
	if c.extraction == nil {
		return nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "controller has no extraction stage")
	}
	return c.extraction.Extract(ctx, text, seed)
}

// ProcessDocument extracts a record from raw document text and then
// runs the full assessment over it. Extraction has no fallback shape,
// so its failure is the one path that yields an error instead of a
// Decision.
func (c *Controller) ProcessDocument(ctx context.Context, text string, seed rfp.Seed) (*rfp.Record, *Decision, error) {
	if c.extraction == nil {
		return nil, nil, types.NewError(types.CONFIG_VALIDATION_FAILED, "controller has no extraction stage")
	}

	start := time.Now()
	record, err := c.extraction.Extract(ctx, text, seed)
	extractionMs := msSince(start)
	if err != nil {
		return nil, nil, err
	}

	decision := c.Process(ctx, record)
	decision.Timings.ExtractionMs = extractionMs
	decision.Timings.TotalMs += extractionMs
	return record, decision, nil
}

// rejectDecision is the terminal shape for an RFP the sales assessment
// disqualified. Matching and pricing never ran, so their sub-results
// stay nil.
func rejectDecision(record *rfp.Record, qual *QualificationResult) *Decision {
	return &Decision{
		Decision:         DecisionReject,
		Confidence:       90,
		Risks:            []string{"Not qualified by sales assessment"},
		NextSteps:        []string{"Document rejection reasons", "Archive RFP"},
		Timeline:         "Immediate",
		ApprovalRequired: []string{},
		ExecutiveSummary: fmt.Sprintf("RFP %s rejected based on sales qualification. %s", record.ID, qual.Reasoning),
		Qualification:    qual,
	}
}

func recordIDOf(record *rfp.Record) string {
	if record == nil {
		return ""
	}
	return record.ID.String()
}

func msSince(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

func sumTimings(t StageTimings) int64 {
	return t.QualificationMs + t.MatchingMs + t.PricingMs + t.SynthesisMs + t.ExtractionMs
}
