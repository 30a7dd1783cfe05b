package pipeline

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/prompt"
	"github.com/bidforge/bidforge/internal/rfp"
	"github.com/bidforge/bidforge/internal/types"
)

// DefaultMaxDocumentChars caps how much document text reaches the
// extraction prompt. Longer documents are truncated, not rejected.
const DefaultMaxDocumentChars = 15000

var (
	crlfPattern     = regexp.MustCompile(`\r\n?`)
	spaceRunPattern = regexp.MustCompile(`[ \t]+`)
	blankRunPattern = regexp.MustCompile(`\n{3,}`)
)

// DocumentExtractionStage turns raw document text into a normalized RFP
// record. Unlike the assessment stages it has no synthetic result to
// fall back to: on failure it returns the error and the caller decides
// whether to retry (bounded, outside this core) or surface the failure.
type DocumentExtractionStage struct {
	completer
	schema   rfp.SpecSchema
	template prompt.Template
	maxChars int
}

// NewDocumentExtractionStage creates an extraction stage bound to one
// provider, model, and specification vocabulary. maxChars <= 0 selects
// DefaultMaxDocumentChars.
func NewDocumentExtractionStage(provider llm.LLMProvider, model string, temperature float64, schema rfp.SpecSchema, maxChars int, tracker llm.TokenTracker, logger *slog.Logger) *DocumentExtractionStage {
	if logger == nil {
		logger = slog.Default()
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxDocumentChars
	}
	return &DocumentExtractionStage{
		completer: completer{
			provider:    provider,
			model:       model,
			temperature: temperature,
			tracker:     tracker,
			logger:      logger.With("component", "extraction"),
		},
		schema:   schema,
		template: prompt.Extraction(schema.PromptVocabulary()),
		maxChars: maxChars,
	}
}

// Extract issues one completion and normalizes the decoded record.
// The seed supplies identity and header fields the model output may
// omit. Fails with RFP_NO_ITEMS when the normalized line-item list is
// empty: a record with zero items is unusable downstream.
func (s *DocumentExtractionStage) Extract(ctx context.Context, text string, seed rfp.Seed) (*rfp.Record, error) {
	cleaned := CleanDocument(text, s.maxChars)

	recordID := seed.ID
	if recordID.IsZero() {
		recordID = types.NewUploadID()
		seed.ID = recordID
	}

	slots := map[string]string{
		"document": cleaned,
	}

	obj, err := s.complete(ctx, recordID, "extraction", s.template, slots)
	if err != nil {
		return nil, err
	}

	record, err := rfp.FromDecoded(obj, s.schema, seed, time.Now())
	if err != nil {
		s.logger.Warn("extracted record unusable", "record", recordID, "error", err)
		return nil, err
	}

	s.logger.Info("document extracted",
		"record", record.ID,
		"items", len(record.Items),
		"chars", len(cleaned))
	return record, nil
}

// CleanDocument normalizes line endings, collapses whitespace runs, and
// truncates to the character budget.
func CleanDocument(text string, maxChars int) string {
	text = crlfPattern.ReplaceAllString(text, "\n")
	text = spaceRunPattern.ReplaceAllString(text, " ")
	text = blankRunPattern.ReplaceAllString(text, "\n\n")
	text = strings.TrimSpace(text)

	if maxChars > 0 && len(text) > maxChars {
		text = text[:maxChars]
	}
	return text
}
