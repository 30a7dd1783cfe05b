package pipeline

import (
	"fmt"

	"github.com/bidforge/bidforge/internal/types"
)

// Priority ranks a qualified RFP's strategic value.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// IsValid checks if the priority is a known value
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// QualificationResult is the sales verdict on whether an RFP is worth
// pursuing. Immutable once produced; the controller reads only
// Qualified to decide whether to continue.
type QualificationResult struct {
	Qualified      bool     `json:"qualified"`
	Priority       Priority `json:"priority"`
	WinProbability float64  `json:"winProbability"`
	Reasoning      string   `json:"reasoning"`
	KeyFactors     []string `json:"keyFactors"`
}

// MatchTier classifies how well a catalog capability satisfies a
// requested line item.
type MatchTier string

const (
	MatchExact MatchTier = "exact"
	MatchNear  MatchTier = "near"
	MatchGap   MatchTier = "gap"
)

// IsValid checks if the match tier is a known value
func (t MatchTier) IsValid() bool {
	switch t {
	case MatchExact, MatchNear, MatchGap:
		return true
	default:
		return false
	}
}

// ItemMatch records the match outcome for one line item.
type ItemMatch struct {
	ItemIndex    int       `json:"itemId"`
	Tier         MatchTier `json:"matchType"`
	ProductMatch string    `json:"productMatch"`
}

// MatchResult is the technical assessment of the full line-item list
// against the capability catalog.
type MatchResult struct {
	MatchConfidence float64     `json:"matchConfidence"`
	MatchedItems    int         `json:"matchedItems"`
	TotalItems      int         `json:"totalItems"`
	Matches         []ItemMatch `json:"matches"`
	Gaps            []string    `json:"gaps"`
	Recommendations string      `json:"recommendations"`
}

// Validate checks the match-count invariant against the number of line
// items that were assessed. Violations indicate broken stage logic and
// are treated by the controller like any other stage failure.
func (r *MatchResult) Validate(itemCount int) error {
	if r.TotalItems != itemCount {
		return types.NewError(
			types.PIPELINE_INVARIANT_VIOLATED,
			fmt.Sprintf("totalItems=%d but record has %d line items", r.TotalItems, itemCount),
		)
	}
	if r.MatchedItems < 0 || r.MatchedItems > r.TotalItems {
		return types.NewError(
			types.PIPELINE_INVARIANT_VIOLATED,
			fmt.Sprintf("matchedItems=%d out of range [0,%d]", r.MatchedItems, r.TotalItems),
		)
	}
	for _, m := range r.Matches {
		if m.ItemIndex < 1 || m.ItemIndex > itemCount {
			return types.NewError(
				types.PIPELINE_INVARIANT_VIOLATED,
				fmt.Sprintf("match references item index %d outside record range [1,%d]", m.ItemIndex, itemCount),
			)
		}
	}
	return nil
}

// PricingResult is the cost/margin/bid model for the matched items.
type PricingResult struct {
	TotalMaterialCost   float64 `json:"totalMaterialCost"`
	OverheadCost        float64 `json:"overheadCost"`
	RecommendedMargin   float64 `json:"recommendedMargin"`
	FinalBidPrice       float64 `json:"finalBidPrice"`
	PricePerUnit        float64 `json:"pricePerUnit"`
	CompetitiveAnalysis string  `json:"competitiveAnalysis"`
	MarginJustification string  `json:"marginJustification"`
}

// DecisionKind is the terminal verdict on an RFP.
type DecisionKind string

const (
	DecisionProceed DecisionKind = "proceed"
	DecisionReview  DecisionKind = "review"
	DecisionReject  DecisionKind = "reject"
)

// IsValid checks if the decision kind is a known value
func (d DecisionKind) IsValid() bool {
	switch d {
	case DecisionProceed, DecisionReview, DecisionReject:
		return true
	default:
		return false
	}
}

// StageTimings records wall-clock duration per stage in milliseconds.
// Total is the sum of the stage durations: stages run sequentially on a
// single path, so the sum is the pipeline's own elapsed time.
type StageTimings struct {
	QualificationMs int64 `json:"qualificationMs"`
	MatchingMs      int64 `json:"matchingMs"`
	PricingMs       int64 `json:"pricingMs"`
	SynthesisMs     int64 `json:"synthesisMs"`
	ExtractionMs    int64 `json:"extractionMs,omitempty"`
	TotalMs         int64 `json:"totalMs"`
}

// Decision is the single artifact a pipeline invocation hands back.
// Every code path produces exactly one Decision; there is no partial or
// undefined terminal state. Sub-results are nil when the pipeline
// short-circuited before their stage ran.
type Decision struct {
	Decision         DecisionKind `json:"decision"`
	Confidence       float64      `json:"confidence"`
	Risks            []string     `json:"risks"`
	NextSteps        []string     `json:"nextSteps"`
	Timeline         string       `json:"timeline"`
	ApprovalRequired []string     `json:"approvalRequired"`
	ExecutiveSummary string       `json:"executiveSummary"`

	Qualification *QualificationResult `json:"salesResult,omitempty"`
	Match         *MatchResult         `json:"techResult,omitempty"`
	Pricing       *PricingResult       `json:"pricingResult,omitempty"`

	Timings StageTimings `json:"timings"`

	// FailureCause carries the raw failure behind a guard-produced
	// review decision, for diagnostics only.
	FailureCause string `json:"error,omitempty"`
}
