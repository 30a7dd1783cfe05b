package rfp

import (
	"fmt"
	"strings"
	"time"

	"github.com/bidforge/bidforge/internal/types"
)

// Origin marks where a record came from.
type Origin string

const (
	OriginCatalog  Origin = "catalog"
	OriginUploaded Origin = "uploaded"
	OriginUnknown  Origin = "unknown"
)

// SpecBag holds the numeric specification attributes of a line item,
// keyed by schema attribute key. Attributes the extractor could not
// determine hold the schema's sentinel default rather than being absent.
type SpecBag map[string]float64

// Get returns the attribute value, or def when the key is absent.
func (b SpecBag) Get(key string, def float64) float64 {
	if v, ok := b[key]; ok {
		return v
	}
	return def
}

// LineItem is a single requested item within an RFP.
type LineItem struct {
	// Index is 1-based and unique within the record, preserving the
	// order items appear in the source document.
	Index       int     `json:"item_id" yaml:"item_id"`
	Description string  `json:"description" yaml:"description"`
	Quantity    int     `json:"qty" yaml:"qty"`
	Specs       SpecBag `json:"specs" yaml:"specs"`
}

// Record is a normalized RFP: the single input shape the pipeline
// processes, whether it originated as a catalog entry or was extracted
// from an uploaded document.
type Record struct {
	ID                types.ID   `json:"id" yaml:"id"`
	Title             string     `json:"title" yaml:"title"`
	DueDate           string     `json:"due_date" yaml:"due_date"`
	DueDateOffsetDays int        `json:"due_date_offset_days,omitempty" yaml:"due_date_offset_days,omitempty"`
	Items             []LineItem `json:"scope" yaml:"scope"`
	Tests             []string   `json:"tests" yaml:"tests"`
	IssuingEntity     string     `json:"issuing_entity,omitempty" yaml:"issuing_entity,omitempty"`
	Origin            Origin     `json:"origin" yaml:"origin"`
	Type              string     `json:"type,omitempty" yaml:"type,omitempty"`
}

// Validate checks that the record is processable: a valid ID, at least
// one line item, positive quantities, and strictly increasing 1-based
// item indices.
func (r *Record) Validate() error {
	if err := r.ID.Validate(); err != nil {
		return err
	}

	if len(r.Items) == 0 {
		return types.NewError(types.RFP_NO_ITEMS, fmt.Sprintf("record %s has no line items", r.ID))
	}

	for i, item := range r.Items {
		if item.Index != i+1 {
			return types.NewError(
				types.RFP_INVALID,
				fmt.Sprintf("record %s: item at position %d has index %d, want %d", r.ID, i, item.Index, i+1),
			)
		}
		if item.Quantity <= 0 {
			return types.NewError(
				types.RFP_INVALID,
				fmt.Sprintf("record %s: item %d has non-positive quantity %d", r.ID, item.Index, item.Quantity),
			)
		}
	}

	return nil
}

// TotalQuantity sums the quantities of all line items.
func (r *Record) TotalQuantity() int {
	total := 0
	for _, item := range r.Items {
		total += item.Quantity
	}
	return total
}

// ScopeSummary condenses the first maxItems line items into a single
// line for prompt context: "desc (Qty: n); desc (Qty: n)". Qualification
// only needs a taste of the scope, not the whole item list.
func (r *Record) ScopeSummary(maxItems int) string {
	n := len(r.Items)
	if maxItems > 0 && n > maxItems {
		n = maxItems
	}

	parts := make([]string, 0, n)
	for _, item := range r.Items[:n] {
		parts = append(parts, fmt.Sprintf("%s (Qty: %d)", item.Description, item.Quantity))
	}
	return strings.Join(parts, "; ")
}

// ResolveDueDate fills in DueDate from DueDateOffsetDays relative to
// now. Catalog records carry relative offsets so demo data never goes
// stale; absolute dates on uploaded records are left untouched.
func (r *Record) ResolveDueDate(now time.Time) {
	if r.DueDate != "" {
		return
	}
	r.DueDate = now.AddDate(0, 0, r.DueDateOffsetDays).Format("2006-01-02")
}
