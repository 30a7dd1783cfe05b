package rfp

import (
	"fmt"
	"strings"
	"time"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/types"
)

// Seed carries the caller-supplied minimal record fields used when the
// model output omits them: upload forms ask for title, entity, and due
// date up front, so extraction failures still yield attributable records.
type Seed struct {
	ID            types.ID
	Title         string
	DueDate       string
	IssuingEntity string
	Type          string
}

// withDefaults fills empty seed fields with usable values.
func (s Seed) withDefaults(now time.Time) Seed {
	if s.ID.IsZero() {
		s.ID = types.NewUploadID()
	}
	if s.Title == "" {
		s.Title = "Uploaded RFP"
	}
	if s.DueDate == "" {
		s.DueDate = now.Format("2006-01-02")
	}
	if s.IssuingEntity == "" {
		s.IssuingEntity = "Unknown"
	}
	return s
}

// FromDecoded builds a normalized Record from a decoded model response.
// Every field is read tolerantly with a default from the seed or the
// schema; item indices are reassigned sequentially, quantities are
// coerced to positive integers, and spec values are filled from the
// schema's sentinel defaults. Returns RFP_NO_ITEMS when the decoded
// item list is empty: a record with zero items is unusable downstream.
func FromDecoded(obj llm.Object, schema SpecSchema, seed Seed, now time.Time) (*Record, error) {
	seed = seed.withDefaults(now)

	record := &Record{
		ID:            types.ID(obj.Str("id", seed.ID.String())),
		Title:         obj.Str("title", seed.Title),
		DueDate:       obj.Str("due_date", seed.DueDate),
		Tests:         obj.StrSlice("tests", []string{}),
		IssuingEntity: obj.Str("issuing_entity", seed.IssuingEntity),
		Origin:        OriginUploaded,
		Type:          obj.Str("type", seed.Type),
	}

	for _, rawItem := range obj.ObjSlice("scope") {
		item := normalizeItem(rawItem, schema, len(record.Items)+1)
		if item.Description == "" {
			continue
		}
		record.Items = append(record.Items, item)
	}

	if len(record.Items) == 0 {
		return nil, types.NewError(
			types.RFP_NO_ITEMS,
			fmt.Sprintf("extraction for record %s yielded no usable line items", record.ID),
		)
	}

	return record, nil
}

// normalizeItem coerces one decoded line item. The index is assigned by
// position regardless of what the model emitted, keeping indices
// 1-based, unique, and order-preserving.
func normalizeItem(raw llm.Object, schema SpecSchema, index int) LineItem {
	qty := raw.Int("qty", 1)
	if qty < 1 {
		qty = 1
	}

	rawSpecs := raw.Obj("specs")
	specs := make(SpecBag, len(schema.Attributes))
	for _, attr := range schema.Attributes {
		specs[attr.Key] = rawSpecs.Num(attr.Key, attr.Default)
	}

	return LineItem{
		Index:       index,
		Description: raw.Str("description", ""),
		Quantity:    qty,
		Specs:       specs,
	}
}

// ClassifyCustomer derives the customer classification from the issuing
// entity name. Public-sector buyers run high-competition tenders, which
// feeds the pricing stage's competition assumption.
func ClassifyCustomer(issuingEntity string) string {
	entity := normalizeEntity(issuingEntity)
	switch {
	case containsAny(entity, "psu", "public sector"):
		return "PSU"
	case containsAny(entity, "government", "govt", "ministry", "municipal", "state electricity"):
		return "Government"
	case entity == "" || entity == "unknown":
		return "Unknown"
	default:
		return "Private"
	}
}

// CompetitionLevel maps a customer classification to the competition
// assumption the pricing prompt states.
func CompetitionLevel(customerType string) string {
	switch customerType {
	case "PSU", "Government":
		return "high"
	default:
		return "medium"
	}
}

func normalizeEntity(entity string) string {
	return strings.ToLower(strings.TrimSpace(entity))
}

func containsAny(s string, substrings ...string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
