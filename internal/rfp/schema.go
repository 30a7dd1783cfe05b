package rfp

import (
	"fmt"
	"strings"

	"github.com/bidforge/bidforge/internal/types"
)

// SpecAttribute describes one recognized specification attribute of a
// domain vocabulary: its key in the SpecBag, a human label used when
// rendering prompts, the sentinel default substituted when extraction
// cannot determine a value, and the per-unit cost the linear pricing
// model assigns to it.
type SpecAttribute struct {
	Key     string  `yaml:"key"`
	Label   string  `yaml:"label"`
	Unit    string  `yaml:"unit"`
	Default float64 `yaml:"default"`
	// UnitCost is the coefficient in the linear cost model:
	// itemCost = qty x sum(attr.value x attr.UnitCost).
	UnitCost float64 `yaml:"unit_cost"`
}

// SpecSchema is a versioned specification vocabulary for one RFP
// domain. The vocabulary used to live only in prompt prose; making it an
// explicit value lets extraction, matching, and pricing all render from
// the same source and lets new domains ship without touching stage code.
type SpecSchema struct {
	Name       string          `yaml:"name"`
	Version    int             `yaml:"version"`
	Attributes []SpecAttribute `yaml:"attributes"`
}

// CableSchema is the vocabulary for cable and wire RFPs: numeric
// electrical specs with the unit costs the pricing model was calibrated
// against.
func CableSchema() SpecSchema {
	return SpecSchema{
		Name:    "cable",
		Version: 1,
		Attributes: []SpecAttribute{
			{Key: "size", Label: "conductor size", Unit: "mm2", Default: 4, UnitCost: 120},
			{Key: "rating", Label: "voltage rating", Unit: "kV", Default: 1, UnitCost: 45},
			// Insulation is extracted for matching but carries no cost
			// coefficient; the calibrated model prices on conductor size
			// and voltage rating only.
			{Key: "coating", Label: "insulation thickness", Unit: "mm", Default: 1.0, UnitCost: 0},
		},
	}
}

// GeneralSchema is the vocabulary for catalog RFPs outside the cable
// domain (paints, supplies, services). The attribute set is the same so
// the pricing model stays defined; extraction simply leaves everything
// at the sentinel defaults.
func GeneralSchema() SpecSchema {
	schema := CableSchema()
	schema.Name = "general"
	return schema
}

// SchemaByName resolves a vocabulary by name.
// Returns RFP_SCHEMA_UNKNOWN for names no vocabulary is registered under.
func SchemaByName(name string) (SpecSchema, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "cable":
		return CableSchema(), nil
	case "general":
		return GeneralSchema(), nil
	default:
		return SpecSchema{}, types.NewError(
			types.RFP_SCHEMA_UNKNOWN,
			fmt.Sprintf("no specification vocabulary named %q", name),
		)
	}
}

// Attribute returns the attribute with the given key, if present.
func (s SpecSchema) Attribute(key string) (SpecAttribute, bool) {
	for _, attr := range s.Attributes {
		if attr.Key == key {
			return attr, true
		}
	}
	return SpecAttribute{}, false
}

// DefaultSpecs returns a SpecBag holding every attribute's sentinel
// default.
func (s SpecSchema) DefaultSpecs() SpecBag {
	bag := make(SpecBag, len(s.Attributes))
	for _, attr := range s.Attributes {
		bag[attr.Key] = attr.Default
	}
	return bag
}

// PromptVocabulary renders the attribute list for inclusion in an
// extraction or pricing instruction, one attribute per line:
// "- size: conductor size in mm2 (default 4)".
func (s SpecSchema) PromptVocabulary() string {
	var b strings.Builder
	for _, attr := range s.Attributes {
		fmt.Fprintf(&b, "- %s: %s in %s (default %g)\n", attr.Key, attr.Label, attr.Unit, attr.Default)
	}
	return strings.TrimRight(b.String(), "\n")
}

// CostModelDescription renders the linear cost model for the pricing
// instruction: the same formula the deterministic fallback computes.
func (s SpecSchema) CostModelDescription() string {
	var b strings.Builder
	for _, attr := range s.Attributes {
		if attr.UnitCost == 0 {
			continue
		}
		fmt.Fprintf(&b, "- %s cost: %s x %g per unit\n", attr.Label, attr.Key, attr.UnitCost)
	}
	return strings.TrimRight(b.String(), "\n")
}

// ItemCost evaluates the linear cost model for one line item:
// qty x sum over attributes of (spec value x unit cost). Missing spec
// values fall back to the attribute default.
func (s SpecSchema) ItemCost(item LineItem) float64 {
	perUnit := 0.0
	for _, attr := range s.Attributes {
		perUnit += item.Specs.Get(attr.Key, attr.Default) * attr.UnitCost
	}
	return float64(item.Quantity) * perUnit
}
