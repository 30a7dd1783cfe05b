package rfp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidforge/bidforge/internal/types"
)

func TestSchemaByName(t *testing.T) {
	tests := []struct {
		input    string
		wantName string
		wantErr  bool
	}{
		{"cable", "cable", false},
		{"", "cable", false},
		{"CABLE", "cable", false},
		{" general ", "general", false},
		{"textiles", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			schema, err := SchemaByName(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, types.RFP_SCHEMA_UNKNOWN, types.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, schema.Name)
			assert.Equal(t, 1, schema.Version)
		})
	}
}

func TestSchemaDefaultSpecs(t *testing.T) {
	specs := CableSchema().DefaultSpecs()
	assert.Equal(t, SpecBag{"size": 4, "rating": 1, "coating": 1.0}, specs)
}

func TestSchemaAttribute(t *testing.T) {
	schema := CableSchema()

	attr, ok := schema.Attribute("size")
	require.True(t, ok)
	assert.Equal(t, 120.0, attr.UnitCost)

	_, ok = schema.Attribute("color")
	assert.False(t, ok)
}

func TestSchemaPromptVocabulary(t *testing.T) {
	vocab := CableSchema().PromptVocabulary()
	assert.Contains(t, vocab, "- size: conductor size in mm2 (default 4)")
	assert.Contains(t, vocab, "- rating: voltage rating in kV (default 1)")
	assert.Contains(t, vocab, "- coating: insulation thickness in mm (default 1)")
}

func TestSchemaCostModelDescription(t *testing.T) {
	desc := CableSchema().CostModelDescription()
	assert.Contains(t, desc, "- conductor size cost: size x 120 per unit")
	assert.Contains(t, desc, "- voltage rating cost: rating x 45 per unit")
	// Insulation carries no cost coefficient and must not appear.
	assert.NotContains(t, desc, "insulation")
}

func TestSchemaItemCost(t *testing.T) {
	schema := CableSchema()

	t.Run("explicit specs", func(t *testing.T) {
		item := LineItem{
			Quantity: 2,
			Specs:    SpecBag{"size": 16, "rating": 11, "coating": 1.2},
		}
		// 2 x (16*120 + 11*45) = 4830; coating contributes nothing.
		assert.InDelta(t, 4830, schema.ItemCost(item), 1e-9)
	})

	t.Run("missing specs use defaults", func(t *testing.T) {
		item := LineItem{Quantity: 10, Specs: SpecBag{}}
		// 10 x (4*120 + 1*45) = 5250
		assert.InDelta(t, 5250, schema.ItemCost(item), 1e-9)
	})
}
