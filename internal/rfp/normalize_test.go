package rfp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/types"
)

var normalizeNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func TestFromDecoded(t *testing.T) {
	obj := llm.Object{
		"title":          "Supply of MV Cables",
		"due_date":       "2026-10-01",
		"issuing_entity": "State Electricity Board",
		"tests":          []any{"High voltage test"},
		"scope": []any{
			map[string]any{
				"description": "XLPE cable 16mm2",
				"qty":         float64(500),
				"specs":       map[string]any{"size": float64(16), "rating": float64(11)},
			},
			map[string]any{
				"description": "Control cable",
				// qty and specs omitted entirely
			},
		},
	}

	record, err := FromDecoded(obj, CableSchema(), Seed{}, normalizeNow)
	require.NoError(t, err)

	assert.Equal(t, "Supply of MV Cables", record.Title)
	assert.Equal(t, "2026-10-01", record.DueDate)
	assert.Equal(t, OriginUploaded, record.Origin)
	assert.Equal(t, []string{"High voltage test"}, record.Tests)
	require.NoError(t, record.Validate())

	require.Len(t, record.Items, 2)
	first := record.Items[0]
	assert.Equal(t, 1, first.Index)
	assert.Equal(t, 500, first.Quantity)
	assert.Equal(t, 16.0, first.Specs.Get("size", 0))
	assert.Equal(t, 11.0, first.Specs.Get("rating", 0))
	// Unstated attributes get the schema default.
	assert.Equal(t, 1.0, first.Specs.Get("coating", 0))

	second := record.Items[1]
	assert.Equal(t, 2, second.Index)
	assert.Equal(t, 1, second.Quantity)
	assert.Equal(t, 4.0, second.Specs.Get("size", 0))
}

func TestFromDecodedSeedFallbacks(t *testing.T) {
	obj := llm.Object{
		"scope": []any{
			map[string]any{"description": "Cable drum", "qty": float64(3)},
		},
	}

	seed := Seed{Title: "Uploaded Tender", IssuingEntity: "Metro Rail Corp", DueDate: "2026-11-30"}
	record, err := FromDecoded(obj, CableSchema(), seed, normalizeNow)
	require.NoError(t, err)

	assert.Equal(t, "Uploaded Tender", record.Title)
	assert.Equal(t, "Metro Rail Corp", record.IssuingEntity)
	assert.Equal(t, "2026-11-30", record.DueDate)
	assert.True(t, record.ID.Validate() == nil)
}

func TestFromDecodedGeneratesUploadID(t *testing.T) {
	obj := llm.Object{
		"scope": []any{map[string]any{"description": "Item", "qty": float64(1)}},
	}

	record, err := FromDecoded(obj, CableSchema(), Seed{}, normalizeNow)
	require.NoError(t, err)
	assert.Regexp(t, `^RFP-UPLOAD-[0-9a-f]{8}$`, record.ID.String())
}

func TestFromDecodedEmptyItems(t *testing.T) {
	tests := []struct {
		name string
		obj  llm.Object
	}{
		{"no scope key", llm.Object{"title": "Empty"}},
		{"empty scope", llm.Object{"scope": []any{}}},
		{"items without descriptions", llm.Object{"scope": []any{
			map[string]any{"qty": float64(5)},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromDecoded(tt.obj, CableSchema(), Seed{}, normalizeNow)
			require.Error(t, err)
			assert.Equal(t, types.RFP_NO_ITEMS, types.CodeOf(err))
		})
	}
}

func TestFromDecodedCoercesBadQuantities(t *testing.T) {
	obj := llm.Object{
		"scope": []any{
			map[string]any{"description": "A", "qty": float64(-5)},
			map[string]any{"description": "B", "qty": "12"},
		},
	}

	record, err := FromDecoded(obj, CableSchema(), Seed{}, normalizeNow)
	require.NoError(t, err)
	assert.Equal(t, 1, record.Items[0].Quantity)
	assert.Equal(t, 12, record.Items[1].Quantity)
}

func TestClassifyCustomer(t *testing.T) {
	tests := []struct {
		entity string
		want   string
	}{
		{"National Thermal PSU Ltd", "PSU"},
		{"Ministry of Power", "Government"},
		{"State Electricity Board", "Government"},
		{"Municipal Corporation", "Government"},
		{"Acme Industries Pvt Ltd", "Private"},
		{"", "Unknown"},
		{"Unknown", "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.entity, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyCustomer(tt.entity))
		})
	}
}

func TestCompetitionLevel(t *testing.T) {
	assert.Equal(t, "high", CompetitionLevel("PSU"))
	assert.Equal(t, "high", CompetitionLevel("Government"))
	assert.Equal(t, "medium", CompetitionLevel("Private"))
	assert.Equal(t, "medium", CompetitionLevel("Unknown"))
}
