package pipeline

import (
	"log/slog"
	"testing"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/llm/providers"
	"github.com/bidforge/bidforge/internal/rfp"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func testRecord() *rfp.Record {
	return &rfp.Record{
		ID:      "RFP-2024-017",
		Title:   "Supply of XLPE Cables",
		DueDate: "2026-09-15",
		Items: []rfp.LineItem{
			{Index: 1, Description: "XLPE insulated cable 16mm2", Quantity: 500, Specs: rfp.SpecBag{"size": 16, "rating": 11, "coating": 1.2}},
			{Index: 2, Description: "PVC control cable 4mm2", Quantity: 200, Specs: rfp.SpecBag{"size": 4, "rating": 1.1, "coating": 0.8}},
		},
		Tests:         []string{"High voltage test"},
		IssuingEntity: "State Electricity Board",
		Origin:        rfp.OriginCatalog,
		Type:          "supply",
	}
}

// singleItemRecord is the pricing reference scenario: one line item,
// qty 2, size 16, rating 11.
func singleItemRecord() *rfp.Record {
	return &rfp.Record{
		ID:      "RFP-PRICE-1",
		Title:   "MV Cable Supply",
		DueDate: "2026-09-15",
		Items: []rfp.LineItem{
			{Index: 1, Description: "MV cable 16mm2 11kV", Quantity: 2, Specs: rfp.SpecBag{"size": 16, "rating": 11}},
		},
	}
}

func failingProvider(t *testing.T) *providers.MockProvider {
	t.Helper()
	return providers.NewFailingMockProvider(llm.NewCompletionError("model unavailable", nil))
}

func scriptedProvider(t *testing.T, responses ...string) *providers.MockProvider {
	t.Helper()
	return providers.NewMockProvider(responses)
}
