package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestModelInfoFeatures(t *testing.T) {
	model := ModelInfo{
		Name:          "gemini-1.5-flash-latest",
		ContextWindow: 1048576,
		MaxOutput:     8192,
		Features:      []string{"chat", "json_mode"},
	}

	assert.True(t, model.SupportsFeature("chat"))
	assert.True(t, model.SupportsJSONMode())
	assert.False(t, model.SupportsFeature("vision"))

	bare := ModelInfo{Name: "llama3", Features: []string{"chat"}}
	assert.False(t, bare.SupportsJSONMode())
}
