// Package prompt holds the instruction templates the pipeline stages
// send to the model. Templates are pure data: a fixed system
// instruction, a human template with named {slot} markers, and the set
// of slots the template requires. Rendering is decoupled from both the
// completion call and the response decoding so each can be tested
// without a model.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bidforge/bidforge/internal/llm"
	"github.com/bidforge/bidforge/internal/types"
)

// Template error codes
const (
	ErrUnknownSlot types.ErrorCode = "PROMPT_UNKNOWN_SLOT"
	ErrMissingSlot types.ErrorCode = "PROMPT_MISSING_SLOT"
)

var slotPattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// Template is a fixed role/instruction pair with named slots in the
// human part.
type Template struct {
	// Name identifies the template in logs and errors.
	Name string

	// System is the fixed role instruction, rendered verbatim.
	System string

	// Human is the per-call instruction with {slot} markers.
	Human string
}

// Slots returns the names of all slots the human template requires,
// in order of first appearance.
func (t Template) Slots() []string {
	seen := make(map[string]bool)
	var slots []string
	for _, match := range slotPattern.FindAllStringSubmatch(t.Human, -1) {
		if !seen[match[1]] {
			seen[match[1]] = true
			slots = append(slots, match[1])
		}
	}
	return slots
}

// Render substitutes slot values into the human template and returns
// the message pair for a completion request. Every slot in the template
// must be supplied; values for slots the template does not declare are
// rejected to catch drift between templates and stages.
func (t Template) Render(values map[string]string) ([]llm.Message, error) {
	declared := make(map[string]bool)
	for _, slot := range t.Slots() {
		declared[slot] = true
		if _, ok := values[slot]; !ok {
			return nil, types.NewError(
				ErrMissingSlot,
				fmt.Sprintf("template %q: no value for slot %q", t.Name, slot),
			)
		}
	}

	for name := range values {
		if !declared[name] {
			return nil, types.NewError(
				ErrUnknownSlot,
				fmt.Sprintf("template %q does not declare slot %q", t.Name, name),
			)
		}
	}

	human := slotPattern.ReplaceAllStringFunc(t.Human, func(marker string) string {
		name := strings.Trim(marker, "{}")
		return values[name]
	})

	return []llm.Message{
		llm.NewSystemMessage(t.System),
		llm.NewUserMessage(human),
	}, nil
}
