package llm

import (
	"encoding/json"
	"regexp"
	"strings"
)

// fencePattern matches markdown code blocks with optional language tag.
// Captures: (1) optional language, (2) content
var fencePattern = regexp.MustCompile(`(?s)` + "```" + `(\w*)\s*\n?(.+?)\n?` + "```")

// ExtractJSON isolates a JSON value from an LLM response that may be
// wrapped in markdown or surrounded by explanatory prose.
// Priority:
//  1. JSON inside ```json ... ``` or ``` ... ``` code blocks
//  2. The first balanced {...} or [...] span in the raw text
//
// Returns the isolated JSON string, or ErrResponseParseFailed when no
// valid JSON value can be found.
func ExtractJSON(response string) (string, error) {
	response = strings.TrimSpace(response)

	if jsonStr, found := extractFromFence(response); found {
		return jsonStr, nil
	}

	if jsonStr, found := extractBalancedSpan(response); found {
		return jsonStr, nil
	}

	return "", NewParseError("no valid JSON value found in response", nil)
}

// DecodeObject extracts and decodes a JSON object from an LLM response.
// Responses that decode to something other than an object (arrays,
// scalars) are rejected: every stage's expected shape is an object.
func DecodeObject(response string) (Object, error) {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return nil, err
	}

	var obj map[string]any
	if err := json.Unmarshal([]byte(jsonStr), &obj); err != nil {
		return nil, NewParseError("response is not a JSON object", err)
	}

	return Object(obj), nil
}

// extractFromFence finds JSON in markdown code blocks, skipping blocks
// explicitly tagged as other languages.
func extractFromFence(response string) (string, bool) {
	matches := fencePattern.FindAllStringSubmatch(response, -1)

	for _, match := range matches {
		if len(match) < 3 {
			continue
		}

		lang := strings.ToLower(match[1])
		content := strings.TrimSpace(match[2])

		if lang != "" && lang != "json" {
			continue
		}

		if strings.HasPrefix(content, "{") || strings.HasPrefix(content, "[") {
			if json.Valid([]byte(content)) {
				return content, true
			}
		}
	}

	return "", false
}

// extractBalancedSpan finds the first balanced JSON object or array in
// text that is not wrapped in code blocks.
func extractBalancedSpan(response string) (string, bool) {
	startObj := strings.IndexByte(response, '{')
	startArr := strings.IndexByte(response, '[')

	start := -1
	closeChar := byte('}')
	if startObj >= 0 && (startArr < 0 || startObj < startArr) {
		start = startObj
	} else if startArr >= 0 {
		start = startArr
		closeChar = ']'
	}

	if start < 0 {
		return "", false
	}

	span := balancedPrefix(response[start:], closeChar)
	if span != "" && json.Valid([]byte(span)) {
		return span, true
	}

	return "", false
}

// balancedPrefix returns the shortest prefix of s that forms a balanced
// bracket pair, respecting JSON string literals and escapes.
func balancedPrefix(s string, closeChar byte) string {
	if len(s) == 0 {
		return ""
	}

	openChar := s[0]
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}

	return ""
}

// Object is a decoded JSON object with tolerant, defaulting accessors.
// Model output only partially conforms to the requested shape; every
// field read substitutes a caller-supplied default when the key is
// absent or holds the wrong type. Only structurally essential fields
// should be checked with Has before constructing a result.
type Object map[string]any

// Has reports whether the key is present, regardless of type.
func (o Object) Has(key string) bool {
	_, ok := o[key]
	return ok
}

// Str returns the string at key, or def when absent or not a string.
func (o Object) Str(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// Num returns the number at key, or def when absent or not numeric.
// JSON numbers decode as float64; numeric strings are also accepted
// since models frequently quote numbers.
func (o Object) Num(key string, def float64) float64 {
	switch v := o[key].(type) {
	case float64:
		return v
	case string:
		var f float64
		if err := json.Unmarshal([]byte(strings.TrimSpace(v)), &f); err == nil {
			return f
		}
	}
	return def
}

// Int returns the number at key truncated to int, or def.
func (o Object) Int(key string, def int) int {
	switch o[key].(type) {
	case float64, string:
		return int(o.Num(key, float64(def)))
	default:
		return def
	}
}

// Bool returns the boolean at key, or def when absent or not a bool.
func (o Object) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// StrSlice returns the string array at key, skipping non-string
// elements. Returns def when the key is absent or not an array.
func (o Object) StrSlice(key string, def []string) []string {
	raw, ok := o[key].([]any)
	if !ok {
		return def
	}

	out := make([]string, 0, len(raw))
	for _, el := range raw {
		if s, ok := el.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ObjSlice returns the array of objects at key, skipping elements that
// are not objects. Returns nil when the key is absent or not an array.
func (o Object) ObjSlice(key string) []Object {
	raw, ok := o[key].([]any)
	if !ok {
		return nil
	}

	out := make([]Object, 0, len(raw))
	for _, el := range raw {
		if m, ok := el.(map[string]any); ok {
			out = append(out, Object(m))
		}
	}
	return out
}

// Obj returns the nested object at key, or an empty Object.
func (o Object) Obj(key string) Object {
	if m, ok := o[key].(map[string]any); ok {
		return Object(m)
	}
	return Object{}
}
