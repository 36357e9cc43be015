package agent

import (
	"encoding/json"
	"strings"

	"github.com/entrhq/gurney/pkg/types"
)

// ParseAction extracts a single structured action from raw model
// output. Two ordered attempts: a strict decode of the entire text,
// then a scan for a balanced {...} substring. The fallback tolerates
// models that wrap valid JSON in prose or markdown fences despite
// being told not to.
//
// Returns (nil, false) when no valid action can be recovered. That is
// not fatal: the run loop skips execution for the step and moves on.
func ParseAction(raw string) (*types.Action, bool) {
	if action := decodeAction(strings.TrimSpace(raw)); action != nil {
		return action, true
	}

	for offset := 0; offset < len(raw); {
		start := strings.IndexByte(raw[offset:], '{')
		if start < 0 {
			break
		}
		start += offset

		candidate, end := balancedObject(raw, start)
		if candidate == "" {
			break
		}
		if action := decodeAction(candidate); action != nil {
			return action, true
		}
		offset = end
	}

	return nil, false
}

// decodeAction decodes and validates one JSON object. Unknown action
// tags and missing required fields are rejected here, before anything
// reaches execution logic.
func decodeAction(text string) *types.Action {
	if text == "" || text[0] != '{' {
		return nil
	}

	var action types.Action
	if err := json.Unmarshal([]byte(text), &action); err != nil {
		return nil
	}
	if err := action.Validate(); err != nil {
		return nil
	}
	return &action
}

// balancedObject returns the balanced {...} substring starting at
// start, along with the index just past it. Braces inside JSON strings
// (including escaped quotes) do not count toward nesting. Returns ""
// when the object never closes.
func balancedObject(s string, start int) (string, int) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], i + 1
			}
		}
	}

	return "", len(s)
}
