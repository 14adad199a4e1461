package model

import (
	"encoding/json"
	"fmt"
)

// FormatToolResult renders a tool result as text for providers that only
// accept string tool outputs. Strings pass through; other values are JSON
// encoded, falling back to fmt formatting.
func FormatToolResult(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case fmt.Stringer:
		return r.String()
	}

	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}

	return fmt.Sprintf("%v", v)
}
