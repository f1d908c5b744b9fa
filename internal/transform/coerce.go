package transform

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// present reports whether a raw JSON value exists and is not null.
func present(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// coerceInt parses a loosely typed JSON value into a non-negative int.
// Numbers, numeric strings, and floats all resolve; anything absent or
// non-numeric resolves to 0 so downstream fingerprints stay total.
func coerceInt(raw json.RawMessage) int {
	if !present(raw) {
		return 0
	}

	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" {
		return 0
	}

	if v, err := strconv.Atoi(s); err == nil {
		if v < 0 {
			return 0
		}
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f < 0 {
			return 0
		}
		return int(f)
	}
	return 0
}

// coerceID renders a loosely typed JSON value as a plain string id.
func coerceID(raw json.RawMessage) string {
	if !present(raw) {
		return ""
	}
	s := strings.TrimSpace(string(raw))
	return strings.Trim(s, `"`)
}
