package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/shexcheck/internal/canonical"
)

// marshalViolations converts a violation list to canonical JSON TEXT.
func marshalViolations(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	data, err := canonical.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal violations: %w", err)
	}
	return string(data), nil
}

// unmarshalViolations parses stored violations. Empty lists come back nil.
func unmarshalViolations(data string) ([]string, error) {
	if data == "" || data == "[]" {
		return nil, nil
	}
	var v []string
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, fmt.Errorf("unmarshal violations: %w", err)
	}
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
