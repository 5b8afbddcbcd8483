// Package strings provides string list helpers for configuration parsing.
package strings

import (
	"strings"
)

// SplitList splits a delimited value and passes the parts through DedupeAndTrim.
//
//	SplitList("https://a.cl, https://b.cl,,https://a.cl", ",")
//	// Returns: []string{"https://a.cl", "https://b.cl"}
func SplitList(value, sep string) []string {
	if value == "" {
		return nil
	}
	return DedupeAndTrim(strings.Split(value, sep))
}

// DedupeAndTrim removes duplicates and empty strings from a slice,
// trimming whitespace from each element. Order is preserved.
func DedupeAndTrim(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))

	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
