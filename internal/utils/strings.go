package utils

import "strings"

// ParseTickers splits a comma-separated ticker list, trims and upper-cases
// each entry and drops empties and duplicates while keeping first-seen order.
// Returns nil for empty/whitespace-only input.
func ParseTickers(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	seen := make(map[string]struct{})
	var result []string
	for _, v := range strings.Split(s, ",") {
		ticker := NormalizeTicker(v)
		if ticker == "" {
			continue
		}
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}
		result = append(result, ticker)
	}

	if len(result) == 0 {
		return nil
	}
	return result
}

// NormalizeTicker trims and upper-cases a ticker symbol.
func NormalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
