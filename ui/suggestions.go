package ui

import (
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"
)

// FilterSuggestions returns the prompts matching what the visitor has
// typed, best match first. An empty query, or a prompt number, keeps the
// full list in its original order.
func FilterSuggestions(query string, all []string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	if _, ok := SuggestionByNumber(query, all); ok {
		return all
	}

	matches := fuzzy.Find(query, all)
	filtered := make([]string, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, match.Str)
	}
	return filtered
}

// SuggestionByNumber resolves a 1-based prompt number.
func SuggestionByNumber(input string, all []string) (string, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n < 1 || n > len(all) {
		return "", false
	}
	return all[n-1], true
}

// cycle moves the selection by delta, wrapping. -1 means nothing selected.
func cycle(selected, delta, n int) int {
	if n == 0 {
		return -1
	}
	if selected < 0 {
		if delta > 0 {
			return 0
		}
		return n - 1
	}
	return ((selected+delta)%n + n) % n
}
