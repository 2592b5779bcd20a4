package usecase

import (
	"regexp"
	"strings"

	"github.com/savora/core/internal/domain"
)

// Package-level compiled regex patterns for performance
var (
	multipleSpacesRegex = regexp.MustCompile(`\s+`)
)

// SearchMatcher decides whether a recipe matches a free-text query. The
// query is matched case-insensitively as a substring of the title, any
// ingredient, or the instructions.
type SearchMatcher struct {
	query string
}

// NewSearchMatcher creates a matcher for query. A blank query matches nothing.
func NewSearchMatcher(query string) *SearchMatcher {
	return &SearchMatcher{query: normalizeSearchText(query)}
}

// Empty reports whether the query is blank
func (m *SearchMatcher) Empty() bool {
	return m.query == ""
}

// Matches reports whether recipe contains the query
func (m *SearchMatcher) Matches(recipe *domain.Recipe) bool {
	if m.Empty() {
		return false
	}
	if strings.Contains(normalizeSearchText(recipe.Title), m.query) {
		return true
	}
	for _, ingredient := range recipe.Ingredients {
		if strings.Contains(normalizeSearchText(ingredient), m.query) {
			return true
		}
	}
	return strings.Contains(normalizeSearchText(recipe.Instructions), m.query)
}

// Filter returns the recipes that match, in their original order
func (m *SearchMatcher) Filter(recipes []domain.Recipe) []domain.Recipe {
	matched := make([]domain.Recipe, 0)
	for i := range recipes {
		if m.Matches(&recipes[i]) {
			matched = append(matched, recipes[i])
		}
	}
	return matched
}

// normalizeSearchText lowercases and collapses whitespace
func normalizeSearchText(s string) string {
	if s == "" {
		return ""
	}
	result := strings.ToLower(s)
	result = multipleSpacesRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// paginate returns items[skip:skip+limit], clamped to bounds
func paginate[T any](items []T, skip, limit int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(items) || limit <= 0 {
		return []T{}
	}
	end := skip + limit
	if end > len(items) {
		end = len(items)
	}
	return items[skip:end]
}
