package usecase

import (
	"regexp"
	"strings"
)

// Ingredient lists are typed as "chicken, rice" or one per line
var ingredientSeparatorPattern = regexp.MustCompile(`[,\n]+`)

// ParseIngredientInput splits free-form ingredient input into trimmed,
// non-empty entries
func ParseIngredientInput(input string) []string {
	parts := ingredientSeparatorPattern.Split(input, -1)
	ingredients := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := multipleSpacesRegex.ReplaceAllString(strings.TrimSpace(part), " "); item != "" {
			ingredients = append(ingredients, item)
		}
	}
	return ingredients
}

// CleanIngredients trims entries and drops empty ones
func CleanIngredients(items []string) []string {
	return ParseIngredientInput(strings.Join(items, "\n"))
}

// MergeIngredients appends the entries of found that are not already in
// current, comparing case-insensitively. The order of current is preserved.
func MergeIngredients(current, found []string) []string {
	merged := make([]string, 0, len(current)+len(found))
	seen := make(map[string]bool, len(current)+len(found))

	for _, list := range [][]string{current, found} {
		for _, item := range list {
			item = strings.TrimSpace(item)
			key := normalizeIngredient(item)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, item)
		}
	}
	return merged
}

func normalizeIngredient(s string) string {
	return multipleSpacesRegex.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}
