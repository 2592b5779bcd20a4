package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseIngredientInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma separated", "chicken, rice", []string{"chicken", "rice"}},
		{"newline separated", "chicken\nrice\n", []string{"chicken", "rice"}},
		{"mixed with blanks", "  chicken ,, \n\n rice ,\n onion", []string{"chicken", "rice", "onion"}},
		{"inner whitespace collapsed", "red   bell\tpepper", []string{"red bell pepper"}},
		{"empty", "", []string{}},
		{"separators only", " ,\n, ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseIngredientInput(tt.input))
		})
	}
}

func TestCleanIngredients(t *testing.T) {
	assert.Equal(t, []string{"egg", "milk"}, CleanIngredients([]string{" egg ", "", "  ", "milk"}))
	assert.Equal(t, []string{}, CleanIngredients(nil))
}

func TestMergeIngredients(t *testing.T) {
	tests := []struct {
		name    string
		current []string
		found   []string
		want    []string
	}{
		{
			name:    "appends new items",
			current: []string{"chicken"},
			found:   []string{"rice", "onion"},
			want:    []string{"chicken", "rice", "onion"},
		},
		{
			name:    "case-insensitive dedup keeps existing spelling",
			current: []string{"Chicken", "rice"},
			found:   []string{"chicken", "Egg", "egg", " "},
			want:    []string{"Chicken", "rice", "Egg"},
		},
		{
			name:    "empty current",
			current: nil,
			found:   []string{"tomato"},
			want:    []string{"tomato"},
		},
		{
			name:    "nothing found",
			current: []string{"tomato"},
			found:   nil,
			want:    []string{"tomato"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MergeIngredients(tt.current, tt.found))
		})
	}
}
