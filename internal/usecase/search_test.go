package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/savora/core/internal/domain"
)

func TestSearchMatcher(t *testing.T) {
	recipe := &domain.Recipe{
		ID:           "r1",
		Title:        "Lemon Garlic Chicken",
		Ingredients:  []string{"2 chicken thighs", "1 Lemon", "3 cloves garlic"},
		Instructions: "Roast in a hot oven until golden.",
	}

	tests := []struct {
		query string
		want  bool
	}{
		{"chicken", true},
		{"CHICKEN", true},
		{"  lemon  ", true},
		{"cloves", true},
		{"hot oven", true},
		{"garlic chicken", true},
		{"beef", false},
		{"", false},
		{"   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, NewSearchMatcher(tt.query).Matches(recipe))
		})
	}
}

func TestSearchMatcher_FilterKeepsOrder(t *testing.T) {
	recipes := []domain.Recipe{
		{ID: "a", Title: "Rice pudding"},
		{ID: "b", Title: "Beef stew"},
		{ID: "c", Title: "Fried rice"},
	}

	got := NewSearchMatcher("rice").Filter(recipes)

	assert.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestPaginate(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	assert.Equal(t, []int{1, 2}, paginate(items, 1, 2))
	assert.Equal(t, []int{3, 4}, paginate(items, 3, 10))
	assert.Equal(t, []int{}, paginate(items, 5, 2))
	assert.Equal(t, []int{}, paginate(items, 0, 0))
	assert.Equal(t, []int{0}, paginate(items, -3, 1))
}
