package usecase

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/testutil"
)

var generatedIDFormat = regexp.MustCompile(`^generated-\d+-[0-9a-f]{9}$`)

func TestNewGeneratedID(t *testing.T) {
	now := time.UnixMilli(1718000000123)

	id := NewGeneratedID(now)

	assert.Regexp(t, generatedIDFormat, id)
	assert.Contains(t, id, "generated-1718000000123-")
	assert.True(t, domain.IsGeneratedID(id))
}

func TestNewGeneratedID_Unique(t *testing.T) {
	now := time.Now()
	seen := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		id := NewGeneratedID(now)
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestConvertGeneratedToRecipe(t *testing.T) {
	generated := &domain.GeneratedRecipe{
		Title: "Chicken Fried Rice",
		Ingredients: []domain.GeneratedIngredient{
			{Item: "chicken breast", Quantity: "200 g"},
			{Item: "cooked rice", Quantity: "2 cups"},
			{Item: "salt", Quantity: ""},
		},
		Instructions: []string{"Dice the chicken", "Fry the rice", "Season and serve"},
	}

	t.Run("with image url", func(t *testing.T) {
		recipe := ConvertGeneratedToRecipe(generated, "https://img.example.com/cfr.jpg")

		assert.Regexp(t, generatedIDFormat, recipe.ID)
		assert.True(t, recipe.IsGenerated())
		assert.Equal(t, "Chicken Fried Rice", recipe.Title)
		assert.Equal(t, []string{"200 g chicken breast", "2 cups cooked rice", "salt"}, recipe.Ingredients)
		assert.Equal(t, "Dice the chicken\n\nFry the rice\n\nSeason and serve", recipe.Instructions)
		require.NotNil(t, recipe.Image)
		assert.Equal(t, domain.RecipeImage{
			URL:      "https://img.example.com/cfr.jpg",
			PublicID: "generated",
			Width:    274,
			Height:   169,
			Format:   "jpg",
		}, *recipe.Image)
	})

	t.Run("placeholder image", func(t *testing.T) {
		recipe := ConvertGeneratedToRecipe(generated, "")

		require.NotNil(t, recipe.Image)
		assert.Equal(t, "/placeholder.svg", recipe.Image.URL)
		assert.Equal(t, "placeholder", recipe.Image.PublicID)
		assert.Equal(t, "svg", recipe.Image.Format)
		assert.Equal(t, 274, recipe.Image.Width)
		assert.Equal(t, 169, recipe.Image.Height)
	})

	t.Run("deterministic apart from id", func(t *testing.T) {
		a := ConvertGeneratedToRecipe(generated, "")
		b := ConvertGeneratedToRecipe(generated, "")

		assert.NotEqual(t, a.ID, b.ID)
		a.ID, b.ID = "", ""
		assert.Equal(t, a, b)
	})
}

func TestConvertGeneratedToRecipe_StepsRoundTrip(t *testing.T) {
	generated := testutil.NewRecipeFactory(7).Generated("chicken", "rice")

	recipe := ConvertGeneratedToRecipe(generated, "")

	assert.Equal(t, []string{
		"Prepare all of the ingredients.",
		"Cook everything together in a large pan.",
		"Season to taste and serve warm.",
	}, SegmentInstructions(recipe.Instructions))
}
