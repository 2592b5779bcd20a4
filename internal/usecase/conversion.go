package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/savora/core/internal/domain"
)

// Dimensions of the image slot on recipe cards
const (
	recipeImageWidth  = 274
	recipeImageHeight = 169
)

// NewGeneratedID returns a fresh client-side recipe id of the form
// generated-<unix millis>-<random>
func NewGeneratedID(now time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s%d-%s", domain.GeneratedIDPrefix, now.UnixMilli(), suffix)
}

// ConvertGeneratedToRecipe turns a generated recipe into a canonical Recipe.
// Steps are joined with blank lines so SegmentInstructions recovers them.
// An empty imageURL selects the placeholder image.
func ConvertGeneratedToRecipe(generated *domain.GeneratedRecipe, imageURL string) domain.Recipe {
	ingredients := make([]string, 0, len(generated.Ingredients))
	for _, ing := range generated.Ingredients {
		ingredients = append(ingredients, strings.TrimSpace(ing.Quantity+" "+ing.Item))
	}

	image := &domain.RecipeImage{
		URL:      imageURL,
		PublicID: "generated",
		Width:    recipeImageWidth,
		Height:   recipeImageHeight,
		Format:   "jpg",
	}
	if imageURL == "" {
		image.URL = domain.PlaceholderImageURL
		image.PublicID = "placeholder"
		image.Format = "svg"
	}

	return domain.Recipe{
		ID:           NewGeneratedID(time.Now()),
		Title:        generated.Title,
		Ingredients:  ingredients,
		Instructions: strings.Join(generated.Instructions, "\n\n"),
		Image:        image,
	}
}
