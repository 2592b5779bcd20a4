package domain

import "strings"

// GeneratedIDPrefix marks recipe IDs synthesized on the client. Such recipes
// live only in the local generated-recipe cache.
const GeneratedIDPrefix = "generated-"

// PlaceholderImageURL is used for generated recipes saved without an image
const PlaceholderImageURL = "/placeholder.svg"

// Recipe is the canonical recipe record used across the application
type Recipe struct {
	ID           string       `json:"_id"`
	Title        string       `json:"title"`
	Ingredients  []string     `json:"ingredients_cleaned"`
	Instructions string       `json:"instructions"`
	Image        *RecipeImage `json:"image,omitempty"`
}

// IsGenerated reports whether the recipe was synthesized on the client
func (r Recipe) IsGenerated() bool {
	return IsGeneratedID(r.ID)
}

// IsGeneratedID reports whether id carries the client-generated prefix
func IsGeneratedID(id string) bool {
	return strings.HasPrefix(id, GeneratedIDPrefix)
}

// RecipeImage holds the hosted image metadata for a recipe
type RecipeImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
}

// GeneratedRecipe is the shape returned by the recipe generation endpoint.
// It is never persisted server-side.
type GeneratedRecipe struct {
	Title        string                `json:"title"`
	Description  string                `json:"description"`
	Servings     string                `json:"servings"`
	PrepTime     string                `json:"prep_time"`
	CookTime     string                `json:"cook_time"`
	Ingredients  []GeneratedIngredient `json:"ingredients"`
	Instructions []string              `json:"instructions"`
}

// GeneratedIngredient is a single (item, quantity) pair of a generated recipe
type GeneratedIngredient struct {
	Item     string `json:"item"`
	Quantity string `json:"quantity"`
}

// CreateRecipeRequest is the payload accepted by the recipe creation endpoint
type CreateRecipeRequest struct {
	Title        string   `json:"title" validate:"required"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients" validate:"required,min=1,dive,required"`
	Instructions []string `json:"instructions" validate:"required,min=1"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Difficulty   string   `json:"difficulty"`
	Calories     string   `json:"calories"`
	Protein      string   `json:"protein"`
	Carbs        string   `json:"carbs"`
	Fat          string   `json:"fat"`
	Servings     int      `json:"servings" validate:"gte=0"`
}

// GenerateRecipeRequest is the payload of the recipe generation endpoint
type GenerateRecipeRequest struct {
	Ingredients []string `json:"ingredients"`
}

// ExtractedIngredients is the response of the ingredient extraction endpoint
type ExtractedIngredients struct {
	Ingredients []string `json:"ingredients"`
}

// GeneratedImage is the response of the image generation endpoint
type GeneratedImage struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// DeleteAck is the acknowledgement returned after deleting a recipe
type DeleteAck struct {
	Message string `json:"message,omitempty"`
}

// RecipeDetail is the view-model behind the recipe detail and cooking screens
type RecipeDetail struct {
	Recipe            Recipe   `json:"recipe"`
	Servings          int      `json:"servings"`
	OriginalServings  int      `json:"original_servings"`
	ScaledIngredients []string `json:"scaled_ingredients"`
	Steps             []string `json:"steps"`
	IsFavorite        bool     `json:"is_favorite"`
}
