package recipeapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/savora/core/internal/domain"
)

// apiRecipe is the loosest shape the recipe API has been seen to return.
// Older records carry `id` and `ingredients`; instructions may be a single
// blob or a list of steps.
type apiRecipe struct {
	MongoID            string              `json:"_id"`
	ID                 string              `json:"id"`
	Title              string              `json:"title"`
	IngredientsCleaned []string            `json:"ingredients_cleaned"`
	Ingredients        []string            `json:"ingredients"`
	Instructions       json.RawMessage     `json:"instructions"`
	Image              *domain.RecipeImage `json:"image"`
}

// apiRecipeList decodes a catalog window, sent either as a bare array or
// wrapped as {"recipes": [...]}
type apiRecipeList []apiRecipe

func (l *apiRecipeList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var envelope struct {
			Recipes []apiRecipe `json:"recipes"`
		}
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return err
		}
		*l = envelope.Recipes
		return nil
	}

	var recs []apiRecipe
	if err := json.Unmarshal(trimmed, &recs); err != nil {
		return err
	}
	*l = recs
	return nil
}

// MapToRecipe converts a server record to the canonical Recipe
func MapToRecipe(rec *apiRecipe) domain.Recipe {
	id := rec.MongoID
	if id == "" {
		id = rec.ID
	}

	ingredients := rec.IngredientsCleaned
	if len(ingredients) == 0 {
		ingredients = rec.Ingredients
	}
	if ingredients == nil {
		ingredients = []string{}
	}

	return domain.Recipe{
		ID:           id,
		Title:        strings.TrimSpace(rec.Title),
		Ingredients:  ingredients,
		Instructions: decodeInstructions(rec.Instructions),
		Image:        rec.Image,
	}
}

// MapToRecipes converts a list of server records
func MapToRecipes(recs []apiRecipe) []domain.Recipe {
	out := make([]domain.Recipe, 0, len(recs))
	for i := range recs {
		out = append(out, MapToRecipe(&recs[i]))
	}
	return out
}

// decodeInstructions accepts either a string or a list of strings. Lists are
// joined with blank lines so step segmentation can recover them.
func decodeInstructions(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var blob string
	if err := json.Unmarshal(raw, &blob); err == nil {
		return blob
	}

	var steps []string
	if err := json.Unmarshal(raw, &steps); err == nil {
		kept := steps[:0]
		for _, s := range steps {
			if s = strings.TrimSpace(s); s != "" {
				kept = append(kept, s)
			}
		}
		return strings.Join(kept, "\n\n")
	}

	return ""
}
