package domain

import (
	"context"
	"image"
	"io"
)

// KeyValueStore is the durable local storage backing favorites and the
// generated-recipe cache. Values are opaque JSON documents.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// RecipeLister fetches a window of the server-backed recipe catalog
type RecipeLister interface {
	ListRecipes(ctx context.Context, skip, limit int) ([]Recipe, error)
}

// RecipeAPIClient defines the interface for interacting with the recipe API
type RecipeAPIClient interface {
	RecipeLister
	GetRecipe(ctx context.Context, id string) (*Recipe, error)
	CreateRecipe(ctx context.Context, req *CreateRecipeRequest) (*Recipe, error)
	DeleteRecipe(ctx context.Context, id string) (*DeleteAck, error)
	GenerateRecipe(ctx context.Context, ingredients []string) (*GeneratedRecipe, error)
	ExtractIngredients(ctx context.Context, filename string, photo io.Reader) (*ExtractedIngredients, error)
	GenerateImage(ctx context.Context, prompt string) (*GeneratedImage, error)
}

// IngredientExtractor is the slice of the recipe API used by the camera flow
type IngredientExtractor interface {
	ExtractIngredients(ctx context.Context, filename string, photo io.Reader) (*ExtractedIngredients, error)
}

// CaptureDevice is a video capture source. Start acquires the device and
// begins playback; Frame returns the most recent frame; Stop releases it.
// Stop must be safe to call repeatedly.
type CaptureDevice interface {
	Start(ctx context.Context) error
	Frame(ctx context.Context) (image.Image, error)
	Stop() error
}
