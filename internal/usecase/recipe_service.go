package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/savora/core/internal/domain"
)

// DefaultSearchWindow is how much of the catalog a search scans
const DefaultSearchWindow = 200

// RecipeServiceConfig holds configuration for the recipe service
type RecipeServiceConfig struct {
	PageSize     int
	SearchWindow int
	Logger       *zap.Logger
}

// RecipePage is one page of the catalog
type RecipePage struct {
	Recipes  []domain.Recipe `json:"recipes"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	HasMore  bool            `json:"has_more"`
}

// RecipeService combines the recipe API with the local favorites store
type RecipeService struct {
	api          domain.RecipeAPIClient
	favorites    *FavoritesStore
	validate     *validator.Validate
	pageSize     int
	searchWindow int
	logger       *zap.Logger
}

// NewRecipeService creates a new recipe service with dependencies
func NewRecipeService(
	api domain.RecipeAPIClient,
	favorites *FavoritesStore,
	config RecipeServiceConfig,
) *RecipeService {
	pageSize := config.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	window := config.SearchWindow
	if window <= 0 {
		window = DefaultSearchWindow
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &RecipeService{
		api:          api,
		favorites:    favorites,
		validate:     validator.New(),
		pageSize:     pageSize,
		searchWindow: window,
		logger:       logger.Named("recipes"),
	}
}

// Favorites returns the favorites store the service writes to
func (s *RecipeService) Favorites() *FavoritesStore {
	return s.favorites
}

// PageSize returns the catalog page size
func (s *RecipeService) PageSize() int {
	return s.pageSize
}

// Browse fetches catalog page number page (0-based)
func (s *RecipeService) Browse(ctx context.Context, page int) (*RecipePage, error) {
	if page < 0 {
		return nil, fmt.Errorf("%w: page must not be negative", domain.ErrValidation)
	}

	recipes, err := s.api.ListRecipes(ctx, page*s.pageSize, s.pageSize)
	if err != nil {
		return nil, err
	}

	return &RecipePage{
		Recipes:  recipes,
		Page:     page,
		PageSize: s.pageSize,
		HasMore:  len(recipes) >= s.pageSize,
	}, nil
}

// NewCatalogPaginator returns an infinite-scroll paginator over the catalog
func (s *RecipeService) NewCatalogPaginator() *Paginator[domain.Recipe] {
	return NewPaginator[domain.Recipe](s.pageSize, s.api.ListRecipes)
}

// Search filters the catalog window and the generated recipes by query.
// Generated matches come first. A blank query returns no results. When the
// catalog cannot be fetched only generated recipes are searched.
func (s *RecipeService) Search(ctx context.Context, query string, skip, limit int) ([]domain.Recipe, error) {
	matcher := NewSearchMatcher(query)
	if matcher.Empty() {
		return []domain.Recipe{}, nil
	}

	results := matcher.Filter(s.favorites.Generated())

	catalog, err := s.api.ListRecipes(ctx, 0, s.searchWindow)
	if err != nil {
		s.logger.Warn("catalog unavailable, searching generated recipes only",
			zap.String("query", query), zap.Error(err))
	} else {
		results = append(results, matcher.Filter(catalog)...)
	}

	s.logger.Debug("search", zap.String("query", query), zap.Int("matches", len(results)))
	return paginate(results, skip, limit), nil
}

// NewSearchPaginator returns a paginator over the results of query
func (s *RecipeService) NewSearchPaginator(query string) *Paginator[domain.Recipe] {
	return NewPaginator[domain.Recipe](s.pageSize, func(ctx context.Context, offset, limit int) ([]domain.Recipe, error) {
		return s.Search(ctx, query, offset, limit)
	})
}

// Get resolves a recipe. Generated ids are looked up locally first; the
// recipe API is consulted otherwise.
func (s *RecipeService) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	if domain.IsGeneratedID(id) {
		if recipe, ok := s.favorites.GetGenerated(id); ok {
			return &recipe, nil
		}
	}

	recipe, err := s.api.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// Detail builds the recipe detail view for the given serving count. A
// non-positive servings value selects the recipe's original servings.
func (s *RecipeService) Detail(ctx context.Context, id string, servings int) (*domain.RecipeDetail, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if servings <= 0 {
		servings = DefaultOriginalServings
	}
	scaled, err := ScaleIngredients(recipe.Ingredients, servings, DefaultOriginalServings)
	if err != nil {
		return nil, err
	}

	return &domain.RecipeDetail{
		Recipe:            *recipe,
		Servings:          servings,
		OriginalServings:  DefaultOriginalServings,
		ScaledIngredients: scaled,
		Steps:             SegmentInstructions(recipe.Instructions),
		IsFavorite:        s.favorites.IsFavorite(recipe.ID),
	}, nil
}

// Create validates and posts a new recipe
func (s *RecipeService) Create(ctx context.Context, req *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: recipe payload is required", domain.ErrValidation)
	}
	req.Ingredients = CleanIngredients(req.Ingredients)
	if err := s.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	recipe, err := s.api.CreateRecipe(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("recipe created", zap.String("recipe_id", recipe.ID))
	return recipe, nil
}

// Delete removes a recipe and drops it from the favorites. Generated
// recipes are removed from the local cache without a network call.
func (s *RecipeService) Delete(ctx context.Context, id string) (*domain.DeleteAck, error) {
	if domain.IsGeneratedID(id) {
		found, err := s.favorites.DeleteGenerated(ctx, id)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, domain.ErrNotFound
		}
		return &domain.DeleteAck{Message: "Recipe deleted"}, nil
	}

	ack, err := s.api.DeleteRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.favorites.Remove(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("recipe deleted", zap.String("recipe_id", id))
	return ack, nil
}

// Generate asks the recipe API for a recipe built from ingredients. Blank
// entries are dropped; an empty list is rejected before any network call.
func (s *RecipeService) Generate(ctx context.Context, ingredients []string) (*domain.GeneratedRecipe, error) {
	cleaned := CleanIngredients(ingredients)
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("%w: please provide at least one ingredient", domain.ErrValidation)
	}

	generated, err := s.api.GenerateRecipe(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	s.logger.Info("recipe generated",
		zap.Strings("ingredients", cleaned),
		zap.String("title", generated.Title))
	return generated, nil
}

// GenerateFromText parses comma or newline separated input and generates
func (s *RecipeService) GenerateFromText(ctx context.Context, input string) (*domain.GeneratedRecipe, error) {
	return s.Generate(ctx, ParseIngredientInput(input))
}

// SaveGenerated converts a generated recipe, stores it in the local cache
// and optionally favorites it
func (s *RecipeService) SaveGenerated(
	ctx context.Context,
	generated *domain.GeneratedRecipe,
	imageURL string,
	favorite bool,
) (*domain.Recipe, error) {
	if generated == nil || strings.TrimSpace(generated.Title) == "" {
		return nil, fmt.Errorf("%w: generated recipe needs a title", domain.ErrValidation)
	}

	recipe := ConvertGeneratedToRecipe(generated, imageURL)
	if err := s.favorites.SaveGenerated(ctx, recipe); err != nil {
		return nil, err
	}
	if favorite {
		if err := s.favorites.Add(ctx, recipe.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("generated recipe saved",
		zap.String("recipe_id", recipe.ID),
		zap.Bool("favorite", favorite))
	return &recipe, nil
}

// GenerateImage renders an image for a generated recipe
func (s *RecipeService) GenerateImage(ctx context.Context, generated *domain.GeneratedRecipe) (*domain.GeneratedImage, error) {
	if generated == nil || strings.TrimSpace(generated.Title) == "" {
		return nil, fmt.Errorf("%w: generated recipe needs a title", domain.ErrValidation)
	}
	return s.api.GenerateImage(ctx, imagePrompt(generated))
}

// imagePrompt describes the dish for the image generator
func imagePrompt(generated *domain.GeneratedRecipe) string {
	prompt := strings.TrimSpace(generated.Title)
	if desc := strings.TrimSpace(generated.Description); desc != "" {
		prompt += ": " + desc
	}
	return prompt
}

// ExtractIngredients sends an uploaded photo to ingredient extraction and
// merges what was found into current
func (s *RecipeService) ExtractIngredients(ctx context.Context, filename string, photo io.Reader, current []string) ([]string, error) {
	extracted, err := s.api.ExtractIngredients(ctx, filename, photo)
	if err != nil {
		return nil, err
	}
	return MergeIngredients(current, extracted.Ingredients), nil
}
