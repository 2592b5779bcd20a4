package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/infrastructure/metrics"
	"github.com/savora/core/internal/usecase"
)

// Largest photo accepted for ingredient extraction
const maxPhotoSize = 10 << 20

// Handler holds dependencies for HTTP handlers
type Handler struct {
	recipes *usecase.RecipeService
	auth    domain.AuthProvider
	logger  *zap.Logger
	metrics *metrics.Recorder
}

// HandlerConfig holds optional collaborators for the handler
type HandlerConfig struct {
	Logger  *zap.Logger
	Metrics *metrics.Recorder
}

// NewHandler creates a new HTTP handler
func NewHandler(recipes *usecase.RecipeService, auth domain.AuthProvider, config HandlerConfig) *Handler {
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		recipes: recipes,
		auth:    auth,
		logger:  logger.Named("http"),
		metrics: config.Metrics,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "savora-core",
		"version": "1.0.0",
	})
}

// ListRecipes returns one catalog page
func (h *Handler) ListRecipes(c *gin.Context) {
	page, ok := queryInt(c, "page", 0)
	if !ok {
		return
	}

	result, err := h.recipes.Browse(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// SearchRecipes filters the catalog and generated recipes by q
func (h *Handler) SearchRecipes(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", h.recipes.PageSize())
	if !ok {
		return
	}
	query := c.Query("q")

	results, err := h.recipes.Search(c.Request.Context(), query, skip, limit)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"query":   query,
		"recipes": results,
		"skip":    skip,
		"limit":   limit,
	})
}

// GetRecipe returns the detail view of a recipe scaled to ?servings
func (h *Handler) GetRecipe(c *gin.Context) {
	servings, ok := queryInt(c, "servings", 0)
	if !ok {
		return
	}
	if servings < 0 {
		h.writeError(c, domain.ErrInvalidServings)
		return
	}

	detail, err := h.recipes.Detail(c.Request.Context(), c.Param("id"), servings)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// CreateRecipe posts a new recipe to the catalog
func (h *Handler) CreateRecipe(c *gin.Context) {
	var req domain.CreateRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// DeleteRecipe deletes a recipe and unfavorites it
func (h *Handler) DeleteRecipe(c *gin.Context) {
	ack, err := h.recipes.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, ack)
}

type generateRequest struct {
	Ingredients []string `json:"ingredients"`
	Text        string   `json:"text"`
}

// GenerateRecipe generates a recipe from a list or free-form text
func (h *Handler) GenerateRecipe(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	ingredients := req.Ingredients
	if len(ingredients) == 0 {
		ingredients = usecase.ParseIngredientInput(req.Text)
	}

	generated, err := h.recipes.Generate(c.Request.Context(), ingredients)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, generated)
}

type saveGeneratedRequest struct {
	Recipe   *domain.GeneratedRecipe `json:"recipe"`
	ImageURL string                  `json:"image_url"`
	Favorite bool                    `json:"favorite"`
}

// SaveGenerated stores a generated recipe locally
func (h *Handler) SaveGenerated(c *gin.Context) {
	var req saveGeneratedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	recipe, err := h.recipes.SaveGenerated(c.Request.Context(), req.Recipe, req.ImageURL, req.Favorite)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, recipe)
}

// GenerateImage renders an image for a generated recipe
func (h *Handler) GenerateImage(c *gin.Context) {
	var req domain.GeneratedRecipe
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	image, err := h.recipes.GenerateImage(c.Request.Context(), &req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// ExtractIngredients reads ingredients from an uploaded photo and merges
// them into the repeated "current" form field
func (h *Handler) ExtractIngredients(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		badRequest(c, "A photo is required in the 'file' field")
		return
	}
	if header.Size > maxPhotoSize {
		badRequest(c, "Photo is too large")
		return
	}

	photo, err := header.Open()
	if err != nil {
		badRequest(c, "Could not read the uploaded photo")
		return
	}
	defer photo.Close()

	merged, err := h.recipes.ExtractIngredients(c.Request.Context(), header.Filename, photo, c.PostFormArray("current"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": merged})
}

// ListFavorites returns the favorited recipes
func (h *Handler) ListFavorites(c *gin.Context) {
	favorites := h.recipes.Favorites()
	recipes, err := favorites.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ids":     favorites.IDs(),
		"recipes": recipes,
	})
}

// AddFavorite favorites a recipe
func (h *Handler) AddFavorite(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipes.Favorites().Add(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "favorite": true})
}

// RemoveFavorite unfavorites a recipe
func (h *Handler) RemoveFavorite(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipes.Favorites().Remove(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "favorite": false})
}

type scaleRequest struct {
	Ingredients      []string `json:"ingredients" binding:"required"`
	Servings         int      `json:"servings"`
	OriginalServings int      `json:"original_servings"`
}

// ScaleIngredients scales ingredient quantities between serving counts
func (h *Handler) ScaleIngredients(c *gin.Context) {
	var req scaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	if req.OriginalServings == 0 {
		req.OriginalServings = usecase.DefaultOriginalServings
	}

	scaled, err := usecase.ScaleIngredients(req.Ingredients, req.Servings, req.OriginalServings)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ingredients": scaled})
}

type segmentRequest struct {
	Instructions string `json:"instructions"`
}

// SegmentInstructions splits an instructions blob into steps
func (h *Handler) SegmentInstructions(c *gin.Context) {
	var req segmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"steps": usecase.SegmentInstructions(req.Instructions)})
}

// Session returns the current auth state
func (h *Handler) Session(c *gin.Context) {
	c.JSON(http.StatusOK, h.auth.State())
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn signs in with email and password
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type signUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SignUp creates an account and signs in
func (h *Handler) SignUp(c *gin.Context) {
	var req signUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	user, err := h.auth.SignUp(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// SignOut ends the session
func (h *Handler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context()); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.auth.State())
}

// writeError maps domain errors to HTTP status codes
func (h *Handler) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrInvalidServings):
		status = http.StatusBadRequest
		message = err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = "Recipe not found"
	case errors.Is(err, domain.ErrNetworkFailure):
		status = http.StatusBadGateway
		message = "Recipe service is unavailable"
	case errors.Is(err, domain.ErrDeviceFailure):
		status = http.StatusUnprocessableEntity
		message = usecase.DeviceErrorMessage(err)
	case errors.Is(err, domain.ErrStorageUnavailable):
		status = http.StatusServiceUnavailable
		message = "Local storage is unavailable"
	}

	if status >= http.StatusInternalServerError || status == http.StatusBadGateway {
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// queryInt parses an optional integer query parameter. On failure it writes
// a 400 and reports false.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "Query parameter '"+name+"' must be an integer")
		return 0, false
	}
	return value, true
}
