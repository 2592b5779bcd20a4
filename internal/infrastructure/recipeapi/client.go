// Package recipeapi is the HTTP client for the external recipe API: the
// catalog endpoints plus recipe generation, ingredient extraction and image
// generation.
package recipeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/infrastructure/metrics"
)

const (
	recipesPath         = "/api/v1/recipes/"
	generateRecipePath  = "/api/v1/generate/generate-recipe/"
	extractPath         = "/api/v1/image/extract-ingredients/"
	generateImagePath   = "/api/v1/image/generate-image/"
	maxErrorBodyBytes   = 4 << 10
	maxResponseBodySize = 16 << 20
)

// Compile-time interface check.
var _ domain.RecipeAPIClient = (*Client)(nil)

// Client handles communication with the recipe API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	rateLimiter *rate.Limiter
	maxRetries  int
	debug       bool
	logger      *zap.Logger
	metrics     *metrics.Recorder
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit sets the client-side request rate in requests per second
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps > 0 && burst > 0 {
			c.rateLimiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

// WithMaxRetries sets how many attempts idempotent requests get
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxRetries = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l.Named("recipeapi")
		}
	}
}

// WithMetrics records per-endpoint call outcomes
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a new recipe API client
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(10), 20),
		maxRetries:  3,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

func (c *Client) debugLog(format string, args ...any) {
	if c.debug {
		c.logger.Debug(fmt.Sprintf(format, args...))
	}
}

// exponentialBackoff returns the wait before the given retry attempt
func exponentialBackoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// readLimitedBody reads at most limit bytes of r
func readLimitedBody(r io.Reader, limit int64) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, limit))
}

// isRetryable reports whether a status code is worth another attempt
func isRetryable(status int) bool {
	return status >= 500 || status == http.StatusTooManyRequests
}

// request describes one logical API call. The body is kept as bytes so it
// can be replayed on retry.
type request struct {
	endpoint    string
	method      string
	path        string
	query       url.Values
	body        []byte
	contentType string
	idempotent  bool
}

// do executes a request with rate limiting, retries for idempotent calls,
// and status mapping. A 404 yields domain.ErrNotFound.
func (c *Client) do(ctx context.Context, req request) ([]byte, error) {
	start := time.Now()
	body, err := c.doWithRetry(ctx, req)

	outcome := "success"
	if err != nil {
		outcome = "error"
		if errors.Is(err, domain.ErrNotFound) {
			outcome = "not_found"
		}
	}
	c.metrics.ObserveAPICall(req.endpoint, outcome, time.Since(start).Seconds())

	return body, err
}

func (c *Client) doWithRetry(ctx context.Context, req request) ([]byte, error) {
	reqURL := c.baseURL + req.path
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	attempts := 1
	if req.idempotent {
		attempts = c.maxRetries
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(exponentialBackoff(attempt - 1)):
			}
		}

		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		var bodyReader io.Reader
		if req.body != nil {
			bodyReader = bytes.NewReader(req.body)
		}
		httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		httpReq.Header.Set("User-Agent", "Savora/1.0")
		httpReq.Header.Set("Accept", "application/json")
		if req.contentType != "" {
			httpReq.Header.Set("Content-Type", req.contentType)
		}

		c.debugLog("%s %s (attempt %d)", req.method, reqURL, attempt)

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %v", domain.ErrNetworkFailure, ctx.Err())
			}
			c.logger.Warn("request error",
				zap.String("endpoint", req.endpoint),
				zap.Int("attempt", attempt),
				zap.Error(err))
			lastErr = fmt.Errorf("%w: %v", domain.ErrNetworkFailure, err)
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			body, err := readLimitedBody(resp.Body, maxResponseBodySize)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("%w: reading response: %v", domain.ErrNetworkFailure, err)
			}
			return body, nil
		}

		errBody, _ := readLimitedBody(resp.Body, maxErrorBodyBytes)
		resp.Body.Close()

		if resp.StatusCode == http.StatusNotFound {
			return nil, domain.ErrNotFound
		}

		c.logger.Warn("API error",
			zap.String("endpoint", req.endpoint),
			zap.Int("attempt", attempt),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", errBody))
		lastErr = fmt.Errorf("%w: status %d, body: %s", domain.ErrNetworkFailure, resp.StatusCode, string(errBody))

		if !isRetryable(resp.StatusCode) {
			return nil, lastErr
		}
	}

	c.logger.Error("all attempts failed", zap.String("endpoint", req.endpoint), zap.Error(lastErr))
	return nil, lastErr
}

func (c *Client) doJSON(ctx context.Context, req request, payload any, out any) error {
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		req.body = data
		req.contentType = "application/json"
	}

	body, err := c.do(ctx, req)
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// ListRecipes fetches one window of the recipe catalog
func (c *Client) ListRecipes(ctx context.Context, skip, limit int) ([]domain.Recipe, error) {
	query := url.Values{}
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var recs apiRecipeList
	err := c.doJSON(ctx, request{
		endpoint:   "list_recipes",
		method:     http.MethodGet,
		path:       recipesPath,
		query:      query,
		idempotent: true,
	}, nil, &recs)
	if err != nil {
		return nil, err
	}

	c.debugLog("listed %d recipes (skip=%d, limit=%d)", len(recs), skip, limit)
	return MapToRecipes(recs), nil
}

// GetRecipe fetches a single recipe by server id
func (c *Client) GetRecipe(ctx context.Context, id string) (*domain.Recipe, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}

	var rec apiRecipe
	err := c.doJSON(ctx, request{
		endpoint:   "get_recipe",
		method:     http.MethodGet,
		path:       recipesPath + url.PathEscape(id),
		idempotent: true,
	}, nil, &rec)
	if err != nil {
		return nil, err
	}

	recipe := MapToRecipe(&rec)
	return &recipe, nil
}

// CreateRecipe posts a new recipe to the catalog
func (c *Client) CreateRecipe(ctx context.Context, payload *domain.CreateRecipeRequest) (*domain.Recipe, error) {
	var rec apiRecipe
	err := c.doJSON(ctx, request{
		endpoint: "create_recipe",
		method:   http.MethodPost,
		path:     recipesPath,
	}, payload, &rec)
	if err != nil {
		return nil, err
	}

	recipe := MapToRecipe(&rec)
	return &recipe, nil
}

// DeleteRecipe removes a recipe from the catalog. The acknowledgement body
// is optional and may not be JSON.
func (c *Client) DeleteRecipe(ctx context.Context, id string) (*domain.DeleteAck, error) {
	body, err := c.do(ctx, request{
		endpoint:   "delete_recipe",
		method:     http.MethodDelete,
		path:       recipesPath + url.PathEscape(id),
		idempotent: true,
	})
	if err != nil {
		return nil, err
	}

	ack := &domain.DeleteAck{}
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, ack); err != nil {
			ack.Message = string(body)
		}
	}
	return ack, nil
}

// GenerateRecipe asks the API to invent a recipe from the given ingredients
func (c *Client) GenerateRecipe(ctx context.Context, ingredients []string) (*domain.GeneratedRecipe, error) {
	var generated domain.GeneratedRecipe
	err := c.doJSON(ctx, request{
		endpoint: "generate_recipe",
		method:   http.MethodPost,
		path:     generateRecipePath,
	}, domain.GenerateRecipeRequest{Ingredients: ingredients}, &generated)
	if err != nil {
		return nil, err
	}
	return &generated, nil
}

// ExtractIngredients uploads a photo and returns the ingredients seen in it
func (c *Client) ExtractIngredients(ctx context.Context, filename string, photo io.Reader) (*domain.ExtractedIngredients, error) {
	if filename == "" {
		filename = "capture.jpg"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(filename))
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, photo); err != nil {
		return nil, fmt.Errorf("failed to read photo: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	body, err := c.do(ctx, request{
		endpoint:    "extract_ingredients",
		method:      http.MethodPost,
		path:        extractPath,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return nil, err
	}

	var extracted domain.ExtractedIngredients
	if err := json.Unmarshal(body, &extracted); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &extracted, nil
}

// GenerateImage asks the API to render an image for the prompt
func (c *Client) GenerateImage(ctx context.Context, prompt string) (*domain.GeneratedImage, error) {
	var img domain.GeneratedImage
	err := c.doJSON(ctx, request{
		endpoint: "generate_image",
		method:   http.MethodPost,
		path:     generateImagePath,
	}, map[string]string{"prompt": prompt}, &img)
	if err != nil {
		return nil, err
	}

	c.debugLog("generated image %s", img.PublicID)
	return &img, nil
}
