// Package app wires configuration, infrastructure and use cases into a
// running application shared by the server and the CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/savora/core/config"
	httpDelivery "github.com/savora/core/internal/delivery/http"
	"github.com/savora/core/internal/domain"
	"github.com/savora/core/internal/infrastructure/logging"
	"github.com/savora/core/internal/infrastructure/metrics"
	"github.com/savora/core/internal/infrastructure/recipeapi"
	"github.com/savora/core/internal/infrastructure/storage"
	"github.com/savora/core/internal/usecase"
)

const shutdownTimeout = 10 * time.Second

// App holds the long-lived components of one application instance
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Recorder
	API       *recipeapi.Client
	Store     domain.KeyValueStore
	Favorites *usecase.FavoritesStore
	Recipes   *usecase.RecipeService
	Auth      *usecase.MockAuthProvider
}

// New builds the application. A nil logger is replaced by one built from
// cfg.Log.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		var err error
		logger, err = logging.New(cfg.Server.Environment, cfg.Log.Level)
		if err != nil {
			return nil, err
		}
	}

	recorder := metrics.New()

	api := recipeapi.NewClient(cfg.API.BaseURL,
		recipeapi.WithTimeout(cfg.API.Timeout),
		recipeapi.WithRateLimit(cfg.API.RateLimit, cfg.API.RateBurst),
		recipeapi.WithMaxRetries(cfg.API.MaxRetries),
		recipeapi.WithLogger(logger),
		recipeapi.WithMetrics(recorder),
	)
	if cfg.API.Debug || cfg.Server.Environment == "development" {
		api.SetDebug(true)
	}

	store, err := storage.New(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	favorites, err := usecase.NewFavoritesStore(ctx, store, api, usecase.FavoritesStoreConfig{
		Logger: logger,
		Gauge:  recorder,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load favorites: %w", err)
	}

	recipes := usecase.NewRecipeService(api, favorites, usecase.RecipeServiceConfig{
		PageSize:     cfg.Pagination.PageSize,
		SearchWindow: cfg.Search.WindowLimit,
		Logger:       logger,
	})

	logger.Info("application ready",
		zap.String("environment", cfg.Server.Environment),
		zap.String("api", cfg.API.BaseURL),
		zap.String("storage", cfg.Storage.Type),
		zap.Int("favorites", favorites.Count()))

	return &App{
		Config:    cfg,
		Logger:    logger,
		Metrics:   recorder,
		API:       api,
		Store:     store,
		Favorites: favorites,
		Recipes:   recipes,
		Auth:      usecase.NewMockAuthProvider(cfg.Auth.Delay, logger),
	}, nil
}

// Router builds the HTTP router serving the application
func (a *App) Router() *gin.Engine {
	handler := httpDelivery.NewHandler(a.Recipes, a.Auth, httpDelivery.HandlerConfig{
		Logger:  a.Logger,
		Metrics: a.Metrics,
	})
	return httpDelivery.SetupRouter(a.Config, handler)
}

// NewCaptureController creates a capture controller for device that sends
// photos to the recipe API
func (a *App) NewCaptureController(device domain.CaptureDevice) *usecase.CaptureController {
	return usecase.NewCaptureController(device, a.API, usecase.CaptureConfig{
		Mirror:      a.Config.Camera.Mirror,
		JPEGQuality: a.Config.Camera.JPEGQuality,
		Logger:      a.Logger,
	})
}

// NewSearchDebouncer calls search once input has been quiet for the
// configured search debounce
func (a *App) NewSearchDebouncer(search func(query string)) *usecase.Debouncer {
	return usecase.NewDebouncer(a.Config.Search.Debounce, search)
}

// Serve listens on the configured port until ctx is canceled, then shuts
// the server down gracefully
func (a *App) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", ":"+a.Config.Server.Port)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.serve(ctx, listener)
}

func (a *App) serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           a.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.Logger.Info("server listening", zap.String("addr", listener.Addr().String()))
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	a.Logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close releases the storage backend and flushes the logger
func (a *App) Close() error {
	err := a.Store.Close()
	_ = a.Logger.Sync()
	return err
}
