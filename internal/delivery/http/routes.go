package http

import (
	"github.com/gin-gonic/gin"

	"github.com/savora/core/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware(handler.logger))
	router.Use(LoggerMiddleware(handler.logger))
	if handler.metrics != nil {
		router.Use(MetricsMiddleware(handler.metrics))
	}
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	if handler.metrics != nil {
		router.GET("/metrics", gin.WrapH(handler.metrics.Handler()))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		recipes := v1.Group("/recipes")
		{
			recipes.GET("", handler.ListRecipes)
			recipes.GET("/search", handler.SearchRecipes)
			recipes.GET("/:id", handler.GetRecipe)
			recipes.POST("", handler.CreateRecipe)
			recipes.DELETE("/:id", handler.DeleteRecipe)
		}

		generate := v1.Group("/generate")
		{
			generate.POST("", handler.GenerateRecipe)
			generate.POST("/save", handler.SaveGenerated)
			generate.POST("/image", handler.GenerateImage)
		}

		v1.POST("/ingredients/extract", handler.ExtractIngredients)

		favorites := v1.Group("/favorites")
		{
			favorites.GET("", handler.ListFavorites)
			favorites.PUT("/:id", handler.AddFavorite)
			favorites.DELETE("/:id", handler.RemoveFavorite)
		}

		tools := v1.Group("/tools")
		{
			tools.POST("/scale", handler.ScaleIngredients)
			tools.POST("/segment", handler.SegmentInstructions)
		}

		auth := v1.Group("/auth")
		{
			auth.GET("/session", handler.Session)
			auth.POST("/signin", handler.SignIn)
			auth.POST("/signup", handler.SignUp)
			auth.POST("/signout", handler.SignOut)
		}
	}

	return router
}
