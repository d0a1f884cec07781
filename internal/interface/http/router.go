package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wenhua/meal-advisor/internal/infra/config"
)

// NewRouter wires up the HTTP handlers and returns a configured server.
func NewRouter(cfg *config.Config, handler *Handler) *http.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(
		gin.Recovery(),
		requestLogger(handler.logger),
		corsMiddleware(cfg.HTTP.AllowedOrigins),
		errorHandlingMiddleware(handler.logger),
	)
	if cfg.HTTP.RateLimit.Enabled {
		router.Use(rateLimitMiddleware(cfg.HTTP.RateLimit, handler.logger))
	}

	api := router.Group("/api/v1")
	{
		api.POST("/recommendations/food", handler.RecommendFood)
		api.POST("/recommendations/recipe", handler.RecommendRecipe)
		api.GET("/recommendations/:sessionId", handler.LastRecommendations)
		api.POST("/summaries", handler.Summarize)
		api.POST("/targets", handler.DailyTargets)
		api.GET("/nutrition", handler.NutritionLookup)
		api.POST("/analysis/food", handler.ExplainFood)
		api.POST("/analysis/recipe", handler.AnalyzeRecipe)
		api.POST("/analysis/suggestions", handler.SuggestRecipes)
	}

	var root http.Handler = router
	if cfg.HTTP.Retry.Enabled {
		root = withRetry(router, cfg.HTTP.Retry, handler.logger)
	}

	return &http.Server{
		Addr:           cfg.HTTP.Address,
		Handler:        root,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: 1 << 20,
	}
}
