package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wenhua/meal-advisor/internal/domain/nutrition"
	"github.com/wenhua/meal-advisor/internal/domain/recommend"
	"github.com/wenhua/meal-advisor/internal/domain/targets"
	"github.com/wenhua/meal-advisor/internal/infra/nutrition/apininjas"
	apperrors "github.com/wenhua/meal-advisor/pkg/errors"
)

// Handler wires the HTTP transport to the domain services.
type Handler struct {
	recommendSvc recommend.Service
	nutritionCli nutrition.Client
	logger       *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(recommendSvc recommend.Service, nutritionCli nutrition.Client, logger *slog.Logger) *Handler {
	return &Handler{
		recommendSvc: recommendSvc,
		nutritionCli: nutritionCli,
		logger:       logger.With("component", "http.handler"),
	}
}

// RecommendFood returns one generated food recommendation, or the ranked
// catalog matches when the generation service is not configured.
func (h *Handler) RecommendFood(c *gin.Context) {
	var req recommend.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.recommendSvc.RecommendFood(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, recommendError(err, "food_recommendation_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecommendRecipe is the recipe counterpart of RecommendFood.
func (h *Handler) RecommendRecipe(c *gin.Context) {
	var req recommend.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	resp, err := h.recommendSvc.RecommendRecipe(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, recommendError(err, "recipe_recommendation_failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LastRecommendations returns the cached recommendation set of a session.
func (h *Handler) LastRecommendations(c *gin.Context) {
	sessionID := c.Param("sessionId")

	set, ok, err := h.recommendSvc.LastRecommendations(c.Request.Context(), sessionID)
	if err != nil {
		abortWithError(c, recommendError(err, "session_lookup_failed"))
		return
	}
	if !ok {
		abortWithError(c, NewHTTPError(http.StatusNotFound, "session_not_found", "no recommendations stored for this session", nil))
		return
	}
	c.JSON(http.StatusOK, set)
}

type summaryRequest struct {
	History string `json:"history"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

// Summarize condenses a free-text food history.
func (h *Handler) Summarize(c *gin.Context) {
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	summary, err := h.recommendSvc.SummarizeHistory(c.Request.Context(), req.History)
	if err != nil {
		abortWithError(c, recommendError(err, "summary_failed"))
		return
	}
	c.JSON(http.StatusOK, summaryResponse{Summary: summary})
}

type targetsRequest struct {
	WeightKg      float64 `json:"weightKg"`
	HeightCm      float64 `json:"heightCm"`
	Age           float64 `json:"age"`
	Sex           string  `json:"sex"`
	ActivityLevel string  `json:"activityLevel"`
}

// DailyTargets computes BMR and the fixed macro targets from biometrics.
// Numeric ranges are enforced here, at the boundary, so the calculator can
// assume valid inputs.
func (h *Handler) DailyTargets(c *gin.Context) {
	var req targetsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	if req.WeightKg <= 0 || req.HeightCm <= 0 || req.Age <= 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "weightKg, heightCm and age must be positive", nil))
		return
	}
	sex, err := targets.ParseSex(req.Sex)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}
	level, err := targets.ParseActivityLevel(req.ActivityLevel)
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	result := targets.ComputeDailyTargets(targets.Profile{
		WeightKg:      req.WeightKg,
		HeightCm:      req.HeightCm,
		Age:           req.Age,
		Sex:           sex,
		ActivityLevel: level,
	})
	c.JSON(http.StatusOK, result)
}

// NutritionLookup proxies the external nutrition facts service.
func (h *Handler) NutritionLookup(c *gin.Context) {
	food := c.Query("food")
	if food == "" {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", "food query parameter is required", nil))
		return
	}

	facts, err := h.nutritionCli.Lookup(c.Request.Context(), food)
	if err != nil {
		if errors.Is(err, apininjas.ErrNotFound) {
			abortWithError(c, NewHTTPError(http.StatusNotFound, "nutrition_not_found", "no nutrition data for that food", err))
			return
		}
		abortWithError(c, NewHTTPError(http.StatusBadGateway, apperrors.CodeNutritionError, "could not fetch nutritional information", err))
		return
	}
	c.JSON(http.StatusOK, facts)
}

type explainFoodRequest struct {
	Name            string `json:"name"`
	NutritionalInfo string `json:"nutritionalInfo"`
	Description     string `json:"description"`
}

type analyzeRecipeRequest struct {
	Name         string `json:"name"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
}

type suggestRecipesRequest struct {
	Ingredients string `json:"ingredients"`
}

type analysisResponse struct {
	Analysis string `json:"analysis"`
}

// ExplainFood returns a markdown insight write-up for one food.
func (h *Handler) ExplainFood(c *gin.Context) {
	var req explainFoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	analysis, err := h.recommendSvc.ExplainFood(c.Request.Context(), req.Name, req.NutritionalInfo, req.Description)
	if err != nil {
		abortWithError(c, recommendError(err, "food_analysis_failed"))
		return
	}
	c.JSON(http.StatusOK, analysisResponse{Analysis: analysis})
}

// AnalyzeRecipe returns cooking insights for a concrete recipe.
func (h *Handler) AnalyzeRecipe(c *gin.Context) {
	var req analyzeRecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	analysis, err := h.recommendSvc.AnalyzeRecipe(c.Request.Context(), req.Name, req.Ingredients, req.Instructions)
	if err != nil {
		abortWithError(c, recommendError(err, "recipe_analysis_failed"))
		return
	}
	c.JSON(http.StatusOK, analysisResponse{Analysis: analysis})
}

// SuggestRecipes proposes recipes from available ingredients.
func (h *Handler) SuggestRecipes(c *gin.Context) {
	var req suggestRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", errMessage(err), err))
		return
	}

	analysis, err := h.recommendSvc.SuggestRecipes(c.Request.Context(), req.Ingredients)
	if err != nil {
		abortWithError(c, recommendError(err, "recipe_suggestions_failed"))
		return
	}
	c.JSON(http.StatusOK, analysisResponse{Analysis: analysis})
}

// recommendError maps domain error codes onto HTTP statuses. Generation
// failures surface as an inline notice with 502; a missing credential on a
// generation-only operation is 503.
func recommendError(err error, fallbackCode string) *HTTPError {
	status := http.StatusInternalServerError
	code := fallbackCode
	switch {
	case apperrors.IsCode(err, apperrors.CodeInvalidInput):
		status = http.StatusBadRequest
		code = "invalid_request"
	case apperrors.IsCode(err, apperrors.CodeLLMError):
		status = http.StatusBadGateway
		code = apperrors.CodeLLMError
	case apperrors.IsCode(err, apperrors.CodeConfigMissing):
		status = http.StatusServiceUnavailable
		code = apperrors.CodeConfigMissing
	case apperrors.IsCode(err, apperrors.CodeNoMatches):
		status = http.StatusServiceUnavailable
		code = apperrors.CodeNoMatches
	}
	return NewHTTPError(status, code, errMessage(err), err)
}
