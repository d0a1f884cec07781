package recommend

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wenhua/meal-advisor/internal/domain/catalog"
	"github.com/wenhua/meal-advisor/internal/domain/targets"
	"github.com/wenhua/meal-advisor/internal/infra/llm/chatgpt"
	apperrors "github.com/wenhua/meal-advisor/pkg/errors"
	"github.com/wenhua/meal-advisor/pkg/metrics"
)

// Service exposes the recommendation capabilities of the system.
type Service interface {
	RecommendFood(ctx context.Context, req Request) (FoodResponse, error)
	RecommendRecipe(ctx context.Context, req Request) (RecipeResponse, error)
	SummarizeHistory(ctx context.Context, history string) (string, error)
	ExplainFood(ctx context.Context, name, nutritionalInfo, description string) (string, error)
	AnalyzeRecipe(ctx context.Context, name, ingredients, instructions string) (string, error)
	SuggestRecipes(ctx context.Context, ingredients string) (string, error)
	LastRecommendations(ctx context.Context, sessionID string) (RecommendationSet, bool, error)
}

type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error)
}

// Config tunes the generation calls and the rule-based fallback mode.
type Config struct {
	Generative        bool
	Model             string
	Temperature       float32
	RequestTimeout    time.Duration
	SummaryMaxTokens  int
	FoodMaxTokens     int
	RecipeMaxTokens   int
	ExplainMaxTokens  int
	AnalyzeMaxTokens  int
	SuggestMaxTokens  int
	PromptTokenBudget int
	MaxCatalogResults int
	SessionTTL        time.Duration
}

// Request carries one interaction's constraints. RecentMeals only influences
// the non-generative ranking path.
type Request struct {
	SessionID   string             `json:"sessionId,omitempty"`
	Preferences []string           `json:"preferences"`
	Allergens   []string           `json:"allergens"`
	CuisineType string             `json:"cuisineType"`
	MealType    string             `json:"mealType"`
	History     string             `json:"history"`
	RecentMeals []targets.Consumed `json:"recentMeals,omitempty"`
}

// Mode reports which path produced a response.
const (
	ModeGenerative = "generative"
	ModeCatalog    = "catalog"
)

// FoodResponse wraps the food records of one interaction. The generative
// path returns exactly one record; the catalog path returns the ranked top
// matches. Notice is a plain informational message, never an error.
type FoodResponse struct {
	SessionID string               `json:"sessionId"`
	Mode      string               `json:"mode"`
	Summary   string               `json:"summary,omitempty"`
	Foods     []FoodRecommendation `json:"foods"`
	Notice    string               `json:"notice,omitempty"`
}

// RecipeResponse is the recipe counterpart of FoodResponse.
type RecipeResponse struct {
	SessionID string                 `json:"sessionId"`
	Mode      string                 `json:"mode"`
	Summary   string                 `json:"summary,omitempty"`
	Recipes   []RecipeRecommendation `json:"recipes"`
	Notice    string                 `json:"notice,omitempty"`
}

type service struct {
	cfg     Config
	client  ChatClient
	repo    catalog.Repository
	scorer  *catalog.Scorer
	store   SessionStore
	logger  *slog.Logger
	newUUID func() string
}

// NewService wires up the recommendation domain. client may be nil when the
// generation credential is absent; cfg.Generative gates every use of it.
func NewService(cfg Config, client ChatClient, repo catalog.Repository, store SessionStore, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		client:  client,
		repo:    repo,
		scorer:  catalog.NewScorer(targets.ReferenceTargets()),
		store:   store,
		logger:  logger.With("component", "recommend.service"),
		newUUID: uuid.NewString,
	}
}

func (s *service) RecommendFood(ctx context.Context, req Request) (FoodResponse, error) {
	sessionID := s.sessionID(req.SessionID)

	if !s.cfg.Generative {
		return s.foodFromCatalog(ctx, sessionID, req)
	}

	var usage metrics.TokenUsage
	summary := s.summaryOrHistory(ctx, req.History, &usage)
	pctx := promptContext(req, summary)

	raw, err := s.complete(ctx, BuildFoodPrompt(pctx), s.cfg.FoodMaxTokens, &usage)
	if err != nil {
		return FoodResponse{}, err
	}
	s.logUsage(sessionID, usage)

	record := ParseFood(raw, pctx)
	if record.Origin == OriginFallback {
		s.logger.Warn("food response not parseable, fallback record built", "session_id", sessionID)
	}

	resp := FoodResponse{
		SessionID: sessionID,
		Mode:      ModeGenerative,
		Summary:   summary,
		Foods:     []FoodRecommendation{record},
	}
	s.saveSet(ctx, sessionID, func(set *RecommendationSet) {
		set.Summary = summary
		set.Foods = resp.Foods
	})
	return resp, nil
}

func (s *service) RecommendRecipe(ctx context.Context, req Request) (RecipeResponse, error) {
	sessionID := s.sessionID(req.SessionID)

	if !s.cfg.Generative {
		// There is no static recipe catalog; only the food path has a
		// rule-based equivalent.
		return RecipeResponse{
			SessionID: sessionID,
			Mode:      ModeCatalog,
			Recipes:   []RecipeRecommendation{},
			Notice:    "Recipe suggestions require the generation service, which is not configured.",
		}, nil
	}

	var usage metrics.TokenUsage
	summary := s.summaryOrHistory(ctx, req.History, &usage)
	pctx := promptContext(req, summary)

	raw, err := s.complete(ctx, BuildRecipePrompt(pctx), s.cfg.RecipeMaxTokens, &usage)
	if err != nil {
		return RecipeResponse{}, err
	}
	s.logUsage(sessionID, usage)

	record := ParseRecipe(raw, pctx)
	if record.Origin == OriginFallback {
		s.logger.Warn("recipe response not parseable, fallback record built", "session_id", sessionID)
	}

	resp := RecipeResponse{
		SessionID: sessionID,
		Mode:      ModeGenerative,
		Summary:   summary,
		Recipes:   []RecipeRecommendation{record},
	}
	s.saveSet(ctx, sessionID, func(set *RecommendationSet) {
		set.Summary = summary
		set.Recipes = resp.Recipes
	})
	return resp, nil
}

// SummarizeHistory condenses the free-text food history. An empty history
// short-circuits without a generation call.
func (s *service) SummarizeHistory(ctx context.Context, history string) (string, error) {
	return s.summarize(ctx, history, nil)
}

func (s *service) summarize(ctx context.Context, history string, usage *metrics.TokenUsage) (string, error) {
	if strings.TrimSpace(history) == "" {
		return "No dietary information provided.", nil
	}
	if !s.cfg.Generative {
		return "", apperrors.Wrap(apperrors.CodeConfigMissing, "generation service not configured", nil)
	}
	return s.complete(ctx, BuildSummaryPrompt(history), s.cfg.SummaryMaxTokens, usage)
}

func (s *service) ExplainFood(ctx context.Context, name, nutritionalInfo, description string) (string, error) {
	if err := s.requireGenerative(); err != nil {
		return "", err
	}
	return s.complete(ctx, BuildExplainFoodPrompt(name, nutritionalInfo, description), s.cfg.ExplainMaxTokens, nil)
}

func (s *service) AnalyzeRecipe(ctx context.Context, name, ingredients, instructions string) (string, error) {
	if err := s.requireGenerative(); err != nil {
		return "", err
	}
	return s.complete(ctx, BuildAnalyzeRecipePrompt(name, ingredients, instructions), s.cfg.AnalyzeMaxTokens, nil)
}

func (s *service) SuggestRecipes(ctx context.Context, ingredients string) (string, error) {
	if err := s.requireGenerative(); err != nil {
		return "", err
	}
	return s.complete(ctx, BuildSuggestRecipesPrompt(ingredients), s.cfg.SuggestMaxTokens, nil)
}

func (s *service) LastRecommendations(ctx context.Context, sessionID string) (RecommendationSet, bool, error) {
	if strings.TrimSpace(sessionID) == "" {
		return RecommendationSet{}, false, apperrors.Wrap(apperrors.CodeInvalidInput, "session id cannot be empty", nil)
	}
	return s.store.Get(ctx, sessionID)
}

// foodFromCatalog is the non-generative mode: preference filter, complement
// ranking, capped result. An empty filter result is an informational notice,
// not an error.
func (s *service) foodFromCatalog(ctx context.Context, sessionID string, req Request) (FoodResponse, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return FoodResponse{}, apperrors.Wrap(apperrors.CodeNoMatches, "catalog unavailable", err)
	}

	filtered := catalog.FilterByPreferences(items, req.Preferences)
	if len(filtered) == 0 {
		return FoodResponse{
			SessionID: sessionID,
			Mode:      ModeCatalog,
			Foods:     []FoodRecommendation{},
			Notice:    "No foods found matching your criteria. Try adjusting your filters.",
		}, nil
	}

	ranked := s.scorer.Rank(filtered, req.RecentMeals)
	if max := s.cfg.MaxCatalogResults; max > 0 && len(ranked) > max {
		ranked = ranked[:max]
	}

	foods := make([]FoodRecommendation, 0, len(ranked))
	for _, item := range ranked {
		foods = append(foods, catalogRecord(item))
	}

	resp := FoodResponse{
		SessionID: sessionID,
		Mode:      ModeCatalog,
		Foods:     foods,
	}
	s.saveSet(ctx, sessionID, func(set *RecommendationSet) {
		set.Foods = foods
	})
	return resp, nil
}

// summaryOrHistory tries to pre-summarize the history; on failure the raw
// history is used so the recommendation call still proceeds.
func (s *service) summaryOrHistory(ctx context.Context, history string, usage *metrics.TokenUsage) string {
	summary, err := s.summarize(ctx, history, usage)
	if err != nil {
		s.logger.Warn("history summary failed, using raw history", "error", err)
		return history
	}
	return summary
}

// complete performs one bounded generation call and returns the completion
// text. Timeout expiry surfaces as a generation failure like any other
// transport error. A non-nil usage pointer accumulates the call's token
// counts, so multi-call interactions can report their combined spend.
func (s *service) complete(ctx context.Context, prompt string, maxTokens int, usage *metrics.TokenUsage) (string, error) {
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	estimated := EstimateTokens(s.cfg.Model, prompt)
	if s.cfg.PromptTokenBudget > 0 && estimated > s.cfg.PromptTokenBudget {
		s.logger.Warn("prompt exceeds token budget", "estimated_tokens", estimated, "budget", s.cfg.PromptTokenBudget)
	}

	resp, err := s.client.CreateChatCompletion(ctx, chatgpt.ChatCompletionRequest{
		Model: s.cfg.Model,
		Messages: []chatgpt.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: s.cfg.Temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "generation request failed", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.Wrap(apperrors.CodeLLMError, "generation returned no choices", nil)
	}
	if !resp.Usage.IsZero() {
		if usage != nil {
			*usage = usage.Add(resp.Usage)
		}
		s.logger.Debug("generation call completed", "estimated_prompt_tokens", estimated, "usage_total_tokens", resp.Usage.TotalTokens)
	}
	return resp.Choices[0].Message.Content, nil
}

// logUsage reports the combined token spend of one interaction.
func (s *service) logUsage(sessionID string, usage metrics.TokenUsage) {
	if usage.IsZero() {
		return
	}
	s.logger.Info("interaction token usage", "session_id", sessionID, "prompt_tokens", usage.PromptTokens, "completion_tokens", usage.CompletionTokens, "total_tokens", usage.TotalTokens)
}

func (s *service) requireGenerative() error {
	if !s.cfg.Generative {
		return apperrors.Wrap(apperrors.CodeConfigMissing, "generation service not configured", nil)
	}
	return nil
}

func (s *service) sessionID(requested string) string {
	if strings.TrimSpace(requested) != "" {
		return requested
	}
	return s.newUUID()
}

// saveSet merges the mutation into the session's existing set before saving.
// Store failures are logged, never surfaced: the cache is best effort.
func (s *service) saveSet(ctx context.Context, sessionID string, mutate func(*RecommendationSet)) {
	set, ok, err := s.store.Get(ctx, sessionID)
	if err != nil {
		s.logger.Warn("session store read failed", "session_id", sessionID, "error", err)
	}
	if !ok {
		set = RecommendationSet{SessionID: sessionID}
	}
	mutate(&set)
	set.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, set, s.cfg.SessionTTL); err != nil {
		s.logger.Warn("session store write failed", "session_id", sessionID, "error", err)
	}
}

func promptContext(req Request, contextText string) PromptContext {
	return PromptContext{
		Preferences: req.Preferences,
		Allergens:   req.Allergens,
		CuisineType: req.CuisineType,
		MealType:    req.MealType,
		History:     contextText,
	}
}

// catalogRecord renders a catalog item in the recommendation record shape so
// both modes expose the same contract downstream.
func catalogRecord(item catalog.FoodItem) FoodRecommendation {
	dietary := SentinelNA
	if len(item.Tags) > 0 {
		dietary = strings.Join(item.Tags, ", ")
	}
	return FoodRecommendation{
		Name:        item.Name,
		Description: textOrSentinel(item.Description),
		CuisineType: textOrSentinel(item.CuisineType),
		MealType:    textOrSentinel(item.MealType),
		Calories:    formatGrams(item.Calories),
		Protein:     formatGrams(item.Protein),
		Carbs:       formatGrams(item.Carbs),
		Fat:         formatGrams(item.Fat),
		DietaryInfo: dietary,
		Allergens:   SentinelNA,
		RawResponse: fmt.Sprintf("catalog item: %s", item.Name),
		Origin:      OriginParsed,
	}
}

func textOrSentinel(value string) string {
	if strings.TrimSpace(value) == "" {
		return SentinelNA
	}
	return value
}

func formatGrams(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}
