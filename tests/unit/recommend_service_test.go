package unit

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wenhua/meal-advisor/internal/domain/recommend"
	"github.com/wenhua/meal-advisor/internal/infra/catalogrepo"
	"github.com/wenhua/meal-advisor/internal/infra/llm/chatgpt"
	"github.com/wenhua/meal-advisor/internal/infra/recstore"
	apperrors "github.com/wenhua/meal-advisor/pkg/errors"
	"github.com/wenhua/meal-advisor/pkg/metrics"
)

func TestRecommendFoodGenerative(t *testing.T) {
	client := &stubChatClient{
		responses: []chatgpt.ChatCompletionResponse{
			completion("A balanced, mostly vegetarian profile."),
			completion(`{"name":"Quinoa Bowl","calories":420,"protein":15}`),
		},
	}
	store := recstore.NewMemoryStore()
	svc := newService(t, testConfig(), client, store)

	resp, err := svc.RecommendFood(context.Background(), recommend.Request{
		SessionID:   "sess-1",
		Preferences: []string{"Vegetarian"},
		History:     "oatmeal, veggie curry, salads",
	})
	require.NoError(t, err)
	require.Equal(t, "sess-1", resp.SessionID)
	require.Equal(t, recommend.ModeGenerative, resp.Mode)
	require.Equal(t, "A balanced, mostly vegetarian profile.", resp.Summary)
	require.Len(t, resp.Foods, 1)
	require.Equal(t, "Quinoa Bowl", resp.Foods[0].Name)
	require.Equal(t, "420", resp.Foods[0].Calories)
	require.Equal(t, recommend.OriginParsed, resp.Foods[0].Origin)

	// Two generation calls: the history summary, then the recommendation.
	require.Len(t, client.requests, 2)
	require.Contains(t, client.requests[0].Messages[1].Content, "oatmeal, veggie curry, salads")
	require.Contains(t, client.requests[1].Messages[1].Content, "Vegetarian")

	set, ok, err := svc.LastRecommendations(context.Background(), "sess-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, set.Foods, 1)
	require.Equal(t, "Quinoa Bowl", set.Foods[0].Name)
}

func TestRecommendFoodGenerationFailure(t *testing.T) {
	client := &stubChatClient{
		errs: []error{nil, errors.New("upstream 500")},
		responses: []chatgpt.ChatCompletionResponse{
			completion("summary"),
		},
	}
	svc := newService(t, testConfig(), client, recstore.NewMemoryStore())

	_, err := svc.RecommendFood(context.Background(), recommend.Request{History: "rice and beans"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, apperrors.CodeLLMError))
}

func TestRecommendFoodSummaryFailureUsesRawHistory(t *testing.T) {
	client := &stubChatClient{
		errs: []error{errors.New("summary timeout"), nil},
		responses: []chatgpt.ChatCompletionResponse{
			{},
			completion(`{"name":"Fallback Friendly Dish"}`),
		},
	}
	svc := newService(t, testConfig(), client, recstore.NewMemoryStore())

	resp, err := svc.RecommendFood(context.Background(), recommend.Request{History: "rice and beans"})
	require.NoError(t, err)
	require.Equal(t, "rice and beans", resp.Summary)
	require.Contains(t, client.requests[1].Messages[1].Content, "rice and beans")
}

func TestRecommendFoodUnparseableKeepsRawResponse(t *testing.T) {
	prose := "Try a warm bowl of miso soup with tofu."
	client := &stubChatClient{
		responses: []chatgpt.ChatCompletionResponse{completion(prose)},
	}
	svc := newService(t, testConfig(), client, recstore.NewMemoryStore())

	resp, err := svc.RecommendFood(context.Background(), recommend.Request{})
	require.NoError(t, err)
	require.Len(t, resp.Foods, 1)
	require.Equal(t, recommend.FallbackFoodName, resp.Foods[0].Name)
	require.Equal(t, prose, resp.Foods[0].Description)
	require.Equal(t, prose, resp.Foods[0].RawResponse)
	require.Equal(t, recommend.OriginFallback, resp.Foods[0].Origin)
}

func TestRecommendFoodAccumulatesTokenUsage(t *testing.T) {
	summaryResp := completion("light eater profile")
	summaryResp.Usage = metrics.TokenUsage{PromptTokens: 40, CompletionTokens: 10, TotalTokens: 50}
	foodResp := completion(`{"name":"Quinoa Bowl"}`)
	foodResp.Usage = metrics.TokenUsage{PromptTokens: 100, CompletionTokens: 24, TotalTokens: 124}
	client := &stubChatClient{responses: []chatgpt.ChatCompletionResponse{summaryResp, foodResp}}

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	repo := catalogrepo.NewMemoryRepository(catalogrepo.DefaultCatalog())
	svc := recommend.NewService(testConfig(), client, repo, recstore.NewMemoryStore(), logger)

	_, err := svc.RecommendFood(context.Background(), recommend.Request{SessionID: "sess-usage", History: "rice and beans"})
	require.NoError(t, err)

	// Summary and recommendation call usage combine into one report.
	require.Contains(t, logs.String(), "interaction token usage")
	require.Contains(t, logs.String(), `"total_tokens":174`)
	require.Contains(t, logs.String(), `"prompt_tokens":140`)
}

func TestRecommendFoodCatalogMode(t *testing.T) {
	cfg := testConfig()
	cfg.Generative = false
	svc := newService(t, cfg, nil, recstore.NewMemoryStore())

	resp, err := svc.RecommendFood(context.Background(), recommend.Request{
		SessionID:   "sess-cat",
		Preferences: []string{"vegetarian"},
	})
	require.NoError(t, err)
	require.Equal(t, recommend.ModeCatalog, resp.Mode)
	require.NotEmpty(t, resp.Foods)
	require.LessOrEqual(t, len(resp.Foods), cfg.MaxCatalogResults)
	require.Empty(t, resp.Notice)
	for _, food := range resp.Foods {
		require.Contains(t, food.DietaryInfo, "vegetarian")
	}
}

func TestRecommendFoodCatalogModeNoMatches(t *testing.T) {
	cfg := testConfig()
	cfg.Generative = false
	svc := newService(t, cfg, nil, recstore.NewMemoryStore())

	resp, err := svc.RecommendFood(context.Background(), recommend.Request{
		Preferences: []string{"astronaut-freeze-dried"},
	})
	require.NoError(t, err)
	require.Empty(t, resp.Foods)
	require.Equal(t, "No foods found matching your criteria. Try adjusting your filters.", resp.Notice)
}

func TestRecommendRecipeGenerative(t *testing.T) {
	client := &stubChatClient{
		responses: []chatgpt.ChatCompletionResponse{
			completion(`{"name":"Veggie Stir Fry","ingredients":"Tofu|Broccoli","instructions":"Chop|Fry","prep_time":"10 minutes","cooking_time":15}`),
		},
	}
	svc := newService(t, testConfig(), client, recstore.NewMemoryStore())

	resp, err := svc.RecommendRecipe(context.Background(), recommend.Request{})
	require.NoError(t, err)
	require.Len(t, resp.Recipes, 1)
	require.Equal(t, "Veggie Stir Fry", resp.Recipes[0].Name)
	require.Equal(t, 10, resp.Recipes[0].PrepTime)
	require.Equal(t, 15, resp.Recipes[0].CookingTime)
}

func TestRecommendRecipeWithoutGeneration(t *testing.T) {
	cfg := testConfig()
	cfg.Generative = false
	svc := newService(t, cfg, nil, recstore.NewMemoryStore())

	resp, err := svc.RecommendRecipe(context.Background(), recommend.Request{})
	require.NoError(t, err)
	require.Empty(t, resp.Recipes)
	require.NotEmpty(t, resp.Notice)
}

func TestSessionSetMergesFoodsAndRecipes(t *testing.T) {
	client := &stubChatClient{
		responses: []chatgpt.ChatCompletionResponse{
			completion(`{"name":"Dish One"}`),
			completion(`{"name":"Recipe One"}`),
		},
	}
	store := recstore.NewMemoryStore()
	svc := newService(t, testConfig(), client, store)

	_, err := svc.RecommendFood(context.Background(), recommend.Request{SessionID: "sess-merge"})
	require.NoError(t, err)
	_, err = svc.RecommendRecipe(context.Background(), recommend.Request{SessionID: "sess-merge"})
	require.NoError(t, err)

	set, ok, err := svc.LastRecommendations(context.Background(), "sess-merge")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, set.Foods, 1)
	require.Len(t, set.Recipes, 1)
	require.Equal(t, "Dish One", set.Foods[0].Name)
	require.Equal(t, "Recipe One", set.Recipes[0].Name)
}

func TestSummarizeHistoryEmptyShortCircuits(t *testing.T) {
	client := &stubChatClient{}
	svc := newService(t, testConfig(), client, recstore.NewMemoryStore())

	summary, err := svc.SummarizeHistory(context.Background(), "   ")
	require.NoError(t, err)
	require.Equal(t, "No dietary information provided.", summary)
	require.Empty(t, client.requests)
}

func TestAnalysisOperationsRequireGeneration(t *testing.T) {
	cfg := testConfig()
	cfg.Generative = false
	svc := newService(t, cfg, nil, recstore.NewMemoryStore())

	_, err := svc.ExplainFood(context.Background(), "Quinoa Bowl", "", "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))

	_, err = svc.AnalyzeRecipe(context.Background(), "Stir Fry", "", "")
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))

	_, err = svc.SuggestRecipes(context.Background(), "rice, eggs")
	require.True(t, apperrors.IsCode(err, apperrors.CodeConfigMissing))
}

func TestLastRecommendationsRejectsEmptySession(t *testing.T) {
	svc := newService(t, testConfig(), &stubChatClient{}, recstore.NewMemoryStore())

	_, _, err := svc.LastRecommendations(context.Background(), "  ")
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func newService(t *testing.T, cfg recommend.Config, client recommend.ChatClient, store recommend.SessionStore) recommend.Service {
	t.Helper()
	repo := catalogrepo.NewMemoryRepository(catalogrepo.DefaultCatalog())
	return recommend.NewService(cfg, client, repo, store, newTestLogger())
}

func testConfig() recommend.Config {
	return recommend.Config{
		Generative:        true,
		Model:             "gpt-4o",
		Temperature:       0.7,
		SummaryMaxTokens:  250,
		FoodMaxTokens:     800,
		RecipeMaxTokens:   1000,
		ExplainMaxTokens:  200,
		AnalyzeMaxTokens:  300,
		SuggestMaxTokens:  400,
		MaxCatalogResults: 3,
		SessionTTL:        time.Minute,
	}
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubChatClient struct {
	responses []chatgpt.ChatCompletionResponse
	errs      []error
	requests  []chatgpt.ChatCompletionRequest
}

func (s *stubChatClient) CreateChatCompletion(_ context.Context, req chatgpt.ChatCompletionRequest) (chatgpt.ChatCompletionResponse, error) {
	call := len(s.requests)
	s.requests = append(s.requests, req)
	if call < len(s.errs) && s.errs[call] != nil {
		return chatgpt.ChatCompletionResponse{}, s.errs[call]
	}
	if call < len(s.responses) {
		return s.responses[call], nil
	}
	return chatgpt.ChatCompletionResponse{}, errors.New("unexpected generation call")
}

func completion(content string) chatgpt.ChatCompletionResponse {
	return chatgpt.ChatCompletionResponse{
		Choices: []struct {
			Message chatgpt.Message `json:"message"`
		}{
			{Message: chatgpt.Message{Content: content}},
		},
	}
}
