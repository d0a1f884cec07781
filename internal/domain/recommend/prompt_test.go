package recommend

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildFoodPrompt_AllConstraintsPresent(t *testing.T) {
	ctx := PromptContext{
		Preferences: []string{"Vegan", "Gluten-Free"},
		Allergens:   []string{"peanuts"},
		CuisineType: "Italian",
		MealType:    "Dinner",
		History:     "mostly plant-based meals",
	}

	prompt := BuildFoodPrompt(ctx)

	require.Contains(t, prompt, "mostly plant-based meals")
	require.Contains(t, prompt, "Dietary Requirements (ALL MUST BE MET): Vegan, Gluten-Free")
	require.Contains(t, prompt, "Allergens to Avoid (MUST avoid these allergens): peanuts")
	require.Contains(t, prompt, "Preferred Cuisine: Italian")
	require.Contains(t, prompt, "Meal Type: Dinner")
	require.Contains(t, prompt, "single JSON object")
}

func TestBuildFoodPrompt_HighProteinClause(t *testing.T) {
	withClause := BuildFoodPrompt(PromptContext{Preferences: []string{"high-protein"}})
	require.Contains(t, withClause, "Minimum protein content: 20g per serving")

	withoutClause := BuildFoodPrompt(PromptContext{Preferences: []string{"Vegan"}})
	require.NotContains(t, withoutClause, "Minimum protein content")
}

func TestBuildFoodPrompt_NeutralDefaults(t *testing.T) {
	prompt := BuildFoodPrompt(PromptContext{CuisineType: "All", MealType: "all"})

	require.Contains(t, prompt, "No specific preferences")
	require.Contains(t, prompt, "No specific allergens")
	require.Contains(t, prompt, "Preferred Cuisine: Any cuisine")
	require.Contains(t, prompt, "Meal Type: Any meal type")
}

func TestBuildRecipePrompt_PipeDelimitedExample(t *testing.T) {
	prompt := BuildRecipePrompt(PromptContext{
		Preferences: []string{"High-Protein"},
		MealType:    "Lunch",
	})

	require.Contains(t, prompt, "Dietary Preferences (ALL MUST BE MET): High-Protein")
	require.Contains(t, prompt, "Minimum protein content: 20g per serving")
	require.Contains(t, prompt, `"ingredients": "Ingredient 1|Ingredient 2|Ingredient 3"`)
	require.Contains(t, prompt, `"instructions": "Step 1|Step 2|Step 3"`)
	require.Contains(t, prompt, `"prep_time": 15`)
	require.Contains(t, prompt, "Meal Type: Lunch")
}

func TestBuildSummaryPrompt(t *testing.T) {
	prompt := BuildSummaryPrompt("oatmeal for breakfast, salad for lunch")

	require.Contains(t, prompt, "Recent Food History: oatmeal for breakfast, salad for lunch")
	require.Contains(t, prompt, "eating patterns and preferences")
	require.Contains(t, prompt, "Key nutritional considerations")
}

func TestBuildAnalysisPrompts(t *testing.T) {
	food := BuildExplainFoodPrompt("Quinoa Bowl", "420 kcal, 15g protein", "Quinoa with vegetables")
	require.Contains(t, food, "Food: Quinoa Bowl")
	require.Contains(t, food, "Nutritional Info: 420 kcal, 15g protein")
	require.Contains(t, food, "Health benefits")

	recipe := BuildAnalyzeRecipePrompt("Stir Fry", "tofu, broccoli", "chop, fry")
	require.Contains(t, recipe, "Recipe: Stir Fry")
	require.Contains(t, recipe, "Cooking tips")

	suggest := BuildSuggestRecipesPrompt("rice, eggs, scallions")
	require.Contains(t, suggest, "Given these ingredients: rice, eggs, scallions")
	require.Contains(t, suggest, "Suggest 3 possible recipes")
}

func TestHasHighProtein(t *testing.T) {
	require.True(t, hasHighProtein([]string{"Vegan", " high-protein "}))
	require.False(t, hasHighProtein([]string{"Vegan"}))
	require.False(t, hasHighProtein(nil))
}

func TestEstimateTokens(t *testing.T) {
	text := strings.Repeat("food history and dietary preferences ", 20)

	known := EstimateTokens("gpt-4o", text)
	require.Greater(t, known, 0)

	// Unknown models fall back to the bytes/4 heuristic.
	unknown := EstimateTokens("not-a-real-model", text)
	require.Equal(t, len(text)/4, unknown)
}
