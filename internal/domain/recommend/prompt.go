package recommend

import (
	"fmt"
	"strings"

	"github.com/pkoukk/tiktoken-go"
)

const systemPrompt = "You are a professional nutritionist. Follow the user's dietary requirements exactly and respond in the requested format."

// Context defaults mirrored into fallback records.
const (
	anyCuisine    = "Any cuisine"
	anyMealType   = "Any meal type"
	noPreferences = "No specific preferences"
	noAllergens   = "No specific allergens"
)

func preferenceContext(preferences []string) string {
	if len(preferences) == 0 {
		return noPreferences
	}
	return strings.Join(preferences, ", ")
}

func allergenContext(allergens []string) string {
	if len(allergens) == 0 {
		return noAllergens
	}
	return strings.Join(allergens, ", ")
}

func cuisineContext(cuisine string) string {
	if cuisine == "" || strings.EqualFold(cuisine, "All") {
		return anyCuisine
	}
	return cuisine
}

func mealContext(meal string) string {
	if meal == "" || strings.EqualFold(meal, "All") {
		return anyMealType
	}
	return meal
}

func hasHighProtein(preferences []string) bool {
	for _, p := range preferences {
		if strings.EqualFold(strings.TrimSpace(p), "High-Protein") {
			return true
		}
	}
	return false
}

// BuildFoodPrompt renders the single-food recommendation instruction. All
// preferences are mandatory-AND constraints; the minimum-protein clause only
// appears when High-Protein is among them.
func BuildFoodPrompt(ctx PromptContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a nutritionist, considering the following analysis of this user's food history:\n%s\n\n", ctx.History)
	b.WriteString("Please recommend ONE food based on the following requirements exactly:\n")
	fmt.Fprintf(&b, "Dietary Requirements (ALL MUST BE MET): %s\n", preferenceContext(ctx.Preferences))
	if hasHighProtein(ctx.Preferences) {
		b.WriteString("- Minimum protein content: 20g per serving\n")
	}
	fmt.Fprintf(&b, "\nAllergens to Avoid (MUST avoid these allergens): %s\n\n", allergenContext(ctx.Allergens))
	fmt.Fprintf(&b, "Preferred Cuisine: %s\n", cuisineContext(ctx.CuisineType))
	fmt.Fprintf(&b, "Meal Type: %s\n\n", mealContext(ctx.MealType))
	b.WriteString("Format your response as a single JSON object with detailed nutritional information including name, description, cuisine_type, meal_type, calories, protein, carbs, fat, dietary_info, and allergens.")
	return b.String()
}

// BuildRecipePrompt renders the single-recipe instruction, requesting
// pipe-delimited ingredient and instruction lists and timings in minutes.
func BuildRecipePrompt(ctx PromptContext) string {
	var b strings.Builder
	fmt.Fprintf(&b, "As a nutritionist, considering the following analysis of this user's food history: %s\n\n", ctx.History)
	b.WriteString("Generate ONE recipe recommendation based on the following requirements:\n\n")
	fmt.Fprintf(&b, "Dietary Preferences (ALL MUST BE MET): %s\n", preferenceContext(ctx.Preferences))
	if hasHighProtein(ctx.Preferences) {
		b.WriteString("- Minimum protein content: 20g per serving\n")
	}
	fmt.Fprintf(&b, "\nAllergens to Avoid (MUST avoid these allergens): %s\n", allergenContext(ctx.Allergens))
	fmt.Fprintf(&b, "Preferred Cuisine: %s\n", cuisineContext(ctx.CuisineType))
	fmt.Fprintf(&b, "Meal Type: %s\n\n", mealContext(ctx.MealType))
	b.WriteString(`For the recipe recommendation, provide:
1. Name
2. Cuisine type
3. Meal type
4. Ingredients (as a pipe-separated list)
5. Instructions (as a pipe-separated list of steps)
6. Prep time (in minutes)
7. Cooking time (in minutes)
8. Dietary information
9. Allergens (if any)

Format as a single JSON object containing the recipe details.
Example format:
{
  "name": "Recipe Name",
  "cuisine_type": "Type",
  "meal_type": "Type",
  "ingredients": "Ingredient 1|Ingredient 2|Ingredient 3",
  "instructions": "Step 1|Step 2|Step 3",
  "prep_time": 15,
  "cooking_time": 30,
  "dietary_info": "info",
  "allergens": "allergens if any"
}`)
	return b.String()
}

// BuildSummaryPrompt renders the dietary-history summarization instruction.
func BuildSummaryPrompt(history string) string {
	var b strings.Builder
	b.WriteString("Analyze this person's dietary profile and create a concise summary:\n\n")
	fmt.Fprintf(&b, "Recent Food History: %s\n\n", history)
	b.WriteString("Provide a brief summary that captures:\n")
	b.WriteString("1. Their eating patterns and preferences\n")
	b.WriteString("2. Key nutritional considerations\n\n")
	b.WriteString("Keep the summary professional and focused on relevant dietary insights.")
	return b.String()
}

// BuildExplainFoodPrompt asks for a markdown analysis of one catalog food.
func BuildExplainFoodPrompt(name, nutritionalInfo, description string) string {
	return fmt.Sprintf(`Analyze this food and provide insights:
Food: %s
Nutritional Info: %s
Description: %s

Provide:
1. Health benefits
2. Who might benefit most from this food
3. Best times to consume

Format the response in markdown.`, name, nutritionalInfo, description)
}

// BuildAnalyzeRecipePrompt asks for cooking insights on a concrete recipe.
func BuildAnalyzeRecipePrompt(name, ingredients, instructions string) string {
	return fmt.Sprintf(`Analyze this recipe and provide insights:
Recipe: %s
Ingredients: %s
Instructions: %s

Provide:
1. Dietary considerations
2. Cooking tips
3. Possible variations

Format the response in markdown.`, name, ingredients, instructions)
}

// BuildSuggestRecipesPrompt asks for recipe ideas from available ingredients.
func BuildSuggestRecipesPrompt(ingredients string) string {
	return fmt.Sprintf(`Given these ingredients: %s
Suggest 3 possible recipes that could be made, including:
1. Recipe name
2. Additional ingredients needed
3. Brief cooking instructions
4. Why this recipe would be a good choice

Format the response in markdown.`, ingredients)
}

// EstimateTokens counts prompt tokens for the given model so callers can log
// and budget-check before spending a generation call. Falls back to a rough
// bytes/4 heuristic when the model has no known encoding.
func EstimateTokens(model, text string) int {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
