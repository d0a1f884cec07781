package recommend

import "time"

// SentinelNA marks a field the generation service did not supply. Records
// always carry a defined value so consumers never branch on missing keys.
const SentinelNA = "N/A"

// Names used for fallback records when the raw response is not usable JSON.
const (
	FallbackFoodName   = "OpenAI Recommendation"
	FallbackRecipeName = "OpenAI Recipe Recommendation"
)

// Origin tags how a record was produced. Both origins expose the same record
// shape; the tag exists so callers can audit fallback rates.
type Origin string

const (
	OriginParsed   Origin = "parsed"
	OriginFallback Origin = "fallback"
)

// PromptContext carries the user constraints embedded into generation
// prompts. The same values seed fallback records so a degraded response
// stays traceable to what was asked for.
type PromptContext struct {
	Preferences []string
	Allergens   []string
	CuisineType string
	MealType    string
	History     string
}

// FoodRecommendation is the normalized single-food result. Numeric fields
// are rendered as strings so real values and the "N/A" sentinel share one
// type. RawResponse always holds the verbatim generation output.
type FoodRecommendation struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CuisineType string `json:"cuisineType"`
	MealType    string `json:"mealType"`
	Calories    string `json:"calories"`
	Protein     string `json:"protein"`
	Carbs       string `json:"carbs"`
	Fat         string `json:"fat"`
	DietaryInfo string `json:"dietaryInfo"`
	Allergens   string `json:"allergens"`
	RawResponse string `json:"rawResponse"`
	Origin      Origin `json:"-"`
}

// RecipeRecommendation extends the food shape with pipe-delimited ingredient
// and instruction lists plus timing in minutes (0 when unknown).
type RecipeRecommendation struct {
	Name         string `json:"name"`
	CuisineType  string `json:"cuisineType"`
	MealType     string `json:"mealType"`
	Ingredients  string `json:"ingredients"`
	Instructions string `json:"instructions"`
	PrepTime     int    `json:"prepTime"`
	CookingTime  int    `json:"cookingTime"`
	DietaryInfo  string `json:"dietaryInfo"`
	Allergens    string `json:"allergens"`
	RawResponse  string `json:"rawResponse"`
	Origin       Origin `json:"-"`
}

// RecommendationSet is the per-session cache entry holding the latest
// results of one interaction cycle.
type RecommendationSet struct {
	SessionID string                 `json:"sessionId"`
	Summary   string                 `json:"summary,omitempty"`
	Foods     []FoodRecommendation   `json:"foods,omitempty"`
	Recipes   []RecipeRecommendation `json:"recipes,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}
