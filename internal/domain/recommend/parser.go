package recommend

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ParseFood normalizes a raw generation response into a FoodRecommendation.
// It never fails: valid single-object JSON maps directly with sentinel fill
// for absent fields, an array contributes its first object, and anything
// else produces a fallback record that keeps the raw text renderable. The
// verbatim response is preserved in RawResponse on every path.
func ParseFood(raw string, ctx PromptContext) FoodRecommendation {
	fields, ok := decodeObject(raw)
	if !ok {
		return foodFallback(raw, ctx)
	}

	return FoodRecommendation{
		Name:        textField(fields, "name"),
		Description: textField(fields, "description"),
		CuisineType: textField(fields, "cuisine_type"),
		MealType:    textField(fields, "meal_type"),
		Calories:    textField(fields, "calories"),
		Protein:     textField(fields, "protein"),
		Carbs:       textField(fields, "carbs"),
		Fat:         textField(fields, "fat"),
		DietaryInfo: textField(fields, "dietary_info"),
		Allergens:   textField(fields, "allergens"),
		RawResponse: raw,
		Origin:      OriginParsed,
	}
}

// ParseRecipe is the recipe-shaped counterpart of ParseFood. Timing fields
// use the numeric 0 sentinel instead of "N/A".
func ParseRecipe(raw string, ctx PromptContext) RecipeRecommendation {
	fields, ok := decodeObject(raw)
	if !ok {
		return recipeFallback(raw, ctx)
	}

	return RecipeRecommendation{
		Name:         textField(fields, "name"),
		CuisineType:  textField(fields, "cuisine_type"),
		MealType:     textField(fields, "meal_type"),
		Ingredients:  textField(fields, "ingredients"),
		Instructions: textField(fields, "instructions"),
		PrepTime:     minutesField(fields, "prep_time"),
		CookingTime:  minutesField(fields, "cooking_time"),
		DietaryInfo:  textField(fields, "dietary_info"),
		Allergens:    textField(fields, "allergens"),
		RawResponse:  raw,
		Origin:       OriginParsed,
	}
}

// decodeObject attempts a strict JSON parse after stripping markdown code
// fences the model sometimes wraps around its output. An array yields its
// first element when that element is an object.
func decodeObject(raw string) (map[string]any, bool) {
	sanitized := stripCodeFence(raw)
	if sanitized == "" {
		return nil, false
	}

	switch sanitized[0] {
	case '{':
		var fields map[string]any
		if err := json.Unmarshal([]byte(sanitized), &fields); err != nil {
			return nil, false
		}
		return fields, true
	case '[':
		var elements []json.RawMessage
		if err := json.Unmarshal([]byte(sanitized), &elements); err != nil || len(elements) == 0 {
			return nil, false
		}
		var fields map[string]any
		if err := json.Unmarshal(elements[0], &fields); err != nil {
			return nil, false
		}
		return fields, true
	default:
		return nil, false
	}
}

func stripCodeFence(raw string) string {
	sanitized := strings.TrimSpace(raw)
	sanitized = strings.TrimPrefix(sanitized, "```json")
	sanitized = strings.TrimSuffix(sanitized, "```")
	sanitized = strings.Trim(sanitized, "`")
	return strings.TrimSpace(strings.TrimPrefix(sanitized, "json"))
}

// textField renders a decoded JSON value as a display string, filling the
// sentinel for absent fields. Numbers lose trailing zeros ("300" not "300.0")
// and string arrays join with commas so a list-valued allergens field stays
// readable.
func textField(fields map[string]any, key string) string {
	value, ok := fields[key]
	if !ok || value == nil {
		return SentinelNA
	}
	switch v := value.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return SentinelNA
		}
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case []any:
		parts := make([]string, 0, len(v))
		for _, elem := range v {
			if s, isStr := elem.(string); isStr {
				parts = append(parts, s)
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}
	if data, err := json.Marshal(value); err == nil {
		return string(data)
	}
	return SentinelNA
}

// minutesField coerces a timing value to whole minutes, defaulting to the 0
// sentinel. Accepts JSON numbers and strings with a leading integer
// ("15 minutes").
func minutesField(fields map[string]any, key string) int {
	value, ok := fields[key]
	if !ok {
		return 0
	}
	switch v := value.(type) {
	case float64:
		if v < 0 {
			return 0
		}
		return int(v)
	case string:
		digits := strings.TrimSpace(v)
		end := 0
		for end < len(digits) && digits[end] >= '0' && digits[end] <= '9' {
			end++
		}
		if end == 0 {
			return 0
		}
		minutes, err := strconv.Atoi(digits[:end])
		if err != nil {
			return 0
		}
		return minutes
	default:
		return 0
	}
}

// foodFallback keeps a malformed response renderable: the raw text becomes
// the description and constraint fields echo the request context so the
// record stays traceable to what was asked for.
func foodFallback(raw string, ctx PromptContext) FoodRecommendation {
	return FoodRecommendation{
		Name:        FallbackFoodName,
		Description: raw,
		CuisineType: contextOrSentinel(cuisineContext(ctx.CuisineType), anyCuisine),
		MealType:    contextOrSentinel(mealContext(ctx.MealType), anyMealType),
		Calories:    SentinelNA,
		Protein:     SentinelNA,
		Carbs:       SentinelNA,
		Fat:         SentinelNA,
		DietaryInfo: contextOrSentinel(preferenceContext(ctx.Preferences), noPreferences),
		Allergens:   contextOrSentinel(allergenContext(ctx.Allergens), noAllergens),
		RawResponse: raw,
		Origin:      OriginFallback,
	}
}

func recipeFallback(raw string, ctx PromptContext) RecipeRecommendation {
	return RecipeRecommendation{
		Name:         FallbackRecipeName,
		CuisineType:  contextOrSentinel(cuisineContext(ctx.CuisineType), anyCuisine),
		MealType:     contextOrSentinel(mealContext(ctx.MealType), anyMealType),
		Ingredients:  "See full response",
		Instructions: "See full response",
		PrepTime:     0,
		CookingTime:  0,
		DietaryInfo:  contextOrSentinel(preferenceContext(ctx.Preferences), noPreferences),
		Allergens:    contextOrSentinel(allergenContext(ctx.Allergens), noAllergens),
		RawResponse:  raw,
		Origin:       OriginFallback,
	}
}

// contextOrSentinel uses the request context value unless it is the neutral
// default, in which case the sentinel applies.
func contextOrSentinel(value, neutral string) string {
	if value == neutral {
		return SentinelNA
	}
	return value
}
