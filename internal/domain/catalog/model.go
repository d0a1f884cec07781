package catalog

import "context"

// FoodItem is one entry of the static food catalog. Items are immutable once
// loaded; tags are lowercase labels such as "vegan" or "gluten-free".
type FoodItem struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	CuisineType string   `json:"cuisineType"`
	MealType    string   `json:"mealType"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Tags        []string `json:"tags"`
}

// Repository loads the catalog once at startup. Implementations live in
// internal/infra/catalogrepo.
type Repository interface {
	List(ctx context.Context) ([]FoodItem, error)
}
