package catalogrepo

import (
	"context"

	"github.com/wenhua/meal-advisor/internal/domain/catalog"
)

// MemoryRepository serves a fixed in-memory catalog. It is the default
// repository when no database is configured and the seed for tests.
type MemoryRepository struct {
	items []catalog.FoodItem
}

// NewMemoryRepository constructs a repo over the given items, defaulting to
// the built-in reference catalog.
func NewMemoryRepository(items []catalog.FoodItem) *MemoryRepository {
	if len(items) == 0 {
		items = DefaultCatalog()
	}
	return &MemoryRepository{items: items}
}

// List implements catalog.Repository.
func (r *MemoryRepository) List(_ context.Context) ([]catalog.FoodItem, error) {
	out := make([]catalog.FoodItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

// DefaultCatalog is the built-in reference food catalog, loaded once at
// startup and immutable afterwards.
func DefaultCatalog() []catalog.FoodItem {
	return []catalog.FoodItem{
		{Name: "Grilled chicken salad", Description: "Chargrilled chicken breast over mixed greens", CuisineType: "American", MealType: "Main Course", Calories: 300, Protein: 28, Carbs: 10, Fat: 12, Tags: []string{"low-carb", "gluten-free", "high-protein"}},
		{Name: "Steamed veggie bowl", Description: "Seasonal vegetables with brown rice", CuisineType: "Asian", MealType: "Main Course", Calories: 400, Protein: 12, Carbs: 60, Fat: 8, Tags: []string{"vegan", "gluten-free"}},
		{Name: "Ham cheese sandwich", Description: "Ham and swiss on whole grain bread", CuisineType: "American", MealType: "Main Course", Calories: 450, Protein: 22, Carbs: 40, Fat: 18, Tags: []string{"high-protein"}},
		{Name: "Fruit smoothie", Description: "Blended banana, berries and oat milk", CuisineType: "International", MealType: "Dessert", Calories: 200, Protein: 5, Carbs: 45, Fat: 2, Tags: []string{"vegetarian", "dairy-free"}},
		{Name: "Lentil soup", Description: "Slow-cooked red lentils with cumin", CuisineType: "Mediterranean", MealType: "Appetizer", Calories: 230, Protein: 13, Carbs: 34, Fat: 4, Tags: []string{"vegan", "high-fiber", "low-fat"}},
		{Name: "Margherita flatbread", Description: "Tomato, basil and mozzarella on flatbread", CuisineType: "Italian", MealType: "Main Course", Calories: 520, Protein: 18, Carbs: 62, Fat: 20, Tags: []string{"vegetarian"}},
		{Name: "Baked salmon", Description: "Oven-baked salmon fillet with lemon", CuisineType: "Mediterranean", MealType: "Main Course", Calories: 367, Protein: 34, Carbs: 0, Fat: 25, Tags: []string{"high-protein", "low-carb", "gluten-free"}},
		{Name: "Quinoa tabbouleh", Description: "Herbed quinoa with cucumber and tomato", CuisineType: "Mediterranean", MealType: "Appetizer", Calories: 180, Protein: 6, Carbs: 30, Fat: 5, Tags: []string{"vegan", "gluten-free", "low-calorie"}},
		{Name: "Turkey chili", Description: "Lean ground turkey with beans and peppers", CuisineType: "American", MealType: "Main Course", Calories: 340, Protein: 30, Carbs: 28, Fat: 11, Tags: []string{"high-protein", "dairy-free"}},
		{Name: "Greek yogurt parfait", Description: "Yogurt layered with granola and honey", CuisineType: "Mediterranean", MealType: "Dessert", Calories: 280, Protein: 16, Carbs: 38, Fat: 7, Tags: []string{"vegetarian", "high-protein"}},
		{Name: "Tofu stir-fry", Description: "Crispy tofu with broccoli in ginger sauce", CuisineType: "Asian", MealType: "Main Course", Calories: 310, Protein: 19, Carbs: 26, Fat: 14, Tags: []string{"vegan", "dairy-free"}},
		{Name: "Caprese skewers", Description: "Cherry tomato, mozzarella and basil bites", CuisineType: "Italian", MealType: "Appetizer", Calories: 150, Protein: 9, Carbs: 6, Fat: 10, Tags: []string{"vegetarian", "low-calorie", "gluten-free"}},
	}
}

var _ catalog.Repository = (*MemoryRepository)(nil)
