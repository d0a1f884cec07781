package catalogrepo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wenhua/meal-advisor/internal/domain/catalog"
)

// PostgresRepository loads the food catalog from Postgres using pgx.
//
// Expected schema:
//
//	CREATE TABLE food_items (
//	    id           BIGSERIAL PRIMARY KEY,
//	    name         TEXT NOT NULL UNIQUE,
//	    description  TEXT NOT NULL DEFAULT '',
//	    cuisine_type TEXT NOT NULL DEFAULT '',
//	    meal_type    TEXT NOT NULL DEFAULT '',
//	    calories     DOUBLE PRECISION NOT NULL CHECK (calories >= 0),
//	    protein      DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    carbs        DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    fat          DOUBLE PRECISION NOT NULL DEFAULT 0,
//	    tags         TEXT[] NOT NULL DEFAULT '{}'
//	);
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository constructs the repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// List implements catalog.Repository. Items come back in insertion order so
// the filter's documented catalog ordering stays stable across calls.
func (r *PostgresRepository) List(ctx context.Context) ([]catalog.FoodItem, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, description, cuisine_type, meal_type, calories, protein, carbs, fat, tags
		FROM food_items
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("query food catalog: %w", err)
	}
	defer rows.Close()

	var items []catalog.FoodItem
	for rows.Next() {
		var item catalog.FoodItem
		if err := rows.Scan(
			&item.Name,
			&item.Description,
			&item.CuisineType,
			&item.MealType,
			&item.Calories,
			&item.Protein,
			&item.Carbs,
			&item.Fat,
			&item.Tags,
		); err != nil {
			return nil, fmt.Errorf("scan food item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate food catalog: %w", err)
	}
	return items, nil
}

var _ catalog.Repository = (*PostgresRepository)(nil)
