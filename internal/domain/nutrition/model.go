// Package nutrition defines the boundary to the external nutrition lookup
// collaborator. Facts are consumed read-only and never cached.
package nutrition

import "context"

// Facts is one food's nutrition record as reported by the lookup service.
type Facts struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
}

// Client fetches nutrition facts by food name. The infra implementation
// lives in internal/infra/nutrition/apininjas.
type Client interface {
	Lookup(ctx context.Context, food string) (Facts, error)
}
