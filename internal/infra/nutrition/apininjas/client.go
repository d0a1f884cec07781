package apininjas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/wenhua/meal-advisor/internal/domain/nutrition"
)

const defaultBaseURL = "https://api.api-ninjas.com/v1/nutrition"

// ErrNotFound marks a query the service could not resolve to any food.
var ErrNotFound = errors.New("no nutrition data for query")

// Client fetches nutrition facts from the API Ninjas nutrition endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL, apiKey string) *Client {
	endpoint := strings.TrimSpace(baseURL)
	if endpoint == "" {
		endpoint = defaultBaseURL
	}
	return &Client{
		baseURL: strings.TrimRight(endpoint, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Lookup retrieves nutrition facts for a food name. The upstream returns an
// array of matched items; the first match wins.
func (c *Client) Lookup(ctx context.Context, food string) (nutrition.Facts, error) {
	query := strings.TrimSpace(food)
	if query == "" {
		return nutrition.Facts{}, errors.New("food query cannot be empty")
	}

	endpoint := fmt.Sprintf("%s?query=%s", c.baseURL, url.QueryEscape(query))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nutrition.Facts{}, fmt.Errorf("build nutrition request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nutrition.Facts{}, fmt.Errorf("nutrition request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nutrition.Facts{}, fmt.Errorf("nutrition request error: status=%d body=%s", resp.StatusCode, string(payload))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nutrition.Facts{}, fmt.Errorf("read nutrition response: %w", err)
	}

	var items []apiItem
	if err := json.Unmarshal(body, &items); err != nil {
		return nutrition.Facts{}, fmt.Errorf("decode nutrition response: %w", err)
	}
	if len(items) == 0 {
		return nutrition.Facts{}, ErrNotFound
	}

	first := items[0]
	return nutrition.Facts{
		Name:     first.Name,
		Calories: first.Calories,
		Protein:  first.Protein,
		Carbs:    first.Carbs,
		Fat:      first.FatTotal,
		Fiber:    first.Fiber,
	}, nil
}

type apiItem struct {
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein_g"`
	Carbs    float64 `json:"carbohydrates_total_g"`
	FatTotal float64 `json:"fat_total_g"`
	Fiber    float64 `json:"fiber_g"`
}
