package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	Recommend RecommendConfig `yaml:"recommend"`
	Nutrition NutritionConfig `yaml:"nutrition"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests. The
// generation endpoints are excluded by default: a failed generation call
// degrades, it is never replayed.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	Exclude     []string      `yaml:"exclude"`
}

// LLMConfig contains the generation service settings. An empty APIKey is
// valid: the service then runs in rule-based mode.
type LLMConfig struct {
	APIKey         string        `yaml:"apiKey"`
	BaseURL        string        `yaml:"baseUrl"`
	Model          string        `yaml:"model"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// RecommendConfig tunes the recommendation domain: per-call token budgets,
// the catalog-mode result cap and the session cache backends.
type RecommendConfig struct {
	SummaryMaxTokens  int            `yaml:"summaryMaxTokens"`
	FoodMaxTokens     int            `yaml:"foodMaxTokens"`
	RecipeMaxTokens   int            `yaml:"recipeMaxTokens"`
	ExplainMaxTokens  int            `yaml:"explainMaxTokens"`
	AnalyzeMaxTokens  int            `yaml:"analyzeMaxTokens"`
	SuggestMaxTokens  int            `yaml:"suggestMaxTokens"`
	PromptTokenBudget int            `yaml:"promptTokenBudget"`
	MaxCatalogResults int            `yaml:"maxCatalogResults"`
	SessionTTL        time.Duration  `yaml:"sessionTtl"`
	Valkey            ValkeyConfig   `yaml:"valkey"`
	Postgres          PostgresConfig `yaml:"postgres"`
}

// ValkeyConfig contains connection information for the session store.
type ValkeyConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// PostgresConfig contains DSN and pooling settings for the catalog.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// NutritionConfig points at the external nutrition lookup service.
type NutritionConfig struct {
	BaseURL string `yaml:"baseUrl"`
	APIKey  string `yaml:"apiKey"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	if v := os.Getenv("LLM_REQUEST_TIMEOUT"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.LLM.RequestTimeout = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_MAX_CATALOG_RESULTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.MaxCatalogResults = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_SESSION_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Recommend.SessionTTL = parsed
		}
	}
	if v := os.Getenv("RECOMMEND_VALKEY_ENABLED"); v != "" {
		cfg.Recommend.Valkey.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("RECOMMEND_VALKEY_ADDR"); v != "" {
		cfg.Recommend.Valkey.Addr = v
	}
	if v := os.Getenv("RECOMMEND_POSTGRES_DSN"); v != "" {
		cfg.Recommend.Postgres.DSN = v
	}
	if v := os.Getenv("RECOMMEND_POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.Postgres.MaxConns = int32(parsed)
		}
	}
	if v := os.Getenv("RECOMMEND_POSTGRES_MIN_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Recommend.Postgres.MinConns = int32(parsed)
		}
	}
	if v := os.Getenv("NUTRITION_BASE_URL"); v != "" {
		cfg.Nutrition.BaseURL = v
	}
	if v := os.Getenv("NUTRITION_API_KEY"); v != "" {
		cfg.Nutrition.APIKey = v
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_ENABLED"); v != "" {
		cfg.HTTP.Retry.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("HTTP_RETRY_MAX_ATTEMPTS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.Retry.MaxAttempts = parsed
		}
	}
	if v := os.Getenv("HTTP_RETRY_BASE_BACKOFF"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.HTTP.Retry.BaseBackoff = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:        ":8080",
			ReadTimeout:    5 * time.Second,
			WriteTimeout:   60 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Exclude: []string{
					"/api/v1/recommendations/food",
					"/api/v1/recommendations/recipe",
					"/api/v1/summaries",
					"/api/v1/analysis/food",
					"/api/v1/analysis/recipe",
					"/api/v1/analysis/suggestions",
				},
			},
		},
		LLM: LLMConfig{
			Model:          "gpt-4o",
			Temperature:    0.7,
			RequestTimeout: 30 * time.Second,
		},
		Recommend: RecommendConfig{
			SummaryMaxTokens:  250,
			FoodMaxTokens:     800,
			RecipeMaxTokens:   1000,
			ExplainMaxTokens:  200,
			AnalyzeMaxTokens:  300,
			SuggestMaxTokens:  400,
			PromptTokenBudget: 3000,
			MaxCatalogResults: 3,
			SessionTTL:        time.Hour,
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.LLM.Model == "" {
		return errors.New("llm.model cannot be empty")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return errors.New("llm.temperature must be within [0, 2]")
	}
	if c.LLM.RequestTimeout <= 0 {
		return errors.New("llm.requestTimeout must be positive")
	}
	for name, budget := range map[string]int{
		"recommend.summaryMaxTokens": c.Recommend.SummaryMaxTokens,
		"recommend.foodMaxTokens":    c.Recommend.FoodMaxTokens,
		"recommend.recipeMaxTokens":  c.Recommend.RecipeMaxTokens,
		"recommend.explainMaxTokens": c.Recommend.ExplainMaxTokens,
		"recommend.analyzeMaxTokens": c.Recommend.AnalyzeMaxTokens,
		"recommend.suggestMaxTokens": c.Recommend.SuggestMaxTokens,
	} {
		if budget <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if c.Recommend.MaxCatalogResults <= 0 {
		return errors.New("recommend.maxCatalogResults must be positive")
	}
	if c.Recommend.SessionTTL < 0 {
		return errors.New("recommend.sessionTtl cannot be negative")
	}
	if c.Recommend.Valkey.Enabled && strings.TrimSpace(c.Recommend.Valkey.Addr) == "" {
		return errors.New("recommend.valkey.addr cannot be empty when the valkey store is enabled")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}

// GenerativeEnabled reports whether the generation credential is present.
// Its absence is not an error: the system degrades to the catalog path.
func (c *Config) GenerativeEnabled() bool {
	return strings.TrimSpace(c.LLM.APIKey) != ""
}
