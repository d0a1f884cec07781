package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/valkey-io/valkey-go"

	"github.com/wenhua/meal-advisor/internal/domain/catalog"
	"github.com/wenhua/meal-advisor/internal/domain/nutrition"
	"github.com/wenhua/meal-advisor/internal/domain/recommend"
	"github.com/wenhua/meal-advisor/internal/infra/catalogrepo"
	"github.com/wenhua/meal-advisor/internal/infra/config"
	"github.com/wenhua/meal-advisor/internal/infra/llm/chatgpt"
	"github.com/wenhua/meal-advisor/internal/infra/nutrition/apininjas"
	"github.com/wenhua/meal-advisor/internal/infra/recstore"
)

func provideRecommendConfig(cfg *config.Config) recommend.Config {
	return recommend.Config{
		Generative:        cfg.GenerativeEnabled(),
		Model:             cfg.LLM.Model,
		Temperature:       cfg.LLM.Temperature,
		RequestTimeout:    cfg.LLM.RequestTimeout,
		SummaryMaxTokens:  cfg.Recommend.SummaryMaxTokens,
		FoodMaxTokens:     cfg.Recommend.FoodMaxTokens,
		RecipeMaxTokens:   cfg.Recommend.RecipeMaxTokens,
		ExplainMaxTokens:  cfg.Recommend.ExplainMaxTokens,
		AnalyzeMaxTokens:  cfg.Recommend.AnalyzeMaxTokens,
		SuggestMaxTokens:  cfg.Recommend.SuggestMaxTokens,
		PromptTokenBudget: cfg.Recommend.PromptTokenBudget,
		MaxCatalogResults: cfg.Recommend.MaxCatalogResults,
		SessionTTL:        cfg.Recommend.SessionTTL,
	}
}

// provideChatClient returns nil when no API key is configured: the
// recommendation service then answers from the catalog alone.
func provideChatClient(cfg *config.Config, logger *slog.Logger) (recommend.ChatClient, error) {
	if !cfg.GenerativeEnabled() {
		logger.Info("llm api key not set, running in catalog mode")
		return nil, nil
	}
	return chatgpt.NewClient(cfg.LLM.APIKey, cfg.LLM.BaseURL, cfg.LLM.RequestTimeout)
}

func provideCatalogRepository(cfg *config.Config, logger *slog.Logger) catalog.Repository {
	fallback := catalogrepo.NewMemoryRepository(catalogrepo.DefaultCatalog())
	dsn := strings.TrimSpace(cfg.Recommend.Postgres.DSN)
	if dsn == "" {
		logger.Info("catalog postgres dsn not set, using seeded memory repository")
		return fallback
	}
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		logger.Error("invalid postgres dsn, using seeded memory repository", "error", err)
		return fallback
	}
	if cfg.Recommend.Postgres.MaxConns > 0 {
		poolConfig.MaxConns = cfg.Recommend.Postgres.MaxConns
	}
	if cfg.Recommend.Postgres.MinConns > 0 {
		poolConfig.MinConns = cfg.Recommend.Postgres.MinConns
	}
	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		logger.Error("failed to initialize postgres pool, using seeded memory repository", "error", err)
		return fallback
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("postgres ping failed, using seeded memory repository", "error", err)
		pool.Close()
		return fallback
	}
	logger.Info("catalog postgres repository enabled")
	return catalogrepo.NewPostgresRepository(pool)
}

func provideSessionStore(cfg *config.Config, logger *slog.Logger) recommend.SessionStore {
	if cfg.Recommend.Valkey.Enabled {
		opt, err := buildValkeyOptions(cfg)
		if err != nil {
			logger.Error("invalid valkey configuration, falling back to memory store", "error", err)
			return recstore.NewMemoryStore()
		}
		client, err := valkey.NewClient(opt)
		if err != nil {
			logger.Error("failed to create valkey client, falling back to memory store", "error", err)
			return recstore.NewMemoryStore()
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
			logger.Error("valkey ping failed, falling back to memory store", "error", err)
		} else {
			logger.Info("valkey session store enabled", "addr", cfg.Recommend.Valkey.Addr)
			return recstore.NewValkeyStore(client, "rec")
		}
	}
	return recstore.NewMemoryStore()
}

func provideNutritionClient(cfg *config.Config) nutrition.Client {
	return apininjas.NewClient(cfg.Nutrition.BaseURL, cfg.Nutrition.APIKey)
}

func buildValkeyOptions(cfg *config.Config) (valkey.ClientOption, error) {
	var (
		opt valkey.ClientOption
		err error
	)
	if strings.Contains(cfg.Recommend.Valkey.Addr, "://") {
		opt, err = valkey.ParseURL(cfg.Recommend.Valkey.Addr)
	} else {
		opt = valkey.ClientOption{InitAddress: []string{cfg.Recommend.Valkey.Addr}}
	}
	if err != nil {
		return valkey.ClientOption{}, err
	}
	return opt, nil
}
