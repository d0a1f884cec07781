//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/wenhua/meal-advisor/internal/bootstrap"
	"github.com/wenhua/meal-advisor/internal/domain/recommend"
	"github.com/wenhua/meal-advisor/internal/infra/config"
	httpiface "github.com/wenhua/meal-advisor/internal/interface/http"
	"github.com/wenhua/meal-advisor/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideRecommendConfig,
		provideChatClient,
		provideCatalogRepository,
		provideSessionStore,
		provideNutritionClient,
		recommend.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
