//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/ar-shop/internal/bootstrap"
	"github.com/yanqian/ar-shop/internal/domain/activity"
	"github.com/yanqian/ar-shop/internal/domain/appstate"
	"github.com/yanqian/ar-shop/internal/domain/auth"
	"github.com/yanqian/ar-shop/internal/domain/catalog"
	"github.com/yanqian/ar-shop/internal/domain/preferences"
	"github.com/yanqian/ar-shop/internal/domain/skintone"
	"github.com/yanqian/ar-shop/internal/infra/config"
	httpiface "github.com/yanqian/ar-shop/internal/interface/http"
	"github.com/yanqian/ar-shop/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideSkinToneConfig,
		provideHandlerConfig,
		providePostgresPool,
		provideValkeyClient,
		provideUserRepository,
		provideCatalogRepository,
		provideProfileStore,
		provideCartStore,
		provideActivityRepository,
		provideActivityQueue,
		provideActivityPublisher,
		provideActivityConsumer,
		provideSessionLogger,
		provideActivityLogger,
		provideProfileService,
		provideSnapshotStore,
		provideCamera,
		activity.NewService,
		catalog.NewService,
		preferences.NewService,
		appstate.NewService,
		skintone.NewService,
		auth.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
