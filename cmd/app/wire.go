//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/AlexHuggler/LCI-tracker/internal/bootstrap"
	"github.com/AlexHuggler/LCI-tracker/internal/domain/pool"
	"github.com/AlexHuggler/LCI-tracker/internal/infra/config"
	httpiface "github.com/AlexHuggler/LCI-tracker/internal/interface/http"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		provideLogger,
		providePoolConfig,
		providePoolStore,
		provideRepository,
		provideInventoryRepository,
		provideReadingCache,
		provideRecorder,
		provideReportStorage,
		provideReportArchive,
		pool.NewService,
		provideScheduler,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
