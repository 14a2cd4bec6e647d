//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/opencouncil/complaint-dedup/internal/bootstrap"
	"github.com/opencouncil/complaint-dedup/internal/domain/dedup"
	"github.com/opencouncil/complaint-dedup/internal/infra/config"
	httpiface "github.com/opencouncil/complaint-dedup/internal/interface/http"
	"github.com/opencouncil/complaint-dedup/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideDedupConfig,
		provideEmbedder,
		provideComplaintRepository,
		provideEmbeddingCache,
		dedup.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
