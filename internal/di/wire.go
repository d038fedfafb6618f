//go:build wireinject
// +build wireinject

package di

import (
	"EarnChart/pkg/config"
	"EarnChart/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideCache,
		ProvideEventPublisher,
		ProvidePriceProvider,

		// Use cases
		ProvideChartService,
		ProvideChartHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
