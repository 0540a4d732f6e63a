//go:build wireinject
// +build wireinject

package di

import (
	"StockInsight/pkg/config"
	"StockInsight/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,

		// Infrastructure clients
		ProvideHistoryProvider,
		ProvideCache,
		ProvideCatalog,

		// Engine services
		ProvideOrder,
		ProvideForecaster,
		ProvideEvaluator,
		ProvideNarrative,

		// Use cases
		ProvideForecastUsecase,
		ProvideInsightBuilder,
		ProvideAccuracyUsecase,

		// HTTP
		ProvideHandler,

		// Application server
		ProvideApp,
	)
	return &server.App{}, nil
}
