//go:build wireinject
// +build wireinject

package di

import (
	"StockETL/pkg/config"
	"StockETL/pkg/runner"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the job runner.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*runner.App, error) {
	wire.Build(
		ProvideRunID,
		ProvideLogger,

		// Metrics
		ProvideMetricsRecorder,
		ProvideMetrics,

		// Source and sink
		ProvideMarketSource,
		ProvideOpener,
		ProvideWarehouse,

		// Use cases
		ProvideExtractor,
		ProvideTransformer,
		ProvideLoader,
		ProvidePipeline,

		ProvideApp,
	)
	return &runner.App{}, nil
}
