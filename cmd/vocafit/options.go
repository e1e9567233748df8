package main

import (
	service "github.com/okian/vocafit/internal/app"
	"github.com/okian/vocafit/internal/config"
	"github.com/okian/vocafit/internal/domain/scoring"
	"github.com/okian/vocafit/pkg/logger"
)

// serviceOptions maps configuration onto service and engine options.
func serviceOptions(c *config.Config) []service.Option {
	return []service.Option{
		service.WithLogger(logger.Named("service")),
		service.WithWorkerCount(c.WorkerCount),
		service.WithQueueSize(c.QueueSize),
		service.WithDedupeSize(c.DedupeSize),
		service.WithDefaultTopN(c.DefaultTopN),
		service.WithMaxTopN(c.MaxTopN),
		service.WithMaxBatchSize(c.MaxBatchSize),
		service.WithScoringOptions(
			scoring.WithEnhancement(c.Theta, c.Gamma),
			scoring.WithRankWeights(c.RankWeights),
			scoring.WithInstrumentWeights(scoring.InstrumentWeights(c.InstrumentWeights())),
		),
	}
}
