package service

import (
	"context"
	"time"

	"StockInsight/internal/domain/models"
)

// Forecaster fits a time-series model to a close series and emits an
// h-step-ahead forecast band. Purely functional given the series.
type Forecaster interface {
	Forecast(closes []float64, lastDate time.Time, horizon int, confidence float64, order models.ARIMAOrder) ([]models.ForecastPoint, error)
}

// AccuracyEvaluator backtests the forecaster on trailing windows of a series.
type AccuracyEvaluator interface {
	// Holdout fits once on the head of the series and scores a multi-step
	// forecast against the held-out tail.
	Holdout(series models.PriceSeries, holdoutDays int, confidence float64, order models.ARIMAOrder) (models.AccuracyReport, error)
	// WalkForward refits at every step using only information available up
	// to that step and scores 1-step-ahead forecasts, including band
	// coverage.
	WalkForward(series models.PriceSeries, testDays int, confidence float64, order models.ARIMAOrder, opts models.WalkForwardOptions) (models.WalkForwardReport, error)
}

// NarrativeProvider turns indicators, scores and the forecast band into
// commentary. Implementations must not fail for enrichment-side problems;
// only the mandatory rule-based computation may surface an error.
type NarrativeProvider interface {
	Synthesize(ctx context.Context, ind models.IndicatorSnapshot, scores models.ScoreSet, band *models.BandSummary) (models.Narrative, error)
}
