package usecase

import (
	"context"

	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
	domsvc "StockInsight/internal/domain/service"
	"StockInsight/internal/services/indicator"
	"StockInsight/internal/services/scoring"
	"StockInsight/pkg/logger"
)

// Band settings used by the insight view. The band is advisory context for
// the commentary, so its shape stays fixed regardless of the request.
const (
	bandHorizonDays = 63
	bandConfidence  = 0.9
	bandLabel       = "3개월 ARIMA"
)

// InsightBuilder assembles the combined indicator + score + narrative view.
type InsightBuilder struct {
	provider  repository.HistoryProvider
	engine    domsvc.Forecaster
	narrative domsvc.NarrativeProvider
	order     models.ARIMAOrder
	log       *logger.Logger
}

func NewInsightBuilder(provider repository.HistoryProvider, engine domsvc.Forecaster, narrative domsvc.NarrativeProvider, order models.ARIMAOrder, log *logger.Logger) *InsightBuilder {
	return &InsightBuilder{provider: provider, engine: engine, narrative: narrative, order: order, log: log}
}

func (b *InsightBuilder) Build(ctx context.Context, req models.InsightRequest) (models.Insight, error) {
	symbol := normalizeSymbol(req.Symbol)

	series, err := b.provider.FetchHistory(ctx, symbol, req.Range)
	if err != nil {
		return models.Insight{}, err
	}

	ind, err := indicator.Compute(series)
	if err != nil {
		return models.Insight{}, err
	}

	if level, changePct, ok := b.provider.VolIndexQuote(ctx); ok {
		ind.VixLevel = &level
		ind.VixChangePct = &changePct
	}

	band := b.bandSummary(series)
	scores := scoring.Compute(ind, band)

	narr, err := b.narrative.Synthesize(ctx, ind, scores, band)
	if err != nil {
		return models.Insight{}, err
	}

	return models.Insight{
		Symbol:          symbol,
		LastPrice:       ind.Close,
		ChangeRate:      ind.ChangeRate,
		VolatilityScore: scores.Volatility,
		ConfidenceScore: scores.Confidence,
		RiskLabel:       narr.RiskLabel,
		NarrativeSource: narr.Source,
		LLMModel:        narr.Model,
		LLMLatencyMS:    narr.LatencyMS,
		Band:            band,
		Summary:         narr.Summary,
		QuickNotes:      narr.QuickNotes,
		Actions:         narr.Actions,
		Alerts:          narr.Alerts,
		Indicators:      ind,
		Scores:          scores,
	}, nil
}

// bandSummary condenses a 3-month forecast into its envelope. The insight
// view degrades to no band instead of failing when the fit cannot run.
func (b *InsightBuilder) bandSummary(series models.PriceSeries) *models.BandSummary {
	points, err := b.engine.Forecast(series.Closes(), series.LastDate(), bandHorizonDays, bandConfidence, b.order)
	if err != nil {
		b.log.Warn("forecast band unavailable for insight",
			logger.String("symbol", series.Symbol), logger.Error(err))
		return nil
	}
	if len(points) == 0 {
		return nil
	}

	upper := points[0].Upper
	lower := points[0].Lower
	for _, p := range points[1:] {
		if p.Upper > upper {
			upper = p.Upper
		}
		if p.Lower < lower {
			lower = p.Lower
		}
	}
	return &models.BandSummary{
		HorizonLabel: bandLabel,
		Upper:        upper,
		Lower:        lower,
		Center:       points[len(points)-1].Mean,
	}
}
