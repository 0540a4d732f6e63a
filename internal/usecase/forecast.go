package usecase

import (
	"context"
	"strings"

	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
	domsvc "StockInsight/internal/domain/service"
)

// ForecastResult is the payload served for a forecast request.
type ForecastResult struct {
	Symbol     string                 `json:"symbol"`
	Horizon    int                    `json:"horizon"`
	Confidence float64                `json:"confidence"`
	LastClose  float64                `json:"last_close"`
	Points     []models.ForecastPoint `json:"points"`
}

// ForecastUsecase wires history fetching to the forecaster.
type ForecastUsecase struct {
	provider repository.HistoryProvider
	engine   domsvc.Forecaster
	order    models.ARIMAOrder
	fitRange string
}

func NewForecastUsecase(provider repository.HistoryProvider, engine domsvc.Forecaster, order models.ARIMAOrder, fitRange string) *ForecastUsecase {
	if fitRange == "" {
		fitRange = "2y"
	}
	return &ForecastUsecase{provider: provider, engine: engine, order: order, fitRange: fitRange}
}

func (u *ForecastUsecase) Forecast(ctx context.Context, req models.ForecastRequest) (ForecastResult, error) {
	symbol := normalizeSymbol(req.Symbol)

	series, err := u.provider.FetchHistory(ctx, symbol, u.fitRange)
	if err != nil {
		return ForecastResult{}, err
	}

	closes := series.Closes()
	points, err := u.engine.Forecast(closes, series.LastDate(), req.Horizon, req.Confidence, u.order)
	if err != nil {
		return ForecastResult{}, err
	}

	lastClose := 0.0
	if len(closes) > 0 {
		lastClose = closes[len(closes)-1]
	}
	return ForecastResult{
		Symbol:     symbol,
		Horizon:    req.Horizon,
		Confidence: req.Confidence,
		LastClose:  lastClose,
		Points:     points,
	}, nil
}

func normalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
