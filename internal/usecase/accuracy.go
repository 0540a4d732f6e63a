package usecase

import (
	"context"

	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
	domsvc "StockInsight/internal/domain/service"
)

// AccuracyUsecase backtests the forecaster on freshly fetched history.
type AccuracyUsecase struct {
	provider  repository.HistoryProvider
	evaluator domsvc.AccuracyEvaluator
	order     models.ARIMAOrder
	evalRange string
}

func NewAccuracyUsecase(provider repository.HistoryProvider, evaluator domsvc.AccuracyEvaluator, order models.ARIMAOrder, evalRange string) *AccuracyUsecase {
	if evalRange == "" {
		evalRange = "2y"
	}
	return &AccuracyUsecase{provider: provider, evaluator: evaluator, order: order, evalRange: evalRange}
}

func (u *AccuracyUsecase) Holdout(ctx context.Context, req models.AccuracyRequest) (models.AccuracyReport, error) {
	series, err := u.provider.FetchHistory(ctx, normalizeSymbol(req.Symbol), u.evalRange)
	if err != nil {
		return models.AccuracyReport{}, err
	}
	return u.evaluator.Holdout(series, req.Holdout, req.Confidence, u.order)
}

func (u *AccuracyUsecase) WalkForward(ctx context.Context, req models.AccuracyRequest) (models.WalkForwardReport, error) {
	series, err := u.provider.FetchHistory(ctx, normalizeSymbol(req.Symbol), u.evalRange)
	if err != nil {
		return models.WalkForwardReport{}, err
	}
	opts := models.WalkForwardOptions{
		ScaleFactor: req.Scale,
		Band:        models.BandKind(req.Band),
	}
	return u.evaluator.WalkForward(series, req.Holdout, req.Confidence, u.order, opts)
}
