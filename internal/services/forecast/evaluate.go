package forecast

import (
	"math"
	"sort"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
)

// Evaluator backtests the ARIMA engine against the trailing window of a
// series. It reuses the package's fit internals directly so that holdout
// windows longer than the serving horizon cap remain evaluable.
type Evaluator struct{}

func NewEvaluator() *Evaluator { return &Evaluator{} }

// Holdout fits once on everything before the holdout window and scores the
// multi-step forecast against the held-out closes.
func (e *Evaluator) Holdout(series models.PriceSeries, holdoutDays int, confidence float64, order models.ARIMAOrder) (models.AccuracyReport, error) {
	if holdoutDays < 1 {
		return models.AccuracyReport{}, errs.InvalidParameter("holdout must be a positive integer, got %d", holdoutDays)
	}
	closes := series.Closes()
	if len(closes) <= holdoutDays {
		return models.AccuracyReport{}, errs.InsufficientData(
			"need more than %d points for a %d-day holdout, got %d", holdoutDays, holdoutDays, len(closes))
	}
	train := closes[:len(closes)-holdoutDays]
	actual := closes[len(closes)-holdoutDays:]
	if len(train) < order.Sum()+minExtraPoints {
		return models.AccuracyReport{}, errs.InsufficientData(
			"training window of %d points is too short for ARIMA(%d,%d,%d)",
			len(train), order.P, order.D, order.Q)
	}

	m, err := fitARIMA(train, order)
	if err != nil {
		return models.AccuracyReport{}, err
	}
	means, _, _, err := m.forecast(train, holdoutDays, confidence)
	if err != nil {
		return models.AccuracyReport{}, err
	}

	mae, rmse, mape := errorStats(means, actual)
	return models.AccuracyReport{
		Symbol:      series.Symbol,
		HoldoutDays: holdoutDays,
		MAE:         mae,
		RMSE:        rmse,
		MAPE:        mape,
		TestPoints:  len(actual),
	}, nil
}

// WalkForward refits the model at every step of the trailing test window and
// scores 1-step-ahead forecasts, including how often the interval covered
// the realized close.
func (e *Evaluator) WalkForward(series models.PriceSeries, testDays int, confidence float64, order models.ARIMAOrder, opts models.WalkForwardOptions) (models.WalkForwardReport, error) {
	if testDays < 1 {
		return models.WalkForwardReport{}, errs.InvalidParameter("test window must be a positive integer, got %d", testDays)
	}
	if opts.ScaleFactor <= 0 {
		opts.ScaleFactor = 1.0
	}
	if opts.Band == "" {
		opts.Band = models.BandParametric
	}

	closes := series.Closes()
	if len(closes) <= testDays {
		return models.WalkForwardReport{}, errs.InsufficientData(
			"need more than %d points for a %d-day walk-forward window, got %d", testDays, testDays, len(closes))
	}

	var preds, actuals, halves []float64
	for t := len(closes) - testDays; t < len(closes); t++ {
		train := closes[:t]
		if len(train) < order.Sum()+minExtraPoints {
			continue
		}
		m, err := fitARIMA(train, order)
		if err != nil {
			continue
		}
		means, lowers, _, err := m.forecast(train, 1, confidence)
		if err != nil {
			continue
		}
		preds = append(preds, means[0])
		actuals = append(actuals, closes[t])
		halves = append(halves, means[0]-lowers[0])
	}
	if len(preds) == 0 {
		return models.WalkForwardReport{}, errs.InsufficientData(
			"no step of the %d-day window produced a usable fit", testDays)
	}

	mae, rmse, mape := errorStats(preds, actuals)

	covered := 0
	switch opts.Band {
	case models.BandEmpirical:
		// Replace the model interval with quantiles of the observed
		// percentage residuals, applied multiplicatively around each point
		// forecast, then re-score coverage against that band.
		pctErr := make([]float64, 0, len(preds))
		for i := range preds {
			if preds[i] == 0 {
				continue
			}
			pctErr = append(pctErr, (actuals[i]-preds[i])/preds[i])
		}
		alpha := 1 - confidence
		qLo := quantile(pctErr, alpha/2)
		qHi := quantile(pctErr, 1-alpha/2)
		for i := range preds {
			lower := preds[i] * (1 + qLo)
			upper := preds[i] * (1 + qHi)
			if lower <= actuals[i] && actuals[i] <= upper {
				covered++
			}
		}
	default:
		for i := range preds {
			half := halves[i] * opts.ScaleFactor
			if math.Abs(actuals[i]-preds[i]) <= half {
				covered++
			}
		}
	}

	return models.WalkForwardReport{
		Symbol:      series.Symbol,
		TestPoints:  len(preds),
		Coverage:    float64(covered) / float64(len(preds)),
		MAE:         mae,
		RMSE:        rmse,
		MAPE:        mape,
		Confidence:  confidence,
		ScaleFactor: opts.ScaleFactor,
		Band:        opts.Band,
	}, nil
}

// errorStats computes MAE, RMSE and MAPE between predictions and actuals.
// MAPE skips points where the actual is zero.
func errorStats(pred, actual []float64) (mae, rmse, mape float64) {
	n := len(pred)
	if n == 0 {
		return 0, 0, 0
	}
	var sumAbs, sumSq, sumPct float64
	pctN := 0
	for i := 0; i < n; i++ {
		e := actual[i] - pred[i]
		sumAbs += math.Abs(e)
		sumSq += e * e
		if actual[i] != 0 {
			sumPct += math.Abs(e / actual[i])
			pctN++
		}
	}
	mae = sumAbs / float64(n)
	rmse = math.Sqrt(sumSq / float64(n))
	if pctN > 0 {
		mape = sumPct / float64(pctN) * 100
	}
	return mae, rmse, mape
}

// quantile returns the p-th quantile of xs using sorted linear
// interpolation, matching the convention of numpy's default method.
func quantile(xs []float64, p float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
