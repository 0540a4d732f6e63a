package scoring

import (
	"math"

	"StockInsight/internal/domain/models"
)

// Volatility score interpolation knots: annualized HV% to 0-100 score.
var (
	volKnotsX = []float64{5, 15, 30, 45, 60, 90}
	volKnotsY = []float64{10, 30, 55, 70, 88, 100}
)

// Compute maps the indicator snapshot (and the forecast band, when one is
// available) onto the four 0-100 signal scores.
func Compute(ind models.IndicatorSnapshot, band *models.BandSummary) models.ScoreSet {
	trend := 45
	if ind.SMA20 > ind.SMA60 {
		trend = 70
	}

	momentum := clampRound(50+ind.Momentum20Pct, 0, 100)
	volatility := volatilityScore(ind.HV20Pct)

	bandPenalty := 0.0
	if band != nil {
		bandPenalty = math.Min(15, math.Max(0, band.RangePct()*100))
	}
	conf := 62 +
		0.32*float64(trend-50) +
		0.25*float64(momentum-50) +
		liquidityBonus(ind.VolumeAvg20) -
		0.35*math.Max(0, float64(volatility)-60) -
		bandPenalty

	return models.ScoreSet{
		Trend:      trend,
		Momentum:   momentum,
		Volatility: volatility,
		Confidence: clampRound(conf, 0, 100),
	}
}

// volatilityScore interpolates annualized volatility onto the score knots,
// clamping outside the knot range. Non-finite input scores 0.
func volatilityScore(hv float64) int {
	if math.IsNaN(hv) || math.IsInf(hv, 0) {
		return 0
	}
	if hv <= volKnotsX[0] {
		return int(volKnotsY[0])
	}
	last := len(volKnotsX) - 1
	if hv >= volKnotsX[last] {
		return int(volKnotsY[last])
	}
	for i := 1; i <= last; i++ {
		if hv <= volKnotsX[i] {
			x0, x1 := volKnotsX[i-1], volKnotsX[i]
			y0, y1 := volKnotsY[i-1], volKnotsY[i]
			return clampRound(y0+(y1-y0)*(hv-x0)/(x1-x0), 0, 100)
		}
	}
	return int(volKnotsY[last])
}

// liquidityBonus rewards deep average volume on a log scale, capped at 8.
func liquidityBonus(avgVolume float64) float64 {
	if avgVolume <= 0 {
		return 0
	}
	return math.Min(8, math.Max(0, (math.Log10(avgVolume)-6)*2.2))
}

func clampRound(v, lo, hi float64) int {
	if math.IsNaN(v) {
		return int(lo)
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return int(math.Round(v))
}
