package indicator

import (
	"math"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
)

// Compute derives the full technical snapshot from a daily series as of its
// last bar. Windows shrink to the available history where noted; metrics
// that need a minimum of data fall back to their neutral value instead of
// failing.
func Compute(series models.PriceSeries) (models.IndicatorSnapshot, error) {
	n := series.Len()
	if n == 0 {
		return models.IndicatorSnapshot{}, errs.InsufficientData(
			"cannot compute indicators on an empty series")
	}

	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range series.Candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		volumes[i] = c.Volume
	}

	snap := models.IndicatorSnapshot{
		Close:      closes[n-1],
		SMA20:      smaLast(closes, 20),
		SMA60:      smaLast(closes, 60),
		ATR14:      atr(highs, lows, closes, 14),
		MDDPct:     maxDrawdownPct(closes),
		RSI14:      rsi(closes, 14),
		VolumeLast: volumes[n-1],
		PSY10Pct:   psy(closes, 10),
	}

	if n >= 2 && closes[n-2] != 0 {
		snap.ChangeRate = (closes[n-1]/closes[n-2] - 1) * 100
	}
	if n > 21 && closes[n-21] != 0 {
		snap.Momentum20Pct = (closes[n-1]/closes[n-21] - 1) * 100
	}

	snap.HV20Pct = historicalVolatility(closes, 20)

	std20 := stdLast(closes, 20)
	snap.BollUpper = snap.SMA20 + 2*std20
	snap.BollLower = snap.SMA20 - 2*std20

	line, signal := macd(closes)
	snap.MACDLine = line
	snap.MACDSignal = signal
	snap.MACDHist = line - signal

	if n >= 20 {
		snap.VolumeAvg20 = smaLast(volumes, 20)
	}
	if snap.VolumeAvg20 > 0 {
		snap.VolumeRatioPct = (snap.VolumeLast/snap.VolumeAvg20 - 1) * 100
	}

	return snap, nil
}

// smaLast averages the trailing window, shrinking it when the series is
// shorter.
func smaLast(xs []float64, window int) float64 {
	if len(xs) == 0 {
		return 0
	}
	if window > len(xs) {
		window = len(xs)
	}
	s := 0.0
	for _, v := range xs[len(xs)-window:] {
		s += v
	}
	return s / float64(window)
}

// stdLast is the sample standard deviation (ddof=1) of the trailing window,
// 0 when fewer than 2 values are available.
func stdLast(xs []float64, window int) float64 {
	if window > len(xs) {
		window = len(xs)
	}
	if window < 2 {
		return 0
	}
	tail := xs[len(xs)-window:]
	m := 0.0
	for _, v := range tail {
		m += v
	}
	m /= float64(window)
	s := 0.0
	for _, v := range tail {
		s += (v - m) * (v - m)
	}
	return math.Sqrt(s / float64(window-1))
}

// historicalVolatility annualizes the sample std of the trailing daily
// returns, in percent. Fewer returns than the window reports 0 rather than
// an estimate off a shrunken sample.
func historicalVolatility(closes []float64, window int) float64 {
	rets := make([]float64, 0, len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] == 0 {
			continue
		}
		rets = append(rets, closes[i]/closes[i-1]-1)
	}
	if len(rets) < window {
		return 0
	}
	sd := stdLast(rets, window)
	return sd * math.Sqrt(252) * 100
}

// atr averages the trailing true ranges, shrinking the window when short.
func atr(highs, lows, closes []float64, window int) float64 {
	trs := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		tr := highs[i] - lows[i]
		if v := math.Abs(highs[i] - closes[i-1]); v > tr {
			tr = v
		}
		if v := math.Abs(lows[i] - closes[i-1]); v > tr {
			tr = v
		}
		trs = append(trs, tr)
	}
	return smaLast(trs, window)
}

// maxDrawdownPct is the worst peak-to-trough decline over the series, in
// percent (non-positive).
func maxDrawdownPct(closes []float64) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, c := range closes {
		if c > peak {
			peak = c
		}
		if peak > 0 {
			if dd := c/peak - 1; dd < worst {
				worst = dd
			}
		}
	}
	return worst * 100
}

// ema is the exponentially weighted mean with alpha=2/(span+1), seeded at
// the first value.
func ema(xs []float64, span int) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = xs[0]
	for i := 1; i < len(xs); i++ {
		out[i] = alpha*xs[i] + (1-alpha)*out[i-1]
	}
	return out
}

// macd returns the last value of the 12/26 EMA spread and its 9-EMA signal.
func macd(closes []float64) (line, signal float64) {
	e12 := ema(closes, 12)
	e26 := ema(closes, 26)
	diff := make([]float64, len(closes))
	for i := range closes {
		diff[i] = e12[i] - e26[i]
	}
	sig := ema(diff, 9)
	return diff[len(diff)-1], sig[len(sig)-1]
}

// rsi uses the simple-mean form over the trailing window of gains and
// losses, returning the neutral 50 when history is too short to fill it.
func rsi(closes []float64, window int) float64 {
	if len(closes) < window+1 {
		return 50
	}
	var gains, losses float64
	for i := len(closes) - window; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gains += d
		} else {
			losses -= d
		}
	}
	gains /= float64(window)
	losses /= float64(window)
	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}
	rs := gains / losses
	return 100 - 100/(1+rs)
}

// psy is the share of up days in the trailing window, in percent; neutral
// 50 when the window cannot be filled.
func psy(closes []float64, window int) float64 {
	diffs := len(closes) - 1
	if diffs < window {
		return 50
	}
	up := 0
	for i := len(closes) - window; i < len(closes); i++ {
		if closes[i] > closes[i-1] {
			up++
		}
	}
	return float64(up) / float64(window) * 100
}
