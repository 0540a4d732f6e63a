package indicator

import (
	"math"
	"testing"
	"time"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
)

// buildSeries generates a deterministic OHLCV fixture from a close path.
func buildSeries(closes []float64, volume float64) models.PriceSeries {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		candles[i] = models.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: volume,
		}
	}
	return models.PriceSeries{Symbol: "TST", Candles: candles}
}

func steadyRise(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

func TestComputeRejectsEmptySeries(t *testing.T) {
	_, err := Compute(models.PriceSeries{Symbol: "TST"})
	if !errs.Is(err, errs.KindInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
}

func TestComputeSingleBarIsNeutral(t *testing.T) {
	snap, err := Compute(buildSeries([]float64{100}, 1e6))
	if err != nil {
		t.Fatalf("a single bar must still produce a snapshot: %v", err)
	}
	if snap.Close != 100 {
		t.Fatalf("close = %f", snap.Close)
	}
	if snap.ChangeRate != 0 || snap.Momentum20Pct != 0 || snap.HV20Pct != 0 {
		t.Fatalf("rate metrics must be 0 with one bar: %+v", snap)
	}
	if snap.RSI14 != 50 || snap.PSY10Pct != 50 {
		t.Fatalf("oscillators must be neutral with one bar: rsi=%f psy=%f", snap.RSI14, snap.PSY10Pct)
	}
	if snap.SMA20 != 100 || snap.BollUpper != 100 || snap.BollLower != 100 {
		t.Fatalf("window stats must collapse to the close: %+v", snap)
	}
}

func TestComputeOnRisingSeries(t *testing.T) {
	closes := steadyRise(120, 100, 1) // 100..219
	snap, err := Compute(buildSeries(closes, 2e6))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if snap.Close != 219 {
		t.Fatalf("close = %f", snap.Close)
	}
	wantChange := (219.0/218.0 - 1) * 100
	if math.Abs(snap.ChangeRate-wantChange) > 1e-9 {
		t.Fatalf("change rate = %f, want %f", snap.ChangeRate, wantChange)
	}

	// SMA of an arithmetic sequence is the midpoint of the window.
	if math.Abs(snap.SMA20-(219-9.5)) > 1e-9 {
		t.Fatalf("sma20 = %f", snap.SMA20)
	}
	if math.Abs(snap.SMA60-(219-29.5)) > 1e-9 {
		t.Fatalf("sma60 = %f", snap.SMA60)
	}
	if snap.SMA20 <= snap.SMA60 {
		t.Fatalf("rising series must have sma20 > sma60")
	}

	wantMom := (219.0/199.0 - 1) * 100
	if math.Abs(snap.Momentum20Pct-wantMom) > 1e-9 {
		t.Fatalf("momentum = %f, want %f", snap.Momentum20Pct, wantMom)
	}

	// Every day closes higher: full RSI and full sentiment.
	if snap.RSI14 != 100 {
		t.Fatalf("rsi = %f, want 100", snap.RSI14)
	}
	if snap.PSY10Pct != 100 {
		t.Fatalf("psy = %f, want 100", snap.PSY10Pct)
	}
	if snap.MACDLine <= 0 {
		t.Fatalf("macd line should be positive on an uptrend: %f", snap.MACDLine)
	}
	if snap.MDDPct != 0 {
		t.Fatalf("monotonic rise has no drawdown, got %f", snap.MDDPct)
	}

	if snap.BollUpper <= snap.SMA20 || snap.BollLower >= snap.SMA20 {
		t.Fatalf("bollinger band must bracket sma20: [%f, %f] vs %f", snap.BollLower, snap.BollUpper, snap.SMA20)
	}

	// Flat volume: 20-day average equals the last print, ratio 0.
	if snap.VolumeAvg20 != 2e6 || snap.VolumeRatioPct != 0 {
		t.Fatalf("volume fields wrong: avg=%f ratio=%f", snap.VolumeAvg20, snap.VolumeRatioPct)
	}
}

func TestComputeNeutralDefaultsOnShortHistory(t *testing.T) {
	closes := steadyRise(10, 100, 1)
	snap, err := Compute(buildSeries(closes, 5e5))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}

	if snap.RSI14 != 50 {
		t.Fatalf("short history rsi must be neutral 50, got %f", snap.RSI14)
	}
	if snap.PSY10Pct != 50 {
		t.Fatalf("short history psy must be neutral 50, got %f", snap.PSY10Pct)
	}
	if snap.Momentum20Pct != 0 {
		t.Fatalf("momentum needs 21+ points, got %f", snap.Momentum20Pct)
	}
	// Fewer than 20 bars: no volume average, ratio suppressed.
	if snap.VolumeAvg20 != 0 || snap.VolumeRatioPct != 0 {
		t.Fatalf("volume guard broken: avg=%f ratio=%f", snap.VolumeAvg20, snap.VolumeRatioPct)
	}
	// Windows shrink to the data available.
	if math.Abs(snap.SMA20-104.5) > 1e-9 {
		t.Fatalf("sma over available window = %f, want 104.5", snap.SMA20)
	}
}

func TestHistoricalVolatilityNeedsFullWindow(t *testing.T) {
	// A short, choppy history must report 0 volatility, not an annualized
	// estimate off the shrunken return sample.
	closes := []float64{100, 104, 97, 103, 96, 105, 98, 106, 99, 107, 100, 108, 101, 109, 102}
	snap, err := Compute(buildSeries(closes, 1e6))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if snap.HV20Pct != 0 {
		t.Fatalf("15 bars yield only 14 returns, hv must be 0, got %f", snap.HV20Pct)
	}

	// 21 bars give exactly 20 returns: the estimate turns on.
	closes = append(closes, 110, 103, 111, 104, 112, 105)
	snap, err = Compute(buildSeries(closes, 1e6))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if snap.HV20Pct <= 0 {
		t.Fatalf("full return window must produce a positive hv, got %f", snap.HV20Pct)
	}
}

func TestMaxDrawdown(t *testing.T) {
	closes := []float64{100, 120, 90, 110, 80}
	snap, err := Compute(buildSeries(closes, 1e6))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	want := (80.0/120.0 - 1) * 100
	if math.Abs(snap.MDDPct-want) > 1e-9 {
		t.Fatalf("mdd = %f, want %f", snap.MDDPct, want)
	}
}

func TestHistoricalVolatilityFlatSeries(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100
	}
	snap, err := Compute(buildSeries(closes, 1e6))
	if err != nil {
		t.Fatalf("compute failed: %v", err)
	}
	if snap.HV20Pct != 0 {
		t.Fatalf("flat series volatility must be 0, got %f", snap.HV20Pct)
	}
}

func TestEMASeed(t *testing.T) {
	xs := []float64{10, 20}
	out := ema(xs, 9)
	if out[0] != 10 {
		t.Fatalf("ema seeds at the first value, got %f", out[0])
	}
	alpha := 2.0 / 10.0
	want := alpha*20 + (1-alpha)*10
	if math.Abs(out[1]-want) > 1e-12 {
		t.Fatalf("ema[1] = %f, want %f", out[1], want)
	}
}
