package usecase

import (
	"context"
	"math"
	"testing"
	"time"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
	"StockInsight/internal/services/forecast"
	"StockInsight/internal/services/narrative"
	"StockInsight/pkg/logger"
)

var testOrder = models.ARIMAOrder{P: 1, D: 1, Q: 1}

// fakeProvider serves canned history from memory.
type fakeProvider struct {
	series map[string]models.PriceSeries
	vixOK  bool
}

func (f *fakeProvider) FetchHistory(_ context.Context, symbol string, rng string) (models.PriceSeries, error) {
	s, ok := f.series[symbol]
	if !ok {
		return models.PriceSeries{}, errs.DataUnavailable("no candle data for symbol %q over %s", symbol, rng)
	}
	return s, nil
}

func (f *fakeProvider) VolIndexQuote(context.Context) (float64, float64, bool) {
	if !f.vixOK {
		return 0, 0, false
	}
	return 18.5, 2.1, true
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return l
}

func syntheticSeries(symbol string, n int) models.PriceSeries {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	for i := 0; i < n; i++ {
		c := 100 + 0.3*float64(i) + 1.5*math.Sin(float64(i)/7)
		candles[i] = models.Candle{
			Time:   start.AddDate(0, 0, i),
			Open:   c * 0.995,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 2e6,
		}
	}
	return models.PriceSeries{Symbol: symbol, Candles: candles}
}

func newTestBuilder(t *testing.T, provider *fakeProvider) *InsightBuilder {
	t.Helper()
	l := testLogger(t)
	return NewInsightBuilder(provider, forecast.NewEngine(), narrative.NewSynthesizer(nil, l), testOrder, l)
}

func TestInsightBuildFullPayload(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]models.PriceSeries{"AAPL": syntheticSeries("AAPL", 300)},
		vixOK:  true,
	}
	b := newTestBuilder(t, provider)

	ins, err := b.Build(context.Background(), models.InsightRequest{Symbol: "aapl", Range: "1y"})
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	if ins.Symbol != "AAPL" {
		t.Fatalf("symbol not normalized: %q", ins.Symbol)
	}
	if ins.LastPrice != ins.Indicators.Close {
		t.Fatalf("last price mismatch: %f vs %f", ins.LastPrice, ins.Indicators.Close)
	}
	if ins.NarrativeSource != models.SourceRule {
		t.Fatalf("source = %q", ins.NarrativeSource)
	}
	if ins.Band == nil {
		t.Fatalf("300 points of history must yield a band")
	}
	if ins.Band.HorizonLabel != "3개월 ARIMA" {
		t.Fatalf("band label = %q", ins.Band.HorizonLabel)
	}
	if ins.Band.Lower >= ins.Band.Upper {
		t.Fatalf("band envelope inverted: %+v", ins.Band)
	}
	if ins.Summary == "" || len(ins.Actions) != 3 || len(ins.QuickNotes) != 4 {
		t.Fatalf("narrative incomplete: %+v", ins)
	}
	if ins.RiskLabel != models.RiskLow && ins.RiskLabel != models.RiskMedium && ins.RiskLabel != models.RiskHigh {
		t.Fatalf("risk label %q not in the fixed vocabulary", ins.RiskLabel)
	}
	if ins.Indicators.VixLevel == nil || *ins.Indicators.VixLevel != 18.5 {
		t.Fatalf("vix quote not attached: %+v", ins.Indicators.VixLevel)
	}
	if ins.Scores.Confidence < 0 || ins.Scores.Confidence > 100 {
		t.Fatalf("confidence out of range: %d", ins.Scores.Confidence)
	}
}

func TestInsightDegradesWithoutBand(t *testing.T) {
	// Too few points for the ARIMA fit, but plenty for indicators: the
	// insight must still come back, without a band.
	provider := &fakeProvider{
		series: map[string]models.PriceSeries{"TINY": syntheticSeries("TINY", 7)},
	}
	b := newTestBuilder(t, provider)

	ins, err := b.Build(context.Background(), models.InsightRequest{Symbol: "TINY", Range: "6m"})
	if err != nil {
		t.Fatalf("short history must degrade, not fail: %v", err)
	}
	if ins.Band != nil {
		t.Fatalf("expected no band on short history")
	}
	if ins.Indicators.VixLevel != nil {
		t.Fatalf("vix should be absent when the proxy is down")
	}
	if ins.Summary == "" {
		t.Fatalf("narrative must still be produced")
	}
}

func TestInsightUnknownSymbol(t *testing.T) {
	b := newTestBuilder(t, &fakeProvider{series: map[string]models.PriceSeries{}})
	_, err := b.Build(context.Background(), models.InsightRequest{Symbol: "NOPE", Range: "1y"})
	if !errs.Is(err, errs.KindDataUnavailable) {
		t.Fatalf("expected data unavailable, got %v", err)
	}
}

func TestForecastUsecase(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]models.PriceSeries{"MSFT": syntheticSeries("MSFT", 300)},
	}
	u := NewForecastUsecase(provider, forecast.NewEngine(), testOrder, "")

	res, err := u.Forecast(context.Background(), models.ForecastRequest{Symbol: " msft ", Horizon: 20, Confidence: 0.9})
	if err != nil {
		t.Fatalf("forecast failed: %v", err)
	}
	if res.Symbol != "MSFT" {
		t.Fatalf("symbol not normalized: %q", res.Symbol)
	}
	if len(res.Points) != 20 {
		t.Fatalf("expected 20 points, got %d", len(res.Points))
	}
	if res.LastClose == 0 {
		t.Fatalf("last close missing")
	}
	for i, p := range res.Points {
		if p.Lower > p.Mean || p.Mean > p.Upper {
			t.Fatalf("point %d violates band invariant: %+v", i, p)
		}
	}
}

func TestAccuracyUsecaseModes(t *testing.T) {
	provider := &fakeProvider{
		series: map[string]models.PriceSeries{"NVDA": syntheticSeries("NVDA", 300)},
	}
	u := NewAccuracyUsecase(provider, forecast.NewEvaluator(), testOrder, "")

	hold, err := u.Holdout(context.Background(), models.AccuracyRequest{Symbol: "NVDA", Holdout: 63, Confidence: 0.9})
	if err != nil {
		t.Fatalf("holdout failed: %v", err)
	}
	if hold.TestPoints != 63 {
		t.Fatalf("holdout test points = %d", hold.TestPoints)
	}

	wf, err := u.WalkForward(context.Background(), models.AccuracyRequest{
		Symbol: "NVDA", Holdout: 30, Confidence: 0.9, Scale: 1.0, Band: "parametric",
	})
	if err != nil {
		t.Fatalf("walk-forward failed: %v", err)
	}
	if wf.TestPoints != 30 {
		t.Fatalf("walk-forward test points = %d", wf.TestPoints)
	}
	if wf.Band != models.BandParametric {
		t.Fatalf("band = %q", wf.Band)
	}
}
