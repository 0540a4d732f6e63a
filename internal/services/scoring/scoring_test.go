package scoring

import (
	"math"
	"testing"

	"StockInsight/internal/domain/models"
)

func TestVolatilityScoreAnchors(t *testing.T) {
	cases := []struct {
		hv   float64
		want int
	}{
		{5, 10},
		{15, 30},
		{30, 55},
		{45, 70},
		{60, 88},
		{90, 100},
		{1, 10},    // below the first knot clamps down
		{120, 100}, // above the last knot clamps up
		{22.5, 43}, // midpoint of the 15->30 segment: 42.5 rounds half up
	}
	for _, tc := range cases {
		if got := volatilityScore(tc.hv); got != tc.want {
			t.Errorf("volatilityScore(%g) = %d, want %d", tc.hv, got, tc.want)
		}
	}
	if got := volatilityScore(math.NaN()); got != 0 {
		t.Errorf("NaN volatility must score 0, got %d", got)
	}
}

func TestTrendScore(t *testing.T) {
	up := Compute(models.IndicatorSnapshot{SMA20: 110, SMA60: 100}, nil)
	if up.Trend != 70 {
		t.Fatalf("uptrend score = %d, want 70", up.Trend)
	}
	down := Compute(models.IndicatorSnapshot{SMA20: 100, SMA60: 110}, nil)
	if down.Trend != 45 {
		t.Fatalf("downtrend score = %d, want 45", down.Trend)
	}
}

func TestMomentumScoreClamps(t *testing.T) {
	hot := Compute(models.IndicatorSnapshot{Momentum20Pct: 80}, nil)
	if hot.Momentum != 100 {
		t.Fatalf("momentum should clamp at 100, got %d", hot.Momentum)
	}
	cold := Compute(models.IndicatorSnapshot{Momentum20Pct: -80}, nil)
	if cold.Momentum != 0 {
		t.Fatalf("momentum should clamp at 0, got %d", cold.Momentum)
	}
	mild := Compute(models.IndicatorSnapshot{Momentum20Pct: 3.2}, nil)
	if mild.Momentum != 53 {
		t.Fatalf("momentum = %d, want 53", mild.Momentum)
	}
}

func TestConfidencePenalizedByBandWidth(t *testing.T) {
	ind := models.IndicatorSnapshot{
		SMA20:         110,
		SMA60:         100,
		Momentum20Pct: 4,
		HV20Pct:       20,
		VolumeAvg20:   5e6,
	}
	narrow := &models.BandSummary{Upper: 102, Lower: 98, Center: 100}
	wide := &models.BandSummary{Upper: 120, Lower: 80, Center: 100}

	noBand := Compute(ind, nil)
	withNarrow := Compute(ind, narrow)
	withWide := Compute(ind, wide)

	if withNarrow.Confidence >= noBand.Confidence {
		t.Fatalf("any band width should penalize confidence: %d vs %d", withNarrow.Confidence, noBand.Confidence)
	}
	if withWide.Confidence >= withNarrow.Confidence {
		t.Fatalf("wider band must not raise confidence: %d vs %d", withWide.Confidence, withNarrow.Confidence)
	}
	// The penalty is capped at 15 points.
	extreme := Compute(ind, &models.BandSummary{Upper: 300, Lower: 0, Center: 100})
	if noBand.Confidence-extreme.Confidence > 15 {
		t.Fatalf("band penalty exceeded its cap: %d vs %d", noBand.Confidence, extreme.Confidence)
	}
}

func TestConfidenceStaysInRange(t *testing.T) {
	worst := Compute(models.IndicatorSnapshot{
		SMA20:         90,
		SMA60:         100,
		Momentum20Pct: -100,
		HV20Pct:       95,
	}, &models.BandSummary{Upper: 200, Lower: 0, Center: 100})
	if worst.Confidence < 0 || worst.Confidence > 100 {
		t.Fatalf("confidence out of range: %d", worst.Confidence)
	}

	best := Compute(models.IndicatorSnapshot{
		SMA20:         120,
		SMA60:         100,
		Momentum20Pct: 100,
		HV20Pct:       10,
		VolumeAvg20:   1e9,
	}, nil)
	if best.Confidence < 0 || best.Confidence > 100 {
		t.Fatalf("confidence out of range: %d", best.Confidence)
	}
	if best.Confidence <= worst.Confidence {
		t.Fatalf("strong setup should outrank weak setup: %d vs %d", best.Confidence, worst.Confidence)
	}
}

func TestLiquidityBonus(t *testing.T) {
	if got := liquidityBonus(0); got != 0 {
		t.Fatalf("no volume, no bonus: %f", got)
	}
	if got := liquidityBonus(1e6); got != 0 {
		t.Fatalf("1M average volume sits at the threshold: %f", got)
	}
	if got := liquidityBonus(1e7); math.Abs(got-2.2) > 1e-9 {
		t.Fatalf("10M average volume bonus = %f, want 2.2", got)
	}
	if got := liquidityBonus(1e12); got != 8 {
		t.Fatalf("bonus must cap at 8, got %f", got)
	}
}
