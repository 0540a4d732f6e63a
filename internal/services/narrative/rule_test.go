package narrative

import (
	"strings"
	"testing"

	"StockInsight/internal/domain/models"
)

func baseSnapshot() models.IndicatorSnapshot {
	return models.IndicatorSnapshot{
		Close:          150,
		SMA20:          110,
		SMA60:          100,
		Momentum20Pct:  2,
		HV20Pct:        20,
		MDDPct:         -10,
		RSI14:          55,
		MACDLine:       1.2,
		MACDSignal:     0.8,
		MACDHist:       0.4,
		BollUpper:      160,
		BollLower:      140,
		ATR14:          3,
		VolumeRatioPct: 5,
		PSY10Pct:       60,
	}
}

func TestRiskLabelThresholds(t *testing.T) {
	cases := []struct {
		name string
		hv   float64
		mdd  float64
		want string
	}{
		{"calm", 20, -10, models.RiskLow},
		{"elevated vol", 30, -10, models.RiskMedium},
		{"extreme vol", 50, -10, models.RiskHigh},
		{"deep drawdown", 20, -30, models.RiskHigh},
		{"vol boundary", 25, -10, models.RiskLow},
		{"drawdown boundary", 20, -25, models.RiskLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := RiskLabel(models.IndicatorSnapshot{HV20Pct: tc.hv, MDDPct: tc.mdd})
			if got != tc.want {
				t.Fatalf("RiskLabel(hv=%g, mdd=%g) = %q, want %q", tc.hv, tc.mdd, got, tc.want)
			}
		})
	}
}

func TestComposeUptrend(t *testing.T) {
	ind := baseSnapshot()
	band := &models.BandSummary{HorizonLabel: "3개월 ARIMA", Upper: 170, Lower: 140, Center: 155}

	narr := Compose(ind, band)

	if narr.Source != models.SourceRule {
		t.Fatalf("rule composer must report rule source, got %q", narr.Source)
	}
	if narr.RiskLabel != models.RiskLow {
		t.Fatalf("risk = %q", narr.RiskLabel)
	}

	// Five segments joined by the separator: trend, momentum, volatility,
	// volume, band.
	parts := strings.Split(narr.Summary, " | ")
	if len(parts) != 5 {
		t.Fatalf("summary has %d segments: %q", len(parts), narr.Summary)
	}
	if !strings.Contains(parts[0], "우상향") {
		t.Fatalf("sma20 10%% above sma60 must read as uptrend: %q", parts[0])
	}
	if !strings.Contains(parts[4], "3개월 ARIMA") {
		t.Fatalf("band phrase missing: %q", parts[4])
	}

	if len(narr.QuickNotes) != 4 {
		t.Fatalf("expected 4 quick notes, got %d", len(narr.QuickNotes))
	}
	if len(narr.Actions) != 3 {
		t.Fatalf("expected 3 actions, got %d", len(narr.Actions))
	}
	if !strings.Contains(narr.Actions[0], "분할매수") {
		t.Fatalf("uptrend should pick the accumulation playbook: %q", narr.Actions[0])
	}
}

func TestComposeDowntrendActions(t *testing.T) {
	ind := baseSnapshot()
	ind.SMA20 = 95
	ind.SMA60 = 100

	narr := Compose(ind, nil)
	if !strings.Contains(narr.Summary, "하락 반전") {
		t.Fatalf("5%% below the 60-day line must read as reversal: %q", narr.Summary)
	}
	if !strings.Contains(narr.Actions[0], "비중 축소") {
		t.Fatalf("downtrend should pick the de-risking playbook: %q", narr.Actions[0])
	}
	if !strings.Contains(narr.Summary, "예측 밴드 정보 없음") {
		t.Fatalf("missing band must be stated: %q", narr.Summary)
	}
}

func TestComposeNeutralTrend(t *testing.T) {
	ind := baseSnapshot()
	ind.SMA20 = 100.5
	ind.SMA60 = 100

	narr := Compose(ind, nil)
	if !strings.Contains(narr.Summary, "중립") {
		t.Fatalf("0.5%% gap must read as neutral: %q", narr.Summary)
	}
}

func TestAlertsCapAndPriority(t *testing.T) {
	// Construct a snapshot that trips every alert at once.
	level := 25.0
	change := 8.0
	ind := models.IndicatorSnapshot{
		Close:          100,
		Momentum20Pct:  10,
		HV20Pct:        50,
		MACDLine:       2,
		MACDSignal:     1,
		MACDHist:       1,
		RSI14:          75,
		VolumeRatioPct: 60,
		VixLevel:       &level,
		VixChangePct:   &change,
	}
	band := &models.BandSummary{Upper: 103, Lower: 99, Center: 101}

	alerts := Alerts(ind, band)
	if len(alerts) != 5 {
		t.Fatalf("alerts must cap at 5, got %d", len(alerts))
	}
	// Band proximity alerts outrank the rest.
	if !strings.Contains(alerts[0], "상단 밴드") {
		t.Fatalf("first alert should be the upper-band proximity: %q", alerts[0])
	}
}

func TestAlertsQuietMarket(t *testing.T) {
	ind := models.IndicatorSnapshot{
		Close:          100,
		Momentum20Pct:  1,
		HV20Pct:        15,
		MACDLine:       1,
		MACDSignal:     2,
		MACDHist:       1, // hist and line/signal disagree: no MACD alert
		RSI14:          50,
		VolumeRatioPct: 5,
	}
	alerts := Alerts(ind, nil)
	if len(alerts) != 0 {
		t.Fatalf("quiet market should produce no alerts, got %v", alerts)
	}
}

func TestGroupedFormatting(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{950, "950"},
		{1234, "1,234"},
		{1234567.4, "1,234,567"},
		{-56789, "-56,789"},
	}
	for _, tc := range cases {
		if got := grouped(tc.in); got != tc.want {
			t.Errorf("grouped(%g) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
