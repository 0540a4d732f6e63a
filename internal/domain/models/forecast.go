package models

import (
	"encoding/json"
	"time"
)

// ARIMAOrder is the (p, d, q) order of the forecaster's model.
type ARIMAOrder struct {
	P int `yaml:"p"`
	D int `yaml:"d"`
	Q int `yaml:"q"`
}

func (o ARIMAOrder) Sum() int { return o.P + o.D + o.Q }

// ForecastPoint is one step of the forecast band. Lower <= Mean <= Upper
// holds for every point the forecaster emits.
type ForecastPoint struct {
	Time  time.Time
	Mean  float64
	Lower float64
	Upper float64
}

// MarshalJSON emits the chart payload shape: ISO date plus band values.
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Time  string  `json:"time"`
		Mean  float64 `json:"mean"`
		Lower float64 `json:"lower"`
		Upper float64 `json:"upper"`
	}{
		Time:  p.Time.Format("2006-01-02"),
		Mean:  p.Mean,
		Lower: p.Lower,
		Upper: p.Upper,
	})
}

// BandSummary rolls a forecast-band sequence up to its envelope.
type BandSummary struct {
	HorizonLabel string  `json:"horizon_label"`
	Upper        float64 `json:"upper"`
	Lower        float64 `json:"lower"`
	Center       float64 `json:"center"`
}

// RangePct returns the band width as a fraction of its center, 0 when the
// center is not usable.
func (b BandSummary) RangePct() float64 {
	if b.Center == 0 {
		return 0
	}
	return (b.Upper - b.Lower) / b.Center
}

// AccuracyReport is the single-fit holdout backtest result.
type AccuracyReport struct {
	Symbol      string  `json:"symbol"`
	HoldoutDays int     `json:"holdout_days"`
	MAE         float64 `json:"mae"`
	RMSE        float64 `json:"rmse"`
	MAPE        float64 `json:"mape"`
	TestPoints  int     `json:"test_points"`
}

// BandKind selects how the walk-forward evaluator builds its interval.
type BandKind string

const (
	BandParametric BandKind = "parametric"
	BandEmpirical  BandKind = "empirical"
)

// WalkForwardOptions tunes the walk-forward evaluation.
type WalkForwardOptions struct {
	// ScaleFactor multiplies the parametric half-width; 1.0 keeps the
	// model's own interval.
	ScaleFactor float64
	// Band picks parametric or empirical interval construction.
	Band BandKind
}

// WalkForwardReport is the per-step-refit backtest result, including band
// coverage on the held-out window.
type WalkForwardReport struct {
	Symbol      string   `json:"symbol"`
	TestPoints  int      `json:"test_points"`
	Coverage    float64  `json:"coverage"`
	MAE         float64  `json:"mae"`
	RMSE        float64  `json:"rmse"`
	MAPE        float64  `json:"mape"`
	Confidence  float64  `json:"confidence"`
	ScaleFactor float64  `json:"scale_factor"`
	Band        BandKind `json:"band"`
}
