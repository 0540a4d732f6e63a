package models

// IndicatorSnapshot is the fixed set of point-in-time technical metrics
// computed from one PriceSeries as of its last bar. All percent fields are
// expressed in percent, not fractions. The sentiment proxy fields are
// nullable: absence of the external volatility index never fails a request.
type IndicatorSnapshot struct {
	Close          float64  `json:"close"`
	ChangeRate     float64  `json:"change_rate"`
	SMA20          float64  `json:"sma20"`
	SMA60          float64  `json:"sma60"`
	Momentum20Pct  float64  `json:"momentum20_pct"`
	HV20Pct        float64  `json:"hv20_pct"`
	ATR14          float64  `json:"atr14"`
	MDDPct         float64  `json:"mdd_pct"`
	BollUpper      float64  `json:"boll_upper"`
	BollLower      float64  `json:"boll_lower"`
	MACDLine       float64  `json:"macd_line"`
	MACDSignal     float64  `json:"macd_signal"`
	MACDHist       float64  `json:"macd_hist"`
	RSI14          float64  `json:"rsi14"`
	VolumeLast     float64  `json:"volume_last"`
	VolumeAvg20    float64  `json:"volume_avg20"`
	VolumeRatioPct float64  `json:"volume_ratio_pct"`
	PSY10Pct       float64  `json:"psy10_pct"`
	VixLevel       *float64 `json:"vix_level"`
	VixChangePct   *float64 `json:"vix_change_pct"`
}

// ScoreSet holds the normalized 0-100 signal scores.
type ScoreSet struct {
	Trend      int `json:"trend_score"`
	Momentum   int `json:"momentum_score"`
	Volatility int `json:"volatility_score"`
	Confidence int `json:"confidence_score"`
}

// NarrativeSource identifies which provider produced the final narrative.
type NarrativeSource string

const (
	SourceRule NarrativeSource = "rule"
	SourceLLM  NarrativeSource = "llm"
)

// Risk labels used by the narrative.
const (
	RiskLow    = "낮음"
	RiskMedium = "중간"
	RiskHigh   = "높음"
)

// Narrative is the human-readable commentary block of an insight.
type Narrative struct {
	Summary    string          `json:"summary"`
	RiskLabel  string          `json:"risk_label"`
	QuickNotes []string        `json:"quick_notes"`
	Actions    []string        `json:"actions"`
	Alerts     []string        `json:"alerts"`
	Source     NarrativeSource `json:"source"`
	Model      string          `json:"model,omitempty"`
	LatencyMS  float64         `json:"latency_ms,omitempty"`
}

// Insight is the combined payload served to the presentation layer.
type Insight struct {
	Symbol          string            `json:"symbol"`
	LastPrice       float64           `json:"last_price"`
	ChangeRate      float64           `json:"change_rate"`
	VolatilityScore int               `json:"volatility_score"`
	ConfidenceScore int               `json:"confidence_score"`
	RiskLabel       string            `json:"risk_label"`
	NarrativeSource NarrativeSource   `json:"narrative_source"`
	LLMModel        string            `json:"llm_model,omitempty"`
	LLMLatencyMS    float64           `json:"llm_latency_ms,omitempty"`
	Band            *BandSummary      `json:"band"`
	Summary         string            `json:"summary"`
	QuickNotes      []string          `json:"quick_notes"`
	Actions         []string          `json:"actions"`
	Alerts          []string          `json:"alerts"`
	Indicators      IndicatorSnapshot `json:"indicators"`
	Scores          ScoreSet          `json:"scores"`
}
