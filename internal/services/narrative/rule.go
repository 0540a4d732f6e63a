package narrative

import (
	"context"
	"fmt"
	"strings"

	"StockInsight/internal/domain/models"
)

// RuleWriter composes the Korean commentary block from indicator and band
// state with fixed templates. It never fails and needs no external calls.
type RuleWriter struct{}

func NewRuleWriter() *RuleWriter { return &RuleWriter{} }

func (w *RuleWriter) Synthesize(_ context.Context, ind models.IndicatorSnapshot, _ models.ScoreSet, band *models.BandSummary) (models.Narrative, error) {
	return Compose(ind, band), nil
}

// Compose builds the full rule-based narrative.
func Compose(ind models.IndicatorSnapshot, band *models.BandSummary) models.Narrative {
	maGapPct := 0.0
	if ind.SMA60 != 0 {
		maGapPct = (ind.SMA20/ind.SMA60 - 1) * 100
	}

	trendBias := "중립"
	switch {
	case maGapPct > 1:
		trendBias = "우상향"
	case maGapPct < -1:
		trendBias = "하락 반전"
	}

	macdState := "하락 전환"
	if ind.MACDHist > 0 && ind.MACDLine > ind.MACDSignal {
		macdState = "상승 전환"
	}

	rsiState := "과매도"
	switch {
	case ind.RSI14 >= 70:
		rsiState = "과매수"
	case ind.RSI14 > 35:
		rsiState = "중립"
	}

	volState := "유출"
	switch {
	case ind.VolumeRatioPct > 40:
		volState = "거래량 급증"
	case ind.VolumeRatioPct > 10:
		volState = "유입"
	case ind.VolumeRatioPct > -15:
		volState = "평균"
	}

	riskLabel := RiskLabel(ind)

	bandPhrase := "예측 밴드 정보 없음"
	if band != nil && band.Center != 0 {
		bandPhrase = fmt.Sprintf("%s 밴드 폭 %.1f%% (%s~%s)",
			band.HorizonLabel, band.RangePct()*100, grouped(band.Lower), grouped(band.Upper))
	}

	summary := strings.Join([]string{
		fmt.Sprintf("20일선 대비 60일선 %+.1f%% → 추세 %s", maGapPct, trendBias),
		fmt.Sprintf("최근 20일 모멘텀 %+.1f%%·MACD %s·RSI %.0f(%s)", ind.Momentum20Pct, macdState, ind.RSI14, rsiState),
		fmt.Sprintf("연율화 변동성 %.1f%% (리스크 %s) · 최대낙폭 %.1f%%", ind.HV20Pct, riskLabel, ind.MDDPct),
		fmt.Sprintf("거래량 %s(%+.0f%% vs 20일 평균), 투자심리도 %.0f%%", volState, ind.VolumeRatioPct, ind.PSY10Pct),
		bandPhrase,
	}, " | ")

	psyStance := "관망"
	if ind.PSY10Pct > 60 {
		psyStance = "관심 매수"
	}
	quickNotes := []string{
		fmt.Sprintf("볼린저 상단 %s / 하단 %s 인근 반응을 확인하세요.", grouped(ind.BollUpper), grouped(ind.BollLower)),
		fmt.Sprintf("HV20 %.1f%%·ATR14 %s 수준에서 손익비를 재점검", ind.HV20Pct, grouped(ind.ATR14)),
		fmt.Sprintf("거래량 흐름: %s, 심리 %.0f%% → %s", volState, ind.PSY10Pct, psyStance),
		fmt.Sprintf("RSI %.0f·MACD %s 조합으로 모멘텀 체크", ind.RSI14, macdState),
	}

	upActions := []string{
		"1) 추세 우상향 시 눌림 구간을 분할매수하고 상단 밴드 접근 시 익절 구간을 나눕니다.",
		"2) 거래량 급증 구간에서 돌파/가속 여부를 확인해 추가 비중 조절을 검토합니다.",
		"3) 밴드 하단 근접 시 손절·헤지 조건을 사전에 명시하세요.",
	}
	downActions := []string{
		"1) 주요 이동평균 이탈 시 반등 구간에서 비중 축소를 우선 고려합니다.",
		"2) RSI 과매도 해소 전까지 추격 매수를 자제하고 단계적 진입을 설계하세요.",
		"3) 밴드 하단·최근 저점 부근에서는 손절선을 짧게 설정합니다.",
	}
	actions := downActions
	if trendBias == "우상향" {
		actions = upActions
	}

	return models.Narrative{
		Summary:    summary,
		RiskLabel:  riskLabel,
		QuickNotes: quickNotes,
		Actions:    actions,
		Alerts:     Alerts(ind, band),
		Source:     models.SourceRule,
	}
}

// RiskLabel classifies the risk regime from volatility and drawdown.
func RiskLabel(ind models.IndicatorSnapshot) string {
	switch {
	case ind.HV20Pct > 45 || ind.MDDPct < -25:
		return models.RiskHigh
	case ind.HV20Pct > 25:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

// Alerts emits the fixed-priority alert list, capped at five entries.
func Alerts(ind models.IndicatorSnapshot, band *models.BandSummary) []string {
	alerts := make([]string, 0, 8)

	if band != nil {
		upperGap := 0.0
		if ind.Close != 0 {
			upperGap = (band.Upper/ind.Close - 1) * 100
		}
		lowerGap := 0.0
		if band.Lower != 0 {
			lowerGap = (ind.Close/band.Lower - 1) * 100
		}
		if upperGap < 6 {
			alerts = append(alerts, fmt.Sprintf("가격이 상단 밴드까지 %.1f%% 남았습니다. 돌파 시 추세 가속을 점검하세요.", upperGap))
		}
		if lowerGap < 6 {
			alerts = append(alerts, fmt.Sprintf("하단 밴드 이탈 시 %.1f%% 내외 손실 구간입니다. 손절·헤지 조건을 미리 명시하세요.", lowerGap))
		}
		spanPct := 0.0
		if band.Center != 0 {
			spanPct = (band.Upper - band.Lower) / band.Center * 100
		}
		alerts = append(alerts, fmt.Sprintf("예측 밴드 폭 %.1f%% → 변동성 대비 포지션 사이징을 보수적으로 잡으세요.", spanPct))
	}

	if ind.Momentum20Pct > 5 {
		alerts = append(alerts, "20일 모멘텀 +5% 이상으로 단기 상승 탄력이 있습니다. 수익 실현 구간을 단계별로 설정하세요.")
	} else if ind.Momentum20Pct < -5 {
		alerts = append(alerts, "단기 모멘텀이 음(-)전환되어 저점 재확인 가능성. 반등 시 손절·축소 기준을 점검하세요.")
	}

	if ind.HV20Pct > 45 {
		alerts = append(alerts, "극단적 변동성 구간입니다. 손익비 1:2 이상 확보 후 진입을 권고합니다.")
	}

	if ind.MACDHist > 0 && ind.MACDLine > ind.MACDSignal {
		alerts = append(alerts, "MACD 상향 전환으로 추세 우위. 단기 과열 여부를 RSI와 함께 확인하세요.")
	} else if ind.MACDHist < 0 && ind.MACDLine < ind.MACDSignal {
		alerts = append(alerts, "MACD 하향 전환으로 조정 가능성. 반등 신호(시그널 상향)를 기다리세요.")
	}

	if ind.RSI14 >= 70 {
		alerts = append(alerts, "RSI 70 이상으로 과매수 구간입니다. 분할 매도/헤지 전략을 고려하세요.")
	} else if ind.RSI14 <= 30 {
		alerts = append(alerts, "RSI 30 이하로 과매도 신호. 반등 시 분할 매수 타이밍을 탐색하세요.")
	}

	if ind.VolumeRatioPct > 40 {
		alerts = append(alerts, "거래량이 20일 평균 대비 크게 증가했습니다. 추세 가속 또는 뉴스 트리거를 확인하세요.")
	}

	if ind.VixLevel != nil && ind.VixChangePct != nil && *ind.VixChangePct > 5 {
		alerts = append(alerts, fmt.Sprintf("변동성지수 %.1f (▲%.1f%%) 변동성 경보 — 포지션 축소·헤지를 검토하세요.", *ind.VixLevel, *ind.VixChangePct))
	}

	if len(alerts) > 5 {
		alerts = alerts[:5]
	}
	return alerts
}

// grouped renders a value rounded to an integer with thousands separators.
func grouped(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
