package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"StockInsight/internal/domain/models"
	"StockInsight/pkg/logger"
)

const systemPrompt = "당신은 한국어로 투자 브리핑을 작성하는 금융 애널리스트입니다."

// LLMConfig configures the optional chat-completion enrichment.
type LLMConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}

func (c *LLMConfig) withDefaults() {
	if c.Model == "" {
		c.Model = openai.GPT4oMini
	}
	if c.BaseURL == "" {
		c.BaseURL = "https://api.openai.com/v1"
	}
	if c.Temperature == 0 {
		c.Temperature = 0.35
	}
	if c.Timeout == 0 {
		c.Timeout = 25 * time.Second
	}
}

// LLMWriter rewrites the rule-based commentary through a chat-completion
// model. Enabled only when an API key is configured.
type LLMWriter struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	log         *logger.Logger
}

// NewLLMWriter returns nil when no API key is configured, which disables
// the enrichment path entirely.
func NewLLMWriter(cfg LLMConfig, log *logger.Logger) *LLMWriter {
	if cfg.APIKey == "" {
		return nil
	}
	cfg.withDefaults()

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	clientCfg.BaseURL = cfg.BaseURL
	return &LLMWriter{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		timeout:     cfg.Timeout,
		log:         log,
	}
}

// briefPayload is the JSON shape the model is asked to return.
type briefPayload struct {
	Summary    string   `json:"summary"`
	QuickNotes []string `json:"quick_notes"`
	Actions    []string `json:"actions"`
	Alerts     []string `json:"alerts"`
}

// Rewrite asks the model to polish the rule narrative. Any failure returns
// an error so the caller can keep the rule output.
func (w *LLMWriter) Rewrite(ctx context.Context, ind models.IndicatorSnapshot, band *models.BandSummary, rule models.Narrative) (models.Narrative, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	start := time.Now()
	resp, err := w.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       w.model,
		Temperature: w.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(ind, band, rule)},
		},
	})
	if err != nil {
		return models.Narrative{}, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return models.Narrative{}, fmt.Errorf("chat completion returned no choices")
	}

	var parsed briefPayload
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return models.Narrative{}, fmt.Errorf("parse model response: %w", err)
	}

	// Field-level merge: keep the rule text wherever the model came back
	// empty, so a partial response never degrades the briefing.
	out := rule
	if parsed.Summary != "" {
		out.Summary = parsed.Summary
	}
	if len(parsed.QuickNotes) > 0 {
		out.QuickNotes = parsed.QuickNotes
	}
	if len(parsed.Actions) > 0 {
		out.Actions = parsed.Actions
	}
	if len(parsed.Alerts) > 0 {
		out.Alerts = parsed.Alerts
	}
	out.Source = models.SourceLLM
	out.Model = resp.Model
	if out.Model == "" {
		out.Model = w.model
	}
	out.LatencyMS = float64(time.Since(start).Microseconds()) / 1000

	return out, nil
}

func buildPrompt(ind models.IndicatorSnapshot, band *models.BandSummary, rule models.Narrative) string {
	indJSON, _ := json.Marshal(ind)

	bandText := "없음"
	if band != nil {
		bandText = fmt.Sprintf("%s | 상단 %.1f · 하단 %.1f · 중심 %.1f",
			band.HorizonLabel, band.Upper, band.Lower, band.Center)
	}

	var b strings.Builder
	b.WriteString(`당신은 한국어를 사용하는 퀀트 리서치 애널리스트입니다.
입력으로 제공된 주식 지표와 예측 밴드를 바탕으로, 화면에 바로 노출될 자연스러운
JSON 브리핑을 작성하세요. 기존 규칙 기반 문장들을 더 읽기 쉽게 다듬되, 지표 수치와
리스크 맥락을 그대로 반영해야 합니다.

요구사항:
- summary: 추세/모멘텀/변동성/거래량/밴드를 한 문장으로 연결 (UI 상단 브리핑에 표시)
- quick_notes: 핵심 인사이트 3~4개. 짧은 문장, 불릿으로 바로 노출
- actions: 매매 액션 가이드 3개. 번호 목록 형태로 바로 표시됨
- alerts: 모니터링 포인트 3~5개. 경고 문장 형태
- tone: 한국어, 전문적이되 간결하게, 숫자는 단위 없이 표현
- 반환 형식: 아래 JSON 스키마를 준수하고, 문자열 외 불필요한 설명은 넣지 않음

`)
	fmt.Fprintf(&b, "지표 데이터(JSON):\n%s\n\n", indJSON)
	fmt.Fprintf(&b, "예측 밴드 요약:\n%s\n\n", bandText)
	fmt.Fprintf(&b, "기존 규칙 기반 요약(참고용, 더 자연스럽게 재작성):\nsummary: %s\nquick_notes: %s\nactions: %s\nalerts: %s\n\n",
		rule.Summary,
		strings.Join(rule.QuickNotes, " / "),
		strings.Join(rule.Actions, " / "),
		strings.Join(rule.Alerts, " / "))
	b.WriteString(`JSON 스키마 예시:
{
  "summary": "리스크·밴드 브리핑 한 문장",
  "quick_notes": ["핵심 인사이트 1", "2", "3"],
  "actions": ["액션 가이드 1", "2", "3"],
  "alerts": ["알림 1", "알림 2", "알림 3"]
}`)
	return b.String()
}
