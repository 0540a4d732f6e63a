package narrative

import (
	"context"

	"StockInsight/internal/domain/models"
	"StockInsight/internal/service/metrics"
	"StockInsight/pkg/logger"
)

// Synthesizer produces the final narrative: always computes the rule-based
// commentary, then lets the LLM writer polish it when one is configured.
// LLM failures are absorbed so the briefing never degrades below the rule
// output.
type Synthesizer struct {
	llm *LLMWriter
	log *logger.Logger
}

func NewSynthesizer(llm *LLMWriter, log *logger.Logger) *Synthesizer {
	return &Synthesizer{llm: llm, log: log}
}

func (s *Synthesizer) Synthesize(ctx context.Context, ind models.IndicatorSnapshot, _ models.ScoreSet, band *models.BandSummary) (models.Narrative, error) {
	rule := Compose(ind, band)
	if s.llm == nil {
		return rule, nil
	}

	enriched, err := s.llm.Rewrite(ctx, ind, band, rule)
	if err != nil {
		metrics.LLMBriefings.WithLabelValues("fallback").Inc()
		s.log.Warn("llm briefing failed, keeping rule narrative", logger.Error(err))
		return rule, nil
	}
	metrics.LLMBriefings.WithLabelValues("ok").Inc()
	return enriched, nil
}
