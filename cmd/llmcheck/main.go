package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"StockInsight/internal/domain/models"
	"StockInsight/internal/services/narrative"
	"StockInsight/pkg/logger"
)

// llmcheck sends one synthetic briefing through the configured
// chat-completion model and prints the result, so an operator can verify
// the key, base URL and model before enabling enrichment in production.
func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Parse()

	_ = godotenv.Load()

	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY is not set")
	}

	l, err := logger.New(&logger.Config{Level: "info", Format: "console", Output: "stderr"})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	temperature := 0.0
	if v := os.Getenv("OPENAI_TEMPERATURE"); v != "" {
		fmt.Sscanf(v, "%f", &temperature)
	}

	w := narrative.NewLLMWriter(narrative.LLMConfig{
		APIKey:      apiKey,
		Model:       os.Getenv("OPENAI_MODEL"),
		BaseURL:     os.Getenv("OPENAI_BASE_URL"),
		Temperature: temperature,
		Timeout:     *timeout,
	}, l)

	ind := sampleSnapshot()
	rule := narrative.Compose(ind, nil)

	start := time.Now()
	got, err := w.Rewrite(context.Background(), ind, nil, rule)
	if err != nil {
		log.Fatalf("llm check failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
	}

	out, _ := json.MarshalIndent(got, "", "  ")
	fmt.Println(string(out))
	fmt.Printf("ok: model=%s latency=%.0fms\n", got.Model, got.LatencyMS)
}

func sampleSnapshot() models.IndicatorSnapshot {
	return models.IndicatorSnapshot{
		Close:          182.4,
		ChangeRate:     0.012,
		SMA20:          178.9,
		SMA60:          171.2,
		Momentum20Pct:  0.045,
		HV20Pct:        22.8,
		ATR14:          3.1,
		MDDPct:         -8.4,
		BollUpper:      188.2,
		BollLower:      169.6,
		MACDLine:       1.42,
		MACDSignal:     1.10,
		MACDHist:       0.32,
		RSI14:          61.5,
		VolumeLast:     4.1e7,
		VolumeAvg20:    3.6e7,
		VolumeRatioPct: 13.9,
		PSY10Pct:       60,
	}
}
