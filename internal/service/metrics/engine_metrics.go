package metrics

import (
    "sync"

    "github.com/prometheus/client_golang/prometheus"
)

var (
    once sync.Once

    EngineLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{
            Namespace: "stockinsight",
            Subsystem: "engine",
            Name:      "latency_seconds",
            Help:      "Latency of engine endpoints",
            Buckets:   prometheus.DefBuckets,
        },
        []string{"endpoint"},
    )

    EngineErrors = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "stockinsight",
            Subsystem: "engine",
            Name:      "errors_total",
            Help:      "Errors by engine endpoint",
        },
        []string{"endpoint"},
    )

    CacheHits = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "stockinsight",
            Subsystem: "engine",
            Name:      "cache_hits_total",
            Help:      "Response cache hits by endpoint",
        },
        []string{"endpoint"},
    )

    LLMBriefings = prometheus.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "stockinsight",
            Subsystem: "llm",
            Name:      "briefings_total",
            Help:      "LLM briefing outcomes by status (ok, fallback)",
        },
        []string{"status"},
    )
)

func Register() {
    once.Do(func() {
        prometheus.MustRegister(EngineLatency, EngineErrors, CacheHits, LLMBriefings)
    })
}
