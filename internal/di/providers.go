package di

import (
	"fmt"
	"time"

	"StockInsight/internal/catalog"
	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
	domsvc "StockInsight/internal/domain/service"
	"StockInsight/internal/handler/api"
	icache "StockInsight/internal/service/cache"
	"StockInsight/internal/service/history"
	"StockInsight/internal/services/forecast"
	"StockInsight/internal/services/narrative"
	"StockInsight/internal/usecase"
	"StockInsight/pkg/config"
	xhttp "StockInsight/pkg/http"
	applogger "StockInsight/pkg/logger"
	"StockInsight/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
}

// ProvideHistoryProvider creates the candle REST client.
func ProvideHistoryProvider(cfg *config.Config, l *applogger.Logger) repository.HistoryProvider {
	timeout := cfg.Provider.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return history.New(cfg.Provider.BaseURL, cfg.Provider.APIKey, cfg.Provider.VolIndexSymbol, timeout, l)
}

// ProvideOrder resolves the model order, defaulting to ARIMA(1,1,1).
func ProvideOrder(cfg *config.Config) models.ARIMAOrder {
	order := models.ARIMAOrder{P: cfg.Forecast.Order.P, D: cfg.Forecast.Order.D, Q: cfg.Forecast.Order.Q}
	if order.Sum() == 0 {
		order = models.ARIMAOrder{P: 1, D: 1, Q: 1}
	}
	return order
}

// ProvideForecaster creates the ARIMA engine.
func ProvideForecaster() domsvc.Forecaster {
	return forecast.NewEngine()
}

// ProvideEvaluator creates the backtest evaluator.
func ProvideEvaluator() domsvc.AccuracyEvaluator {
	return forecast.NewEvaluator()
}

// ProvideNarrative creates the narrative synthesizer with optional LLM
// enrichment.
func ProvideNarrative(cfg *config.Config, l *applogger.Logger) domsvc.NarrativeProvider {
	llm := narrative.NewLLMWriter(narrative.LLMConfig{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, l)
	return narrative.NewSynthesizer(llm, l)
}

// ProvideCatalog loads the symbol directory from the configured CSV files.
func ProvideCatalog(cfg *config.Config) (repository.SymbolCatalog, error) {
	c, err := catalog.Load(cfg.Catalog.Files...)
	if err != nil {
		return nil, fmt.Errorf("symbol catalog: %w", err)
	}
	return c, nil
}

// ProvideCache picks Redis when configured, otherwise in-process TTL cache.
func ProvideCache(cfg *config.Config) icache.BytesCache {
	if cfg.Cache.Redis.Enabled {
		return icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	}
	return icache.NewTTLCache()
}

// ProvideForecastUsecase creates the forecast use case.
func ProvideForecastUsecase(provider repository.HistoryProvider, engine domsvc.Forecaster, order models.ARIMAOrder, cfg *config.Config) *usecase.ForecastUsecase {
	return usecase.NewForecastUsecase(provider, engine, order, cfg.Forecast.FitRange)
}

// ProvideInsightBuilder creates the insight use case.
func ProvideInsightBuilder(provider repository.HistoryProvider, engine domsvc.Forecaster, narr domsvc.NarrativeProvider, order models.ARIMAOrder, l *applogger.Logger) *usecase.InsightBuilder {
	return usecase.NewInsightBuilder(provider, engine, narr, order, l)
}

// ProvideAccuracyUsecase creates the backtest use case.
func ProvideAccuracyUsecase(provider repository.HistoryProvider, evaluator domsvc.AccuracyEvaluator, order models.ARIMAOrder, cfg *config.Config) *usecase.AccuracyUsecase {
	return usecase.NewAccuracyUsecase(provider, evaluator, order, cfg.Forecast.EvalRange)
}

// ProvideHandler creates the HTTP handler with the response cache attached.
func ProvideHandler(
	l *applogger.Logger,
	fc *usecase.ForecastUsecase,
	ib *usecase.InsightBuilder,
	ac *usecase.AccuracyUsecase,
	cat repository.SymbolCatalog,
	cache icache.BytesCache,
) xhttp.Handler {
	h := api.NewEngineHandler(l, fc, ib, ac, cat)
	h.SetCache(cache)
	return h
}

// ProvideApp creates the application server.
func ProvideApp(cfg *config.Config, l *applogger.Logger, handler xhttp.Handler) *server.App {
	return server.New(cfg, l, handler)
}
