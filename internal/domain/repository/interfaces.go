package repository

import (
	"context"

	"StockInsight/internal/domain/models"
)

// HistoryProvider fetches historical daily OHLCV bars from the external
// time-series provider. An unknown symbol yields a DataUnavailable error,
// never a silent empty default.
type HistoryProvider interface {
	FetchHistory(ctx context.Context, symbol string, rng string) (models.PriceSeries, error)
	// VolIndexQuote returns the market volatility-index level and its
	// day-over-day change in percent. Best-effort: ok is false when the
	// proxy is unavailable, which must not fail the caller.
	VolIndexQuote(ctx context.Context) (level float64, changePct float64, ok bool)
}

// SymbolCatalog is the injected read-only symbol lookup used by the search
// endpoint. Implementations are loaded once at startup and never mutated.
type SymbolCatalog interface {
	Search(query string, limit int) []models.SymbolInfo
}
