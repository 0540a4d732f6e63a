package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
	icache "StockInsight/internal/service/cache"
	"StockInsight/internal/service/metrics"
	"StockInsight/internal/service/ratelimit"
	"StockInsight/internal/usecase"
	xhttp "StockInsight/pkg/http"
	xlogger "StockInsight/pkg/logger"
)

// Response cache TTLs. Forecast and insight refresh on the same cadence;
// accuracy runs are expensive and change only when new bars land.
const (
	forecastCacheTTL = 60 * time.Second
	insightCacheTTL  = 60 * time.Second
	accuracyCacheTTL = 5 * time.Minute
)

// EngineHandler serves the forecast, insight, accuracy and symbol-search
// endpoints.
type EngineHandler struct {
	logger   *xlogger.Logger
	forecast *usecase.ForecastUsecase
	insight  *usecase.InsightBuilder
	accuracy *usecase.AccuracyUsecase
	catalog  repository.SymbolCatalog
	cache    icache.BytesCache
	rl       *ratelimit.Limiter
}

func NewEngineHandler(logger *xlogger.Logger, forecast *usecase.ForecastUsecase, insight *usecase.InsightBuilder, accuracy *usecase.AccuracyUsecase, catalog repository.SymbolCatalog) *EngineHandler {
	metrics.Register()
	return &EngineHandler{
		logger:   logger,
		forecast: forecast,
		insight:  insight,
		accuracy: accuracy,
		catalog:  catalog,
		rl:       ratelimit.New(),
	}
}

// SetCache injects a response cache.
func (h *EngineHandler) SetCache(c icache.BytesCache) { h.cache = c }

func (h *EngineHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/forecast", h.Forecast)
	g.GET("/insight", h.Insight)
	g.GET("/accuracy", h.Accuracy)
	g.GET("/symbols/search", h.SearchSymbols)
}

func (h *EngineHandler) Forecast(c echo.Context) error {
	const endpoint = "forecast"
	start := time.Now()
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.ForecastRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		return rateLimitedResponse(c)
	}

	key := cacheKey(endpoint, req.Symbol, req.Horizon, req.Confidence)
	if hit := h.serveCached(c, endpoint, key); hit {
		return nil
	}

	res, err := h.forecast.Forecast(c.Request().Context(), *req)
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("forecast usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	return h.respondAndCache(c, key, forecastCacheTTL, res)
}

func (h *EngineHandler) Insight(c echo.Context) error {
	const endpoint = "insight"
	start := time.Now()
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.InsightRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 5, 2) {
		return rateLimitedResponse(c)
	}

	key := cacheKey(endpoint, req.Symbol, req.Range)
	if hit := h.serveCached(c, endpoint, key); hit {
		return nil
	}

	res, err := h.insight.Build(c.Request().Context(), *req)
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("insight usecase error", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	return h.respondAndCache(c, key, insightCacheTTL, res)
}

func (h *EngineHandler) Accuracy(c echo.Context) error {
	const endpoint = "accuracy"
	start := time.Now()
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.AccuracyRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	// Backtests refit repeatedly; throttle harder than the serving paths.
	if !h.rl.Allow(c.RealIP()+":"+endpoint, 3, 1) {
		return rateLimitedResponse(c)
	}

	key := cacheKey(endpoint, req.Symbol, req.Mode, req.Holdout, req.Confidence, req.Scale, req.Band)
	if hit := h.serveCached(c, endpoint, key); hit {
		return nil
	}

	var (
		res interface{}
		err error
	)
	if req.Mode == "walkforward" {
		res, err = h.accuracy.WalkForward(c.Request().Context(), *req)
	} else {
		res, err = h.accuracy.Holdout(c.Request().Context(), *req)
	}
	if err != nil {
		metrics.EngineErrors.WithLabelValues(endpoint).Inc()
		h.logger.Error("accuracy usecase error",
			xlogger.String("symbol", req.Symbol), xlogger.String("mode", req.Mode), xlogger.Error(err))
		return h.domainErrorResponse(c, err)
	}
	return h.respondAndCache(c, key, accuracyCacheTTL, res)
}

func (h *EngineHandler) SearchSymbols(c echo.Context) error {
	const endpoint = "symbols"
	start := time.Now()
	defer func() { metrics.EngineLatency.WithLabelValues(endpoint).Observe(time.Since(start).Seconds()) }()

	req := &models.SymbolSearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	limit := xhttp.ParseIntDefault(c.QueryParam("limit"), 0)
	rows := h.catalog.Search(req.Query, limit)
	if rows == nil {
		rows = []models.SymbolInfo{}
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// serveCached replays a cached response envelope. Returns true on a hit.
func (h *EngineHandler) serveCached(c echo.Context, endpoint, key string) bool {
	if h.cache == nil {
		return false
	}
	b, ok, err := h.cache.GetBytes(key)
	if err != nil {
		h.logger.Warn("response cache get error", xlogger.Error(err))
		return false
	}
	if !ok {
		return false
	}
	metrics.CacheHits.WithLabelValues(endpoint).Inc()
	if err := c.JSONBlob(http.StatusOK, b); err != nil {
		h.logger.Warn("cached response write error", xlogger.Error(err))
	}
	return true
}

func (h *EngineHandler) respondAndCache(c echo.Context, key string, ttl time.Duration, data interface{}) error {
	if h.cache != nil {
		envelope := xhttp.APIResponse{
			Status:  http.StatusOK,
			Message: http.StatusText(http.StatusOK),
			Data:    data,
		}
		if b, err := json.Marshal(envelope); err == nil {
			if err := h.cache.SetBytes(key, b, ttl); err != nil {
				h.logger.Warn("response cache set error", xlogger.Error(err))
			}
		}
	}
	return xhttp.SuccessResponse(c, data)
}

// domainErrorResponse maps the engine error taxonomy onto HTTP statuses.
func (h *EngineHandler) domainErrorResponse(c echo.Context, err error) error {
	kind, ok := errs.KindOf(err)
	if !ok {
		return xhttp.AppErrorResponse(c, err)
	}

	var appErr *xhttp.AppError
	switch kind {
	case errs.KindInvalidParameter:
		appErr = xhttp.BadRequestError(err.Error())
	case errs.KindDataUnavailable:
		appErr = xhttp.NotFoundError(err.Error())
	case errs.KindInsufficientData:
		appErr = xhttp.NewAppError("ERR_INSUFFICIENT_DATA", "", err.Error(), http.StatusUnprocessableEntity)
	default:
		appErr = xhttp.InternalError(err.Error())
	}
	return xhttp.AppErrorResponse(c, appErr)
}

func rateLimitedResponse(c echo.Context) error {
	return xhttp.DataResponse(c, http.StatusTooManyRequests, "rate limited")
}

func cacheKey(parts ...interface{}) string {
	b, _ := json.Marshal(parts)
	return "resp:" + string(b)
}
