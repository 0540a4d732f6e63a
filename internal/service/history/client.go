package history

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"StockInsight/internal/domain/errs"
	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
	pkghttp "StockInsight/pkg/http"
	"StockInsight/pkg/logger"
)

// rangeMonths maps the public range tokens to calendar months of history.
var rangeMonths = map[string]int{
	"6m": 6,
	"1y": 12,
	"2y": 24,
	"5y": 60,
}

// Client fetches daily OHLCV candles from a Finnhub-compatible REST API.
type Client struct {
	baseURL        string
	apiKey         string
	volIndexSymbol string
	http           *pkghttp.Client
	log            *logger.Logger
	now            func() time.Time
}

func New(baseURL, apiKey, volIndexSymbol string, timeout time.Duration, log *logger.Logger) repository.HistoryProvider {
	return &Client{
		baseURL:        baseURL,
		apiKey:         apiKey,
		volIndexSymbol: volIndexSymbol,
		http:           pkghttp.NewClient(pkghttp.WithTimeout(timeout)),
		log:            log,
		now:            time.Now,
	}
}

// candleResponse is the provider's stock/candle payload: parallel columns
// plus a status string ("ok" or "no_data").
type candleResponse struct {
	Status  string    `json:"s"`
	Times   []int64   `json:"t"`
	Opens   []float64 `json:"o"`
	Highs   []float64 `json:"h"`
	Lows    []float64 `json:"l"`
	Closes  []float64 `json:"c"`
	Volumes []float64 `json:"v"`
}

type quoteResponse struct {
	Current   float64 `json:"c"`
	ChangePct float64 `json:"dp"`
}

// FetchHistory retrieves the daily series covering the requested range,
// ending today.
func (c *Client) FetchHistory(ctx context.Context, symbol string, rng string) (models.PriceSeries, error) {
	months, ok := rangeMonths[rng]
	if !ok {
		return models.PriceSeries{}, errs.InvalidParameter("unknown range %q", rng)
	}

	to := c.now()
	from := to.AddDate(0, -months, 0)

	var resp candleResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/stock/candle",
		QueryParams: map[string][]string{
			"symbol":     {symbol},
			"resolution": {"D"},
			"from":       {strconv.FormatInt(from.Unix(), 10)},
			"to":         {strconv.FormatInt(to.Unix(), 10)},
			"token":      {c.apiKey},
		},
	}, &resp)
	if err != nil {
		return models.PriceSeries{}, errs.DataUnavailable("fetch candles for %s", symbol).WithErr(err)
	}

	if resp.Status == "no_data" || len(resp.Times) == 0 {
		return models.PriceSeries{}, errs.DataUnavailable("no candle data for symbol %q over %s", symbol, rng)
	}
	if resp.Status != "ok" {
		return models.PriceSeries{}, errs.DataUnavailable("candle fetch for %s returned status %q", symbol, resp.Status)
	}
	if len(resp.Closes) != len(resp.Times) {
		return models.PriceSeries{}, errs.DataUnavailable("malformed candle payload for %s", symbol).
			WithErr(fmt.Errorf("%d timestamps vs %d closes", len(resp.Times), len(resp.Closes)))
	}

	candles := make([]models.Candle, 0, len(resp.Times))
	for i, ts := range resp.Times {
		candle := models.Candle{Time: time.Unix(ts, 0).UTC(), Close: resp.Closes[i]}
		if i < len(resp.Opens) {
			candle.Open = resp.Opens[i]
		}
		if i < len(resp.Highs) {
			candle.High = resp.Highs[i]
		}
		if i < len(resp.Lows) {
			candle.Low = resp.Lows[i]
		}
		if i < len(resp.Volumes) {
			candle.Volume = resp.Volumes[i]
		}
		candles = append(candles, candle)
	}

	return models.PriceSeries{Symbol: symbol, Candles: candles}, nil
}

// VolIndexQuote reads the configured volatility-index quote. Best-effort:
// failures log and report ok=false without surfacing an error.
func (c *Client) VolIndexQuote(ctx context.Context) (level float64, changePct float64, ok bool) {
	if c.volIndexSymbol == "" {
		return 0, 0, false
	}

	var resp quoteResponse
	err := c.http.SendAndParse(ctx, &pkghttp.RequestOptions{
		Method: pkghttp.MethodGet,
		URL:    c.baseURL + "/quote",
		QueryParams: map[string][]string{
			"symbol": {c.volIndexSymbol},
			"token":  {c.apiKey},
		},
	}, &resp)
	if err != nil {
		c.log.Warn("volatility index quote unavailable", logger.Error(err))
		return 0, 0, false
	}
	if resp.Current == 0 {
		return 0, 0, false
	}
	return resp.Current, resp.ChangePct, true
}
