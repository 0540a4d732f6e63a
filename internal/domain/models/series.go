package models

import (
	"math"
	"time"
)

// Candle represents one daily OHLCV bar from the price-history provider.
type Candle struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries is an ordered, gap-free daily series for one symbol.
// Timestamps are strictly increasing with no duplicates.
type PriceSeries struct {
	Symbol  string
	Candles []Candle
}

func (s PriceSeries) Len() int { return len(s.Candles) }

// LastDate returns the timestamp of the final bar, or the zero time when empty.
func (s PriceSeries) LastDate() time.Time {
	if len(s.Candles) == 0 {
		return time.Time{}
	}
	return s.Candles[len(s.Candles)-1].Time
}

// Closes projects the close column, dropping non-finite values.
func (s PriceSeries) Closes() []float64 {
	out := make([]float64, 0, len(s.Candles))
	for _, c := range s.Candles {
		if math.IsNaN(c.Close) || math.IsInf(c.Close, 0) {
			continue
		}
		out = append(out, c.Close)
	}
	return out
}

// SymbolInfo is one entry of the injected symbol catalog.
type SymbolInfo struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
