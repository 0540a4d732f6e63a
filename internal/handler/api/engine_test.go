package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"

	"StockInsight/internal/catalog"
	"StockInsight/internal/domain/models"
	"StockInsight/pkg/logger"
)

func testHandler(t *testing.T) *EngineHandler {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}

	path := filepath.Join(t.TempDir(), "symbols.csv")
	csv := "symbol,name\nAAPL,Apple Inc.\nAMZN,Amazon.com Inc.\nAMD,Advanced Micro Devices\nGOOG,Alphabet Inc.\n"
	if err := os.WriteFile(path, []byte(csv), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	cat, err := catalog.Load(path)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return NewEngineHandler(l, nil, nil, nil, cat)
}

func searchSymbols(t *testing.T, h *EngineHandler, target string) []models.SymbolInfo {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	if err := h.SearchSymbols(e.NewContext(req, rec)); err != nil {
		t.Fatalf("search handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Status int `json:"status"`
		Data   struct {
			Rows  []models.SymbolInfo `json:"rows"`
			Total int64               `json:"total"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return envelope.Data.Rows
}

func TestSearchSymbolsDefaultLimit(t *testing.T) {
	h := testHandler(t)
	rows := searchSymbols(t, h, "/api/symbols/search?q=a")
	if len(rows) != 4 {
		t.Fatalf("expected all 4 matches, got %v", rows)
	}
}

func TestSearchSymbolsLimitParam(t *testing.T) {
	h := testHandler(t)

	rows := searchSymbols(t, h, "/api/symbols/search?q=a&limit=2")
	if len(rows) != 2 {
		t.Fatalf("limit=2 not applied, got %v", rows)
	}

	// A malformed limit falls back to the catalog default.
	rows = searchSymbols(t, h, "/api/symbols/search?q=a&limit=abc")
	if len(rows) != 4 {
		t.Fatalf("invalid limit must fall back, got %v", rows)
	}
}
