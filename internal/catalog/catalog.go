package catalog

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strings"

	"StockInsight/internal/domain/models"
	"StockInsight/internal/domain/repository"
)

// DefaultLimit caps search results when the caller passes no positive limit.
const DefaultLimit = 20

// Catalog is an in-memory symbol directory loaded once at startup from CSV
// files (symbol,name per row). Lookups are read-only afterwards.
type Catalog struct {
	entries []models.SymbolInfo
}

// Load reads every CSV file into one catalog. Files carry an optional
// header row, which is detected and skipped.
func Load(paths ...string) (*Catalog, error) {
	c := &Catalog{}
	for _, path := range paths {
		if err := c.loadFile(path); err != nil {
			return nil, fmt.Errorf("load catalog %s: %w", path, err)
		}
	}
	sort.Slice(c.entries, func(i, j int) bool {
		return c.entries[i].Symbol < c.entries[j].Symbol
	})
	return c, nil
}

func (c *Catalog) loadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return err
	}

	for i, row := range rows {
		if len(row) < 2 {
			continue
		}
		symbol := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if symbol == "" {
			continue
		}
		if i == 0 && strings.EqualFold(symbol, "symbol") {
			continue
		}
		c.entries = append(c.entries, models.SymbolInfo{Symbol: symbol, Name: name})
	}
	return nil
}

// Len reports the number of loaded entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Search matches the query case-insensitively against symbol and name.
// Symbol-prefix matches rank before the rest.
func (c *Catalog) Search(query string, limit int) []models.SymbolInfo {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var prefix, other []models.SymbolInfo
	for _, e := range c.entries {
		sym := strings.ToLower(e.Symbol)
		name := strings.ToLower(e.Name)
		switch {
		case strings.HasPrefix(sym, q):
			prefix = append(prefix, e)
		case strings.Contains(sym, q) || strings.Contains(name, q):
			other = append(other, e)
		}
	}

	out := append(prefix, other...)
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

var _ repository.SymbolCatalog = (*Catalog)(nil)
