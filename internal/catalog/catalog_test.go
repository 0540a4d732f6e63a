package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestLoadSkipsHeaderAndBlankRows(t *testing.T) {
	path := writeCSV(t, "symbols.csv", "symbol,name\nAAPL,Apple Inc.\n,missing\nMSFT,Microsoft Corporation\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
}

func TestLoadMultipleFiles(t *testing.T) {
	us := writeCSV(t, "us.csv", "symbol,name\nAAPL,Apple Inc.\n")
	kr := writeCSV(t, "kr.csv", "symbol,name\n005930.KS,삼성전자\n")
	c, err := Load(us, kr)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if c.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", c.Len())
	}
	if got := c.Search("삼성", 10); len(got) != 1 || got[0].Symbol != "005930.KS" {
		t.Fatalf("korean name search failed: %v", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("does/not/exist.csv"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestSearchCaseInsensitiveAndRanked(t *testing.T) {
	path := writeCSV(t, "symbols.csv",
		"symbol,name\nAAPL,Apple Inc.\nAPA,APA Corporation\nZAAP,Zaap Holdings\nMSFT,Microsoft Corporation\n")
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	got := c.Search("aap", 10)
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %v", got)
	}
	// Symbol-prefix match ranks first.
	if got[0].Symbol != "AAPL" {
		t.Fatalf("prefix match should rank first: %v", got)
	}
	if got[1].Symbol != "ZAAP" {
		t.Fatalf("substring match should follow: %v", got)
	}

	if got := c.Search("microsoft", 10); len(got) != 1 || got[0].Symbol != "MSFT" {
		t.Fatalf("name search failed: %v", got)
	}
}

func TestSearchLimitAndEmptyQuery(t *testing.T) {
	content := "symbol,name\n"
	for _, s := range []string{"AA", "AB", "AC", "AD", "AE"} {
		content += s + "," + s + " Corp\n"
	}
	c, err := Load(writeCSV(t, "symbols.csv", content))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if got := c.Search("a", 3); len(got) != 3 {
		t.Fatalf("limit not applied: %v", got)
	}
	if got := c.Search("   ", 10); got != nil {
		t.Fatalf("blank query must return nothing: %v", got)
	}
}
