package wave

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultTablesParse(t *testing.T) {
	tab := DefaultTables()
	if len(tab.Authored) == 0 {
		t.Fatal("no authored waves in embedded tables")
	}
	if _, ok := tab.Lookup(1); !ok {
		t.Error("wave 1 missing from authored tables")
	}
	if tab.SizeWeights(WeightsLegacy) == nil {
		t.Error("legacy weight table missing")
	}
	if tab.SizeWeights(WeightsBalanced) == nil {
		t.Error("balanced weight table missing")
	}
}

func TestLookupMiss(t *testing.T) {
	tab := DefaultTables()
	if _, ok := tab.Lookup(1000); ok {
		t.Error("Lookup(1000) unexpectedly hit")
	}
}

func TestLoadTablesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waves.yaml")
	yaml := "authored:\n  - index: 1\n    groups:\n      - type: asteroid\n        count: 2\n        size: large\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	tab, err := LoadTables(path)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}
	w, ok := tab.Lookup(1)
	if !ok {
		t.Fatal("wave 1 missing from loaded tables")
	}
	if len(w.Groups) != 1 || w.Groups[0].Count != 2 || w.Groups[0].Size != SizeLarge {
		t.Errorf("loaded wave 1 = %+v, want one group of 2 large", w)
	}
}

func TestLoadTablesErrors(t *testing.T) {
	if _, err := LoadTables(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("authored:\n  - index: 0\n    groups: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTables(path); err == nil {
		t.Error("expected validation error for invalid tables")
	}
}

func TestTableValidation(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"negative count", "authored:\n  - index: 1\n    groups:\n      - type: asteroid\n        count: -1\n"},
		{"unknown type", "authored:\n  - index: 1\n    groups:\n      - type: dragon\n        count: 1\n"},
		{"unknown size", "authored:\n  - index: 1\n    groups:\n      - type: asteroid\n        count: 1\n        size: giant\n"},
		{"duplicate index", "authored:\n  - index: 1\n    groups: []\n  - index: 1\n    groups: []\n"},
		{"zero index", "authored:\n  - index: 0\n    groups: []\n"},
		{"negative weight", "weights:\n  legacy:\n    large: -0.5\n"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := parseTables([]byte(c.yaml)); err == nil {
				t.Errorf("expected validation error for %s", c.name)
			}
		})
	}
}
