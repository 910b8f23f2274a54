package game

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/fgferre/roguefield/internal/wave"
)

func TestWaveTablesDefault(t *testing.T) {
	t.Setenv("WAVE_TABLES", "")
	tab := WaveTables(testLogger())
	if _, ok := tab.Lookup(1); !ok {
		t.Error("default tables missing wave 1")
	}
}

func TestWaveTablesOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "waves.yaml")
	yaml := "authored:\n  - index: 1\n    groups:\n      - type: asteroid\n        count: 9\n        size: small\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("WAVE_TABLES", path)

	tab := WaveTables(testLogger())
	w, ok := tab.Lookup(1)
	if !ok {
		t.Fatal("override tables missing wave 1")
	}
	if len(w.Groups) != 1 || w.Groups[0].Count != 9 {
		t.Errorf("override wave 1 = %+v, want one group of 9", w)
	}
}

func TestWaveTablesBadOverrideFallsBack(t *testing.T) {
	t.Setenv("WAVE_TABLES", filepath.Join(t.TempDir(), "missing.yaml"))
	tab := WaveTables(testLogger())
	if _, ok := tab.Lookup(1); !ok {
		t.Error("fallback tables missing wave 1")
	}
}

func TestWaveDiagnosticsFlag(t *testing.T) {
	t.Setenv("WAVE_DIAGNOSTICS", "")
	if WaveDiagnostics() {
		t.Error("diagnostics on by default, want off")
	}
	t.Setenv("WAVE_DIAGNOSTICS", "1")
	if !WaveDiagnostics() {
		t.Error("diagnostics off with WAVE_DIAGNOSTICS=1")
	}

	s := NewSeededServer(1, wave.PolicyByName("safe-distance"), testLogger())
	if !s.diagnostics {
		t.Error("server ignored WAVE_DIAGNOSTICS=1")
	}
}

func TestReconcileTolerance(t *testing.T) {
	t.Setenv("WAVE_DRIFT_TOLERANCE", "")
	if got := ReconcileTolerance(); got != ReconcileDrift {
		t.Errorf("default tolerance = %d, want %d", got, ReconcileDrift)
	}
	t.Setenv("WAVE_DRIFT_TOLERANCE", "3")
	if got := ReconcileTolerance(); got != 3 {
		t.Errorf("tolerance = %d, want 3", got)
	}
}
