package rng

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestManagersWithSameRootAgree(t *testing.T) {
	a := NewManager(1234, testLogger())
	b := NewManager(1234, testLogger())
	for i := 0; i < 32; i++ {
		if av, bv := a.Spawn().Float(), b.Spawn().Float(); av != bv {
			t.Fatalf("draw %d: %v != %v", i, av, bv)
		}
	}
}

func TestStandingScopesAreDistinct(t *testing.T) {
	m := NewManager(5, testLogger())
	seeds := map[int64]string{
		m.Spawn().Seed():     "spawn",
		m.Variants().Seed():  "variants",
		m.Fragments().Seed(): "fragments",
	}
	if len(seeds) != 3 {
		t.Fatalf("standing scope seeds collide: %v", seeds)
	}
}

func TestResetAllRestoresInitialSequences(t *testing.T) {
	m := NewManager(99, testLogger())

	var first [8]float64
	for i := range first {
		first[i] = m.Spawn().Float()
	}
	m.Variants().Float()
	m.Fragments().Float()

	m.ResetAll()
	for i := range first {
		if got := m.Spawn().Float(); got != first[i] {
			t.Fatalf("draw %d after ResetAll: got %v, want %v", i, got, first[i])
		}
	}
}

func TestForkSubstitutesFallbackForInvalidScope(t *testing.T) {
	m := NewManager(1, testLogger())

	got := m.Fork(nil, "orphan")
	if got == nil {
		t.Fatal("Fork(nil) returned nil")
	}
	// The fallback must still be a working generator.
	v := got.Float()
	if v < 0 || v >= 1 {
		t.Fatalf("fallback scope drew %v, want [0,1)", v)
	}

	broken := &Scope{seed: 7, label: "broken"}
	if m.Fork(broken, "child") == nil {
		t.Fatal("Fork(broken) returned nil")
	}
}

func TestForkValidScopeMatchesDirectFork(t *testing.T) {
	m := NewManager(17, testLogger())
	want := NewScope(m.Spawn().Seed(), LabelSpawn).Fork("wave-2").Float()
	if got := m.Fork(m.Spawn(), "wave-2").Float(); got != want {
		t.Fatalf("manager fork drew %v, want %v", got, want)
	}
}
