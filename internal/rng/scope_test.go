package rng

import "testing"

func TestForkIsReproducible(t *testing.T) {
	spawn := NewScope(42, "spawn")
	f0 := spawn.Fork("edge-position").Float()

	spawn.Reset(42)
	if got := spawn.Fork("edge-position").Float(); got != f0 {
		t.Fatalf("refork after reset drew %v, want %v", got, f0)
	}
}

func TestForkIndependentOfParentDraws(t *testing.T) {
	a := NewScope(7, "spawn")
	want := a.Fork("wave-1").Float()

	b := NewScope(7, "spawn")
	for i := 0; i < 100; i++ {
		b.Float()
	}
	if got := b.Fork("wave-1").Float(); got != want {
		t.Fatalf("fork after 100 parent draws drew %v, want %v", got, want)
	}
}

func TestSiblingsAreIndependent(t *testing.T) {
	parent := NewScope(1, "")
	a := parent.Fork("a")
	b := parent.Fork("b")

	same := 0
	for i := 0; i < 16; i++ {
		if a.Float() == b.Float() {
			same++
		}
	}
	if same == 16 {
		t.Fatal("sibling scopes produced identical sequences")
	}
}

func TestSiblingDrawsDoNotInterfere(t *testing.T) {
	parent := NewScope(3, "")
	want := parent.Fork("a").Float()

	parent2 := NewScope(3, "")
	other := parent2.Fork("b")
	for i := 0; i < 50; i++ {
		other.Float()
	}
	if got := parent2.Fork("a").Float(); got != want {
		t.Fatalf("sibling draws shifted fork result: got %v, want %v", got, want)
	}
}

func TestIntInclusiveBounds(t *testing.T) {
	s := NewScope(9, "")
	seen := make(map[int]bool)
	for i := 0; i < 1000; i++ {
		v := s.Int(0, 3)
		if v < 0 || v > 3 {
			t.Fatalf("Int(0,3) = %d, out of range", v)
		}
		seen[v] = true
	}
	for v := 0; v <= 3; v++ {
		if !seen[v] {
			t.Errorf("Int(0,3) never produced %d in 1000 draws", v)
		}
	}
}

func TestDegenerateRanges(t *testing.T) {
	s := NewScope(1, "")
	if got := s.Int(5, 5); got != 5 {
		t.Errorf("Int(5,5) = %d, want 5", got)
	}
	if got := s.Int(5, 2); got != 5 {
		t.Errorf("Int(5,2) = %d, want 5", got)
	}
	if got := s.Range(3.5, 3.5); got != 3.5 {
		t.Errorf("Range(3.5,3.5) = %v, want 3.5", got)
	}
	if got := s.Range(2, 1); got != 2 {
		t.Errorf("Range(2,1) = %v, want 2", got)
	}
}

func TestRangeWithinBounds(t *testing.T) {
	s := NewScope(11, "")
	for i := 0; i < 1000; i++ {
		v := s.Range(-2, 6)
		if v < -2 || v >= 6 {
			t.Fatalf("Range(-2,6) = %v, out of range", v)
		}
	}
}

func TestLabelPaths(t *testing.T) {
	s := NewScope(1, "spawn")
	child := s.Fork("wave-3").Fork("spawn-index-0")
	if got := child.Label(); got != "spawn/wave-3/spawn-index-0" {
		t.Errorf("Label() = %q", got)
	}
	if got := child.ShortLabel(); got != "spawn-index-0" {
		t.Errorf("ShortLabel() = %q", got)
	}
}
