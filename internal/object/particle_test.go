package object

import (
	"testing"
	"unicode"

	"github.com/fgferre/roguefield/internal/rng"
)

type recordingSpawner struct {
	spawned []Object
}

func (r *recordingSpawner) Spawn(obj Object) {
	r.spawned = append(r.spawned, obj)
}

func (r *recordingSpawner) particles(t *testing.T) []*Particle {
	t.Helper()
	out := make([]*Particle, 0, len(r.spawned))
	for _, obj := range r.spawned {
		p, ok := obj.(*Particle)
		if !ok {
			t.Fatalf("spawned %T, want *Particle", obj)
		}
		out = append(out, p)
	}
	return out
}

func TestExplosionSymbolsAreGraphic(t *testing.T) {
	for _, set := range [][]rune{explosionSymbols, thrustSymbols} {
		for _, sym := range set {
			if sym == unicode.ReplacementChar || !unicode.IsGraphic(sym) {
				t.Errorf("symbol %q (U+%04X) is not printable", sym, sym)
			}
		}
	}
}

func TestExplosionIsDeterministic(t *testing.T) {
	burst := func() []*Particle {
		spawner := &recordingSpawner{}
		SpawnExplosion(10, 20, 8, 25.0, 0.5, rng.NewScope(42, "effects"), spawner)
		return spawner.particles(t)
	}

	a, b := burst(), burst()
	if len(a) != 8 || len(b) != 8 {
		t.Fatalf("burst sizes %d, %d, want 8", len(a), len(b))
	}
	for i := range a {
		if a[i].VX != b[i].VX || a[i].VY != b[i].VY ||
			a[i].Lifetime != b[i].Lifetime || a[i].Symbol != b[i].Symbol {
			t.Fatalf("particle %d differs between identically seeded bursts", i)
		}
	}
}

func TestExplosionWithoutStreamStillSpawns(t *testing.T) {
	spawner := &recordingSpawner{}
	SpawnExplosion(0, 0, 5, 10.0, 0.3, nil, spawner)
	if got := len(spawner.spawned); got != 5 {
		t.Fatalf("spawned %d particles, want 5", got)
	}
}

func TestThrustCountWithinRange(t *testing.T) {
	stream := rng.NewScope(7, "effects")
	for i := 0; i < 50; i++ {
		spawner := &recordingSpawner{}
		SpawnThrust(0, 0, 1.0, stream, spawner)
		if n := len(spawner.spawned); n < 1 || n > 2 {
			t.Fatalf("thrust burst of %d particles, want 1 or 2", n)
		}
	}
}
