package wave

import (
	"io"
	"math"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/rng"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

// proceduralTables has no authored waves, so every wave resolves
// procedurally.
func proceduralTables() *Tables {
	return &Tables{
		Weights: map[string]map[SizeClass]float64{
			WeightsLegacy:   {SizeLarge: 0.5, SizeMedium: 0.3, SizeSmall: 0.2},
			WeightsBalanced: {SizeLarge: 0.34, SizeMedium: 0.33, SizeSmall: 0.33},
		},
	}
}

func baseResolverConfig() ResolverConfig {
	return ResolverConfig{
		BaseCount:    4,
		GrowthFactor: 1.3,
		MaxCount:     40,
		BossInterval: 5,
		WeightTable:  WeightsLegacy,
		Boss: BossSpec{
			Type:         TypeBoss,
			Entrance:     "top",
			SafeDistance: 30,
			EntryPadding: 10,
			Minions:      []TypeTag{TypeDrone, TypeHunter},
		},
		Support: []SupportSpec{
			{Type: TypeDrone, StartWave: 3, Baseline: 1, Scaling: 0.5, WeightMultiplier: 1},
			{Type: TypeHunter, StartWave: 6, Baseline: 1, Scaling: 0.25, WeightMultiplier: 1},
		},
	}
}

func TestGrowthCurve(t *testing.T) {
	r := NewResolver(baseResolverConfig(), proceduralTables(), testLogger())

	if got := r.primaryCount(1); got != 4 {
		t.Errorf("wave 1 primary count = %d, want 4", got)
	}
	if got := r.primaryCount(5); got != 11 {
		t.Errorf("wave 5 primary count = %d, want floor(4*1.3^4)=11", got)
	}
}

func TestGrowthCap(t *testing.T) {
	cfg := baseResolverConfig()
	cfg.MaxCount = 8
	r := NewResolver(cfg, proceduralTables(), testLogger())
	if got := r.primaryCount(20); got != 8 {
		t.Errorf("capped count = %d, want 8", got)
	}
}

func TestZeroBaseCountYieldsEmptyPrimary(t *testing.T) {
	cfg := baseResolverConfig()
	cfg.BaseCount = 0
	cfg.Support = nil
	r := NewResolver(cfg, proceduralTables(), testLogger())

	d := r.Resolve(2)
	if len(d.Groups) != 0 {
		t.Errorf("groups = %v, want empty", d.Groups)
	}
	if d.Total() != 0 {
		t.Errorf("total = %d, want 0", d.Total())
	}
}

func TestBossCadence(t *testing.T) {
	r := NewResolver(baseResolverConfig(), proceduralTables(), testLogger())
	for wave := 1; wave <= 15; wave++ {
		d := r.Resolve(wave)
		wantBoss := wave%5 == 0
		if d.BossWave != wantBoss {
			t.Errorf("wave %d: BossWave = %v, want %v", wave, d.BossWave, wantBoss)
		}
		if wantBoss {
			if d.Boss == nil || d.Boss.Count != 1 {
				t.Errorf("wave %d: missing boss spec", wave)
			}
			for _, g := range d.Groups {
				if g.Type == TypeAsteroid {
					t.Errorf("wave %d: boss wave contains primary roster", wave)
				}
			}
		}
	}
}

func TestDescriptorTotalMatchesGroupSum(t *testing.T) {
	r := NewResolver(baseResolverConfig(), proceduralTables(), testLogger())
	for wave := 1; wave <= 20; wave++ {
		d := r.Resolve(wave)
		sum := 0
		for _, g := range d.Groups {
			sum += g.Count
		}
		boss := 0
		if d.Boss != nil {
			boss = d.Boss.Count
		}
		if boss != 0 && boss != 1 {
			t.Errorf("wave %d: boss count = %d", wave, boss)
		}
		if d.Total() != sum+boss {
			t.Errorf("wave %d: Total() = %d, want %d", wave, d.Total(), sum+boss)
		}
	}
}

func TestSupportTypeGating(t *testing.T) {
	r := NewResolver(baseResolverConfig(), proceduralTables(), testLogger())

	hasType := func(d *Descriptor, tag TypeTag) bool {
		for _, g := range d.Groups {
			if g.Type == tag {
				return true
			}
		}
		return false
	}

	if hasType(r.Resolve(2), TypeDrone) {
		t.Error("drones present before their start wave")
	}
	if !hasType(r.Resolve(3), TypeDrone) {
		t.Error("drones absent on their start wave")
	}
	if hasType(r.Resolve(4), TypeHunter) {
		t.Error("hunters present before their start wave")
	}
	if !hasType(r.Resolve(6), TypeHunter) {
		t.Error("hunters absent on their start wave")
	}
}

func TestSupportScaling(t *testing.T) {
	cfg := baseResolverConfig()
	cfg.Support = []SupportSpec{
		{Type: TypeDrone, StartWave: 3, Baseline: 1, Scaling: 0.5, WeightMultiplier: 1},
	}
	r := NewResolver(cfg, proceduralTables(), testLogger())

	count := func(wave int) int {
		for _, g := range r.Resolve(wave).Groups {
			if g.Type == TypeDrone {
				return g.Count
			}
		}
		return 0
	}

	// baseline + progression*scaling: 1, 1.5, 2 for waves 3, 4, 6
	// (wave 5 is a boss wave but drones are whitelisted minions).
	if got := count(3); got != 1 {
		t.Errorf("wave 3 drones = %d, want 1", got)
	}
	if got := count(4); got != 1 {
		t.Errorf("wave 4 drones = %d, want floor(1.5)=1", got)
	}
	if got := count(6); got != 2 {
		t.Errorf("wave 6 drones = %d, want floor(2.5)=2", got)
	}
}

func TestBossMinionWhitelist(t *testing.T) {
	cfg := baseResolverConfig()
	cfg.Boss.Minions = []TypeTag{TypeDrone}
	cfg.Support = []SupportSpec{
		{Type: TypeDrone, StartWave: 1, Baseline: 2, Scaling: 0, WeightMultiplier: 1},
		{Type: TypeHunter, StartWave: 1, Baseline: 2, Scaling: 0, WeightMultiplier: 1},
	}
	r := NewResolver(cfg, proceduralTables(), testLogger())

	d := r.Resolve(5)
	for _, g := range d.Groups {
		if g.Type == TypeHunter {
			t.Error("hunter support present despite whitelist")
		}
	}
}

func TestAuthoredWavesPreferred(t *testing.T) {
	r := NewResolver(baseResolverConfig(), DefaultTables(), testLogger())
	d := r.Resolve(1)
	if d.Meta.Generator != "authored" {
		t.Fatalf("generator = %q, want authored", d.Meta.Generator)
	}
	if len(d.Groups) != 1 || d.Groups[0].Count != 3 || d.Groups[0].Size != SizeLarge {
		t.Errorf("authored wave 1 groups = %+v", d.Groups)
	}
}

func TestDrawSizeDistribution(t *testing.T) {
	weights := map[SizeClass]float64{SizeLarge: 0.5, SizeMedium: 0.3, SizeSmall: 0.2}
	stream := rng.NewScope(42, "variants")

	const draws = 10000
	freq := make(map[SizeClass]int)
	for i := 0; i < draws; i++ {
		freq[DrawSize(stream, weights)]++
	}

	for size, w := range weights {
		observed := float64(freq[size]) / draws
		if math.Abs(observed-w) > 0.05 {
			t.Errorf("size %s: observed %.3f, configured %.2f", size, observed, w)
		}
	}
}

func TestDrawSizeZeroWeightsFallsBack(t *testing.T) {
	stream := rng.NewScope(1, "")
	weights := map[SizeClass]float64{SizeLarge: 0, SizeMedium: 0, SizeSmall: 0}
	want := sizeOrder[len(sizeOrder)-1]
	for i := 0; i < 10; i++ {
		if got := DrawSize(stream, weights); got != want {
			t.Fatalf("zero-sum draw = %q, want %q", got, want)
		}
	}
	if got := DrawSize(stream, nil); got != want {
		t.Fatalf("nil weights draw = %q, want %q", got, want)
	}
}
