package wave

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/rng"
)

// SupportSpec configures one support enemy type introduced mid-run.
type SupportSpec struct {
	Type TypeTag

	// StartWave is the first wave the type appears on.
	StartWave int

	// Count scales as Baseline + progression*Scaling where
	// progression = max(0, waveIndex - StartWave).
	Baseline float64
	Scaling  float64

	// WeightMultiplier biases the final count without a hard cap.
	WeightMultiplier float64

	Overrides map[string]float64
}

// ResolverConfig holds the composition tunables.
type ResolverConfig struct {
	// Primary roster growth: floor(BaseCount * GrowthFactor^(n-1)),
	// capped at MaxCount.
	BaseCount    int
	GrowthFactor float64
	MaxCount     int

	// Every BossInterval-th wave is a boss wave. Zero disables boss waves.
	BossInterval int

	Support []SupportSpec
	Boss    BossSpec

	// WeightTable names the size weight table used for procedural draws.
	WeightTable string
}

// Resolver turns a wave index into a composition descriptor. Early waves
// come from the authored tables; later ones are generated procedurally.
type Resolver struct {
	cfg    ResolverConfig
	tables *Tables
	logger *log.Logger
}

// NewResolver creates a resolver. A nil tables argument uses the
// compiled-in defaults; a nil logger falls back to log.Default().
func NewResolver(cfg ResolverConfig, tables *Tables, logger *log.Logger) *Resolver {
	if tables == nil {
		tables = DefaultTables()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Resolver{cfg: cfg, tables: tables, logger: logger}
}

// Resolve produces the composition descriptor for a wave. The result is
// deterministic: no random draws happen here, sizes left unset are drawn
// per spawn from the variants scope.
func (r *Resolver) Resolve(waveIndex int) *Descriptor {
	if r.cfg.BossInterval > 0 && waveIndex > 0 && waveIndex%r.cfg.BossInterval == 0 {
		return r.resolveBoss(waveIndex)
	}
	if authored, ok := r.tables.Lookup(waveIndex); ok {
		return r.resolveAuthored(waveIndex, authored)
	}
	return r.resolveProcedural(waveIndex)
}

func (r *Resolver) resolveAuthored(waveIndex int, authored *AuthoredWave) *Descriptor {
	groups := make([]EnemyGroupSpec, 0, len(authored.Groups))
	for _, g := range authored.Groups {
		groups = append(groups, EnemyGroupSpec{Type: g.Type, Count: g.Count, Size: g.Size})
	}
	return &Descriptor{
		Index:  waveIndex,
		Groups: groups,
		Meta:   Metadata{Generator: "authored"},
	}
}

func (r *Resolver) resolveProcedural(waveIndex int) *Descriptor {
	count := r.primaryCount(waveIndex)

	var groups []EnemyGroupSpec
	if count > 0 {
		groups = append(groups, EnemyGroupSpec{
			Type:  TypeAsteroid,
			Count: count,
			Size:  SizeUnset,
		})
	}
	groups = append(groups, r.supportGroups(waveIndex, nil)...)

	return &Descriptor{
		Index:  waveIndex,
		Groups: groups,
		Meta: Metadata{
			Generator: "procedural",
			Weights:   r.tables.SizeWeights(r.cfg.WeightTable),
		},
	}
}

func (r *Resolver) resolveBoss(waveIndex int) *Descriptor {
	boss := r.cfg.Boss
	boss.Count = 1

	// Boss waves carry a reduced support list and skip the size draw.
	groups := r.supportGroups(waveIndex, boss.Minions)

	return &Descriptor{
		Index:    waveIndex,
		Groups:   groups,
		Boss:     &boss,
		BossWave: true,
		Meta:     Metadata{Generator: "boss"},
	}
}

func (r *Resolver) primaryCount(waveIndex int) int {
	if r.cfg.BaseCount <= 0 {
		return 0
	}
	n := float64(r.cfg.BaseCount) * math.Pow(r.cfg.GrowthFactor, float64(waveIndex-1))
	count := int(math.Floor(n))
	if r.cfg.MaxCount > 0 && count > r.cfg.MaxCount {
		count = r.cfg.MaxCount
	}
	return count
}

// supportGroups builds the support roster for a wave. A non-nil allowed
// list restricts the roster to those types (boss minion whitelist).
func (r *Resolver) supportGroups(waveIndex int, allowed []TypeTag) []EnemyGroupSpec {
	var groups []EnemyGroupSpec
	for _, s := range r.cfg.Support {
		if waveIndex < s.StartWave {
			continue
		}
		if allowed != nil && !containsTag(allowed, s.Type) {
			continue
		}
		progression := float64(waveIndex - s.StartWave)
		count := s.Baseline + progression*s.Scaling
		if s.WeightMultiplier > 0 {
			count *= s.WeightMultiplier
		}
		n := int(math.Floor(count))
		if n <= 0 {
			continue
		}
		groups = append(groups, EnemyGroupSpec{
			Type:      s.Type,
			Count:     n,
			Overrides: s.Overrides,
		})
	}
	return groups
}

func containsTag(tags []TypeTag, t TypeTag) bool {
	for _, tag := range tags {
		if tag == t {
			return true
		}
	}
	return false
}

// DrawSize performs a weighted categorical draw over the size buckets.
// Buckets are scanned in a fixed order so map iteration never influences
// the result. A table summing to zero deterministically yields the last
// bucket in scan order instead of silently no-opping.
func DrawSize(stream *rng.Scope, weights map[SizeClass]float64) SizeClass {
	total := 0.0
	for _, size := range sizeOrder {
		total += weights[size]
	}
	if total <= 0 {
		return sizeOrder[len(sizeOrder)-1]
	}
	roll := stream.Float() * total
	acc := 0.0
	for _, size := range sizeOrder {
		acc += weights[size]
		if roll < acc {
			return size
		}
	}
	return sizeOrder[len(sizeOrder)-1]
}
