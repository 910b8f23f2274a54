package wave

import "github.com/fgferre/roguefield/internal/rng"

// SpawnPolicy selects the primary-roster placement strategy and the size
// weight table. It is chosen once at construction; the director never
// re-branches on mode per call.
type SpawnPolicy interface {
	Name() string

	// PlacePrimary resolves a spawn position for a primary-roster entity.
	PlacePrimary(s *Solver, stream *rng.Scope) Vec

	// WeightTable names the size weight table used for variant draws.
	WeightTable() string

	// AsteroidOnlyCounters reports whether the asteroid-only counter view
	// is authoritative for wave completion.
	AsteroidOnlyCounters() bool
}

// LegacyEdgeSpawn reproduces the original placement behavior: plain edge
// spawns with no distance checks, the size table skewed toward large, and
// the asteroid-only counter view.
type LegacyEdgeSpawn struct{}

func (LegacyEdgeSpawn) Name() string { return "legacy-edge" }

func (LegacyEdgeSpawn) PlacePrimary(s *Solver, stream *rng.Scope) Vec {
	return s.EdgeSpawn(stream)
}

func (LegacyEdgeSpawn) WeightTable() string { return WeightsLegacy }

func (LegacyEdgeSpawn) AsteroidOnlyCounters() bool { return true }

// SafeDistanceSpawn is the modern mode: edge spawns rejected when too
// close to the player, the balanced size table, and raw counters covering
// every enemy type.
type SafeDistanceSpawn struct{}

func (SafeDistanceSpawn) Name() string { return "safe-distance" }

func (SafeDistanceSpawn) PlacePrimary(s *Solver, stream *rng.Scope) Vec {
	return s.SafeEdgeSpawn(stream)
}

func (SafeDistanceSpawn) WeightTable() string { return WeightsBalanced }

func (SafeDistanceSpawn) AsteroidOnlyCounters() bool { return false }

var (
	_ SpawnPolicy = LegacyEdgeSpawn{}
	_ SpawnPolicy = SafeDistanceSpawn{}
)

// PolicyByName maps a configuration string to a policy, defaulting to
// SafeDistanceSpawn for unknown names.
func PolicyByName(name string) SpawnPolicy {
	if name == "legacy" || name == "legacy-edge" {
		return LegacyEdgeSpawn{}
	}
	return SafeDistanceSpawn{}
}
