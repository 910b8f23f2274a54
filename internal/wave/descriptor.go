// Package wave implements the deterministic wave-scheduling and
// spawn-placement engine: per-wave composition, placement geometry, the
// frame-stepped progression state machine, and accounting reconciliation.
//
// The package never draws anything and never resolves collisions; it only
// decides what should exist and where it should be born. Entities are
// handed to an external Registry, and destruction events flow back in.
package wave

import (
	"errors"

	"github.com/fgferre/roguefield/internal/event"
	"github.com/fgferre/roguefield/internal/physics"
	"github.com/fgferre/roguefield/internal/rng"
)

var (
	// ErrWaveInProgress is returned when a wave start is requested while
	// one is still running.
	ErrWaveInProgress = errors.New("wave already in progress")

	// ErrRegistryUnavailable signals that the entity registry rejected or
	// could not service a spawn request.
	ErrRegistryUnavailable = errors.New("entity registry unavailable")
)

// TypeTag identifies an enemy archetype.
type TypeTag string

// Enemy archetypes known to the scheduler.
const (
	TypeAsteroid TypeTag = "asteroid"
	TypeDrone    TypeTag = "drone"
	TypeHunter   TypeTag = "hunter"
	TypeBoss     TypeTag = "boss"
)

// SizeClass is a size bucket for the primary roster. The empty value means
// "resolve at spawn time" via the weighted draw.
type SizeClass string

const (
	SizeUnset  SizeClass = ""
	SizeSmall  SizeClass = "small"
	SizeMedium SizeClass = "medium"
	SizeLarge  SizeClass = "large"
)

// sizeOrder fixes the iteration order for weighted draws so that map
// ordering never influences the outcome.
var sizeOrder = []SizeClass{SizeLarge, SizeMedium, SizeSmall}

// Vec is a 2D position in world units.
type Vec struct {
	X float64
	Y float64
}

// Bounds describes the playable arena.
type Bounds struct {
	Width  float64
	Height float64
}

// Rect returns the arena as a rectangle anchored at the origin.
func (b Bounds) Rect() physics.Rect {
	return physics.Rect{MaxX: b.Width, MaxY: b.Height}
}

// Center returns the arena center point.
func (b Bounds) Center() Vec {
	return Vec{X: b.Width / 2, Y: b.Height / 2}
}

// EnemyGroupSpec describes one homogeneous group within a wave.
type EnemyGroupSpec struct {
	Type  TypeTag
	Count int

	// Size is the authored size hint. SizeUnset defers the choice to a
	// per-spawn weighted draw.
	Size SizeClass

	// Overrides carries optional numeric tuning (speed, fire rate, ...)
	// forwarded opaquely to the registry.
	Overrides map[string]float64
}

// BossSpec describes the single boss of a boss wave.
type BossSpec struct {
	Type         TypeTag
	Count        int // 0 or 1
	Entrance     string
	SafeDistance float64
	EntryPadding float64
	Minions      []TypeTag
}

// Metadata records how a descriptor was produced, for diagnostics and
// replay analysis.
type Metadata struct {
	Generator string
	Weights   map[SizeClass]float64
}

// Descriptor is the resolved composition of one wave. It is built once at
// wave start and never mutated afterwards; the next wave gets a fresh one.
type Descriptor struct {
	Index    int
	Groups   []EnemyGroupSpec
	Boss     *BossSpec
	BossWave bool
	Meta     Metadata
}

// Total returns the descriptor's entity count: the sum of all group counts
// plus the boss count.
func (d *Descriptor) Total() int {
	n := 0
	for _, g := range d.Groups {
		n += g.Count
	}
	if d.Boss != nil {
		n += d.Boss.Count
	}
	return n
}

// SpawnRequest is one fully resolved spawn: a concrete coordinate, the
// deterministic ordinal within its wave, and the random stream forked for
// this specific spawn (used by the registry for per-entity variation).
type SpawnRequest struct {
	Type       TypeTag
	Size       SizeClass
	Pos        Vec
	SpawnIndex int
	WaveIndex  int
	Boss       bool
	Minions    []TypeTag // Reinforcement types a boss may release
	Overrides  map[string]float64
	Stream     *rng.Scope
}

// DestroyedEvent is delivered by the registry when a hostile entity dies.
// FragmentCount is the number of child entities the destruction produced;
// they count against the same wave's totals.
type DestroyedEvent struct {
	Type          TypeTag
	FragmentCount int
	WaveIndex     int
}

// Handle is a unique entity identifier issued by the registry. The
// scheduler treats it as opaque.
type Handle uint64

// Registry is the external entity registry the scheduler drives.
type Registry interface {
	// Acquire builds an entity for the request without making it live.
	Acquire(tag TypeTag, req SpawnRequest) (Handle, error)

	// Register makes a previously acquired entity live.
	Register(h Handle) error

	// Live reports how many of the wave's entities are still alive.
	Live(waveIndex int) int

	// Spawned reports how many entities the registry has registered for
	// the wave, optionally restricted to the asteroid subset.
	Spawned(waveIndex int, asteroidsOnly bool) int
}

// PlayerProvider supplies the player position snapshot. The second return
// is false when no player is present (dead, not yet joined).
type PlayerProvider interface {
	Snapshot() (Vec, bool)
}

// BoundsProvider supplies the arena dimensions.
type BoundsProvider interface {
	Bounds() Bounds
}

// Emitter publishes wave lifecycle notifications.
type Emitter interface {
	Emit(name event.Name, payload any)
}
