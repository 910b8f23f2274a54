package game

import (
	"time"

	"github.com/fgferre/roguefield/internal/object"
	"github.com/fgferre/roguefield/internal/physics"
	"github.com/fgferre/roguefield/internal/rng"
	"github.com/fgferre/roguefield/internal/wave"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// WorldState holds shared game state (objects, world bounds, timing).
// This is managed by the Server and shared across all clients via snapshots.
type WorldState struct {
	Objects []object.Object
	toSpawn []object.Object // Objects to add after current update cycle
	Screen  object.Screen   // Used for update context (world bounds)
	World   object.Screen   // World dimensions (total game area)
	Delta   time.Duration   // Frame delta time

	// Per-wave hostile bookkeeping, maintained incrementally as
	// entities enter and leave the world.
	liveByWave    map[int]int
	spawnedByWave map[int]int
	astByWave     map[int]int
	bossByWave    map[int]*object.Boss

	// onReinforce is invoked for non-asteroid hostiles arriving through
	// the spawn queue (boss minions). Asteroids arriving that way are
	// fragments and are already accounted for by their parent's
	// destruction report.
	onReinforce func(tag wave.TypeTag, n int)

	// effects drives particle randomness, derived from the run seed so
	// the whole frame sequence replays from one number.
	effects *rng.Scope

	// Reusable caches for collision detection (avoids allocations)
	projectileCache []*object.Projectile
	asteroidCache   []*object.Asteroid
	hostileCache    []object.Hostile

	// Spatial grids for broad-phase collision detection (reused each frame)
	asteroidGrid   *physics.SpatialGrid
	projectileGrid *physics.SpatialGrid
}

// WorldSnapshot is an immutable snapshot of the world state for rendering.
type WorldSnapshot struct {
	Objects     []object.Object
	UserObjects []*object.User
	Players     int
	World       object.Screen
	Delta       time.Duration
	Wave        wave.State      // Progress of the current wave, for the HUD
	TopScores   []TopScoreEntry // Top N scores for leaderboard display
}

// collisionGridCellSize is the cell size for the spatial hash grids.
// Must be >= the largest collision distance (boss radius 7.0 + large asteroid 5.0).
const collisionGridCellSize = 12.0

// NewWorldState creates a new initialized world state.
func NewWorldState() *WorldState {
	return &WorldState{
		Objects:       []object.Object{},
		liveByWave:    make(map[int]int),
		spawnedByWave: make(map[int]int),
		astByWave:     make(map[int]int),
		bossByWave:    make(map[int]*object.Boss),
	}
}

// InitGrids creates the spatial grids for broad-phase collision detection.
// Must be called after World dimensions are set.
func (w *WorldState) InitGrids() {
	worldW := float64(w.World.Width)
	worldH := float64(w.World.Height)
	w.asteroidGrid = physics.NewSpatialGrid(worldW, worldH, collisionGridCellSize)
	w.projectileGrid = physics.NewSpatialGrid(worldW, worldH, collisionGridCellSize)
}

// noteHostileAdded updates per-wave counts for a hostile entering the world.
func (w *WorldState) noteHostileAdded(h object.Hostile) {
	idx := h.Wave()
	w.liveByWave[idx]++
	w.spawnedByWave[idx]++
	if h.Tag() == object.TagAsteroid {
		w.astByWave[idx]++
	}
	if b, ok := h.(*object.Boss); ok {
		w.bossByWave[idx] = b
	}
}

// noteHostileRemoved updates per-wave counts for a hostile leaving the world.
func (w *WorldState) noteHostileRemoved(h object.Hostile) {
	idx := h.Wave()
	if w.liveByWave[idx] > 0 {
		w.liveByWave[idx]--
	}
	if _, ok := h.(*object.Boss); ok {
		delete(w.bossByWave, idx)
	}
}

// AddObject adds an object to the game world.
func (w *WorldState) AddObject(obj object.Object) {
	w.Objects = append(w.Objects, obj)
	if h, ok := obj.(object.Hostile); ok {
		w.noteHostileAdded(h)
	}
}

// RemoveObject decrements hostile counts for a removed object.
// Call this when removing an object that was tracked via AddObject.
func (w *WorldState) RemoveObject(obj object.Object) {
	if h, ok := obj.(object.Hostile); ok {
		w.noteHostileRemoved(h)
	}
}

// Spawn queues an object to be added after the current update cycle.
// Implements object.Spawner interface.
func (w *WorldState) Spawn(obj object.Object) {
	w.toSpawn = append(w.toSpawn, obj)
}

// FlushSpawned adds all queued objects to the game and clears the queue.
// Non-asteroid hostiles arriving here were introduced mid-wave by another
// entity and are reported as reinforcements.
func (w *WorldState) FlushSpawned() {
	for _, obj := range w.toSpawn {
		h, ok := obj.(object.Hostile)
		if !ok {
			continue
		}
		w.noteHostileAdded(h)
		if h.Tag() != object.TagAsteroid && w.onReinforce != nil {
			w.onReinforce(wave.TypeTag(h.Tag()), 1)
		}
	}
	w.Objects = append(w.Objects, w.toSpawn...)
	w.toSpawn = w.toSpawn[:0]
}

// BossOfWave returns the live boss for a wave, or nil.
func (w *WorldState) BossOfWave(idx int) *object.Boss {
	return w.bossByWave[idx]
}
