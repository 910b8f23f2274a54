package game

import (
	"fmt"

	"github.com/fgferre/roguefield/internal/object"
	"github.com/fgferre/roguefield/internal/wave"
)

// worldRegistry adapts the world state to the wave engine. Acquire builds
// an entity from a spawn request without adding it; Register commits it to
// the world. It also provides the player and bounds snapshots placement
// needs.
type worldRegistry struct {
	world   *WorldState
	next    wave.Handle
	pending map[wave.Handle]object.Object
}

var (
	_ wave.Registry       = (*worldRegistry)(nil)
	_ wave.PlayerProvider = (*worldRegistry)(nil)
	_ wave.BoundsProvider = (*worldRegistry)(nil)
)

func newWorldRegistry(world *WorldState) *worldRegistry {
	return &worldRegistry{
		world:   world,
		pending: make(map[wave.Handle]object.Object),
	}
}

func sizeClassToAsteroid(size wave.SizeClass) object.AsteroidSize {
	switch size {
	case wave.SizeLarge:
		return object.AsteroidLarge
	case wave.SizeMedium:
		return object.AsteroidMedium
	default:
		return object.AsteroidSmall
	}
}

func override(m map[string]float64, key string, fallback float64) float64 {
	if v, ok := m[key]; ok && v > 0 {
		return v
	}
	return fallback
}

func minionTags(minions []wave.TypeTag) []string {
	tags := make([]string, len(minions))
	for i, m := range minions {
		tags[i] = string(m)
	}
	return tags
}

func (r *worldRegistry) Acquire(tag wave.TypeTag, req wave.SpawnRequest) (wave.Handle, error) {
	speed := override(req.Overrides, "speed", 1)

	var obj object.Object
	switch tag {
	case wave.TypeAsteroid:
		size := sizeClassToAsteroid(req.Size)
		obj = object.NewAsteroid(req.Pos.X, req.Pos.Y, size, -1, speed, req.WaveIndex, req.Stream)
	case wave.TypeDrone:
		obj = object.NewDrone(req.Pos.X, req.Pos.Y, speed, req.WaveIndex)
	case wave.TypeHunter:
		fire := override(req.Overrides, "fire-rate", 1)
		obj = object.NewHunter(req.Pos.X, req.Pos.Y, speed, fire, req.WaveIndex)
	case wave.TypeBoss:
		obj = object.NewBoss(req.Pos.X, req.Pos.Y, req.WaveIndex, minionTags(req.Minions), req.Stream)
	default:
		return 0, fmt.Errorf("unknown enemy type %q", tag)
	}

	r.next++
	r.pending[r.next] = obj
	return r.next, nil
}

func (r *worldRegistry) Register(h wave.Handle) error {
	obj, ok := r.pending[h]
	if !ok {
		return fmt.Errorf("unknown spawn handle %d", h)
	}
	delete(r.pending, h)
	r.world.AddObject(obj)
	return nil
}

func (r *worldRegistry) Live(waveIndex int) int {
	return r.world.liveByWave[waveIndex]
}

func (r *worldRegistry) Spawned(waveIndex int, asteroidsOnly bool) int {
	if asteroidsOnly {
		return r.world.astByWave[waveIndex]
	}
	return r.world.spawnedByWave[waveIndex]
}

// Snapshot returns a living player's position for placement safety checks.
func (r *worldRegistry) Snapshot() (wave.Vec, bool) {
	u := object.NearestUser(r.world.Objects, float64(r.world.World.CenterX), float64(r.world.World.CenterY))
	if u == nil {
		return wave.Vec{}, false
	}
	return wave.Vec{X: u.X, Y: u.Y}, true
}

// Bounds returns the arena dimensions.
func (r *worldRegistry) Bounds() wave.Bounds {
	return wave.Bounds{Width: float64(r.world.World.Width), Height: float64(r.world.World.Height)}
}
