package game

import (
	"testing"

	"github.com/fgferre/roguefield/internal/object"
	"github.com/fgferre/roguefield/internal/rng"
	"github.com/fgferre/roguefield/internal/wave"
)

func testWorld() *WorldState {
	w := NewWorldState()
	w.World = object.Screen{Width: WorldWidth, Height: WorldHeight, CenterX: WorldWidth / 2, CenterY: WorldHeight / 2}
	w.Screen = w.World
	w.InitGrids()
	return w
}

func asteroidRequest(waveIndex, index int) wave.SpawnRequest {
	return wave.SpawnRequest{
		Type:       wave.TypeAsteroid,
		Size:       wave.SizeLarge,
		Pos:        wave.Vec{X: 10, Y: 10},
		SpawnIndex: index,
		WaveIndex:  waveIndex,
		Stream:     rng.NewScope(7, "test"),
	}
}

func TestRegistryCountsSpawnsPerWave(t *testing.T) {
	world := testWorld()
	reg := newWorldRegistry(world)

	for i := 0; i < 3; i++ {
		h, err := reg.Acquire(wave.TypeAsteroid, asteroidRequest(1, i))
		if err != nil {
			t.Fatalf("acquire: %v", err)
		}
		if err := reg.Register(h); err != nil {
			t.Fatalf("register: %v", err)
		}
	}
	h, _ := reg.Acquire(wave.TypeDrone, wave.SpawnRequest{Type: wave.TypeDrone, WaveIndex: 1})
	if err := reg.Register(h); err != nil {
		t.Fatalf("register drone: %v", err)
	}

	if got := reg.Live(1); got != 4 {
		t.Errorf("live = %d, want 4", got)
	}
	if got := reg.Spawned(1, false); got != 4 {
		t.Errorf("spawned raw = %d, want 4", got)
	}
	if got := reg.Spawned(1, true); got != 3 {
		t.Errorf("spawned asteroids = %d, want 3", got)
	}
	if got := len(world.Objects); got != 4 {
		t.Errorf("world objects = %d, want 4", got)
	}
}

func TestRegisterUnknownHandleFails(t *testing.T) {
	reg := newWorldRegistry(testWorld())
	if err := reg.Register(99); err == nil {
		t.Fatal("expected error for unknown handle")
	}
}

func TestAcquireRejectsUnknownType(t *testing.T) {
	reg := newWorldRegistry(testWorld())
	if _, err := reg.Acquire("dragon", wave.SpawnRequest{Type: "dragon", WaveIndex: 1}); err == nil {
		t.Fatal("expected error for unknown enemy type")
	}
}

func TestFlushSpawnedReportsReinforcements(t *testing.T) {
	world := testWorld()

	var gotTag wave.TypeTag
	var gotCount int
	world.onReinforce = func(tag wave.TypeTag, n int) {
		gotTag = tag
		gotCount += n
	}

	// A fragment asteroid and a boss minion arrive through the spawn queue.
	world.Spawn(object.NewAsteroid(5, 5, object.AsteroidMedium, -1, 1, 2, rng.NewScope(1, "frag")))
	world.Spawn(object.NewDrone(6, 6, 1, 2))
	world.FlushSpawned()

	if gotCount != 1 {
		t.Fatalf("reinforcements = %d, want 1 (fragments must not be reported)", gotCount)
	}
	if gotTag != wave.TypeDrone {
		t.Errorf("reinforcement tag = %q, want drone", gotTag)
	}
	if got := world.liveByWave[2]; got != 2 {
		t.Errorf("live = %d, want 2", got)
	}
	if got := world.spawnedByWave[2]; got != 2 {
		t.Errorf("spawned = %d, want 2", got)
	}
	if got := world.astByWave[2]; got != 1 {
		t.Errorf("asteroid spawned = %d, want 1", got)
	}
}

func TestRemoveObjectDecrementsLiveOnly(t *testing.T) {
	world := testWorld()
	reg := newWorldRegistry(world)

	h, _ := reg.Acquire(wave.TypeAsteroid, asteroidRequest(3, 0))
	if err := reg.Register(h); err != nil {
		t.Fatalf("register: %v", err)
	}
	world.RemoveObject(world.Objects[0])

	if got := reg.Live(3); got != 0 {
		t.Errorf("live = %d, want 0", got)
	}
	if got := reg.Spawned(3, false); got != 1 {
		t.Errorf("spawned = %d, want 1 after removal", got)
	}
}

func TestBossTrackedByWave(t *testing.T) {
	world := testWorld()
	reg := newWorldRegistry(world)

	h, err := reg.Acquire(wave.TypeBoss, wave.SpawnRequest{
		Type:      wave.TypeBoss,
		Pos:       wave.Vec{X: 200, Y: 20},
		WaveIndex: 5,
		Boss:      true,
		Minions:   []wave.TypeTag{wave.TypeDrone},
		Stream:    rng.NewScope(5, "boss"),
	})
	if err != nil {
		t.Fatalf("acquire boss: %v", err)
	}
	if err := reg.Register(h); err != nil {
		t.Fatalf("register boss: %v", err)
	}

	b := world.BossOfWave(5)
	if b == nil {
		t.Fatal("boss not tracked")
	}
	world.RemoveObject(b)
	if world.BossOfWave(5) != nil {
		t.Error("boss still tracked after removal")
	}
}
