package wave

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fgferre/roguefield/internal/event"
	"github.com/fgferre/roguefield/internal/rng"
)

type fakeRegistry struct {
	next     Handle
	pending  map[Handle]SpawnRequest
	order    []SpawnRequest
	live     map[int]int
	spawnAll map[int]int
	spawnAst map[int]int
	failFor  map[TypeTag]bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{
		pending:  make(map[Handle]SpawnRequest),
		live:     make(map[int]int),
		spawnAll: make(map[int]int),
		spawnAst: make(map[int]int),
		failFor:  make(map[TypeTag]bool),
	}
}

func (r *fakeRegistry) Acquire(tag TypeTag, req SpawnRequest) (Handle, error) {
	if r.failFor[tag] {
		return 0, errors.New("acquire refused")
	}
	r.next++
	r.pending[r.next] = req
	return r.next, nil
}

func (r *fakeRegistry) Register(h Handle) error {
	req, ok := r.pending[h]
	if !ok {
		return errors.New("unknown handle")
	}
	delete(r.pending, h)
	r.order = append(r.order, req)
	r.live[req.WaveIndex]++
	r.spawnAll[req.WaveIndex]++
	if req.Type == TypeAsteroid {
		r.spawnAst[req.WaveIndex]++
	}
	return nil
}

func (r *fakeRegistry) Live(waveIndex int) int { return r.live[waveIndex] }

func (r *fakeRegistry) Spawned(waveIndex int, asteroidsOnly bool) int {
	if asteroidsOnly {
		return r.spawnAst[waveIndex]
	}
	return r.spawnAll[waveIndex]
}

// killAll destroys every live entity of the wave, fragment-free.
func (r *fakeRegistry) killAll(d *Director, waveIndex int) {
	for _, req := range r.order {
		if req.WaveIndex != waveIndex {
			continue
		}
		if r.live[waveIndex] == 0 {
			break
		}
		r.live[waveIndex]--
		d.OnEnemyDestroyed(DestroyedEvent{Type: req.Type, WaveIndex: waveIndex})
	}
}

func newTestDirector(seed int64, policy SpawnPolicy, mutate func(*ResolverConfig, *DirectorConfig)) (*Director, *fakeRegistry) {
	rcfg := baseResolverConfig()
	dcfg := DirectorConfig{CountdownSeconds: 3, SpawnsPerFrame: 2}
	if mutate != nil {
		mutate(&rcfg, &dcfg)
	}

	logger := testLogger()
	mgr := rng.NewManager(seed, logger)
	resolver := NewResolver(rcfg, proceduralTables(), logger)
	player := &stubPlayer{pos: Vec{X: 100, Y: 100}, ok: true}
	solver := NewSolver(testSolverConfig(), stubBounds{Bounds{Width: 200, Height: 200}}, player, logger)
	reg := newFakeRegistry()
	return NewDirector(dcfg, policy, mgr, resolver, solver, reg, event.NewBus(), logger), reg
}

func TestStartNextWaveRejectsWhileActive(t *testing.T) {
	d, _ := newTestDirector(1, SafeDistanceSpawn{}, nil)
	if !d.StartNextWave() {
		t.Fatal("first StartNextWave returned false")
	}
	if d.StartNextWave() {
		t.Fatal("second StartNextWave succeeded during an active wave")
	}
}

func TestNormalWaveSpawnsImmediately(t *testing.T) {
	d, reg := newTestDirector(2, SafeDistanceSpawn{}, nil)
	d.StartNextWave()

	st := d.State()
	if !st.Active || st.Phase != PhaseActive {
		t.Fatalf("phase = %v, want active", st.Phase)
	}
	if st.Spawned != st.Total || st.Spawned == 0 {
		t.Fatalf("spawned %d of %d, want full roster up front", st.Spawned, st.Total)
	}
	if got := reg.Spawned(1, false); got != st.Spawned {
		t.Fatalf("registry spawned %d, director %d", got, st.Spawned)
	}
}

func TestWaveCompletionEntersCountdown(t *testing.T) {
	d, reg := newTestDirector(3, SafeDistanceSpawn{}, nil)
	bus := event.NewBus()
	var completed []State
	bus.On(event.WaveComplete, func(p any) { completed = append(completed, p.(State)) })
	d.events = bus

	d.StartNextWave()
	reg.killAll(d, 1)

	st := d.State()
	if st.Active {
		t.Fatal("wave still active after all kills")
	}
	if st.Phase != PhaseCountdown || st.CountdownSeconds != 3 {
		t.Fatalf("phase %v countdown %v, want countdown 3s", st.Phase, st.CountdownSeconds)
	}
	if len(completed) != 1 || completed[0].WaveIndex != 1 {
		t.Fatalf("wave-complete events: %v", completed)
	}

	// Countdown expiry rolls into the next wave.
	for i := 0; i < 40; i++ {
		d.Update(0.1)
	}
	if st := d.State(); st.WaveIndex != 2 || !st.Active {
		t.Fatalf("after countdown: wave %d active %v, want wave 2 active", st.WaveIndex, st.Active)
	}
}

func TestCompletionWaitsForLiveEntities(t *testing.T) {
	d, reg := newTestDirector(4, SafeDistanceSpawn{}, nil)
	d.StartNextWave()

	// Report kills without draining the registry's live count.
	total := d.State().Total
	for i := 0; i < total; i++ {
		d.OnEnemyDestroyed(DestroyedEvent{Type: TypeAsteroid, WaveIndex: 1})
	}
	if st := d.State(); !st.Active {
		t.Fatal("wave completed while registry still reports live entities")
	}

	reg.live[1] = 0
	d.Update(0.016)
	if st := d.State(); st.Active {
		t.Fatal("wave not completed after registry drained")
	}
}

func TestFragmentAccountingIsAtomic(t *testing.T) {
	d, reg := newTestDirector(5, SafeDistanceSpawn{}, nil)
	d.StartNextWave()

	before := d.State()
	reg.live[1]-- // one asteroid dies, splitting in two
	d.OnEnemyDestroyed(DestroyedEvent{Type: TypeAsteroid, FragmentCount: 2, WaveIndex: 1})

	st := d.State()
	if st.Total != before.Total+2 {
		t.Errorf("total %d, want %d", st.Total, before.Total+2)
	}
	if st.Spawned != before.Spawned+2 {
		t.Errorf("spawned %d, want %d", st.Spawned, before.Spawned+2)
	}
	if st.Killed != 1 {
		t.Errorf("killed %d, want 1", st.Killed)
	}
	if st.Killed > st.Spawned || st.Spawned > st.Total {
		t.Errorf("invariant broken: killed %d spawned %d total %d", st.Killed, st.Spawned, st.Total)
	}
}

func TestReinforcementsExtendWave(t *testing.T) {
	d, reg := newTestDirector(5, SafeDistanceSpawn{}, nil)
	d.StartNextWave()

	before := d.State()
	reg.live[1] += 2
	d.OnReinforcement(TypeDrone, 2)

	st := d.State()
	if st.Total != before.Total+2 {
		t.Errorf("total %d, want %d", st.Total, before.Total+2)
	}
	if st.Spawned != before.Spawned+2 {
		t.Errorf("spawned %d, want %d", st.Spawned, before.Spawned+2)
	}

	reg.killAll(d, 1)
	if d.State().Phase == PhaseCountdown {
		t.Fatal("wave completed with reinforcements still alive")
	}
	for i := 0; i < 2; i++ {
		reg.live[1]--
		d.OnEnemyDestroyed(DestroyedEvent{Type: TypeDrone, WaveIndex: 1})
	}
	if d.State().Phase != PhaseCountdown {
		t.Errorf("phase %v after clearing reinforcements, want countdown", d.State().Phase)
	}
}

func TestKilledNeverExceedsSpawned(t *testing.T) {
	d, _ := newTestDirector(6, SafeDistanceSpawn{}, nil)
	d.StartNextWave()

	spawned := d.State().Spawned
	prev := 0
	for i := 0; i < spawned+10; i++ {
		d.OnEnemyDestroyed(DestroyedEvent{Type: TypeAsteroid, WaveIndex: 1})
		st := d.State()
		if st.Killed < prev {
			t.Fatalf("killed decreased: %d -> %d", prev, st.Killed)
		}
		if st.Killed > st.Spawned {
			t.Fatalf("killed %d exceeds spawned %d", st.Killed, st.Spawned)
		}
		prev = st.Killed
	}
}

func TestStaleWaveEventsIgnored(t *testing.T) {
	d, _ := newTestDirector(7, SafeDistanceSpawn{}, nil)
	d.StartNextWave()

	before := d.State()
	d.OnEnemyDestroyed(DestroyedEvent{Type: TypeAsteroid, WaveIndex: 99})
	if st := d.State(); st.Killed != before.Killed {
		t.Fatalf("stale event counted: killed %d", st.Killed)
	}
}

func TestBossWaveQueueDrainsOverFrames(t *testing.T) {
	d, reg := newTestDirector(8, SafeDistanceSpawn{}, func(rc *ResolverConfig, dc *DirectorConfig) {
		rc.BossInterval = 1 // every wave is a boss wave
		dc.SpawnsPerFrame = 1
	})
	bus := event.NewBus()
	bossEvents := 0
	bus.On(event.BossWaveStarted, func(any) { bossEvents++ })
	d.events = bus

	d.StartNextWave()
	if bossEvents != 1 {
		t.Fatalf("boss-wave-started events: %d", bossEvents)
	}
	if st := d.State(); st.Phase != PhaseSpawning {
		t.Fatalf("phase %v, want spawning", st.Phase)
	}
	if len(reg.order) != 0 {
		t.Fatal("boss wave spawned before the first update")
	}

	d.Update(0.016)
	if len(reg.order) != 1 || reg.order[0].Type != TypeBoss {
		t.Fatalf("first drained spawn = %+v, want the boss", reg.order)
	}

	for i := 0; i < 50 && d.State().Phase == PhaseSpawning; i++ {
		d.Update(0.016)
	}
	st := d.State()
	if st.Phase != PhaseActive {
		t.Fatalf("phase %v after draining, want active", st.Phase)
	}
	if st.Spawned != st.Total {
		t.Fatalf("spawned %d of %d after draining", st.Spawned, st.Total)
	}
	// Support minions follow the boss, in group order.
	for _, req := range reg.order[1:] {
		if req.Type == TypeBoss || req.Type == TypeAsteroid {
			t.Fatalf("unexpected %s in boss support queue", req.Type)
		}
	}
}

func TestSpawnFailureContinuesWave(t *testing.T) {
	d, reg := newTestDirector(9, SafeDistanceSpawn{}, func(rc *ResolverConfig, dc *DirectorConfig) {
		rc.Support = []SupportSpec{
			{Type: TypeDrone, StartWave: 1, Baseline: 3, Scaling: 0, WeightMultiplier: 1},
		}
	})
	reg.failFor[TypeDrone] = true

	d.StartNextWave()
	st := d.State()
	if st.Spawned != st.Total {
		t.Fatalf("spawned %d of %d, failed spawns should drop from total", st.Spawned, st.Total)
	}
	for _, req := range reg.order {
		if req.Type == TypeDrone {
			t.Fatal("drone registered despite acquire failure")
		}
	}

	// The wave must still be completable.
	reg.killAll(d, 1)
	if d.State().Active {
		t.Fatal("wave with failed spawns never completed")
	}
}

func TestLegacyPolicyCountsAsteroidsOnly(t *testing.T) {
	d, _ := newTestDirector(10, LegacyEdgeSpawn{}, func(rc *ResolverConfig, dc *DirectorConfig) {
		rc.Support = []SupportSpec{
			{Type: TypeDrone, StartWave: 1, Baseline: 2, Scaling: 0, WeightMultiplier: 1},
		}
	})
	d.StartNextWave()

	st := d.State()
	_, _, rawTotal := d.RawCounts()
	_, _, astTotal := d.AsteroidCounts()
	if st.Total != astTotal {
		t.Fatalf("authoritative total %d, want asteroid-only %d", st.Total, astTotal)
	}
	if rawTotal <= astTotal {
		t.Fatalf("raw %d should exceed asteroid-only %d with drones present", rawTotal, astTotal)
	}
}

func TestExternalPrimarySkipsAsteroidSpawns(t *testing.T) {
	d, reg := newTestDirector(11, LegacyEdgeSpawn{}, func(rc *ResolverConfig, dc *DirectorConfig) {
		dc.ExternalPrimary = true
	})
	d.StartNextWave()

	for _, req := range reg.order {
		if req.Type == TypeAsteroid {
			t.Fatal("director spawned an asteroid in external-primary mode")
		}
	}
	st := d.State()
	if st.Total == 0 || st.Spawned != 0 {
		t.Fatalf("external-primary counters: spawned %d total %d", st.Spawned, st.Total)
	}

	// The external path reports its own spawns.
	d.OnExternalSpawn(TypeAsteroid, st.Total)
	if got := d.State().Spawned; got != st.Total {
		t.Fatalf("spawned %d after external credit, want %d", got, st.Total)
	}
}

func TestResetRestartsRun(t *testing.T) {
	d, reg := newTestDirector(12, SafeDistanceSpawn{}, nil)
	d.StartNextWave()
	reg.killAll(d, 1)
	d.Update(5)

	d.Reset()
	st := d.State()
	if st.WaveIndex != 0 || st.Active || st.Spawned != 0 || st.Total != 0 {
		t.Fatalf("state after reset: %+v", st)
	}
	if !d.StartNextWave() {
		t.Fatal("StartNextWave failed after reset")
	}
	if d.State().WaveIndex != 1 {
		t.Fatalf("wave after reset = %d, want 1", d.State().WaveIndex)
	}
}

func TestDeterministicReplay(t *testing.T) {
	record := func() []string {
		d, reg := newTestDirector(4242, SafeDistanceSpawn{}, nil)
		for wave := 1; wave <= 6; wave++ {
			if wave == 1 {
				d.StartNextWave()
			}
			for i := 0; i < 200 && d.State().Phase == PhaseSpawning; i++ {
				d.Update(0.016)
			}
			reg.killAll(d, wave)
			for i := 0; i < 400 && d.State().WaveIndex == wave; i++ {
				d.Update(0.016)
			}
		}
		out := make([]string, 0, len(reg.order))
		for _, req := range reg.order {
			out = append(out, fmt.Sprintf("%d/%d %s %s (%.9f,%.9f)",
				req.WaveIndex, req.SpawnIndex, req.Type, req.Size, req.Pos.X, req.Pos.Y))
		}
		return out
	}

	a, b := record(), record()
	if len(a) != len(b) {
		t.Fatalf("run lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("spawn %d differs:\n  %s\n  %s", i, a[i], b[i])
		}
	}
	if len(a) == 0 {
		t.Fatal("replay produced no spawns")
	}
}

func TestResetReplaysFirstWave(t *testing.T) {
	d, reg := newTestDirector(77, SafeDistanceSpawn{}, nil)
	d.StartNextWave()
	first := append([]SpawnRequest(nil), reg.order...)
	reg.killAll(d, 1)

	d.Reset()
	reg.order = nil
	d.StartNextWave()

	if len(reg.order) != len(first) {
		t.Fatalf("replayed %d spawns, want %d", len(reg.order), len(first))
	}
	for i := range first {
		if first[i].Pos != reg.order[i].Pos || first[i].Size != reg.order[i].Size {
			t.Fatalf("spawn %d differs after reset: %+v vs %+v", i, first[i], reg.order[i])
		}
	}
}
