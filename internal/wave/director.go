package wave

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/event"
	"github.com/fgferre/roguefield/internal/rng"
)

// Phase is the director's lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSpawning
	PhaseActive
	PhaseCountdown
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSpawning:
		return "spawning"
	case PhaseActive:
		return "active"
	case PhaseCountdown:
		return "countdown"
	}
	return "unknown"
}

// counters is one bookkeeping view of a wave.
type counters struct {
	spawned int
	killed  int
	total   int
}

// State is the externally visible snapshot of wave progress. Counter
// fields reflect the authoritative view selected by the spawn policy.
type State struct {
	WaveIndex        int
	Active           bool
	Phase            Phase
	Spawned          int
	Killed           int
	Total            int
	CountdownSeconds float64
	Policy           string
	BossWave         bool
}

// DirectorConfig holds the progression tunables.
type DirectorConfig struct {
	// CountdownSeconds is the pause between waves.
	CountdownSeconds float64

	// SpawnsPerFrame bounds how many queued boss-wave spawns are
	// processed per update.
	SpawnsPerFrame int

	// ExternalPrimary hands primary-roster (asteroid) spawning to an
	// external legacy path. The director still tracks asteroid totals so
	// both paths can run side by side without double-counting; the
	// external path reports its spawns through OnExternalSpawn.
	ExternalPrimary bool
}

// Director is the wave progression state machine. It is single-threaded
// and frame-stepped: Update is called once per frame from the game loop,
// and nothing it does may escape as a panic or abort the frame.
type Director struct {
	cfg      DirectorConfig
	policy   SpawnPolicy
	rng      *rng.Manager
	resolver *Resolver
	solver   *Solver
	registry Registry
	events   Emitter
	logger   *log.Logger

	phase     Phase
	wave      int
	desc      *Descriptor
	countdown float64

	// Two counter views are kept: raw covers every enemy type, asteroids
	// only the legacy subset. The policy selects which is authoritative.
	raw       counters
	asteroids counters

	queue []SpawnRequest
}

// NewDirector wires the progression state machine. All collaborators are
// injected at construction; nil logger falls back to log.Default().
func NewDirector(cfg DirectorConfig, policy SpawnPolicy, mgr *rng.Manager, resolver *Resolver, solver *Solver, registry Registry, events Emitter, logger *log.Logger) *Director {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.SpawnsPerFrame <= 0 {
		cfg.SpawnsPerFrame = 2
	}
	if policy == nil {
		policy = SafeDistanceSpawn{}
	}
	return &Director{
		cfg:      cfg,
		policy:   policy,
		rng:      mgr,
		resolver: resolver,
		solver:   solver,
		registry: registry,
		events:   events,
		logger:   logger,
		phase:    PhaseIdle,
	}
}

// StartNextWave advances to the next wave: resolves its composition,
// computes counter baselines, emits the wave-started notification, and
// spawns the roster. Normal waves spawn in full immediately; boss waves
// enqueue an ordered two-phase queue (boss first, then support groups)
// drained over subsequent updates. Returns false if a wave is already in
// progress.
func (d *Director) StartNextWave() bool {
	if d.phase == PhaseSpawning || d.phase == PhaseActive {
		d.logger.Debug("wave start rejected", "err", ErrWaveInProgress, "wave", d.wave)
		return false
	}

	d.wave++
	d.desc = d.resolver.Resolve(d.wave)
	d.countdown = 0

	d.raw = counters{total: d.desc.Total()}
	d.asteroids = counters{total: d.asteroidTotal(d.desc)}

	d.queue = d.buildQueue(d.desc)
	d.phase = PhaseSpawning

	d.logger.Debug("wave started",
		"wave", d.wave, "boss", d.desc.BossWave,
		"total", d.raw.total, "generator", d.desc.Meta.Generator)

	if d.events != nil {
		d.events.Emit(event.WaveStarted, d.State())
		if d.desc.BossWave {
			d.events.Emit(event.BossWaveStarted, d.State())
		}
	}

	if !d.desc.BossWave {
		// Normal waves spawn their whole roster up front.
		d.drain(len(d.queue))
		d.phase = PhaseActive
		d.maybeComplete()
	}
	return true
}

// Update steps the state machine by one frame. All internal failures are
// handled at the point of use; nothing escapes to the caller.
func (d *Director) Update(dt float64) {
	switch d.phase {
	case PhaseCountdown:
		d.countdown -= dt
		if d.countdown <= 0 {
			d.countdown = 0
			d.StartNextWave()
		}
	case PhaseSpawning:
		d.drain(d.cfg.SpawnsPerFrame)
		if len(d.queue) == 0 {
			d.phase = PhaseActive
			d.maybeComplete()
		}
	case PhaseActive:
		d.maybeComplete()
	}
}

// OnEnemyDestroyed records a destruction reported by the registry.
// Fragments add to total and spawned as an atomic pair, so bookkeeping can
// never report more kills than spawns.
func (d *Director) OnEnemyDestroyed(ev DestroyedEvent) {
	if ev.WaveIndex != d.wave {
		return
	}

	d.raw.killed++
	if n := ev.FragmentCount; n > 0 {
		d.raw.total += n
		d.raw.spawned += n
	}
	if ev.Type == TypeAsteroid {
		d.asteroids.killed++
		if n := ev.FragmentCount; n > 0 {
			d.asteroids.total += n
			d.asteroids.spawned += n
		}
	}

	if d.raw.killed > d.raw.spawned {
		d.logger.Warn("kill count exceeds spawn count, clamping",
			"wave", d.wave, "killed", d.raw.killed, "spawned", d.raw.spawned)
		d.raw.killed = d.raw.spawned
	}
	if d.asteroids.killed > d.asteroids.spawned {
		d.asteroids.killed = d.asteroids.spawned
	}

	d.maybeComplete()
}

// OnExternalSpawn credits spawns performed by the external legacy path
// when it owns the primary roster.
func (d *Director) OnExternalSpawn(tag TypeTag, n int) {
	if n <= 0 {
		return
	}
	d.raw.spawned += n
	if tag == TypeAsteroid {
		d.asteroids.spawned += n
	}
}

// OnReinforcement accounts for enemies introduced mid-wave outside the
// spawn queue, such as minions released by a boss. Totals and spawn
// counts move together so the wave stays completable.
func (d *Director) OnReinforcement(tag TypeTag, n int) {
	if n <= 0 {
		return
	}
	d.raw.total += n
	d.raw.spawned += n
	if tag == TypeAsteroid {
		d.asteroids.total += n
		d.asteroids.spawned += n
	}
}

// State returns the current progress snapshot using the authoritative
// counter view.
func (d *Director) State() State {
	auth := d.authoritative()
	return State{
		WaveIndex:        d.wave,
		Active:           d.phase == PhaseSpawning || d.phase == PhaseActive,
		Phase:            d.phase,
		Spawned:          auth.spawned,
		Killed:           auth.killed,
		Total:            auth.total,
		CountdownSeconds: d.countdown,
		Policy:           d.policy.Name(),
		BossWave:         d.desc != nil && d.desc.BossWave,
	}
}

// RawCounts returns the all-types counter view regardless of policy.
func (d *Director) RawCounts() (spawned, killed, total int) {
	return d.raw.spawned, d.raw.killed, d.raw.total
}

// AsteroidCounts returns the asteroid-only counter view regardless of
// policy.
func (d *Director) AsteroidCounts() (spawned, killed, total int) {
	return d.asteroids.spawned, d.asteroids.killed, d.asteroids.total
}

// Reset clears all counters and the pending spawn queue and reseeds the
// standing random scopes back to their initial seeds, in one synchronous
// step. The next StartNextWave begins at wave 1 again.
func (d *Director) Reset() {
	d.phase = PhaseIdle
	d.wave = 0
	d.desc = nil
	d.countdown = 0
	d.raw = counters{}
	d.asteroids = counters{}
	d.queue = nil
	d.rng.ResetAll()
}

func (d *Director) authoritative() counters {
	if d.policy.AsteroidOnlyCounters() {
		return d.asteroids
	}
	return d.raw
}

func (d *Director) asteroidTotal(desc *Descriptor) int {
	n := 0
	for _, g := range desc.Groups {
		if g.Type == TypeAsteroid {
			n += g.Count
		}
	}
	return n
}

// buildQueue lays out the wave's spawn requests in their deterministic
// order: boss first on boss waves, then every group in descriptor order.
// Each request forks its own named sub-stream from the spawn scope, keyed
// by wave and spawn index, so the emitted sequence is stable even if
// unrelated parts of the program draw randomness in a different order.
func (d *Director) buildQueue(desc *Descriptor) []SpawnRequest {
	waveLabel := fmt.Sprintf("wave-%d", desc.Index)
	spawnScope := d.rng.Fork(d.rng.Spawn(), waveLabel)
	variantScope := d.rng.Fork(d.rng.Variants(), waveLabel)

	queue := make([]SpawnRequest, 0, desc.Total())
	index := 0

	next := func(tag TypeTag, size SizeClass, boss bool, overrides map[string]float64) {
		label := fmt.Sprintf("spawn-index-%d", index)
		req := SpawnRequest{
			Type:       tag,
			Size:       size,
			SpawnIndex: index,
			WaveIndex:  desc.Index,
			Boss:       boss,
			Overrides:  overrides,
			Stream:     spawnScope.Fork(label),
		}
		if size == SizeUnset && tag == TypeAsteroid && !boss {
			weights := desc.Meta.Weights
			if weights == nil {
				weights = d.resolver.tables.SizeWeights(d.policy.WeightTable())
			}
			req.Size = DrawSize(variantScope.Fork(label), weights)
		}
		queue = append(queue, req)
		index++
	}

	if desc.Boss != nil && desc.Boss.Count > 0 {
		next(desc.Boss.Type, SizeUnset, true, nil)
		queue[len(queue)-1].Minions = desc.Boss.Minions
	}
	for _, g := range desc.Groups {
		if g.Type == TypeAsteroid && d.cfg.ExternalPrimary {
			// The legacy path owns these; totals already include them
			// and OnExternalSpawn credits the spawns.
			continue
		}
		for i := 0; i < g.Count; i++ {
			next(g.Type, g.Size, false, g.Overrides)
		}
	}
	return queue
}

// drain processes up to n queued spawn requests in order. A failed spawn
// is logged and dropped from the totals; the rest of the queue continues.
func (d *Director) drain(n int) {
	for n > 0 && len(d.queue) > 0 {
		req := d.queue[0]
		d.queue = d.queue[1:]
		n--
		if err := d.spawn(&req); err != nil {
			d.logger.Error("spawn failed, continuing wave",
				"err", err, "wave", req.WaveIndex, "type", req.Type, "index", req.SpawnIndex)
			d.raw.total--
			if req.Type == TypeAsteroid {
				d.asteroids.total--
			}
		}
	}
}

// spawn resolves the request's position, then acquires and registers the
// entity with the registry.
func (d *Director) spawn(req *SpawnRequest) error {
	if d.registry == nil {
		return ErrRegistryUnavailable
	}

	switch {
	case req.Boss:
		req.Pos = d.solver.BossEntrance(req.Stream, d.desc.Boss)
	case req.Type == TypeAsteroid:
		req.Pos = d.policy.PlacePrimary(d.solver, req.Stream)
	default:
		req.Pos = d.solver.RingSpawn(req.Stream)
	}

	h, err := d.registry.Acquire(req.Type, *req)
	if err != nil {
		return fmt.Errorf("acquire %s: %w", req.Type, err)
	}
	if err := d.registry.Register(h); err != nil {
		return fmt.Errorf("register %s: %w", req.Type, err)
	}

	d.raw.spawned++
	if req.Type == TypeAsteroid {
		d.asteroids.spawned++
	}
	return nil
}

// maybeComplete transitions to the countdown once the authoritative view
// reports every entity killed and the registry has no live entities left
// for this wave.
func (d *Director) maybeComplete() {
	if d.phase != PhaseActive {
		return
	}
	auth := d.authoritative()
	if auth.killed < auth.total {
		return
	}
	if d.registry != nil && d.registry.Live(d.wave) > 0 {
		return
	}
	d.phase = PhaseCountdown
	d.countdown = d.cfg.CountdownSeconds
	d.logger.Debug("wave complete", "wave", d.wave, "killed", auth.killed, "total", auth.total)
	if d.events != nil {
		d.events.Emit(event.WaveComplete, d.State())
	}
}
