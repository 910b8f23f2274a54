package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/event"
	"github.com/fgferre/roguefield/internal/game"
	"github.com/fgferre/roguefield/internal/rng"
	"github.com/fgferre/roguefield/internal/wave"
)

// simRegistry is an in-memory registry that records every spawn instead of
// building game entities. It lets the wave machine run headless.
type simRegistry struct {
	next    wave.Handle
	pending map[wave.Handle]wave.SpawnRequest
	order   []wave.SpawnRequest
	live    map[int]int
	all     map[int]int
	ast     map[int]int
}

func newSimRegistry() *simRegistry {
	return &simRegistry{
		pending: make(map[wave.Handle]wave.SpawnRequest),
		live:    make(map[int]int),
		all:     make(map[int]int),
		ast:     make(map[int]int),
	}
}

func (r *simRegistry) Acquire(tag wave.TypeTag, req wave.SpawnRequest) (wave.Handle, error) {
	r.next++
	r.pending[r.next] = req
	return r.next, nil
}

func (r *simRegistry) Register(h wave.Handle) error {
	req, ok := r.pending[h]
	if !ok {
		return fmt.Errorf("unknown spawn handle %d", h)
	}
	delete(r.pending, h)
	r.order = append(r.order, req)
	r.live[req.WaveIndex]++
	r.all[req.WaveIndex]++
	if req.Type == wave.TypeAsteroid {
		r.ast[req.WaveIndex]++
	}
	return nil
}

func (r *simRegistry) Live(waveIndex int) int { return r.live[waveIndex] }

func (r *simRegistry) Spawned(waveIndex int, asteroidsOnly bool) int {
	if asteroidsOnly {
		return r.ast[waveIndex]
	}
	return r.all[waveIndex]
}

// Snapshot returns a fixed player position so placement runs are reproducible.
func (r *simRegistry) Snapshot() (wave.Vec, bool) {
	return wave.Vec{X: game.WorldWidth / 2, Y: game.WorldHeight / 2}, true
}

func (r *simRegistry) Bounds() wave.Bounds {
	return wave.Bounds{Width: game.WorldWidth, Height: game.WorldHeight}
}

// killWave destroys every live entity of a wave, advancing the director.
func (r *simRegistry) killWave(d *wave.Director, waveIndex int) {
	for _, req := range r.order {
		if req.WaveIndex != waveIndex || r.live[waveIndex] == 0 {
			continue
		}
		r.live[waveIndex]--
		d.OnEnemyDestroyed(wave.DestroyedEvent{Type: req.Type, WaveIndex: waveIndex})
	}
}

func main() {
	seed := flag.Int64("seed", 1, "run seed")
	waves := flag.Int("waves", 10, "number of waves to simulate")
	policyName := flag.String("policy", "safe-distance", "spawn policy (legacy-edge or safe-distance)")
	quiet := flag.Bool("quiet", false, "suppress per-spawn output, print only wave summaries")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Level: log.WarnLevel})
	policy := wave.PolicyByName(*policyName)

	reg := newSimRegistry()
	mgr := rng.NewManager(*seed, logger)
	resolver := wave.NewResolver(game.ResolverDefaults(policy), game.WaveTables(logger), logger)
	solver := wave.NewSolver(game.SolverDefaults(), reg, reg, logger)
	director := wave.NewDirector(game.DirectorDefaults(), policy, mgr, resolver, solver, reg, event.NewBus(), logger)

	const dt = 1.0 / 60

	for w := 1; w <= *waves; w++ {
		if !director.StartNextWave() {
			fmt.Fprintf(os.Stderr, "wave %d refused to start\n", w)
			os.Exit(1)
		}

		// Boss waves trickle their queue over frames.
		for director.State().Phase == wave.PhaseSpawning {
			director.Update(dt)
		}

		st := director.State()
		kind := "normal"
		if st.BossWave {
			kind = "boss"
		}
		fmt.Printf("wave %d (%s): spawned=%d total=%d policy=%s\n",
			st.WaveIndex, kind, st.Spawned, st.Total, st.Policy)

		if !*quiet {
			for _, req := range reg.order {
				if req.WaveIndex != w {
					continue
				}
				size := string(req.Size)
				if size == "" {
					size = "-"
				}
				fmt.Printf("  %3d %-9s %-7s (%.9f, %.9f)\n",
					req.SpawnIndex, req.Type, size, req.Pos.X, req.Pos.Y)
			}
		}

		// Clearing the wave puts the director into its countdown; the
		// next StartNextWave preempts it.
		reg.killWave(director, w)
	}
}
