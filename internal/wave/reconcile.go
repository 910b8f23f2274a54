package wave

import "github.com/charmbracelet/log"

// Reconciler cross-checks the director's spawn bookkeeping against the
// registry's own counters to catch double-registration or missed
// registration early. It only warns; drift is never fatal and production
// builds can leave it disabled.
type Reconciler struct {
	director  *Director
	registry  Registry
	tolerance int
	logger    *log.Logger
}

// NewReconciler creates a reconciler with the given drift tolerance.
// Tolerance below 1 is raised to 1.
func NewReconciler(director *Director, registry Registry, tolerance int, logger *log.Logger) *Reconciler {
	if logger == nil {
		logger = log.Default()
	}
	if tolerance < 1 {
		tolerance = 1
	}
	return &Reconciler{
		director:  director,
		registry:  registry,
		tolerance: tolerance,
		logger:    logger,
	}
}

// Check compares the authoritative spawn count against the registry's
// count for the active wave and warns when they drift apart by more than
// the tolerance. Returns true when the counters agree.
func (r *Reconciler) Check() bool {
	if r.registry == nil {
		return true
	}
	st := r.director.State()
	if st.WaveIndex == 0 {
		return true
	}

	asteroidsOnly := r.director.policy.AsteroidOnlyCounters()
	got := r.registry.Spawned(st.WaveIndex, asteroidsOnly)
	diff := st.Spawned - got
	if diff < 0 {
		diff = -diff
	}
	if diff > r.tolerance {
		r.logger.Warn("wave accounting drift",
			"wave", st.WaveIndex,
			"director_spawned", st.Spawned,
			"registry_spawned", got,
			"asteroids_only", asteroidsOnly,
			"tolerance", r.tolerance)
		return false
	}
	return true
}
