package wave

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/physics"
	"github.com/fgferre/roguefield/internal/rng"
)

// SolverConfig holds the placement geometry tunables.
type SolverConfig struct {
	// EdgeInset keeps edge spawns just inside the arena so every resolved
	// coordinate stays within bounds.
	EdgeInset float64

	// SafeDistance is the minimum allowed distance to the player at spawn.
	SafeDistance float64

	// RingRange widens the ring band: radius in [SafeDistance,
	// SafeDistance+RingRange].
	RingRange float64

	// Margin insets the clamping rectangle used by ring and boss placement.
	Margin float64

	// MaxAttempts bounds the retry loops.
	MaxAttempts int

	// Tolerance is the window around the arena within which a result is
	// considered in-bounds before the final clamp.
	Tolerance float64
}

// Solver resolves concrete spawn coordinates. All strategies funnel through
// a single invariant-enforcing post-step: every returned coordinate lies
// within [0, width] x [0, height], with an arena-center snap as the
// absolute last resort.
type Solver struct {
	cfg    SolverConfig
	bounds BoundsProvider
	player PlayerProvider
	logger *log.Logger
}

// NewSolver creates a placement solver. A nil logger falls back to
// log.Default().
func NewSolver(cfg SolverConfig, bounds BoundsProvider, player PlayerProvider, logger *log.Logger) *Solver {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 10
	}
	return &Solver{cfg: cfg, bounds: bounds, player: player, logger: logger}
}

// EdgeSpawn picks one of the four arena edges uniformly and a uniform
// position along it, inset just inside the bounds. No distance checks.
func (s *Solver) EdgeSpawn(stream *rng.Scope) Vec {
	b := s.bounds.Bounds()
	return s.finish(s.edgeCandidate(stream, b), b, "edge")
}

// SafeEdgeSpawn samples edge positions and rejects any closer to the
// player than the safe distance, up to the attempt budget. If every
// attempt fails the last candidate is accepted; edge bias already
// maximizes distance.
func (s *Solver) SafeEdgeSpawn(stream *rng.Scope) Vec {
	b := s.bounds.Bounds()
	player, ok := s.player.Snapshot()
	if !ok {
		return s.finish(s.edgeCandidate(stream, b), b, "safe-edge")
	}

	var pos Vec
	for i := 0; i < s.cfg.MaxAttempts; i++ {
		pos = s.edgeCandidate(stream, b)
		if physics.Distance(pos.X, pos.Y, player.X, player.Y) >= s.cfg.SafeDistance {
			break
		}
	}
	return s.finish(pos, b, "safe-edge")
}

// RingSpawn samples a point on a ring around the player, radius in
// [SafeDistance, SafeDistance+RingRange], clamped into the margin
// rectangle. If clamping pulled the point under 85% of the safe distance
// it retries; after the attempt budget it falls back to a jittered
// center-band position, which always satisfies the bounds invariant.
func (s *Solver) RingSpawn(stream *rng.Scope) Vec {
	b := s.bounds.Bounds()
	player, ok := s.player.Snapshot()
	if !ok {
		return s.finish(s.centerBand(stream, b), b, "ring")
	}

	margin := b.Rect().Inset(s.cfg.Margin)
	minAccept := s.cfg.SafeDistance * 0.85

	for i := 0; i < s.cfg.MaxAttempts; i++ {
		angle := stream.Range(0, 2*math.Pi)
		radius := stream.Range(s.cfg.SafeDistance, s.cfg.SafeDistance+s.cfg.RingRange)
		x := player.X + math.Cos(angle)*radius
		y := player.Y + math.Sin(angle)*radius
		x, y = margin.ClampPoint(x, y)
		if physics.Distance(x, y, player.X, player.Y) >= minAccept {
			return s.finish(Vec{X: x, Y: y}, b, "ring")
		}
	}
	return s.finish(s.centerBand(stream, b), b, "ring")
}

// BossEntrance places the boss along its named entrance edge, then
// enforces the safe distance against the player via ray-boundary
// reconciliation: if the naive entrance point is too close, walk the ray
// from the player through it out to the safe distance, or to the furthest
// in-bounds point on that ray when the margins cut it short. A plain
// push-away vector would be clamped straight back into the unsafe zone.
func (s *Solver) BossEntrance(stream *rng.Scope, spec *BossSpec) Vec {
	b := s.bounds.Bounds()
	pos := s.entranceCandidate(stream, b, spec)

	player, ok := s.player.Snapshot()
	if !ok {
		return s.finish(pos, b, "boss")
	}

	safe := spec.SafeDistance
	if safe <= 0 {
		safe = s.cfg.SafeDistance
	}
	dist := physics.Distance(pos.X, pos.Y, player.X, player.Y)
	if dist >= safe {
		return s.finish(pos, b, "boss")
	}

	dx, dy := pos.X-player.X, pos.Y-player.Y
	if dist > 0 {
		dx, dy = dx/dist, dy/dist
	} else {
		// Player sits exactly on the entrance point; head for the
		// entrance edge's outward direction.
		dx, dy = entranceAxis(spec.Entrance)
	}

	margin := b.Rect().Inset(s.cfg.Margin)
	reach := margin.RayExitDistance(player.X, player.Y, dx, dy)
	t := safe
	if reach < safe {
		t = reach
	}
	if t <= 0 {
		return s.finish(pos, b, "boss")
	}
	return s.finish(Vec{X: player.X + dx*t, Y: player.Y + dy*t}, b, "boss")
}

func (s *Solver) edgeCandidate(stream *rng.Scope, b Bounds) Vec {
	inset := s.cfg.EdgeInset
	switch stream.Int(0, 3) {
	case 0: // top
		return Vec{X: stream.Range(0, b.Width), Y: inset}
	case 1: // right
		return Vec{X: b.Width - inset, Y: stream.Range(0, b.Height)}
	case 2: // bottom
		return Vec{X: stream.Range(0, b.Width), Y: b.Height - inset}
	default: // left
		return Vec{X: inset, Y: stream.Range(0, b.Height)}
	}
}

// entranceCandidate picks a point near the center of the named edge,
// jittered by the entry padding.
func (s *Solver) entranceCandidate(stream *rng.Scope, b Bounds, spec *BossSpec) Vec {
	pad := spec.EntryPadding
	jitter := stream.Range(-pad, pad)
	inset := s.cfg.EdgeInset
	switch spec.Entrance {
	case "bottom":
		return Vec{X: b.Width/2 + jitter, Y: b.Height - inset}
	case "left":
		return Vec{X: inset, Y: b.Height/2 + jitter}
	case "right":
		return Vec{X: b.Width - inset, Y: b.Height/2 + jitter}
	default: // top
		return Vec{X: b.Width/2 + jitter, Y: inset}
	}
}

// entranceAxis returns the unit direction pointing from the arena interior
// toward the named entrance edge.
func entranceAxis(entrance string) (float64, float64) {
	switch entrance {
	case "bottom":
		return 0, 1
	case "left":
		return -1, 0
	case "right":
		return 1, 0
	default: // top
		return 0, -1
	}
}

// centerBand returns a jittered position inside the arena center region,
// inset by 25% on each axis.
func (s *Solver) centerBand(stream *rng.Scope, b Bounds) Vec {
	return Vec{
		X: stream.Range(b.Width*0.25, b.Width*0.75),
		Y: stream.Range(b.Height*0.25, b.Height*0.75),
	}
}

// finish is the invariant-enforcing post-step shared by all strategies.
// A result outside the tolerance window is snapped to the arena center;
// everything else is clamped into [0, width] x [0, height].
func (s *Solver) finish(pos Vec, b Bounds, strategy string) Vec {
	rect := b.Rect()
	if !rect.Contains(pos.X, pos.Y, s.cfg.Tolerance) {
		s.logger.Warn("spawn position escaped bounds, snapping to arena center",
			"strategy", strategy, "x", pos.X, "y", pos.Y,
			"width", b.Width, "height", b.Height)
		return b.Center()
	}
	x, y := rect.ClampPoint(pos.X, pos.Y)
	return Vec{X: x, Y: y}
}
