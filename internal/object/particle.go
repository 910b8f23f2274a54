package object

import (
	"math"
	"sync"

	"github.com/fgferre/roguefield/internal/rng"
)

// particlePool reuses Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived visual effect.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Symbol      rune    // Character to display
	Fade        bool    // Whether to fade out over lifetime
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, symbol rune) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	p.Symbol = symbol
	p.Fade = true
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the game.
func (p *Particle) Release() {
	particlePool.Put(p)
}

var explosionSymbols = []rune{'#', '@', '*', '%', 'X', 'O', '+', '▪'}

// effectStream guards against a missing stream so effects never panic;
// an orphan scope is still deterministic, just divorced from the run seed.
func effectStream(stream *rng.Scope) *rng.Scope {
	if stream == nil {
		return rng.NewScope(1, "effects-orphan")
	}
	return stream
}

// SpawnExplosion emits count particles in a circular burst at (x, y),
// drawing direction, speed and lifetime jitter from the stream.
func SpawnExplosion(x, y float64, count int, speed, lifetime float64, stream *rng.Scope, spawner Spawner) {
	if spawner == nil {
		return
	}
	stream = effectStream(stream)

	for i := 0; i < count; i++ {
		angle := stream.Range(0, 2*math.Pi)
		spd := speed * stream.Range(0.5, 1.5)
		life := lifetime * stream.Range(0.5, 1.0)

		vx := math.Cos(angle) * spd
		vy := math.Sin(angle) * spd

		symbol := explosionSymbols[stream.Int(0, len(explosionSymbols)-1)]

		p := NewParticle(x, y, vx, vy, life, symbol)
		spawner.Spawn(p)
	}
}

var thrustSymbols = []rune{'*', '+', '#', '^', '~'}

// SpawnThrust emits exhaust particles behind a ship facing angle.
func SpawnThrust(x, y, angle float64, stream *rng.Scope, spawner Spawner) {
	if spawner == nil {
		return
	}
	stream = effectStream(stream)

	count := stream.Int(1, 2)
	for i := 0; i < count; i++ {
		// Opposite the ship's facing, with a little spread
		thrustAngle := angle + math.Pi + stream.Range(-0.25, 0.25)
		speed := stream.Range(8.0, 12.0)
		lifetime := stream.Range(0.1, 0.25)

		vx := math.Cos(thrustAngle) * speed
		vy := math.Sin(thrustAngle) * speed

		symbol := thrustSymbols[stream.Int(0, len(thrustSymbols)-1)]

		p := NewParticle(x, y, vx, vy, lifetime, symbol)
		p.Drag = 0.85
		spawner.Spawn(p)
	}
}

// Update moves the particle and checks lifetime.
func (p *Particle) Update(ctx UpdateContext) (bool, error) {
	dt := ctx.Delta.Seconds()

	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true, nil
	}

	// Drag is normalized to ~60fps so decay matches at any tick rate
	dragFactor := math.Pow(p.Drag, dt*60)
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt

	// Particles just die at the edges, no wrapping

	return false, nil
}

// Draw renders the particle as a pixel on the canvas.
func (p *Particle) Draw(ctx DrawContext) error {
	// Skip faded particles (< 25% lifetime)
	if p.Fade && p.MaxLifetime > 0 {
		if p.Lifetime/p.MaxLifetime < 0.25 {
			return nil
		}
	}

	positions := WorldToScreen(p.X, p.Y, ctx.Camera, ctx.View, ctx.World)
	for i := 0; i < positions.Count; i++ {
		pos := positions.Positions[i]
		ctx.Canvas.SetFloat(pos.X, pos.Y)
	}

	return nil
}
