package object

import (
	"math"

	"github.com/fgferre/roguefield/internal/draw"
	"github.com/fgferre/roguefield/internal/rng"
)

// TagAsteroid is the archetype identifier for asteroids.
const TagAsteroid = "asteroid"

// AsteroidSize represents the size category of an asteroid.
type AsteroidSize int

const (
	AsteroidSmall  AsteroidSize = 1
	AsteroidMedium AsteroidSize = 2
	AsteroidLarge  AsteroidSize = 3
)

// Size properties for each asteroid size.
var asteroidRadii = map[AsteroidSize]float64{
	AsteroidSmall:  1.5,
	AsteroidMedium: 3.0,
	AsteroidLarge:  5.0,
}

var asteroidSpeeds = map[AsteroidSize]float64{
	AsteroidSmall:  15.0,
	AsteroidMedium: 10.0,
	AsteroidLarge:  6.0,
}

// Asteroid is a destructible space rock. Larger asteroids split into two
// fragments of the next smaller size when destroyed. All of its randomness
// comes from its own stream, so a run replays identically from one seed.
type Asteroid struct {
	X, Y            float64      // Position (center)
	VX, VY          float64      // Velocity
	Angle           float64      // Current rotation angle
	RotationSpeed   float64      // Rotation speed (radians/sec)
	Size            AsteroidSize // Size category
	Radius          float64      // Collision/draw radius
	Vertices        []float64    // Vertex distances from center (for irregular shape)
	Destroyed       bool         // Mark for removal and splitting
	SpawnProtection float64      // Seconds of invulnerability remaining after spawn
	WaveIndex       int          // Wave this asteroid counts against

	stream *rng.Scope
}

// NewAsteroid creates an asteroid at position (x,y) with the given size.
// Direction is random if angle is < 0. The stream drives shape, rotation
// and fragment rolls; speedScale multiplies the base speed (1 for none).
func NewAsteroid(x, y float64, size AsteroidSize, angle float64, speedScale float64, waveIndex int, stream *rng.Scope) *Asteroid {
	if stream == nil {
		stream = rng.NewScope(int64(waveIndex), "asteroid-orphan")
	}
	if speedScale <= 0 {
		speedScale = 1
	}

	radius := asteroidRadii[size]
	speed := asteroidSpeeds[size] * speedScale

	// Random direction if not specified
	if angle < 0 {
		angle = stream.Range(0, 2*math.Pi)
	}

	// Random rotation speed (-1 to 1 radians/sec)
	rotSpeed := stream.Range(-1, 1)

	// Generate irregular polygon vertices (8-12 vertices)
	numVerts := stream.Int(8, 12)
	vertices := make([]float64, numVerts)
	for i := 0; i < numVerts; i++ {
		// Vary radius by ±30% for irregular shape
		vertices[i] = radius * stream.Range(0.7, 1.3)
	}

	return &Asteroid{
		X:             x,
		Y:             y,
		VX:            math.Cos(angle) * speed,
		VY:            math.Sin(angle) * speed,
		Angle:         stream.Range(0, 2*math.Pi),
		RotationSpeed: rotSpeed,
		Size:          size,
		Radius:        radius,
		Vertices:      vertices,
		WaveIndex:     waveIndex,
		stream:        stream,
	}
}

// IsProtected returns true if the asteroid still has spawn protection.
func (a *Asteroid) IsProtected() bool {
	return a.SpawnProtection > 0
}

// Update moves the asteroid and handles rotation. A destroyed asteroid
// spawns its fragments before removal.
func (a *Asteroid) Update(ctx UpdateContext) (bool, error) {
	if a.Destroyed {
		// Spawn explosion particles
		particleCount := int(a.Size) * 4 // More particles for larger asteroids
		SpawnExplosion(a.X, a.Y, particleCount, 20.0, 0.5, ctx.Effects, ctx.Spawner)

		// Split into two fragments of the next smaller size
		if a.Size > AsteroidSmall && ctx.Spawner != nil {
			newSize := a.Size - 1
			for i := 0; i < 2; i++ {
				child := a.stream.Fork(fragmentLabel(i))
				angle := child.Range(0, 2*math.Pi)
				ctx.Spawner.Spawn(NewAsteroid(a.X, a.Y, newSize, angle, 1, a.WaveIndex, child))
			}
		}
		return true, nil // Remove this asteroid
	}

	dt := ctx.Delta.Seconds()

	// Decrement spawn protection
	if a.SpawnProtection > 0 {
		a.SpawnProtection -= dt
		if a.SpawnProtection < 0 {
			a.SpawnProtection = 0
		}
	}

	// Rotate
	a.Angle += a.RotationSpeed * dt

	// Move
	a.X += a.VX * dt
	a.Y += a.VY * dt

	// Screen wrapping
	ctx.Screen.WrapPosition(&a.X, &a.Y)

	return false, nil
}

func fragmentLabel(i int) string {
	if i == 0 {
		return "fragment-0"
	}
	return "fragment-1"
}

// Draw renders the asteroid as an irregular polygon.
func (a *Asteroid) Draw(ctx DrawContext) error {
	// Blink when protected (skip drawing in "off" phase)
	if !ShouldRenderBlink(a.SpawnProtection, 5.0) {
		return nil
	}

	// Get screen positions (handles world wrapping)
	positions := WorldToScreen(a.X, a.Y, ctx.Camera, ctx.View, ctx.World)

	for i := 0; i < positions.Count; i++ {
		pos := positions.Positions[i]
		a.drawAt(ctx, pos.X, pos.Y)
	}

	return nil
}

// drawAt draws the asteroid at a specific screen position.
func (a *Asteroid) drawAt(ctx DrawContext, screenX, screenY float64) {
	numVerts := len(a.Vertices)

	// Use reusable buffer from canvas to avoid per-frame allocations.
	// Safe for concurrent rendering because each client has its own Canvas.
	points := ctx.Canvas.BorrowPoints(numVerts)

	for i, dist := range a.Vertices {
		// Angle for this vertex
		vertAngle := a.Angle + float64(i)*2*math.Pi/float64(numVerts)
		points[i] = draw.Point{
			X: screenX + math.Cos(vertAngle)*dist,
			Y: screenY + math.Sin(vertAngle)*dist,
		}
	}

	// Draw to canvas (no aspect ratio needed with 2x vertical resolution)
	ctx.Canvas.DrawPolygon(points, false)
}

// MarkDestroyed marks the asteroid for removal (implements Destructible).
func (a *Asteroid) MarkDestroyed() {
	a.Destroyed = true
}

// IsDestroyed returns true if the asteroid is marked for destruction (implements Destructible).
func (a *Asteroid) IsDestroyed() bool {
	return a.Destroyed
}

// Tag identifies the asteroid archetype (implements Hostile).
func (a *Asteroid) Tag() string {
	return TagAsteroid
}

// Wave returns the wave this asteroid counts against (implements Hostile).
func (a *Asteroid) Wave() int {
	return a.WaveIndex
}

// FragmentCount returns how many children the asteroid splits into.
func (a *Asteroid) FragmentCount() int {
	if a.Size > AsteroidSmall {
		return 2
	}
	return 0
}

// GetPosition returns the asteroid's center position.
func (a *Asteroid) GetPosition() (float64, float64) {
	return a.X, a.Y
}

// GetRadius returns the asteroid's collision radius.
func (a *Asteroid) GetRadius() float64 {
	return a.Radius
}

var _ Hostile = (*Asteroid)(nil)
