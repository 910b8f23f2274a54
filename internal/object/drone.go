package object

import (
	"math"

	"github.com/fgferre/roguefield/internal/draw"
)

// TagDrone is the archetype identifier for drones.
const TagDrone = "drone"

// Drone is a slow seeker that steers toward the nearest living player.
type Drone struct {
	X, Y            float64
	VX, VY          float64
	Speed           float64 // Cruise speed cap
	Accel           float64 // Steering acceleration
	Radius          float64
	WaveIndex       int
	SpawnProtection float64
	Destroyed       bool
}

// NewDrone creates a drone at (x, y). speedScale multiplies the base
// speed (1 for none).
func NewDrone(x, y, speedScale float64, waveIndex int) *Drone {
	if speedScale <= 0 {
		speedScale = 1
	}
	return &Drone{
		X:         x,
		Y:         y,
		Speed:     8.0 * speedScale,
		Accel:     14.0 * speedScale,
		Radius:    1.2,
		WaveIndex: waveIndex,
	}
}

// IsProtected returns true while spawn protection lasts.
func (d *Drone) IsProtected() bool {
	return d.SpawnProtection > 0
}

// Update steers toward the nearest player and moves.
func (d *Drone) Update(ctx UpdateContext) (bool, error) {
	if d.Destroyed {
		SpawnExplosion(d.X, d.Y, 4, 15.0, 0.4, ctx.Effects, ctx.Spawner)
		return true, nil
	}

	dt := ctx.Delta.Seconds()

	if d.SpawnProtection > 0 {
		d.SpawnProtection -= dt
		if d.SpawnProtection < 0 {
			d.SpawnProtection = 0
		}
	}

	if target := NearestUser(ctx.Objects, d.X, d.Y); target != nil {
		dx := target.X - d.X
		dy := target.Y - d.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 0 {
			d.VX += dx / dist * d.Accel * dt
			d.VY += dy / dist * d.Accel * dt
		}
	}

	// Cap at cruise speed
	speed := math.Sqrt(d.VX*d.VX + d.VY*d.VY)
	if speed > d.Speed {
		scale := d.Speed / speed
		d.VX *= scale
		d.VY *= scale
	}

	d.X += d.VX * dt
	d.Y += d.VY * dt
	ctx.Screen.WrapPosition(&d.X, &d.Y)

	return false, nil
}

// Draw renders the drone as a small diamond.
func (d *Drone) Draw(ctx DrawContext) error {
	if !ShouldRenderBlink(d.SpawnProtection, 5.0) {
		return nil
	}

	positions := WorldToScreen(d.X, d.Y, ctx.Camera, ctx.View, ctx.World)
	for i := 0; i < positions.Count; i++ {
		pos := positions.Positions[i]
		r := d.Radius
		points := ctx.Canvas.BorrowPoints(4)
		points[0] = draw.Point{X: pos.X, Y: pos.Y - r}
		points[1] = draw.Point{X: pos.X + r, Y: pos.Y}
		points[2] = draw.Point{X: pos.X, Y: pos.Y + r}
		points[3] = draw.Point{X: pos.X - r, Y: pos.Y}
		ctx.Canvas.DrawPolygon(points, false)
	}
	return nil
}

// MarkDestroyed marks the drone for removal (implements Destructible).
func (d *Drone) MarkDestroyed() {
	d.Destroyed = true
}

// IsDestroyed returns true if the drone is marked for destruction.
func (d *Drone) IsDestroyed() bool {
	return d.Destroyed
}

// Tag identifies the drone archetype (implements Hostile).
func (d *Drone) Tag() string {
	return TagDrone
}

// Wave returns the wave this drone counts against (implements Hostile).
func (d *Drone) Wave() int {
	return d.WaveIndex
}

// FragmentCount is zero; drones do not split.
func (d *Drone) FragmentCount() int {
	return 0
}

// GetPosition returns the drone's center position.
func (d *Drone) GetPosition() (float64, float64) {
	return d.X, d.Y
}

// GetRadius returns the drone's collision radius.
func (d *Drone) GetRadius() float64 {
	return d.Radius
}

var _ Hostile = (*Drone)(nil)
