package object

import (
	"math"

	"github.com/fgferre/roguefield/internal/draw"
)

// TagHunter is the archetype identifier for hunters.
const TagHunter = "hunter"

// HostileOwner marks projectiles fired by enemies rather than a client.
const HostileOwner = -1

// Hunter is a fast pursuer that keeps some distance and fires at the
// nearest living player.
type Hunter struct {
	X, Y            float64
	VX, VY          float64
	Speed           float64
	Accel           float64
	Radius          float64
	FireRate        float64 // Seconds between shots
	FireRange       float64 // Maximum shooting distance
	KeepDistance    float64 // Preferred standoff distance
	WaveIndex       int
	SpawnProtection float64
	Destroyed       bool

	fireCooldown float64
}

// NewHunter creates a hunter at (x, y). speedScale multiplies the base
// speed, fireScale divides the shot interval (1 for none).
func NewHunter(x, y, speedScale, fireScale float64, waveIndex int) *Hunter {
	if speedScale <= 0 {
		speedScale = 1
	}
	if fireScale <= 0 {
		fireScale = 1
	}
	return &Hunter{
		X:            x,
		Y:            y,
		Speed:        14.0 * speedScale,
		Accel:        20.0 * speedScale,
		Radius:       1.5,
		FireRate:     2.0 / fireScale,
		FireRange:    45.0,
		KeepDistance: 18.0,
		WaveIndex:    waveIndex,
		fireCooldown: 1.0, // Grace period before the first shot
	}
}

// IsProtected returns true while spawn protection lasts.
func (h *Hunter) IsProtected() bool {
	return h.SpawnProtection > 0
}

// Update pursues the nearest player, holds distance, and fires.
func (h *Hunter) Update(ctx UpdateContext) (bool, error) {
	if h.Destroyed {
		SpawnExplosion(h.X, h.Y, 6, 18.0, 0.4, ctx.Effects, ctx.Spawner)
		return true, nil
	}

	dt := ctx.Delta.Seconds()

	if h.SpawnProtection > 0 {
		h.SpawnProtection -= dt
		if h.SpawnProtection < 0 {
			h.SpawnProtection = 0
		}
	}
	h.fireCooldown -= dt

	if target := NearestUser(ctx.Objects, h.X, h.Y); target != nil {
		dx := target.X - h.X
		dy := target.Y - h.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 0 {
			// Close in beyond the standoff distance, back off inside it.
			dir := 1.0
			if dist < h.KeepDistance {
				dir = -1.0
			}
			h.VX += dx / dist * h.Accel * dt * dir
			h.VY += dy / dist * h.Accel * dt * dir
		}

		if dist <= h.FireRange && h.fireCooldown <= 0 && h.SpawnProtection <= 0 && ctx.Spawner != nil {
			h.fireCooldown = h.FireRate
			angle := math.Atan2(dy, dx)
			ctx.Spawner.Spawn(NewProjectile(h.X, h.Y, angle, h.VX, h.VY, HostileOwner))
		}
	}

	speed := math.Sqrt(h.VX*h.VX + h.VY*h.VY)
	if speed > h.Speed {
		scale := h.Speed / speed
		h.VX *= scale
		h.VY *= scale
	}

	h.X += h.VX * dt
	h.Y += h.VY * dt
	ctx.Screen.WrapPosition(&h.X, &h.Y)

	return false, nil
}

// Draw renders the hunter as a narrow chevron pointing along its velocity.
func (h *Hunter) Draw(ctx DrawContext) error {
	if !ShouldRenderBlink(h.SpawnProtection, 5.0) {
		return nil
	}

	heading := math.Atan2(h.VY, h.VX)
	positions := WorldToScreen(h.X, h.Y, ctx.Camera, ctx.View, ctx.World)
	for i := 0; i < positions.Count; i++ {
		pos := positions.Positions[i]
		r := h.Radius
		points := ctx.Canvas.BorrowPoints(3)
		points[0] = draw.Point{X: pos.X + math.Cos(heading)*r*1.5, Y: pos.Y + math.Sin(heading)*r*1.5}
		points[1] = draw.Point{X: pos.X + math.Cos(heading+2.6)*r, Y: pos.Y + math.Sin(heading+2.6)*r}
		points[2] = draw.Point{X: pos.X + math.Cos(heading-2.6)*r, Y: pos.Y + math.Sin(heading-2.6)*r}
		ctx.Canvas.DrawPolygon(points, false)
	}
	return nil
}

// MarkDestroyed marks the hunter for removal (implements Destructible).
func (h *Hunter) MarkDestroyed() {
	h.Destroyed = true
}

// IsDestroyed returns true if the hunter is marked for destruction.
func (h *Hunter) IsDestroyed() bool {
	return h.Destroyed
}

// Tag identifies the hunter archetype (implements Hostile).
func (h *Hunter) Tag() string {
	return TagHunter
}

// Wave returns the wave this hunter counts against (implements Hostile).
func (h *Hunter) Wave() int {
	return h.WaveIndex
}

// FragmentCount is zero; hunters do not split.
func (h *Hunter) FragmentCount() int {
	return 0
}

// GetPosition returns the hunter's center position.
func (h *Hunter) GetPosition() (float64, float64) {
	return h.X, h.Y
}

// GetRadius returns the hunter's collision radius.
func (h *Hunter) GetRadius() float64 {
	return h.Radius
}

var _ Hostile = (*Hunter)(nil)
