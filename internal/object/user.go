package object

import (
	"math"

	"github.com/fgferre/roguefield/internal/draw"
)

// User is a player-controlled spaceship.
type User struct {
	ID       int    // Owning client ID
	Username string // Display name shown above the ship

	X, Y   float64 // Position (center of ship)
	VX, VY float64 // Velocity (momentum)
	Angle  float64 // Rotation in radians (0 = pointing right, increases counter-clockwise)

	ThrustPower   float64 // Acceleration when thrusting
	RotationSpeed float64 // Radians per second
	MaxSpeed      float64 // Maximum velocity magnitude
	Drag          float64 // Velocity decay per second (1.0 = no drag, 0.5 = 50% speed loss/sec)
	Size          float64 // Size of the ship triangle

	// Shooting
	FireRate     float64 // Minimum seconds between shots
	fireCooldown float64 // Time until next shot allowed

	Score         int
	Lives         int
	Dead          bool    // Out of lives, no longer updated
	Invincibility float64 // Seconds of post-respawn invulnerability remaining
}

// NewUser creates a new spaceship for the given client at the given position.
func NewUser(id int, x, y float64) *User {
	return &User{
		ID:            id,
		X:             x,
		Y:             y,
		Angle:         -math.Pi / 2, // Start pointing up
		ThrustPower:   40.0,         // Acceleration units per second²
		RotationSpeed: 5.0,          // ~286 degrees per second
		MaxSpeed:      25.0,         // Max speed cap
		Drag:          0.5,          // Lose 50% speed per second when not thrusting
		Size:          2.0,          // Triangle size
		FireRate:      0.15,         // 6-7 shots per second max
		Lives:         3,
	}
}

// GetPosition returns the ship center.
func (u *User) GetPosition() (x, y float64) {
	return u.X, u.Y
}

// GetRadius returns the collision radius of the ship.
func (u *User) GetRadius() float64 {
	return u.Size
}

// IsInvincible returns true while post-respawn protection lasts.
func (u *User) IsInvincible() bool {
	return u.Invincibility > 0
}

// Respawn places the ship back at (x, y) with a fresh protection window.
func (u *User) Respawn(x, y, protection float64) {
	u.X = x
	u.Y = y
	u.VX = 0
	u.VY = 0
	u.Angle = -math.Pi / 2
	u.Invincibility = protection
}

// Update handles rotation, thrust, momentum physics, and shooting.
func (u *User) Update(ctx UpdateContext) (bool, error) {
	if u.Dead {
		return false, nil
	}

	dt := ctx.Delta.Seconds()

	if u.Invincibility > 0 {
		u.Invincibility -= dt
		if u.Invincibility < 0 {
			u.Invincibility = 0
		}
	}

	// Rotation (left/right)
	if ctx.Input.Left {
		u.Angle -= u.RotationSpeed * dt
	}
	if ctx.Input.Right {
		u.Angle += u.RotationSpeed * dt
	}

	// Normalize angle to [-π, π]
	for u.Angle > math.Pi {
		u.Angle -= 2 * math.Pi
	}
	for u.Angle < -math.Pi {
		u.Angle += 2 * math.Pi
	}

	// Thrust (accelerate in facing direction)
	if ctx.Input.Up {
		u.VX += math.Cos(u.Angle) * u.ThrustPower * dt
		u.VY += math.Sin(u.Angle) * u.ThrustPower * dt

		// Spawn thrust particles from the back of the ship
		backX := u.X - math.Cos(u.Angle)*u.Size
		backY := u.Y - math.Sin(u.Angle)*u.Size
		SpawnThrust(backX, backY, u.Angle, ctx.Effects, ctx.Spawner)
	}

	// Apply drag (velocity decay when not thrusting)
	if !ctx.Input.Up {
		dragFactor := math.Pow(u.Drag, dt)
		u.VX *= dragFactor
		u.VY *= dragFactor
	}

	// Clamp to max speed
	speed := math.Sqrt(u.VX*u.VX + u.VY*u.VY)
	if speed > u.MaxSpeed {
		scale := u.MaxSpeed / speed
		u.VX *= scale
		u.VY *= scale
	}

	// Apply velocity to position
	u.X += u.VX * dt
	u.Y += u.VY * dt

	// Screen wrapping
	ctx.Screen.WrapPosition(&u.X, &u.Y)

	// Shooting
	u.fireCooldown -= dt
	if ctx.Input.Space && u.fireCooldown <= 0 && ctx.Spawner != nil {
		u.fireCooldown = u.FireRate

		// Spawn projectile from the nose of the ship
		noseX := u.X + math.Cos(u.Angle)*u.Size
		noseY := u.Y + math.Sin(u.Angle)*u.Size

		projectile := NewProjectile(noseX, noseY, u.Angle, u.VX, u.VY, u.ID)
		ctx.Spawner.Spawn(projectile)
	}

	return false, nil
}

// Draw renders the spaceship as a triangle pointing in the direction of travel.
func (u *User) Draw(ctx DrawContext) error {
	if u.Dead {
		return nil
	}
	// Blink while invincible (skip drawing in "off" phase)
	if !ShouldRenderBlink(u.Invincibility, 5.0) {
		return nil
	}

	positions := WorldToScreen(u.X, u.Y, ctx.Camera, ctx.View, ctx.World)
	for i := 0; i < positions.Count; i++ {
		pos := positions.Positions[i]
		u.drawAt(ctx, pos.X, pos.Y)
	}
	return nil
}

// drawAt draws the ship triangle at a specific screen position.
func (u *User) drawAt(ctx DrawContext, screenX, screenY float64) {
	// Triangle vertices relative to center:
	// - Nose (front): in the direction of Angle
	// - Left wing: ~143° from nose
	// - Right wing: ~-143° from nose
	noseAngle := u.Angle
	leftAngle := u.Angle + 2.5
	rightAngle := u.Angle - 2.5

	size := u.Size

	points := ctx.Canvas.BorrowPoints(3)
	points[0] = draw.Point{X: screenX + math.Cos(noseAngle)*size, Y: screenY + math.Sin(noseAngle)*size}
	points[1] = draw.Point{X: screenX + math.Cos(leftAngle)*size*0.7, Y: screenY + math.Sin(leftAngle)*size*0.7}
	points[2] = draw.Point{X: screenX + math.Cos(rightAngle)*size*0.7, Y: screenY + math.Sin(rightAngle)*size*0.7}

	ctx.Canvas.DrawPolygon(points, true)
}
