package object

import (
	"fmt"
	"math"

	"github.com/fgferre/roguefield/internal/draw"
	"github.com/fgferre/roguefield/internal/rng"
)

// TagBoss is the archetype identifier for the boss.
const TagBoss = "boss"

// Boss is the large multi-segment entity of boss waves. It drifts toward
// the arena, soaks multiple hits, and periodically releases minions from
// its whitelist. All of its randomness comes from its own stream.
type Boss struct {
	X, Y      float64
	VX, VY    float64
	Speed     float64
	Radius    float64 // Core collision radius
	HP        int
	MaxHP     int
	Angle     float64 // Segment ring rotation
	SpinSpeed float64
	WaveIndex int
	Destroyed bool

	// Minion release
	MinionTags     []string // Whitelisted minion archetypes
	MinionInterval float64
	minionCooldown float64
	MaxMinions     int // Ceiling on simultaneously alive minions it spawned
	aliveMinions   int
	released       int

	segments int
	stream   *rng.Scope
	hitFlash float64
}

// NewBoss creates a boss at (x, y). HP scales with the wave index.
func NewBoss(x, y float64, waveIndex int, minions []string, stream *rng.Scope) *Boss {
	if stream == nil {
		stream = rng.NewScope(int64(waveIndex), "boss-orphan")
	}
	hp := 20 + waveIndex*2
	return &Boss{
		X:              x,
		Y:              y,
		Speed:          4.0,
		Radius:         7.0,
		HP:             hp,
		MaxHP:          hp,
		SpinSpeed:      0.6,
		WaveIndex:      waveIndex,
		MinionTags:     minions,
		MinionInterval: 6.0,
		minionCooldown: 3.0,
		MaxMinions:     6,
		segments:       6,
		stream:         stream,
	}
}

// Hit applies one projectile hit. Returns true when the hit kills the boss.
func (b *Boss) Hit() bool {
	if b.Destroyed {
		return false
	}
	b.HP--
	b.hitFlash = 0.1
	if b.HP <= 0 {
		b.Destroyed = true
		return true
	}
	return false
}

// MinionDied loosens the release ceiling after a minion is destroyed.
func (b *Boss) MinionDied() {
	if b.aliveMinions > 0 {
		b.aliveMinions--
	}
}

// Update drifts toward the nearest player and releases minions.
func (b *Boss) Update(ctx UpdateContext) (bool, error) {
	if b.Destroyed {
		SpawnExplosion(b.X, b.Y, 24, 25.0, 0.8, ctx.Effects, ctx.Spawner)
		return true, nil
	}

	dt := ctx.Delta.Seconds()
	b.Angle += b.SpinSpeed * dt
	if b.hitFlash > 0 {
		b.hitFlash -= dt
	}

	if target := NearestUser(ctx.Objects, b.X, b.Y); target != nil {
		dx := target.X - b.X
		dy := target.Y - b.Y
		dist := math.Sqrt(dx*dx + dy*dy)
		if dist > 0 {
			b.VX = dx / dist * b.Speed
			b.VY = dy / dist * b.Speed
		}
	}

	b.X += b.VX * dt
	b.Y += b.VY * dt
	ctx.Screen.WrapPosition(&b.X, &b.Y)

	b.minionCooldown -= dt
	if b.minionCooldown <= 0 && len(b.MinionTags) > 0 && b.aliveMinions < b.MaxMinions && ctx.Spawner != nil {
		b.minionCooldown = b.MinionInterval
		b.releaseMinion(ctx.Spawner)
	}

	return false, nil
}

// releaseMinion spawns one whitelisted minion just outside the segment ring.
func (b *Boss) releaseMinion(spawner Spawner) {
	roll := b.stream.Fork(fmt.Sprintf("minion-%d", b.released))
	b.released++
	tag := b.MinionTags[roll.Int(0, len(b.MinionTags)-1)]
	angle := roll.Range(0, 2*math.Pi)
	x := b.X + math.Cos(angle)*(b.Radius+3)
	y := b.Y + math.Sin(angle)*(b.Radius+3)

	switch tag {
	case TagHunter:
		spawner.Spawn(NewHunter(x, y, 1, 1, b.WaveIndex))
	default:
		spawner.Spawn(NewDrone(x, y, 1, b.WaveIndex))
	}
	b.aliveMinions++
}

// Draw renders the boss core with its orbiting segment ring.
func (b *Boss) Draw(ctx DrawContext) error {
	// Flash on hit (skip a frame)
	if b.hitFlash > 0 && int(b.hitFlash*40)%2 == 0 {
		return nil
	}

	positions := WorldToScreen(b.X, b.Y, ctx.Camera, ctx.View, ctx.World)
	for i := 0; i < positions.Count; i++ {
		pos := positions.Positions[i]
		b.drawAt(ctx, pos.X, pos.Y)
	}
	return nil
}

func (b *Boss) drawAt(ctx DrawContext, screenX, screenY float64) {
	// Core hexagon
	core := ctx.Canvas.BorrowPoints(6)
	for i := range core {
		a := b.Angle + float64(i)*math.Pi/3
		core[i] = draw.Point{
			X: screenX + math.Cos(a)*b.Radius*0.6,
			Y: screenY + math.Sin(a)*b.Radius*0.6,
		}
	}
	ctx.Canvas.DrawPolygon(core, false)

	// Orbiting segments
	for s := 0; s < b.segments; s++ {
		a := -b.Angle + float64(s)*2*math.Pi/float64(b.segments)
		cx := screenX + math.Cos(a)*b.Radius
		cy := screenY + math.Sin(a)*b.Radius
		seg := ctx.Canvas.BorrowPoints(3)
		seg[0] = draw.Point{X: cx + math.Cos(a)*1.5, Y: cy + math.Sin(a)*1.5}
		seg[1] = draw.Point{X: cx + math.Cos(a+2.4), Y: cy + math.Sin(a+2.4)}
		seg[2] = draw.Point{X: cx + math.Cos(a-2.4), Y: cy + math.Sin(a-2.4)}
		ctx.Canvas.DrawPolygon(seg, false)
	}
}

// MarkDestroyed marks the boss for removal (implements Destructible).
func (b *Boss) MarkDestroyed() {
	b.Destroyed = true
}

// IsDestroyed returns true if the boss is marked for destruction.
func (b *Boss) IsDestroyed() bool {
	return b.Destroyed
}

// Tag identifies the boss archetype (implements Hostile).
func (b *Boss) Tag() string {
	return TagBoss
}

// Wave returns the wave this boss counts against (implements Hostile).
func (b *Boss) Wave() int {
	return b.WaveIndex
}

// FragmentCount is zero; the boss does not split.
func (b *Boss) FragmentCount() int {
	return 0
}

// GetPosition returns the boss core position.
func (b *Boss) GetPosition() (float64, float64) {
	return b.X, b.Y
}

// GetRadius returns the boss core collision radius.
func (b *Boss) GetRadius() float64 {
	return b.Radius
}

var _ Hostile = (*Boss)(nil)
