package game

import (
	"github.com/fgferre/roguefield/internal/object"
	"github.com/fgferre/roguefield/internal/physics"
)

// collidable is satisfied by every hostile type that takes part in
// circle-based collision checks.
type collidable interface {
	GetPosition() (float64, float64)
	GetRadius() float64
}

// collectCollidables extracts projectiles, asteroids and hostiles from the
// object list. Uses pre-allocated slices to avoid allocations. Asteroids are
// collected twice: once as concrete pointers for bouncing, once as hostiles
// for hit detection.
func collectCollidables(objects []object.Object, projectiles *[]*object.Projectile, asteroids *[]*object.Asteroid, hostiles *[]object.Hostile) {
	*projectiles = (*projectiles)[:0]
	*asteroids = (*asteroids)[:0]
	*hostiles = (*hostiles)[:0]

	for _, obj := range objects {
		switch o := obj.(type) {
		case *object.Projectile:
			*projectiles = append(*projectiles, o)
		case *object.Asteroid:
			*asteroids = append(*asteroids, o)
			*hostiles = append(*hostiles, o)
		case object.Hostile:
			*hostiles = append(*hostiles, o)
		}
	}
}

// populateGrids clears and re-inserts all collidables into the spatial grids.
func populateGrids(
	asteroids []*object.Asteroid,
	projectiles []*object.Projectile,
	asteroidGrid *physics.SpatialGrid,
	projectileGrid *physics.SpatialGrid,
) {
	asteroidGrid.Clear()
	for i, a := range asteroids {
		asteroidGrid.Insert(a.X, a.Y, i)
	}

	projectileGrid.Clear()
	for i, p := range projectiles {
		projectileGrid.Insert(p.X, p.Y, i)
	}
}

// asteroidScore returns the score for destroying an asteroid of the given size.
func asteroidScore(size object.AsteroidSize) int {
	switch size {
	case object.AsteroidLarge:
		return ScoreLargeAsteroid
	case object.AsteroidMedium:
		return ScoreMediumAsteroid
	case object.AsteroidSmall:
		return ScoreSmallAsteroid
	default:
		return 0
	}
}

// hostileScore returns the score for destroying a hostile.
func hostileScore(h object.Hostile) int {
	switch h.Tag() {
	case object.TagAsteroid:
		if a, ok := h.(*object.Asteroid); ok {
			return asteroidScore(a.Size)
		}
		return 0
	case object.TagDrone:
		return ScoreDrone
	case object.TagHunter:
		return ScoreHunter
	case object.TagBoss:
		return ScoreBoss
	default:
		return 0
	}
}

// protected reports whether a hostile still has spawn protection.
func protected(h object.Hostile) bool {
	type shielded interface{ IsProtected() bool }
	if s, ok := h.(shielded); ok {
		return s.IsProtected()
	}
	return false
}

// checkCollisions detects and handles collisions. Must be called with the
// server lock held.
func (s *Server) checkCollisions() {
	collectCollidables(s.world.Objects, &s.world.projectileCache, &s.world.asteroidCache, &s.world.hostileCache)
	projectiles := s.world.projectileCache
	asteroids := s.world.asteroidCache
	hostiles := s.world.hostileCache

	populateGrids(asteroids, projectiles, s.world.asteroidGrid, s.world.projectileGrid)

	// Clear removal set for this frame
	clear(s.toRemove)

	// Projectile-hostile collisions. Hostile-owned projectiles pass
	// through hostiles so hunters cannot shoot down the wave.
	for _, p := range projectiles {
		if p.IsDestroyed() || p.OwnerID == object.HostileOwner {
			continue
		}
		for _, h := range hostiles {
			if h.IsDestroyed() || protected(h) {
				continue
			}
			c, ok := h.(collidable)
			if !ok {
				continue
			}
			hx, hy := c.GetPosition()
			if !physics.PointInCircle(p.X, p.Y, hx, hy, c.GetRadius()) {
				continue
			}
			p.MarkDestroyed()

			killed := true
			if b, isBoss := h.(*object.Boss); isBoss {
				killed = b.Hit()
			} else {
				h.MarkDestroyed()
			}

			if killed {
				if handle, ok := s.clients[p.OwnerID]; ok {
					score := hostileScore(h)
					handle.Score += score
					select {
					case handle.EventsCh <- ClientEvent{Type: EventScoreAdd, ScoreAdd: score}:
					default:
					}
				}
			}
			break
		}
	}

	// Projectile-projectile collisions
	checkProjectileProjectileCollisions(projectiles, s.world.projectileGrid)

	// Asteroid-asteroid collisions
	checkAsteroidAsteroidCollisions(asteroids, s.world.asteroidGrid)

	// Player collisions (skip invincible players)
	for _, handle := range s.clients {
		if handle.Player == nil || handle.Player.IsInvincible() {
			continue
		}
		px, py := handle.Player.GetPosition()
		pr := handle.Player.GetRadius()

		hit := false

		// Check projectile hits (skip own projectiles)
		for _, p := range projectiles {
			if p.IsDestroyed() || p.OwnerID == handle.ID {
				continue
			}
			if physics.PointInCircle(p.X, p.Y, px, py, pr) {
				p.MarkDestroyed()
				hit = true
				break
			}
		}

		// Check hostile collisions
		if !hit {
			for _, h := range hostiles {
				if h.IsDestroyed() || protected(h) {
					continue
				}
				c, ok := h.(collidable)
				if !ok {
					continue
				}
				hx, hy := c.GetPosition()
				if physics.CirclesOverlap(px, py, pr, hx, hy, c.GetRadius()) {
					hit = true
					break
				}
			}
		}

		if hit {
			// Spawn death explosion
			x, y := handle.Player.GetPosition()
			object.SpawnExplosion(x, y, 20, 25.0, 1.0, s.world.effects, s.world)

			// Mark player for removal (deferred compaction)
			s.toRemove[handle.Player] = struct{}{}
			handle.Player = nil

			// Notify client
			select {
			case handle.EventsCh <- ClientEvent{Type: EventPlayerDied}:
			default:
			}
		}
	}

	// Perform deferred compaction if needed
	if len(s.toRemove) > 0 {
		kept := s.world.Objects[:0]
		for _, obj := range s.world.Objects {
			if _, remove := s.toRemove[obj]; remove {
				s.world.RemoveObject(obj)
			} else {
				kept = append(kept, obj)
			}
		}
		s.world.Objects = kept
	}
}

// checkProjectileProjectileCollisions handles projectile-projectile collisions
// using the spatial grid to limit checks to nearby projectiles.
func checkProjectileProjectileCollisions(projectiles []*object.Projectile, grid *physics.SpatialGrid) {
	for i, p1 := range projectiles {
		if p1.IsDestroyed() {
			continue
		}
		grid.QueryAround(p1.X, p1.Y, func(j int) bool {
			if j <= i {
				return false // Skip self and already-checked pairs
			}
			p2 := projectiles[j]
			if p2.IsDestroyed() {
				return false
			}
			if physics.CirclesOverlap(p1.X, p1.Y, object.ProjectileRadius, p2.X, p2.Y, object.ProjectileRadius) {
				p1.MarkDestroyed()
				p2.MarkDestroyed()
				return true // p1 is destroyed, stop checking
			}
			return false
		})
	}
}

// checkAsteroidAsteroidCollisions handles bouncing between asteroids
// using the spatial grid to limit checks to nearby asteroids.
func checkAsteroidAsteroidCollisions(asteroids []*object.Asteroid, grid *physics.SpatialGrid) {
	for i, a1 := range asteroids {
		if a1.IsDestroyed() {
			continue
		}
		grid.QueryAround(a1.X, a1.Y, func(j int) bool {
			if j <= i {
				return false // Skip self and already-checked pairs
			}
			a2 := asteroids[j]
			if a2.IsDestroyed() {
				return false
			}
			dist := physics.Distance(a1.X, a1.Y, a2.X, a2.Y)
			minDist := a1.GetRadius() + a2.GetRadius()
			if dist < minDist && dist > 0 {
				bounceAsteroids(a1, a2, dist)
			}
			return false
		})
	}
}

// bounceAsteroids handles elastic collision between two asteroids.
func bounceAsteroids(a1, a2 *object.Asteroid, dist float64) {
	// Collision normal (from a1 to a2)
	nx := (a2.X - a1.X) / dist
	ny := (a2.Y - a1.Y) / dist

	// Relative velocity along the collision normal
	dvx := a1.VX - a2.VX
	dvy := a1.VY - a2.VY
	dvn := dvx*nx + dvy*ny

	// Don't resolve if velocities are separating
	if dvn < 0 {
		return
	}

	// Use radius squared as mass (area-based mass)
	m1 := a1.Radius * a1.Radius
	m2 := a2.Radius * a2.Radius
	totalMass := m1 + m2

	impulse := 2 * dvn / totalMass

	a1.VX -= impulse * m2 * nx
	a1.VY -= impulse * m2 * ny
	a2.VX += impulse * m1 * nx
	a2.VY += impulse * m1 * ny

	// Separate asteroids to prevent overlap
	overlap := (a1.Radius + a2.Radius) - dist
	if overlap > 0 {
		sep1 := overlap * m2 / totalMass
		sep2 := overlap * m1 / totalMass
		a1.X -= nx * sep1
		a1.Y -= ny * sep1
		a2.X += nx * sep2
		a2.Y += ny * sep2
	}
}
