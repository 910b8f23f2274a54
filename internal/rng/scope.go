// Package rng provides hierarchical, seed-derived random streams.
//
// A Scope is a named random stream whose seed is a pure function of its
// parent's seed and a string label. Forking the same label off the same
// parent always yields the same child stream, independent of how many
// draws the parent or any sibling has made. This property is what makes
// the wave engine replayable from a single root seed.
package rng

import (
	"encoding/binary"
	"hash/fnv"
	"math/rand"
	"strings"
)

// Scope is a named, seeded random stream. It owns its generator; once
// forked, a scope shares no mutable state with its parent or siblings.
type Scope struct {
	seed  int64
	label string
	src   *rand.Rand
}

// NewScope creates a scope with the given seed and label.
func NewScope(seed int64, label string) *Scope {
	return &Scope{
		seed:  seed,
		label: label,
		src:   rand.New(rand.NewSource(seed)),
	}
}

// childSeed derives a child seed from a parent seed and label.
// Pure in (parent, label): no generator state is consumed.
func childSeed(parent int64, label string) int64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(parent))
	_, _ = h.Write(buf[:])
	_, _ = h.Write([]byte("/"))
	_, _ = h.Write([]byte(label))
	return int64(h.Sum64())
}

// Fork derives a child scope from this scope's seed and the given label.
// The child's seed depends only on (parent seed, label), never on how many
// values have been drawn from the parent.
func (s *Scope) Fork(label string) *Scope {
	child := childSeed(s.seed, label)
	full := label
	if s.label != "" {
		full = s.label + "/" + label
	}
	return NewScope(child, full)
}

// Float returns a uniformly distributed value in [0, 1).
func (s *Scope) Float() float64 {
	return s.src.Float64()
}

// Range returns a uniformly distributed value in [min, max).
// If max <= min, min is returned.
func (s *Scope) Range(min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + s.src.Float64()*(max-min)
}

// Int returns a uniformly distributed integer in [min, max] (inclusive).
// If max <= min, min is returned.
func (s *Scope) Int(min, max int) int {
	if max <= min {
		return min
	}
	return min + s.src.Intn(max-min+1)
}

// Reset reseeds the scope's generator, restarting its sequence.
func (s *Scope) Reset(seed int64) {
	s.seed = seed
	s.src = rand.New(rand.NewSource(seed))
}

// Seed returns the seed this scope was created (or last reset) with.
func (s *Scope) Seed() int64 {
	return s.seed
}

// Label returns the scope's full label path (e.g. "spawn/wave-3/spawn-index-0").
func (s *Scope) Label() string {
	return s.label
}

// ShortLabel returns the last path element of the scope's label.
func (s *Scope) ShortLabel() string {
	if i := strings.LastIndexByte(s.label, '/'); i >= 0 {
		return s.label[i+1:]
	}
	return s.label
}
