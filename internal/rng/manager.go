package rng

import "github.com/charmbracelet/log"

// Standing scope labels. Each subsystem draws from its own stream so that
// changes in one consumer never shift the sequences seen by another.
const (
	LabelSpawn     = "spawn"
	LabelVariants  = "variants"
	LabelFragments = "fragments"
)

// Manager owns the root seed and the three standing scopes forked from it.
// The initial seeds of the standing scopes are captured at construction so
// a full reseed-to-start is possible when a run restarts with the same root.
type Manager struct {
	root      int64
	spawn     *Scope
	variants  *Scope
	fragments *Scope

	// fallback substitutes for invalid scopes handed in by callers.
	// Deterministic on its own but divorced from the root seed.
	fallback *Scope

	logger *log.Logger
}

// NewManager creates a manager rooted at the given seed.
// A nil logger falls back to log.Default().
func NewManager(rootSeed int64, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	root := NewScope(rootSeed, "")
	return &Manager{
		root:      rootSeed,
		spawn:     root.Fork(LabelSpawn),
		variants:  root.Fork(LabelVariants),
		fragments: root.Fork(LabelFragments),
		fallback:  NewScope(rootSeed^0x5f3759df, "fallback"),
		logger:    logger,
	}
}

// RootSeed returns the root seed the manager was constructed with.
func (m *Manager) RootSeed() int64 {
	return m.root
}

// Spawn returns the standing scope for placement draws.
func (m *Manager) Spawn() *Scope {
	return m.spawn
}

// Variants returns the standing scope for roster/variant draws.
func (m *Manager) Variants() *Scope {
	return m.variants
}

// Fragments returns the standing scope for destruction fragment draws.
func (m *Manager) Fragments() *Scope {
	return m.fragments
}

// Fork derives a child scope from parent. If parent is not a usable
// generator the manager substitutes its internal fallback stream instead
// of failing, so the frame loop never halts; the substitution breaks
// root-seed determinism and is logged as such.
func (m *Manager) Fork(parent *Scope, label string) *Scope {
	if parent == nil || parent.src == nil {
		m.logger.Warn("invalid random scope, substituting fallback generator; replay determinism is broken",
			"label", label)
		return m.fallback.Fork(label)
	}
	return parent.Fork(label)
}

// Reset reseeds the given scope. A nil scope is ignored.
func (m *Manager) Reset(scope *Scope, seed int64) {
	if scope == nil {
		return
	}
	scope.Reset(seed)
}

// ResetAll restores the three standing scopes to their initial seeds in one
// synchronous step. Used when restarting a run with the same root seed.
func (m *Manager) ResetAll() {
	m.spawn.Reset(childSeed(m.root, LabelSpawn))
	m.variants.Reset(childSeed(m.root, LabelVariants))
	m.fragments.Reset(childSeed(m.root, LabelFragments))
}
