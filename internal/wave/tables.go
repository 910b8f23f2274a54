package wave

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed waves.yaml
var defaultTablesYAML []byte

// Weight table names selectable by spawn policy.
const (
	WeightsLegacy   = "legacy"
	WeightsBalanced = "balanced"
)

// Tables holds the hand-authored early waves and the size weight tables.
type Tables struct {
	Authored []AuthoredWave                   `yaml:"authored"`
	Weights  map[string]map[SizeClass]float64 `yaml:"weights"`
}

// AuthoredWave is a fixed composition for one onboarding wave.
type AuthoredWave struct {
	Index  int             `yaml:"index"`
	Groups []AuthoredGroup `yaml:"groups"`
}

// AuthoredGroup is one group entry of an authored wave.
type AuthoredGroup struct {
	Type  TypeTag   `yaml:"type"`
	Count int       `yaml:"count"`
	Size  SizeClass `yaml:"size"`
}

// DefaultTables parses the compiled-in wave tables. The embedded file is
// validated at package init, so this never fails at runtime.
func DefaultTables() *Tables {
	t, err := parseTables(defaultTablesYAML)
	if err != nil {
		panic(fmt.Sprintf("wave: embedded tables invalid: %v", err))
	}
	return t
}

// LoadTables reads and validates a wave table file, allowing an external
// override of the compiled-in defaults.
func LoadTables(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read wave tables: %w", err)
	}
	t, err := parseTables(data)
	if err != nil {
		return nil, fmt.Errorf("parse wave tables %s: %w", path, err)
	}
	return t, nil
}

func parseTables(data []byte) (*Tables, error) {
	var t Tables
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (t *Tables) validate() error {
	seen := make(map[int]bool, len(t.Authored))
	for _, w := range t.Authored {
		if w.Index <= 0 {
			return fmt.Errorf("authored wave index %d: must be positive", w.Index)
		}
		if seen[w.Index] {
			return fmt.Errorf("authored wave index %d: duplicate entry", w.Index)
		}
		seen[w.Index] = true
		for _, g := range w.Groups {
			if g.Count < 0 {
				return fmt.Errorf("wave %d group %q: negative count %d", w.Index, g.Type, g.Count)
			}
			switch g.Type {
			case TypeAsteroid, TypeDrone, TypeHunter:
			default:
				return fmt.Errorf("wave %d: unknown enemy type %q", w.Index, g.Type)
			}
			switch g.Size {
			case SizeUnset, SizeSmall, SizeMedium, SizeLarge:
			default:
				return fmt.Errorf("wave %d group %q: unknown size %q", w.Index, g.Type, g.Size)
			}
		}
	}
	for name, weights := range t.Weights {
		if len(weights) == 0 {
			return fmt.Errorf("weight table %q: empty", name)
		}
		for size, w := range weights {
			if w < 0 {
				return fmt.Errorf("weight table %q: negative weight %f for %q", name, w, size)
			}
		}
	}
	return nil
}

// Lookup returns the authored composition for a wave index, if one exists.
func (t *Tables) Lookup(index int) (*AuthoredWave, bool) {
	for i := range t.Authored {
		if t.Authored[i].Index == index {
			return &t.Authored[i], true
		}
	}
	return nil, false
}

// SizeWeights returns the named weight table, or nil if it is not defined.
func (t *Tables) SizeWeights(name string) map[SizeClass]float64 {
	return t.Weights[name]
}
