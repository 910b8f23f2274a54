package wave

import "testing"

func TestReconcilerAgreesAfterCleanWave(t *testing.T) {
	d, reg := newTestDirector(20, SafeDistanceSpawn{}, nil)
	r := NewReconciler(d, reg, 1, testLogger())

	if !r.Check() {
		t.Fatal("drift reported before any wave")
	}
	d.StartNextWave()
	if !r.Check() {
		t.Fatal("drift reported for a clean wave")
	}
}

func TestReconcilerDetectsDrift(t *testing.T) {
	d, reg := newTestDirector(21, SafeDistanceSpawn{}, nil)
	r := NewReconciler(d, reg, 1, testLogger())
	d.StartNextWave()

	// Simulate double-registration on the registry side.
	reg.spawnAll[1] += 5
	if r.Check() {
		t.Fatal("drift of 5 not reported with tolerance 1")
	}
}

func TestReconcilerToleratesSmallDrift(t *testing.T) {
	d, reg := newTestDirector(22, SafeDistanceSpawn{}, nil)
	r := NewReconciler(d, reg, 2, testLogger())
	d.StartNextWave()

	reg.spawnAll[1]++
	if !r.Check() {
		t.Fatal("drift of 1 reported with tolerance 2")
	}
}

func TestReconcilerUsesPolicyView(t *testing.T) {
	d, reg := newTestDirector(23, LegacyEdgeSpawn{}, nil)
	r := NewReconciler(d, reg, 1, testLogger())
	d.StartNextWave()

	// Drift in the non-asteroid count is invisible to the legacy view.
	reg.spawnAll[1] += 10
	if !r.Check() {
		t.Fatal("legacy view flagged raw-count drift")
	}
	reg.spawnAst[1] += 10
	if r.Check() {
		t.Fatal("legacy view missed asteroid-count drift")
	}
}
