package game

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/config"
	"github.com/fgferre/roguefield/internal/wave"
)

// View resolution - the visible viewport in logical units.
// Actual rendering scales to fit terminal size.
const (
	ViewWidth  = 120 // Logical viewport width
	ViewHeight = 80  // Logical viewport height (in sub-pixels, so 40 terminal rows)
)

// World dimensions - the total game area (larger than viewport).
// Ship stays centered while the camera follows it.
const (
	WorldWidth  = 400 // Total world width
	WorldHeight = 300 // Total world height
)

// Scoring
const (
	ScoreLargeAsteroid  = 20
	ScoreMediumAsteroid = 50
	ScoreSmallAsteroid  = 100
	ScoreDrone          = 40
	ScoreHunter         = 75
	ScoreBoss           = 500
)

// Player
const (
	InitialLives          = 3
	InvincibilitySeconds  = 3.0
	PlayerBlinkFrequency  = 10.0 // Hz
	MaxUsernameLength     = 16   // Maximum display length for player usernames
	RespawnTimeoutSeconds = 3.0  // Delay before a dead player may respawn
)

// Wave progression defaults. Policy and seed can be overridden through
// the environment (WAVE_POLICY, WAVE_SEED).
const (
	WaveBaseCount        = 4
	WaveGrowthFactor     = 1.3
	WaveMaxCount         = 40
	WaveBossInterval     = 5
	WaveCountdownSeconds = 3.0
	WaveSpawnsPerFrame   = 2

	SpawnEdgeInset    = 1.0
	SpawnSafeDistance = 30.0
	SpawnRingRange    = 20.0
	SpawnMargin       = 2.0
	SpawnMaxAttempts  = 10
	SpawnTolerance    = 5.0

	BossEntranceEdge  = "top"
	BossSafeDistance  = 40.0
	BossEntryPadding  = 12.0
	ReconcileInterval = 5 * time.Second
	ReconcileDrift    = 1
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
	MaxTermWidth          = 240 // Cap render area on very wide terminals
	MaxTermHeight         = 70  // Cap render area on very tall terminals
)

// Server tick rate
const (
	ServerTickRate = 60
	ServerTickTime = time.Second / ServerTickRate
)

// WaveSeed returns the run seed, from WAVE_SEED or the current time.
func WaveSeed() int64 {
	return config.GetEnvInt64("WAVE_SEED", time.Now().UnixNano())
}

// WavePolicy returns the configured spawn policy (WAVE_POLICY, default safe-distance).
func WavePolicy() wave.SpawnPolicy {
	return wave.PolicyByName(config.GetEnv("WAVE_POLICY", "safe-distance"))
}

// WaveTables returns the wave composition tables, honoring a WAVE_TABLES
// override file. A rejected override is logged and the compiled-in
// defaults are used instead.
func WaveTables(logger *log.Logger) *wave.Tables {
	path := config.GetEnv("WAVE_TABLES", "")
	if path == "" {
		return wave.DefaultTables()
	}
	if logger == nil {
		logger = log.Default()
	}
	t, err := wave.LoadTables(path)
	if err != nil {
		logger.Warn("wave table override rejected, using defaults", "path", path, "err", err)
		return wave.DefaultTables()
	}
	logger.Info("loaded wave table override", "path", path)
	return t
}

// WaveDiagnostics reports whether the accounting reconciler should run
// (WAVE_DIAGNOSTICS, default off).
func WaveDiagnostics() bool {
	return config.GetEnvBool("WAVE_DIAGNOSTICS", false)
}

// ReconcileTolerance returns the accounting drift tolerance
// (WAVE_DRIFT_TOLERANCE, default 1).
func ReconcileTolerance() int {
	return config.GetEnvInt("WAVE_DRIFT_TOLERANCE", ReconcileDrift)
}

// ResolverDefaults returns the wave composition settings used by the server.
func ResolverDefaults(policy wave.SpawnPolicy) wave.ResolverConfig {
	return wave.ResolverConfig{
		BaseCount:    WaveBaseCount,
		GrowthFactor: WaveGrowthFactor,
		MaxCount:     WaveMaxCount,
		BossInterval: WaveBossInterval,
		WeightTable:  policy.WeightTable(),
		Boss: wave.BossSpec{
			Type:         wave.TypeBoss,
			Entrance:     BossEntranceEdge,
			SafeDistance: BossSafeDistance,
			EntryPadding: BossEntryPadding,
			Minions:      []wave.TypeTag{wave.TypeDrone, wave.TypeHunter},
		},
		Support: []wave.SupportSpec{
			{Type: wave.TypeDrone, StartWave: 3, Baseline: 1, Scaling: 0.5, WeightMultiplier: 1},
			{Type: wave.TypeHunter, StartWave: 6, Baseline: 1, Scaling: 0.25, WeightMultiplier: 1},
		},
	}
}

// SolverDefaults returns the spawn placement settings used by the server.
func SolverDefaults() wave.SolverConfig {
	return wave.SolverConfig{
		EdgeInset:    SpawnEdgeInset,
		SafeDistance: SpawnSafeDistance,
		RingRange:    SpawnRingRange,
		Margin:       SpawnMargin,
		MaxAttempts:  SpawnMaxAttempts,
		Tolerance:    SpawnTolerance,
	}
}

// DirectorDefaults returns the wave progression settings used by the server.
func DirectorDefaults() wave.DirectorConfig {
	return wave.DirectorConfig{
		CountdownSeconds: WaveCountdownSeconds,
		SpawnsPerFrame:   WaveSpawnsPerFrame,
	}
}
