package game

import (
	"context"
	"math/rand"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/fgferre/roguefield/internal/event"
	"github.com/fgferre/roguefield/internal/object"
	"github.com/fgferre/roguefield/internal/rng"
	"github.com/fgferre/roguefield/internal/wave"
)

// GameServer is the interface clients use to communicate with the game server.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	SendInput(clientID int, input object.Input)
	GetSnapshot() *WorldSnapshot
	GetClientPlayer(clientID int) *object.User
	SpawnPlayer(clientID int)
	RemovePlayer(clientID int)
}

// Server manages the shared world state and processes inputs from all clients.
// Wave progression runs inside the server loop so every enemy spawn and
// destruction is accounted for on the same goroutine.
type Server struct {
	world        *WorldState
	registry     *worldRegistry
	director     *wave.Director
	reconciler   *wave.Reconciler
	events       *event.Bus
	logger       *log.Logger
	snapshot     atomic.Pointer[WorldSnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	inputChan    chan ClientInput
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex

	// Double-buffered snapshot objects to avoid allocations
	snapshotBufs [2][]object.Object
	snapshotIdx  int

	// Objects marked for removal (deferred compaction)
	toRemove map[object.Object]struct{}

	// Reusable player set to avoid per-frame allocation
	playerSet map[object.Object]struct{}

	// Accounting reconciliation is a diagnostic aid, off unless enabled
	// through the environment.
	diagnostics   bool
	lastReconcile time.Time
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string // Display name for this client
	Player   *object.User
	Input    object.Input
	Score    int
	EventsCh chan ClientEvent // Events sent to client (death, etc.)
}

// ClientInput represents input from a specific client.
type ClientInput struct {
	ClientID int
	Input    object.Input
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type     ClientEventType
	ScoreAdd int // For score events
	Wave     int // For wave events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventPlayerDied ClientEventType = iota
	EventScoreAdd
	EventWaveStarted
	EventServerShutdown
)

// NewServer creates a new game server seeded from the environment.
func NewServer(logger *log.Logger) *Server {
	return NewSeededServer(WaveSeed(), WavePolicy(), logger)
}

// NewSeededServer creates a game server with an explicit run seed and policy.
func NewSeededServer(seed int64, policy wave.SpawnPolicy, logger *log.Logger) *Server {
	world := NewWorldState()
	world.World = object.Screen{
		Width:   WorldWidth,
		Height:  WorldHeight,
		CenterX: WorldWidth / 2,
		CenterY: WorldHeight / 2,
	}
	world.Screen = world.World
	world.InitGrids()

	registry := newWorldRegistry(world)
	bus := event.NewBus()
	mgr := rng.NewManager(seed, logger)
	resolver := wave.NewResolver(ResolverDefaults(policy), WaveTables(logger), logger)
	solver := wave.NewSolver(SolverDefaults(), registry, registry, logger)
	director := wave.NewDirector(DirectorDefaults(), policy, mgr, resolver, solver, registry, bus, logger)
	world.onReinforce = director.OnReinforcement
	world.effects = mgr.Fork(mgr.Variants(), "effects")

	s := &Server{
		world:         world,
		registry:      registry,
		director:      director,
		reconciler:    wave.NewReconciler(director, registry, ReconcileTolerance(), logger),
		events:        bus,
		logger:        logger,
		clients:       make(map[int]*ClientHandle),
		nextClientID:  1,
		inputChan:     make(chan ClientInput, 256),
		registerCh:    make(chan *ClientHandle, 16),
		unregisterCh:  make(chan int, 16),
		toRemove:      make(map[object.Object]struct{}),
		playerSet:     make(map[object.Object]struct{}),
		diagnostics:   WaveDiagnostics(),
		lastReconcile: time.Now(),
	}

	// Wave events fire from inside updateWorld, which already holds the
	// server lock, so the handler must not reacquire it.
	bus.On(event.WaveStarted, func(payload any) {
		st, ok := payload.(wave.State)
		if !ok {
			return
		}
		logger.Info("wave started", "wave", st.WaveIndex, "total", st.Total, "boss", st.BossWave)
		s.broadcastLocked(ClientEvent{Type: EventWaveStarted, Wave: st.WaveIndex})
	})
	bus.On(event.WaveComplete, func(payload any) {
		if st, ok := payload.(wave.State); ok {
			logger.Debug("wave complete", "wave", st.WaveIndex, "killed", st.Killed)
		}
	})

	// Create initial empty snapshot
	s.snapshot.Store(&WorldSnapshot{
		Objects: []object.Object{},
		World:   world.World,
	})

	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	lastTime := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()
		s.world.Delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process registrations/unregistrations
		s.processRegistrations()

		// Collect all pending inputs
		s.collectInputs()

		// Update world state and advance the wave machine
		s.updateWorld()

		// Create new snapshot for clients
		s.createSnapshot()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < ServerTickTime {
			time.Sleep(ServerTickTime - elapsed)
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.broadcast(ClientEvent{Type: EventServerShutdown})

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// broadcast sends an event to every connected client, dropping on full buffers.
func (s *Server) broadcast(ev ClientEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.broadcastLocked(ev)
}

// broadcastLocked is broadcast for callers already holding the server lock.
func (s *Server) broadcastLocked(ev ClientEvent) {
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ev:
		default:
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	if len(username) > MaxUsernameLength {
		username = username[:MaxUsernameLength]
	}

	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: username,
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// SendInput sends input from a client to the server.
func (s *Server) SendInput(clientID int, input object.Input) {
	select {
	case s.inputChan <- ClientInput{ClientID: clientID, Input: input}:
	default:
		// Input channel full, drop input
	}
}

// GetSnapshot returns the current world snapshot.
func (s *Server) GetSnapshot() *WorldSnapshot {
	return s.snapshot.Load()
}

// GetClientPlayer returns the player object for a client (thread-safe).
func (s *Server) GetClientPlayer(clientID int) *object.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if handle, ok := s.clients[clientID]; ok {
		return handle.Player
	}
	return nil
}

// SpawnPlayer spawns a player for the given client.
func (s *Server) SpawnPlayer(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}

	// Remove existing player if any
	if handle.Player != nil {
		s.removeObjectLocked(handle.Player)
	}

	// Create new player near the world center
	x := float64(s.world.World.CenterX) + (rand.Float64()-0.5)*float64(s.world.World.Width)/4
	y := float64(s.world.World.CenterY) + (rand.Float64()-0.5)*float64(s.world.World.Height)/4
	player := object.NewUser(clientID, x, y)
	player.Username = handle.Username
	player.Invincibility = InvincibilitySeconds
	handle.Player = player
	s.world.AddObject(player)
}

// RemovePlayer removes the player for a client.
func (s *Server) RemovePlayer(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok || handle.Player == nil {
		return
	}

	s.removeObjectLocked(handle.Player)
	handle.Player = nil
}

// removeObjectLocked removes a single object from the world. Must be called with lock held.
func (s *Server) removeObjectLocked(target object.Object) {
	s.world.RemoveObject(target)
	kept := s.world.Objects[:0]
	for _, obj := range s.world.Objects {
		if obj != target {
			kept = append(kept, obj)
		}
	}
	s.world.Objects = kept
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
		case clientID := <-s.unregisterCh:
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				// Remove player from world
				if handle.Player != nil {
					s.removeObjectLocked(handle.Player)
				}
				close(handle.EventsCh)
				delete(s.clients, clientID)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectInputs gathers all pending inputs from clients.
func (s *Server) collectInputs() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case ci := <-s.inputChan:
			if handle, ok := s.clients[ci.ClientID]; ok {
				handle.Input = ci.Input
			}
		default:
			return
		}
	}
}

// updateWorld updates the world state based on collected inputs.
func (s *Server) updateWorld() {
	s.mu.Lock()
	defer s.mu.Unlock()

	dt := s.world.Delta.Seconds()

	// Reuse player set to avoid per-frame allocation
	clear(s.playerSet)
	hasPlayers := false
	for _, handle := range s.clients {
		if handle.Player != nil {
			s.playerSet[handle.Player] = struct{}{}
			hasPlayers = true
		}
	}

	// Kick off the first wave once someone is in the arena.
	if hasPlayers && s.director.State().Phase == wave.PhaseIdle {
		s.director.StartNextWave()
	}

	// Update each player with their input
	for _, handle := range s.clients {
		if handle.Player != nil {
			ctx := object.UpdateContext{
				Delta:   s.world.Delta,
				Input:   handle.Input,
				Screen:  s.world.Screen,
				Spawner: s.world,
				Objects: s.world.Objects,
				Effects: s.world.effects,
			}
			remove, _ := handle.Player.Update(ctx)
			if remove {
				handle.Player = nil
			}
		}
	}

	// Update non-player objects with empty input
	ctx := object.UpdateContext{
		Delta:   s.world.Delta,
		Input:   object.Input{},
		Screen:  s.world.Screen,
		Spawner: s.world,
		Objects: s.world.Objects,
		Effects: s.world.effects,
	}

	kept := s.world.Objects[:0]
	for _, obj := range s.world.Objects {
		// Skip players - already updated (O(1) lookup)
		if _, isPlayer := s.playerSet[obj]; isPlayer {
			kept = append(kept, obj)
			continue
		}

		remove, _ := obj.Update(ctx)
		if !remove {
			kept = append(kept, obj)
		} else {
			s.world.RemoveObject(obj)
			s.reportDestroyed(obj)
			object.ReleaseObject(obj)
		}
	}
	s.world.Objects = kept
	s.world.FlushSpawned()

	// Check collisions
	s.checkCollisions()

	// Advance waves after collisions so this frame's kills are counted
	s.director.Update(dt)

	if s.diagnostics && time.Since(s.lastReconcile) >= ReconcileInterval {
		s.lastReconcile = time.Now()
		s.reconciler.Check()
	}
}

// reportDestroyed forwards a hostile's destruction to the wave director
// and notifies the wave's boss when one of its minions dies.
func (s *Server) reportDestroyed(obj object.Object) {
	h, ok := obj.(object.Hostile)
	if !ok || !h.IsDestroyed() {
		return
	}

	s.director.OnEnemyDestroyed(wave.DestroyedEvent{
		Type:          wave.TypeTag(h.Tag()),
		FragmentCount: h.FragmentCount(),
		WaveIndex:     h.Wave(),
	})

	switch h.Tag() {
	case object.TagDrone, object.TagHunter:
		if b := s.world.BossOfWave(h.Wave()); b != nil {
			b.MinionDied()
		}
	}
}

// createSnapshot creates an immutable snapshot of the world state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Use double-buffered slice to avoid allocations
	idx := s.snapshotIdx
	s.snapshotIdx = 1 - s.snapshotIdx // Toggle for next frame

	// Grow buffer if needed, otherwise reuse
	buf := s.snapshotBufs[idx]
	if cap(buf) < len(s.world.Objects) {
		buf = make([]object.Object, len(s.world.Objects))
		s.snapshotBufs[idx] = buf
	}
	buf = buf[:len(s.world.Objects)]
	copy(buf, s.world.Objects)

	snapshot := &WorldSnapshot{
		Objects:     buf,
		UserObjects: object.FilterUsers(buf),
		Players:     len(s.clients),
		World:       s.world.World,
		Delta:       s.world.Delta,
		Wave:        s.director.State(),
		TopScores:   s.topScoresLocked(5),
	}

	s.snapshot.Store(snapshot)
}

// topScoresLocked returns the top n client scores. Must be called with
// at least a read lock held.
func (s *Server) topScoresLocked(n int) []TopScoreEntry {
	entries := make([]TopScoreEntry, 0, len(s.clients))
	for _, handle := range s.clients {
		entries = append(entries, TopScoreEntry{
			Username: handle.Username,
			Score:    handle.Score,
			clientID: handle.ID,
		})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Score != entries[j].Score {
			return entries[i].Score > entries[j].Score
		}
		return entries[i].clientID < entries[j].clientID
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
