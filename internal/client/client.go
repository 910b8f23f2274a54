package client

import (
	"bufio"
	"io"
	"time"

	"github.com/fgferre/roguefield/internal/draw"
	"github.com/fgferre/roguefield/internal/game"
	"github.com/fgferre/roguefield/internal/input"
	"github.com/fgferre/roguefield/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       game.GameServer
	handle       *game.ClientHandle
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	reader       *bufio.Reader
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(gs game.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	// Set up view dimensions
	state.View = object.Screen{
		Width:   game.ViewWidth,
		Height:  game.ViewHeight,
		CenterX: game.ViewWidth / 2,
		CenterY: game.ViewHeight / 2,
	}

	// Camera starts at world center
	state.Camera = object.Camera{
		X: float64(game.WorldWidth) / 2,
		Y: float64(game.WorldHeight) / 2,
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, game.ViewWidth, game.ViewHeight)
	canvas.SetOffset(offsetCol, offsetRow)
	chunkWriter := draw.NewChunkWriter(w, offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		canvas:       canvas,
		chunkWriter:  chunkWriter,
		reader:       r,
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		// Process input
		c.processInput()

		// Check for server events
		c.processServerEvents()

		// Handle screen resize
		c.updateScreen()

		// Handle game state
		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateDead:
			c.updateDeadState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		// Draw frame
		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < game.ClientTargetFrameTime {
			time.Sleep(game.ClientTargetFrameTime - elapsed)
		}
	}

	// Unregister from server
	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and sends it to the server.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > game.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > game.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit {
		c.state.Running = false
	}

	// Send input to server if playing
	if c.state.GameState == GameStatePlaying {
		c.server.SendInput(c.handle.ID, c.state.Input)
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case ev, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch ev.Type {
			case game.EventPlayerDied:
				c.state.Lives--
				c.state.GameState = GameStateDead
				c.state.Player = nil
				c.state.RespawnTimeRemaining = game.RespawnTimeoutSeconds
			case game.EventScoreAdd:
				c.state.Score += ev.ScoreAdd
			case game.EventWaveStarted:
				c.state.waveBanner = ev.Wave
				c.state.waveBannerTimer = 2.5
			case game.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = game.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(c.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.writer)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = termWidth
	renderHeight = termHeight
	if renderWidth > game.MaxTermWidth {
		renderWidth = game.MaxTermWidth
	}
	if renderHeight > game.MaxTermHeight {
		renderHeight = game.MaxTermHeight
	}
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	if c.state.Input.Space || c.state.Input.Enter {
		c.startGame()
	}
}

// updatePlayingState handles the playing state.
func (c *Client) updatePlayingState() {
	// Decrement invincibility timer
	if c.state.InvincibleTime > 0 {
		c.state.InvincibleTime -= c.state.delta.Seconds()
		if c.state.InvincibleTime < 0 {
			c.state.InvincibleTime = 0
		}
	}

	if c.state.waveBannerTimer > 0 {
		c.state.waveBannerTimer -= c.state.delta.Seconds()
	}

	// Update camera to follow player
	c.state.Player = c.server.GetClientPlayer(c.handle.ID)
	if c.state.Player != nil {
		px, py := c.state.Player.GetPosition()
		c.state.Camera.X = px
		c.state.Camera.Y = py
	}
}

// updateDeadState handles the death screen.
func (c *Client) updateDeadState() {
	if c.state.RespawnTimeRemaining > 0 {
		c.state.RespawnTimeRemaining -= c.state.delta.Seconds()
		if c.state.RespawnTimeRemaining < 0 {
			c.state.RespawnTimeRemaining = 0
		}
	}
	if (c.state.Input.Space || c.state.Input.Enter) && c.state.RespawnTimeRemaining <= 0 {
		c.startGame()
	}
}

// startGame starts or restarts the game.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)

	if c.state.GameState == GameStateStart || c.state.Lives <= 0 {
		// Full restart
		c.state.Score = 0
		c.state.Lives = game.InitialLives
	}

	// Request server to spawn player
	c.server.SpawnPlayer(c.handle.ID)
	c.state.Player = c.server.GetClientPlayer(c.handle.ID)

	// Reset camera to player position
	if c.state.Player != nil {
		px, py := c.state.Player.GetPosition()
		c.state.Camera.X = px
		c.state.Camera.Y = py
	}

	// Grant invincibility on spawn
	c.state.InvincibleTime = game.InvincibilitySeconds

	c.state.GameState = GameStatePlaying
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
