// Package event provides a minimal in-process event channel for wave
// lifecycle notifications. Dispatch is synchronous and single-threaded;
// handlers run on the caller's goroutine (the server tick).
package event

// Name identifies an event kind.
type Name string

// Wave lifecycle events emitted by the wave director.
const (
	WaveStarted     Name = "wave-started"
	WaveComplete    Name = "wave-complete"
	BossWaveStarted Name = "boss-wave-started"
)

// Handler receives an event payload.
type Handler func(payload any)

// Bus dispatches named events to registered handlers.
type Bus struct {
	handlers map[Name][]Handler
}

// NewBus creates an empty event bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[Name][]Handler)}
}

// On registers a handler for the named event.
func (b *Bus) On(name Name, h Handler) {
	if h == nil {
		return
	}
	b.handlers[name] = append(b.handlers[name], h)
}

// Emit delivers payload to every handler registered for name,
// in registration order.
func (b *Bus) Emit(name Name, payload any) {
	for _, h := range b.handlers[name] {
		h(payload)
	}
}
