package event

import "testing"

func TestEmitDeliversInRegistrationOrder(t *testing.T) {
	b := NewBus()
	var order []int
	b.On(WaveStarted, func(any) { order = append(order, 1) })
	b.On(WaveStarted, func(any) { order = append(order, 2) })
	b.On(WaveComplete, func(any) { order = append(order, 99) })

	b.Emit(WaveStarted, nil)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("handler order = %v, want [1 2]", order)
	}
}

func TestEmitPassesPayload(t *testing.T) {
	b := NewBus()
	var got any
	b.On(BossWaveStarted, func(p any) { got = p })

	b.Emit(BossWaveStarted, 42)

	if got != 42 {
		t.Fatalf("payload = %v, want 42", got)
	}
}

func TestEmitWithoutHandlers(t *testing.T) {
	b := NewBus()
	b.Emit(WaveComplete, "ignored") // must not panic
}

func TestNilHandlerIgnored(t *testing.T) {
	b := NewBus()
	b.On(WaveStarted, nil)
	b.Emit(WaveStarted, nil) // must not panic
}
