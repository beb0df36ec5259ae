package controller

import (
	"sync"
	"testing"
	"time"

	"github.com/calebmoran/glowlink/internal/lighting"
)

type emitRecorder struct {
	mu     sync.Mutex
	emits  []lighting.State
	device []string
}

func (r *emitRecorder) record(device string, state lighting.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.emits = append(r.emits, state)
	r.device = append(r.device, device)
}

func (r *emitRecorder) snapshot() []lighting.State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]lighting.State, len(r.emits))
	copy(out, r.emits)
	return out
}

func TestDebouncer_CoalescesBurst(t *testing.T) {
	rec := &emitRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)
	defer d.Stop()

	d.Observe("Ben", lighting.State{Mode: lighting.ModeColour, Colour: "#111111"})
	d.Observe("Ben", lighting.State{Mode: lighting.ModeColour, Colour: "#222222"})
	d.Observe("Ben", lighting.State{Mode: lighting.ModeColour, Colour: "#333333"})

	time.Sleep(80 * time.Millisecond)

	emits := rec.snapshot()
	if len(emits) != 1 {
		t.Fatalf("got %d emits for one burst, want 1", len(emits))
	}
	if emits[0].Colour != "#333333" {
		t.Errorf("emitted colour = %q, want latest value", emits[0].Colour)
	}
}

func TestDebouncer_FixedWindowNotExtended(t *testing.T) {
	rec := &emitRecorder{}
	d := NewDebouncer(50*time.Millisecond, rec.record)
	defer d.Stop()

	// A steady stream faster than the window must still yield an emit per
	// window, not defer forever.
	deadline := time.Now().Add(130 * time.Millisecond)
	for time.Now().Before(deadline) {
		d.Observe("Ben", lighting.State{Mode: lighting.ModeRainbow, Speed: 5})
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(80 * time.Millisecond)

	if got := len(rec.snapshot()); got < 2 {
		t.Errorf("got %d emits for a continuous stream, want at least 2", got)
	}
}

func TestDebouncer_PerDeviceIsolation(t *testing.T) {
	rec := &emitRecorder{}
	d := NewDebouncer(20*time.Millisecond, rec.record)
	defer d.Stop()

	d.Observe("Ben", lighting.State{Mode: lighting.ModeColour, Colour: "#0000ff"})
	d.Observe("Roo", lighting.State{Mode: lighting.ModeRainbow, Speed: 3})

	time.Sleep(60 * time.Millisecond)

	rec.mu.Lock()
	defer rec.mu.Unlock()
	if len(rec.emits) != 2 {
		t.Fatalf("got %d emits, want one per device", len(rec.emits))
	}
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	rec := &emitRecorder{}
	d := NewDebouncer(30*time.Millisecond, rec.record)

	d.Observe("Ben", lighting.State{Mode: lighting.ModeColour, Colour: "#ffffff"})
	d.Stop()

	time.Sleep(60 * time.Millisecond)

	if got := len(rec.snapshot()); got != 0 {
		t.Errorf("got %d emits after Stop(), want 0", got)
	}
}
