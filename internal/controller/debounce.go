package controller

import (
	"sync"
	"time"

	"github.com/calebmoran/glowlink/internal/lighting"
)

// Debouncer applies a fixed quiet window to inbound lighting echoes,
// per device.
//
// The first observation for a device starts a timer; further observations
// within the window replace the pending value but do not extend the timer.
// When the window expires the latest value is emitted. A steady stream of
// echoes therefore yields one emit per window rather than being deferred
// indefinitely.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - emit is called without the internal lock held.
type Debouncer struct {
	window time.Duration
	emit   func(device string, state lighting.State)

	mu      sync.Mutex
	pending map[string]lighting.State
	timers  map[string]*time.Timer
	closed  bool
}

// NewDebouncer creates a debouncer emitting coalesced values after each
// fixed window.
func NewDebouncer(window time.Duration, emit func(device string, state lighting.State)) *Debouncer {
	return &Debouncer{
		window:  window,
		emit:    emit,
		pending: make(map[string]lighting.State),
		timers:  make(map[string]*time.Timer),
	}
}

// Observe records an inbound lighting state for a device.
func (d *Debouncer) Observe(device string, state lighting.State) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}

	d.pending[device] = state
	if _, running := d.timers[device]; running {
		// Window already open. The value above wins at expiry; the timer
		// is deliberately not reset.
		return
	}

	d.timers[device] = time.AfterFunc(d.window, func() {
		d.fire(device)
	})
}

// fire emits the pending value for a device at window expiry.
func (d *Debouncer) fire(device string) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	state, ok := d.pending[device]
	delete(d.pending, device)
	delete(d.timers, device)
	d.mu.Unlock()

	if ok {
		d.emit(device, state)
	}
}

// Stop cancels all open windows and drops pending values. The debouncer
// emits nothing after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.closed = true
	for device, timer := range d.timers {
		timer.Stop()
		delete(d.timers, device)
	}
	d.pending = make(map[string]lighting.State)
}
