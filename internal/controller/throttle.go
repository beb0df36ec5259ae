package controller

import (
	"sync"
	"time"

	"github.com/calebmoran/glowlink/internal/lighting"
)

// Throttler limits outbound publish frequency per device while guaranteeing
// the final value of a burst is sent.
//
// Behaviour is leading plus trailing: a value offered after a quiet period
// is sent immediately; values offered within the minimum interval of the
// last send are coalesced, and the latest one is sent when the interval
// elapses. Intermediate values are dropped, never queued.
//
// Thread Safety:
//   - All methods are safe for concurrent use.
//   - send is called without the internal lock held.
type Throttler struct {
	interval time.Duration
	send     func(device string, state lighting.State)
	now      func() time.Time

	mu      sync.Mutex
	last    map[string]time.Time
	pending map[string]lighting.State
	timers  map[string]*time.Timer
	closed  bool
}

// NewThrottler creates a throttler enforcing the given minimum interval
// between sends per device.
func NewThrottler(interval time.Duration, send func(device string, state lighting.State)) *Throttler {
	return &Throttler{
		interval: interval,
		send:     send,
		now:      time.Now,
		last:     make(map[string]time.Time),
		pending:  make(map[string]lighting.State),
		timers:   make(map[string]*time.Timer),
	}
}

// Offer submits a value for sending. It either sends now, or replaces the
// value scheduled for the end of the current interval.
func (t *Throttler) Offer(device string, state lighting.State) {
	t.mu.Lock()

	if t.closed {
		t.mu.Unlock()
		return
	}

	if _, scheduled := t.timers[device]; scheduled {
		// A trailing send is already due; latest value wins.
		t.pending[device] = state
		t.mu.Unlock()
		return
	}

	now := t.now()
	elapsed := now.Sub(t.last[device])
	if elapsed >= t.interval || t.last[device].IsZero() {
		t.last[device] = now
		t.mu.Unlock()
		t.send(device, state)
		return
	}

	t.pending[device] = state
	t.timers[device] = time.AfterFunc(t.interval-elapsed, func() {
		t.fire(device)
	})
	t.mu.Unlock()
}

// fire performs the trailing send for a device.
func (t *Throttler) fire(device string) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	state, ok := t.pending[device]
	delete(t.pending, device)
	delete(t.timers, device)
	if ok {
		t.last[device] = t.now()
	}
	t.mu.Unlock()

	if ok {
		t.send(device, state)
	}
}

// Stop cancels scheduled trailing sends and drops pending values. The
// throttler sends nothing after Stop returns.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.closed = true
	for device, timer := range t.timers {
		timer.Stop()
		delete(t.timers, device)
	}
	t.pending = make(map[string]lighting.State)
}
