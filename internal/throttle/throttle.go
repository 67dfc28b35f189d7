// Package throttle coalesces bursts of calls into a single deferred execution.
//
// A Throttler holds one pending slot. The first Trigger arms the slot and
// schedules the action after the configured delay; further triggers are
// dropped until the action has run. The action reads whatever state is live
// when it executes, so a burst always resolves to the latest state.
package throttle

import (
	"sync"
	"time"
)

// Option configures a Throttler.
type Option func(*Throttler)

// WithDispatcher routes the deferred execution through dispatch instead of
// running it on the timer goroutine. Hosts with an event loop use this to run
// the action serially with their other callbacks.
func WithDispatcher(dispatch func(func())) Option {
	return func(t *Throttler) {
		if dispatch != nil {
			t.dispatch = dispatch
		}
	}
}

// Throttler is a trailing-edge, single-slot throttle.
type Throttler struct {
	mu       sync.Mutex
	action   func()
	delay    time.Duration
	dispatch func(func())
	timer    *time.Timer
	pending  bool
	stopped  bool
}

// New returns a Throttler that runs action at most once per delay window.
func New(action func(), delay time.Duration, opts ...Option) *Throttler {
	if delay < 0 {
		delay = 0
	}
	t := &Throttler{
		action:   action,
		delay:    delay,
		dispatch: func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Func returns a trigger function for action, mirroring the classic
// throttle(fn, delay) helper.
func Func(action func(), delay time.Duration, opts ...Option) func() {
	return New(action, delay, opts...).Trigger
}

// Trigger schedules the action unless an execution is already pending.
// It never runs the action synchronously, even with a zero delay.
func (t *Throttler) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.pending {
		return
	}
	t.pending = true
	t.timer = time.AfterFunc(t.delay, t.fire)
}

// Pending reports whether an execution is scheduled and has not finished.
func (t *Throttler) Pending() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.pending
}

// Delay returns the configured delay.
func (t *Throttler) Delay() time.Duration {
	return t.delay
}

// Stop refuses further triggers and cancels an execution whose timer has not
// fired yet. An execution already handed to the dispatcher still runs.
func (t *Throttler) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopped = true
	if t.timer != nil && t.timer.Stop() {
		t.pending = false
		t.timer = nil
	}
}

func (t *Throttler) fire() {
	t.mu.Lock()
	if t.stopped {
		t.pending = false
		t.timer = nil
		t.mu.Unlock()
		return
	}
	dispatch := t.dispatch
	t.mu.Unlock()

	dispatch(t.run)
}

func (t *Throttler) run() {
	defer func() {
		t.mu.Lock()
		t.pending = false
		t.timer = nil
		t.mu.Unlock()
	}()
	t.action()
}
