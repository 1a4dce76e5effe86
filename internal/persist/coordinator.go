// Package persist coordinates snapshot writes behind the learning loop.
// Mutations are cheap and frequent; disk writes are debounced so a burst
// of answers collapses into a single snapshot, and at most one write is
// ever in flight.
package persist

import (
	"context"
	"sync"
	"time"

	"github.com/apagar/certo/internal/store"
)

// DefaultDelay is the debounce window between the last scheduled
// mutation and the resulting write.
const DefaultDelay = 2 * time.Second

// SnapshotFunc captures the current state to persist. It is invoked at
// write time, not schedule time, so a coalesced write always carries the
// latest state.
type SnapshotFunc func() *store.SnapshotData

// WriteFunc performs the durable write.
type WriteFunc func(ctx context.Context, data *store.SnapshotData) error

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithDelay overrides the debounce window.
func WithDelay(d time.Duration) Option {
	return func(c *Coordinator) { c.delay = d }
}

// WithClock substitutes the timer source, used by tests.
func WithClock(clock Clock) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// WithNotify registers a callback invoked on every status transition.
// The callback must not call back into the Coordinator.
func WithNotify(f func(Status)) Option {
	return func(c *Coordinator) { c.notify = f }
}

// Coordinator debounces and serializes snapshot writes.
type Coordinator struct {
	snapshot SnapshotFunc
	write    WriteFunc
	clock    Clock
	delay    time.Duration
	notify   func(Status)

	mu       sync.Mutex
	wg       sync.WaitGroup
	timer    Timer
	pending  bool
	inflight bool
	rerun    bool
	closed   bool
	status   Status
	lastErr  error
}

// New returns a Coordinator wiring snapshot capture to the given write.
func New(snapshot SnapshotFunc, write WriteFunc, opts ...Option) *Coordinator {
	c := &Coordinator{
		snapshot: snapshot,
		write:    write,
		clock:    realClock{},
		delay:    DefaultDelay,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Schedule records that state changed and arms (or re-arms) the debounce
// timer. Any number of calls inside the window produce one write.
func (c *Coordinator) Schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.pending = true
	c.armLocked()
}

// SaveNow bypasses the debounce window and writes immediately. If a
// write is already in flight the request folds into a follow-up write.
func (c *Coordinator) SaveNow() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.stopTimerLocked()
	c.pending = true
	if c.inflight {
		c.rerun = true
		return
	}
	c.launchLocked()
}

// Status reports the current save state.
func (c *Coordinator) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the error from the most recent failed write, or nil.
func (c *Coordinator) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Close stops scheduling, waits for any in-flight write and flushes
// unsaved state synchronously. The Coordinator must not be used after
// Close.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	c.closed = true
	c.stopTimerLocked()
	c.mu.Unlock()

	c.wg.Wait()

	c.mu.Lock()
	flush := c.pending
	c.pending = false
	c.rerun = false
	c.mu.Unlock()
	if !flush {
		return nil
	}

	c.setStatus(StatusSaving, nil)
	if err := c.write(context.Background(), c.snapshot()); err != nil {
		c.setStatus(StatusError, err)
		return err
	}
	c.setStatus(StatusSaved, nil)
	return nil
}

func (c *Coordinator) armLocked() {
	c.stopTimerLocked()
	c.timer = c.clock.AfterFunc(c.delay, c.fire)
}

func (c *Coordinator) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Coordinator) fire() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.timer = nil
	if c.closed || !c.pending {
		return
	}
	if c.inflight {
		c.rerun = true
		return
	}
	c.launchLocked()
}

// launchLocked starts the write goroutine. Caller holds c.mu and has
// verified no write is in flight.
func (c *Coordinator) launchLocked() {
	c.pending = false
	c.inflight = true
	c.status = StatusSaving
	c.lastErr = nil
	if c.notify != nil {
		c.notify(StatusSaving)
	}
	data := c.snapshot()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		err := c.write(context.Background(), data)
		c.finish(err)
	}()
}

func (c *Coordinator) finish(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = false
	if err != nil {
		c.status = StatusError
		c.lastErr = err
		// State stays dirty; retry after another debounce window.
		c.pending = true
		c.rerun = false
		if !c.closed {
			c.armLocked()
		}
		if c.notify != nil {
			c.notify(StatusError)
		}
		return
	}
	c.status = StatusSaved
	c.lastErr = nil
	if c.notify != nil {
		c.notify(StatusSaved)
	}
	if c.rerun {
		c.rerun = false
		if !c.closed {
			c.launchLocked()
		} else {
			c.pending = true
		}
	}
}

func (c *Coordinator) setStatus(s Status, err error) {
	c.mu.Lock()
	c.status = s
	c.lastErr = err
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(s)
	}
}
