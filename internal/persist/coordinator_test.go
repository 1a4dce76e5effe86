package persist

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/apagar/certo/internal/store"
)

type fakeTimer struct {
	mu      sync.Mutex
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (t *fakeTimer) fire() {
	t.mu.Lock()
	if t.stopped || t.fired {
		t.mu.Unlock()
		return
	}
	t.fired = true
	f := t.f
	t.mu.Unlock()
	f()
}

// fakeClock hands out timers that only run when the test fires them.
type fakeClock struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(_ time.Duration, f func()) Timer {
	t := &fakeTimer{f: f}
	c.mu.Lock()
	c.timers = append(c.timers, t)
	c.mu.Unlock()
	return t
}

func (c *fakeClock) fire() {
	c.mu.Lock()
	timers := c.timers
	c.timers = nil
	c.mu.Unlock()
	for _, t := range timers {
		t.fire()
	}
}

func (c *fakeClock) armed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		t.mu.Lock()
		if !t.stopped && !t.fired {
			n++
		}
		t.mu.Unlock()
	}
	return n
}

func waitWrite(t *testing.T, ch <-chan *store.SnapshotData) *store.SnapshotData {
	t.Helper()
	select {
	case d := <-ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for write")
		return nil
	}
}

func TestCoordinator_CoalescesBurst(t *testing.T) {
	clock := &fakeClock{}
	var version atomic.Int64
	writes := make(chan *store.SnapshotData, 8)

	c := New(
		func() *store.SnapshotData {
			return &store.SnapshotData{Version: int(version.Load())}
		},
		func(_ context.Context, data *store.SnapshotData) error {
			writes <- data
			return nil
		},
		WithClock(clock),
	)

	for range 5 {
		version.Add(1)
		c.Schedule()
	}
	require.Equal(t, 1, clock.armed(), "rescheduling should leave one live timer")

	clock.fire()
	got := waitWrite(t, writes)
	require.Equal(t, 5, got.Version, "coalesced write should carry the latest state")

	require.NoError(t, c.Close())
	require.Empty(t, writes, "burst should produce exactly one write")
	require.Equal(t, StatusSaved, c.Status())
}

func TestCoordinator_SingleFlight(t *testing.T) {
	clock := &fakeClock{}
	var version atomic.Int64
	var concurrent, maxConcurrent atomic.Int64
	writes := make(chan *store.SnapshotData, 8)
	release := make(chan struct{})

	c := New(
		func() *store.SnapshotData {
			return &store.SnapshotData{Version: int(version.Load())}
		},
		func(_ context.Context, data *store.SnapshotData) error {
			n := concurrent.Add(1)
			for {
				old := maxConcurrent.Load()
				if n <= old || maxConcurrent.CompareAndSwap(old, n) {
					break
				}
			}
			if data.Version == 1 {
				<-release
			}
			writes <- data
			concurrent.Add(-1)
			return nil
		},
		WithClock(clock),
	)

	version.Store(1)
	c.SaveNow()

	// Mutate while the first write is blocked; the fired timer must fold
	// into a follow-up write instead of overlapping.
	version.Store(2)
	c.Schedule()
	clock.fire()

	close(release)
	first := waitWrite(t, writes)
	second := waitWrite(t, writes)
	require.Equal(t, 1, first.Version)
	require.Equal(t, 2, second.Version)
	require.Equal(t, int64(1), maxConcurrent.Load(), "writes must never overlap")

	require.NoError(t, c.Close())
	require.Empty(t, writes)
}

func TestCoordinator_RetriesAfterFailure(t *testing.T) {
	clock := &fakeClock{}
	var version atomic.Int64
	var fail atomic.Bool
	fail.Store(true)
	writes := make(chan *store.SnapshotData, 8)
	failures := make(chan struct{}, 8)

	c := New(
		func() *store.SnapshotData {
			return &store.SnapshotData{Version: int(version.Load())}
		},
		func(_ context.Context, data *store.SnapshotData) error {
			if fail.Load() {
				failures <- struct{}{}
				return errors.New("disk full")
			}
			writes <- data
			return nil
		},
		WithClock(clock),
	)

	version.Store(1)
	c.Schedule()
	clock.fire()

	select {
	case <-failures:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for failed write")
	}
	require.Eventually(t, func() bool { return c.Status() == StatusError }, 2*time.Second, 10*time.Millisecond)
	require.Error(t, c.Err())
	require.Eventually(t, func() bool { return clock.armed() == 1 }, 2*time.Second, 10*time.Millisecond,
		"failure should re-arm the debounce timer")

	fail.Store(false)
	version.Store(2)
	clock.fire()
	got := waitWrite(t, writes)
	require.Equal(t, 2, got.Version, "retry should carry state mutated since the failure")

	require.NoError(t, c.Close())
	require.Equal(t, StatusSaved, c.Status())
	require.NoError(t, c.Err())
}

func TestCoordinator_CloseFlushesPending(t *testing.T) {
	clock := &fakeClock{}
	writes := make(chan *store.SnapshotData, 8)

	c := New(
		func() *store.SnapshotData { return &store.SnapshotData{Version: 7} },
		func(_ context.Context, data *store.SnapshotData) error {
			writes <- data
			return nil
		},
		WithClock(clock),
	)

	c.Schedule()
	require.NoError(t, c.Close())

	got := waitWrite(t, writes)
	require.Equal(t, 7, got.Version)
	require.Empty(t, writes)
	require.Equal(t, StatusSaved, c.Status())

	// After Close further scheduling is a no-op.
	c.Schedule()
	c.SaveNow()
	require.Equal(t, 0, clock.armed())
	require.Empty(t, writes)
}

func TestCoordinator_CloseWithoutPending(t *testing.T) {
	writes := make(chan *store.SnapshotData, 8)
	c := New(
		func() *store.SnapshotData { return &store.SnapshotData{} },
		func(_ context.Context, data *store.SnapshotData) error {
			writes <- data
			return nil
		},
		WithClock(&fakeClock{}),
	)
	require.NoError(t, c.Close())
	require.Empty(t, writes)
	require.Equal(t, StatusIdle, c.Status())
}

func TestCoordinator_SaveNowSkipsDebounce(t *testing.T) {
	clock := &fakeClock{}
	writes := make(chan *store.SnapshotData, 8)
	var transitions []Status
	var tmu sync.Mutex

	c := New(
		func() *store.SnapshotData { return &store.SnapshotData{Version: 3} },
		func(_ context.Context, data *store.SnapshotData) error {
			writes <- data
			return nil
		},
		WithClock(clock),
		WithNotify(func(s Status) {
			tmu.Lock()
			transitions = append(transitions, s)
			tmu.Unlock()
		}),
	)

	c.SaveNow()
	got := waitWrite(t, writes)
	require.Equal(t, 3, got.Version)
	require.Equal(t, 0, clock.armed(), "immediate save should not arm a timer")

	require.NoError(t, c.Close())
	tmu.Lock()
	defer tmu.Unlock()
	require.Equal(t, []Status{StatusSaving, StatusSaved}, transitions)
}
