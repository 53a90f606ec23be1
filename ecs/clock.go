package ecs

import (
	"sync"
	"time"
)

// Clock is the source of real (wall) time for frame deltas. It is never
// affected by the global time scale.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the monotonic system clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a controllable clock for tests and fixed-step hosts.
type ManualClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ScaleReader exposes the global time scale to frame consumers. Only the
// time dilation controller can change the value behind it.
type ScaleReader interface {
	Scale() float64
}

// Frame is the timing of one world tick, in seconds.
type Frame struct {
	Index  uint64
	Real   float64
	Scaled float64
	// Scale is the time scale that was in effect when the frame started.
	Scale float64
}
