package testutil

import (
	"sync"
	"time"
)

// Epoch is the first instant returned by a new StepClock.
var Epoch = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// StepClock is a deterministic wall clock for tests. Every call to Now
// advances it by one second, starting at Epoch.
//
// StepClock can be reset for test reuse, so the same test produces
// identical timestamps on every run.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type StepClock struct {
	mu    sync.Mutex
	steps int64
}

// NewStepClock creates a clock whose first Now() is Epoch.
func NewStepClock() *StepClock {
	return &StepClock{}
}

// Now returns the current instant and advances the clock.
//
// Monotonic: always returns a later instant than the previous call.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := Epoch.Add(time.Duration(c.steps) * time.Second)
	c.steps++
	return t
}

// Steps returns how many times Now has been called.
func (c *StepClock) Steps() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.steps
}

// Reset rewinds the clock to Epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.steps = 0
}
