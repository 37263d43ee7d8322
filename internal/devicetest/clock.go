// go-ds620
// Copyright (c) 2026 The go-ds620 Contributors.
// SPDX-License-Identifier: MIT

package devicetest

import (
	"sync"
	"time"
)

// Clock is a manual clock for tests. Sleep advances it instantly, so
// retry and poll loops run without real delays.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	slept  []time.Duration
	onTick func()
}

// NewClock returns a clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances the clock by d without blocking.
func (c *Clock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.slept = append(c.slept, d)
	tick := c.onTick
	c.mu.Unlock()
	if tick != nil {
		tick()
	}
}

// Sleeps returns every Sleep duration in order.
func (c *Clock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.slept))
	copy(out, c.slept)
	return out
}

// OnTick registers a hook invoked after every Sleep, for tests that
// need to change device state mid-poll.
func (c *Clock) OnTick(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}
