// Package ratelimit guards per-user question generation with a single-flight
// flag and a cooldown between granted requests.
package ratelimit

import (
	"sync"
	"time"
)

// DefaultCooldown is the minimum time between two granted requests.
const DefaultCooldown = 5 * time.Second

type gateEntry struct {
	lastGranted time.Time
	processing  bool
}

// Option configures a Gate.
type Option func(*Gate)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// Gate tracks per-user cooldowns. One mutex covers every user; the lock is
// held only for map bookkeeping, never across generation.
type Gate struct {
	mu       sync.Mutex
	cooldown time.Duration
	entries  map[string]*gateEntry
	now      func() time.Time
}

// NewGate creates a Gate. A non-positive cooldown disables the cadence
// check but keeps single-flight.
func NewGate(cooldown time.Duration, opts ...Option) *Gate {
	g := &Gate{
		cooldown: cooldown,
		entries:  make(map[string]*gateEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// TryAcquire grants the user a generation slot. It is denied while a prior
// grant is unreleased or the cooldown since that grant has not elapsed.
// Denial changes nothing.
func (g *Gate) TryAcquire(user string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	e := g.entries[user]
	if e != nil {
		if e.processing {
			return false
		}
		if now.Sub(e.lastGranted) < g.cooldown {
			return false
		}
	} else {
		e = &gateEntry{}
		g.entries[user] = e
	}
	e.processing = true
	e.lastGranted = now
	return true
}

// Release clears the processing flag. Releasing an idle user is a no-op.
func (g *Gate) Release(user string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if e := g.entries[user]; e != nil {
		e.processing = false
	}
}

// RemainingCooldown returns how long until the cooldown since the last
// grant elapses, or 0.
func (g *Gate) RemainingCooldown(user string) time.Duration {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.entries[user]
	if e == nil {
		return 0
	}
	if rem := g.cooldown - g.now().Sub(e.lastGranted); rem > 0 {
		return rem
	}
	return 0
}

// Processing reports whether the user holds an unreleased grant.
func (g *Gate) Processing(user string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	e := g.entries[user]
	return e != nil && e.processing
}

// Cooldown returns the configured cooldown.
func (g *Gate) Cooldown() time.Duration {
	return g.cooldown
}
