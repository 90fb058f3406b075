package ratelimit

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestGate_SingleFlight(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(DefaultCooldown, WithClock(clock.Now))

	if !g.TryAcquire("u") {
		t.Fatal("first acquire should succeed")
	}
	if !g.Processing("u") {
		t.Fatal("user should be processing after grant")
	}

	// Still processing even after the cooldown elapses.
	clock.Advance(time.Minute)
	if g.TryAcquire("u") {
		t.Fatal("second acquire before release should be denied")
	}

	g.Release("u")
	if g.Processing("u") {
		t.Fatal("release should clear processing")
	}
	if !g.TryAcquire("u") {
		t.Fatal("acquire after release and cooldown should succeed")
	}
}

func TestGate_Cooldown(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(DefaultCooldown, WithClock(clock.Now))

	if !g.TryAcquire("u") {
		t.Fatal("first acquire should succeed")
	}
	g.Release("u")

	clock.Advance(2 * time.Second)
	if g.TryAcquire("u") {
		t.Fatal("acquire inside cooldown should be denied")
	}
	if rem := g.RemainingCooldown("u"); rem != 3*time.Second {
		t.Fatalf("remaining = %s, want 3s", rem)
	}

	clock.Advance(3 * time.Second)
	if rem := g.RemainingCooldown("u"); rem != 0 {
		t.Fatalf("remaining = %s, want 0", rem)
	}
	if !g.TryAcquire("u") {
		t.Fatal("acquire once cooldown elapsed should succeed")
	}
}

func TestGate_DenialHasNoSideEffects(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(DefaultCooldown, WithClock(clock.Now))

	g.TryAcquire("u")
	g.Release("u")

	clock.Advance(4 * time.Second)
	if g.TryAcquire("u") {
		t.Fatal("expected denial")
	}
	// A denied attempt must not restart the cooldown.
	clock.Advance(time.Second)
	if !g.TryAcquire("u") {
		t.Fatal("cooldown should be measured from the last grant")
	}
}

func TestGate_RemainingCooldownNonIncreasing(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(DefaultCooldown, WithClock(clock.Now))

	if got := g.RemainingCooldown("never"); got != 0 {
		t.Fatalf("unknown user remaining = %s, want 0", got)
	}

	g.TryAcquire("u")
	g.Release("u")

	prev := g.RemainingCooldown("u")
	for range 12 {
		clock.Advance(500 * time.Millisecond)
		g.TryAcquire("never-granted-" + "x") // unrelated traffic
		cur := g.RemainingCooldown("u")
		if cur > prev {
			t.Fatalf("remaining increased from %s to %s", prev, cur)
		}
		if cur < 0 {
			t.Fatalf("remaining is negative: %s", cur)
		}
		prev = cur
	}
	if prev != 0 {
		t.Fatalf("remaining after 6s = %s, want 0", prev)
	}
}

func TestGate_ReleaseIdempotent(t *testing.T) {
	g := NewGate(DefaultCooldown)
	g.Release("nobody")
	g.Release("nobody")
	if g.Processing("nobody") {
		t.Fatal("unknown user should not be processing")
	}

	g.TryAcquire("u")
	g.Release("u")
	g.Release("u")
	if g.Processing("u") {
		t.Fatal("double release should leave user idle")
	}
}

func TestGate_UsersAreIndependent(t *testing.T) {
	clock := newFakeClock()
	g := NewGate(DefaultCooldown, WithClock(clock.Now))

	if !g.TryAcquire("alice") || !g.TryAcquire("bob") {
		t.Fatal("distinct users should both be granted")
	}
	if g.TryAcquire("alice") {
		t.Fatal("alice is still processing")
	}
}

func TestGate_ZeroCooldownKeepsSingleFlight(t *testing.T) {
	g := NewGate(0)
	if !g.TryAcquire("u") {
		t.Fatal("first acquire should succeed")
	}
	if g.TryAcquire("u") {
		t.Fatal("single-flight still applies without cooldown")
	}
	g.Release("u")
	if !g.TryAcquire("u") {
		t.Fatal("no cooldown means immediate re-acquire")
	}
}

func TestGate_ConcurrentAcquireGrantsOnce(t *testing.T) {
	g := NewGate(DefaultCooldown)

	var granted atomic.Int32
	var wg sync.WaitGroup
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryAcquire("u") {
				granted.Add(1)
			}
		}()
	}
	wg.Wait()

	if n := granted.Load(); n != 1 {
		t.Fatalf("granted %d times, want exactly 1", n)
	}
}
