package main

import (
	"sync"
	"testing"
	"time"
)

// manualClock is a Clock that only moves when told to.
type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// step advances the clock in small increments, running the scheduler at
// each one like a frame loop would.
func step(s *Scheduler, c *manualClock, total, tick time.Duration) {
	for elapsed := time.Duration(0); elapsed < total; elapsed += tick {
		d := tick
		if total-elapsed < tick {
			d = total - elapsed
		}
		c.Advance(d)
		s.RunPending()
	}
}

func TestScheduler_AfterFuncFiresOnce(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock)
	fired := 0
	tm := s.AfterFunc(50*time.Millisecond, func() { fired++ })

	clock.Advance(49 * time.Millisecond)
	s.RunPending()
	if fired != 0 {
		t.Fatalf("fired early: %d", fired)
	}
	if !tm.Active() {
		t.Fatal("timer should still be active")
	}
	clock.Advance(time.Millisecond)
	s.RunPending()
	s.RunPending()
	if fired != 1 {
		t.Fatalf("fired %d times, want 1", fired)
	}
	if tm.Active() {
		t.Fatal("fired one-shot timer reports active")
	}
}

func TestScheduler_StopCancels(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock)
	fired := false
	tm := s.AfterFunc(10*time.Millisecond, func() { fired = true })
	tm.Stop()
	tm.Stop()
	clock.Advance(time.Second)
	s.RunPending()
	if fired {
		t.Fatal("stopped timer fired")
	}
	var nilTimer *Timer
	nilTimer.Stop()
	if nilTimer.Active() {
		t.Fatal("nil timer reports active")
	}
}

func TestScheduler_EveryCatchesUpWithDueTimes(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock)
	start := clock.Now()
	var seen []time.Duration
	tm := s.Every(30*time.Millisecond, func() {
		seen = append(seen, s.Now().Sub(start))
	})

	clock.Advance(100 * time.Millisecond)
	s.RunPending()
	tm.Stop()

	want := []time.Duration{30 * time.Millisecond, 60 * time.Millisecond, 90 * time.Millisecond}
	if len(seen) != len(want) {
		t.Fatalf("ticks = %v, want %v", seen, want)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("tick %d at %v, want %v", i, seen[i], want[i])
		}
	}
}

func TestScheduler_PostRunsOnNextTick(t *testing.T) {
	s := NewScheduler(newManualClock())
	var order []string
	s.Post(func() {
		order = append(order, "first")
		s.Post(func() { order = append(order, "second") })
	})
	s.RunPending()
	if len(order) != 1 {
		t.Fatalf("order after one tick = %v", order)
	}
	if _, posted := s.Pending(); posted != 1 {
		t.Fatalf("posted = %d, want 1", posted)
	}
	s.RunPending()
	if len(order) != 2 || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}
}

func TestScheduler_DueOrder(t *testing.T) {
	clock := newManualClock()
	s := NewScheduler(clock)
	var order []int
	s.AfterFunc(20*time.Millisecond, func() { order = append(order, 2) })
	s.AfterFunc(10*time.Millisecond, func() { order = append(order, 1) })
	s.AfterFunc(20*time.Millisecond, func() { order = append(order, 3) })
	clock.Advance(time.Second)
	s.RunPending()
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Fatalf("order = %v", order)
	}
}
