// scheduler.go - Cooperative timer scheduler driven by the frame loop

/*
(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/CartridgePlayer
License: GPLv3 or later
*/

/*
Every timer in the player (scrub ticks, button debounce, hold detection,
cartridge settle animation) and every callback posted back from a worker
goroutine (decoder completion, end-of-song from the audio thread) runs here.

The frame driver owns the loop: ebiten's Update or the terminal shell's
ticker calls RunPending once per tick, so all state mutation happens on one
goroutine. Timers that fell due between ticks are dispatched in due order,
and while a timer callback runs Now() reports that timer's due time, so an
interval that is 30ms apart observes 30ms of elapsed time even when the
frame loop only ticks every 16.7ms.
*/

package main

import (
	"container/heap"
	"sync"
	"time"
)

// Clock is the wall-clock source used by the scheduler.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Timer is a handle to a one-shot or repeating scheduler entry.
type Timer struct {
	sched   *Scheduler
	due     time.Time
	period  time.Duration
	fn      func()
	seq     uint64
	index   int
	stopped bool
}

// Stop cancels the timer. Safe on nil, on fired and on already stopped timers.
func (t *Timer) Stop() {
	if t == nil || t.sched == nil {
		return
	}
	t.sched.cancel(t)
}

// Active reports whether the timer is still armed.
func (t *Timer) Active() bool {
	if t == nil || t.sched == nil {
		return false
	}
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	return !t.stopped && t.index >= 0
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }
func (h timerHeap) Less(i, j int) bool {
	if h[i].due.Equal(h[j].due) {
		return h[i].seq < h[j].seq
	}
	return h[i].due.Before(h[j].due)
}
func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}

// Scheduler dispatches timers and posted callbacks on the frame goroutine.
type Scheduler struct {
	mu     sync.Mutex
	clock  Clock
	timers timerHeap
	posted []func()
	seq    uint64
	firing time.Time
	inFire bool
}

// NewScheduler creates a scheduler reading time from clock. A nil clock
// selects the system clock.
func NewScheduler(clock Clock) *Scheduler {
	if clock == nil {
		clock = systemClock{}
	}
	return &Scheduler{clock: clock}
}

// Now returns the scheduler's notion of the current time.
func (s *Scheduler) Now() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inFire {
		return s.firing
	}
	return s.clock.Now()
}

// AfterFunc arms a one-shot timer.
func (s *Scheduler) AfterFunc(d time.Duration, fn func()) *Timer {
	return s.arm(d, 0, fn)
}

// Every arms a repeating timer whose first tick is one period from now.
func (s *Scheduler) Every(period time.Duration, fn func()) *Timer {
	if period <= 0 {
		period = time.Millisecond
	}
	return s.arm(period, period, fn)
}

func (s *Scheduler) arm(d, period time.Duration, fn func()) *Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.clock.Now()
	if s.inFire {
		now = s.firing
	}
	s.seq++
	t := &Timer{sched: s, due: now.Add(d), period: period, fn: fn, seq: s.seq}
	heap.Push(&s.timers, t)
	return t
}

func (s *Scheduler) cancel(t *Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.stopped {
		return
	}
	t.stopped = true
	if t.index >= 0 && t.index < len(s.timers) && s.timers[t.index] == t {
		heap.Remove(&s.timers, t.index)
	}
}

// Post queues fn for the next RunPending. Safe from any goroutine.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.posted = append(s.posted, fn)
	s.mu.Unlock()
}

// Pending returns the number of armed timers and queued callbacks.
func (s *Scheduler) Pending() (timers, posted int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers), len(s.posted)
}

// RunPending runs callbacks posted before the call, then every timer due at
// the current clock time. Callbacks posted while running wait for the next
// call, which gives Post its "next tick" meaning.
func (s *Scheduler) RunPending() {
	s.mu.Lock()
	posted := s.posted
	s.posted = nil
	now := s.clock.Now()
	s.mu.Unlock()

	for _, fn := range posted {
		fn()
	}

	for {
		s.mu.Lock()
		if len(s.timers) == 0 || s.timers[0].due.After(now) {
			s.mu.Unlock()
			return
		}
		t := s.timers[0]
		if t.period > 0 {
			s.firing = t.due
			t.due = t.due.Add(t.period)
			heap.Fix(&s.timers, 0)
		} else {
			heap.Pop(&s.timers)
			t.stopped = true
			s.firing = t.due
		}
		s.inFire = true
		fn := t.fn
		s.mu.Unlock()

		fn()

		s.mu.Lock()
		s.inFire = false
		s.mu.Unlock()
	}
}
