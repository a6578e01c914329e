package vignette

import (
	"sort"
	"sync"
	"time"
)

// Loop is the single-threaded scheduler every Stage runs on. It keeps a
// virtual clock advanced by Advance, a queue of timers, and an inbox that
// other goroutines use to hand results back to the loop.
//
// All callbacks scheduled through a Loop run on the goroutine that calls
// Advance. Only Post is safe to call from other goroutines.
type Loop struct {
	now    time.Duration
	timers []*loopTimer
	seq    uint64

	mu     sync.Mutex
	inbox  []func()
	wakeup chan struct{}
}

type loopTimer struct {
	due time.Duration
	seq uint64
	fn  func()
}

// NewLoop creates a loop whose clock starts at zero.
func NewLoop() *Loop {
	return &Loop{wakeup: make(chan struct{}, 1)}
}

// Now returns the loop's current virtual time.
func (l *Loop) Now() time.Duration {
	return l.now
}

// After schedules fn to run once d has elapsed on the loop clock. Timers
// with equal deadlines fire in scheduling order. There is no way to cancel a
// timer once scheduled.
func (l *Loop) After(d time.Duration, fn func()) {
	if d < 0 {
		d = 0
	}
	l.seq++
	l.timers = append(l.timers, &loopTimer{due: l.now + d, seq: l.seq, fn: fn})
	sort.SliceStable(l.timers, func(i, j int) bool {
		if l.timers[i].due != l.timers[j].due {
			return l.timers[i].due < l.timers[j].due
		}
		return l.timers[i].seq < l.timers[j].seq
	})
}

// Post queues fn to run on the loop at the start of the next Advance.
// Safe for concurrent use.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()
	select {
	case l.wakeup <- struct{}{}:
	default:
	}
}

// Wakeup returns a channel that receives a value whenever Post queues work.
// Tests use it to wait for background fetches without polling.
func (l *Loop) Wakeup() <-chan struct{} {
	return l.wakeup
}

// Pending reports the number of scheduled timers.
func (l *Loop) Pending() int {
	return len(l.timers)
}

// Advance drains posted callbacks and then moves the clock forward by dt,
// firing every timer whose deadline falls inside the window. While a timer
// runs, Now reports that timer's deadline. Timers scheduled by callbacks fire
// in the same call if their deadline is also inside the window.
func (l *Loop) Advance(dt time.Duration) {
	l.drain()
	target := l.now + dt
	for len(l.timers) > 0 && l.timers[0].due <= target {
		t := l.timers[0]
		l.timers[0] = nil
		l.timers = l.timers[1:]
		if t.due > l.now {
			l.now = t.due
		}
		t.fn()
		l.drain()
	}
	l.now = target
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		batch := l.inbox
		l.inbox = nil
		l.mu.Unlock()
		if len(batch) == 0 {
			return
		}
		for _, fn := range batch {
			fn()
		}
	}
}
