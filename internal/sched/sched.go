package sched

import (
	"sort"
	"sync"
	"time"
)

// Clock abstracts wall time so match loops and tests drive the same queue.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock only moves when told to. Tests and deterministic drivers
// use it to step match time; Advance is safe to call while a loop reads.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Handle lets a caller cancel a scheduled call before it fires.
type Handle struct {
	stopped bool
}

func (h *Handle) Stop() { h.stopped = true }

type call struct {
	due    time.Time
	seq    uint64
	fn     func()
	period time.Duration // 0 means fire once
	handle *Handle
}

// Queue is a single-threaded deferred-call queue. The owning loop calls
// Tick; callbacks run to completion in due order, never concurrently.
// Calls scheduled from inside a callback are only visible to later ticks,
// which is what Push relies on to break same-tick re-entrancy.
type Queue struct {
	clock  Clock
	seq    uint64
	timers []*call
	pushed []func()
}

func NewQueue(clock Clock) *Queue {
	return &Queue{clock: clock}
}

// After schedules fn to run once d from now.
func (q *Queue) After(d time.Duration, fn func()) *Handle {
	return q.add(d, 0, fn)
}

// Every schedules fn to run every d until the handle is stopped.
func (q *Queue) Every(d time.Duration, fn func()) *Handle {
	return q.add(d, d, fn)
}

// Push schedules fn for the next tick, strictly after every callback of
// the current tick has finished.
func (q *Queue) Push(fn func()) {
	q.pushed = append(q.pushed, fn)
}

func (q *Queue) add(d, period time.Duration, fn func()) *Handle {
	q.seq++
	c := &call{
		due:    q.clock.Now().Add(d),
		seq:    q.seq,
		fn:     fn,
		period: period,
		handle: &Handle{},
	}
	q.timers = append(q.timers, c)
	return c.handle
}

// Tick runs everything pushed since the previous tick, then every timer
// whose due time has passed. Work scheduled by the callbacks themselves
// is left for the next tick.
func (q *Queue) Tick() {
	pushed := q.pushed
	q.pushed = nil
	for _, fn := range pushed {
		fn()
	}

	now := q.clock.Now()
	pending := q.timers
	q.timers = nil

	var due []*call
	for _, c := range pending {
		if c.handle.stopped {
			continue
		}
		if !c.due.After(now) {
			due = append(due, c)
		} else {
			q.timers = append(q.timers, c)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].due.Equal(due[j].due) {
			return due[i].due.Before(due[j].due)
		}
		return due[i].seq < due[j].seq
	})

	for _, c := range due {
		if c.handle.stopped {
			continue
		}
		c.fn()
		if c.period > 0 && !c.handle.stopped {
			c.due = c.due.Add(c.period)
			q.timers = append(q.timers, c)
		}
	}
}

// Idle reports whether nothing is scheduled or pending.
func (q *Queue) Idle() bool {
	return len(q.timers) == 0 && len(q.pushed) == 0
}
