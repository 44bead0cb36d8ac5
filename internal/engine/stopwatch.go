package engine

import (
	"time"

	"github.com/dmaples/ninja-fight-backend/internal/sched"
)

// Stopwatch is the headless contract of the on-screen match timer:
// explicit start/stop plus a start-time query. Elapsed time reaches
// clients through match snapshots.
type Stopwatch struct {
	clock   sched.Clock
	started bool
	running bool
	startAt time.Time
	stopAt  time.Time
}

func NewStopwatch(clock sched.Clock) *Stopwatch {
	return &Stopwatch{clock: clock}
}

func (w *Stopwatch) Start() {
	if w.started {
		return
	}
	w.started = true
	w.running = true
	w.startAt = w.clock.Now()
}

func (w *Stopwatch) Stop() {
	if !w.running {
		return
	}
	w.running = false
	w.stopAt = w.clock.Now()
}

func (w *Stopwatch) Started() bool { return w.started }
func (w *Stopwatch) Running() bool { return w.running }

// StartTimeMillis panics if the watch was never started; callers are
// expected to have started it, same contract as the original widget.
func (w *Stopwatch) StartTimeMillis() int64 {
	if !w.started {
		panic("stopwatch: start time queried before Start")
	}
	return w.startAt.UnixMilli()
}

// ElapsedMillis is the time shown on the widget right now.
func (w *Stopwatch) ElapsedMillis() int64 {
	if !w.started {
		return 0
	}
	end := w.clock.Now()
	if !w.running {
		end = w.stopAt
	}
	return end.Sub(w.startAt).Milliseconds()
}
