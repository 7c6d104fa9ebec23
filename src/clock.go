package game

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports false if the timer already fired or was stopped.
	Stop() bool
}

// Clock schedules one-shot callbacks. All callbacks must run on the game
// loop goroutine.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// loopClock wraps time.AfterFunc and hands each callback to the game loop.
type loopClock struct {
	post func(func()) bool
}

type loopTimer struct {
	timer *time.Timer
	done  bool // only touched on the game loop
}

func (c loopClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		c.post(func() {
			// The timer may have been stopped after this callback was queued.
			if t.done {
				return
			}
			t.done = true
			f()
		})
	})
	return t
}

func (t *loopTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.timer.Stop()
	return true
}

// repeatingTimer re-arms itself after every fire, giving setInterval semantics
// on top of any Clock.
type repeatingTimer struct {
	clock   Clock
	period  time.Duration
	f       func()
	current Timer
	stopped bool
}

func every(clock Clock, period time.Duration, f func()) Timer {
	r := &repeatingTimer{clock: clock, period: period, f: f}
	r.arm()
	return r
}

func (r *repeatingTimer) arm() {
	r.current = r.clock.AfterFunc(r.period, r.fire)
}

func (r *repeatingTimer) fire() {
	if r.stopped {
		return
	}
	// Re-arm first so f can cancel the next occurrence.
	r.arm()
	r.f()
}

func (r *repeatingTimer) Stop() bool {
	if r.stopped {
		return false
	}
	r.stopped = true
	if r.current != nil {
		r.current.Stop()
	}
	return true
}

func stopTimer(t Timer) {
	if t != nil {
		t.Stop()
	}
}
