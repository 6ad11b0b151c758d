package notifications

import (
	"time"

	"github.com/jmylchreest/toastq/internal/clock"
)

// EvictorState is the state of the eviction timer.
type EvictorState int

const (
	// EvictorIdle means no eviction is pending.
	EvictorIdle EvictorState = iota
	// EvictorArmed means one eviction is scheduled.
	EvictorArmed
	// EvictorStopped is terminal; the controller was closed.
	EvictorStopped
)

// String returns the string representation of EvictorState.
func (s EvictorState) String() string {
	switch s {
	case EvictorIdle:
		return "idle"
	case EvictorArmed:
		return "armed"
	case EvictorStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// evictor schedules at most one pending eviction at a time. Bursts of
// mutations while a timer is pending coalesce into that single eviction.
// It is not safe for concurrent use; the controller calls it with its
// mutex held.
type evictor struct {
	clock    clock.Clock
	interval time.Duration
	state    EvictorState
	timer    clock.Timer

	// generation identifies the pending timer. A timer whose generation no
	// longer matches was cancelled and must not evict.
	generation uint64

	onFire func(generation uint64)
}

func newEvictor(c clock.Clock, interval time.Duration, onFire func(generation uint64)) *evictor {
	return &evictor{
		clock:    c,
		interval: interval,
		state:    EvictorIdle,
		onFire:   onFire,
	}
}

// arm schedules an eviction unless one is already pending.
// Returns true if a new timer was scheduled.
func (e *evictor) arm() bool {
	if e.state != EvictorIdle {
		return false
	}

	e.generation++
	gen := e.generation
	e.state = EvictorArmed
	e.timer = e.clock.AfterFunc(e.interval, func() {
		e.onFire(gen)
	})
	return true
}

// disarm cancels a pending eviction.
func (e *evictor) disarm() {
	if e.state != EvictorArmed {
		return
	}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.generation++
	e.state = EvictorIdle
}

// reset applies a new interval, rescheduling a pending eviction with it.
// An unchanged interval leaves a pending eviction on its original deadline.
// Returns true if the interval changed.
func (e *evictor) reset(interval time.Duration) bool {
	if e.state == EvictorStopped || interval == e.interval {
		return false
	}
	e.interval = interval
	if e.state == EvictorArmed {
		e.disarm()
		e.arm()
	}
	return true
}

// stop cancels any pending eviction; no further transitions occur.
func (e *evictor) stop() {
	e.disarm()
	e.state = EvictorStopped
}

// fired moves an armed evictor back to idle when the timer with the given
// generation runs. It returns false for stale or cancelled timers.
func (e *evictor) fired(generation uint64) bool {
	if e.state != EvictorArmed || generation != e.generation {
		return false
	}
	e.state = EvictorIdle
	e.timer = nil
	return true
}
