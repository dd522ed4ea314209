// Package frame defines the per-tick context and the scheduler contract that
// drives a cooperative, single-threaded frame loop.
package frame

import (
	"context"
	"errors"
	"time"
)

// Context is the state of one tick. It is passed explicitly into every
// per-frame update instead of living in package-level variables.
type Context struct {
	Frame   uint64  // 0 for the first tick
	Delta   float64 // seconds since the previous tick, never negative
	Elapsed float64 // seconds since the loop started, sum of all deltas
}

// Next returns the context of the following tick after dt seconds.
// Negative deltas are clamped to zero.
func (c Context) Next(dt float64) Context {
	if dt < 0 {
		dt = 0
	}
	return Context{Frame: c.Frame + 1, Delta: dt, Elapsed: c.Elapsed + dt}
}

// First returns the context of the first tick.
func First(dt float64) Context {
	if dt < 0 {
		dt = 0
	}
	return Context{Delta: dt, Elapsed: dt}
}

// TickFunc runs one frame. Returning an error stops the scheduler.
type TickFunc func(fc Context) error

// ResizeFunc handles a viewport resize.
type ResizeFunc func(width, height int)

// ErrStop may be returned by a TickFunc to end the loop without an error.
var ErrStop = errors.New("frame: stop")

// Scheduler invokes tick once per display refresh. Implementations never
// run tick concurrently with itself or with resize: resizes are delivered
// between ticks on the goroutine that runs the loop.
type Scheduler interface {
	Run(ctx context.Context, tick TickFunc, resize ResizeFunc) error
}

// Clock measures frame deltas against a time source.
type Clock struct {
	now  func() time.Time
	last time.Time
}

// NewClock returns a clock reading time.Now.
func NewClock() *Clock {
	return NewClockFunc(time.Now)
}

// NewClockFunc returns a clock reading now, for tests.
func NewClockFunc(now func() time.Time) *Clock {
	return &Clock{now: now, last: now()}
}

// Delta returns the seconds since the previous call (or construction).
func (c *Clock) Delta() float64 {
	t := c.now()
	dt := t.Sub(c.last).Seconds()
	c.last = t
	if dt < 0 {
		return 0
	}
	return dt
}

// runTick calls tick and folds ErrStop into a clean exit.
func runTick(tick TickFunc, fc Context) (stop bool, err error) {
	if err := tick(fc); err != nil {
		if errors.Is(err, ErrStop) {
			return true, nil
		}
		return true, err
	}
	return false, nil
}

// Limit wraps s so that it stops cleanly after n ticks.
func Limit(s Scheduler, n uint64) Scheduler {
	return limited{s: s, n: n}
}

type limited struct {
	s Scheduler
	n uint64
}

func (l limited) Run(ctx context.Context, tick TickFunc, resize ResizeFunc) error {
	var ran uint64
	return l.s.Run(ctx, func(fc Context) error {
		if ran >= l.n {
			return ErrStop
		}
		ran++
		return tick(fc)
	}, resize)
}
