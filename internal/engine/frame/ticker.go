package frame

import (
	"context"
	"time"
)

// Ticker schedules ticks from a wall-clock time.Ticker. It stands in for a
// display refresh when no window is available.
type Ticker struct {
	interval time.Duration
	resizes  chan [2]int
}

// NewTicker returns a scheduler ticking at the given rate (frames per second).
func NewTicker(fps int) *Ticker {
	if fps <= 0 {
		fps = 60
	}
	return &Ticker{
		interval: time.Second / time.Duration(fps),
		resizes:  make(chan [2]int, 8),
	}
}

// Post queues a resize. It is safe to call from any goroutine; the resize
// is applied on the loop goroutine before the next tick. If the queue is
// full the oldest pending resize is superseded.
func (t *Ticker) Post(width, height int) {
	for {
		select {
		case t.resizes <- [2]int{width, height}:
			return
		default:
			select {
			case <-t.resizes:
			default:
			}
		}
	}
}

// Run implements Scheduler. It returns ctx.Err() when the context ends.
func (t *Ticker) Run(ctx context.Context, tick TickFunc, resize ResizeFunc) error {
	tk := time.NewTicker(t.interval)
	defer tk.Stop()

	clock := NewClock()
	var fc Context
	first := true

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tk.C:
		}

		t.drainResizes(resize)

		dt := clock.Delta()
		if first {
			fc = First(dt)
			first = false
		} else {
			fc = fc.Next(dt)
		}

		if stop, err := runTick(tick, fc); stop {
			return err
		}
	}
}

func (t *Ticker) drainResizes(resize ResizeFunc) {
	for {
		select {
		case r := <-t.resizes:
			if resize != nil {
				resize(r[0], r[1])
			}
		default:
			return
		}
	}
}
