package frame

import "context"

// Stepper runs a fixed number of ticks with a constant delta and no wall
// clock, which makes simulations reproducible.
type Stepper struct {
	Frames int     // number of ticks to run
	Step   float64 // seconds per tick

	// Resizes maps a frame number to a resize delivered before that tick.
	Resizes map[uint64][2]int
}

// Run implements Scheduler.
func (s *Stepper) Run(ctx context.Context, tick TickFunc, resize ResizeFunc) error {
	var fc Context
	for i := 0; i < s.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		if i == 0 {
			fc = First(s.Step)
		} else {
			fc = fc.Next(s.Step)
		}

		if r, ok := s.Resizes[fc.Frame]; ok && resize != nil {
			resize(r[0], r[1])
		}

		if stop, err := runTick(tick, fc); stop {
			return err
		}
	}
	return nil
}
