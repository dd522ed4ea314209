package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/engine/frame"
	"github.com/Faultbox/flatshadow/internal/engine/input"
)

// Run implements frame.Scheduler. Each iteration polls SDL events, delivers
// at most one resize, runs tick and swaps buffers. Once a second the
// measured frame rate is shown in the title. With VSync the swap blocks
// until the next refresh, which paces the loop; otherwise FPSLimit does.
//
// Run must be called on the thread that created the window.
func (w *Window) Run(ctx context.Context, tick frame.TickFunc, resize frame.ResizeFunc) error {
	in := input.New()
	clock := frame.NewClock()
	var meter fpsMeter

	var budget uint64
	if !w.config.VSync && w.config.FPSLimit > 0 {
		budget = sdl.GetPerformanceFrequency() / uint64(w.config.FPSLimit)
	}

	// The drawable may differ from the requested size (HiDPI, fullscreen).
	if resize != nil {
		resize(w.GetSize())
	}

	var fc frame.Context
	for first := true; ; first = false {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := sdl.GetPerformanceCounter()

		if in.Update() {
			w.log.Info("quit requested")
			return nil
		}
		for key, fn := range w.keys {
			if in.IsKeyPressed(key) {
				fn()
			}
		}
		if _, _, ok := in.LastResize(); ok && resize != nil {
			// Events carry window coordinates; GL wants pixels.
			resize(w.GetSize())
		}

		if first {
			fc = frame.First(clock.Delta())
		} else {
			fc = fc.Next(clock.Delta())
		}

		if err := tick(fc); err != nil {
			if errors.Is(err, frame.ErrStop) {
				return nil
			}
			w.log.Error("frame failed", zap.Uint64("frame", fc.Frame), zap.Error(err))
			return err
		}

		w.SwapBuffers()

		if fps, ok := meter.add(fc.Delta); ok {
			w.SetTitle(fpsTitle(w.config.Title, fps))
		}

		if budget > 0 {
			if spent := sdl.GetPerformanceCounter() - start; spent < budget {
				ms := (budget - spent) * 1000 / sdl.GetPerformanceFrequency()
				sdl.Delay(uint32(ms))
			}
		}
	}
}

// fpsMeter averages the frame rate over windows of at least one second.
type fpsMeter struct {
	frames  int
	elapsed float64
}

// add records a frame that took dt seconds. Once a second has accumulated it
// returns the average rate and true, then starts a new window.
func (m *fpsMeter) add(dt float64) (float64, bool) {
	m.frames++
	m.elapsed += dt
	if m.elapsed < 1 {
		return 0, false
	}
	fps := float64(m.frames) / m.elapsed
	m.frames, m.elapsed = 0, 0
	return fps, true
}

func fpsTitle(base string, fps float64) string {
	return fmt.Sprintf("%s - %.0f fps", base, fps)
}
