// Package game runs the planar shadow demo: it owns the world, drives it from
// a frame scheduler and hands each frame to a renderer.
package game

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/config"
	"github.com/Faultbox/flatshadow/internal/engine/frame"
	"github.com/Faultbox/flatshadow/internal/engine/scene"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

// Renderer draws one frame.
type Renderer interface {
	Resize(width, height int)
	Render(viewProj math.Mat4, draws []scene.Draw) error
	Close()
}

// planeTracker is implemented by renderers that follow the world's
// receiving plane.
type planeTracker interface {
	Track(src PlaneSource)
}

// Game is the main demo instance.
type Game struct {
	world     *World
	renderer  Renderer
	scheduler frame.Scheduler
	log       *zap.Logger

	draws []scene.Draw

	// FPS counter
	frameCount int
	fpsTimer   float64
}

// New creates the world from cfg and wires it to a renderer and scheduler.
func New(cfg *config.Config, r Renderer, s frame.Scheduler) (*Game, error) {
	w, err := NewWorld(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create world: %w", err)
	}
	if t, ok := r.(planeTracker); ok {
		t.Track(w)
	}
	return &Game{
		world:     w,
		renderer:  r,
		scheduler: s,
		log:       logger.Named("game"),
	}, nil
}

// Run drives the frame loop until the scheduler stops, ctx is cancelled or
// a frame fails.
func (g *Game) Run(ctx context.Context) error {
	g.log.Info("starting frame loop")

	err := g.scheduler.Run(ctx, g.tick, g.resize)

	st := g.world.Stats()
	g.log.Info("frame loop finished",
		zap.Uint64("frames", st.Frames),
		zap.Uint64("shadow_updates", st.Updated),
		zap.Uint64("shadow_skipped", st.Skipped),
		zap.Uint64("resizes", st.Resizes),
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// World returns the simulated world.
func (g *Game) World() *World {
	return g.world
}

// Close releases the renderer.
func (g *Game) Close() {
	g.log.Info("closing game")
	if g.renderer != nil {
		g.renderer.Close()
	}
}

// tick updates the world, then renders it.
func (g *Game) tick(fc frame.Context) error {
	if err := g.world.Tick(fc); err != nil {
		return fmt.Errorf("update error: %w", err)
	}

	g.draws = g.world.Draws(g.draws[:0])
	if err := g.renderer.Render(g.world.ViewProjection(), g.draws); err != nil {
		return fmt.Errorf("render error: %w", err)
	}

	g.frameCount++
	if fc.Elapsed-g.fpsTimer >= 1 {
		g.log.Debug("fps",
			zap.Int("count", g.frameCount),
			zap.String("dt", fmt.Sprintf("%.2fms", fc.Delta*1000)),
		)
		g.frameCount = 0
		g.fpsTimer = fc.Elapsed
	}
	return nil
}

// resize is delivered between ticks.
func (g *Game) resize(width, height int) {
	g.world.Resize(width, height)
	g.renderer.Resize(width, height)
}
