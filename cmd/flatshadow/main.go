// Package main is the entry point for the planar shadow demo.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/config"
	"github.com/Faultbox/flatshadow/internal/engine/debug"
	"github.com/Faultbox/flatshadow/internal/engine/frame"
	"github.com/Faultbox/flatshadow/internal/engine/renderer"
	"github.com/Faultbox/flatshadow/internal/engine/window"
	"github.com/Faultbox/flatshadow/internal/game"
	"github.com/Faultbox/flatshadow/internal/logger"
)

const windowTitle = "FlatShadow"

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== FlatShadow ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if config.SaveRequested() {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("path", config.UserConfigPath()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Run.Headless {
		err = runHeadless(ctx, cfg)
	} else {
		err = runWindowed(ctx, cfg)
	}
	if err != nil {
		logger.Error("demo error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("demo closed normally")
}

// runHeadless simulates cfg.Run.Frames frames without a window and prints
// how well the shadows stayed on the plane.
func runHeadless(ctx context.Context, cfg *config.Config) error {
	probe := game.NewProbe(nil, cfg.Graphics.Width, cfg.Graphics.Height)

	var s frame.Scheduler = &frame.Stepper{Frames: cfg.Run.Frames, Step: cfg.Run.Step}
	if cfg.Run.Realtime {
		s = frame.Limit(frame.NewTicker(cfg.Graphics.FPSLimit), uint64(cfg.Run.Frames))
	}

	g, err := game.New(cfg, probe, s)
	if err != nil {
		return err
	}
	defer g.Close()

	if err := g.Run(ctx); err != nil {
		return err
	}

	st := g.World().Stats()
	fmt.Printf("frames=%d shadow_draws=%d vertices=%d non_finite=%d max_off_plane=%g skipped=%d\n",
		probe.Frames, probe.ShadowDraws, probe.Vertices, probe.NonFinite, probe.MaxOffPlane, st.Skipped)

	if probe.NonFinite > 0 {
		return fmt.Errorf("%d shadow vertices had no finite image on the plane", probe.NonFinite)
	}
	return nil
}

// runWindowed opens the SDL window and lets the display refresh drive the loop.
func runWindowed(ctx context.Context, cfg *config.Config) error {
	// Create window (this also creates OpenGL context)
	win, err := window.New(window.Config{
		Title:      windowTitle,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
		FPSLimit:   cfg.Graphics.FPSLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	defer win.Close()

	format, err := debug.ParseFormat(cfg.Graphics.ScreenshotFormat)
	if err != nil {
		return err
	}

	// Create renderer (AFTER window, since OpenGL context must exist)
	width, height := win.GetSize()
	r, err := renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		Background: renderer.DefaultBackground,
		Capture:    debug.NewScreenshotCapture(cfg.Graphics.ScreenshotDir, "flatshadow", format),
	})
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	// F12 saves the next frame.
	win.Bind(sdl.SCANCODE_F12, r.RequestScreenshot)

	g, err := game.New(cfg, r, win)
	if err != nil {
		r.Close()
		return err
	}
	defer g.Close()

	return g.Run(ctx)
}
