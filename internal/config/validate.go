package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/flatshadow/internal/engine/debug"
	"github.com/Faultbox/flatshadow/internal/engine/lighting"
	"github.com/Faultbox/flatshadow/internal/engine/shadow"
	"github.com/Faultbox/flatshadow/pkg/math"
)

// MinSurfaceOffset is the smallest allowed gap between the visible ground
// and the shadow-receiving plane, measured against the plane normal.
// Coincident surfaces z-fight.
const MinSurfaceOffset = 1e-4

// Plane returns the configured receiving plane.
func (c *Config) Plane() (shadow.Plane, error) {
	n := c.Shadow.Plane.Normal
	p, err := shadow.NewPlane(math.Vec3{X: n[0], Y: n[1], Z: n[2]}, c.Shadow.Plane.Constant)
	if err != nil {
		return shadow.Plane{}, fmt.Errorf("shadow.plane: %w", err)
	}

	// The ground top must sit behind the plane, against its normal, so the
	// flattened shadow is drawn above the visible surface.
	ground := math.Vec3{Y: c.Shadow.GroundLevel}
	if gap := p.Distance(ground); gap > -MinSurfaceOffset {
		return shadow.Plane{}, fmt.Errorf("shadow.plane: %w: ground level %g must lie at least %g behind the plane (signed distance %g)",
			shadow.ErrInvalidPlane, c.Shadow.GroundLevel, MinSurfaceOffset, gap)
	}
	return p, nil
}

// Light returns the configured light. W must lie in (0, 1].
func (c *Config) Light() (shadow.Light, error) {
	l := c.Shadow.Light
	if l.W > 1 {
		return shadow.Light{}, fmt.Errorf("shadow.light: %w: w must be at most 1, got %g", shadow.ErrInvalidLight, l.W)
	}
	if l.Sun != nil {
		if l.Sun.Distance <= 0 {
			return shadow.Light{}, fmt.Errorf("shadow.light.sun: %w: distance must be positive, got %g", shadow.ErrInvalidLight, l.Sun.Distance)
		}
		p := lighting.SunPosition(l.Sun.Longitude, l.Sun.Latitude, l.Sun.Distance)
		l.X, l.Y, l.Z = p.X, p.Y, p.Z
	}
	light, err := shadow.NewLight(l.X, l.Y, l.Z, l.W)
	if err != nil {
		return shadow.Light{}, fmt.Errorf("shadow.light: %w", err)
	}
	return light, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var errs []error

	if _, err := c.Plane(); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.Light(); err != nil {
		errs = append(errs, err)
	}
	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		errs = append(errs, fmt.Errorf("graphics: size must be positive, got %dx%d", c.Graphics.Width, c.Graphics.Height))
	}
	if _, err := debug.ParseFormat(c.Graphics.ScreenshotFormat); err != nil {
		errs = append(errs, fmt.Errorf("graphics: %w", err))
	}
	if c.Scene.CubeSize <= 0 {
		errs = append(errs, fmt.Errorf("scene.cube_size must be positive, got %g", c.Scene.CubeSize))
	}
	if c.Skin.Enabled {
		if c.Skin.Segments < 1 {
			errs = append(errs, fmt.Errorf("skin.segments must be at least 1, got %d", c.Skin.Segments))
		}
		if c.Skin.Height <= 0 {
			errs = append(errs, fmt.Errorf("skin.height must be positive, got %g", c.Skin.Height))
		}
		if !(c.Skin.ThetaLength > 0) {
			errs = append(errs, fmt.Errorf("skin.theta_length must be positive, got %g", c.Skin.ThetaLength))
		}
	}
	if c.Run.Headless {
		if c.Run.Frames < 1 {
			errs = append(errs, fmt.Errorf("run.frames must be at least 1, got %d", c.Run.Frames))
		}
		if c.Run.Step < 0 {
			errs = append(errs, fmt.Errorf("run.step must not be negative, got %g", c.Run.Step))
		}
	}

	return errors.Join(errs...)
}
