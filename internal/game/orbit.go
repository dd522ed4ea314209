package game

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/internal/config"
	"github.com/Faultbox/flatshadow/pkg/math"
)

const twoPi = 2 * math32.Pi

// Orbit animates the cube: a sideways swing, a vertical bob and a spin
// about X and Y. Angles stay in [0, 2π).
type Orbit struct {
	Horizontal float32
	Vertical   float32
	Spin       float32

	cfg config.SceneConfig
}

// NewOrbit returns an orbit at rest, all angles zero.
func NewOrbit(cfg config.SceneConfig) *Orbit {
	return &Orbit{cfg: cfg}
}

// Advance moves the orbit forward by dt seconds.
func (o *Orbit) Advance(dt float32) {
	o.Horizontal = wrap(o.Horizontal + o.cfg.HorizontalSpeed*dt)
	o.Vertical = wrap(o.Vertical + o.cfg.VerticalSpeed*dt)
	o.Spin = wrap(o.Spin + o.cfg.SpinSpeed*dt)
}

// Position returns the cube centre.
func (o *Orbit) Position() math.Vec3 {
	return math.Vec3{
		X: math32.Sin(o.Horizontal) * o.cfg.OrbitRadius,
		Y: math32.Sin(o.Vertical)*o.cfg.BobAmplitude + o.cfg.BobHeight,
		Z: o.cfg.CubeZ,
	}
}

// Transform returns the cube's local transform.
func (o *Orbit) Transform() math.Mat4 {
	p := o.Position()
	return math.Translate(p.X, p.Y, p.Z).
		Mul(math.RotateX(o.Spin)).
		Mul(math.RotateY(o.Spin))
}

// wrap folds an angle into [0, 2π).
func wrap(a float32) float32 {
	a = math32.Mod(a, twoPi)
	if a < 0 {
		a += twoPi
	}
	return a
}
