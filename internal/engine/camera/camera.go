// Package camera provides the perspective camera the demo renders through.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/pkg/math"
)

// Perspective is a pinhole camera. Resizing the viewport changes only its
// aspect ratio; nothing in the shadow pipeline reads camera state.
type Perspective struct {
	FovY   float32 // vertical field of view, radians
	Aspect float32 // width / height
	Near   float32
	Far    float32

	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
}

// NewPerspective creates a camera at (0, 2.5, 10) looking down -Z with a
// 55 degree vertical field of view.
func NewPerspective(width, height int) *Perspective {
	c := &Perspective{
		FovY:     55 * math32.Pi / 180,
		Aspect:   1,
		Near:     1,
		Far:      3000,
		Position: math.Vec3{Y: 2.5, Z: 10},
		Target:   math.Vec3{Y: 2.5, Z: 9},
		Up:       math.Vec3{Y: 1},
	}
	c.Resize(width, height)
	return c
}

// Resize updates the aspect ratio for a viewport of the given size.
// Non-positive sizes (a minimized window) are ignored.
func (c *Perspective) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.Aspect = float32(width) / float32(height)
}

// ViewMatrix returns the world-to-view transform.
func (c *Perspective) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position, c.Target, c.Up)
}

// ProjectionMatrix returns the view-to-clip transform.
func (c *Perspective) ProjectionMatrix() math.Mat4 {
	return math.Perspective(c.FovY, c.Aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Perspective) ViewProjection() math.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}
