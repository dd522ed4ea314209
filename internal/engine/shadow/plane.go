// Package shadow computes planar projective shadows.
//
// A caster's geometry is flattened onto a receiving plane by a single 4x4
// matrix derived from the plane and a homogeneous light position. The light's
// w component blends between a directional light (w -> 0+) and a point light
// (w = 1), so one formula covers both.
package shadow

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/pkg/math"
)

var (
	// ErrInvalidPlane is returned for a plane whose normal cannot be normalized.
	ErrInvalidPlane = errors.New("shadow: invalid plane")
	// ErrInvalidLight is returned for a light with w <= 0 or non-finite components.
	ErrInvalidLight = errors.New("shadow: invalid light")
	// ErrDegenerateProjection is returned when the light lies on the plane
	// (or its direction is parallel to it) and no projection exists.
	ErrDegenerateProjection = errors.New("shadow: degenerate projection")
	// ErrNoGeometry is returned when a proxy is created before its caster has geometry.
	ErrNoGeometry = errors.New("shadow: caster has no geometry")
)

// MinDirectionalW is the w used by Directional. Zero would make the
// projection singular.
const MinDirectionalW = 0.001

// Plane is the set of points p with Normal·p + Constant = 0.
// Construct it with NewPlane; the zero value is not a valid plane.
type Plane struct {
	Normal   math.Vec3
	Constant float32
}

// NewPlane returns the plane normal·p + constant = 0 with a unit normal.
// A non-unit normal is normalized and the constant scaled with it so the
// described point set is unchanged. A zero or non-finite normal is rejected.
func NewPlane(normal math.Vec3, constant float32) (Plane, error) {
	if !normal.IsFinite() || math32.IsNaN(constant) || math32.IsInf(constant, 0) {
		return Plane{}, fmt.Errorf("%w: non-finite normal %v or constant %v", ErrInvalidPlane, normal, constant)
	}
	l := normal.Length()
	if l < 1e-6 {
		return Plane{}, fmt.Errorf("%w: zero-length normal %v", ErrInvalidPlane, normal)
	}
	return Plane{Normal: normal.Scale(1 / l), Constant: constant / l}, nil
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(point math.Vec3) float32 {
	return p.Normal.Dot(point) + p.Constant
}

// Project returns the point on the plane closest to point.
func (p Plane) Project(point math.Vec3) math.Vec3 {
	return point.Sub(p.Normal.Scale(p.Distance(point)))
}

// Origin returns the point on the plane closest to the world origin.
func (p Plane) Origin() math.Vec3 {
	return p.Normal.Scale(-p.Constant)
}

// Vec4 returns the plane as homogeneous coefficients (a, b, c, d).
func (p Plane) Vec4() math.Vec4 {
	return p.Normal.Vec4(p.Constant)
}

// String implements fmt.Stringer.
func (p Plane) String() string {
	return fmt.Sprintf("plane(n=(%g, %g, %g), c=%g)", p.Normal.X, p.Normal.Y, p.Normal.Z, p.Constant)
}

// Light is a homogeneous light position. (X, Y, Z) is a world-space position
// and W blends the lighting model: values near zero approximate a directional
// light shining from direction (X, Y, Z); W = 1 is a point light at (X, Y, Z).
type Light struct {
	X, Y, Z, W float32
}

// NewLight validates and returns a light. W must be strictly positive.
func NewLight(x, y, z, w float32) (Light, error) {
	l := Light{X: x, Y: y, Z: z, W: w}
	if !l.Position().IsFinite() || math32.IsNaN(w) || math32.IsInf(w, 0) {
		return Light{}, fmt.Errorf("%w: non-finite component in %v", ErrInvalidLight, l)
	}
	if w <= 0 {
		return Light{}, fmt.Errorf("%w: w must be > 0, got %g", ErrInvalidLight, w)
	}
	return l, nil
}

// Directional returns a near-directional light shining from dir.
func Directional(dir math.Vec3) (Light, error) {
	return NewLight(dir.X, dir.Y, dir.Z, MinDirectionalW)
}

// Point returns a point light at pos.
func Point(pos math.Vec3) (Light, error) {
	return NewLight(pos.X, pos.Y, pos.Z, 1)
}

// Position returns the (X, Y, Z) part of the light.
func (l Light) Position() math.Vec3 {
	return math.Vec3{X: l.X, Y: l.Y, Z: l.Z}
}

// Vec4 returns the light as a homogeneous vector.
func (l Light) Vec4() math.Vec4 {
	return math.Vec4{l.X, l.Y, l.Z, l.W}
}

// String implements fmt.Stringer.
func (l Light) String() string {
	return fmt.Sprintf("light(%g, %g, %g, w=%g)", l.X, l.Y, l.Z, l.W)
}
