// Package skin assigns bone indices and blend weights to mesh vertices and
// deforms them with a posed bone chain.
package skin

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/pkg/math"
)

var (
	// ErrOutOfRange reports a height fraction outside [0,1]. The binding
	// returned alongside it is computed from the clamped value and is usable.
	ErrOutOfRange = errors.New("skin: height fraction out of range")
	// ErrInvalidSegments is returned for a segment count below one.
	ErrInvalidSegments = errors.New("skin: segment count must be at least 1")
)

// Binding ties a vertex to two adjacent bones of a chain.
// The low bone carries 1-Weight and the high bone carries Weight.
type Binding struct {
	Low    int
	High   int
	Weight float32
}

// WeightLow returns the blend weight of the low bone.
func (b Binding) WeightLow() float32 {
	return 1 - b.Weight
}

// WeightHigh returns the blend weight of the high bone.
func (b Binding) WeightHigh() float32 {
	return b.Weight
}

// Attributes returns the binding as four-wide skin index and weight
// attributes, the layout vertex shaders expect. Unused slots are zero.
func (b Binding) Attributes() ([4]uint16, [4]float32) {
	return [4]uint16{uint16(b.Low), uint16(b.High), 0, 0},
		[4]float32{b.WeightLow(), b.WeightHigh(), 0, 0}
}

// Bind computes the binding of a vertex at fraction along a chain of
// segments bone segments (segments+1 bones).
//
// The low bone is floor(fraction/segmentSize) and the weight is the position
// within that segment. At a segment boundary the low bone carries the full
// weight, except at fraction 1 where the last segment's high bone does, so
// indices never pass the last bone.
//
// A fraction outside [0,1] is clamped and ErrOutOfRange is returned with the
// clamped binding.
func Bind(fraction float32, segments int) (Binding, error) {
	if segments < 1 {
		return Binding{}, fmt.Errorf("%w: got %d", ErrInvalidSegments, segments)
	}

	var rangeErr error
	switch {
	case math32.IsNaN(fraction):
		rangeErr = fmt.Errorf("%w: NaN", ErrOutOfRange)
		fraction = 0
	case fraction < 0 || fraction > 1:
		rangeErr = fmt.Errorf("%w: %g", ErrOutOfRange, fraction)
		fraction = math32.Max(0, math32.Min(1, fraction))
	}

	// fraction/segmentSize, taking floor and remainder from the same
	// quotient so the index and weight never disagree at a boundary.
	t := fraction * float32(segments)
	low := int(math32.Floor(t))
	weight := t - float32(low)

	if low >= segments {
		low = segments - 1
		weight = 1
	}
	weight = math32.Max(0, math32.Min(1, weight))

	return Binding{Low: low, High: low + 1, Weight: weight}, rangeErr
}

// Axis selects the articulation axis of a mesh.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Component returns v's coordinate along the axis.
func (a Axis) Component(v math.Vec3) float32 {
	switch a {
	case AxisX:
		return v.X
	case AxisZ:
		return v.Z
	default:
		return v.Y
	}
}

// BindMesh binds every position along axis, normalizing against the span
// [start, start+extent]. It returns the bindings and the number of vertices
// that fell outside the span and were clamped.
func BindMesh(positions []math.Vec3, axis Axis, start, extent float32, segments int) ([]Binding, int, error) {
	if extent <= 0 {
		return nil, 0, fmt.Errorf("skin: extent must be positive, got %g", extent)
	}

	bindings := make([]Binding, len(positions))
	clamped := 0
	for i, p := range positions {
		b, err := Bind((axis.Component(p)-start)/extent, segments)
		switch {
		case errors.Is(err, ErrOutOfRange):
			clamped++
		case err != nil:
			return nil, 0, err
		}
		bindings[i] = b
	}
	return bindings, clamped, nil
}
