package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/flatshadow/pkg/math"
)

func TestBox(t *testing.T) {
	m := Box(1, 2, 3)

	assert.Len(t, m.Positions, 8)
	assert.Equal(t, 12, m.TriangleCount())

	b := m.Bounds()
	assert.Equal(t, math.Vec3{X: -0.5, Y: -1, Z: -1.5}, b.Min)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, b.Size())

	for _, idx := range m.Indices {
		assert.Less(t, int(idx), len(m.Positions))
	}
}

func TestCylinder(t *testing.T) {
	opts := DefaultCylinderOptions()
	opts.RadiusTop = 5
	opts.RadiusBottom = 5
	opts.Height = 5
	opts.RadialSegments = 5
	opts.HeightSegments = 15

	m := Cylinder(opts)

	// (15+1) rows of (5+1) vertices plus two cap centres.
	require.Len(t, m.Positions, 16*6+2)
	// Side quads plus one fan triangle per radial segment on each cap.
	assert.Equal(t, 15*5*2+2*5, m.TriangleCount())

	b := m.Bounds()
	assert.InDelta(t, -2.5, b.Min.Y, 1e-6)
	assert.InDelta(t, 2.5, b.Max.Y, 1e-6)
	assert.InDelta(t, 5, b.Max.Z, 1e-5)

	for _, idx := range m.Indices {
		assert.Less(t, int(idx), len(m.Positions))
	}
}

func TestCylinderOpenEnded(t *testing.T) {
	opts := DefaultCylinderOptions()
	opts.OpenEnded = true

	m := Cylinder(opts)
	assert.Len(t, m.Positions, 2*9)
	assert.Equal(t, 8*2, m.TriangleCount())
}

func TestCloneIsIndependent(t *testing.T) {
	m := Box(1, 1, 1)
	c := m.Clone()
	c.Positions[0].X = 42

	assert.NotEqual(t, m.Positions[0], c.Positions[0])
	assert.Equal(t, m.Indices, c.Indices)
}

func TestEmptyBounds(t *testing.T) {
	assert.Equal(t, Bounds{}, (&Mesh{}).Bounds())
}
