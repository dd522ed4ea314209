// Package geometry builds procedural triangle meshes for shadow casters.
package geometry

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/pkg/math"
)

// Mesh holds indexed triangle geometry in object space.
// A shadow proxy shares its caster's Mesh rather than copying it.
type Mesh struct {
	Positions []math.Vec3
	Indices   []uint32
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns the extent of the box along each axis.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}

// Bounds computes the axis-aligned bounds of the mesh positions.
// An empty mesh has zero bounds.
func (m *Mesh) Bounds() Bounds {
	if len(m.Positions) == 0 {
		return Bounds{}
	}
	b := Bounds{Min: m.Positions[0], Max: m.Positions[0]}
	for _, p := range m.Positions[1:] {
		b.Min = math.Vec3{X: math32.Min(b.Min.X, p.X), Y: math32.Min(b.Min.Y, p.Y), Z: math32.Min(b.Min.Z, p.Z)}
		b.Max = math.Vec3{X: math32.Max(b.Max.X, p.X), Y: math32.Max(b.Max.Y, p.Y), Z: math32.Max(b.Max.Z, p.Z)}
	}
	return b
}

// TriangleCount returns the number of indexed triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Clone returns a deep copy of the mesh.
func (m *Mesh) Clone() *Mesh {
	return &Mesh{
		Positions: append([]math.Vec3(nil), m.Positions...),
		Indices:   append([]uint32(nil), m.Indices...),
	}
}

// Box builds an axis-aligned box centred on the origin.
func Box(width, height, depth float32) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2

	positions := []math.Vec3{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz},
		{X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz},
		{X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz},
	}

	// Counter-clockwise when viewed from outside.
	indices := []uint32{
		4, 5, 6, 4, 6, 7, // +Z
		1, 0, 3, 1, 3, 2, // -Z
		5, 1, 2, 5, 2, 6, // +X
		0, 4, 7, 0, 7, 3, // -X
		7, 6, 2, 7, 2, 3, // +Y
		0, 1, 5, 0, 5, 4, // -Y
	}

	return &Mesh{Positions: positions, Indices: indices}
}

// CylinderOptions configures Cylinder.
type CylinderOptions struct {
	RadiusTop      float32
	RadiusBottom   float32
	Height         float32
	RadialSegments int
	HeightSegments int
	OpenEnded      bool
	ThetaStart     float32 // radians
	ThetaLength    float32 // radians
}

// DefaultCylinderOptions returns a closed unit cylinder.
func DefaultCylinderOptions() CylinderOptions {
	return CylinderOptions{
		RadiusTop:      1,
		RadiusBottom:   1,
		Height:         1,
		RadialSegments: 8,
		HeightSegments: 1,
		ThetaLength:    2 * math32.Pi,
	}
}

// Cylinder builds a cylinder centred on the origin with its axis along Y.
// Rows run from the top (y = +Height/2) to the bottom.
func Cylinder(opts CylinderOptions) *Mesh {
	radial := max(opts.RadialSegments, 3)
	rows := max(opts.HeightSegments, 1)
	half := opts.Height / 2

	m := &Mesh{}
	grid := make([][]uint32, rows+1)

	for y := 0; y <= rows; y++ {
		v := float32(y) / float32(rows)
		radius := v*(opts.RadiusBottom-opts.RadiusTop) + opts.RadiusTop
		grid[y] = make([]uint32, radial+1)

		for x := 0; x <= radial; x++ {
			u := float32(x) / float32(radial)
			sin, cos := math32.Sincos(u*opts.ThetaLength + opts.ThetaStart)
			grid[y][x] = uint32(len(m.Positions))
			m.Positions = append(m.Positions, math.Vec3{
				X: radius * sin,
				Y: -v*opts.Height + half,
				Z: radius * cos,
			})
		}
	}

	for x := 0; x < radial; x++ {
		for y := 0; y < rows; y++ {
			a := grid[y][x]
			b := grid[y+1][x]
			c := grid[y+1][x+1]
			d := grid[y][x+1]
			m.Indices = append(m.Indices, a, b, d, b, c, d)
		}
	}

	if !opts.OpenEnded {
		if opts.RadiusTop > 0 {
			m.cap(grid[0], half, false)
		}
		if opts.RadiusBottom > 0 {
			m.cap(grid[rows], -half, true)
		}
	}

	return m
}

// cap closes one end of a cylinder with a triangle fan around a centre vertex.
func (m *Mesh) cap(ring []uint32, y float32, bottom bool) {
	center := uint32(len(m.Positions))
	m.Positions = append(m.Positions, math.Vec3{Y: y})

	for x := 0; x < len(ring)-1; x++ {
		if bottom {
			m.Indices = append(m.Indices, center, ring[x+1], ring[x])
		} else {
			m.Indices = append(m.Indices, center, ring[x], ring[x+1])
		}
	}
}
