package shadow

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/pkg/math"
)

// DegenerateEpsilon bounds |plane·light| below which no projection is produced.
const DegenerateEpsilon = 1e-6

// Compute returns the matrix projecting points onto plane along rays from light.
//
// With P the plane coefficients and L the homogeneous light, d = P·L and
//
//	M = d·I - L·Pᵀ
//
// so M·X = d·X - L·(P·X). Every image satisfies P·(M·X) = 0, and points on the
// plane map to d·X, which is X after the homogeneous divide. As L.W shrinks
// the rays become parallel to (L.X, L.Y, L.Z) while d stays finite.
//
// If |d| < DegenerateEpsilon the light lies on the plane (or shines parallel
// to it) and ErrDegenerateProjection is returned with a zero matrix.
func Compute(plane Plane, light Light) (math.Mat4, error) {
	p := plane.Vec4()
	l := light.Vec4()

	d := p.Dot(l)
	if math32.IsNaN(d) || math32.Abs(d) < DegenerateEpsilon {
		return math.Mat4{}, fmt.Errorf("%w: %v against %v (d=%g)", ErrDegenerateProjection, light, plane, d)
	}

	var m math.Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			v := -l[row] * p[col]
			if row == col {
				v += d
			}
			m.Set(row, col, v)
		}
	}

	if !m.IsFinite() {
		return math.Mat4{}, fmt.Errorf("%w: non-finite matrix for %v against %v", ErrDegenerateProjection, light, plane)
	}
	return m, nil
}

// ProjectPoint applies a shadow matrix to a world-space point, including the
// homogeneous divide. It reports false when the point has no image on the
// plane: a point level with a point light (w' = 0) casts along a ray parallel
// to the plane.
func ProjectPoint(m math.Mat4, p math.Vec3) (math.Vec3, bool) {
	h := m.MulVec4(p.Vec4(1))
	w := h[3]
	if math32.IsNaN(w) || math32.Abs(w) < DegenerateEpsilon {
		return math.Vec3{}, false
	}
	q := math.Vec3{X: h[0] / w, Y: h[1] / w, Z: h[2] / w}
	if !q.IsFinite() {
		return math.Vec3{}, false
	}
	return q, true
}
