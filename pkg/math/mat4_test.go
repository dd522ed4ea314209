package math

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sample is an arbitrary affine matrix with rotation, scale and translation.
func sample() Mat4 {
	return Translate(1, -2, 3).Mul(RotateX(0.3)).Mul(RotateY(-1.1)).Mul(Scale(2, 0.5, 1.5))
}

func assertMatEqual(t *testing.T, want, got Mat4, eps float32) {
	t.Helper()
	for i := range want {
		assert.InDeltaf(t, want[i], got[i], float64(eps), "element %d", i)
	}
}

func TestIdentity(t *testing.T) {
	m := Identity()
	// Diagonal should be 1
	assert.Equal(t, []float32{1, 1, 1, 1}, []float32{m[0], m[5], m[10], m[15]})
	// Off-diagonal should be 0
	assert.Zero(t, m[1])
	assert.Zero(t, m[4])
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	assert.Equal(t, m, m.Mul(Identity()))
	assert.Equal(t, m, Identity().Mul(m))
}

func TestMulMatchesMathGL(t *testing.T) {
	a := sample()
	b := Perspective(0.9, 1.6, 1, 3000).Mul(RotateZ(0.7))

	want := mgl32.Mat4(a).Mul4(mgl32.Mat4(b))
	assertMatEqual(t, Mat4(want), a.Mul(b), 1e-4)
}

func TestTranslate(t *testing.T) {
	m := Translate(5, 10, 15)

	// Translation should be in column 4 (indices 12, 13, 14)
	assert.Equal(t, Vec3{5, 10, 15}, m.Translation())
	assert.Equal(t, float32(5), m.At(0, 3))
}

func TestSet(t *testing.T) {
	var m Mat4
	m.Set(1, 3, 7)
	assert.Equal(t, float32(7), m[13])
	assert.Equal(t, float32(7), m.At(1, 3))
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	assert.Equal(t, [3]float32{11, 22, 33}, m.TransformPoint([3]float32{1, 2, 3}))

	m = Scale(2, 2, 2)
	assert.Equal(t, Vec3{2, 4, 6}, m.TransformVec3(Vec3{1, 2, 3}))
}

func TestTransformPointHomogeneousDivide(t *testing.T) {
	// w row scales every point by 2, so the divide brings it back.
	m := Scale(2, 2, 2)
	m[15] = 2
	assert.Equal(t, [3]float32{1, 2, 3}, m.TransformPoint([3]float32{1, 2, 3}))
}

func TestRotateY90(t *testing.T) {
	m := RotateY(math.Pi / 2)
	got := m.TransformVec3(Vec3{1, 0, 0})

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	assert.InDelta(t, 0, got.X, 1e-3)
	assert.InDelta(t, 0, got.Y, 1e-3)
	assert.InDelta(t, -1, got.Z, 1e-3)
}

func TestRotationsMatchMathGL(t *testing.T) {
	assertMatEqual(t, Mat4(mgl32.HomogRotate3DX(0.4)), RotateX(0.4), 1e-6)
	assertMatEqual(t, Mat4(mgl32.HomogRotate3DY(0.4)), RotateY(0.4), 1e-6)
	assertMatEqual(t, Mat4(mgl32.HomogRotate3DZ(0.4)), RotateZ(0.4), 1e-6)
}

func TestPerspective(t *testing.T) {
	m := Perspective(math.Pi/4, 1, 0.1, 100)

	assert.Zero(t, m[15], "perspective [15] should be 0")
	assert.Equal(t, float32(-1), m[11])
	assertMatEqual(t, Mat4(mgl32.Perspective(math.Pi/4, 1, 0.1, 100)), m, 1e-5)
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 2.5, 10}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)

	want := mgl32.LookAtV(mgl32.Vec3{0, 2.5, 10}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	assertMatEqual(t, Mat4(want), m, 1e-5)

	// The eye itself lands on the view-space origin.
	origin := m.TransformVec3(eye)
	assert.InDelta(t, 0, origin.Length(), 1e-5)
}

func TestInverse(t *testing.T) {
	m := sample()
	inv := m.Inverse()

	assertMatEqual(t, Identity(), m.Mul(inv), 1e-5)
	assertMatEqual(t, Mat4(mgl32.Mat4(m).Inv()), inv, 1e-4)
}

func TestInverseSingular(t *testing.T) {
	assert.Equal(t, Identity(), Mat4{}.Inverse())
}

func TestMulVec4(t *testing.T) {
	m := Translate(1, 2, 3)
	assert.Equal(t, Vec4{2, 3, 4, 1}, m.MulVec4(Vec4{1, 1, 1, 1}))
	// Directions ignore translation.
	assert.Equal(t, Vec4{1, 1, 1, 0}, m.MulVec4(Vec4{1, 1, 1, 0}))
}

func TestIsFinite(t *testing.T) {
	m := sample()
	require.True(t, m.IsFinite())

	m[7] = float32(math.Inf(1))
	assert.False(t, m.IsFinite())

	m[7] = float32(math.NaN())
	assert.False(t, m.IsFinite())
}

func TestApproxEqual(t *testing.T) {
	a := sample()
	b := a
	b[3] += 1e-6
	assert.True(t, a.ApproxEqual(b, 1e-5))
	b[3] += 1
	assert.False(t, a.ApproxEqual(b, 1e-5))
}
