package shadow

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/flatshadow/internal/engine/geometry"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

func TestNewProxyRequiresGeometry(t *testing.T) {
	_, err := NewProxy("cube", nil)
	assert.ErrorIs(t, err, ErrNoGeometry)

	_, err = NewProxy("cube", &geometry.Mesh{})
	assert.ErrorIs(t, err, ErrNoGeometry)
}

func TestProxyComposesWorldTransform(t *testing.T) {
	plane := mustPlane(t, math.Vec3{Y: 1}, 0.01)
	light := mustLight(t, 5, 7, -1, 0.001)
	mesh := geometry.Box(1, 1, 1)

	p, err := NewProxy("cube", mesh)
	require.NoError(t, err)
	assert.Same(t, mesh, p.Mesh())
	assert.Equal(t, "cube", p.Caster())

	_, ok := p.Matrix()
	assert.False(t, ok, "no transform before the first update")
	verts, missing := p.ProjectedVertices(nil)
	assert.Empty(t, verts)
	assert.Zero(t, missing)

	world := math.Translate(0, 3, -1).Mul(math.RotateX(0.4))
	require.NoError(t, p.Update(plane, light, world))

	got, ok := p.Matrix()
	require.True(t, ok)
	assert.Equal(t, mustCompute(t, plane, light).Mul(world), got)
	assert.Equal(t, uint64(1), p.Updates())

	verts, missing = p.ProjectedVertices(nil)
	assert.Zero(t, missing)
	assert.Len(t, verts, len(mesh.Positions))
	for _, v := range verts {
		assert.InDelta(t, -0.01, v.Y, 1e-4)
	}
}

func TestProxyDropsVerticesLevelWithPointLight(t *testing.T) {
	plane := mustPlane(t, math.Vec3{Y: 1}, 0)
	light := mustLight(t, 0, 10, 0, 1)
	mesh := geometry.Box(1, 1, 1)

	p, err := NewProxy("cube", mesh)
	require.NoError(t, err)

	// Box spans y in [-0.5, 0.5]; lifting it by 9.5 puts its top face level
	// with the light.
	require.NoError(t, p.Update(plane, light, math.Translate(3, 9.5, 0)))

	verts, missing := p.ProjectedVertices(nil)
	top := 0
	for _, v := range mesh.Positions {
		if v.Y > 0 {
			top++
		}
	}
	require.NotZero(t, top)
	assert.Equal(t, top, missing)
	assert.Len(t, verts, len(mesh.Positions)-top)
	for _, v := range verts {
		require.True(t, v.IsFinite())
		assert.InDelta(t, 0, v.Y, 1e-3)
	}
}

func TestProxyKeepsLastTransformOnDegenerateFrame(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger.InitWithCore(core)
	defer logger.InitNop()

	plane := mustPlane(t, math.Vec3{Y: 1}, 0.01)
	good := mustLight(t, 5, 7, -1, 1)
	onPlane := mustLight(t, 5, -0.01, -1, 1)

	p, err := NewProxy("cube", geometry.Box(1, 1, 1))
	require.NoError(t, err)

	require.NoError(t, p.Update(plane, good, math.Translate(0, 2, 0)))
	last, _ := p.Matrix()

	for i := 0; i < 3; i++ {
		err := p.Update(plane, onPlane, math.Translate(float32(i), 2, 0))
		require.ErrorIs(t, err, ErrDegenerateProjection)
	}

	got, ok := p.Matrix()
	assert.True(t, ok)
	assert.Equal(t, last, got, "stale-but-safe transform")
	assert.True(t, p.Degenerate())
	assert.Equal(t, uint64(3), p.Skipped())

	// One warning on entering the degenerate state, not one per frame.
	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.Equal(t, "cube", warnings[0].ContextMap()["caster"])

	require.NoError(t, p.Update(plane, good, math.Translate(1, 2, 0)))
	assert.False(t, p.Degenerate())
	assert.Equal(t, 1, logs.FilterMessage("shadow projection recovered").Len())
	assert.Equal(t, uint64(2), p.Updates())
}

func TestProxyRejectsNonFiniteWorld(t *testing.T) {
	plane := mustPlane(t, math.Vec3{Y: 1}, 0.01)
	light := mustLight(t, 5, 7, -1, 0.001)

	p, err := NewProxy("cube", geometry.Box(1, 1, 1))
	require.NoError(t, err)

	world := math.Translate(math32.Inf(1), 0, 0)
	assert.ErrorIs(t, p.Update(plane, light, world), ErrDegenerateProjection)
	_, ok := p.Matrix()
	assert.False(t, ok)
}

// TestOrbitingCubeStaysOnPlane drives a cube along the demo orbit for 10,000
// frames and checks every flattened vertex lies on the receiving plane.
func TestOrbitingCubeStaysOnPlane(t *testing.T) {
	plane := mustPlane(t, math.Vec3{Y: 1}, 0.01)
	light := mustLight(t, 5, 7, -1, 0.001)
	surface := plane.Origin().Y

	p, err := NewProxy("cube", geometry.Box(1, 1, 1))
	require.NoError(t, err)

	const dt = float32(1) / 60
	var theta, phi, spin float32
	var verts []math.Vec3

	for frame := 0; frame < 10000; frame++ {
		theta = math32.Mod(theta+0.5*dt, 2*math32.Pi)
		phi = math32.Mod(phi+1.5*dt, 2*math32.Pi)
		spin += dt

		world := math.Translate(math32.Sin(theta)*4, math32.Sin(phi)*2+2.9, -1).
			Mul(math.RotateX(spin)).
			Mul(math.RotateY(spin))

		require.NoError(t, p.Update(plane, light, world))

		m, _ := p.Matrix()
		require.Truef(t, m.IsFinite(), "frame %d: %v", frame, m)

		verts, _ = p.ProjectedVertices(verts[:0])
		for _, v := range verts {
			if math32.Abs(v.Y-surface) > 1e-3 {
				t.Fatalf("frame %d: vertex %v off plane (y=%v)", frame, v, surface)
			}
		}
	}
	assert.Equal(t, uint64(10000), p.Updates())
}
