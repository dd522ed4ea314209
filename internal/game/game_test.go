package game

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/flatshadow/internal/config"
	"github.com/Faultbox/flatshadow/internal/engine/frame"
	"github.com/Faultbox/flatshadow/internal/engine/geometry"
	"github.com/Faultbox/flatshadow/internal/engine/scene"
	"github.com/Faultbox/flatshadow/internal/engine/shadow"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

type failingRenderer struct {
	Probe
	failAt uint64
}

func (r *failingRenderer) Render(viewProj math.Mat4, draws []scene.Draw) error {
	if r.Frames == r.failAt {
		return errors.New("device lost")
	}
	return r.Probe.Render(viewProj, draws)
}

// planeSwitch steps like a Stepper and swaps the world's receiving plane
// before frame at.
type planeSwitch struct {
	frame.Stepper
	at    uint64
	plane shadow.Plane
	world func() *World
}

func (s *planeSwitch) Run(ctx context.Context, tick frame.TickFunc, resize frame.ResizeFunc) error {
	return s.Stepper.Run(ctx, func(fc frame.Context) error {
		if fc.Frame == s.at {
			s.world().SetPlane(s.plane)
		}
		return tick(fc)
	}, resize)
}

func TestGameRunHeadless(t *testing.T) {
	cfg := config.Default()
	probe := NewProbe(nil, cfg.Graphics.Width, cfg.Graphics.Height)
	s := &frame.Stepper{
		Frames:  10000,
		Step:    1.0 / 60,
		Resizes: map[uint64][2]int{5000: {800, 600}},
	}

	g, err := New(cfg, probe, s)
	require.NoError(t, err)
	defer g.Close()

	require.NoError(t, g.Run(context.Background()))

	assert.Equal(t, uint64(10000), probe.Frames)
	assert.Equal(t, 800, probe.Width)
	assert.Equal(t, 600, probe.Height)
	assert.Zero(t, probe.NonFinite)
	assert.Less(t, probe.MaxOffPlane, float32(1e-3))
	assert.Equal(t, uint64(1), g.World().Stats().Resizes)
	assert.True(t, probe.LastViewProj.IsFinite())
}

func TestGameRunRenderError(t *testing.T) {
	cfg := config.Default()
	r := &failingRenderer{Probe: *NewProbe(nil, 1, 1), failAt: 3}
	g, err := New(cfg, r, &frame.Stepper{Frames: 10, Step: 0.1})
	require.NoError(t, err)

	err = g.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "device lost")
	assert.Equal(t, uint64(3), r.Frames)
}

func TestGameRunCancelled(t *testing.T) {
	cfg := config.Default()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	probe := NewProbe(nil, 1, 1)
	g, err := New(cfg, probe, &frame.Stepper{Frames: 10, Step: 0.1})
	require.NoError(t, err)

	assert.NoError(t, g.Run(ctx))
	assert.Zero(t, probe.Frames)
}

func TestGameLogsSummary(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.InitWithCore(core)
	defer logger.InitNop()

	cfg := config.Default()
	g, err := New(cfg, NewProbe(nil, 1, 1), &frame.Stepper{Frames: 3, Step: 0.1})
	require.NoError(t, err)
	require.NoError(t, g.Run(context.Background()))

	done := logs.FilterMessage("frame loop finished").All()
	require.Len(t, done, 1)
	assert.Equal(t, uint64(3), done[0].ContextMap()["frames"])
}

func TestProbeFollowsPlaneChanges(t *testing.T) {
	cfg := config.Default()
	lowered, err := shadow.NewPlane(math.Vec3{Y: 1}, 0.5)
	require.NoError(t, err)

	var g *Game
	s := &planeSwitch{
		Stepper: frame.Stepper{Frames: 600, Step: 1.0 / 60},
		at:      300,
		plane:   lowered,
		world:   func() *World { return g.World() },
	}
	probe := NewProbe(nil, 1, 1)
	g, err = New(cfg, probe, s)
	require.NoError(t, err)
	require.NoError(t, g.Run(context.Background()))

	assert.Equal(t, uint64(600), probe.Frames)
	assert.Zero(t, probe.NonFinite)
	assert.Less(t, probe.MaxOffPlane, float32(1e-3))

	// The shadows really moved down to y = -0.5.
	p, _ := g.World().Scene().Shadow(g.World().Cube())
	verts, _ := p.ProjectedVertices(nil)
	require.NotEmpty(t, verts)
	for _, v := range verts {
		assert.InDelta(t, -0.5, v.Y, 1e-3)
	}
}

func TestProbeCountsVerticesWithNoImage(t *testing.T) {
	plane, err := shadow.NewPlane(math.Vec3{Y: 1}, 0)
	require.NoError(t, err)
	light, err := shadow.Point(math.Vec3{Y: 10})
	require.NoError(t, err)
	m, err := shadow.Compute(plane, light)
	require.NoError(t, err)

	// A unit box centred at y = 9.5 has its top face level with the light.
	draw := scene.Draw{
		Mesh:   geometry.Box(1, 1, 1),
		Model:  m.Mul(math.Translate(3, 9.5, 0)),
		Shadow: true,
	}

	probe := NewProbe(nil, 1, 1)
	probe.Track(fixedPlane(plane))
	require.NoError(t, probe.Render(math.Identity(), []scene.Draw{draw}))

	assert.Equal(t, uint64(8), probe.Vertices)
	assert.Equal(t, uint64(4), probe.NonFinite)
	assert.Less(t, probe.MaxOffPlane, float32(1e-3))
}

// fixedPlane is a PlaneSource that never changes.
type fixedPlane shadow.Plane

func (p fixedPlane) Plane() shadow.Plane { return shadow.Plane(p) }
