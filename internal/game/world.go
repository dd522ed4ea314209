package game

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/config"
	"github.com/Faultbox/flatshadow/internal/engine/camera"
	"github.com/Faultbox/flatshadow/internal/engine/frame"
	"github.com/Faultbox/flatshadow/internal/engine/geometry"
	"github.com/Faultbox/flatshadow/internal/engine/scene"
	"github.com/Faultbox/flatshadow/internal/engine/shadow"
	"github.com/Faultbox/flatshadow/internal/engine/skin"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

// Colours of the demo objects.
const (
	GroundColor = 0x008200
	CubeColor   = 0xff0000
	TubeColor   = 0xff0000
)

// ground slab thickness; its top face sits at the configured ground level.
const groundThickness = 0.01

// Stats accumulates per-frame results over the life of a World.
type Stats struct {
	Frames  uint64
	Updated uint64 // proxy updates applied
	Skipped uint64 // proxy updates skipped as degenerate
	Resizes uint64
}

// World is the demo scene: a ground slab, an orbiting cube and a skinned
// cylinder, the last two casting planar shadows.
type World struct {
	cfg    *config.Config
	log    *zap.Logger
	scene  *scene.Scene
	camera *camera.Perspective
	orbit  *Orbit

	ground scene.NodeID
	cube   scene.NodeID
	tube   scene.NodeID

	skeleton *skin.Skeleton
	bindings []skin.Binding
	rest     []math.Vec3
	tubeMesh *geometry.Mesh

	plane shadow.Plane
	light shadow.Light

	stats Stats
}

// NewWorld builds the scene described by cfg.
func NewWorld(cfg *config.Config) (*World, error) {
	plane, err := cfg.Plane()
	if err != nil {
		return nil, err
	}
	light, err := cfg.Light()
	if err != nil {
		return nil, err
	}

	w := &World{
		cfg:    cfg,
		log:    logger.Named("world"),
		scene:  scene.New(),
		camera: camera.NewPerspective(cfg.Graphics.Width, cfg.Graphics.Height),
		orbit:  NewOrbit(cfg.Scene),
		plane:  plane,
		light:  light,
	}

	w.ground, err = w.scene.Add(scene.Node{
		Name:  "ground",
		Local: math.Translate(0, cfg.Shadow.GroundLevel-groundThickness/2, 0),
		Mesh:  geometry.Box(30, groundThickness, 40),
		Color: GroundColor,
	})
	if err != nil {
		return nil, err
	}

	size := cfg.Scene.CubeSize
	w.cube, err = w.scene.Add(scene.Node{
		Name:  "cube",
		Local: w.orbit.Transform(),
		Mesh:  geometry.Box(size, size, size),
		Color: CubeColor,
	})
	if err != nil {
		return nil, err
	}
	if _, err := w.scene.AttachShadow(w.cube); err != nil {
		return nil, fmt.Errorf("cube shadow: %w", err)
	}

	if cfg.Skin.Enabled {
		if err := w.addTube(); err != nil {
			return nil, fmt.Errorf("skinned cylinder: %w", err)
		}
	}

	w.log.Info("world created",
		zap.Stringer("plane", plane),
		zap.Stringer("light", light),
		zap.Int("nodes", w.scene.Len()),
		zap.Bool("skin", cfg.Skin.Enabled),
	)
	return w, nil
}

// addTube builds the cylinder, binds its vertices to a bone chain and
// registers it as a second caster.
func (w *World) addTube() error {
	sc := w.cfg.Skin

	opts := geometry.DefaultCylinderOptions()
	opts.RadiusTop = sc.Radius
	opts.RadiusBottom = sc.Radius
	opts.Height = sc.Height
	opts.RadialSegments = sc.RadialSegments
	opts.HeightSegments = sc.HeightSegments
	opts.ThetaStart = sc.ThetaStart
	opts.ThetaLength = sc.ThetaLength
	w.tubeMesh = geometry.Cylinder(opts)
	w.rest = append([]math.Vec3(nil), w.tubeMesh.Positions...)

	half := sc.Height / 2
	bindings, clamped, err := skin.BindMesh(w.rest, skin.AxisY, -half, sc.Height, sc.Segments)
	if err != nil {
		return err
	}
	if clamped > 0 {
		w.log.Warn("cylinder vertices outside the bone span", zap.Int("clamped", clamped))
	}
	w.bindings = bindings

	w.skeleton = skin.NewChain(sc.Segments+1, math.Vec3{Y: -half}, sc.Height/float32(sc.Segments))
	w.Bend(sc.RootBend, sc.JointBend)

	w.tube, err = w.scene.Add(scene.Node{Name: "cylinder", Mesh: w.tubeMesh, Color: TubeColor})
	if err != nil {
		return err
	}
	if err := w.deform(); err != nil {
		return err
	}
	_, err = w.scene.AttachShadow(w.tube)
	return err
}

// Bend poses the cylinder's chain: the root bone turns by root radians about
// X and every other bone by joint radians relative to its parent.
func (w *World) Bend(root, joint float32) {
	if w.skeleton == nil {
		return
	}
	axis := math.Vec3{X: 1}
	for i := 0; i < w.skeleton.Len(); i++ {
		angle := joint
		if i == 0 {
			angle = root
		}
		w.skeleton.SetRotation(i, math.QuatFromAxisAngle(axis, angle))
	}
}

// deform skins the cylinder's shared mesh from the current pose.
func (w *World) deform() error {
	if w.skeleton == nil {
		return nil
	}
	w.skeleton.Pose()
	return w.skeleton.Deform(w.rest, w.bindings, w.tubeMesh.Positions)
}

// Tick advances the world by one frame. Caster transforms and poses are
// final before any shadow is updated.
func (w *World) Tick(fc frame.Context) error {
	w.orbit.Advance(float32(fc.Delta))
	if err := w.scene.SetLocal(w.cube, w.orbit.Transform()); err != nil {
		return err
	}
	w.scene.UpdateWorld()
	if err := w.deform(); err != nil {
		return fmt.Errorf("frame %d: %w", fc.Frame, err)
	}

	st := w.scene.UpdateShadows(w.plane, w.light)
	w.stats.Frames++
	w.stats.Updated += uint64(st.Updated)
	w.stats.Skipped += uint64(st.Skipped)
	return nil
}

// Resize adapts the camera to a new viewport. Shadow state is untouched.
func (w *World) Resize(width, height int) {
	w.camera.Resize(width, height)
	w.stats.Resizes++
	w.log.Debug("viewport resized", zap.Int("width", width), zap.Int("height", height))
}

// SetLight replaces the light used from the next tick on.
func (w *World) SetLight(l shadow.Light) {
	w.light = l
}

// SetPlane replaces the receiving plane used from the next tick on.
func (w *World) SetPlane(p shadow.Plane) {
	w.plane = p
}

// Plane returns the receiving plane.
func (w *World) Plane() shadow.Plane {
	return w.plane
}

// Light returns the current light.
func (w *World) Light() shadow.Light {
	return w.light
}

// Scene returns the underlying scene.
func (w *World) Scene() *scene.Scene {
	return w.scene
}

// Camera returns the viewing camera.
func (w *World) Camera() *camera.Perspective {
	return w.camera
}

// Orbit returns the cube animation state.
func (w *World) Orbit() *Orbit {
	return w.orbit
}

// Cube returns the cube's node ID.
func (w *World) Cube() scene.NodeID {
	return w.cube
}

// Tube returns the skinned cylinder's node ID, or false if skinning is off.
func (w *World) Tube() (scene.NodeID, bool) {
	return w.tube, w.skeleton != nil
}

// Stats returns the counters accumulated so far.
func (w *World) Stats() Stats {
	return w.stats
}

// Draws appends this frame's draw list to dst.
func (w *World) Draws(dst []scene.Draw) []scene.Draw {
	return w.scene.DrawList(dst)
}

// ViewProjection returns the camera's combined matrix.
func (w *World) ViewProjection() math.Mat4 {
	return w.camera.ViewProjection()
}
