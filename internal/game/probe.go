package game

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/flatshadow/internal/engine/scene"
	"github.com/Faultbox/flatshadow/internal/engine/shadow"
	"github.com/Faultbox/flatshadow/pkg/math"
)

// PlaneSource supplies the receiving plane in effect for the current frame.
type PlaneSource interface {
	Plane() shadow.Plane
}

// Probe is a Renderer without a GPU. It flattens every shadow draw on the
// CPU and measures how far the result strays from the receiving plane.
type Probe struct {
	planes PlaneSource

	Width  int
	Height int

	Frames      uint64
	Draws       uint64
	ShadowDraws uint64
	Vertices    uint64 // shadow vertices checked
	NonFinite   uint64 // shadow vertices with no image on the plane
	MaxOffPlane float32

	LastViewProj math.Mat4
}

// NewProbe returns a probe checking shadows against the plane planes reports
// at each Render. Game.New retargets it at its own world. A nil source skips
// the plane check.
func NewProbe(planes PlaneSource, width, height int) *Probe {
	return &Probe{planes: planes, Width: width, Height: height}
}

// Track makes the probe read the receiving plane from src.
func (p *Probe) Track(src PlaneSource) {
	p.planes = src
}

// Resize implements Renderer.
func (p *Probe) Resize(width, height int) {
	p.Width, p.Height = width, height
}

// Render implements Renderer.
func (p *Probe) Render(viewProj math.Mat4, draws []scene.Draw) error {
	p.Frames++
	p.LastViewProj = viewProj

	var plane shadow.Plane
	checkPlane := p.planes != nil
	if checkPlane {
		plane = p.planes.Plane()
	}
	for _, d := range draws {
		p.Draws++
		if !d.Shadow {
			continue
		}
		p.ShadowDraws++
		for _, v := range d.Mesh.Positions {
			p.Vertices++
			q, ok := shadow.ProjectPoint(d.Model, v)
			if !ok {
				p.NonFinite++
				continue
			}
			if !checkPlane {
				continue
			}
			if off := math32.Abs(plane.Distance(q)); off > p.MaxOffPlane {
				p.MaxOffPlane = off
			}
		}
	}
	return nil
}

// Close implements Renderer.
func (p *Probe) Close() {}
