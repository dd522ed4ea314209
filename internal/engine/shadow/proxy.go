package shadow

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/engine/geometry"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

// Proxy is the flattened, unlit duplicate of a shadow caster.
//
// It shares the caster's mesh and owns only a transform: the shadow matrix
// composed with the caster's world transform for the current frame. Update is
// called once per frame after the caster's transform (and pose) is final.
type Proxy struct {
	caster string
	mesh   *geometry.Mesh
	log    *zap.Logger

	matrix     math.Mat4
	valid      bool
	degenerate bool

	updates uint64
	skipped uint64
}

// NewProxy creates a proxy for a caster whose geometry is already loaded.
func NewProxy(caster string, mesh *geometry.Mesh) (*Proxy, error) {
	if mesh == nil || len(mesh.Positions) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNoGeometry, caster)
	}
	return &Proxy{
		caster: caster,
		mesh:   mesh,
		log:    logger.Named("shadow").With(zap.String("caster", caster)),
	}, nil
}

// Update recomputes the shadow matrix for plane and light and composes it
// with the caster's world transform.
//
// A degenerate projection leaves the previous transform in place and returns
// an error wrapping ErrDegenerateProjection. The caller counts it and moves
// on; it never aborts a frame.
func (p *Proxy) Update(plane Plane, light Light, world math.Mat4) error {
	m, err := Compute(plane, light)
	if err == nil {
		m = m.Mul(world)
		if !m.IsFinite() {
			err = fmt.Errorf("%w: non-finite caster transform", ErrDegenerateProjection)
		}
	}

	if err != nil {
		p.skipped++
		if !p.degenerate {
			p.log.Warn("shadow projection degenerate, keeping last transform",
				zap.Error(err),
				zap.Bool("has_last", p.valid),
			)
		}
		p.degenerate = true
		return err
	}

	if p.degenerate {
		p.log.Info("shadow projection recovered", zap.Uint64("skipped_total", p.skipped))
		p.degenerate = false
	}
	p.matrix = m
	p.valid = true
	p.updates++
	return nil
}

// Caster returns the name of the caster this proxy follows.
func (p *Proxy) Caster() string {
	return p.caster
}

// Mesh returns the geometry shared with the caster.
func (p *Proxy) Mesh() *geometry.Mesh {
	return p.mesh
}

// Matrix returns the last valid shadow transform. ok is false until the first
// successful Update.
func (p *Proxy) Matrix() (m math.Mat4, ok bool) {
	return p.matrix, p.valid
}

// Degenerate reports whether the most recent Update was skipped.
func (p *Proxy) Degenerate() bool {
	return p.degenerate
}

// Updates returns the number of successful updates.
func (p *Proxy) Updates() uint64 {
	return p.updates
}

// Skipped returns the number of updates skipped as degenerate.
func (p *Proxy) Skipped() uint64 {
	return p.skipped
}

// ProjectedVertices appends the flattened world-space positions of the shared
// mesh to dst, along with the number of vertices that have no image on the
// plane. Those are left out of dst. It returns dst unchanged if no valid
// transform exists yet.
func (p *Proxy) ProjectedVertices(dst []math.Vec3) ([]math.Vec3, int) {
	if !p.valid {
		return dst, 0
	}
	missing := 0
	for _, v := range p.mesh.Positions {
		q, ok := ProjectPoint(p.matrix, v)
		if !ok {
			missing++
			continue
		}
		dst = append(dst, q)
	}
	return dst, missing
}
