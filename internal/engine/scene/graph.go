// Package scene keeps shadow casters and their shadow proxies in a flat
// registry keyed by stable node IDs with an explicit parent relation.
package scene

import (
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/flatshadow/internal/engine/geometry"
	"github.com/Faultbox/flatshadow/internal/engine/shadow"
	"github.com/Faultbox/flatshadow/internal/logger"
	"github.com/Faultbox/flatshadow/pkg/math"
)

var (
	// ErrUnknownNode is returned for an ID that is not (or no longer) in the scene.
	ErrUnknownNode = errors.New("scene: unknown node")
	// ErrShadowExists is returned when a caster already has a proxy.
	ErrShadowExists = errors.New("scene: node already casts a shadow")
)

// NodeID identifies a node for its whole lifetime. IDs are never reused.
type NodeID uint32

// Root is the implicit parent of top-level nodes.
const Root NodeID = 0

// Node is one element of the scene.
type Node struct {
	Name   string
	Parent NodeID
	Local  math.Mat4
	Mesh   *geometry.Mesh // nil until the node's geometry is loaded
	Color  uint32         // 0xRRGGBB
}

type entry struct {
	Node
	world math.Mat4
}

// Draw is one mesh to render this frame.
type Draw struct {
	Node   NodeID
	Mesh   *geometry.Mesh
	Model  math.Mat4
	Color  uint32
	Shadow bool // the flattened proxy of Node rather than Node itself
}

// Stats summarizes one UpdateShadows pass.
type Stats struct {
	Updated int
	Skipped int
}

// Scene is a registry of nodes and the shadow proxies that follow them.
// It is not safe for concurrent use; the frame loop is its only writer.
type Scene struct {
	nextID  NodeID
	nodes   map[NodeID]*entry
	ids     []NodeID // ascending, so parents precede children
	proxies map[NodeID]*shadow.Proxy
	log     *zap.Logger
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{
		nextID:  Root + 1,
		nodes:   make(map[NodeID]*entry),
		proxies: make(map[NodeID]*shadow.Proxy),
		log:     logger.Named("scene"),
	}
}

// Add inserts a node and returns its ID. A zero Local is treated as identity.
func (s *Scene) Add(n Node) (NodeID, error) {
	if n.Parent != Root {
		if _, ok := s.nodes[n.Parent]; !ok {
			return 0, fmt.Errorf("%w: parent %d of %q", ErrUnknownNode, n.Parent, n.Name)
		}
	}
	if n.Local == (math.Mat4{}) {
		n.Local = math.Identity()
	}

	id := s.nextID
	s.nextID++
	s.nodes[id] = &entry{Node: n, world: n.Local}
	s.ids = append(s.ids, id)

	s.log.Debug("node added", zap.Uint32("id", uint32(id)), zap.String("name", n.Name), zap.Uint32("parent", uint32(n.Parent)))
	return id, nil
}

// Node returns a copy of the node with the given ID.
func (s *Scene) Node(id NodeID) (Node, bool) {
	e, ok := s.nodes[id]
	if !ok {
		return Node{}, false
	}
	return e.Node, true
}

// Len returns the number of nodes.
func (s *Scene) Len() int {
	return len(s.ids)
}

// SetLocal replaces a node's local transform.
func (s *Scene) SetLocal(id NodeID, m math.Mat4) error {
	e, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	e.Local = m
	return nil
}

// SetMesh assigns geometry to a node once it has been loaded.
func (s *Scene) SetMesh(id NodeID, mesh *geometry.Mesh) error {
	e, ok := s.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	e.Mesh = mesh
	return nil
}

// Children returns the direct children of id in ascending ID order.
func (s *Scene) Children(id NodeID) []NodeID {
	var out []NodeID
	for _, cid := range s.ids {
		if s.nodes[cid].Parent == id {
			out = append(out, cid)
		}
	}
	return out
}

// UpdateWorld recomputes world transforms from local transforms.
func (s *Scene) UpdateWorld() {
	for _, id := range s.ids {
		e := s.nodes[id]
		if e.Parent == Root {
			e.world = e.Local
			continue
		}
		e.world = s.nodes[e.Parent].world.Mul(e.Local)
	}
}

// World returns the world transform computed by the last UpdateWorld.
func (s *Scene) World(id NodeID) (math.Mat4, bool) {
	e, ok := s.nodes[id]
	if !ok {
		return math.Mat4{}, false
	}
	return e.world, true
}

// AttachShadow creates the shadow proxy for a caster. The caster must
// already have geometry.
func (s *Scene) AttachShadow(id NodeID) (*shadow.Proxy, error) {
	e, ok := s.nodes[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if _, ok := s.proxies[id]; ok {
		return nil, fmt.Errorf("%w: %q", ErrShadowExists, e.Name)
	}

	p, err := shadow.NewProxy(e.Name, e.Mesh)
	if err != nil {
		return nil, err
	}
	s.proxies[id] = p
	return p, nil
}

// DetachShadow removes the caster's proxy, if any.
func (s *Scene) DetachShadow(id NodeID) {
	delete(s.proxies, id)
}

// Shadow returns the proxy following id.
func (s *Scene) Shadow(id NodeID) (*shadow.Proxy, bool) {
	p, ok := s.proxies[id]
	return p, ok
}

// Casters returns the IDs of nodes with a shadow proxy, ascending.
func (s *Scene) Casters() []NodeID {
	out := make([]NodeID, 0, len(s.proxies))
	for id := range s.proxies {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// Remove deletes a node, all of its descendants and their shadow proxies.
// It returns the number of nodes removed.
func (s *Scene) Remove(id NodeID) (int, error) {
	if _, ok := s.nodes[id]; !ok {
		return 0, fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}

	doomed := map[NodeID]bool{id: true}
	// Children have larger IDs than their parents, so one ascending pass
	// finds every descendant.
	for _, cid := range s.ids {
		if doomed[s.nodes[cid].Parent] {
			doomed[cid] = true
		}
	}

	s.ids = slices.DeleteFunc(s.ids, func(n NodeID) bool { return doomed[n] })
	for n := range doomed {
		delete(s.nodes, n)
		delete(s.proxies, n)
	}

	s.log.Debug("nodes removed", zap.Uint32("id", uint32(id)), zap.Int("count", len(doomed)))
	return len(doomed), nil
}

// UpdateShadows brings every proxy up to date with its caster's current
// world transform. Degenerate projections are counted, never fatal.
// Call it after UpdateWorld for the frame.
func (s *Scene) UpdateShadows(plane shadow.Plane, light shadow.Light) Stats {
	var st Stats
	for _, id := range s.Casters() {
		if err := s.proxies[id].Update(plane, light, s.nodes[id].world); err != nil {
			st.Skipped++
			continue
		}
		st.Updated++
	}
	return st
}

// DrawList appends to dst every node that has geometry, then every shadow
// proxy that holds a valid matrix, both in ascending ID order.
func (s *Scene) DrawList(dst []Draw) []Draw {
	for _, id := range s.ids {
		e := s.nodes[id]
		if e.Mesh == nil || len(e.Mesh.Positions) == 0 {
			continue
		}
		dst = append(dst, Draw{Node: id, Mesh: e.Mesh, Model: e.world, Color: e.Color})
	}
	for _, id := range s.Casters() {
		p := s.proxies[id]
		if m, ok := p.Matrix(); ok {
			dst = append(dst, Draw{Node: id, Mesh: p.Mesh(), Model: m, Shadow: true})
		}
	}
	return dst
}
