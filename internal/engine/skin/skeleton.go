package skin

import (
	"errors"
	"fmt"

	"github.com/Faultbox/flatshadow/pkg/math"
)

// ErrBoneIndex is returned when a binding references a bone the skeleton lacks.
var ErrBoneIndex = errors.New("skin: bone index out of range")

// Bone is one joint of a skeleton. Parent is -1 for the root and must be
// lower than the bone's own index.
type Bone struct {
	Parent   int
	Offset   math.Vec3 // relative to the parent joint
	Rotation math.Quat
}

// Skeleton is a bone hierarchy with a rest pose captured at construction.
type Skeleton struct {
	bones       []Bone
	world       []math.Mat4
	inverseBind []math.Mat4
}

// NewChain builds count bones stacked along +Y, the first at root and each
// next one length above its parent. A chain for a mesh bound with n segments
// has n+1 bones.
func NewChain(count int, root math.Vec3, length float32) *Skeleton {
	bones := make([]Bone, count)
	for i := range bones {
		bones[i] = Bone{Parent: i - 1, Offset: math.Vec3{Y: length}, Rotation: math.QuatIdentity()}
	}
	if count > 0 {
		bones[0].Offset = root
	}
	return New(bones)
}

// New builds a skeleton and records the given pose as its rest pose.
func New(bones []Bone) *Skeleton {
	s := &Skeleton{
		bones:       append([]Bone(nil), bones...),
		world:       make([]math.Mat4, len(bones)),
		inverseBind: make([]math.Mat4, len(bones)),
	}
	s.Pose()
	for i, m := range s.world {
		s.inverseBind[i] = m.Inverse()
	}
	return s
}

// Len returns the number of bones.
func (s *Skeleton) Len() int {
	return len(s.bones)
}

// SetRotation sets the local rotation of bone i.
func (s *Skeleton) SetRotation(i int, q math.Quat) {
	s.bones[i].Rotation = q
}

// Pose recomputes the world matrix of every bone, parents first.
func (s *Skeleton) Pose() []math.Mat4 {
	for i, b := range s.bones {
		local := math.Translate(b.Offset.X, b.Offset.Y, b.Offset.Z).Mul(b.Rotation.ToMat4())
		if b.Parent >= 0 && b.Parent < i {
			local = s.world[b.Parent].Mul(local)
		}
		s.world[i] = local
	}
	return s.world
}

// Deform writes the skinned positions of rest into dst using the current
// pose. Each vertex is blended between its two bones' skinning matrices.
// Call Pose first whenever rotations change.
func (s *Skeleton) Deform(rest []math.Vec3, bindings []Binding, dst []math.Vec3) error {
	if len(rest) != len(bindings) || len(dst) != len(rest) {
		return fmt.Errorf("skin: %d positions, %d bindings, %d outputs", len(rest), len(bindings), len(dst))
	}

	skinning := make([]math.Mat4, len(s.bones))
	for i := range s.bones {
		skinning[i] = s.world[i].Mul(s.inverseBind[i])
	}

	for i, v := range rest {
		b := bindings[i]
		if b.Low < 0 || b.High >= len(skinning) {
			return fmt.Errorf("%w: vertex %d uses bones %d/%d of %d", ErrBoneIndex, i, b.Low, b.High, len(skinning))
		}
		lo := skinning[b.Low].TransformVec3(v).Scale(b.WeightLow())
		hi := skinning[b.High].TransformVec3(v).Scale(b.WeightHigh())
		dst[i] = lo.Add(hi)
	}
	return nil
}
