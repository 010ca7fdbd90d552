package skeleton

import (
	"fmt"

	"mu-import-host/internal/bmd"
	"mu-import-host/internal/mathutil"
	vb "mu-import-host/internal/vertexbuffer"
)

// BindPose is the semantic of the per-bone world matrix column.
var BindPose = vb.NewSemantic("BIND_POSE")

// WorldMatrices computes the world transform of each bone from the bind pose
// (action 0, frame 0). Dummy bones get identity.
func WorldMatrices(bones []bmd.Bone) []mathutil.Mat4 {
	worlds := make([]mathutil.Mat4, len(bones))
	for i := range worlds {
		worlds[i] = mathutil.Mat4Identity()
	}

	for i, bone := range bones {
		if bone.IsDummy {
			continue
		}

		rot := mathutil.EulerToQuat(bone.BindRotation[0], bone.BindRotation[1], bone.BindRotation[2]).Mat3()
		local := mathutil.Affine(rot, bone.BindPosition)

		// Chain with parent
		if bone.Parent >= 0 && bone.Parent < i {
			worlds[i] = mathutil.Mat4Mul(worlds[bone.Parent], local)
		} else {
			worlds[i] = local
		}
	}
	return worlds
}

// BindPoseBuffer packs the world matrices into a one-record-per-bone buffer
// with a Matrix4x4 BIND_POSE column.
func BindPoseBuffer(bones []bmd.Bone) (*vb.Buffer, error) {
	worlds := WorldMatrices(bones)
	data := make([]byte, 0, len(worlds)*64)
	for _, w := range worlds {
		data = vb.AppendFloats(data, w[:]...)
	}

	l := vb.NewLayout(false)
	if err := l.Add(BindPose, vb.Matrix4x4, vb.WithData(data)); err != nil {
		return nil, err
	}
	buf, err := l.Decode(len(worlds), nil)
	if err != nil {
		return nil, fmt.Errorf("skeleton: bind pose: %w", err)
	}
	return buf, nil
}

// Skin returns positions transformed by the world matrix of each vertex's
// bone. Rigid skinning: one bone per vertex, weight 1. Vertices whose bone
// is out of range are left as is.
func Skin(positions [][3]float32, nodes []int, worlds []mathutil.Mat4) [][3]float32 {
	out := make([][3]float32, len(positions))
	copy(out, positions)
	if len(worlds) == 0 || allIdentity(worlds) {
		return out
	}

	for i, p := range positions {
		if i >= len(nodes) {
			break
		}
		b := nodes[i]
		if b < 0 || b >= len(worlds) {
			continue
		}
		out[i] = worlds[b].MulPoint(p)
	}
	return out
}

func allIdentity(worlds []mathutil.Mat4) bool {
	for _, w := range worlds {
		if !w.IsIdentity() {
			return false
		}
	}
	return true
}
