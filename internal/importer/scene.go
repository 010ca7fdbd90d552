package importer

import (
	"mu-import-host/internal/filter"
	"mu-import-host/internal/mathutil"
	vb "mu-import-host/internal/vertexbuffer"
)

// Mesh is an indexed triangle list. Vertices holds one record per unique
// corner; Indices has three entries per triangle.
type Mesh struct {
	Name     string
	Vertices *vb.Buffer
	Indices  []uint32
	Material string
	Role     filter.Role
}

// TriangleCount returns len(Indices)/3.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Bone is one joint with its bind-pose world transform.
type Bone struct {
	Name   string
	Parent int
	World  mathutil.Mat4
}

// Scene is the loader-independent result of an import.
type Scene struct {
	Name   string
	Source string // path inside the content manager
	Loader string // loader id
	Meshes []Mesh
	Bones  []Bone
	// BindPose holds one BIND_POSE Matrix4x4 record per bone; nil without bones.
	BindPose *vb.Buffer
}

// Textures lists the distinct material names in mesh order.
func (s *Scene) Textures() []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range s.Meshes {
		if m.Material == "" || seen[m.Material] {
			continue
		}
		seen[m.Material] = true
		out = append(out, m.Material)
	}
	return out
}

// CountRole returns how many meshes have role r.
func (s *Scene) CountRole(r filter.Role) int {
	n := 0
	for _, m := range s.Meshes {
		if m.Role == r {
			n++
		}
	}
	return n
}

func (s *Scene) VertexCount() int {
	n := 0
	for _, m := range s.Meshes {
		n += m.Vertices.Len()
	}
	return n
}

func (s *Scene) TriangleCount() int {
	n := 0
	for i := range s.Meshes {
		n += s.Meshes[i].TriangleCount()
	}
	return n
}
