package bmd

import "mu-import-host/internal/vertexbuffer"

// Triangle holds polygon type and index quads into the vertex/normal/texcoord arrays.
// Polygon == 4 means quad (two triangles: 0-1-2 and 0-2-3).
type Triangle struct {
	Polygon int
	VI      [4]int16
	NI      [4]int16
	TI      [4]int16
}

// Mesh holds one sub-mesh. Each vertex section is kept as a decoded buffer:
// Vertices has POSITION and BONE_INDICES0, Normals has NORMAL and
// TexCoords has UV0.
type Mesh struct {
	Vertices     *vertexbuffer.Buffer
	Normals      *vertexbuffer.Buffer
	TexCoords    *vertexbuffer.Buffer
	Tris         []Triangle
	TextureIndex int
	TexPath      string // texture reference, forward slashes (e.g. "sword04.jpg")
}

// Positions returns the vertex positions.
func (m *Mesh) Positions() ([][3]float32, error) {
	col, _ := m.Vertices.ColumnFor(vertexbuffer.Position())
	return col.Vec3s()
}

// Nodes returns the bone index of each vertex, or -1 where the file's
// index is negative or does not fit in a byte.
func (m *Mesh) Nodes() ([]int, error) {
	col, _ := m.Vertices.ColumnFor(vertexbuffer.BoneIndices(0))
	idx, err := col.UByte4s()
	if err != nil {
		return nil, err
	}
	nodes := make([]int, len(idx))
	for i, v := range idx {
		nodes[i] = int(v[0])
		if v[0] == vertexbuffer.UnboundIndex {
			nodes[i] = -1
		}
	}
	return nodes, nil
}

// Bone holds bind-pose data for one bone in the skeleton hierarchy.
type Bone struct {
	Name         string
	Parent       int
	IsDummy      bool
	BindPosition [3]float32
	BindRotation [3]float32 // Euler XYZ radians
}

// Action is one animation clip header.
type Action struct {
	Keys    int
	LockPos bool
}

// Model is a parsed BMD file.
type Model struct {
	Name    string
	Version byte
	Meshes  []Mesh
	Bones   []Bone
	Actions []Action
}

// VertexCount sums the vertices of every mesh.
func (m *Model) VertexCount() int {
	n := 0
	for i := range m.Meshes {
		n += m.Meshes[i].Vertices.Len()
	}
	return n
}

// TriangleCount sums the triangles of every mesh, counting quads as two.
func (m *Model) TriangleCount() int {
	n := 0
	for i := range m.Meshes {
		for _, t := range m.Meshes[i].Tris {
			if t.Polygon == 4 {
				n += 2
			} else {
				n++
			}
		}
	}
	return n
}
