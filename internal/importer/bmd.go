package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"mu-import-host/internal/bmd"
	"mu-import-host/internal/content"
	"mu-import-host/internal/filter"
	"mu-import-host/internal/mathutil"
	"mu-import-host/internal/skeleton"
	vb "mu-import-host/internal/vertexbuffer"
)

// ErrIndexRange reports a triangle referencing a missing element.
var ErrIndexRange = errors.New("importer: triangle index out of range")

// BMD loads MU Online .bmd models.
type BMD struct {
	opts bmd.Options
	// Skin bakes the bind pose into positions.
	Skin bool
}

var _ Importer = (*BMD)(nil)

// NewBMD returns a loader that decrypts with the keys in opts.
func NewBMD(opts bmd.Options) *BMD {
	return &BMD{opts: opts, Skin: true}
}

func (b *BMD) Info() LoaderInfo {
	return LoaderInfo{Name: "MU Online BMD", ID: "mu.bmd", Extensions: []string{".bmd"}}
}

func (b *BMD) Import(ctx context.Context, m *content.Manager, name string) (*Scene, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := m.Get(name)
	if err != nil {
		return nil, err
	}
	model, err := bmd.Decode(raw, b.opts)
	if err != nil {
		return nil, err
	}

	scene := &Scene{
		Name:   model.Name,
		Source: name,
		Loader: b.Info().ID,
	}
	if scene.Name == "" {
		base := path.Base(strings.ReplaceAll(name, "\\", "/"))
		scene.Name = strings.TrimSuffix(base, path.Ext(base))
	}

	worlds := skeleton.WorldMatrices(model.Bones)
	for i, bone := range model.Bones {
		scene.Bones = append(scene.Bones, Bone{Name: bone.Name, Parent: bone.Parent, World: worlds[i]})
	}
	if len(model.Bones) > 0 {
		if scene.BindPose, err = skeleton.BindPoseBuffer(model.Bones); err != nil {
			return nil, err
		}
	}

	if !b.Skin {
		worlds = nil
	}
	for i := range model.Meshes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mesh, err := buildMesh(&model.Meshes[i], worlds)
		if err != nil {
			return nil, fmt.Errorf("mesh %d: %w", i, err)
		}
		mesh.Name = fmt.Sprintf("%s_%d", scene.Name, i)
		scene.Meshes = append(scene.Meshes, mesh)
	}
	return scene, nil
}

type corner struct{ v, n, t int16 }

// buildMesh welds the BMD's separately indexed vertex, normal and texcoord
// arrays into one indexed vertex stream.
func buildMesh(src *bmd.Mesh, worlds []mathutil.Mat4) (Mesh, error) {
	positions, err := src.Positions()
	if err != nil {
		return Mesh{}, err
	}
	nodes, err := src.Nodes()
	if err != nil {
		return Mesh{}, err
	}
	positions = skeleton.Skin(positions, nodes, worlds)

	normals, err := readColumn(src.Normals, vb.Normal(), vb.Column.Vec3s)
	if err != nil {
		return Mesh{}, err
	}
	uvs, err := readColumn(src.TexCoords, vb.UV(0), vb.Column.Vec2s)
	if err != nil {
		return Mesh{}, err
	}

	// Non-nil so an empty mesh still decodes to a zero-length buffer.
	pos, nrm, uv, bones := []byte{}, []byte{}, []byte{}, []byte{}
	var indices []uint32
	seen := make(map[corner]uint32)
	emit := func(c corner) error {
		if idx, ok := seen[c]; ok {
			indices = append(indices, idx)
			return nil
		}
		if int(c.v) < 0 || int(c.v) >= len(positions) || int(c.n) < 0 || int(c.n) >= len(normals) ||
			int(c.t) < 0 || int(c.t) >= len(uvs) {
			return fmt.Errorf("%w: v=%d n=%d t=%d", ErrIndexRange, c.v, c.n, c.t)
		}
		idx := uint32(len(seen))
		seen[c] = idx
		indices = append(indices, idx)
		pos = vb.AppendFloats(pos, positions[c.v][:]...)
		nrm = vb.AppendFloats(nrm, normals[c.n][:]...)
		uv = vb.AppendFloats(uv, uvs[c.t][:]...)
		bone := byte(vb.UnboundIndex)
		if nodes[c.v] >= 0 {
			bone = byte(nodes[c.v])
		}
		bones = append(bones, bone, 0, 0, 0)
		return nil
	}

	for _, tri := range src.Tris {
		order := []int{0, 1, 2}
		if tri.Polygon == 4 {
			order = []int{0, 1, 2, 0, 2, 3}
		}
		for _, k := range order {
			if err := emit(corner{tri.VI[k], tri.NI[k], tri.TI[k]}); err != nil {
				return Mesh{}, err
			}
		}
	}

	layout, err := vb.BuildLayout(false, []vb.Attribute{
		vb.MustAttribute(vb.Position(), vb.Vector3, vb.WithData(pos)),
		vb.MustAttribute(vb.Normal(), vb.Vector3, vb.WithData(nrm)),
		vb.MustAttribute(vb.UV(0), vb.Vector2, vb.WithData(uv)),
		vb.MustAttribute(vb.BoneIndices(0), vb.UByte4, vb.WithData(bones)),
	})
	if err != nil {
		return Mesh{}, err
	}
	buf, err := layout.Decode(len(seen), nil)
	if err != nil {
		return Mesh{}, err
	}
	return Mesh{
		Vertices: buf,
		Indices:  indices,
		Material: src.TexPath,
		Role:     filter.Classify(src.TexPath, positions, len(indices)/3),
	}, nil
}

func readColumn[T any](buf *vb.Buffer, sem vb.Semantic, read func(vb.Column) ([]T, error)) ([]T, error) {
	col, ok := buf.ColumnFor(sem)
	if !ok {
		return nil, fmt.Errorf("importer: section has no %s column", sem)
	}
	return read(col)
}

// Default returns a registry holding every built-in loader.
func Default(opts bmd.Options) *Registry {
	r := NewRegistry()
	if err := r.Register(NewBMD(opts)); err != nil {
		panic(err)
	}
	return r
}
