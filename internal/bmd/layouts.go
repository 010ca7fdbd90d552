package bmd

import vb "mu-import-host/internal/vertexbuffer"

// Record layouts of the three per-mesh vertex sections. They are frozen at
// init so concurrent parses only read them.
var (
	// 16 bytes: node i16, pad i16, x y z f32
	vertexLayout = mustLayout(
		vb.MustAttribute(vb.BoneIndices(0), vb.UByte4,
			vb.WithStorage(vb.Custom), vb.WithSize(4), vb.WithConverter(vb.Int16Index(0))),
		vb.MustAttribute(vb.Position(), vb.Vector3),
	)

	// 20 bytes: node i16, pad i16, nx ny nz f32, bind vertex i16, pad i16
	normalLayout = mustLayout(
		vb.MustAttribute(vb.Normal(), vb.Vector3,
			vb.WithStorage(vb.Custom), vb.WithSize(20), vb.WithConverter(vb.Slice(4, vb.Vector3))),
	)

	// 8 bytes: u v f32
	texCoordLayout = mustLayout(
		vb.MustAttribute(vb.UV(0), vb.Vector2),
	)
)

const triangleSize = 64

func mustLayout(attrs ...vb.Attribute) *vb.Layout {
	l, err := vb.BuildLayout(true, attrs)
	if err != nil {
		panic(err)
	}
	_ = l.Stride()
	return l
}

// Layouts returns the section layouts by name, for inspection tools.
func Layouts() map[string]*vb.Layout {
	return map[string]*vb.Layout{
		"vertices":  vertexLayout,
		"normals":   normalLayout,
		"texcoords": texCoordLayout,
	}
}
