package bmd

import (
	"bytes"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mu-import-host/internal/crypto"
	vb "mu-import-host/internal/vertexbuffer"
)

type builder struct{ bytes.Buffer }

func (b *builder) i16(v int16) { binary.Write(&b.Buffer, binary.LittleEndian, v) }
func (b *builder) u16(v uint16) { binary.Write(&b.Buffer, binary.LittleEndian, v) }
func (b *builder) f32(vs ...float32) {
	for _, v := range vs {
		binary.Write(&b.Buffer, binary.LittleEndian, math.Float32bits(v))
	}
}
func (b *builder) str(s string, n int) {
	buf := make([]byte, n)
	copy(buf, s)
	b.Write(buf)
}

// sampleBody encodes one quad mesh, one action with one key and two bones.
func sampleBody() []byte {
	return sampleBodyNodes([4]int16{0, 1, 0, 1})
}

func sampleBodyNodes(nodes [4]int16) []byte {
	var b builder
	b.str("sword", 32)
	b.u16(1) // meshes
	b.u16(2) // bones
	b.u16(1) // actions

	b.i16(4) // vertices
	b.i16(1) // normals
	b.i16(4) // texcoords
	b.i16(1) // triangles
	b.i16(3) // texture index

	for i := 0; i < 4; i++ {
		b.i16(nodes[i])
		b.i16(0)
		b.f32(float32(i), float32(i)+0.5, -float32(i))
	}

	b.i16(0)
	b.i16(0)
	b.f32(0, 0, 1)
	b.i16(0)
	b.i16(0)

	for i := 0; i < 4; i++ {
		b.f32(float32(i)/4, 1-float32(i)/4)
	}

	tri := make([]byte, triangleSize)
	tri[0] = 4
	for k := 0; k < 4; k++ {
		binary.LittleEndian.PutUint16(tri[2+k*2:], uint16(k))
		binary.LittleEndian.PutUint16(tri[18+k*2:], uint16(3-k))
	}
	b.Write(tri)
	b.str(`Item\texture\sword04.jpg`, 32)

	// action 0: 1 key, no locked positions
	b.i16(1)
	b.Write([]byte{0})

	// bone 0: real, root
	b.Write([]byte{0})
	b.str("root", 32)
	b.i16(-1)
	b.f32(1, 2, 3)
	b.f32(0.1, 0.2, 0.3)

	// bone 1: dummy
	b.Write([]byte{1})

	return b.Bytes()
}

func withHeader(version byte, body []byte) []byte {
	return append([]byte{'B', 'M', 'D', version}, body...)
}

func encrypted(version byte, enc []byte) []byte {
	out := []byte{'B', 'M', 'D', version}
	out = binary.LittleEndian.AppendUint32(out, uint32(len(enc)))
	return append(out, enc...)
}

func assertSample(t *testing.T, m *Model) {
	t.Helper()
	assert.Equal(t, "sword", m.Name)
	require.Len(t, m.Meshes, 1)
	mesh := &m.Meshes[0]

	assert.Equal(t, 4, mesh.Vertices.Len())
	assert.Equal(t, 16, mesh.Vertices.Stride())
	assert.Equal(t, 3, mesh.TextureIndex)
	assert.Equal(t, "Item/texture/sword04.jpg", mesh.TexPath)

	pos, err := mesh.Positions()
	require.NoError(t, err)
	assert.Equal(t, [3]float32{2, 2.5, -2}, pos[2])

	nodes, err := mesh.Nodes()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, nodes)

	ncol, ok := mesh.Normals.ColumnFor(vb.Normal())
	require.True(t, ok)
	normals, err := ncol.Vec3s()
	require.NoError(t, err)
	assert.Equal(t, [][3]float32{{0, 0, 1}}, normals)

	assert.True(t, mesh.TexCoords.Aliased())
	ucol, _ := mesh.TexCoords.ColumnFor(vb.UV(0))
	uvs, err := ucol.Vec2s()
	require.NoError(t, err)
	assert.Equal(t, [2]float32{0.25, 0.75}, uvs[1])

	require.Len(t, mesh.Tris, 1)
	assert.Equal(t, 4, mesh.Tris[0].Polygon)
	assert.Equal(t, [4]int16{0, 1, 2, 3}, mesh.Tris[0].VI)
	assert.Equal(t, [4]int16{3, 2, 1, 0}, mesh.Tris[0].TI)

	require.Len(t, m.Actions, 1)
	assert.Equal(t, Action{Keys: 1}, m.Actions[0])

	require.Len(t, m.Bones, 2)
	assert.Equal(t, "root", m.Bones[0].Name)
	assert.Equal(t, -1, m.Bones[0].Parent)
	assert.Equal(t, [3]float32{1, 2, 3}, m.Bones[0].BindPosition)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, m.Bones[0].BindRotation)
	assert.True(t, m.Bones[1].IsDummy)

	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, 2, m.TriangleCount())
}

func TestDecodePlain(t *testing.T) {
	m, err := Decode(withHeader(10, sampleBody()), Options{})
	require.NoError(t, err)
	assert.Equal(t, byte(10), m.Version)
	assertSample(t, m)
}

func TestDecodeUnboundNodes(t *testing.T) {
	m, err := Decode(withHeader(10, sampleBodyNodes([4]int16{-1, 300, 255, 1})), Options{})
	require.NoError(t, err)
	nodes, err := m.Meshes[0].Nodes()
	require.NoError(t, err)
	assert.Equal(t, []int{-1, -1, -1, 1}, nodes)
}

func TestDecodeXOR(t *testing.T) {
	key := bytes.Repeat([]byte{0x3c}, crypto.XORKeySize)
	x, err := crypto.NewXOR(key)
	require.NoError(t, err)

	raw := encrypted(12, x.Encrypt(sampleBody()))
	m, err := Decode(raw, Options{XORKey: key})
	require.NoError(t, err)
	assertSample(t, m)

	_, err = Decode(raw, Options{})
	assert.ErrorIs(t, err, ErrMissingKey)
}

func TestDecodeLEA(t *testing.T) {
	key := bytes.Repeat([]byte{0x11}, crypto.LEAKeySize)
	block, err := crypto.NewLEA(key)
	require.NoError(t, err)

	body := sampleBody()
	if pad := len(body) % crypto.LEABlockSize; pad != 0 {
		body = append(body, make([]byte, crypto.LEABlockSize-pad)...)
	}
	enc, err := crypto.EncryptECB(block, body)
	require.NoError(t, err)

	m, err := Decode(encrypted(15, enc), Options{LEAKey: key})
	require.NoError(t, err)
	assertSample(t, m)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode([]byte("XYZ\x0a"), Options{})
	assert.ErrorIs(t, err, ErrInvalidHeader)

	body := sampleBody()
	_, err = Decode(withHeader(10, body[:60]), Options{})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode(withHeader(10, body[:len(body)-2]), Options{})
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = Decode([]byte{'B', 'M', 'D', 12, 0xff, 0, 0, 0}, Options{})
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestSectionLayouts(t *testing.T) {
	layouts := Layouts()
	assert.Equal(t, 16, layouts["vertices"].StorageShape().Size)
	assert.Equal(t, 20, layouts["normals"].StorageShape().Size)
	assert.Equal(t, 8, layouts["texcoords"].Stride())
	for _, l := range layouts {
		assert.Equal(t, vb.Frozen, l.State())
	}
}

func TestParseFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Sword.bmd")
	require.NoError(t, os.WriteFile(p, withHeader(10, sampleBody()), 0o644))

	m, err := Parse(p, Options{})
	require.NoError(t, err)
	assertSample(t, m)

	_, err = Parse(filepath.Join(t.TempDir(), "none.bmd"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}
