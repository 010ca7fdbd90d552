package bmd

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"

	"mu-import-host/internal/crypto"
	vb "mu-import-host/internal/vertexbuffer"
)

var (
	ErrInvalidHeader = errors.New("invalid header")
	ErrTruncated     = errors.New("truncated data")
	ErrMissingKey    = errors.New("missing decryption key")
)

const maxMeshes = 100

// Options carries the cipher keys for encrypted versions.
type Options struct {
	XORKey []byte // version 12
	LEAKey []byte // version 15
}

// Parse reads a BMD file and returns the decoded model.
// Supports versions 10 (unencrypted), 12 (XOR) and 15 (LEA-256 ECB).
func Parse(path string, opts Options) (*Model, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("bmd: read %s: %w", path, err)
	}
	m, err := Decode(raw, opts)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, path)
	}
	return m, nil
}

// Decode parses BMD bytes.
func Decode(raw []byte, opts Options) (*Model, error) {
	if len(raw) < 4 || string(raw[:3]) != "BMD" {
		return nil, fmt.Errorf("bmd: %w", ErrInvalidHeader)
	}

	version := raw[3]
	data, err := payload(version, raw, opts)
	if err != nil {
		return nil, err
	}

	r := &reader{data: data}
	m, err := r.parse()
	if err != nil {
		return nil, err
	}
	m.Version = version
	return m, nil
}

func payload(version byte, raw []byte, opts Options) ([]byte, error) {
	if version != 12 && version != 15 {
		return raw[4:], nil
	}
	if len(raw) < 8 {
		return nil, fmt.Errorf("bmd: v%d header: %w", version, ErrTruncated)
	}
	size := int(binary.LittleEndian.Uint32(raw[4:8]))
	if 8+size > len(raw) {
		return nil, fmt.Errorf("bmd: v%d data: %w", version, ErrTruncated)
	}
	enc := raw[8 : 8+size]

	if version == 12 {
		if opts.XORKey == nil {
			return nil, fmt.Errorf("bmd: v12: %w", ErrMissingKey)
		}
		x, err := crypto.NewXOR(opts.XORKey)
		if err != nil {
			return nil, fmt.Errorf("bmd: v12: %w", err)
		}
		return x.Decrypt(enc), nil
	}

	if opts.LEAKey == nil {
		return nil, fmt.Errorf("bmd: v15: %w", ErrMissingKey)
	}
	block, err := crypto.NewLEA(opts.LEAKey)
	if err != nil {
		return nil, fmt.Errorf("bmd: v15: %w", err)
	}
	data, err := crypto.DecryptECB(block, enc)
	if err != nil {
		return nil, fmt.Errorf("bmd: v15: %w", err)
	}
	return data, nil
}

type reader struct {
	data  []byte
	off   int
	short bool
}

func (r *reader) take(n int) []byte {
	if n < 0 || r.off+n > len(r.data) {
		r.off = len(r.data)
		r.short = true
		return nil
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b
}

// section returns the next n bytes or fails when the data runs out.
func (r *reader) section(what string, n int) ([]byte, error) {
	b := r.take(n)
	if b == nil && n > 0 {
		return nil, fmt.Errorf("bmd: %s: need %d bytes: %w", what, n, ErrTruncated)
	}
	return b, nil
}

func (r *reader) readStr(n int) string {
	s := r.take(n)
	// Find null terminator
	for i, b := range s {
		if b == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}

func (r *reader) readI16() int16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return int16(binary.LittleEndian.Uint16(b))
}

func (r *reader) readU16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint16(b)
}

func (r *reader) readF32() float32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func (r *reader) readByte() byte {
	b := r.take(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (r *reader) readVec3() [3]float32 {
	return [3]float32{r.readF32(), r.readF32(), r.readF32()}
}

func (r *reader) parse() (*Model, error) {
	m := &Model{Name: r.readStr(32)}
	meshCount := int(r.readU16())
	boneCount := int(r.readU16())
	actionCount := int(r.readU16())
	if r.short {
		return nil, fmt.Errorf("bmd: model header: %w", ErrTruncated)
	}
	if meshCount > maxMeshes {
		return nil, fmt.Errorf("bmd: invalid mesh count %d", meshCount)
	}

	m.Meshes = make([]Mesh, 0, meshCount)
	for i := 0; i < meshCount; i++ {
		mesh, err := r.parseMesh()
		if err != nil {
			return nil, fmt.Errorf("%w (mesh %d)", err, i)
		}
		m.Meshes = append(m.Meshes, mesh)
	}

	m.Actions = make([]Action, actionCount)
	for a := range m.Actions {
		numKeys := int(r.readI16())
		lockPos := r.readByte() > 0
		if lockPos {
			r.take(numKeys * 12) // float32 x,y,z per key
		}
		m.Actions[a] = Action{Keys: numKeys, LockPos: lockPos}
	}

	m.Bones = make([]Bone, 0, boneCount)
	for b := 0; b < boneCount; b++ {
		if isDummy := r.readByte() > 0; isDummy {
			m.Bones = append(m.Bones, Bone{Parent: -1, IsDummy: true})
			continue
		}

		bone := Bone{Name: r.readStr(32), Parent: int(r.readI16())}
		for a, act := range m.Actions {
			if act.Keys <= 0 {
				continue
			}
			// Positions then rotations, numKeys × (x, y, z) each
			for k := 0; k < act.Keys; k++ {
				p := r.readVec3()
				if a == 0 && k == 0 {
					bone.BindPosition = p
				}
			}
			for k := 0; k < act.Keys; k++ {
				rot := r.readVec3()
				if a == 0 && k == 0 {
					bone.BindRotation = rot
				}
			}
		}
		m.Bones = append(m.Bones, bone)
	}

	if r.short {
		return nil, fmt.Errorf("bmd: actions/bones: %w", ErrTruncated)
	}
	return m, nil
}

func (r *reader) parseMesh() (Mesh, error) {
	nv := int(r.readI16())
	nn := int(r.readI16())
	ntc := int(r.readI16())
	nt := int(r.readI16())
	texIdx := int(r.readI16())
	if r.short {
		return Mesh{}, fmt.Errorf("bmd: mesh header: %w", ErrTruncated)
	}
	if nv < 0 || nn < 0 || ntc < 0 || nt < 0 {
		return Mesh{}, fmt.Errorf("bmd: negative element count (v=%d n=%d t=%d tri=%d)", nv, nn, ntc, nt)
	}

	verts, err := r.decodeSection("vertices", vertexLayout, nv)
	if err != nil {
		return Mesh{}, err
	}
	normals, err := r.decodeSection("normals", normalLayout, nn)
	if err != nil {
		return Mesh{}, err
	}
	uvs, err := r.decodeSection("texcoords", texCoordLayout, ntc)
	if err != nil {
		return Mesh{}, err
	}

	raw, err := r.section("triangles", nt*triangleSize)
	if err != nil {
		return Mesh{}, err
	}
	tris := make([]Triangle, nt)
	for j := range tris {
		t := raw[j*triangleSize:]
		tri := Triangle{Polygon: int(t[0])}
		for k := 0; k < 4; k++ {
			tri.VI[k] = int16(binary.LittleEndian.Uint16(t[2+k*2:]))
			tri.NI[k] = int16(binary.LittleEndian.Uint16(t[10+k*2:]))
			tri.TI[k] = int16(binary.LittleEndian.Uint16(t[18+k*2:]))
		}
		tris[j] = tri
	}

	texPath := strings.ReplaceAll(r.readStr(32), "\\", "/")
	if r.short {
		return Mesh{}, fmt.Errorf("bmd: texture path: %w", ErrTruncated)
	}

	return Mesh{
		Vertices:     verts,
		Normals:      normals,
		TexCoords:    uvs,
		Tris:         tris,
		TextureIndex: texIdx,
		TexPath:      texPath,
	}, nil
}

func (r *reader) decodeSection(what string, l *vb.Layout, n int) (*vb.Buffer, error) {
	raw, err := r.section(what, n*l.StorageShape().Size)
	if err != nil {
		return nil, err
	}
	buf, err := l.Decode(n, raw)
	if err != nil {
		return nil, fmt.Errorf("bmd: %s: %w", what, err)
	}
	return buf, nil
}
