package vertexbuffer

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Column is a strided view over one attribute inside a record array.
// Element data is little-endian.
type Column struct {
	id     string
	typ    Type
	size   int
	count  int
	stride int
	offset int
	data   []byte
}

// NewColumn wraps packed element bytes of type t. size is only consulted for Custom.
func NewColumn(id string, t Type, size int, data []byte) (Column, error) {
	n := sizeOf(t, size)
	if n <= 0 {
		return Column{}, fmt.Errorf("vertexbuffer: column %s: %w: no element size", id, ErrConfiguration)
	}
	if len(data)%n != 0 {
		return Column{}, &SizeMismatchError{Attribute: id, Expected: len(data) / n * n, Got: len(data)}
	}
	return Column{id: id, typ: t, size: n, count: len(data) / n, stride: n, data: data}, nil
}

func (c Column) ID() string { return c.id }
func (c Column) Type() Type { return c.typ }
func (c Column) ElementSize() int { return c.size }
func (c Column) Len() int { return c.count }

// Element returns the bytes of element i. The slice aliases the record array.
func (c Column) Element(i int) []byte {
	start := c.offset + i*c.stride
	return c.data[start : start+c.size : start+c.size]
}

// Bytes returns the column packed into a fresh slice.
func (c Column) Bytes() []byte {
	out := make([]byte, c.count*c.size)
	c.copyInto(out, c.size, 0)
	return out
}

// copyInto scatters the column into dst records of the given stride at offset.
func (c Column) copyInto(dst []byte, stride, offset int) {
	for i := 0; i < c.count; i++ {
		copy(dst[offset+i*stride:offset+i*stride+c.size], c.Element(i))
	}
}

func (c Column) expect(t Type) error {
	if c.typ != t {
		return fmt.Errorf("vertexbuffer: column %s is %s, not %s: %w", c.id, c.typ, t, ErrTypeMismatch)
	}
	return nil
}

// Floats decodes a Float column.
func (c Column) Floats() ([]float32, error) {
	if err := c.expect(Float); err != nil {
		return nil, err
	}
	out := make([]float32, c.count)
	for i := range out {
		out[i] = readFloat(c.Element(i))
	}
	return out, nil
}

// Vec2s decodes a Vector2 column.
func (c Column) Vec2s() ([][2]float32, error) {
	if err := c.expect(Vector2); err != nil {
		return nil, err
	}
	out := make([][2]float32, c.count)
	for i := range out {
		readFloats(out[i][:], c.Element(i))
	}
	return out, nil
}

// Vec3s decodes a Vector3 column.
func (c Column) Vec3s() ([][3]float32, error) {
	if err := c.expect(Vector3); err != nil {
		return nil, err
	}
	out := make([][3]float32, c.count)
	for i := range out {
		readFloats(out[i][:], c.Element(i))
	}
	return out, nil
}

// Vec4s decodes a Vector4 column.
func (c Column) Vec4s() ([][4]float32, error) {
	if err := c.expect(Vector4); err != nil {
		return nil, err
	}
	out := make([][4]float32, c.count)
	for i := range out {
		readFloats(out[i][:], c.Element(i))
	}
	return out, nil
}

// UByte4s decodes a UByte4 column.
func (c Column) UByte4s() ([][4]uint8, error) {
	if err := c.expect(UByte4); err != nil {
		return nil, err
	}
	out := make([][4]uint8, c.count)
	for i := range out {
		copy(out[i][:], c.Element(i))
	}
	return out, nil
}

// Mat4s decodes a Matrix4x4 column; each matrix is 16 floats in source order.
func (c Column) Mat4s() ([][16]float32, error) {
	if err := c.expect(Matrix4x4); err != nil {
		return nil, err
	}
	out := make([][16]float32, c.count)
	for i := range out {
		readFloats(out[i][:], c.Element(i))
	}
	return out, nil
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func readFloats(dst []float32, b []byte) {
	for k := range dst {
		dst[k] = readFloat(b[k*4:])
	}
}

// PutFloats writes vs as consecutive little-endian float32 values into b.
func PutFloats(b []byte, vs ...float32) {
	for k, v := range vs {
		binary.LittleEndian.PutUint32(b[k*4:], math.Float32bits(v))
	}
}

// AppendFloats appends vs to b as little-endian float32 values.
func AppendFloats(b []byte, vs ...float32) []byte {
	for _, v := range vs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}
