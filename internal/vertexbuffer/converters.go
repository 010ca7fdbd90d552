package vertexbuffer

import (
	"encoding/binary"
	"fmt"

	"github.com/chewxy/math32"
)

// NormalizedUByte4 converts UByte4 storage to a Vector4 in [0, 1].
func NormalizedUByte4() Converter {
	return func(src Column) ([]byte, error) {
		if err := src.expect(UByte4); err != nil {
			return nil, err
		}
		out := make([]byte, src.Len()*16)
		for i := 0; i < src.Len(); i++ {
			e := src.Element(i)
			PutFloats(out[i*16:], float32(e[0])/255, float32(e[1])/255, float32(e[2])/255, float32(e[3])/255)
		}
		return out, nil
	}
}

// ExpandVector3 converts Vector3 storage to a Vector4 with the given w.
func ExpandVector3(w float32) Converter {
	return func(src Column) ([]byte, error) {
		if err := src.expect(Vector3); err != nil {
			return nil, err
		}
		out := make([]byte, src.Len()*16)
		for i := 0; i < src.Len(); i++ {
			copy(out[i*16:i*16+12], src.Element(i))
			PutFloats(out[i*16+12:], w)
		}
		return out, nil
	}
}

// TruncateVector4 converts Vector4 storage to a Vector3 by dropping w.
func TruncateVector4() Converter {
	return func(src Column) ([]byte, error) {
		if err := src.expect(Vector4); err != nil {
			return nil, err
		}
		out := make([]byte, src.Len()*12)
		for i := 0; i < src.Len(); i++ {
			copy(out[i*12:(i+1)*12], src.Element(i)[:12])
		}
		return out, nil
	}
}

// Slice extracts a target-typed element at offset from each source element.
// It is the usual converter for Custom storage records that embed a plain field.
func Slice(offset int, target Type) Converter {
	n, ok := target.ElementSize()
	return func(src Column) ([]byte, error) {
		if !ok {
			return nil, fmt.Errorf("vertexbuffer: slice into %s: %w", target, ErrConfiguration)
		}
		if offset < 0 || offset+n > src.ElementSize() {
			return nil, fmt.Errorf("vertexbuffer: slice [%d:%d] outside %d-byte element: %w",
				offset, offset+n, src.ElementSize(), ErrSizeMismatch)
		}
		out := make([]byte, src.Len()*n)
		for i := 0; i < src.Len(); i++ {
			copy(out[i*n:(i+1)*n], src.Element(i)[offset:offset+n])
		}
		return out, nil
	}
}

// UnboundIndex marks a bone index that does not fit in one byte.
const UnboundIndex = 0xff

// Int16Index converts a Custom element holding a little-endian int16 at
// offset into a UByte4 bone index (index, 0, 0, 0). Indices outside
// [0, UnboundIndex) become UnboundIndex.
func Int16Index(offset int) Converter {
	return func(src Column) ([]byte, error) {
		if offset < 0 || offset+2 > src.ElementSize() {
			return nil, fmt.Errorf("vertexbuffer: int16 at %d outside %d-byte element: %w",
				offset, src.ElementSize(), ErrSizeMismatch)
		}
		out := make([]byte, src.Len()*4)
		for i := 0; i < src.Len(); i++ {
			v := int16(binary.LittleEndian.Uint16(src.Element(i)[offset:]))
			if v < 0 || v >= UnboundIndex {
				v = UnboundIndex
			}
			out[i*4] = byte(v)
		}
		return out, nil
	}
}

// OctahedralNormal decodes octahedron-encoded Vector2 normals in [-1, 1]
// into unit Vector3 normals.
func OctahedralNormal() Converter {
	return func(src Column) ([]byte, error) {
		if err := src.expect(Vector2); err != nil {
			return nil, err
		}
		out := make([]byte, src.Len()*12)
		var e [2]float32
		for i := 0; i < src.Len(); i++ {
			readFloats(e[:], src.Element(i))
			x, y := e[0], e[1]
			z := 1 - math32.Abs(x) - math32.Abs(y)
			if z < 0 {
				x, y = (1-math32.Abs(y))*sign(x), (1-math32.Abs(x))*sign(y)
			}
			l := math32.Sqrt(x*x + y*y + z*z)
			if l > 0 {
				x, y, z = x/l, y/l, z/l
			}
			PutFloats(out[i*12:], x, y, z)
		}
		return out, nil
	}
}

func sign(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
