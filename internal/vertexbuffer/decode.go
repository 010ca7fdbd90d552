package vertexbuffer

import (
	"fmt"
	"math"
)

// Decode turns raw vertex bytes into a Buffer of vertexCount records.
//
// Interleaved layouts read raw, or the layout's shared data when raw is nil.
// When every attribute's storage type equals its target type, the input must
// be Stride()*vertexCount bytes and the result aliases it. Otherwise the input
// must be StorageShape().Size*vertexCount bytes; matching columns are copied
// and the rest are run through their converters, once per attribute.
//
// Planar layouts ignore raw and read each attribute's own backing data.
//
// Decode either returns a complete buffer or an error, never partial output.
func (l *Layout) Decode(vertexCount int, raw []byte) (*Buffer, error) {
	if vertexCount < 0 {
		return nil, fmt.Errorf("vertexbuffer: decode %d vertices: %w", vertexCount, ErrInvalidCount)
	}
	d := l.freeze()
	if l.interleaved {
		if raw == nil {
			raw = l.data
		}
		return l.decodeInterleaved(d, vertexCount, raw)
	}
	return l.decodePlanar(d, vertexCount)
}

func (l *Layout) decodeInterleaved(d *derived, n int, raw []byte) (*Buffer, error) {
	if d.matching {
		if err := expectLen("", d.stride, n, len(raw)); err != nil {
			return nil, err
		}
		return &Buffer{shape: d.target, count: n, data: raw[:len(raw):len(raw)], aliased: true}, nil
	}

	if err := expectLen("", d.storage.Size, n, len(raw)); err != nil {
		return nil, err
	}
	size, err := outputLen(d.target.Size, n)
	if err != nil {
		return nil, err
	}
	src := &Buffer{shape: d.storage, count: n, data: raw}
	out := make([]byte, size)
	for i, a := range l.attrs {
		if err := place(out, d.target, i, a, src.column(i), n); err != nil {
			return nil, err
		}
	}
	return &Buffer{shape: d.target, count: n, data: out}, nil
}

func (l *Layout) decodePlanar(d *derived, n int) (*Buffer, error) {
	for i, a := range l.attrs {
		if a.data == nil {
			return nil, fmt.Errorf("vertexbuffer: attribute %s has no data for planar layout: %w",
				a.semantic, ErrMissingAttributeData)
		}
		sf := d.storage.Fields[i]
		if err := expectLen(sf.ID, sf.Size, n, len(a.data)); err != nil {
			return nil, err
		}
	}
	size, err := outputLen(d.target.Size, n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, size)
	for i, a := range l.attrs {
		sf := d.storage.Fields[i]
		src := Column{id: sf.ID, typ: sf.Type, size: sf.Size, count: n, stride: sf.Size, data: a.data}
		if err := place(out, d.target, i, a, src, n); err != nil {
			return nil, err
		}
	}
	return &Buffer{shape: d.target, count: n, data: out}, nil
}

// expectLen checks that got bytes hold exactly n elements of size bytes.
// A product that overflows int never matches.
func expectLen(attr string, size, n, got int) error {
	if size > 0 && n > math.MaxInt/size {
		return &SizeMismatchError{Attribute: attr, Expected: math.MaxInt, Got: got}
	}
	if want := size * n; got != want {
		return &SizeMismatchError{Attribute: attr, Expected: want, Got: got}
	}
	return nil
}

// outputLen is the byte size of n decoded records of size bytes.
func outputLen(size, n int) (int, error) {
	if size > 0 && n > math.MaxInt/size {
		return 0, fmt.Errorf("vertexbuffer: %d records of %d bytes: %w", n, size, ErrInvalidCount)
	}
	return size * n, nil
}

// place copies or converts src into field i of the out records.
func place(out []byte, target Shape, i int, a Attribute, src Column, n int) error {
	tf := target.Fields[i]
	if !a.Converts() {
		src.copyInto(out, target.Size, tf.Offset)
		return nil
	}
	if a.convert == nil {
		return fmt.Errorf("vertexbuffer: attribute %s (%s -> %s): %w", a.semantic, a.storage, a.target, ErrMissingConverter)
	}
	packed, err := a.convert(src)
	if err != nil {
		return fmt.Errorf("vertexbuffer: convert %s: %w", a.semantic, err)
	}
	if err := expectLen(tf.ID, tf.Size, n, len(packed)); err != nil {
		return err
	}
	for k := 0; k < n; k++ {
		dst := k*target.Size + tf.Offset
		copy(out[dst:dst+tf.Size], packed[k*tf.Size:(k+1)*tf.Size])
	}
	return nil
}
