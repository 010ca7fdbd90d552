package vertexbuffer

// Buffer is a decoded array of vertex records, one field per attribute
// keyed by semantic ID and typed by the attribute's target type.
type Buffer struct {
	shape   Shape
	count   int
	data    []byte
	aliased bool
}

// Len returns the number of records.
func (b *Buffer) Len() int { return b.count }

// Stride returns the byte size of one decoded record.
func (b *Buffer) Stride() int { return b.shape.Size }

// Shape returns the record shape.
func (b *Buffer) Shape() Shape { return b.shape.clone() }

// Bytes returns the packed records. For an aliased buffer this is the
// caller's input.
func (b *Buffer) Bytes() []byte { return b.data }

// Aliased reports whether the buffer is a zero-copy view of the decode input.
func (b *Buffer) Aliased() bool { return b.aliased }

// Record returns the bytes of record i.
func (b *Buffer) Record(i int) []byte {
	start := i * b.shape.Size
	return b.data[start : start+b.shape.Size : start+b.shape.Size]
}

// Column returns the column keyed by id.
func (b *Buffer) Column(id string) (Column, bool) {
	for i, f := range b.shape.Fields {
		if f.ID == id {
			return b.column(i), true
		}
	}
	return Column{}, false
}

// ColumnFor returns the column for sem.
func (b *Buffer) ColumnFor(sem Semantic) (Column, bool) {
	return b.Column(sem.ID())
}

// Columns returns every column in layout order.
func (b *Buffer) Columns() []Column {
	out := make([]Column, len(b.shape.Fields))
	for i := range out {
		out[i] = b.column(i)
	}
	return out
}

func (b *Buffer) column(i int) Column {
	f := b.shape.Fields[i]
	return Column{
		id:     f.ID,
		typ:    f.Type,
		size:   f.Size,
		count:  b.count,
		stride: b.shape.Size,
		offset: f.Offset,
		data:   b.data,
	}
}
