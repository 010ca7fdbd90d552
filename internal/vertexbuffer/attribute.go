package vertexbuffer

// Converter maps a storage-typed column to the packed little-endian bytes of
// the target-typed column. The result must hold exactly src.Len() elements.
type Converter func(src Column) ([]byte, error)

// Attribute declares one vertex column. It is immutable once built by NewAttribute.
type Attribute struct {
	semantic   Semantic
	target     Type
	storage    Type
	storageSet bool
	convert    Converter
	size       int
	data       []byte
}

// AttributeOption configures optional attribute fields.
type AttributeOption func(*Attribute)

// WithStorage sets the representation of the source bytes. Defaults to the target type.
func WithStorage(t Type) AttributeOption {
	return func(a *Attribute) {
		a.storage = t
		a.storageSet = true
	}
}

// WithConverter sets the storage-to-target conversion.
func WithConverter(c Converter) AttributeOption {
	return func(a *Attribute) { a.convert = c }
}

// WithSize sets the explicit element byte size, required for Custom types.
func WithSize(n int) AttributeOption {
	return func(a *Attribute) { a.size = n }
}

// WithData attaches private backing bytes, used by planar layouts.
func WithData(b []byte) AttributeOption {
	return func(a *Attribute) { a.data = b }
}

// NewAttribute validates and returns an attribute declaration.
//
// Custom storage needs both a converter and an explicit size; any other
// storage type that differs from the target needs a converter.
func NewAttribute(sem Semantic, target Type, opts ...AttributeOption) (Attribute, error) {
	a := Attribute{semantic: sem, target: target}
	for _, opt := range opts {
		opt(&a)
	}
	if !a.storageSet {
		a.storage = a.target
	}

	if sem.Name() == "" {
		return Attribute{}, configErrorf("attribute has no semantic name")
	}
	if !a.target.Valid() {
		return Attribute{}, configErrorf("%s: unknown target type %s", sem, a.target)
	}
	if !a.storage.Valid() {
		return Attribute{}, configErrorf("%s: unknown storage type %s", sem, a.storage)
	}
	if a.size < 0 {
		return Attribute{}, configErrorf("%s: negative size %d", sem, a.size)
	}

	if a.storage == Custom {
		if a.convert == nil || a.size == 0 {
			return Attribute{}, configErrorf("%s: custom storage type requires converter and size", sem)
		}
	} else if a.storage != a.target && a.convert == nil {
		return Attribute{}, configErrorf("%s: converter required when storage type %s differs from target type %s",
			sem, a.storage, a.target)
	}

	if a.target == Custom && a.size == 0 {
		return Attribute{}, configErrorf("%s: custom target type requires size", sem)
	}
	if a.size > 0 && a.storage != Custom && a.target != Custom {
		if n, _ := a.storage.ElementSize(); n != a.size {
			return Attribute{}, configErrorf("%s: size %d disagrees with %s element size %d", sem, a.size, a.storage, n)
		}
	}
	return a, nil
}

// MustAttribute is like NewAttribute but panics on an invalid declaration.
// It is meant for static layouts declared at package level.
func MustAttribute(sem Semantic, target Type, opts ...AttributeOption) Attribute {
	a, err := NewAttribute(sem, target, opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Attribute) Semantic() Semantic { return a.semantic }
func (a Attribute) Target() Type { return a.target }
func (a Attribute) Storage() Type { return a.storage }
func (a Attribute) Converter() Converter { return a.convert }
func (a Attribute) Data() []byte { return a.data }

// Size returns the explicit size, or 0 when none was given.
func (a Attribute) Size() int { return a.size }

// Converts reports whether decoding runs the converter for this attribute.
func (a Attribute) Converts() bool { return a.storage != a.target }

// WithBacking returns a copy of a that carries b as its private data.
func (a Attribute) WithBacking(b []byte) Attribute {
	a.data = b
	return a
}

// StorageSize is the byte size of one source element.
func (a Attribute) StorageSize() int {
	return sizeOf(a.storage, a.size)
}

// TargetSize is the byte size of one decoded element.
func (a Attribute) TargetSize() int {
	return sizeOf(a.target, a.size)
}

// strideSize is the attribute's share of the layout stride.
func (a Attribute) strideSize() int {
	if a.storage == Custom {
		return a.size
	}
	return a.TargetSize()
}

func sizeOf(t Type, explicit int) int {
	if n, ok := t.ElementSize(); ok {
		return n
	}
	return explicit
}
