package vertexbuffer

import (
	"fmt"
	"sync/atomic"
)

// State is the build state of a Layout.
type State int

const (
	// Building means attributes may still change and nothing is cached.
	Building State = iota
	// Frozen means stride and shapes have been derived and cached.
	Frozen
)

func (s State) String() string {
	if s == Frozen {
		return "frozen"
	}
	return "building"
}

// Layout is an ordered set of vertex attributes plus the interleave flag.
//
// A Layout is built once and then decoded any number of times. AddAttribute
// after a stride or shape read drops the cached values and returns the layout
// to the Building state. Any number of goroutines may decode or read a
// layout at once, frozen or not; AddAttribute must not run concurrently
// with them.
type Layout struct {
	attrs       []Attribute
	interleaved bool
	data        []byte

	derived atomic.Pointer[derived]
}

type derived struct {
	stride   int
	storage  Shape
	target   Shape
	matching bool
}

// LayoutOption configures a Layout.
type LayoutOption func(*Layout)

// WithSharedData sets the bytes decoded when Decode is called without input.
func WithSharedData(b []byte) LayoutOption {
	return func(l *Layout) { l.data = b }
}

// NewLayout returns an empty layout in the Building state.
func NewLayout(interleaved bool, opts ...LayoutOption) *Layout {
	l := &Layout{interleaved: interleaved}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// BuildLayout returns a layout holding attrs in order.
func BuildLayout(interleaved bool, attrs []Attribute, opts ...LayoutOption) (*Layout, error) {
	l := NewLayout(interleaved, opts...)
	for _, a := range attrs {
		if err := l.AddAttribute(a); err != nil {
			return nil, err
		}
	}
	return l, nil
}

// AddAttribute appends attr. A semantic may appear only once per layout.
func (l *Layout) AddAttribute(attr Attribute) error {
	if attr.semantic.Name() == "" {
		return configErrorf("attribute has no semantic name")
	}
	if l.HasAttribute(attr.semantic) {
		return fmt.Errorf("vertexbuffer: add %s: %w", attr.semantic, ErrDuplicateSemantic)
	}
	l.attrs = append(l.attrs, attr)
	l.derived.Store(nil)
	return nil
}

// Add builds an attribute from its parts and appends it.
func (l *Layout) Add(sem Semantic, target Type, opts ...AttributeOption) error {
	attr, err := NewAttribute(sem, target, opts...)
	if err != nil {
		return err
	}
	return l.AddAttribute(attr)
}

// HasAttribute reports whether the layout holds sem.
func (l *Layout) HasAttribute(sem Semantic) bool {
	for _, a := range l.attrs {
		if a.semantic == sem {
			return true
		}
	}
	return false
}

// Attribute returns the attribute declared for sem.
func (l *Layout) Attribute(sem Semantic) (Attribute, bool) {
	for _, a := range l.attrs {
		if a.semantic == sem {
			return a, true
		}
	}
	return Attribute{}, false
}

// Attributes returns the attributes in declaration order.
func (l *Layout) Attributes() []Attribute {
	return append([]Attribute(nil), l.attrs...)
}

func (l *Layout) Len() int { return len(l.attrs) }
func (l *Layout) Interleaved() bool { return l.interleaved }
func (l *Layout) SharedData() []byte { return l.data }

// SetSharedData replaces the bytes decoded when Decode gets no input.
// It does not affect derived values.
func (l *Layout) SetSharedData(b []byte) { l.data = b }

func (l *Layout) State() State {
	if l.derived.Load() == nil {
		return Building
	}
	return Frozen
}

// Stride is the per-vertex byte size: the target element size of every
// attribute, or the explicit size for Custom-storage attributes.
func (l *Layout) Stride() int { return l.freeze().stride }

// StorageShape is the record shape of interleaved source bytes.
func (l *Layout) StorageShape() Shape { return l.freeze().storage.clone() }

// TargetShape is the record shape of decoded output.
func (l *Layout) TargetShape() Shape { return l.freeze().target.clone() }

// Validate checks the layout as a whole: unique semantics, and backing data
// on every attribute of a planar layout.
func (l *Layout) Validate() error {
	seen := make(map[Semantic]struct{}, len(l.attrs))
	for _, a := range l.attrs {
		if _, dup := seen[a.semantic]; dup {
			return fmt.Errorf("vertexbuffer: validate %s: %w", a.semantic, ErrDuplicateSemantic)
		}
		seen[a.semantic] = struct{}{}
		if !l.interleaved && a.data == nil {
			return fmt.Errorf("vertexbuffer: attribute %s has no data for planar layout: %w",
				a.semantic, ErrMissingAttributeData)
		}
	}
	return nil
}

// freeze derives and caches stride and shapes. Racing first calls compute
// equal values and the first stored one wins.
func (l *Layout) freeze() *derived {
	if d := l.derived.Load(); d != nil {
		return d
	}
	d := &derived{
		storage:  shapes.get(l.attrs, storageSide),
		target:   shapes.get(l.attrs, targetSide),
		matching: true,
	}
	for _, a := range l.attrs {
		d.stride += a.strideSize()
		if a.Converts() {
			d.matching = false
		}
	}
	if !l.derived.CompareAndSwap(nil, d) {
		if cur := l.derived.Load(); cur != nil {
			return cur
		}
	}
	return d
}
