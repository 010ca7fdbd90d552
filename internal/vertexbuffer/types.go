package vertexbuffer

import "fmt"

// ScalarKind is the element scalar of an attribute type.
type ScalarKind int

const (
	ScalarVoid ScalarKind = iota
	ScalarFloat32
	ScalarUint8
)

// Size returns the byte size of one scalar. Void has no fixed size.
func (k ScalarKind) Size() int {
	switch k {
	case ScalarFloat32:
		return 4
	case ScalarUint8:
		return 1
	}
	return 0
}

// Type identifies the element shape and scalar kind of one attribute column.
type Type int

const (
	Float Type = iota
	Vector2
	Vector3
	Vector4
	UByte4
	Matrix4x4
	// Custom is an opaque byte run whose size is supplied per attribute.
	Custom
)

var typeTable = [...]struct {
	name  string
	kind  ScalarKind
	shape []int
}{
	Float:     {"Float", ScalarFloat32, []int{1}},
	Vector2:   {"Vector2", ScalarFloat32, []int{2}},
	Vector3:   {"Vector3", ScalarFloat32, []int{3}},
	Vector4:   {"Vector4", ScalarFloat32, []int{4}},
	UByte4:    {"UByte4", ScalarUint8, []int{4}},
	Matrix4x4: {"Matrix4x4", ScalarFloat32, []int{4, 4}},
	Custom:    {"Custom", ScalarVoid, []int{0}},
}

// Valid reports whether t is part of the catalog.
func (t Type) Valid() bool {
	return t >= Float && t <= Custom
}

func (t Type) String() string {
	if !t.Valid() {
		return fmt.Sprintf("Type(%d)", int(t))
	}
	return typeTable[t].name
}

// ScalarKind returns the scalar kind of t.
func (t Type) ScalarKind() ScalarKind {
	if !t.Valid() {
		return ScalarVoid
	}
	return typeTable[t].kind
}

// Shape returns the element shape of t, e.g. [3] for Vector3 or [4 4] for Matrix4x4.
func (t Type) Shape() []int {
	if !t.Valid() {
		return nil
	}
	return append([]int(nil), typeTable[t].shape...)
}

// Components returns the number of scalars in one element.
func (t Type) Components() int {
	n := 1
	for _, d := range t.Shape() {
		n *= d
	}
	return n
}

// ElementSize returns product(shape) × scalar size.
// It reports false for Custom, whose size must come from the attribute.
func (t Type) ElementSize() (int, bool) {
	if t == Custom || !t.Valid() {
		return 0, false
	}
	return t.Components() * t.ScalarKind().Size(), true
}
