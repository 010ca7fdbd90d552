package vertexbuffer

import (
	"slices"
	"strconv"
	"strings"
	"sync"
)

// Field is one named column inside a record shape.
type Field struct {
	ID     string
	Type   Type
	Offset int
	Size   int
}

// Shape is a packed record layout: ordered fields with no padding.
// Shapes are shared through a process-wide cache; exported accessors hand
// out copies of Fields.
type Shape struct {
	Fields []Field
	Size   int
}

// Field returns the field keyed by id.
func (s Shape) Field(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

func (s Shape) clone() Shape {
	return Shape{Fields: slices.Clone(s.Fields), Size: s.Size}
}

type shapeSide int

const (
	storageSide shapeSide = iota
	targetSide
)

// shapeCache holds one generated shape per attribute signature.
type shapeCache struct {
	mu    sync.RWMutex
	items map[string]Shape
}

var shapes = &shapeCache{items: make(map[string]Shape)}

func (c *shapeCache) get(attrs []Attribute, side shapeSide) Shape {
	key := signature(attrs, side)

	c.mu.RLock()
	if s, ok := c.items[key]; ok {
		c.mu.RUnlock()
		return s
	}
	c.mu.RUnlock()

	s := buildShape(attrs, side)

	c.mu.Lock()
	if existing, ok := c.items[key]; ok {
		c.mu.Unlock()
		return existing
	}
	c.items[key] = s
	c.mu.Unlock()
	return s
}

func (c *shapeCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func signature(attrs []Attribute, side shapeSide) string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(int(side)))
	for _, a := range attrs {
		t, n := fieldOf(a, side)
		b.WriteByte('|')
		b.WriteString(a.semantic.ID())
		b.WriteByte(':')
		b.WriteString(t.String())
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(n))
	}
	return b.String()
}

func buildShape(attrs []Attribute, side shapeSide) Shape {
	s := Shape{Fields: make([]Field, len(attrs))}
	for i, a := range attrs {
		t, n := fieldOf(a, side)
		s.Fields[i] = Field{ID: a.semantic.ID(), Type: t, Offset: s.Size, Size: n}
		s.Size += n
	}
	return s
}

func fieldOf(a Attribute, side shapeSide) (Type, int) {
	if side == storageSide {
		return a.storage, a.StorageSize()
	}
	return a.target, a.TargetSize()
}
