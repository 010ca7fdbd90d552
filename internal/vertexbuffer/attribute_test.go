package vertexbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identity(src Column) ([]byte, error) { return src.Bytes(), nil }

func TestNewAttributeDefaults(t *testing.T) {
	a, err := NewAttribute(Position(), Vector3)
	require.NoError(t, err)
	assert.Equal(t, Vector3, a.Target())
	assert.Equal(t, Vector3, a.Storage())
	assert.False(t, a.Converts())
	assert.Equal(t, 12, a.StorageSize())
	assert.Equal(t, 12, a.TargetSize())
	assert.Nil(t, a.Data())
}

func TestNewAttributeValidation(t *testing.T) {
	tests := []struct {
		name string
		opts []AttributeOption
		ok   bool
	}{
		{"custom without converter", []AttributeOption{WithStorage(Custom), WithSize(4)}, false},
		{"custom without size", []AttributeOption{WithStorage(Custom), WithConverter(identity)}, false},
		{"custom complete", []AttributeOption{WithStorage(Custom), WithSize(4), WithConverter(identity)}, true},
		{"mismatch without converter", []AttributeOption{WithStorage(UByte4)}, false},
		{"mismatch with converter", []AttributeOption{WithStorage(UByte4), WithConverter(identity)}, true},
		{"unknown storage", []AttributeOption{WithStorage(Type(99)), WithConverter(identity)}, false},
		{"negative storage", []AttributeOption{WithStorage(Type(-1))}, false},
		{"negative storage with converter", []AttributeOption{WithStorage(Type(-1)), WithConverter(identity)}, false},
		{"negative size", []AttributeOption{WithSize(-1)}, false},
		{"size disagrees", []AttributeOption{WithSize(8)}, false},
		{"size agrees", []AttributeOption{WithSize(16)}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAttribute(Color(0), Vector4, tt.opts...)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestNewAttributeRejectsEmptySemantic(t *testing.T) {
	_, err := NewAttribute(Semantic{}, Float)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestNewAttributeCustomTarget(t *testing.T) {
	_, err := NewAttribute(NewSemantic("BLOB"), Custom, WithStorage(Custom), WithConverter(identity))
	assert.ErrorIs(t, err, ErrConfiguration)

	a, err := NewAttribute(NewSemantic("BLOB"), Custom, WithStorage(Custom), WithConverter(identity), WithSize(6))
	require.NoError(t, err)
	assert.Equal(t, 6, a.TargetSize())
	assert.Equal(t, 6, a.StorageSize())
}

func TestMustAttributePanics(t *testing.T) {
	assert.Panics(t, func() { MustAttribute(Normal(), Vector3, WithStorage(Custom)) })
	assert.NotPanics(t, func() { MustAttribute(Normal(), Vector3) })
}

func TestWithBackingCopies(t *testing.T) {
	a := MustAttribute(UV(0), Vector2)
	b := a.WithBacking([]byte{1, 2})
	assert.Nil(t, a.Data())
	assert.Equal(t, []byte{1, 2}, b.Data())
}
