package vertexbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSemanticID(t *testing.T) {
	tests := []struct {
		sem  Semantic
		want string
	}{
		{Position(), "POSITION"},
		{Normal(), "NORMAL"},
		{Tangent(), "TANGENT"},
		{Color(0), "COLOR0"},
		{UV(3), "UV3"},
		{BoneIndices(1), "BONE_INDICES1"},
		{BoneWeights(0), "BONE_WEIGHT0"},
		{NewSemantic("HEIGHT"), "HEIGHT"},
		{IndexedSemantic("HEIGHT", -5), "HEIGHT"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.sem.ID())
		assert.Equal(t, tt.want, tt.sem.String())
	}
}

func TestSemanticEquality(t *testing.T) {
	assert.Equal(t, UV(0), IndexedSemantic("UV", 0))
	assert.True(t, UV(1) == UV(1))
	assert.False(t, UV(0) == UV(1))
	assert.False(t, NewSemantic("UV") == UV(0))
	assert.True(t, UV(0).Indexed())
	assert.False(t, NewSemantic("UV").Indexed())
	assert.Equal(t, -1, Position().Index())
}

func TestTypeCatalog(t *testing.T) {
	tests := []struct {
		typ   Type
		kind  ScalarKind
		shape []int
		size  int
	}{
		{Float, ScalarFloat32, []int{1}, 4},
		{Vector2, ScalarFloat32, []int{2}, 8},
		{Vector3, ScalarFloat32, []int{3}, 12},
		{Vector4, ScalarFloat32, []int{4}, 16},
		{UByte4, ScalarUint8, []int{4}, 4},
		{Matrix4x4, ScalarFloat32, []int{4, 4}, 64},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.typ.ScalarKind())
			assert.Equal(t, tt.shape, tt.typ.Shape())
			n, ok := tt.typ.ElementSize()
			assert.True(t, ok)
			assert.Equal(t, tt.size, n)
		})
	}

	_, ok := Custom.ElementSize()
	assert.False(t, ok)
	assert.False(t, Type(42).Valid())
	assert.Equal(t, "Type(42)", Type(42).String())
}
