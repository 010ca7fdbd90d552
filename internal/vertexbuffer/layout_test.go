package vertexbuffer

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLayoutStrideWithCustomStorage(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(NewSemantic("PACKED"), Float, WithStorage(Custom), WithSize(4), WithConverter(identity)))
	require.NoError(t, l.Add(NewSemantic("WEIGHT"), Float))

	assert.Equal(t, 8, l.Stride())

	_, err := l.Decode(1, make([]byte, 8))
	assert.NoError(t, err)

	_, err = l.Decode(1, make([]byte, 7))
	assert.ErrorIs(t, err, ErrSizeMismatch)
}

func TestLayoutShapes(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(Position(), Vector3))
	require.NoError(t, l.Add(Normal(), Vector3, WithStorage(Custom), WithSize(4), WithConverter(identity)))
	require.NoError(t, l.Add(Color(0), Vector4, WithStorage(UByte4), WithConverter(NormalizedUByte4())))

	storage := l.StorageShape()
	assert.Equal(t, 20, storage.Size)
	assert.Equal(t, []Field{
		{ID: "POSITION", Type: Vector3, Offset: 0, Size: 12},
		{ID: "NORMAL", Type: Custom, Offset: 12, Size: 4},
		{ID: "COLOR0", Type: UByte4, Offset: 16, Size: 4},
	}, storage.Fields)

	target := l.TargetShape()
	assert.Equal(t, 40, target.Size)
	f, ok := target.Field("COLOR0")
	require.True(t, ok)
	assert.Equal(t, Field{ID: "COLOR0", Type: Vector4, Offset: 24, Size: 16}, f)

	// Custom storage counts its explicit size toward the stride.
	assert.Equal(t, 12+4+16, l.Stride())
}

func TestLayoutCacheInvalidation(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(Position(), Vector3))
	assert.Equal(t, Building, l.State())

	first := l.Stride()
	assert.Equal(t, Frozen, l.State())

	require.NoError(t, l.Add(NewSemantic("WEIGHT"), Float))
	assert.Equal(t, Building, l.State())
	assert.Equal(t, first+4, l.Stride())
	assert.Equal(t, first+4, l.TargetShape().Size)
	assert.Len(t, l.StorageShape().Fields, 2)
}

func TestLayoutFreezesOnDecode(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(UV(0), Vector2))
	_, err := l.Decode(0, nil)
	require.NoError(t, err)
	assert.Equal(t, Frozen, l.State())
}

func TestLayoutRejectsDuplicateSemantic(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(UV(0), Vector2))
	require.NoError(t, l.Add(UV(1), Vector2))

	err := l.Add(UV(0), Vector2)
	assert.ErrorIs(t, err, ErrDuplicateSemantic)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Equal(t, 2, l.Len())
}

func TestLayoutHasAttribute(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(BoneWeights(0), Vector4))

	assert.True(t, l.HasAttribute(BoneWeights(0)))
	assert.False(t, l.HasAttribute(BoneWeights(1)))
	assert.False(t, l.HasAttribute(NewSemantic("BONE_WEIGHT")))

	a, ok := l.Attribute(BoneWeights(0))
	require.True(t, ok)
	assert.Equal(t, Vector4, a.Target())
}

func TestLayoutValidatePlanar(t *testing.T) {
	l, err := BuildLayout(false, []Attribute{
		MustAttribute(Position(), Vector3, WithData(make([]byte, 12))),
		MustAttribute(Normal(), Vector3),
	})
	require.NoError(t, err)
	assert.ErrorIs(t, l.Validate(), ErrMissingAttributeData)

	interleaved, err := BuildLayout(true, []Attribute{MustAttribute(Normal(), Vector3)})
	require.NoError(t, err)
	assert.NoError(t, interleaved.Validate())
}

func TestBuildLayoutRejectsDuplicates(t *testing.T) {
	_, err := BuildLayout(true, []Attribute{
		MustAttribute(Position(), Vector3),
		MustAttribute(Position(), Vector4),
	})
	assert.ErrorIs(t, err, ErrDuplicateSemantic)
}

func TestShapeCacheSharesSignatures(t *testing.T) {
	build := func() *Layout {
		l := NewLayout(true)
		require.NoError(t, l.Add(NewSemantic("SHAPE_CACHE_TEST"), Matrix4x4))
		return l
	}
	a, b := build(), build()
	before := shapes.len()
	sa := a.TargetShape()
	mid := shapes.len()
	sb := b.TargetShape()

	assert.Equal(t, sa, sb)
	assert.Equal(t, mid, shapes.len())
	assert.LessOrEqual(t, mid-before, 2)
	assert.Same(t, &a.freeze().target.Fields[0], &b.freeze().target.Fields[0])
	assert.Equal(t, 64, sa.Size)
}

func TestLayoutShapesAreCopies(t *testing.T) {
	build := func() *Layout {
		l := NewLayout(true)
		require.NoError(t, l.Add(NewSemantic("SHAPE_COPY_TEST"), Vector3))
		return l
	}
	a, b := build(), build()

	target := a.TargetShape()
	target.Fields[0].ID = "CLOBBERED"
	storage := a.StorageShape()
	storage.Fields[0].Offset = 99

	buf, err := a.Decode(0, nil)
	require.NoError(t, err)
	shape := buf.Shape()
	shape.Fields[0].Size = 1

	for _, l := range []*Layout{a, b} {
		f, ok := l.TargetShape().Field("SHAPE_COPY_TEST")
		require.True(t, ok)
		assert.Equal(t, Field{ID: "SHAPE_COPY_TEST", Type: Vector3, Offset: 0, Size: 12}, f)
		assert.Equal(t, 0, l.StorageShape().Fields[0].Offset)
	}
	assert.Equal(t, 12, buf.Shape().Fields[0].Size)
}

func TestLayoutConcurrentFirstDecode(t *testing.T) {
	l := NewLayout(true)
	require.NoError(t, l.Add(UV(0), Vector2))
	raw := AppendFloats(nil, 0.25, 0.75)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, err := l.Decode(1, raw)
			if err == nil && buf.Stride() != 8 {
				err = fmt.Errorf("stride %d", buf.Stride())
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, Frozen, l.State())
	assert.Equal(t, 8, l.Stride())
}
