package vertexbuffer

import "strconv"

// Canonical semantic names.
const (
	NamePosition    = "POSITION"
	NameNormal      = "NORMAL"
	NameTangent     = "TANGENT"
	NameColor       = "COLOR"
	NameUV          = "UV"
	NameBoneIndices = "BONE_INDICES"
	NameBoneWeights = "BONE_WEIGHT"
)

// Semantic is the logical meaning of a vertex attribute, optionally channel-indexed.
// Semantics are comparable values; two semantics are equal when name and index match.
type Semantic struct {
	name  string
	index int
}

// NewSemantic returns an unindexed semantic.
func NewSemantic(name string) Semantic {
	return Semantic{name: name, index: -1}
}

// IndexedSemantic returns a semantic for channel n of name.
func IndexedSemantic(name string, n int) Semantic {
	if n < 0 {
		n = -1
	}
	return Semantic{name: name, index: n}
}

func Position() Semantic { return NewSemantic(NamePosition) }
func Normal() Semantic { return NewSemantic(NameNormal) }
func Tangent() Semantic { return NewSemantic(NameTangent) }
func Color(n int) Semantic { return IndexedSemantic(NameColor, n) }
func UV(n int) Semantic { return IndexedSemantic(NameUV, n) }
func BoneIndices(n int) Semantic { return IndexedSemantic(NameBoneIndices, n) }
func BoneWeights(n int) Semantic { return IndexedSemantic(NameBoneWeights, n) }

func (s Semantic) Name() string { return s.name }

// Index returns the channel index, or -1 when the semantic is unindexed.
func (s Semantic) Index() int { return s.index }

// Indexed reports whether the semantic carries a channel index.
func (s Semantic) Indexed() bool { return s.index >= 0 }

// ID is the column key: the name, followed by the index when present.
func (s Semantic) ID() string {
	if s.index < 0 {
		return s.name
	}
	return s.name + strconv.Itoa(s.index)
}

func (s Semantic) String() string { return s.ID() }
