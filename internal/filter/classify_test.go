package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	big := [][3]float32{{0, 0, 0}, {100, 0, 0}, {0, 100, 0}, {100, 100, 0}}
	small := [][3]float32{{0, 0, 0}, {5, 0, 0}, {0, 5, 0}}
	many := make([][3]float32, 20)

	tests := []struct {
		name     string
		material string
		pos      [][3]float32
		tris     int
		want     Role
	}{
		{"plain blade", "Item/Texture/sword04.jpg", many, 30, RoleGeometry},
		{"glow word", `Item\Texture\Sword_Glow01.jpg`, many, 30, RoleEffect},
		{"gradient", "gra_blue.jpg", many, 30, RoleEffect},
		{"gradient lookalike", "grass.jpg", many, 30, RoleGeometry},
		{"flame prefix", "flame01.jpg", many, 30, RoleEffect},
		{"flame inside", "requitalbox_flame_wood.jpg", many, 30, RoleGeometry},
		{"body skin", "HQSkinClass313.jpg", many, 30, RoleBody},
		{"hair overlay", "hair_R.tga", many, 30, RoleBody},
		{"small card", "decal.jpg", small, 1, RoleEffect},
		{"large quad", "decal.jpg", big, 2, RoleGeometry},
		{"empty", "decal.jpg", nil, 0, RoleGeometry},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.material, tt.pos, tt.tris))
		})
	}
}

func TestRoleText(t *testing.T) {
	for _, r := range []Role{RoleGeometry, RoleEffect, RoleBody} {
		b, err := r.MarshalText()
		assert.NoError(t, err)
		var back Role
		assert.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, r, back)
	}
}
