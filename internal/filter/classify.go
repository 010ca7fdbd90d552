// Package filter classifies meshes by the role they play in a model, so
// consumers can skip glow overlays or the character body bundled with
// equipment.
package filter

import (
	"path"
	"regexp"
	"strings"

	"mu-import-host/internal/mathutil"
)

// Role is what a mesh is used for.
type Role int

const (
	RoleGeometry Role = iota
	RoleEffect        // additive glow, aura or particle card
	RoleBody          // character skin, face or hair under equipment
)

func (r Role) String() string {
	switch r {
	case RoleEffect:
		return "effect"
	case RoleBody:
		return "body"
	}
	return "geometry"
}

func (r Role) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

func (r *Role) UnmarshalText(b []byte) error {
	switch string(b) {
	case "effect":
		*r = RoleEffect
	case "body":
		*r = RoleBody
	default:
		*r = RoleGeometry
	}
	return nil
}

var gradientRE = regexp.MustCompile(`^(?:mini_|hangul)?gra(?:\d|_|$)`)

// effectWords match anywhere in the texture stem.
var effectWords = []string{
	"glow", "flare", "chrome", "effect", "aura", "shiny", "spark", "fire", "blur",
	"elec_light", "arrowlight", "lighting_mega", "pin_star", "lightmarks",
	"light_blue", "light_red", "energy", "plasma", "shine", "halo", "trail",
	"gradation", "sdblight", "alpha_line", "4x4", "damage", "ground_wind",
	"ground_star", "line_of_big", "force", "runeset", "shockwave", "swordeff",
	"cursorpin", "empact", "circle_shield", "arrowbom", "raypiece",
}

// effectPrefixes match only at the start; "flame" elsewhere is usually a
// material name such as "box_flame_wood".
var effectPrefixes = []string{"flame"}

var bodyRE = regexp.MustCompile(`(?i)^(?:` +
	`hqskin(?:2)?(?:_)?class\d+` +
	`|skinclass\d+head` +
	`|nude_` +
	`|item\d+_head` +
	`|skin_(?:barbarian|warrior|class)` +
	`|level_man\d+` +
	`|(?:hq)?hair_r` +
	`|cobraset_hair` +
	`|tknight_hair` +
	`)`)

// Tiny meshes below this many vertices and triangles are treated as effect
// cards unless they span more than maxCardSpan units.
const (
	maxCardVerts = 8
	maxCardTris  = 4
	maxCardSpan  = 20
)

// Classify decides a mesh's role from its material name and geometry.
func Classify(material string, positions [][3]float32, triangles int) Role {
	stem := stemOf(material)
	if bodyRE.MatchString(stem) {
		return RoleBody
	}
	if gradientRE.MatchString(stem) {
		return RoleEffect
	}
	for _, w := range effectWords {
		if strings.Contains(stem, w) {
			return RoleEffect
		}
	}
	for _, p := range effectPrefixes {
		if strings.HasPrefix(stem, p) {
			return RoleEffect
		}
	}

	nv := len(positions)
	if nv == 0 || nv > maxCardVerts || triangles > maxCardTris {
		return RoleGeometry
	}
	lo, hi := mathutil.Bounds(positions)
	size := hi.Sub(lo)
	if max(size[0], size[1], size[2]) > maxCardSpan {
		return RoleGeometry
	}
	return RoleEffect
}

func stemOf(material string) string {
	base := path.Base(strings.ToLower(strings.ReplaceAll(material, "\\", "/")))
	return strings.TrimSuffix(base, path.Ext(base))
}
