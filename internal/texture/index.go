package texture

import (
	"path"
	"strings"

	"mu-import-host/internal/content"
)

// rank orders extensions for the same stem; lower wins. Alpha-capable
// containers beat JPEG-based ones.
var rank = map[string]int{
	".ozt": 0, ".tga": 1, ".png": 2, ".webp": 3,
	".ozj": 4, ".jpg": 5, ".jpeg": 5, ".bmp": 6, ".tif": 7, ".tiff": 7,
}

// Index maps lowercase texture stems to content entries.
type Index struct {
	entries map[string]content.Entry
}

// BuildIndex scans every mount for texture files. Among equally ranked
// candidates the earliest mount wins.
func BuildIndex(m *content.Manager) (*Index, error) {
	all, err := m.Glob("*")
	if err != nil {
		return nil, err
	}

	idx := &Index{entries: make(map[string]content.Entry)}
	for _, e := range all {
		ext := strings.ToLower(path.Ext(e.Path))
		r, ok := rank[ext]
		if !ok {
			continue
		}
		stem := stemOf(e.Path)
		existing, exists := idx.entries[stem]
		if !exists || r < rank[strings.ToLower(path.Ext(existing.Path))] {
			idx.entries[stem] = e
		}
	}
	return idx, nil
}

// ResolvePath looks up a texture name as stored in a model, e.g.
// "Monster\\Texture\\skin01.jpg". Directories and extension are ignored.
func (idx *Index) ResolvePath(texName string) (content.Entry, bool) {
	e, ok := idx.entries[stemOf(texName)]
	return e, ok
}

func (idx *Index) Len() int {
	return len(idx.entries)
}

func stemOf(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.ToLower(strings.TrimSuffix(base, path.Ext(base)))
}
