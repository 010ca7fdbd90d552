package content

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hack-pad/hackpadfs"
	hackos "github.com/hack-pad/hackpadfs/os"
)

// Provider is one mountable source of content files.
// Paths are slash-separated and relative to the provider root.
type Provider interface {
	Name() string
	Exists(name string) bool
	ReadFile(name string) ([]byte, error)
	// Glob returns every file whose path matches pattern. A pattern without a
	// slash is matched against base names at any depth.
	Glob(pattern string) ([]string, error)
}

// FSProvider serves files from a hackpadfs filesystem. Lookups that miss
// retry with a case-insensitive match, so content authored on Windows
// resolves on case-sensitive filesystems.
type FSProvider struct {
	name string
	fsys hackpadfs.FS
}

var _ Provider = (*FSProvider)(nil)

// NewFSProvider mounts fsys under the given display name.
func NewFSProvider(name string, fsys hackpadfs.FS) *FSProvider {
	return &FSProvider{name: name, fsys: fsys}
}

// NewDirProvider mounts an OS directory.
func NewDirProvider(dir string) (*FSProvider, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("content: mount %s: %w", dir, err)
	}
	osfs := hackos.NewFS()
	root, err := osfs.FromOSPath(abs)
	if err != nil {
		return nil, fmt.Errorf("content: mount %s: %w", dir, err)
	}
	sub, err := osfs.Sub(root)
	if err != nil {
		return nil, fmt.Errorf("content: mount %s: %w", dir, err)
	}
	return NewFSProvider(dir, sub), nil
}

func (p *FSProvider) Name() string { return p.name }

func (p *FSProvider) Exists(name string) bool {
	_, ok := p.resolve(name)
	return ok
}

func (p *FSProvider) ReadFile(name string) ([]byte, error) {
	resolved, ok := p.resolve(name)
	if !ok {
		return nil, fmt.Errorf("content: %s: %s: %w", p.name, name, ErrNotFound)
	}
	data, err := hackpadfs.ReadFile(p.fsys, resolved)
	if err != nil {
		return nil, fmt.Errorf("content: %s: read %s: %w", p.name, resolved, err)
	}
	return data, nil
}

func (p *FSProvider) Glob(pattern string) ([]string, error) {
	pattern = clean(pattern)
	if _, err := path.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("content: glob %q: %w", pattern, err)
	}
	baseOnly := !strings.Contains(pattern, "/")

	var out []string
	err := p.walk(".", func(name string) {
		subject := name
		if baseOnly {
			subject = path.Base(name)
		}
		if ok, _ := path.Match(pattern, subject); ok {
			out = append(out, name)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("content: %s: glob %q: %w", p.name, pattern, err)
	}
	sort.Strings(out)
	return out, nil
}

func (p *FSProvider) walk(dir string, visit func(name string)) error {
	entries, err := hackpadfs.ReadDir(p.fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if dir != "." {
			name = dir + "/" + name
		}
		if e.IsDir() {
			if err := p.walk(name, visit); err != nil {
				return err
			}
			continue
		}
		visit(name)
	}
	return nil
}

// resolve returns the stored path for name, trying an exact match first.
func (p *FSProvider) resolve(name string) (string, bool) {
	name = clean(name)
	if !fs.ValidPath(name) {
		return "", false
	}
	if info, err := hackpadfs.Stat(p.fsys, name); err == nil && !info.IsDir() {
		return name, true
	}

	dir := "."
	parts := strings.Split(name, "/")
	for i, part := range parts {
		entries, err := hackpadfs.ReadDir(p.fsys, dir)
		if err != nil {
			return "", false
		}
		found := false
		for _, e := range entries {
			if !strings.EqualFold(e.Name(), part) || e.IsDir() != (i < len(parts)-1) {
				continue
			}
			if dir == "." {
				dir = e.Name()
			} else {
				dir = dir + "/" + e.Name()
			}
			found = true
			break
		}
		if !found {
			return "", false
		}
	}
	return dir, true
}

func clean(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean("/" + name)
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return "."
	}
	return name
}
