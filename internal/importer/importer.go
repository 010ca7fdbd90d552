// Package importer hosts model loaders. A Registry maps file extensions to
// Importers, each of which turns a file from the mounted content into a
// format-neutral Scene.
package importer

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"

	"mu-import-host/internal/content"
)

var (
	ErrDuplicateLoader    = errors.New("importer: loader id already registered")
	ErrDuplicateExtension = errors.New("importer: extension already claimed")
	ErrNoLoader           = errors.New("importer: no loader for extension")
)

// LoaderInfo describes one loader.
type LoaderInfo struct {
	Name       string   `json:"name"`
	ID         string   `json:"id"`
	Extensions []string `json:"extensions"`
}

// Info describes the host and every registered loader.
type Info struct {
	Name        string       `json:"name"`
	ID          string       `json:"id"`
	Version     string       `json:"version"`
	Description string       `json:"description"`
	Loaders     []LoaderInfo `json:"loaders"`
}

// Importer loads one file into a Scene.
type Importer interface {
	Info() LoaderInfo
	Import(ctx context.Context, m *content.Manager, path string) (*Scene, error)
}

// Host metadata reported by Registry.Info.
const (
	HostName    = "MU import host"
	HostID      = "mu-import-host"
	HostVersion = "0.1.0"
)

// Registry is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Importer
	byExt map[string]Importer
	order []Importer
}

func NewRegistry() *Registry {
	return &Registry{
		byID:  make(map[string]Importer),
		byExt: make(map[string]Importer),
	}
}

// Register adds imp. The whole registration fails if its id or any of its
// extensions is taken.
func (r *Registry) Register(imp Importer) error {
	info := imp.Info()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[info.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateLoader, info.ID)
	}
	exts := make([]string, len(info.Extensions))
	for i, ext := range info.Extensions {
		exts[i] = normalizeExt(ext)
		if owner, ok := r.byExt[exts[i]]; ok {
			return fmt.Errorf("%w: %s (held by %s)", ErrDuplicateExtension, exts[i], owner.Info().ID)
		}
	}

	r.byID[info.ID] = imp
	for _, ext := range exts {
		r.byExt[ext] = imp
	}
	r.order = append(r.order, imp)
	return nil
}

// Lookup finds the importer for name by its extension.
func (r *Registry) Lookup(name string) (Importer, error) {
	ext := normalizeExt(path.Ext(strings.ReplaceAll(name, "\\", "/")))
	r.mu.RLock()
	imp, ok := r.byExt[ext]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q (%s)", ErrNoLoader, ext, name)
	}
	return imp, nil
}

// Loaders lists registered loaders in registration order.
func (r *Registry) Loaders() []LoaderInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]LoaderInfo, len(r.order))
	for i, imp := range r.order {
		out[i] = imp.Info()
	}
	return out
}

// Extensions returns every claimed extension, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		out = append(out, ext)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) Info() Info {
	return Info{
		Name:        HostName,
		ID:          HostID,
		Version:     HostVersion,
		Description: "Imports MU Online models and textures into decoded vertex buffers.",
		Loaders:     r.Loaders(),
	}
}

// Import dispatches to the importer registered for name's extension.
func (r *Registry) Import(ctx context.Context, m *content.Manager, name string) (*Scene, error) {
	imp, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	scene, err := imp.Import(ctx, m, name)
	if err != nil {
		return nil, fmt.Errorf("importer: %s: %w", imp.Info().ID, err)
	}
	return scene, nil
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
