// Package content mounts several file sources behind one lookup namespace.
// Earlier mounts shadow later ones.
package content

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	ErrNotFound       = errors.New("content: file not found")
	ErrAlreadyMounted = errors.New("content: provider already mounted")
	ErrNotMounted     = errors.New("content: provider not mounted")
)

// Entry is one glob hit: the provider that owns the file and its path there.
type Entry struct {
	Provider Provider
	Path     string
}

// Read loads the entry's bytes from its provider.
func (e Entry) Read() ([]byte, error) {
	return e.Provider.ReadFile(e.Path)
}

// Manager is safe for concurrent use.
type Manager struct {
	mu     sync.RWMutex
	mounts []Provider
	log    *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{log: logger}
}

func (m *Manager) Mount(p Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.mounts {
		if existing == p {
			return fmt.Errorf("%w: %s", ErrAlreadyMounted, p.Name())
		}
	}
	m.mounts = append(m.mounts, p)
	m.log.Debug("content mounted", "provider", p.Name(), "mounts", len(m.mounts))
	return nil
}

func (m *Manager) Unmount(p Provider) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, existing := range m.mounts {
		if existing == p {
			m.mounts = append(m.mounts[:i], m.mounts[i+1:]...)
			m.log.Debug("content unmounted", "provider", p.Name())
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotMounted, p.Name())
}

// Mounts returns the providers in lookup order.
func (m *Manager) Mounts() []Provider {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]Provider(nil), m.mounts...)
}

func (m *Manager) Exists(name string) bool {
	_, ok := m.owner(name)
	return ok
}

// Get reads name from the first mount that has it.
func (m *Manager) Get(name string) ([]byte, error) {
	p, ok := m.owner(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return p.ReadFile(name)
}

// Glob collects matches from every mount in mount order. A path already
// returned by an earlier mount is skipped.
func (m *Manager) Glob(pattern string) ([]Entry, error) {
	var out []Entry
	seen := make(map[string]bool)
	for _, p := range m.Mounts() {
		names, err := p.Glob(pattern)
		if err != nil {
			return nil, err
		}
		for _, name := range names {
			if seen[name] {
				continue
			}
			seen[name] = true
			out = append(out, Entry{Provider: p, Path: name})
		}
	}
	return out, nil
}

// GlobFirst returns the first match in mount order.
func (m *Manager) GlobFirst(pattern string) (Entry, error) {
	for _, p := range m.Mounts() {
		names, err := p.Glob(pattern)
		if err != nil {
			return Entry{}, err
		}
		if len(names) > 0 {
			return Entry{Provider: p, Path: names[0]}, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrNotFound, pattern)
}

func (m *Manager) owner(name string) (Provider, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.mounts {
		if p.Exists(name) {
			return p, true
		}
	}
	return nil, false
}

// MountDirs mounts each OS directory in order.
func (m *Manager) MountDirs(dirs ...string) error {
	for _, dir := range dirs {
		p, err := NewDirProvider(dir)
		if err != nil {
			return err
		}
		if err := m.Mount(p); err != nil {
			return err
		}
	}
	return nil
}
