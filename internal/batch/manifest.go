package batch

import (
	"encoding/json"
	"fmt"
	"os"

	"mu-import-host/internal/importer"
)

// Manifest is the JSON summary written after a run.
type Manifest struct {
	Host      importer.Info `json:"host"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Assets    []Result      `json:"assets"`
}

// NewManifest tallies results.
func NewManifest(host importer.Info, results []Result) Manifest {
	m := Manifest{Host: host, Assets: results}
	for _, r := range results {
		if r.Success {
			m.Succeeded++
		} else {
			m.Failed++
		}
	}
	return m
}

// WriteManifest writes m as indented JSON.
func WriteManifest(path string, m Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("batch: manifest: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("batch: write manifest %s: %w", path, err)
	}
	return nil
}

// ReadManifest loads a manifest written by WriteManifest.
func ReadManifest(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("batch: read manifest %s: %w", path, err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("batch: parse manifest %s: %w", path, err)
	}
	return m, nil
}
