// Package config loads host settings from JSON, YAML or TOML and merges
// command-line overrides.
package config

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"mu-import-host/internal/bmd"
	"mu-import-host/internal/crypto"
)

// Config holds content locations, batch settings and cipher keys.
type Config struct {
	// Content
	Mounts    []string `json:"mounts" yaml:"mounts" toml:"mounts"`
	AssetList string   `json:"asset_list" yaml:"asset_list" toml:"asset_list"`
	ModelDirs []string `json:"model_dirs" yaml:"model_dirs" toml:"model_dirs"`
	OutputDir string   `json:"output_dir" yaml:"output_dir" toml:"output_dir"`

	// Batch
	Workers  int    `json:"workers" yaml:"workers" toml:"workers"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// Texture previews
	PreviewSize  int  `json:"preview_size" yaml:"preview_size" toml:"preview_size"`
	FlipTextures bool `json:"flip_textures" yaml:"flip_textures" toml:"flip_textures"`

	// Hex-encoded BMD keys; required only for v12 and v15 files.
	XORKey string `json:"xor_key" yaml:"xor_key" toml:"xor_key"`
	LEAKey string `json:"lea_key" yaml:"lea_key" toml:"lea_key"`
}

// Load reads a config file; the extension picks the codec.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		err = json.Unmarshal(data, &cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &cfg)
	case ".toml":
		err = toml.Unmarshal(data, &cfg)
	default:
		return Config{}, fmt.Errorf("config: %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	DataDir   string // mounted ahead of the configured mounts
	AssetList string
	OutputDir string
	Workers   int
	LogLevel  string
}

// Resolve applies flags, then fills empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	if flags.DataDir != "" {
		c.Mounts = append([]string{flags.DataDir}, c.Mounts...)
	}
	if flags.AssetList != "" {
		c.AssetList = flags.AssetList
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if len(c.Mounts) == 0 {
		if base := detectBaseDir(); base != "" {
			c.Mounts = []string{base}
		}
	}
	if len(c.ModelDirs) == 0 {
		c.ModelDirs = []string{"", "Data/Item", "Data/Player", "Data/Monster", "Data/Object1"}
	}
	if c.AssetList == "" {
		c.AssetList = findAssetList(c.Mounts)
	}
	if c.OutputDir == "" {
		c.OutputDir = "imported"
		if len(c.Mounts) > 0 {
			c.OutputDir = filepath.Join(c.Mounts[0], "Data", "Imported")
		}
	}

	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.PreviewSize <= 0 {
		c.PreviewSize = 256
	}
}

// BMDOptions decodes the configured cipher keys.
func (c *Config) BMDOptions() (bmd.Options, error) {
	var opts bmd.Options
	var err error
	if opts.XORKey, err = decodeKey("xor_key", c.XORKey, crypto.XORKeySize); err != nil {
		return bmd.Options{}, err
	}
	if opts.LEAKey, err = decodeKey("lea_key", c.LEAKey, crypto.LEAKeySize); err != nil {
		return bmd.Options{}, err
	}
	return opts, nil
}

func decodeKey(field, s string, size int) ([]byte, error) {
	if s == "" {
		return nil, nil
	}
	key, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", field, err)
	}
	if len(key) != size {
		return nil, fmt.Errorf("config: %s: want %d bytes, got %d", field, size, len(key))
	}
	return key, nil
}

// Level parses LogLevel ("debug", "info", "warn", "error").
func (c *Config) Level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log_level: %w", err)
	}
	return lvl, nil
}

// Logger returns a text logger writing to w at the configured level.
// An unparsable level falls back to info.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, _ := c.Level()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func detectBaseDir() string {
	var candidates []string
	if exe, _ := os.Executable(); exe != "" {
		dir := filepath.Dir(exe)
		candidates = append(candidates, dir, filepath.Dir(dir))
	}
	if cwd, _ := os.Getwd(); cwd != "" {
		candidates = append(candidates, cwd, filepath.Dir(cwd))
	}
	for _, base := range candidates {
		if info, err := os.Stat(filepath.Join(base, "Data")); err == nil && info.IsDir() {
			return base
		}
	}
	return ""
}

// findAssetList returns the first well-known list present under a mount,
// as a content path.
func findAssetList(mounts []string) string {
	candidates := []string{
		"AssetList.xml",
		"ItemList.xml",
		"Data/Xml/ItemList.xml",
		"Data/xml/ItemList.xml",
	}
	for _, mount := range mounts {
		for _, c := range candidates {
			if _, err := os.Stat(filepath.Join(mount, filepath.FromSlash(c))); err == nil {
				return c
			}
		}
	}
	return candidates[0]
}
