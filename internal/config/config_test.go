package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestLoadFormats(t *testing.T) {
	dir := t.TempDir()
	want := Config{
		Mounts:      []string{"/mu/client", "/mu/patch"},
		AssetList:   "Data/Xml/ItemList.xml",
		Workers:     3,
		LogLevel:    "debug",
		PreviewSize: 128,
	}

	files := map[string]string{
		"c.json": `{"mounts": ["/mu/client", "/mu/patch"], "asset_list": "Data/Xml/ItemList.xml",
			"workers": 3, "log_level": "debug", "preview_size": 128}`,
		"c.yaml": "mounts:\n  - /mu/client\n  - /mu/patch\nasset_list: Data/Xml/ItemList.xml\nworkers: 3\nlog_level: debug\npreview_size: 128\n",
		"c.toml": "mounts = [\"/mu/client\", \"/mu/patch\"]\nasset_list = \"Data/Xml/ItemList.xml\"\nworkers = 3\nlog_level = \"debug\"\npreview_size = 128\n",
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(write(t, dir, name, body))
			require.NoError(t, err)
			assert.Equal(t, want, cfg)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(write(t, dir, "c.ini", "x=1"))
	assert.ErrorContains(t, err, "unsupported format")

	_, err = Load(write(t, dir, "bad.json", "{"))
	assert.ErrorContains(t, err, "config: parse")

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	base := t.TempDir()
	write(t, base, "Data/Xml/ItemList.xml", "<ItemList/>")

	cfg := Config{Mounts: []string{"/patch"}, Workers: 2}
	cfg.Resolve(Flags{DataDir: base, Workers: 6, LogLevel: "warn"})

	assert.Equal(t, []string{base, "/patch"}, cfg.Mounts)
	assert.Equal(t, "Data/Xml/ItemList.xml", cfg.AssetList)
	assert.Equal(t, filepath.Join(base, "Data", "Imported"), cfg.OutputDir)
	assert.Equal(t, 6, cfg.Workers)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 256, cfg.PreviewSize)
	assert.Contains(t, cfg.ModelDirs, "Data/Item")

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, lvl)
}

func TestResolveKeepsExplicitValues(t *testing.T) {
	cfg := Config{
		Mounts:      []string{"/a"},
		AssetList:   "mine.xml",
		ModelDirs:   []string{"Models"},
		OutputDir:   "/out",
		PreviewSize: 64,
	}
	cfg.Resolve(Flags{})
	assert.Equal(t, "mine.xml", cfg.AssetList)
	assert.Equal(t, []string{"Models"}, cfg.ModelDirs)
	assert.Equal(t, "/out", cfg.OutputDir)
	assert.Equal(t, 64, cfg.PreviewSize)
	assert.Positive(t, cfg.Workers)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestBMDOptions(t *testing.T) {
	cfg := Config{
		XORKey: "00112233 44556677 8899aabb ccddeeff",
		LEAKey: strings.Repeat("ab", 32),
	}
	opts, err := cfg.BMDOptions()
	require.NoError(t, err)
	assert.Len(t, opts.XORKey, 16)
	assert.Equal(t, byte(0x44), opts.XORKey[4])
	assert.Len(t, opts.LEAKey, 32)

	opts, err = (&Config{}).BMDOptions()
	require.NoError(t, err)
	assert.Nil(t, opts.XORKey)
	assert.Nil(t, opts.LEAKey)

	_, err = (&Config{XORKey: "zz"}).BMDOptions()
	assert.ErrorContains(t, err, "xor_key")

	_, err = (&Config{LEAKey: "abcd"}).BMDOptions()
	assert.ErrorContains(t, err, "want 32 bytes")
}

func TestLogger(t *testing.T) {
	var sb strings.Builder
	cfg := Config{LogLevel: "error"}
	log := cfg.Logger(&sb)
	log.Info("hidden")
	log.Error("shown", "k", 1)
	assert.NotContains(t, sb.String(), "hidden")
	assert.Contains(t, sb.String(), "msg=shown k=1")

	_, err := (&Config{LogLevel: "loud"}).Level()
	assert.Error(t, err)
}
