package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"mu-import-host/internal/config"
	"mu-import-host/internal/content"
	"mu-import-host/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	dataDir := flag.String("data", "", "Client directory to mount (default: auto-detect)")
	outDir := flag.String("out", "texdump", "Output directory")
	size := flag.Int("size", 0, "Preview size in pixels (default: preview_size from config)")
	raw := flag.Bool("raw", false, "Write the container payload (JPEG/TGA) instead of a WebP preview")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		if cfg, err = config.Load(*configFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{DataDir: *dataDir})
	if *size > 0 {
		cfg.PreviewSize = *size
	}
	log := cfg.Logger(os.Stderr)

	mgr := content.NewManager(log)
	if err := mgr.MountDirs(cfg.Mounts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error mounting content: %v\n", err)
		os.Exit(1)
	}
	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: texdump [flags] <pattern>...   e.g. texdump '*.ozt' sword01.ozj")
		os.Exit(2)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	dec := texture.NewDecoder(log)
	params := texture.Params{FlipVertical: cfg.FlipTextures}
	errors := 0
	for _, pattern := range flag.Args() {
		entries, err := mgr.Glob(pattern)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERR %s: %v\n", pattern, err)
			errors++
			continue
		}
		if len(entries) == 0 {
			fmt.Fprintf(os.Stderr, "ERR %s: no match\n", pattern)
			errors++
			continue
		}
		for _, e := range entries {
			if !texture.Supported(e.Path) {
				continue
			}
			if err := dump(dec, e, params, *outDir, cfg.PreviewSize, *raw); err != nil {
				fmt.Fprintf(os.Stderr, "ERR %v\n", err)
				errors++
			}
		}
	}

	if errors > 0 {
		fmt.Printf("\nDone with %d error(s).\n", errors)
		os.Exit(1)
	}
	fmt.Println("\nDone. All textures extracted.")
}

func dump(dec *texture.Decoder, e content.Entry, p texture.Params, outDir string, size int, raw bool) error {
	data, err := e.Read()
	if err != nil {
		return err
	}
	base := path.Base(e.Path)
	stem := strings.TrimSuffix(base, path.Ext(base))

	if raw {
		payload, format, err := texture.Unwrap(e.Path, data)
		if err != nil {
			return err
		}
		dst := filepath.Join(outDir, stem+"."+string(format))
		if err := os.WriteFile(dst, payload, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dst, err)
		}
		fmt.Printf("OK  %s -> %s  (%d header bytes skipped, %d bytes %s written)\n",
			e.Path, dst, len(data)-len(payload), len(payload), strings.ToUpper(string(format)))
		return nil
	}

	p.Name = e.Path
	img, err := dec.DecodeImage(data, p)
	if err != nil {
		return err
	}
	thumb := texture.Thumbnail(img, size)

	dst := filepath.Join(outDir, stem+".webp")
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()
	if err := texture.EncodeWebP(f, thumb); err != nil {
		return fmt.Errorf("encode %s: %w", dst, err)
	}
	fmt.Printf("OK  %s -> %s  (%dx%d -> %dx%d)\n", e.Path, dst,
		img.Rect.Dx(), img.Rect.Dy(), thumb.Rect.Dx(), thumb.Rect.Dy())
	return nil
}
