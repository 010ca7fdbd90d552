package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"mu-import-host/internal/assetlist"
	"mu-import-host/internal/batch"
	"mu-import-host/internal/config"
	"mu-import-host/internal/content"
	"mu-import-host/internal/importer"
	"mu-import-host/internal/texture"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	testN := flag.Int("test", 0, "Import only first N assets for testing")
	group := flag.Int("group", -1, "Import only assets from this group")
	index := flag.Int("index", -1, "Import only the asset with this index (requires -group)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	dataDir := flag.String("data", "", "Client directory mounted before configured mounts (default: auto-detect)")
	assetList := flag.String("list", "", "Asset list path inside the mounted content")
	outputDir := flag.String("output", "", "Output directory (default: Data/Imported)")
	logLevel := flag.String("log", "", "Log level: debug, info, warn, error")
	previews := flag.Bool("previews", true, "Write WebP previews of resolved textures")

	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		DataDir:   *dataDir,
		AssetList: *assetList,
		OutputDir: *outputDir,
		Workers:   *workers,
		LogLevel:  *logLevel,
	})
	log := cfg.Logger(os.Stderr)

	if len(cfg.Mounts) == 0 {
		fmt.Fprintln(os.Stderr, "Error: cannot find a client Data directory. Use -data or the mounts setting.")
		os.Exit(1)
	}
	opts, err := cfg.BMDOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	mgr := content.NewManager(log)
	if err := mgr.MountDirs(cfg.Mounts...); err != nil {
		fmt.Fprintf(os.Stderr, "Error mounting content: %v\n", err)
		os.Exit(1)
	}

	assets, err := assetlist.Load(mgr, cfg.AssetList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading asset list: %v\n", err)
		os.Exit(1)
	}

	if *group >= 0 {
		var filtered []assetlist.Asset
		for _, a := range assets {
			if a.Group != *group {
				continue
			}
			if *index >= 0 && a.Index != *index {
				continue
			}
			filtered = append(filtered, a)
		}
		assets = filtered
	}
	if *testN > 0 && *testN < len(assets) {
		assets = assets[:*testN]
	}
	if len(assets) == 0 {
		fmt.Println("No assets to import.")
		os.Exit(0)
	}

	texIndex, err := texture.BuildIndex(mgr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing textures: %v\n", err)
		os.Exit(1)
	}
	texParams := texture.Params{FlipVertical: cfg.FlipTextures}
	texCache := texture.NewCache(texIndex, texture.NewDecoder(log), texParams)
	fmt.Printf("Textures: %d indexed\n", texIndex.Len())

	registry := importer.Default(opts)
	mode := ""
	if *group >= 0 {
		mode = fmt.Sprintf(" (Group %d)", *group)
	} else if *testN > 0 {
		mode = fmt.Sprintf(" (TEST: first %d)", *testN)
	}
	fmt.Printf("%s %s%s\n", importer.HostName, importer.HostVersion, mode)
	fmt.Printf("Assets: %d, Workers: %d\n", len(assets), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	batchCfg := batch.Config{
		Content:     mgr,
		Registry:    registry,
		ModelDirs:   cfg.ModelDirs,
		Workers:     cfg.Workers,
		Logger:      log,
		Progress:    os.Stderr,
		Textures:    texCache,
		TextureIdx:  texIndex,
		PreviewSize: cfg.PreviewSize,
	}
	if *previews {
		batchCfg.PreviewDir = filepath.Join(cfg.OutputDir, "textures")
	}

	start := time.Now()
	results := batch.Run(ctx, batchCfg, assets)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", time.Since(start).Seconds())

	manifest := batch.NewManifest(registry.Info(), results)
	fmt.Printf("Imported: %d/%d\n", manifest.Succeeded, len(results))

	if manifest.Failed > 0 {
		fmt.Printf("\nFailed (%d):\n", manifest.Failed)
		shown := 0
		for _, r := range results {
			if r.Success {
				continue
			}
			if shown == 20 {
				fmt.Printf("  ... and %d more\n", manifest.Failed-shown)
				break
			}
			fmt.Printf("  %s (%s): %s\n", r.Name, r.Model, r.Error)
			shown++
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, manifest); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if manifest.Failed > 0 {
		os.Exit(1)
	}
}
