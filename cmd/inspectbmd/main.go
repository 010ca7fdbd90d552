package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"mu-import-host/internal/bmd"
	"mu-import-host/internal/config"
	"mu-import-host/internal/content"
	"mu-import-host/internal/importer"
	"mu-import-host/internal/mathutil"
	"mu-import-host/internal/texture"
	vb "mu-import-host/internal/vertexbuffer"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml or .toml)")
	dataDir := flag.String("data", "", "Client directory to mount (default: auto-detect)")
	layouts := flag.Bool("layouts", false, "Print the BMD section layouts")
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
	log := cfg.Logger(os.Stderr)

	if *layouts {
		printLayouts()
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
	// Arguments may also be plain paths outside the mounts.
	if err := mgr.MountDirs("."); err != nil {
		fmt.Fprintf(os.Stderr, "Error mounting working directory: %v\n", err)
		os.Exit(1)
	}

	texIndex, err := texture.BuildIndex(mgr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error indexing textures: %v\n", err)
		os.Exit(1)
	}
	cache := texture.NewCache(texIndex, texture.NewDecoder(log), texture.Params{})
	registry := importer.Default(opts)

	failed := 0
	for _, arg := range flag.Args() {
		scene, err := registry.Import(context.Background(), mgr, arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Import error %s: %v\n", arg, err)
			failed++
			continue
		}
		fmt.Printf("\n=== %s %q (meshes=%d bones=%d) ===\n", arg, scene.Name, len(scene.Meshes), len(scene.Bones))
		printMeshes(scene, cache)
		printBones(scene)
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func printLayouts() {
	all := bmd.Layouts()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		l := all[name]
		fmt.Printf("%s: stride=%d storage=%d target=%d\n", name, l.Stride(), l.StorageShape().Size, l.TargetShape().Size)
		for _, a := range l.Attributes() {
			sf, _ := l.StorageShape().Field(a.Semantic().ID())
			tf, _ := l.TargetShape().Field(a.Semantic().ID())
			conv := ""
			if a.Converts() {
				conv = " (converted)"
			}
			fmt.Printf("  %-14s %s@%d[%d] -> %s@%d[%d]%s\n", a.Semantic(),
				sf.Type, sf.Offset, sf.Size, tf.Type, tf.Offset, tf.Size, conv)
		}
	}
}

func printMeshes(scene *importer.Scene, cache *texture.Cache) {
	for i, m := range scene.Meshes {
		texInfo := "MISSING"
		if tex := cache.Resolve(m.Material); tex != nil {
			b := tex.Bounds()
			texInfo = fmt.Sprintf("%dx%d", b.Dx(), b.Dy())
		}

		var cols []string
		for _, c := range m.Vertices.Columns() {
			cols = append(cols, fmt.Sprintf("%s:%s", c.ID(), c.Type()))
		}

		fmt.Printf("  Mesh[%d] %s: v=%d t=%d stride=%d [%s] tex=%q (%s)\n",
			i, m.Role, m.Vertices.Len(), m.TriangleCount(), m.Vertices.Stride(), strings.Join(cols, " "), m.Material, texInfo)

		col, ok := m.Vertices.ColumnFor(vb.Position())
		if !ok || col.Len() == 0 {
			continue
		}
		pos, err := col.Vec3s()
		if err != nil {
			fmt.Fprintf(os.Stderr, "    positions: %v\n", err)
			continue
		}
		lo, hi := mathutil.Bounds(pos)
		size := hi.Sub(lo)
		fmt.Printf("    bbox=(%.1f,%.1f,%.1f) min=(%.1f,%.1f,%.1f) max=(%.1f,%.1f,%.1f)\n",
			size[0], size[1], size[2], lo[0], lo[1], lo[2], hi[0], hi[1], hi[2])
	}
}

func printBones(scene *importer.Scene) {
	for i, b := range scene.Bones {
		if b.Name == "" {
			continue
		}
		p := b.World.MulPoint(mathutil.Vec3{})
		fmt.Printf("  Bone[%d] %-20s parent=%d world=(%.1f,%.1f,%.1f)\n", i, b.Name, b.Parent, p[0], p[1], p[2])
	}
}
