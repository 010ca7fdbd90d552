// Package batch imports every model of an asset list with a worker pool.
package batch

import (
	"context"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"

	"mu-import-host/internal/assetlist"
	"mu-import-host/internal/content"
	"mu-import-host/internal/filter"
	"mu-import-host/internal/importer"
	"mu-import-host/internal/mathutil"
	"mu-import-host/internal/texture"
	vb "mu-import-host/internal/vertexbuffer"
)

// Config holds the shared resources of a run.
type Config struct {
	Content  *content.Manager
	Registry *importer.Registry
	// ModelDirs are content prefixes tried in order when resolving a model.
	ModelDirs []string
	Workers   int
	Logger    *slog.Logger
	// Progress receives a progress bar; nil disables it.
	Progress io.Writer

	// Textures resolves material names. With PreviewDir set, every resolved
	// texture is also written once as a WebP preview of PreviewSize pixels.
	Textures    *texture.Cache
	TextureIdx  *texture.Index
	PreviewDir  string
	PreviewSize int
}

// Result holds the outcome of importing one asset.
type Result struct {
	Group   int    `json:"group"`
	Index   int    `json:"index"`
	Name    string `json:"name"`
	Model   string `json:"model"`
	Path    string `json:"path,omitempty"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`

	Meshes    int           `json:"meshes"`
	Vertices  int           `json:"vertices"`
	Triangles int           `json:"triangles"`
	Bones     int           `json:"bones"`
	Stride    int           `json:"stride"`
	Effects   int           `json:"effect_meshes"`
	Bodies    int           `json:"body_meshes"`
	Min       mathutil.Vec3 `json:"min"`
	Max       mathutil.Vec3 `json:"max"`

	Textures []string `json:"textures,omitempty"`
	Missing  []string `json:"missing_textures,omitempty"`
	Previews []string `json:"previews,omitempty"`
}

// Run imports all assets. Results are in asset order. Once ctx is done the
// remaining assets fail with the context error.
func Run(ctx context.Context, cfg Config, assets []assetlist.Asset) []Result {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}

	total := len(assets)
	results := make([]Result, total)
	var processed, failed atomic.Int64
	start := time.Now()

	var bar *progressbar.ProgressBar
	if cfg.Progress != nil {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetWriter(cfg.Progress),
			progressbar.OptionSetDescription("importing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("models"),
		)
	}

	w := &worker{cfg: cfg}
	itemChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range itemChan {
				r := w.process(ctx, assets[idx])
				if !r.Success {
					failed.Add(1)
					cfg.Logger.Warn("import failed", "model", r.Model, "err", r.Error)
				}
				results[idx] = r
				processed.Add(1)
				if bar != nil {
					_ = bar.Add(1)
				}
			}
		}()
	}

	for i := range assets {
		itemChan <- i
	}
	close(itemChan)
	wg.Wait()
	if bar != nil {
		_ = bar.Finish()
	}

	cfg.Logger.Info("batch finished",
		"assets", total,
		"failed", failed.Load(),
		"elapsed", time.Since(start).Round(time.Millisecond))
	return results
}

type worker struct {
	cfg      Config
	previews sync.Map // texture entry key -> preview path
}

func (w *worker) process(ctx context.Context, a assetlist.Asset) Result {
	r := Result{Group: a.Group, Index: a.Index, Name: a.Name, Model: a.Model}
	if err := ctx.Err(); err != nil {
		r.Error = err.Error()
		return r
	}

	p, ok := w.resolveModel(a.Model)
	if !ok {
		r.Error = fmt.Sprintf("model not found: %s", a.Model)
		return r
	}
	r.Path = p

	scene, err := w.cfg.Registry.Import(ctx, w.cfg.Content, p)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	if len(scene.Meshes) == 0 {
		r.Error = "no meshes"
		return r
	}

	r.Meshes = len(scene.Meshes)
	r.Vertices = scene.VertexCount()
	r.Triangles = scene.TriangleCount()
	r.Bones = len(scene.Bones)
	r.Stride = scene.Meshes[0].Vertices.Stride()
	r.Effects = scene.CountRole(filter.RoleEffect)
	r.Bodies = scene.CountRole(filter.RoleBody)
	if r.Min, r.Max, err = sceneBounds(scene); err != nil {
		r.Error = err.Error()
		return r
	}

	r.Textures = scene.Textures()
	for _, name := range r.Textures {
		preview, ok := w.texture(name)
		if !ok {
			r.Missing = append(r.Missing, name)
			continue
		}
		if preview != "" {
			r.Previews = append(r.Previews, preview)
		}
	}

	r.Success = true
	return r
}

func (w *worker) resolveModel(model string) (string, bool) {
	model = strings.ReplaceAll(model, "\\", "/")
	dirs := w.cfg.ModelDirs
	if len(dirs) == 0 {
		dirs = []string{""}
	}
	for _, dir := range dirs {
		p := path.Join(dir, model)
		if w.cfg.Content.Exists(p) {
			return p, true
		}
	}
	return "", false
}

// texture reports whether name resolves, and the preview path if one was
// written for it.
func (w *worker) texture(name string) (string, bool) {
	if w.cfg.TextureIdx == nil {
		return "", true
	}
	entry, ok := w.cfg.TextureIdx.ResolvePath(name)
	if !ok {
		return "", false
	}
	if w.cfg.Textures == nil || w.cfg.PreviewDir == "" {
		return "", true
	}

	key := entry.Provider.Name() + ":" + entry.Path
	if p, ok := w.previews.Load(key); ok {
		return p.(string), true
	}
	img := w.cfg.Textures.Resolve(name)
	if img == nil {
		return "", false
	}

	out := previewPath(w.cfg.PreviewDir, entry)
	if p, loaded := w.previews.LoadOrStore(key, out); loaded {
		return p.(string), true
	}
	if err := writePreview(out, texture.Thumbnail(img, w.cfg.PreviewSize)); err != nil {
		w.cfg.Logger.Warn("preview failed", "texture", entry.Path, "err", err)
		w.previews.Delete(key)
		return "", true
	}
	return out, true
}

// previewPath mirrors the texture's directory under dir so equal file names
// from different folders stay apart.
func previewPath(dir string, e content.Entry) string {
	rel := strings.TrimSuffix(e.Path, path.Ext(e.Path))
	return filepath.Join(dir, filepath.FromSlash(rel)+".webp")
}

func writePreview(out string, img *image.NRGBA) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := texture.EncodeWebP(f, img); err != nil {
		f.Close()
		return fmt.Errorf("webp encode: %w", err)
	}
	return f.Close()
}

func sceneBounds(s *importer.Scene) (lo, hi mathutil.Vec3, err error) {
	var pts [][3]float32
	for _, m := range s.Meshes {
		col, ok := m.Vertices.ColumnFor(vb.Position())
		if !ok {
			continue
		}
		p, err := col.Vec3s()
		if err != nil {
			return lo, hi, err
		}
		pts = append(pts, p...)
	}
	lo, hi = mathutil.Bounds(pts)
	return lo, hi, nil
}
