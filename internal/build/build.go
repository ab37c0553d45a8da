// Package build exports the whole site as a static tree: one index.html
// per route, the theme's static assets and the content directory's files.
// A bbolt manifest remembers what was written so unchanged files are left
// alone and files without a route any more are removed.
package build

import (
	"context"
	"fmt"
	"folio/internal/app"
	domainbuild "folio/internal/domain/build"
	"folio/internal/domain/config"
	"folio/internal/domain/content"
	"folio/internal/domain/site"
	"folio/internal/index"
	"folio/internal/ingest"
	"folio/internal/metrics"
	"gopkg.in/yaml.v3"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// rendererVersion changes whenever page markup changes in a way the theme
// hash cannot see.
const rendererVersion = "folio-render-1"

type Builder struct {
	Cfg     config.Config
	Site    *content.Site
	Pages   *app.Pages
	Theme   fs.FS
	Metrics metrics.Recorder
	Log     *slog.Logger
	Workers int
	// Force rewrites every file even when the manifest says it is current.
	Force bool
}

type Result struct {
	Routes   int
	Assets   int
	Written  int
	Skipped  int
	Removed  int
	Build    uint64
	UpToDate bool
}

type output struct {
	rel   string
	route string
	data  []byte
}

func (b *Builder) recorder() metrics.Recorder {
	if b.Metrics == nil {
		return metrics.NoopRecorder{}
	}
	return b.Metrics
}

func (b *Builder) logger() *slog.Logger {
	if b.Log == nil {
		return slog.Default()
	}
	return b.Log
}

func (b *Builder) Run(ctx context.Context) (*Result, error) {
	st, err := index.Open(index.OpenOptions{Path: b.Cfg.Build.IndexPath})
	if err != nil {
		return nil, fmt.Errorf("build: open manifest: %w", err)
	}
	defer st.Close()

	outDir := b.Cfg.Build.PublicDir
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("build: mkdir public: %w", err)
	}

	fp, err := b.fingerprint()
	if err != nil {
		return nil, fmt.Errorf("build: fingerprint: %w", err)
	}
	prev, err := st.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("build: read manifest: %w", err)
	}
	// 远程内容可能变了，只有本地内容才能整体跳过
	if !b.Force && b.Cfg.Fetch.BaseURL == "" && prev == fp.RenderHash && b.outputsPresent(st, outDir) {
		b.logger().Info("site up to date", "fingerprint", fp.RenderHash[:12])
		return &Result{UpToDate: true}, nil
	}

	routes := (&app.RouteBuilder{Site: b.Site}).Routes()
	pages, err := b.renderAll(ctx, routes)
	if err != nil {
		return nil, err
	}
	assets, err := b.collectAssets()
	if err != nil {
		return nil, fmt.Errorf("build: collect assets: %w", err)
	}

	res := &Result{Routes: len(pages), Assets: len(assets)}
	keep := make(map[string]struct{}, len(pages)+len(assets))
	for _, o := range append(pages, assets...) {
		// 页面优先于同名的内容文件
		if _, dup := keep[o.rel]; dup {
			continue
		}
		keep[o.rel] = struct{}{}
		wrote, err := b.write(st, outDir, o)
		if err != nil {
			return nil, err
		}
		if wrote {
			res.Written++
			b.recorder().IncBuildFile(metrics.BuildWritten)
		} else {
			res.Skipped++
			b.recorder().IncBuildFile(metrics.BuildSkipped)
		}
	}

	removed, err := b.prune(st, outDir, keep)
	if err != nil {
		return nil, err
	}
	res.Removed = removed

	if err := st.SetFingerprint(fp.RenderHash); err != nil {
		return nil, fmt.Errorf("build: save fingerprint: %w", err)
	}
	if res.Build, err = st.IncBuilds(); err != nil {
		return nil, fmt.Errorf("build: count: %w", err)
	}
	return res, nil
}

// renderAll renders routes with a pool of workers, keeping route order.
func (b *Builder) renderAll(ctx context.Context, routes []site.Route) ([]output, error) {
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type job struct {
		idx int
		r   site.Route
	}
	type result struct {
		idx int
		out output
		err error
	}
	jobs := make(chan job)
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				data, err := b.Pages.Render(ctx, j.r)
				if err != nil {
					err = fmt.Errorf("build: render %s: %w", j.r, err)
				}
				results <- result{idx: j.idx, out: output{rel: j.r.OutPath, route: string(j.r.Kind), data: data}, err: err}
			}
		}()
	}
	go func() {
		defer close(jobs)
		for i, r := range routes {
			select {
			case jobs <- job{idx: i, r: r}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	outs := make([]output, len(routes))
	var firstErr error
	n := 0
	for r := range results {
		n++
		if r.err != nil && firstErr == nil {
			firstErr = r.err
		}
		outs[r.idx] = r.out
	}
	if firstErr != nil {
		return nil, firstErr
	}
	if n < len(routes) {
		return nil, fmt.Errorf("build: render: %w", ctx.Err())
	}
	return outs, nil
}

// collectAssets gathers theme static files under static/ and the content
// directory's files at the site root.
func (b *Builder) collectAssets() ([]output, error) {
	var outs []output
	if b.Theme != nil {
		static, err := fs.Sub(b.Theme, "static")
		if err != nil {
			return nil, err
		}
		got, err := readTree(static, "static", "theme")
		if err != nil {
			return nil, err
		}
		outs = append(outs, got...)
	}

	dir := b.Cfg.Build.ContentDir
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		got, err := readTree(os.DirFS(dir), ".", "content")
		if err != nil {
			return nil, err
		}
		outs = append(outs, got...)
	} else if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return outs, nil
}

func readTree(fsys fs.FS, prefix, route string) ([]output, error) {
	var outs []output
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		outs = append(outs, output{rel: path.Join(prefix, p), route: route, data: data})
		return nil
	})
	return outs, err
}

// write stores o unless the manifest hash matches and the file is still on
// disk. It reports whether the file was written.
func (b *Builder) write(st *index.Store, outDir string, o output) (bool, error) {
	hash := domainbuild.HashBytes(o.data)
	full := filepath.Join(outDir, filepath.FromSlash(o.rel))
	if !b.Force {
		if e, err := st.Get(o.rel); err == nil && e.Hash == hash && fileExists(full) {
			return false, nil
		}
	}
	if err := writeFile(full, o.data); err != nil {
		return false, fmt.Errorf("build: write %s: %w", o.rel, err)
	}
	err := st.Put(o.rel, index.Entry{
		Route:   o.route,
		Hash:    hash,
		Size:    int64(len(o.data)),
		Written: time.Now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("build: record %s: %w", o.rel, err)
	}
	return true, nil
}

// prune deletes files recorded by an earlier build that no route or asset
// produces now.
func (b *Builder) prune(st *index.Store, outDir string, keep map[string]struct{}) (int, error) {
	stale, err := st.Stale(keep)
	if err != nil {
		return 0, fmt.Errorf("build: list manifest: %w", err)
	}
	for _, rel := range stale {
		full := filepath.Join(outDir, filepath.FromSlash(rel))
		if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
			return 0, fmt.Errorf("build: remove %s: %w", rel, err)
		}
		removeEmptyParents(outDir, filepath.Dir(full))
		b.recorder().IncBuildFile(metrics.BuildRemoved)
		b.logger().Debug("removed stale output", "path", rel)
	}
	if err := st.Delete(stale...); err != nil {
		return 0, fmt.Errorf("build: forget stale: %w", err)
	}
	return len(stale), nil
}

func (b *Builder) outputsPresent(st *index.Store, outDir string) bool {
	paths, err := st.Paths()
	if err != nil || len(paths) == 0 {
		return false
	}
	for _, p := range paths {
		if !fileExists(filepath.Join(outDir, filepath.FromSlash(p))) {
			return false
		}
	}
	return true
}

// fingerprint hashes every input of a build: the data, the content
// directory, the theme, the config and the renderer version.
func (b *Builder) fingerprint() (domainbuild.Fingerprint, error) {
	var fp domainbuild.Fingerprint

	data, err := ingest.Encode(*b.Site, ingest.FormatJSON)
	if err != nil {
		return fp, err
	}
	fp.DataHash = domainbuild.HashBytes(data)

	if info, err := os.Stat(b.Cfg.Build.ContentDir); err == nil && info.IsDir() {
		if fp.ContentHash, err = domainbuild.HashTree(os.DirFS(b.Cfg.Build.ContentDir)); err != nil {
			return fp, err
		}
	}
	if b.Theme != nil {
		if fp.ThemeHash, err = domainbuild.HashTree(b.Theme); err != nil {
			return fp, err
		}
	}
	cfg, err := yaml.Marshal(b.Cfg)
	if err != nil {
		return fp, err
	}
	fp.ConfigHash = domainbuild.HashBytes(cfg)
	fp.RendererHash = domainbuild.HashBytes([]byte(rendererVersion))
	fp.ComputeRenderHash()
	return fp, nil
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}

func writeFile(full string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, data, 0o644)
}

// removeEmptyParents walks up from dir to root removing empty directories.
func removeEmptyParents(root, dir string) {
	root = filepath.Clean(root)
	for dir = filepath.Clean(dir); dir != root && len(dir) > len(root); dir = filepath.Dir(dir) {
		if err := os.Remove(dir); err != nil {
			return
		}
	}
}
