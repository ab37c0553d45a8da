package build

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"folio/internal/app"
	"folio/internal/domain/config"
	"folio/internal/domain/content"
	"folio/internal/fetch"
	"folio/internal/ingest"
	"folio/internal/metrics"
	"folio/internal/page"
	"folio/internal/render"
	"folio/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileCounter struct {
	metrics.NoopRecorder
	files map[metrics.BuildLabel]int
}

func (f *fileCounter) IncBuildFile(l metrics.BuildLabel) { f.files[l]++ }

func buildSite(projects ...content.Project) *content.Site {
	s := ingest.ApplyDefaults(content.Site{
		Profile:  content.Profile{Name: "Jane Doe"},
		Papers:   []content.Paper{{ID: "p1", Title: "GKP", Year: 2025, Content: "posts/p1.md"}},
		Projects: projects,
		Posts:    []content.BlogPost{{ID: "b1", Title: "Cycloid", Date: "Apr 15, 2025", Content: "inline $x$"}},
	}).Normalize()
	return &s
}

func newBuilder(t *testing.T, root string, s *content.Site, rec metrics.Recorder) *Builder {
	t.Helper()
	cfg := config.Default()
	cfg.Build.ContentDir = filepath.Join(root, "content")
	cfg.Build.PublicDir = filepath.Join(root, "dist")
	cfg.Build.IndexPath = filepath.Join(root, ".folio", "manifest.db")
	cfg.Build.Now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	theme := view.ThemeFS("")
	tpl, err := view.NewTemplateRenderer(theme)
	require.NoError(t, err)
	fetcher, err := fetch.New(cfg.Fetch, cfg.Build.ContentDir)
	require.NoError(t, err)
	return &Builder{
		Cfg:  cfg,
		Site: s,
		Pages: &app.Pages{
			Cfg:  cfg,
			Site: s,
			Deps: page.Deps{
				Fetcher:  fetcher,
				Renderer: render.New(),
			},
			View: tpl,
		},
		Theme:   theme,
		Metrics: rec,
		Workers: 2,
	}
}

func writeContent(t *testing.T, root string) {
	t.Helper()
	dir := filepath.Join(root, "content")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "uploads"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "posts", "p1.md"), []byte("# Paper body"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uploads", "cv.pdf"), []byte("%PDF"), 0o644))
}

func TestBuilder_WritesEveryRoute(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root)
	rec := &fileCounter{files: map[metrics.BuildLabel]int{}}
	b := newBuilder(t, root, buildSite(content.Project{ID: "pr1", Title: "Solar", Content: "body"}), rec)

	res, err := b.Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
	assert.Equal(t, uint64(1), res.Build)
	assert.Equal(t, 8, res.Routes)
	assert.Zero(t, res.Removed)
	assert.Equal(t, res.Routes+res.Assets, res.Written)

	dist := b.Cfg.Build.PublicDir
	for _, rel := range []string{
		"index.html",
		"research/p1/index.html",
		"projects/pr1/index.html",
		"garden/b1/index.html",
		"404.html",
		"static/site.css",
		"uploads/cv.pdf",
		"posts/p1.md",
	} {
		assert.FileExists(t, filepath.Join(dist, rel))
	}
	paper, err := os.ReadFile(filepath.Join(dist, "research", "p1", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(paper), "Paper body")
	assert.Equal(t, res.Written, rec.files[metrics.BuildWritten])
}

func TestBuilder_SecondRunIsUpToDate(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root)
	s := buildSite()

	_, err := newBuilder(t, root, s, nil).Run(context.Background())
	require.NoError(t, err)

	res, err := newBuilder(t, root, s, nil).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, res.UpToDate)

	// a deleted output defeats the shortcut, only that file is rewritten
	require.NoError(t, os.Remove(filepath.Join(root, "dist", "404.html")))
	res, err = newBuilder(t, root, s, nil).Run(context.Background())
	require.NoError(t, err)
	assert.False(t, res.UpToDate)
	assert.Equal(t, 1, res.Written)
	assert.FileExists(t, filepath.Join(root, "dist", "404.html"))

	b := newBuilder(t, root, s, nil)
	b.Force = true
	res, err = b.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, res.Routes+res.Assets, res.Written)
}

func TestBuilder_RemovesOutputsWithoutRoute(t *testing.T) {
	root := t.TempDir()
	writeContent(t, root)

	_, err := newBuilder(t, root, buildSite(content.Project{ID: "pr1", Title: "Solar", Content: "body"}), nil).Run(context.Background())
	require.NoError(t, err)
	detail := filepath.Join(root, "dist", "projects", "pr1", "index.html")
	require.FileExists(t, detail)

	rec := &fileCounter{files: map[metrics.BuildLabel]int{}}
	res, err := newBuilder(t, root, buildSite(), rec).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, 1, rec.files[metrics.BuildRemoved])
	assert.NoFileExists(t, detail)
	assert.NoDirExists(t, filepath.Dir(detail))
	assert.Positive(t, res.Skipped, "unchanged pages are not rewritten")
}
