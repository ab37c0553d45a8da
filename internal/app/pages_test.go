package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"folio/internal/domain/config"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"folio/internal/domain/site"
	"folio/internal/ingest"
	"folio/internal/metrics"
	"folio/internal/page"
	"folio/internal/render"
	"folio/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher map[string]string

func (m mapFetcher) Fetch(_ context.Context, ref string) (string, error) {
	if s, ok := m[ref]; ok {
		return s, nil
	}
	return "", errors.New("missing " + ref)
}

type countRecorder struct {
	metrics.NoopRecorder
	renders map[string]int
	fetches map[metrics.ResultLabel]int
}

func newCountRecorder() *countRecorder {
	return &countRecorder{renders: map[string]int{}, fetches: map[metrics.ResultLabel]int{}}
}

func (c *countRecorder) IncPageRender(p, v string)             { c.renders[p+"/"+v]++ }
func (c *countRecorder) IncContentFetch(r metrics.ResultLabel) { c.fetches[r]++ }

func testSite() *content.Site {
	s := ingest.ApplyDefaults(content.Site{
		Profile: content.Profile{Name: "Jane Doe"},
		Papers: []content.Paper{
			{ID: "p1", Title: "Remote Paper", Year: 2025, Content: "papers/p1.md"},
			{ID: "p2", Title: "No Body", Year: 2024},
		},
		Projects: []content.Project{{ID: "pr1", Title: "Solar", Content: "inline body"}},
		Posts: []content.BlogPost{
			{ID: "b1", Title: "Cycloid", Date: "Apr 15, 2025", Content: "posts/missing.md"},
			{ID: "b2", Title: "Empty", Date: "Jan 1, 2024"},
		},
	}).Normalize()
	return &s
}

func testPages(t *testing.T, rec metrics.Recorder) *Pages {
	t.Helper()
	tpl, err := view.NewTemplateRenderer(view.ThemeFS(""))
	require.NoError(t, err)
	cfg := config.Default()
	cfg.Build.Now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &Pages{
		Cfg:  cfg,
		Site: testSite(),
		Deps: page.Deps{
			Fetcher:  mapFetcher{"papers/p1.md": "---\ntitle: x\n---\n# Remote body"},
			Renderer: render.New(),
			OnFetch:  FetchHook(rec, log),
		},
		View:    tpl,
		Metrics: rec,
	}
}

func TestRouteBuilder_Routes(t *testing.T) {
	rb := RouteBuilder{Site: testSite()}
	var outs []string
	for _, r := range rb.Routes() {
		outs = append(outs, r.OutPath)
	}
	assert.Equal(t, []string{
		"index.html",
		"research/index.html",
		"projects/index.html",
		"garden/index.html",
		"research/p1/index.html",
		"projects/pr1/index.html",
		"garden/b1/index.html",
		"garden/b2/index.html",
		"404.html",
	}, outs)

	routes := rb.Routes()
	assert.Equal(t, "/research/p1", routes[4].Path)
	assert.True(t, routes[4].Detail())
	assert.Equal(t, site.RouteNotFound, routes[len(routes)-1].Kind)
}

func TestPages_RenderDetailWaitsForFetch(t *testing.T) {
	rec := newCountRecorder()
	p := testPages(t, rec)

	out, err := p.Render(context.Background(), site.Route{Kind: site.RouteResearch, ID: "p1", Path: "/research/p1"})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "Remote body")
	assert.NotContains(t, html, "title: x")
	assert.Contains(t, html, "<title>Remote Paper | Jane Doe</title>")
	assert.Equal(t, 1, rec.renders["research/detail"])
	assert.Equal(t, 1, rec.fetches[metrics.ResultSuccess])
}

func TestPages_RenderFetchFailureIsInline(t *testing.T) {
	rec := newCountRecorder()
	p := testPages(t, rec)

	out, err := p.Render(context.Background(), site.Route{Kind: site.RouteGarden, ID: "b1"})
	require.NoError(t, err)
	assert.Contains(t, string(out), page.GardenFetchError)
	assert.Equal(t, 1, rec.fetches[metrics.ResultFailed])

	out, err = p.Render(context.Background(), site.Route{Kind: site.RouteGarden, ID: "b2"})
	require.NoError(t, err)
	assert.Contains(t, string(out), page.NoticeEmpty)
}

func TestPages_RenderUnknownDetail(t *testing.T) {
	p := testPages(t, newCountRecorder())

	_, err := p.Render(context.Background(), site.Route{Kind: site.RouteResearch, ID: "p2"})
	assert.True(t, errors.Is(err, domainerr.ErrNotFound), "paper without content has no detail page")

	_, err = p.Render(context.Background(), site.Route{Kind: site.RouteProjects, ID: "nope"})
	assert.True(t, errors.Is(err, domainerr.ErrNotFound))

	out, err := p.NotFound(context.Background(), "/nope")
	require.NoError(t, err)
	assert.Contains(t, string(out), "Not Found")
}

func TestPages_SiteTitle(t *testing.T) {
	p := testPages(t, metrics.NoopRecorder{})
	assert.Equal(t, "Jane Doe", p.SiteTitle())

	p.Site.Homepage.TabTitle = "Tab"
	assert.Equal(t, "Tab", p.SiteTitle())

	p.Cfg.Site.Title = "Override"
	out, err := p.Render(context.Background(), site.Route{Kind: site.RouteHome, Path: "/"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<title>Override</title>")
}
