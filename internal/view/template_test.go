package view

import (
	"context"
	"testing"
	"testing/fstest"

	"folio/internal/aggregate"
	"folio/internal/domain/content"
	"folio/internal/ingest"
	"folio/internal/page"
	"folio/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noFetch struct{}

func (noFetch) Fetch(context.Context, string) (string, error) { return "", nil }

func testSite() *content.Site {
	s := ingest.ApplyDefaults(content.Site{
		Profile: content.Profile{Name: "Jane Doe", Role: "Researcher", Email: "j@example.org"},
		Navigation: []content.NavLink{
			{Name: "HOME", Path: "/"},
			{Name: "RESEARCH", Path: "/research"},
		},
		Papers: []content.Paper{
			{ID: "p1", Title: "GKP Codes", Authors: []string{"Jane Doe", "Max Roe"}, Venue: "PRL", Year: 2025,
				IncludeBibtex: true, Content: "Abstract with $x^2$.", PDFLink: "/uploads/p1.pdf", Tags: []string{"Quantum"}},
			{ID: "p2", Title: "Plain Paper", Year: 2023},
		},
		Projects: []content.Project{{ID: "pr1", Title: "Solar", Content: "details", GitHub: "https://github.com/x"}},
		Posts:    []content.BlogPost{{ID: "b1", Title: "Cycloid", Date: "Apr 15, 2025", Tags: []string{"Math"}, Content: "inline", PDFAttachment: "/uploads/b1.pdf"}},
	}).Normalize()
	return &s
}

func layout(s *content.Site, path string) Layout {
	return Layout{
		Site:  SiteMeta{Name: s.Profile.Name, Language: "en", Year: 2025},
		Shell: page.NewShell(s, path).View(),
		Title: "Jane Doe",
	}
}

func newRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	r, err := NewTemplateRenderer(ThemeFS(""))
	require.NoError(t, err)
	return r
}

func TestRenderHome(t *testing.T) {
	s := testSite()
	r := newRenderer(t)
	out, err := r.RenderHome(context.Background(), HomePage{
		Layout: layout(s, "/"),
		Home:   page.Home(s, aggregate.Resolve(s)),
	})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, "<title>Jane Doe</title>")
	assert.Contains(t, html, "<span>JANE</span><span>DOE</span>")
	assert.Contains(t, html, "RECENT")
	assert.Contains(t, html, "Featured Spotlight")
	assert.Contains(t, html, "View All Projects")
	assert.Contains(t, html, "mailto:j@example.org")
	assert.Contains(t, html, `class="nav-link active" href="/"`)
}

func TestRenderResearch_ListAndDetail(t *testing.T) {
	s := testSite()
	r := newRenderer(t)
	deps := page.Deps{Fetcher: noFetch{}, Renderer: render.New()}
	ctl := page.NewResearch(s, deps)

	out, err := r.RenderResearch(context.Background(), ResearchPage{Layout: layout(s, "/research"), Research: ctl.View()})
	require.NoError(t, err)
	html := string(out)
	assert.Contains(t, html, `href="/research/p1"`)
	assert.Contains(t, html, "Read More")
	assert.Contains(t, html, `data-cite="/research/p1/cite"`)
	assert.Contains(t, html, `<h2 class="paper-title">Plain Paper</h2>`)
	assert.Contains(t, html, "Jane Doe, Max Roe")

	_, ok := ctl.Open(context.Background(), "p1")
	require.True(t, ok)
	out, err = r.RenderResearch(context.Background(), ResearchPage{Layout: layout(s, "/research"), Research: ctl.View()})
	require.NoError(t, err)
	html = string(out)
	assert.Contains(t, html, "Back to Research")
	assert.Contains(t, html, "PRL | 2025")
	assert.Contains(t, html, `\(x^2\)`)
	assert.Contains(t, html, "View PDF")
	assert.NotContains(t, html, "View Code")
}

func TestRenderProjectsAndGarden(t *testing.T) {
	s := testSite()
	r := newRenderer(t)
	deps := page.Deps{Fetcher: noFetch{}, Renderer: render.New()}

	pc := page.NewProjects(s, deps)
	out, err := r.RenderProjects(context.Background(), ProjectsPage{Layout: layout(s, "/projects"), Projects: pc.View()})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Click for details")

	gc := page.NewGarden(s, deps)
	out, err = r.RenderGarden(context.Background(), GardenPage{Layout: layout(s, "/garden"), Garden: gc.View()})
	require.NoError(t, err)
	assert.Contains(t, string(out), "#Math")

	gc.Open(context.Background(), "b1")
	out, err = r.RenderGarden(context.Background(), GardenPage{Layout: layout(s, "/garden"), Garden: gc.View()})
	require.NoError(t, err)
	assert.Contains(t, string(out), "PDF Document")
	assert.Contains(t, string(out), "Back to Garden")
}

func TestRenderNotFound(t *testing.T) {
	s := testSite()
	out, err := newRenderer(t).RenderNotFound(context.Background(), NotFoundPage{Layout: layout(s, "/x"), Path: "/x"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "Not Found")
}

func TestCheckThemeTemplates(t *testing.T) {
	assert.NoError(t, CheckThemeTemplates(ThemeFS("")))

	broken := fstest.MapFS{"templates/base.tmpl": &fstest.MapFile{Data: []byte("")}}
	err := CheckThemeTemplates(broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "home.tmpl")
}
