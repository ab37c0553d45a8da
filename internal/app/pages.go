// Package app ties the page controllers to the theme: it enumerates the
// site's routes and renders any one of them to HTML. The HTTP server and
// the static export both go through Pages.
package app

import (
	"context"
	"errors"
	"fmt"
	"folio/internal/aggregate"
	"folio/internal/domain/config"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"folio/internal/domain/site"
	"folio/internal/metrics"
	"folio/internal/page"
	"folio/internal/view"
	"log/slog"
	"time"
)

const (
	viewList   = "list"
	viewDetail = "detail"
)

type Pages struct {
	Cfg     config.Config
	Site    *content.Site
	Deps    page.Deps
	View    view.Renderer
	Metrics metrics.Recorder
}

func (p *Pages) recorder() metrics.Recorder {
	if p.Metrics == nil {
		return metrics.NoopRecorder{}
	}
	return p.Metrics
}

// FetchHook counts finished content fetches. A fetch superseded by a
// newer selection counts as canceled.
func FetchHook(rec metrics.Recorder, log *slog.Logger) page.FetchHook {
	return func(ref string, err error) {
		switch {
		case err == nil:
			rec.IncContentFetch(metrics.ResultSuccess)
		case errors.Is(err, context.Canceled):
			rec.IncContentFetch(metrics.ResultCanceled)
		default:
			rec.IncContentFetch(metrics.ResultFailed)
			log.Warn("content fetch failed", "ref", ref, "err", err)
		}
	}
}

// SiteTitle is site.title from the config, else the homepage tab title,
// else the profile name.
func (p *Pages) SiteTitle() string {
	if p.Cfg.Site.Title != "" {
		return p.Cfg.Site.Title
	}
	if p.Site.Homepage != nil && p.Site.Homepage.TabTitle != "" {
		return p.Site.Homepage.TabTitle
	}
	return p.Site.Profile.Name
}

func (p *Pages) layout(shellPath, title string) view.Layout {
	full := p.SiteTitle()
	if title != "" {
		full = title + " | " + full
	}
	return view.Layout{
		Site: view.SiteMeta{
			Name:       p.Site.Profile.Name,
			Language:   p.Cfg.Site.Language,
			BaseURL:    p.Cfg.Site.BaseURL,
			Year:       p.Cfg.Build.Now.Year(),
			LiveReload: p.Cfg.Serve.LiveReload,
		},
		Shell: page.NewShell(p.Site, shellPath).View(),
		Title: full,
	}
}

// Render draws one route. A detail route whose item is gone, or has no
// detail view, is domainerr.ErrNotFound.
func (p *Pages) Render(ctx context.Context, rt site.Route) ([]byte, error) {
	start := time.Now()
	out, v, err := p.render(ctx, rt)
	if err != nil {
		return nil, err
	}
	p.recorder().IncPageRender(string(rt.Kind), v)
	p.recorder().ObserveRenderDuration(string(rt.Kind), time.Since(start))
	return out, nil
}

// NotFound draws the not-found page for an unmatched path.
func (p *Pages) NotFound(ctx context.Context, path string) ([]byte, error) {
	return p.Render(ctx, site.Route{Kind: site.RouteNotFound, Path: path})
}

func (p *Pages) render(ctx context.Context, rt site.Route) ([]byte, string, error) {
	v := viewList
	if rt.Detail() {
		v = viewDetail
	}
	section := site.SectionPath(rt.Kind)

	switch rt.Kind {
	case site.RouteHome:
		out, err := p.View.RenderHome(ctx, view.HomePage{
			Layout: p.layout(section, ""),
			Home:   page.Home(p.Site, aggregate.Resolve(p.Site)),
		})
		return out, v, err

	case site.RouteResearch:
		ctl := page.NewResearch(p.Site, p.Deps)
		title := ""
		if rt.Detail() {
			st, ok := ctl.Open(ctx, rt.ID)
			if !ok {
				return nil, v, notFound(rt)
			}
			if _, err := ctl.Await(ctx); err != nil {
				return nil, v, err
			}
			title = st.Item.Title
		}
		out, err := p.View.RenderResearch(ctx, view.ResearchPage{
			Layout:   p.layout(section, title),
			Research: ctl.View(),
		})
		return out, v, err

	case site.RouteProjects:
		ctl := page.NewProjects(p.Site, p.Deps)
		title := ""
		if rt.Detail() {
			st, ok := ctl.Open(ctx, rt.ID)
			if !ok {
				return nil, v, notFound(rt)
			}
			if _, err := ctl.Await(ctx); err != nil {
				return nil, v, err
			}
			title = st.Item.Title
		}
		out, err := p.View.RenderProjects(ctx, view.ProjectsPage{
			Layout:   p.layout(section, title),
			Projects: ctl.View(),
		})
		return out, v, err

	case site.RouteGarden:
		ctl := page.NewGarden(p.Site, p.Deps)
		title := ""
		if rt.Detail() {
			st, ok := ctl.Open(ctx, rt.ID)
			if !ok {
				return nil, v, notFound(rt)
			}
			if _, err := ctl.Await(ctx); err != nil {
				return nil, v, err
			}
			title = st.Item.Title
		}
		out, err := p.View.RenderGarden(ctx, view.GardenPage{
			Layout: p.layout(section, title),
			Garden: ctl.View(),
		})
		return out, v, err

	case site.RouteNotFound:
		out, err := p.View.RenderNotFound(ctx, view.NotFoundPage{
			Layout: p.layout(rt.Path, "Not Found"),
			Path:   rt.Path,
		})
		return out, v, err
	}
	return nil, v, fmt.Errorf("app: unknown route kind %q", rt.Kind)
}

func notFound(rt site.Route) error {
	return fmt.Errorf("app: %s %q: %w", rt.Kind, rt.ID, domainerr.ErrNotFound)
}
