package app

import (
	"folio/internal/domain/content"
	"folio/internal/domain/site"
	"path"
)

type RouteBuilder struct {
	Site *content.Site
}

func outPath(p string) string {
	if p == "/" {
		return "index.html"
	}
	return path.Join(p[1:], "index.html")
}

func sectionRoute(k site.RouteKind) site.Route {
	p := site.SectionPath(k)
	return site.Route{Kind: k, Path: p, OutPath: outPath(p)}
}

func detailRoute(k site.RouteKind, id string) site.Route {
	p := site.DetailPath(k, id)
	return site.Route{Kind: k, ID: id, Path: p, OutPath: outPath(p)}
}

// Routes lists every page of the site: the four sections, one detail page
// per item that has one, and the not-found page last.
func (rb *RouteBuilder) Routes() []site.Route {
	routes := []site.Route{
		sectionRoute(site.RouteHome),
		sectionRoute(site.RouteResearch),
		sectionRoute(site.RouteProjects),
		sectionRoute(site.RouteGarden),
	}
	routes = append(routes, rb.BuildPaperRoutes()...)
	routes = append(routes, rb.BuildProjectRoutes()...)
	routes = append(routes, rb.BuildPostRoutes()...)
	routes = append(routes, site.Route{Kind: site.RouteNotFound, OutPath: "404.html"})
	return routes
}

// 没有正文的论文只在列表里出现
func (rb *RouteBuilder) BuildPaperRoutes() []site.Route {
	var routes []site.Route
	for _, p := range rb.Site.Papers {
		if p.Content.Empty() {
			continue
		}
		routes = append(routes, detailRoute(site.RouteResearch, p.ID))
	}
	return routes
}

func (rb *RouteBuilder) BuildProjectRoutes() []site.Route {
	var routes []site.Route
	for _, p := range rb.Site.Projects {
		if p.Content.Empty() {
			continue
		}
		routes = append(routes, detailRoute(site.RouteProjects, p.ID))
	}
	return routes
}

// 文章总能打开，空正文显示提示
func (rb *RouteBuilder) BuildPostRoutes() []site.Route {
	routes := make([]site.Route, 0, len(rb.Site.Posts))
	for _, p := range rb.Site.Posts {
		routes = append(routes, detailRoute(site.RouteGarden, p.ID))
	}
	return routes
}
