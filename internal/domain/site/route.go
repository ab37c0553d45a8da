package site

import (
	"path"
	"strings"
)

type RouteKind string

const (
	RouteHome     RouteKind = "home"
	RouteResearch RouteKind = "research"
	RouteProjects RouteKind = "projects"
	RouteGarden   RouteKind = "garden"
	RouteNotFound RouteKind = "404"
)

// Route is one page of the site. ID is set for detail pages only.
type Route struct {
	Kind    RouteKind
	ID      string
	Path    string
	OutPath string
}

func (r Route) Detail() bool { return r.ID != "" }

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.ID != "" {
		parts = append(parts, "id="+r.ID)
	}
	if r.Path != "" {
		parts = append(parts, "path="+r.Path)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

// SectionPath 列表页的路径，home 是 "/"
func SectionPath(k RouteKind) string {
	switch k {
	case RouteHome:
		return "/"
	case RouteResearch, RouteProjects, RouteGarden:
		return "/" + string(k)
	}
	return ""
}

func DetailPath(k RouteKind, id string) string {
	return path.Join(SectionPath(k), id)
}
