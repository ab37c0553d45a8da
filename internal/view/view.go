package view

import (
	"folio/internal/page"
)

// SiteMeta is the per-site chrome shared by every page.
type SiteMeta struct {
	Name       string
	Language   string
	BaseURL    string
	Year       int
	LiveReload bool
}

type Layout struct {
	Site  SiteMeta
	Shell page.ShellView
	// Title is the document title.
	Title string
}

type HomePage struct {
	Layout
	Home page.HomeView
}

type ResearchPage struct {
	Layout
	Research page.ResearchView
}

type ProjectsPage struct {
	Layout
	Projects page.ProjectsView
}

type GardenPage struct {
	Layout
	Garden page.GardenView
}

type NotFoundPage struct {
	Layout
	Path string
}
