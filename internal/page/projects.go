package page

import (
	"context"
	"folio/internal/domain/content"
)

type ProjectRow struct {
	content.Project
	// Clickable cards open the detail view.
	Clickable bool
}

type ProjectsView struct {
	Projects []ProjectRow
	Detail   *DetailView[content.Project]
}

type Projects struct {
	*Detail[content.Project]
	site *content.Site
	deps Deps
}

func NewProjects(site *content.Site, deps Deps) *Projects {
	return &Projects{
		Detail: NewDetail[content.Project](deps.Fetcher, FetchError, deps.OnFetch),
		site:   site,
		deps:   deps,
	}
}

func (p *Projects) Open(ctx context.Context, id string) (DetailState[content.Project], bool) {
	pr, ok := p.site.Project(id)
	if !ok || pr.Content.Empty() {
		return p.State(), false
	}
	return p.Select(ctx, pr), true
}

func (p *Projects) View() ProjectsView {
	rows := make([]ProjectRow, 0, len(p.site.Projects))
	for _, pr := range p.site.Projects {
		rows = append(rows, ProjectRow{Project: pr, Clickable: !pr.Content.Empty()})
	}
	return ProjectsView{
		Projects: rows,
		Detail:   Present(p.State(), p.deps.Renderer),
	}
}
