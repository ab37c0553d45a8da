package page

import (
	"context"
	"folio/internal/domain/content"
)

const GardenDescription = "A collection of notes, derivations, and thoughts. Not quite a blog, but a growing repository of knowledge."

type GardenView struct {
	Description string
	Posts       []content.BlogPost
	Detail      *DetailView[content.BlogPost]
}

type Garden struct {
	*Detail[content.BlogPost]
	site *content.Site
	deps Deps
}

func NewGarden(site *content.Site, deps Deps) *Garden {
	return &Garden{
		Detail: NewDetail[content.BlogPost](deps.Fetcher, GardenFetchError, deps.OnFetch),
		site:   site,
		deps:   deps,
	}
}

// Open selects a post by id. Every post has a detail view; one without
// content shows the empty notice.
func (g *Garden) Open(ctx context.Context, id string) (DetailState[content.BlogPost], bool) {
	p, ok := g.site.Post(id)
	if !ok {
		return g.State(), false
	}
	return g.Select(ctx, p), true
}

func (g *Garden) View() GardenView {
	return GardenView{
		Description: GardenDescription,
		Posts:       g.site.Posts,
		Detail:      Present(g.State(), g.deps.Renderer),
	}
}
