package page

import (
	"context"
	"fmt"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"folio/internal/fetch"
	"folio/internal/render"
	"strconv"
	"strings"
	"sync"
	"time"
)

// CopiedWindow is how long the "Copied" indicator stays on a paper.
const CopiedWindow = 2 * time.Second

type Clock func() time.Time

// Clipboard is the sink for a copied citation.
type Clipboard interface {
	WriteText(text string) error
}

// Deps are the collaborators every page controller shares.
type Deps struct {
	Fetcher  fetch.Fetcher
	Renderer *render.MarkdownRenderer
	OnFetch  FetchHook
	Now      Clock
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

// TitleAction is what clicking a paper title does on the list.
type TitleAction string

const (
	TitleDetail   TitleAction = "detail"
	TitleExternal TitleAction = "external"
	TitlePlain    TitleAction = "plain"
)

func TitleActionFor(p content.Paper) TitleAction {
	switch {
	case !p.Content.Empty():
		return TitleDetail
	case p.PDFLink != "":
		return TitleExternal
	}
	return TitlePlain
}

type PaperRow struct {
	content.Paper
	Action   TitleAction
	ReadMore bool
	Copied   bool
}

func (r PaperRow) AuthorLine() string { return strings.Join(r.Authors, ", ") }

type ResearchView struct {
	Description string
	Papers      []PaperRow
	Detail      *DetailView[content.Paper]
}

type Research struct {
	*Detail[content.Paper]
	site *content.Site
	deps Deps

	mu       sync.Mutex
	copiedID string
	copiedAt time.Time
}

func NewResearch(site *content.Site, deps Deps) *Research {
	return &Research{
		Detail: NewDetail[content.Paper](deps.Fetcher, FetchError, deps.OnFetch),
		site:   site,
		deps:   deps,
	}
}

// Open selects a paper by id. Papers without content have no detail view.
func (r *Research) Open(ctx context.Context, id string) (DetailState[content.Paper], bool) {
	p, ok := r.site.Paper(id)
	if !ok || p.Content.Empty() {
		return r.State(), false
	}
	return r.Select(ctx, p), true
}

// Citation is the paper's own BibTeX or an @article entry built from it.
func Citation(p content.Paper) string {
	if strings.TrimSpace(p.Bibtex) != "" {
		return p.Bibtex
	}
	var b strings.Builder
	b.WriteString("@article{" + p.ID + ",\n")
	b.WriteString("  title={" + p.Title + "},\n")
	b.WriteString("  author={" + strings.Join(p.Authors, " and ") + "},\n")
	b.WriteString("  year={" + strconv.Itoa(p.Year) + "},\n")
	b.WriteString("  journal={" + p.Venue + "}\n")
	b.WriteString("}")
	return b.String()
}

// CopyCitation writes the citation of paper id to cb and moves the copied
// indicator onto that paper.
func (r *Research) CopyCitation(id string, cb Clipboard) (string, error) {
	p, ok := r.site.Paper(id)
	if !ok {
		return "", fmt.Errorf("page: cite %q: %w", id, domainerr.ErrNotFound)
	}
	text := Citation(p)
	if err := cb.WriteText(text); err != nil {
		return "", fmt.Errorf("page: copy citation %q: %w", id, err)
	}

	r.mu.Lock()
	r.copiedID, r.copiedAt = id, r.deps.now()
	r.mu.Unlock()
	return text, nil
}

// CopiedID is the paper showing "Copied", or "" once the window is over.
func (r *Research) CopiedID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.copiedID == "" || r.deps.now().Sub(r.copiedAt) >= CopiedWindow {
		return ""
	}
	return r.copiedID
}

func (r *Research) View() ResearchView {
	copied := r.CopiedID()
	rows := make([]PaperRow, 0, len(r.site.Papers))
	for _, p := range r.site.Papers {
		rows = append(rows, PaperRow{
			Paper:    p,
			Action:   TitleActionFor(p),
			ReadMore: !p.Content.Empty(),
			Copied:   p.IncludeBibtex && copied == p.ID,
		})
	}
	var desc string
	if r.site.ResearchPage != nil {
		desc = r.site.ResearchPage.Description
	}
	return ResearchView{
		Description: desc,
		Papers:      rows,
		Detail:      Present(r.State(), r.deps.Renderer),
	}
}
