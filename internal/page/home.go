package page

import (
	"folio/internal/aggregate"
	"folio/internal/domain/content"
	"folio/internal/ingest"
	"strings"
)

const (
	EmptyRecentPrompt   = "Configure “Recent” entries in the CMS to highlight the most relevant updates."
	EmptyFeaturedPrompt = "Assign a featured entry through the CMS to highlight a research, project, or garden entry here."
	GardenBlurb         = "Notes, thoughts, and derivations. A digital garden."
)

type HeroView struct {
	Headline        string
	Subheadline     string
	HeadlineFont    string
	SubheadlineFont string
	HeadlineSize    string
	SubheadlineSize string
}

type HomeView struct {
	Title               string
	Hero                HeroView
	Recent              []aggregate.Card
	Featured            aggregate.Featured
	ProjectsDescription string
	GardenBlurb         string
	// Prompts shown in place of an empty panel.
	RecentPrompt   string
	FeaturedPrompt string
}

// FontStack lists the English face, then the CJK face unless it repeats
// the first, then the generic serif fallback.
func FontStack(eng, cjk string) string {
	var fonts []string
	if e := strings.TrimSpace(eng); e != "" {
		fonts = append(fonts, e)
	}
	if c := strings.TrimSpace(cjk); c != "" && (len(fonts) == 0 || fonts[0] != c) {
		fonts = append(fonts, c)
	}
	fonts = append(fonts, "serif")
	return strings.Join(fonts, ", ")
}

func heroView(h *content.Hero) HeroView {
	if h == nil {
		h = &content.Hero{}
	}
	v := HeroView{
		Headline:        h.Headline,
		Subheadline:     h.Subheadline,
		HeadlineFont:    FontStack(h.HeadlineFontEng, h.HeadlineFontCn),
		SubheadlineFont: FontStack(h.SubheadlineFontEng, h.SubheadlineFontCn),
		HeadlineSize:    h.HeadlineSize,
		SubheadlineSize: h.SubheadlineSize,
	}
	if v.HeadlineSize == "" {
		v.HeadlineSize = ingest.DefaultHeadlineSize
	}
	if v.SubheadlineSize == "" {
		v.SubheadlineSize = ingest.DefaultSubheadlineSize
	}
	return v
}

// Home composes the landing page from a defaulted site and its resolved
// card lists.
func Home(site *content.Site, hp aggregate.Homepage) HomeView {
	var cfg content.HomepageConfig
	if site.Homepage != nil {
		cfg = *site.Homepage
	}
	title := cfg.TabTitle
	if title == "" {
		title = site.Profile.Name
	}
	desc := cfg.ProjectsDescription
	if desc == "" {
		desc = ingest.DefaultProjectsDesc
	}
	return HomeView{
		Title:               title,
		Hero:                heroView(site.Hero),
		Recent:              hp.Recent,
		Featured:            hp.Featured,
		ProjectsDescription: desc,
		GardenBlurb:         GardenBlurb,
		RecentPrompt:        EmptyRecentPrompt,
		FeaturedPrompt:      EmptyFeaturedPrompt,
	}
}
