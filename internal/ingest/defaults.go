package ingest

import (
	"folio/internal/domain/content"
	"strings"
)

const (
	DefaultHeadline        = "THE LOGIC\nOF MOVEMENT"
	DefaultSubheadline     = "\"Exploring the intersection of Applied Mathematics, Physics, and Engineering.\""
	DefaultHeadlineFont    = "Cinzel"
	DefaultCJKFont         = "\"Noto Serif SC\""
	DefaultHeadlineSize    = "text-5xl md:text-7xl lg:text-8xl"
	DefaultSubheadlineSize = "text-xl md:text-2xl lg:text-3xl"
	DefaultRecentLimit     = 3
	DefaultProjectsDesc    = "Fun projects that I do"
	DefaultResearchDesc    = "My research focuses on the intersection of control theory and machine learning, specifically for manipulation tasks in unstructured environments."
	DefaultFeaturedKind    = content.KindProject
	DefaultRecentMode      = content.RecentAuto
)

// ApplyDefaults fills every optional section. The input is not modified;
// config sections of the result are freshly allocated.
func ApplyDefaults(s content.Site) content.Site {
	out := s
	out.Hero = heroDefaults(s.Hero)
	out.Homepage = homepageDefaults(s.Homepage, s)
	if s.ResearchPage == nil {
		out.ResearchPage = &content.ResearchPageConfig{Description: DefaultResearchDesc}
	} else {
		rp := *s.ResearchPage
		out.ResearchPage = &rp
	}
	return out
}

func heroDefaults(h *content.Hero) *content.Hero {
	if h == nil {
		return &content.Hero{
			Headline:           DefaultHeadline,
			Subheadline:        DefaultSubheadline,
			HeadlineFontEng:    DefaultHeadlineFont,
			HeadlineFontCn:     DefaultCJKFont,
			HeadlineSize:       DefaultHeadlineSize,
			SubheadlineFontEng: DefaultHeadlineFont,
			SubheadlineFontCn:  DefaultCJKFont,
			SubheadlineSize:    DefaultSubheadlineSize,
		}
	}
	out := *h
	out.HeadlineFontEng = orDefault(out.HeadlineFontEng, DefaultHeadlineFont)
	out.HeadlineFontCn = orDefault(out.HeadlineFontCn, DefaultCJKFont)
	out.HeadlineSize = orDefault(out.HeadlineSize, DefaultHeadlineSize)
	out.SubheadlineFontEng = orDefault(out.SubheadlineFontEng, DefaultHeadlineFont)
	out.SubheadlineFontCn = orDefault(out.SubheadlineFontCn, DefaultCJKFont)
	out.SubheadlineSize = orDefault(out.SubheadlineSize, DefaultSubheadlineSize)
	return &out
}

func homepageDefaults(hp *content.HomepageConfig, s content.Site) *content.HomepageConfig {
	featured := content.FeaturedEntry{Type: DefaultFeaturedKind}
	if len(s.Projects) > 0 {
		featured.ID = s.Projects[0].ID
	}

	if hp == nil {
		return &content.HomepageConfig{
			TabTitle:            strings.TrimSpace(s.Profile.Name),
			ProjectsDescription: DefaultProjectsDesc,
			RecentMode:          DefaultRecentMode,
			RecentAutoLimit:     DefaultRecentLimit,
			FeaturedEntry:       featured,
		}
	}

	out := *hp
	out.RecentManualEntries = append([]content.ManualEntry(nil), hp.RecentManualEntries...)
	out.TabTitle = orDefault(out.TabTitle, strings.TrimSpace(s.Profile.Name))
	out.ProjectsDescription = orDefault(out.ProjectsDescription, DefaultProjectsDesc)
	if out.RecentMode == "" {
		out.RecentMode = DefaultRecentMode
	}
	if out.RecentAutoLimit == 0 {
		out.RecentAutoLimit = DefaultRecentLimit
	}

	// 整个 featuredEntry 没写就用默认；写了就逐字段合并，id 不补
	fe := hp.FeaturedEntry
	if fe == (content.FeaturedEntry{}) {
		out.FeaturedEntry = featured
	} else if fe.Type == "" {
		out.FeaturedEntry.Type = DefaultFeaturedKind
	}
	return &out
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
