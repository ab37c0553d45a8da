package aggregate

import (
	"testing"
	"time"

	"folio/internal/domain/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixture() *content.Site {
	return &content.Site{
		Papers: []content.Paper{
			{ID: "p1", Title: "GKP", Description: "paper one", Year: 2025},
			{ID: "p2", Title: "QFI", Description: "paper two", Year: 2024},
		},
		Projects: []content.Project{
			{ID: "pr1", Title: "Solar", ImageURL: "/img/solar.png"},
			{ID: "pr2", Title: "Dining"},
		},
		Posts: []content.BlogPost{
			{ID: "b1", Title: "Brachistochrone", Date: "Apr 15, 2025", Excerpt: "fea"},
			{ID: "b2", Title: "Crosstalk", Date: "Aug 20, 2025"},
			{ID: "b3", Title: "Undated", Date: "someday"},
		},
	}
}

func keys(cards []Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Key())
	}
	return out
}

func TestBuildCards_OrderAndProjection(t *testing.T) {
	cards := BuildCards(fixture())
	assert.Equal(t, []string{"paper-p1", "paper-p2", "project-pr1", "project-pr2", "blog-b1", "blog-b2", "blog-b3"}, keys(cards))

	p1 := cards[0]
	assert.Equal(t, int64(2025000), p1.SortValue)
	assert.Equal(t, "2025", p1.DateLabel)
	assert.Equal(t, "/research", p1.Link)
	assert.Equal(t, "Read Paper", p1.CTALabel)

	assert.Equal(t, int64(0), cards[2].SortValue)
	assert.Equal(t, int64(-1), cards[3].SortValue)
	assert.Equal(t, "Project", cards[2].DateLabel)
	assert.Equal(t, "/img/solar.png", cards[2].ImageURL)
	assert.Equal(t, "View Project", cards[2].CTALabel)

	b1 := cards[4]
	assert.Equal(t, time.Date(2025, 4, 15, 0, 0, 0, 0, time.UTC).UnixMilli(), b1.SortValue)
	assert.Equal(t, "Apr 15, 2025", b1.DateLabel)
	assert.Equal(t, "fea", b1.Description)
	assert.Equal(t, "/garden", b1.Link)
	assert.Equal(t, "Read Note", b1.CTALabel)
	assert.Equal(t, int64(0), cards[6].SortValue)
}

func TestFindCard(t *testing.T) {
	cards := BuildCards(fixture())

	c, ok := FindCard(cards, content.KindPaper, "p1")
	require.True(t, ok)
	assert.Equal(t, "GKP", c.Title)

	_, ok = FindCard(cards, content.KindProject, "p1")
	assert.False(t, ok, "type must match too")
	_, ok = FindCard(cards, content.KindPaper, "p9")
	assert.False(t, ok)
	_, ok = FindCard(cards, "", "p1")
	assert.False(t, ok)
	_, ok = FindCard(cards, content.KindPaper, "")
	assert.False(t, ok)
}

func TestResolveRecent_Auto(t *testing.T) {
	cards := BuildCards(fixture())

	recent := ResolveRecent(content.HomepageConfig{RecentMode: content.RecentAuto, RecentAutoLimit: 3}, cards)
	// blog dates are epoch millis and dominate year*1000
	assert.Equal(t, []string{"blog-b2", "blog-b1", "paper-p1"}, keys(recent))

	all := ResolveRecent(content.HomepageConfig{RecentAutoLimit: 100}, cards)
	assert.Len(t, all, len(cards))
	for i := 1; i < len(all); i++ {
		assert.GreaterOrEqual(t, all[i-1].SortValue, all[i].SortValue)
	}
	// equal sort values keep build order: pr1 (0) before b3 (0)
	assert.Equal(t, []string{"blog-b2", "blog-b1", "paper-p1", "paper-p2", "project-pr1", "blog-b3", "project-pr2"}, keys(all))
}

func TestResolveRecent_Limits(t *testing.T) {
	cards := BuildCards(fixture())
	assert.Len(t, ResolveRecent(content.HomepageConfig{RecentAutoLimit: 0}, cards), 3)
	assert.Len(t, ResolveRecent(content.HomepageConfig{RecentAutoLimit: -5}, cards), 1)
	assert.Len(t, ResolveRecent(content.HomepageConfig{RecentAutoLimit: 1}, cards), 1)
	assert.Empty(t, ResolveRecent(content.HomepageConfig{RecentAutoLimit: 3}, nil))
}

func TestResolveRecent_ManualWins(t *testing.T) {
	cards := BuildCards(fixture())
	cfg := content.HomepageConfig{
		RecentMode:      content.RecentAuto,
		RecentAutoLimit: 1,
		RecentManualEntries: []content.ManualEntry{
			{Title: "Grant", DateLabel: "11-2025", Description: "awarded"},
			{Title: "Talk", Link: "/garden", CTALabel: "Watch", ImageURL: "/t.png"},
		},
	}
	recent := ResolveRecent(cfg, cards)
	require.Len(t, recent, 2)
	assert.Equal(t, []string{"manual-manual-0", "manual-manual-1"}, keys(recent))
	assert.Equal(t, content.KindManual, recent[0].Type)
	assert.Equal(t, "Grant", recent[0].Title)
	assert.Equal(t, "11-2025", recent[0].DateLabel)
	assert.Equal(t, "Watch", recent[1].CTALabel)
	assert.Equal(t, int64(0), recent[1].SortValue)
}

func TestResolveFeatured_Explicit(t *testing.T) {
	cards := BuildCards(fixture())
	cfg := content.HomepageConfig{FeaturedEntry: content.FeaturedEntry{Type: content.KindPaper, ID: "p1"}}
	f := ResolveFeatured(cfg, cards, ResolveRecent(cfg, cards))
	assert.Equal(t, FeaturedExplicit, f.Source)
	assert.Equal(t, "paper-p1", f.Card.Key())
	assert.Equal(t, "", f.Image)
}

func TestResolveFeatured_FallsBackToRecent(t *testing.T) {
	cards := BuildCards(fixture())
	cfg := content.HomepageConfig{
		FeaturedEntry:       content.FeaturedEntry{Type: content.KindPaper, ID: "missing"},
		RecentManualEntries: []content.ManualEntry{{Title: "Grant", ImageURL: "/grant.png"}},
	}
	recent := ResolveRecent(cfg, cards)
	f := ResolveFeatured(cfg, cards, recent)
	assert.Equal(t, FeaturedRecent, f.Source)
	assert.Equal(t, "manual-manual-0", f.Card.Key())
	assert.Equal(t, "/grant.png", f.Image)
}

func TestResolveFeatured_FallsBackToAutomatic(t *testing.T) {
	cards := BuildCards(fixture())
	cfg := content.HomepageConfig{RecentAutoLimit: 2}
	f := ResolveFeatured(cfg, cards, nil)
	assert.Equal(t, FeaturedAutomatic, f.Source)
	assert.Equal(t, "blog-b2", f.Card.Key())
}

func TestResolveFeatured_None(t *testing.T) {
	f := ResolveFeatured(content.HomepageConfig{FeaturedEntry: content.FeaturedEntry{Type: content.KindProject, ID: "pr1"}}, nil, nil)
	assert.True(t, f.Empty())
	assert.Equal(t, FeaturedNone, f.Source)
}

func TestResolveFeatured_ImageOverride(t *testing.T) {
	cards := BuildCards(fixture())
	cfg := content.HomepageConfig{FeaturedEntry: content.FeaturedEntry{Type: content.KindProject, ID: "pr1"}}

	f := ResolveFeatured(cfg, cards, nil)
	assert.Equal(t, "/img/solar.png", f.Image)

	cfg.FeaturedEntry.ImageOverride = "  /img/override.jpg "
	f = ResolveFeatured(cfg, cards, nil)
	assert.Equal(t, "/img/override.jpg", f.Image)
}

func TestResolve_Snapshot(t *testing.T) {
	s := fixture()
	s.Homepage = &content.HomepageConfig{RecentAutoLimit: 2, FeaturedEntry: content.FeaturedEntry{Type: content.KindBlog, ID: "b1"}}
	hp := Resolve(s)
	assert.Len(t, hp.Cards, 7)
	assert.Equal(t, []string{"blog-b2", "blog-b1"}, keys(hp.Recent))
	assert.Equal(t, "blog-b1", hp.Featured.Card.Key())

	// no homepage section at all still resolves
	s.Homepage = nil
	hp = Resolve(s)
	assert.Len(t, hp.Recent, 3)
	assert.Equal(t, FeaturedRecent, hp.Featured.Source)
}
