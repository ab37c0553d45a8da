// Package aggregate turns the three content collections into homepage
// cards and resolves the recent list and the featured entry from them.
package aggregate

import (
	"fmt"
	"folio/internal/domain/content"
	"folio/internal/ingest"
	"sort"
	"strconv"
	"strings"
)

// Card is the common projection of a paper, project, post or manual entry.
type Card struct {
	Type        content.Kind
	ID          string
	Title       string
	Description string
	DateLabel   string
	SortValue   int64
	ImageURL    string
	Link        string
	CTALabel    string
}

// Key is "type-id", unique across all cards of one site.
func (c Card) Key() string { return string(c.Type) + "-" + c.ID }

// BuildCards projects papers, then projects, then posts, in source order.
func BuildCards(s *content.Site) []Card {
	cards := make([]Card, 0, len(s.Papers)+len(s.Projects)+len(s.Posts))

	for _, p := range s.Papers {
		var label string
		if p.Year != 0 {
			label = strconv.Itoa(p.Year)
		}
		cards = append(cards, Card{
			Type:        content.KindPaper,
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			DateLabel:   label,
			SortValue:   int64(p.Year) * 1000,
			Link:        "/research",
			CTALabel:    "Read Paper",
		})
	}

	for i, p := range s.Projects {
		cards = append(cards, Card{
			Type:        content.KindProject,
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Description,
			DateLabel:   "Project",
			SortValue:   -int64(i),
			ImageURL:    p.ImageURL,
			Link:        "/projects",
			CTALabel:    "View Project",
		})
	}

	for _, p := range s.Posts {
		cards = append(cards, Card{
			Type:        content.KindBlog,
			ID:          p.ID,
			Title:       p.Title,
			Description: p.Excerpt,
			DateLabel:   p.Date,
			SortValue:   ingest.DateValue(p.Date),
			Link:        "/garden",
			CTALabel:    "Read Note",
		})
	}
	return cards
}

// FindCard is a linear scan on (type, id). Empty type or id never matches.
func FindCard(cards []Card, t content.Kind, id string) (Card, bool) {
	if t == "" || id == "" {
		return Card{}, false
	}
	for _, c := range cards {
		if c.Type == t && c.ID == id {
			return c, true
		}
	}
	return Card{}, false
}

// ManualCards converts author-curated entries, keeping their order.
func ManualCards(entries []content.ManualEntry) []Card {
	out := make([]Card, 0, len(entries))
	for i, e := range entries {
		out = append(out, Card{
			Type:        content.KindManual,
			ID:          fmt.Sprintf("manual-%d", i),
			Title:       e.Title,
			Description: e.Description,
			DateLabel:   e.DateLabel,
			ImageURL:    e.ImageURL,
			Link:        e.Link,
			CTALabel:    e.CTALabel,
		})
	}
	return out
}

// Limit maps the configured limit to the number of automatic entries:
// 0 means the default of 3, anything below 1 means 1.
func Limit(n int) int {
	if n == 0 {
		return ingest.DefaultRecentLimit
	}
	if n < 1 {
		return 1
	}
	return n
}

// AutoRecent is the top n cards by descending sort value. Equal values
// keep their build order.
func AutoRecent(cards []Card, n int) []Card {
	sorted := append([]Card(nil), cards...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SortValue > sorted[j].SortValue
	})
	n = Limit(n)
	if n > len(sorted) {
		n = len(sorted)
	}
	return sorted[:n]
}

// ResolveRecent: configured manual entries win outright, whatever the mode
// says; otherwise the automatic top-N list.
func ResolveRecent(cfg content.HomepageConfig, cards []Card) []Card {
	if len(cfg.RecentManualEntries) > 0 {
		return ManualCards(cfg.RecentManualEntries)
	}
	return AutoRecent(cards, cfg.RecentAutoLimit)
}

type FeaturedSource string

const (
	FeaturedExplicit  FeaturedSource = "explicit"
	FeaturedRecent    FeaturedSource = "recent"
	FeaturedAutomatic FeaturedSource = "automatic"
	FeaturedNone      FeaturedSource = "none"
)

type Featured struct {
	Card   Card
	Image  string
	Source FeaturedSource
}

func (f Featured) Empty() bool { return f.Source == FeaturedNone }

// ResolveFeatured walks the fallback chain: the configured (type, id), the
// first recent entry, the first automatic card, then nothing.
func ResolveFeatured(cfg content.HomepageConfig, cards, recent []Card) Featured {
	var f Featured
	if c, ok := FindCard(cards, cfg.FeaturedEntry.Type, strings.TrimSpace(cfg.FeaturedEntry.ID)); ok {
		f = Featured{Card: c, Source: FeaturedExplicit}
	} else if len(recent) > 0 {
		f = Featured{Card: recent[0], Source: FeaturedRecent}
	} else if auto := AutoRecent(cards, cfg.RecentAutoLimit); len(auto) > 0 {
		f = Featured{Card: auto[0], Source: FeaturedAutomatic}
	} else {
		return Featured{Source: FeaturedNone}
	}

	f.Image = strings.TrimSpace(cfg.FeaturedEntry.ImageOverride)
	if f.Image == "" {
		f.Image = f.Card.ImageURL
	}
	return f
}

// Homepage bundles both resolutions for one site snapshot.
type Homepage struct {
	Cards    []Card
	Recent   []Card
	Featured Featured
}

func Resolve(s *content.Site) Homepage {
	var cfg content.HomepageConfig
	if s.Homepage != nil {
		cfg = *s.Homepage
	}
	cards := BuildCards(s)
	recent := ResolveRecent(cfg, cards)
	return Homepage{
		Cards:    cards,
		Recent:   recent,
		Featured: ResolveFeatured(cfg, cards, recent),
	}
}
