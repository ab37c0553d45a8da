package page

import (
	"folio/internal/domain/content"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"strings"
	"sync"
)

type Identity struct {
	Name        string
	NameWords   []string
	Role        string
	Affiliation string
	Bio         string
}

type NavItem struct {
	Name     string
	Path     string
	External bool
	Active   bool
}

type Social struct {
	Key string
	URL string
}

// ShellView is one frame of the sidebar.
type ShellView struct {
	Identity Identity
	Nav      []NavItem
	Socials  []Social
	MailTo   string
	MenuOpen bool
	Path     string
}

// Shell is the navigation sidebar: identity, links and the collapsible
// mobile menu.
type Shell struct {
	site *content.Site

	mu   sync.Mutex
	path string
	open bool
}

func NewShell(site *content.Site, path string) *Shell {
	return &Shell{site: site, path: path}
}

// Toggle flips the mobile menu and reports whether it is now open.
func (s *Shell) Toggle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open = !s.open
	return s.open
}

// Navigate moves to an in-app path, collapsing the menu when the path
// changes. External targets open elsewhere and leave the shell alone. The
// result reports whether the scroll position resets.
func (s *Shell) Navigate(path string) (scrollReset bool) {
	if external(path) {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if path != s.path {
		s.open = false
	}
	s.path = path
	return true
}

func external(path string) bool {
	return strings.Contains(path, "://") || strings.HasPrefix(path, "mailto:")
}

func (s *Shell) View() ShellView {
	s.mu.Lock()
	path, open := s.path, s.open
	s.mu.Unlock()

	p := s.site.Profile
	id := Identity{
		Name:        p.Name,
		NameWords:   upperWords(p.Name),
		Role:        p.Role,
		Affiliation: p.Affiliation,
	}
	if p.ShowBio {
		id.Bio = p.Bio
	}

	nav := make([]NavItem, 0, len(s.site.Navigation))
	for _, l := range s.site.Navigation {
		nav = append(nav, NavItem{
			Name:     l.Name,
			Path:     l.Path,
			External: l.IsExternal,
			Active:   !l.IsExternal && l.Path == path,
		})
	}

	var mailto string
	if p.Email != "" {
		mailto = "mailto:" + p.Email
	}
	return ShellView{
		Identity: id,
		Nav:      nav,
		Socials:  socials(p.Socials),
		MailTo:   mailto,
		MenuOpen: open,
		Path:     path,
	}
}

func upperWords(name string) []string {
	// Caser 有状态, 不可跨 goroutine 共享
	upper := cases.Upper(language.Und)
	words := strings.Fields(name)
	for i, w := range words {
		words[i] = upper.String(w)
	}
	return words
}

// socials keeps a fixed order and drops unset entries.
func socials(s content.Socials) []Social {
	all := []Social{
		{Key: "github", URL: s.GitHub},
		{Key: "twitter", URL: s.Twitter},
		{Key: "scholar", URL: s.Scholar},
		{Key: "linkedin", URL: s.LinkedIn},
	}
	out := all[:0]
	for _, x := range all {
		if x.URL != "" {
			out = append(out, x)
		}
	}
	return out
}
