package content

import "strings"

// Sentinel is the placeholder authors put in optional link fields to mean
// "nothing here". It is treated exactly like an empty value.
const Sentinel = "#"

// Opt maps the sentinel and blank strings to "" and trims everything else.
func Opt(s string) string {
	s = strings.TrimSpace(s)
	if s == Sentinel {
		return ""
	}
	return s
}

// Normalize returns a copy of the site in which every optional field is
// either a usable value or "". Rendering code only ever checks for "".
func (s Site) Normalize() Site {
	out := s
	out.Profile = s.Profile.normalize()

	out.Navigation = make([]NavLink, 0, len(s.Navigation))
	for _, l := range s.Navigation {
		l.Name = strings.TrimSpace(l.Name)
		l.Path = strings.TrimSpace(l.Path)
		if l.Path == "" {
			continue
		}
		out.Navigation = append(out.Navigation, l)
	}

	out.Papers = make([]Paper, len(s.Papers))
	for i, p := range s.Papers {
		p.ID = strings.TrimSpace(p.ID)
		p.Title = strings.TrimSpace(p.Title)
		p.PDFLink = Opt(p.PDFLink)
		p.CodeLink = Opt(p.CodeLink)
		p.Bibtex = strings.TrimSpace(p.Bibtex)
		p.Content = Ref(Opt(string(p.Content)))
		p.Authors = trimStrings(p.Authors)
		p.Tags = normalizeStrings(p.Tags)
		out.Papers[i] = p
	}

	out.Projects = make([]Project, len(s.Projects))
	for i, p := range s.Projects {
		p.ID = strings.TrimSpace(p.ID)
		p.Title = strings.TrimSpace(p.Title)
		p.ImageURL = Opt(p.ImageURL)
		p.Link = Opt(p.Link)
		p.GitHub = Opt(p.GitHub)
		p.Content = Ref(Opt(string(p.Content)))
		p.TechStack = normalizeStrings(p.TechStack)
		out.Projects[i] = p
	}

	out.Posts = make([]BlogPost, len(s.Posts))
	for i, p := range s.Posts {
		p.ID = strings.TrimSpace(p.ID)
		p.Title = strings.TrimSpace(p.Title)
		p.Date = strings.TrimSpace(p.Date)
		p.PDFAttachment = Opt(p.PDFAttachment)
		p.Content = Ref(Opt(string(p.Content)))
		p.Tags = normalizeStrings(p.Tags)
		out.Posts[i] = p
	}

	if s.Homepage != nil {
		hp := *s.Homepage
		hp.RecentManualEntries = make([]ManualEntry, len(s.Homepage.RecentManualEntries))
		for i, e := range s.Homepage.RecentManualEntries {
			e.Link = Opt(e.Link)
			e.ImageURL = Opt(e.ImageURL)
			e.DateLabel = strings.TrimSpace(e.DateLabel)
			hp.RecentManualEntries[i] = e
		}
		hp.FeaturedEntry.ID = strings.TrimSpace(hp.FeaturedEntry.ID)
		hp.FeaturedEntry.ImageOverride = Opt(hp.FeaturedEntry.ImageOverride)
		out.Homepage = &hp
	}
	if s.Hero != nil {
		h := *s.Hero
		out.Hero = &h
	}
	if s.ResearchPage != nil {
		rp := *s.ResearchPage
		out.ResearchPage = &rp
	}
	out.Tags = normalizeStrings(s.Tags)
	return out
}

func (p Profile) normalize() Profile {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = Opt(p.Email)
	p.Socials = Socials{
		GitHub:   Opt(p.Socials.GitHub),
		Twitter:  Opt(p.Socials.Twitter),
		Scholar:  Opt(p.Socials.Scholar),
		LinkedIn: Opt(p.Socials.LinkedIn),
	}
	return p
}

// trimStrings trims and drops blanks; order and repeats are kept.
func trimStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// normalizeStrings trims, drops blanks and duplicates, and keeps order.
// Case is preserved: tags are display labels here.
func normalizeStrings(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
