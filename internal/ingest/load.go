package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"folio/internal/domain/build"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"gopkg.in/yaml.v3"
	"os"
	"path/filepath"
	"strings"
)

type Warning struct {
	Path string
	Msg  string
}

func (w Warning) String() string { return w.Path + ": " + w.Msg }

// Result is one loaded data file. Raw is the document as written, Site is
// the defaulted and normalized snapshot every page reads from.
type Result struct {
	Raw      content.Site
	Site     *content.Site
	Warnings []Warning
	Hash     string
}

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("ingest: unsupported data file %q: %w", path, domainerr.ErrInvalid)
}

func Load(path string) (Result, error) {
	format, err := FormatOf(path)
	if err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	res, err := Parse(data, format)
	if err != nil {
		return Result{}, fmt.Errorf("ingest: %s: %w", path, err)
	}
	return res, nil
}

// Parse decodes, checks and normalizes one data document.
func Parse(data []byte, format Format) (Result, error) {
	raw, err := Decode(data, format)
	if err != nil {
		return Result{}, err
	}

	deduped, warns := dedupe(raw)
	if err := validate(deduped); err != nil {
		return Result{}, err
	}
	warns = append(warns, lint(deduped)...)

	site := ApplyDefaults(deduped).Normalize()
	return Result{
		Raw:      raw,
		Site:     &site,
		Warnings: warns,
		Hash:     build.HashBytes(data),
	}, nil
}

func Decode(data []byte, format Format) (content.Site, error) {
	var s content.Site
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&s); err != nil {
			return content.Site{}, fmt.Errorf("decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &s); err != nil {
			return content.Site{}, fmt.Errorf("decode yaml: %w", err)
		}
	default:
		return content.Site{}, fmt.Errorf("decode: unknown format %q", format)
	}
	return s, nil
}

func Encode(s content.Site, format Format) ([]byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
	case FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("encode: unknown format %q", format)
	}
	return buf.Bytes(), nil
}

// dedupe 同一集合里 id 重复时保留第一个，后面的跳过并告警
func dedupe(s content.Site) (content.Site, []Warning) {
	var warns []Warning

	papers := make([]content.Paper, 0, len(s.Papers))
	seen := map[string]struct{}{}
	for i, p := range s.Papers {
		id := strings.TrimSpace(p.ID)
		path := fmt.Sprintf("research_papers[%d]", i)
		if id == "" {
			warns = append(warns, Warning{Path: path, Msg: "empty id, entry cannot be featured or opened"})
		} else if _, ok := seen[id]; ok {
			warns = append(warns, Warning{Path: path, Msg: "duplicate id, skipped: " + id})
			continue
		}
		seen[id] = struct{}{}
		papers = append(papers, p)
	}

	projects := make([]content.Project, 0, len(s.Projects))
	seen = map[string]struct{}{}
	for i, p := range s.Projects {
		id := strings.TrimSpace(p.ID)
		path := fmt.Sprintf("projects[%d]", i)
		if id == "" {
			warns = append(warns, Warning{Path: path, Msg: "empty id, entry cannot be featured or opened"})
		} else if _, ok := seen[id]; ok {
			warns = append(warns, Warning{Path: path, Msg: "duplicate id, skipped: " + id})
			continue
		}
		seen[id] = struct{}{}
		projects = append(projects, p)
	}

	posts := make([]content.BlogPost, 0, len(s.Posts))
	seen = map[string]struct{}{}
	for i, p := range s.Posts {
		id := strings.TrimSpace(p.ID)
		path := fmt.Sprintf("blog_posts[%d]", i)
		if id == "" {
			warns = append(warns, Warning{Path: path, Msg: "empty id, entry cannot be featured or opened"})
		} else if _, ok := seen[id]; ok {
			warns = append(warns, Warning{Path: path, Msg: "duplicate id, skipped: " + id})
			continue
		}
		seen[id] = struct{}{}
		posts = append(posts, p)
	}

	s.Papers, s.Projects, s.Posts = papers, projects, posts
	return s, warns
}

func validate(s content.Site) error {
	var ve domainerr.ValidationError
	if strings.TrimSpace(s.Profile.Name) == "" {
		ve.Add("profile.name", "must not be empty")
	}
	for i, l := range s.Navigation {
		if strings.TrimSpace(l.Name) == "" {
			ve.Add(fmt.Sprintf("navigation[%d].name", i), "must not be empty")
		}
	}
	if hp := s.Homepage; hp != nil {
		switch hp.RecentMode {
		case "", content.RecentAuto, content.RecentManual:
		default:
			ve.Addf("homepage.recentMode", "must be %q or %q", content.RecentAuto, content.RecentManual)
		}
		if t := hp.FeaturedEntry.Type; t != "" && (!t.Valid() || t == content.KindManual) {
			ve.Addf("homepage.featuredEntry.type", "unknown type %q", t)
		}
	}
	return ve.Err()
}

// lint reports things that load fine but are probably mistakes.
func lint(s content.Site) []Warning {
	var warns []Warning
	for i, p := range s.Posts {
		path := fmt.Sprintf("blog_posts[%d]", i)
		if p.Content.Empty() {
			warns = append(warns, Warning{Path: path, Msg: "content is empty"})
		}
		if _, ok := ParseDate(p.Date); !ok {
			warns = append(warns, Warning{Path: path, Msg: fmt.Sprintf("unparseable date %q sorts last", p.Date)})
		}
	}
	for i, p := range s.Papers {
		if p.Year <= 0 {
			warns = append(warns, Warning{Path: fmt.Sprintf("research_papers[%d]", i), Msg: "year is not set"})
		}
	}
	if hp := s.Homepage; hp != nil {
		if hp.RecentMode == content.RecentManual && len(hp.RecentManualEntries) == 0 {
			warns = append(warns, Warning{Path: "homepage.recentMode", Msg: "manual mode without entries, using automatic list"})
		}
		if hp.RecentMode == content.RecentAuto && len(hp.RecentManualEntries) > 0 {
			warns = append(warns, Warning{Path: "homepage.recentManualEntries", Msg: "manual entries take precedence over auto mode"})
		}
		if fe := hp.FeaturedEntry; fe.ID != "" {
			kind := fe.Type
			if kind == "" {
				kind = DefaultFeaturedKind
			}
			if !hasEntry(s, kind, strings.TrimSpace(fe.ID)) {
				warns = append(warns, Warning{Path: "homepage.featuredEntry", Msg: fmt.Sprintf("no %s with id %q, falling back to the recent list", kind, fe.ID)})
			}
		}
		if hp.RecentAutoLimit < 0 {
			warns = append(warns, Warning{Path: "homepage.recentAutoLimit", Msg: "negative limit, showing one entry"})
		}
	}
	return warns
}

func hasEntry(s content.Site, k content.Kind, id string) bool {
	var ok bool
	switch k {
	case content.KindPaper:
		_, ok = s.Paper(id)
	case content.KindProject:
		_, ok = s.Project(id)
	case content.KindBlog:
		_, ok = s.Post(id)
	}
	return ok
}
