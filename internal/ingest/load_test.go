package ingest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJSON = `{
  "profile": {"name": "Ada Lovelace", "role": "Researcher", "email": "ada@example.org",
    "socials": {"github": "https://github.com/ada", "twitter": ""}},
  "navigation": [{"name": "HOME", "path": "/"}, {"name": "CV", "path": "/uploads/cv.pdf", "isExternal": true}],
  "research_papers": [
    {"id": "p1", "title": "Engines", "authors": ["Ada", "Charles"], "venue": "Notes", "year": 1843,
     "description": "d", "tags": ["Math"], "pdfLink": "#", "codeLink": "#", "content": ""},
    {"id": "p1", "title": "Duplicate", "authors": [], "venue": "", "year": 1844, "description": "", "tags": []}
  ],
  "projects": [
    {"id": "pr1", "title": "Loom", "description": "", "techStack": ["Math"], "github": "#", "content": "posts/loom.md"}
  ],
  "blog_posts": [
    {"id": "b1", "title": "Note", "date": "Apr 15, 2025", "excerpt": "e", "content": "Inline text", "tags": ["Math"], "pdfAttachment": "#"}
  ]
}`

func TestParse_JSONDefaultsAndNormalize(t *testing.T) {
	res, err := Parse([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)
	s := res.Site

	// duplicate id dropped with a warning
	require.Len(t, s.Papers, 1)
	assert.Equal(t, "Engines", s.Papers[0].Title)
	assert.Contains(t, warningMsgs(res.Warnings), "duplicate id, skipped: p1")

	// sentinels normalized once
	assert.Equal(t, "", s.Papers[0].PDFLink)
	assert.Equal(t, "", s.Papers[0].CodeLink)
	assert.Equal(t, "", s.Projects[0].GitHub)
	assert.Equal(t, "", s.Posts[0].PDFAttachment)

	// defaults
	require.NotNil(t, s.Hero)
	assert.Equal(t, DefaultHeadline, s.Hero.Headline)
	require.NotNil(t, s.Homepage)
	assert.Equal(t, "Ada Lovelace", s.Homepage.TabTitle)
	assert.Equal(t, content.RecentAuto, s.Homepage.RecentMode)
	assert.Equal(t, DefaultRecentLimit, s.Homepage.RecentAutoLimit)
	assert.Equal(t, content.FeaturedEntry{Type: content.KindProject, ID: "pr1"}, s.Homepage.FeaturedEntry)
	require.NotNil(t, s.ResearchPage)
	assert.Equal(t, DefaultResearchDesc, s.ResearchPage.Description)

	// raw keeps what was written
	assert.Len(t, res.Raw.Papers, 2)
	assert.Nil(t, res.Raw.Homepage)
	assert.Equal(t, "#", res.Raw.Papers[0].PDFLink)
	assert.NotEmpty(t, res.Hash)
}

func TestParse_YAML(t *testing.T) {
	doc := `
profile:
  name: Ada
research_papers:
  - id: p1
    title: Engines
    year: 1843
homepage:
  tabTitle: ""
  recentAutoLimit: -2
  featuredEntry:
    id: p1
  recentManualEntries:
    - title: Grant
      description: awarded
      link: "#"
hero:
  headline: Hello
`
	res, err := Parse([]byte(doc), FormatYAML)
	require.NoError(t, err)
	hp := res.Site.Homepage
	assert.Equal(t, "Ada", hp.TabTitle)
	assert.Equal(t, -2, hp.RecentAutoLimit)
	// present featured entry merges per field: type defaulted, id kept
	assert.Equal(t, content.FeaturedEntry{Type: content.KindProject, ID: "p1"}, hp.FeaturedEntry)
	assert.Equal(t, "", hp.RecentManualEntries[0].Link)

	assert.Equal(t, "Hello", res.Site.Hero.Headline)
	assert.Equal(t, "", res.Site.Hero.Subheadline)
	assert.Equal(t, DefaultHeadlineSize, res.Site.Hero.HeadlineSize)
	assert.Equal(t, DefaultCJKFont, res.Site.Hero.SubheadlineFontCn)

	msgs := warningMsgs(res.Warnings)
	assert.Contains(t, msgs, "negative limit, showing one entry")
	assert.Contains(t, msgs, `no project with id "p1", falling back to the recent list`)
}

func TestParse_Validation(t *testing.T) {
	doc := `{"profile": {"name": " "}, "homepage": {"recentMode": "random", "featuredEntry": {"type": "video", "id": "x"}}}`
	_, err := Parse([]byte(doc), FormatJSON)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	var ve domainerr.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Len(t, ve.Items, 3)
}

func TestLoad_FromDisk(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "data.json")
	require.NoError(t, os.WriteFile(p, []byte(sampleJSON), 0o644))

	res, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", res.Site.Profile.Name)

	_, err = Load(filepath.Join(dir, "data.toml"))
	assert.True(t, errors.Is(err, domainerr.ErrInvalid))

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestApplyDefaults_DoesNotAliasInput(t *testing.T) {
	in := content.Site{
		Profile:  content.Profile{Name: "Ada"},
		Homepage: &content.HomepageConfig{RecentManualEntries: []content.ManualEntry{{Title: "a"}}},
	}
	out := ApplyDefaults(in)
	out.Homepage.RecentManualEntries[0].Title = "changed"
	out.Homepage.TabTitle = "x"
	assert.Equal(t, "a", in.Homepage.RecentManualEntries[0].Title)
	assert.Equal(t, "", in.Homepage.TabTitle)
}

func warningMsgs(ws []Warning) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.Msg)
	}
	return out
}
