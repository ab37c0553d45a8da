package page

import (
	"testing"

	"folio/internal/aggregate"
	"folio/internal/domain/content"
	"folio/internal/ingest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFontStack(t *testing.T) {
	assert.Equal(t, `Cinzel, "Noto Serif SC", serif`, FontStack("Cinzel", `"Noto Serif SC"`))
	assert.Equal(t, "Inter, serif", FontStack(" Inter ", "Inter"))
	assert.Equal(t, "Songti, serif", FontStack("", "Songti"))
	assert.Equal(t, "serif", FontStack("", " "))
}

func TestHome_Defaults(t *testing.T) {
	site := ingest.ApplyDefaults(content.Site{
		Profile:  content.Profile{Name: "Ada Lovelace"},
		Projects: []content.Project{{ID: "pr1", Title: "Engine", ImageURL: "/e.png"}},
	})
	v := Home(&site, aggregate.Resolve(&site))

	assert.Equal(t, "Ada Lovelace", v.Title)
	assert.Equal(t, ingest.DefaultHeadline, v.Hero.Headline)
	assert.Equal(t, `Cinzel, "Noto Serif SC", serif`, v.Hero.HeadlineFont)
	assert.Equal(t, ingest.DefaultHeadlineSize, v.Hero.HeadlineSize)
	assert.Equal(t, "Fun projects that I do", v.ProjectsDescription)
	require.Len(t, v.Recent, 1)
	assert.Equal(t, aggregate.FeaturedExplicit, v.Featured.Source)
	assert.Equal(t, "/e.png", v.Featured.Image)
}

func TestHome_ConfiguredValues(t *testing.T) {
	site := &content.Site{
		Profile: content.Profile{Name: "Ada"},
		Hero:    &content.Hero{Headline: "Hi", HeadlineFontEng: "Lora", HeadlineSize: "text-4xl"},
		Homepage: &content.HomepageConfig{
			TabTitle:            "Ada's Lab",
			ProjectsDescription: "Things I built",
		},
	}
	v := Home(site, aggregate.Resolve(site))
	assert.Equal(t, "Ada's Lab", v.Title)
	assert.Equal(t, "Lora, serif", v.Hero.HeadlineFont)
	assert.Equal(t, "text-4xl", v.Hero.HeadlineSize)
	assert.Equal(t, ingest.DefaultSubheadlineSize, v.Hero.SubheadlineSize)
	assert.Equal(t, "Things I built", v.ProjectsDescription)
	assert.Empty(t, v.Recent)
	assert.True(t, v.Featured.Empty())
}
