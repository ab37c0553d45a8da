package content

// Site is the whole content document: everything the pages show comes from
// here. It is decoded once from the data file and then only read.
type Site struct {
	Profile      Profile             `yaml:"profile" json:"profile"`
	Navigation   []NavLink           `yaml:"navigation" json:"navigation"`
	Papers       []Paper             `yaml:"research_papers" json:"research_papers"`
	Projects     []Project           `yaml:"projects" json:"projects"`
	Posts        []BlogPost          `yaml:"blog_posts" json:"blog_posts"`
	Hero         *Hero               `yaml:"hero,omitempty" json:"hero,omitempty"`
	Homepage     *HomepageConfig     `yaml:"homepage,omitempty" json:"homepage,omitempty"`
	ResearchPage *ResearchPageConfig `yaml:"researchPage,omitempty" json:"researchPage,omitempty"`
	Tags         []string            `yaml:"tags,omitempty" json:"tags,omitempty"`
}

type Profile struct {
	Name        string  `yaml:"name" json:"name"`
	Role        string  `yaml:"role" json:"role"`
	Affiliation string  `yaml:"affiliation" json:"affiliation"`
	Bio         string  `yaml:"bio" json:"bio"`
	ShowBio     bool    `yaml:"showBio,omitempty" json:"showBio,omitempty"`
	Email       string  `yaml:"email" json:"email"`
	Socials     Socials `yaml:"socials" json:"socials"`
}

type Socials struct {
	GitHub   string `yaml:"github,omitempty" json:"github,omitempty"`
	Twitter  string `yaml:"twitter,omitempty" json:"twitter,omitempty"`
	Scholar  string `yaml:"scholar,omitempty" json:"scholar,omitempty"`
	LinkedIn string `yaml:"linkedin,omitempty" json:"linkedin,omitempty"`
}

type NavLink struct {
	Name       string `yaml:"name" json:"name"`
	Path       string `yaml:"path" json:"path"`
	IsExternal bool   `yaml:"isExternal,omitempty" json:"isExternal,omitempty"`
}

type Hero struct {
	Headline           string `yaml:"headline" json:"headline"`
	Subheadline        string `yaml:"subheadline" json:"subheadline"`
	HeadlineFontEng    string `yaml:"headlineFontEng,omitempty" json:"headlineFontEng,omitempty"`
	HeadlineFontCn     string `yaml:"headlineFontCn,omitempty" json:"headlineFontCn,omitempty"`
	HeadlineSize       string `yaml:"headlineSize,omitempty" json:"headlineSize,omitempty"`
	SubheadlineFontEng string `yaml:"subheadlineFontEng,omitempty" json:"subheadlineFontEng,omitempty"`
	SubheadlineFontCn  string `yaml:"subheadlineFontCn,omitempty" json:"subheadlineFontCn,omitempty"`
	SubheadlineSize    string `yaml:"subheadlineSize,omitempty" json:"subheadlineSize,omitempty"`
}

type RecentMode string

const (
	RecentAuto   RecentMode = "auto"
	RecentManual RecentMode = "manual"
)

type HomepageConfig struct {
	TabTitle            string        `yaml:"tabTitle" json:"tabTitle"`
	ProjectsDescription string        `yaml:"projectsDescription,omitempty" json:"projectsDescription,omitempty"`
	RecentMode          RecentMode    `yaml:"recentMode" json:"recentMode"`
	RecentAutoLimit     int           `yaml:"recentAutoLimit" json:"recentAutoLimit"`
	RecentManualEntries []ManualEntry `yaml:"recentManualEntries" json:"recentManualEntries"`
	FeaturedEntry       FeaturedEntry `yaml:"featuredEntry" json:"featuredEntry"`
}

// ManualEntry is an author-curated line in the homepage "recent" panel.
type ManualEntry struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	DateLabel   string `yaml:"dateLabel,omitempty" json:"dateLabel,omitempty"`
	Link        string `yaml:"link" json:"link"`
	CTALabel    string `yaml:"ctaLabel" json:"ctaLabel"`
	ImageURL    string `yaml:"imageUrl,omitempty" json:"imageUrl,omitempty"`
}

type FeaturedEntry struct {
	Type          Kind   `yaml:"type" json:"type"`
	ID            string `yaml:"id" json:"id"`
	ImageOverride string `yaml:"imageOverride,omitempty" json:"imageOverride,omitempty"`
}

type ResearchPageConfig struct {
	Description string `yaml:"description" json:"description"`
}

// Kind discriminates the content collections a homepage card can come from.
type Kind string

const (
	KindPaper   Kind = "paper"
	KindProject Kind = "project"
	KindBlog    Kind = "blog"
	KindManual  Kind = "manual"
)

func (k Kind) Valid() bool {
	switch k {
	case KindPaper, KindProject, KindBlog, KindManual:
		return true
	}
	return false
}

func (s *Site) Paper(id string) (Paper, bool) {
	for _, p := range s.Papers {
		if p.ID == id {
			return p, true
		}
	}
	return Paper{}, false
}

func (s *Site) Project(id string) (Project, bool) {
	for _, p := range s.Projects {
		if p.ID == id {
			return p, true
		}
	}
	return Project{}, false
}

func (s *Site) Post(id string) (BlogPost, bool) {
	for _, p := range s.Posts {
		if p.ID == id {
			return p, true
		}
	}
	return BlogPost{}, false
}
