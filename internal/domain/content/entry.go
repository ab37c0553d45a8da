package content

type Paper struct {
	ID            string   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	Authors       []string `yaml:"authors" json:"authors"`
	Venue         string   `yaml:"venue" json:"venue"`
	Year          int      `yaml:"year" json:"year"`
	Description   string   `yaml:"description" json:"description"`
	PDFLink       string   `yaml:"pdfLink,omitempty" json:"pdfLink,omitempty"`
	CodeLink      string   `yaml:"codeLink,omitempty" json:"codeLink,omitempty"`
	IncludeBibtex bool     `yaml:"includeBibtex,omitempty" json:"includeBibtex,omitempty"`
	Bibtex        string   `yaml:"bibtex,omitempty" json:"bibtex,omitempty"`
	Tags          []string `yaml:"tags" json:"tags"`
	Content       Ref      `yaml:"content,omitempty" json:"content,omitempty"`
}

type Project struct {
	ID          string   `yaml:"id" json:"id"`
	Title       string   `yaml:"title" json:"title"`
	Description string   `yaml:"description" json:"description"`
	ImageURL    string   `yaml:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	TechStack   []string `yaml:"techStack" json:"techStack"`
	Link        string   `yaml:"link,omitempty" json:"link,omitempty"`
	GitHub      string   `yaml:"github,omitempty" json:"github,omitempty"`
	Content     Ref      `yaml:"content,omitempty" json:"content,omitempty"`
}

type BlogPost struct {
	ID            string   `yaml:"id" json:"id"`
	Title         string   `yaml:"title" json:"title"`
	Date          string   `yaml:"date" json:"date"`
	Excerpt       string   `yaml:"excerpt" json:"excerpt"`
	Content       Ref      `yaml:"content" json:"content"`
	Tags          []string `yaml:"tags" json:"tags"`
	PDFAttachment string   `yaml:"pdfAttachment,omitempty" json:"pdfAttachment,omitempty"`
}

// Item is what the list/detail pages need from an entry.
type Item interface {
	ItemID() string
	ItemTitle() string
	ContentRef() Ref
}

func (p Paper) ItemID() string    { return p.ID }
func (p Paper) ItemTitle() string { return p.Title }
func (p Paper) ContentRef() Ref   { return p.Content }

func (p Project) ItemID() string    { return p.ID }
func (p Project) ItemTitle() string { return p.Title }
func (p Project) ContentRef() Ref   { return p.Content }

func (p BlogPost) ItemID() string    { return p.ID }
func (p BlogPost) ItemTitle() string { return p.Title }
func (p BlogPost) ContentRef() Ref   { return p.Content }
