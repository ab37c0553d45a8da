package ingest

import (
	"fmt"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"github.com/google/uuid"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// NewPost describes a garden note to add. Empty fields are filled from the
// body's front matter when it has one.
type NewPost struct {
	Title         string
	Date          string
	Excerpt       string
	Tags          []string
	PDFAttachment string
	Body          []byte
}

type Created struct {
	Post content.BlogPost
	// File is where the markdown was written
	File string
}

// CreatePost writes the note under <contentDir>/posts/ and prepends a new
// entry to the data file. The data file is re-read from disk and decoded
// into content.Site, so keys the site does not model are dropped on rewrite.
// A failed rewrite removes the markdown file again.
func CreatePost(dataFile, contentDir string, np NewPost, now time.Time) (Created, error) {
	fm, body, err := ParseFrontMatter(np.Body)
	if err != nil && err != ErrNoFrontMatter {
		return Created{}, fmt.Errorf("ingest: post front matter: %w", err)
	}
	if err == ErrNoFrontMatter {
		body = np.Body
	}
	np.Title = firstNonEmpty(np.Title, fm.Title)
	np.Date = firstNonEmpty(np.Date, fm.Date, now.Format(time.DateOnly))
	np.Excerpt = firstNonEmpty(np.Excerpt, fm.Excerpt)
	np.PDFAttachment = firstNonEmpty(np.PDFAttachment, fm.PDFAttachment)
	if len(np.Tags) == 0 {
		np.Tags = fm.Tags
	}

	var ve domainerr.ValidationError
	if strings.TrimSpace(np.Title) == "" {
		ve.Add("title", "is required")
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		ve.Add("body", "is required")
	}
	if err := ve.Err(); err != nil {
		return Created{}, err
	}

	format, err := FormatOf(dataFile)
	if err != nil {
		return Created{}, err
	}
	data, err := os.ReadFile(dataFile)
	if err != nil {
		return Created{}, fmt.Errorf("ingest: read %s: %w", dataFile, err)
	}
	raw, err := Decode(data, format)
	if err != nil {
		return Created{}, fmt.Errorf("ingest: %s: %w", dataFile, err)
	}

	postsDir := filepath.Join(contentDir, "posts")
	if err := os.MkdirAll(postsDir, 0o755); err != nil {
		return Created{}, fmt.Errorf("ingest: mkdir posts: %w", err)
	}
	name := PostFileName(postsDir, np.Title, now)
	file := filepath.Join(postsDir, name)
	if err := os.WriteFile(file, append(body, '\n'), 0o644); err != nil {
		return Created{}, fmt.Errorf("ingest: write post: %w", err)
	}

	post := content.BlogPost{
		ID:            newPostID(raw),
		Title:         strings.TrimSpace(np.Title),
		Date:          strings.TrimSpace(np.Date),
		Excerpt:       strings.TrimSpace(np.Excerpt),
		Content:       content.Ref(path.Join("posts", name)),
		Tags:          normalizeTags(np.Tags),
		PDFAttachment: strings.TrimSpace(np.PDFAttachment),
	}
	raw.Posts = append([]content.BlogPost{post}, raw.Posts...)

	out, err := Encode(raw, format)
	if err != nil {
		_ = os.Remove(file)
		return Created{}, fmt.Errorf("ingest: encode %s: %w", dataFile, err)
	}
	if err := writeAtomic(dataFile, out); err != nil {
		_ = os.Remove(file)
		return Created{}, fmt.Errorf("ingest: write %s: %w", dataFile, err)
	}
	return Created{Post: post, File: file}, nil
}

// PostFileName is the slugified title with ".md", or with a timestamp
// suffix when that name is already taken in dir.
func PostFileName(dir, title string, now time.Time) string {
	slug := Slugify(title)
	if slug == "" {
		slug = "post"
	}
	name := slug + ".md"
	if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
		name = fmt.Sprintf("%s-%s.md", slug, now.Format("20060102-150405"))
	}
	return name
}

// newPostID 取 uuid 的前 8 位，和已有 id 冲突就重取
func newPostID(s content.Site) string {
	for {
		id := strings.SplitN(uuid.NewString(), "-", 2)[0]
		if _, ok := s.Post(id); !ok {
			return id
		}
	}
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := map[string]struct{}{}
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
