package ingest

import (
	"bytes"
	"errors"
	"gopkg.in/yaml.v3"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var ErrNoFrontMatter = errors.New("no front matter found")
var errInvalidFrontMatter = errors.New("invalid front matter")

// FrontMatter is the optional YAML header of a markdown note. The site does
// not need it; `post new` reads it to fill fields not given on the command line.
type FrontMatter struct {
	Title         string   `yaml:"title"`
	Date          string   `yaml:"date"`
	Excerpt       string   `yaml:"excerpt"`
	Tags          []string `yaml:"tags"`
	PDFAttachment string   `yaml:"pdf"`
}

func ParseFrontMatter(raw []byte) (FrontMatter, []byte, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return FrontMatter{}, raw, ErrNoFrontMatter
	}

	// 统一换行符
	norm := bytes.ReplaceAll(raw, []byte("\r\n"), []byte("\n"))
	norm = bytes.ReplaceAll(norm, []byte("\r"), []byte("\n"))

	const (
		sep      = "---"
		sepLine  = sep + "\n"
		closeMid = "\n" + sep + "\n"
	)

	if !bytes.HasPrefix(norm, []byte(sepLine)) {
		return FrontMatter{}, raw, ErrNoFrontMatter
	}

	// 去掉首行 "---\n"
	rest := norm[len(sepLine):]

	var yamlPart, bodyPart []byte

	// 优先走最常见的情况：中间有 "\n---\n"
	if parts := bytes.SplitN(rest, []byte(closeMid), 2); len(parts) == 2 {
		yamlPart = parts[0]
		bodyPart = parts[1]
	} else {
		// 可能是结尾是 "\n---" 且无正文
		if bytes.HasSuffix(rest, []byte("\n"+sep)) {
			yamlPart = rest[:len(rest)-len("\n"+sep)]
			bodyPart = nil
		} else if bytes.Equal(bytes.TrimSpace(rest), []byte(sep)) {
			// "---\n---"：空 front matter，无正文
			yamlPart = nil
			bodyPart = nil
		} else {
			return FrontMatter{}, raw, errInvalidFrontMatter
		}
	}

	yamlPart = bytes.TrimSpace(yamlPart)
	bodyPart = bytes.TrimSpace(bodyPart)

	var fm FrontMatter
	if len(yamlPart) > 0 {
		if err := yaml.Unmarshal(yamlPart, &fm); err != nil {
			return FrontMatter{}, raw, err
		}
	}
	return fm, bodyPart, nil
}

// StripFrontMatter returns the markdown body without a leading YAML header.
// Text that has no valid header is returned unchanged.
func StripFrontMatter(text string) string {
	_, body, err := ParseFrontMatter([]byte(text))
	if err != nil {
		return text
	}
	return string(body)
}

// ParseDate accepts the date spellings found in post entries. Dates without
// a zone are read as UTC so the sort order does not depend on the host.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range []string{
		"Jan 2, 2006",
		"January 2, 2006",
		"Jan 2 2006",
		"2 Jan 2006",
		time.DateOnly,
		"2006/01/02",
		"2006-01",
		time.RFC3339,
		time.DateTime,
		"2006-01-02 15:04",
	} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateValue is the epoch milliseconds of a post date, 0 when unparseable.
func DateValue(s string) int64 {
	t, ok := ParseDate(s)
	if !ok {
		return 0
	}
	return t.UnixMilli()
}

func Slugify(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	var out []rune
	lastDash := false

	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]

		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if r <= unicode.MaxASCII {
				if 'A' <= r && r <= 'Z' {
					r = r + ('a' - 'A')
				}
			}
			out = append(out, r)
			lastDash = false
		default:
			if !lastDash && len(out) > 0 {
				out = append(out, '-')
				lastDash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	return string(out)
}
