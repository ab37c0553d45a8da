package content

import "strings"

// Ref is a content reference: either literal markdown or a path to fetch
// the markdown from. A path is recognised by a leading "/" or a ".md"
// suffix; anything else is inline text.
type Ref string

func (r Ref) String() string { return string(r) }

func (r Ref) Empty() bool { return strings.TrimSpace(string(r)) == "" }

func (r Ref) Remote() bool {
	s := strings.TrimSpace(string(r))
	if s == "" {
		return false
	}
	return strings.HasPrefix(s, "/") || strings.HasSuffix(s, ".md")
}

// Path returns the trimmed reference, meaningful when Remote is true.
func (r Ref) Path() string { return strings.TrimSpace(string(r)) }
