package render

import (
	"bytes"
	"fmt"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	"html/template"
	"regexp"
)

// Error wraps any failure (including a recovered panic) inside the
// markdown pipeline. Callers show a fixed notice instead of the document.
type Error struct {
	Err error
}

func (e *Error) Error() string { return "render: " + e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

// Document is one rendered, sanitised markdown text.
type Document struct {
	HTML template.HTML
}

// MarkdownRenderer holds no per-document state; every Render call parses
// and renders from scratch.
type MarkdownRenderer struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func New() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Linkify,
			extension.Strikethrough,
			extension.Table,
			Math,
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(
			html.WithUnsafe(),
			renderer.WithNodeRenderers(util.Prioritized(&nodeRenderer{}, 100)),
		),
	)
	return &MarkdownRenderer{md: md, policy: newPolicy()}
}

var (
	classPattern = regexp.MustCompile(`^[a-zA-Z0-9 _\-]+$`)
	idPattern    = regexp.MustCompile(`^[\p{L}\p{N}_\-]+$`)
	langPattern  = regexp.MustCompile(`^[a-zA-Z0-9_+#.\-]+$`)
)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(classPattern).OnElements(
		"h1", "h2", "h3", "h4", "h5", "h6", "p", "blockquote", "a",
		"pre", "code", "div", "span",
	)
	p.AllowAttrs("id").Matching(idPattern).OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.AllowAttrs("data-lang").Matching(langPattern).OnElements("div")
	// 外链新窗口打开
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

func (r *MarkdownRenderer) Render(src string) (doc Document, err error) {
	defer func() {
		if p := recover(); p != nil {
			doc, err = Document{}, &Error{Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	source := []byte(src)
	ctx := parser.NewContext()
	root := r.md.Parser().Parse(text.NewReader(source), parser.WithContext(ctx))

	var buf bytes.Buffer
	if err := r.md.Renderer().Render(&buf, source, root); err != nil {
		return Document{}, &Error{Err: err}
	}
	clean := r.policy.SanitizeBytes(buf.Bytes())
	return Document{HTML: template.HTML(clean)}, nil
}
