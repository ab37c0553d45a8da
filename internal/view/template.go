// Package view executes the theme templates for each page and serves the
// theme's static assets. The default theme is embedded; a theme directory
// on disk with the same layout replaces it.
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strings"
)

//go:embed theme
var embedded embed.FS

type Renderer interface {
	RenderHome(ctx context.Context, page HomePage) ([]byte, error)
	RenderResearch(ctx context.Context, page ResearchPage) ([]byte, error)
	RenderProjects(ctx context.Context, page ProjectsPage) ([]byte, error)
	RenderGarden(ctx context.Context, page GardenPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}

var requiredTemplates = []string{
	"base.tmpl",
	"home.tmpl",
	"research.tmpl",
	"projects.tmpl",
	"garden.tmpl",
	"404.tmpl",
}

type TemplateRenderer struct {
	tpl    *template.Template
	static fs.FS
}

// ThemeFS is the embedded theme, or themeDir when it is set.
func ThemeFS(themeDir string) fs.FS {
	if themeDir != "" {
		return os.DirFS(themeDir)
	}
	sub, err := fs.Sub(embedded, "theme")
	if err != nil {
		panic(err)
	}
	return sub
}

func NewTemplateRenderer(theme fs.FS) (*TemplateRenderer, error) {
	if err := CheckThemeTemplates(theme); err != nil {
		return nil, err
	}
	tpl, err := template.New("").Funcs(templateFuncs()).ParseFS(theme, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("view: parse templates: %w", err)
	}
	static, err := fs.Sub(theme, "static")
	if err != nil {
		return nil, fmt.Errorf("view: static: %w", err)
	}
	return &TemplateRenderer{tpl: tpl, static: static}, nil
}

// Static is the theme's asset tree, served under /static/.
func (r *TemplateRenderer) Static() fs.FS { return r.static }

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"join": strings.Join,
		"tagList": func(tags []string) string {
			return strings.Join(tags, ", ")
		},
	}
}

func (r *TemplateRenderer) RenderHome(ctx context.Context, page HomePage) ([]byte, error) {
	return r.exec("home.tmpl", page)
}

func (r *TemplateRenderer) RenderResearch(ctx context.Context, page ResearchPage) ([]byte, error) {
	return r.exec("research.tmpl", page)
}

func (r *TemplateRenderer) RenderProjects(ctx context.Context, page ProjectsPage) ([]byte, error) {
	return r.exec("projects.tmpl", page)
}

func (r *TemplateRenderer) RenderGarden(ctx context.Context, page GardenPage) ([]byte, error) {
	return r.exec("garden.tmpl", page)
}

func (r *TemplateRenderer) RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error) {
	return r.exec("404.tmpl", page)
}

func (r *TemplateRenderer) exec(name string, data interface{}) ([]byte, error) {
	t := r.tpl.Lookup(name)
	if t == nil {
		return nil, fmt.Errorf("view: template %s not found", name)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("view: execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func CheckThemeTemplates(theme fs.FS) error {
	for _, name := range requiredTemplates {
		if _, err := fs.Stat(theme, "templates/"+name); err != nil {
			return fmt.Errorf("view: missing template: %s", name)
		}
	}
	if _, err := fs.Stat(theme, "static"); err != nil {
		return fmt.Errorf("view: missing static directory")
	}
	return nil
}
