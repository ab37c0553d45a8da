package ingest

import (
	"context"
	"fmt"
	"folio/internal/domain/content"
	"path"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Fetcher resolves a content reference to its text.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (string, error)
}

type RefTarget struct {
	// Path names the field, e.g. "projects[3].content"
	Path string
	Ref  string
}

type RefResult struct {
	RefTarget
	Err error
}

type CheckReport struct {
	Checked  int
	Failures []RefResult
}

func (r CheckReport) OK() bool { return len(r.Failures) == 0 }

// RefTargets lists every reference in the site that points at a file:
// remote content references and local PDF links.
func RefTargets(s *content.Site) []RefTarget {
	var out []RefTarget
	add := func(p, ref string) {
		out = append(out, RefTarget{Path: p, Ref: ref})
	}
	for i, p := range s.Papers {
		if p.Content.Remote() {
			add(fmt.Sprintf("research_papers[%d].content", i), p.Content.Path())
		}
		if isLocal(p.PDFLink) {
			add(fmt.Sprintf("research_papers[%d].pdfLink", i), p.PDFLink)
		}
	}
	for i, p := range s.Projects {
		if p.Content.Remote() {
			add(fmt.Sprintf("projects[%d].content", i), p.Content.Path())
		}
	}
	for i, p := range s.Posts {
		if p.Content.Remote() {
			add(fmt.Sprintf("blog_posts[%d].content", i), p.Content.Path())
		}
		if isLocal(p.PDFAttachment) {
			add(fmt.Sprintf("blog_posts[%d].pdfAttachment", i), p.PDFAttachment)
		}
	}
	return out
}

func isLocal(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" || strings.HasPrefix(link, "#") {
		return false
	}
	return !strings.Contains(link, "://") && !strings.HasPrefix(link, "mailto:")
}

// CheckRefs fetches every target with a fixed pool of workers. Results are
// reported in the order of RefTargets regardless of completion order.
func CheckRefs(ctx context.Context, s *content.Site, f Fetcher, workers int) CheckReport {
	targets := RefTargets(s)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	type job struct {
		idx int
		t   RefTarget
	}
	jobs := make(chan job)
	type result struct {
		idx int
		r   RefResult
	}
	results := make(chan result)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				_, err := f.Fetch(ctx, j.t.Ref)
				results <- result{idx: j.idx, r: RefResult{RefTarget: j.t, Err: err}}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, t := range targets {
			select {
			case jobs <- job{idx: i, t: t}:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	all := make([]RefResult, len(targets))
	done := make([]bool, len(targets))
	for r := range results {
		all[r.idx] = r.r
		done[r.idx] = true
	}

	report := CheckReport{}
	for i, r := range all {
		if !done[i] {
			// ctx 取消后没跑到的
			report.Failures = append(report.Failures, RefResult{RefTarget: targets[i], Err: ctx.Err()})
			continue
		}
		report.Checked++
		if r.Err != nil {
			report.Failures = append(report.Failures, r)
		}
	}
	return report
}

// Orphans lists markdown files under contentDir that no entry references.
func Orphans(s *content.Site, contentDir string) ([]string, error) {
	files, err := DiscoverMarkdown(contentDir)
	if err != nil {
		return nil, err
	}
	used := make(map[string]struct{})
	for _, t := range RefTargets(s) {
		used[path.Clean(strings.TrimPrefix(t.Ref, "/"))] = struct{}{}
	}
	var out []string
	for _, f := range files {
		if _, ok := used[path.Clean(f.Path)]; !ok {
			out = append(out, f.Path)
		}
	}
	sort.Strings(out)
	return out, nil
}
