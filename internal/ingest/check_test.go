package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"folio/internal/domain/content"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mapFetcher struct {
	files map[string]string
	calls atomic.Int32
}

func (m *mapFetcher) Fetch(_ context.Context, ref string) (string, error) {
	m.calls.Add(1)
	if s, ok := m.files[ref]; ok {
		return s, nil
	}
	return "", errors.New("missing " + ref)
}

func checkSite() *content.Site {
	return &content.Site{
		Papers: []content.Paper{
			{ID: "p1", Content: "/papers/p1.md", PDFLink: "/uploads/p1.pdf"},
			{ID: "p2", Content: "inline words", PDFLink: "https://arxiv.org/x"},
		},
		Projects: []content.Project{{ID: "pr1", Content: "posts/missing.md"}},
		Posts: []content.BlogPost{
			{ID: "b1", Content: "posts/b1.md"},
			{ID: "b2", Content: "Content coming soon..."},
		},
	}
}

func TestRefTargets(t *testing.T) {
	targets := RefTargets(checkSite())
	refs := make([]string, 0, len(targets))
	for _, t := range targets {
		refs = append(refs, t.Ref)
	}
	assert.Equal(t, []string{"/papers/p1.md", "/uploads/p1.pdf", "posts/missing.md", "posts/b1.md"}, refs)
}

func TestCheckRefs_ReportsFailuresInOrder(t *testing.T) {
	f := &mapFetcher{files: map[string]string{
		"/papers/p1.md":   "# p1",
		"/uploads/p1.pdf": "%PDF",
		"posts/b1.md":     "b1",
	}}
	rep := CheckRefs(context.Background(), checkSite(), f, 3)
	assert.Equal(t, 4, rep.Checked)
	assert.Equal(t, int32(4), f.calls.Load())
	require.Len(t, rep.Failures, 1)
	assert.Equal(t, "projects[0].content", rep.Failures[0].Path)
	assert.False(t, rep.OK())
}

func TestCheckRefs_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rep := CheckRefs(ctx, checkSite(), &mapFetcher{}, 1)
	// every target is either checked and failing or skipped
	assert.Len(t, rep.Failures, 4)
}

func TestOrphans(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "posts"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "papers"), 0o755))
	for _, f := range []string{"posts/b1.md", "posts/draft.md", "papers/p1.md", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("x"), 0o644))
	}
	orphans, err := Orphans(checkSite(), dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"posts/draft.md"}, orphans)
}

func TestTagStats(t *testing.T) {
	s := &content.Site{
		Tags:     []string{"Math", "Unused"},
		Papers:   []content.Paper{{Tags: []string{"Math", "Quantum"}}},
		Projects: []content.Project{{TechStack: []string{"Python", "Math"}}},
		Posts:    []content.BlogPost{{Tags: []string{"Quantum"}}},
	}
	stats := TagStats(s)
	assert.Equal(t, []TagStat{
		{Name: "Math", Count: 2, Known: true},
		{Name: "Quantum", Count: 2},
		{Name: "Python", Count: 1},
		{Name: "Unused", Count: 0, Known: true},
	}, stats)
}
