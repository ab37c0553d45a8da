// Package page holds the per-route controllers: the list/detail state
// machine shared by Research, Projects and Garden, the composed home view
// and the navigation shell.
package page

import (
	"context"
	"folio/internal/domain/content"
	"folio/internal/fetch"
	"folio/internal/ingest"
	"folio/internal/render"
	"sync"
)

const (
	NoticeEmpty       = "Nothing here yet."
	NoticeRenderError = "Error rendering content."
	GardenFetchError  = "Error loading post content. Please check if the markdown file exists."
	FetchError        = "Error loading content."
)

// DetailState is one immutable snapshot of a list/detail page. The zero
// value is the list view.
type DetailState[T content.Item] struct {
	Item    T
	Open    bool
	Loading bool
	// Text is the markdown to render once loading has finished.
	Text string
	// Notice replaces the document (fetch failure, empty reference).
	Notice string
	Seq    uint64
}

func (s DetailState[T]) Settled() bool { return !s.Loading }

// FetchHook observes every completed fetch, stale ones included.
type FetchHook func(ref string, err error)

// Detail drives one list/detail page. Each selection gets a sequence number;
// a fetch result is applied only while its number is still current, and a
// superseded fetch has its context cancelled.
type Detail[T content.Item] struct {
	fetcher fetch.Fetcher
	errText string
	onFetch FetchHook

	mu      sync.Mutex
	state   DetailState[T]
	seq     uint64
	cancel  context.CancelFunc
	settled chan struct{}
}

func NewDetail[T content.Item](f fetch.Fetcher, errText string, hook FetchHook) *Detail[T] {
	return &Detail[T]{
		fetcher: f,
		errText: errText,
		onFetch: hook,
		settled: closedChan(),
	}
}

func closedChan() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

func (d *Detail[T]) State() DetailState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Select opens item. Remote references start an asynchronous fetch and the
// returned state is Loading; inline text and empty references settle
// immediately.
func (d *Detail[T]) Select(ctx context.Context, item T) DetailState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.supersede()
	d.seq++
	ref := item.ContentRef()
	next := DetailState[T]{Item: item, Open: true, Seq: d.seq}

	switch {
	case ref.Remote():
		next.Loading = true
		fctx, cancel := context.WithCancel(ctx)
		done := make(chan struct{})
		d.cancel, d.settled = cancel, done
		go d.load(fctx, d.seq, ref.Path(), done)
	case ref.Empty():
		next.Notice = NoticeEmpty
		d.settled = closedChan()
	default:
		next.Text = ref.String()
		d.settled = closedChan()
	}
	d.state = next
	return next
}

func (d *Detail[T]) load(ctx context.Context, seq uint64, ref string, done chan struct{}) {
	defer close(done)
	text, err := d.fetcher.Fetch(ctx, ref)
	if d.onFetch != nil {
		d.onFetch(ref, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.seq {
		// 过期结果丢弃
		return
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	next := d.state
	next.Loading = false
	if err != nil {
		next.Notice = d.errText
	} else {
		next.Text = ingest.StripFrontMatter(text)
	}
	d.state = next
}

// Back returns to the list view. Calling it again is a no-op.
func (d *Detail[T]) Back() DetailState[T] {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.state.Open {
		return d.state
	}
	d.supersede()
	d.seq++
	d.state = DetailState[T]{}
	d.settled = closedChan()
	return d.state
}

func (d *Detail[T]) supersede() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Await blocks until the current selection has settled or ctx is done.
func (d *Detail[T]) Await(ctx context.Context) (DetailState[T], error) {
	d.mu.Lock()
	done := d.settled
	d.mu.Unlock()

	select {
	case <-done:
		return d.State(), nil
	case <-ctx.Done():
		return d.State(), ctx.Err()
	}
}

// DetailView is what a template needs to draw the detail body.
type DetailView[T content.Item] struct {
	Item    T
	Loading bool
	Notice  string
	Doc     render.Document
}

// Present renders the settled text of st. Renderer failures degrade to a
// notice, the rest of the page is unaffected.
func Present[T content.Item](st DetailState[T], r *render.MarkdownRenderer) *DetailView[T] {
	if !st.Open {
		return nil
	}
	v := &DetailView[T]{Item: st.Item, Loading: st.Loading, Notice: st.Notice}
	if st.Loading || st.Notice != "" {
		return v
	}
	doc, err := r.Render(st.Text)
	if err != nil {
		v.Notice = NoticeRenderError
		return v
	}
	v.Doc = doc
	return v
}
