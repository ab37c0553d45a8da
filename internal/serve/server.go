// Package serve runs the site over HTTP. Pages are rendered per request
// from one immutable site snapshot; in live-reload mode a file watcher
// swaps the snapshot and tells open browsers to reload.
package serve

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"folio/internal/app"
	"folio/internal/domain/config"
	"folio/internal/domain/content"
	domainerr "folio/internal/domain/errors"
	"folio/internal/domain/site"
	"folio/internal/metrics"
	"folio/internal/page"
	"folio/internal/view"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	prom "github.com/prometheus/client_golang/prometheus"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const reloadDebounce = 200 * time.Millisecond

// Loader reads the site data from disk. It is called at start and on
// every reload.
type Loader func() (*content.Site, error)

type Options struct {
	Cfg      config.Config
	View     view.Renderer
	Static   fs.FS
	Deps     page.Deps
	Load     Loader
	Metrics  metrics.Recorder
	Registry *prom.Registry
	Log      *slog.Logger
}

type Server struct {
	cfg      config.Config
	tpl      view.Renderer
	static   fs.FS
	deps     page.Deps
	load     Loader
	rec      metrics.Recorder
	registry *prom.Registry
	log      *slog.Logger

	mu   sync.RWMutex
	site *content.Site

	sseMu     sync.Mutex
	sseConns  map[chan string]struct{}
	watcher   *fsnotify.Watcher
	watchOnce sync.Once
}

func New(opt Options) (*Server, error) {
	if opt.Load == nil {
		return nil, errors.New("serve: missing loader")
	}
	if opt.Metrics == nil {
		opt.Metrics = metrics.NoopRecorder{}
	}
	if opt.Log == nil {
		opt.Log = slog.Default()
	}
	s := &Server{
		cfg:      opt.Cfg,
		tpl:      opt.View,
		static:   opt.Static,
		deps:     opt.Deps,
		load:     opt.Load,
		rec:      opt.Metrics,
		registry: opt.Registry,
		log:      opt.Log.With("component", "serve"),
		sseConns: make(map[chan string]struct{}),
	}
	snap, err := s.load()
	if err != nil {
		return nil, fmt.Errorf("serve: load site: %w", err)
	}
	s.site = snap
	return s, nil
}

func (s *Server) Close() error {
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Site is the current snapshot. Callers must not modify it.
func (s *Server) Site() *content.Site {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.site
}

func (s *Server) pages() *app.Pages {
	return &app.Pages{
		Cfg:     s.cfg,
		Site:    s.Site(),
		Deps:    s.deps,
		View:    s.tpl,
		Metrics: s.rec,
	}
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.accessLog)
	r.Use(middleware.StripSlashes)

	r.Get("/", s.handleRoute(site.RouteHome))
	r.Route("/research", func(r chi.Router) {
		r.Get("/", s.handleRoute(site.RouteResearch))
		r.Get("/{id}", s.handleRoute(site.RouteResearch))
		r.Post("/{id}/cite", s.handleCite)
	})
	r.Route("/projects", func(r chi.Router) {
		r.Get("/", s.handleRoute(site.RouteProjects))
		r.Get("/{id}", s.handleRoute(site.RouteProjects))
	})
	r.Route("/garden", func(r chi.Router) {
		r.Get("/", s.handleRoute(site.RouteGarden))
		r.Get("/{id}", s.handleRoute(site.RouteGarden))
	})

	if s.static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(s.static)))
	}
	if s.cfg.Serve.LiveReload {
		r.Get("/dev/events", s.handleSSE)
	}
	if s.cfg.Serve.Metrics && s.registry != nil {
		r.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}
	r.NotFound(s.handleFallback)
	return r
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if s.cfg.Serve.LiveReload {
		if err := s.startWatch(ctx); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 支持 ctx 取消
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.log.Info("listening", "addr", addr, "live_reload", s.cfg.Serve.LiveReload)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Reload reads the site again. A failed load keeps the previous snapshot.
func (s *Server) Reload(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		s.rec.IncReload(metrics.ResultCanceled)
		return err
	}
	snap, err := s.load()
	if err != nil {
		s.rec.IncReload(metrics.ResultFailed)
		return fmt.Errorf("serve: reload: %w", err)
	}
	s.mu.Lock()
	s.site = snap
	s.mu.Unlock()

	s.rec.IncReload(metrics.ResultSuccess)
	s.log.Info("site reloaded",
		"papers", len(snap.Papers),
		"projects", len(snap.Projects),
		"posts", len(snap.Posts))
	s.broadcastSSE("reload")
	return nil
}

// watchDirs is the data file's directory and every directory under the
// content directory.
func (s *Server) watchDirs() ([]string, error) {
	dirs := []string{filepath.Dir(s.cfg.Build.DataFile)}
	root := s.cfg.Build.ContentDir
	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return dirs, nil
		}
		return nil, err
	}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	return dirs, err
}

func (s *Server) startWatch(ctx context.Context) error {
	var err error
	s.watchOnce.Do(func() {
		w, e := fsnotify.NewWatcher()
		if e != nil {
			err = e
			return
		}
		s.watcher = w

		dirs, e := s.watchDirs()
		if e != nil {
			err = e
			return
		}
		for _, d := range dirs {
			if e := w.Add(d); e != nil {
				err = fmt.Errorf("serve: watch %s: %w", d, e)
				return
			}
		}
		go s.watchLoop(ctx)
	})
	return err
}

func (s *Server) watchLoop(ctx context.Context) {
	s.log.Debug("watching for file changes")
	debounce := time.NewTimer(time.Hour)
	debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			// 新建的子目录也要监听
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = s.watcher.Add(ev.Name)
				}
			}
			debounce.Reset(reloadDebounce)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watcher error", "err", err)
		case <-debounce.C:
			if err := s.Reload(ctx); err != nil {
				s.log.Error("reload failed, keeping previous content", "err", err)
			}
		}
	}
}

func (s *Server) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan string, 8)

	s.sseMu.Lock()
	s.sseConns[ch] = struct{}{}
	s.sseMu.Unlock()

	defer func() {
		s.sseMu.Lock()
		delete(s.sseConns, ch)
		close(ch)
		s.sseMu.Unlock()
	}()
	fmt.Fprintf(w, "data: %s\n\n", "hello")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg, msg)
			flusher.Flush()
		}
	}
}

func (s *Server) broadcastSSE(msg string) {
	s.sseMu.Lock()
	defer s.sseMu.Unlock()
	for ch := range s.sseConns {
		select {
		case ch <- msg:
		default:
		}
	}
}

func (s *Server) handleRoute(kind site.RouteKind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		rt := site.Route{Kind: kind, ID: id, Path: r.URL.Path}
		out, err := s.pages().Render(r.Context(), rt)
		switch {
		case errors.Is(err, domainerr.ErrNotFound):
			s.handleNotFound(w, r)
			return
		case errors.Is(err, context.Canceled):
			// 客户端断开
			return
		case err != nil:
			s.log.Error("render failed", "route", rt.String(), "err", err)
			http.Error(w, "render error", http.StatusInternalServerError)
			return
		}
		writeHTML(w, out)
	}
}

// bufferClipboard collects the copied citation for the response body.
type bufferClipboard struct {
	bytes.Buffer
}

func (b *bufferClipboard) WriteText(text string) error {
	_, err := b.WriteString(text)
	return err
}

func (s *Server) handleCite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctl := page.NewResearch(s.Site(), s.deps)
	var cb bufferClipboard
	if _, err := ctl.CopyCitation(id, &cb); err != nil {
		if errors.Is(err, domainerr.ErrNotFound) {
			http.Error(w, "unknown paper", http.StatusNotFound)
			return
		}
		s.log.Error("citation failed", "id", id, "err", err)
		http.Error(w, "citation error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write(cb.Bytes())
}

// handleFallback serves files from the content directory (uploads,
// markdown) and the not-found page for everything else.
func (s *Server) handleFallback(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		if full, ok := s.contentFile(r.URL.Path); ok {
			http.ServeFile(w, r, full)
			return
		}
	}
	s.handleNotFound(w, r)
}

func (s *Server) contentFile(urlPath string) (string, bool) {
	rel := strings.TrimPrefix(path.Clean("/"+urlPath), "/")
	if rel == "" || !fs.ValidPath(rel) {
		return "", false
	}
	full := filepath.Join(s.cfg.Build.ContentDir, filepath.FromSlash(rel))
	info, err := os.Stat(full)
	if err != nil || info.IsDir() {
		return "", false
	}
	return full, true
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	out, err := s.pages().NotFound(r.Context(), r.URL.Path)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(out)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

func writeHTML(w http.ResponseWriter, data []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(data)
}
