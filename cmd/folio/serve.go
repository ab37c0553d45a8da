package main

import (
	"context"
	"folio/internal/app"
	"folio/internal/fetch"
	"folio/internal/metrics"
	"folio/internal/page"
	"folio/internal/render"
	"folio/internal/serve"
	"folio/internal/view"
	prom "github.com/prometheus/client_golang/prometheus"
	"os"
	"os/signal"
	"syscall"
)

type ServeCmd struct {
	Addr     string `help:"Listen address, overrides serve.addr"`
	NoReload bool   `name:"no-reload" help:"Disable file watching and browser reload"`
}

func (c *ServeCmd) Run(g *Global) error {
	cfg := g.Cfg
	if c.Addr != "" {
		cfg.Serve.Addr = c.Addr
	}
	if c.NoReload {
		cfg.Serve.LiveReload = false
	}

	tpl, err := view.NewTemplateRenderer(view.ThemeFS(cfg.Build.ThemeDir))
	if err != nil {
		return err
	}

	var (
		rec metrics.Recorder = metrics.NoopRecorder{}
		reg *prom.Registry
	)
	if cfg.Serve.Metrics {
		reg = prom.NewRegistry()
		rec = metrics.NewPrometheusRecorder(reg)
	}

	fetcher, err := fetch.New(cfg.Fetch, cfg.Build.ContentDir)
	if err != nil {
		return err
	}

	s, err := serve.New(serve.Options{
		Cfg:    cfg,
		View:   tpl,
		Static: tpl.Static(),
		Deps: page.Deps{
			Fetcher:  fetcher,
			Renderer: render.New(),
			OnFetch:  app.FetchHook(rec, g.Log),
		},
		Load:     g.loadSite,
		Metrics:  rec,
		Registry: reg,
		Log:      g.Log,
	})
	if err != nil {
		return err
	}
	defer s.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.ListenAndServe(ctx, cfg.Serve.Addr)
}
