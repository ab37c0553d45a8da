package main

import (
	"context"
	"fmt"
	"folio/internal/app"
	"folio/internal/build"
	"folio/internal/fetch"
	"folio/internal/metrics"
	"folio/internal/page"
	"folio/internal/render"
	"folio/internal/view"
	"os"
	"os/signal"
	"syscall"
)

type BuildCmd struct {
	Output  string `short:"o" help:"Output directory, overrides build.public_dir"`
	Force   bool   `short:"f" help:"Rewrite every file even when unchanged"`
	Workers int    `help:"Pages rendered in parallel (0 = one per CPU)" default:"0"`
}

func (c *BuildCmd) Run(g *Global) error {
	cfg := g.Cfg
	if c.Output != "" {
		cfg.Build.PublicDir = c.Output
	}
	// 静态导出里不需要热更新脚本
	cfg.Serve.LiveReload = false

	site, err := g.loadSite()
	if err != nil {
		return err
	}
	theme := view.ThemeFS(cfg.Build.ThemeDir)
	tpl, err := view.NewTemplateRenderer(theme)
	if err != nil {
		return err
	}

	fetcher, err := fetch.New(cfg.Fetch, cfg.Build.ContentDir)
	if err != nil {
		return err
	}

	rec := metrics.NoopRecorder{}
	b := &build.Builder{
		Cfg:  cfg,
		Site: site,
		Pages: &app.Pages{
			Cfg:  cfg,
			Site: site,
			Deps: page.Deps{
				Fetcher:  fetcher,
				Renderer: render.New(),
				OnFetch:  app.FetchHook(rec, g.Log),
			},
			View:    tpl,
			Metrics: rec,
		},
		Theme:   theme,
		Metrics: rec,
		Log:     g.Log,
		Workers: c.Workers,
		Force:   c.Force,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	res, err := b.Run(ctx)
	if err != nil {
		return err
	}
	if res.UpToDate {
		fmt.Fprintf(g.Out, "%s is up to date\n", cfg.Build.PublicDir)
		return nil
	}
	fmt.Fprintf(g.Out, "build #%d: %d pages, %d assets, %d written, %d unchanged, %d removed -> %s\n",
		res.Build, res.Routes, res.Assets, res.Written, res.Skipped, res.Removed, cfg.Build.PublicDir)
	return nil
}
