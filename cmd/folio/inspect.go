package main

import (
	"context"
	"errors"
	"fmt"
	"folio/internal/aggregate"
	domainerr "folio/internal/domain/errors"
	"folio/internal/fetch"
	"folio/internal/ingest"
	"folio/internal/page"
	"text/tabwriter"
)

type CardsCmd struct{}

func (c *CardsCmd) Run(g *Global) error {
	site, err := g.loadSite()
	if err != nil {
		return err
	}
	hp := aggregate.Resolve(site)

	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RECENT\tTYPE\tID\tDATE\tTITLE")
	for i, card := range hp.Recent {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, card.Type, card.ID, card.DateLabel, card.Title)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if hp.Featured.Empty() {
		fmt.Fprintln(g.Out, "featured: none")
		return nil
	}
	f := hp.Featured
	fmt.Fprintf(g.Out, "featured: %s %s %q (%s)\n", f.Card.Type, f.Card.ID, f.Card.Title, f.Source)
	return nil
}

type CiteCmd struct {
	ID string `arg:"" help:"Paper id"`
}

func (c *CiteCmd) Run(g *Global) error {
	site, err := g.loadSite()
	if err != nil {
		return err
	}
	p, ok := site.Paper(c.ID)
	if !ok {
		return fmt.Errorf("paper %q: %w", c.ID, domainerr.ErrNotFound)
	}
	fmt.Fprintln(g.Out, page.Citation(p))
	return nil
}

var errBrokenRefs = errors.New("broken content references")

type CheckCmd struct {
	Workers int  `help:"Concurrent fetches (0 = one per CPU)" default:"0"`
	Orphans bool `help:"Also list markdown files no entry references"`
}

func (c *CheckCmd) Run(g *Global) error {
	site, err := g.loadSite()
	if err != nil {
		return err
	}
	f, err := fetch.New(g.Cfg.Fetch, g.Cfg.Build.ContentDir)
	if err != nil {
		return err
	}
	report := ingest.CheckRefs(context.Background(), site, f, c.Workers)
	for _, r := range report.Failures {
		fmt.Fprintf(g.Out, "FAIL %s %s: %v\n", r.Path, r.Ref, r.Err)
	}
	fmt.Fprintf(g.Out, "%d references checked, %d failed\n", report.Checked, len(report.Failures))

	if c.Orphans {
		orphans, err := ingest.Orphans(site, g.Cfg.Build.ContentDir)
		if err != nil {
			return err
		}
		for _, o := range orphans {
			fmt.Fprintf(g.Out, "orphan %s\n", o)
		}
	}
	if !report.OK() {
		return errBrokenRefs
	}
	return nil
}

type TagsCmd struct{}

func (c *TagsCmd) Run(g *Global) error {
	site, err := g.loadSite()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(g.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TAG\tCOUNT\t")
	for _, t := range ingest.TagStats(site) {
		mark := ""
		if !t.Known {
			mark = "not in catalog"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", t.Name, t.Count, mark)
	}
	return tw.Flush()
}
