package main

import (
	"fmt"
	"folio/internal/ingest"
	"os"
	"time"
)

type PostCmd struct {
	New PostNewCmd `cmd:"" help:"Add a garden post from a markdown file"`
}

type PostNewCmd struct {
	Body    string   `arg:"" type:"existingfile" help:"Markdown body (front matter may fill the fields below)"`
	Title   string   `short:"t" help:"Post title"`
	Date    string   `short:"d" help:"Display date, defaults to today"`
	Excerpt string   `short:"e" help:"Short summary shown on the list"`
	Tags    []string `help:"Comma separated tags" sep:","`
	PDF     string   `name:"pdf" help:"PDF attachment link"`
}

func (c *PostNewCmd) Run(g *Global) error {
	body, err := os.ReadFile(c.Body)
	if err != nil {
		return err
	}
	created, err := ingest.CreatePost(g.Cfg.Build.DataFile, g.Cfg.Build.ContentDir, ingest.NewPost{
		Title:         c.Title,
		Date:          c.Date,
		Excerpt:       c.Excerpt,
		Tags:          c.Tags,
		PDFAttachment: c.PDF,
		Body:          body,
	}, time.Now())
	if err != nil {
		return err
	}
	g.Log.Info("post created", "id", created.Post.ID, "file", created.File)
	fmt.Fprintf(g.Out, "%s %s\n", created.Post.ID, created.Post.Content)
	return nil
}
