package main

import (
	"fmt"
	"folio/internal/domain/config"
	"folio/internal/domain/content"
	"folio/internal/ingest"
	"github.com/joho/godotenv"
	"io"
	"log/slog"
	"os"
)

// Global is what every command's Run receives.
type Global struct {
	Cfg config.Config
	Log *slog.Logger
	Out io.Writer
}

type CLI struct {
	Config  string `short:"c" help:"Configuration file path" default:"site.yaml"`
	EnvFile string `name:"env-file" help:"Dotenv file read before the config" default:".env"`
	Verbose bool   `short:"v" help:"Enable debug logging"`

	Serve ServeCmd `cmd:"" help:"Serve the site with live reload"`
	Build BuildCmd `cmd:"" help:"Export the site as static files"`
	Cards CardsCmd `cmd:"" help:"Print the homepage recent list and featured entry"`
	Cite  CiteCmd  `cmd:"" help:"Print the citation of a paper"`
	Check CheckCmd `cmd:"" help:"Validate the data file and every content reference"`
	Tags  TagsCmd  `cmd:"" help:"List tags with usage counts"`
	Post  PostCmd  `cmd:"" help:"Manage garden posts"`
}

// Setup loads .env and the config file, applies the environment and
// builds the logger. Invalid configuration wraps errors.ErrInvalid.
func (c *CLI) Setup(out io.Writer) (*Global, error) {
	if c.EnvFile != "" {
		if err := godotenv.Load(c.EnvFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("load %s: %w", c.EnvFile, err)
		}
	}

	cfg, err := config.LoadOrDefault(c.Config)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", c.Config, err)
	}
	cfg.ApplyEnv(os.Getenv)
	if c.Verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", c.Config, err)
	}

	logger := newLogger(cfg.Log, os.Stderr)
	slog.SetDefault(logger)
	return &Global{Cfg: cfg, Log: logger, Out: out}, nil
}

func newLogger(lc config.LogConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.SlogLevel()}
	if lc.Format == config.LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// loadSite reads the data file and logs its lint warnings.
func (g *Global) loadSite() (*content.Site, error) {
	res, err := ingest.Load(g.Cfg.Build.DataFile)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		g.Log.Warn("data file", "path", w.Path, "msg", w.Msg)
	}
	return res.Site, nil
}
