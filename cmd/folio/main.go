package main

import (
	"errors"
	"fmt"
	domainerr "folio/internal/domain/errors"
	"github.com/alecthomas/kong"
	"os"
)

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("folio"),
		kong.Description("Personal academic portfolio: serve, export and inspect the site."),
		kong.UsageOnError(),
	)

	g, err := cli.Setup(os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		if errors.Is(err, domainerr.ErrInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}

	if err := kctx.Run(g); err != nil {
		g.Log.Error("command failed", "command", kctx.Command(), "err", err)
		if errors.Is(err, domainerr.ErrInvalid) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
