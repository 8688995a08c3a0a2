package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/swdee/go-annotate/internal/cli"
)

const version = "0.1.0"

func main() {
	root := cli.NewRootCmd()

	// fang adds completions, manpages and --version, interrupts cancel the
	// command context so running workers stop handing out images
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
